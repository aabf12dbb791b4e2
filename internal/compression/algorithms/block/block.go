// Package block shards an input into fixed-size blocks and codes each one as
// an independent huffman stream with its own header.
//
// Layout: a big-endian uint32 block count, then per block a big-endian
// uint32 length followed by that many bytes of huffman stream.
package block

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"runtime"

	"github.com/adilg123/huffman-compression-tool/internal/compression/algorithms/huffman"
	"golang.org/x/sync/errgroup"
)

const DefaultSize = 1 << 20

// smallest possible frame: a length prefix and an empty-stream header
const minFrameSize = 4 + 11

type Options struct {
	Size    int
	Workers int
}

func (o Options) withDefaults() Options {
	if o.Size <= 0 {
		o.Size = DefaultSize
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return o
}

func Encode(ctx context.Context, c *huffman.Codec, data []byte, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	var chunks [][]byte
	for off := 0; off < len(data); off += opts.Size {
		chunks = append(chunks, data[off:min(off+opts.Size, len(data))])
	}

	frames := make([][]byte, len(chunks))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range chunks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			frame, err := c.Encode(chunks[i])
			if err != nil {
				return err
			}
			frames[i] = frame
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	var word [4]byte
	binary.BigEndian.PutUint32(word[:], uint32(len(frames)))
	out.Write(word[:])
	for _, frame := range frames {
		binary.BigEndian.PutUint32(word[:], uint32(len(frame)))
		out.Write(word[:])
		out.Write(frame)
	}
	return out.Bytes(), nil
}

func Decode(ctx context.Context, c *huffman.Codec, data []byte, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	frames, err := splitFrames(data)
	if err != nil {
		return nil, err
	}

	blocks := make([][]byte, len(frames))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range frames {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			block, err := c.Decode(frames[i])
			if err != nil {
				return err
			}
			blocks[i] = block
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bytes.Join(blocks, nil), nil
}

func splitFrames(data []byte) ([][]byte, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: block count truncated", huffman.ErrCorruptStream)
	}
	count := binary.BigEndian.Uint32(data)
	data = data[4:]
	if uint64(count)*minFrameSize > uint64(len(data)) {
		return nil, fmt.Errorf("%w: %d blocks cannot fit in %d bytes", huffman.ErrCorruptStream, count, len(data))
	}
	frames := make([][]byte, 0, count)
	for i := uint32(0); i < count; i++ {
		if len(data) < 4 {
			return nil, fmt.Errorf("%w: block %d length truncated", huffman.ErrCorruptStream, i)
		}
		n := binary.BigEndian.Uint32(data)
		data = data[4:]
		if uint64(n) > uint64(len(data)) {
			return nil, fmt.Errorf("%w: block %d overruns the stream", huffman.ErrCorruptStream, i)
		}
		frames = append(frames, data[:n])
		data = data[n:]
	}
	if len(data) != 0 {
		return nil, fmt.Errorf("%w: %d bytes after the last block", huffman.ErrCorruptStream, len(data))
	}
	return frames, nil
}
