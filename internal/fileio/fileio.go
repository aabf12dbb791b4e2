// Package fileio reads whole inputs from files and writes whole outputs
// back, so the codec only ever sees byte slices.
package fileio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adilg123/huffman-compression-tool/internal/compression/algorithms/huffman"
	pb "github.com/cheggaaa/pb/v3"
)

// Source reads a whole file, optionally drawing a progress bar on Progress.
type Source struct {
	Path     string
	Progress io.Writer
}

func (s Source) ReadAll() ([]byte, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", huffman.ErrIO, s.Path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if s.Progress != nil {
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("%w: stat %s: %w", huffman.ErrIO, s.Path, err)
		}
		bar := pb.New64(info.Size())
		bar.Set(pb.Bytes, true)
		bar.SetWriter(s.Progress)
		bar.Start()
		defer bar.Finish()
		r = bar.NewProxyReader(f)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", huffman.ErrIO, s.Path, err)
	}
	return data, nil
}

// Sink writes a whole file atomically: data goes to a temporary file in the
// target directory which is renamed over Path only after a successful write.
type Sink struct {
	Path string
	Mode os.FileMode
}

func (s Sink) WriteAll(data []byte) (err error) {
	mode := s.Mode
	if mode == 0 {
		mode = 0o644
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.Path), "."+filepath.Base(s.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp for %s: %w", huffman.ErrIO, s.Path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("%w: write %s: %w", huffman.ErrIO, s.Path, err)
	}
	if err = tmp.Chmod(mode); err != nil {
		return fmt.Errorf("%w: chmod %s: %w", huffman.ErrIO, s.Path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %w", huffman.ErrIO, s.Path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", huffman.ErrIO, s.Path, err)
	}
	if err = os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("%w: rename to %s: %w", huffman.ErrIO, s.Path, err)
	}
	return nil
}
