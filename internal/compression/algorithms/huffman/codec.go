package huffman

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// State is a step of an encode or decode pass.
type State int

const (
	StateIdle State = iota
	StateFrequencyCounted
	StateTreeBuilt
	StateEncoding
	StateHeaderParsed
	StateTreeRebuilt
	StateDecoding
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFrequencyCounted:
		return "frequency-counted"
	case StateTreeBuilt:
		return "tree-built"
	case StateEncoding:
		return "encoding"
	case StateHeaderParsed:
		return "header-parsed"
	case StateTreeRebuilt:
		return "tree-rebuilt"
	case StateDecoding:
		return "decoding"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Codec runs whole-buffer encode and decode passes. It holds no per-pass
// state and is safe for concurrent use.
type Codec struct {
	logger zerolog.Logger
}

type Option func(*Codec)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Codec) {
		c.logger = logger
	}
}

func New(opts ...Option) *Codec {
	c := &Codec{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCodec = New()

// Encode compresses data with a silent codec.
func Encode(data []byte) ([]byte, error) {
	return defaultCodec.Encode(data)
}

// Decode decompresses data with a silent codec.
func Decode(data []byte) ([]byte, error) {
	return defaultCodec.Decode(data)
}

func (c *Codec) transition(op string, from, to State) State {
	c.logger.Trace().Str("operation", op).Stringer("from", from).Stringer("to", to).Msg("codec state")
	return to
}

func (c *Codec) Encode(data []byte) ([]byte, error) {
	state := StateIdle
	ft := NewFrequencyTable(data)
	state = c.transition("encode", state, StateFrequencyCounted)

	tree := buildTree(ft)
	state = c.transition("encode", state, StateTreeBuilt)

	cb, err := codeBookFromTree(tree)
	if err != nil {
		return nil, err
	}
	state = c.transition("encode", state, StateEncoding)

	packer := NewBitPacker()
	for _, b := range data {
		code, err := cb.Encode(b)
		if err != nil {
			return nil, err
		}
		if err := packer.WriteCode(code); err != nil {
			return nil, err
		}
	}
	payload, padding, err := packer.Pack()
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := writeHeader(&out, padding, cb, uint64(len(data))); err != nil {
		return nil, err
	}
	out.Write(payload)
	c.transition("encode", state, StateDone)

	c.logger.Debug().
		Int("input_bytes", len(data)).
		Int("output_bytes", out.Len()).
		Int("symbols", cb.Len()).
		Uint64("payload_bits", packer.Bits()).
		Uint8("padding", padding).
		Msg("encoded")
	return out.Bytes(), nil
}

func (c *Codec) Decode(data []byte) ([]byte, error) {
	state := StateIdle
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	state = c.transition("decode", state, StateHeaderParsed)

	payload := data[h.Size:]
	cb := h.CodeBook
	if h.SymbolCount == 0 {
		if cb.Len() != 0 || len(payload) != 0 || h.Padding != 0 {
			return nil, corruptf("empty stream carries a code table or payload")
		}
		c.transition("decode", state, StateDone)
		return []byte{}, nil
	}
	if cb.Len() == 0 {
		return nil, corruptf("%d symbols with an empty code table", h.SymbolCount)
	}
	state = c.transition("decode", state, StateTreeRebuilt)

	br, err := NewBitReader(payload, h.Padding)
	if err != nil {
		return nil, err
	}
	// every symbol costs at least one bit
	if h.SymbolCount > br.Remaining() {
		return nil, corruptf("%d symbols cannot fit in %d payload bits", h.SymbolCount, br.Remaining())
	}
	state = c.transition("decode", state, StateDecoding)

	out := make([]byte, 0, h.SymbolCount)
	dec := cb.Decoder()
	for uint64(len(out)) < h.SymbolCount {
		bit, err := br.ReadBit()
		if errors.Is(err, io.EOF) {
			return nil, corruptf("payload ended after %d of %d symbols", len(out), h.SymbolCount)
		}
		if err != nil {
			return nil, err
		}
		symbol, ok, err := dec.Next(bit)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, symbol)
		}
	}
	if br.Remaining() != 0 {
		return nil, corruptf("%d unused payload bits", br.Remaining())
	}
	c.transition("decode", state, StateDone)

	c.logger.Debug().
		Int("input_bytes", len(data)).
		Int("output_bytes", len(out)).
		Int("symbols", cb.Len()).
		Msg("decoded")
	return out, nil
}

// EncodeStream reads all of r, encodes it and writes the result to w.
func (c *Codec) EncodeStream(r io.Reader, w io.Writer) error {
	return c.stream(r, w, c.Encode)
}

// DecodeStream reads all of r, decodes it and writes the result to w.
// Nothing is written when decoding fails.
func (c *Codec) DecodeStream(r io.Reader, w io.Writer) error {
	return c.stream(r, w, c.Decode)
}

func (c *Codec) stream(r io.Reader, w io.Writer, run func([]byte) ([]byte, error)) error {
	in, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: read input: %w", ErrIO, err)
	}
	out, err := run(in)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("%w: write output: %w", ErrIO, err)
	}
	return nil
}
