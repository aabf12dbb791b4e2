package huffman

import (
	"bytes"
	"errors"
	"io"

	"github.com/icza/bitio"
)

// Padding returns the number of zero bits needed to fill the last byte of a
// stream holding totalBits bits.
func Padding(totalBits uint64) uint8 {
	return uint8((8 - totalBits%8) % 8)
}

// BitPacker packs bits most-significant-bit first into bytes.
type BitPacker struct {
	buf    bytes.Buffer
	w      *bitio.Writer
	bits   uint64
	packed bool
}

func NewBitPacker() *BitPacker {
	p := new(BitPacker)
	p.w = bitio.NewWriter(&p.buf)
	return p
}

func (p *BitPacker) WriteBit(bit bool) error {
	if p.packed {
		return errors.New("huffman: write to packed bit packer")
	}
	if err := p.w.WriteBool(bit); err != nil {
		return err
	}
	p.bits++
	return nil
}

func (p *BitPacker) WriteCode(code Code) error {
	for i := 0; i < len(code); i++ {
		if err := p.WriteBit(code[i] == '1'); err != nil {
			return err
		}
	}
	return nil
}

// Bits returns the number of bits written so far, padding excluded.
func (p *BitPacker) Bits() uint64 {
	return p.bits
}

// Pack flushes the final partial byte, right-padded with zeros, and returns
// the packed bytes together with the padding count.
func (p *BitPacker) Pack() ([]byte, uint8, error) {
	if !p.packed {
		p.packed = true
		if err := p.w.Close(); err != nil {
			return nil, 0, err
		}
	}
	return p.buf.Bytes(), Padding(p.bits), nil
}

// PackBits packs a whole bit sequence at once.
func PackBits(bits []bool) ([]byte, uint8, error) {
	p := NewBitPacker()
	for _, bit := range bits {
		if err := p.WriteBit(bit); err != nil {
			return nil, 0, err
		}
	}
	return p.Pack()
}

// BitReader yields the bits of a packed payload, stopping before the padding.
type BitReader struct {
	r         *bitio.Reader
	remaining uint64
}

func NewBitReader(payload []byte, padding uint8) (*BitReader, error) {
	if padding > 7 {
		return nil, corruptf("padding count %d out of range", padding)
	}
	if len(payload) == 0 && padding != 0 {
		return nil, corruptf("padding count %d with empty payload", padding)
	}
	return &BitReader{
		r:         bitio.NewReader(bytes.NewReader(payload)),
		remaining: uint64(len(payload))*8 - uint64(padding),
	}, nil
}

// ReadBit returns io.EOF once every non-padding bit has been read.
func (br *BitReader) ReadBit() (bool, error) {
	if br.remaining == 0 {
		return false, io.EOF
	}
	bit, err := br.r.ReadBool()
	if err != nil {
		return false, corruptf("payload ended early: %v", err)
	}
	br.remaining--
	return bit, nil
}

func (br *BitReader) Remaining() uint64 {
	return br.remaining
}

// UnpackBits expands payload into its bit sequence minus the trailing padding.
func UnpackBits(payload []byte, padding uint8) ([]bool, error) {
	br, err := NewBitReader(payload, padding)
	if err != nil {
		return nil, err
	}
	bits := make([]bool, 0, br.Remaining())
	for {
		bit, err := br.ReadBit()
		if errors.Is(err, io.EOF) {
			return bits, nil
		}
		if err != nil {
			return nil, err
		}
		bits = append(bits, bit)
	}
}
