package huffman

import (
	"bytes"
	"encoding/binary"
)

// minHeaderSize covers the padding byte, an empty code table and the symbol count.
const minHeaderSize = 1 + 2 + 8

// Header is the self-describing prefix of a compressed stream.
type Header struct {
	Padding     uint8
	CodeBook    *CodeBook
	SymbolCount uint64
	// Size is the header length in bytes; the payload starts right after it.
	Size int
}

func writeHeader(buf *bytes.Buffer, padding uint8, cb *CodeBook, symbolCount uint64) error {
	table, err := cb.MarshalBinary()
	if err != nil {
		return err
	}
	buf.WriteByte(padding)
	buf.Write(table)
	var count [8]byte
	binary.BigEndian.PutUint64(count[:], symbolCount)
	buf.Write(count[:])
	return nil
}

func parseHeader(data []byte) (*Header, error) {
	if len(data) < minHeaderSize {
		return nil, corruptf("stream of %d bytes is shorter than the minimum header", len(data))
	}
	padding := data[0]
	if padding > 7 {
		return nil, corruptf("padding count %d out of range", padding)
	}
	cb, n, err := ParseCodeBook(data[1:])
	if err != nil {
		return nil, err
	}
	off := 1 + n
	if len(data)-off < 8 {
		return nil, corruptf("symbol count truncated")
	}
	return &Header{
		Padding:     padding,
		CodeBook:    cb,
		SymbolCount: binary.BigEndian.Uint64(data[off:]),
		Size:        off + 8,
	}, nil
}

// Inspect parses and returns the header of a compressed stream without
// decoding the payload.
func Inspect(data []byte) (*Header, error) {
	return parseHeader(data)
}
