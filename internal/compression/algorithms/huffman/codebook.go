package huffman

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/duke-git/lancet/v2/slice"
)

// Code is a bit sequence written as '0' and '1' characters.
type Code string

// Entry pairs a symbol with its code.
type Entry struct {
	Symbol byte
	Code   Code
}

type decodeNode struct {
	symbol      byte
	isLeaf      bool
	left, right *decodeNode
}

// CodeBook maps symbols to codes and keeps the decode tree built from the
// same codes, so a book parsed from a stream header decodes exactly like
// the one that produced it.
type CodeBook struct {
	codes [256]Code
	size  int
	root  *decodeNode
}

// NewCodeBook builds the Huffman tree for ft and derives a code book from it.
func NewCodeBook(ft *FrequencyTable) (*CodeBook, error) {
	return codeBookFromTree(buildTree(ft))
}

func codeBookFromTree(tree huffmanTree) (*CodeBook, error) {
	cb := &CodeBook{root: &decodeNode{}}
	if tree == nil {
		return cb, nil
	}
	symbolEnc := make(map[byte]Code)
	getSymbolEncoding(tree, symbolEnc, []byte{})
	for symbol := 0; symbol < 256; symbol++ {
		code, ok := symbolEnc[byte(symbol)]
		if !ok {
			continue
		}
		if err := cb.add(byte(symbol), code); err != nil {
			return nil, err
		}
	}
	return cb, nil
}

func (cb *CodeBook) add(symbol byte, code Code) error {
	if len(code) == 0 || len(code) > 255 {
		return corruptf("code length %d for symbol 0x%02x", len(code), symbol)
	}
	if cb.codes[symbol] != "" {
		return corruptf("duplicate symbol 0x%02x", symbol)
	}
	node := cb.root
	for i := 0; i < len(code); i++ {
		if node.isLeaf {
			return corruptf("code %s for symbol 0x%02x extends another code", code, symbol)
		}
		next := &node.left
		switch code[i] {
		case '0':
		case '1':
			next = &node.right
		default:
			return corruptf("invalid bit %q in code for symbol 0x%02x", code[i], symbol)
		}
		if *next == nil {
			*next = &decodeNode{}
		}
		node = *next
	}
	if node.isLeaf || node.left != nil || node.right != nil {
		return corruptf("code %s for symbol 0x%02x is a prefix of another code", code, symbol)
	}
	node.isLeaf = true
	node.symbol = symbol
	cb.codes[symbol] = code
	cb.size++
	return nil
}

// Encode returns the code for symbol.
func (cb *CodeBook) Encode(symbol byte) (Code, error) {
	code := cb.codes[symbol]
	if code == "" {
		return "", fmt.Errorf("%w: 0x%02x", ErrUnknownSymbol, symbol)
	}
	return code, nil
}

// Len returns the number of symbols with a code.
func (cb *CodeBook) Len() int {
	return cb.size
}

// Entries returns every (symbol, code) pair in ascending symbol order.
func (cb *CodeBook) Entries() []Entry {
	entries := make([]Entry, 0, cb.size)
	for symbol, code := range cb.codes {
		if code != "" {
			entries = append(entries, Entry{Symbol: byte(symbol), Code: code})
		}
	}
	return entries
}

func (cb *CodeBook) Symbols() []byte {
	return slice.Map(cb.Entries(), func(_ int, e Entry) byte { return e.Symbol })
}

// ExpectedBits is the payload length in bits when ft is encoded with cb.
func (cb *CodeBook) ExpectedBits(ft *FrequencyTable) uint64 {
	var total uint64
	for _, symbol := range ft.order {
		total += ft.counts[symbol] * uint64(len(cb.codes[symbol]))
	}
	return total
}

// MarshalBinary writes the code table: a big-endian uint16 entry count, then
// per entry the symbol, the code length in bits and the code bits packed
// MSB-first.
func (cb *CodeBook) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	var count [2]byte
	binary.BigEndian.PutUint16(count[:], uint16(cb.size))
	buf.Write(count[:])
	for _, e := range cb.Entries() {
		p := NewBitPacker()
		if err := p.WriteCode(e.Code); err != nil {
			return nil, err
		}
		packed, _, err := p.Pack()
		if err != nil {
			return nil, err
		}
		buf.WriteByte(e.Symbol)
		buf.WriteByte(byte(len(e.Code)))
		buf.Write(packed)
	}
	return buf.Bytes(), nil
}

// ParseCodeBook reads a code table written by MarshalBinary from the front of
// data and reports how many bytes it used.
func ParseCodeBook(data []byte) (*CodeBook, int, error) {
	if len(data) < 2 {
		return nil, 0, corruptf("code table length truncated")
	}
	count := int(binary.BigEndian.Uint16(data))
	if count > 256 {
		return nil, 0, corruptf("code table length %d exceeds 256", count)
	}
	cb := &CodeBook{root: &decodeNode{}}
	off := 2
	for i := 0; i < count; i++ {
		if len(data)-off < 2 {
			return nil, 0, corruptf("code table entry %d truncated", i)
		}
		symbol, bitLen := data[off], int(data[off+1])
		off += 2
		if bitLen == 0 {
			return nil, 0, corruptf("zero-length code for symbol 0x%02x", symbol)
		}
		n := (bitLen + 7) / 8
		if len(data)-off < n {
			return nil, 0, corruptf("code bits for symbol 0x%02x truncated", symbol)
		}
		bits, err := UnpackBits(data[off:off+n], Padding(uint64(bitLen)))
		if err != nil {
			return nil, 0, err
		}
		off += n
		code := make([]byte, len(bits))
		for j, bit := range bits {
			code[j] = '0'
			if bit {
				code[j] = '1'
			}
		}
		if err := cb.add(symbol, Code(code)); err != nil {
			return nil, 0, err
		}
	}
	return cb, off, nil
}

// SymbolDecoder walks the decode tree one bit at a time.
type SymbolDecoder struct {
	root, cur *decodeNode
}

func (cb *CodeBook) Decoder() *SymbolDecoder {
	return &SymbolDecoder{root: cb.root, cur: cb.root}
}

// Next consumes one bit. When the bit completes a code it returns the symbol
// with ok set and the walk restarts at the root.
func (d *SymbolDecoder) Next(bit bool) (symbol byte, ok bool, err error) {
	next := d.cur.left
	if bit {
		next = d.cur.right
	}
	if next == nil {
		return 0, false, corruptf("bit sequence matches no code")
	}
	if next.isLeaf {
		d.cur = d.root
		return next.symbol, true, nil
	}
	d.cur = next
	return 0, false, nil
}

// Pending reports whether bits of an unfinished code have been consumed.
func (d *SymbolDecoder) Pending() bool {
	return d.cur != d.root
}
