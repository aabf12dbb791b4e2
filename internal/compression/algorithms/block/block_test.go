package block

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/adilg123/huffman-compression-tool/internal/compression/algorithms/huffman"
)

func TestBlockRoundTrip(t *testing.T) {
	c := huffman.New()
	input := bytes.Repeat([]byte("blocks are coded independently. "), 100)
	for _, size := range []int{1, 7, 64, 1000, len(input), 0} {
		encoded, err := Encode(context.Background(), c, input, Options{Size: size, Workers: 3})
		if err != nil {
			t.Fatalf("size %d: encode: %v", size, err)
		}
		decoded, err := Decode(context.Background(), c, encoded, Options{Workers: 2})
		if err != nil {
			t.Fatalf("size %d: decode: %v", size, err)
		}
		if !bytes.Equal(decoded, input) {
			t.Fatalf("size %d: round trip mismatch", size)
		}
	}
}

func TestBlockCount(t *testing.T) {
	encoded, err := Encode(context.Background(), huffman.New(), make([]byte, 25), Options{Size: 10})
	if err != nil {
		t.Fatal(err)
	}
	if got := binary.BigEndian.Uint32(encoded); got != 3 {
		t.Errorf("block count = %d, want 3", got)
	}
}

func TestBlockEmptyInput(t *testing.T) {
	encoded, err := Encode(context.Background(), huffman.New(), nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(encoded, []byte{0, 0, 0, 0}) {
		t.Fatalf("Encode(nil) = % x", encoded)
	}
	decoded, err := Decode(context.Background(), huffman.New(), encoded, Options{})
	if err != nil || len(decoded) != 0 {
		t.Errorf("Decode = %q, %v", decoded, err)
	}
}

func TestBlockCorrupt(t *testing.T) {
	c := huffman.New()
	valid, err := Encode(context.Background(), c, []byte("two blocks of text"), Options{Size: 9})
	if err != nil {
		t.Fatal(err)
	}
	for cut := 0; cut < len(valid); cut++ {
		if _, err := Decode(context.Background(), c, valid[:cut], Options{}); !errors.Is(err, huffman.ErrCorruptStream) {
			t.Fatalf("cut to %d bytes: error = %v, want ErrCorruptStream", cut, err)
		}
	}
	if _, err := Decode(context.Background(), c, append(valid, 0), Options{}); !errors.Is(err, huffman.ErrCorruptStream) {
		t.Errorf("trailing byte: error = %v, want ErrCorruptStream", err)
	}
}
