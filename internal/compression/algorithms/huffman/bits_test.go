package huffman

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"testing"
)

func TestPadding(t *testing.T) {
	for bits := uint64(0); bits < 40; bits++ {
		got := Padding(bits)
		if got > 7 {
			t.Fatalf("Padding(%d) = %d, out of range", bits, got)
		}
		if (bits+uint64(got))%8 != 0 {
			t.Errorf("Padding(%d) = %d does not reach a byte boundary", bits, got)
		}
	}
}

func TestPackBitsMSBFirst(t *testing.T) {
	payload, padding, err := PackBits([]bool{true, false, true})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(payload, []byte{0xA0}) || padding != 5 {
		t.Errorf("PackBits(101) = %x, %d; want a0, 5", payload, padding)
	}

	payload, padding, err = PackBits([]bool{false, false, false, false, false, false, false, true, true})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(payload, []byte{0x01, 0x80}) || padding != 7 {
		t.Errorf("PackBits(000000011) = %x, %d; want 0180, 7", payload, padding)
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for n := 0; n <= 70; n++ {
		bits := make([]bool, n)
		for i := range bits {
			bits[i] = rng.Intn(2) == 1
		}
		payload, padding, err := PackBits(bits)
		if err != nil {
			t.Fatalf("n=%d: pack: %v", n, err)
		}
		if padding != Padding(uint64(n)) {
			t.Errorf("n=%d: padding %d, want %d", n, padding, Padding(uint64(n)))
		}
		if len(payload) != (n+7)/8 {
			t.Errorf("n=%d: %d payload bytes", n, len(payload))
		}
		got, err := UnpackBits(payload, padding)
		if err != nil {
			t.Fatalf("n=%d: unpack: %v", n, err)
		}
		if len(got) != n {
			t.Fatalf("n=%d: unpacked %d bits", n, len(got))
		}
		for i := range bits {
			if got[i] != bits[i] {
				t.Fatalf("n=%d: bit %d differs", n, i)
			}
		}
	}
}

func TestBitPackerWriteCode(t *testing.T) {
	p := NewBitPacker()
	for _, code := range []Code{"1", "01", "11111"} {
		if err := p.WriteCode(code); err != nil {
			t.Fatal(err)
		}
	}
	if p.Bits() != 8 {
		t.Errorf("Bits() = %d, want 8", p.Bits())
	}
	payload, padding, err := p.Pack()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(payload, []byte{0xBF}) || padding != 0 {
		t.Errorf("payload %x padding %d, want bf 0", payload, padding)
	}
	if err := p.WriteBit(true); err == nil {
		t.Error("write after Pack succeeded")
	}
}

func TestBitReaderRejectsBadPadding(t *testing.T) {
	if _, err := NewBitReader([]byte{0xFF}, 8); !errors.Is(err, ErrCorruptStream) {
		t.Errorf("padding 8: got %v, want ErrCorruptStream", err)
	}
	if _, err := NewBitReader(nil, 3); !errors.Is(err, ErrCorruptStream) {
		t.Errorf("padding on empty payload: got %v, want ErrCorruptStream", err)
	}
}

func TestBitReaderStopsAtPadding(t *testing.T) {
	br, err := NewBitReader([]byte{0xFF, 0xC0}, 6)
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for {
		bit, err := br.ReadBit()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if !bit {
			t.Errorf("bit %d is 0", n)
		}
		n++
	}
	if n != 10 {
		t.Errorf("read %d bits, want 10", n)
	}
}
