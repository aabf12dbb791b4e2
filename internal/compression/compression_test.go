package compression

import (
	"bytes"
	"errors"
	"testing"

	"github.com/adilg123/huffman-compression-tool/internal/compression/algorithms/huffman"
	"github.com/rs/zerolog"
)

func TestCompressDecompressAllAlgorithms(t *testing.T) {
	input := bytes.Repeat([]byte("facade round trip with some repetition "), 64)
	c := NewCompressor(zerolog.Nop())
	for _, algorithm := range GetSupportedAlgorithms() {
		t.Run(algorithm, func(t *testing.T) {
			options := Options{Algorithm: algorithm, BlockSize: 1024}
			compressed, stats, err := c.Compress(input, options)
			if err != nil {
				t.Fatal(err)
			}
			if stats.OriginalSize != len(input) || stats.ProcessedSize != len(compressed) {
				t.Errorf("stats = %+v", stats)
			}
			if stats.CompressionRatio <= 0 || stats.CompressionRatio >= 100 {
				t.Errorf("ratio %.2f outside (0, 100) for repetitive text", stats.CompressionRatio)
			}
			restored, _, err := c.Decompress(compressed, options)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(restored, input) {
				t.Error("round trip mismatch")
			}
		})
	}
}

func TestCompressMatchesCodec(t *testing.T) {
	input := []byte("the facade must not change the stream format")
	got, _, err := Compress(input, Options{Algorithm: AlgorithmHuffman})
	if err != nil {
		t.Fatal(err)
	}
	want, err := huffman.Encode(input)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Error("facade output differs from huffman.Encode")
	}
}

func TestEmptyInput(t *testing.T) {
	for _, algorithm := range GetSupportedAlgorithms() {
		compressed, stats, err := Compress(nil, Options{Algorithm: algorithm})
		if err != nil {
			t.Fatalf("%s: %v", algorithm, err)
		}
		if stats.CompressionRatio != 0 {
			t.Errorf("%s: ratio %v for empty input", algorithm, stats.CompressionRatio)
		}
		restored, _, err := Decompress(compressed, Options{Algorithm: algorithm})
		if err != nil || len(restored) != 0 {
			t.Errorf("%s: Decompress = %q, %v", algorithm, restored, err)
		}
	}
}

func TestUnsupportedAlgorithm(t *testing.T) {
	if IsValidAlgorithm("lzss") {
		t.Error("lzss reported as supported")
	}
	if _, _, err := Compress([]byte("x"), Options{Algorithm: "lzss"}); !errors.Is(err, ErrUnsupportedAlgorithm) {
		t.Errorf("error = %v, want ErrUnsupportedAlgorithm", err)
	}
}

func TestDecompressCorrupt(t *testing.T) {
	_, _, err := Decompress([]byte{0x07, 0x00}, Options{Algorithm: AlgorithmHuffman})
	if !errors.Is(err, huffman.ErrCorruptStream) {
		t.Errorf("error = %v, want ErrCorruptStream", err)
	}
}

func TestGetSupportedAlgorithmsIsACopy(t *testing.T) {
	algorithms := GetSupportedAlgorithms()
	algorithms[0] = "mutated"
	if SupportedAlgorithms[0] != AlgorithmHuffman {
		t.Error("GetSupportedAlgorithms exposed the package slice")
	}
}
