package huffman

import (
	"math/rand"
	"strings"
	"testing"
)

func codesFor(t *testing.T, input string) map[byte]Code {
	t.Helper()
	cb, err := NewCodeBook(NewFrequencyTable([]byte(input)))
	if err != nil {
		t.Fatalf("NewCodeBook(%q): %v", input, err)
	}
	codes := make(map[byte]Code)
	for _, e := range cb.Entries() {
		codes[e.Symbol] = e.Code
	}
	return codes
}

func TestTieBreakOrder(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[byte]Code
	}{
		{
			name:  "equal leaves pop in first-seen order",
			input: "abc",
			want:  map[byte]Code{'c': "0", 'a': "10", 'b': "11"},
		},
		{
			name:  "first-seen order beats byte value",
			input: "cba",
			want:  map[byte]Code{'a': "0", 'c': "10", 'b': "11"},
		},
		{
			name:  "leaves pop before a newer internal node",
			input: "aabbcd",
			want:  map[byte]Code{'c': "00", 'd': "01", 'a': "10", 'b': "11"},
		},
		{
			name:  "lower frequency first",
			input: "aabbc",
			want:  map[byte]Code{'b': "0", 'c': "10", 'a': "11"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := codesFor(t, tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d codes, want %d", len(got), len(tt.want))
			}
			for symbol, code := range tt.want {
				if got[symbol] != code {
					t.Errorf("code(%q) = %q, want %q", symbol, got[symbol], code)
				}
			}
		})
	}
}

func TestBuildTreeEdgeCases(t *testing.T) {
	if tree := buildTree(NewFrequencyTable(nil)); tree != nil {
		t.Errorf("empty table built %v, want nil", tree)
	}

	tree := buildTree(NewFrequencyTable([]byte("aaaa")))
	leaf, ok := tree.(huffmanLeaf)
	if !ok {
		t.Fatalf("single symbol root is %T, want huffmanLeaf", tree)
	}
	if leaf.symbol != 'a' || leaf.freq != 4 {
		t.Errorf("leaf = %+v", leaf)
	}
	if codes := codesFor(t, "aaaa"); codes['a'] != "0" {
		t.Errorf("single symbol code = %q, want \"0\"", codes['a'])
	}
}

func TestInternalFrequencyIsSumOfChildren(t *testing.T) {
	var check func(huffmanTree) uint64
	check = func(tree huffmanTree) uint64 {
		switch node := tree.(type) {
		case huffmanLeaf:
			return node.freq
		case huffmanNode:
			sum := check(node.left) + check(node.right)
			if sum != node.freq {
				t.Errorf("node %d freq %d, children sum %d", node.id, node.freq, sum)
			}
			return sum
		}
		t.Fatalf("unexpected node %T", tree)
		return 0
	}
	input := "the quick brown fox jumps over the lazy dog"
	if got := check(buildTree(NewFrequencyTable([]byte(input)))); got != uint64(len(input)) {
		t.Errorf("root freq = %d, want %d", got, len(input))
	}
}

func TestCodesArePrefixFree(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		data := make([]byte, 1+rng.Intn(2000))
		alphabet := 1 + rng.Intn(256)
		for i := range data {
			data[i] = byte(rng.Intn(alphabet))
		}
		codes := codesFor(t, string(data))
		for a, ca := range codes {
			for b, cb := range codes {
				if a != b && strings.HasPrefix(string(cb), string(ca)) {
					t.Fatalf("round %d: code %q of 0x%02x is a prefix of %q of 0x%02x", round, ca, a, cb, b)
				}
			}
		}
	}
}
