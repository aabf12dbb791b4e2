package huffman

// FrequencyTable holds the byte counts of one input. Symbols that never occur
// are absent. The order in which symbols were first seen is kept because tree
// construction uses it to break frequency ties.
type FrequencyTable struct {
	counts [256]uint64
	order  []byte
	total  uint64
}

// NewFrequencyTable counts every byte of data.
func NewFrequencyTable(data []byte) *FrequencyTable {
	ft := new(FrequencyTable)
	for _, b := range data {
		if ft.counts[b] == 0 {
			ft.order = append(ft.order, b)
		}
		ft.counts[b]++
	}
	ft.total = uint64(len(data))
	return ft
}

// Count returns the number of occurrences of symbol and whether it occurred at all.
func (ft *FrequencyTable) Count(symbol byte) (uint64, bool) {
	c := ft.counts[symbol]
	return c, c > 0
}

// Symbols returns the distinct symbols in first-seen order.
func (ft *FrequencyTable) Symbols() []byte {
	return append([]byte(nil), ft.order...)
}

// Len returns the number of distinct symbols.
func (ft *FrequencyTable) Len() int {
	return len(ft.order)
}

// Total returns the sum of all counts, which equals the input length.
func (ft *FrequencyTable) Total() uint64 {
	return ft.total
}
