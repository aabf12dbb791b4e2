package huffman

import (
	"errors"
	"fmt"
)

var (
	// ErrIO marks a failure of the byte source or sink around the codec.
	ErrIO = errors.New("huffman: i/o failure")
	// ErrUnknownSymbol is returned when a byte has no code in the code book.
	ErrUnknownSymbol = errors.New("huffman: unknown symbol")
	// ErrCorruptStream is returned for any header or payload that does not
	// match the stream format.
	ErrCorruptStream = errors.New("huffman: corrupt stream")
)

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptStream, fmt.Sprintf(format, args...))
}
