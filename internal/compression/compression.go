package compression

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/adilg123/huffman-compression-tool/internal/compression/algorithms/block"
	"github.com/adilg123/huffman-compression-tool/internal/compression/algorithms/huffman"
	"github.com/adilg123/huffman-compression-tool/internal/metrics"
	"github.com/duke-git/lancet/v2/slice"
	"github.com/rs/zerolog"
)

const (
	AlgorithmHuffman      = "huffman"
	AlgorithmHuffmanBlock = "huffman-block"
)

// SupportedAlgorithms contains all supported compression algorithms
var SupportedAlgorithms = []string{
	AlgorithmHuffman,
	AlgorithmHuffmanBlock,
}

var ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

// Options contains compression/decompression options
type Options struct {
	Algorithm string
	BlockSize int // For huffman-block
	Workers   int // For huffman-block
}

// Stats contains compression statistics
type Stats struct {
	OriginalSize     int
	ProcessedSize    int
	CompressionRatio float64
	Algorithm        string
	Duration         time.Duration
}

// AlgorithmFactory defines the interface for compression algorithms
type AlgorithmFactory interface {
	NewCompressionReaderAndWriter(options Options) (io.ReadCloser, io.WriteCloser)
	NewDecompressionReaderAndWriter(options Options) (io.ReadCloser, io.WriteCloser)
}

type HuffmanFactory struct {
	codec *huffman.Codec
}

func (f *HuffmanFactory) NewCompressionReaderAndWriter(options Options) (io.ReadCloser, io.WriteCloser) {
	return huffman.NewCompressionReaderAndWriter(f.codec)
}

func (f *HuffmanFactory) NewDecompressionReaderAndWriter(options Options) (io.ReadCloser, io.WriteCloser) {
	return huffman.NewDecompressionReaderAndWriter(f.codec)
}

type HuffmanBlockFactory struct {
	codec *huffman.Codec
}

func blockOptions(options Options) block.Options {
	return block.Options{Size: options.BlockSize, Workers: options.Workers}
}

func (f *HuffmanBlockFactory) NewCompressionReaderAndWriter(options Options) (io.ReadCloser, io.WriteCloser) {
	return huffman.NewStreamReaderAndWriter(func(data []byte) ([]byte, error) {
		return block.Encode(context.Background(), f.codec, data, blockOptions(options))
	})
}

func (f *HuffmanBlockFactory) NewDecompressionReaderAndWriter(options Options) (io.ReadCloser, io.WriteCloser) {
	return huffman.NewStreamReaderAndWriter(func(data []byte) ([]byte, error) {
		return block.Decode(context.Background(), f.codec, data, blockOptions(options))
	})
}

// Compressor dispatches to the registered algorithms and records metrics.
type Compressor struct {
	logger     zerolog.Logger
	factoryMap map[string]AlgorithmFactory
}

func NewCompressor(logger zerolog.Logger) *Compressor {
	logger = logger.With().Str("name", "compression").Logger()
	codec := huffman.New(huffman.WithLogger(logger))
	return &Compressor{
		logger: logger,
		factoryMap: map[string]AlgorithmFactory{
			AlgorithmHuffman:      &HuffmanFactory{codec: codec},
			AlgorithmHuffmanBlock: &HuffmanBlockFactory{codec: codec},
		},
	}
}

var defaultCompressor = NewCompressor(zerolog.Nop())

// IsValidAlgorithm checks if the provided algorithm is supported
func IsValidAlgorithm(algorithm string) bool {
	return slice.Contain(SupportedAlgorithms, algorithm)
}

// GetSupportedAlgorithms returns a list of supported algorithms
func GetSupportedAlgorithms() []string {
	return append([]string{}, SupportedAlgorithms...)
}

// Compress compresses data with a silent default Compressor.
func Compress(data []byte, options Options) ([]byte, *Stats, error) {
	return defaultCompressor.Compress(data, options)
}

// Decompress decompresses data with a silent default Compressor.
func Decompress(data []byte, options Options) ([]byte, *Stats, error) {
	return defaultCompressor.Decompress(data, options)
}

func (c *Compressor) factory(algorithm string) (AlgorithmFactory, error) {
	factory, ok := c.factoryMap[algorithm]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}
	return factory, nil
}

// Compress compresses data using the specified algorithm
func (c *Compressor) Compress(data []byte, options Options) ([]byte, *Stats, error) {
	factory, err := c.factory(options.Algorithm)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	reader, writer := factory.NewCompressionReaderAndWriter(options)
	compressedData, err := processData(data, reader, writer)
	metrics.Observe("compress", options.Algorithm, start, len(data), len(compressedData), err)
	if err != nil {
		c.logger.Warn().Err(err).Str("algorithm", options.Algorithm).Int("size", len(data)).Msg("compression failed")
		return nil, nil, fmt.Errorf("compression failed: %w", err)
	}

	stats := &Stats{
		OriginalSize:  len(data),
		ProcessedSize: len(compressedData),
		Algorithm:     options.Algorithm,
		Duration:      time.Since(start),
	}
	if len(data) > 0 {
		stats.CompressionRatio = float64(len(compressedData)) / float64(len(data)) * 100
	}
	c.logger.Debug().Str("algorithm", options.Algorithm).Int("original", stats.OriginalSize).
		Int("processed", stats.ProcessedSize).Dur("duration", stats.Duration).Msg("compressed")
	return compressedData, stats, nil
}

// Decompress decompresses data using the specified algorithm
func (c *Compressor) Decompress(data []byte, options Options) ([]byte, *Stats, error) {
	factory, err := c.factory(options.Algorithm)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	reader, writer := factory.NewDecompressionReaderAndWriter(options)
	decompressedData, err := processData(data, reader, writer)
	metrics.Observe("decompress", options.Algorithm, start, len(data), len(decompressedData), err)
	if err != nil {
		c.logger.Warn().Err(err).Str("algorithm", options.Algorithm).Int("size", len(data)).Msg("decompression failed")
		return nil, nil, fmt.Errorf("decompression failed: %w", err)
	}

	stats := &Stats{
		OriginalSize:  len(data),
		ProcessedSize: len(decompressedData),
		Algorithm:     options.Algorithm,
		Duration:      time.Since(start),
	}
	if len(decompressedData) > 0 {
		stats.CompressionRatio = float64(len(data)) / float64(len(decompressedData)) * 100
	}
	c.logger.Debug().Str("algorithm", options.Algorithm).Int("original", stats.OriginalSize).
		Int("processed", stats.ProcessedSize).Dur("duration", stats.Duration).Msg("decompressed")
	return decompressedData, stats, nil
}

// processData writes the input through writer while a goroutine drains reader.
func processData(inputData []byte, reader io.ReadCloser, writer io.WriteCloser) ([]byte, error) {
	defer reader.Close()

	resultCh := make(chan []byte, 1)
	errorCh := make(chan error, 1)

	go func() {
		data, err := io.ReadAll(reader)
		if err != nil {
			errorCh <- err
			return
		}
		resultCh <- data
	}()

	if _, err := writer.Write(inputData); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	select {
	case err := <-errorCh:
		return nil, err
	case result := <-resultCh:
		return result, nil
	}
}
