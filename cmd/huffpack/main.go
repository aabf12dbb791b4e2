package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/adilg123/huffman-compression-tool/internal/bootstrap"
	"github.com/adilg123/huffman-compression-tool/internal/compression"
	"github.com/adilg123/huffman-compression-tool/internal/compression/algorithms/huffman"
	"github.com/adilg123/huffman-compression-tool/internal/config"
	"github.com/adilg123/huffman-compression-tool/internal/fileio"
	"github.com/adilg123/huffman-compression-tool/internal/logger"
	_ "go.uber.org/automaxprocs"
)

const usage = `usage:
  huffpack encode [flags] <input> <output>
  huffpack decode [flags] <input> <output>
  huffpack inspect [flags] <input>
  huffpack serve [-config file]
`

var errUsage = errors.New("bad usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "encode", "decode":
		err = transform(args[0], args[1:], stdout, stderr)
	case "inspect":
		err = inspect(args[1:], stdout, stderr)
	case "serve":
		fs := flag.NewFlagSet("serve", flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "", "YAML config file")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		bootstrap.StartServer(*configPath)
		return 0
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n%s", args[0], usage)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprint(stderr, usage)
		return 2
	default:
		fmt.Fprintf(stderr, "huffpack: %v\n", err)
		return 1
	}
}

func transform(command string, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML config file")
	algorithm := fs.String("algorithm", compression.AlgorithmHuffman, "huffman or huffman-block")
	blockSize := fs.Int("block-size", 0, "block size in bytes for huffman-block")
	progress := fs.Bool("progress", false, "draw a progress bar while reading the input")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 2 {
		return errUsage
	}
	in, out := fs.Arg(0), fs.Arg(1)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Logger)

	options := compression.Options{
		Algorithm: *algorithm,
		BlockSize: cfg.Block.Size,
		Workers:   cfg.Block.Workers,
	}
	if *blockSize > 0 {
		options.BlockSize = *blockSize
	}

	source := fileio.Source{Path: in}
	if *progress || cfg.Progress {
		source.Progress = stderr
	}
	data, err := source.ReadAll()
	if err != nil {
		return err
	}

	compressor := compression.NewCompressor(log)
	var (
		result []byte
		stats  *compression.Stats
	)
	if command == "encode" {
		result, stats, err = compressor.Compress(data, options)
	} else {
		result, stats, err = compressor.Decompress(data, options)
	}
	if err != nil {
		return err
	}

	if err := (fileio.Sink{Path: out}).WriteAll(result); err != nil {
		return err
	}

	if command == "encode" {
		fmt.Fprintf(stdout, "original size: %d bytes\ncompressed size: %d bytes\n", stats.OriginalSize, stats.ProcessedSize)
	} else {
		fmt.Fprintf(stdout, "compressed size: %d bytes\ndecompressed size: %d bytes\n", stats.OriginalSize, stats.ProcessedSize)
	}
	log.Debug().Str("input", in).Str("output", out).Str("algorithm", stats.Algorithm).
		Float64("ratio", stats.CompressionRatio).Dur("duration", stats.Duration).Msg(command + " finished")
	return nil
}

// inspect prints the header and code table of a huffman stream.
func inspect(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 {
		return errUsage
	}

	data, err := fileio.Source{Path: fs.Arg(0)}.ReadAll()
	if err != nil {
		return err
	}
	header, err := huffman.Inspect(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "symbols: %d\npadding: %d\nheader: %d bytes\npayload: %d bytes\n",
		header.SymbolCount, header.Padding, header.Size, len(data)-header.Size)
	for _, e := range header.CodeBook.Entries() {
		fmt.Fprintf(stdout, "%02x %q %s\n", e.Symbol, rune(e.Symbol), e.Code)
	}
	return nil
}
