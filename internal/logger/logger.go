package logger

import (
	"io"
	"os"
	"time"

	"github.com/adilg123/huffman-compression-tool/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New configures the global zerolog settings from cfg and returns a logger
// writing to stderr.
func New(cfg config.LoggerConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

func NewWithWriter(cfg config.LoggerConfig, out io.Writer) zerolog.Logger {
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = time.RFC3339
	}
	zerolog.TimeFieldFormat = cfg.TimeFormat

	l, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		log.Warn().Err(err).Str("level", cfg.Level).Msg("Failed to parse log level, using info")
		l = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(l)

	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: cfg.TimeFormat}
	}
	return zerolog.New(out).With().Timestamp().Logger()
}
