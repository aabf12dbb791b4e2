package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/adilg123/huffman-compression-tool/internal/api"
	"github.com/adilg123/huffman-compression-tool/internal/cache"
	"github.com/adilg123/huffman-compression-tool/internal/compression"
	"github.com/adilg123/huffman-compression-tool/internal/config"
	"github.com/adilg123/huffman-compression-tool/internal/logger"
	"github.com/adilg123/huffman-compression-tool/internal/metrics"
	fxzerolog "github.com/efectn/fx-zerolog"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Server is the HTTP front of the compression service.
type Server struct {
	srv      *http.Server
	listener net.Listener
}

// Addr is the bound listen address, valid once the app has started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func NewServer(cfg *config.Config, router *gin.Engine) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func provideLogger(cfg *config.Config) zerolog.Logger {
	return logger.New(cfg.Logger)
}

func provideCache(cfg *config.Config, logger zerolog.Logger) (*cache.ResultCache, error) {
	return cache.New(cfg.Cache, logger)
}

// NewApp assembles the service graph. Extra options are appended last.
func NewApp(configPath string, opts ...fx.Option) *fx.App {
	options := []fx.Option{
		fx.Provide(func() (*config.Config, error) { return config.Load(configPath) }),
		fx.Provide(provideLogger),
		fx.Provide(compression.NewCompressor),
		fx.Provide(provideCache),
		fx.Provide(api.NewHandler),
		fx.Provide(api.NewRouter),
		fx.Provide(NewServer),

		fx.WithLogger(fxzerolog.Init()),
		fx.StartTimeout(30*time.Second),
		fx.StopTimeout(30*time.Second),

		fx.Invoke(InitServer),
	}
	return fx.New(append(options, opts...)...)
}

// StartServer registers the metrics collectors and runs the service until
// it receives a termination signal.
func StartServer(configPath string) {
	metrics.Register(prometheus.DefaultRegisterer)
	NewApp(configPath).Run()
}

func InitServer(lifecycle fx.Lifecycle, cfg *config.Config, logger zerolog.Logger, server *Server) {
	logger = logger.With().Str("name", "server").Logger()
	lifecycle.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				ln, err := net.Listen("tcp", server.srv.Addr)
				if err != nil {
					logger.Error().Err(err).Str("addr", server.srv.Addr).Msg("Failed to listen")
					return err
				}
				server.listener = ln

				go func() {
					logger.Info().Msg("🚀 " + cfg.App.Name + " is running! listen on http://" + ln.Addr().String())
					if err := server.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error().Err(err).Msg("An unknown error occurred when to run server!")
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				logger.Info().Msg("Running cleanup tasks...")
				if err := server.srv.Shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("An unknown error occurred when to shutdown the Server!")
					return err
				}
				logger.Info().Msgf("%s was successful shutdown.", cfg.App.Name)
				return nil
			},
		},
	)
}
