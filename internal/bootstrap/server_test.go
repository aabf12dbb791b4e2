package bootstrap

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestServerLifecycle(t *testing.T) {
	t.Setenv("HUFFPACK_APP_HOST", "127.0.0.1")
	t.Setenv("HUFFPACK_APP_PORT", "0")
	t.Setenv("HUFFPACK_LOGGER_LEVEL", "error")
	t.Setenv("HUFFPACK_LOGGER_PRETTY", "false")

	var server *Server
	app := NewApp("", fx.Populate(&server), fx.NopLogger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx))

	resp, err := http.Get("http://" + server.Addr() + "/health")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "healthy")

	require.NoError(t, app.Stop(ctx))
	_, err = http.Get("http://" + server.Addr() + "/health")
	require.Error(t, err)
}

func TestServerBadConfig(t *testing.T) {
	app := NewApp("/nonexistent/huffpack.yaml", fx.NopLogger)
	require.Error(t, app.Err())
}
