package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/pollen-calendar/internal/infra/config"
)

func TestRunStopsOnCancel(t *testing.T) {
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	app := NewApp(&config.Config{HTTP: config.HTTPConfig{WriteTimeout: time.Second}}, slog.New(slog.NewTextHandler(io.Discard, nil)), server)
	require.Equal(t, time.Second, app.shutdownTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestRunReportsListenErrors(t *testing.T) {
	server := &http.Server{Addr: "not-an-address", Handler: http.NotFoundHandler()}
	app := NewApp(&config.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)), server)
	require.Equal(t, shutdownTimeout, app.shutdownTimeout)

	require.Error(t, app.Run(context.Background()))
}
