package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/STTM-NSU/trading-api/internal/config"
	"github.com/STTM-NSU/trading-api/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewHTTPServer(ctx, config.ServerConfig{
		Port:            "0",
		RequestTimeout:  time.Second,
		ShutdownTimeout: time.Second,
	}, http.NotFoundHandler(), logger.NewNop())

	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunReturnsListenErrors(t *testing.T) {
	s := NewHTTPServer(context.Background(), config.ServerConfig{
		Port:            "-1",
		ShutdownTimeout: time.Second,
	}, http.NotFoundHandler(), logger.NewNop())

	err := s.Run(context.Background())
	require.Error(t, err)
}
