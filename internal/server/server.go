package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/STTM-NSU/trading-api/internal/config"
	"github.com/STTM-NSU/trading-api/internal/logger"
)

type HTTPServer struct {
	s               *http.Server
	shutdownTimeout time.Duration
	logger          logger.Logger
}

func NewHTTPServer(ctx context.Context, cfg config.ServerConfig, handler http.Handler, logger logger.Logger) *HTTPServer {
	return &HTTPServer{
		s: &http.Server{
			Handler:           handler,
			Addr:              ":" + cfg.Port,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
			BaseContext: func(listener net.Listener) context.Context {
				return ctx
			},
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}
}

func (s *HTTPServer) Start() error {
	s.logger.Infof("listening on %s", s.s.Addr)
	if err := s.s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.s.Shutdown(ctx)
}

// Run serves until ctx is done, then drains in-flight requests for at most the shutdown timeout.
func (s *HTTPServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()
	select {
	case <-ctx.Done():
		s.logger.Infof("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
