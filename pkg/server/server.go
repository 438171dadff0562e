// Package server exposes the generator over HTTP for the diagram front end.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/klothoplatform/archdiagram/pkg/generator"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	GeneratePath = "/api/generate-diagram"
	ExportPath   = "/api/export"
	HealthPath   = "/health"
)

type (
	Generator interface {
		Generate(ctx context.Context, description string) (*generator.Result, error)
	}

	Options struct {
		Addr            string
		AllowedOrigins  []string
		MaxBodyBytes    int64
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
		Version         string
	}

	Server struct {
		Generator Generator
		Options   Options
		Logger    *zap.Logger

		httpServer *http.Server
	}
)

func DefaultOptions() Options {
	return Options{
		Addr:            ":8080",
		AllowedOrigins:  []string{"*"},
		MaxBodyBytes:    1 << 20,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    3 * time.Minute,
		ShutdownTimeout: 30 * time.Second,
	}
}

func New(g Generator, opts Options, log *zap.Logger) *Server {
	if log == nil {
		log = zap.L()
	}
	return &Server{Generator: g, Options: opts, Logger: log.Named("server")}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(HealthPath, s.handleHealth)
	mux.HandleFunc(GeneratePath, s.handleGenerate)
	mux.HandleFunc(ExportPath, s.handleExport)

	return s.requestIDMiddleware(s.accessLogMiddleware(s.corsMiddleware(mux)))
}

// Serve accepts connections on l until ctx is cancelled, then shuts down gracefully, waiting up to
// Options.ShutdownTimeout for in-flight requests.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.Options.ReadTimeout,
		WriteTimeout: s.Options.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errChan := make(chan error, 1)
	go func() {
		s.Logger.Info("Listening", zap.String("addr", l.Addr().String()))
		if err := s.httpServer.Serve(l); !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		s.Logger.Info("Shutting down")
		timeout := s.Options.ShutdownTimeout
		if timeout <= 0 {
			timeout = DefaultOptions().ShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.Options.Addr)
	if err != nil {
		return errors.Wrapf(err, "could not listen on %s", s.Options.Addr)
	}
	return s.Serve(ctx, l)
}
