// Package server exposes the calculators over HTTP.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/rpkit/internal/calculation"
	"github.com/rgehrsitz/rpkit/internal/config"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const (
	headerRequestID = "X-Request-ID"
	contentTypeJSON = "application/json"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Server routes API requests to a calculation engine.
type Server struct {
	engine   *calculation.Engine
	parser   *config.RequestParser
	settings config.ServerSettings
	logger   *zap.SugaredLogger
	metrics  *Metrics
	routes   map[string]route

	// base is the parent context of every calculation; cancelled on shutdown.
	base   context.Context
	cancel context.CancelFunc
	srv    *fasthttp.Server
}

// New builds a server. A nil logger discards log output.
func New(engine *calculation.Engine, settings config.ServerSettings, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	base, cancel := context.WithCancel(context.Background())
	s := &Server{
		engine:   engine,
		parser:   config.NewRequestParser().WithMaxPaths(settings.MaxSimulationPaths),
		settings: settings,
		logger:   logger,
		metrics:  NewMetrics(),
		base:     base,
		cancel:   cancel,
	}
	s.routes = s.apiRoutes()
	s.srv = &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "rpkit",
		ReadTimeout:        settings.ReadTimeout,
		WriteTimeout:       settings.WriteTimeout,
		MaxRequestBodySize: settings.MaxRequestBodySize,
	}
	return s
}

// Metrics returns the server's metrics.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Handler returns the root request handler.
func (s *Server) Handler() fasthttp.RequestHandler {
	metrics := s.metrics.Handler()
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		id := string(ctx.Request.Header.Peek(headerRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Response.Header.Set(headerRequestID, id)

		path := string(ctx.Path())
		label := path
		switch {
		case path == "/healthz":
			s.handleHealth(ctx)
		case path == "/metrics":
			metrics(ctx)
		default:
			r, ok := s.routes[path]
			if !ok {
				label = "other"
				writeError(ctx, fasthttp.StatusNotFound, fmt.Sprintf("no route for %s", path))
				break
			}
			if !ctx.IsPost() {
				writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
				break
			}
			s.handleCalculation(ctx, r)
		}

		elapsed := time.Since(start)
		status := ctx.Response.StatusCode()
		s.metrics.observeRequest(label, status, elapsed)
		s.logger.Infow("request",
			"id", id,
			"method", string(ctx.Method()),
			"path", path,
			"status", status,
			"duration", elapsed,
		)
	}
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("server listening", "addr", s.settings.Addr)
		errCh <- s.srv.ListenAndServe(s.settings.Addr)
	}()

	select {
	case err := <-errCh:
		s.cancel()
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	s.cancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.srv.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"status":  "ok",
		"taxYear": s.engine.Rules.Metadata.TaxYear,
	})
}
