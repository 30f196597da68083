// Package server exposes the rating widgets over HTTP.
package server

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codeGROOVE-dev/cpratings/pkg/rating"
	"github.com/codeGROOVE-dev/cpratings/pkg/ratings"
	"github.com/codeGROOVE-dev/cpratings/pkg/widget"
)

const (
	pageHead = `<!DOCTYPE html>
<html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>Competitive Programming Ratings</title></head>
<body>
`
	pageTail = "</body></html>\n"
)

// Server renders a fresh set of widgets for every request.
type Server struct {
	src      rating.Source
	logger   *slog.Logger
	loadOpts []ratings.Option
	timeout  time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithLoadOptions passes options to every ratings.Load call.
func WithLoadOptions(opts ...ratings.Option) Option {
	return func(s *Server) { s.loadOpts = opts }
}

// WithTimeout bounds a single page load.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// New creates a Server reading from src.
func New(src rating.Source, opts ...Option) *Server {
	s := &Server{src: src, logger: slog.Default(), timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load runs one page-load cycle and returns the filled document.
func (s *Server) Load(ctx context.Context) (*widget.Document, ratings.Summary) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	doc := ratings.NewDocument(s.src.Platforms())
	opts := append([]ratings.Option{ratings.WithLogger(s.logger)}, s.loadOpts...)
	sum := ratings.Load(ctx, s.src, doc, opts...)
	return doc, sum
}

// Handler returns the gin engine serving the routes.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/", s.handlePage)
	r.GET("/api/ratings", s.handleAPI)
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func (s *Server) handlePage(c *gin.Context) {
	doc, _ := s.Load(c.Request.Context())

	var buf bytes.Buffer
	buf.WriteString(pageHead)
	if err := doc.Render(&buf); err != nil {
		s.logger.Error("render failed", "error", err)
		c.String(http.StatusInternalServerError, "render failed")
		return
	}
	buf.WriteString(pageTail)
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) handleAPI(c *gin.Context) {
	doc, sum := s.Load(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"source":  s.src.Name(),
		"loaded":  sum.Loaded,
		"errored": sum.Errored,
		"ratings": doc.Snapshot(),
	})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
