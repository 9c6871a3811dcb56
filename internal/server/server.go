// Package server exposes a processing session over HTTP.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/mendonca-galvao/horaextra/internal/batch"
	"github.com/mendonca-galvao/horaextra/internal/export"
	"github.com/mendonca-galvao/horaextra/internal/session"
)

// Options configures a Server.
type Options struct {
	MaxUploadMB  int
	ExportPrefix string
	// Destination receives exports saved through POST /api/exports. Nil
	// disables that endpoint.
	Destination export.Destination
	// OnBatchDone is called from the batch goroutine when a batch finishes.
	OnBatchDone func(batch.Result)
}

// Server serves one session.
type Server struct {
	app     *fiber.App
	orch    *batch.Orchestrator
	session *session.Session
	opts    Options
	log     zerolog.Logger
	now     func() time.Time

	// ctx outlives requests; batches started over HTTP run under it.
	ctx    context.Context
	cancel context.CancelFunc
}

// New builds the HTTP application.
func New(orch *batch.Orchestrator, s *session.Session, opts Options, log zerolog.Logger) *Server {
	if opts.MaxUploadMB <= 0 {
		opts.MaxUploadMB = 32
	}
	ctx, cancel := context.WithCancel(context.Background())
	srv := &Server{
		orch:    orch,
		session: s,
		opts:    opts,
		log:     log.With().Str("component", "server").Logger(),
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
	}

	srv.app = fiber.New(fiber.Config{
		AppName:               "horaextra",
		BodyLimit:             opts.MaxUploadMB * 1024 * 1024,
		ErrorHandler:          srv.errorHandler,
		DisableStartupMessage: true,
	})
	srv.app.Use(recover.New())
	srv.app.Use(logger.New(logger.Config{
		Output: srv.log,
		Format: "${status} ${method} ${path} ${latency}\n",
	}))
	srv.setupRoutes()
	return srv
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.log.Info().Str("addr", addr).Msg("listening")
	return s.app.Listen(addr)
}

// Shutdown stops accepting requests and cancels running batches.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	return s.app.ShutdownWithContext(ctx)
}

// errorHandler renders every error as {"error": "..."}.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
