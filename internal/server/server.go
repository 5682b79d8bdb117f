package server

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spacesedan/tweetsense/internal/pipeline"
)

const SESSION_COOKIE = "sid"

type Server struct {
	app          *fiber.App
	analyzer     *pipeline.Analyzer
	sessions     *SessionStore
	cacheHealthy *atomic.Bool
}

// New wires the routes. cacheHealthy may be nil when no score cache runs.
func New(analyzer *pipeline.Analyzer, sessions *SessionStore, cacheHealthy *atomic.Bool) *Server {
	s := &Server{
		analyzer:     analyzer,
		sessions:     sessions,
		cacheHealthy: cacheHealthy,
	}

	app := fiber.New(fiber.Config{
		AppName:               "tweetsense",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())

	app.Get("/", s.Index)
	app.Post("/analyze", s.Analyze)
	app.Get("/searches", s.RecentSearches)
	app.Get("/searches/export", s.ExportSearches)
	app.Get("/healthz", s.Health)

	s.app = app
	return s
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	slog.Info("[Server] Listening", slog.String("addr", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	slog.Error("[Server] Request failed",
		slog.String("path", c.Path()),
		slog.Int("status", code),
		slog.String("error", err.Error()))

	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
