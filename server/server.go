// Package server exposes the JSON API over the core service: user CRUD,
// aggregate metrics, and the activity trend. Handlers never issue raw
// queries; every storage touch goes through the repositories and query
// facades.
package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	userpulse "github.com/userpulse/userpulse"
	"github.com/userpulse/userpulse/pkg/types"
)

// Config wires the HTTP layer.
type Config struct {
	Service      *userpulse.Service
	Clock        types.Clock
	Logger       types.Logger
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server owns the fiber app and its route table.
type Server struct {
	app    *fiber.App
	svc    *userpulse.Service
	clock  types.Clock
	logger types.Logger
}

// New constructs the server and registers all routes.
func New(cfg Config) *Server {
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		DisableStartupMessage: true,
	})
	s := &Server{app: app, svc: cfg.Service, clock: clock, logger: logger}

	app.Use(RequestID())
	app.Use(RequestLogger(logger))
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Post("/echo", s.Echo)

	s.app.Put("/user/add", s.AddUser)
	s.app.Get("/user/get", s.GetUser)
	s.app.Post("/user/update", s.UpdateUser)
	s.app.Delete("/user/delete", s.DeleteUser)
	s.app.Get("/user/all", s.AllUsers)

	s.app.Get("/user/last_registered", s.LastRegistered)
	s.app.Get("/user/longest_names", s.LongestNames)
	s.app.Get("/user/email_domain", s.EmailDomain)
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until the app shuts down.
func (s *Server) Listen(addr string) error { return s.app.Listen(addr) }

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error { return s.app.Shutdown() }
