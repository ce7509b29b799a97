package web

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"

	"biblioteca/library"
)

// Server is the HTTP surface of the library system: server-rendered
// pages, session-based login, role-gated routes.
type Server struct {
	app      *fiber.App
	lib      *library.Library
	log      *zap.Logger
	store    *session.Store
	validate *validator.Validate

	// Now supplies "today" to every date-dependent core operation so
	// tests can pin the clock.
	Now func() time.Time
}

// New wires the Fiber app, session store and routes.
func New(lib *library.Library, log *zap.Logger) *Server {
	s := &Server{
		lib:      lib,
		log:      log,
		store:    session.New(session.Config{CookieHTTPOnly: true}),
		validate: validator.New(),
		Now:      time.Now,
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	s.app.Use(s.requestLogger)
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/login", s.loginPage)
	s.app.Post("/login", s.loginSubmit)
	s.app.Get("/register", s.registerPage)
	s.app.Post("/register", s.registerSubmit)
	s.app.Get("/logout", s.logout)

	s.app.Get("/", s.requireRole(roleAny), s.home)
	s.app.Get("/books", s.requireRole(roleAny), s.booksPage)
	s.app.Post("/books", s.requireRole(roleAdmin), s.booksCreate)
	s.app.Get("/members", s.requireRole(roleAdmin), s.membersPage)
	s.app.Post("/members", s.requireRole(roleAdmin), s.membersCreate)
	s.app.Get("/loans", s.requireRole(roleAdmin), s.loansPage)
	s.app.Post("/loans", s.requireRole(roleAdmin), s.loansCreate)
	s.app.Post("/loans/:id/return", s.requireRole(roleAdmin), s.loanReturn)
	s.app.Get("/my-loans", s.requireRole(roleMember), s.myLoansPage)
	s.app.Get("/reports", s.requireRole(roleAny), s.reportsPage)
}

// Listen serves until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Listen(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() { errc <- s.app.Listen(addr) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.app.ShutdownWithContext(shutdownCtx)
	}
}

// App exposes the Fiber app for tests.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.log.Info("request",
		zap.String("method", c.Method()),
		zap.String("path", c.OriginalURL()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("dur", time.Since(start)),
	)
	return err
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	if code >= 500 {
		s.log.Error("handler error", zap.String("path", c.OriginalURL()), zap.Error(err))
	}
	return c.Status(code).SendString(err.Error())
}
