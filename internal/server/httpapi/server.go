// Package httpapi exposes the account service as a JSON API under /api/auth.
package httpapi

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/nexcart/authd/internal/logging"
	"github.com/nexcart/authd/internal/server/config"
	"github.com/nexcart/authd/internal/server/users"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address   string
	app       *fiber.App
	logger    logging.Logger
	users     *users.Service
	jwtSecret []byte
}

func NewHTTPServer(cfg *config.Config, l logging.Logger, us *users.Service) (*HTTPServer, error) {
	s := &HTTPServer{
		address:   cfg.Address,
		logger:    l.With("module", "http_server"),
		users:     us,
		jwtSecret: []byte(cfg.SecretKey),
	}
	s.app = s.newApp(cfg.CORSOrigins)
	return s, nil
}

func (s *HTTPServer) newApp(corsOrigins string) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins,
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Welcome to the NexCart API")
	})

	api := app.Group("/api/auth")

	api.Post("/signup", s.signup)
	api.Post("/login", s.login)

	api.Get("/user", s.authenticate, s.getUser)
	api.Put("/change-password", s.authenticate, s.changePassword)
	api.Delete("/delete-account", s.authenticate, s.deleteAccount)

	// token-gated placeholders for the storefront pages
	for _, path := range []string{"/home", "/men", "/women", "/kids", "/cart", "/account"} {
		api.Get(path, s.authenticate, s.placeholder)
	}

	return app
}

func (s *HTTPServer) Run(ctx context.Context) error {

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.app.Listen(s.address); err != nil {
		return err
	}

	return nil
}
