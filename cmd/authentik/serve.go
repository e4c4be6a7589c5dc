package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	auth "github.com/goliatone/go-authentik"
	"github.com/goliatone/go-authentik/logging"
	"github.com/goliatone/go-authentik/middleware/jwtware"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server exposing POST /login and the bearer token
protected /api routes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadServices(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, s)
		},
	}
}

func serve(ctx context.Context, s *services) error {
	app := newApp(s)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("listening on %s", s.cfg.Server.Addr)
		errCh <- app.Listen(s.cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		return app.Shutdown()
	}
}

func newApp(s *services) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	auth.NewHTTPController(s.auther,
		auth.WithControllerLogger(logging.Logrus(s.logger, "http")),
	).Register(app)

	if s.cfg.Metrics.Enabled {
		app.Get(s.cfg.Metrics.Path, adaptor.HTTPHandler(
			promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}),
		))
	}

	api := app.Group("/api", jwtware.New(jwtware.Config{
		Authorizer: s.guard,
	}))

	api.Get("/me", func(c *fiber.Ctx) error {
		claims, ok := jwtware.ClaimsFromFiber(c)
		if !ok {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.JSON(fiber.Map{
			"username":     claims.Username(),
			"decodedToken": claims.Map(),
		})
	})

	return app
}
