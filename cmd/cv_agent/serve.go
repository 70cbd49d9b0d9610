package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/maheshdila/cv-gen-BE/internal/config"
	"github.com/maheshdila/cv-gen-BE/internal/server"
	"github.com/maheshdila/cv-gen-BE/internal/server/ratelimit"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing /generate-cv, /generate-cv/stream, /ats-score and the saved
query routes. Set JWT_SECRET to require bearer tokens on every route except /health.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}

// jwtService returns nil when JWT_SECRET is unset so the server runs without auth.
func jwtService(getenv func(string) string) (*server.JWTService, error) {
	if getenv("JWT_SECRET") == "" {
		return nil, nil
	}
	jwtConfig, err := config.NewJWTConfigFrom(getenv)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create JWT config")
	}
	return server.NewJWTService(jwtConfig), nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	ctx := context.Background()
	application, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	store, err := newUserStore(ctx, cfg)
	if err != nil {
		return err
	}

	auth, err := jwtService(os.Getenv)
	if err != nil {
		return err
	}
	if auth == nil {
		slog.Warn("JWT_SECRET is not set; API routes are unauthenticated")
	}

	srv, err := server.New(server.Config{Port: cfg.Port}, server.Deps{
		Generator:   application.pipeline,
		Store:       store,
		JWT:         auth,
		RateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create server")
	}

	return srv.Start()
}
