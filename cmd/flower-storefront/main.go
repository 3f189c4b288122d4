package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/chucuoi/flower-storefront/internal/config"
	"github.com/chucuoi/flower-storefront/internal/logger"
	repository "github.com/chucuoi/flower-storefront/internal/repositories"
	"github.com/urfave/cli/v3"
)

// @title						Flower Storefront API
// @version					1.0
// @description				Catalog, admin product editor and media endpoints for the flower shop.
// @BasePath					/api/v1
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	cmd := &cli.Command{
		Name:  "flower-storefront",
		Usage: "Flower shop storefront and admin API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to the yaml config file",
				Sources: cli.EnvVars("CONFIG_PATH"),
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return withApp(ctx, c, (*app).serve)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the HTTP server",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withApp(ctx, c, (*app).serve)
				},
			},
			{
				Name:  "migrate",
				Usage: "Create or update the database schema",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withApp(ctx, c, func(a *app, ctx context.Context) error {
						if err := repository.Migrate(ctx, a.repos.DB); err != nil {
							return err
						}
						slog.Info("✅ Migration complete")
						return nil
					})
				},
			},
			{
				Name:  "sweep-drafts",
				Usage: "Tear down expired product drafts once",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withApp(ctx, c, func(a *app, ctx context.Context) error {
						n, err := a.drafts.SweepExpired(ctx, time.Now())
						if err != nil {
							return err
						}
						slog.Info("✅ Draft sweep complete", slog.Int("imagesDeleted", n))
						return nil
					})
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// withApp loads the config, wires the app, runs fn and releases
// everything afterwards.
func withApp(ctx context.Context, c *cli.Command, fn func(*app, context.Context) error) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	logger.New(cfg)

	a, err := newApp(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error initializing dependencies", slog.String("error", err.Error()))
		return err
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	runErr := fn(a, ctx)

	closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := a.Close(closeCtx); err != nil {
		slog.Error("⚠️ Error releasing resources", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Connections closed")
	}

	return runErr
}
