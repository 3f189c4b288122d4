package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chucuoi/flower-storefront/internal/auth"
	"github.com/chucuoi/flower-storefront/internal/cache"
	"github.com/chucuoi/flower-storefront/internal/config"
	repository "github.com/chucuoi/flower-storefront/internal/repositories"
	service "github.com/chucuoi/flower-storefront/internal/services"
	"github.com/chucuoi/flower-storefront/internal/tasks"
	"github.com/chucuoi/flower-storefront/pkg/cloudinary"
	"github.com/chucuoi/flower-storefront/pkg/sendgrid"
	"github.com/redis/go-redis/v9"
)

// app holds the wired dependencies shared by every command.
type app struct {
	cfg    *config.Config
	repos  *repository.Repository
	redis  *redis.Client
	runner *tasks.Runner
	tokens *auth.TokenManager

	rateLimiter repository.RateLimitRepository

	products   service.ProductService
	categories service.CategoryService
	drafts     service.DraftService
	media      service.MediaService
	users      service.AuthService
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	repos, err := repository.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	redisClient, err := repository.NewRedisClient(ctx, cfg)
	if err != nil {
		repos.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	cld, err := cloudinary.NewCloudinaryClient(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if err != nil {
		repos.Close()
		redisClient.Close()
		return nil, fmt.Errorf("media host: %w", err)
	}

	runner := tasks.NewRunner(cfg.Tasks.Timeout)
	tokens := auth.NewTokenManager([]byte(cfg.Security.JWTKey), cfg.Security.JWTExpiry())

	emailService := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	notifications := service.NewNotificationService(emailService, cfg.SendGrid.AlertEmail, cfg.PublicURL)

	categories := service.NewCategoryService(repos.Category, repos.Product, cache.NewRedisCache(redisClient, &cfg.Cache), cfg.Cache.DefaultTTL)
	products := service.NewProductService(repos.Product, repos.Category, cld, notifications, runner, cfg.Media.OnProductDelete)

	return &app{
		cfg:         cfg,
		repos:       repos,
		redis:       redisClient,
		runner:      runner,
		tokens:      tokens,
		rateLimiter: repository.NewRateLimitRepo(redisClient, cfg.RateConfig),
		products:    products,
		categories:  categories,
		drafts:      service.NewDraftService(repository.NewDraftRepo(redisClient), categories, products, cld, runner, cfg.Drafts.TTL),
		media:       service.NewMediaService(cld, runner, cfg.Media.UploadFolder),
		users:       service.NewAuthService(repos.User, tokens, cfg.Auth.AdminEmails),
	}, nil
}

// identityProviders registers every provider that has a client id.
func (a *app) identityProviders(ctx context.Context) (auth.Registry, error) {
	var providers []auth.Provider

	if a.cfg.Auth.Facebook.ClientID != "" {
		providers = append(providers, auth.NewFacebookProvider(a.cfg.Auth.Facebook))
	}

	if a.cfg.Auth.Google.ClientID != "" {
		google, err := auth.NewGoogleProvider(ctx, a.cfg.Auth.Google)
		if err != nil {
			return nil, fmt.Errorf("google provider: %w", err)
		}
		providers = append(providers, google)
	}

	if len(providers) == 0 {
		slog.Warn("No identity provider configured, sign-in is disabled")
	}

	return auth.NewRegistry(providers...), nil
}

// Close waits for detached tasks, then releases the connections.
func (a *app) Close(ctx context.Context) error {
	var errs []error

	if err := a.runner.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}

	if err := a.redis.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing redis: %w", err))
	}

	if err := a.repos.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing database: %w", err))
	}

	return errors.Join(errs...)
}
