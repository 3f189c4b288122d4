package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/chucuoi/flower-storefront/docs"
	"github.com/chucuoi/flower-storefront/internal/api/handlers"
	"github.com/chucuoi/flower-storefront/internal/api/middleware"
	"github.com/chucuoi/flower-storefront/internal/auth"
	"github.com/chucuoi/flower-storefront/internal/health"
	"github.com/chucuoi/flower-storefront/internal/metrics"
	"github.com/chucuoi/flower-storefront/internal/telemetry"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func (a *app) routes(ctx context.Context) (http.Handler, error) {
	providers, err := a.identityProviders(ctx)
	if err != nil {
		return nil, err
	}

	sessionSecret := a.cfg.Auth.SessionSecret
	if sessionSecret == "" {
		sessionSecret = a.cfg.Security.JWTKey
	}
	states := auth.NewStateStore([]byte(sessionSecret), a.cfg.Security.CookieSecure)

	healthHandler, err := health.NewHealthHandler(a.cfg)
	if err != nil {
		return nil, err
	}

	authMiddleware := middleware.NewAuthMiddleware(a.tokens)
	limit := func(scope string, h http.Handler) http.Handler {
		return middleware.RateLimit(a.rateLimiter, scope)(h)
	}

	productHandler := handlers.NewProductHandler(a.products)
	categoryHandler := handlers.NewCategoryHandler(a.categories)
	uploadHandler := handlers.NewUploadHandler(a.media)
	draftHandler := handlers.NewDraftHandler(a.drafts)
	authHandler := handlers.NewAuthHandler(providers, states, a.users, a.cfg.Security.CookieSecure, a.cfg.Auth.SuccessURL)

	// Setup router
	routerMux := http.NewServeMux()

	routerMux.HandleFunc("GET /api/v1/products", authMiddleware.OptionalAuth(productHandler.ListProducts()))
	routerMux.HandleFunc("GET /api/v1/products/{slug}", productHandler.GetProductBySlug())
	routerMux.HandleFunc("POST /api/v1/products", authMiddleware.RequireAdmin(productHandler.CreateProduct()))
	routerMux.HandleFunc("PATCH /api/v1/products/{id}", authMiddleware.RequireAdmin(productHandler.UpdateProduct()))
	routerMux.HandleFunc("DELETE /api/v1/products/{id}", authMiddleware.RequireAdmin(productHandler.DeleteProduct()))
	routerMux.HandleFunc("GET /api/v1/admin/products/{id}", authMiddleware.RequireAdmin(productHandler.GetProductByID()))

	routerMux.HandleFunc("GET /api/v1/categories", categoryHandler.ListCategories())
	routerMux.HandleFunc("POST /api/v1/categories", authMiddleware.RequireAdmin(categoryHandler.CreateCategory()))
	routerMux.HandleFunc("PATCH /api/v1/categories/{id}", authMiddleware.RequireAdmin(categoryHandler.UpdateCategory()))
	routerMux.HandleFunc("DELETE /api/v1/categories/{id}", authMiddleware.RequireAdmin(categoryHandler.DeleteCategory()))

	routerMux.Handle("POST /api/v1/upload/delete", limit("upload-delete", authMiddleware.RequireAdmin(uploadHandler.DeleteImage())))
	routerMux.HandleFunc("POST /api/v1/upload/signature", authMiddleware.RequireAdmin(uploadHandler.SignUpload()))

	routerMux.HandleFunc("POST /api/v1/admin/product-drafts", authMiddleware.RequireAdmin(draftHandler.CreateDraft()))
	routerMux.HandleFunc("GET /api/v1/admin/product-drafts/{id}", authMiddleware.RequireAdmin(draftHandler.GetDraft()))
	routerMux.HandleFunc("PATCH /api/v1/admin/product-drafts/{id}", authMiddleware.RequireAdmin(draftHandler.PatchDraft()))
	routerMux.HandleFunc("DELETE /api/v1/admin/product-drafts/{id}", authMiddleware.RequireAdmin(draftHandler.AbandonDraft()))
	routerMux.HandleFunc("POST /api/v1/admin/product-drafts/{id}/images", authMiddleware.RequireAdmin(draftHandler.AddDraftImage()))
	routerMux.HandleFunc("DELETE /api/v1/admin/product-drafts/{id}/images", authMiddleware.RequireAdmin(draftHandler.RemoveDraftImage()))
	routerMux.HandleFunc("POST /api/v1/admin/product-drafts/{id}/submit", authMiddleware.RequireAdmin(draftHandler.SubmitDraft()))

	routerMux.Handle("GET /api/v1/auth/{provider}/start", limit("auth-start", authHandler.StartSignIn()))
	routerMux.HandleFunc("GET /api/v1/auth/{provider}/callback", authHandler.Callback())
	routerMux.HandleFunc("GET /api/v1/auth/session", authMiddleware.Authenticate(authHandler.Session()))
	routerMux.HandleFunc("POST /api/v1/auth/logout", authHandler.Logout())

	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Middleware chaining
	var handler http.Handler = metrics.Middleware(routerMux)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, a.cfg.Otel.ServiceName)

	return handler, nil
}

// runSweeper tears down expired drafts until ctx ends.
func (a *app) runSweeper(ctx context.Context) {
	interval := a.cfg.Drafts.SweepInterval
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if _, err := a.drafts.SweepExpired(ctx, now); err != nil {
				slog.Warn("Draft sweep failed", slog.String("error", err.Error()))
			}
		}
	}
}

func (a *app) serve(ctx context.Context) error {
	shutdownTracing, err := telemetry.Setup(ctx, a.cfg.Otel, a.cfg.Env)
	if err != nil {
		return err
	}

	handler, err := a.routes(ctx)
	if err != nil {
		return err
	}

	// Setup http server
	server := http.Server{
		Addr:         a.cfg.Addr,
		Handler:      handler,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
	}

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go a.runSweeper(sweepCtx)

	slog.Info("🚀 Server is starting...", slog.String("address", a.cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-done:
		slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")
	case err := <-serveErr:
		if err != nil {
			slog.Error("❌ Failed to start server", slog.String("error", err.Error()))
			return err
		}
	}

	stopSweeper()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Warn("Failed to flush traces", slog.String("error", err.Error()))
	}

	return nil
}
