package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Domenick1991/etnair/api"
	"github.com/Domenick1991/etnair/config"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers groups everything the HTTP server mounts.
type Handlers struct {
	Auth      *api.AuthHandler
	Listings  *api.ListingHandler
	Bookings  *api.BookingHandler
	Reviews   *api.ReviewHandler
	Favorites *api.FavoriteHandler
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger, h Handlers) error {
	srv := newServer(cfg, logger, h)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newServer(cfg *config.Config, logger *slog.Logger, h Handlers) *http.Server {
	if cfg.Env != "dev" && cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(logger))

	root := router.Group("/api")
	h.Auth.Register(root.Group("/auth"))
	h.Listings.Register(root.Group("/listings"))
	h.Bookings.Register(root.Group("/bookings"))
	h.Reviews.Register(root.Group("/reviews"))
	h.Favorites.Register(root.Group("/favorites"))

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/etnair.swagger.json"),
		)))
	}

	return &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}
}
