package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/etnair/api"
	"github.com/Domenick1991/etnair/config"
	"github.com/Domenick1991/etnair/internal/auth"
	"github.com/Domenick1991/etnair/internal/bootstrap"
	"github.com/Domenick1991/etnair/internal/cache"
	"github.com/Domenick1991/etnair/internal/kafka"
	"github.com/Domenick1991/etnair/internal/obs"
	"github.com/Domenick1991/etnair/internal/repository"
	authservice "github.com/Domenick1991/etnair/internal/service/auth"
	"github.com/Domenick1991/etnair/internal/service/availability"
	"github.com/Domenick1991/etnair/internal/service/booking"
	"github.com/Domenick1991/etnair/internal/service/favorites"
	"github.com/Domenick1991/etnair/internal/service/listings"
	"github.com/Domenick1991/etnair/internal/service/reviews"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := obs.NewLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.CatalogCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	userRepo := repository.NewUserRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)
	listingRepo := repository.NewListingRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	favoriteRepo := repository.NewFavoriteRepository(pool)

	tokenManager := auth.NewTokenManager(cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTLMin)*time.Minute)
	authSvc := authservice.NewAuthService(userRepo, tokenRepo, tokenManager)
	engine := availability.NewService(bookingRepo)
	bookingSvc := booking.NewBookingService(
		bookingRepo,
		listingRepo,
		engine,
		redisCache,
		producer,
		cfg.Kafka.BookingTopic,
		time.Duration(cfg.Booking.HoldTTLSeconds)*time.Second,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithLogger(logger),
	)
	listingSvc := listings.NewListingService(listingRepo, reviewRepo, bookingRepo, redisCache)
	reviewSvc := reviews.NewReviewService(reviewRepo, bookingRepo)
	favoriteSvc := favorites.NewFavoriteService(favoriteRepo)

	handlers := bootstrap.Handlers{
		Auth:      api.NewAuthHandler(authSvc),
		Listings:  api.NewListingHandler(listingSvc, authSvc),
		Bookings:  api.NewBookingHandler(bookingSvc, authSvc),
		Reviews:   api.NewReviewHandler(reviewSvc, authSvc),
		Favorites: api.NewFavoriteHandler(favoriteSvc, authSvc),
	}

	if err := bootstrap.Run(ctx, cfg, logger, handlers); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
