package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/etnair/config"
	"github.com/Domenick1991/etnair/internal/email"
	"github.com/Domenick1991/etnair/internal/kafka"
	"github.com/Domenick1991/etnair/internal/obs"
	"github.com/Domenick1991/etnair/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	tokenRepo := repository.NewTokenRepository(pool)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				logger.Warn("decode event", "err", err)
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			logger.Warn("consumer stopped", "err", err)
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.BlacklistSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			purged, err := tokenRepo.PurgeExpiredBefore(ctx, time.Now())
			if err != nil {
				logger.Warn("purge blacklist", "err", err)
				continue
			}
			if purged > 0 {
				logger.Info("purged expired tokens", "count", purged)
			}
		case s := <-sig:
			logger.Info("shutting down", "signal", s.String())
			return
		}
	}
}
