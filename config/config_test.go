package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	raw := `
env: local
http:
  address: ":8080"
database:
  host: localhost
  port: 5432
  user: etnair
  password: secret
  name: etnair
  ssl_mode: disable
redis:
  addr: localhost:6379
kafka:
  brokers: ["localhost:9092"]
  booking_topic: bookings
  notifications_topic: notifications
  group_id: etnair-worker
auth:
  secret: test-secret
  token_ttl_minutes: 60
booking:
  hold_ttl_seconds: 10
worker:
  blacklist_sweep_minutes: 30
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 60, cfg.Auth.TokenTTLMin)
	assert.Equal(t, 10, cfg.Booking.HoldTTLSeconds)
	assert.Equal(t, 30, cfg.Worker.BlacklistSweepMinutes)

	dsn := cfg.Database.DSN()
	assert.Equal(t, "host=localhost port=5432 user=etnair password=secret dbname=etnair sslmode=disable", dsn)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
