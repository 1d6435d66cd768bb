package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TokenRepository is the revocation list. A listed token is no longer honored
// regardless of cryptographic validity. Expired rows are purged by the worker,
// not synchronously.
type TokenRepository interface {
	Blacklist(ctx context.Context, token string, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
	PurgeExpiredBefore(ctx context.Context, deadline time.Time) (int64, error)
}

type PGTokenRepository struct {
	db *pgxpool.Pool
}

func NewTokenRepository(db *pgxpool.Pool) TokenRepository {
	return &PGTokenRepository{db: db}
}

func (r *PGTokenRepository) Blacklist(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx, `INSERT INTO token_blacklist (token, expires_at) VALUES ($1, $2) ON CONFLICT (token) DO NOTHING`, token, expiresAt)
	return mapError(err)
}

func (r *PGTokenRepository) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM token_blacklist WHERE token=$1)`, token).Scan(&exists); err != nil {
		return false, mapError(err)
	}
	return exists, nil
}

func (r *PGTokenRepository) PurgeExpiredBefore(ctx context.Context, deadline time.Time) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM token_blacklist WHERE expires_at <= $1`, deadline)
	if err != nil {
		return 0, mapError(err)
	}
	return cmd.RowsAffected(), nil
}

var _ TokenRepository = (*PGTokenRepository)(nil)
