package repository

import (
	"context"

	"github.com/Domenick1991/etnair/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FavoriteRepository interface {
	Toggle(ctx context.Context, userID, listingID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Favorite, error)
	CountByListing(ctx context.Context, listingID int64) (int, error)
}

type PGFavoriteRepository struct {
	db *pgxpool.Pool
}

func NewFavoriteRepository(db *pgxpool.Pool) FavoriteRepository {
	return &PGFavoriteRepository{db: db}
}

// Toggle removes the favorite if present, otherwise inserts it. Runs in one
// transaction; the (user_id, listing_id) unique constraint plus ON CONFLICT
// DO NOTHING make a concurrent duplicate toggle read as "already favorited"
// instead of failing.
func (r *PGFavoriteRepository) Toggle(ctx context.Context, userID, listingID int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `DELETE FROM favorites WHERE user_id=$1 AND listing_id=$2`, userID, listingID)
	if err != nil {
		return false, mapError(err)
	}
	if cmd.RowsAffected() > 0 {
		return false, tx.Commit(ctx)
	}

	if _, err := tx.Exec(ctx, `INSERT INTO favorites (user_id, listing_id) VALUES ($1, $2) ON CONFLICT (user_id, listing_id) DO NOTHING`, userID, listingID); err != nil {
		return false, mapError(err)
	}
	return true, tx.Commit(ctx)
}

func (r *PGFavoriteRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Favorite, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, listing_id, created_at FROM favorites WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	favorites := make([]domain.Favorite, 0)
	for rows.Next() {
		var f domain.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.ListingID, &f.CreatedAt); err != nil {
			return nil, err
		}
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

func (r *PGFavoriteRepository) CountByListing(ctx context.Context, listingID int64) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM favorites WHERE listing_id=$1`, listingID).Scan(&count); err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

var _ FavoriteRepository = (*PGFavoriteRepository)(nil)
