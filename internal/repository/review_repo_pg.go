package repository

import (
	"context"

	"github.com/Domenick1991/etnair/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id int64) error
	ListByListing(ctx context.Context, listingID int64) ([]domain.Review, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]domain.Review, error)
	Rating(ctx context.Context, listingID int64) (domain.RatingSummary, error)
}

type PGReviewRepository struct {
	db *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) ReviewRepository {
	return &PGReviewRepository{db: db}
}

const reviewColumns = `r.id, r.author_id, u.username, r.listing_id, r.rating, r.comment, r.created_at, r.updated_at`

// Create relies on the (author_id, listing_id) unique constraint; a second
// review by the same author maps to domain.ErrDuplicate.
func (r *PGReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	err := r.db.QueryRow(ctx, `INSERT INTO reviews (author_id, listing_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		review.AuthorID, review.ListingID, review.Rating, review.Comment).
		Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	return mapError(err)
}

func (r *PGReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	row := r.db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews r JOIN users u ON u.id = r.author_id WHERE r.id=$1`, id)
	var rv domain.Review
	if err := scanReview(row, &rv); err != nil {
		return nil, mapError(err)
	}
	return &rv, nil
}

func (r *PGReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	row := r.db.QueryRow(ctx, `UPDATE reviews SET rating=$1, comment=$2, updated_at=now() WHERE id=$3 RETURNING updated_at`,
		review.Rating, review.Comment, review.ID)
	return mapError(row.Scan(&review.UpdatedAt))
}

func (r *PGReviewRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGReviewRepository) ListByListing(ctx context.Context, listingID int64) ([]domain.Review, error) {
	return r.queryReviews(ctx, `SELECT `+reviewColumns+` FROM reviews r JOIN users u ON u.id = r.author_id WHERE r.listing_id=$1 ORDER BY r.created_at DESC`, listingID)
}

func (r *PGReviewRepository) ListByAuthor(ctx context.Context, authorID int64) ([]domain.Review, error) {
	return r.queryReviews(ctx, `SELECT `+reviewColumns+` FROM reviews r JOIN users u ON u.id = r.author_id WHERE r.author_id=$1 ORDER BY r.created_at DESC`, authorID)
}

func (r *PGReviewRepository) Rating(ctx context.Context, listingID int64) (domain.RatingSummary, error) {
	var summary domain.RatingSummary
	err := r.db.QueryRow(ctx, `SELECT COALESCE(AVG(rating), 0), COUNT(rating) FROM reviews WHERE listing_id=$1`, listingID).
		Scan(&summary.Average, &summary.Count)
	if err != nil {
		return domain.RatingSummary{}, mapError(err)
	}
	return summary, nil
}

func (r *PGReviewRepository) queryReviews(ctx context.Context, query string, args ...interface{}) ([]domain.Review, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var rv domain.Review
		if err := scanReview(rows, &rv); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func scanReview(row rowScanner, rv *domain.Review) error {
	return row.Scan(&rv.ID, &rv.AuthorID, &rv.AuthorName, &rv.ListingID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt)
}

var _ ReviewRepository = (*PGReviewRepository)(nil)
