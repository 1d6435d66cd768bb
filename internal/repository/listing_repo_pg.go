package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/etnair/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ListingFilter narrows Search. Zero values mean "no constraint".
type ListingFilter struct {
	City          string
	Category      domain.ListingCategory
	MinPriceCents int64
	MaxPriceCents int64
	Capacity      int
}

type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
	Update(ctx context.Context, listing *domain.Listing) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, filter ListingFilter) ([]domain.Listing, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Listing, error)
	ListActive(ctx context.Context) ([]domain.Listing, error)
}

type PGListingRepository struct {
	db *pgxpool.Pool
}

func NewListingRepository(db *pgxpool.Pool) ListingRepository {
	return &PGListingRepository{db: db}
}

const listingColumns = `l.id, l.owner_id, u.username, u.email, l.title, l.description, l.category, l.price_cents, l.city, l.address, l.capacity, l.active, l.created_at, l.updated_at`

func (r *PGListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	err := r.db.QueryRow(ctx, `INSERT INTO listings (owner_id, title, description, category, price_cents, city, address, capacity, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		listing.OwnerID, listing.Title, listing.Description, listing.Category, listing.PriceCents, listing.City, listing.Address, listing.Capacity, listing.Active).
		Scan(&listing.ID, &listing.CreatedAt, &listing.UpdatedAt)
	return mapError(err)
}

func (r *PGListingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	row := r.db.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings l JOIN users u ON u.id = l.owner_id WHERE l.id=$1`, id)
	var l domain.Listing
	if err := scanListing(row, &l); err != nil {
		return nil, mapError(err)
	}
	return &l, nil
}

func (r *PGListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	row := r.db.QueryRow(ctx, `UPDATE listings SET title=$1, description=$2, category=$3, price_cents=$4, city=$5, address=$6, capacity=$7, active=$8, updated_at=now()
		WHERE id=$9 RETURNING updated_at`,
		listing.Title, listing.Description, listing.Category, listing.PriceCents, listing.City, listing.Address, listing.Capacity, listing.Active, listing.ID)
	return mapError(row.Scan(&listing.UpdatedAt))
}

func (r *PGListingRepository) SetActive(ctx context.Context, id int64, active bool) error {
	cmd, err := r.db.Exec(ctx, `UPDATE listings SET active=$1, updated_at=now() WHERE id=$2`, active, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGListingRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM listings WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Search returns active listings matching the filter, newest first (id DESC)
// regardless of which filters are present.
func (r *PGListingRepository) Search(ctx context.Context, filter ListingFilter) ([]domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings l JOIN users u ON u.id = l.owner_id WHERE l.active`
	args := []interface{}{}

	if filter.City != "" {
		args = append(args, "%"+filter.City+"%")
		query += fmt.Sprintf(" AND l.city ILIKE $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND l.category = $%d", len(args))
	}
	if filter.MinPriceCents > 0 {
		args = append(args, filter.MinPriceCents)
		query += fmt.Sprintf(" AND l.price_cents >= $%d", len(args))
	}
	if filter.MaxPriceCents > 0 {
		args = append(args, filter.MaxPriceCents)
		query += fmt.Sprintf(" AND l.price_cents <= $%d", len(args))
	}
	if filter.Capacity > 0 {
		args = append(args, filter.Capacity)
		query += fmt.Sprintf(" AND l.capacity >= $%d", len(args))
	}
	query += " ORDER BY l.id DESC"

	return r.queryListings(ctx, query, args...)
}

func (r *PGListingRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Listing, error) {
	return r.queryListings(ctx, `SELECT `+listingColumns+` FROM listings l JOIN users u ON u.id = l.owner_id WHERE l.owner_id=$1 ORDER BY l.created_at DESC`, ownerID)
}

func (r *PGListingRepository) ListActive(ctx context.Context) ([]domain.Listing, error) {
	return r.queryListings(ctx, `SELECT ` + listingColumns + ` FROM listings l JOIN users u ON u.id = l.owner_id WHERE l.active ORDER BY l.id DESC`)
}

func (r *PGListingRepository) queryListings(ctx context.Context, query string, args ...interface{}) ([]domain.Listing, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	listings := make([]domain.Listing, 0)
	for rows.Next() {
		var l domain.Listing
		if err := scanListing(rows, &l); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanListing(row rowScanner, l *domain.Listing) error {
	return row.Scan(&l.ID, &l.OwnerID, &l.OwnerName, &l.OwnerEmail, &l.Title, &l.Description, &l.Category, &l.PriceCents, &l.City, &l.Address, &l.Capacity, &l.Active, &l.CreatedAt, &l.UpdatedAt)
}

var _ ListingRepository = (*PGListingRepository)(nil)
