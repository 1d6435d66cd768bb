package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/etnair/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
	ExistsOverlapping(ctx context.Context, listingID int64, arriveAt, leaveAt time.Time, excludeID int64) (bool, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]domain.Booking, error)
	ListByListing(ctx context.Context, listingID int64) ([]domain.Booking, error)
	ListReceived(ctx context.Context, ownerID int64) ([]domain.Booking, error)
	ListActiveRanges(ctx context.Context, listingID int64) ([]domain.DateRange, error)
	HasCompleted(ctx context.Context, requesterID, listingID int64) (bool, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `b.id, b.requester_id, b.listing_id, l.owner_id, b.reference, b.title, b.arrive_at, b.leave_at, b.guest_count, b.total_price_cents, b.status, b.city, b.address, b.contact_host, b.created_at, b.updated_at`

// Create inserts the booking with its snapshot fields in one statement. The
// bookings_no_overlap exclusion constraint rejects a racing insert for an
// overlapping range; that surfaces as domain.ErrAvailabilityConflict.
func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	err := r.db.QueryRow(ctx, `INSERT INTO bookings (requester_id, listing_id, reference, title, arrive_at, leave_at, guest_count, total_price_cents, status, city, address, contact_host)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`,
		booking.RequesterID, booking.ListingID, booking.Reference, booking.Title, booking.ArriveAt, booking.LeaveAt, booking.GuestCount, booking.TotalPriceCents, booking.Status, booking.City, booking.Address, booking.ContactHost).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	return mapError(err)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings b JOIN listings l ON l.id = b.listing_id WHERE b.id=$1`, id)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		return nil, mapError(err)
	}
	return &b, nil
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings b SET status=$1, updated_at=now()
		FROM listings l
		WHERE b.id=$2 AND l.id = b.listing_id
		RETURNING `+bookingColumns, status, id)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		return nil, mapError(err)
	}
	return &b, nil
}

func (r *PGBookingRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ExistsOverlapping checks PENDING/CONFIRMED bookings on the listing against
// the half-open range [arriveAt, leaveAt). excludeID=0 excludes nothing.
func (r *PGBookingRepository) ExistsOverlapping(ctx context.Context, listingID int64, arriveAt, leaveAt time.Time, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (
		SELECT 1 FROM bookings
		WHERE listing_id=$1
		  AND status IN ($2, $3)
		  AND id <> $4
		  AND arrive_at < $5
		  AND leave_at > $6
	)`, listingID, domain.BookingStatusPending, domain.BookingStatusConfirmed, excludeID, leaveAt, arriveAt).Scan(&exists)
	if err != nil {
		return false, mapError(err)
	}
	return exists, nil
}

func (r *PGBookingRepository) ListByRequester(ctx context.Context, requesterID int64) ([]domain.Booking, error) {
	return r.queryBookings(ctx, `SELECT `+bookingColumns+` FROM bookings b JOIN listings l ON l.id = b.listing_id WHERE b.requester_id=$1 ORDER BY b.created_at DESC`, requesterID)
}

func (r *PGBookingRepository) ListByListing(ctx context.Context, listingID int64) ([]domain.Booking, error) {
	return r.queryBookings(ctx, `SELECT `+bookingColumns+` FROM bookings b JOIN listings l ON l.id = b.listing_id WHERE b.listing_id=$1 ORDER BY b.arrive_at ASC`, listingID)
}

func (r *PGBookingRepository) ListReceived(ctx context.Context, ownerID int64) ([]domain.Booking, error) {
	return r.queryBookings(ctx, `SELECT `+bookingColumns+` FROM bookings b JOIN listings l ON l.id = b.listing_id WHERE l.owner_id=$1 ORDER BY b.created_at DESC`, ownerID)
}

func (r *PGBookingRepository) ListActiveRanges(ctx context.Context, listingID int64) ([]domain.DateRange, error) {
	rows, err := r.db.Query(ctx, `SELECT arrive_at, leave_at FROM bookings WHERE listing_id=$1 AND status IN ($2, $3) ORDER BY arrive_at`, listingID, domain.BookingStatusPending, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	ranges := make([]domain.DateRange, 0)
	for rows.Next() {
		var dr domain.DateRange
		if err := rows.Scan(&dr.ArriveAt, &dr.LeaveAt); err != nil {
			return nil, err
		}
		ranges = append(ranges, dr)
	}
	return ranges, rows.Err()
}

func (r *PGBookingRepository) HasCompleted(ctx context.Context, requesterID, listingID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE requester_id=$1 AND listing_id=$2 AND status=$3)`,
		requesterID, listingID, domain.BookingStatusCompleted).Scan(&exists)
	if err != nil {
		return false, mapError(err)
	}
	return exists, nil
}

func (r *PGBookingRepository) queryBookings(ctx context.Context, query string, args ...interface{}) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func scanBooking(row rowScanner, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.RequesterID, &b.ListingID, &b.ListingOwnerID, &b.Reference, &b.Title, &b.ArriveAt, &b.LeaveAt, &b.GuestCount, &b.TotalPriceCents, &b.Status, &b.City, &b.Address, &b.ContactHost, &b.CreatedAt, &b.UpdatedAt)
}

var _ BookingRepository = (*PGBookingRepository)(nil)
