package availability

import (
	"context"
	"time"

	"github.com/Domenick1991/etnair/internal/domain"
	"github.com/Domenick1991/etnair/internal/repository"
)

// Overlaps is the conflict rule for two half-open ranges [a1,d1) and
// [a2,d2). It is the in-process form of the SQL predicate the repository and
// the bookings_no_overlap constraint apply.
func Overlaps(a1, d1, a2, d2 time.Time) bool {
	return a1.Before(d2) && a2.Before(d1)
}

type Engine interface {
	IsAvailable(ctx context.Context, listingID int64, arriveAt, leaveAt time.Time, excludeBookingID int64) (bool, error)
}

// Service answers whether a half-open range [arriveAt, leaveAt) is free of
// PENDING/CONFIRMED bookings on a listing. Pure read, no side effects.
type Service struct {
	bookings repository.BookingRepository
}

func NewService(bookings repository.BookingRepository) *Service {
	return &Service{bookings: bookings}
}

// IsAvailable reports true when no active booking overlaps the range.
// Two ranges conflict iff a1 < d2 AND a2 < d1, so a booking departing at T
// and another arriving at T never conflict. excludeBookingID lets an update
// of an existing booking skip its own row; 0 excludes nothing.
func (s *Service) IsAvailable(ctx context.Context, listingID int64, arriveAt, leaveAt time.Time, excludeBookingID int64) (bool, error) {
	if !leaveAt.After(arriveAt) {
		return false, domain.ErrInvalidRange
	}

	conflict, err := s.bookings.ExistsOverlapping(ctx, listingID, arriveAt, leaveAt, excludeBookingID)
	if err != nil {
		return false, err
	}
	return !conflict, nil
}

var _ Engine = (*Service)(nil)
