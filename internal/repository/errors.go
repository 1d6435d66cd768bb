package repository

import (
	"errors"

	"github.com/Domenick1991/etnair/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

// mapError converts driver-level failures into domain outcomes. The booking
// range exclusion constraint and the (user, listing) unique constraints are
// the authoritative guards for their invariants, so their violations are
// expected results, not internal errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgExclusionViolation:
			return domain.ErrAvailabilityConflict
		case pgUniqueViolation:
			return domain.ErrDuplicate
		}
	}
	return err
}
