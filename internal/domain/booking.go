package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// IsActive reports whether the booking counts toward availability.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// Booking reserves a listing for the half-open range [ArriveAt, LeaveAt).
// City, Address and ContactHost are snapshots taken from the listing and its
// owner at creation time; they never follow later listing edits.
type Booking struct {
	ID              int64
	RequesterID     int64
	ListingID       int64
	ListingOwnerID  int64
	Reference       string
	Title           string
	ArriveAt        time.Time
	LeaveAt         time.Time
	GuestCount      int
	TotalPriceCents int64
	Status          BookingStatus
	City            string
	Address         string
	ContactHost     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
