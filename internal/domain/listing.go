package domain

import "time"

type ListingCategory string

const (
	ListingCategoryApartment ListingCategory = "APARTMENT"
	ListingCategoryHouse     ListingCategory = "HOUSE"
	ListingCategoryVilla     ListingCategory = "VILLA"
	ListingCategoryStudio    ListingCategory = "STUDIO"
	ListingCategoryRoom      ListingCategory = "ROOM"
	ListingCategoryOther     ListingCategory = "OTHER"
)

func (c ListingCategory) Valid() bool {
	switch c {
	case ListingCategoryApartment, ListingCategoryHouse, ListingCategoryVilla,
		ListingCategoryStudio, ListingCategoryRoom, ListingCategoryOther:
		return true
	}
	return false
}

// Listing is a rentable property owned by a single user. OwnerName and
// OwnerEmail are filled from the users table on reads that join the owner.
type Listing struct {
	ID          int64
	OwnerID     int64
	OwnerName   string
	OwnerEmail  string
	Title       string
	Description string
	Category    ListingCategory
	PriceCents  int64
	City        string
	Address     string
	Capacity    int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RatingSummary aggregates reviews for a listing.
type RatingSummary struct {
	Average float64
	Count   int
}

// DateRange is an occupied half-open interval on a listing calendar.
type DateRange struct {
	ArriveAt time.Time
	LeaveAt  time.Time
}
