package domain

import "time"

// Favorite is a membership relation, unique per (UserID, ListingID).
type Favorite struct {
	ID        int64
	UserID    int64
	ListingID int64
	CreatedAt time.Time
}
