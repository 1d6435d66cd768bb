package domain

import "time"

const (
	RatingMin        = 1
	RatingMax        = 5
	CommentMaxLength = 2000
)

// Review holds at most one entry per (AuthorID, ListingID) pair.
type Review struct {
	ID         int64
	AuthorID   int64
	AuthorName string
	ListingID  int64
	Rating     int
	Comment    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
