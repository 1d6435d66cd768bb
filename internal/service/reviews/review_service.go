package reviews

import (
	"context"

	"github.com/Domenick1991/etnair/internal/authz"
	"github.com/Domenick1991/etnair/internal/domain"
	"github.com/Domenick1991/etnair/internal/repository"
)

type ReviewUseCase interface {
	Create(ctx context.Context, input CreateReviewInput) (*domain.Review, error)
	Update(ctx context.Context, reviewID, actorID int64, role domain.Role, input UpdateReviewInput) (*domain.Review, error)
	Delete(ctx context.Context, reviewID, actorID int64, role domain.Role) error
	ListByListing(ctx context.Context, listingID int64) ([]domain.Review, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]domain.Review, error)
	Rating(ctx context.Context, listingID int64) (domain.RatingSummary, error)
}

type CreateReviewInput struct {
	AuthorID  int64  `json:"-"`
	ListingID int64  `json:"listing_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type UpdateReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewService struct {
	reviews  repository.ReviewRepository
	bookings repository.BookingRepository
}

func NewReviewService(reviews repository.ReviewRepository, bookings repository.BookingRepository) *ReviewService {
	return &ReviewService{reviews: reviews, bookings: bookings}
}

func validRating(rating int) bool {
	return rating >= domain.RatingMin && rating <= domain.RatingMax
}

// Create requires a COMPLETED booking by the author on the listing and at
// most one review per (author, listing); the unique constraint backs the
// second rule under concurrency.
func (s *ReviewService) Create(ctx context.Context, input CreateReviewInput) (*domain.Review, error) {
	if !validRating(input.Rating) || len(input.Comment) > domain.CommentMaxLength {
		return nil, domain.ErrValidation
	}

	completed, err := s.bookings.HasCompleted(ctx, input.AuthorID, input.ListingID)
	if err != nil {
		return nil, err
	}
	if !completed {
		return nil, domain.ErrPrerequisiteNotMet
	}

	review := &domain.Review{
		AuthorID:  input.AuthorID,
		ListingID: input.ListingID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Update(ctx context.Context, reviewID, actorID int64, role domain.Role, input UpdateReviewInput) (*domain.Review, error) {
	if !validRating(input.Rating) || len(input.Comment) > domain.CommentMaxLength {
		return nil, domain.ErrValidation
	}

	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actorID, role, review.AuthorID) {
		return nil, domain.ErrForbidden
	}

	review.Rating = input.Rating
	review.Comment = input.Comment
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, reviewID, actorID int64, role domain.Role) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if !authz.CanMutate(actorID, role, review.AuthorID) {
		return domain.ErrForbidden
	}
	return s.reviews.Delete(ctx, reviewID)
}

func (s *ReviewService) ListByListing(ctx context.Context, listingID int64) ([]domain.Review, error) {
	return s.reviews.ListByListing(ctx, listingID)
}

func (s *ReviewService) ListByAuthor(ctx context.Context, authorID int64) ([]domain.Review, error) {
	return s.reviews.ListByAuthor(ctx, authorID)
}

func (s *ReviewService) Rating(ctx context.Context, listingID int64) (domain.RatingSummary, error) {
	return s.reviews.Rating(ctx, listingID)
}

var _ ReviewUseCase = (*ReviewService)(nil)
