package listings

import (
	"context"

	"github.com/Domenick1991/etnair/internal/authz"
	"github.com/Domenick1991/etnair/internal/domain"
	"github.com/Domenick1991/etnair/internal/repository"
)

type ListingUseCase interface {
	Create(ctx context.Context, ownerID int64, input ListingInput) (*domain.Listing, error)
	Update(ctx context.Context, listingID, actorID int64, role domain.Role, input ListingInput) (*domain.Listing, error)
	SetActive(ctx context.Context, listingID, actorID int64, role domain.Role, active bool) error
	Delete(ctx context.Context, listingID, actorID int64, role domain.Role) error
	Get(ctx context.Context, id int64) (*ListingDetail, error)
	Search(ctx context.Context, filter repository.ListingFilter) ([]domain.Listing, error)
	Catalog(ctx context.Context) ([]domain.Listing, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Listing, error)
}

type Cache interface {
	GetCatalog(ctx context.Context) ([]domain.Listing, error)
	SetCatalog(ctx context.Context, listings []domain.Listing) error
	InvalidateCatalog(ctx context.Context) error
}

type ListingInput struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Category    domain.ListingCategory `json:"category"`
	PriceCents  int64                  `json:"price_cents"`
	City        string                 `json:"city"`
	Address     string                 `json:"address"`
	Capacity    int                    `json:"capacity"`
	Active      bool                   `json:"active"`
}

// ListingDetail is the full read model: listing plus review aggregates and
// the occupied ranges active bookings hold on its calendar.
type ListingDetail struct {
	Listing      domain.Listing
	Rating       domain.RatingSummary
	BookedRanges []domain.DateRange
}

type ListingService struct {
	listings repository.ListingRepository
	reviews  repository.ReviewRepository
	bookings repository.BookingRepository
	cache    Cache
}

func NewListingService(listings repository.ListingRepository, reviews repository.ReviewRepository, bookings repository.BookingRepository, cache Cache) *ListingService {
	return &ListingService{listings: listings, reviews: reviews, bookings: bookings, cache: cache}
}

func validateInput(input ListingInput) error {
	if input.Title == "" || input.City == "" {
		return domain.ErrValidation
	}
	if !input.Category.Valid() {
		return domain.ErrValidation
	}
	if input.PriceCents < 0 {
		return domain.ErrValidation
	}
	return nil
}

func (s *ListingService) Create(ctx context.Context, ownerID int64, input ListingInput) (*domain.Listing, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	listing := &domain.Listing{
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		PriceCents:  input.PriceCents,
		City:        input.City,
		Address:     input.Address,
		Capacity:    input.Capacity,
		Active:      input.Active,
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return listing, nil
}

func (s *ListingService) Update(ctx context.Context, listingID, actorID int64, role domain.Role, input ListingInput) (*domain.Listing, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actorID, role, listing.OwnerID) {
		return nil, domain.ErrForbidden
	}

	listing.Title = input.Title
	listing.Description = input.Description
	listing.Category = input.Category
	listing.PriceCents = input.PriceCents
	listing.City = input.City
	listing.Address = input.Address
	listing.Capacity = input.Capacity
	listing.Active = input.Active

	if err := s.listings.Update(ctx, listing); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return listing, nil
}

func (s *ListingService) SetActive(ctx context.Context, listingID, actorID int64, role domain.Role, active bool) error {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if !authz.CanMutate(actorID, role, listing.OwnerID) {
		return domain.ErrForbidden
	}
	if err := s.listings.SetActive(ctx, listingID, active); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes the listing; bookings, reviews and favorites referencing it
// go with it through the schema cascades.
func (s *ListingService) Delete(ctx context.Context, listingID, actorID int64, role domain.Role) error {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if !authz.CanMutate(actorID, role, listing.OwnerID) {
		return domain.ErrForbidden
	}
	if err := s.listings.Delete(ctx, listingID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ListingService) Get(ctx context.Context, id int64) (*ListingDetail, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rating, err := s.reviews.Rating(ctx, id)
	if err != nil {
		return nil, err
	}
	ranges, err := s.bookings.ListActiveRanges(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ListingDetail{Listing: *listing, Rating: rating, BookedRanges: ranges}, nil
}

func (s *ListingService) Search(ctx context.Context, filter repository.ListingFilter) ([]domain.Listing, error) {
	return s.listings.Search(ctx, filter)
}

// Catalog serves the unfiltered active list through the cache.
func (s *ListingService) Catalog(ctx context.Context) ([]domain.Listing, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetCatalog(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	listings, err := s.listings.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetCatalog(ctx, listings)
	}
	return listings, nil
}

func (s *ListingService) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Listing, error) {
	return s.listings.ListByOwner(ctx, ownerID)
}

func (s *ListingService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateCatalog(ctx)
	}
}

var _ ListingUseCase = (*ListingService)(nil)
