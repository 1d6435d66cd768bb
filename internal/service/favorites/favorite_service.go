package favorites

import (
	"context"

	"github.com/Domenick1991/etnair/internal/domain"
	"github.com/Domenick1991/etnair/internal/repository"
)

type FavoriteUseCase interface {
	Toggle(ctx context.Context, userID, listingID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Favorite, error)
	CountByListing(ctx context.Context, listingID int64) (int, error)
}

type FavoriteService struct {
	favorites repository.FavoriteRepository
}

func NewFavoriteService(favorites repository.FavoriteRepository) *FavoriteService {
	return &FavoriteService{favorites: favorites}
}

// Toggle flips membership and returns the resulting state. Atomicity lives in
// the repository; two concurrent toggles cannot leave duplicate rows.
func (s *FavoriteService) Toggle(ctx context.Context, userID, listingID int64) (bool, error) {
	return s.favorites.Toggle(ctx, userID, listingID)
}

func (s *FavoriteService) ListByUser(ctx context.Context, userID int64) ([]domain.Favorite, error) {
	return s.favorites.ListByUser(ctx, userID)
}

func (s *FavoriteService) CountByListing(ctx context.Context, listingID int64) (int, error) {
	return s.favorites.CountByListing(ctx, listingID)
}

var _ FavoriteUseCase = (*FavoriteService)(nil)
