package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/etnair/internal/domain"
	"github.com/Domenick1991/etnair/internal/repository"
	"github.com/Domenick1991/etnair/internal/service/availability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func day(n int) time.Time {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingRepository) ExistsOverlapping(ctx context.Context, listingID int64, arriveAt, leaveAt time.Time, excludeID int64) (bool, error) {
	args := m.Called(ctx, listingID, arriveAt, leaveAt, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) ListByRequester(ctx context.Context, requesterID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, requesterID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByListing(ctx context.Context, listingID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListReceived(ctx context.Context, ownerID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListActiveRanges(ctx context.Context, listingID int64) ([]domain.DateRange, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).([]domain.DateRange), args.Error(1)
}

func (m *MockBookingRepository) HasCompleted(ctx context.Context, requesterID, listingID int64) (bool, error) {
	args := m.Called(ctx, requesterID, listingID)
	return args.Bool(0), args.Error(1)
}

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) SetActive(ctx context.Context, id int64, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockListingRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingRepository) Search(ctx context.Context, filter repository.ListingFilter) ([]domain.Listing, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Listing), args.Error(1)
}

func (m *MockListingRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Listing, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Listing), args.Error(1)
}

func (m *MockListingRepository) ListActive(ctx context.Context) ([]domain.Listing, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Listing), args.Error(1)
}

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) IsAvailable(ctx context.Context, listingID int64, arriveAt, leaveAt time.Time, excludeBookingID int64) (bool, error) {
	args := m.Called(ctx, listingID, arriveAt, leaveAt, excludeBookingID)
	return args.Bool(0), args.Error(1)
}

func activeListing() *domain.Listing {
	return &domain.Listing{
		ID:         7,
		OwnerID:    2,
		OwnerEmail: "host@example.com",
		Title:      "Loft in Lyon",
		Category:   domain.ListingCategoryApartment,
		PriceCents: 10000,
		City:       "Lyon",
		Address:    "12 rue de la Soie",
		Active:     true,
	}
}

func newService(bookings *MockBookingRepository, listings *MockListingRepository, engine *MockEngine) *BookingService {
	return NewBookingService(bookings, listings, engine, nil, nil, "", time.Minute)
}

func TestCreate_Success(t *testing.T) {
	bookings := &MockBookingRepository{}
	listings := &MockListingRepository{}
	engine := &MockEngine{}
	svc := newService(bookings, listings, engine)
	ctx := context.Background()

	listings.On("GetByID", ctx, int64(7)).Return(activeListing(), nil)
	engine.On("IsAvailable", ctx, int64(7), day(13), day(15), int64(0)).Return(true, nil)
	bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)

	created, err := svc.Create(ctx, CreateBookingInput{
		RequesterID: 1,
		ListingID:   7,
		ArriveAt:    day(13),
		LeaveAt:     day(15),
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, created.Status)
	// Two nights at 100.00 per night.
	assert.Equal(t, int64(20000), created.TotalPriceCents)
	assert.Equal(t, 1, created.GuestCount)
	assert.NotEmpty(t, created.Reference)
	// Snapshot fields come from the listing and its owner.
	assert.Equal(t, "Lyon", created.City)
	assert.Equal(t, "12 rue de la Soie", created.Address)
	assert.Equal(t, "host@example.com", created.ContactHost)

	bookings.AssertExpectations(t)
	listings.AssertExpectations(t)
	engine.AssertExpectations(t)
}

func TestCreate_PartialNightRoundsUp(t *testing.T) {
	bookings := &MockBookingRepository{}
	listings := &MockListingRepository{}
	engine := &MockEngine{}
	svc := newService(bookings, listings, engine)
	ctx := context.Background()

	arrive := day(10)
	leave := day(11).Add(6 * time.Hour)

	listings.On("GetByID", ctx, int64(7)).Return(activeListing(), nil)
	engine.On("IsAvailable", ctx, int64(7), arrive, leave, int64(0)).Return(true, nil)
	bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)

	created, err := svc.Create(ctx, CreateBookingInput{RequesterID: 1, ListingID: 7, ArriveAt: arrive, LeaveAt: leave})
	assert.NoError(t, err)
	assert.Equal(t, int64(20000), created.TotalPriceCents)
}

func TestCreate_InvalidRange(t *testing.T) {
	svc := newService(&MockBookingRepository{}, &MockListingRepository{}, &MockEngine{})

	_, err := svc.Create(context.Background(), CreateBookingInput{RequesterID: 1, ListingID: 7, ArriveAt: day(15), LeaveAt: day(13)})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = svc.Create(context.Background(), CreateBookingInput{RequesterID: 1, ListingID: 7, ArriveAt: day(13), LeaveAt: day(13)})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestCreate_ListingNotFound(t *testing.T) {
	bookings := &MockBookingRepository{}
	listings := &MockListingRepository{}
	svc := newService(bookings, listings, &MockEngine{})
	ctx := context.Background()

	listings.On("GetByID", ctx, int64(7)).Return(nil, domain.ErrNotFound)

	_, err := svc.Create(ctx, CreateBookingInput{RequesterID: 1, ListingID: 7, ArriveAt: day(13), LeaveAt: day(15)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_InactiveListing(t *testing.T) {
	bookings := &MockBookingRepository{}
	listings := &MockListingRepository{}
	svc := newService(bookings, listings, &MockEngine{})
	ctx := context.Background()

	inactive := activeListing()
	inactive.Active = false
	listings.On("GetByID", ctx, int64(7)).Return(inactive, nil)

	_, err := svc.Create(ctx, CreateBookingInput{RequesterID: 1, ListingID: 7, ArriveAt: day(13), LeaveAt: day(15)})
	assert.ErrorIs(t, err, domain.ErrInactiveListing)
}

func TestCreate_Conflict(t *testing.T) {
	bookings := &MockBookingRepository{}
	listings := &MockListingRepository{}
	engine := &MockEngine{}
	svc := newService(bookings, listings, engine)
	ctx := context.Background()

	listings.On("GetByID", ctx, int64(7)).Return(activeListing(), nil)
	engine.On("IsAvailable", ctx, int64(7), day(12), day(15), int64(0)).Return(false, nil)

	_, err := svc.Create(ctx, CreateBookingInput{RequesterID: 1, ListingID: 7, ArriveAt: day(12), LeaveAt: day(15)})
	assert.ErrorIs(t, err, domain.ErrAvailabilityConflict)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// racingBookingRepo behaves like the store with the exclusion constraint:
// inserts are serialized and an overlapping second insert is rejected, even
// when both requests passed the availability check.
type racingBookingRepo struct {
	MockBookingRepository
	mu     sync.Mutex
	stored []domain.Booking
}

func (r *racingBookingRepo) ExistsOverlapping(ctx context.Context, listingID int64, arriveAt, leaveAt time.Time, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.stored {
		if b.ListingID == listingID && b.ArriveAt.Before(leaveAt) && arriveAt.Before(b.LeaveAt) {
			return true, nil
		}
	}
	return false, nil
}

func (r *racingBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.stored {
		if b.ListingID == booking.ListingID && b.ArriveAt.Before(booking.LeaveAt) && booking.ArriveAt.Before(b.LeaveAt) {
			return domain.ErrAvailabilityConflict
		}
	}
	booking.ID = int64(len(r.stored) + 1)
	r.stored = append(r.stored, *booking)
	return nil
}

func TestCreate_ConcurrentSameRange(t *testing.T) {
	repo := &racingBookingRepo{}
	listings := &MockListingRepository{}
	listings.On("GetByID", mock.Anything, int64(7)).Return(activeListing(), nil)

	engine := availability.NewService(repo)
	svc := NewBookingService(repo, listings, engine, nil, nil, "", time.Minute)

	input := CreateBookingInput{RequesterID: 1, ListingID: 7, ArriveAt: day(10), LeaveAt: day(13)}
	other := input
	other.RequesterID = 9

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, in := range []CreateBookingInput{input, other} {
		wg.Add(1)
		go func(i int, in CreateBookingInput) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), in)
		}(i, in)
	}
	wg.Wait()

	succeeded, conflicted := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, domain.ErrAvailabilityConflict):
			conflicted++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one creation must win")
	assert.Equal(t, 1, conflicted)
	assert.Len(t, repo.stored, 1, "no double booking may persist")
}

func TestTransition_RequesterCannotConfirm(t *testing.T) {
	bookings := &MockBookingRepository{}
	svc := newService(bookings, &MockListingRepository{}, &MockEngine{})
	ctx := context.Background()

	bookings.On("GetByID", ctx, int64(5)).Return(&domain.Booking{
		ID: 5, RequesterID: 1, ListingOwnerID: 2, Status: domain.BookingStatusPending,
	}, nil)

	_, err := svc.Transition(ctx, 5, 1, domain.RoleUser, domain.BookingStatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransition_OwnerConfirms(t *testing.T) {
	bookings := &MockBookingRepository{}
	svc := newService(bookings, &MockListingRepository{}, &MockEngine{})
	ctx := context.Background()

	current := &domain.Booking{ID: 5, RequesterID: 1, ListingOwnerID: 2, Status: domain.BookingStatusPending}
	confirmed := &domain.Booking{ID: 5, RequesterID: 1, ListingOwnerID: 2, Status: domain.BookingStatusConfirmed}
	bookings.On("GetByID", ctx, int64(5)).Return(current, nil)
	bookings.On("UpdateStatus", ctx, int64(5), domain.BookingStatusConfirmed).Return(confirmed, nil)

	updated, err := svc.Transition(ctx, 5, 2, domain.RoleUser, domain.BookingStatusConfirmed)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, updated.Status)
	bookings.AssertExpectations(t)
}

func TestTransition_RequesterCancels(t *testing.T) {
	bookings := &MockBookingRepository{}
	svc := newService(bookings, &MockListingRepository{}, &MockEngine{})
	ctx := context.Background()

	current := &domain.Booking{ID: 5, RequesterID: 1, ListingOwnerID: 2, Status: domain.BookingStatusPending}
	cancelled := &domain.Booking{ID: 5, RequesterID: 1, ListingOwnerID: 2, Status: domain.BookingStatusCancelled}
	bookings.On("GetByID", ctx, int64(5)).Return(current, nil)
	bookings.On("UpdateStatus", ctx, int64(5), domain.BookingStatusCancelled).Return(cancelled, nil)

	updated, err := svc.Transition(ctx, 5, 1, domain.RoleUser, domain.BookingStatusCancelled)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, updated.Status)
}

func TestTransition_TerminalStatesAbsorb(t *testing.T) {
	bookings := &MockBookingRepository{}
	svc := newService(bookings, &MockListingRepository{}, &MockEngine{})
	ctx := context.Background()

	for _, terminal := range []domain.BookingStatus{domain.BookingStatusCancelled, domain.BookingStatusCompleted} {
		bookings.ExpectedCalls = nil
		bookings.On("GetByID", ctx, int64(5)).Return(&domain.Booking{
			ID: 5, RequesterID: 1, ListingOwnerID: 2, Status: terminal,
		}, nil)

		_, err := svc.Transition(ctx, 5, 2, domain.RoleAdmin, domain.BookingStatusConfirmed)
		assert.ErrorIs(t, err, domain.ErrFailedTransition)
	}
}

func TestTransition_PendingCannotComplete(t *testing.T) {
	bookings := &MockBookingRepository{}
	svc := newService(bookings, &MockListingRepository{}, &MockEngine{})
	ctx := context.Background()

	bookings.On("GetByID", ctx, int64(5)).Return(&domain.Booking{
		ID: 5, RequesterID: 1, ListingOwnerID: 2, Status: domain.BookingStatusPending,
	}, nil)

	_, err := svc.Transition(ctx, 5, 1, domain.RoleUser, domain.BookingStatusCompleted)
	assert.ErrorIs(t, err, domain.ErrFailedTransition)
}

func TestDelete_Authorization(t *testing.T) {
	ctx := context.Background()
	current := &domain.Booking{ID: 5, RequesterID: 1, ListingOwnerID: 2, Status: domain.BookingStatusPending}

	tests := []struct {
		name    string
		actorID int64
		role    domain.Role
		wantErr error
	}{
		{"requester may delete", 1, domain.RoleUser, nil},
		{"admin may delete", 99, domain.RoleAdmin, nil},
		{"listing owner may not delete", 2, domain.RoleUser, domain.ErrForbidden},
		{"stranger may not delete", 3, domain.RoleUser, domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings := &MockBookingRepository{}
			svc := newService(bookings, &MockListingRepository{}, &MockEngine{})
			bookings.On("GetByID", ctx, int64(5)).Return(current, nil)
			if tt.wantErr == nil {
				bookings.On("Delete", ctx, int64(5)).Return(nil)
			}

			err := svc.Delete(ctx, 5, tt.actorID, tt.role)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNights(t *testing.T) {
	assert.Equal(t, int64(3), nights(day(10), day(13)))
	assert.Equal(t, int64(1), nights(day(10), day(10).Add(2*time.Hour)))
	assert.Equal(t, int64(2), nights(day(10), day(11).Add(time.Hour)))
}
