package booking

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/Domenick1991/etnair/internal/authz"
	"github.com/Domenick1991/etnair/internal/domain"
	"github.com/Domenick1991/etnair/internal/kafka"
	"github.com/Domenick1991/etnair/internal/repository"
	"github.com/Domenick1991/etnair/internal/service/availability"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	Transition(ctx context.Context, bookingID, actorID int64, role domain.Role, target domain.BookingStatus) (*domain.Booking, error)
	Delete(ctx context.Context, bookingID, actorID int64, role domain.Role) error
	CheckAvailability(ctx context.Context, listingID int64, arriveAt, leaveAt time.Time) (bool, error)
	GetByID(ctx context.Context, bookingID, actorID int64, role domain.Role) (*domain.Booking, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]domain.Booking, error)
	ListByListing(ctx context.Context, listingID int64) ([]domain.Booking, error)
	ListReceived(ctx context.Context, ownerID int64) ([]domain.Booking, error)
}

// Cache serializes booking creation per listing. The hold lock closes the
// check-then-insert window before the database exclusion constraint has to.
type Cache interface {
	AcquireBookingLock(ctx context.Context, listingID int64, ttl time.Duration) (bool, error)
	ReleaseBookingLock(ctx context.Context, listingID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	RequesterID int64     `json:"-"`
	ListingID   int64     `json:"listing_id"`
	ArriveAt    time.Time `json:"arrive_at"`
	LeaveAt     time.Time `json:"leave_at"`
	GuestCount  int       `json:"guest_count"`
	Title       string    `json:"title"`
}

type BookingService struct {
	bookings           repository.BookingRepository
	listings           repository.ListingRepository
	engine             availability.Engine
	cache              Cache
	producer           Producer
	logger             *slog.Logger
	bookingTopic       string
	notificationsTopic string
	holdTTL            time.Duration
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithLogger(logger *slog.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.logger = logger
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	listings repository.ListingRepository,
	engine availability.Engine,
	cache Cache,
	producer Producer,
	bookingTopic string,
	holdTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		listings:     listings,
		engine:       engine,
		cache:        cache,
		producer:     producer,
		logger:       slog.Default(),
		bookingTopic: bookingTopic,
		holdTTL:      holdTTL,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// transitions is the only source of legal status moves. CANCELLED and
// COMPLETED are terminal.
var transitions = map[domain.BookingStatus][]domain.BookingStatus{
	domain.BookingStatusPending:   {domain.BookingStatusConfirmed, domain.BookingStatusCancelled},
	domain.BookingStatusConfirmed: {domain.BookingStatusCompleted, domain.BookingStatusCancelled},
}

func transitionAllowed(from, to domain.BookingStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Create validates the range, resolves the listing, checks availability under
// a per-listing hold lock, prices the stay and persists the booking with its
// city/address/contact snapshot.
func (s *BookingService) Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if !input.LeaveAt.After(input.ArriveAt) {
		return nil, domain.ErrInvalidRange
	}
	if input.GuestCount < 0 {
		return nil, domain.ErrValidation
	}
	if input.GuestCount == 0 {
		input.GuestCount = 1
	}

	listing, err := s.listings.GetByID(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}
	if !listing.Active {
		return nil, domain.ErrInactiveListing
	}

	if s.cache != nil {
		ok, err := s.cache.AcquireBookingLock(ctx, listing.ID, s.holdTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrAvailabilityConflict
		}
		defer func() {
			_ = s.cache.ReleaseBookingLock(ctx, listing.ID)
		}()
	}

	available, err := s.engine.IsAvailable(ctx, listing.ID, input.ArriveAt, input.LeaveAt, 0)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, domain.ErrAvailabilityConflict
	}

	booking := &domain.Booking{
		RequesterID:     input.RequesterID,
		ListingID:       listing.ID,
		ListingOwnerID:  listing.OwnerID,
		Reference:       uuid.NewString(),
		Title:           input.Title,
		ArriveAt:        input.ArriveAt,
		LeaveAt:         input.LeaveAt,
		GuestCount:      input.GuestCount,
		TotalPriceCents: listing.PriceCents * nights(input.ArriveAt, input.LeaveAt),
		Status:          domain.BookingStatusPending,
		City:            listing.City,
		Address:         listing.Address,
		ContactHost:     listing.OwnerEmail,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_created", booking)
	return booking, nil
}

// Transition moves a booking to target after the authorization and state
// checks. Availability is not re-checked: cancellation and completion never
// consume new ranges.
func (s *BookingService) Transition(ctx context.Context, bookingID, actorID int64, role domain.Role, target domain.BookingStatus) (*domain.Booking, error) {
	if !target.Valid() {
		return nil, domain.ErrValidation
	}

	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !authz.CanTransitionBooking(actorID, role, current.RequesterID, current.ListingOwnerID, target) {
		return nil, domain.ErrForbidden
	}
	if !transitionAllowed(current.Status, target) {
		return nil, domain.ErrFailedTransition
	}

	updated, err := s.bookings.UpdateStatus(ctx, bookingID, target)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_"+strings.ToLower(string(target)), updated)
	return updated, nil
}

// Delete is reserved for the requester and admins. Listing owners cancel
// through Transition instead.
func (s *BookingService) Delete(ctx context.Context, bookingID, actorID int64, role domain.Role) error {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if !authz.CanDeleteBooking(actorID, role, current.RequesterID) {
		return domain.ErrForbidden
	}
	return s.bookings.Delete(ctx, bookingID)
}

func (s *BookingService) CheckAvailability(ctx context.Context, listingID int64, arriveAt, leaveAt time.Time) (bool, error) {
	return s.engine.IsAvailable(ctx, listingID, arriveAt, leaveAt, 0)
}

func (s *BookingService) GetByID(ctx context.Context, bookingID, actorID int64, role domain.Role) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !authz.CanViewBooking(actorID, role, booking.RequesterID, booking.ListingOwnerID) {
		return nil, domain.ErrForbidden
	}
	return booking, nil
}

func (s *BookingService) ListByRequester(ctx context.Context, requesterID int64) ([]domain.Booking, error) {
	return s.bookings.ListByRequester(ctx, requesterID)
}

func (s *BookingService) ListByListing(ctx context.Context, listingID int64) ([]domain.Booking, error) {
	return s.bookings.ListByListing(ctx, listingID)
}

func (s *BookingService) ListReceived(ctx context.Context, ownerID int64) ([]domain.Booking, error) {
	return s.bookings.ListReceived(ctx, ownerID)
}

// nights charges whole nights, partial days round up, minimum one night.
func nights(arriveAt, leaveAt time.Time) int64 {
	n := int64(math.Ceil(leaveAt.Sub(arriveAt).Hours() / 24))
	if n < 1 {
		n = 1
	}
	return n
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:        eventType,
		Reference:   booking.Reference,
		BookingID:   booking.ID,
		ListingID:   booking.ListingID,
		RequesterID: booking.RequesterID,
		ContactHost: booking.ContactHost,
		Status:      string(booking.Status),
		ArriveAt:    booking.ArriveAt,
		LeaveAt:     booking.LeaveAt,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.Reference, event); err != nil {
		s.logger.Warn("publish booking event", "type", eventType, "reference", booking.Reference, "err", err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.Reference, event); err != nil {
			s.logger.Warn("publish notification event", "type", eventType, "reference", booking.Reference, "err", err)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
