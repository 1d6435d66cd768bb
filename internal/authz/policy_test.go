package authz

import (
	"testing"

	"github.com/Domenick1991/etnair/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCanMutate(t *testing.T) {
	assert.True(t, CanMutate(1, domain.RoleUser, 1))
	assert.False(t, CanMutate(1, domain.RoleUser, 2))
	assert.True(t, CanMutate(1, domain.RoleAdmin, 2))
}

func TestCanViewBooking(t *testing.T) {
	tests := []struct {
		name    string
		actorID int64
		role    domain.Role
		want    bool
	}{
		{"requester", 1, domain.RoleUser, true},
		{"listing owner", 2, domain.RoleUser, true},
		{"admin", 99, domain.RoleAdmin, true},
		{"stranger", 3, domain.RoleUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanViewBooking(tt.actorID, tt.role, 1, 2))
		})
	}
}

func TestCanTransitionBooking(t *testing.T) {
	tests := []struct {
		name    string
		actorID int64
		role    domain.Role
		target  domain.BookingStatus
		want    bool
	}{
		{"owner confirms", 2, domain.RoleUser, domain.BookingStatusConfirmed, true},
		{"owner cancels", 2, domain.RoleUser, domain.BookingStatusCancelled, true},
		{"admin confirms", 99, domain.RoleAdmin, domain.BookingStatusConfirmed, true},
		{"requester cancels", 1, domain.RoleUser, domain.BookingStatusCancelled, true},
		{"requester completes", 1, domain.RoleUser, domain.BookingStatusCompleted, true},
		{"requester confirms", 1, domain.RoleUser, domain.BookingStatusConfirmed, false},
		{"stranger cancels", 3, domain.RoleUser, domain.BookingStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransitionBooking(tt.actorID, tt.role, 1, 2, tt.target))
		})
	}
}

func TestCanDeleteBooking(t *testing.T) {
	assert.True(t, CanDeleteBooking(1, domain.RoleUser, 1))
	assert.True(t, CanDeleteBooking(99, domain.RoleAdmin, 1))
	assert.False(t, CanDeleteBooking(2, domain.RoleUser, 1), "listing owner must not delete")
	assert.False(t, CanDeleteBooking(3, domain.RoleUser, 1))
}
