package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus_Valid(t *testing.T) {
	for _, status := range []BookingStatus{BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted} {
		assert.True(t, status.Valid(), string(status))
	}
	assert.False(t, BookingStatus("ARCHIVED").Valid())
	assert.False(t, BookingStatus("").Valid())
}

func TestBookingStatus_IsActive(t *testing.T) {
	assert.True(t, BookingStatusPending.IsActive())
	assert.True(t, BookingStatusConfirmed.IsActive())
	assert.False(t, BookingStatusCancelled.IsActive())
	assert.False(t, BookingStatusCompleted.IsActive())
}

func TestListingCategory_Valid(t *testing.T) {
	assert.True(t, ListingCategoryApartment.Valid())
	assert.False(t, ListingCategory("CASTLE").Valid())
}
