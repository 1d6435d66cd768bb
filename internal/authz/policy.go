// Package authz is the single place that answers who may do what. Handlers
// and services must not re-implement role checks.
package authz

import "github.com/Domenick1991/etnair/internal/domain"

// CanMutate reports whether the actor may edit or delete a resource owned by
// ownerID. Used for listings and reviews alike.
func CanMutate(actorID int64, role domain.Role, ownerID int64) bool {
	if role == domain.RoleAdmin {
		return true
	}
	return actorID == ownerID
}

// CanViewBooking allows the requester, the listing owner and admins.
func CanViewBooking(actorID int64, role domain.Role, requesterID, listingOwnerID int64) bool {
	if role == domain.RoleAdmin {
		return true
	}
	return actorID == requesterID || actorID == listingOwnerID
}

// CanTransitionBooking decides whether the actor may move a booking to
// target. The requester is limited to the self-service subset (cancel,
// complete); the listing owner and admins may request any target. Whether the
// transition is legal from the current status is a separate state-table check.
func CanTransitionBooking(actorID int64, role domain.Role, requesterID, listingOwnerID int64, target domain.BookingStatus) bool {
	if role == domain.RoleAdmin {
		return true
	}
	if actorID == listingOwnerID {
		return true
	}
	if actorID == requesterID {
		return target == domain.BookingStatusCancelled || target == domain.BookingStatusCompleted
	}
	return false
}

// CanDeleteBooking allows only the requester and admins. Listing owners can
// cancel a booking against their listing but never delete it.
func CanDeleteBooking(actorID int64, role domain.Role, requesterID int64) bool {
	if role == domain.RoleAdmin {
		return true
	}
	return actorID == requesterID
}
