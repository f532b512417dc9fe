// Package access decides who may read or mutate a booking. An actor is
// either an authenticated account or anonymous; a booking is either owned
// by an account or a guest booking reachable by anyone who holds its id.
package access

import (
	"github.com/google/uuid"

	models "github.com/roamly/travelbook/internal"
)

type Actor struct {
	authenticated bool
	userID        uuid.UUID
}

func Authenticated(userID uuid.UUID) Actor {
	return Actor{authenticated: true, userID: userID}
}

func Anonymous() Actor {
	return Actor{}
}

func (a Actor) IsAuthenticated() bool {
	return a.authenticated
}

// UserID reports the actor's account id; ok is false for anonymous actors.
func (a Actor) UserID() (uuid.UUID, bool) {
	return a.userID, a.authenticated
}

// Is reports whether the actor is the given authenticated user.
func (a Actor) Is(userID uuid.UUID) bool {
	return a.authenticated && a.userID == userID
}

// CanManage reports whether the actor may read or mutate the booking
// through the authenticated endpoints. Guest bookings have no owner, so
// knowledge of the booking id is the credential; owned bookings require a
// matching authenticated actor. The public tracking path never goes
// through here and only ever sees the redacted view.
func CanManage(a Actor, b *models.Booking) bool {
	if b.UserID == nil {
		return true
	}
	return a.Is(*b.UserID)
}
