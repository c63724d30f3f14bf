package entity

import (
	"time"

	"github.com/google/uuid"
)

// Trip is a planned trip shared by its members. Creating a trip creates a
// linked budget item; deleting it cascades into every member's ledger.
type Trip struct {
	ID         uuid.UUID
	Name       string
	OwnerUID   string
	MemberUIDs []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewTrip creates a new Trip entity.
func NewTrip(name, ownerUID string, memberUIDs []string) *Trip {
	now := time.Now().UTC()

	return &Trip{
		ID:         uuid.New(),
		Name:       name,
		OwnerUID:   ownerUID,
		MemberUIDs: memberUIDs,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsMember reports whether uid is the owner or a member of the trip.
func (t *Trip) IsMember(uid string) bool {
	if t.OwnerUID == uid {
		return true
	}
	for _, m := range t.MemberUIDs {
		if m == uid {
			return true
		}
	}
	return false
}
