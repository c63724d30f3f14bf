package dto

import (
	"time"

	"github.com/trip-planner/backend/internal/domain/entity"
)

// CreateTripRequest represents the request body for trip creation.
type CreateTripRequest struct {
	Name              string               `json:"name" binding:"required"`
	OwnerContribution *float64             `json:"owner_contribution,omitempty"`
	Members           []ContributorRequest `json:"members,omitempty" binding:"omitempty,dive"`
}

// TripResponse represents a trip in API responses.
type TripResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	OwnerUID   string    `json:"owner_uid"`
	MemberUIDs []string  `json:"member_uids"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateTripResponse is returned when a trip and its budget are created.
type CreateTripResponse struct {
	Trip               TripResponse        `json:"trip"`
	Budget             BudgetResponse      `json:"budget"`
	ReplicationWarning *ReplicationWarning `json:"replication_warning,omitempty"`
}

// ToTripResponse converts a domain Trip entity to a TripResponse DTO.
func ToTripResponse(t *entity.Trip) TripResponse {
	members := t.MemberUIDs
	if members == nil {
		members = []string{}
	}
	return TripResponse{
		ID:         t.ID.String(),
		Name:       t.Name,
		OwnerUID:   t.OwnerUID,
		MemberUIDs: members,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}
