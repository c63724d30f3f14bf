package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/trip-planner/backend/internal/domain/entity"
)

// UIDArray is a list of user ids stored as a Postgres text[] column.
// Other dialects store the same array literal as text.
type UIDArray []string

// Value implements driver.Valuer.
func (a UIDArray) Value() (driver.Value, error) {
	return pq.StringArray(a).Value()
}

// Scan implements sql.Scanner.
func (a *UIDArray) Scan(src any) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	*a = UIDArray(arr)
	return nil
}

// GormDBDataType picks the column type per dialect.
func (UIDArray) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// TripModel represents the trips table in the database.
type TripModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"type:varchar(100);not null"`
	OwnerUID   string    `gorm:"type:varchar(128);not null;index"`
	MemberUIDs UIDArray  `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the TripModel.
func (TripModel) TableName() string {
	return "trips"
}

// ToEntity converts a TripModel to a domain Trip entity.
func (m *TripModel) ToEntity() *entity.Trip {
	members := make([]string, len(m.MemberUIDs))
	copy(members, m.MemberUIDs)

	return &entity.Trip{
		ID:         m.ID,
		Name:       m.Name,
		OwnerUID:   m.OwnerUID,
		MemberUIDs: members,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// TripFromEntity creates a TripModel from a domain Trip entity.
func TripFromEntity(trip *entity.Trip) *TripModel {
	members := make(UIDArray, len(trip.MemberUIDs))
	copy(members, trip.MemberUIDs)

	return &TripModel{
		ID:         trip.ID,
		Name:       trip.Name,
		OwnerUID:   trip.OwnerUID,
		MemberUIDs: members,
		CreatedAt:  trip.CreatedAt,
		UpdatedAt:  trip.UpdatedAt,
	}
}
