package model

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trip-planner/backend/internal/domain/entity"
)

// ReplicationJobModel represents the replication_jobs table in the database.
type ReplicationJobModel struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Kind        string       `gorm:"type:varchar(20);not null"`
	UserID      string       `gorm:"type:varchar(128);not null;index"`
	ItemID      uuid.UUID    `gorm:"type:uuid"`
	TripID      *uuid.UUID   `gorm:"type:uuid"`
	Payload     *string      `gorm:"type:jsonb"`
	Version     int64        `gorm:"not null;default:0"`
	Status      string       `gorm:"type:varchar(20);not null;default:'pending';index"`
	Attempts    int          `gorm:"not null;default:0"`
	MaxAttempts int          `gorm:"not null;default:5"`
	LastError   string       `gorm:"type:text"`
	CreatedAt   time.Time    `gorm:"not null"`
	ScheduledAt time.Time    `gorm:"not null"`
	ProcessedAt sql.NullTime `gorm:"type:timestamptz"`
}

// TableName returns the table name for the ReplicationJobModel.
func (ReplicationJobModel) TableName() string {
	return "replication_jobs"
}

// ToEntity converts a ReplicationJobModel to a domain ReplicationJob entity.
func (m *ReplicationJobModel) ToEntity() (*entity.ReplicationJob, error) {
	var payload *entity.BudgetItem
	if m.Payload != nil {
		var raw BudgetItemJSON
		if err := json.Unmarshal([]byte(*m.Payload), &raw); err != nil {
			return nil, fmt.Errorf("failed to decode payload of job %s: %w", m.ID, err)
		}
		item, err := raw.ToEntity()
		if err != nil {
			return nil, err
		}
		payload = item
	}

	var processedAt *time.Time
	if m.ProcessedAt.Valid {
		processedAt = &m.ProcessedAt.Time
	}

	return &entity.ReplicationJob{
		ID:          m.ID,
		Kind:        entity.ReplicationJobKind(m.Kind),
		UserID:      m.UserID,
		ItemID:      m.ItemID,
		TripID:      m.TripID,
		Payload:     payload,
		Version:     m.Version,
		Status:      entity.ReplicationJobStatus(m.Status),
		Attempts:    m.Attempts,
		MaxAttempts: m.MaxAttempts,
		LastError:   m.LastError,
		CreatedAt:   m.CreatedAt,
		ScheduledAt: m.ScheduledAt,
		ProcessedAt: processedAt,
	}, nil
}

// ReplicationJobModelFromEntity creates a ReplicationJobModel from a domain ReplicationJob entity.
func ReplicationJobModelFromEntity(job *entity.ReplicationJob) (*ReplicationJobModel, error) {
	var payload *string
	if job.Payload != nil {
		data, err := json.Marshal(BudgetItemJSONFromEntity(job.Payload))
		if err != nil {
			return nil, err
		}
		s := string(data)
		payload = &s
	}

	var processedAt sql.NullTime
	if job.ProcessedAt != nil {
		processedAt = sql.NullTime{Time: *job.ProcessedAt, Valid: true}
	}

	return &ReplicationJobModel{
		ID:          job.ID,
		Kind:        string(job.Kind),
		UserID:      job.UserID,
		ItemID:      job.ItemID,
		TripID:      job.TripID,
		Payload:     payload,
		Version:     job.Version,
		Status:      string(job.Status),
		Attempts:    job.Attempts,
		MaxAttempts: job.MaxAttempts,
		LastError:   job.LastError,
		CreatedAt:   job.CreatedAt,
		ScheduledAt: job.ScheduledAt,
		ProcessedAt: processedAt,
	}, nil
}
