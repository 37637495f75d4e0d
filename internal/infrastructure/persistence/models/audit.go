package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditLogModel is the persistence model for the append-only audit log.
// Rows are only ever inserted, never updated or deleted.
type AuditLogModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	ActorID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ActorEmail string          `gorm:"type:varchar(200);not null"`
	Action     string          `gorm:"type:varchar(100);not null;index"`
	EntityType string          `gorm:"type:varchar(100);not null;index"`
	EntityID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Before     json.RawMessage `gorm:"type:jsonb"`
	After      json.RawMessage `gorm:"type:jsonb"`
	Detail     string          `gorm:"type:varchar(500)"`
	CreatedAt  time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}
