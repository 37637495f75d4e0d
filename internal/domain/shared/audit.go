package shared

import (
	"context"

	"github.com/google/uuid"
)

// AuditEntry captures a state-changing operation for the append-only audit log.
// Before and After hold JSON-serializable snapshots of the affected entity.
type AuditEntry struct {
	ActorID    uuid.UUID   `json:"actor_id"`
	ActorEmail string      `json:"actor_email"`
	Action     string      `json:"action"`
	EntityType string      `json:"entity_type"`
	EntityID   uuid.UUID   `json:"entity_id"`
	Before     interface{} `json:"before,omitempty"`
	After      interface{} `json:"after,omitempty"`
	Detail     string      `json:"detail,omitempty"`
}

// AuditRecorder is a fire-and-forget sink for audit entries. Implementations
// must never fail the calling operation; persistence errors are logged and
// swallowed.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

// Actor identifies the authenticated principal performing an operation.
type Actor struct {
	UserID uuid.UUID
	Email  string
}
