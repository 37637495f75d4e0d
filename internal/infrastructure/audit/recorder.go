package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fatura/backend/internal/domain/shared"
	"github.com/fatura/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GormAuditRecorder persists audit entries to the audit_logs table. Recording
// is best-effort: failures are logged and never surfaced to the caller, so a
// broken audit sink cannot fail business operations.
type GormAuditRecorder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormAuditRecorder creates a new GormAuditRecorder
func NewGormAuditRecorder(db *gorm.DB, logger *zap.Logger) *GormAuditRecorder {
	return &GormAuditRecorder{db: db, logger: logger}
}

// Record inserts one audit row. Marshal or insert errors are logged and
// swallowed.
func (r *GormAuditRecorder) Record(ctx context.Context, entry shared.AuditEntry) {
	model := models.AuditLogModel{
		ID:         uuid.New(),
		ActorID:    entry.ActorID,
		ActorEmail: entry.ActorEmail,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Before:     marshalSnapshot(r.logger, entry.Action, "before", entry.Before),
		After:      marshalSnapshot(r.logger, entry.Action, "after", entry.After),
		Detail:     entry.Detail,
		CreatedAt:  time.Now(),
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.logger.Error("failed to record audit entry",
			zap.String("action", entry.Action),
			zap.String("entity_type", entry.EntityType),
			zap.String("entity_id", entry.EntityID.String()),
			zap.Error(err))
	}
}

func marshalSnapshot(logger *zap.Logger, action, side string, snapshot interface{}) json.RawMessage {
	if snapshot == nil {
		return nil
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		logger.Warn("failed to marshal audit snapshot",
			zap.String("action", action),
			zap.String("side", side),
			zap.Error(err))
		return nil
	}
	return data
}

// Ensure GormAuditRecorder implements AuditRecorder
var _ shared.AuditRecorder = (*GormAuditRecorder)(nil)
