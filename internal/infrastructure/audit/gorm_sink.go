package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/stitchworks/backend/internal/domain/audit"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EntryModel is the persisted shape of one audit event
type EntryModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	EventType  string    `gorm:"size:100;not null;index"`
	EntityType string    `gorm:"size:100;not null;index"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Details    string    `gorm:"type:text"` // JSON payload
	OccurredAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (EntryModel) TableName() string {
	return "audit_entries"
}

// GormSink writes audit events to the database. Failures are logged and
// swallowed so the triggering business operation never aborts on audit.
type GormSink struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormSink creates a new GormSink
func NewGormSink(db *gorm.DB, logger *zap.Logger) *GormSink {
	return &GormSink{db: db, logger: logger.Named("audit")}
}

// Record persists one audit entry
func (s *GormSink) Record(ctx context.Context, eventType, entityType string, entityID uuid.UUID, details map[string]any) {
	var payload string
	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err != nil {
			s.logger.Warn("failed to encode audit details",
				zap.String("event_type", eventType),
				zap.Error(err),
			)
		} else {
			payload = string(raw)
		}
	}

	entry := EntryModel{
		ID:         uuid.New(),
		EventType:  eventType,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    payload,
		OccurredAt: time.Now(),
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.logger.Error("failed to record audit entry",
			zap.String("event_type", eventType),
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID.String()),
			zap.Error(err),
		)
	}
}

var _ audit.Sink = (*GormSink)(nil)
