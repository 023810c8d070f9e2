package audit

import (
	"context"

	"github.com/google/uuid"
)

// Sink records audit events for business mutations. Implementations are
// fire-and-forget: a failing sink logs the failure and must never abort
// the triggering operation, so Record returns nothing.
type Sink interface {
	Record(ctx context.Context, eventType, entityType string, entityID uuid.UUID, details map[string]any)
}

// NopSink discards all audit events
type NopSink struct{}

// Record discards the event
func (NopSink) Record(context.Context, string, string, uuid.UUID, map[string]any) {}

var _ Sink = NopSink{}
