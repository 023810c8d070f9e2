package finance

import (
	"context"

	"github.com/stitchworks/backend/internal/domain/shared/valueobject"
)

// CashLedger tracks the business cash balance. Callers convert amounts to
// the base currency before adjusting; a positive delta is an inflow.
type CashLedger interface {
	AdjustBalance(ctx context.Context, delta valueobject.Money, reason string) error
	Balance(ctx context.Context) (valueobject.Money, error)
}
