package inventory

import (
	"context"

	"github.com/stitchworks/backend/internal/domain/inventory"
)

// TransactionScope runs a function against repositories bound to one
// database transaction. If the function returns an error the transaction
// is rolled back, otherwise it is committed. Combined with the per-product
// locks held by StockService, this makes every ledger mutation all-or-nothing.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the inventory repositories scoped to
// the current transaction
type TransactionalRepositories interface {
	StockRecords() inventory.StockRecordRepository
	Movements() inventory.StockMovementRepository
	CycleCounts() inventory.CycleCountRepository
}

// NoOpTransactionScope runs the function directly against the given
// repositories without a real transaction. Used in tests and by callers
// whose store has no transaction support.
type NoOpTransactionScope struct {
	stockRecords inventory.StockRecordRepository
	movements    inventory.StockMovementRepository
	cycleCounts  inventory.CycleCountRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	stockRecords inventory.StockRecordRepository,
	movements inventory.StockMovementRepository,
	cycleCounts inventory.CycleCountRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		stockRecords: stockRecords,
		movements:    movements,
		cycleCounts:  cycleCounts,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockRecords returns the stock record repository
func (s *NoOpTransactionScope) StockRecords() inventory.StockRecordRepository {
	return s.stockRecords
}

// Movements returns the movement journal repository
func (s *NoOpTransactionScope) Movements() inventory.StockMovementRepository {
	return s.movements
}

// CycleCounts returns the cycle count repository
func (s *NoOpTransactionScope) CycleCounts() inventory.CycleCountRepository {
	return s.cycleCounts
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
