package persistence

import (
	"context"

	appinventory "github.com/stitchworks/backend/internal/application/inventory"
	"github.com/stitchworks/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormTransactionScope binds the inventory repositories to one database
// transaction per Execute call. An error from the function rolls back
// every ledger mutation made inside it.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) StockRecords() inventory.StockRecordRepository {
	return NewGormStockRecordRepository(r.tx)
}

func (r *gormTransactionalRepositories) Movements() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *gormTransactionalRepositories) CycleCounts() inventory.CycleCountRepository {
	return NewGormCycleCountRepository(r.tx)
}

var _ appinventory.TransactionScope = (*GormTransactionScope)(nil)
