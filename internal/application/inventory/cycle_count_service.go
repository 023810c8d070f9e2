package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/inventory"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// AdjustmentFailure reports one record whose adjustment could not be applied
type AdjustmentFailure struct {
	StockRecordID uuid.UUID `json:"stock_record_id"`
	Reason        string    `json:"reason"`
}

// ConfirmResult summarizes a confirmed cycle count
type ConfirmResult struct {
	CountID       uuid.UUID           `json:"count_id"`
	AdjustedCount int                 `json:"adjusted_count"`
	Failures      []AdjustmentFailure `json:"failures,omitempty"`
}

// CycleCountService runs physical stock counts against the ledger.
// Adjustments apply per record: one failing record is reported in the
// result and does not abort the rest of the batch.
type CycleCountService struct {
	stock *StockService
}

// NewCycleCountService creates a new CycleCountService sharing the stock
// service's locks and transaction scope
func NewCycleCountService(stock *StockService) *CycleCountService {
	return &CycleCountService{stock: stock}
}

// Start snapshots every stocked record (optionally scoped to a location)
// into a new count in COUNTING status
func (s *CycleCountService) Start(ctx context.Context, location string) (*inventory.CycleCount, error) {
	countNumber := fmt.Sprintf("CC-%s", time.Now().Format("20060102-150405"))

	var count *inventory.CycleCount
	err := s.stock.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		snapshot, err := repos.StockRecords().FindWithStock(ctx, location)
		if err != nil {
			return err
		}
		count, err = inventory.NewCycleCount(countNumber, location, snapshot)
		if err != nil {
			return err
		}
		return repos.CycleCounts().Save(ctx, count)
	})
	if err != nil {
		return nil, err
	}

	_ = s.stock.publisher.Publish(ctx, inventory.NewCycleCountStartedEvent(count))
	count.ClearDomainEvents()

	return count, nil
}

// RecordCount stores the physical quantity counted for one snapshot item
func (s *CycleCountService) RecordCount(ctx context.Context, countID, stockRecordID uuid.UUID, physical decimal.Decimal) error {
	return s.stock.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		count, err := repos.CycleCounts().FindByID(ctx, countID)
		if err != nil {
			return err
		}
		if err := count.RecordCount(stockRecordID, physical); err != nil {
			return err
		}
		return repos.CycleCounts().Save(ctx, count)
	})
}

// Count loads one cycle count with its snapshot items
func (s *CycleCountService) Count(ctx context.Context, countID uuid.UUID) (*inventory.CycleCount, error) {
	var count *inventory.CycleCount
	err := s.stock.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		count, err = repos.CycleCounts().FindByID(ctx, countID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return count, nil
}

// Counts pages through past counts without their items
func (s *CycleCountService) Counts(ctx context.Context, filter shared.Filter) ([]inventory.CycleCount, error) {
	var counts []inventory.CycleCount
	err := s.stock.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		counts, err = repos.CycleCounts().FindAll(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// Confirm applies every non-zero variance as an adjustment, one record at
// a time: each adjustment sets the record to the physical quantity, appends
// an ADJUSTMENT movement and an audit event carrying the variance.
func (s *CycleCountService) Confirm(ctx context.Context, countID uuid.UUID) (*ConfirmResult, error) {
	var count *inventory.CycleCount
	err := s.stock.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		count, err = repos.CycleCounts().FindByID(ctx, countID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := count.Confirm(); err != nil {
		return nil, err
	}

	result := &ConfirmResult{CountID: countID}
	for _, item := range count.ItemsWithVariance() {
		if err := s.applyAdjustment(ctx, count, item); err != nil {
			result.Failures = append(result.Failures, AdjustmentFailure{
				StockRecordID: item.StockRecordID,
				Reason:        err.Error(),
			})
			continue
		}
		result.AdjustedCount++
	}

	err = s.stock.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.CycleCounts().Save(ctx, count)
	})
	if err != nil {
		return nil, err
	}

	_ = s.stock.publisher.Publish(ctx, count.GetDomainEvents()...)
	count.ClearDomainEvents()

	return result, nil
}

// applyAdjustment moves one record to its physical quantity under the
// product lock and its own transaction
func (s *CycleCountService) applyAdjustment(ctx context.Context, count *inventory.CycleCount, item inventory.CycleCountItem) error {
	return s.stock.InTransaction(ctx, []uuid.UUID{item.ProductID}, func(ops *StockOperations) error {
		record, err := ops.repos.StockRecords().FindByID(ctx, item.StockRecordID)
		if err != nil {
			return err
		}

		before := record.Quantity
		if err := record.SetQuantity(item.PhysicalQuantity); err != nil {
			return err
		}
		if err := ops.repos.StockRecords().Save(ctx, record); err != nil {
			return err
		}

		delta := item.PhysicalQuantity.Sub(before)
		movement, err := inventory.NewStockMovement(
			record.ProductID, record.Location, record.BatchNumber,
			inventory.MovementTypeAdjustment, delta, before, item.PhysicalQuantity,
			inventory.SourceTypeCycleCount, count.CountNumber,
		)
		if err != nil {
			return err
		}
		if err := ops.repos.Movements().Append(ops.ctx, movement); err != nil {
			return err
		}

		ops.events = append(ops.events, inventory.NewStockAdjustedEvent(record, before, item.PhysicalQuantity))
		ops.audits = append(ops.audits, auditRecord{
			eventType:  "stock.adjusted",
			entityType: "StockRecord",
			entityID:   record.ID,
			details: map[string]any{
				"product_id":   record.ProductID.String(),
				"location":     record.Location,
				"old_quantity": before.String(),
				"new_quantity": item.PhysicalQuantity.String(),
				"variance":     item.Variance.String(),
				"date":         time.Now().Format(time.RFC3339),
			},
		})

		return nil
	})
}
