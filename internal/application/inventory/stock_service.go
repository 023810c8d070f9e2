package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/audit"
	"github.com/stitchworks/backend/internal/domain/inventory"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// StockService is the ledger's write path. Every mutating operation runs
// under the per-product locks and a transaction scope, so plan-then-apply
// allocation is atomic against concurrent writers of the same product and
// multi-product workflows commit all-or-nothing.
type StockService struct {
	scope     TransactionScope
	publisher shared.EventPublisher
	auditSink audit.Sink
	locks     *productLocks
}

// NewStockService creates a new StockService
func NewStockService(scope TransactionScope) *StockService {
	return &StockService{
		scope:     scope,
		publisher: shared.NopPublisher{},
		auditSink: audit.NopSink{},
		locks:     newProductLocks(),
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// SetAuditSink sets the audit sink for mutation trails
func (s *StockService) SetAuditSink(sink audit.Sink) {
	s.auditSink = sink
}

type auditRecord struct {
	eventType  string
	entityType string
	entityID   uuid.UUID
	details    map[string]any
}

// StockOperations is the ledger API handed to InTransaction callbacks.
// All mutations go through it so movements, events and audit records are
// collected alongside the record changes and land together.
type StockOperations struct {
	ctx    context.Context
	repos  TransactionalRepositories
	events []shared.DomainEvent
	audits []auditRecord
}

// TotalAvailable sums a product's quantity across all records
func (ops *StockOperations) TotalAvailable(productID uuid.UUID) (decimal.Decimal, error) {
	return ops.repos.StockRecords().TotalByProduct(ops.ctx, productID)
}

// Allocate plans and commits an outbound allocation. Candidate records are
// checked for total availability before any record is touched; a shortfall
// returns InsufficientStockError with nothing mutated.
func (ops *StockOperations) Allocate(in AllocateInput) ([]inventory.Allocation, error) {
	return ops.allocate(in, inventory.MovementTypeConsumption)
}

func (ops *StockOperations) allocate(in AllocateInput, movementType inventory.MovementType) ([]inventory.Allocation, error) {
	var (
		records []inventory.StockRecord
		err     error
	)
	if in.Location == "" {
		records, err = ops.repos.StockRecords().FindByProduct(ops.ctx, in.ProductID)
	} else {
		records, err = ops.repos.StockRecords().FindByProductAndLocation(ops.ctx, in.ProductID, in.Location)
	}
	if err != nil {
		return nil, err
	}

	var plan []inventory.Allocation
	if in.Location == "" {
		plan, err = inventory.PlanAllocation(in.ProductID, records, in.Quantity, inventory.PolicyFEFO)
	} else {
		plan, err = inventory.PlanAllocationAt(in.ProductID, records, in.Location, in.Quantity, inventory.PolicyFEFO)
	}
	if err != nil {
		return nil, err
	}

	ptrs := make([]*inventory.StockRecord, len(records))
	before := make(map[uuid.UUID]decimal.Decimal, len(records))
	for i := range records {
		ptrs[i] = &records[i]
		before[records[i].ID] = records[i].Quantity
	}

	if err := inventory.ApplyAllocations(ptrs, plan); err != nil {
		return nil, err
	}

	touched := make([]*inventory.StockRecord, 0, len(plan))
	movements := make([]*inventory.StockMovement, 0, len(plan))
	for _, alloc := range plan {
		for i := range records {
			if records[i].ID == alloc.RecordID {
				touched = append(touched, &records[i])
				break
			}
		}

		prev := before[alloc.RecordID]
		movement, err := inventory.NewStockMovement(
			in.ProductID, alloc.Location, alloc.BatchNumber,
			movementType, alloc.Quantity.Neg(), prev, prev.Sub(alloc.Quantity),
			in.SourceType, in.SourceID,
		)
		if err != nil {
			return nil, err
		}
		movements = append(movements, movement)

		ops.audits = append(ops.audits, auditRecord{
			eventType:  "stock.allocated",
			entityType: "StockRecord",
			entityID:   alloc.RecordID,
			details: map[string]any{
				"product_id":      in.ProductID.String(),
				"location":        alloc.Location,
				"batch_number":    alloc.BatchNumber,
				"before_quantity": prev.String(),
				"after_quantity":  prev.Sub(alloc.Quantity).String(),
			},
		})
	}

	if err := ops.repos.StockRecords().SaveAll(ops.ctx, touched); err != nil {
		return nil, err
	}
	if err := ops.repos.Movements().Append(ops.ctx, movements...); err != nil {
		return nil, err
	}

	ops.events = append(ops.events, inventory.NewStockAllocatedEvent(in.ProductID, in.Quantity, plan, in.SourceType, in.SourceID))

	return plan, nil
}

// Produce lands quantity into the ledger, merging into an existing
// (product, location, batch) lot or appending a new record.
func (ops *StockOperations) Produce(in ProduceInput) (*inventory.StockRecord, error) {
	return ops.produce(in, inventory.MovementTypeReceipt)
}

func (ops *StockOperations) produce(in ProduceInput, movementType inventory.MovementType) (*inventory.StockRecord, error) {
	if in.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Produced quantity must be positive")
	}

	record, err := ops.repos.StockRecords().FindLot(ops.ctx, in.ProductID, in.Location, in.BatchNumber)
	prev := decimal.Zero
	switch {
	case err == nil:
		prev = record.Quantity
		if err := record.Add(in.Quantity); err != nil {
			return nil, err
		}
		if in.UnitCost.IsPositive() {
			record.UnitCost = in.UnitCost
		}
	case errors.Is(err, shared.ErrNotFound):
		record, err = inventory.NewStockRecord(in.ProductID, in.Location, in.BatchNumber, in.Quantity, in.UnitCost, time.Now(), in.ExpiresAt)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := ops.repos.StockRecords().Save(ops.ctx, record); err != nil {
		return nil, err
	}

	movement, err := inventory.NewStockMovement(
		in.ProductID, in.Location, in.BatchNumber,
		movementType, in.Quantity, prev, prev.Add(in.Quantity),
		in.SourceType, in.SourceID,
	)
	if err != nil {
		return nil, err
	}
	if err := ops.repos.Movements().Append(ops.ctx, movement); err != nil {
		return nil, err
	}

	ops.events = append(ops.events, inventory.NewStockProducedEvent(record, in.Quantity, prev, record.Quantity, in.SourceType, in.SourceID))
	ops.audits = append(ops.audits, auditRecord{
		eventType:  "stock.produced",
		entityType: "StockRecord",
		entityID:   record.ID,
		details: map[string]any{
			"product_id":      in.ProductID.String(),
			"location":        in.Location,
			"batch_number":    in.BatchNumber,
			"before_quantity": prev.String(),
			"after_quantity":  record.Quantity.String(),
		},
	})

	return record, nil
}

// InTransaction locks the given products in deterministic order, opens a
// transaction and runs fn against the ledger. Events and audit records
// collected by fn are published only after the transaction commits.
func (s *StockService) InTransaction(ctx context.Context, productIDs []uuid.UUID, fn func(ops *StockOperations) error) error {
	unlock := s.locks.LockAll(productIDs)
	defer unlock()

	var collected *StockOperations
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		ops := &StockOperations{ctx: ctx, repos: repos}
		if err := fn(ops); err != nil {
			return err
		}
		collected = ops
		return nil
	})
	if err != nil {
		return err
	}

	s.flush(ctx, collected)
	return nil
}

func (s *StockService) flush(ctx context.Context, ops *StockOperations) {
	if ops == nil {
		return
	}
	if len(ops.events) > 0 {
		_ = s.publisher.Publish(ctx, ops.events...)
	}
	for _, a := range ops.audits {
		s.auditSink.Record(ctx, a.eventType, a.entityType, a.entityID, a.details)
	}
}

// Allocate draws quantity for a product, FEFO across all locations
func (s *StockService) Allocate(ctx context.Context, in AllocateInput) ([]inventory.Allocation, error) {
	var plan []inventory.Allocation
	err := s.InTransaction(ctx, []uuid.UUID{in.ProductID}, func(ops *StockOperations) error {
		var err error
		plan, err = ops.Allocate(in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// Produce lands quantity into the ledger at one location
func (s *StockService) Produce(ctx context.Context, in ProduceInput) (StockRecordResponse, error) {
	var record *inventory.StockRecord
	err := s.InTransaction(ctx, []uuid.UUID{in.ProductID}, func(ops *StockOperations) error {
		var err error
		record, err = ops.Produce(in)
		return err
	})
	if err != nil {
		return StockRecordResponse{}, err
	}
	return ToStockRecordResponse(record), nil
}

// Transfer moves quantity between locations, preserving batch identity:
// each source batch drawn lands as the same batch at the destination with
// its expiry carried over.
func (s *StockService) Transfer(ctx context.Context, in TransferInput) ([]inventory.Allocation, error) {
	if in.From == in.To {
		return nil, &inventory.InvalidTransferError{From: in.From, To: in.To, Reason: "source and destination are the same"}
	}
	if in.From == "" || in.To == "" {
		return nil, &inventory.InvalidTransferError{From: in.From, To: in.To, Reason: "both locations are required"}
	}

	var plan []inventory.Allocation
	err := s.InTransaction(ctx, []uuid.UUID{in.ProductID}, func(ops *StockOperations) error {
		var err error
		plan, err = ops.allocate(AllocateInput{
			ProductID:  in.ProductID,
			Location:   in.From,
			Quantity:   in.Quantity,
			SourceType: inventory.SourceTypeTransfer,
			SourceID:   in.From + "->" + in.To,
		}, inventory.MovementTypeTransferOut)
		if err != nil {
			return err
		}

		batches := make([]string, 0, len(plan))
		for _, alloc := range plan {
			if _, err := ops.produce(ProduceInput{
				ProductID:   in.ProductID,
				Location:    in.To,
				Quantity:    alloc.Quantity,
				BatchNumber: alloc.BatchNumber,
				UnitCost:    alloc.UnitCost,
				ExpiresAt:   alloc.ExpiresAt,
				SourceType:  inventory.SourceTypeTransfer,
				SourceID:    in.From + "->" + in.To,
			}, inventory.MovementTypeTransferIn); err != nil {
				return err
			}
			batches = append(batches, alloc.BatchNumber)
		}

		ops.events = append(ops.events, inventory.NewStockTransferredEvent(in.ProductID, in.From, in.To, in.Quantity, batches))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// StockLevel returns a product's records and total across locations
func (s *StockService) StockLevel(ctx context.Context, productID uuid.UUID) (StockLevelResponse, error) {
	var resp StockLevelResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		records, err := repos.StockRecords().FindByProduct(ctx, productID)
		if err != nil {
			return err
		}
		resp.ProductID = productID
		resp.Total = inventory.TotalQuantity(records)
		resp.Records = make([]StockRecordResponse, 0, len(records))
		for i := range records {
			resp.Records = append(resp.Records, ToStockRecordResponse(&records[i]))
		}
		return nil
	})
	return resp, err
}

// ExpiringBatches returns stocked records expiring before now+window
func (s *StockService) ExpiringBatches(ctx context.Context, window time.Duration) ([]StockRecordResponse, error) {
	var out []StockRecordResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		records, err := repos.StockRecords().FindExpiringWithin(ctx, time.Now().Add(window))
		if err != nil {
			return err
		}
		out = make([]StockRecordResponse, 0, len(records))
		for i := range records {
			out = append(out, ToStockRecordResponse(&records[i]))
		}
		return nil
	})
	return out, err
}

// Movements pages through a product's journal, newest first
func (s *StockService) Movements(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var out []inventory.StockMovement
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		out, err = repos.Movements().FindByProduct(ctx, productID, filter)
		return err
	})
	return out, err
}

// VerifyReconciliation checks the ledger against the movement journal:
// total record quantity must equal receipts - consumptions + adjustments.
func (s *StockService) VerifyReconciliation(ctx context.Context, productID uuid.UUID) (bool, error) {
	var ok bool
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		total, err := repos.StockRecords().TotalByProduct(ctx, productID)
		if err != nil {
			return err
		}
		net, err := repos.Movements().NetByProduct(ctx, productID)
		if err != nil {
			return err
		}
		ok = total.Equal(net)
		return nil
	})
	return ok, err
}
