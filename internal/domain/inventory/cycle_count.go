package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// CycleCountStatus represents the status of a cycle count
type CycleCountStatus string

const (
	// CycleCountStatusCounting means the snapshot is taken and physical counts
	// are being recorded
	CycleCountStatusCounting CycleCountStatus = "COUNTING"
	// CycleCountStatusConfirmed means variances were applied to the ledger
	CycleCountStatusConfirmed CycleCountStatus = "CONFIRMED"
	// CycleCountStatusCancelled means the count was abandoned without adjustment
	CycleCountStatusCancelled CycleCountStatus = "CANCELLED"
)

// IsValid checks if the status is valid
func (s CycleCountStatus) IsValid() bool {
	switch s {
	case CycleCountStatusCounting, CycleCountStatusConfirmed, CycleCountStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (s CycleCountStatus) String() string {
	return string(s)
}

// IsTerminal returns true for confirmed and cancelled counts
func (s CycleCountStatus) IsTerminal() bool {
	return s == CycleCountStatusConfirmed || s == CycleCountStatusCancelled
}

// CycleCountItem snapshots one stock record's system quantity and carries the
// physical count recorded against it
type CycleCountItem struct {
	ID               uuid.UUID
	CycleCountID     uuid.UUID
	StockRecordID    uuid.UUID
	ProductID        uuid.UUID
	Location         string
	BatchNumber      string
	SystemQuantity   decimal.Decimal
	PhysicalQuantity decimal.Decimal
	Variance         decimal.Decimal // physical - system
	Counted          bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RecordCount records the physical count for this item
func (i *CycleCountItem) RecordCount(physical decimal.Decimal) error {
	if physical.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Physical count cannot be negative")
	}

	i.PhysicalQuantity = physical
	i.Variance = physical.Sub(i.SystemQuantity)
	i.Counted = true
	i.UpdatedAt = time.Now()
	return nil
}

// HasVariance returns true if the physical count differs from the system quantity
func (i *CycleCountItem) HasVariance() bool {
	return i.Counted && !i.Variance.IsZero()
}

// CycleCount is the reconciliation aggregate: a snapshot of all records with
// stock at a location, physical counts per record, and a confirmation step
// that applies the variances.
type CycleCount struct {
	shared.BaseAggregateRoot
	CountNumber  string `gorm:"size:50;uniqueIndex;not null"`
	Location     string `gorm:"size:50;not null;index"`
	Status       CycleCountStatus
	CountDate    time.Time
	ConfirmedAt  *time.Time
	TotalItems   int
	CountedItems int
	Items        []CycleCountItem `gorm:"-"`
}

// TableName returns the table name for GORM
func (CycleCount) TableName() string {
	return "cycle_counts"
}

// NewCycleCount creates a cycle count from a snapshot of stock records. Only
// records with quantity > 0 are snapshotted. An empty location marks a count
// spanning all locations.
func NewCycleCount(countNumber, location string, snapshot []StockRecord) (*CycleCount, error) {
	if countNumber == "" {
		return nil, shared.NewDomainError("INVALID_COUNT_NUMBER", "Count number cannot be empty")
	}

	cc := &CycleCount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CountNumber:       countNumber,
		Location:          location,
		Status:            CycleCountStatusCounting,
		CountDate:         time.Now(),
		Items:             make([]CycleCountItem, 0, len(snapshot)),
	}

	now := time.Now()
	for _, r := range snapshot {
		if !r.HasStock() {
			continue
		}
		cc.Items = append(cc.Items, CycleCountItem{
			ID:             uuid.New(),
			CycleCountID:   cc.ID,
			StockRecordID:  r.ID,
			ProductID:      r.ProductID,
			Location:       r.Location,
			BatchNumber:    r.BatchNumber,
			SystemQuantity: r.Quantity,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	cc.TotalItems = len(cc.Items)

	if cc.TotalItems == 0 {
		return nil, shared.NewDomainError("EMPTY_SNAPSHOT", "No stock records with quantity to count")
	}

	cc.AddDomainEvent(NewCycleCountStartedEvent(cc))

	return cc, nil
}

// RecordCount records the physical count for one snapshotted record
func (cc *CycleCount) RecordCount(stockRecordID uuid.UUID, physical decimal.Decimal) error {
	if cc.Status != CycleCountStatusCounting {
		return shared.NewDomainError("INVALID_STATUS", "Can only record counts while the count is open")
	}

	for i := range cc.Items {
		if cc.Items[i].StockRecordID == stockRecordID {
			wasCounted := cc.Items[i].Counted
			if err := cc.Items[i].RecordCount(physical); err != nil {
				return err
			}
			if !wasCounted {
				cc.CountedItems++
			}
			cc.Touch()
			cc.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Stock record not in this cycle count: "+stockRecordID.String())
}

// Confirm closes the count. All items must have been counted; the service
// layer applies the per-record adjustments.
func (cc *CycleCount) Confirm() error {
	if cc.Status != CycleCountStatusCounting {
		return shared.NewDomainError(shared.CodeInvalidTransition, fmt.Sprintf("Cannot confirm cycle count in %s status", cc.Status))
	}
	if cc.CountedItems != cc.TotalItems {
		return shared.NewDomainError("INCOMPLETE_COUNT", fmt.Sprintf("Not all items have been counted (%d/%d)", cc.CountedItems, cc.TotalItems))
	}

	now := time.Now()
	cc.Status = CycleCountStatusConfirmed
	cc.ConfirmedAt = &now
	cc.Touch()
	cc.IncrementVersion()

	cc.AddDomainEvent(NewCycleCountConfirmedEvent(cc))

	return nil
}

// Cancel abandons the count without touching the ledger
func (cc *CycleCount) Cancel() error {
	if cc.Status != CycleCountStatusCounting {
		return shared.NewDomainError(shared.CodeInvalidTransition, fmt.Sprintf("Cannot cancel cycle count in %s status", cc.Status))
	}

	cc.Status = CycleCountStatusCancelled
	cc.Touch()
	cc.IncrementVersion()
	return nil
}

// ItemsWithVariance returns counted items whose physical count differs from system
func (cc *CycleCount) ItemsWithVariance() []CycleCountItem {
	result := make([]CycleCountItem, 0)
	for _, item := range cc.Items {
		if item.HasVariance() {
			result = append(result, item)
		}
	}
	return result
}

// IsComplete returns true if every snapshotted item has been counted
func (cc *CycleCount) IsComplete() bool {
	return cc.TotalItems > 0 && cc.CountedItems == cc.TotalItems
}
