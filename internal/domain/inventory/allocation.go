package inventory

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// OutboundPolicy selects the ordering used when deducting stock
type OutboundPolicy string

const (
	// PolicyFEFO deducts soonest-expiry batches first, falling back to
	// oldest-received for batches without expiry. This is the warehouse default.
	PolicyFEFO OutboundPolicy = "FEFO"
	// PolicyFIFO deducts oldest-received batches first, ignoring expiry
	PolicyFIFO OutboundPolicy = "FIFO"
)

// IsValid checks if the policy is valid
func (p OutboundPolicy) IsValid() bool {
	return p == PolicyFEFO || p == PolicyFIFO
}

// String returns the string representation
func (p OutboundPolicy) String() string {
	return string(p)
}

// Allocation is one slice of a satisfied quantity, with full provenance so
// pick lists and reversals can reference the exact lot.
type Allocation struct {
	RecordID    uuid.UUID       `json:"record_id"`
	Location    string          `json:"location"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
}

// AllocatedTotal sums the quantity across allocations
func AllocatedTotal(allocations []Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocations {
		total = total.Add(a.Quantity)
	}
	return total
}

// SortForOutbound orders records for deduction according to the policy.
// FEFO: expiry ascending with nil expiry last, then received ascending.
// FIFO: received ascending.
// The input slice is sorted in place.
func SortForOutbound(records []StockRecord, policy OutboundPolicy) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := &records[i], &records[j]
		if policy == PolicyFEFO {
			switch {
			case a.ExpiresAt != nil && b.ExpiresAt != nil:
				if !a.ExpiresAt.Equal(*b.ExpiresAt) {
					return a.ExpiresAt.Before(*b.ExpiresAt)
				}
			case a.ExpiresAt != nil:
				return true
			case b.ExpiresAt != nil:
				return false
			}
		}
		return a.ReceivedAt.Before(b.ReceivedAt)
	})
}

// PlanAllocation computes which records satisfy the requested quantity without
// mutating anything. Availability is verified across all candidates before any
// slice is planned: on shortfall nothing is taken and an InsufficientStockError
// carrying required and available quantities is returned.
func PlanAllocation(productID uuid.UUID, records []StockRecord, quantity decimal.Decimal, policy OutboundPolicy) ([]Allocation, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}
	if !policy.IsValid() {
		return nil, shared.NewDomainError("INVALID_POLICY", "Unknown outbound policy: "+string(policy))
	}

	candidates := make([]StockRecord, 0, len(records))
	for _, r := range records {
		if r.HasStock() {
			candidates = append(candidates, r)
		}
	}

	available := TotalQuantity(candidates)
	if available.LessThan(quantity) {
		return nil, NewInsufficientStockError(productID, quantity, available)
	}

	SortForOutbound(candidates, policy)

	allocations := make([]Allocation, 0, len(candidates))
	remaining := quantity
	for _, r := range candidates {
		if remaining.IsZero() {
			break
		}
		take := decimal.Min(remaining, r.Quantity)
		allocations = append(allocations, Allocation{
			RecordID:    r.ID,
			Location:    r.Location,
			BatchNumber: r.BatchNumber,
			Quantity:    take,
			UnitCost:    r.UnitCost,
			ExpiresAt:   r.ExpiresAt,
		})
		remaining = remaining.Sub(take)
	}

	return allocations, nil
}

// PlanAllocationAt is PlanAllocation restricted to a single location. On
// shortfall the error carries the location it was scoped to.
func PlanAllocationAt(productID uuid.UUID, records []StockRecord, location string, quantity decimal.Decimal, policy OutboundPolicy) ([]Allocation, error) {
	if location == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location cannot be empty")
	}

	at := RecordsAtLocation(records, location)
	allocations, err := PlanAllocation(productID, at, quantity, policy)
	if err != nil {
		var short *InsufficientStockError
		if errors.As(err, &short) {
			return nil, NewInsufficientStockAtLocationError(productID, location, short.Required, short.Available)
		}
		return nil, err
	}
	return allocations, nil
}

// ApplyAllocations commits a plan against the records it was computed from.
// Each allocation must find its record with enough quantity; a mismatch means
// the snapshot went stale, and the caller must retry under its product lock.
func ApplyAllocations(records []*StockRecord, allocations []Allocation) error {
	byID := make(map[uuid.UUID]*StockRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	for _, a := range allocations {
		record, ok := byID[a.RecordID]
		if !ok {
			return shared.NewDomainError("RECORD_NOT_FOUND", "Stock record not found: "+a.RecordID.String())
		}
		if err := record.Deduct(a.Quantity); err != nil {
			return err
		}
	}

	return nil
}

// WeightedUnitCost returns the quantity-weighted average unit cost of a plan,
// rounded to 4 decimal places. Zero when the plan is empty.
func WeightedUnitCost(allocations []Allocation) decimal.Decimal {
	total := decimal.Zero
	cost := decimal.Zero
	for _, a := range allocations {
		total = total.Add(a.Quantity)
		cost = cost.Add(a.Quantity.Mul(a.UnitCost))
	}
	if total.IsZero() {
		return decimal.Zero
	}
	return cost.Div(total).Round(4)
}
