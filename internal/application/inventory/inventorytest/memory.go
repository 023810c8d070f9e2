// Package inventorytest provides in-memory repository implementations for
// exercising stock-dependent services without a database.
package inventorytest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appinventory "github.com/stitchworks/backend/internal/application/inventory"
	"github.com/stitchworks/backend/internal/domain/inventory"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// StockRecords is an in-memory StockRecordRepository
type StockRecords struct {
	mu      sync.Mutex
	records map[uuid.UUID]inventory.StockRecord
}

// NewStockRecords creates an empty StockRecords
func NewStockRecords() *StockRecords {
	return &StockRecords{records: make(map[uuid.UUID]inventory.StockRecord)}
}

func (m *StockRecords) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	rec := r
	return &rec, nil
}

func (m *StockRecords) FindByProduct(_ context.Context, productID uuid.UUID) ([]inventory.StockRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []inventory.StockRecord
	for _, r := range m.records {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *StockRecords) FindByProductAndLocation(_ context.Context, productID uuid.UUID, location string) ([]inventory.StockRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []inventory.StockRecord
	for _, r := range m.records {
		if r.ProductID == productID && r.Location == location {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *StockRecords) FindLot(_ context.Context, productID uuid.UUID, location, batchNumber string) (*inventory.StockRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ProductID == productID && r.Location == location && r.BatchNumber == batchNumber {
			rec := r
			return &rec, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *StockRecords) FindWithStock(_ context.Context, location string) ([]inventory.StockRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []inventory.StockRecord
	for _, r := range m.records {
		if !r.HasStock() {
			continue
		}
		if location != "" && r.Location != location {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *StockRecords) FindExpiringWithin(_ context.Context, deadline time.Time) ([]inventory.StockRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []inventory.StockRecord
	for _, r := range m.records {
		if r.HasStock() && r.ExpiresAt != nil && r.ExpiresAt.Before(deadline) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *StockRecords) TotalByProduct(_ context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, r := range m.records {
		if r.ProductID == productID {
			total = total.Add(r.Quantity)
		}
	}
	return total, nil
}

func (m *StockRecords) Save(_ context.Context, record *inventory.StockRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ID] = *record
	return nil
}

func (m *StockRecords) SaveAll(_ context.Context, records []*inventory.StockRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		m.records[r.ID] = *r
	}
	return nil
}

func (m *StockRecords) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

var _ inventory.StockRecordRepository = (*StockRecords)(nil)

// Movements is an in-memory StockMovementRepository
type Movements struct {
	mu        sync.Mutex
	movements []inventory.StockMovement
}

// NewMovements creates an empty Movements
func NewMovements() *Movements {
	return &Movements{}
}

func (m *Movements) Append(_ context.Context, movements ...*inventory.StockMovement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mv := range movements {
		m.movements = append(m.movements, *mv)
	}
	return nil
}

func (m *Movements) FindByProduct(_ context.Context, productID uuid.UUID, _ shared.Filter) ([]inventory.StockMovement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []inventory.StockMovement
	for _, mv := range m.movements {
		if mv.ProductID == productID {
			out = append(out, mv)
		}
	}
	return out, nil
}

func (m *Movements) NetByProduct(_ context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	net := decimal.Zero
	for _, mv := range m.movements {
		if mv.ProductID == productID {
			net = net.Add(mv.Quantity)
		}
	}
	return net, nil
}

func (m *Movements) ConsumedSince(_ context.Context, since time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uuid.UUID]decimal.Decimal)
	for _, mv := range m.movements {
		if mv.Type != inventory.MovementTypeConsumption || mv.OccurredAt.Before(since) {
			continue
		}
		out[mv.ProductID] = out[mv.ProductID].Sub(mv.Quantity)
	}
	return out, nil
}

var _ inventory.StockMovementRepository = (*Movements)(nil)

// CycleCounts is an in-memory CycleCountRepository
type CycleCounts struct {
	mu     sync.Mutex
	counts map[uuid.UUID]*inventory.CycleCount
}

// NewCycleCounts creates an empty CycleCounts
func NewCycleCounts() *CycleCounts {
	return &CycleCounts{counts: make(map[uuid.UUID]*inventory.CycleCount)}
}

func (m *CycleCounts) FindByID(_ context.Context, id uuid.UUID) (*inventory.CycleCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cc, ok := m.counts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cc, nil
}

func (m *CycleCounts) FindAll(_ context.Context, _ shared.Filter) ([]inventory.CycleCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []inventory.CycleCount
	for _, cc := range m.counts {
		out = append(out, *cc)
	}
	return out, nil
}

func (m *CycleCounts) Save(_ context.Context, count *inventory.CycleCount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[count.ID] = count
	return nil
}

var _ inventory.CycleCountRepository = (*CycleCounts)(nil)

// NewStockService wires a StockService over fresh in-memory repositories
func NewStockService() (*appinventory.StockService, *StockRecords, *Movements, *CycleCounts) {
	records := NewStockRecords()
	movements := NewMovements()
	counts := NewCycleCounts()
	scope := appinventory.NewNoOpTransactionScope(records, movements, counts)
	return appinventory.NewStockService(scope), records, movements, counts
}
