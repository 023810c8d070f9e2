package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/catalog"
	"github.com/stitchworks/backend/internal/domain/inventory"
	"github.com/stitchworks/backend/internal/domain/planning"
	"github.com/stitchworks/backend/internal/domain/shared/valueobject"
	"github.com/stitchworks/backend/internal/domain/trade"
)

// Report is one planner run over the replenishable catalog
type Report struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Advice      []planning.Advice `json:"advice"`
	Summary     planning.Summary  `json:"summary"`
}

// ReportCache holds the latest planner snapshot for read-only consumers.
// A miss or a failing cache never blocks a fresh computation.
type ReportCache interface {
	Get(ctx context.Context) (*Report, bool)
	Set(ctx context.Context, report *Report)
}

// NopReportCache never caches
type NopReportCache struct{}

// Get always misses
func (NopReportCache) Get(context.Context) (*Report, bool) { return nil, false }

// Set discards the report
func (NopReportCache) Set(context.Context, *Report) {}

var _ ReportCache = NopReportCache{}

// ReplenishmentService computes reorder advice across the catalog from
// current stock and the trailing consumption window
type ReplenishmentService struct {
	products   catalog.ProductRepository
	stock      inventory.StockRecordRepository
	movements  inventory.StockMovementRepository
	sales      trade.SalesOrderRepository
	cache      ReportCache
	windowDays int
}

// NewReplenishmentService creates a new ReplenishmentService
func NewReplenishmentService(
	products catalog.ProductRepository,
	stock inventory.StockRecordRepository,
	movements inventory.StockMovementRepository,
	sales trade.SalesOrderRepository,
) *ReplenishmentService {
	return &ReplenishmentService{
		products:   products,
		stock:      stock,
		movements:  movements,
		sales:      sales,
		cache:      NopReportCache{},
		windowDays: planning.ConsumptionWindowDays,
	}
}

// SetReportCache sets the snapshot cache for read-only consumers
func (s *ReplenishmentService) SetReportCache(cache ReportCache) {
	s.cache = cache
}

// SetUsageWindow overrides the trailing sales window feeding daily usage.
// Non-positive values keep the current window.
func (s *ReplenishmentService) SetUsageWindow(days int) {
	if days > 0 {
		s.windowDays = days
	}
}

func (s *ReplenishmentService) usageWindow() time.Duration {
	return time.Duration(s.windowDays) * 24 * time.Hour
}

// Report computes advice for every replenishable product. The planner is
// read-only: it works from an eventually-consistent snapshot of the ledger
// and recent sales, never mutating either.
func (s *ReplenishmentService) Report(ctx context.Context) (*Report, error) {
	if cached, ok := s.cache.Get(ctx); ok {
		return cached, nil
	}

	products, err := s.products.FindByItemTypes(ctx, []catalog.ItemType{catalog.ItemTypeFinishedGood, catalog.ItemTypeRawMaterial})
	if err != nil {
		return nil, err
	}

	since := time.Now().Add(-s.usageWindow())
	sold, err := s.sales.SoldQuantitySince(ctx, since)
	if err != nil {
		return nil, err
	}
	consumed, err := s.movements.ConsumedSince(ctx, since)
	if err != nil {
		return nil, err
	}

	report := &Report{
		GeneratedAt: time.Now(),
		Advice:      make([]planning.Advice, 0, len(products)),
	}
	for i := range products {
		p := &products[i]
		if !p.ItemType.IsReplenishable() {
			continue
		}

		currentStock, err := s.stock.TotalByProduct(ctx, p.ID)
		if err != nil {
			return nil, err
		}

		advice, err := planning.ComputeAdvice(p, currentStock, usageFor(p, sold, consumed))
		if err != nil {
			return nil, err
		}
		report.Advice = append(report.Advice, *advice)
	}
	report.Summary = planning.Summarize(report.Advice)

	s.cache.Set(ctx, report)

	return report, nil
}

// AdviceFor computes advice for a single product
func (s *ReplenishmentService) AdviceFor(ctx context.Context, productID uuid.UUID) (*planning.Advice, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	currentStock, err := s.stock.TotalByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	since := time.Now().Add(-s.usageWindow())
	sold, err := s.sales.SoldQuantitySince(ctx, since)
	if err != nil {
		return nil, err
	}
	consumed, err := s.movements.ConsumedSince(ctx, since)
	if err != nil {
		return nil, err
	}

	return planning.ComputeAdvice(product, currentStock, usageFor(product, sold, consumed))
}

// usageFor picks the usage signal per item type: finished goods move out
// through committed sales lines, raw materials through consumption
// movements written by production runs.
func usageFor(p *catalog.Product, sold, consumed map[uuid.UUID]decimal.Decimal) decimal.Decimal {
	if p.ItemType == catalog.ItemTypeRawMaterial {
		return consumed[p.ID]
	}
	return sold[p.ID]
}

// DraftPurchaseOrder builds a pending purchase order covering every product
// the latest report says needs reordering, with line quantities equal to
// each product's EOQ. The draft is not persisted; the caller decides.
func (s *ReplenishmentService) DraftPurchaseOrder(ctx context.Context, supplierID uuid.UUID, supplierName string) (*trade.PurchaseOrder, error) {
	report, err := s.Report(ctx)
	if err != nil {
		return nil, err
	}

	lines := planning.ReorderLines(report.Advice)
	if len(lines) == 0 {
		return nil, nil
	}

	orderNumber := fmt.Sprintf("PU-DRAFT-%s", time.Now().Format("20060102-150405"))
	draft, err := trade.NewPurchaseOrder(orderNumber, supplierID, supplierName)
	if err != nil {
		return nil, err
	}

	products, err := s.products.FindByIDs(ctx, adviceProductIDs(lines))
	if err != nil {
		return nil, err
	}
	costs := make(map[uuid.UUID]decimal.Decimal, len(products))
	for i := range products {
		costs[products[i].ID] = products[i].UnitCost
	}

	for _, line := range lines {
		if line.EOQ.LessThanOrEqual(decimal.Zero) {
			continue
		}
		unitCost := valueobject.NewMoneyUSD(costs[line.ProductID])
		if _, err := draft.AddItem(line.ProductID, line.ProductName, line.EOQ, unitCost); err != nil {
			return nil, err
		}
	}

	return draft, nil
}

func adviceProductIDs(advice []planning.Advice) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(advice))
	for _, a := range advice {
		ids = append(ids, a.ProductID)
	}
	return ids
}
