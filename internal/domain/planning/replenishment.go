package planning

import (
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/catalog"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// ConsumptionWindowDays is the lookback window for average daily usage
const ConsumptionWindowDays = 30

// DaysPerYear is used to annualize demand for the EOQ formula
const DaysPerYear = 365

// StockClassification grades how urgently a product needs replenishment
type StockClassification string

const (
	// ClassificationCritical means the product is completely out of stock
	ClassificationCritical StockClassification = "CRITICAL"
	// ClassificationHigh means stock is at or below half the reorder point
	ClassificationHigh StockClassification = "HIGH"
	// ClassificationMedium means stock is at or below the reorder point
	ClassificationMedium StockClassification = "MEDIUM"
	// ClassificationPotentialDeadStock flags unsold stock above the low
	// threshold; informational, not a reorder signal
	ClassificationPotentialDeadStock StockClassification = "POTENTIAL_DEAD_STOCK"
	// ClassificationOK means no action needed
	ClassificationOK StockClassification = "OK"
)

// String returns the string representation
func (c StockClassification) String() string {
	return string(c)
}

// NeedsReorder returns true for classifications that should land on a
// purchase-order draft
func (c StockClassification) NeedsReorder() bool {
	return c == ClassificationCritical || c == ClassificationHigh || c == ClassificationMedium
}

// Advice is the replenishment recommendation for a single product
type Advice struct {
	ProductID      uuid.UUID           `json:"product_id"`
	ProductCode    string              `json:"product_code"`
	ProductName    string              `json:"product_name"`
	ItemType       catalog.ItemType    `json:"item_type"`
	CurrentStock   decimal.Decimal     `json:"current_stock"`
	DailyAvgUsage  decimal.Decimal     `json:"daily_avg_usage"`
	ReorderPoint   decimal.Decimal     `json:"reorder_point"`
	EOQ            decimal.Decimal     `json:"eoq"`
	Classification StockClassification `json:"classification"`
}

// ComputeAdvice derives the reorder point, economic order quantity and
// classification for one product from its consumption over the window.
//
//	dailyAvgUsage = unitsSoldInWindow / 30
//	reorderPoint  = ceil(leadTimeDays * dailyAvgUsage)
//	eoq           = ceil(sqrt(2 * annualDemand * orderCost / (holdingCostPct * unitCost)))
//
// When holding cost or demand is zero the EOQ formula degenerates, so the
// fallback is reorderPoint + one window of usage.
func ComputeAdvice(product *catalog.Product, currentStock, unitsSoldInWindow decimal.Decimal) (*Advice, error) {
	if product == nil {
		return nil, shared.NewDomainError(shared.CodeProductNotFound, "Product is required for replenishment advice")
	}
	if currentStock.IsNegative() || unitsSoldInWindow.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Stock and usage cannot be negative")
	}

	dailyAvg := unitsSoldInWindow.Div(decimal.NewFromInt(ConsumptionWindowDays))
	reorderPoint := decimal.NewFromInt(int64(product.LeadTimeDays)).Mul(dailyAvg).Ceil()
	eoq := computeEOQ(product, dailyAvg, reorderPoint)

	return &Advice{
		ProductID:      product.ID,
		ProductCode:    product.Code,
		ProductName:    product.Name,
		ItemType:       product.ItemType,
		CurrentStock:   currentStock,
		DailyAvgUsage:  dailyAvg,
		ReorderPoint:   reorderPoint,
		EOQ:            eoq,
		Classification: Classify(currentStock, dailyAvg, reorderPoint, product.LowThreshold),
	}, nil
}

// computeEOQ applies the Wilson formula when it is well-defined
func computeEOQ(product *catalog.Product, dailyAvg, reorderPoint decimal.Decimal) decimal.Decimal {
	holdingCost := product.HoldingCostPct.Mul(product.UnitCost)
	annualDemand := dailyAvg.Mul(decimal.NewFromInt(DaysPerYear))

	if holdingCost.GreaterThan(decimal.Zero) && annualDemand.GreaterThan(decimal.Zero) {
		numerator := decimal.NewFromInt(2).Mul(annualDemand).Mul(product.OrderCost)
		ratio, _ := numerator.Div(holdingCost).Float64()
		return decimal.NewFromFloat(math.Ceil(math.Sqrt(ratio)))
	}

	return reorderPoint.Add(dailyAvg.Mul(decimal.NewFromInt(ConsumptionWindowDays))).Ceil()
}

// Classify grades current stock against the reorder point. Evaluation order
// matters: out-of-stock wins over everything, dead stock only applies when
// there is no usage at all.
func Classify(currentStock, dailyAvgUsage, reorderPoint, lowThreshold decimal.Decimal) StockClassification {
	switch {
	case currentStock.IsZero():
		return ClassificationCritical
	case currentStock.LessThanOrEqual(reorderPoint.Mul(decimal.NewFromFloat(0.5))):
		return ClassificationHigh
	case currentStock.LessThanOrEqual(reorderPoint):
		return ClassificationMedium
	case dailyAvgUsage.IsZero() && currentStock.GreaterThan(lowThreshold):
		return ClassificationPotentialDeadStock
	default:
		return ClassificationOK
	}
}

// Summary counts advice entries per classification
type Summary struct {
	Critical           int `json:"critical"`
	High               int `json:"high"`
	Medium             int `json:"medium"`
	PotentialDeadStock int `json:"potential_dead_stock"`
	OK                 int `json:"ok"`
}

// Summarize tallies a set of advice entries
func Summarize(advice []Advice) Summary {
	var s Summary
	for _, a := range advice {
		switch a.Classification {
		case ClassificationCritical:
			s.Critical++
		case ClassificationHigh:
			s.High++
		case ClassificationMedium:
			s.Medium++
		case ClassificationPotentialDeadStock:
			s.PotentialDeadStock++
		default:
			s.OK++
		}
	}
	return s
}

// ReorderLines filters advice down to entries that belong on a purchase-order
// draft, each line sized at the product's EOQ
func ReorderLines(advice []Advice) []Advice {
	lines := make([]Advice, 0)
	for _, a := range advice {
		if a.Classification.NeedsReorder() && a.EOQ.GreaterThan(decimal.Zero) {
			lines = append(lines, a)
		}
	}
	return lines
}
