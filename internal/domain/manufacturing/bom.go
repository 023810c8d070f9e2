package manufacturing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// BOMLine is one material requirement per unit of finished good
type BOMLine struct {
	ID         uuid.UUID
	BOMID      uuid.UUID
	MaterialID uuid.UUID
	QtyPerUnit decimal.Decimal
	CreatedAt  time.Time
}

// BillOfMaterials lists the per-unit material requirements for one finished
// good. At most one BOM per finished good is active at a time.
type BillOfMaterials struct {
	shared.BaseAggregateRoot
	FinishedGoodID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"size:200;not null"`
	Active         bool      `gorm:"not null;default:false;index"`
	Lines          []BOMLine `gorm:"-"`
}

// TableName returns the table name for GORM
func (BillOfMaterials) TableName() string {
	return "bills_of_materials"
}

// BOMLineSpec is the input for one line when building a BOM
type BOMLineSpec struct {
	MaterialID uuid.UUID
	QtyPerUnit decimal.Decimal
}

// NewBillOfMaterials creates a BOM with its lines. The BOM starts inactive;
// activation is a repository-level concern because it must deactivate any
// previously active BOM for the same finished good.
func NewBillOfMaterials(finishedGoodID uuid.UUID, name string, lines []BOMLineSpec) (*BillOfMaterials, error) {
	if finishedGoodID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Finished good ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "BOM name cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_LINES", "BOM must have at least one material line")
	}

	bom := &BillOfMaterials{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FinishedGoodID:    finishedGoodID,
		Name:              name,
		Active:            false,
		Lines:             make([]BOMLine, 0, len(lines)),
	}

	seen := make(map[uuid.UUID]struct{}, len(lines))
	now := time.Now()
	for _, spec := range lines {
		if spec.MaterialID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_MATERIAL", "Material ID cannot be empty")
		}
		if spec.MaterialID == finishedGoodID {
			return nil, shared.NewDomainError("SELF_REFERENCE", "A finished good cannot be its own material")
		}
		if spec.QtyPerUnit.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity per unit must be positive")
		}
		if _, dup := seen[spec.MaterialID]; dup {
			return nil, shared.NewDomainError("DUPLICATE_MATERIAL", "Material appears twice in BOM: "+spec.MaterialID.String())
		}
		seen[spec.MaterialID] = struct{}{}

		bom.Lines = append(bom.Lines, BOMLine{
			ID:         uuid.New(),
			BOMID:      bom.ID,
			MaterialID: spec.MaterialID,
			QtyPerUnit: spec.QtyPerUnit,
			CreatedAt:  now,
		})
	}

	return bom, nil
}

// Activate marks the BOM as the active recipe for its finished good
func (b *BillOfMaterials) Activate() {
	if b.Active {
		return
	}
	b.Active = true
	b.Touch()
	b.IncrementVersion()
}

// Deactivate retires the BOM
func (b *BillOfMaterials) Deactivate() {
	if !b.Active {
		return
	}
	b.Active = false
	b.Touch()
	b.IncrementVersion()
}

// MaterialRequirement is the exploded requirement for one material
type MaterialRequirement struct {
	MaterialID uuid.UUID
	Quantity   decimal.Decimal
}

// Requirements explodes the BOM for the given order quantity:
// required[material] = qtyPerUnit * orderQty for every line.
func (b *BillOfMaterials) Requirements(orderQty decimal.Decimal) ([]MaterialRequirement, error) {
	if orderQty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Order quantity must be positive")
	}

	required := make([]MaterialRequirement, 0, len(b.Lines))
	for _, line := range b.Lines {
		required = append(required, MaterialRequirement{
			MaterialID: line.MaterialID,
			Quantity:   line.QtyPerUnit.Mul(orderQty),
		})
	}
	return required, nil
}
