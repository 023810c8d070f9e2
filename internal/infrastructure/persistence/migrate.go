package persistence

import (
	"github.com/stitchworks/backend/internal/domain/catalog"
	"github.com/stitchworks/backend/internal/domain/inventory"
	"github.com/stitchworks/backend/internal/domain/manufacturing"
	"github.com/stitchworks/backend/internal/domain/partner"
	"github.com/stitchworks/backend/internal/domain/trade"
	infraaudit "github.com/stitchworks/backend/internal/infrastructure/audit"
	infrafinance "github.com/stitchworks/backend/internal/infrastructure/finance"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for every persisted type.
// Production uses versioned SQL migrations; this path serves tests and
// local development databases.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalog.Product{},
		&inventory.StockRecord{},
		&inventory.StockMovement{},
		&inventory.CycleCount{},
		&cycleCountItemRow{},
		&manufacturing.BillOfMaterials{},
		&bomLineRow{},
		&manufacturing.ProductionOrder{},
		&partner.Customer{},
		&partner.Supplier{},
		&trade.SalesOrder{},
		&salesOrderItemRow{},
		&salesStatusChangeRow{},
		&trade.PurchaseOrder{},
		&purchaseOrderItemRow{},
		&trade.GoodsReceipt{},
		&infraaudit.EntryModel{},
		&infrafinance.CashEntryModel{},
	)
}
