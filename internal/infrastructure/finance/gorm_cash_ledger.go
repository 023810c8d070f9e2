package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/finance"
	"github.com/stitchworks/backend/internal/domain/shared/valueobject"
	"gorm.io/gorm"
)

// CashEntryModel is one signed entry in the cash journal. The balance is
// the sum of all entries; there is no mutable balance row to race on.
type CashEntryModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Currency   string          `gorm:"size:3;not null;default:'USD'"`
	Reason     string          `gorm:"size:500;not null"`
	OccurredAt time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (CashEntryModel) TableName() string {
	return "cash_entries"
}

// GormCashLedger implements finance.CashLedger on an append-only journal
type GormCashLedger struct {
	db *gorm.DB
}

// NewGormCashLedger creates a new GormCashLedger
func NewGormCashLedger(db *gorm.DB) *GormCashLedger {
	return &GormCashLedger{db: db}
}

// AdjustBalance appends one signed journal entry
func (l *GormCashLedger) AdjustBalance(ctx context.Context, delta valueobject.Money, reason string) error {
	entry := CashEntryModel{
		ID:         uuid.New(),
		Amount:     delta.Amount(),
		Currency:   string(delta.Currency()),
		Reason:     reason,
		OccurredAt: time.Now(),
	}
	return l.db.WithContext(ctx).Create(&entry).Error
}

// Balance sums the journal
func (l *GormCashLedger) Balance(ctx context.Context) (valueobject.Money, error) {
	var total decimal.NullDecimal
	if err := l.db.WithContext(ctx).
		Model(&CashEntryModel{}).
		Select("SUM(amount)").
		Scan(&total).Error; err != nil {
		return valueobject.Money{}, err
	}
	if !total.Valid {
		return valueobject.NewMoneyUSD(decimal.Zero), nil
	}
	return valueobject.NewMoneyUSD(total.Decimal), nil
}

var _ finance.CashLedger = (*GormCashLedger)(nil)
