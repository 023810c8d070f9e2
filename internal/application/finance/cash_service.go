package finance

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/finance"
	"github.com/stitchworks/backend/internal/domain/shared"
	"github.com/stitchworks/backend/internal/domain/shared/valueobject"
)

// CashService exposes the cash ledger to the interface layer. Order
// services adjust the ledger directly; this service covers manual
// corrections and balance queries.
type CashService struct {
	ledger finance.CashLedger
}

// NewCashService creates a new CashService
func NewCashService(ledger finance.CashLedger) *CashService {
	return &CashService{ledger: ledger}
}

// AdjustInput is a manual correction to the cash balance
type AdjustInput struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Reason string          `json:"reason" validate:"required,max=500"`
}

// BalanceResponse is the current cash position
type BalanceResponse struct {
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

// Adjust applies a signed manual correction. A reason is mandatory so
// every hand adjustment leaves a trail.
func (s *CashService) Adjust(ctx context.Context, in AdjustInput) (BalanceResponse, error) {
	if in.Reason == "" {
		return BalanceResponse{}, shared.NewDomainError("REASON_REQUIRED", "Manual cash adjustments require a reason")
	}
	if in.Amount.IsZero() {
		return BalanceResponse{}, shared.NewDomainError("INVALID_AMOUNT", "Adjustment amount cannot be zero")
	}
	if err := s.ledger.AdjustBalance(ctx, valueobject.NewMoneyUSD(in.Amount), "manual: "+in.Reason); err != nil {
		return BalanceResponse{}, err
	}
	return s.Balance(ctx)
}

// Balance returns the current cash position
func (s *CashService) Balance(ctx context.Context) (BalanceResponse, error) {
	balance, err := s.ledger.Balance(ctx)
	if err != nil {
		return BalanceResponse{}, err
	}
	return BalanceResponse{Balance: balance.Amount(), Currency: string(balance.Currency())}, nil
}
