package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	appinventory "github.com/stitchworks/backend/internal/application/inventory"
	"github.com/stitchworks/backend/internal/domain/catalog"
	"github.com/stitchworks/backend/internal/domain/finance"
	"github.com/stitchworks/backend/internal/domain/inventory"
	"github.com/stitchworks/backend/internal/domain/partner"
	"github.com/stitchworks/backend/internal/domain/shared"
	"github.com/stitchworks/backend/internal/domain/shared/valueobject"
	"github.com/stitchworks/backend/internal/domain/trade"
)

// PurchaseOrderService drives purchases from placement through receipt and
// payment. Receiving a purchase order books every line into stock, updates
// the material's standing cost, and appends goods receipt records.
type PurchaseOrderService struct {
	orders    trade.PurchaseOrderRepository
	receipts  trade.GoodsReceiptRepository
	suppliers partner.SupplierRepository
	products  catalog.ProductRepository
	stock     *appinventory.StockService
	cash      finance.CashLedger
	publisher shared.EventPublisher
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orders trade.PurchaseOrderRepository,
	receipts trade.GoodsReceiptRepository,
	suppliers partner.SupplierRepository,
	products catalog.ProductRepository,
	stock *appinventory.StockService,
	cash finance.CashLedger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orders:    orders,
		receipts:  receipts,
		suppliers: suppliers,
		products:  products,
		stock:     stock,
		cash:      cash,
		publisher: shared.NopPublisher{},
	}
}

// SetEventPublisher sets the event publisher
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Create opens a pending purchase order with a supplier
func (s *PurchaseOrderService) Create(ctx context.Context, in CreatePurchaseInput) (PurchaseOrderResponse, error) {
	supplier, err := s.suppliers.FindByID(ctx, in.SupplierID)
	if err != nil {
		return PurchaseOrderResponse{}, err
	}

	po, err := trade.NewPurchaseOrder(in.OrderNumber, supplier.ID, supplier.Name)
	if err != nil {
		return PurchaseOrderResponse{}, err
	}
	if err := s.orders.Save(ctx, po); err != nil {
		return PurchaseOrderResponse{}, err
	}
	s.publish(ctx, po)

	return toPurchaseOrderResponse(po), nil
}

// AddLine adds one material line to a pending order
func (s *PurchaseOrderService) AddLine(ctx context.Context, in AddPurchaseLineInput) (PurchaseOrderResponse, error) {
	po, err := s.orders.FindByID(ctx, in.OrderID)
	if err != nil {
		return PurchaseOrderResponse{}, err
	}

	product, err := s.products.FindByID(ctx, in.MaterialID)
	if err != nil {
		return PurchaseOrderResponse{}, err
	}

	cost := valueobject.NewMoneyUSD(in.UnitCost)
	if _, err := po.AddItem(product.ID, product.Name, in.Quantity, cost); err != nil {
		return PurchaseOrderResponse{}, err
	}

	if err := s.orders.Save(ctx, po); err != nil {
		return PurchaseOrderResponse{}, err
	}
	return toPurchaseOrderResponse(po), nil
}

// Receive books every line of the order into stock in one transaction. The
// caller routes each material to a location and batch; lines without a
// routing entry fail the whole receipt. Each received material's standing
// unit cost moves to the purchase cost, and a goods receipt is appended per
// line for traceability.
func (s *PurchaseOrderService) Receive(ctx context.Context, orderID uuid.UUID, routing []ReceiveLineInput) (PurchaseOrderResponse, error) {
	po, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return PurchaseOrderResponse{}, err
	}
	if !po.Status.CanTransitionTo(trade.PurchaseStatusReceived) {
		return PurchaseOrderResponse{}, shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot receive purchase order in %s status", po.Status))
	}

	routes := make(map[uuid.UUID]ReceiveLineInput, len(routing))
	for _, r := range routing {
		routes[r.MaterialID] = r
	}
	for _, item := range po.Items {
		if _, ok := routes[item.MaterialID]; !ok {
			return PurchaseOrderResponse{}, shared.NewDomainError("MISSING_ROUTING",
				fmt.Sprintf("No receiving location for material %s", item.MaterialID))
		}
	}

	now := time.Now()

	productIDs := make([]uuid.UUID, 0, len(po.Items))
	for _, item := range po.Items {
		productIDs = append(productIDs, item.MaterialID)
	}

	err = s.stock.InTransaction(ctx, productIDs, func(ops *appinventory.StockOperations) error {
		for _, item := range po.Items {
			route := routes[item.MaterialID]
			_, err := ops.Produce(appinventory.ProduceInput{
				ProductID:   item.MaterialID,
				Location:    route.Location,
				Quantity:    item.Quantity,
				BatchNumber: route.BatchNumber,
				UnitCost:    item.UnitCost,
				ExpiresAt:   route.ExpiresAt,
				SourceType:  inventory.SourceTypePurchaseOrder,
				SourceID:    po.ID.String(),
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return PurchaseOrderResponse{}, err
	}

	for _, item := range po.Items {
		route := routes[item.MaterialID]

		product, err := s.products.FindByID(ctx, item.MaterialID)
		if err != nil {
			return PurchaseOrderResponse{}, err
		}
		if err := product.UpdateUnitCost(valueobject.NewMoneyUSD(item.UnitCost)); err != nil {
			return PurchaseOrderResponse{}, err
		}
		if err := s.products.Save(ctx, product); err != nil {
			return PurchaseOrderResponse{}, err
		}

		receipt, err := trade.NewGoodsReceipt(po.ID, item.MaterialID, item.Quantity, item.UnitCost, route.Location, route.BatchNumber, now)
		if err != nil {
			return PurchaseOrderResponse{}, err
		}
		if err := s.receipts.Append(ctx, receipt); err != nil {
			return PurchaseOrderResponse{}, err
		}
	}

	if err := po.Receive(now); err != nil {
		return PurchaseOrderResponse{}, err
	}
	if err := s.orders.Save(ctx, po); err != nil {
		return PurchaseOrderResponse{}, err
	}
	s.publish(ctx, po)

	return toPurchaseOrderResponse(po), nil
}

// MarkPaid settles the order against the cash ledger exactly once
func (s *PurchaseOrderService) MarkPaid(ctx context.Context, orderID uuid.UUID) (PurchaseOrderResponse, error) {
	po, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return PurchaseOrderResponse{}, err
	}

	if err := po.MarkPaid(); err != nil {
		return PurchaseOrderResponse{}, err
	}
	// Persist PAID before touching the ledger so a failed save cannot leave
	// the order payable again after cash already moved.
	if err := s.orders.Save(ctx, po); err != nil {
		return PurchaseOrderResponse{}, err
	}

	outflow := valueobject.NewMoneyUSD(po.Total().Neg())
	reason := fmt.Sprintf("purchase order %s", po.OrderNumber)
	if err := s.cash.AdjustBalance(ctx, outflow, reason); err != nil {
		if revertErr := po.RevertPayment(); revertErr == nil {
			if saveErr := s.orders.Save(ctx, po); saveErr != nil {
				return PurchaseOrderResponse{}, fmt.Errorf("reverting payment after ledger failure: %w", saveErr)
			}
		}
		return PurchaseOrderResponse{}, err
	}
	s.publish(ctx, po)

	return toPurchaseOrderResponse(po), nil
}

// Cancel abandons a pending order
func (s *PurchaseOrderService) Cancel(ctx context.Context, orderID uuid.UUID, reason string) (PurchaseOrderResponse, error) {
	po, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return PurchaseOrderResponse{}, err
	}
	if err := po.Cancel(reason); err != nil {
		return PurchaseOrderResponse{}, err
	}
	if err := s.orders.Save(ctx, po); err != nil {
		return PurchaseOrderResponse{}, err
	}
	s.publish(ctx, po)

	return toPurchaseOrderResponse(po), nil
}

// Order returns one order by ID
func (s *PurchaseOrderService) Order(ctx context.Context, orderID uuid.UUID) (PurchaseOrderResponse, error) {
	po, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return PurchaseOrderResponse{}, err
	}
	return toPurchaseOrderResponse(po), nil
}

// Receipts lists the goods receipts booked for a purchase order
func (s *PurchaseOrderService) Receipts(ctx context.Context, orderID uuid.UUID) ([]*trade.GoodsReceipt, error) {
	return s.receipts.FindByPurchaseOrder(ctx, orderID)
}

func (s *PurchaseOrderService) publish(ctx context.Context, po *trade.PurchaseOrder) {
	_ = s.publisher.Publish(ctx, po.GetDomainEvents()...)
	po.ClearDomainEvents()
}
