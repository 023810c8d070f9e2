package trade

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appinventory "github.com/stitchworks/backend/internal/application/inventory"
	appmanufacturing "github.com/stitchworks/backend/internal/application/manufacturing"
	"github.com/stitchworks/backend/internal/domain/catalog"
	"github.com/stitchworks/backend/internal/domain/finance"
	"github.com/stitchworks/backend/internal/domain/inventory"
	"github.com/stitchworks/backend/internal/domain/partner"
	"github.com/stitchworks/backend/internal/domain/shared"
	"github.com/stitchworks/backend/internal/domain/shared/valueobject"
	"github.com/stitchworks/backend/internal/domain/trade"
)

// SalesOrderService drives a sale from quote through fulfilment. The
// aggregate owns the state machine; this service settles the stock, cash,
// credit, and production side effects around each transition.
type SalesOrderService struct {
	orders     trade.SalesOrderRepository
	customers  partner.CustomerRepository
	products   catalog.ProductRepository
	stock      *appinventory.StockService
	cash       finance.CashLedger
	production *appmanufacturing.ProductionService
	publisher  shared.EventPublisher
}

// NewSalesOrderService creates a new SalesOrderService
func NewSalesOrderService(
	orders trade.SalesOrderRepository,
	customers partner.CustomerRepository,
	products catalog.ProductRepository,
	stock *appinventory.StockService,
	cash finance.CashLedger,
	production *appmanufacturing.ProductionService,
) *SalesOrderService {
	return &SalesOrderService{
		orders:     orders,
		customers:  customers,
		products:   products,
		stock:      stock,
		cash:       cash,
		production: production,
		publisher:  shared.NopPublisher{},
	}
}

// SetEventPublisher sets the event publisher
func (s *SalesOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// CreateQuote opens a new order in QUOTE status
func (s *SalesOrderService) CreateQuote(ctx context.Context, in CreateQuoteInput) (SalesOrderResponse, error) {
	order, err := trade.NewSalesOrder(in.OrderNumber, in.PaymentTerm)
	if err != nil {
		return SalesOrderResponse{}, err
	}

	if in.CustomerID != nil {
		customer, err := s.customers.FindByID(ctx, *in.CustomerID)
		if err != nil {
			return SalesOrderResponse{}, err
		}
		if err := order.SetCustomer(customer.ID, customer.Name); err != nil {
			return SalesOrderResponse{}, err
		}
	} else if in.PaymentTerm == trade.PaymentTermCredit {
		return SalesOrderResponse{}, shared.NewDomainError("INVALID_CUSTOMER", "Credit-term orders require a customer")
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return SalesOrderResponse{}, err
	}
	s.publish(ctx, order)

	return toSalesOrderResponse(order), nil
}

// AddLine prices and adds one product line. The unit price comes from the
// product's price list for the customer's tier; orders without a customer
// pay retail.
func (s *SalesOrderService) AddLine(ctx context.Context, in AddLineInput) (SalesOrderResponse, error) {
	order, err := s.orders.FindByID(ctx, in.OrderID)
	if err != nil {
		return SalesOrderResponse{}, err
	}

	product, err := s.products.FindByID(ctx, in.ProductID)
	if err != nil {
		return SalesOrderResponse{}, err
	}

	tier := catalog.PriceTierRetail
	if order.CustomerID != nil {
		customer, err := s.customers.FindByID(ctx, *order.CustomerID)
		if err != nil {
			return SalesOrderResponse{}, err
		}
		if customer.Tier == partner.CustomerTierWholesale {
			tier = catalog.PriceTierWholesale
		}
	}

	price := valueobject.NewMoneyUSD(product.PriceFor(tier))
	if _, err := order.AddItem(product.ID, product.Name, in.Quantity, price); err != nil {
		return SalesOrderResponse{}, err
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return SalesOrderResponse{}, err
	}

	return toSalesOrderResponse(order), nil
}

// RemoveLine drops a line from a quote
func (s *SalesOrderService) RemoveLine(ctx context.Context, orderID, itemID uuid.UUID) (SalesOrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return SalesOrderResponse{}, err
	}
	if err := order.RemoveItem(itemID); err != nil {
		return SalesOrderResponse{}, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return SalesOrderResponse{}, err
	}
	return toSalesOrderResponse(order), nil
}

// AssignDelivery sets the delivery resource required before dispatching
func (s *SalesOrderService) AssignDelivery(ctx context.Context, orderID uuid.UUID, assignee string) (SalesOrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return SalesOrderResponse{}, err
	}
	if err := order.AssignDelivery(assignee); err != nil {
		return SalesOrderResponse{}, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return SalesOrderResponse{}, err
	}
	return toSalesOrderResponse(order), nil
}

// Transition moves the order to the target status and settles every side
// effect that entering the status implies. Ordering is deliberate: guards
// run first, then stock, then cash and credit, then the aggregate
// transition. A failure at any step leaves earlier state untouched because
// stock moves inside one transaction and cash moves only after stock held.
func (s *SalesOrderService) Transition(ctx context.Context, in TransitionInput) (*TransitionResult, error) {
	order, err := s.orders.FindByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}

	if err := s.validateTransition(order, in.Target, in.Note); err != nil {
		return nil, err
	}

	result := &TransitionResult{}

	committed := false
	if order.RequiresStockCommit(in.Target) {
		if err := s.commitStock(ctx, order); err != nil {
			return nil, err
		}
		committed = true
	}

	if in.Target == trade.SalesStatusCancelled && order.StockCommitted {
		if err := s.reverseCommitment(ctx, order); err != nil {
			return nil, err
		}
	}

	if err := order.TransitionTo(in.Target, in.Note); err != nil {
		if committed {
			return nil, s.undoCommit(ctx, order, err)
		}
		return nil, err
	}

	if in.Target == trade.SalesStatusAwaitingProduction {
		spawned, skipped, err := s.spawnProduction(ctx, order)
		if err != nil {
			return nil, err
		}
		result.SpawnedProduction = spawned
		result.SkippedLines = skipped
	}

	if err := s.orders.Save(ctx, order); err != nil {
		if committed {
			return nil, s.undoCommit(ctx, order, err)
		}
		return nil, err
	}
	s.publish(ctx, order)

	result.Order = toSalesOrderResponse(order)
	return result, nil
}

// validateTransition runs every guard that must hold before any side effect
// is attempted
func (s *SalesOrderService) validateTransition(order *trade.SalesOrder, target trade.SalesOrderStatus, note string) error {
	if !target.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidTransition, fmt.Sprintf("Unknown status %s", target))
	}
	if !order.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidTransition, fmt.Sprintf("Cannot move order from %s to %s", order.Status, target))
	}
	if target == trade.SalesStatusDispatching && order.DeliveryAssignee == "" {
		return shared.NewDomainError(shared.CodeLogisticsNotAssigned, "A delivery resource must be assigned before dispatching")
	}
	if target == trade.SalesStatusCancelled && note == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	if order.RequiresStockCommit(target) && len(order.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Cannot commit stock for an order without lines")
	}
	return nil
}

// commitStock allocates every line in one stock transaction and settles the
// cash or credit effect of the sale. Availability of every line is verified
// before anything is drawn so a short line leaves all balances untouched.
func (s *SalesOrderService) commitStock(ctx context.Context, order *trade.SalesOrder) error {
	customer, err := s.creditCheck(ctx, order)
	if err != nil {
		return err
	}

	productIDs := make([]uuid.UUID, 0, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, item.ProductID)
	}

	byItem := make(map[uuid.UUID][]trade.LineAllocation, len(order.Items))
	unitCosts := make(map[uuid.UUID]decimal.Decimal, len(order.Items))

	err = s.stock.InTransaction(ctx, productIDs, func(ops *appinventory.StockOperations) error {
		for _, item := range order.Items {
			available, err := ops.TotalAvailable(item.ProductID)
			if err != nil {
				return err
			}
			if available.LessThan(item.Quantity) {
				return inventory.NewInsufficientStockError(item.ProductID, item.Quantity, available)
			}
		}

		for _, item := range order.Items {
			allocations, err := ops.Allocate(appinventory.AllocateInput{
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				SourceType: inventory.SourceTypeSalesOrder,
				SourceID:   order.ID.String(),
			})
			if err != nil {
				return err
			}

			lines := make([]trade.LineAllocation, 0, len(allocations))
			cost := decimal.Zero
			for _, a := range allocations {
				lines = append(lines, trade.LineAllocation{
					Location:    a.Location,
					BatchNumber: a.BatchNumber,
					Quantity:    a.Quantity,
					UnitCost:    a.UnitCost,
				})
				cost = cost.Add(a.Quantity.Mul(a.UnitCost))
			}
			byItem[item.ID] = lines
			if item.Quantity.GreaterThan(decimal.Zero) {
				unitCosts[item.ID] = cost.Div(item.Quantity)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := order.RecordAllocations(byItem, unitCosts); err != nil {
		return err
	}

	if err := s.settlePayment(ctx, order, customer); err != nil {
		if restoreErr := s.restoreCommittedStock(ctx, order); restoreErr != nil {
			return fmt.Errorf("restoring stock after settlement failure: %w", restoreErr)
		}
		order.ClearCommitment()
		return err
	}
	return nil
}

// undoCommit compensates a transition that failed after its stock commit
// and settlement already ran, so neither batches nor money stay drawn for
// an order that never reached the target status
func (s *SalesOrderService) undoCommit(ctx context.Context, order *trade.SalesOrder, cause error) error {
	if err := s.reverseCommitment(ctx, order); err != nil {
		return fmt.Errorf("reversing stock commit after failed transition: %w", err)
	}
	return cause
}

// creditCheck loads the customer and verifies headroom for credit orders
// before any stock is touched
func (s *SalesOrderService) creditCheck(ctx context.Context, order *trade.SalesOrder) (*partner.Customer, error) {
	if order.CustomerID == nil {
		return nil, nil
	}
	customer, err := s.customers.FindByID(ctx, *order.CustomerID)
	if err != nil {
		return nil, err
	}
	if order.PaymentTerm == trade.PaymentTermCredit && !customer.CanExtendCredit(order.Total()) {
		return nil, shared.NewDomainError(shared.CodeCreditLimitExceeded,
			fmt.Sprintf("Order total %s exceeds remaining credit for customer %s", order.Total(), customer.Code))
	}
	return customer, nil
}

// settlePayment applies the financial effect of a committed sale: cash in
// for immediate terms, debt for credit terms
func (s *SalesOrderService) settlePayment(ctx context.Context, order *trade.SalesOrder, customer *partner.Customer) error {
	switch order.PaymentTerm {
	case trade.PaymentTermImmediate:
		if order.CashApplied {
			return nil
		}
		reason := fmt.Sprintf("sales order %s", order.OrderNumber)
		if err := s.cash.AdjustBalance(ctx, order.TotalMoney(), reason); err != nil {
			return err
		}
		order.MarkCashApplied()
	case trade.PaymentTermCredit:
		if err := customer.IncurDebt(order.Total()); err != nil {
			return err
		}
		if err := s.customers.Save(ctx, customer); err != nil {
			return err
		}
	}
	return nil
}

// restoreCommittedStock puts every committed batch back into the returns
// location under its original batch number and cost
func (s *SalesOrderService) restoreCommittedStock(ctx context.Context, order *trade.SalesOrder) error {
	productIDs := make([]uuid.UUID, 0, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, item.ProductID)
	}

	return s.stock.InTransaction(ctx, productIDs, func(ops *appinventory.StockOperations) error {
		for _, item := range order.Items {
			for _, alloc := range item.Allocations {
				_, err := ops.Produce(appinventory.ProduceInput{
					ProductID:   item.ProductID,
					Location:    inventory.ReturnsLocation,
					Quantity:    alloc.Quantity,
					BatchNumber: alloc.BatchNumber,
					UnitCost:    alloc.UnitCost,
					SourceType:  inventory.SourceTypeSalesOrder,
					SourceID:    order.ID.String(),
				})
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// reverseCommitment puts every committed batch back into the returns
// location and unwinds the cash or credit effect
func (s *SalesOrderService) reverseCommitment(ctx context.Context, order *trade.SalesOrder) error {
	if err := s.restoreCommittedStock(ctx, order); err != nil {
		return err
	}

	order.ClearCommitment()

	switch order.PaymentTerm {
	case trade.PaymentTermImmediate:
		if order.CashApplied {
			refund := valueobject.NewMoneyUSD(order.Total().Neg())
			reason := fmt.Sprintf("cancel sales order %s", order.OrderNumber)
			if err := s.cash.AdjustBalance(ctx, refund, reason); err != nil {
				return err
			}
			order.ClearCashApplied()
		}
	case trade.PaymentTermCredit:
		if order.CustomerID != nil {
			customer, err := s.customers.FindByID(ctx, *order.CustomerID)
			if err != nil {
				return err
			}
			if err := customer.SettleDebt(order.Total()); err != nil {
				return err
			}
			if err := s.customers.Save(ctx, customer); err != nil {
				return err
			}
		}
	}
	return nil
}

// spawnProduction opens one production order per finished-good line that has
// an active recipe. Lines without one are reported, not failed, so a mixed
// order can still move forward.
func (s *SalesOrderService) spawnProduction(ctx context.Context, order *trade.SalesOrder) ([]uuid.UUID, []SkippedLine, error) {
	var spawned []uuid.UUID
	var skipped []SkippedLine

	for idx, item := range order.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if product.ItemType != catalog.ItemTypeFinishedGood {
			skipped = append(skipped, SkippedLine{ProductID: item.ProductID, Reason: "not a finished good"})
			continue
		}

		orderNumber := fmt.Sprintf("%s-MF%d", order.OrderNumber, idx+1)
		resp, err := s.production.CreateOrder(ctx, appmanufacturing.CreateOrderInput{
			OrderNumber:    orderNumber,
			FinishedGoodID: item.ProductID,
			Quantity:       item.Quantity,
			TargetLocation: inventory.DefaultLocation,
			SalesOrderID:   &order.ID,
		})
		if err != nil {
			if shared.ErrorCode(err) == shared.CodeBOMNotFound {
				skipped = append(skipped, SkippedLine{ProductID: item.ProductID, Reason: "no active BOM"})
				continue
			}
			return nil, nil, err
		}
		spawned = append(spawned, resp.ID)
	}
	return spawned, skipped, nil
}

// Order returns one order by ID
func (s *SalesOrderService) Order(ctx context.Context, orderID uuid.UUID) (SalesOrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return SalesOrderResponse{}, err
	}
	return toSalesOrderResponse(order), nil
}

// OrdersByStatus lists orders in one pipeline stage
func (s *SalesOrderService) OrdersByStatus(ctx context.Context, status trade.SalesOrderStatus) ([]SalesOrderResponse, error) {
	orders, err := s.orders.FindByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	out := make([]SalesOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toSalesOrderResponse(o))
	}
	return out, nil
}

// PickList returns the stored batch provenance for a committed order,
// grouped per line in allocation order
func (s *SalesOrderService) PickList(ctx context.Context, orderID uuid.UUID) ([]SalesOrderItemResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.StockCommitted {
		return nil, shared.NewDomainError("NOT_COMMITTED", "Order has no committed stock to pick")
	}
	resp := toSalesOrderResponse(order)
	return resp.Items, nil
}

func (s *SalesOrderService) publish(ctx context.Context, order *trade.SalesOrder) {
	_ = s.publisher.Publish(ctx, order.GetDomainEvents()...)
	order.ClearDomainEvents()
}
