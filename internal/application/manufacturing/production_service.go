package manufacturing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appinventory "github.com/stitchworks/backend/internal/application/inventory"
	"github.com/stitchworks/backend/internal/domain/inventory"
	"github.com/stitchworks/backend/internal/domain/manufacturing"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// ProductionService drives production orders through their lifecycle. The
// critical operation is Complete: material consumption and finished-good
// receipt happen in one stock transaction, so a shortfall in any single
// material leaves every balance untouched.
type ProductionService struct {
	orders    manufacturing.ProductionOrderRepository
	boms      manufacturing.BOMRepository
	stock     *appinventory.StockService
	publisher shared.EventPublisher
}

// NewProductionService creates a new ProductionService
func NewProductionService(
	orders manufacturing.ProductionOrderRepository,
	boms manufacturing.BOMRepository,
	stock *appinventory.StockService,
) *ProductionService {
	return &ProductionService{
		orders:    orders,
		boms:      boms,
		stock:     stock,
		publisher: shared.NopPublisher{},
	}
}

// SetEventPublisher sets the event publisher
func (s *ProductionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// CreateBOM registers a recipe for a finished good, optionally making it the
// active one
func (s *ProductionService) CreateBOM(ctx context.Context, in CreateBOMInput) (*manufacturing.BillOfMaterials, error) {
	lines := make([]manufacturing.BOMLineSpec, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, manufacturing.BOMLineSpec{MaterialID: l.MaterialID, QtyPerUnit: l.QtyPerUnit})
	}

	bom, err := manufacturing.NewBillOfMaterials(in.FinishedGoodID, in.Name, lines)
	if err != nil {
		return nil, err
	}
	if err := s.boms.Save(ctx, bom); err != nil {
		return nil, err
	}
	if in.Activate {
		if err := s.boms.Activate(ctx, bom.ID); err != nil {
			return nil, err
		}
		bom.Activate()
	}
	return bom, nil
}

// CreateOrder opens a production order in PENDING status. The BOM is pinned
// at creation so later recipe changes do not affect in-flight orders.
func (s *ProductionService) CreateOrder(ctx context.Context, in CreateOrderInput) (ProductionOrderResponse, error) {
	bomID, err := s.resolveBOM(ctx, in)
	if err != nil {
		return ProductionOrderResponse{}, err
	}

	po, err := manufacturing.NewProductionOrder(in.OrderNumber, in.FinishedGoodID, bomID, in.Quantity, in.TargetLocation)
	if err != nil {
		return ProductionOrderResponse{}, err
	}
	if in.SalesOrderID != nil {
		po.LinkSalesOrder(*in.SalesOrderID)
	}

	if err := s.orders.Save(ctx, po); err != nil {
		return ProductionOrderResponse{}, err
	}
	s.publish(ctx, po)

	return toProductionOrderResponse(po), nil
}

func (s *ProductionService) resolveBOM(ctx context.Context, in CreateOrderInput) (uuid.UUID, error) {
	if in.BOMID != nil {
		bom, err := s.boms.FindByID(ctx, *in.BOMID)
		if err != nil {
			return uuid.Nil, err
		}
		if bom.FinishedGoodID != in.FinishedGoodID {
			return uuid.Nil, shared.NewDomainError(shared.CodeBOMNotFound, "BOM does not belong to the finished good")
		}
		return bom.ID, nil
	}

	bom, err := s.boms.FindActiveByFinishedGood(ctx, in.FinishedGoodID)
	if err != nil {
		return uuid.Nil, err
	}
	return bom.ID, nil
}

// Start moves an order onto the shop floor
func (s *ProductionService) Start(ctx context.Context, orderID uuid.UUID) (ProductionOrderResponse, error) {
	po, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return ProductionOrderResponse{}, err
	}
	if err := po.Start(); err != nil {
		return ProductionOrderResponse{}, err
	}
	if err := s.orders.Save(ctx, po); err != nil {
		return ProductionOrderResponse{}, err
	}
	s.publish(ctx, po)

	return toProductionOrderResponse(po), nil
}

// materialDraw remembers which lots a completion consumed so a failed
// persist can put them back exactly where they came from.
type materialDraw struct {
	MaterialID  uuid.UUID
	Allocations []inventory.Allocation
}

// Complete consumes the BOM-exploded materials and receives the finished
// batch in a single stock transaction. Every material's availability is
// checked before anything is allocated; the first shortfall aborts with an
// InsufficientMaterialError naming the material, the required quantity, and
// what was actually on hand.
func (s *ProductionService) Complete(ctx context.Context, orderID uuid.UUID) (ProductionOrderResponse, error) {
	po, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return ProductionOrderResponse{}, err
	}
	// The transition is validated before any stock moves so a bad state
	// cannot consume materials.
	if !po.Status.CanTransitionTo(manufacturing.ProductionStatusCompleted) {
		return ProductionOrderResponse{}, shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot complete production order in %s status", po.Status))
	}

	bom, err := s.boms.FindByID(ctx, po.BOMID)
	if err != nil {
		return ProductionOrderResponse{}, err
	}
	required, err := bom.Requirements(po.Quantity)
	if err != nil {
		return ProductionOrderResponse{}, err
	}

	batchNumber := po.MintBatchNumber(time.Now())
	unitCost := decimal.Zero
	consumed := make([]materialDraw, 0, len(required))

	productIDs := make([]uuid.UUID, 0, len(required)+1)
	for _, req := range required {
		productIDs = append(productIDs, req.MaterialID)
	}
	productIDs = append(productIDs, po.FinishedGoodID)

	err = s.stock.InTransaction(ctx, productIDs, func(ops *appinventory.StockOperations) error {
		// Availability of every material is verified up front. Allocation
		// only starts once the whole bill can be satisfied.
		for _, req := range required {
			available, err := ops.TotalAvailable(req.MaterialID)
			if err != nil {
				return err
			}
			if available.LessThan(req.Quantity) {
				return manufacturing.NewInsufficientMaterialError(req.MaterialID, req.Quantity, available)
			}
		}

		consumedCost := decimal.Zero
		for _, req := range required {
			allocations, err := ops.Allocate(appinventory.AllocateInput{
				ProductID:  req.MaterialID,
				Quantity:   req.Quantity,
				SourceType: inventory.SourceTypeProductionOrder,
				SourceID:   po.ID.String(),
			})
			if err != nil {
				return err
			}
			for _, a := range allocations {
				consumedCost = consumedCost.Add(a.Quantity.Mul(a.UnitCost))
			}
			consumed = append(consumed, materialDraw{MaterialID: req.MaterialID, Allocations: allocations})
		}

		// Finished-good unit cost is the consumed material cost spread
		// over the produced quantity.
		if po.Quantity.GreaterThan(decimal.Zero) {
			unitCost = consumedCost.Div(po.Quantity)
		}

		_, err := ops.Produce(appinventory.ProduceInput{
			ProductID:   po.FinishedGoodID,
			Location:    po.TargetLocation,
			Quantity:    po.Quantity,
			BatchNumber: batchNumber,
			UnitCost:    unitCost,
			SourceType:  inventory.SourceTypeProductionOrder,
			SourceID:    po.ID.String(),
		})
		return err
	})
	if err != nil {
		return ProductionOrderResponse{}, err
	}

	if err := po.Complete(batchNumber); err != nil {
		return ProductionOrderResponse{}, s.undoCompletion(ctx, po, consumed, err)
	}
	if err := s.orders.Save(ctx, po); err != nil {
		return ProductionOrderResponse{}, s.undoCompletion(ctx, po, consumed, err)
	}
	s.publish(ctx, po)

	return toProductionOrderResponse(po), nil
}

// undoCompletion reverses a completion whose stock already moved but whose
// order could not be persisted: the finished quantity is drawn back out of
// the target location and every consumed lot is returned at its original
// batch and cost. The order stays in progress and can be completed again.
func (s *ProductionService) undoCompletion(ctx context.Context, po *manufacturing.ProductionOrder, consumed []materialDraw, cause error) error {
	productIDs := make([]uuid.UUID, 0, len(consumed)+1)
	for _, draw := range consumed {
		productIDs = append(productIDs, draw.MaterialID)
	}
	productIDs = append(productIDs, po.FinishedGoodID)

	err := s.stock.InTransaction(ctx, productIDs, func(ops *appinventory.StockOperations) error {
		if _, err := ops.Allocate(appinventory.AllocateInput{
			ProductID:  po.FinishedGoodID,
			Location:   po.TargetLocation,
			Quantity:   po.Quantity,
			SourceType: inventory.SourceTypeProductionOrder,
			SourceID:   po.ID.String(),
		}); err != nil {
			return err
		}
		for _, draw := range consumed {
			for _, a := range draw.Allocations {
				if _, err := ops.Produce(appinventory.ProduceInput{
					ProductID:   draw.MaterialID,
					Location:    a.Location,
					Quantity:    a.Quantity,
					BatchNumber: a.BatchNumber,
					UnitCost:    a.UnitCost,
					SourceType:  inventory.SourceTypeProductionOrder,
					SourceID:    po.ID.String(),
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reversing completion after persist failure: %w", err)
	}
	return cause
}

// Cancel abandons a pending or in-progress order. No stock has moved yet,
// so there is nothing to reverse.
func (s *ProductionService) Cancel(ctx context.Context, orderID uuid.UUID, reason string) (ProductionOrderResponse, error) {
	po, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return ProductionOrderResponse{}, err
	}
	if err := po.Cancel(reason); err != nil {
		return ProductionOrderResponse{}, err
	}
	if err := s.orders.Save(ctx, po); err != nil {
		return ProductionOrderResponse{}, err
	}
	s.publish(ctx, po)

	return toProductionOrderResponse(po), nil
}

// Order returns one order by ID
func (s *ProductionService) Order(ctx context.Context, orderID uuid.UUID) (ProductionOrderResponse, error) {
	po, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return ProductionOrderResponse{}, err
	}
	return toProductionOrderResponse(po), nil
}

// OrdersForSalesOrder lists the production orders spawned by a sales order
func (s *ProductionService) OrdersForSalesOrder(ctx context.Context, salesOrderID uuid.UUID) ([]ProductionOrderResponse, error) {
	orders, err := s.orders.FindBySalesOrder(ctx, salesOrderID)
	if err != nil {
		return nil, err
	}
	out := make([]ProductionOrderResponse, 0, len(orders))
	for _, po := range orders {
		out = append(out, toProductionOrderResponse(po))
	}
	return out, nil
}

func (s *ProductionService) publish(ctx context.Context, po *manufacturing.ProductionOrder) {
	_ = s.publisher.Publish(ctx, po.GetDomainEvents()...)
	po.ClearDomainEvents()
}
