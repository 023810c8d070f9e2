package router

import (
	"github.com/gin-gonic/gin"
	"github.com/stitchworks/backend/internal/infrastructure/logger"
	"github.com/stitchworks/backend/internal/interfaces/http/handler"
	"go.uber.org/zap"
)

// Handlers bundles every API handler the router mounts
type Handlers struct {
	Products    *handler.ProductHandler
	Stock       *handler.StockHandler
	CycleCounts *handler.CycleCountHandler
	Planning    *handler.PlanningHandler
	Production  *handler.ProductionHandler
	SalesOrders *handler.SalesOrderHandler
	Purchases   *handler.PurchaseOrderHandler
	Customers   *handler.CustomerHandler
	Suppliers   *handler.SupplierHandler
	Cash        *handler.CashHandler
	System      *handler.SystemHandler
}

// New builds the gin engine with logging middleware and every route
// mounted under /api/v1
func New(log *zap.Logger, h Handlers) *gin.Engine {
	engine := gin.New()
	engine.Use(
		logger.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
	)

	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	api := engine.Group("/api/v1")

	products := api.Group("/products")
	{
		products.POST("", h.Products.Create)
		products.GET("", h.Products.List)
		products.GET("/:id", h.Products.GetByID)
		products.GET("/code/:code", h.Products.GetByCode)
		products.PUT("/:id/prices", h.Products.SetPrices)
		products.PUT("/:id/replenishment", h.Products.SetReplenishment)
		products.POST("/:id/activate", h.Products.Activate)
		products.POST("/:id/deactivate", h.Products.Deactivate)
	}

	inventory := api.Group("/inventory")
	{
		inventory.POST("/receipts", h.Stock.Receive)
		inventory.POST("/allocations", h.Stock.Allocate)
		inventory.POST("/transfers", h.Stock.Transfer)
		inventory.GET("/products/:product_id/stock", h.Stock.StockLevel)
		inventory.GET("/products/:product_id/movements", h.Stock.Movements)
		inventory.GET("/products/:product_id/reconciliation", h.Stock.VerifyReconciliation)
		inventory.GET("/expiring", h.Stock.ExpiringBatches)

		counts := inventory.Group("/cycle-counts")
		{
			counts.POST("", h.CycleCounts.Start)
			counts.GET("", h.CycleCounts.List)
			counts.GET("/:id", h.CycleCounts.GetByID)
			counts.POST("/:id/items", h.CycleCounts.RecordCount)
			counts.POST("/:id/confirm", h.CycleCounts.Confirm)
		}
	}

	planning := api.Group("/planning")
	{
		planning.GET("/replenishment", h.Planning.Report)
		planning.GET("/replenishment/products/:product_id", h.Planning.AdviceFor)
		planning.POST("/replenishment/draft-order", h.Planning.DraftPurchaseOrder)
	}

	manufacturing := api.Group("/manufacturing")
	{
		manufacturing.POST("/boms", h.Production.CreateBOM)
		manufacturing.POST("/orders", h.Production.CreateOrder)
		manufacturing.GET("/orders/:id", h.Production.GetOrder)
		manufacturing.POST("/orders/:id/start", h.Production.Start)
		manufacturing.POST("/orders/:id/complete", h.Production.Complete)
		manufacturing.POST("/orders/:id/cancel", h.Production.Cancel)
		manufacturing.GET("/sales-orders/:sales_order_id/orders", h.Production.OrdersForSalesOrder)
	}

	sales := api.Group("/sales-orders")
	{
		sales.POST("", h.SalesOrders.CreateQuote)
		sales.GET("", h.SalesOrders.ListByStatus)
		sales.GET("/:id", h.SalesOrders.GetByID)
		sales.POST("/:id/lines", h.SalesOrders.AddLine)
		sales.DELETE("/:id/lines/:item_id", h.SalesOrders.RemoveLine)
		sales.PUT("/:id/delivery", h.SalesOrders.AssignDelivery)
		sales.POST("/:id/transitions", h.SalesOrders.Transition)
		sales.GET("/:id/pick-list", h.SalesOrders.PickList)
	}

	purchases := api.Group("/purchase-orders")
	{
		purchases.POST("", h.Purchases.Create)
		purchases.GET("/:id", h.Purchases.GetByID)
		purchases.POST("/:id/lines", h.Purchases.AddLine)
		purchases.POST("/:id/receive", h.Purchases.Receive)
		purchases.POST("/:id/pay", h.Purchases.MarkPaid)
		purchases.POST("/:id/cancel", h.Purchases.Cancel)
		purchases.GET("/:id/receipts", h.Purchases.Receipts)
	}

	customers := api.Group("/customers")
	{
		customers.POST("", h.Customers.Create)
		customers.GET("", h.Customers.ListActive)
		customers.GET("/:id", h.Customers.GetByID)
		customers.PUT("/:id/contact", h.Customers.SetContact)
		customers.PUT("/:id/tier", h.Customers.SetTier)
		customers.PUT("/:id/credit-limit", h.Customers.SetCreditLimit)
		customers.POST("/:id/settlements", h.Customers.SettleDebt)
	}

	suppliers := api.Group("/suppliers")
	{
		suppliers.POST("", h.Suppliers.Create)
		suppliers.GET("", h.Suppliers.ListActive)
		suppliers.GET("/:id", h.Suppliers.GetByID)
		suppliers.PUT("/:id/contact", h.Suppliers.SetContact)
	}

	finance := api.Group("/finance")
	{
		finance.GET("/cash/balance", h.Cash.Balance)
		finance.POST("/cash/adjustments", h.Cash.Adjust)
	}

	return engine
}
