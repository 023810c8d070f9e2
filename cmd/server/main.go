package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/stitchworks/backend/internal/application/catalog"
	financeapp "github.com/stitchworks/backend/internal/application/finance"
	inventoryapp "github.com/stitchworks/backend/internal/application/inventory"
	manufacturingapp "github.com/stitchworks/backend/internal/application/manufacturing"
	partnerapp "github.com/stitchworks/backend/internal/application/partner"
	planningapp "github.com/stitchworks/backend/internal/application/planning"
	tradeapp "github.com/stitchworks/backend/internal/application/trade"
	"github.com/stitchworks/backend/internal/domain/shared"
	infraaudit "github.com/stitchworks/backend/internal/infrastructure/audit"
	"github.com/stitchworks/backend/internal/infrastructure/cache"
	"github.com/stitchworks/backend/internal/infrastructure/config"
	infrafinance "github.com/stitchworks/backend/internal/infrastructure/finance"
	"github.com/stitchworks/backend/internal/infrastructure/logger"
	"github.com/stitchworks/backend/internal/infrastructure/persistence"
	"github.com/stitchworks/backend/internal/interfaces/http/handler"
	"github.com/stitchworks/backend/internal/interfaces/http/router"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting stitchworks backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	stockRecordRepo := persistence.NewGormStockRecordRepository(db.DB)
	stockMovementRepo := persistence.NewGormStockMovementRepository(db.DB)
	bomRepo := persistence.NewGormBOMRepository(db.DB)
	productionOrderRepo := persistence.NewGormProductionOrderRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	goodsReceiptRepo := persistence.NewGormGoodsReceiptRepository(db.DB)

	scope := persistence.NewGormTransactionScope(db.DB)
	cashLedger := infrafinance.NewGormCashLedger(db.DB)

	// Report cache: Redis when reachable, in-process otherwise. The planner
	// treats a failing cache as a miss, so degraded Redis never blocks it.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	var reportCache planningapp.ReportCache
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unreachable, report cache runs in memory",
			zap.String("addr", cfg.Redis.Addr()),
			zap.Error(err),
		)
		_ = redisClient.Close()
		redisClient = nil
		reportCache = cache.NewInMemoryReportCache(cfg.Planning.ReportCacheTTL)
	} else {
		reportCache = cache.NewRedisReportCache(redisClient, cfg.Planning.ReportCacheTTL, log)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}
	cancelPing()
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
	}

	// Application services
	stockService := inventoryapp.NewStockService(scope)
	stockService.SetAuditSink(infraaudit.NewGormSink(db.DB, log))
	cycleCountService := inventoryapp.NewCycleCountService(stockService)

	productService := catalogapp.NewProductService(productRepo)
	customerService := partnerapp.NewCustomerService(customerRepo)
	supplierService := partnerapp.NewSupplierService(supplierRepo)

	productionService := manufacturingapp.NewProductionService(productionOrderRepo, bomRepo, stockService)
	salesOrderService := tradeapp.NewSalesOrderService(
		salesOrderRepo, customerRepo, productRepo, stockService, cashLedger, productionService,
	)
	purchaseOrderService := tradeapp.NewPurchaseOrderService(
		purchaseOrderRepo, goodsReceiptRepo, supplierRepo, productRepo, stockService, cashLedger,
	)
	cashService := financeapp.NewCashService(cashLedger)

	replenishmentService := planningapp.NewReplenishmentService(productRepo, stockRecordRepo, stockMovementRepo, salesOrderRepo)
	replenishmentService.SetReportCache(reportCache)
	replenishmentService.SetUsageWindow(cfg.Planning.UsageWindowDays)

	// Domain events feed the structured log; a listener failure never
	// aborts the operation that raised the event.
	eventBus := shared.NewInMemoryEventBus(func(event shared.DomainEvent, err error) {
		log.Error("Event handler failed",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.Error(err),
		)
	})
	eventBus.Subscribe(newEventLogger(log))
	productionService.SetEventPublisher(eventBus)
	salesOrderService.SetEventPublisher(eventBus)
	purchaseOrderService.SetEventPublisher(eventBus)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	stockHandler := handler.NewStockHandler(stockService)
	stockHandler.SetExpiryHorizon(cfg.Planning.ExpiryHorizon)

	engine := router.New(log, router.Handlers{
		Products:    handler.NewProductHandler(productService),
		Stock:       stockHandler,
		CycleCounts: handler.NewCycleCountHandler(cycleCountService),
		Planning:    handler.NewPlanningHandler(replenishmentService),
		Production:  handler.NewProductionHandler(productionService),
		SalesOrders: handler.NewSalesOrderHandler(salesOrderService),
		Purchases:   handler.NewPurchaseOrderHandler(purchaseOrderService),
		Customers:   handler.NewCustomerHandler(customerService),
		Suppliers:   handler.NewSupplierHandler(supplierService),
		Cash:        handler.NewCashHandler(cashService),
		System:      handler.NewSystemHandler(db, redisClient),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed, closing", zap.Error(err))
		_ = srv.Close()
	}
	log.Info("Server stopped")
}

// eventLogger records every domain event at info level
type eventLogger struct {
	log *zap.Logger
}

func newEventLogger(log *zap.Logger) *eventLogger {
	return &eventLogger{log: log.Named("events")}
}

func (l *eventLogger) Handle(_ context.Context, event shared.DomainEvent) error {
	l.log.Info("Domain event",
		zap.String("type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns an empty slice so the logger receives every event
func (l *eventLogger) EventTypes() []string { return nil }
