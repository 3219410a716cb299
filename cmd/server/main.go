package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	invapp "github.com/alumac/backend/internal/application/inventory"
	appledger "github.com/alumac/backend/internal/application/ledger"
	quoteapp "github.com/alumac/backend/internal/application/quote"
	saleapp "github.com/alumac/backend/internal/application/sale"
	"github.com/alumac/backend/internal/domain/numbering"
	"github.com/alumac/backend/internal/domain/quote"
	"github.com/alumac/backend/internal/infrastructure/config"
	"github.com/alumac/backend/internal/infrastructure/logger"
	"github.com/alumac/backend/internal/infrastructure/persistence"
	"github.com/alumac/backend/internal/infrastructure/telemetry"
	"github.com/alumac/backend/internal/interfaces/http/handler"
	"github.com/alumac/backend/internal/interfaces/http/middleware"
	"github.com/alumac/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	// database
	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	// tracing
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Failed to shut down tracer provider", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// repositories
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	expenseRepo := persistence.NewGormBudgetExpenseRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	materialRepo := persistence.NewGormMaterialRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	purchaseRepo := persistence.NewGormMaterialPurchaseRepository(db.DB)
	numberStore := persistence.NewGormDocumentNumberStore(db.DB)

	// domain services
	allocator := numbering.NewAllocator(numberStore)
	marginService := quote.NewMarginService(quoteRepo, expenseRepo, saleRepo)

	// application services
	composer := appledger.NewComposer(appledger.ComposerDeps{
		UnitOfWork: persistence.NewGormUnitOfWork(db.DB),
		Allocator:  allocator,
		Quotes:     quoteRepo,
		Sales:      saleRepo,
		Entries:    ledgerRepo,
		Materials:  materialRepo,
		Movements:  movementRepo,
		Purchases:  purchaseRepo,
		Logger:     log.Named("composer"),
		Tracer:     tracerProvider.Tracer("ledger"),
	})
	ledgerQueries := appledger.NewQueryService(ledgerRepo)
	quoteService := quoteapp.NewService(quoteRepo, expenseRepo, marginService, allocator, composer, log.Named("quote"))
	saleService := saleapp.NewService(saleRepo, allocator, composer, log.Named("sale"))
	inventoryService := invapp.NewService(materialRepo, movementRepo, purchaseRepo, composer, log.Named("inventory"))

	// http
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.BodyLimit(1<<20),
		middleware.CORS(middleware.CORSConfig{
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
			AllowMethods: cfg.HTTP.CORSAllowMethods,
			AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		}),
	)

	engine.GET("/health", healthHandler(db))

	router.New(engine).Register(
		handler.NewSystemHandler(cfg.App.Name, version),
		handler.NewQuoteHandler(quoteService),
		handler.NewSaleHandler(saleService, ledgerQueries),
		handler.NewLedgerHandler(composer, ledgerQueries),
		handler.NewInventoryHandler(inventoryService),
	).Setup()

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
	<-quit

	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}

// healthHandler reports liveness and database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}
