// Package main is the entry point for the inventory API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Lahiru-2000/inventory-management-system/internal/domain/auth"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/catalogs/category"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/catalogs/item"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/catalogs/supplier"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/goods_issue_note"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/goods_receive_note"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/invoice"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/purchase_order"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/sales_order"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/registers/stock"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/reports"
	"github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/cache"
	v1 "github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/http/v1"
	"github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/storage/postgres"
	"github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/storage/postgres/auth_repo"
	"github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/storage/postgres/document_repo"
	"github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/storage/postgres/register_repo"
	"github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/storage/postgres/report_repo"
	"github.com/Lahiru-2000/inventory-management-system/pkg/logger"
	"github.com/Lahiru-2000/inventory-management-system/pkg/numerator"
)

var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)
	log.Info("starting inventory server")

	// --- Database ---
	dsn := mustEnv("DATABASE_URL")
	poolCfg := postgres.DefaultPoolConfig(dsn)
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}
	defer auditService.Close()

	numeratorService := numerator.New(pool.Unwrap())

	// --- Repositories ---
	categoryRepo := catalog_repo.NewCategoryRepo(txManager)
	supplierRepo := catalog_repo.NewSupplierRepo(txManager)
	itemRepo := catalog_repo.NewItemRepo(txManager)
	stockRepo := register_repo.NewStockRepo(txManager)
	poRepo := document_repo.NewPurchaseOrderRepo(txManager)
	grnRepo := document_repo.NewGoodsReceiveNoteRepo(txManager)
	soRepo := document_repo.NewSalesOrderRepo(txManager)
	ginRepo := document_repo.NewGoodsIssueNoteRepo(txManager)
	invoiceRepo := document_repo.NewInvoiceRepo(txManager)
	reportRepo := report_repo.NewReportRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)
	roleRepo := auth_repo.NewRoleRepo(txManager)
	tokenRepo := auth_repo.NewTokenRepo(txManager)

	// --- Services ---
	stockService := stock.NewService(stockRepo, txManager)
	categoryService := category.NewService(categoryRepo, txManager)
	supplierService := supplier.NewService(supplierRepo, txManager)
	itemService := item.NewService(itemRepo, categoryRepo, stockService, txManager)

	poService := purchase_order.NewService(poRepo, supplierRepo, itemRepo, numeratorService, txManager, auditService)
	grnService := goods_receive_note.NewService(grnRepo, poRepo, itemRepo, stockService, numeratorService, txManager, auditService)
	soService := sales_order.NewService(soRepo, itemRepo, numeratorService, txManager, auditService)
	ginService := goods_issue_note.NewService(ginRepo, soRepo, itemRepo, stockService, numeratorService, txManager, auditService)
	invoiceService := invoice.NewService(invoiceRepo, soRepo, numeratorService, txManager, auditService)

	dashboardCache := cache.NewDashboardCache(pool.Unwrap(), getEnvDuration("DASHBOARD_CACHE_TTL", 30*time.Second))
	if err := dashboardCache.Start(ctx); err != nil {
		log.Fatalw("failed to start dashboard cache", "error", err)
	}
	defer dashboardCache.Stop()

	reportService := reports.NewService(reportRepo, dashboardCache)

	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(mustEnv("JWT_SECRET")))
	authService := auth.NewService(userRepo, roleRepo, tokenRepo, txManager, jwtService, auth.DefaultServiceConfig())

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:    pool,
		Logger:  log,
		Version: version,

		TokenValidator: jwtService,

		AuthService:     authService,
		CategoryService: categoryService,
		SupplierService: supplierService,
		ItemService:     itemService,
		StockService:    stockService,
		ReportService:   reportService,

		PurchaseOrderService:    poService,
		GoodsReceiveNoteService: grnService,
		SalesOrderService:       soService,
		GoodsIssueNoteService:   ginService,
		InvoiceService:          invoiceService,
	})

	// --- HTTP server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port, "version", version)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
