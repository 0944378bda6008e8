// Package v1 wires the HTTP API surface.
package v1

import (
	"github.com/gin-gonic/gin"

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
	"github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/http/v1/dto"
	"github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/http/v1/handlers"
	"github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/http/v1/middleware"
	"github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/storage/postgres"
	"github.com/Lahiru-2000/inventory-management-system/pkg/logger"
)

// RouterConfig collects everything the router needs.
type RouterConfig struct {
	Pool    *postgres.Pool
	Logger  *logger.Logger
	Version string

	TokenValidator middleware.TokenValidator

	AuthService     *auth.Service
	CategoryService *category.Service
	SupplierService *supplier.Service
	ItemService     *item.Service
	StockService    *stock.Service
	ReportService   *reports.Service

	PurchaseOrderService    *purchase_order.Service
	GoodsReceiveNoteService *goods_receive_note.Service
	SalesOrderService       *sales_order.Service
	GoodsIssueNoteService   *goods_issue_note.Service
	InvoiceService          *invoice.Service
}

// NewRouter builds the gin engine with all routes and middleware.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()

	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)

	api := router.Group("/api/v1")

	// Routes reachable without a token.
	public := api.Group("/auth")
	{
		public.POST("/login", authHandler.Login)
		public.POST("/refresh", authHandler.Refresh)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.TokenValidator))

	authGroup := protected.Group("/auth")
	{
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/me", authHandler.Me)
		authGroup.GET("/roles", authHandler.ListRoles)

		users := authGroup.Group("/users")
		users.Use(middleware.RequireRole(auth.RoleAdmin))
		{
			users.GET("", authHandler.ListUsers)
			users.POST("", authHandler.Register)
			users.GET("/:id", authHandler.GetUser)
			users.PUT("/:id", authHandler.UpdateUser)
		}
	}

	catalogs := protected.Group("/catalogs")
	{
		categoryHandler := handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*category.Category, dto.CreateCategoryRequest, dto.UpdateCategoryRequest]{
			Service:      cfg.CategoryService.CatalogService,
			EntityName:   "category",
			MapCreateDTO: func(req dto.CreateCategoryRequest) *category.Category { return req.ToEntity() },
			MapUpdateDTO: func(req dto.UpdateCategoryRequest, existing *category.Category) *category.Category {
				return req.ApplyTo(existing)
			},
			SetActive: cfg.CategoryService.SetActive,
		})
		RegisterCatalogRoutes(catalogs, "/categories", categoryHandler)

		supplierHandler := handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*supplier.Supplier, dto.CreateSupplierRequest, dto.UpdateSupplierRequest]{
			Service:      cfg.SupplierService.CatalogService,
			EntityName:   "supplier",
			MapCreateDTO: func(req dto.CreateSupplierRequest) *supplier.Supplier { return req.ToEntity() },
			MapUpdateDTO: func(req dto.UpdateSupplierRequest, existing *supplier.Supplier) *supplier.Supplier {
				return req.ApplyTo(existing)
			},
			SetActive: cfg.SupplierService.SetActive,
		})
		RegisterCatalogRoutes(catalogs, "/suppliers", supplierHandler)

		itemHandler := handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*item.Item, dto.CreateItemRequest, dto.UpdateItemRequest]{
			Service:      cfg.ItemService.CatalogService,
			EntityName:   "item",
			MapCreateDTO: func(req dto.CreateItemRequest) *item.Item { return req.ToEntity() },
			MapUpdateDTO: func(req dto.UpdateItemRequest, existing *item.Item) *item.Item {
				return req.ApplyTo(existing)
			},
			SetActive: cfg.ItemService.SetActive,
		})
		RegisterCatalogRoutes(catalogs, "/items", itemHandler)
	}

	documents := protected.Group("/documents")
	{
		poHandler := handlers.NewPurchaseOrderHandler(base, cfg.PurchaseOrderService)
		po := documents.Group("/purchase-orders")
		{
			po.GET("", poHandler.List)
			po.POST("", poHandler.Create)
			po.GET("/:id", poHandler.Get)
			po.PUT("/:id", poHandler.Update)
			po.POST("/:id/submit", poHandler.Submit)
			po.POST("/:id/approve", poHandler.Approve)
			po.POST("/:id/reject", poHandler.Reject)
		}

		grnHandler := handlers.NewGoodsReceiveNoteHandler(base, cfg.GoodsReceiveNoteService)
		grn := documents.Group("/goods-receive-notes")
		{
			grn.GET("", grnHandler.List)
			grn.POST("", grnHandler.Create)
			grn.GET("/:id", grnHandler.Get)
		}

		invoiceHandler := handlers.NewInvoiceHandler(base, cfg.InvoiceService)

		soHandler := handlers.NewSalesOrderHandler(base, cfg.SalesOrderService)
		so := documents.Group("/sales-orders")
		{
			so.GET("", soHandler.List)
			so.POST("", soHandler.Create)
			so.GET("/:id", soHandler.Get)
			so.PUT("/:id", soHandler.Update)
			so.POST("/:id/status", soHandler.UpdateStatus)
			so.GET("/:id/invoice", invoiceHandler.GetBySalesOrder)
		}

		ginHandler := handlers.NewGoodsIssueNoteHandler(base, cfg.GoodsIssueNoteService)
		gi := documents.Group("/goods-issue-notes")
		{
			gi.GET("", ginHandler.List)
			gi.POST("", ginHandler.Create)
			gi.GET("/:id", ginHandler.Get)
			gi.PUT("/:id", ginHandler.Update)
			gi.POST("/:id/status", ginHandler.UpdateStatus)
		}

		inv := documents.Group("/invoices")
		{
			inv.GET("", invoiceHandler.List)
			inv.POST("", invoiceHandler.Create)
			inv.GET("/:id", invoiceHandler.Get)
			inv.POST("/:id/payment-status", invoiceHandler.UpdatePaymentStatus)
		}
	}

	stockHandler := handlers.NewStockHandler(base, cfg.StockService)
	stockGroup := protected.Group("/stock")
	{
		stockGroup.GET("", stockHandler.List)
		stockGroup.GET("/low", stockHandler.ListLowStock)
		stockGroup.GET("/total-value", stockHandler.TotalValue)
		stockGroup.GET("/adjustments", stockHandler.ListAdjustments)
		stockGroup.POST("/adjustments", stockHandler.Adjust)
		stockGroup.GET("/:itemId", stockHandler.Get)
	}

	reportHandler := handlers.NewReportHandler(base, cfg.ReportService)
	reportsGroup := protected.Group("/reports")
	{
		reportsGroup.GET("/sales", reportHandler.Sales)
		reportsGroup.GET("/purchases", reportHandler.Purchases)
		reportsGroup.GET("/suppliers/:id/purchase-history", reportHandler.SupplierHistory)
		reportsGroup.GET("/low-stock", reportHandler.LowStock)
		reportsGroup.GET("/profit", reportHandler.Profit)
		reportsGroup.GET("/dashboard", reportHandler.Dashboard)
	}

	return router
}
