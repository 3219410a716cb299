package handler

import (
	"time"

	invapp "github.com/alumac/backend/internal/application/inventory"
	appledger "github.com/alumac/backend/internal/application/ledger"
	"github.com/alumac/backend/internal/domain/ledger"
	"github.com/alumac/backend/internal/domain/shared/valueobject"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryHandler handles material and purchase API endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *invapp.Service
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *invapp.Service) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// RegisterRoutes registers inventory routes on the API group
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	materials := rg.Group("/materials")
	materials.POST("", h.CreateMaterial)
	materials.GET("", h.ListMaterials)
	materials.GET("/below-minimum", h.ListBelowMinimum)
	materials.GET("/code/:code", h.GetMaterialByCode)
	materials.GET("/:id", h.GetMaterial)
	materials.PUT("/:id/cost", h.SetUnitCost)
	materials.POST("/:id/deactivate", h.DeactivateMaterial)
	materials.GET("/:id/movements", h.ListMovements)
	materials.POST("/:id/adjust", h.AdjustStock)

	purchases := rg.Group("/purchases")
	purchases.POST("", h.RecordPurchase)
	purchases.GET("", h.ListPurchases)
	purchases.GET("/:id", h.GetPurchase)
}

// CreateMaterial registers a new material
func (h *InventoryHandler) CreateMaterial(c *gin.Context) {
	var req invapp.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	created, err := h.inventoryService.CreateMaterial(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// ListMaterials lists materials with filtering and pagination
func (h *InventoryHandler) ListMaterials(c *gin.Context) {
	filter := invapp.MaterialListFilter{
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 20),
		Search:   c.Query("search"),
	}
	if active := c.Query("active"); active != "" {
		b := active == "true"
		filter.Active = &b
	}
	if unit := c.Query("unit"); unit != "" {
		filter.Unit = &unit
	}
	if c.Query("below_minimum") == "true" {
		filter.BelowMinimum = true
	}

	materials, total, err := h.inventoryService.ListMaterials(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, materials, total, filter.Page, filter.PageSize)
}

// ListBelowMinimum lists materials needing restock
func (h *InventoryHandler) ListBelowMinimum(c *gin.Context) {
	materials, err := h.inventoryService.ListBelowMinimum(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, materials)
}

// GetMaterial retrieves a material by ID
func (h *InventoryHandler) GetMaterial(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid material ID format")
		return
	}

	material, err := h.inventoryService.GetMaterial(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, material)
}

// GetMaterialByCode retrieves a material by code
func (h *InventoryHandler) GetMaterialByCode(c *gin.Context) {
	material, err := h.inventoryService.GetMaterialByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, material)
}

// SetUnitCostRequest carries the new replacement cost
type SetUnitCostRequest struct {
	UnitCost decimal.Decimal `json:"unit_cost" binding:"required"`
}

// SetUnitCost updates the replacement cost of a material
func (h *InventoryHandler) SetUnitCost(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid material ID format")
		return
	}
	var req SetUnitCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.inventoryService.SetUnitCost(c.Request.Context(), id, req.UnitCost)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// DeactivateMaterial retires a material from the catalog
func (h *InventoryHandler) DeactivateMaterial(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid material ID format")
		return
	}

	updated, err := h.inventoryService.DeactivateMaterial(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// ListMovements lists the movement history of a material, newest first
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid material ID format")
		return
	}

	movements, err := h.inventoryService.ListMovements(c.Request.Context(), id, intQuery(c, "page", 1), intQuery(c, "page_size", 20))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}

// AdjustStockRequest is the request to correct a material's stock
type AdjustStockRequest struct {
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Reason    string          `json:"reason" binding:"required"`
	Reference string          `json:"reference"`
}

// AdjustStock applies a signed correction to a material's stock
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid material ID format")
		return
	}
	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.inventoryService.AdjustStock(c.Request.Context(), appledger.StockAdjustmentInput{
		MaterialID: id,
		Quantity:   req.Quantity,
		Reason:     req.Reason,
		Reference:  req.Reference,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// RecordPurchaseRequest is the request to record a supplier restock
type RecordPurchaseRequest struct {
	MaterialID    uuid.UUID       `json:"material_id" binding:"required"`
	SupplierID    uuid.UUID       `json:"supplier_id" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice     decimal.Decimal `json:"unit_price" binding:"required"`
	Currency      string          `json:"currency"`
	Date          time.Time       `json:"date"`
	PaymentMethod string          `json:"payment_method"`
}

// RecordPurchase records a supplier restock: document, stock movement and
// ledger entry land atomically
func (h *InventoryHandler) RecordPurchase(c *gin.Context) {
	var req RecordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	currency := valueobject.DefaultCurrency
	if req.Currency != "" {
		currency = valueobject.Currency(req.Currency)
	}
	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	result, err := h.inventoryService.RecordPurchase(c.Request.Context(), appledger.MaterialPurchaseInput{
		MaterialID:    req.MaterialID,
		SupplierID:    req.SupplierID,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		Currency:      currency,
		Date:          date,
		PaymentMethod: ledger.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListPurchases lists purchases with filtering and pagination
func (h *InventoryHandler) ListPurchases(c *gin.Context) {
	filter := invapp.PurchaseListFilter{
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 20),
		Search:   c.Query("search"),
	}
	if materialID := c.Query("material_id"); materialID != "" {
		id, err := uuid.Parse(materialID)
		if err != nil {
			h.BadRequest(c, "Invalid material_id format")
			return
		}
		filter.MaterialID = &id
	}
	if supplierID := c.Query("supplier_id"); supplierID != "" {
		id, err := uuid.Parse(supplierID)
		if err != nil {
			h.BadRequest(c, "Invalid supplier_id format")
			return
		}
		filter.SupplierID = &id
	}
	if status := c.Query("payment_status"); status != "" {
		filter.PaymentStatus = &status
	}

	purchases, total, err := h.inventoryService.ListPurchases(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, purchases, total, filter.Page, filter.PageSize)
}

// GetPurchase retrieves a purchase by ID
func (h *InventoryHandler) GetPurchase(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid purchase ID format")
		return
	}

	purchase, err := h.inventoryService.GetPurchase(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchase)
}
