package handler

import (
	"context"
	"time"

	appledger "github.com/alumac/backend/internal/application/ledger"
	saleapp "github.com/alumac/backend/internal/application/sale"
	"github.com/alumac/backend/internal/domain/ledger"
	"github.com/alumac/backend/internal/domain/sale"
	"github.com/alumac/backend/internal/domain/shared/valueobject"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleHandler handles sale API endpoints
type SaleHandler struct {
	BaseHandler
	saleService  *saleapp.Service
	queryService *appledger.QueryService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *saleapp.Service, queryService *appledger.QueryService) *SaleHandler {
	return &SaleHandler{saleService: saleService, queryService: queryService}
}

// RegisterRoutes registers sale routes on the API group
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	sales.POST("", h.Create)
	sales.GET("", h.List)
	sales.GET("/:id", h.GetByID)
	sales.GET("/number/:number", h.GetByNumber)
	sales.POST("/:id/start-production", h.StartProduction)
	sales.POST("/:id/ready", h.MarkReady)
	sales.POST("/:id/deliver", h.MarkDelivered)
	sales.POST("/:id/collect", h.MarkCollected)
	sales.POST("/:id/cancel", h.Cancel)
	sales.POST("/:id/payments", h.RecordPayment)
	sales.GET("/:id/ledger", h.ListLedgerEntries)
}

// Create creates a direct sale that does not originate from a quote
func (h *SaleHandler) Create(c *gin.Context) {
	var req saleapp.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	created, err := h.saleService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// List lists sales with filtering and pagination
func (h *SaleHandler) List(c *gin.Context) {
	filter := saleapp.SaleListFilter{
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 20),
		Search:   c.Query("search"),
	}
	if status := c.Query("status"); status != "" {
		s := sale.Status(status)
		filter.Status = &s
	}
	if clientID := c.Query("client_id"); clientID != "" {
		id, err := uuid.Parse(clientID)
		if err != nil {
			h.BadRequest(c, "Invalid client_id format")
			return
		}
		filter.ClientID = &id
	}

	sales, total, err := h.saleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, sales, total, filter.Page, filter.PageSize)
}

// GetByID retrieves a sale by ID
func (h *SaleHandler) GetByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	found, err := h.saleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, found)
}

// GetByNumber retrieves a sale by document number
func (h *SaleHandler) GetByNumber(c *gin.Context) {
	found, err := h.saleService.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, found)
}

// StartProduction moves the sale into production
func (h *SaleHandler) StartProduction(c *gin.Context) {
	h.transition(c, h.saleService.StartProduction)
}

// MarkReady marks the sale as ready for delivery
func (h *SaleHandler) MarkReady(c *gin.Context) {
	h.transition(c, h.saleService.MarkReady)
}

// MarkDelivered marks the sale as delivered
func (h *SaleHandler) MarkDelivered(c *gin.Context) {
	h.transition(c, h.saleService.MarkDelivered)
}

// MarkCollected closes a fully paid sale
func (h *SaleHandler) MarkCollected(c *gin.Context) {
	h.transition(c, h.saleService.MarkCollected)
}

// CancelSaleRequest carries the cancellation reason
type CancelSaleRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Cancel cancels a sale before delivery
func (h *SaleHandler) Cancel(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}
	var req CancelSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.saleService.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// RecordPaymentRequest is the request to apply a collection to a sale
type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Currency      string          `json:"currency"`
	Date          time.Time       `json:"date"`
	PaymentMethod string          `json:"payment_method"`
}

// RecordPayment applies a collection to the sale and appends the matching
// ledger entry atomically
func (h *SaleHandler) RecordPayment(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}
	var req RecordPaymentRequest
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

	result, err := h.saleService.RecordPayment(c.Request.Context(), appledger.SalePaymentInput{
		SaleID:        id,
		Amount:        req.Amount,
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

// ListLedgerEntries lists the ledger entries linked to a sale
func (h *SaleHandler) ListLedgerEntries(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	entries, err := h.queryService.ListBySale(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

func (h *SaleHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*saleapp.SaleResponse, error)) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	updated, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}
