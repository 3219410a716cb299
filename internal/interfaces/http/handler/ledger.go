package handler

import (
	"time"

	appledger "github.com/alumac/backend/internal/application/ledger"
	"github.com/alumac/backend/internal/domain/ledger"
	"github.com/alumac/backend/internal/domain/shared/valueobject"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerHandler handles ledger API endpoints
type LedgerHandler struct {
	BaseHandler
	composer     *appledger.Composer
	queryService *appledger.QueryService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(composer *appledger.Composer, queryService *appledger.QueryService) *LedgerHandler {
	return &LedgerHandler{composer: composer, queryService: queryService}
}

// RegisterRoutes registers ledger routes on the API group
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	entries := rg.Group("/ledger")
	entries.GET("", h.List)
	entries.GET("/balance", h.Balance)
	entries.GET("/:id", h.GetByID)
	entries.POST("/expenses", h.RecordExpense)
	entries.POST("/:id/void", h.Void)
	entries.DELETE("/:id", h.Delete)
}

// List lists ledger entries with filtering and pagination
func (h *LedgerHandler) List(c *gin.Context) {
	filter := appledger.EntryListFilter{
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 20),
		Search:   c.Query("search"),
	}
	if kind := c.Query("kind"); kind != "" {
		k := ledger.Kind(kind)
		filter.Kind = &k
	}
	if currency := c.Query("currency"); currency != "" {
		filter.Currency = &currency
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			h.BadRequest(c, "Invalid from date, expected RFC 3339")
			return
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			h.BadRequest(c, "Invalid to date, expected RFC 3339")
			return
		}
		filter.To = &t
	}
	if (filter.From == nil) != (filter.To == nil) {
		h.BadRequest(c, "from and to must be provided together")
		return
	}

	entries, total, err := h.queryService.ListEntries(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, entries, total, filter.Page, filter.PageSize)
}

// GetByID retrieves a ledger entry by ID
func (h *LedgerHandler) GetByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid entry ID format")
		return
	}

	entry, err := h.queryService.GetEntry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Balance returns the cash position in a currency
func (h *LedgerHandler) Balance(c *gin.Context) {
	currency := c.Query("currency")
	if currency == "" {
		currency = string(valueobject.DefaultCurrency)
	}

	balance, err := h.queryService.Balance(c.Request.Context(), valueobject.Currency(currency))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// RecordExpenseRequest is the request to record a standalone expense
type RecordExpenseRequest struct {
	Description   string          `json:"description" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Currency      string          `json:"currency"`
	Date          time.Time       `json:"date"`
	SupplierID    *uuid.UUID      `json:"supplier_id"`
	PaymentMethod string          `json:"payment_method"`
}

// RecordExpense appends a standalone outflow entry
func (h *LedgerHandler) RecordExpense(c *gin.Context) {
	var req RecordExpenseRequest
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

	result, err := h.composer.RecordGeneralExpense(c.Request.Context(), appledger.GeneralExpenseInput{
		Description:   req.Description,
		Amount:        req.Amount,
		Currency:      currency,
		Date:          date,
		SupplierID:    req.SupplierID,
		PaymentMethod: ledger.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// VoidEntryRequest carries the void reason
type VoidEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Void appends the compensating adjustment for a ledger entry
func (h *LedgerHandler) Void(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid entry ID format")
		return
	}
	var req VoidEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.composer.VoidEntry(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.AlreadyVoided {
		h.Success(c, result)
		return
	}
	h.Created(c, result)
}

// Delete hard-deletes the most recent ledger entry. Older entries must be
// voided with a compensating adjustment instead.
func (h *LedgerHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid entry ID format")
		return
	}

	if err := h.composer.DeleteLatestEntry(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
