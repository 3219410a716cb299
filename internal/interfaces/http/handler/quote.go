package handler

import (
	"context"

	quoteapp "github.com/alumac/backend/internal/application/quote"
	"github.com/alumac/backend/internal/domain/quote"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QuoteHandler handles quote API endpoints
type QuoteHandler struct {
	BaseHandler
	quoteService *quoteapp.Service
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *quoteapp.Service) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// RegisterRoutes registers quote routes on the API group
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.POST("", h.Create)
	quotes.GET("", h.List)
	quotes.GET("/:id", h.GetByID)
	quotes.GET("/number/:number", h.GetByNumber)
	quotes.POST("/:id/send", h.Send)
	quotes.POST("/:id/approve", h.Approve)
	quotes.POST("/:id/reject", h.Reject)
	quotes.POST("/:id/expire", h.Expire)
	quotes.POST("/:id/convert", h.Convert)
	quotes.POST("/:id/expenses", h.AddExpense)
	quotes.GET("/:id/expenses", h.ListExpenses)
	quotes.GET("/:id/margin", h.Margin)
}

// Create creates a quote with its items
func (h *QuoteHandler) Create(c *gin.Context) {
	var req quoteapp.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	created, err := h.quoteService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// List lists quotes with filtering and pagination
func (h *QuoteHandler) List(c *gin.Context) {
	filter := quoteapp.QuoteListFilter{
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 20),
		Search:   c.Query("search"),
	}
	if status := c.Query("status"); status != "" {
		s := quote.Status(status)
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

	quotes, total, err := h.quoteService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, quotes, total, filter.Page, filter.PageSize)
}

// GetByID retrieves a quote by ID
func (h *QuoteHandler) GetByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid quote ID format")
		return
	}

	found, err := h.quoteService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, found)
}

// GetByNumber retrieves a quote by document number
func (h *QuoteHandler) GetByNumber(c *gin.Context) {
	found, err := h.quoteService.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, found)
}

// Send marks a quote as sent to the client
func (h *QuoteHandler) Send(c *gin.Context) {
	h.transition(c, h.quoteService.Send)
}

// Approve marks a quote as approved
func (h *QuoteHandler) Approve(c *gin.Context) {
	h.transition(c, h.quoteService.Approve)
}

// RejectQuoteRequest carries the rejection reason
type RejectQuoteRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Reject marks a quote as rejected
func (h *QuoteHandler) Reject(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid quote ID format")
		return
	}
	var req RejectQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.quoteService.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// Expire marks a quote as expired
func (h *QuoteHandler) Expire(c *gin.Context) {
	h.transition(c, h.quoteService.Expire)
}

// Convert turns the quote into a sale, exactly once
func (h *QuoteHandler) Convert(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid quote ID format")
		return
	}

	result, err := h.quoteService.Convert(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.AlreadyConverted {
		h.Success(c, result)
		return
	}
	h.Created(c, result)
}

// AddExpense attributes a real cost to a quote
func (h *QuoteHandler) AddExpense(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid quote ID format")
		return
	}
	var req quoteapp.AddExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	expense, err := h.quoteService.AddExpense(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, expense)
}

// ListExpenses lists the costs attributed to a quote
func (h *QuoteHandler) ListExpenses(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid quote ID format")
		return
	}

	expenses, err := h.quoteService.ListExpenses(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expenses)
}

// Margin returns the profitability snapshot for a quote
func (h *QuoteHandler) Margin(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid quote ID format")
		return
	}

	analysis, err := h.quoteService.Margin(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, analysis)
}

func (h *QuoteHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*quoteapp.QuoteResponse, error)) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid quote ID format")
		return
	}

	updated, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}
