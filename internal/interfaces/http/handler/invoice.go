package handler

import (
	billingapp "github.com/fatura/backend/internal/application/billing"
	"github.com/fatura/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles invoice generation (faturamento) HTTP requests
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Generate creates invoices for every pending projection of the period.
// Re-running for an already generated period is a no-op and returns the
// existing invoices.
func (h *InvoiceHandler) Generate(c *gin.Context) {
	var req billingapp.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	invoices, err := h.invoiceService.Generate(c.Request.Context(), req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}

// ListByPeriod returns all invoices of a YYYY-MM period with their contract,
// unit and company context
func (h *InvoiceHandler) ListByPeriod(c *gin.Context) {
	invoices, err := h.invoiceService.ListByPeriod(c.Request.Context(), c.Param("period"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}

// Update applies a manual edit to an invoice (number, status, payment period)
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req billingapp.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	inv, err := h.invoiceService.UpdateInvoice(c.Request.Context(), id, req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// RegisterRoutes registers invoice routes
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/faturamento")
	{
		invoices.POST("/gerar", h.Generate)
		invoices.GET("/competencia/:period", h.ListByPeriod)
		invoices.PUT("/:id", h.Update)
	}
}
