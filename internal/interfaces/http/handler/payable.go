package handler

import (
	"time"

	payableapp "github.com/fatura/backend/internal/application/payable"
	"github.com/fatura/backend/internal/interfaces/http/dto"
	"github.com/fatura/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// PayableHandler handles accounts payable (conta a pagar) HTTP requests
type PayableHandler struct {
	BaseHandler
	payableService *payableapp.PayableService
}

// NewPayableHandler creates a new PayableHandler
func NewPayableHandler(payableService *payableapp.PayableService) *PayableHandler {
	return &PayableHandler{payableService: payableService}
}

// RescheduleRequest carries a new due date for an open installment
type RescheduleRequest struct {
	DueDate time.Time `json:"due_date" binding:"required"`
}

// Create registers an account and schedules its installments
func (h *PayableHandler) Create(c *gin.Context) {
	var req payableapp.CreatePayableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	account, err := h.payableService.Create(c.Request.Context(), req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// List returns accounts with their installments
func (h *PayableHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	accounts, err := h.payableService.List(c.Request.Context(), toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, accounts)
}

// Get returns one account with its installments
func (h *PayableHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	account, err := h.payableService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// Update edits the account's descriptive fields. Amount, installment count and
// due date cannot change after creation.
func (h *PayableHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req payableapp.UpdatePayableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	account, err := h.payableService.Update(c.Request.Context(), id, req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// Delete removes an account and its installments when none are paid
func (h *PayableHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	if err := h.payableService.Delete(c.Request.Context(), id, getActor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ConfirmPayment marks an installment as paid
func (h *PayableHandler) ConfirmPayment(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid installment ID")
		return
	}

	installment, err := h.payableService.ConfirmPayment(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, installment)
}

// Reschedule moves an open installment to a new due date
func (h *PayableHandler) Reschedule(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid installment ID")
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	installment, err := h.payableService.RescheduleInstallment(c.Request.Context(), id, req.DueDate, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, installment)
}

// DeleteInstallment removes an open installment; deleting the last one removes
// the whole account
func (h *PayableHandler) DeleteInstallment(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid installment ID")
		return
	}

	result, err := h.payableService.DeleteInstallment(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RegisterRoutes registers accounts payable routes
func (h *PayableHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payables := rg.Group("/contaPagar")
	{
		payables.POST("", h.Create)
		payables.GET("", h.List)
		payables.GET("/:id", h.Get)
		payables.PUT("/:id", h.Update)
		payables.DELETE("/:id", h.Delete)
		payables.POST("/parcela/:id/pagar", h.ConfirmPayment)
		payables.PUT("/parcela/:id/reagendar", h.Reschedule)
		payables.DELETE("/parcela/:id", h.DeleteInstallment)
	}
}
