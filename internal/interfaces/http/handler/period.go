package handler

import (
	billingapp "github.com/fatura/backend/internal/application/billing"
	"github.com/fatura/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// PeriodHandler handles financial period (competência) HTTP requests
type PeriodHandler struct {
	BaseHandler
	periodService *billingapp.PeriodService
}

// NewPeriodHandler creates a new PeriodHandler
func NewPeriodHandler(periodService *billingapp.PeriodService) *PeriodHandler {
	return &PeriodHandler{periodService: periodService}
}

// Create registers a new financial period with its tax rates
func (h *PeriodHandler) Create(c *gin.Context) {
	var req billingapp.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	period, err := h.periodService.Create(c.Request.Context(), req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, period)
}

// List returns all financial periods, newest first
func (h *PeriodHandler) List(c *gin.Context) {
	periods, err := h.periodService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, periods)
}

// Current returns the period matching the current calendar month
func (h *PeriodHandler) Current(c *gin.Context) {
	period, err := h.periodService.Current(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, period)
}

// Get returns one financial period by ID
func (h *PeriodHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid period ID")
		return
	}

	period, err := h.periodService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, period)
}

// Update edits the period's rates and recalculates every linked invoice
func (h *PeriodHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid period ID")
		return
	}

	var req billingapp.UpdatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.periodService.Update(c.Request.Context(), id, req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete removes a period that has no invoices
func (h *PeriodHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid period ID")
		return
	}

	if err := h.periodService.Delete(c.Request.Context(), id, getActor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers financial period routes
func (h *PeriodHandler) RegisterRoutes(rg *gin.RouterGroup) {
	periods := rg.Group("/competencia")
	{
		periods.POST("", h.Create)
		periods.GET("", h.List)
		periods.GET("/atual", h.Current)
		periods.GET("/:id", h.Get)
		periods.PUT("/:id", h.Update)
		periods.DELETE("/:id", h.Delete)
	}
}
