package handler

import (
	partnerapp "github.com/fatura/backend/internal/application/partner"
	"github.com/fatura/backend/internal/interfaces/http/dto"
	"github.com/fatura/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ReferenceHandler handles supplier, bank and chart-of-accounts HTTP requests
type ReferenceHandler struct {
	BaseHandler
	referenceService *partnerapp.ReferenceService
}

// NewReferenceHandler creates a new ReferenceHandler
func NewReferenceHandler(referenceService *partnerapp.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

// CreateSupplier registers a supplier
func (h *ReferenceHandler) CreateSupplier(c *gin.Context) {
	var req partnerapp.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	supplier, err := h.referenceService.CreateSupplier(c.Request.Context(), req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// ListSuppliers returns suppliers matching the filter
func (h *ReferenceHandler) ListSuppliers(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	suppliers, err := h.referenceService.ListSuppliers(c.Request.Context(), toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, suppliers)
}

// UpdateSupplier edits a supplier
func (h *ReferenceHandler) UpdateSupplier(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	var req partnerapp.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	supplier, err := h.referenceService.UpdateSupplier(c.Request.Context(), id, req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// DeleteSupplier removes a supplier
func (h *ReferenceHandler) DeleteSupplier(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	if err := h.referenceService.DeleteSupplier(c.Request.Context(), id, getActor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateBank registers a bank account
func (h *ReferenceHandler) CreateBank(c *gin.Context) {
	var req partnerapp.BankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	bank, err := h.referenceService.CreateBank(c.Request.Context(), req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, bank)
}

// ListBanks returns banks matching the filter
func (h *ReferenceHandler) ListBanks(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	banks, err := h.referenceService.ListBanks(c.Request.Context(), toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, banks)
}

// UpdateBank edits a bank
func (h *ReferenceHandler) UpdateBank(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid bank ID")
		return
	}

	var req partnerapp.BankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	bank, err := h.referenceService.UpdateBank(c.Request.Context(), id, req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bank)
}

// DeleteBank removes a bank
func (h *ReferenceHandler) DeleteBank(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid bank ID")
		return
	}

	if err := h.referenceService.DeleteBank(c.Request.Context(), id, getActor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateChartCategory registers a chart category with its subcategories
func (h *ReferenceHandler) CreateChartCategory(c *gin.Context) {
	var req partnerapp.ChartCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	category, err := h.referenceService.CreateChartCategory(c.Request.Context(), req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// ListChartCategories returns the whole chart of accounts
func (h *ReferenceHandler) ListChartCategories(c *gin.Context) {
	categories, err := h.referenceService.ListChartCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// UpdateChartCategory edits a category and syncs its subcategory list.
// Subcategories referenced by payable accounts cannot be removed.
func (h *ReferenceHandler) UpdateChartCategory(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid category ID")
		return
	}

	var req partnerapp.ChartCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	category, err := h.referenceService.UpdateChartCategory(c.Request.Context(), id, req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// DeleteChartCategory removes a category whose subcategories are unused
func (h *ReferenceHandler) DeleteChartCategory(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid category ID")
		return
	}

	if err := h.referenceService.DeleteChartCategory(c.Request.Context(), id, getActor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers supplier, bank and chart-of-accounts routes
func (h *ReferenceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	suppliers := rg.Group("/fornecedor")
	{
		suppliers.POST("", h.CreateSupplier)
		suppliers.GET("", h.ListSuppliers)
		suppliers.PUT("/:id", h.UpdateSupplier)
		suppliers.DELETE("/:id", h.DeleteSupplier)
	}

	banks := rg.Group("/banco")
	{
		banks.POST("", h.CreateBank)
		banks.GET("", h.ListBanks)
		banks.PUT("/:id", h.UpdateBank)
		banks.DELETE("/:id", h.DeleteBank)
	}

	chart := rg.Group("/planoConta")
	{
		chart.POST("", h.CreateChartCategory)
		chart.GET("", h.ListChartCategories)
		chart.PUT("/:id", h.UpdateChartCategory)
		chart.DELETE("/:id", h.DeleteChartCategory)
	}
}
