package handler

import (
	partnerapp "github.com/fatura/backend/internal/application/partner"
	"github.com/fatura/backend/internal/interfaces/http/dto"
	"github.com/fatura/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CompanyHandler handles company, unit and contract HTTP requests
type CompanyHandler struct {
	BaseHandler
	companyService *partnerapp.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService *partnerapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// ContractStatusRequest carries a contract status change
type ContractStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE CLOSED CANCELLED"`
}

// ContractLivesRequest carries an active lives count update
type ContractLivesRequest struct {
	ActiveLivesCount int `json:"active_lives_count" binding:"required,min=0"`
}

// CreateCompany registers a company
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req partnerapp.CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, company)
}

// ListCompanies returns companies matching the filter
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	companies, err := h.companyService.ListCompanies(c.Request.Context(), toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, companies)
}

// GetCompany returns one company by ID
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	company, err := h.companyService.GetCompany(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// UpdateCompany edits a company
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var req partnerapp.CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	company, err := h.companyService.UpdateCompany(c.Request.Context(), id, req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// DeleteCompany removes a company
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	if err := h.companyService.DeleteCompany(c.Request.Context(), id, getActor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateUnit registers a unit under a company
func (h *CompanyHandler) CreateUnit(c *gin.Context) {
	companyID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var req partnerapp.UnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	unit, err := h.companyService.CreateUnit(c.Request.Context(), companyID, req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, unit)
}

// ListUnits returns all units of a company
func (h *CompanyHandler) ListUnits(c *gin.Context) {
	companyID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	units, err := h.companyService.ListUnits(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, units)
}

// GetUnit returns one unit with its contacts
func (h *CompanyHandler) GetUnit(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid unit ID")
		return
	}

	unit, err := h.companyService.GetUnit(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, unit)
}

// UpdateUnit edits a unit, replacing its contact list
func (h *CompanyHandler) UpdateUnit(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid unit ID")
		return
	}

	var req partnerapp.UnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	unit, err := h.companyService.UpdateUnit(c.Request.Context(), id, req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, unit)
}

// DeleteUnit removes a unit and its contacts
func (h *CompanyHandler) DeleteUnit(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid unit ID")
		return
	}

	if err := h.companyService.DeleteUnit(c.Request.Context(), id, getActor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateContract registers a contract under a unit
func (h *CompanyHandler) CreateContract(c *gin.Context) {
	unitID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid unit ID")
		return
	}

	var req partnerapp.ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	contract, err := h.companyService.CreateContract(c.Request.Context(), unitID, req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, contract)
}

// ListContracts returns all contracts of a unit
func (h *CompanyHandler) ListContracts(c *gin.Context) {
	unitID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid unit ID")
		return
	}

	contracts, err := h.companyService.ListContracts(c.Request.Context(), unitID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contracts)
}

// ChangeContractStatus activates, closes or cancels a contract
func (h *CompanyHandler) ChangeContractStatus(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}

	var req ContractStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	contract, err := h.companyService.ChangeContractStatus(c.Request.Context(), id, req.Status, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// SetContractLives updates the active lives count of a per-capita contract
func (h *CompanyHandler) SetContractLives(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}

	var req ContractLivesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	contract, err := h.companyService.SetContractLives(c.Request.Context(), id, req.ActiveLivesCount, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// RegisterRoutes registers company, unit and contract routes
func (h *CompanyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	companies := rg.Group("/empresa")
	{
		companies.POST("", h.CreateCompany)
		companies.GET("", h.ListCompanies)
		companies.GET("/:id", h.GetCompany)
		companies.PUT("/:id", h.UpdateCompany)
		companies.DELETE("/:id", h.DeleteCompany)
		companies.POST("/:id/unidade", h.CreateUnit)
		companies.GET("/:id/unidade", h.ListUnits)
	}

	units := rg.Group("/unidade")
	{
		units.GET("/:id", h.GetUnit)
		units.PUT("/:id", h.UpdateUnit)
		units.DELETE("/:id", h.DeleteUnit)
		units.POST("/:id/contrato", h.CreateContract)
		units.GET("/:id/contrato", h.ListContracts)
	}

	contracts := rg.Group("/contrato")
	{
		contracts.PUT("/:id/status", h.ChangeContractStatus)
		contracts.PUT("/:id/vidas", h.SetContractLives)
	}
}
