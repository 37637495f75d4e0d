package handler

import (
	"strconv"

	reportapp "github.com/fatura/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// DashboardHandler handles dashboard aggregation HTTP requests
type DashboardHandler struct {
	BaseHandler
	dashboardService *reportapp.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *reportapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// KPIs returns the headline figures for one period. Defaults to the current
// calendar month when no competencia query parameter is given.
func (h *DashboardHandler) KPIs(c *gin.Context) {
	summary, err := h.dashboardService.KPIs(c.Request.Context(), c.Query("competencia"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// MonthlyFlows returns the revenue vs expense series, oldest month first
func (h *DashboardHandler) MonthlyFlows(c *gin.Context) {
	months := 0
	if raw := c.Query("meses"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.BadRequest(c, "Invalid meses parameter")
			return
		}
		months = parsed
	}

	flows, err := h.dashboardService.MonthlyFlows(c.Request.Context(), months)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, flows)
}

// ExpensesByCategory returns paid expense totals per chart category
func (h *DashboardHandler) ExpensesByCategory(c *gin.Context) {
	expenses, err := h.dashboardService.ExpensesByCategory(c.Request.Context(), c.Query("competencia"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expenses)
}

// RegisterRoutes registers dashboard routes
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("/kpis", h.KPIs)
		dashboard.GET("/receita-vs-despesa", h.MonthlyFlows)
		dashboard.GET("/despesas-categoria", h.ExpensesByCategory)
	}
}
