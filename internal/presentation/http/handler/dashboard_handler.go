package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/alankar-api/internal/application/service"
	"github.com/sangkips/alankar-api/internal/presentation/http/dto/request"
	"github.com/sangkips/alankar-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats handles getting dashboard statistics
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetDashboardStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}

// GetSummary handles GET /bills/summary
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	var req request.SummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	summary, err := h.dashboardService.GetSummary(c.Request.Context(), req.Days)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Summary retrieved successfully", summary)
}
