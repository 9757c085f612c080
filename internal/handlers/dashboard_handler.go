package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/jobboard-service/internal/services"
	"github.com/SAP-F-2025/jobboard-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	service services.DashboardService
}

func NewDashboardHandler(service services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== DASHBOARD ENDPOINTS =====

// GetDashboardStats returns overall job board statistics
// @Summary Get dashboard statistics
// @Description Job and application counts, rates, and trends over the period
// @Tags admin
// @Produce json
// @Param period query int false "Period in days for trend calculation (default: 30)"
// @Success 200 {object} services.DashboardStatsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /admin/stats [get]
func (h *DashboardHandler) GetDashboardStats(c *gin.Context) {
	h.LogRequest(c, "Getting dashboard stats")

	period, err := strconv.Atoi(c.DefaultQuery("period", "30"))
	if err != nil || period < 1 {
		period = 30
	}

	stats, err := h.service.GetDashboardStats(c.Request.Context(), actorFrom(c), period)
	if err != nil {
		h.handleServiceError(c, err, redirectAdmin)
		return
	}

	h.respondOK(c, http.StatusOK, "", stats, "")
}

// GetRecentActivities returns the latest applications
// @Param limit query int false "Number of items (default: 10, max: 50)"
// @Router /admin/stats/recent [get]
func (h *DashboardHandler) GetRecentActivities(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	activities, err := h.service.GetRecentActivities(c.Request.Context(), actorFrom(c), limit)
	if err != nil {
		h.handleServiceError(c, err, redirectAdmin)
		return
	}

	h.respondOK(c, http.StatusOK, "", activities, "")
}

// @Router /admin/stats/status [get]
func (h *DashboardHandler) GetStatusDistribution(c *gin.Context) {
	distribution, err := h.service.GetStatusDistribution(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.handleServiceError(c, err, redirectAdmin)
		return
	}

	h.respondOK(c, http.StatusOK, "", distribution, "")
}

// GetTopJobs ranks jobs by number of applications
// @Param limit query int false "Number of jobs (default: 5, max: 20)"
// @Router /admin/stats/top-jobs [get]
func (h *DashboardHandler) GetTopJobs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	jobs, err := h.service.GetTopJobs(c.Request.Context(), actorFrom(c), limit)
	if err != nil {
		h.handleServiceError(c, err, redirectAdmin)
		return
	}

	h.respondOK(c, http.StatusOK, "", jobs, "")
}
