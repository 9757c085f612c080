package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/jobboard-service/internal/models"
	"github.com/SAP-F-2025/jobboard-service/internal/services"
	"github.com/SAP-F-2025/jobboard-service/internal/utils"
	"github.com/SAP-F-2025/jobboard-service/internal/validator"
)

type EmployerHandler struct {
	BaseHandler
	employerService    services.EmployerService
	applicationService services.ApplicationService
}

func NewEmployerHandler(employerService services.EmployerService, applicationService services.ApplicationService, logger utils.Logger) *EmployerHandler {
	return &EmployerHandler{
		BaseHandler:        NewBaseHandler(logger),
		employerService:    employerService,
		applicationService: applicationService,
	}
}

// Dashboard lists applications across the employer's jobs
// @Router /employer/dashboard [get]
func (h *EmployerHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.applicationService.ListForEmployer(c.Request.Context(), actorFrom(c), h.parsePage(c))
	if err != nil {
		h.handleServiceError(c, err, redirectHome)
		return
	}

	h.respondOK(c, http.StatusOK, "", dashboard, "")
}

// Profile returns the company profile, creating a placeholder on first visit
// @Router /employer/profile [get]
func (h *EmployerHandler) Profile(c *gin.Context) {
	profile, err := h.employerService.GetOrCreateProfile(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.handleServiceError(c, err, redirectHome)
		return
	}

	h.respondOK(c, http.StatusOK, "", profile, "")
}

// UpdateProfile merges the submitted fields; "logo" replaces the logo
// @Router /employer/profile [post]
func (h *EmployerHandler) UpdateProfile(c *gin.Context) {
	var req validator.ProfileUpdateRequest
	if !h.bind(c, &req) {
		return
	}
	logo, ok := h.formUpload(c, "logo")
	if !ok {
		return
	}

	profile, err := h.employerService.UpdateProfile(c.Request.Context(), actorFrom(c), &req, logo)
	if err != nil {
		h.handleServiceError(c, err, redirectProfile)
		return
	}

	h.respondOK(c, http.StatusOK, "Profile updated", profile, redirectProfile)
}

// JobApplications lists applications for one owned job
// @Router /employer/applications [get]
func (h *EmployerHandler) JobApplications(c *gin.Context) {
	jobID, err := strconv.ParseUint(c.Query("jobId"), 10, 32)
	if err != nil || jobID == 0 {
		h.respondError(c, http.StatusBadRequest, "Invalid jobId", nil, redirectEmployer)
		return
	}

	applications, err := h.applicationService.ListForJob(c.Request.Context(), actorFrom(c), uint(jobID))
	if err != nil {
		h.handleServiceError(c, err, redirectEmployer)
		return
	}

	h.respondOK(c, http.StatusOK, "", gin.H{
		"job_id":       jobID,
		"applications": applications,
	}, "")
}

// UpdateApplicationStatus sets the status of an application to an owned
// job. A blank status resets it to Pending.
// @Router /employer/updateapplicationstatus [post]
func (h *EmployerHandler) UpdateApplicationStatus(c *gin.Context) {
	var req validator.ReviewRequest
	if !h.bind(c, &req) {
		return
	}
	if strings.TrimSpace(string(req.Status)) == "" {
		req.Status = models.ApplicationPending
	}

	application, err := h.applicationService.Review(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		h.handleServiceError(c, err, redirectEmployer)
		return
	}

	h.respondOK(c, http.StatusOK, "Status updated", application,
		fmt.Sprintf("/employer/applications?jobId=%d", application.JobID))
}
