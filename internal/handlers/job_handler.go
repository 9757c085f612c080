package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/jobboard-service/internal/services"
	"github.com/SAP-F-2025/jobboard-service/internal/utils"
	"github.com/SAP-F-2025/jobboard-service/internal/validator"
)

type JobHandler struct {
	BaseHandler
	jobService         services.JobService
	applicationService services.ApplicationService
}

func NewJobHandler(jobService services.JobService, applicationService services.ApplicationService, logger utils.Logger) *JobHandler {
	return &JobHandler{
		BaseHandler:        NewBaseHandler(logger),
		jobService:         jobService,
		applicationService: applicationService,
	}
}

// Index lists approved jobs, newest first
// @Router /job/index [get]
func (h *JobHandler) Index(c *gin.Context) {
	page, err := h.jobService.ListApproved(c.Request.Context(), h.parsePage(c))
	if err != nil {
		h.handleServiceError(c, err, "")
		return
	}

	h.respondOK(c, http.StatusOK, "", page, "")
}

// @Router /job/details/{id} [get]
func (h *JobHandler) Details(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	job, err := h.jobService.GetDetails(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		h.handleServiceError(c, err, redirectHome)
		return
	}

	h.respondOK(c, http.StatusOK, "", job, "")
}

// Apply submits an application; the CV is the optional multipart field "cv"
// @Router /job/apply [post]
func (h *JobHandler) Apply(c *gin.Context) {
	var req validator.ApplyRequest
	if !h.bind(c, &req) {
		return
	}
	cv, ok := h.formUpload(c, "cv")
	if !ok {
		return
	}

	h.LogRequest(c, "Applying for job", "job_id", req.JobID)

	application, err := h.applicationService.Apply(c.Request.Context(), actorFrom(c), &req, cv)
	if err != nil {
		h.handleServiceError(c, err, fmt.Sprintf("/job/details/%d", req.JobID))
		return
	}

	h.respondOK(c, http.StatusCreated, "Application submitted", application, redirectMyApps)
}

// @Router /job/managejobs [get]
func (h *JobHandler) ManageJobs(c *gin.Context) {
	jobs, err := h.jobService.ListManageable(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.handleServiceError(c, err, redirectHome)
		return
	}

	h.respondOK(c, http.StatusOK, "", jobs, "")
}

// @Router /job/approve/{id} [post]
func (h *JobHandler) Approve(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.jobService.Approve(c.Request.Context(), actorFrom(c), id); err != nil {
		h.handleServiceError(c, err, redirectManage)
		return
	}

	h.respondOK(c, http.StatusOK, "Job approved", gin.H{"id": id}, redirectManage)
}

// CreateForm returns the job type vocabulary and, for admins, the companies
// @Router /job/create [get]
func (h *JobHandler) CreateForm(c *gin.Context) {
	opts, err := h.jobService.FormOptions(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.handleServiceError(c, err, redirectManage)
		return
	}

	h.respondOK(c, http.StatusOK, "", opts, "")
}

// Create posts a job; "company_logo" optionally overrides the profile logo
// @Router /job/create [post]
func (h *JobHandler) Create(c *gin.Context) {
	var req validator.JobRequest
	if !h.bind(c, &req) {
		return
	}
	logo, ok := h.formUpload(c, "company_logo")
	if !ok {
		return
	}

	job, err := h.jobService.Create(c.Request.Context(), actorFrom(c), &req, logo)
	if err != nil {
		h.handleServiceError(c, err, redirectManage)
		return
	}

	message := "Job posted and awaiting approval"
	if job.IsApproved {
		message = "Job posted"
	}
	h.respondOK(c, http.StatusCreated, message, job, redirectManage)
}

// @Router /job/edit/{id} [get]
func (h *JobHandler) EditForm(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	ctx := c.Request.Context()
	job, err := h.jobService.GetForEdit(ctx, actorFrom(c), id)
	if err != nil {
		h.handleServiceError(c, err, redirectManage)
		return
	}
	opts, err := h.jobService.FormOptions(ctx, actorFrom(c))
	if err != nil {
		h.handleServiceError(c, err, redirectManage)
		return
	}

	h.respondOK(c, http.StatusOK, "", gin.H{
		"job":     job,
		"options": opts,
	}, "")
}

// @Router /job/edit/{id} [post]
func (h *JobHandler) Edit(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	var req validator.JobRequest
	if !h.bind(c, &req) {
		return
	}

	job, err := h.jobService.Update(c.Request.Context(), actorFrom(c), id, &req)
	if err != nil {
		h.handleServiceError(c, err, redirectManage)
		return
	}

	h.respondOK(c, http.StatusOK, "Job updated", job, redirectManage)
}

// DeleteForm returns the job to confirm its deletion
// @Router /job/delete/{id} [get]
func (h *JobHandler) DeleteForm(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	job, err := h.jobService.GetForEdit(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		h.handleServiceError(c, err, redirectManage)
		return
	}

	h.respondOK(c, http.StatusOK, "", job, "")
}

// @Router /job/deleteconfirmed/{id} [post]
func (h *JobHandler) DeleteConfirmed(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.jobService.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		h.handleServiceError(c, err, redirectManage)
		return
	}

	h.respondOK(c, http.StatusOK, "Job deleted", gin.H{"id": id}, redirectManage)
}

// @Router /job/reviewapplication [post]
func (h *JobHandler) ReviewApplication(c *gin.Context) {
	var req validator.ReviewRequest
	if !h.bind(c, &req) {
		return
	}

	application, err := h.applicationService.Review(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		h.handleServiceError(c, err, redirectManage)
		return
	}

	h.respondOK(c, http.StatusOK, "Application reviewed", application,
		fmt.Sprintf("/job/details/%d", application.JobID))
}

// DownloadCV streams the stored CV as a binary attachment
// @Router /job/downloadcv/{applicationId} [get]
func (h *JobHandler) DownloadCV(c *gin.Context) {
	id := h.parseIDParam(c, "applicationId")
	if id == 0 {
		return
	}

	cv, err := h.applicationService.DownloadCV(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		h.handleServiceError(c, err, redirectManage)
		return
	}
	defer cv.Content.Close()

	c.DataFromReader(http.StatusOK, cv.Size, "application/octet-stream", cv.Content, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, cv.Name),
	})
}
