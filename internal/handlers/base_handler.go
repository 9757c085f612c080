package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/jobboard-service/internal/models"
	"github.com/SAP-F-2025/jobboard-service/internal/services"
	"github.com/SAP-F-2025/jobboard-service/internal/utils"
	"github.com/SAP-F-2025/jobboard-service/internal/validator"
)

type ErrorResponse = models.ErrorResponse
type SuccessResponse = models.SuccessResponse

// Safe pages a client is sent back to after a failure
const (
	redirectHome     = "/job/index"
	redirectLogin    = "/user/login"
	redirectProfile  = "/employer/profile"
	redirectManage   = "/job/managejobs"
	redirectAdmin    = "/admin/dashboard"
	redirectMyApps   = "/user/applications"
	redirectEmployer = "/employer/dashboard"
)

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.GetLogger(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	utils.GetLogger(c, h.logger).Error(msg, append(args, "error", err)...)
}

func (h *BaseHandler) respondOK(c *gin.Context, status int, message string, data interface{}, redirect string) {
	c.JSON(status, SuccessResponse{
		Message:   message,
		Data:      data,
		Redirect:  redirect,
		Timestamp: time.Now().UTC(),
	})
}

func (h *BaseHandler) respondError(c *gin.Context, status int, message string, details interface{}, redirect string) {
	c.JSON(status, ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Details:   details,
		Redirect:  redirect,
		Timestamp: time.Now().UTC(),
		Path:      c.Request.URL.Path,
	})
}

// handleServiceError maps service errors to a status and a user-facing
// message. fallback is the page to return to when the error has no more
// specific destination.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error, fallback string) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.respondError(c, http.StatusBadRequest, "Validation failed", validationErrors, "")
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		utils.GetLogger(c, h.logger).Warn("Permission denied",
			"user_id", permissionError.UserID,
			"resource", permissionError.Resource,
			"resource_id", permissionError.ResourceID,
			"action", permissionError.Action,
			"reason", permissionError.Reason)
		h.respondError(c, http.StatusForbidden, "You are not allowed to do that", nil, fallback)
		return
	}

	switch {
	case errors.Is(err, services.ErrUnauthorized):
		h.respondError(c, http.StatusUnauthorized, "Please log in", nil, redirectLogin)
	case errors.Is(err, services.ErrInvalidCredentials):
		h.respondError(c, http.StatusUnauthorized, services.ErrInvalidCredentials.Error(), nil, "")
	case errors.Is(err, services.ErrForbidden):
		h.respondError(c, http.StatusForbidden, "You are not allowed to do that", nil, fallback)
	case errors.Is(err, services.ErrNotFound):
		h.respondError(c, http.StatusNotFound, notFoundMessage(err), nil, fallback)
	case errors.Is(err, services.ErrDuplicateEmail):
		h.respondError(c, http.StatusConflict, services.ErrDuplicateEmail.Error(), nil, "")
	case errors.Is(err, services.ErrDuplicateApplication):
		h.respondError(c, http.StatusConflict, services.ErrDuplicateApplication.Error(), nil, fallback)
	case errors.Is(err, services.ErrProfileRequired):
		h.respondError(c, http.StatusPreconditionFailed, services.ErrProfileRequired.Error(), nil, redirectProfile)
	case errors.Is(err, services.ErrEmployerRequired):
		h.respondError(c, http.StatusBadRequest, services.ErrEmployerRequired.Error(),
			validator.ValidationErrors{{Field: "employer_profile_id", Message: "is required", Rule: "required"}}, "")
	case errors.Is(err, services.ErrStorage):
		h.respondError(c, http.StatusInternalServerError, services.ErrStorage.Error(), nil, fallback)
	case errors.Is(err, services.ErrPersistence):
		h.respondError(c, http.StatusInternalServerError, services.ErrPersistence.Error(), nil, fallback)
	default:
		h.LogError(c, err, "Unexpected service error")
		h.respondError(c, http.StatusInternalServerError, "Internal server error", nil, fallback)
	}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrJobNotFound):
		return "Job not found"
	case errors.Is(err, services.ErrApplicationNotFound):
		return "Application not found"
	case errors.Is(err, services.ErrCVNotFound):
		return "CV not found"
	case errors.Is(err, services.ErrProfileNotFound):
		return "Employer profile not found"
	default:
		return "Not found"
	}
}

func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		h.respondError(c, http.StatusBadRequest, "Invalid "+param, nil, "")
		return 0
	}
	return uint(id)
}

func (h *BaseHandler) parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	value, err := strconv.Atoi(c.Query(param))
	if err != nil {
		return defaultValue
	}
	return value
}

// parsePage reads ?page=, treating anything below 1 as the first page
func (h *BaseHandler) parsePage(c *gin.Context) int {
	page := h.parseIntQuery(c, "page", 1)
	if page < 1 {
		return 1
	}
	return page
}

// bind decodes a JSON or form body into req, answering 400 on failure
func (h *BaseHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBind(req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request payload", err.Error(), "")
		return false
	}
	return true
}

// formUpload returns the named multipart file, or nil when none was sent
func (h *BaseHandler) formUpload(c *gin.Context, field string) (*services.Upload, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, true
		}
		h.respondError(c, http.StatusBadRequest, "Invalid upload", err.Error(), "")
		return nil, false
	}

	return &services.Upload{
		FileName: fh.Filename,
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}, true
}
