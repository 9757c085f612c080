package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/jobboard-service/internal/services"
	"github.com/SAP-F-2025/jobboard-service/internal/session"
	"github.com/SAP-F-2025/jobboard-service/internal/utils"
	"github.com/SAP-F-2025/jobboard-service/internal/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminHandler struct {
	*UserHandler
	exportService services.ExportService
}

func NewAdminHandler(authService services.AuthService, applicationService services.ApplicationService, exportService services.ExportService, sessions *session.Manager, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		UserHandler:   NewUserHandler(authService, applicationService, sessions, logger),
		exportService: exportService,
	}
}

// @Router /admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req validator.LoginRequest
	if !h.bind(c, &req) {
		return
	}

	user, err := h.authService.AuthenticateAdmin(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err, "")
		return
	}

	h.startSession(c, user, req.RememberMe, redirectAdmin)
}

// Dashboard lists applications awaiting review, ten per page
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	page, err := h.applicationService.ListPending(c.Request.Context(), actorFrom(c), h.parsePage(c))
	if err != nil {
		h.handleServiceError(c, err, redirectHome)
		return
	}

	h.respondOK(c, http.StatusOK, "", page, "")
}

// @Router /admin/register [get]
func (h *AdminHandler) RegisterForm(c *gin.Context) {
	h.respondOK(c, http.StatusOK, "", gin.H{"fields": []string{"email", "username", "password"}}, "")
}

// @Router /admin/register [post]
func (h *AdminHandler) Register(c *gin.Context) {
	var req validator.AdminRegisterRequest
	if !h.bind(c, &req) {
		return
	}

	user, err := h.authService.RegisterAdmin(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		h.handleServiceError(c, err, redirectAdmin)
		return
	}

	h.respondOK(c, http.StatusCreated, "Admin registered", user, redirectAdmin)
}

// @Router /admin/applications [get]
func (h *AdminHandler) Applications(c *gin.Context) {
	applications, err := h.applicationService.ListAll(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.handleServiceError(c, err, redirectAdmin)
		return
	}

	h.respondOK(c, http.StatusOK, "", applications, "")
}

// UpdateStatus sets any application's status
// @Router /admin/updatestatus [post]
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	var req validator.ReviewRequest
	if !h.bind(c, &req) {
		return
	}

	application, err := h.applicationService.Review(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		h.handleServiceError(c, err, redirectAdmin)
		return
	}

	h.respondOK(c, http.StatusOK, "Status updated", application, redirectAdmin)
}

// Export downloads every application as a spreadsheet
// @Router /admin/applications/export [get]
func (h *AdminHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.exportService.ExportApplications(c.Request.Context(), actorFrom(c), &buf); err != nil {
		h.handleServiceError(c, err, redirectAdmin)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="applications.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
