package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/jobboard-service/internal/models"
	"github.com/SAP-F-2025/jobboard-service/internal/services"
	"github.com/SAP-F-2025/jobboard-service/internal/session"
	"github.com/SAP-F-2025/jobboard-service/internal/utils"
	"github.com/SAP-F-2025/jobboard-service/internal/validator"
)

type UserHandler struct {
	BaseHandler
	authService        services.AuthService
	applicationService services.ApplicationService
	sessions           *session.Manager
}

func NewUserHandler(authService services.AuthService, applicationService services.ApplicationService, sessions *session.Manager, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler:        NewBaseHandler(logger),
		authService:        authService,
		applicationService: applicationService,
		sessions:           sessions,
	}
}

// RegisterForm describes the registration form
// @Router /user/register [get]
func (h *UserHandler) RegisterForm(c *gin.Context) {
	h.respondOK(c, http.StatusOK, "", gin.H{
		"roles": []models.UserRole{models.RoleUser, models.RoleEmployer},
	}, "")
}

// Register creates a User or Employer account. Employers may attach a
// company logo as the multipart field "logo".
// @Router /user/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req validator.RegisterRequest
	if !h.bind(c, &req) {
		return
	}
	logo, ok := h.formUpload(c, "logo")
	if !ok {
		return
	}

	h.LogRequest(c, "Registering user", "role_hint", req.Role)

	user, err := h.authService.Register(c.Request.Context(), &req, logo)
	if err != nil {
		h.handleServiceError(c, err, "")
		return
	}

	h.respondOK(c, http.StatusCreated, "Registration successful, please log in", user, redirectLogin)
}

// LoginForm reports the current session, if any
// @Router /user/login [get]
func (h *UserHandler) LoginForm(c *gin.Context) {
	actor := actorFrom(c)
	if !actor.IsAuthenticated() {
		h.respondOK(c, http.StatusOK, "", gin.H{"authenticated": false}, "")
		return
	}
	h.respondOK(c, http.StatusOK, "", gin.H{
		"authenticated": true,
		"user_id":       actor.UserID,
		"username":      actor.Username,
		"role":          actor.Role,
	}, redirectHome)
}

// @Router /user/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req validator.LoginRequest
	if !h.bind(c, &req) {
		return
	}

	user, err := h.authService.Authenticate(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err, "")
		return
	}

	h.startSession(c, user, req.RememberMe, redirectHome)
}

// @Router /user/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	if claims := claimsFrom(c); claims != nil {
		if err := h.sessions.Revoke(c.Request.Context(), claims); err != nil {
			h.LogError(c, err, "Failed to revoke session", "user_id", claims.UserID)
		}
	}
	h.sessions.ClearCookie(c)

	h.respondOK(c, http.StatusOK, "Logged out", nil, redirectLogin)
}

// MyApplications lists the caller's applications with job and employer
// @Router /user/applications [get]
func (h *UserHandler) MyApplications(c *gin.Context) {
	applications, err := h.applicationService.ListMine(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.handleServiceError(c, err, redirectHome)
		return
	}

	h.respondOK(c, http.StatusOK, "", applications, "")
}

func (h *UserHandler) startSession(c *gin.Context, user *models.User, persistent bool, redirect string) {
	token, _, err := h.sessions.Issue(user, persistent)
	if err != nil {
		h.LogError(c, err, "Failed to issue session", "user_id", user.ID)
		h.respondError(c, http.StatusInternalServerError, "Could not start a session, please try again", nil, "")
		return
	}
	h.sessions.SetCookie(c, token, persistent)

	h.LogRequest(c, "User logged in", "user_id", user.ID, "role", user.Role, "persistent", persistent)
	h.respondOK(c, http.StatusOK, "Login successful", user, redirect)
}
