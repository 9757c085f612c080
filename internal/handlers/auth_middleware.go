package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/jobboard-service/internal/services"
	"github.com/SAP-F-2025/jobboard-service/internal/session"
	"github.com/SAP-F-2025/jobboard-service/internal/utils"
)

const (
	actorKey  = "actor"
	claimsKey = "session_claims"
)

// AuthMiddleware resolves the session cookie into a services.Actor
type AuthMiddleware struct {
	BaseHandler
	sessions *session.Manager
}

func NewAuthMiddleware(sessions *session.Manager, logger utils.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		BaseHandler: NewBaseHandler(logger),
		sessions:    sessions,
	}
}

// Authenticate attaches the caller's identity when a valid session is
// presented and continues anonymously otherwise. Sessions past half their
// lifetime are re-issued.
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := am.sessions.TokenFromRequest(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := am.sessions.Parse(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, session.ErrInvalidSession) && !errors.Is(err, session.ErrSessionRevoked) {
				am.LogError(c, err, "Session check failed")
			}
			am.sessions.ClearCookie(c)
			c.Next()
			return
		}

		if am.sessions.NeedsRenewal(claims) {
			if renewed, newClaims, err := am.sessions.Renew(claims); err == nil {
				am.sessions.SetCookie(c, renewed, newClaims.Persistent)
			} else {
				am.LogError(c, err, "Session renewal failed", "user_id", claims.UserID)
			}
		}

		c.Set(claimsKey, claims)
		c.Set(actorKey, services.Actor{
			UserID:   claims.UserID,
			Username: claims.Username,
			Role:     claims.Role,
		})
		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

// RequireAuth rejects anonymous callers
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !actorFrom(c).IsAuthenticated() {
			am.respondError(c, http.StatusUnauthorized, "Please log in", nil, redirectLogin)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePermission rejects callers whose role lacks perm
func (am *AuthMiddleware) RequirePermission(perm services.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := services.Authorize(actorFrom(c), perm); err != nil {
			am.handleServiceError(c, err, redirectHome)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAnyPermission admits callers holding at least one of perms
func (am *AuthMiddleware) RequireAnyPermission(perms ...services.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := actorFrom(c)
		var err error
		for _, p := range perms {
			if err = services.Authorize(actor, p); err == nil {
				c.Next()
				return
			}
		}
		am.handleServiceError(c, err, redirectHome)
		c.Abort()
	}
}

// actorFrom returns the caller, or the anonymous Actor
func actorFrom(c *gin.Context) services.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(services.Actor); ok {
			return a
		}
	}
	return services.Actor{}
}

func claimsFrom(c *gin.Context) *session.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*session.Claims); ok {
			return claims
		}
	}
	return nil
}
