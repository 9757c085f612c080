// Package session issues and verifies the signed session credential carried
// in the auth cookie.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/SAP-F-2025/jobboard-service/internal/cache"
	"github.com/SAP-F-2025/jobboard-service/internal/config"
	"github.com/SAP-F-2025/jobboard-service/internal/models"
)

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrSessionRevoked = errors.New("session revoked")
)

// Claims is the identity carried by a session credential
type Claims struct {
	UserID     uint            `json:"uid"`
	Username   string          `json:"username"`
	Role       models.UserRole `json:"role"`
	Persistent bool            `json:"persistent,omitempty"`
	jwt.RegisteredClaims
}

type Manager struct {
	cfg     config.SessionConfig
	secret  []byte
	revoked *cache.CacheHelper
	now     func() time.Time
}

// NewManager builds a session manager. revoked may wrap a nil Redis client,
// in which case logout only clears the cookie.
func NewManager(cfg config.SessionConfig, revoked *cache.CacheHelper) *Manager {
	return &Manager{
		cfg:     cfg,
		secret:  []byte(cfg.Secret),
		revoked: revoked,
		now:     time.Now,
	}
}

// Issue signs a fresh credential for user. Every credential lives for TTL
// and slides on use; persistent only changes the cookie lifetime.
func (m *Manager) Issue(user *models.User, persistent bool) (string, *Claims, error) {
	return m.sign(user.ID, user.Username, user.Role, persistent)
}

func (m *Manager) sign(userID uint, username string, role models.UserRole, persistent bool) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		UserID:     userID,
		Username:   username,
		Role:       role,
		Persistent: persistent,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session: %w", err)
	}
	return token, claims, nil
}

// Parse verifies signature, expiry and revocation
func (m *Manager) Parse(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !claims.Role.IsValid() || claims.UserID == 0 {
		return nil, ErrInvalidSession
	}

	revoked, err := m.revoked.Exists(ctx, claims.ID)
	switch {
	case errors.Is(err, cache.ErrCacheNotAvailable):
	case err != nil:
		return nil, fmt.Errorf("failed to check session revocation: %w", err)
	case revoked:
		return nil, ErrSessionRevoked
	}

	return claims, nil
}

// Revoke denylists the credential until it would have expired anyway
func (m *Manager) Revoke(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return nil
	}
	return m.revoked.SetString(ctx, claims.ID, "1", ttl)
}

// NeedsRenewal reports whether more than half of the credential's life has
// elapsed, which triggers a sliding re-issue.
func (m *Manager) NeedsRenewal(claims *Claims) bool {
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return false
	}
	half := claims.ExpiresAt.Sub(claims.IssuedAt.Time) / 2
	return m.now().After(claims.IssuedAt.Add(half))
}

// Renew re-issues claims with a fresh id and expiry
func (m *Manager) Renew(claims *Claims) (string, *Claims, error) {
	return m.sign(claims.UserID, claims.Username, claims.Role, claims.Persistent)
}

// SetCookie writes the credential. A persistent cookie is kept for
// PersistentTTL across browser restarts; others go when the browser closes.
func (m *Manager) SetCookie(c *gin.Context, token string, persistent bool) {
	maxAge := 0
	if persistent {
		maxAge = int(m.cfg.PersistentTTL.Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cfg.CookieName, token, maxAge, "/", "", m.cfg.Secure, true)
}

func (m *Manager) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cfg.CookieName, "", -1, "/", "", m.cfg.Secure, true)
}

// TokenFromRequest reads the cookie, falling back to a bearer header
func (m *Manager) TokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(m.cfg.CookieName); err == nil && token != "" {
		return token
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}
