package middleware

import (
	"errors"
	"strings"

	"github.com/ecoexplorer/core/internal/pkg/jwt"
	"github.com/ecoexplorer/core/internal/pkg/response"
	"github.com/ecoexplorer/core/internal/pkg/session"
	"github.com/gin-gonic/gin"
)

const (
	// AuthCookie carries the admin JWT set by login.
	AuthCookie = "auth-token"

	ContextKeyEmail = "admin_email"
	ContextKeySID   = "session_id"
)

// Auth enforces an admin token from the auth cookie or an Authorization header.
func Auth(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := ValidateToken(c, sessions, ExtractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeySID, claims.SessionID)
		c.Next()
	}
}

// OptionalAuth records the admin identity when a valid token is present.
func OptionalAuth(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := ValidateToken(c, sessions, ExtractToken(c)); err == nil {
			c.Set(ContextKeyEmail, claims.Email)
			c.Set(ContextKeySID, claims.SessionID)
		}
		c.Next()
	}
}

// ValidateToken parses the JWT and checks its session is still live.
func ValidateToken(c *gin.Context, sessions *session.Store, token string) (*jwt.Claims, error) {
	if token == "" {
		return nil, errors.New("token is required")
	}
	claims, err := jwt.Parse(token)
	if err != nil {
		return nil, err
	}
	active, err := sessions.IsActive(c.Request.Context(), claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, errors.New("session expired or revoked")
	}
	return claims, nil
}

// CurrentEmail extracts the authenticated admin email from context.
func CurrentEmail(c *gin.Context) string {
	v, _ := c.Get(ContextKeyEmail)
	email, _ := v.(string)
	return email
}

// CurrentSessionID extracts the authenticated session ID from context.
func CurrentSessionID(c *gin.Context) string {
	v, _ := c.Get(ContextKeySID)
	id, _ := v.(string)
	return id
}

// IsAuthenticated returns true if an earlier middleware accepted a token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentEmail(c) != ""
}

// ExtractToken prefers the Authorization header over the cookie.
func ExtractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		return NormalizeToken(auth)
	}
	if cookie, err := c.Cookie(AuthCookie); err == nil {
		return NormalizeToken(cookie)
	}
	return ""
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
