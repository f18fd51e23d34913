package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ecoexplorer/core/internal/config"
	"github.com/ecoexplorer/core/internal/middleware"
	"github.com/ecoexplorer/core/internal/pkg/response"
	"github.com/ecoexplorer/core/internal/pkg/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("Invalid email or password. Please check your credentials and try again")

type LoginDTO struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type userResponse struct {
	Email      string `json:"email"`
	RememberMe bool   `json:"rememberMe,omitempty"`
}

// Service checks the single admin account configured for the dashboard.
type Service struct {
	admin    config.AdminConfig
	sessions *session.Store
}

func NewService(admin config.AdminConfig, sessions *session.Store) *Service {
	return &Service{admin: admin, sessions: sessions}
}

// Login returns a signed token and its lifetime.
func (s *Service) Login(ctx context.Context, dto LoginDTO, ip, ua string) (string, time.Duration, error) {
	email := strings.TrimSpace(dto.Email)
	hash := []byte(s.admin.PasswordHash)
	if len(hash) == 0 {
		return "", 0, ErrInvalidCredentials
	}
	pwErr := bcrypt.CompareHashAndPassword(hash, []byte(dto.Password))
	if !strings.EqualFold(email, s.admin.Email) || pwErr != nil {
		return "", 0, ErrInvalidCredentials
	}

	ttl := session.DefaultTTL
	if dto.RememberMe {
		ttl = session.RememberTTL
	}
	token, _, err := s.sessions.Issue(ctx, s.admin.Email, ip, ua, ttl)
	if err != nil {
		return "", 0, err
	}
	return token, ttl, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Revoke(ctx, sessionID)
}

type Handler struct {
	svc      *Service
	sessions *session.Store
	secure   bool
	logger   *zap.Logger
}

// NewHandler serves the login endpoints. secure marks the cookie Secure.
func NewHandler(svc *Service, sessions *session.Store, secure bool, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, sessions: sessions, secure: secure, logger: logger.Named("AuthHandler")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	a := rg.Group("/auth")
	a.POST("/login", h.login)
	a.GET("/verify", h.verify)
	a.POST("/logout", authMW, h.logout)
	a.GET("/session", authMW, h.session)
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil || strings.TrimSpace(dto.Email) == "" || dto.Password == "" {
		response.BadRequest(c, "Email and password are required")
		return
	}
	token, ttl, err := h.svc.Login(c.Request.Context(), dto, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.logger.Info("login rejected", zap.String("ip", c.ClientIP()))
			response.Fail(c, http.StatusUnauthorized, err.Error())
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		response.Fail(c, http.StatusUnauthorized, "Login failed")
		return
	}

	h.setCookie(c, token, int(ttl/time.Second))
	response.Success(c, gin.H{"user": userResponse{Email: strings.TrimSpace(dto.Email), RememberMe: dto.RememberMe}})
}

// verify never aborts; a missing or stale cookie yields 401 with a reason.
func (h *Handler) verify(c *gin.Context) {
	token := middleware.ExtractToken(c)
	if token == "" {
		response.Fail(c, http.StatusUnauthorized, "No token found")
		return
	}
	claims, err := middleware.ValidateToken(c, h.sessions, token)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, "Invalid token")
		return
	}
	response.Success(c, gin.H{"user": userResponse{Email: claims.Email}})
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.CurrentSessionID(c)); err != nil {
		h.logger.Warn("session revoke failed", zap.Error(err))
	}
	h.setCookie(c, "", -1)
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	response.Success(c, gin.H{"redirect": "/admin/login"})
}

func (h *Handler) session(c *gin.Context) {
	out := gin.H{"email": middleware.CurrentEmail(c)}
	if sess, err := h.sessions.Get(c.Request.Context(), middleware.CurrentSessionID(c)); err == nil {
		out["createdAt"] = sess.CreatedAt
		out["expiresAt"] = sess.ExpiresAt
		out["ip"] = sess.IP
	}
	response.Success(c, gin.H{"user": out})
}

func (h *Handler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AuthCookie, value, maxAge, "/", "", h.secure, true)
}
