package chat

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ecoexplorer/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	DefaultGreeting = "Hello! I'm Eco Tourism 🌿 I'm here to help you discover Sri Lanka's amazing eco-tourism experiences. How can I assist you today?"

	DefaultSystemPrompt = "You are Eco Tourism, a friendly virtual guide for Sri Lanka's eco-tourism platform. " +
		"Promote responsible travel and keep answers concise."

	defaultTimeout = 10 * time.Second
	maxTextRunes   = 4000
)

type messageDTO struct {
	Text string `json:"text"`
}

// Options tune the chat endpoint; zero values fall back to defaults.
type Options struct {
	SystemPrompt string
	Greeting     string
	Timeout      time.Duration
}

type Handler struct {
	completer Completer
	opts      Options
	logger    *zap.Logger
}

// NewHandler serves POST /chat. completer may be nil when no key is configured.
func NewHandler(completer Completer, opts Options, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = DefaultSystemPrompt
	}
	if opts.Greeting == "" {
		opts.Greeting = DefaultGreeting
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Handler{completer: completer, opts: opts, logger: logger.Named("ChatHandler")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	rg.POST("/chat", limit, h.chat)
}

func (h *Handler) chat(c *gin.Context) {
	if h.completer == nil {
		response.Fail(c, http.StatusInternalServerError, ErrNotConfigured.Error())
		return
	}

	var dto messageDTO
	if err := c.ShouldBindJSON(&dto); err != nil || strings.TrimSpace(dto.Text) == "" {
		response.BadRequest(c, "No text provided")
		return
	}
	text := strings.TrimSpace(dto.Text)
	if r := []rune(text); len(r) > maxTextRunes {
		text = string(r[:maxTextRunes])
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.opts.Timeout)
	defer cancel()

	reply, err := h.completer.Complete(ctx, h.opts.SystemPrompt, "User message: "+text)
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		h.logger.Warn("chat completion timed out", zap.Duration("timeout", h.opts.Timeout))
		response.GatewayTimeout(c, "Request timed out. Please try again.")
		return
	case errors.Is(err, errEmptyResponse):
		reply = ""
	default:
		h.logger.Error("chat completion failed", zap.Error(err))
		response.Fail(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
		return
	}

	if strings.TrimSpace(reply) == "" {
		reply = h.opts.Greeting
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
