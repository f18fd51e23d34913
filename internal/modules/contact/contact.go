package contact

import (
	"context"
	"errors"
	"net/http"
	netmail "net/mail"
	"strings"
	"unicode/utf8"

	"github.com/ecoexplorer/core/internal/pkg/mail"
	"github.com/ecoexplorer/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxMessageRunes = 5000

// Relay delivers a contact submission.
type Relay interface {
	SendContact(ctx context.Context, data mail.ContactData) error
}

type submitDTO struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type Handler struct {
	relay  Relay
	logger *zap.Logger
}

func NewHandler(relay Relay, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{relay: relay, logger: logger.Named("ContactHandler")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	rg.POST("/contact", limit, h.submit)
}

func (h *Handler) submit(c *gin.Context) {
	var dto submitDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid JSON body")
		return
	}
	data, msg := validate(dto)
	if msg != "" {
		response.BadRequest(c, msg)
		return
	}

	if err := h.relay.SendContact(c.Request.Context(), data); err != nil {
		if errors.Is(err, mail.ErrDisabled) {
			response.Fail(c, http.StatusServiceUnavailable, "Contact form is not available")
			return
		}
		h.logger.Error("contact relay failed", zap.Error(err))
		response.Fail(c, http.StatusBadGateway, "Failed to send message. Please try again later.")
		return
	}
	response.Success(c, nil)
}

func validate(dto submitDTO) (mail.ContactData, string) {
	name := strings.TrimSpace(dto.Name)
	email := strings.TrimSpace(dto.Email)
	message := strings.TrimSpace(dto.Message)

	switch {
	case name == "" || email == "" || message == "":
		return mail.ContactData{}, "name, email and message are required"
	case utf8.RuneCountInString(message) > maxMessageRunes:
		return mail.ContactData{}, "message is too long"
	}
	addr, err := netmail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return mail.ContactData{}, "Invalid email address"
	}
	return mail.ContactData{Name: name, Email: email, Message: message}, ""
}
