package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"github.com/ecoexplorer/core/internal/config"
)

const resendEndpoint = "https://api.resend.com/emails"

// ErrDisabled is returned when mail delivery is switched off.
var ErrDisabled = errors.New("mail is disabled")

// Config holds mail provider settings.
type Config struct {
	Enable    bool
	Host      string
	Port      int
	User      string
	Pass      string
	From      string
	To        string
	ResendKey string
}

// FromAppConfig maps the YAML mail section.
func FromAppConfig(cfg config.MailConfig) Config {
	return Config{
		Enable:    cfg.Enable,
		Host:      cfg.Host,
		Port:      cfg.Port,
		User:      cfg.User,
		Pass:      cfg.Pass,
		From:      cfg.From,
		To:        cfg.To,
		ResendKey: cfg.ResendKey,
	}
}

// Message is a single email to send.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

// Sender sends emails via Resend when a key is set, otherwise SMTP.
type Sender struct {
	cfg       Config
	client    *http.Client
	resendURL string
}

func New(cfg Config) *Sender {
	return &Sender{
		cfg:       cfg,
		client:    &http.Client{Timeout: 15 * time.Second},
		resendURL: resendEndpoint,
	}
}

func (s *Sender) Enabled() bool {
	return s != nil && s.cfg.Enable
}

// Send dispatches an email.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	if !s.Enabled() {
		return ErrDisabled
	}
	if s.cfg.ResendKey != "" {
		return s.sendResend(ctx, msg)
	}
	return s.sendSMTP(msg)
}

func (s *Sender) from() string {
	if s.cfg.From != "" {
		return s.cfg.From
	}
	return s.cfg.User
}

func (s *Sender) sendSMTP(msg Message) error {
	port := s.cfg.Port
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, port)
	from := s.from()

	var body bytes.Buffer
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString(fmt.Sprintf("From: %s\r\n", from))
	body.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	body.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	if msg.ReplyTo != "" {
		body.WriteString(fmt.Sprintf("Reply-To: %s\r\n", msg.ReplyTo))
	}
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	return smtp.SendMail(addr, auth, from, msg.To, body.Bytes())
}

func (s *Sender) sendResend(ctx context.Context, msg Message) error {
	payload := map[string]interface{}{
		"from":    s.from(),
		"to":      msg.To,
		"subject": msg.Subject,
		"html":    msg.HTML,
	}
	if msg.ReplyTo != "" {
		payload["reply_to"] = msg.ReplyTo
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.resendURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.ResendKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return fmt.Errorf("resend error %d: %s", resp.StatusCode, errResp.Message)
	}
	return nil
}

const contactTpl = `<!DOCTYPE html>
<html lang="en">
<body style="font-family:sans-serif;background:#f4f7f2;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px;border:1px solid #4d7c0f">
  <h2 style="color:#365314">New message from the contact form</h2>
  <p><strong>Name:</strong> {{.Name}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  <div style="background:#f3f4f6;border-radius:6px;padding:12px;white-space:pre-wrap">{{.Message}}</div>
  <p style="color:#9ca3af;font-size:12px">Sent {{.SentAt}}</p>
</div>
</body>
</html>`

var contactTemplate = template.Must(template.New("contact").Parse(contactTpl))

// ContactData is a visitor's contact-form submission.
type ContactData struct {
	Name    string
	Email   string
	Message string
	SentAt  string
}

// RenderContact renders the contact notification body.
func RenderContact(data ContactData) (string, error) {
	if data.SentAt == "" {
		data.SentAt = time.Now().Format(time.RFC1123)
	}
	var buf bytes.Buffer
	if err := contactTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendContact relays a contact-form submission to the configured inbox.
func (s *Sender) SendContact(ctx context.Context, data ContactData) error {
	if !s.Enabled() {
		return ErrDisabled
	}
	to := s.cfg.To
	if to == "" {
		to = s.from()
	}
	html, err := RenderContact(data)
	if err != nil {
		return err
	}
	return s.Send(ctx, Message{
		To:      []string{to},
		ReplyTo: data.Email,
		Subject: fmt.Sprintf("[Eco Explorer] Message from %s", data.Name),
		HTML:    html,
	})
}
