package chat

import (
	"context"
	"errors"
	"net/url"
	"strings"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ecoexplorer/core/internal/config"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetanthropic "go.jetify.com/ai/provider/anthropic"
	jetopenai "go.jetify.com/ai/provider/openai"
)

const (
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = "claude-haiku-4-5-20251001"
	defaultMaxTokens      = 600
)

var (
	ErrNotConfigured = errors.New("Server configuration error: API key missing")
	errEmptyResponse = errors.New("empty response from model")
)

// Completer answers a single user prompt under a system prompt.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// ModelCompleter calls a hosted language model.
type ModelCompleter struct {
	model     jetapi.LanguageModel
	maxTokens int
}

// NewCompleter builds the provider named in cfg. A missing API key yields ErrNotConfigured.
func NewCompleter(cfg config.ChatConfig) (*ModelCompleter, error) {
	model, err := buildLanguageModel(cfg)
	if err != nil {
		return nil, err
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &ModelCompleter{model: model, maxTokens: maxTokens}, nil
}

func (m *ModelCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := jetai.GenerateText(
		ctx,
		buildMessages(system, prompt),
		jetai.WithModel(m.model),
		jetai.WithMaxOutputTokens(m.maxTokens),
	)
	if err != nil {
		return "", err
	}
	return extractText(resp)
}

func buildMessages(system, prompt string) []jetapi.Message {
	messages := make([]jetapi.Message, 0, 2)
	if strings.TrimSpace(system) != "" {
		messages = append(messages, &jetapi.SystemMessage{Content: system})
	}
	messages = append(messages, &jetapi.UserMessage{Content: jetapi.ContentFromText(prompt)})
	return messages
}

func extractText(resp *jetapi.Response) (string, error) {
	if resp == nil {
		return "", errEmptyResponse
	}
	var full strings.Builder
	for _, block := range resp.Content {
		if text, ok := block.(*jetapi.TextBlock); ok {
			full.WriteString(text.Text)
		}
	}
	if strings.TrimSpace(full.String()) == "" {
		return "", errEmptyResponse
	}
	return full.String(), nil
}

func buildLanguageModel(cfg config.ChatConfig) (jetapi.LanguageModel, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	modelID := strings.TrimSpace(cfg.Model)
	endpoint := strings.TrimSpace(cfg.Endpoint)

	if strings.EqualFold(strings.TrimSpace(cfg.Provider), "anthropic") {
		if modelID == "" {
			modelID = defaultAnthropicModel
		}
		opts := []anthropicoption.RequestOption{
			anthropicoption.WithAPIKey(apiKey),
			anthropicoption.WithMaxRetries(0),
		}
		if endpoint != "" {
			opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(endpoint, "/")))
		}
		client := anthropicclient.NewClient(opts...)
		return jetanthropic.NewLanguageModel(modelID, jetanthropic.WithClient(client)), nil
	}

	if modelID == "" {
		modelID = defaultOpenAIModel
	}
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(apiKey),
		openaioption.WithMaxRetries(0),
	}
	if base := normalizeOpenAIBaseURL(endpoint); base != "" {
		opts = append(opts, openaioption.WithBaseURL(base))
	}
	client := openaiclient.NewClient(opts...)
	return jetopenai.NewLanguageModel(modelID, jetopenai.WithClient(client)), nil
}

// normalizeOpenAIBaseURL appends /v1 to bare hosts of OpenAI-compatible gateways.
func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}
	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		path += "/v1"
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}
