// Package gemini serves oracle completions from Google's Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/smartworker/internal/domain"
	"github.com/bnema/smartworker/internal/ports"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

var ErrMissingAPIKey = errors.New("gemini api key is not configured")

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

type Client struct {
	generate generateFunc
	logger   *zap.Logger
}

var _ ports.Oracle = (*Client)(nil)

func NewClient(ctx context.Context, apiKey string, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newClient(client.Models.GenerateContent, logger), nil
}

func newClient(generate generateFunc, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{generate: generate, logger: logger.With(zap.String("oracle", "gemini"))}
}

// Complete maps the chat history onto Gemini contents. System turns become
// the system instruction and assistant turns use the model role.
func (c *Client) Complete(ctx context.Context, history []domain.Message, opts domain.CompletionOptions) (string, error) {
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	contents, system := toContents(history)
	if len(contents) == 0 {
		return "", errors.New("gemini request has no user or assistant turns")
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(opts.Temperature)),
	}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := c.generate(ctx, model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("gemini response has no candidates")
	}

	text := strings.TrimSpace(resp.Text())
	c.logger.Debug("gemini completion", zap.String("model", model), zap.Int("messages", len(history)), zap.Int("reply_bytes", len(text)))
	return text, nil
}

func toContents(history []domain.Message) ([]*genai.Content, string) {
	var system []string
	contents := make([]*genai.Content, 0, len(history))

	for _, msg := range history {
		switch msg.Role {
		case domain.RoleSystem:
			system = append(system, msg.Content)
		case domain.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	return contents, strings.Join(system, "\n\n")
}
