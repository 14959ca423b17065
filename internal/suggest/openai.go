package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const systemPrompt = "You are an AI assistant helping a helpdesk agent respond to a user ticket. " +
	"The agent will use your suggestion as a starting point, so it should be well-written and professional. " +
	"Provide a suggested response that addresses the user's issue, concise and to the point."

// OpenAIClient calls an OpenAI-compatible chat-completions endpoint to draft
// ticket replies.
type OpenAIClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a Suggester from configuration. Without an API key the
// disabled implementation is returned so ticket flows are never blocked.
func NewClient(cfg config.SuggestionConfig, logger *zap.Logger) Suggester {
	if cfg.APIKey == "" {
		logger.Warn("SUGGESTION_API_KEY not provided; reply suggestions disabled")
		return NewDisabled()
	}
	return &OpenAIClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		logger:     logger,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Suggest drafts a reply from the ticket content and optional prior responses.
func (c *OpenAIClient) Suggest(ctx context.Context, ticketContent, priorResponses string) (string, error) {
	var prompt strings.Builder
	prompt.WriteString("Here is the content of the ticket:\n")
	prompt.WriteString(ticketContent)
	if strings.TrimSpace(priorResponses) != "" {
		prompt.WriteString("\n\nHere are the prior responses to the ticket:\n")
		prompt.WriteString(priorResponses)
	}
	prompt.WriteString("\n\nPlease provide a suggested response to the ticket.")

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt.String()},
		},
	})
	if err != nil {
		return "", errorutil.NewSuggestionUnavailable(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errorutil.NewSuggestionUnavailable(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("suggestion call failed", zap.Error(err))
		return "", errorutil.NewSuggestionUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("suggestion provider returned non-200", zap.Int("status", resp.StatusCode))
		return "", errorutil.NewSuggestionUnavailable(fmt.Errorf("provider status %d", resp.StatusCode))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errorutil.NewSuggestionUnavailable(err)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", errorutil.NewSuggestionUnavailable(errors.New("provider returned no suggestion"))
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
