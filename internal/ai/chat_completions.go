package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PlayerLynx/AI-Study-Buddy/internal"
)

// ChatCompletionsResponder calls an OpenAI-compatible chat completions
// endpoint (GitHub Models by default).
type ChatCompletionsResponder struct {
	Endpoint   string
	APIKey     string
	Model      string
	HTTPClient *http.Client
	logger     internal.Logger
}

func NewChatCompletionsResponder(endpoint, apiKey, model string, timeout time.Duration, logger internal.Logger) *ChatCompletionsResponder {
	return &ChatCompletionsResponder{
		Endpoint:   endpoint,
		APIKey:     apiKey,
		Model:      model,
		HTTPClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (r *ChatCompletionsResponder) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: r.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   800,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, bytes.NewReader(body))
	if err != nil {
		r.logger.Errorf("ai: failed to create request: %v", err)
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.APIKey)

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		r.logger.Errorf("ai: failed to call chat completions: %v", err)
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		r.logger.Errorf("ai: chat completions returned %d", resp.StatusCode)
		return "", fmt.Errorf("ai: chat completions returned status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		r.logger.Errorf("ai: failed to decode response: %v", err)
		return "", err
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", errors.New("ai: empty completion")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// NewResponder returns the API-backed responder when an API key is set and
// the stub otherwise.
func NewResponder(endpoint, apiKey, model string, timeout time.Duration, logger internal.Logger) Responder {
	if apiKey == "" {
		logger.Warnf("ai: no API key configured, using offline responder")
		return StubResponder{}
	}
	return NewChatCompletionsResponder(endpoint, apiKey, model, timeout, logger)
}
