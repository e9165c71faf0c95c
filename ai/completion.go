package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/lexora/lexora-server/internal/config"
	apperrors "github.com/lexora/lexora-server/internal/errors"
)

// CompletionRequest is a single-turn prompt.
type CompletionRequest struct {
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Completer sends a prompt to a hosted model and returns the raw completion
// text. An empty string means the model returned no content.
type Completer interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// NewCompleter builds the client for the configured provider.
func NewCompleter(cfg config.AIConfig) (Completer, error) {
	httpClient := &http.Client{Timeout: cfg.GetAITimeout()}
	switch cfg.GetAIProvider() {
	case config.AIProviderGroq:
		return NewGroqClient(cfg.GetGroqBaseURL(), cfg.GetGroqAPIKey(), cfg.GetGroqModel(), httpClient), nil
	case config.AIProviderGemini:
		return NewGeminiClient(cfg.GetGeminiBaseURL(), cfg.GetGeminiAPIKey(), cfg.GetGeminiModel(), httpClient), nil
	}
	return nil, apperrors.Configuration("unknown AI provider "+cfg.GetAIProvider(), apperrors.ErrUnsupported)
}

func notConfigured(provider string) error {
	return fmt.Errorf("%s API key %w", provider, apperrors.ErrNotConfigured)
}

// postJSON sends body and decodes a 2xx response into out. Non-2xx responses
// become errors carrying the provider's message when one is present.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var providerErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(raw, &providerErr) == nil && providerErr.Error.Message != "" {
			return fmt.Errorf("status %d: %s", resp.StatusCode, providerErr.Error.Message)
		}
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
