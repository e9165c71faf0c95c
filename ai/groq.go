package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// GroqClient talks to Groq's OpenAI-compatible chat completions API.
type GroqClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

var _ Completer = (*GroqClient)(nil)

func NewGroqClient(baseURL, apiKey, model string, client *http.Client) *GroqClient {
	return &GroqClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  client,
	}
}

func (g *GroqClient) Name() string {
	return "Groq"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (g *GroqClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if g.apiKey == "" {
		return "", notConfigured(g.Name())
	}

	body := chatCompletionRequest{
		Model:       g.model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	headers := map[string]string{"Authorization": "Bearer " + g.apiKey}

	var resp chatCompletionResponse
	if err := postJSON(ctx, g.client, g.baseURL+"/chat/completions", headers, body, &resp); err != nil {
		return "", fmt.Errorf("[GroqClient Complete] %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
