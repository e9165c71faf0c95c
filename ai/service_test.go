package ai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lexora/lexora-server/ai"
	"github.com/lexora/lexora-server/internal/config"
	apperrors "github.com/lexora/lexora-server/internal/errors"
	"github.com/lexora/lexora-server/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// recordingCompleter returns a canned reply and remembers every request.
type recordingCompleter struct {
	reply    string
	err      error
	lock     sync.Mutex
	requests []ai.CompletionRequest
}

func (c *recordingCompleter) Name() string { return "Recording" }

func (c *recordingCompleter) Complete(_ context.Context, req ai.CompletionRequest) (string, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.requests = append(c.requests, req)
	return c.reply, c.err
}

func (c *recordingCompleter) last() ai.CompletionRequest {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.requests[len(c.requests)-1]
}

type testFixture struct {
	ctx       context.Context
	completer *recordingCompleter
	metrics   *metrics.Metrics
	service   *ai.Service
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		ctx:       context.Background(),
		completer: &recordingCompleter{reply: "model answer"},
		metrics:   metrics.New(prometheus.NewRegistry()),
	}
	f.service = ai.NewService(f.completer, f.metrics)
	return f
}

func TestService_CompletionParameters(t *testing.T) {
	f := setupTestFixture(t)

	summary, err := f.service.SummarizeDocument(f.ctx, ai.DocumentTXT, []byte("The tenant shall pay rent monthly."))
	require.NoError(t, err)
	require.Equal(t, "model answer", summary)
	require.Equal(t, 0.3, f.completer.last().Temperature)
	require.Equal(t, 1000, f.completer.last().MaxTokens)
	require.Contains(t, f.completer.last().Prompt, "The tenant shall pay rent monthly.")

	_, err = f.service.AnalyzeContract(f.ctx, "Party A sells to Party B.")
	require.NoError(t, err)
	require.Equal(t, 0.3, f.completer.last().Temperature)
	require.Equal(t, 800, f.completer.last().MaxTokens)
	require.Contains(t, f.completer.last().Prompt, "Potential Red Flags")

	_, err = f.service.Chat(f.ctx, "How do I file a claim?", "small claims")
	require.NoError(t, err)
	require.Equal(t, 0.7, f.completer.last().Temperature)
	require.Equal(t, 500, f.completer.last().MaxTokens)
	require.Contains(t, f.completer.last().Prompt, "Context: small claims")
	require.Contains(t, f.completer.last().Prompt, "User Question: How do I file a claim?")

	_, err = f.service.DocumentChat(f.ctx, "Who is the landlord?", "Landlord: Acme Ltd")
	require.NoError(t, err)
	require.Contains(t, f.completer.last().Prompt, "Landlord: Acme Ltd")

	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AIRequestsTotal.WithLabelValues(ai.OpSummarize, "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AIRequestsTotal.WithLabelValues(ai.OpChatbot, "success")))
}

func TestService_EmptyCompletionFallsBack(t *testing.T) {
	f := setupTestFixture(t)
	f.completer.reply = "  "

	summary, err := f.service.SummarizeDocument(f.ctx, ai.DocumentTXT, []byte("A long enough document."))
	require.NoError(t, err)
	require.Equal(t, "Summary unavailable.", summary)

	analysis, err := f.service.AnalyzeContract(f.ctx, "contract")
	require.NoError(t, err)
	require.Equal(t, "Analysis unavailable.", analysis)

	answer, err := f.service.Chat(f.ctx, "hello", "")
	require.NoError(t, err)
	require.Equal(t, "I apologize, but I cannot provide a response at this time.", answer)
}

func TestService_Errors(t *testing.T) {
	f := setupTestFixture(t)

	t.Run("validation happens before any completion", func(t *testing.T) {
		_, err := f.service.SummarizeDocument(f.ctx, ai.DocumentTXT, []byte("tiny"))
		require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		_, err = f.service.AnalyzeContract(f.ctx, " ")
		require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		_, err = f.service.Chat(f.ctx, "", "context")
		require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		require.Empty(t, f.completer.requests)
	})

	t.Run("provider failure is wrapped", func(t *testing.T) {
		f.completer.err = errors.New("upstream 503")

		_, err := f.service.SummarizeDocument(f.ctx, ai.DocumentTXT, []byte("A long enough document."))
		require.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
		require.Contains(t, err.Error(), "Document analysis failed: upstream 503")

		_, err = f.service.AnalyzeContract(f.ctx, "contract")
		require.Contains(t, err.Error(), "Contract analysis temporarily unavailable.")

		_, err = f.service.Chat(f.ctx, "hello", "")
		require.Contains(t, err.Error(), "AI service temporarily unavailable. Please try again later.")

		require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AIRequestsTotal.WithLabelValues(ai.OpContract, "error")))
	})
}

func TestGroqClient(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var authorization string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openai/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		authorization = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if strings.Contains(got.Messages[0].Content, "fail") {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"rate limit reached"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"groq says hi"}}]}`))
	}))
	defer srv.Close()

	client := ai.NewGroqClient(srv.URL+"/openai/v1/", "groq-key", "llama-3.1-8b-instant", srv.Client())

	text, err := client.Complete(context.Background(), ai.CompletionRequest{Prompt: "hello", Temperature: 0.3, MaxTokens: 800})
	require.NoError(t, err)
	require.Equal(t, "groq says hi", text)
	require.Equal(t, "Bearer groq-key", authorization)
	require.Equal(t, "llama-3.1-8b-instant", got.Model)
	require.Equal(t, 800, got.MaxTokens)
	require.Equal(t, "user", got.Messages[0].Role)

	_, err = client.Complete(context.Background(), ai.CompletionRequest{Prompt: "please fail"})
	require.ErrorContains(t, err, "rate limit reached")

	_, err = ai.NewGroqClient(srv.URL, "", "model", srv.Client()).Complete(context.Background(), ai.CompletionRequest{Prompt: "hello"})
	require.ErrorIs(t, err, apperrors.ErrNotConfigured)
	require.EqualError(t, err, "Groq API key not configured")
}

func TestGeminiClient(t *testing.T) {
	var apiKey string
	var maxOutputTokens int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-1.5-flash:generateContent" {
			http.NotFound(w, r)
			return
		}
		apiKey = r.Header.Get("x-goog-api-key")
		var body struct {
			GenerationConfig struct {
				MaxOutputTokens int `json:"maxOutputTokens"`
			} `json:"generationConfig"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		maxOutputTokens = body.GenerationConfig.MaxOutputTokens
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"gemini "},{"text":"says hi"}]}}]}`))
	}))
	defer srv.Close()

	client := ai.NewGeminiClient(srv.URL+"/v1beta", "gemini-key", "gemini-1.5-flash", srv.Client())
	text, err := client.Complete(context.Background(), ai.CompletionRequest{Prompt: "hello", MaxTokens: 500})
	require.NoError(t, err)
	require.Equal(t, "gemini says hi", text)
	require.Equal(t, "gemini-key", apiKey)
	require.Equal(t, 500, maxOutputTokens)

	_, err = ai.NewGeminiClient(srv.URL, "", "model", srv.Client()).Complete(context.Background(), ai.CompletionRequest{})
	require.EqualError(t, err, "Gemini API key not configured")
}

func TestNewCompleter(t *testing.T) {
	cfg, err := config.LoadFromEnvironment(map[string]string{
		"GOOGLE_CLIENT_ID":     "client-id",
		"GOOGLE_CLIENT_SECRET": "client-secret",
		"FRONTEND_URL":         "http://localhost:3000",
		"AI_PROVIDER":          "gemini",
		"AI_TIMEOUT":           "5s",
	})
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, cfg.GetAITimeout())

	completer, err := ai.NewCompleter(cfg)
	require.NoError(t, err)
	require.Equal(t, "Gemini", completer.Name())
}
