package ai

import (
	"context"
	"strings"

	apperrors "github.com/lexora/lexora-server/internal/errors"
	"github.com/lexora/lexora-server/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Operation names, also used as metric labels.
const (
	OpSummarize    = "summarize_document"
	OpContract     = "analyze_contract"
	OpDocumentChat = "document_chat"
	OpChatbot      = "chatbot"
)

const (
	summaryFallback  = "Summary unavailable."
	contractFallback = "Analysis unavailable."
	chatFallback     = "I apologize, but I cannot provide a response at this time."
)

// Service runs the legal assistant prompts against a Completer.
type Service struct {
	completer Completer
	metrics   *metrics.Metrics
}

func NewService(completer Completer, m *metrics.Metrics) *Service {
	return &Service{completer: completer, metrics: m}
}

func (s *Service) ProviderName() string {
	return s.completer.Name()
}

func (s *Service) complete(ctx context.Context, op string, req CompletionRequest, fallback string) (string, error) {
	text, err := s.completer.Complete(ctx, req)
	if err != nil {
		s.metrics.AIRequest(op, "error")
		log.Err(err).Str("operation", op).Str("provider", s.completer.Name()).Msg("[ai Service] completion failed")
		return "", err
	}
	s.metrics.AIRequest(op, "success")
	if strings.TrimSpace(text) == "" {
		return fallback, nil
	}
	return text, nil
}

// SummarizeDocument extracts the document text and asks for a structured legal summary.
func (s *Service) SummarizeDocument(ctx context.Context, docType DocumentType, data []byte) (string, error) {
	text, err := ExtractText(docType, data)
	if err != nil {
		s.metrics.AIRequest(OpSummarize, "rejected")
		return "", err
	}

	summary, err := s.complete(ctx, OpSummarize, CompletionRequest{
		Prompt:      SummaryPrompt(text),
		Temperature: 0.3,
		MaxTokens:   1000,
	}, summaryFallback)
	if err != nil {
		return "", apperrors.Internal("Document analysis failed: "+err.Error(), err)
	}
	return summary, nil
}

func (s *Service) AnalyzeContract(ctx context.Context, contractText string) (string, error) {
	if strings.TrimSpace(contractText) == "" {
		return "", apperrors.Validation("Contract text is required")
	}

	analysis, err := s.complete(ctx, OpContract, CompletionRequest{
		Prompt:      ContractPrompt(contractText),
		Temperature: 0.3,
		MaxTokens:   800,
	}, contractFallback)
	if err != nil {
		return "", apperrors.Internal("Contract analysis temporarily unavailable.", err)
	}
	return analysis, nil
}

// DocumentChat answers a question about documentText.
func (s *Service) DocumentChat(ctx context.Context, message, documentText string) (string, error) {
	return s.chat(ctx, OpDocumentChat, message, "Document content:\n"+documentText)
}

// Chat answers a general question with optional context.
func (s *Service) Chat(ctx context.Context, message, chatContext string) (string, error) {
	return s.chat(ctx, OpChatbot, message, chatContext)
}

func (s *Service) chat(ctx context.Context, op, message, chatContext string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", apperrors.Validation("Message is required")
	}

	answer, err := s.complete(ctx, op, CompletionRequest{
		Prompt:      ChatbotPrompt(message, chatContext),
		Temperature: 0.7,
		MaxTokens:   500,
	}, chatFallback)
	if err != nil {
		return "", apperrors.Internal("AI service temporarily unavailable. Please try again later.", err)
	}
	return answer, nil
}

// Check sends a minimal prompt to verify the provider key and model.
func (s *Service) Check(ctx context.Context) (string, error) {
	return s.completer.Complete(ctx, CompletionRequest{
		Prompt:      "Reply with the single word: ok",
		Temperature: 0,
		MaxTokens:   5,
	})
}
