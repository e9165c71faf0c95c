package config

import "time"

const (
	aiProviderVar = "AI_PROVIDER"

	AIProviderGroq   = "groq"
	AIProviderGemini = "gemini"
)

type AIConfig interface {
	GetAIProvider() string
	GetGroqAPIKey() string
	GetGroqModel() string
	GetGroqBaseURL() string
	GetGeminiAPIKey() string
	GetGeminiModel() string
	GetGeminiBaseURL() string
	GetAITimeout() time.Duration
}

type AI struct {
	Provider      string        `env:"AI_PROVIDER" envDefault:"groq"`
	GroqAPIKey    string        `env:"GROK_API_KEY"`
	GroqModel     string        `env:"GROQ_MODEL" envDefault:"llama-3.1-8b-instant"`
	GroqBaseURL   string        `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	GeminiAPIKey  string        `env:"GEMINI_API_KEY"`
	GeminiModel   string        `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
	GeminiBaseURL string        `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	Timeout       time.Duration `env:"AI_TIMEOUT" envDefault:"60s"`
}

var _ AIConfig = mainConfig{}

func (a AI) GetAIProvider() string {
	return a.Provider
}

func (a AI) GetGroqAPIKey() string {
	return a.GroqAPIKey
}

func (a AI) GetGroqModel() string {
	return a.GroqModel
}

func (a AI) GetGroqBaseURL() string {
	return a.GroqBaseURL
}

func (a AI) GetGeminiAPIKey() string {
	return a.GeminiAPIKey
}

func (a AI) GetGeminiModel() string {
	return a.GeminiModel
}

func (a AI) GetGeminiBaseURL() string {
	return a.GeminiBaseURL
}

func (a AI) GetAITimeout() time.Duration {
	return a.Timeout
}
