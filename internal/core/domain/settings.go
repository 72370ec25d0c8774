package domain

import (
	"strings"
	"time"
)

const unknownDescription = "Unknown"

// Default configuration values.
const (
	DefaultLLMModel        = "llama-3.3-70b-versatile"
	DefaultLLMTimeout      = 120 * time.Second
	DefaultKnowledgePath   = "data/knowledge.txt"
	DefaultTopK            = 3
	DefaultServerAddr      = ":8000"
	DefaultWhapiAPIURL     = "https://gate.whapi.cloud"
	DefaultVerifyToken     = "nexova_verify"
	DefaultWhapiRate       = 5.0
	DefaultTelegramAPIURL  = "https://api.telegram.org"
	DefaultTelegramPoll    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// AIProvider identifies a completion backend.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGroq is the Groq cloud API (OpenAI-compatible).
	AIProviderGroq AIProvider = "groq"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// ParseAIProvider normalises a provider name from config or the environment.
// The result may still be invalid; check IsValid.
func ParseAIProvider(name string) AIProvider {
	return AIProvider(strings.ToLower(strings.TrimSpace(name)))
}

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGroq, AIProviderOpenAI, AIProviderOllama, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p != AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGroq:
		return "Groq (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// DefaultModelFor returns the model used when none is configured.
func DefaultModelFor(p AIProvider) string {
	switch p {
	case AIProviderOpenAI:
		return "gpt-4o-mini"
	case AIProviderOllama:
		return "llama3.2"
	case AIProviderAnthropic:
		return "claude-3-5-haiku-latest"
	default:
		return DefaultLLMModel
	}
}

// LLMSettings holds completion backend configuration.
type LLMSettings struct {
	// Provider is the backend provider.
	Provider AIProvider

	// Model is the model identifier.
	Model string

	// BaseURL overrides the provider's API endpoint.
	BaseURL string

	// APIKey is the provider credential.
	APIKey string

	// Timeout bounds a single backend call.
	Timeout time.Duration
}

// IsConfigured returns true if the backend has what it needs to be called.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// KnowledgeSettings locates the knowledge corpus.
type KnowledgeSettings struct {
	// Path to the corpus file. Relative paths resolve against the
	// directory of the running executable.
	Path string

	// TopK is the maximum number of passages in a retrieval context.
	TopK int
}

// ServerSettings configures the HTTP surface.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// ShutdownTimeout bounds graceful shutdown, including webhook drain.
	ShutdownTimeout time.Duration
}

// WhatsAppSettings configures the Whapi gateway.
type WhatsAppSettings struct {
	// APIURL is the Whapi gateway base URL.
	APIURL string

	// Token is the Whapi bearer token.
	Token string

	// VerifyToken answers the Meta webhook verification handshake.
	VerifyToken string

	// RatePerSecond paces outbound sends.
	RatePerSecond float64
}

// IsConfigured returns true if outbound WhatsApp delivery is possible.
func (w WhatsAppSettings) IsConfigured() bool {
	return w.Token != ""
}

// TelegramSettings configures the Telegram bot.
type TelegramSettings struct {
	// APIURL is the Bot API base URL.
	APIURL string

	// Token is the bot token.
	Token string

	// PollTimeout is the long-poll timeout for getUpdates.
	PollTimeout time.Duration
}

// IsConfigured returns true if the bot can be started.
func (t TelegramSettings) IsConfigured() bool {
	return t.Token != ""
}

// Settings holds all application settings.
type Settings struct {
	LLM       LLMSettings
	Knowledge KnowledgeSettings
	Server    ServerSettings
	WhatsApp  WhatsAppSettings
	Telegram  TelegramSettings
}

// DefaultSettings returns settings with sensible defaults.
// Credentials are left empty.
func DefaultSettings() Settings {
	return Settings{
		LLM: LLMSettings{
			Provider: AIProviderGroq,
			Model:    DefaultLLMModel,
			Timeout:  DefaultLLMTimeout,
		},
		Knowledge: KnowledgeSettings{
			Path: DefaultKnowledgePath,
			TopK: DefaultTopK,
		},
		Server: ServerSettings{
			Addr:            DefaultServerAddr,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		WhatsApp: WhatsAppSettings{
			APIURL:        DefaultWhapiAPIURL,
			VerifyToken:   DefaultVerifyToken,
			RatePerSecond: DefaultWhapiRate,
		},
		Telegram: TelegramSettings{
			APIURL:      DefaultTelegramAPIURL,
			PollTimeout: DefaultTelegramPoll,
		},
	}
}

// Redact masks a secret for display, keeping the last four characters.
func Redact(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", 8) + secret[len(secret)-4:]
}
