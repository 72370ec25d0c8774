package services

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
	"github.com/custodia-labs/nexova-agent/internal/core/ports/driven"
	"github.com/custodia-labs/nexova-agent/internal/core/ports/driving"
	"github.com/custodia-labs/nexova-agent/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyLLMTimeout       = "llm.timeout_secs"
	keyKnowledgePath    = "knowledge.path"
	keyKnowledgeTopK    = "knowledge.top_k"
	keyServerAddr       = "server.addr"
	keyServerShutdown   = "server.shutdown_timeout_secs"
	keyWhapiAPIURL      = "whatsapp.api_url"
	keyWhapiToken       = "whatsapp.token"
	keyWhapiVerifyToken = "whatsapp.verify_token"
	keyWhapiRate        = "whatsapp.rate_per_second"
	keyTelegramAPIURL   = "telegram.api_url"
	keyTelegramToken    = "telegram.token"
	keyTelegramPoll     = "telegram.poll_timeout_secs"
)

// Environment variables that override the config file.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvGroqAPIKey      = "GROQ_API_KEY"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvLLMProvider     = "LLM_PROVIDER"
	EnvLLMModel        = "LLM_MODEL"
	EnvLLMBaseURL      = "LLM_BASE_URL"
	EnvKnowledgePath   = "KNOWLEDGE_PATH"
	EnvPort            = "PORT"
	EnvWhapiToken      = "WHAPI_TOKEN"
	EnvWhapiAPIURL     = "WHAPI_API_URL"
	EnvMetaVerifyToken = "META_VERIFY_TOKEN"
	EnvTelegramToken   = "TELEGRAM_TOKEN"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
)

// settingKeys lists every recognised key with its value kind, in display order.
var settingKeys = []struct {
	key  string
	kind valueKind
}{
	{keyLLMProvider, kindString},
	{keyLLMModel, kindString},
	{keyLLMBaseURL, kindString},
	{keyLLMAPIKey, kindString},
	{keyLLMTimeout, kindInt},
	{keyKnowledgePath, kindString},
	{keyKnowledgeTopK, kindInt},
	{keyServerAddr, kindString},
	{keyServerShutdown, kindInt},
	{keyWhapiAPIURL, kindString},
	{keyWhapiToken, kindString},
	{keyWhapiVerifyToken, kindString},
	{keyWhapiRate, kindFloat},
	{keyTelegramAPIURL, kindString},
	{keyTelegramToken, kindString},
	{keyTelegramPoll, kindInt},
}

// SettingsService resolves settings from the config store and environment.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service reading the process environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// SetEnvLookup replaces the environment lookup function.
func (s *SettingsService) SetEnvLookup(lookup func(string) (string, bool)) {
	s.lookupEnv = lookup
}

// Get retrieves the effective application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		LLM: domain.LLMSettings{
			Provider: domain.ParseAIProvider(s.getString(keyLLMProvider, defaults.LLM.Provider.String())),
			Model:    s.configStore.GetString(keyLLMModel), // Defaulted per provider after env overrides
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - each adapter knows its endpoint
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
			Timeout:  s.getSeconds(keyLLMTimeout, defaults.LLM.Timeout),
		},
		Knowledge: domain.KnowledgeSettings{
			Path: s.getString(keyKnowledgePath, defaults.Knowledge.Path),
			TopK: s.getInt(keyKnowledgeTopK, defaults.Knowledge.TopK),
		},
		Server: domain.ServerSettings{
			Addr:            s.getString(keyServerAddr, defaults.Server.Addr),
			ShutdownTimeout: s.getSeconds(keyServerShutdown, defaults.Server.ShutdownTimeout),
		},
		WhatsApp: domain.WhatsAppSettings{
			APIURL:        s.getString(keyWhapiAPIURL, defaults.WhatsApp.APIURL),
			Token:         s.configStore.GetString(keyWhapiToken),
			VerifyToken:   s.getString(keyWhapiVerifyToken, defaults.WhatsApp.VerifyToken),
			RatePerSecond: s.getFloat(keyWhapiRate, defaults.WhatsApp.RatePerSecond),
		},
		Telegram: domain.TelegramSettings{
			APIURL:      s.getString(keyTelegramAPIURL, defaults.Telegram.APIURL),
			Token:       s.configStore.GetString(keyTelegramToken),
			PollTimeout: s.getSeconds(keyTelegramPoll, defaults.Telegram.PollTimeout),
		},
	}

	s.applyEnv(settings)
	if settings.LLM.Model == "" {
		settings.LLM.Model = domain.DefaultModelFor(settings.LLM.Provider)
	}

	// An unknown provider leaves the backend unconfigured so replies carry the
	// not-configured notice and `config set llm.provider` can still repair it.
	if !settings.LLM.Provider.IsValid() {
		logger.Warn("Unknown llm provider %q, completion backend disabled", settings.LLM.Provider)
	}
	return settings, nil
}

// applyEnv overlays environment variables on the file settings.
func (s *SettingsService) applyEnv(settings *domain.Settings) {
	s.env(EnvLLMProvider, func(v string) { settings.LLM.Provider = domain.ParseAIProvider(v) })
	s.env(EnvLLMModel, func(v string) { settings.LLM.Model = v })
	s.env(EnvLLMBaseURL, func(v string) { settings.LLM.BaseURL = v })

	switch settings.LLM.Provider {
	case domain.AIProviderGroq:
		s.env(EnvGroqAPIKey, func(v string) { settings.LLM.APIKey = v })
	case domain.AIProviderOpenAI:
		s.env(EnvOpenAIAPIKey, func(v string) { settings.LLM.APIKey = v })
	case domain.AIProviderAnthropic:
		s.env(EnvAnthropicAPIKey, func(v string) { settings.LLM.APIKey = v })
	}

	s.env(EnvKnowledgePath, func(v string) { settings.Knowledge.Path = v })
	s.env(EnvPort, func(v string) { settings.Server.Addr = ":" + v })
	s.env(EnvWhapiToken, func(v string) { settings.WhatsApp.Token = v })
	s.env(EnvWhapiAPIURL, func(v string) { settings.WhatsApp.APIURL = v })
	s.env(EnvMetaVerifyToken, func(v string) { settings.WhatsApp.VerifyToken = v })
	s.env(EnvTelegramToken, func(v string) { settings.Telegram.Token = v })
}

// env calls apply with the variable's value when it is set and non-empty.
func (s *SettingsService) env(name string, apply func(string)) {
	if v, ok := s.lookupEnv(name); ok && v != "" {
		apply(v)
	}
}

// Set parses value according to the key's kind and persists it.
func (s *SettingsService) Set(key, value string) error {
	for _, k := range settingKeys {
		if k.key != key {
			continue
		}
		switch k.kind {
		case kindInt:
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
			}
			return s.configStore.Set(key, n)
		case kindFloat:
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
			}
			return s.configStore.Set(key, f)
		default:
			if key == keyLLMProvider {
				provider := domain.ParseAIProvider(value)
				if !provider.IsValid() {
					return fmt.Errorf("%w: unknown llm provider %q", domain.ErrInvalidInput, value)
				}
				value = provider.String()
			}
			return s.configStore.Set(key, value)
		}
	}
	return fmt.Errorf("%w: unknown config key %q", domain.ErrNotFound, key)
}

// Keys returns the recognised config keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		keys[i] = k.key
	}
	return keys
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if val := s.configStore.GetInt(key); val > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if val := s.configStore.GetFloat(key); val > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	if val := s.configStore.GetInt(key); val > 0 {
		return time.Duration(val) * time.Second
	}
	return defaultVal
}
