// Command nexova runs the Nexova support assistant.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/nexova-agent/internal/adapters/driven/ai"
	"github.com/custodia-labs/nexova-agent/internal/adapters/driven/config/file"
	"github.com/custodia-labs/nexova-agent/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/nexova-agent/internal/adapters/driven/whatsapp"
	"github.com/custodia-labs/nexova-agent/internal/adapters/driving/cli"
	"github.com/custodia-labs/nexova-agent/internal/core/ports/driven"
	"github.com/custodia-labs/nexova-agent/internal/core/services"
	"github.com/custodia-labs/nexova-agent/internal/logger"
	"github.com/custodia-labs/nexova-agent/internal/normalisers"
	"github.com/custodia-labs/nexova-agent/internal/normalisers/html"
	"github.com/custodia-labs/nexova-agent/internal/normalisers/markdown"
	"github.com/custodia-labs/nexova-agent/internal/normalisers/pdf"
	"github.com/custodia-labs/nexova-agent/internal/normalisers/plaintext"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// bootstrap builds the service graph from the persisted settings.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config store: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	logger.Debug("Using %s backend with model %s", settings.LLM.Provider, settings.LLM.Model)

	registry := normalisers.NewRegistry(
		plaintext.New(),
		markdown.New(),
		html.New(),
		pdf.New(),
	)
	store := memory.NewPassageStore()
	loader := services.NewCorpusLoader(registry, store)
	count, err := loader.Load(ctx, settings.Knowledge.Path)
	if err != nil {
		logger.Error("Knowledge corpus not loaded: %v", err)
	} else {
		logger.Debug("Loaded %d passages", count)
	}
	knowledgeService := services.NewKnowledgeService(store)

	var llmService driven.LLMService
	if svc, err := ai.CreateLLMService(&settings.LLM); err != nil {
		logger.Warn("Completion backend unavailable: %v", err)
	} else if svc != nil {
		llmService = svc
	}
	chatService := services.NewChatService(knowledgeService, llmService, settings.Knowledge.TopK)

	sender := whatsapp.NewSender(whatsapp.Config{
		APIURL:        settings.WhatsApp.APIURL,
		Token:         settings.WhatsApp.Token,
		RatePerSecond: settings.WhatsApp.RatePerSecond,
	})
	relayService := services.NewRelayService(chatService, sender)

	return &cli.Services{
		Chat:      chatService,
		Knowledge: knowledgeService,
		Relay:     relayService,
		Settings:  settingsService,
		PingLLM: func(ctx context.Context) error {
			current, err := settingsService.Get()
			if err != nil {
				return err
			}
			return ai.ValidateLLMConfig(ctx, &current.LLM)
		},
	}, nil
}
