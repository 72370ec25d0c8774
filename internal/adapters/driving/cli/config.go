package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
)

// pingTimeout bounds config --ping.
const pingTimeout = 10 * time.Second

var configPing bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Show the effective settings (defaults, then the config file, then
environment variables) with secrets redacted.

Use --ping to check that the completion backend is reachable.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a config file value",
	Long: `Set a single value in the config file.

When the value is omitted it is read from stdin, without echo on a terminal.
Use this for tokens and API keys so they stay out of shell history.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

var configLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure the completion backend interactively",
	Args:  cobra.NoArgs,
	RunE:  runConfigLLM,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List recognised config keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if settingsService == nil {
			return errors.New("settings service not configured")
		}
		for _, k := range settingsService.Keys() {
			cmd.Println(k)
		}
		return nil
	},
}

func init() {
	configCmd.PersistentFlags().BoolVar(&configPing, "ping", false, "check connectivity to the completion backend")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configLLMCmd)
	configCmd.AddCommand(configKeysCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", domain.Redact(settings.LLM.APIKey))
	}
	cmd.Printf("  Timeout: %s\n", settings.LLM.Timeout)
	cmd.Printf("  Status: %s\n", configuredStatus(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Knowledge]")
	cmd.Printf("  Path: %s\n", settings.Knowledge.Path)
	cmd.Printf("  Top K: %d\n", settings.Knowledge.TopK)
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	cmd.Printf("  Shutdown Timeout: %s\n", settings.Server.ShutdownTimeout)
	cmd.Println()

	cmd.Println("[WhatsApp]")
	cmd.Printf("  API URL: %s\n", settings.WhatsApp.APIURL)
	cmd.Printf("  Token: %s\n", domain.Redact(settings.WhatsApp.Token))
	cmd.Printf("  Verify Token: %s\n", domain.Redact(settings.WhatsApp.VerifyToken))
	cmd.Printf("  Rate: %g msg/s\n", settings.WhatsApp.RatePerSecond)
	cmd.Printf("  Status: %s\n", configuredStatus(settings.WhatsApp.IsConfigured()))
	cmd.Println()

	cmd.Println("[Telegram]")
	cmd.Printf("  API URL: %s\n", settings.Telegram.APIURL)
	cmd.Printf("  Token: %s\n", domain.Redact(settings.Telegram.Token))
	cmd.Printf("  Poll Timeout: %s\n", settings.Telegram.PollTimeout)
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Telegram.IsConfigured()))

	if configPing {
		cmd.Println()
		return runPing(cmd)
	}
	return nil
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func runPing(cmd *cobra.Command) error {
	if pingLLM == nil {
		return errors.New("completion backend check not available")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), pingTimeout)
	defer cancel()

	cmd.Print("Checking completion backend... ")
	if err := pingLLM(ctx); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("completion backend check failed: %w", err)
	}
	cmd.Println("OK")
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	var value string
	if len(args) == 2 {
		value = args[1]
	} else {
		cmd.Printf("Enter value for %s: ", key)
		value = readSecret(cmd.InOrStdin())
		cmd.Println()
	}

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if isSecretKey(key) {
		value = domain.Redact(value)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func isSecretKey(key string) bool {
	return strings.HasSuffix(key, "api_key") || strings.HasSuffix(key, "token")
}

func runConfigLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	in := cmd.InOrStdin()
	reader := bufio.NewReader(in)

	providers := []domain.AIProvider{
		domain.AIProviderGroq,
		domain.AIProviderOpenAI,
		domain.AIProviderAnthropic,
		domain.AIProviderOllama,
	}

	cmd.Println("Select LLM Provider")
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	provider := providers[idx-1]

	defaultModel := domain.DefaultModelFor(provider)
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if provider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readSecretFrom(in, reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	values := [][2]string{
		{"llm.provider", provider.String()},
		{"llm.model", model},
	}
	if apiKey != "" {
		values = append(values, [2]string{"llm.api_key", apiKey})
	}
	for _, kv := range values {
		if err := settingsService.Set(kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to configure LLM provider: %w", err)
		}
	}

	cmd.Printf("LLM provider configured: %s (%s)\n", provider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readSecret reads one line, without echo when in is a terminal.
func readSecret(in io.Reader) string {
	return readSecretFrom(in, bufio.NewReader(in))
}

func readSecretFrom(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	return readLine(reader)
}
