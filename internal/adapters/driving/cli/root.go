// Package cli provides the command-line interface for Nexova.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/nexova-agent/internal/core/ports/driving"
	"github.com/custodia-labs/nexova-agent/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services holds the core services the commands drive.
type Services struct {
	Chat      driving.ChatService
	Knowledge driving.KnowledgeService
	Relay     driving.RelayService
	Settings  driving.SettingsService

	// PingLLM checks connectivity to the configured completion backend.
	PingLLM func(ctx context.Context) error
}

// Options carries the global flags to the bootstrap function.
type Options struct {
	// ConfigPath is the config file; empty selects the default location.
	ConfigPath string
}

// Bootstrap builds the services from global options.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var (
	chatService      driving.ChatService
	knowledgeService driving.KnowledgeService
	relayService     driving.RelayService
	settingsService  driving.SettingsService
	pingLLM          func(ctx context.Context) error

	bootstrap Bootstrap
)

// Global flags.
var (
	configPath string
	envFile    string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "nexova",
	Short: "Nexova AI support agent",
	Long: `Nexova answers customer questions from a plain-text knowledge base.

It serves a web chatbox and the WhatsApp webhook, runs a Telegram bot,
exposes its tools over MCP, and can be queried directly from the terminal.`,
	SilenceUsage:      true,
	PersistentPreRunE: initialise,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.nexova/config.toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading settings")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that wires services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs the services used by the commands.
func SetServices(s *Services) {
	chatService = s.Chat
	knowledgeService = s.Knowledge
	relayService = s.Relay
	settingsService = s.Settings
	pingLLM = s.PingLLM
}

// initialise applies global flags and wires services for every command
// except version.
func initialise(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd == versionCmd {
		return nil
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	if bootstrap == nil {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	services, err := bootstrap(ctx, Options{ConfigPath: configPath})
	if err != nil {
		return err
	}
	SetServices(services)
	return nil
}
