package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/nexova-agent/internal/adapters/driving/telegram"
	"github.com/custodia-labs/nexova-agent/internal/logger"
)

// pollSlack is added to the long-poll timeout for the HTTP client timeout.
const pollSlack = 10

var telegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Run the Telegram bot",
	Long: `Run the Telegram bot using long polling.

/start is answered with a greeting, other commands are ignored, and every
other text message is answered from the knowledge base as a reply to the
user's message. Requires TELEGRAM_TOKEN or telegram.token.`,
	Args: cobra.NoArgs,
	RunE: runTelegram,
}

func init() {
	rootCmd.AddCommand(telegramCmd)
}

// newTelegramBot connects to the Bot API, which checks the token.
// Replaced in tests.
var newTelegramBot = func(ctx context.Context, apiURL, token string, pollTimeout int) (runner, error) {
	client, err := telegram.NewClient(ctx, apiURL, token, secondsToDuration(pollTimeout+pollSlack))
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to Telegram as @%s", client.Username())
	return telegram.NewBot(client, chatService, secondsToDuration(pollTimeout)), nil
}

func runTelegram(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.Telegram.IsConfigured() {
		return telegram.ErrMissingToken
	}

	bot, err := newTelegramBot(
		cmd.Context(),
		settings.Telegram.APIURL,
		settings.Telegram.Token,
		int(settings.Telegram.PollTimeout.Seconds()),
	)
	if err != nil {
		return err
	}

	logger.Info("Telegram bot polling %s", settings.Telegram.APIURL)
	cmd.Println("Nexova Telegram bot is running. Press Ctrl+C to stop.")
	return bot.Run(cmd.Context())
}
