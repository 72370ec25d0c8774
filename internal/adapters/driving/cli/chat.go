package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/nexova-agent/internal/adapters/driving/tui"
	"github.com/custodia-labs/nexova-agent/internal/core/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the agent in the terminal",
	Long: `Launch an interactive terminal chat with the Nexova agent.

Controls:
  Enter    - Send the question
  Tab      - Switch between chat and knowledge search
  ↑/↓      - Scroll the transcript / move through passages
  Esc      - Back to the search input
  Ctrl+L   - Clear the conversation
  Ctrl+C   - Quit`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = errors.New("chat terminated unexpectedly")
		}
	}()

	topK := domain.DefaultTopK
	if settingsService != nil {
		if settings, serr := settingsService.Get(); serr == nil {
			topK = settings.Knowledge.TopK
		}
	}

	app, err := tui.NewApp(&tui.Ports{
		Chat:      chatService,
		Knowledge: knowledgeService,
		TopK:      topK,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
