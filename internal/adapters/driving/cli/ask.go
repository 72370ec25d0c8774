package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// maxStdinQuestion bounds a question read from stdin.
const maxStdinQuestion = 64 << 10

var askRaw bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the agent a question",
	Long: `Ask the Nexova agent a single question and print its reply.

The question is taken from the arguments, or from stdin when no arguments
are given and stdin is not a terminal. Replies are rendered as Markdown
when stdout is a terminal; use --raw to print them verbatim.`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askRaw, "raw", false, "print the reply without Markdown rendering")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	question, err := readQuestion(cmd, args)
	if err != nil {
		return err
	}

	reply := chatService.GetResponse(cmd.Context(), question)

	if !askRaw {
		if width, ok := terminalWidth(cmd.OutOrStdout()); ok {
			if rendered, err := renderMarkdown(reply, width); err == nil {
				cmd.Print(rendered)
				return nil
			}
		}
	}

	cmd.Println(reply)
	return nil
}

// readQuestion joins args, or reads a piped stdin when there are none.
func readQuestion(cmd *cobra.Command, args []string) (string, error) {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question != "" {
		return question, nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", errors.New("no question given")
	}

	data, err := io.ReadAll(io.LimitReader(in, maxStdinQuestion))
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	question = strings.TrimSpace(string(data))
	if question == "" {
		return "", errors.New("no question given")
	}
	return question, nil
}

// terminalWidth reports the width of w when it is a terminal.
func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 80, true
	}
	return width, true
}

func renderMarkdown(text string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return "", err
	}
	return r.Render(text)
}
