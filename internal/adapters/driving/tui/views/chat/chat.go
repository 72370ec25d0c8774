// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/nexova-agent/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/nexova-agent/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/nexova-agent/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/nexova-agent/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/nexova-agent/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/nexova-agent/internal/core/ports/driving"
)

// Greeting opens every transcript.
const Greeting = "Hello! I am the Nexova AI Agent. Ask me anything about our services!"

// chromeHeight is the space taken by the header, input and status bar.
const chromeHeight = 8

// Speaker identifies who said a turn.
type Speaker string

const (
	SpeakerUser  Speaker = "You"
	SpeakerAgent Speaker = "Nexova"
)

// Turn is one line of the conversation.
type Turn struct {
	Speaker Speaker
	Text    string
	At      time.Time
}

// View is the chat transcript with an input line.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.PromptInput
	viewport  viewport.Model
	spinner   spinner.Model
	statusbar *status.Bar
	renderer  *glamour.TermRenderer

	chat driving.ChatService
	ctx  context.Context

	turns   []Turn
	waiting bool
	width   int
	height  int
	ready   bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, chat driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	v := &View{
		styles:    s,
		keymap:    km,
		input:     input.NewPromptInput(s, "You: ", "Ask about Nexova..."),
		viewport:  viewport.New(80, 16),
		spinner:   sp,
		statusbar: status.NewBar(s, km.ChatHelp()),
		chat:      chat,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
	v.turns = []Turn{{Speaker: SpeakerAgent, Text: Greeting, At: time.Now()}}
	v.setRenderer(80)
	v.refresh()
	return v
}

// WithContext sets the context used for chat requests.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.ReplyReceived:
		v.waiting = false
		v.statusbar.SetState(status.StateReady)
		v.append(SpeakerAgent, msg.Text)
		return v, nil

	case spinner.TickMsg:
		if !v.waiting {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keymap.Send):
		return v, v.submit()

	case keymap.Matches(key, v.keymap.Clear):
		v.turns = []Turn{{Speaker: SpeakerAgent, Text: Greeting, At: time.Now()}}
		v.statusbar.SetMessage("Conversation cleared")
		v.refresh()
		return v, nil

	case keymap.Matches(key, v.keymap.Up), keymap.Matches(key, v.keymap.Down):
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit sends the typed question, unless one is already pending.
func (v *View) submit() tea.Cmd {
	question := strings.TrimSpace(v.input.Value())
	if question == "" || v.waiting {
		return nil
	}

	v.input.Reset()
	v.append(SpeakerUser, question)
	v.waiting = true
	v.statusbar.SetMessage("")
	v.statusbar.SetState(status.StateThinking)

	return tea.Batch(v.ask(question), v.spinner.Tick)
}

func (v *View) ask(question string) tea.Cmd {
	chat, ctx := v.chat, v.ctx
	return func() tea.Msg {
		return messages.ReplyReceived{
			Question: question,
			Text:     chat.GetResponse(ctx, question),
		}
	}
}

func (v *View) append(speaker Speaker, text string) {
	v.turns = append(v.turns, Turn{Speaker: speaker, Text: text, At: time.Now()})
	v.refresh()
}

// refresh re-renders the transcript and scrolls to the newest turn.
func (v *View) refresh() {
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

func (v *View) renderTranscript() string {
	var b strings.Builder
	for i, t := range v.turns {
		if i > 0 {
			b.WriteString("\n")
		}
		label := v.styles.AgentLabel
		body := v.renderMarkdown(t.Text)
		if t.Speaker == SpeakerUser {
			label = v.styles.UserLabel
			body = v.styles.Normal.Render(t.Text)
		}
		b.WriteString(label.Render(string(t.Speaker)+":") + " " + v.styles.Muted.Render(t.At.Format("15:04")))
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}

// renderMarkdown renders agent text, falling back to plain text.
func (v *View) renderMarkdown(text string) string {
	if v.renderer == nil {
		return v.styles.Normal.Render(text)
	}
	out, err := v.renderer.Render(text)
	if err != nil {
		return v.styles.Normal.Render(text)
	}
	return strings.TrimRight(out, "\n")
}

func (v *View) setRenderer(width int) {
	wrap := width - 8
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		r = nil
	}
	v.renderer = r
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	header := v.styles.Title.Render("Nexova Support") + "  " + v.styles.Muted.Render("chat")

	prompt := v.input.View()
	if v.waiting {
		prompt = v.spinner.View() + " " + v.styles.Muted.Render("Nexova is typing...")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		v.viewport.View(),
		"",
		prompt,
		v.statusbar.View(),
	)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.viewport.Width = width
	vpHeight := height - chromeHeight
	if vpHeight < 3 {
		vpHeight = 3
	}
	v.viewport.Height = vpHeight
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.setRenderer(width)
	v.refresh()
}

// Turns returns the transcript so far.
func (v *View) Turns() []Turn {
	return v.turns
}

// Waiting returns whether a question is awaiting its reply.
func (v *View) Waiting() bool {
	return v.waiting
}

// InputValue returns the text currently typed.
func (v *View) InputValue() string {
	return v.input.Value()
}
