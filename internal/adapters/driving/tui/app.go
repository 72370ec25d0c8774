package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/nexova-agent/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/nexova-agent/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/nexova-agent/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/nexova-agent/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/nexova-agent/internal/adapters/driving/tui/views/knowledge"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	keymap *keymap.KeyMap

	chatView      *chat.View
	knowledgeView *knowledge.View

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		keymap:        km,
		chatView:      chat.NewView(s, km, ports.Chat),
		knowledgeView: knowledge.NewView(s, km, ports.Knowledge, ports.TopK),
		currentView:   messages.ViewChat,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	a.knowledgeView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("nexova - Support Chat"),
		a.chatView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		key := msg.String()
		if keymap.Matches(key, a.keymap.Quit) {
			return a, tea.Quit
		}
		if keymap.Matches(key, a.keymap.SwitchView) {
			next := messages.ViewKnowledge
			if a.currentView == messages.ViewKnowledge {
				next = messages.ViewChat
			}
			return a.Update(messages.ViewChanged{View: next})
		}

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewKnowledge {
			return a, a.knowledgeView.Init()
		}
		return a, a.chatView.Init()

	case messages.ReplyReceived:
		// Replies land in the chat view even if the user switched away.
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.SearchCompleted:
		a.knowledgeView, cmd = a.knowledgeView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	if a.currentView == messages.ViewKnowledge {
		a.knowledgeView, cmd = a.knowledgeView.Update(msg)
		return a, cmd
	}
	a.chatView, cmd = a.chatView.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	if a.currentView == messages.ViewKnowledge {
		return a.knowledgeView.View()
	}
	return a.chatView.View()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

// Transcript returns the chat turns so far.
func (a *App) Transcript() []chat.Turn {
	return a.chatView.Turns()
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.chatView.SetDimensions(width, height)
	a.knowledgeView.SetDimensions(width, height)
}
