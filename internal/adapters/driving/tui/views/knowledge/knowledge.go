// Package knowledge provides a view for browsing passage retrieval.
package knowledge

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/nexova-agent/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/nexova-agent/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/nexova-agent/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/nexova-agent/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/nexova-agent/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/nexova-agent/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/nexova-agent/internal/core/ports/driving"
)

// View shows which passages a query would retrieve.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.PromptInput
	list      *list.PassageList
	statusbar *status.Bar

	knowledge driving.KnowledgeService
	topK      int
	ctx       context.Context

	query      string
	focusInput bool
	width      int
	height     int
	ready      bool
}

// NewView creates a new knowledge view.
func NewView(s *styles.Styles, km *keymap.KeyMap, knowledge driving.KnowledgeService, topK int) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewPromptInput(s, "Search: ", "Words to look up in the knowledge base..."),
		list:       list.NewPassageList(s),
		statusbar:  status.NewBar(s, km.KnowledgeHelp()),
		knowledge:  knowledge,
		topK:       topK,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context used for retrieval.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Focus()
}

// Update handles messages for the knowledge view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.SearchCompleted:
		v.query = msg.Query
		v.list.SetPassages(msg.Results)
		v.statusbar.SetState(status.StateResults)
		v.statusbar.SetResultCount(len(msg.Results))
		if len(msg.Results) > 0 {
			v.focusInput = false
			v.input.Blur()
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	if v.focusInput {
		if keymap.Matches(key, v.keymap.Send) {
			query := strings.TrimSpace(v.input.Value())
			if query == "" {
				return v, nil
			}
			v.statusbar.SetState(status.StateSearching)
			return v, v.search(query)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	if keymap.Matches(key, v.keymap.Back) {
		v.focusInput = true
		return v, v.input.Focus()
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) search(query string) tea.Cmd {
	knowledge, ctx, topK := v.knowledge, v.ctx, v.topK
	return func() tea.Msg {
		return messages.SearchCompleted{
			Query:   query,
			Results: knowledge.Retrieve(ctx, query, topK),
		}
	}
}

// View renders the knowledge view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	header := v.styles.Title.Render("Nexova Support") + "  " + v.styles.Muted.Render("knowledge")

	sections := []string{header, "", v.input.View(), ""}
	if v.query != "" {
		sections = append(sections, v.list.View(), "")
	}
	sections = append(sections, v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-8)
	v.statusbar.SetWidth(width)
}

// Reset clears the query and results and focuses the input.
func (v *View) Reset() {
	v.query = ""
	v.input.Reset()
	v.list.SetPassages(nil)
	v.statusbar.Clear()
	v.focusInput = true
}

// FocusInput returns whether typing goes to the query input.
func (v *View) FocusInput() bool {
	return v.focusInput
}

// Count returns the number of listed passages.
func (v *View) Count() int {
	return v.list.Count()
}
