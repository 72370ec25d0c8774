// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/nexova-agent/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/nexova-agent/internal/core/domain"
)

// PassageList displays retrieved passages in a navigable list.
type PassageList struct {
	passages []domain.ScoredPassage
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewPassageList creates a new passage list component.
func NewPassageList(s *styles.Styles) *PassageList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &PassageList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Update handles list navigation messages.
func (p *PassageList) Update(msg tea.Msg) (*PassageList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			p.MoveUp()
		case "down", "j":
			p.MoveDown()
		}
	}
	return p, nil
}

// View renders the passage list with the selected passage expanded.
func (p *PassageList) View() string {
	if len(p.passages) == 0 {
		return p.styles.Muted.Render("No relevant passages")
	}

	lines := make([]string, 0, len(p.passages)+4)
	lines = append(lines, p.styles.Subtitle.Render(fmt.Sprintf("Passages (%d)", len(p.passages))), "")

	for i := range p.passages {
		lines = append(lines, p.renderRow(i))
	}

	if sp := p.SelectedPassage(); sp != nil {
		lines = append(lines, "", p.styles.Border.Width(p.bodyWidth()).Render(sp.Text))
	}

	return strings.Join(lines, "\n")
}

// renderRow formats a one-line preview of a passage.
func (p *PassageList) renderRow(index int) string {
	sp := &p.passages[index]

	indicator := "  "
	if index == p.selected {
		indicator = "> "
	}

	preview := strings.ReplaceAll(sp.Text, "\n", " ")
	maxLen := p.width - 24
	if maxLen < 10 {
		maxLen = 10
	}
	if len(preview) > maxLen {
		preview = preview[:maxLen-3] + "..."
	}

	head := fmt.Sprintf("%s#%-3d %-*s", indicator, sp.Position, maxLen, preview)
	score := fmt.Sprintf("score %d", sp.Score)

	if index == p.selected {
		return p.styles.Selected.Render(head + "  " + score)
	}
	return p.styles.Normal.Render(head+"  ") + p.styles.Muted.Render(score)
}

func (p *PassageList) bodyWidth() int {
	if p.width < 24 {
		return 20
	}
	return p.width - 4
}

// SetPassages replaces the list contents and resets the selection.
func (p *PassageList) SetPassages(passages []domain.ScoredPassage) {
	p.passages = passages
	p.selected = 0
}

// Passages returns the current passages.
func (p *PassageList) Passages() []domain.ScoredPassage {
	return p.passages
}

// Selected returns the index of the selected passage.
func (p *PassageList) Selected() int {
	return p.selected
}

// SelectedPassage returns the currently selected passage, or nil if none.
func (p *PassageList) SelectedPassage() *domain.ScoredPassage {
	if p.selected < 0 || p.selected >= len(p.passages) {
		return nil
	}
	return &p.passages[p.selected]
}

// MoveUp moves selection up.
func (p *PassageList) MoveUp() {
	if p.selected > 0 {
		p.selected--
	}
}

// MoveDown moves selection down.
func (p *PassageList) MoveDown() {
	if p.selected < len(p.passages)-1 {
		p.selected++
	}
}

// SetDimensions sets the component dimensions.
func (p *PassageList) SetDimensions(width, height int) {
	p.width = width
	p.height = height
}

// Count returns the number of passages.
func (p *PassageList) Count() int {
	return len(p.passages)
}
