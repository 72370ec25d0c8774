// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/nexova-agent/internal/core/domain"
)

// ReplyReceived carries the agent's answer to a question.
type ReplyReceived struct {
	Question string
	Text     string
}

// SearchCompleted carries retrieved passages back to the model.
type SearchCompleted struct {
	Query   string
	Results []domain.ScoredPassage
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the conversation with the agent.
	ViewChat ViewType = iota
	// ViewKnowledge is the passage retrieval browser.
	ViewKnowledge
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewKnowledge:
		return "knowledge"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
