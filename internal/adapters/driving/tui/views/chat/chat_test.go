package chat

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nexova-agent/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/nexova-agent/internal/adapters/driving/tui/messages"
)

type stubChat struct {
	reply    string
	received []string
}

func (s *stubChat) GetResponse(_ context.Context, message string) string {
	s.received = append(s.received, message)
	return s.reply
}

func typeText(v *View, text string) {
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, &stubChat{})

	require.NotNil(t, v)
	require.Len(t, v.Turns(), 1)
	assert.Equal(t, SpeakerAgent, v.Turns()[0].Speaker)
	assert.Equal(t, Greeting, v.Turns()[0].Text)
	assert.False(t, v.Waiting())
}

func TestView_SubmitAsksChatService(t *testing.T) {
	chat := &stubChat{reply: "We build chatbots."}
	v := NewView(nil, nil, chat)
	v.SetDimensions(100, 30)

	typeText(v, "What do you do?")
	assert.Equal(t, "What do you do?", v.InputValue())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	assert.True(t, v.Waiting())
	assert.Equal(t, "", v.InputValue())
	assert.Equal(t, status.StateThinking, v.statusbar.State())
	require.Len(t, v.Turns(), 2)
	assert.Equal(t, SpeakerUser, v.Turns()[1].Speaker)

	reply := v.ask("What do you do?")()
	v.Update(reply)

	assert.False(t, v.Waiting())
	assert.Equal(t, []string{"What do you do?"}, chat.received)
	require.Len(t, v.Turns(), 3)
	assert.Equal(t, "We build chatbots.", v.Turns()[2].Text)
	assert.Equal(t, status.StateReady, v.statusbar.State())
}

func TestView_SubmitIgnoresBlankInput(t *testing.T) {
	v := NewView(nil, nil, &stubChat{})

	typeText(v, "   ")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Len(t, v.Turns(), 1)
}

func TestView_SubmitWhileWaiting(t *testing.T) {
	v := NewView(nil, nil, &stubChat{})
	typeText(v, "first")
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	typeText(v, "second")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Len(t, v.Turns(), 2)
	assert.Equal(t, "second", v.InputValue())
}

func TestView_Clear(t *testing.T) {
	v := NewView(nil, nil, &stubChat{})
	v.Update(messages.ReplyReceived{Text: "hello"})
	require.Len(t, v.Turns(), 2)

	v.Update(tea.KeyMsg{Type: tea.KeyCtrlL})

	require.Len(t, v.Turns(), 1)
	assert.Equal(t, Greeting, v.Turns()[0].Text)
}

func TestView_View(t *testing.T) {
	v := NewView(nil, nil, &stubChat{})
	assert.Equal(t, "Initialising...", v.View())

	v.SetDimensions(100, 30)
	view := v.View()

	assert.Contains(t, view, "Nexova Support")
	assert.Contains(t, view, "You:")
}
