package telegram

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/custodia-labs/nexova-agent/internal/core/ports/driving"
	"github.com/custodia-labs/nexova-agent/internal/logger"
)

// Greeting answers /start without consulting the model.
const Greeting = "Hello! I am the Nexova AI Agent. Ask me anything about our services!"

// Poll error backoff bounds.
const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

// API is the subset of the Bot API the bot uses.
type API interface {
	GetUpdates(ctx context.Context, offset int, timeout time.Duration) ([]tgbotapi.Update, error)
	SendMessage(ctx context.Context, chatID int64, text string, replyTo int) error
}

// Bot answers Telegram text messages with the chat service.
type Bot struct {
	api         API
	chat        driving.ChatService
	pollTimeout time.Duration
	sleep       func(ctx context.Context, d time.Duration) bool
}

// NewBot creates a bot polling api and answering through chat.
func NewBot(api API, chat driving.ChatService, pollTimeout time.Duration) *Bot {
	return &Bot{
		api:         api,
		chat:        chat,
		pollTimeout: pollTimeout,
		sleep:       sleepCtx,
	}
}

// Run polls until ctx is cancelled. Updates are handled in order, and
// the offset only advances past an update once it has been handled.
func (b *Bot) Run(ctx context.Context) error {
	var offset int
	backoff := minBackoff

	logger.Info("Telegram bot polling (timeout %s)", b.pollTimeout)
	for {
		if ctx.Err() != nil {
			return nil
		}

		updates, err := b.api.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			wait := backoff
			if retry, limited := RetryAfter(err); limited && retry > wait {
				wait = retry
			}
			logger.Warn("Telegram poll failed, retrying in %s: %v", wait, err)
			if !b.sleep(ctx, wait) {
				return nil
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}
		backoff = minBackoff

		for _, update := range updates {
			b.Handle(ctx, update)
			offset = update.UpdateID + 1
		}
	}
}

// Handle answers a single update.
func (b *Bot) Handle(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		return
	}

	id := uuid.NewString()
	var reply string
	if command, ok := parseCommand(msg.Text); ok {
		if command != "/start" {
			logger.Debug("[%s] Ignoring command %s", id, command)
			return
		}
		reply = Greeting
	} else {
		logger.Info("[%s] Telegram message from chat %d", id, msg.Chat.ID)
		reply = b.chat.GetResponse(ctx, msg.Text)
	}

	if err := b.api.SendMessage(ctx, msg.Chat.ID, reply, msg.MessageID); err != nil {
		logger.Warn("[%s] Telegram reply to chat %d failed: %v", id, msg.Chat.ID, err)
	}
}

// parseCommand returns the bot command at the start of text, without any
// @botname suffix.
func parseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	command := strings.Fields(text)[0]
	if at := strings.IndexByte(command, '@'); at > 0 {
		command = command[:at]
	}
	return command, true
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
