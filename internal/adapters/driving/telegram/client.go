// Package telegram provides the Telegram channel: a long-polling bot
// that answers text messages through the chat service.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/custodia-labs/nexova-agent/internal/ratelimit"
)

// Default client settings.
const (
	DefaultAPIURL = "https://api.telegram.org"

	// sendRate stays under the Bot API's global 30 messages per second.
	sendRate  = 25
	sendBurst = 5
)

// ErrMissingToken is returned when no bot token is configured.
var ErrMissingToken = errors.New("TELEGRAM_TOKEN is missing")

// Ensure Client satisfies the bot's API.
var _ API = (*Client)(nil)

// Client calls Bot API methods through telegram-bot-api.
type Client struct {
	api     *tgbotapi.BotAPI
	http    *http.Client
	limiter *ratelimit.Limiter
}

// contextClient binds a context to requests built by BotAPI, which
// creates them without one, and strips the token-bearing URL from
// transport errors.
type contextClient struct {
	ctx    context.Context
	client *http.Client
}

func (c *contextClient) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.client.Do(req.WithContext(c.ctx))
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = fmt.Errorf("telegram %s: %w", methodOf(req.URL), urlErr.Err)
		}
		return nil, err
	}
	return resp, nil
}

// methodOf returns the Bot API method, the last path element of u.
func methodOf(u *url.URL) string {
	if u == nil {
		return "request"
	}
	return u.Path[strings.LastIndexByte(u.Path, '/')+1:]
}

// NewClient creates a Bot API client and checks the token with getMe.
// httpTimeout must exceed the long-poll timeout used with GetUpdates.
func NewClient(ctx context.Context, apiURL, token string, httpTimeout time.Duration) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	httpClient := &http.Client{Timeout: httpTimeout}
	endpoint := strings.TrimRight(apiURL, "/") + "/bot%s/%s"
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &contextClient{ctx: ctx, client: httpClient})
	if err != nil {
		return nil, fmt.Errorf("connecting to Telegram: %w", err)
	}

	return &Client{
		api:     api,
		http:    httpClient,
		limiter: ratelimit.New(sendRate, sendBurst),
	}, nil
}

// Username returns the bot's account name as reported by getMe.
func (c *Client) Username() string {
	return c.api.Self.UserName
}

// with returns a shallow copy of the BotAPI whose requests carry ctx.
func (c *Client) with(ctx context.Context) *tgbotapi.BotAPI {
	api := *c.api
	api.Client = &contextClient{ctx: ctx, client: c.http}
	return &api
}

// GetUpdates long-polls for message updates from offset.
func (c *Client) GetUpdates(ctx context.Context, offset int, timeout time.Duration) ([]tgbotapi.Update, error) {
	config := tgbotapi.NewUpdate(offset)
	config.Timeout = int(timeout / time.Second)
	config.AllowedUpdates = []string{"message"}

	return c.with(ctx).GetUpdates(config)
}

// SendMessage sends text to a chat, quoting replyTo when non-zero.
// A 429 slows later sends by the server's retry_after.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, replyTo int) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo

	_, err := c.with(ctx).Send(msg)
	if wait, limited := RetryAfter(err); limited {
		c.limiter.Backoff(wait)
	}
	return err
}

// RetryAfter reports the wait a rate-limited Bot API error asks for.
func RetryAfter(err error) (time.Duration, bool) {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusTooManyRequests {
		return 0, false
	}
	return time.Duration(apiErr.RetryAfter) * time.Second, true
}
