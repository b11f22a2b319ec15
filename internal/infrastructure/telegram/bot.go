package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Bot long-polls getUpdates and routes slash commands from the configured
// recipient. Messages from anyone else are dropped.
type Bot struct {
	botToken string
	userID   string
	apiBase  string
	client   *http.Client
	logger   *slog.Logger
	handlers map[string]func(ctx context.Context)
	offset   int64
}

type update struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		From struct {
			ID int64 `json:"id"`
		} `json:"from"`
	} `json:"message"`
}

// NewBot builds a command router for one recipient.
func NewBot(botToken, userID string, logger *slog.Logger) *Bot {
	return &Bot{
		botToken: botToken,
		userID:   userID,
		apiBase:  defaultAPIBase,
		client:   &http.Client{Timeout: 40 * time.Second},
		logger:   logger,
		handlers: map[string]func(ctx context.Context){},
	}
}

// Handle registers a handler for a command name without the leading slash.
func (b *Bot) Handle(command string, fn func(ctx context.Context)) {
	b.handlers[command] = fn
}

// Run polls for updates until the context is cancelled. Poll failures are
// logged and retried after a short pause rather than terminating the loop.
func (b *Bot) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		updates, err := b.poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.logger.Warn("poll updates failed", "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, u := range updates {
			b.dispatch(ctx, u)
		}
	}
}

func (b *Bot) poll(ctx context.Context) ([]update, error) {
	form := url.Values{}
	form.Set("timeout", "30")
	form.Set("offset", strconv.FormatInt(b.offset, 10))

	endpoint := fmt.Sprintf("%s/bot%s/getUpdates", b.apiBase, b.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram error: %s", resp.Status)
	}

	var payload struct {
		OK     bool     `json:"ok"`
		Result []update `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}
	if !payload.OK {
		return nil, fmt.Errorf("telegram responded not ok")
	}

	return payload.Result, nil
}

func (b *Bot) dispatch(ctx context.Context, u update) {
	if u.UpdateID >= b.offset {
		b.offset = u.UpdateID + 1
	}
	if u.Message == nil {
		return
	}
	if strconv.FormatInt(u.Message.From.ID, 10) != b.userID {
		b.logger.Debug("ignoring message from unknown user", "user", u.Message.From.ID)
		return
	}

	name := commandName(u.Message.Text)
	if name == "" {
		return
	}

	handler, ok := b.handlers[name]
	if !ok {
		b.logger.Debug("unknown command", "command", name)
		return
	}

	b.logger.Info("command received", "command", name)
	handler(ctx)
}

func commandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	return name
}
