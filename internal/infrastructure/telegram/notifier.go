package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"TweetSentry/internal/domain"
	"TweetSentry/internal/ports"
)

const defaultAPIBase = "https://api.telegram.org"

// Notifier sends judgements and status messages to a single recipient via
// the Bot API.
type Notifier struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and recipient identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  defaultAPIBase,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify posts the fixed-layout judgement payload as MarkdownV2. The
// reason arrives already escaped by the extractor and is embedded as-is;
// candidate fields are escaped here so the two never diverge in rendering.
func (n *Notifier) Notify(ctx context.Context, tweet domain.Tweet, reason string) error {
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", buildMessage(tweet, reason))
	form.Set("parse_mode", "MarkdownV2")
	return n.send(ctx, "sendMessage", form)
}

// SendText posts a plain status message without markup.
func (n *Notifier) SendText(ctx context.Context, text string) error {
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", text)
	return n.send(ctx, "sendMessage", form)
}

// SendTyping emits a chat action so the recipient can see the system is
// alive while the oracle is generating.
func (n *Notifier) SendTyping(ctx context.Context) error {
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("action", "typing")
	return n.send(ctx, "sendChatAction", form)
}

func (n *Notifier) send(ctx context.Context, method string, form url.Values) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", n.apiBase, n.botToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return retryAfterFromBody(resp.Body)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

// retryAfterFromBody surfaces the channel's rate-limit signal as a typed
// error so the dispatcher can sleep exactly as long as requested.
func retryAfterFromBody(body io.Reader) error {
	var payload struct {
		Parameters struct {
			RetryAfter int `json:"retry_after"`
		} `json:"parameters"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 4096)).Decode(&payload); err != nil || payload.Parameters.RetryAfter <= 0 {
		return &domain.RetryAfterError{After: time.Second}
	}
	return &domain.RetryAfterError{After: time.Duration(payload.Parameters.RetryAfter) * time.Second}
}

func buildMessage(tweet domain.Tweet, reason string) string {
	divider := EscapeMarkdownV2(strings.Repeat("-", 36))

	var b strings.Builder
	b.WriteString("*Judgement:* ")
	b.WriteString(reason)
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n*Date:* ")
	b.WriteString(EscapeMarkdownV2(tweet.PostedAt.Format("2006-01-02 15:04")))
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n*Content:*\n")
	b.WriteString(EscapeMarkdownV2(tweet.Content))
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n*Url:*\n")
	b.WriteString(EscapeMarkdownV2(tweet.URL))
	return b.String()
}
