package ports

import (
	"context"

	"TweetSentry/internal/domain"
)

// TweetSource pulls candidate tweets matching a search query from
// configured mirrors. Ordering is mirror-native (newest first).
type TweetSource interface {
	FetchQuery(ctx context.Context, query string) ([]domain.Tweet, error)
}

// Oracle drives the single long-lived interactive session with the judge.
// Implementations must serialize all calls; there is exactly one reply
// stream and a second concurrent submission would corrupt it.
type Oracle interface {
	// Submit injects a prompt into the input surface and triggers it.
	// Returns domain.ErrSessionUnavailable when the surface is missing.
	Submit(ctx context.Context, prompt string) error
	// AwaitCompletion polls the generation indicator until it disappears
	// or the timeout elapses, invoking heartbeat at the poll cadence.
	AwaitCompletion(ctx context.Context, heartbeat func()) domain.CompletionStatus
	// ExtractLatest reassembles the most recent rendered reply. Returns
	// domain.ErrDisconnected when the reply container cannot be queried.
	ExtractLatest() (domain.ExtractedDocument, error)
	// Reload forces a full reset of the underlying surface; this is the
	// sole recovery action for malformed or absent verdicts.
	Reload(ctx context.Context) error
	// IsReady reports whether the input surface is present.
	IsReady() bool
}

// Notifier delivers messages to the configured recipient.
type Notifier interface {
	// Notify sends the fixed-layout judgement payload for one tweet.
	// May return *domain.RetryAfterError on a channel rate limit.
	Notify(ctx context.Context, tweet domain.Tweet, reason string) error
	// SendText sends a plain status message.
	SendText(ctx context.Context, text string) error
	// SendTyping emits a liveness signal to the recipient's chat.
	SendTyping(ctx context.Context) error
}
