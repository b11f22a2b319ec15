package telegram

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCommandName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want string
	}{
		{"/start", "start"},
		{"/reload@tweet_sentry_bot", "reload"},
		{"/help now please", "help"},
		{"not a command", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := commandName(tc.text); got != tc.want {
			t.Fatalf("commandName(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestBotRoutesCommandsFromConfiguredUser(t *testing.T) {
	t.Parallel()

	var served atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if served.Swap(true) {
			// subsequent polls return nothing
			_, _ = w.Write([]byte(`{"ok":true,"result":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":[
			{"update_id":10,"message":{"text":"/start","from":{"id":42}}},
			{"update_id":11,"message":{"text":"/start","from":{"id":99}}}
		]}`))
	}))
	defer server.Close()

	bot := NewBot("token", "42", discardLogger())
	bot.apiBase = server.URL
	bot.client = server.Client()

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	bot.Handle("start", func(ctx context.Context) {
		calls.Add(1)
		cancel()
	})

	done := make(chan error, 1)
	go func() { done <- bot.Run(ctx) }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("bot did not stop")
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("handler calls = %d, want 1 (foreign user must be ignored)", got)
	}
	if bot.offset != 12 {
		t.Fatalf("offset = %d, want 12", bot.offset)
	}
}
