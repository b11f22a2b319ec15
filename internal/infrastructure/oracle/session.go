// Package oracle drives a single long-lived browser session against the
// judge's chat UI. The UI offers no request/response contract, so success
// is inferred from DOM polling and failures are reported as typed errors
// the dispatcher can act on.
package oracle

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"TweetSentry/internal/domain"
	"TweetSentry/internal/ports"
)

const (
	inputSelector = "textarea"
	busySelector  = "textarea + button .text-2xl"
	replySelector = `div[class*="request-"]`

	lookupTimeout = 2 * time.Second
)

// inputSurface is the slice of rod.Element the submit sequence needs.
type inputSurface interface {
	Click(button proto.InputMouseButton, count int) error
	SelectAllText() error
	Input(text string) error
	Type(keys ...input.Key) error
}

// Session owns the page showing the judge's chat. All operations are
// serialized by an internal mutex; a reload command may arrive while the
// dispatcher is mid-cycle.
type Session struct {
	page *rod.Page

	mu     sync.Mutex
	state  domain.SessionState
	logger *slog.Logger

	pollInterval      time.Duration
	completionTimeout time.Duration

	// injected for tests
	findInput func() (inputSurface, error)
}

var _ ports.Oracle = (*Session)(nil)

// NewSession wraps an already-navigated page.
func NewSession(page *rod.Page, pollInterval, completionTimeout time.Duration, logger *slog.Logger) *Session {
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	if completionTimeout <= 0 {
		completionTimeout = 90 * time.Second
	}
	return &Session{
		page:              page,
		state:             domain.StateUnauthenticated,
		logger:            logger,
		pollInterval:      pollInterval,
		completionTimeout: completionTimeout,
	}
}

// State returns the last observed session state.
func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsReady reports whether the input surface is present. The application
// refuses to register command handlers until this returns true.
func (s *Session) IsReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.inputBox(); err != nil {
		return false
	}
	s.state = domain.StateReady
	return true
}

// Submit locates the input surface, replaces its contents with the prompt,
// and triggers submission. Returns domain.ErrSessionUnavailable when the
// surface is missing; the session is then considered disconnected.
func (s *Session) Submit(ctx context.Context, prompt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lookup := s.findInput
	if lookup == nil {
		lookup = s.liveInput
	}
	box, err := lookup()
	if err != nil {
		s.state = domain.StateDisconnected
		return domain.ErrSessionUnavailable
	}

	if err := box.Click(proto.InputMouseButtonLeft, 1); err != nil {
		s.state = domain.StateDisconnected
		return domain.ErrSessionUnavailable
	}
	// Select any residual text so Input replaces rather than appends; a
	// prior attempt may have filled the box without submitting.
	if err := box.SelectAllText(); err != nil {
		s.state = domain.StateDisconnected
		return domain.ErrSessionUnavailable
	}
	if err := box.Input(prompt); err != nil {
		s.state = domain.StateDisconnected
		return domain.ErrSessionUnavailable
	}
	if err := box.Type(input.Enter); err != nil {
		s.state = domain.StateDisconnected
		return domain.ErrSessionUnavailable
	}

	s.state = domain.StateBusy
	return nil
}

// AwaitCompletion polls the generation indicator until it disappears or
// the timeout elapses, invoking heartbeat at the poll cadence so the
// recipient can see the system is alive. A timeout is not a hard failure:
// the caller still attempts extraction, since the oracle may have partially
// completed or silently hung.
func (s *Session) AwaitCompletion(ctx context.Context, heartbeat func()) domain.CompletionStatus {
	deadline := time.Now().Add(s.completionTimeout)

	for {
		if heartbeat != nil {
			heartbeat()
		}

		busy, err := s.page.Elements(busySelector)
		if err != nil {
			s.setState(domain.StateDisconnected)
			return domain.CompletionUnreachable
		}
		if len(busy) == 0 {
			s.setState(domain.StateReady)
			return domain.CompletionDone
		}
		if time.Now().After(deadline) {
			return domain.CompletionTimedOut
		}

		select {
		case <-ctx.Done():
			return domain.CompletionTimedOut
		case <-time.After(s.pollInterval):
		}
	}
}

// Reload forces a full page reload and re-derives the session state. This
// is the sole recovery action for malformed or absent verdicts.
func (s *Session) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.page.Reload(); err != nil {
		s.state = domain.StateDisconnected
		return domain.ErrSessionUnavailable
	}
	if err := s.page.WaitLoad(); err != nil {
		s.state = domain.StateDisconnected
		return domain.ErrSessionUnavailable
	}

	if _, err := s.inputBox(); err != nil {
		s.state = domain.StateUnauthenticated
		s.logger.Warn("input surface missing after reload, login may be required")
		return nil
	}

	s.state = domain.StateReady
	return nil
}

func (s *Session) inputBox() (*rod.Element, error) {
	return s.page.Timeout(lookupTimeout).Element(inputSelector)
}

func (s *Session) liveInput() (inputSurface, error) {
	el, err := s.inputBox()
	if err != nil {
		return nil, err
	}
	return el, nil
}

func (s *Session) setState(state domain.SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}
