package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"TweetSentry/internal/domain"
	"TweetSentry/internal/ports"
	"TweetSentry/internal/verdict"
)

const disconnectedNotice = "Server probably disconnected, try running /reload"

// Policy tunes the dispatch loop. Zero values fall back to production
// defaults.
type Policy struct {
	Terms            string
	Interests        string
	CycleInterval    time.Duration
	ThrottleEvery    int
	ThrottlePause    time.Duration
	Cooldown         time.Duration
	MaxIndeterminate int
}

func (p Policy) withDefaults() Policy {
	if p.CycleInterval <= 0 {
		p.CycleInterval = 60 * time.Second
	}
	if p.ThrottleEvery <= 0 {
		p.ThrottleEvery = 20
	}
	if p.ThrottlePause <= 0 {
		p.ThrottlePause = 90 * time.Second
	}
	if p.Cooldown <= 0 {
		p.Cooldown = 5 * time.Minute
	}
	if p.MaxIndeterminate <= 0 {
		p.MaxIndeterminate = 5
	}
	return p
}

// DispatcherDeps wires all driven adapters into the dispatch loop.
type DispatcherDeps struct {
	Source   ports.TweetSource
	Oracle   ports.Oracle
	Notifier ports.Notifier
	Logger   *slog.Logger
	Policy   Policy
}

// Dispatcher sequences candidates through the judge and delivers accepted
// ones, owning the seen-set and all retry and throttling policy. It is the
// sole submitter to the oracle; judging is strictly sequential because the
// session has exactly one reply stream.
type Dispatcher struct {
	source   ports.TweetSource
	oracle   ports.Oracle
	notifier ports.Notifier
	logger   *slog.Logger
	policy   Policy

	query string
	seen  map[string]struct{}
	stop  atomic.Bool

	// injected for tests
	sleep func(time.Duration)
	now   func() time.Time
}

// NewDispatcher constructs the loop with real clocks.
func NewDispatcher(deps DispatcherDeps) *Dispatcher {
	return &Dispatcher{
		source:   deps.Source,
		oracle:   deps.Oracle,
		notifier: deps.Notifier,
		logger:   deps.Logger,
		policy:   deps.Policy.withDefaults(),
		seen:     map[string]struct{}{},
		sleep:    time.Sleep,
		now:      time.Now,
	}
}

// Stop requests a cooperative stop; the loop exits before its next cycle
// rather than mid-cycle.
func (d *Dispatcher) Stop() {
	d.stop.Store(true)
}

// Run executes fetch/judge/notify cycles until stopped or the context is
// cancelled. No single candidate's failure terminates the loop.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.stop.Store(false)
	d.query = BuildQuery(d.policy.Terms, d.now())

	for !d.stop.Load() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if query, rolled := Rescope(d.query, d.policy.Terms, d.now()); rolled {
			d.logger.Info("day rolled over, rescoping query", "query", query)
			d.query = query
			d.seen = map[string]struct{}{}
		}

		if err := d.runCycle(ctx); err != nil {
			d.logger.Warn("cycle failed", "error", err)
		}

		d.sleep(d.policy.CycleInterval)
	}

	d.logger.Info("dispatcher stopped")
	return nil
}

// runCycle fetches the current scope and judges every unseen candidate,
// oldest first. A candidate is marked seen strictly after its terminal
// outcome so an accepted-but-undelivered tweet is never silently lost.
func (d *Dispatcher) runCycle(ctx context.Context) error {
	tweets, err := d.source.FetchQuery(ctx, d.query)
	if err != nil {
		return fmt.Errorf("fetch query: %w", err)
	}

	sent := 0
	for i := len(tweets) - 1; i >= 0; i-- {
		tweet := tweets[i]
		if _, ok := d.seen[tweet.ID]; ok {
			continue
		}

		result := d.judge(ctx, tweet)
		if result.Decision == domain.DecisionAccept {
			d.deliver(ctx, tweet, result.Reason, &sent)
		}

		d.seen[tweet.ID] = struct{}{}
	}

	return nil
}

// judge runs one candidate through the oracle, retrying indeterminate
// replies with a cooldown and session reload between attempts. Retries are
// bounded; on exhaustion the candidate is abandoned and the operator is
// told.
func (d *Dispatcher) judge(ctx context.Context, tweet domain.Tweet) domain.Verdict {
	prompt := BuildPrompt(d.policy.Interests, tweet.Content)

	for attempt := 0; attempt < d.policy.MaxIndeterminate; attempt++ {
		if attempt > 0 {
			d.logger.Warn("indeterminate reply, cooling down before retry",
				"tweet", tweet.ID, "attempt", attempt)
			d.sleep(d.policy.Cooldown)
			if err := d.oracle.Reload(ctx); err != nil {
				d.logger.Warn("reload failed", "error", err)
			}
		}

		if err := d.oracle.Submit(ctx, prompt); err != nil {
			if errors.Is(err, domain.ErrSessionUnavailable) {
				if sendErr := d.notifier.SendText(ctx, disconnectedNotice); sendErr != nil {
					d.logger.Warn("cannot deliver disconnect notice", "error", sendErr)
				}
			}
			continue
		}

		status := d.oracle.AwaitCompletion(ctx, d.heartbeat(ctx))
		if status == domain.CompletionUnreachable {
			continue
		}
		// CompletionTimedOut still proceeds to extraction: the oracle may
		// have partially completed or silently hung.

		doc, err := d.oracle.ExtractLatest()
		if err != nil {
			continue
		}

		v := verdict.Parse(doc.PlainText())
		if v.Decision != domain.DecisionIndeterminate {
			return v
		}
	}

	d.logger.Error("abandoning candidate after repeated indeterminate replies",
		"tweet", tweet.ID, "attempts", d.policy.MaxIndeterminate)
	notice := fmt.Sprintf("Giving up on %s after %d indeterminate replies.", tweet.URL, d.policy.MaxIndeterminate)
	if err := d.notifier.SendText(ctx, notice); err != nil {
		d.logger.Warn("cannot deliver abandon notice", "error", err)
	}
	return domain.Verdict{Decision: domain.DecisionIndeterminate}
}

// deliver sends one notification. A channel-reported retry-after signal is
// honored once; any other delivery error abandons this notification only.
// Every ThrottleEvery successful sends within a cycle, a courtesy pause is
// inserted regardless of channel-reported limits.
func (d *Dispatcher) deliver(ctx context.Context, tweet domain.Tweet, reason string, sent *int) {
	err := d.notifier.Notify(ctx, tweet, reason)

	var retry *domain.RetryAfterError
	if errors.As(err, &retry) {
		d.logger.Info("delivery rate limited", "tweet", tweet.ID, "wait", retry.After)
		d.sleep(retry.After)
		err = d.notifier.Notify(ctx, tweet, reason)
	}

	if err != nil {
		d.logger.Warn("notification abandoned", "tweet", tweet.ID, "error", err)
		return
	}

	*sent++
	if *sent%d.policy.ThrottleEvery == 0 {
		d.logger.Info("courtesy throttle", "sent", *sent, "pause", d.policy.ThrottlePause)
		d.sleep(d.policy.ThrottlePause)
	}
}

func (d *Dispatcher) heartbeat(ctx context.Context) func() {
	return func() {
		if err := d.notifier.SendTyping(ctx); err != nil {
			d.logger.Debug("typing signal failed", "error", err)
		}
	}
}
