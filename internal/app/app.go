package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"TweetSentry/internal/config"
	"TweetSentry/internal/infrastructure/oracle"
	"TweetSentry/internal/infrastructure/parser"
	"TweetSentry/internal/infrastructure/telegram"
	"TweetSentry/internal/logging"
	"TweetSentry/internal/search"
	"TweetSentry/internal/usecase"
)

const greeting = "Hi! I am your tweet sentry. I watch the stream for posts matching your topic, ask the judge whether each one is worth your time, and send you the ones that pass, together with the judge's reason, the date, the full content and the url. Use /help for commands."

const usage = "Use /start to begin monitoring, /stop to stop sending notifications, /reload to reload the judge's browser session."

// Application wires configs to the browser session, the search source, the
// dispatcher and the command surface.
type Application struct {
	cfg     config.Config
	logger  *slog.Logger
	running atomic.Bool
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	return &Application{cfg: cfg, logger: baseLogger}
}

// Run launches the browser, waits for the oracle session to become ready,
// and only then starts accepting commands. Blocks until the context is
// cancelled.
func (a *Application) Run(ctx context.Context) error {
	page, cleanup, err := a.openOraclePage()
	if err != nil {
		return err
	}
	defer cleanup()

	session := oracle.NewSession(page,
		a.cfg.Oracle.PollInterval(),
		a.cfg.Oracle.CompletionTimeout(),
		a.logger.With("component", "oracle"))

	if err := a.waitForLogin(ctx, session); err != nil {
		return err
	}

	registry := search.NewRegistry()
	registry.Register(parser.NewTimelineScanner(nil))
	source := parser.NewStrategySource(registry, a.cfg.Search.Sites, a.logger.With("component", "source"))

	notifier := telegram.NewNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.UserID)

	dispatcher := usecase.NewDispatcher(usecase.DispatcherDeps{
		Source:   source,
		Oracle:   session,
		Notifier: notifier,
		Logger:   a.logger.With("component", "dispatcher"),
		Policy: usecase.Policy{
			Terms:            a.cfg.Search.Terms,
			Interests:        a.cfg.Search.Interests,
			CycleInterval:    time.Duration(a.cfg.Dispatcher.CycleSec) * time.Second,
			ThrottleEvery:    a.cfg.Dispatcher.ThrottleEvery,
			ThrottlePause:    time.Duration(a.cfg.Dispatcher.ThrottleSec) * time.Second,
			Cooldown:         time.Duration(a.cfg.Dispatcher.CooldownSec) * time.Second,
			MaxIndeterminate: a.cfg.Dispatcher.MaxIndeterminate,
		},
	})

	bot := telegram.NewBot(a.cfg.Telegram.BotToken, a.cfg.Telegram.UserID, a.logger.With("component", "bot"))

	bot.Handle("start", func(ctx context.Context) {
		if !a.running.CompareAndSwap(false, true) {
			a.logger.Info("monitoring already running")
			return
		}
		if err := notifier.SendText(ctx, greeting); err != nil {
			a.logger.Warn("cannot deliver greeting", "error", err)
		}
		go func() {
			defer a.running.Store(false)
			if err := dispatcher.Run(ctx); err != nil {
				a.logger.Error("dispatcher stopped", "error", err)
			}
		}()
	})

	bot.Handle("stop", func(ctx context.Context) {
		dispatcher.Stop()
		if err := notifier.SendText(ctx, "The bot will stop sending notifications."); err != nil {
			a.logger.Warn("cannot deliver stop notice", "error", err)
		}
	})

	bot.Handle("reload", func(ctx context.Context) {
		if err := session.Reload(ctx); err != nil {
			a.logger.Warn("reload failed", "error", err)
		}
		if err := notifier.SendText(ctx, "Reloaded the browser!"); err != nil {
			a.logger.Warn("cannot deliver reload notice", "error", err)
		}
	})

	bot.Handle("help", func(ctx context.Context) {
		if err := notifier.SendText(ctx, usage); err != nil {
			a.logger.Warn("cannot deliver help text", "error", err)
		}
	})

	a.logger.Info("oracle ready, accepting commands")
	return bot.Run(ctx)
}

func (a *Application) openOraclePage() (*rod.Page, func(), error) {
	l := launcher.New().
		Headless(a.cfg.Oracle.Headless).
		UserDataDir(a.cfg.Oracle.UserDataDir)

	controlURL, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: a.cfg.Oracle.URL})
	if err != nil {
		_ = browser.Close()
		l.Cleanup()
		return nil, nil, fmt.Errorf("open oracle page: %w", err)
	}

	if err := page.WaitLoad(); err != nil {
		a.logger.Warn("oracle page load incomplete", "error", err)
	}

	cleanup := func() {
		_ = browser.Close()
		l.Cleanup()
	}
	return page, cleanup, nil
}

// waitForLogin blocks until the oracle's input surface appears. The whole
// system refuses to accept commands until then.
func (a *Application) waitForLogin(ctx context.Context, session *oracle.Session) error {
	for !session.IsReady() {
		a.logger.Info("oracle not ready, please log in in the browser window")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
	return nil
}
