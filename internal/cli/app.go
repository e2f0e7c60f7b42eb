// Package cli wires the build console: configuration, logging, the build
// server client and the use cases shared by the TUI and headless commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/bnema/buildsel/internal/application/port"
	"github.com/bnema/buildsel/internal/application/state"
	"github.com/bnema/buildsel/internal/application/usecase"
	"github.com/bnema/buildsel/internal/cli/styles"
	"github.com/bnema/buildsel/internal/config"
	"github.com/bnema/buildsel/internal/domain/build"
	"github.com/bnema/buildsel/internal/infrastructure/api"
	"github.com/bnema/buildsel/internal/infrastructure/colorscheme"
	"github.com/bnema/buildsel/internal/infrastructure/notify"
	"github.com/bnema/buildsel/internal/infrastructure/opener"
	"github.com/bnema/buildsel/internal/logging"
	"github.com/bnema/buildsel/internal/metrics"
)

// Options controls how the app is assembled for one command.
type Options struct {
	// ServerURL overrides server.base_url when set.
	ServerURL string
	// Interactive selects the TUI wiring: file logs and an in-memory toast queue.
	// Headless commands log to stderr and print notifications.
	Interactive bool
	BuildInfo   build.Info
	Out         io.Writer
	ErrOut      io.Writer
}

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	ConfigMgr *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info
	Clock     clockwork.Clock

	API        *api.Client
	Console    *state.Console
	Notifier   port.Notification
	Toasts     *notify.Queue
	Debouncer  *state.Debouncer
	Refresh    *usecase.RefreshBuildsUseCase
	Poller     *usecase.Poller
	Dispatcher *usecase.Dispatcher
	Opener     port.ClientOpener
	Resolver   *colorscheme.Resolver

	Registry *prometheus.Registry
	Metrics  *metrics.PrometheusRecorder

	// Context with logger
	ctx        context.Context
	cancel     context.CancelFunc
	logCleanup func()
}

// NewApp creates a new CLI application with all dependencies.
func NewApp(opts Options) (*App, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}

	mgr, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("create config manager: %w", err)
	}
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := mgr.Get()
	if opts.ServerURL != "" {
		cfg.Server.BaseURL = opts.ServerURL
	}

	logger, logCleanup, logErr := newLogger(cfg, opts.Interactive)
	// Interrupts cancel in-flight requests and --wait polls.
	ctx, cancel := signal.NotifyContext(logging.WithContext(context.Background(), logger), os.Interrupt, syscall.SIGTERM)
	ctx = logging.WithServer(ctx, cfg.Server.BaseURL)
	if logErr != nil {
		logger.Warn().Err(logErr).Msg("file logging unavailable")
	}

	client, err := api.NewClient(cfg.Server.BaseURL,
		api.WithTimeout(cfg.Server.Timeout),
		api.WithUserAgent(opts.BuildInfo.UserAgent()),
	)
	if err != nil {
		cancel()
		logCleanup()
		return nil, err
	}

	clock := clockwork.NewRealClock()
	registry := prometheus.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	resolver := colorscheme.NewDefaultResolver(colorscheme.NewConfigAdapter(mgr))
	theme := styles.NewTheme(resolver.Resolve().PrefersDark)

	console := state.NewConsole(cfg.Console.PageSize)

	var (
		notifier port.Notification
		toasts   *notify.Queue
	)
	if opts.Interactive {
		toasts = notify.NewQueue(clock, notify.WithDisplay(cfg.Console.ToastDuration))
		notifier = toasts
	} else {
		notifier = notify.NewPrinter(opts.Out, opts.ErrOut)
	}

	browser := opener.New()
	clientURL := ""
	if cfg.Console.OpenClient {
		clientURL = cfg.ClientURL()
	}

	refresh := usecase.NewRefreshBuildsUseCase(client, console, notifier, recorder)
	poller := usecase.NewPoller(client, console, notifier, clock, recorder, usecase.PollerConfig{
		Interval: cfg.Polling.Interval,
		Timeout:  cfg.Polling.Timeout,
	})
	dispatcher := usecase.NewDispatcher(client, console, notifier, poller, refresh, browser, clock, recorder,
		usecase.DispatcherConfig{
			FetchCooldown: cfg.Polling.FetchCooldown,
			OpenDelay:     cfg.Console.OpenDelay,
			ClientURL:     clientURL,
		})

	logger.Debug().
		Str("config", mgr.GetConfigFile()).
		Bool("interactive", opts.Interactive).
		Int("page_size", console.PageSize()).
		Msg("app initialized")

	return &App{
		Config:     cfg,
		ConfigMgr:  mgr,
		Theme:      theme,
		BuildInfo:  opts.BuildInfo,
		Clock:      clock,
		API:        client,
		Console:    console,
		Notifier:   notifier,
		Toasts:     toasts,
		Debouncer:  state.NewDebouncer(clock, cfg.Console.SearchDebounce),
		Refresh:    refresh,
		Poller:     poller,
		Dispatcher: dispatcher,
		Opener:     browser,
		Resolver:   resolver,
		Registry:   registry,
		Metrics:    recorder,
		ctx:        ctx,
		cancel:     cancel,
		logCleanup: logCleanup,
	}, nil
}

// newLogger logs to a rotated file for the TUI, which owns the terminal,
// and to stderr for headless commands.
func newLogger(cfg *config.Config, interactive bool) (zerolog.Logger, func(), error) {
	logCfg := logging.Config{
		Level:      logging.ParseLevel(cfg.Logging.Level),
		Format:     cfg.Logging.Format,
		TimeFormat: "15:04:05",
	}
	if !interactive {
		return logging.NewWithFile(logCfg, logging.FileConfig{WriteToStderr: true})
	}
	return logging.NewWithFile(logCfg, logging.FileConfig{
		Enabled:    cfg.Logging.EnableFileLog,
		Dir:        cfg.Logging.LogDir,
		MaxSizeMB:  cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
	})
}

// WatchConfig reloads the config file on change and re-resolves the color scheme.
// Connection settings keep their startup values.
func (a *App) WatchConfig() error {
	a.ConfigMgr.OnConfigChange(func(cfg *config.Config) {
		pref := a.Resolver.Refresh()
		logging.FromContext(a.ctx).Info().
			Str("color_scheme", cfg.Appearance.ColorScheme).
			Bool("prefers_dark", pref.PrefersDark).
			Msg("config reloaded")
	})
	return a.ConfigMgr.Watch()
}

// ServeMetrics serves the Prometheus registry until ctx ends. It returns
// immediately when metrics are disabled.
func (a *App) ServeMetrics(ctx context.Context) error {
	if !a.Config.Metrics.Enabled {
		return nil
	}
	return metrics.Serve(ctx, a.Config.Metrics.ListenAddr, a.Registry)
}

// Close cancels background work and releases all resources.
func (a *App) Close() error {
	a.Debouncer.Stop()
	a.cancel()
	if a.logCleanup != nil {
		a.logCleanup()
	}
	return nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}
