package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/bnema/buildsel/internal/application/port"
	"github.com/bnema/buildsel/internal/application/state"
	"github.com/bnema/buildsel/internal/domain/entity"
	"github.com/bnema/buildsel/internal/logging"
	"github.com/bnema/buildsel/internal/metrics"
)

const (
	// DefaultFetchCooldown is how long the fetch-current control stays busy after an accepted fetch.
	DefaultFetchCooldown = 5 * time.Second
	// DefaultOpenDelay is the pause between a successful activation and opening the client.
	DefaultOpenDelay = 500 * time.Millisecond
)

// Messages shown by the dispatcher.
const (
	msgActivated = "Build activated! Opening client..."
)

var (
	// ErrControlBusy is returned when the control of an action is already busy.
	ErrControlBusy = errors.New("action already in progress")
	// ErrRejected is returned when the server answered with status "error".
	ErrRejected = errors.New("rejected by build server")
	// ErrNotAllowed is returned when the build's flags do not offer the action.
	ErrNotAllowed = errors.New("action not available")

	// buildHashPattern extracts a build hash from free-form server messages.
	buildHashPattern = regexp.MustCompile(`[a-f0-9]{40}`)
)

// DispatcherConfig holds the dispatcher timings and the client view URL.
type DispatcherConfig struct {
	FetchCooldown time.Duration
	OpenDelay     time.Duration
	// ClientURL is opened after a successful activation. Empty disables opening.
	ClientURL string
}

// Dispatcher turns operator actions into requests against the build server and
// keeps the control state consistent while they are in flight.
type Dispatcher struct {
	api      port.BuildAPI
	console  *state.Console
	notifier port.Notification
	poller   *Poller
	refresh  *RefreshBuildsUseCase
	opener   port.ClientOpener
	clock    clockwork.Clock
	metrics  metrics.Recorder
	cfg      DispatcherConfig

	pending sync.WaitGroup
}

// NewDispatcher creates a dispatcher. A nil opener disables opening the client view.
func NewDispatcher(
	api port.BuildAPI,
	console *state.Console,
	notifier port.Notification,
	poller *Poller,
	refresh *RefreshBuildsUseCase,
	opener port.ClientOpener,
	clock clockwork.Clock,
	recorder metrics.Recorder,
	cfg DispatcherConfig,
) *Dispatcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if cfg.FetchCooldown <= 0 {
		cfg.FetchCooldown = DefaultFetchCooldown
	}
	if cfg.OpenDelay <= 0 {
		cfg.OpenDelay = DefaultOpenDelay
	}
	return &Dispatcher{
		api:      api,
		console:  console,
		notifier: notifier,
		poller:   poller,
		refresh:  refresh,
		opener:   opener,
		clock:    clock,
		metrics:  recorder,
		cfg:      cfg,
	}
}

// Wait blocks until delayed work scheduled by the dispatcher has run.
func (d *Dispatcher) Wait() {
	d.pending.Wait()
}

// FetchCurrent asks the server for the current upstream build and polls for it
// when the response names a hash. The returned poll is nil when no hash was found.
func (d *Dispatcher) FetchCurrent(ctx context.Context) (*Poll, error) {
	log := logging.FromContext(ctx)
	const action = "fetch_current"

	if !d.console.AcquireControl(state.ControlFetchCurrent, state.LabelFetching) {
		return nil, ErrControlBusy
	}

	res, err := d.api.FetchCurrent(ctx)
	if err != nil {
		d.console.ReleaseControl(state.ControlFetchCurrent)
		d.metrics.IncAction(action, metrics.ResultFailed)
		d.notifier.Show(ctx, fmt.Sprintf("Fetch failed: %v", err), port.NotificationError, 0)
		return nil, fmt.Errorf("fetch current build: %w", err)
	}
	if res.Failed() {
		d.console.ReleaseControl(state.ControlFetchCurrent)
		d.metrics.IncAction(action, metrics.ResultRejected)
		d.notifier.Show(ctx, res.Message, port.NotificationError, 0)
		return nil, fmt.Errorf("fetch current build: %w: %s", ErrRejected, res.Message)
	}

	d.metrics.IncAction(action, metrics.ResultSuccess)
	d.notifier.Show(ctx, res.Message, port.NotificationSuccess, 0)

	var poll *Poll
	if hash := targetHash(res); hash != "" {
		poll = d.poller.Start(ctx, hash)
	} else {
		log.Debug().Str("message", res.Message).Msg("no build hash in fetch response")
	}

	// The cooldown is independent of the poll.
	d.clock.AfterFunc(d.cfg.FetchCooldown, func() {
		d.console.ReleaseControl(state.ControlFetchCurrent)
	})
	return poll, nil
}

// targetHash prefers the structured field and falls back to scanning the message.
func targetHash(res port.ActionResult) string {
	if res.BuildHash != "" {
		return res.BuildHash
	}
	return buildHashPattern.FindString(res.Message)
}

// Download asks the server to download and patch a build, then polls until it is patched.
// The row's control stays busy until the poll resolves or times out.
func (d *Dispatcher) Download(ctx context.Context, hash string) (*Poll, error) {
	const action = "download"
	id := state.DownloadControl(hash)

	if !d.console.AcquireControl(id, state.LabelDownloading) {
		return nil, ErrControlBusy
	}

	res, err := d.api.Download(ctx, hash)
	if err != nil {
		d.console.ReleaseControl(id)
		d.metrics.IncAction(action, metrics.ResultFailed)
		d.notifier.Show(ctx, fmt.Sprintf("Download failed: %v", err), port.NotificationError, 0)
		return nil, fmt.Errorf("download %s: %w", hash, err)
	}
	if res.Failed() {
		d.console.ReleaseControl(id)
		d.metrics.IncAction(action, metrics.ResultRejected)
		d.notifier.Show(ctx, res.Message, port.NotificationError, 0)
		return nil, fmt.Errorf("download %s: %w: %s", hash, ErrRejected, res.Message)
	}

	d.metrics.IncAction(action, metrics.ResultSuccess)
	d.notifier.Show(ctx, res.Message, port.NotificationSuccess, 0)
	return d.poller.Start(ctx, hash), nil
}

// Activate makes a build the active one, reloads the snapshot and opens the client view.
func (d *Dispatcher) Activate(ctx context.Context, hash string) error {
	log := logging.FromContext(ctx)
	const action = "activate"

	res, err := d.api.Activate(ctx, hash)
	if err != nil {
		d.metrics.IncAction(action, metrics.ResultFailed)
		d.notifier.Show(ctx, fmt.Sprintf("Activation failed: %v", err), port.NotificationError, 0)
		return fmt.Errorf("activate %s: %w", hash, err)
	}
	if !res.OK() {
		d.metrics.IncAction(action, metrics.ResultRejected)
		d.notifier.Show(ctx, res.Message, port.NotificationError, 0)
		return fmt.Errorf("activate %s: %w: %s", hash, ErrRejected, res.Message)
	}

	d.metrics.IncAction(action, metrics.ResultSuccess)
	d.notifier.Show(ctx, msgActivated, port.NotificationSuccess, 0)

	if err := d.refresh.Execute(ctx, RefreshBuildsInput{ResetPage: true}); err != nil {
		log.Warn().Err(err).Msg("reload after activation failed")
	}

	if d.opener == nil || d.cfg.ClientURL == "" {
		return nil
	}
	openCtx := context.WithoutCancel(ctx)
	d.pending.Add(1)
	d.clock.AfterFunc(d.cfg.OpenDelay, func() {
		defer d.pending.Done()
		if err := d.opener.Open(openCtx, d.cfg.ClientURL); err != nil {
			logging.FromContext(openCtx).Warn().Err(err).Str("url", d.cfg.ClientURL).Msg("failed to open client")
		}
	})
	return nil
}

// Repatch asks the server to re-run the patch pipeline. It neither polls nor refreshes.
func (d *Dispatcher) Repatch(ctx context.Context, hash string) error {
	const action = "repatch"

	res, err := d.api.Repatch(ctx, hash)
	if err != nil {
		d.metrics.IncAction(action, metrics.ResultFailed)
		d.notifier.Show(ctx, fmt.Sprintf("Repatch failed: %v", err), port.NotificationError, 0)
		return fmt.Errorf("repatch %s: %w", hash, err)
	}
	if res.Failed() {
		d.metrics.IncAction(action, metrics.ResultRejected)
		d.notifier.Show(ctx, res.Message, port.NotificationError, 0)
		return fmt.Errorf("repatch %s: %w: %s", hash, ErrRejected, res.Message)
	}

	d.metrics.IncAction(action, metrics.ResultSuccess)
	d.notifier.Show(ctx, res.Message, port.NotificationSuccess, 0)
	return nil
}

// SetIndexScripts overrides the entry scripts used when patching a build.
func (d *Dispatcher) SetIndexScripts(ctx context.Context, hash string, scripts []string) error {
	const action = "index_scripts"

	res, err := d.api.SetIndexScripts(ctx, hash, scripts)
	if err != nil {
		d.metrics.IncAction(action, metrics.ResultFailed)
		d.notifier.Show(ctx, fmt.Sprintf("Index scripts update failed: %v", err), port.NotificationError, 0)
		return fmt.Errorf("set index scripts %s: %w", hash, err)
	}
	if res.Failed() {
		d.metrics.IncAction(action, metrics.ResultRejected)
		d.notifier.Show(ctx, res.Message, port.NotificationError, 0)
		return fmt.Errorf("set index scripts %s: %w: %s", hash, ErrRejected, res.Message)
	}

	d.metrics.IncAction(action, metrics.ResultSuccess)
	d.notifier.Show(ctx, res.Message, port.NotificationSuccess, 0)
	return nil
}

// Perform runs the action on a build from the snapshot, refusing actions its flags do not allow.
func (d *Dispatcher) Perform(ctx context.Context, b entity.Build, action entity.Action) error {
	if !b.Allows(action) {
		return fmt.Errorf("%w: %s is not available for build %s", ErrNotAllowed, action, entity.ShortHash(b.BuildHash, entity.RowHashLength))
	}
	var err error
	switch action {
	case entity.ActionDownload:
		_, err = d.Download(ctx, b.BuildHash)
	case entity.ActionActivate:
		err = d.Activate(ctx, b.BuildHash)
	case entity.ActionRepatch:
		err = d.Repatch(ctx, b.BuildHash)
	}
	return err
}
