package usecase

import (
	"context"
	"fmt"
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
	// DefaultPollInterval is the delay between two reconciliation fetches.
	DefaultPollInterval = 3 * time.Second
	// DefaultPollTimeout is the ceiling after which a poll stops silently.
	DefaultPollTimeout = 300 * time.Second
)

// PollState is the lifecycle state of a reconciliation poll.
type PollState int

const (
	PollPolling PollState = iota
	PollResolved
	PollTimedOut
	// PollCanceled only happens when the owning context ends.
	PollCanceled
)

func (s PollState) String() string {
	switch s {
	case PollPolling:
		return "polling"
	case PollResolved:
		return "resolved"
	case PollTimedOut:
		return "timed_out"
	case PollCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Poll tracks one build hash until the server reports it patched.
type Poll struct {
	Hash    string
	Started time.Time

	mu    sync.Mutex
	state PollState
	ticks int
	done  chan struct{}
}

// State returns the current state.
func (p *Poll) State() PollState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Ticks returns the number of fetches performed so far.
func (p *Poll) Ticks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ticks
}

// Done is closed once the poll reaches a terminal state.
func (p *Poll) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the poll ends or ctx is done.
func (p *Poll) Wait(ctx context.Context) (PollState, error) {
	select {
	case <-p.done:
		return p.State(), nil
	case <-ctx.Done():
		return p.State(), ctx.Err()
	}
}

// PollerConfig holds the poll timings.
type PollerConfig struct {
	Interval time.Duration
	Timeout  time.Duration
}

// Poller runs reconciliation polls, at most one per build hash.
type Poller struct {
	api      port.BuildAPI
	console  *state.Console
	notifier port.Notification
	clock    clockwork.Clock
	metrics  metrics.Recorder
	cfg      PollerConfig

	mu     sync.Mutex
	active map[string]*Poll
}

// NewPoller creates a poller. Zero timings select the defaults.
func NewPoller(
	api port.BuildAPI,
	console *state.Console,
	notifier port.Notification,
	clock clockwork.Clock,
	recorder metrics.Recorder,
	cfg PollerConfig,
) *Poller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultPollTimeout
	}
	return &Poller{
		api:      api,
		console:  console,
		notifier: notifier,
		clock:    clock,
		metrics:  recorder,
		cfg:      cfg,
		active:   make(map[string]*Poll),
	}
}

// Start begins polling for hash. A hash that is already being polled
// returns the running poll. The poll lives until ctx ends at the latest.
func (p *Poller) Start(ctx context.Context, hash string) *Poll {
	p.mu.Lock()
	if existing, ok := p.active[hash]; ok {
		p.mu.Unlock()
		logging.FromContext(ctx).Debug().Str("hash", hash).Msg("poll already running")
		return existing
	}
	poll := &Poll{
		Hash:    hash,
		Started: p.clock.Now(),
		state:   PollPolling,
		done:    make(chan struct{}),
	}
	p.active[hash] = poll
	n := len(p.active)
	p.mu.Unlock()

	p.metrics.SetActivePolls(n)
	go p.run(ctx, poll)
	return poll
}

// Active returns the hashes currently being polled.
func (p *Poller) Active() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.active))
	for hash := range p.active {
		out = append(out, hash)
	}
	return out
}

func (p *Poller) run(ctx context.Context, poll *Poll) {
	ctx = logging.WithBuild(ctx, poll.Hash)
	log := logging.FromContext(ctx)
	log.Debug().Dur("interval", p.cfg.Interval).Dur("timeout", p.cfg.Timeout).Msg("poll started")

	ticker := p.clock.NewTicker(p.cfg.Interval)
	defer ticker.Stop()
	deadline := p.clock.NewTimer(p.cfg.Timeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			p.finish(ctx, poll, PollCanceled)
			return
		case <-deadline.Chan():
			log.Info().Msg("poll timed out")
			p.console.ReleaseControl(state.DownloadControl(poll.Hash))
			p.finish(ctx, poll, PollTimedOut)
			return
		case <-ticker.Chan():
			// The loop is sequential: ticks arriving during this fetch are dropped by the ticker.
			if p.tick(ctx, poll) {
				p.finish(ctx, poll, PollResolved)
				return
			}
		}
	}
}

func (p *Poller) tick(ctx context.Context, poll *Poll) bool {
	log := logging.FromContext(ctx)

	poll.mu.Lock()
	poll.ticks++
	poll.mu.Unlock()

	builds, err := p.api.ListBuilds(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn().Err(err).Msg("poll tick failed")
		}
		p.metrics.IncPollTick(true)
		return false
	}
	p.metrics.IncPollTick(false)

	b, ok := entity.FindBuild(builds, poll.Hash)
	if !ok || !b.IsPatched {
		return false
	}

	p.console.ReplaceSnapshot(builds)
	p.notifier.Show(ctx, fmt.Sprintf("Build %s ready!", entity.HashPrefix(poll.Hash, entity.RowHashLength)), port.NotificationSuccess, 0)
	log.Info().Msg("build ready")
	return true
}

func (p *Poller) finish(ctx context.Context, poll *Poll, st PollState) {
	p.mu.Lock()
	if p.active[poll.Hash] == poll {
		delete(p.active, poll.Hash)
	}
	n := len(p.active)
	p.mu.Unlock()

	poll.mu.Lock()
	poll.state = st
	poll.mu.Unlock()
	close(poll.done)

	p.metrics.SetActivePolls(n)
	p.metrics.ObservePoll(pollOutcome(st), p.clock.Since(poll.Started))
	logging.FromContext(ctx).Debug().Str("state", st.String()).Msg("poll finished")
}

func pollOutcome(st PollState) metrics.PollOutcome {
	switch st {
	case PollResolved:
		return metrics.PollResolved
	case PollTimedOut:
		return metrics.PollTimedOut
	default:
		return metrics.PollCanceled
	}
}
