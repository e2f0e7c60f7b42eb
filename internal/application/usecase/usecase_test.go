package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bnema/buildsel/internal/application/port"
	"github.com/bnema/buildsel/internal/application/port/mocks"
	"github.com/bnema/buildsel/internal/application/state"
	"github.com/bnema/buildsel/internal/application/usecase"
	"github.com/bnema/buildsel/internal/domain/entity"
	"github.com/bnema/buildsel/internal/logging"
)

var (
	hashA = strings.Repeat("a", 40)
	hashB = strings.Repeat("b", 40)
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	logger := logging.NewFromConfigValues("debug", "console")
	ctx, cancel := context.WithCancel(logging.WithContext(context.Background(), logger))
	t.Cleanup(cancel)
	return ctx
}

type harness struct {
	ctx        context.Context
	clock      *clockwork.FakeClock
	api        *mocks.MockBuildAPI
	notifier   *mocks.MockNotification
	opener     *mocks.MockClientOpener
	console    *state.Console
	refresh    *usecase.RefreshBuildsUseCase
	poller     *usecase.Poller
	dispatcher *usecase.Dispatcher
}

const clientURL = "http://builds.test/"

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		ctx:      testContext(t),
		clock:    clockwork.NewFakeClock(),
		api:      mocks.NewMockBuildAPI(t),
		notifier: mocks.NewMockNotification(t),
		opener:   mocks.NewMockClientOpener(gomock.NewController(t)),
		console:  state.NewConsole(0),
	}
	h.refresh = usecase.NewRefreshBuildsUseCase(h.api, h.console, h.notifier, nil)
	h.poller = usecase.NewPoller(h.api, h.console, h.notifier, h.clock, nil, usecase.PollerConfig{
		Interval: 3 * time.Second,
		Timeout:  10 * time.Second,
	})
	h.dispatcher = usecase.NewDispatcher(h.api, h.console, h.notifier, h.poller, h.refresh, h.opener, h.clock, nil,
		usecase.DispatcherConfig{ClientURL: clientURL})
	return h
}

// waitTimers blocks until n timers or tickers are armed on the fake clock.
func (h *harness) waitTimers(t *testing.T, n int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, h.clock.BlockUntilContext(ctx, n))
}

func waitPoll(t *testing.T, poll *usecase.Poll) usecase.PollState {
	t.Helper()
	select {
	case <-poll.Done():
		return poll.State()
	case <-time.After(2 * time.Second):
		t.Fatalf("poll for %s did not finish", poll.Hash)
		return usecase.PollPolling
	}
}

func accepted(msg string) port.ActionResult {
	return port.ActionResult{Status: port.StatusAccepted, Message: msg}
}

func rejected(msg string) port.ActionResult {
	return port.ActionResult{Status: port.StatusError, Message: msg}
}

func pending(hash string) entity.Build {
	return entity.Build{BuildHash: hash, Channel: "stable"}
}

func patched(hash string) entity.Build {
	return entity.Build{BuildHash: hash, Channel: "stable", IsPatched: true}
}
