package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bnema/buildsel/internal/application/port"
	"github.com/bnema/buildsel/internal/application/state"
	"github.com/bnema/buildsel/internal/application/usecase"
	"github.com/bnema/buildsel/internal/domain/entity"
)

func TestDispatcher_FetchCurrentPollsExtractedHash(t *testing.T) {
	h := newHarness(t)

	msg := "Fetching current build " + hashA + " (canary)"
	h.api.EXPECT().FetchCurrent(mock.Anything).Return(accepted(msg), nil).Once()
	h.api.EXPECT().ListBuilds(mock.Anything).Return(nil, nil).Maybe()
	h.notifier.EXPECT().Show(mock.Anything, msg, port.NotificationSuccess, 0).Return(port.NotificationID("n1")).Once()

	poll, err := h.dispatcher.FetchCurrent(h.ctx)
	require.NoError(t, err)
	require.NotNil(t, poll)
	assert.Equal(t, hashA, poll.Hash)

	ctl := h.console.Control(state.ControlFetchCurrent)
	assert.Equal(t, state.Control{Disabled: true, Label: state.LabelFetching}, ctl)

	// A second click while busy never reaches the server.
	_, err = h.dispatcher.FetchCurrent(h.ctx)
	assert.ErrorIs(t, err, usecase.ErrControlBusy)

	h.clock.Advance(usecase.DefaultFetchCooldown - time.Millisecond)
	assert.True(t, h.console.Control(state.ControlFetchCurrent).Disabled)

	h.clock.Advance(time.Millisecond)
	require.Eventually(t, func() bool {
		return !h.console.Control(state.ControlFetchCurrent).Disabled
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, usecase.PollPolling, poll.State(), "the cooldown does not wait for the poll")
}

func TestDispatcher_FetchCurrentPrefersStructuredHash(t *testing.T) {
	h := newHarness(t)

	res := accepted("Fetching " + hashB)
	res.BuildHash = hashA
	h.api.EXPECT().FetchCurrent(mock.Anything).Return(res, nil).Once()
	h.api.EXPECT().ListBuilds(mock.Anything).Return(nil, nil).Maybe()
	h.notifier.EXPECT().Show(mock.Anything, res.Message, port.NotificationSuccess, 0).Return(port.NotificationID("n1")).Once()

	poll, err := h.dispatcher.FetchCurrent(h.ctx)
	require.NoError(t, err)
	require.NotNil(t, poll)
	assert.Equal(t, hashA, poll.Hash)
}

func TestDispatcher_FetchCurrentWithoutHash(t *testing.T) {
	h := newHarness(t)

	h.api.EXPECT().FetchCurrent(mock.Anything).Return(accepted("Fetch queued"), nil).Once()
	h.notifier.EXPECT().Show(mock.Anything, "Fetch queued", port.NotificationSuccess, 0).Return(port.NotificationID("n1")).Once()

	poll, err := h.dispatcher.FetchCurrent(h.ctx)
	require.NoError(t, err)
	assert.Nil(t, poll)
	assert.Empty(t, h.poller.Active())
	assert.True(t, h.console.Control(state.ControlFetchCurrent).Disabled)
}

func TestDispatcher_FetchCurrentFailuresResetImmediately(t *testing.T) {
	t.Run("transport", func(t *testing.T) {
		h := newHarness(t)
		h.api.EXPECT().FetchCurrent(mock.Anything).Return(port.ActionResult{}, errors.New("boom")).Once()
		h.notifier.EXPECT().Show(mock.Anything, "Fetch failed: boom", port.NotificationError, 0).Return(port.NotificationID("n1")).Once()

		_, err := h.dispatcher.FetchCurrent(h.ctx)
		require.Error(t, err)
		assert.Equal(t, state.Control{Label: state.LabelFetchCurrent}, h.console.Control(state.ControlFetchCurrent))
	})

	t.Run("rejected", func(t *testing.T) {
		h := newHarness(t)
		h.api.EXPECT().FetchCurrent(mock.Anything).Return(rejected("Upstream unavailable"), nil).Once()
		h.notifier.EXPECT().Show(mock.Anything, "Upstream unavailable", port.NotificationError, 0).Return(port.NotificationID("n1")).Once()

		_, err := h.dispatcher.FetchCurrent(h.ctx)
		require.ErrorIs(t, err, usecase.ErrRejected)
		assert.False(t, h.console.Control(state.ControlFetchCurrent).Disabled)
	})
}

func TestDispatcher_DownloadKeepsControlBusyWhilePolling(t *testing.T) {
	h := newHarness(t)
	msg := "Download started for build " + hashA

	h.api.EXPECT().Download(mock.Anything, hashA).Return(accepted(msg), nil).Once()
	h.api.EXPECT().ListBuilds(mock.Anything).Return([]entity.Build{patched(hashA)}, nil).Once()
	h.notifier.EXPECT().Show(mock.Anything, msg, port.NotificationSuccess, 0).Return(port.NotificationID("n1")).Once()
	h.notifier.EXPECT().Show(mock.Anything, "Build aaaaaaaaaaaa ready!", port.NotificationSuccess, 0).Return(port.NotificationID("n2")).Once()

	poll, err := h.dispatcher.Download(h.ctx, hashA)
	require.NoError(t, err)
	assert.Equal(t, state.Control{Disabled: true, Label: state.LabelDownloading}, h.console.Control(state.DownloadControl(hashA)))

	_, err = h.dispatcher.Download(h.ctx, hashA)
	assert.ErrorIs(t, err, usecase.ErrControlBusy)

	h.waitTimers(t, 2)
	h.clock.Advance(3 * time.Second)
	assert.Equal(t, usecase.PollResolved, waitPoll(t, poll))

	// The patched snapshot replaces the busy row with an Activate/Repatch row.
	assert.False(t, h.console.Control(state.DownloadControl(hashA)).Disabled)
}

func TestDispatcher_DownloadFailuresRevertControl(t *testing.T) {
	t.Run("transport", func(t *testing.T) {
		h := newHarness(t)
		h.api.EXPECT().Download(mock.Anything, hashB).Return(port.ActionResult{}, errors.New("boom")).Once()
		h.notifier.EXPECT().Show(mock.Anything, "Download failed: boom", port.NotificationError, 0).Return(port.NotificationID("n1")).Once()

		poll, err := h.dispatcher.Download(h.ctx, hashB)
		require.Error(t, err)
		assert.Nil(t, poll)
		assert.Equal(t, state.Control{Label: state.LabelDownload}, h.console.Control(state.DownloadControl(hashB)))
		assert.Empty(t, h.poller.Active())
	})

	t.Run("rejected", func(t *testing.T) {
		h := newHarness(t)
		h.api.EXPECT().Download(mock.Anything, hashB).Return(rejected("Build not found"), nil).Once()
		h.notifier.EXPECT().Show(mock.Anything, "Build not found", port.NotificationError, 0).Return(port.NotificationID("n1")).Once()

		_, err := h.dispatcher.Download(h.ctx, hashB)
		require.ErrorIs(t, err, usecase.ErrRejected)
		assert.False(t, h.console.Control(state.DownloadControl(hashB)).Disabled)
	})
}

func TestDispatcher_BusyRowsAreIndependent(t *testing.T) {
	h := newHarness(t)
	h.api.EXPECT().Download(mock.Anything, mock.Anything).Return(accepted("started"), nil).Twice()
	h.api.EXPECT().ListBuilds(mock.Anything).Return(nil, nil).Maybe()
	h.notifier.EXPECT().Show(mock.Anything, "started", port.NotificationSuccess, 0).Return(port.NotificationID("n")).Twice()

	_, err := h.dispatcher.Download(h.ctx, hashA)
	require.NoError(t, err)
	_, err = h.dispatcher.Download(h.ctx, hashB)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{hashA, hashB}, h.poller.Active())
}

func TestDispatcher_ActivateRefreshesThenOpensClient(t *testing.T) {
	h := newHarness(t)
	h.console.ReplaceSnapshot(make([]entity.Build, 0))

	after := []entity.Build{{BuildHash: hashA, IsPatched: true, IsActive: true}}
	h.api.EXPECT().Activate(mock.Anything, hashA).Return(port.ActionResult{Status: port.StatusOK, Message: "Active build set to " + hashA}, nil).Once()
	h.api.EXPECT().ListBuilds(mock.Anything).Return(after, nil).Once()
	h.notifier.EXPECT().Show(mock.Anything, "Build activated! Opening client...", port.NotificationSuccess, 0).Return(port.NotificationID("n1")).Once()

	opened := make(chan struct{})
	h.opener.EXPECT().Open(gomock.Any(), clientURL).DoAndReturn(func(context.Context, string) error {
		close(opened)
		return nil
	})

	require.NoError(t, h.dispatcher.Activate(h.ctx, hashA))
	assert.Equal(t, after, h.console.Snapshot())

	active, ok := h.console.ActiveBuild()
	require.True(t, ok)
	assert.Equal(t, hashA, active.BuildHash)

	h.clock.Advance(usecase.DefaultOpenDelay - time.Millisecond)
	select {
	case <-opened:
		t.Fatal("client opened before the delay")
	case <-time.After(20 * time.Millisecond):
	}

	h.clock.Advance(time.Millisecond)
	select {
	case <-opened:
	case <-time.After(2 * time.Second):
		t.Fatal("client was not opened")
	}
	h.dispatcher.Wait()
}

func TestDispatcher_ActivateRejected(t *testing.T) {
	h := newHarness(t)
	h.console.ReplaceSnapshot([]entity.Build{patched(hashA)})

	h.api.EXPECT().Activate(mock.Anything, hashA).Return(rejected("Build not found"), nil).Once()
	h.notifier.EXPECT().Show(mock.Anything, "Build not found", port.NotificationError, 0).Return(port.NotificationID("n1")).Once()

	err := h.dispatcher.Activate(h.ctx, hashA)
	require.ErrorIs(t, err, usecase.ErrRejected)
	assert.Equal(t, []entity.Build{patched(hashA)}, h.console.Snapshot())
}

func TestDispatcher_ActivateTransportError(t *testing.T) {
	h := newHarness(t)
	h.api.EXPECT().Activate(mock.Anything, hashA).Return(port.ActionResult{}, errors.New("timeout")).Once()
	h.notifier.EXPECT().Show(mock.Anything, "Activation failed: timeout", port.NotificationError, 0).Return(port.NotificationID("n1")).Once()

	assert.Error(t, h.dispatcher.Activate(h.ctx, hashA))
}

func TestDispatcher_Repatch(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		h := newHarness(t)
		h.api.EXPECT().Repatch(mock.Anything, hashA).Return(accepted("Repatch started"), nil).Once()
		h.notifier.EXPECT().Show(mock.Anything, "Repatch started", port.NotificationSuccess, 0).Return(port.NotificationID("n1")).Once()

		require.NoError(t, h.dispatcher.Repatch(h.ctx, hashA))
		assert.Empty(t, h.poller.Active())
		assert.Empty(t, h.console.Controls())
	})

	t.Run("rejected", func(t *testing.T) {
		h := newHarness(t)
		h.api.EXPECT().Repatch(mock.Anything, hashA).Return(rejected("Build not found"), nil).Once()
		h.notifier.EXPECT().Show(mock.Anything, "Build not found", port.NotificationError, 0).Return(port.NotificationID("n1")).Once()

		assert.ErrorIs(t, h.dispatcher.Repatch(h.ctx, hashA), usecase.ErrRejected)
	})

	t.Run("transport", func(t *testing.T) {
		h := newHarness(t)
		h.api.EXPECT().Repatch(mock.Anything, hashA).Return(port.ActionResult{}, errors.New("boom")).Once()
		h.notifier.EXPECT().Show(mock.Anything, "Repatch failed: boom", port.NotificationError, 0).Return(port.NotificationID("n1")).Once()

		assert.Error(t, h.dispatcher.Repatch(h.ctx, hashA))
	})
}

func TestDispatcher_SetIndexScripts(t *testing.T) {
	h := newHarness(t)
	scripts := []string{"web.js"}
	h.api.EXPECT().SetIndexScripts(mock.Anything, hashA, scripts).Return(port.ActionResult{Status: port.StatusOK, Message: "updated"}, nil).Once()
	h.notifier.EXPECT().Show(mock.Anything, "updated", port.NotificationSuccess, 0).Return(port.NotificationID("n1")).Once()

	require.NoError(t, h.dispatcher.SetIndexScripts(h.ctx, hashA, scripts))
}

func TestDispatcher_PerformChecksEligibility(t *testing.T) {
	h := newHarness(t)

	err := h.dispatcher.Perform(h.ctx, pending(hashA), entity.ActionActivate)
	require.Error(t, err)
	require.ErrorIs(t, err, usecase.ErrNotAllowed)
	assert.Contains(t, err.Error(), "Activate is not available")

	active := entity.Build{BuildHash: hashA, IsPatched: true, IsActive: true}
	assert.Error(t, h.dispatcher.Perform(h.ctx, active, entity.ActionActivate))

	h.api.EXPECT().Repatch(mock.Anything, hashA).Return(accepted("Repatch started"), nil).Once()
	h.notifier.EXPECT().Show(mock.Anything, "Repatch started", port.NotificationSuccess, 0).Return(port.NotificationID("n1")).Once()
	assert.NoError(t, h.dispatcher.Perform(h.ctx, active, entity.ActionRepatch))
}
