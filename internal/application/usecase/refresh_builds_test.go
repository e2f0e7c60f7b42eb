package usecase_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/buildsel/internal/application/port"
	"github.com/bnema/buildsel/internal/application/usecase"
	"github.com/bnema/buildsel/internal/domain/entity"
)

func TestRefreshBuilds_ReplacesSnapshotAndResetsPage(t *testing.T) {
	h := newHarness(t)

	builds := make([]entity.Build, 120)
	for i := range builds {
		builds[i] = pending(fmt.Sprintf("%040x", i))
	}
	h.api.EXPECT().ListBuilds(mock.Anything).Return(builds, nil).Twice()

	require.NoError(t, h.refresh.Execute(h.ctx, usecase.RefreshBuildsInput{}))
	h.console.SetPage(3)

	// A refresh without reset keeps the page.
	require.NoError(t, h.refresh.Execute(h.ctx, usecase.RefreshBuildsInput{}))
	assert.Equal(t, 3, h.console.ViewState().Page)

	h.api.EXPECT().ListBuilds(mock.Anything).Return(builds[:60], nil).Once()
	require.NoError(t, h.refresh.Execute(h.ctx, usecase.RefreshBuildsInput{ResetPage: true}))
	assert.Equal(t, 1, h.console.ViewState().Page)
	assert.Len(t, h.console.Snapshot(), 60)
}

func TestRefreshBuilds_FailureKeepsSnapshot(t *testing.T) {
	h := newHarness(t)
	h.console.ReplaceSnapshot([]entity.Build{patched(hashA)})

	fetchErr := fmt.Errorf("%w: connection refused", port.ErrTransport)
	h.api.EXPECT().ListBuilds(mock.Anything).Return(nil, fetchErr).Once()
	h.notifier.EXPECT().
		Show(mock.Anything, "Failed to load builds: "+fetchErr.Error(), port.NotificationError, 0).
		Return(port.NotificationID("n1")).Once()

	err := h.refresh.Execute(h.ctx, usecase.RefreshBuildsInput{ResetPage: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, port.ErrTransport))
	assert.Equal(t, []entity.Build{patched(hashA)}, h.console.Snapshot())
}
