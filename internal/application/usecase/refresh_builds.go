package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/buildsel/internal/application/port"
	"github.com/bnema/buildsel/internal/application/state"
	"github.com/bnema/buildsel/internal/logging"
	"github.com/bnema/buildsel/internal/metrics"
)

// RefreshBuildsInput holds the input for the refresh builds use case.
type RefreshBuildsInput struct {
	// ResetPage returns the view to the first page after a successful load.
	ResetPage bool
}

// RefreshBuildsUseCase replaces the snapshot with the server's build list.
type RefreshBuildsUseCase struct {
	api      port.BuildAPI
	console  *state.Console
	notifier port.Notification
	metrics  metrics.Recorder
}

// NewRefreshBuildsUseCase creates a new refresh builds use case.
func NewRefreshBuildsUseCase(
	api port.BuildAPI,
	console *state.Console,
	notifier port.Notification,
	recorder metrics.Recorder,
) *RefreshBuildsUseCase {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &RefreshBuildsUseCase{
		api:      api,
		console:  console,
		notifier: notifier,
		metrics:  recorder,
	}
}

// Execute fetches the full build list. On failure the snapshot is left untouched
// and the operator is notified; nothing is retried.
func (uc *RefreshBuildsUseCase) Execute(ctx context.Context, in RefreshBuildsInput) error {
	log := logging.FromContext(ctx)

	builds, err := uc.api.ListBuilds(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load builds")
		uc.metrics.IncRefresh(metrics.ResultFailed)
		uc.notifier.Show(ctx, fmt.Sprintf("Failed to load builds: %v", err), port.NotificationError, 0)
		return fmt.Errorf("failed to load builds: %w", err)
	}

	uc.console.ReplaceSnapshot(builds)
	if in.ResetPage {
		uc.console.ResetPage()
	}
	uc.metrics.IncRefresh(metrics.ResultSuccess)

	log.Debug().Int("count", len(builds)).Bool("reset_page", in.ResetPage).Msg("snapshot refreshed")
	return nil
}
