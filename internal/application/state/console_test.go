package state

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/buildsel/internal/domain/entity"
	"github.com/bnema/buildsel/internal/domain/view"
)

func makeBuilds(n int, patched bool) []entity.Build {
	builds := make([]entity.Build, n)
	for i := range builds {
		builds[i] = entity.Build{BuildHash: fmt.Sprintf("%040x", i+1), Channel: "stable", IsPatched: patched}
	}
	return builds
}

func TestConsole_ReplaceSnapshotCopies(t *testing.T) {
	c := NewConsole(0)
	assert.False(t, c.Loaded())

	builds := makeBuilds(3, true)
	c.ReplaceSnapshot(builds)
	builds[0].IsActive = true

	snap := c.Snapshot()
	require.Len(t, snap, 3)
	assert.False(t, snap[0].IsActive, "caller mutation must not leak into the store")
	assert.True(t, c.Loaded())

	snap[1].Channel = "beta"
	assert.Equal(t, "stable", c.Snapshot()[1].Channel, "reader mutation must not leak into the store")
}

func TestConsole_ReplaceSnapshotKeepsServerOrder(t *testing.T) {
	c := NewConsole(0)
	builds := []entity.Build{{BuildHash: "c"}, {BuildHash: "a"}, {BuildHash: "b"}}
	c.ReplaceSnapshot(builds)
	assert.Equal(t, builds, c.Snapshot())
}

func TestConsole_SearchAndFilterResetPage(t *testing.T) {
	c := NewConsole(50)
	c.ReplaceSnapshot(makeBuilds(120, false))

	c.SetPage(3)
	assert.Equal(t, 3, c.ViewState().Page)

	c.SetSearch("1")
	assert.Equal(t, 1, c.ViewState().Page)

	c.SetSearch("")
	c.SetPage(2)
	c.SetFilter(view.FilterPending)
	assert.Equal(t, 1, c.ViewState().Page)
	assert.Equal(t, view.FilterPending, c.ViewState().Filter)
}

func TestConsole_SetPageClamps(t *testing.T) {
	c := NewConsole(50)
	c.ReplaceSnapshot(makeBuilds(120, false))

	c.SetPage(9)
	assert.Equal(t, 3, c.ViewState().Page)

	c.SetPage(-2)
	assert.Equal(t, 1, c.ViewState().Page)

	page := c.View()
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Rows, 50)
}

func TestConsole_ViewDerivesFromSnapshot(t *testing.T) {
	c := NewConsole(50)
	c.ReplaceSnapshot([]entity.Build{
		{BuildHash: "aaa", IsPatched: true, IsActive: true},
		{BuildHash: "bbb"},
	})

	c.SetFilter(view.FilterPatched)
	page := c.View()
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "aaa", page.Rows[0].BuildHash)

	active, ok := c.ActiveBuild()
	require.True(t, ok)
	assert.Equal(t, "aaa", active.BuildHash)
}

func TestConsole_AcquireControlIsExclusive(t *testing.T) {
	c := NewConsole(0)

	assert.Equal(t, Control{Label: LabelFetchCurrent}, c.Control(ControlFetchCurrent))

	require.True(t, c.AcquireControl(ControlFetchCurrent, LabelFetching))
	assert.False(t, c.AcquireControl(ControlFetchCurrent, LabelFetching))
	assert.Equal(t, Control{Disabled: true, Label: LabelFetching}, c.Control(ControlFetchCurrent))

	// Other controls are independent.
	assert.True(t, c.AcquireControl(DownloadControl("abc"), LabelDownloading))

	c.ReleaseControl(ControlFetchCurrent)
	assert.Equal(t, Control{Label: LabelFetchCurrent}, c.Control(ControlFetchCurrent))
	assert.Len(t, c.Controls(), 1)
}

func TestConsole_ReplaceSnapshotPrunesPatchedDownloads(t *testing.T) {
	c := NewConsole(0)
	require.True(t, c.AcquireControl(DownloadControl("aaa"), LabelDownloading))
	require.True(t, c.AcquireControl(DownloadControl("bbb"), LabelDownloading))

	c.ReplaceSnapshot([]entity.Build{
		{BuildHash: "aaa", IsPatched: true},
		{BuildHash: "bbb"},
	})

	assert.False(t, c.Control(DownloadControl("aaa")).Disabled)
	assert.True(t, c.Control(DownloadControl("bbb")).Disabled)
}

func TestConsole_ListenersFireAfterUnlock(t *testing.T) {
	c := NewConsole(0)

	var mu sync.Mutex
	var changes []Change
	unsubscribe := c.OnChange(func(ch Change) {
		// Reading state from a listener must not deadlock.
		_ = c.View()
		mu.Lock()
		changes = append(changes, ch)
		mu.Unlock()
	})

	c.ReplaceSnapshot(makeBuilds(2, false))
	c.SetSearch("x")
	c.SetSearch("x")
	c.AcquireControl(ControlFetchCurrent, LabelFetching)

	unsubscribe()
	c.ReleaseControl(ControlFetchCurrent)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Change{ChangeSnapshot, ChangeView, ChangeControls}, changes)
}

func TestDefaultControl(t *testing.T) {
	assert.Equal(t, Control{Label: LabelDownload}, DefaultControl(DownloadControl("abc")))
	assert.Equal(t, Control{}, DefaultControl("other"))
}
