// Package state holds the console's shared, process-local state: the build
// snapshot, the operator's view controls and the busy state of action controls.
package state

import (
	"strings"
	"sync"

	"github.com/bnema/buildsel/internal/domain/entity"
	"github.com/bnema/buildsel/internal/domain/view"
)

// ControlID identifies an action control that can be busy independently of the others.
type ControlID string

// ControlFetchCurrent is the global "fetch current build" control.
const ControlFetchCurrent ControlID = "fetch-current"

const downloadControlPrefix = "download/"

// DownloadControl returns the control id of a row's download button.
func DownloadControl(hash string) ControlID {
	return ControlID(downloadControlPrefix + hash)
}

// Control labels, idle and busy.
const (
	LabelFetchCurrent = "Fetch Current"
	LabelFetching     = "Fetching..."
	LabelDownload     = "Download"
	LabelDownloading  = "Downloading..."
)

// Control is the rendered state of an action control.
type Control struct {
	Disabled bool
	Label    string
}

// DefaultControl returns the idle state of a control.
func DefaultControl(id ControlID) Control {
	if id == ControlFetchCurrent {
		return Control{Label: LabelFetchCurrent}
	}
	if strings.HasPrefix(string(id), downloadControlPrefix) {
		return Control{Label: LabelDownload}
	}
	return Control{}
}

// Change describes what part of the console state was modified.
type Change int

const (
	ChangeSnapshot Change = iota
	ChangeView
	ChangeControls
)

// Listener is called after a state change, outside of the state lock.
type Listener func(Change)

// Console is the single owner of the snapshot, view state and control state.
// Readers always receive copies.
type Console struct {
	mu       sync.RWMutex
	snapshot []entity.Build
	loaded   bool
	view     view.State
	controls map[ControlID]Control
	pageSize int

	listenersMu sync.Mutex
	listeners   map[int]Listener
	nextID      int
}

// NewConsole creates an empty console state. A pageSize <= 0 selects view.DefaultPageSize.
func NewConsole(pageSize int) *Console {
	if pageSize <= 0 {
		pageSize = view.DefaultPageSize
	}
	return &Console{
		view:      view.DefaultState(),
		controls:  make(map[ControlID]Control),
		pageSize:  pageSize,
		listeners: make(map[int]Listener),
	}
}

// OnChange registers a listener and returns a function that removes it.
func (c *Console) OnChange(fn Listener) func() {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.listenersMu.Lock()
		delete(c.listeners, id)
		c.listenersMu.Unlock()
	}
}

func (c *Console) notify(change Change) {
	c.listenersMu.Lock()
	fns := make([]Listener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.listenersMu.Unlock()

	for _, fn := range fns {
		fn(change)
	}
}

// ReplaceSnapshot swaps the whole snapshot with a fresh server copy, keeping server order.
// Busy download controls of builds that are now patched are released.
func (c *Console) ReplaceSnapshot(builds []entity.Build) {
	next := make([]entity.Build, len(builds))
	copy(next, builds)

	c.mu.Lock()
	c.snapshot = next
	c.loaded = true
	pruned := false
	for _, b := range next {
		if !b.IsPatched {
			continue
		}
		id := DownloadControl(b.BuildHash)
		if _, ok := c.controls[id]; ok {
			delete(c.controls, id)
			pruned = true
		}
	}
	c.mu.Unlock()

	c.notify(ChangeSnapshot)
	if pruned {
		c.notify(ChangeControls)
	}
}

// Snapshot returns a copy of the current snapshot.
func (c *Console) Snapshot() []entity.Build {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]entity.Build, len(c.snapshot))
	copy(out, c.snapshot)
	return out
}

// Loaded reports whether at least one snapshot has been received.
func (c *Console) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// ActiveBuild returns the first active build of the snapshot.
func (c *Console) ActiveBuild() (entity.Build, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return entity.ActiveBuild(c.snapshot)
}

// ViewState returns the current view controls.
func (c *Console) ViewState() view.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// View derives the visible page from the snapshot and the view controls.
func (c *Console) View() view.Page {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return view.Derive(c.snapshot, c.view, c.pageSize)
}

// PageSize returns the number of rows per page.
func (c *Console) PageSize() int {
	return c.pageSize
}

// SetSearch updates the hash search term and returns to the first page.
func (c *Console) SetSearch(query string) {
	c.mu.Lock()
	if c.view.Search == query {
		c.mu.Unlock()
		return
	}
	c.view.Search = query
	c.view.Page = 1
	c.mu.Unlock()
	c.notify(ChangeView)
}

// SetFilter updates the status filter and returns to the first page.
func (c *Console) SetFilter(filter view.StatusFilter) {
	c.mu.Lock()
	if c.view.Filter == filter {
		c.mu.Unlock()
		return
	}
	c.view.Filter = filter
	c.view.Page = 1
	c.mu.Unlock()
	c.notify(ChangeView)
}

// SetPage selects a page. Values outside 1..TotalPages are clamped.
func (c *Console) SetPage(page int) {
	c.mu.Lock()
	total := view.Derive(c.snapshot, c.view, c.pageSize).TotalPages
	if page > total {
		page = total
	}
	if page < 1 {
		page = 1
	}
	if c.view.Page == page {
		c.mu.Unlock()
		return
	}
	c.view.Page = page
	c.mu.Unlock()
	c.notify(ChangeView)
}

// ResetPage returns to the first page.
func (c *Console) ResetPage() {
	c.SetPage(1)
}

// Control returns the state of a control, or its idle default.
func (c *Console) Control(id ControlID) Control {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if ctl, ok := c.controls[id]; ok {
		return ctl
	}
	return DefaultControl(id)
}

// Controls returns a copy of every non-default control state.
func (c *Console) Controls() map[ControlID]Control {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[ControlID]Control, len(c.controls))
	for id, ctl := range c.controls {
		out[id] = ctl
	}
	return out
}

// AcquireControl marks a control busy with the given label.
// It returns false without changes when the control is already busy.
func (c *Console) AcquireControl(id ControlID, busyLabel string) bool {
	c.mu.Lock()
	if ctl, ok := c.controls[id]; ok && ctl.Disabled {
		c.mu.Unlock()
		return false
	}
	c.controls[id] = Control{Disabled: true, Label: busyLabel}
	c.mu.Unlock()
	c.notify(ChangeControls)
	return true
}

// ReleaseControl restores a control to its idle default.
func (c *Console) ReleaseControl(id ControlID) {
	c.mu.Lock()
	if _, ok := c.controls[id]; !ok {
		c.mu.Unlock()
		return
	}
	delete(c.controls, id)
	c.mu.Unlock()
	c.notify(ChangeControls)
}
