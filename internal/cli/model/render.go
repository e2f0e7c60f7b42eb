package model

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"github.com/bnema/buildsel/internal/application/state"
	"github.com/bnema/buildsel/internal/cli/styles"
	"github.com/bnema/buildsel/internal/domain/entity"
	"github.com/bnema/buildsel/internal/domain/view"
)

// Fixed console texts.
const (
	EmptyMessage         = "No builds found"
	NoActiveBuildMessage = "No active build - download and activate one below"
	LoadingMessage       = "Loading builds..."
)

// ButtonView is one action button of a row.
type ButtonView struct {
	Action   entity.Action
	Label    string
	Disabled bool
}

// RowView is the render-ready projection of one build.
type RowView struct {
	// Hash is the full hash, shown as the row title.
	Hash      string
	ShortHash string
	Channel   string
	Date      string
	Badges    []string
	Buttons   []ButtonView
}

// Button returns the row's button for action, if the build offers it.
func (r RowView) Button(action entity.Action) (ButtonView, bool) {
	for _, b := range r.Buttons {
		if b.Action == action {
			return b, true
		}
	}
	return ButtonView{}, false
}

// TableRow flattens the row into plain table cells.
func (r RowView) TableRow() table.Row {
	buttons := make([]string, 0, len(r.Buttons))
	for _, b := range r.Buttons {
		buttons = append(buttons, "["+b.Label+"]")
	}
	channel := r.Channel
	if channel == "" {
		channel = "-"
	}
	return table.Row{
		r.ShortHash,
		channel,
		r.Date,
		strings.Join(r.Badges, " "),
		strings.Join(buttons, " "),
	}
}

// ProjectRows builds the row views of the page. Busy download controls
// replace the button label and disable it; other buttons are always enabled.
func ProjectRows(page view.Page, controls map[state.ControlID]state.Control, dateFormat string) []RowView {
	rows := make([]RowView, 0, len(page.Rows))
	for _, b := range page.Rows {
		rows = append(rows, projectRow(b, controls, dateFormat))
	}
	return rows
}

func projectRow(b entity.Build, controls map[state.ControlID]state.Control, dateFormat string) RowView {
	row := RowView{
		Hash:      b.BuildHash,
		ShortHash: entity.ShortHash(b.BuildHash, entity.RowHashLength),
		Channel:   b.Channel,
		Date:      formatDate(b, dateFormat),
		Badges:    badges(b),
	}

	for _, action := range b.Actions() {
		btn := ButtonView{Action: action, Label: action.String()}
		if action == entity.ActionDownload {
			id := state.DownloadControl(b.BuildHash)
			ctl, ok := controls[id]
			if !ok {
				ctl = state.DefaultControl(id)
			}
			btn.Label = ctl.Label
			btn.Disabled = ctl.Disabled
		}
		row.Buttons = append(row.Buttons, btn)
	}
	return row
}

func badges(b entity.Build) []string {
	out := make([]string, 0, 2)
	if b.IsActive {
		out = append(out, styles.BadgeLabelActive)
	}
	if b.IsPatched {
		out = append(out, styles.BadgeLabelPatched)
	} else {
		out = append(out, styles.BadgeLabelPending)
	}
	return out
}

// DefaultDateLayout shows the build day only, in local time.
const DefaultDateLayout = "2006-01-02"

func formatDate(b entity.Build, layout string) string {
	if b.BuildDate.IsZero() {
		return b.RawDate
	}
	if layout == "" {
		layout = DefaultDateLayout
	}
	return b.BuildDate.Local().Format(layout)
}

// BannerView is the status banner above the table.
type BannerView struct {
	Active    bool
	Hash      string
	ShortHash string
	Text      string
}

// ProjectBanner describes the active build, or invites the operator to activate one.
func ProjectBanner(snapshot []entity.Build) BannerView {
	b, ok := entity.ActiveBuild(snapshot)
	if !ok {
		return BannerView{Text: NoActiveBuildMessage}
	}
	short := entity.ShortHash(b.BuildHash, entity.BannerHashLength)
	return BannerView{
		Active:    true,
		Hash:      b.BuildHash,
		ShortHash: short,
		Text:      "Active build " + short + " - press o to open the client",
	}
}

// PageButton is one pagination control.
type PageButton struct {
	Number  int
	Current bool
}

// PageButtons returns one button per page, or nil when there is at most one page.
func PageButtons(page view.Page) []PageButton {
	if page.TotalPages <= 1 {
		return nil
	}
	out := make([]PageButton, 0, page.TotalPages)
	for n := 1; n <= page.TotalPages; n++ {
		out = append(out, PageButton{Number: n, Current: n == page.Number})
	}
	return out
}
