package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/buildsel/internal/application/state"
	"github.com/bnema/buildsel/internal/domain/entity"
	"github.com/bnema/buildsel/internal/domain/view"
)

func hash(c byte) string {
	return strings.Repeat(string(c), 40)
}

func TestProjectRows_BadgesAndButtons(t *testing.T) {
	builds := []entity.Build{
		{BuildHash: hash('a'), Channel: "stable", IsPatched: false},
		{BuildHash: hash('b'), Channel: "beta", IsPatched: true},
		{BuildHash: hash('c'), IsPatched: true, IsActive: true},
	}
	page := view.Derive(builds, view.DefaultState(), 50)

	rows := ProjectRows(page, nil, "")
	require.Len(t, rows, 3)

	tests := []struct {
		name    string
		row     RowView
		badges  []string
		actions []entity.Action
	}{
		{"pending", rows[0], []string{"pending"}, []entity.Action{entity.ActionDownload}},
		{"patched", rows[1], []string{"patched"}, []entity.Action{entity.ActionActivate, entity.ActionRepatch}},
		{"active", rows[2], []string{"active", "patched"}, []entity.Action{entity.ActionRepatch}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.badges, tt.row.Badges)
			var got []entity.Action
			for _, b := range tt.row.Buttons {
				got = append(got, b.Action)
				assert.False(t, b.Disabled)
			}
			assert.Equal(t, tt.actions, got)
		})
	}
}

func TestProjectRows_TruncatesHash(t *testing.T) {
	page := view.Derive([]entity.Build{{BuildHash: hash('f')}}, view.DefaultState(), 50)
	row := ProjectRows(page, nil, "")[0]

	assert.Equal(t, hash('f'), row.Hash)
	assert.Equal(t, "ffffffffffff...", row.ShortHash)
}

func TestProjectRows_BusyDownloadControl(t *testing.T) {
	builds := []entity.Build{{BuildHash: hash('a')}, {BuildHash: hash('b')}}
	page := view.Derive(builds, view.DefaultState(), 50)
	controls := map[state.ControlID]state.Control{
		state.DownloadControl(hash('a')): {Disabled: true, Label: state.LabelDownloading},
	}

	rows := ProjectRows(page, controls, "")

	busy, ok := rows[0].Button(entity.ActionDownload)
	require.True(t, ok)
	assert.True(t, busy.Disabled)
	assert.Equal(t, "Downloading...", busy.Label)

	idle, ok := rows[1].Button(entity.ActionDownload)
	require.True(t, ok)
	assert.False(t, idle.Disabled, "rows do not block each other")
	assert.Equal(t, "Download", idle.Label)
}

func TestProjectRows_Date(t *testing.T) {
	when := time.Date(2024, 3, 9, 14, 30, 0, 0, time.Local)
	builds := []entity.Build{
		{BuildHash: hash('a'), BuildDate: when},
		{BuildHash: hash('b'), RawDate: "last tuesday"},
	}
	rows := ProjectRows(view.Derive(builds, view.DefaultState(), 50), nil, "2006-01-02")

	assert.Equal(t, "2024-03-09", rows[0].Date)
	assert.Equal(t, "last tuesday", rows[1].Date)

	rows = ProjectRows(view.Derive(builds, view.DefaultState(), 50), nil, "")
	assert.Equal(t, "2024-03-09", rows[0].Date, "default layout is date only")

	rows = ProjectRows(view.Derive(builds, view.DefaultState(), 50), nil, "2006-01-02 15:04")
	assert.Equal(t, "2024-03-09 14:30", rows[0].Date)
}

func TestRowView_TableRow(t *testing.T) {
	row := RowView{
		ShortHash: "abc...",
		Date:      "today",
		Badges:    []string{"active", "patched"},
		Buttons:   []ButtonView{{Label: "Repatch"}},
	}
	assert.Equal(t, []string{"abc...", "-", "today", "active patched", "[Repatch]"}, []string(row.TableRow()))
}

func TestProjectBanner(t *testing.T) {
	none := ProjectBanner([]entity.Build{{BuildHash: hash('a'), IsPatched: true}})
	assert.False(t, none.Active)
	assert.Equal(t, NoActiveBuildMessage, none.Text)

	active := ProjectBanner([]entity.Build{
		{BuildHash: hash('a')},
		{BuildHash: hash('b'), IsPatched: true, IsActive: true},
	})
	assert.True(t, active.Active)
	assert.Equal(t, "bbbbbbbbbbbbbbbb...", active.ShortHash)
	assert.Contains(t, active.Text, active.ShortHash)
}

func TestPageButtons(t *testing.T) {
	builds := make([]entity.Build, 0, 120)
	for i := 0; i < 120; i++ {
		builds = append(builds, entity.Build{BuildHash: hash('a')})
	}

	assert.Nil(t, PageButtons(view.Derive(builds[:10], view.DefaultState(), 50)))
	assert.Nil(t, PageButtons(view.Derive(nil, view.DefaultState(), 50)))

	st := view.DefaultState()
	st.Page = 2
	buttons := PageButtons(view.Derive(builds, st, 50))
	require.Len(t, buttons, 3)
	assert.False(t, buttons[0].Current)
	assert.True(t, buttons[1].Current)
	assert.Equal(t, 3, buttons[2].Number)
}
