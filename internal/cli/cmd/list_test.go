package cmd

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/buildsel/internal/cli/model"
	"github.com/bnema/buildsel/internal/cli/styles"
	"github.com/bnema/buildsel/internal/domain/entity"
	"github.com/bnema/buildsel/internal/domain/view"
)

func listFixture() []entity.Build {
	return []entity.Build{
		{
			BuildHash: "aaaaaaaaaaaaaaaaaaaa",
			Channel:   "stable",
			BuildDate: time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC),
			IsActive:  true,
			IsPatched: true,
		},
		{BuildHash: "bbbbbbbbbbbbbbbbbbbb", Channel: "canary", RawDate: "yesterday"},
		{BuildHash: "cccccccccccccccccccc", IsPatched: true},
	}
}

func TestWriteListJSON(t *testing.T) {
	page := view.Derive(listFixture(), view.DefaultState(), 2)

	var buf bytes.Buffer
	require.NoError(t, writeListJSON(&buf, page))

	var got listOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 2, got.TotalPages)
	assert.Equal(t, 3, got.Total)
	require.Len(t, got.Builds, 2)

	assert.Equal(t, "aaaaaaaaaaaaaaaaaaaa", got.Builds[0].BuildHash)
	assert.Equal(t, "2025-01-02T10:00:00Z", got.Builds[0].BuildDate)
	assert.Equal(t, []string{"Repatch"}, got.Builds[0].Actions)

	assert.Equal(t, "yesterday", got.Builds[1].BuildDate)
	assert.Equal(t, []string{"Download"}, got.Builds[1].Actions)
}

func TestWriteListJSON_EmptyPageHasEmptyArray(t *testing.T) {
	page := view.Derive(nil, view.DefaultState(), 2)

	var buf bytes.Buffer
	require.NoError(t, writeListJSON(&buf, page))
	assert.Contains(t, buf.String(), `"builds": []`)
}

func TestRenderList(t *testing.T) {
	theme := styles.NewTheme(true)
	st := view.DefaultState()
	st.Filter = view.FilterPatched
	page := view.Derive(listFixture(), st, 10)

	out := renderList(theme, page, "")
	assert.Contains(t, out, "aaaaaaaaaaaaaaaaaaaa", "full hash is printed")
	assert.Contains(t, out, "cccccccccccccccccccc")
	assert.NotContains(t, out, "bbbbbbbbbbbbbbbbbbbb")
	assert.Contains(t, out, "[Activate]")
	assert.Contains(t, out, "page 1/1, 2 builds")
}

func TestRenderList_Empty(t *testing.T) {
	out := renderList(styles.NewTheme(true), view.Derive(nil, view.DefaultState(), 10), "")
	assert.Contains(t, out, model.EmptyMessage)
}
