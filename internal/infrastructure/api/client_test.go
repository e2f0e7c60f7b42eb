package api_test

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/buildsel/internal/application/port"
	"github.com/bnema/buildsel/internal/domain/entity"
	"github.com/bnema/buildsel/internal/infrastructure/api"
	"github.com/bnema/buildsel/internal/logging"
	"github.com/bnema/buildsel/internal/testutil"
)

const (
	hashA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	hashB = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func newClient(t *testing.T, srv *testutil.BuildServer) *api.Client {
	t.Helper()
	c, err := api.NewClient(srv.URL, api.WithTimeout(5*time.Second))
	require.NoError(t, err)
	return c
}

func TestNewClient_ValidatesURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://host", "http://", "://bad"} {
		_, err := api.NewClient(raw)
		assert.Error(t, err, raw)
	}

	c, err := api.NewClient("http://localhost:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/", c.BaseURL())
}

func TestClient_ListBuilds(t *testing.T) {
	date := time.Date(2025, 3, 14, 9, 26, 53, 0, time.FixedZone("", 3600))
	srv := testutil.NewBuildServer(t,
		entity.Build{BuildHash: hashA, Channel: "stable", BuildDate: date, IsPatched: true, IsActive: true},
		entity.Build{BuildHash: hashB, Channel: "canary", RawDate: "sometime"},
	)
	c := newClient(t, srv)

	builds, err := c.ListBuilds(testContext())
	require.NoError(t, err)
	require.Len(t, builds, 2)

	assert.Equal(t, hashA, builds[0].BuildHash)
	assert.Equal(t, "stable", builds[0].Channel)
	assert.True(t, builds[0].IsPatched)
	assert.True(t, builds[0].IsActive)
	assert.True(t, date.Equal(builds[0].BuildDate))
	assert.Empty(t, builds[0].RawDate)

	assert.Equal(t, hashB, builds[1].BuildHash)
	assert.True(t, builds[1].BuildDate.IsZero())
	assert.Equal(t, "sometime", builds[1].RawDate)
}

func TestClient_ListBuildsErrors(t *testing.T) {
	srv := testutil.NewBuildServer(t)
	c := newClient(t, srv)

	srv.Override(testutil.RouteList, testutil.Response{Status: http.StatusOK, Body: "<html>"})
	_, err := c.ListBuilds(testContext())
	assert.ErrorIs(t, err, port.ErrDecode)

	srv.Override(testutil.RouteList, testutil.Response{
		Status: http.StatusInternalServerError,
		Body:   `{"status":"error","message":"Database error"}`,
	})
	_, err = c.ListBuilds(testContext())
	require.ErrorIs(t, err, port.ErrDecode)
	assert.Contains(t, err.Error(), "Database error")

	srv.Close()
	_, err = c.ListBuilds(testContext())
	assert.ErrorIs(t, err, port.ErrTransport)
}

func TestClient_ListBuildsCoalesces(t *testing.T) {
	srv := testutil.NewBuildServer(t, entity.Build{BuildHash: hashA})
	c := newClient(t, srv)

	var wg sync.WaitGroup
	results := make([][]entity.Build, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b, err := c.ListBuilds(testContext())
			assert.NoError(t, err)
			results[i] = b
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, srv.ListCalls(), len(results))
	results[0][0].Channel = "mutated"
	for _, r := range results[1:] {
		require.Len(t, r, 1)
		assert.NotEqual(t, "mutated", r[0].Channel, "each caller gets its own copy")
	}
}

func TestClient_Actions(t *testing.T) {
	srv := testutil.NewBuildServer(t,
		entity.Build{BuildHash: hashA, IsPatched: true},
		entity.Build{BuildHash: hashB},
	)
	srv.SetCurrent(hashB)
	c := newClient(t, srv)
	ctx := testContext()

	res, err := c.FetchCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, port.StatusAccepted, res.Status)
	assert.Contains(t, res.Message, hashB)

	res, err = c.Download(ctx, hashB)
	require.NoError(t, err)
	assert.False(t, res.Failed())
	assert.Equal(t, "Download started for build "+hashB, res.Message)
	assert.JSONEq(t, `{"build_hash":"`+hashB+`"}`, srv.RequestsFor(testutil.RouteDownload)[0].Body)

	res, err = c.Activate(ctx, hashA)
	require.NoError(t, err)
	assert.True(t, res.OK())

	res, err = c.Repatch(ctx, hashA)
	require.NoError(t, err)
	assert.Equal(t, "Repatch started", res.Message)
	assert.Equal(t, hashA, srv.RequestsFor(testutil.RouteRepatch)[0].Hash)

	res, err = c.SetIndexScripts(ctx, hashA, []string{"web.js", "vendor.js"})
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, []string{"web.js", "vendor.js"}, srv.IndexScripts(hashA))
}

func TestClient_ErrorBodiesAreDecoded(t *testing.T) {
	srv := testutil.NewBuildServer(t, entity.Build{BuildHash: hashB})
	c := newClient(t, srv)

	// Activating an unpatched build answers 404 with a JSON body.
	res, err := c.Activate(testContext(), hashB)
	require.NoError(t, err)
	assert.True(t, res.Failed())
	assert.Equal(t, "Build not found", res.Message)

	srv.Override(testutil.RouteRepatch, testutil.Response{Status: http.StatusInternalServerError, Body: `{"message":"boom"}`})
	res, err = c.Repatch(testContext(), hashB)
	require.NoError(t, err)
	assert.True(t, res.Failed(), "an error status without a body status is a failure")

	srv.Override(testutil.RouteDownload, testutil.Response{Status: http.StatusBadGateway, Body: "Bad Gateway"})
	_, err = c.Download(testContext(), hashB)
	require.ErrorIs(t, err, port.ErrDecode)
	assert.True(t, strings.Contains(err.Error(), "502"))
}

func TestClient_StructuredBuildHash(t *testing.T) {
	srv := testutil.NewBuildServer(t)
	srv.Override(testutil.RouteFetchCurrent, testutil.Response{
		Status: http.StatusAccepted,
		Body:   `{"status":"accepted","message":"Fetching","build_hash":"` + hashA + `"}`,
	})
	c := newClient(t, srv)

	res, err := c.FetchCurrent(testContext())
	require.NoError(t, err)
	assert.Equal(t, hashA, res.BuildHash)
}

func TestClient_CanceledContext(t *testing.T) {
	srv := testutil.NewBuildServer(t)
	c := newClient(t, srv)

	ctx, cancel := context.WithCancel(testContext())
	cancel()
	_, err := c.FetchCurrent(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
