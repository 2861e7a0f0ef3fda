package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faizmokh/gaji/internal/ledger"
	"github.com/faizmokh/gaji/internal/logging"
	"github.com/faizmokh/gaji/internal/store"
)

func newTestServer(t *testing.T, st store.Store) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewHandler(st, logging.Discard()))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientRoundTripThroughServer(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	srv := newTestServer(t, mem)
	client := store.NewClient(srv.URL, srv.Client(), nil)

	week := ledger.NewWeek("week-2025-11-10").WithDistance(ledger.Saturday, 6).WithDistance(ledger.Sunday, 5)
	saved, err := client.SaveWeek(ctx, week)
	require.NoError(t, err)
	assert.Equal(t, week, saved)

	value, err := client.SaveBonus(ctx, 22)
	require.NoError(t, err)
	assert.Equal(t, 22, value)

	_, err = client.SaveWeek(ctx, ledger.NewWeek("week-2025-11-03"))
	require.NoError(t, err)

	snap, err := client.Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Weeks, 2)
	assert.Equal(t, "week-2025-11-10", snap.Weeks[0].WeekID)
	assert.Equal(t, "week-2025-11-03", snap.Weeks[1].WeekID)
	assert.True(t, snap.HasBonus)
	assert.Equal(t, 22, snap.CurrentBonus())

	require.NoError(t, client.DeleteWeek(ctx, "week-2025-11-10"))
	err = client.DeleteWeek(ctx, "week-2025-11-10")
	assert.ErrorIs(t, err, ledger.ErrWeekNotFound)
}

func TestSaveRejectsMalformedRecord(t *testing.T) {
	srv := newTestServer(t, store.NewMemory())

	resp, err := http.Post(srv.URL+"/save", "application/json", strings.NewReader(`{"mon":3}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteRequiresWeekID(t *testing.T) {
	srv := newTestServer(t, store.NewMemory())

	resp, err := http.Post(srv.URL+"/delete", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDataRejectsWrongMethod(t *testing.T) {
	srv := newTestServer(t, store.NewMemory())

	resp, err := http.Post(srv.URL+"/data", "application/json", strings.NewReader(`[]`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, store.NewMemory())

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
