package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faizmokh/gaji/internal/ledger"
	"github.com/faizmokh/gaji/internal/store"
)

func openTestRepository(t *testing.T) (*Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "gaji.db")
	repo, err := Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo, path
}

func TestRepositoryEmptySnapshot(t *testing.T) {
	repo, _ := openTestRepository(t)

	snap, err := repo.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Weeks)
	assert.False(t, snap.HasBonus)
	assert.Equal(t, ledger.BaseBonus, snap.CurrentBonus())
}

func TestRepositoryUpsertKeepsOrder(t *testing.T) {
	ctx := context.Background()
	repo, _ := openTestRepository(t)

	for _, id := range []string{"week-2025-11-17", "week-2025-11-03", "week-2025-11-10"} {
		_, err := repo.SaveWeek(ctx, ledger.NewWeek(id))
		require.NoError(t, err)
	}
	updated := ledger.NewWeek("week-2025-11-17").WithDistance(ledger.Saturday, 5.5).WithDistance(ledger.Sunday, 8)
	_, err := repo.SaveWeek(ctx, updated)
	require.NoError(t, err)

	snap, err := repo.Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Weeks, 3)
	assert.Equal(t, updated, snap.Weeks[0])
	assert.Equal(t, "week-2025-11-03", snap.Weeks[1].WeekID)
	assert.Equal(t, "week-2025-11-10", snap.Weeks[2].WeekID)
}

func TestRepositoryBonus(t *testing.T) {
	ctx := context.Background()
	repo, _ := openTestRepository(t)

	_, err := repo.SaveBonus(ctx, 22)
	require.NoError(t, err)
	_, err = repo.SaveBonus(ctx, 24)
	require.NoError(t, err)

	snap, err := repo.Fetch(ctx)
	require.NoError(t, err)
	assert.True(t, snap.HasBonus)
	assert.Equal(t, 24, snap.Bonus)
}

func TestRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo, _ := openTestRepository(t)

	_, err := repo.SaveWeek(ctx, ledger.NewWeek("week-2025-11-10"))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteWeek(ctx, "week-2025-11-10"))
	assert.ErrorIs(t, repo.DeleteWeek(ctx, "week-2025-11-10"), ledger.ErrWeekNotFound)
}

func TestRepositoryRejectsReservedID(t *testing.T) {
	repo, _ := openTestRepository(t)
	_, err := repo.SaveWeek(context.Background(), ledger.NewWeek(ledger.BonusRecordID))
	assert.ErrorIs(t, err, store.ErrReservedWeekID)
}

func TestRepositoryReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	repo, path := openTestRepository(t)

	_, err := repo.SaveWeek(ctx, ledger.NewWeek("week-2025-11-10").WithDistance(ledger.Monday, 12))
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	snap, err := reopened.Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Weeks, 1)
	assert.Equal(t, 12.0, snap.Weeks[0].Distance(ledger.Monday))
}
