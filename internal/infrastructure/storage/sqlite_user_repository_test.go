package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"nail-studio-bot/internal/domain/entity"
)

func newTestSQLite(t *testing.T, path string) *SQLiteUserRepository {
	t.Helper()

	repo, err := NewSQLiteUserRepository(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSQLiteUserRepository_GetCreatesLockedUser(t *testing.T) {
	repo := newTestSQLite(t, ":memory:")

	user, err := repo.Get(context.Background(), 7, 70)
	require.NoError(t, err)
	require.Equal(t, int64(7), user.ID)
	require.Equal(t, int64(70), user.ChatID)
	require.Equal(t, entity.StateLocked, user.State)
	require.False(t, user.Authorized)
}

func TestSQLiteUserRepository_SaveRoundTrip(t *testing.T) {
	repo := newTestSQLite(t, ":memory:")
	ctx := context.Background()

	user, err := repo.Get(ctx, 7, 70)
	require.NoError(t, err)
	user.Authorize()
	user.ClientName = "Marta"
	require.NoError(t, repo.Save(ctx, user))

	require.NoError(t, repo.UpdateState(ctx, 7, entity.StateShowingResult))

	got, err := repo.Get(ctx, 7, 70)
	require.NoError(t, err)
	require.True(t, got.Authorized)
	require.Equal(t, "Marta", got.ClientName)
	require.Equal(t, entity.StateShowingResult, got.State)
}

func TestSQLiteUserRepository_AccessSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.db")
	ctx := context.Background()

	repo, err := NewSQLiteUserRepository(path)
	require.NoError(t, err)
	user, err := repo.Get(ctx, 3, 30)
	require.NoError(t, err)
	user.Authorize()
	require.NoError(t, repo.Save(ctx, user))
	require.NoError(t, repo.Close())

	reopened := newTestSQLite(t, path)
	got, err := reopened.Get(ctx, 3, 30)
	require.NoError(t, err)
	require.True(t, got.Authorized)
	require.Equal(t, entity.StateMainMenu, got.State)
}
