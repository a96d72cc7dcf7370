package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"nail-studio-bot/internal/domain/entity"
)

func TestMemoryUserRepository_GetCreatesLockedUser(t *testing.T) {
	repo := NewMemoryUserRepository()

	user, err := repo.Get(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateLocked, user.State)
	require.False(t, user.Authorized)
}

func TestMemoryUserRepository_SaveAndUpdateState(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	user.Authorize()
	user.ClientName = "Lucía"

	// unsaved changes must not leak into the store
	stale, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.False(t, stale.Authorized)

	require.NoError(t, repo.Save(ctx, user))
	require.NoError(t, repo.UpdateState(ctx, 1, entity.StateAwaitingPhoto))

	got, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.True(t, got.Authorized)
	require.Equal(t, "Lucía", got.ClientName)
	require.Equal(t, entity.StateAwaitingPhoto, got.State)
}
