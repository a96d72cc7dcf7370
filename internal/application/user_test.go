package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"nail-studio-bot/internal/domain/entity"
	"nail-studio-bot/internal/infrastructure/storage"
)

func TestUserService_SetState(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetClientName(ctx, 1, 10, "Lucía")
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, user.State)

	require.NoError(t, svc.SetState(ctx, 1, entity.StateProcessing))

	stored, err := svc.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, stored.State)
	require.Equal(t, "Lucía", stored.ClientName)
}

func TestUserService_Cancel(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.Get(ctx, 1, 10)
	require.NoError(t, err)
	user.Authorize()
	user.ClientName = "Lucía"
	user.SetState(entity.StateShowingResult)
	require.NoError(t, svc.Save(ctx, user))

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Empty(t, user.ClientName)
	require.Equal(t, entity.StateMainMenu, user.State)

	locked, err := svc.Cancel(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, entity.StateLocked, locked.State)
}

func TestUserService_SetClientName(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetClientName(ctx, 2, 20, "  Lucía ")
	require.NoError(t, err)
	require.Equal(t, "Lucía", user.ClientName)
	require.Equal(t, entity.StateAwaitingPhoto, user.State)

	stored, err := svc.Get(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, "Lucía", stored.ClientName)
}
