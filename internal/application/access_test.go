package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"nail-studio-bot/internal/domain/entity"
	"nail-studio-bot/internal/infrastructure/storage"
)

func TestAccessService_Unlock(t *testing.T) {
	users := NewUserService(storage.NewMemoryUserRepository())
	svc := NewAccessService(users, "MANICURA2026")
	ctx := context.Background()

	user, err := svc.Unlock(ctx, 1, 10, " manicura2026 ")
	require.NoError(t, err)
	require.True(t, user.Authorized)
	require.Equal(t, entity.StateMainMenu, user.State)

	stored, err := users.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.True(t, stored.Authorized)
}

func TestAccessService_WrongCode(t *testing.T) {
	users := NewUserService(storage.NewMemoryUserRepository())
	svc := NewAccessService(users, "MANICURA2026")
	ctx := context.Background()

	user, err := svc.Unlock(ctx, 1, 10, "MANICURA2025")
	require.ErrorIs(t, err, ErrWrongSalonCode)
	require.False(t, user.Authorized)

	stored, err := users.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.False(t, stored.Authorized)
}

func TestAccessService_Lock(t *testing.T) {
	users := NewUserService(storage.NewMemoryUserRepository())
	svc := NewAccessService(users, "MANICURA2026")
	ctx := context.Background()

	_, err := svc.Unlock(ctx, 1, 10, "MANICURA2026")
	require.NoError(t, err)

	user, err := svc.Lock(ctx, 1, 10)
	require.NoError(t, err)
	require.False(t, user.Authorized)
	require.Equal(t, entity.StateLocked, user.State)
}
