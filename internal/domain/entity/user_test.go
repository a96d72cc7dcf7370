package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser_DefaultState(t *testing.T) {
	u := NewUser(1, 10)
	require.Equal(t, StateLocked, u.State)
	require.False(t, u.Authorized)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, int64(10), u.ChatID)
}

func TestUser_AuthorizeAndRevoke(t *testing.T) {
	u := NewUser(1, 10)
	u.Authorize()
	require.True(t, u.Authorized)
	require.Equal(t, StateMainMenu, u.State)

	u.ClientName = "Lucía"
	u.Revoke()
	require.False(t, u.Authorized)
	require.Empty(t, u.ClientName)
	require.Equal(t, StateLocked, u.State)
}

func TestUser_DisplayClientName(t *testing.T) {
	u := NewUser(1, 10)
	require.Equal(t, "Clienta", u.DisplayClientName("Clienta"))

	u.ClientName = "Marta"
	require.Equal(t, "Marta", u.DisplayClientName("Clienta"))
}
