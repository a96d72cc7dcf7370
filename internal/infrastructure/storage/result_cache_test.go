package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"nail-studio-bot/internal/domain/entity"
	"nail-studio-bot/internal/domain/port"
)

func TestResultCache_PutGetDiscard(t *testing.T) {
	c := NewResultCache(time.Hour)
	session := &port.Session{
		ClientName: "Lucía",
		Result:     &entity.NailAnalysisResult{ID: "a1"},
	}

	_, ok := c.Get(1)
	require.False(t, ok)

	c.Put(1, session)
	got, ok := c.Get(1)
	require.True(t, ok)
	require.Same(t, session, got)

	_, ok = c.Get(2)
	require.False(t, ok)

	c.Discard(1)
	_, ok = c.Get(1)
	require.False(t, ok)
}

func TestResultCache_Expires(t *testing.T) {
	c := NewResultCache(20 * time.Millisecond)
	c.Put(1, &port.Session{})

	require.Eventually(t, func() bool {
		_, ok := c.Get(1)
		return !ok
	}, time.Second, 10*time.Millisecond)
}
