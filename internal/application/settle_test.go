package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSettleAll_CollectsEveryOutcome(t *testing.T) {
	boom := errors.New("boom")

	outcomes := settleAll(context.Background(), 4, 0, func(ctx context.Context, i int) (int, error) {
		if i == 1 {
			return 0, boom
		}
		return i * 10, nil
	})

	require.Len(t, outcomes, 4)
	require.True(t, outcomes[0].OK())
	require.ErrorIs(t, outcomes[1].Err, boom)
	require.Equal(t, 20, outcomes[2].Value)
	require.Equal(t, 30, outcomes[3].Value)
}

func TestSettleAll_FailureDoesNotCancelOthers(t *testing.T) {
	outcomes := settleAll(context.Background(), 3, 0, func(ctx context.Context, i int) (string, error) {
		if i == 0 {
			return "", errors.New("first fails fast")
		}
		time.Sleep(10 * time.Millisecond)
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "ok", nil
	})

	require.False(t, outcomes[0].OK())
	require.Equal(t, "ok", outcomes[1].Value)
	require.Equal(t, "ok", outcomes[2].Value)
}

func TestSettleAll_RespectsLimit(t *testing.T) {
	var inFlight, peak atomic.Int32

	settleAll(context.Background(), 6, 2, func(ctx context.Context, i int) (struct{}, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return struct{}{}, nil
	})

	require.LessOrEqual(t, peak.Load(), int32(2))
}

func TestSettleAll_Empty(t *testing.T) {
	outcomes := settleAll(context.Background(), 0, 0, func(ctx context.Context, i int) (int, error) {
		t.Fatal("task must not run")
		return 0, nil
	})
	require.Empty(t, outcomes)
}
