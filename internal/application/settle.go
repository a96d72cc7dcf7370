package app

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Outcome is the result of one settled task.
type Outcome[T any] struct {
	Value T
	Err   error
}

// OK reports whether the task succeeded.
func (o Outcome[T]) OK() bool {
	return o.Err == nil
}

// settleAll runs task for every index in [0, n) and waits for all of them.
// A failing task never cancels the others. limit <= 0 means no limit.
// Outcomes are index-aligned with the tasks.
func settleAll[T any](ctx context.Context, n, limit int, task func(ctx context.Context, i int) (T, error)) []Outcome[T] {
	outcomes := make([]Outcome[T], n)
	if n == 0 {
		return outcomes
	}

	// plain Group: no shared cancellation between tasks
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i := 0; i < n; i++ {
		g.Go(func() error {
			v, err := task(ctx, i)
			outcomes[i] = Outcome[T]{Value: v, Err: err}
			return nil
		})
	}

	_ = g.Wait()
	return outcomes
}
