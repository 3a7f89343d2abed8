package executor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecTasks_RunsAllTasks(t *testing.T) {
	e := New("test", 4, 100)

	var done atomic.Int32
	for i := 0; i < 20; i++ {
		e.Add(10, func() error {
			done.Add(1)
			return nil
		})
	}

	require.NoError(t, e.ExecTasks(context.Background()))
	assert.Equal(t, int32(20), done.Load())
}

func TestExecTasks_NeverExceedsBudget(t *testing.T) {
	const budget = 100

	var mu sync.Mutex
	maxReserved := uint64(0)

	e := NewWithObserver("test", 8, budget, Observer{
		OnAdmit: func(_, reserved uint64) {
			mu.Lock()
			if reserved > maxReserved {
				maxReserved = reserved
			}
			mu.Unlock()
		},
	})

	// Total cost 60*10 = 600, far above budget.
	for i := 0; i < 60; i++ {
		e.Add(10, func() error {
			time.Sleep(time.Millisecond)
			return nil
		})
	}

	require.NoError(t, e.ExecTasks(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, maxReserved, uint64(budget))
	assert.Greater(t, maxReserved, uint64(0))
}

func TestExecTasks_CostFitOrder(t *testing.T) {
	// Worker pool of 2, budget 100. The first big task blocks 90 units; the
	// second big task cannot fit, but the small one can and runs ahead.
	e := New("test", 2, 100)

	bigStarted := make(chan struct{})
	release := make(chan struct{})
	var order []string
	var mu sync.Mutex
	record := func(name string) {
		mu.Lock()
		order = append(order, name)
		mu.Unlock()
	}

	e.Add(90, func() error {
		record("big1")
		close(bigStarted)
		<-release
		return nil
	})
	e.Add(90, func() error {
		record("big2")
		return nil
	})
	e.Add(10, func() error {
		<-bigStarted
		record("small")
		close(release)
		return nil
	})

	require.NoError(t, e.ExecTasks(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 3)
	assert.Equal(t, "big1", order[0])
	assert.Equal(t, "small", order[1])
	assert.Equal(t, "big2", order[2])
}

func TestExecTasks_OversizedTaskRunsSerially(t *testing.T) {
	var mu sync.Mutex
	maxRunning, running := 0, 0

	e := New("test", 4, 50)

	for i := 0; i < 4; i++ {
		e.Add(200, func() error { // each task alone exceeds the budget
			mu.Lock()
			running++
			if running > maxRunning {
				maxRunning = running
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
			return nil
		})
	}

	require.NoError(t, e.ExecTasks(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, maxRunning, "oversized tasks must not overlap")
}

func TestExecTasks_FirstErrorWins(t *testing.T) {
	e := New("test", 1, 1000)

	errBoom := errors.New("boom")
	var ran atomic.Int32

	e.Add(1, func() error {
		ran.Add(1)
		return errBoom
	})
	e.Add(1, func() error {
		ran.Add(1)
		return errors.New("later failure")
	})
	e.Add(1, func() error {
		ran.Add(1)
		return nil
	})

	err := e.ExecTasks(context.Background())
	assert.ErrorIs(t, err, errBoom)

	// Single worker: the failure is observed before anything else is
	// dispatched, so queued tasks never run.
	assert.Equal(t, int32(1), ran.Load())
}

func TestExecTasks_InFlightTasksFinishAfterError(t *testing.T) {
	e := New("test", 2, 1000)

	started := make(chan struct{})
	var finished atomic.Bool

	e.Add(1, func() error {
		<-started
		return errors.New("fail fast")
	})
	e.Add(1, func() error {
		close(started)
		time.Sleep(5 * time.Millisecond)
		finished.Store(true)
		return nil
	})

	err := e.ExecTasks(context.Background())
	require.Error(t, err)
	assert.True(t, finished.Load(), "in-flight sibling must run to completion")
}

func TestExecTasks_EmptyQueue(t *testing.T) {
	e := New("test", 2, 10)
	require.NoError(t, e.ExecTasks(context.Background()))
}

func TestExecTasks_Reusable(t *testing.T) {
	e := New("test", 2, 10)

	var n atomic.Int32
	e.Add(1, func() error { n.Add(1); return nil })
	require.NoError(t, e.ExecTasks(context.Background()))

	e.Add(1, func() error { n.Add(1); return nil })
	require.NoError(t, e.ExecTasks(context.Background()))

	assert.Equal(t, int32(2), n.Load())
}

func TestExecTasks_ZeroBudgetStillDrains(t *testing.T) {
	e := New("test", 4, 0)

	var done atomic.Int32
	for i := 0; i < 5; i++ {
		e.Add(10, func() error {
			done.Add(1)
			return nil
		})
	}

	require.NoError(t, e.ExecTasks(context.Background()))
	assert.Equal(t, int32(5), done.Load())
}
