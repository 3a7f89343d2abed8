package executor

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Task is a unit of work with an externally estimated peak memory cost.
// Tasks are synchronous closures: once dispatched they run to completion,
// there is no mid-flight cancellation.
type Task func() error

// Observer receives admission events. Implementations must be safe for
// concurrent use; the zero-value hooks are never called when nil.
type Observer struct {
	// OnAdmit is called when a task is dispatched, with its cost and the
	// total reserved cost including it.
	OnAdmit func(cost, reserved uint64)

	// OnRetire is called when a task finishes, with its cost and the total
	// reserved cost after releasing it.
	OnRetire func(cost, reserved uint64)
}

// ResourceConstrainedExecutor runs queued tasks on a fixed-size worker pool
// under an admission budget: the sum of estimated costs of concurrently
// running tasks never exceeds the budget. Dispatch is cost-fit order, not
// strict FIFO; a later, smaller task may run ahead of an earlier, larger
// one. No fairness guarantee is made.
//
// A task whose cost alone exceeds the budget is not rejected: it is
// admitted once the pool is idle, so a degenerate budget degrades to serial
// execution instead of deadlock. The budget is advisory; the OS enforces
// nothing.
type ResourceConstrainedExecutor struct {
	name    string
	budget  uint64
	workers *semaphore.Weighted
	obs     Observer

	mu       sync.Mutex
	cond     *sync.Cond
	queue    []queuedTask
	reserved uint64
	running  int
	firstErr error
}

type queuedTask struct {
	cost uint64
	fn   Task
}

// New creates an executor named for its managed resource (e.g. "CPU RAM")
// with the given worker pool size and admission budget in cost units.
func New(name string, workers int, budget uint64) *ResourceConstrainedExecutor {
	return NewWithObserver(name, workers, budget, Observer{})
}

// NewWithObserver is New with admission instrumentation attached.
func NewWithObserver(name string, workers int, budget uint64, obs Observer) *ResourceConstrainedExecutor {
	if workers <= 0 {
		workers = 1
	}

	e := &ResourceConstrainedExecutor{
		name:    name,
		budget:  budget,
		workers: semaphore.NewWeighted(int64(workers)),
		obs:     obs,
	}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// Name returns the name of the managed resource.
func (e *ResourceConstrainedExecutor) Name() string { return e.name }

// Budget returns the admission budget.
func (e *ResourceConstrainedExecutor) Budget() uint64 { return e.budget }

// Add enqueues a task with its estimated peak cost. Tasks do not start
// until ExecTasks is called.
func (e *ResourceConstrainedExecutor) Add(cost uint64, fn Task) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.queue = append(e.queue, queuedTask{cost: cost, fn: fn})
}

// ExecTasks drains the queue and blocks until every admitted task has
// finished or failed.
//
// Failure policy: the first observed task error stops dispatch of queued
// tasks, already-running tasks are allowed to finish, and that first error
// is returned once the pool is idle. Undispatched tasks are discarded.
// Cancelling ctx likewise stops dispatch of queued tasks only.
func (e *ResourceConstrainedExecutor) ExecTasks(ctx context.Context) error {
	e.mu.Lock()
	e.firstErr = nil

	for {
		if e.firstErr != nil || ctx.Err() != nil {
			break
		}

		i := e.findFit()
		if i < 0 {
			if len(e.queue) == 0 {
				break
			}
			// Queued work exists but nothing fits: wait for a retirement.
			e.cond.Wait()
			continue
		}

		t := e.queue[i]
		e.queue = append(e.queue[:i], e.queue[i+1:]...)
		e.reserved += t.cost
		e.running++
		if e.obs.OnAdmit != nil {
			e.obs.OnAdmit(t.cost, e.reserved)
		}
		e.mu.Unlock()

		if err := e.workers.Acquire(ctx, 1); err != nil {
			e.mu.Lock()
			e.retireLocked(t.cost, nil)
			continue
		}

		// A sibling may have failed while this task waited for a worker
		// slot; admitted-but-not-started work is dropped in that case.
		e.mu.Lock()
		if e.firstErr != nil {
			e.workers.Release(1)
			e.retireLocked(t.cost, nil)
			continue
		}
		e.mu.Unlock()

		go func(t queuedTask) {
			defer e.workers.Release(1)
			err := t.fn()

			e.mu.Lock()
			e.retireLocked(t.cost, err)
			e.mu.Unlock()
		}(t)

		e.mu.Lock()
	}

	for e.running > 0 {
		e.cond.Wait()
	}

	e.queue = nil
	err := e.firstErr
	e.mu.Unlock()

	if err != nil {
		return err
	}
	return ctx.Err()
}

// findFit returns the index of the first queued task admissible under the
// current reservation, or -1. A task larger than the whole budget is
// admissible only on an idle pool.
func (e *ResourceConstrainedExecutor) findFit() int {
	for i, t := range e.queue {
		if t.cost > e.budget {
			if e.running == 0 {
				return i
			}
			continue
		}
		if e.reserved+t.cost <= e.budget {
			return i
		}
	}
	return -1
}

func (e *ResourceConstrainedExecutor) retireLocked(cost uint64, err error) {
	e.reserved -= cost
	e.running--
	if err != nil && e.firstErr == nil {
		e.firstErr = err
	}
	if e.obs.OnRetire != nil {
		e.obs.OnRetire(cost, e.reserved)
	}
	e.cond.Broadcast()
}
