package sched

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type traceEntry struct {
	task string
	at   time.Duration
}

func TestExecutorOrdersByWakeTime(t *testing.T) {
	clock := newFakeClock()
	executor := NewExecutor(clock)
	var trace []traceEntry

	loop := func(period time.Duration) func(*Task) error {
		return func(task *Task) error {
			for i := 0; i < 4; i++ {
				trace = append(trace, traceEntry{task.Name(), clock.elapsed()})
				if err := task.Sleep(period); err != nil {
					return err
				}
			}
			return nil
		}
	}
	executor.Spawn("a", loop(2*time.Millisecond))
	executor.Spawn("b", loop(3*time.Millisecond))

	require.NoError(t, executor.Run(context.Background()))

	ms := time.Millisecond
	assert.Equal(t, []traceEntry{
		{"a", 0}, {"b", 0},
		{"a", 2 * ms}, {"b", 3 * ms},
		{"a", 4 * ms}, {"b", 6 * ms},
		{"a", 6 * ms}, {"b", 9 * ms},
	}, trace, "b yielded for 6ms before a did")
}

func TestExecutorAlternatesZeroSleeps(t *testing.T) {
	executor := NewExecutor(newFakeClock())
	var trace []string

	loop := func(task *Task) error {
		for i := 0; i < 3; i++ {
			trace = append(trace, task.Name())
			if err := task.Sleep(0); err != nil {
				return err
			}
		}
		return nil
	}
	executor.Spawn("a", loop)
	executor.Spawn("b", loop)
	executor.Spawn("c", loop)

	require.NoError(t, executor.Run(context.Background()))
	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c", "a", "b", "c"}, trace)
}

func TestExecutorRunsOneTaskAtATime(t *testing.T) {
	executor := NewExecutor(newFakeClock())
	shared := 0
	body := func(task *Task) error {
		for i := 0; i < 100; i++ {
			v := shared
			runtime.Gosched()
			shared = v + 1
			if err := task.Sleep(0); err != nil {
				return err
			}
		}
		return nil
	}
	for _, name := range []string{"a", "b", "c"} {
		executor.Spawn(name, body)
	}

	require.NoError(t, executor.Run(context.Background()))
	assert.Equal(t, 300, shared)
}

func TestExecutorWaitSignal(t *testing.T) {
	clock := newFakeClock()
	executor := NewExecutor(clock)
	var signal Signal
	var wokeAt time.Duration

	executor.Spawn("consumer", func(task *Task) error {
		if err := task.Wait(&signal); err != nil {
			return err
		}
		wokeAt = clock.elapsed()
		// already raised: no suspension
		return task.Wait(&signal)
	})
	executor.Spawn("producer", func(task *Task) error {
		if err := task.Sleep(5 * time.Millisecond); err != nil {
			return err
		}
		signal.Raise()
		return nil
	})

	require.NoError(t, executor.Run(context.Background()))
	assert.Equal(t, 5*time.Millisecond, wokeAt)
}

func TestExecutorDeadlock(t *testing.T) {
	executor := NewExecutor(newFakeClock())
	var signal Signal
	var waitErr error
	executor.Spawn("waiter", func(task *Task) error {
		waitErr = task.Wait(&signal)
		return waitErr
	})

	err := executor.Run(context.Background())

	assert.ErrorIs(t, err, ErrDeadlock)
	assert.ErrorIs(t, waitErr, ErrStopped)
}

func TestExecutorCancelStopsEveryTask(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	executor := NewExecutor(newFakeClock())

	errs := make(map[string]error)
	executor.Spawn("ticker", func(task *Task) error {
		for i := 0; ; i++ {
			if i == 10 {
				cancel()
			}
			if err := task.Sleep(time.Millisecond); err != nil {
				errs[task.Name()] = err
				return err
			}
		}
	})
	executor.Spawn("sleeper", func(task *Task) error {
		err := task.Sleep(time.Hour)
		errs[task.Name()] = err
		return err
	})

	err := executor.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, errs["ticker"], ErrStopped)
	assert.ErrorIs(t, errs["sleeper"], ErrStopped)
}

func TestExecutorCancelWhileSleeping(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	executor := NewExecutor(RealClock())
	executor.Spawn("sleeper", func(task *Task) error {
		for {
			if err := task.Sleep(time.Hour); err != nil {
				return err
			}
		}
	})

	assert.ErrorIs(t, executor.Run(ctx), context.DeadlineExceeded)
}

func TestExecutorTaskFailure(t *testing.T) {
	boom := errors.New("boom")
	executor := NewExecutor(newFakeClock())
	executor.Spawn("healthy", func(task *Task) error {
		for {
			if err := task.Sleep(time.Millisecond); err != nil {
				return err
			}
		}
	})
	executor.Spawn("broken", func(task *Task) error {
		if err := task.Sleep(3 * time.Millisecond); err != nil {
			return err
		}
		return boom
	})

	err := executor.Run(context.Background())

	require.ErrorIs(t, err, boom)
	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, "broken", taskErr.Task)
}

func TestExecutorRunTwice(t *testing.T) {
	executor := NewExecutor(newFakeClock())
	require.NoError(t, executor.Run(context.Background()))
	assert.ErrorIs(t, executor.Run(context.Background()), ErrAlreadyRunning)
}
