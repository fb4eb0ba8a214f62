package sched

import (
	"errors"
	"fmt"
)

var (
	// ErrAcquisitionFailure wraps any error returned by the sample reader.
	ErrAcquisitionFailure = errors.New("acquisition failure")

	// ErrRenderFailure wraps any error returned while flushing the frame buffer.
	ErrRenderFailure = errors.New("render failure")

	// ErrStopped is returned from a suspension point once the executor stops.
	ErrStopped = errors.New("executor stopped")

	// ErrDeadlock is returned when every remaining task waits on a signal
	// and no task is left to raise it.
	ErrDeadlock = errors.New("all tasks blocked on signals")

	// ErrAlreadyRunning is returned when Run is called twice.
	ErrAlreadyRunning = errors.New("already running")
)

// TaskError reports the task whose failure terminated the executor.
type TaskError struct {
	Task string
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s: %v", e.Task, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}
