package sched

import (
	"context"
	"time"
)

type resumeMsg struct {
	stop bool
}

// suspension is what a task hands back to the executor when it yields.
type suspension struct {
	until  time.Time
	signal *Signal
	done   bool
	err    error
}

// Task is the handle a task function uses to yield.
//
// Each task body runs on its own goroutine, but the executor only lets one of
// them run at a time: a task runs from the moment it is resumed until its
// next Sleep or Wait.
type Task struct {
	name   string
	fn     func(*Task) error
	clock  Clock
	resume chan resumeMsg
	yield  chan suspension

	state    suspension
	seq      uint64
	stopped  bool
	finished bool
}

func (t *Task) Name() string { return t.name }

// Sleep suspends the task for d. A zero d still yields.
func (t *Task) Sleep(d time.Duration) error {
	if t.stopped {
		return ErrStopped
	}
	return t.suspend(suspension{until: t.clock.Now().Add(d)})
}

// Wait suspends the task until s is raised. It returns at once if s is
// already raised.
func (t *Task) Wait(s *Signal) error {
	if t.stopped {
		return ErrStopped
	}
	if s.Raised() {
		return nil
	}
	return t.suspend(suspension{until: t.clock.Now(), signal: s})
}

func (t *Task) suspend(s suspension) error {
	t.yield <- s
	if msg := <-t.resume; msg.stop {
		t.stopped = true
		return ErrStopped
	}
	return nil
}

func (t *Task) main() {
	if msg := <-t.resume; msg.stop {
		t.yield <- suspension{done: true, err: ErrStopped}
		return
	}
	err := t.fn(t)
	t.yield <- suspension{done: true, err: err}
}

// Executor runs tasks cooperatively, one at a time.
//
// The next task to run is the one with the earliest wake-up time; ties go to
// the task that yielded first, or was spawned first if it never ran. A task waiting on a signal is eligible once the
// signal is raised, with the time it started waiting as its wake-up time.
type Executor struct {
	clock   Clock
	tasks   []*Task
	seq     uint64
	running bool
}

func NewExecutor(clock Clock) *Executor {
	if clock == nil {
		clock = RealClock()
	}
	return &Executor{clock: clock}
}

// Spawn registers a task. Tasks must be spawned before Run.
func (e *Executor) Spawn(name string, fn func(*Task) error) {
	e.tasks = append(e.tasks, &Task{
		name:   name,
		fn:     fn,
		clock:  e.clock,
		resume: make(chan resumeMsg),
		yield:  make(chan suspension),
		seq:    e.nextSeq(),
	})
}

func (e *Executor) nextSeq() uint64 {
	e.seq++
	return e.seq
}

// Run drives the tasks until they all return, one of them fails, or ctx is
// done. Cancellation is observed at every suspension point; Run returns only
// after every task goroutine has exited.
func (e *Executor) Run(ctx context.Context) error {
	if e.running {
		return ErrAlreadyRunning
	}
	e.running = true

	for _, t := range e.tasks {
		go t.main()
	}

	for {
		if err := ctx.Err(); err != nil {
			e.stop()
			return err
		}

		t, at := e.next()
		if t == nil {
			if e.alive() == 0 {
				return nil
			}
			e.stop()
			return ErrDeadlock
		}

		if d := at.Sub(e.clock.Now()); d > 0 {
			if err := e.clock.Sleep(ctx, d); err != nil {
				e.stop()
				return err
			}
		}

		t.resume <- resumeMsg{}
		s := <-t.yield
		if s.done {
			t.finished = true
			if s.err != nil {
				e.stop()
				return &TaskError{Task: t.name, Err: s.err}
			}
			continue
		}
		t.state = s
		t.seq = e.nextSeq()
	}
}

func (e *Executor) next() (*Task, time.Time) {
	var best *Task
	var bestAt time.Time
	for _, t := range e.tasks {
		if t.finished {
			continue
		}
		if t.state.signal != nil && !t.state.signal.Raised() {
			continue
		}
		if best == nil || t.state.until.Before(bestAt) ||
			(t.state.until.Equal(bestAt) && t.seq < best.seq) {
			best, bestAt = t, t.state.until
		}
	}
	return best, bestAt
}

func (e *Executor) alive() int {
	n := 0
	for _, t := range e.tasks {
		if !t.finished {
			n++
		}
	}
	return n
}

// stop resumes every parked task with a stop request and waits for it to
// return.
func (e *Executor) stop() {
	for _, t := range e.tasks {
		if t.finished {
			continue
		}
		t.resume <- resumeMsg{stop: true}
		<-t.yield
		t.finished = true
	}
}
