package sched

// Signal is a one-shot flag a task can wait on.
//
// A Signal must only be touched by tasks of a single executor: the executor
// serializes those tasks, so no locking is done here.
type Signal struct {
	raised bool
}

func (s *Signal) Raise() { s.raised = true }

func (s *Signal) Clear() { s.raised = false }

func (s *Signal) Raised() bool { return s.raised }
