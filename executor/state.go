package executor

// TaskState is the externally observable lifecycle state of a Task,
// collapsing the internal scheduling bits (idle/queued/running/...) into
// three coarse states: ready, running, and done.
type TaskState uint32

const (
	// TaskReady means the task is not currently being polled: either it
	// has never been polled, or it is idle awaiting a wakeup, or it is
	// sitting in the ReadyQueue waiting for a Worker.
	TaskReady TaskState = iota

	// TaskRunning means a Worker is currently inside the task's Poll
	// call.
	TaskRunning

	// TaskDone means the task's Future resolved (with a value or an
	// error) and it will never be polled again.
	TaskDone
)

func (s TaskState) String() string {
	switch s {
	case TaskReady:
		return "ready"
	case TaskRunning:
		return "running"
	case TaskDone:
		return "done"
	default:
		return "unknown"
	}
}
