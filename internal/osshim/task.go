package osshim

import (
	"sync"

	"github.com/vael-lang/vael-rt/internal/errors"
)

// Task is the runtime core's stand-in for reml_os_thread_t: Go goroutines
// replace native OS threads, but the embedding ABI still needs start/join
// semantics and a place to stash "the last error this task saw" the way the
// original runtime keeps one thread-local reml_os_result_t per thread.
type Task struct {
	done chan struct{}
	wg   sync.WaitGroup

	mu       sync.Mutex
	lastErr  *errors.StandardError
	panicked interface{}
}

// StartTask runs fn on a new goroutine, capturing any reported error it
// sets via (*Task).SetLastError and recovering a panic so Join can report it
// as a SYSTEM_FAILURE instead of crashing the process.
func StartTask(fn func(t *Task)) *Task {
	t := &Task{done: make(chan struct{})}
	t.wg.Add(1)

	go func() {
		defer t.wg.Done()
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.mu.Lock()
				t.panicked = r
				t.mu.Unlock()
			}
		}()

		fn(t)
	}()

	return t
}

// Join blocks until the task's function returns (or panics).
func (t *Task) Join() Result {
	t.wg.Wait()

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.panicked != nil {
		return fail(SystemFailure, errors.SystemFailure("task_join", fmtPanic(t.panicked)))
	}

	return ok()
}

// SetLastError records the most recent reported error seen on this task, so
// LastError can report it after the task's function has returned.
func (t *Task) SetLastError(err *errors.StandardError) {
	t.mu.Lock()
	t.lastErr = err
	t.mu.Unlock()
}

// LastError returns the most recent error recorded on this task, or nil.
func (t *Task) LastError() *errors.StandardError {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.lastErr
}

type panicError struct{ v interface{} }

func (p panicError) Error() string { return toString(p.v) }

func fmtPanic(v interface{}) error { return panicError{v: v} }

func toString(v interface{}) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}

	if s, ok := v.(string); ok {
		return s
	}

	return "panic in task"
}
