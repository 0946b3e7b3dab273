/*
Package event provides a one-shot broadcast flag for signaling between
goroutines that a condition has become true.

An Event starts unset. Any number of goroutines may wait on it; the first
call to Set() releases all of them, and every later waiter returns
immediately. An Event cannot be unset — make a new one for the next round.

Two ways to wait:

	e := event.New()

	// Parks the goroutine on a channel until Set() is called. Right when
	// the wait may be long.
	e.Wait()

	// Polls through an adaptive spinner. Right when Set() is expected
	// within microseconds and you don't want to pay for a park/unpark.
	e.Poll(spinwait.New())

Poll with a deadline folds into the usual spinner pattern:

	sw := spinwait.New()
	deadline := time.Now().Add(time.Millisecond)
	sw.Until(func() bool { return e.IsSet() || time.Now().After(deadline) })
*/
package event

import (
	"sync"
	"sync/atomic"

	"github.com/waitlib/waitlib/spinwait"
)

// Event is a set-once broadcast flag. Use New() to create one.
type Event struct {
	set  uint32
	done chan struct{}
	once sync.Once
}

// New is the constructor for Event.
func New() *Event {
	return &Event{done: make(chan struct{})}
}

// Set sets the flag and releases every current and future waiter. Calling
// Set more than once is a no-op.
func (e *Event) Set() {
	e.once.Do(func() {
		atomic.StoreUint32(&e.set, 1)
		close(e.done)
	})
}

// IsSet reports whether Set() has been called. It never blocks and is safe
// to call from any goroutine, including inside polling conditions.
func (e *Event) IsSet() bool {
	return atomic.LoadUint32(&e.set) == 1
}

// Wait parks the calling goroutine until Set() is called. If the Event is
// already set it returns immediately.
func (e *Event) Wait() {
	<-e.done
}

// Poll waits for Set() by driving sw until IsSet() reports true. The
// goroutine stays runnable the whole time; prefer Wait() if the signal may
// be far off.
func (e *Event) Poll(sw *spinwait.SpinWait) {
	sw.Until(e.IsSet)
}
