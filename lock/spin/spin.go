/*
Package spin provides a spin lock for protecting very short critical
sections under low contention.

A spin lock never parks the goroutine on a kernel object; waiters drive an
adaptive spinner, so a handful of failed acquisition attempts cost a few
CPU hints and after that waiters back off and yield. If your critical
section does I/O, allocates heavily, or is contended by many goroutines,
use sync.Mutex instead — it parks waiters properly and will beat this under
load.

Usage is what you would expect from a sync.Locker:

	l := spin.New()

	l.Lock()
	// critical section
	l.Unlock()

The lock is not reentrant. Unlocking a lock you do not hold panics, same as
sync.Mutex.
*/
package spin

import (
	"sync"
	"sync/atomic"

	"github.com/waitlib/waitlib/spinwait"
)

const (
	unlocked uint32 = 0
	locked   uint32 = 1
)

// New is the constructor for the spin lock.
func New() sync.Locker {
	return &spinLock{}
}

// spinLock implements sync.Locker.
type spinLock struct {
	state uint32
}

// Lock acquires the lock, spinning adaptively until it is free. Each call
// uses a fresh wait episode, so a goroutine that repeatedly takes an
// uncontended lock stays on the cheap spin tier.
func (l *spinLock) Lock() {
	if atomic.CompareAndSwapUint32(&l.state, unlocked, locked) {
		return
	}

	sw := spinwait.New()
	sw.Until(func() bool {
		return atomic.CompareAndSwapUint32(&l.state, unlocked, locked)
	})
}

// Unlock releases the lock.
func (l *spinLock) Unlock() {
	if !atomic.CompareAndSwapUint32(&l.state, locked, unlocked) {
		panic("spin: Unlock() of an unlocked lock")
	}
}
