/*
Package spinwait provides an adaptive spinner for threads of execution that
must poll for a condition to become true.

Polling sits between two bad options: busy-spinning is fast to notice the
condition but burns a core and starves sibling hyperthreads, while always
yielding or sleeping is polite but adds scheduling latency to waits that
would have resolved in nanoseconds. SpinWait bridges the two with a counter
driven policy: the first few steps execute a CPU spin hint, the next steps
sleep for an exponentially growing few nanoseconds, and once the counter
crosses a threshold every step yields the scheduler. Machines with a single
logical CPU never spin at all, since burning the only core cannot make the
awaited condition progress.

This is a building block for locks, queues and other primitives, not a
synchronization primitive itself. It makes no ordering guarantees with
whatever condition you are polling; that is on you and your atomics.

Simple usage:

	sw := spinwait.New()
	for !queue.TryPop(&v) {
		sw.Once()
	}

Or let the spinner run the loop:

	sw := spinwait.New()
	sw.Until(func() bool { return atomic.LoadUint32(&flag) == 1 })

There is no timeout and no cancellation. If you need a bounded wait, fold
the deadline into the condition:

	deadline := time.Now().Add(50 * time.Millisecond)
	sw.Until(func() bool { return ready() || time.Now().After(deadline) })

A SpinWait is intended to be driven by one goroutine per wait episode. The
counter uses atomic operations so another goroutine may Count() it for
diagnostics, but two goroutines stepping the same instance will just confuse
each other's backoff.
*/
package spinwait

import (
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/waitlib/waitlib/internal/cores"
	"github.com/waitlib/waitlib/internal/hint"
)

const (
	// defaultThreshold is the step count after which Once() always yields,
	// unless overridden with Threshold().
	defaultThreshold = 10

	// activeSpin is the step count below which Once() executes a CPU spin
	// hint instead of suspending.
	activeSpin = 4

	// maxSleepShift caps the backoff exponent. 1<<20 ns is about 1ms, which
	// keeps a single backoff sleep under a scheduler quantum even when a
	// large threshold leaves the backoff tier wide.
	maxSleepShift = 20
)

// Option is an optional argument for New().
type Option func(s *SpinWait)

// Threshold sets the number of wait steps after which Once() always yields
// the scheduler. The default is 10. A threshold of 0 is legal and makes
// every step yield, which turns the spinner into a plain Gosched loop.
func Threshold(n uint32) Option {
	return func(s *SpinWait) {
		s.threshold = n
	}
}

// Cores substitutes the query used to read the host's logical CPU count.
// The default is a process-wide cached count. This exists so tests can pin
// the count and exercise the single-core and multi-core policies
// deterministically; f must return >= 1 on real hardware.
func Cores(f func() int) Option {
	return func(s *SpinWait) {
		s.cores = f
	}
}

// SpinWait is an adaptive spinner. Use New() to create one; the zero value
// has a zero threshold and will always yield.
type SpinWait struct {
	count     uint32
	threshold uint32
	cores     func() int
}

// New is the constructor for SpinWait.
func New(options ...Option) *SpinWait {
	s := &SpinWait{threshold: defaultThreshold, cores: cores.Logical}
	for _, o := range options {
		o(s)
	}
	if s.cores == nil {
		s.cores = cores.Logical
	}
	return s
}

// Once performs a single wait step. It increments the step counter and then
// spins, sleeps or yields according to the policy described in the package
// documentation. It never blocks on a kernel object; the longest it can
// suspend the goroutine is one capped backoff sleep.
func (s *SpinWait) Once() {
	n := s.step()
	switch decide(n, s.threshold, s.logicalCores()) {
	case doSpin:
		hint.Spin(hint.Cycles)
	case doSleep:
		time.Sleep(backoff(n))
	default:
		runtime.Gosched()
	}
}

// Count returns the number of wait steps taken since construction or the
// last Reset().
func (s *SpinWait) Count() uint32 {
	return atomic.LoadUint32(&s.count)
}

// WillYield returns true if the step counter has reached the yield
// threshold, meaning every subsequent Once() yields the scheduler until
// Reset() is called. It reflects only the counter; a single-core host
// yields on every step regardless of what WillYield reports.
func (s *SpinWait) WillYield() bool {
	return s.Count() >= s.threshold
}

// Reset sets the step counter back to 0, starting a fresh wait episode
// without reallocating.
func (s *SpinWait) Reset() {
	atomic.StoreUint32(&s.count, 0)
}

// Until polls cond, performing one wait step between evaluations, and
// returns as soon as cond reports true. cond is always evaluated before the
// first step and re-evaluated after every step. Until never returns if cond
// never does; see the package documentation for bounding the wait.
func (s *SpinWait) Until(cond func() bool) {
	for !cond() {
		s.Once()
	}
}

// logicalCores reads the CPU count through the configured query, falling
// back to the process-wide cached count so the zero value is usable.
func (s *SpinWait) logicalCores() int {
	if s.cores == nil {
		return cores.Logical()
	}
	return s.cores()
}

// step increments the counter by one, saturating at the maximum instead of
// wrapping. A wrapped counter would drop a long wait back into the spin
// tier and feed a nonsense exponent to the backoff computation.
func (s *SpinWait) step() uint32 {
	for {
		old := atomic.LoadUint32(&s.count)
		if old == math.MaxUint32 {
			return old
		}
		if atomic.CompareAndSwapUint32(&s.count, old, old+1) {
			return old + 1
		}
	}
}

// action is the policy's verdict for a single wait step.
type action int

const (
	doYield action = iota
	doSpin
	doSleep
)

// decide is the wait policy. It is a pure function of the post-increment
// step count, the yield threshold and the host's logical CPU count.
func decide(n, threshold uint32, cpus int) action {
	switch {
	case n >= threshold || cpus <= 1:
		return doYield
	case n < activeSpin:
		return doSpin
	default:
		return doSleep
	}
}

// backoff returns the sleep duration for step n: 2^n nanoseconds, with the
// exponent capped so configuring a large threshold cannot request an
// absurdly long sleep.
func backoff(n uint32) time.Duration {
	if n > maxSleepShift {
		n = maxSleepShift
	}
	return time.Duration(uint64(1)<<n) * time.Nanosecond
}
