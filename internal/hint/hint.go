/*
Package hint exposes the runtime's CPU spin hint for use in busy-wait loops.

On architectures with a dedicated instruction (PAUSE on x86, YIELD on arm64),
the hint tells the processor the current code sequence is a spin-wait loop.
This avoids the memory-order-violation penalty when the loop exits and lets
the core share resources with its SMT sibling while spinning.  On
architectures without such an instruction it degrades to a short busy loop.

The hint never suspends the goroutine and never enters the scheduler.
*/
package hint

import (
	_ "unsafe" // for go:linkname
)

// Cycles is the number of hint iterations a single spin step executes.  It
// matches what the runtime uses in its own active-spin paths (sync.Mutex).
const Cycles = 30

// Spin executes the processor's spin hint "cycles" times.
//
//go:linkname Spin runtime.procyield
func Spin(cycles uint32)
