package hint

import (
	"testing"
	"time"
)

func TestSpinReturns(t *testing.T) {
	// Spin must never suspend; a generous wall-clock bound catches a bad
	// linkname target that blocks.
	start := time.Now()
	for i := 0; i < 1000; i++ {
		Spin(Cycles)
	}
	if d := time.Since(start); d > time.Second {
		t.Errorf("TestSpinReturns: 1000 spin hints took %v, want well under a second", d)
	}
}
