package cores

import (
	"testing"
)

func TestLogical(t *testing.T) {
	n := Logical()
	if n < 1 {
		t.Errorf("TestLogical: got %d, want >= 1", n)
	}

	// Cached value must be stable across calls.
	for i := 0; i < 10; i++ {
		if got := Logical(); got != n {
			t.Errorf("TestLogical: call %d returned %d, want %d", i, got, n)
		}
	}
}

func TestDetectFloor(t *testing.T) {
	if n := detect(); n < 1 {
		t.Errorf("TestDetectFloor: got %d, want >= 1", n)
	}
}
