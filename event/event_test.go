package event

import (
	"sync"
	"testing"
	"time"

	"github.com/waitlib/waitlib/spinwait"
)

func TestSetIsIdempotent(t *testing.T) {
	e := New()
	if e.IsSet() {
		t.Errorf("TestSetIsIdempotent: got IsSet() == true on a fresh Event, want false")
	}

	e.Set()
	e.Set() // must not panic on the closed channel
	if !e.IsSet() {
		t.Errorf("TestSetIsIdempotent: got IsSet() == false after Set, want true")
	}
}

func TestWaitReleasesAll(t *testing.T) {
	const waiters = 20

	e := New()
	wg := sync.WaitGroup{}
	wg.Add(waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			defer wg.Done()
			e.Wait()
			if !e.IsSet() {
				t.Errorf("TestWaitReleasesAll: Wait returned with IsSet() == false")
			}
		}()
	}

	time.Sleep(5 * time.Millisecond)
	e.Set()
	wg.Wait()

	// Late waiters return immediately.
	e.Wait()
}

func TestPoll(t *testing.T) {
	e := New()
	sw := spinwait.New()

	go func() {
		time.Sleep(10 * time.Millisecond)
		e.Set()
	}()

	e.Poll(sw)

	if !e.IsSet() {
		t.Errorf("TestPoll: Poll returned with IsSet() == false")
	}
	if sw.Count() == 0 {
		t.Errorf("TestPoll: got Count() == 0 after a 10ms poll, want > 0")
	}
}

func TestPollAlreadySet(t *testing.T) {
	e := New()
	e.Set()

	sw := spinwait.New()
	e.Poll(sw)

	if sw.Count() != 0 {
		t.Errorf("TestPollAlreadySet: got Count() == %d, want 0 when the Event was already set", sw.Count())
	}
}
