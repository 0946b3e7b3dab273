/*
Package unbounded holds a FIFO buffer with non-blocking sends and a choice
of blocking or non-blocking receives. The buffer grows without bound, so
the sender is never back-pressured; if you need bounds, a plain buffered
channel is the better tool.

FIFO order is only guaranteed with a single receiver. With multiple
receivers you get close-to-FIFO order.

Usage is simple:

	b := unbounded.Buffer{}

	// This never blocks.
	b.Push(item)

	// Non-blocking receive; ok == false means the buffer was empty.
	v, ok := b.Pop()

	// Blocking receive; waits on an adaptive spinner until an item arrives.
	v = b.Pull()

	// Ranges until b.Close() is called.
	for v := range b.Next() {
		fmt.Println(v)
	}

Blocking receives wait with a spinwait.SpinWait rather than a channel or
condition variable: an empty-buffer wait is usually resolved by a Push a
few hundred nanoseconds away, which is exactly the regime the spinner's
spin/backoff tiers are built for. Each Pull is its own wait episode.
*/
package unbounded

import (
	"sync"
	"sync/atomic"

	"github.com/waitlib/waitlib/spinwait"
)

const stop int32 = 1

type node struct {
	v    interface{}
	next *node
}

// Buffer is an unbounded FIFO queue. The zero value is ready to use. Do not
// copy a Buffer after first use; share it as a pointer.
type Buffer struct {
	head *node
	tail *node
	size int
	mu   sync.Mutex

	ch      chan interface{}
	chOnce  sync.Once
	stopped int32
}

// Push appends item to the buffer. It never blocks and never fails.
func (b *Buffer) Push(item interface{}) {
	n := &node{v: item}

	b.mu.Lock()
	if b.tail == nil {
		b.head = n
	} else {
		b.tail.next = n
	}
	b.tail = n
	b.size++
	b.mu.Unlock()
}

// Pop removes and returns the oldest item. ok is false if the buffer is
// empty.
// Note: do not mix Pop()/Pull() with Next(); use one style or the other.
func (b *Buffer) Pop() (val interface{}, ok bool) {
	b.mu.Lock()
	if b.head == nil {
		b.mu.Unlock()
		return nil, false
	}

	n := b.head
	b.head = n.next
	if b.head == nil {
		b.tail = nil
	}
	b.size--
	b.mu.Unlock()
	return n.v, true
}

// Pull blocks until it can remove and return the oldest item. The wait is
// an adaptive spin, not a park; see the package documentation.
// Note: do not mix Pop()/Pull() with Next(); use one style or the other.
func (b *Buffer) Pull() interface{} {
	var v interface{}
	var ok bool

	sw := spinwait.New()
	sw.Until(func() bool {
		v, ok = b.Pop()
		return ok
	})
	return v
}

// Len returns the number of items currently buffered.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Next returns a channel that yields items until Close() is called. This
// reads nicely in a for/range loop but costs a goroutine and a channel hop
// over calling Pull() yourself.
func (b *Buffer) Next() chan interface{} {
	b.chOnce.Do(func() {
		b.ch = make(chan interface{}, 100)
		go b.feed()
	})
	return b.ch
}

// feed moves items onto the Next() channel, spinning while the buffer is
// empty and resetting the wait episode after each delivered item.
func (b *Buffer) feed() {
	sw := spinwait.New()
	for {
		v, ok := b.Pop()
		if !ok {
			if atomic.LoadInt32(&b.stopped) == stop {
				close(b.ch)
				return
			}
			sw.Once()
			continue
		}
		sw.Reset()
		b.ch <- v
	}
}

// Close stops the goroutine feeding the Next() channel once the buffer
// drains, and closes that channel. It is only needed if you used Next().
func (b *Buffer) Close() {
	atomic.StoreInt32(&b.stopped, stop)
}
