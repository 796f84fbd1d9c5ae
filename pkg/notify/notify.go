// Package notify hands the latest value of a stream from a producer to a
// polling consumer without ever blocking either side.
package notify

// Latest is a bounded mailbox in which newer values replace older ones
type Latest[T any] struct {
	ch chan T
}

// NewLatest creates a mailbox that buffers up to size values
func NewLatest[T any](size int) *Latest[T] {
	if size < 1 {
		size = 1
	}
	return &Latest[T]{ch: make(chan T, size)}
}

// Send delivers v. If the buffer is full the oldest value is dropped to
// make room. It reports false only if v itself could not be queued.
func (l *Latest[T]) Send(v T) bool {
	for i := 0; i < cap(l.ch)+1; i++ {
		select {
		case l.ch <- v:
			return true
		default:
		}
		select {
		case <-l.ch:
		default:
		}
	}
	return false
}

// TryRecv drains everything queued and returns the newest value
func (l *Latest[T]) TryRecv() (T, bool) {
	var last T
	got := false
	for {
		select {
		case v := <-l.ch:
			last, got = v, true
		default:
			return last, got
		}
	}
}
