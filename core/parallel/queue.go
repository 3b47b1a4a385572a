package parallel

import "sync/atomic"

// WorkQueue hands out a fixed number of payload-free tokens.
// Every token is consumed by exactly one TryDequeue call.
type WorkQueue struct {
	remaining atomic.Int64
}

// NewWorkQueue creates a queue pre-loaded with n tokens.
func NewWorkQueue(n int) *WorkQueue {
	q := &WorkQueue{}
	if n > 0 {
		q.remaining.Store(int64(n))
	}
	return q
}

// TryDequeue takes one token, reporting false once the queue is empty.
func (q *WorkQueue) TryDequeue() bool {
	for {
		r := q.remaining.Load()
		if r <= 0 {
			return false
		}
		if q.remaining.CompareAndSwap(r, r-1) {
			return true
		}
	}
}

// Close discards every remaining token.
func (q *WorkQueue) Close() {
	q.remaining.Store(0)
}

// Remaining returns the number of tokens not yet handed out.
func (q *WorkQueue) Remaining() int {
	return int(q.remaining.Load())
}
