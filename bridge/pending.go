package bridge

import "sync"

// pendingEntry is one admitted-but-unacknowledged record together with
// its contribution to the batch size counter. Entries are compared by
// identity: the flush cycle's boundary marker is a pointer to the entry
// that was the tail when the cycle began.
type pendingEntry struct {
	rec  Record
	size int64
	next *pendingEntry
}

// pendingQueue is a FIFO of pending entries. Appends come from any
// number of admission goroutines; popHead is only ever called by the
// flush lane. The mutex gives the append happens-before the lane needs
// to observe a pushed entry as the new tail.
type pendingQueue struct {
	mu   sync.Mutex
	head *pendingEntry
	tail *pendingEntry
}

func (q *pendingQueue) push(rec Record, size int64) *pendingEntry {
	e := &pendingEntry{rec: rec, size: size}
	q.mu.Lock()
	if q.tail == nil {
		q.head = e
	} else {
		q.tail.next = e
	}
	q.tail = e
	q.mu.Unlock()
	return e
}

// last returns the current tail, the batch boundary marker.
func (q *pendingQueue) last() *pendingEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.tail
}

func (q *pendingQueue) popHead() *pendingEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	e := q.head
	if e == nil {
		return nil
	}
	q.head = e.next
	if q.head == nil {
		q.tail = nil
	}
	e.next = nil
	return e
}

func (q *pendingQueue) empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.head == nil
}

func (q *pendingQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for e := q.head; e != nil; e = e.next {
		n++
	}
	return n
}
