// Package triage implements the emergency admission queue: a binary max-heap
// ordered by clinical severity, FIFO among equal severities.
package triage

import "errors"

const (
	MinSeverity = 1
	MaxSeverity = 10
)

var ErrSeverityRange = errors.New("severity must be between 1 and 10")

// Entry is one queued emergency case.
type Entry struct {
	Severity int    `json:"priority"`
	Payload  string `json:"payload"`
}

type element struct {
	Entry
	seq uint64
}

// Queue is an array-backed max-heap. A plain heap is not stable, so each
// element carries a monotonically increasing sequence number as a secondary
// key; equal severities dequeue in enqueue order.
type Queue struct {
	elems   []element
	nextSeq uint64
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Len() int {
	return len(q.elems)
}

// Enqueue adds a case. Severities outside 1..10 are rejected, not clamped.
func (q *Queue) Enqueue(severity int, payload string) error {
	if severity < MinSeverity || severity > MaxSeverity {
		return ErrSeverityRange
	}
	q.elems = append(q.elems, element{
		Entry: Entry{Severity: severity, Payload: payload},
		seq:   q.nextSeq,
	})
	q.nextSeq++
	q.siftUp(len(q.elems) - 1)
	return nil
}

// Dequeue removes and returns the highest-severity case, oldest first among
// ties. ok is false when the queue is empty.
func (q *Queue) Dequeue() (Entry, bool) {
	if len(q.elems) == 0 {
		return Entry{}, false
	}
	top := q.elems[0].Entry
	last := len(q.elems) - 1
	q.elems[0] = q.elems[last]
	q.elems = q.elems[:last]
	if len(q.elems) > 0 {
		q.siftDown(0)
	}
	return top, true
}

// Peek returns the next case without removing it.
func (q *Queue) Peek() (Entry, bool) {
	if len(q.elems) == 0 {
		return Entry{}, false
	}
	return q.elems[0].Entry, true
}

// Snapshot returns all entries in dequeue order without disturbing the
// queue. Re-enqueueing a snapshot front to back rebuilds an equivalent
// queue: fresh sequence numbers are assigned in the same relative order.
func (q *Queue) Snapshot() []Entry {
	clone := Queue{
		elems:   append([]element(nil), q.elems...),
		nextSeq: q.nextSeq,
	}
	out := make([]Entry, 0, len(q.elems))
	for {
		e, ok := clone.Dequeue()
		if !ok {
			return out
		}
		out = append(out, e)
	}
}

// before reports whether element i dequeues ahead of element j.
func (q *Queue) before(i, j int) bool {
	if q.elems[i].Severity != q.elems[j].Severity {
		return q.elems[i].Severity > q.elems[j].Severity
	}
	return q.elems[i].seq < q.elems[j].seq
}

func (q *Queue) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !q.before(i, parent) {
			return
		}
		q.elems[i], q.elems[parent] = q.elems[parent], q.elems[i]
		i = parent
	}
}

func (q *Queue) siftDown(i int) {
	n := len(q.elems)
	for {
		best := i
		if l := 2*i + 1; l < n && q.before(l, best) {
			best = l
		}
		if r := 2*i + 2; r < n && q.before(r, best) {
			best = r
		}
		if best == i {
			return
		}
		q.elems[i], q.elems[best] = q.elems[best], q.elems[i]
		i = best
	}
}
