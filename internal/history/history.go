package history

import "strings"

type node struct {
	text string
	next *node
}

// List is an append-only visit log. Entries keep insertion order and are
// never removed; it is an audit trail, not a working set. A tail pointer is
// kept so Append is O(1).
type List struct {
	head *node
	tail *node
	size int
}

func New() *List {
	return &List{}
}

// Append adds an entry at the end of the log.
func (l *List) Append(text string) {
	n := &node{text: text}
	if l.tail == nil {
		l.head = n
		l.tail = n
	} else {
		l.tail.next = n
		l.tail = n
	}
	l.size++
}

func (l *List) Len() int {
	return l.size
}

// Entries returns the log oldest first.
func (l *List) Entries() []string {
	out := make([]string, 0, l.size)
	for n := l.head; n != nil; n = n.next {
		out = append(out, n.text)
	}
	return out
}

// String renders one entry per line, oldest first.
func (l *List) String() string {
	if l.head == nil {
		return "(no visits recorded)"
	}
	var b strings.Builder
	for n := l.head; n != nil; n = n.next {
		b.WriteString("- ")
		b.WriteString(n.text)
		if n.next != nil {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
