// Package schedule implements the ordered map behind the appointment book:
// an unbalanced binary search tree keyed by composite minute-timestamp keys.
//
// No rebalancing is done. Keys arrive mostly in increasing time order, which
// degrades the tree toward a list and makes operations O(n) worst case; at
// clinic scale that is acceptable. The external contract (unique-key insert,
// find, delete, ascending walk) would survive a swap to a balanced variant.
package schedule

import "errors"

var ErrKeyExists = errors.New("key already present in tree")

type node[V any] struct {
	key         int64
	value       V
	left, right *node[V]
}

// Tree maps int64 keys to values with in-order iteration. Keys are unique;
// the caller derives them so that no two live appointments collide.
type Tree[V any] struct {
	root *node[V]
	size int
}

func NewTree[V any]() *Tree[V] {
	return &Tree[V]{}
}

func (t *Tree[V]) Len() int {
	return t.size
}

// Insert adds key. A duplicate key is rejected; callers allocate fresh keys
// and pre-check when reusing one.
func (t *Tree[V]) Insert(key int64, value V) error {
	n := &t.root
	for *n != nil {
		switch {
		case key < (*n).key:
			n = &(*n).left
		case key > (*n).key:
			n = &(*n).right
		default:
			return ErrKeyExists
		}
	}
	*n = &node[V]{key: key, value: value}
	t.size++
	return nil
}

func (t *Tree[V]) Find(key int64) (V, bool) {
	n := t.root
	for n != nil {
		switch {
		case key < n.key:
			n = n.left
		case key > n.key:
			n = n.right
		default:
			return n.value, true
		}
	}
	var zero V
	return zero, false
}

// Delete removes key and reports whether it was present. A node with two
// children is replaced by its in-order successor, the minimum of its right
// subtree.
func (t *Tree[V]) Delete(key int64) bool {
	n := &t.root
	for *n != nil {
		switch {
		case key < (*n).key:
			n = &(*n).left
		case key > (*n).key:
			n = &(*n).right
		default:
			t.removeNode(n)
			t.size--
			return true
		}
	}
	return false
}

func (t *Tree[V]) removeNode(n **node[V]) {
	cur := *n
	switch {
	case cur.left == nil:
		*n = cur.right
	case cur.right == nil:
		*n = cur.left
	default:
		// Two children: lift the in-order successor's key/value here, then
		// unlink the successor from the right subtree.
		succ := &cur.right
		for (*succ).left != nil {
			succ = &(*succ).left
		}
		cur.key = (*succ).key
		cur.value = (*succ).value
		*succ = (*succ).right
	}
}

// Ascend walks the tree in ascending key order, calling fn for each pair.
// Returning false stops the walk.
func (t *Tree[V]) Ascend(fn func(key int64, value V) bool) {
	ascend(t.root, fn)
}

func ascend[V any](n *node[V], fn func(int64, V) bool) bool {
	if n == nil {
		return true
	}
	if !ascend(n.left, fn) {
		return false
	}
	if !fn(n.key, n.value) {
		return false
	}
	return ascend(n.right, fn)
}
