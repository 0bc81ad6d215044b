// Package table implements the chained hash table backing the patient
// registry and the appointment code index.
package table

const (
	initialBuckets = 16
	maxLoadFactor  = 0.75
)

type entry[V any] struct {
	key   string
	value V
	next  *entry[V]
}

// Table maps string keys to values. Collisions are resolved by chaining and
// the bucket array doubles once the load factor passes 0.75. Each Table is
// independent; there is no shared state between instances.
type Table[V any] struct {
	buckets []*entry[V]
	size    int
}

func New[V any]() *Table[V] {
	return &Table[V]{buckets: make([]*entry[V], initialBuckets)}
}

// hash is a 64-bit FNV-1a over the key bytes.
func hash(key string) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for i := 0; i < len(key); i++ {
		h ^= uint64(key[i])
		h *= prime64
	}
	return h
}

func (t *Table[V]) bucketFor(key string) int {
	return int(hash(key) % uint64(len(t.buckets)))
}

// Put inserts key or overwrites its existing value.
func (t *Table[V]) Put(key string, value V) {
	if float64(t.size+1)/float64(len(t.buckets)) > maxLoadFactor {
		t.grow()
	}
	i := t.bucketFor(key)
	for e := t.buckets[i]; e != nil; e = e.next {
		if e.key == key {
			e.value = value
			return
		}
	}
	t.buckets[i] = &entry[V]{key: key, value: value, next: t.buckets[i]}
	t.size++
}

func (t *Table[V]) Get(key string) (V, bool) {
	for e := t.buckets[t.bucketFor(key)]; e != nil; e = e.next {
		if e.key == key {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

func (t *Table[V]) Contains(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// Remove deletes key and reports whether it was present.
func (t *Table[V]) Remove(key string) bool {
	i := t.bucketFor(key)
	var prev *entry[V]
	for e := t.buckets[i]; e != nil; e = e.next {
		if e.key == key {
			if prev == nil {
				t.buckets[i] = e.next
			} else {
				prev.next = e.next
			}
			t.size--
			return true
		}
		prev = e
	}
	return false
}

func (t *Table[V]) Len() int {
	return t.size
}

// Items calls fn for every entry. Order is bucket order: stable for a given
// table state, unspecified otherwise. Callers needing determinism sort the
// keys themselves (the store does, at export time).
func (t *Table[V]) Items(fn func(key string, value V)) {
	for _, b := range t.buckets {
		for e := b; e != nil; e = e.next {
			fn(e.key, e.value)
		}
	}
}

// Keys returns all keys in bucket order.
func (t *Table[V]) Keys() []string {
	keys := make([]string, 0, t.size)
	t.Items(func(k string, _ V) { keys = append(keys, k) })
	return keys
}

func (t *Table[V]) grow() {
	old := t.buckets
	t.buckets = make([]*entry[V], len(old)*2)
	t.size = 0
	for _, b := range old {
		for e := b; e != nil; e = e.next {
			t.Put(e.key, e.value)
		}
	}
}
