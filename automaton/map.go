package automaton

import (
	"iter"
	"sync"
)

// Hashable A key with a custom hash and equality.
type Hashable interface {
	Hash() uint64
	Equals(other Hashable) bool
}

// HashMap A chained hash map keyed by Hashable values. Determinization uses it to map frozen NFA state sets
// to DFA states.
type HashMap[T any] struct {
	mutex      sync.RWMutex
	buckets    []*entry[T]
	size       int
	mask       uint64
	loadFactor float64
}

type entry[T any] struct {
	key   Hashable
	value T
	next  *entry[T]
}

type optionsHashMap struct {
	capacity   int
	loadFactor float64
}

type OptionsHashMap func(*optionsHashMap)

// WithCapacity Initial bucket count, rounded up to a power of two.
func WithCapacity(capacity int) OptionsHashMap {
	return func(o *optionsHashMap) {
		o.capacity = capacity
	}
}

// WithLoadFactor The size/buckets ratio above which the map doubles. Defaults to 0.75.
func WithLoadFactor(loadFactor float64) OptionsHashMap {
	return func(o *optionsHashMap) {
		o.loadFactor = loadFactor
	}
}

func NewHashMap[T any](options ...OptionsHashMap) *HashMap[T] {
	opts := &optionsHashMap{capacity: 1, loadFactor: 0.75}
	for _, opt := range options {
		opt(opts)
	}

	capacity := 1
	for capacity < opts.capacity {
		capacity <<= 1
	}

	return &HashMap[T]{
		buckets:    make([]*entry[T], capacity),
		mask:       uint64(capacity - 1),
		loadFactor: opts.loadFactor,
	}
}

// Set Inserts or replaces the value stored under key.
func (m *HashMap[T]) Set(key Hashable, value T) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	index := key.Hash() & m.mask
	for e := m.buckets[index]; e != nil; e = e.next {
		if e.key.Equals(key) {
			e.value = value
			return
		}
	}

	m.buckets[index] = &entry[T]{key: key, value: value, next: m.buckets[index]}
	m.size++

	if float64(m.size)/float64(len(m.buckets)) > m.loadFactor {
		m.resize()
	}
}

// Get Returns the value stored under key.
func (m *HashMap[T]) Get(key Hashable) (T, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for e := m.buckets[key.Hash()&m.mask]; e != nil; e = e.next {
		if e.key.Equals(key) {
			return e.value, true
		}
	}
	var empty T
	return empty, false
}

// Delete Removes key if present.
func (m *HashMap[T]) Delete(key Hashable) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	index := key.Hash() & m.mask
	var prev *entry[T]
	for e := m.buckets[index]; e != nil; prev, e = e, e.next {
		if !e.key.Equals(key) {
			continue
		}
		if prev == nil {
			m.buckets[index] = e.next
		} else {
			prev.next = e.next
		}
		m.size--
		return
	}
}

func (m *HashMap[T]) resize() {
	newCap := len(m.buckets) << 1
	newBuckets := make([]*entry[T], newCap)
	newMask := uint64(newCap - 1)

	for _, head := range m.buckets {
		for e := head; e != nil; e = e.next {
			index := e.key.Hash() & newMask
			newBuckets[index] = &entry[T]{key: e.key, value: e.value, next: newBuckets[index]}
		}
	}

	m.buckets = newBuckets
	m.mask = newMask
}

// Size Number of stored keys.
func (m *HashMap[T]) Size() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.size
}

// Iterator Yields every key/value pair in bucket order.
func (m *HashMap[T]) Iterator() iter.Seq2[Hashable, T] {
	return func(yield func(Hashable, T) bool) {
		m.mutex.RLock()
		defer m.mutex.RUnlock()
		for _, head := range m.buckets {
			for e := head; e != nil; e = e.next {
				if !yield(e.key, e.value) {
					return
				}
			}
		}
	}
}
