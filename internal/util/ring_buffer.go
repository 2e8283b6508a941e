package util

const defaultRingBufferCapacity = 16

// RingBuffer is a FIFO queue on top of a circular slice.
// When the buffer is full, Append grows the backing slice instead of
// overwriting the oldest entry.
//
// RingBuffer is not safe for concurrent use.
type RingBuffer[T any] struct {
	items []T
	head  int
	count int
}

func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity <= 0 {
		capacity = defaultRingBufferCapacity
	}
	return &RingBuffer[T]{
		items: make([]T, capacity),
	}
}

// Len returns the number of stored items
func (r *RingBuffer[T]) Len() int {
	return r.count
}

// Cap returns the number of items the buffer can hold before it has to grow
func (r *RingBuffer[T]) Cap() int {
	return len(r.items)
}

// Append adds an item to the end of the buffer
func (r *RingBuffer[T]) Append(item T) {
	if r.count == len(r.items) {
		r.grow()
	}
	tail := (r.head + r.count) % len(r.items)
	r.items[tail] = item
	r.count++
}

// Remove takes the oldest item from the front of the buffer
func (r *RingBuffer[T]) Remove() (item T, ok bool) {
	if r.count == 0 {
		return item, false
	}
	var zero T
	item = r.items[r.head]
	r.items[r.head] = zero
	r.head = (r.head + 1) % len(r.items)
	r.count--
	return item, true
}

// First returns the oldest item without removing it
func (r *RingBuffer[T]) First() (item T, ok bool) {
	if r.count == 0 {
		return item, false
	}
	return r.items[r.head], true
}

// Last returns the newest item without removing it
func (r *RingBuffer[T]) Last() (item T, ok bool) {
	if r.count == 0 {
		return item, false
	}
	return r.At(r.count - 1), true
}

// At returns the item at the given position, 0 being the oldest item.
// At panics if index is out of range.
func (r *RingBuffer[T]) At(index int) T {
	if index < 0 || index >= r.count {
		panic("ring buffer index out of range")
	}
	return r.items[(r.head+index)%len(r.items)]
}

// IndexFunc returns the position of the first item satisfying f, or -1
func (r *RingBuffer[T]) IndexFunc(f func(item T) bool) int {
	for i := 0; i < r.count; i++ {
		if f(r.At(i)) {
			return i
		}
	}
	return -1
}

// Items returns a copy of all items, oldest first
func (r *RingBuffer[T]) Items() []T {
	result := make([]T, r.count)
	for i := 0; i < r.count; i++ {
		result[i] = r.At(i)
	}
	return result
}

// Clear removes all items but keeps the allocated capacity
func (r *RingBuffer[T]) Clear() {
	var zero T
	for i := range r.items {
		r.items[i] = zero
	}
	r.head = 0
	r.count = 0
}

func (r *RingBuffer[T]) grow() {
	capacity := 2 * len(r.items)
	if capacity == 0 {
		capacity = defaultRingBufferCapacity
	}
	items := make([]T, capacity)
	for i := 0; i < r.count; i++ {
		items[i] = r.At(i)
	}
	r.items = items
	r.head = 0
}
