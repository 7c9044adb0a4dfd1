package ringbuffer

import (
	"errors"
	"fmt"
	"iter"
)

var (
	// ErrInvalidCapacity is returned when a buffer would be built with no storage.
	ErrInvalidCapacity = errors.New("ring buffer capacity must be greater than zero")
	// ErrInsufficientInput is returned when a sequence runs out before the buffer is filled.
	ErrInsufficientInput = errors.New("insufficient input to fill ring buffer")
	// ErrInvalidOffset is returned when reconstructing a buffer with an offset outside its storage.
	ErrInvalidOffset = errors.New("ring buffer offset out of range")
)

// RingBuffer is a fixed size circular buffer that is always full.
// It can not be empty and nothing can be dequeued without queueing something else,
// which makes it a bounded history of the most recently queued elements.
//
// Forward order goes from the most recently queued element (index 0) to the oldest.
// Every index is taken modulo the length, so any int is a valid index.
//
// Iterators from All, Backward and Cycle read the live buffer: mutating it while ranging is
// memory safe, since storage is never reallocated, but shifts which elements the remaining steps
// yield. Collect the elements first when a stable view is needed.
//
// RingBuffer is not safe for concurrent use.
type RingBuffer[T any] struct {
	buf   []T
	first int
}

// New wraps the given storage as is. The first element of storage is the most recently queued one.
// The storage is owned by the buffer from now on and must not be empty.
func New[T any](storage []T) (*RingBuffer[T], error) {
	if len(storage) == 0 {
		return nil, ErrInvalidCapacity
	}

	return &RingBuffer[T]{
		buf: storage,
	}, nil
}

// FromSeq builds a buffer of length n out of the first n elements of seq, in the order they
// would have been queued: the last pulled element ends up at index 0 and the first at index n-1.
// If seq yields fewer than n elements no buffer is returned and the consumed elements are lost.
func FromSeq[T any](seq iter.Seq[T], n int) (*RingBuffer[T], error) {
	next, stop := iter.Pull(seq)
	defer stop()

	return fromPull(next, n)
}

func fromPull[T any](next func() (T, bool), n int) (*RingBuffer[T], error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, n)
	}

	buf := make([]T, n)
	for i := range n {
		v, ok := next()
		if !ok {
			return nil, fmt.Errorf("%w: wanted %d elements, got %d", ErrInsufficientInput, n, i)
		}
		buf[n-i-1] = v
	}

	return &RingBuffer[T]{buf: buf}, nil
}

// FromRawParts rebuilds a buffer from the parts returned by RawParts.
func FromRawParts[T any](storage []T, first int) (*RingBuffer[T], error) {
	if len(storage) == 0 {
		return nil, ErrInvalidCapacity
	}
	if first < 0 || first >= len(storage) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidOffset, first, len(storage))
	}

	return UncheckedFromRawParts(storage, first), nil
}

// UncheckedFromRawParts is FromRawParts without validation.
// The caller must guarantee that storage is not empty and that 0 <= first < len(storage),
// otherwise the returned buffer panics or misbehaves on first use.
func UncheckedFromRawParts[T any](storage []T, first int) *RingBuffer[T] {
	return &RingBuffer[T]{
		buf:   storage,
		first: first,
	}
}

// RawParts returns the underlying storage and the physical slot of index 0.
// The storage is shared with the buffer, not copied.
func (r *RingBuffer[T]) RawParts() ([]T, int) {
	return r.buf, r.first
}

// Len returns the number of elements in the buffer, which is also its capacity.
func (r *RingBuffer[T]) Len() int {
	return len(r.buf)
}

// Index maps a forward index to its physical slot in the storage.
func (r *RingBuffer[T]) Index(i int) int {
	return (r.first + r.wrap(i)) % len(r.buf)
}

// IndexReversed maps a reversed index to its physical slot in the storage.
// Index 1 is the oldest element and index n (or 0) is the most recently queued one.
func (r *RingBuffer[T]) IndexReversed(i int) int {
	n := len(r.buf)
	return (r.first + (n - r.wrap(i))) % n
}

// wrap reduces i into [0, n), also for negative values.
func (r *RingBuffer[T]) wrap(i int) int {
	i %= len(r.buf)
	if i < 0 {
		i += len(r.buf)
	}
	return i
}

// Get returns the element at the given forward index.
func (r *RingBuffer[T]) Get(i int) T {
	return r.buf[r.Index(i)]
}

// Ptr returns a pointer to the element at the given forward index.
// The pointer refers to a physical slot, later calls to Queue or SetFirst do not move it.
func (r *RingBuffer[T]) Ptr(i int) *T {
	return &r.buf[r.Index(i)]
}

// SetFirst moves index 0 by i positions without touching the elements.
func (r *RingBuffer[T]) SetFirst(i int) {
	r.first = r.Index(i)
}

// Replace stores v at the given forward index and returns the previous element.
func (r *RingBuffer[T]) Replace(i int, v T) T {
	p := r.Ptr(i)
	old := *p
	*p = v
	return old
}

// Swap exchanges the elements at the forward indices a and b.
func (r *RingBuffer[T]) Swap(a, b int) {
	ia, ib := r.Index(a), r.Index(b)
	r.buf[ia], r.buf[ib] = r.buf[ib], r.buf[ia]
}

// Queue makes v the most recently queued element and returns the oldest one, which it replaces.
func (r *RingBuffer[T]) Queue(v T) T {
	r.first = r.IndexReversed(1)

	old := r.buf[r.first]
	r.buf[r.first] = v
	return old
}

// QueueReversed is Queue for the oldest to newest order: v replaces the element at index 0,
// which is returned, and becomes the last element once index 0 moves forward by one.
func (r *RingBuffer[T]) QueueReversed(v T) T {
	old := r.buf[r.first]
	r.buf[r.first] = v

	r.first = r.Index(1)
	return old
}
