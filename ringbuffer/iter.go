package ringbuffer

import "iter"

// The iterators below are views over the live buffer, not snapshots. Each step resolves its
// index against the current state, so elements queued while ranging are observed.

// All returns an iterator over the elements from the most recently queued to the oldest.
func (r *RingBuffer[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := range len(r.buf) {
			if !yield(r.Get(i)) {
				return
			}
		}
	}
}

// Backward returns an iterator over the elements from the oldest to the most recently queued.
func (r *RingBuffer[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 1; i <= len(r.buf); i++ {
			if !yield(r.buf[r.IndexReversed(i)]) {
				return
			}
		}
	}
}

// Cycle returns a never ending iterator that behaves like All but starts over at index 0
// after reaching the oldest element.
func (r *RingBuffer[T]) Cycle() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; ; i = (i + 1) % len(r.buf) {
			if !yield(r.Get(i)) {
				return
			}
		}
	}
}
