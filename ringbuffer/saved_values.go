package ringbuffer

import "iter"

// SavedValues passes the elements of a sequence through unchanged while remembering
// the last n of them in a RingBuffer.
type SavedValues[T any] struct {
	buf  *RingBuffer[T]
	next func() (T, bool)
	stop func()
	done bool
}

// NewSavedValues consumes the first n elements of seq to fill the history; those elements are
// not yielded again. It fails with ErrInvalidCapacity if n is not positive and with
// ErrInsufficientInput if seq has fewer than n elements.
func NewSavedValues[T any](seq iter.Seq[T], n int) (*SavedValues[T], error) {
	next, stop := iter.Pull(seq)

	buf, err := fromPull(next, n)
	if err != nil {
		stop()
		return nil, err
	}

	return &SavedValues[T]{
		buf:  buf,
		next: next,
		stop: stop,
	}, nil
}

// Next pulls the next element from the sequence, queues a copy of it into the history and returns it.
// Once the sequence is exhausted it keeps returning false and the history stays as it was.
func (s *SavedValues[T]) Next() (T, bool) {
	if s.done {
		var zero T
		return zero, false
	}

	v, ok := s.next()
	if !ok {
		s.Stop()
		return v, false
	}

	s.buf.Queue(v)
	return v, true
}

// All returns an iterator over the remaining elements of the sequence.
func (s *SavedValues[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := s.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Get returns the saved element at the given forward index; 0 is the last yielded element.
func (s *SavedValues[T]) Get(i int) T {
	return s.buf.Get(i)
}

// Buffer returns the history. Mutating it changes what Get returns but not what is yielded.
func (s *SavedValues[T]) Buffer() *RingBuffer[T] {
	return s.buf
}

// Stop releases the underlying sequence. Next returns false afterwards.
func (s *SavedValues[T]) Stop() {
	if s.done {
		return
	}
	s.done = true
	s.stop()
}
