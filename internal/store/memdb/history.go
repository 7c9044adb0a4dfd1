package memdb

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/Lolirofle/fixed-circular-buffer/internal/store"
	"github.com/Lolirofle/fixed-circular-buffer/ringbuffer"
)

// HistoryStore keeps the most recent records in a ring buffer. Slots that have not been
// filled yet hold nil records.
type HistoryStore struct {
	buf    *ringbuffer.RingBuffer[*store.Record]
	seq    uint64
	window *store.WindowStats
	mu     sync.RWMutex
}

func NewHistoryStore(opts ...Option) *HistoryStore {
	cfg := &config{capacity: DefaultCapacity}
	for opt := range slices.Values(opts) {
		opt(cfg)
	}

	// capacity is always positive here
	buf, _ := ringbuffer.New(make([]*store.Record, cfg.capacity))
	return &HistoryStore{
		buf: buf,
	}
}

// Record assigns the next sequence number to rec and makes it the most recent record.
// It returns the evicted record, or nil if the history was not full yet.
func (s *HistoryStore) Record(_ context.Context, rec *store.Record) (*store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	rec.Seq = s.seq
	return s.buf.Queue(rec), nil
}

// Get returns the record at the given index, 0 being the most recent one.
// Indices wrap around the capacity.
func (s *HistoryStore) Get(_ context.Context, index int) (*store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec := s.buf.Get(index)
	if rec == nil {
		return nil, store.ErrNotFound
	}
	return rec, nil
}

// List returns up to limit records, most recent first. A non positive limit returns all of them.
func (s *HistoryStore) List(_ context.Context, limit int) ([]*store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > s.buf.Len() {
		limit = s.buf.Len()
	}

	records := make([]*store.Record, 0, limit)
	for rec := range s.buf.All() {
		if rec == nil || len(records) == limit {
			break
		}
		records = append(records, rec)
	}
	return records, nil
}

// Capacity returns the number of records the history keeps.
func (s *HistoryStore) Capacity() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.buf.Len()
}

// SetWindow replaces the current window stats.
func (s *HistoryStore) SetWindow(_ context.Context, stats *store.WindowStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.window = stats
	return nil
}

// Window returns the current window stats, or store.ErrNotFound until the window is filled.
func (s *HistoryStore) Window(_ context.Context) (*store.WindowStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.window == nil {
		return nil, store.ErrNotFound
	}
	return s.window, nil
}

// Snapshot returns a copy of the ring buffer storage and its offset.
func (s *HistoryStore) Snapshot(_ context.Context) ([]*store.Record, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	storage, first := s.buf.RawParts()
	return slices.Clone(storage), first, nil
}

// Restore replaces the history with a snapshot. The snapshot must have the same capacity.
func (s *HistoryStore) Restore(_ context.Context, storage []*store.Record, first int) error {
	if len(storage) != s.Capacity() {
		return fmt.Errorf("snapshot capacity %d does not match history capacity %d", len(storage), s.Capacity())
	}

	buf, err := ringbuffer.FromRawParts(storage, first)
	if err != nil {
		return fmt.Errorf("rebuild ring buffer: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf = buf
	for rec := range slices.Values(storage) {
		if rec != nil {
			s.seq = max(s.seq, rec.Seq)
		}
	}
	return nil
}
