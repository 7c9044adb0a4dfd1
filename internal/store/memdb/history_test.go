package memdb_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lolirofle/fixed-circular-buffer/internal/store"
	"github.com/Lolirofle/fixed-circular-buffer/internal/store/memdb"
)

func record(t *testing.T, s *memdb.HistoryStore, values ...float64) []*store.Record {
	t.Helper()

	var evicted []*store.Record
	for _, v := range values {
		rec, err := s.Record(context.Background(), &store.Record{Value: v})
		require.NoError(t, err)
		evicted = append(evicted, rec)
	}
	return evicted
}

func values(records []*store.Record) []float64 {
	out := make([]float64, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Value)
	}
	return out
}

func TestHistoryStoreRecord(t *testing.T) {
	s := memdb.NewHistoryStore(memdb.WithCapacity(3))
	assert.Equal(t, 3, s.Capacity())

	evicted := record(t, s, 1, 2, 3)
	assert.Equal(t, []*store.Record{nil, nil, nil}, evicted)

	evicted = record(t, s, 4, 5)
	assert.Equal(t, []float64{1, 2}, values(evicted))
	assert.Equal(t, []uint64{1, 2}, []uint64{evicted[0].Seq, evicted[1].Seq})

	list, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 4, 3}, values(list))
	assert.Equal(t, uint64(5), list[0].Seq)
}

func TestHistoryStoreList(t *testing.T) {
	tests := map[string]struct {
		recorded []float64
		limit    int
		expected []float64
	}{
		"empty history": {
			limit:    0,
			expected: []float64{},
		},
		"partially filled": {
			recorded: []float64{1, 2},
			limit:    0,
			expected: []float64{2, 1},
		},
		"limit smaller than history": {
			recorded: []float64{1, 2, 3, 4, 5, 6},
			limit:    2,
			expected: []float64{6, 5},
		},
		"limit larger than capacity": {
			recorded: []float64{1, 2, 3, 4, 5, 6},
			limit:    100,
			expected: []float64{6, 5, 4, 3},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			s := memdb.NewHistoryStore(memdb.WithCapacity(4))
			record(t, s, test.recorded...)

			list, err := s.List(context.Background(), test.limit)
			require.NoError(t, err)
			assert.Equal(t, test.expected, values(list))
		})
	}
}

func TestHistoryStoreGet(t *testing.T) {
	s := memdb.NewHistoryStore(memdb.WithCapacity(3))
	record(t, s, 1, 2)

	rec, err := s.Get(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, float64(2), rec.Value)

	rec, err = s.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, float64(1), rec.Value)

	_, err = s.Get(context.Background(), 2)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// indices wrap around the capacity
	rec, err = s.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, float64(2), rec.Value)
}

func TestHistoryStoreWindow(t *testing.T) {
	s := memdb.NewHistoryStore()
	assert.Equal(t, memdb.DefaultCapacity, s.Capacity())

	_, err := s.Window(context.Background())
	assert.ErrorIs(t, err, store.ErrNotFound)

	stats := &store.WindowStats{Size: 2, Mean: 1.5, Min: 1, Max: 2}
	require.NoError(t, s.SetWindow(context.Background(), stats))
	got, err := s.Window(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stats, got)
}

func TestHistoryStoreSnapshotRestore(t *testing.T) {
	s := memdb.NewHistoryStore(memdb.WithCapacity(3))
	record(t, s, 1, 2, 3, 4)

	storage, first, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, storage, 3)

	restored := memdb.NewHistoryStore(memdb.WithCapacity(3))
	require.NoError(t, restored.Restore(context.Background(), storage, first))

	expected, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	got, err := restored.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, expected, got)

	// sequence numbers continue after the restored ones
	record(t, restored, 5)
	rec, err := restored.Get(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), rec.Seq)

	// the snapshot is a copy
	record(t, s, 6)
	assert.NotEqual(t, float64(6), storage[first].Value)
}

func TestHistoryStoreRestoreErrors(t *testing.T) {
	s := memdb.NewHistoryStore(memdb.WithCapacity(3))

	err := s.Restore(context.Background(), make([]*store.Record, 2), 0)
	assert.ErrorContains(t, err, "does not match")

	err = s.Restore(context.Background(), make([]*store.Record, 3), 3)
	assert.Error(t, err)
}

func TestHistoryStoreConcurrentAccess(t *testing.T) {
	s := memdb.NewHistoryStore(memdb.WithCapacity(8))

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := range 100 {
				_, _ = s.Record(context.Background(), &store.Record{Value: float64(i)})
			}
		}()
		go func() {
			defer wg.Done()
			for range 100 {
				list, err := s.List(context.Background(), 0)
				assert.NoError(t, err)
				assert.LessOrEqual(t, len(list), 8)
			}
		}()
	}
	wg.Wait()

	rec, err := s.Get(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), rec.Seq)
}
