package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Lolirofle/fixed-circular-buffer/internal/source"
	"github.com/Lolirofle/fixed-circular-buffer/internal/store"
	"github.com/Lolirofle/fixed-circular-buffer/ringbuffer"
	"github.com/hedisam/pipeline/chans"
)

type Store interface {
	Record(ctx context.Context, rec *store.Record) (*store.Record, error)
	SetWindow(ctx context.Context, stats *store.WindowStats) error
}

// History records every sample into the store and keeps stats over a rolling window
// of the most recent samples.
type History struct {
	logger     *logrus.Logger
	store      Store
	windowSize int
}

func New(logger *logrus.Logger, store Store, windowSize int) *History {
	return &History{
		logger:     logger,
		store:      store,
		windowSize: windowSize,
	}
}

// Start consumes samples until in is closed or ctx is done.
// Nothing is published until the first windowSize samples have arrived.
func (h *History) Start(ctx context.Context, in <-chan *source.Sample) error {
	window, err := ringbuffer.NewSavedValues(chans.ReceiveOrDoneSeq(ctx, in), h.windowSize)
	if err != nil {
		if errors.Is(err, ringbuffer.ErrInsufficientInput) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("fill window of %d samples: %w", h.windowSize, err)
	}
	defer window.Stop()

	h.logger.WithField("window_size", h.windowSize).Info("Window filled, publishing stats")

	// the warm-up samples are consumed by the window without being yielded, record them oldest first
	for sample := range window.Buffer().Backward() {
		h.process(ctx, sample)
	}
	h.publish(ctx, window.Buffer())

	for sample := range window.All() {
		h.process(ctx, sample)
		h.publish(ctx, window.Buffer())
	}

	return nil
}

func (h *History) process(ctx context.Context, sample *source.Sample) {
	logger := h.logger.WithContext(ctx).WithFields(logrus.Fields{
		"value":       sample.Value,
		"observed_at": sample.ObservedAt,
	})

	evicted, err := h.store.Record(ctx, &store.Record{
		Value:      sample.Value,
		ObservedAt: sample.ObservedAt,
		Raw:        sample.Raw,
	})
	if err != nil {
		logger.WithError(err).Error("Failed to record sample")
		failedRecords.Inc()
		return
	}

	recordedSamples.Inc()
	if evicted != nil {
		logger = logger.WithField("evicted_seq", evicted.Seq)
		evictedRecords.Inc()
	}
	logger.Debug("Successfully recorded sample")
}

func (h *History) publish(ctx context.Context, window *ringbuffer.RingBuffer[*source.Sample]) {
	stats := windowStats(window)
	err := h.store.SetWindow(ctx, stats)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to publish window stats")
		return
	}

	windowMean.Set(stats.Mean)
	windowMin.Set(stats.Min)
	windowMax.Set(stats.Max)
}

func windowStats(window *ringbuffer.RingBuffer[*source.Sample]) *store.WindowStats {
	stats := &store.WindowStats{
		Size: window.Len(),
		Min:  window.Get(0).Value,
		Max:  window.Get(0).Value,
	}

	var sum float64
	for sample := range window.All() {
		sum += sample.Value
		stats.Min = min(stats.Min, sample.Value)
		stats.Max = max(stats.Max, sample.Value)
	}
	stats.Mean = sum / float64(window.Len())

	return stats
}
