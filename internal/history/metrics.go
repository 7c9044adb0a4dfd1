package history

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Lolirofle/fixed-circular-buffer/internal/custompromauto"
)

var failedRecords = custompromauto.Auto().NewCounter(prometheus.CounterOpts{
	Namespace: custompromauto.Namespace,
	Subsystem: "history",
	Name:      "failed_records_total",
	Help:      "Total number of samples that could not be recorded",
})

var recordedSamples = custompromauto.Auto().NewCounter(prometheus.CounterOpts{
	Namespace: custompromauto.Namespace,
	Subsystem: "history",
	Name:      "recorded_samples_total",
	Help:      "Total number of samples recorded into the history",
})

var evictedRecords = custompromauto.Auto().NewCounter(prometheus.CounterOpts{
	Namespace: custompromauto.Namespace,
	Subsystem: "history",
	Name:      "evicted_records_total",
	Help:      "Total number of records evicted from the full history",
})

var windowStatsGauge = custompromauto.Auto().NewGaugeVec(prometheus.GaugeOpts{
	Namespace: custompromauto.Namespace,
	Subsystem: "history",
	Name:      "window",
	Help:      "Aggregates over the samples in the rolling window",
}, []string{"stat"})

var (
	windowMean = windowStatsGauge.WithLabelValues("mean")
	windowMin  = windowStatsGauge.WithLabelValues("min")
	windowMax  = windowStatsGauge.WithLabelValues("max")
)
