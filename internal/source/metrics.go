package source

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Lolirofle/fixed-circular-buffer/internal/custompromauto"
)

var failedFetches = custompromauto.Auto().NewCounter(prometheus.CounterOpts{
	Namespace: custompromauto.Namespace,
	Subsystem: "source",
	Name:      "failed_fetches_total",
	Help:      "Number of polls that did not produce a sample",
})

var fetchedSamples = custompromauto.Auto().NewCounter(prometheus.CounterOpts{
	Namespace: custompromauto.Namespace,
	Subsystem: "source",
	Name:      "fetched_samples_total",
	Help:      "Number of samples fetched from the source",
})

var retriedPolls = custompromauto.Auto().NewCounter(prometheus.CounterOpts{
	Namespace: custompromauto.Namespace,
	Subsystem: "source",
	Name:      "retried_polls_total",
	Help:      "Number of poll attempts that failed and were retried",
})
