package custompromauto

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric exposed by historyd.
const Namespace = "historyd"

var registry *prometheus.Registry
var auto promauto.Factory

func init() {
	registry = prometheus.NewRegistry()
	auto = promauto.With(registry)
}

// Auto returns a factory registering collectors into the private registry.
func Auto() promauto.Factory {
	return auto
}

// Registry returns the registry served on /metrics; it holds no default process collectors.
func Registry() *prometheus.Registry {
	return registry
}
