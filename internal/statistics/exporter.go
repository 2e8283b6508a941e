package statistics

import "github.com/prometheus/client_golang/prometheus"

const (
	namespace = "hwmon2go"
)

// Register adds the collectors to the default prometheus registry
func Register(collectors ...prometheus.Collector) {
	prometheus.MustRegister(collectors...)
}
