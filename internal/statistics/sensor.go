package statistics

import (
	"github.com/markusressel/hwmon2go/internal/hardware"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemSensor = "sensor"

// SensorSource provides the currently active sensors
type SensorSource interface {
	Sensors() []*hardware.Sensor
}

type SensorCollector struct {
	source SensorSource
	value  *prometheus.Desc
	min    *prometheus.Desc
	max    *prometheus.Desc
}

func NewSensorCollector(source SensorSource) *SensorCollector {
	labels := []string{"id", "name", "type"}
	return &SensorCollector{
		source: source,
		value: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "value"),
			"Current value of the sensor",
			labels, nil,
		),
		min: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "min"),
			"Smallest value of the sensor since the last reset",
			labels, nil,
		),
		max: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "max"),
			"Largest value of the sensor since the last reset",
			labels, nil,
		),
	}
}

func (collector *SensorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.value
	ch <- collector.min
	ch <- collector.max
}

// Collect implements required collect function for all prometheus collectors
func (collector *SensorCollector) Collect(ch chan<- prometheus.Metric) {
	for _, sensor := range collector.source.Sensors() {
		if sensor.IsHidden() {
			continue
		}
		labels := []string{sensor.Identifier().String(), sensor.Name(), sensor.Type().String()}
		if value, ok := sensor.Value(); ok {
			ch <- prometheus.MustNewConstMetric(collector.value, prometheus.GaugeValue, float64(value), labels...)
		}
		if value, ok := sensor.Min(); ok {
			ch <- prometheus.MustNewConstMetric(collector.min, prometheus.GaugeValue, float64(value), labels...)
		}
		if value, ok := sensor.Max(); ok {
			ch <- prometheus.MustNewConstMetric(collector.max, prometheus.GaugeValue, float64(value), labels...)
		}
	}
}
