package statistics

import (
	"github.com/markusressel/hwmon2go/internal/hardware"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemHardware = "hardware"

// HardwareSource provides the root hardware
type HardwareSource interface {
	Hardware() []hardware.Hardware
}

type HardwareCollector struct {
	source  HardwareSource
	sensors *prometheus.Desc
}

func NewHardwareCollector(source HardwareSource) *HardwareCollector {
	return &HardwareCollector{
		source: source,
		sensors: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemHardware, "sensors"),
			"Number of active sensors of the hardware",
			[]string{"id", "name", "type"}, nil,
		),
	}
}

func (collector *HardwareCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.sensors
}

func (collector *HardwareCollector) Collect(ch chan<- prometheus.Metric) {
	_ = hardware.Walk(collector.source.Hardware(), func(node hardware.Node) error {
		if node.Kind != hardware.NodeHardware {
			return nil
		}
		hw := node.Hardware
		ch <- prometheus.MustNewConstMetric(collector.sensors, prometheus.GaugeValue,
			float64(len(hw.Sensors())),
			hw.Identifier().String(), hw.Name(), hw.Type().String(),
		)
		return nil
	})
}
