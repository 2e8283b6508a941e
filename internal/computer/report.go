package computer

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/markusressel/hwmon2go/internal/hardware"
	"github.com/markusressel/hwmon2go/internal/version"
)

// FormatValue renders an optional sensor value, absent values as "-"
func FormatValue(value float32, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%g", value)
}

// Report renders a human readable dump of all hardware and groups.
// Report does not modify any state.
func (c *Computer) Report() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s Report\n\n", version.Name))
	sb.WriteString("--------------------------------------------------------------------------------\n\n")
	sb.WriteString(fmt.Sprintf("Version: %s\n", version.Version))
	sb.WriteString(fmt.Sprintf("Go Runtime: %s\n", runtime.Version()))
	sb.WriteString(fmt.Sprintf("Operating System: %s/%s\n", runtime.GOOS, runtime.GOARCH))
	sb.WriteString("\n")

	roots := c.Hardware()

	sb.WriteString("Sensors\n\n")
	_ = hardware.Walk(roots, func(n hardware.Node) error {
		indent := strings.Repeat("|  ", n.Depth)
		switch n.Kind {
		case hardware.NodeHardware:
			sb.WriteString(fmt.Sprintf("%s+- %s (%s)\n", indent, n.Hardware.Name(), n.Hardware.Identifier()))
		case hardware.NodeSensor:
			value, hasValue := n.Sensor.Value()
			min, hasMin := n.Sensor.Min()
			max, hasMax := n.Sensor.Max()
			sb.WriteString(fmt.Sprintf("%s|  +- %-20s : %8s : %8s : %8s (%s)\n",
				indent,
				n.Sensor.Name(),
				FormatValue(value, hasValue),
				FormatValue(min, hasMin),
				FormatValue(max, hasMax),
				n.Sensor.Identifier(),
			))
		}
		return nil
	})
	sb.WriteString("\n")

	sb.WriteString("Parameters\n\n")
	_ = hardware.Walk(roots, func(n hardware.Node) error {
		if n.Kind != hardware.NodeParameter {
			return nil
		}
		sb.WriteString(fmt.Sprintf("+- %s : %s : %g : %g (%s)\n",
			n.Sensor.Name(),
			n.Parameter.Name(),
			n.Parameter.Value(),
			n.Parameter.DefaultValue(),
			n.Parameter.Identifier(),
		))
		return nil
	})
	sb.WriteString("\n")

	_ = hardware.Walk(roots, func(n hardware.Node) error {
		if n.Kind != hardware.NodeHardware {
			return nil
		}
		report := n.Hardware.Report()
		if len(report) <= 0 {
			return nil
		}
		sb.WriteString("--------------------------------------------------------------------------------\n\n")
		sb.WriteString(report)
		return nil
	})

	for _, group := range c.Groups() {
		report := group.Report()
		if len(report) <= 0 {
			continue
		}
		sb.WriteString("--------------------------------------------------------------------------------\n\n")
		sb.WriteString(report)
	}

	return sb.String()
}
