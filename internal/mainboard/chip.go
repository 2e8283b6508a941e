package mainboard

import (
	"fmt"
	"math"
	"strings"

	"github.com/markusressel/hwmon2go/internal/hardware"
)

type chipSensor struct {
	sensor  *hardware.Sensor
	channel Channel
}

// Chip exposes the inputs of a single lm-sensors chip
type Chip struct {
	*hardware.Base

	path    string
	sensors []chipSensor
}

func NewChip(info ChipInfo, settings hardware.Settings) *Chip {
	id := hardware.NewIdentifier("hwmon", hardware.SanitizeSegment(info.Name))
	c := &Chip{
		Base: hardware.NewBase(info.Name, id, settings),
		path: info.Path,
	}

	indices := map[hardware.SensorType]int{}
	for _, channel := range info.Channels {
		index := indices[channel.Type]
		indices[channel.Type]++

		sensor := hardware.NewSensor(channel.Label, index, channel.Type, id, settings)
		c.sensors = append(c.sensors, chipSensor{sensor: sensor, channel: channel})
		c.ActivateSensor(sensor)
	}
	return c
}

func (c *Chip) Type() hardware.HardwareType {
	return hardware.HardwareTypeSuperIO
}

func (c *Chip) Update() error {
	for _, s := range c.sensors {
		value := s.channel.Read()
		if math.IsNaN(value) || math.IsInf(value, 0) {
			s.sensor.ClearValue()
			continue
		}
		s.sensor.SetValue(float32(value))
	}
	return nil
}

func (c *Chip) Report() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Chip: %s\n", c.Name()))
	sb.WriteString(fmt.Sprintf("Path: %s\n", c.path))
	for _, s := range c.sensors {
		sb.WriteString(fmt.Sprintf("  %s %s\n", s.sensor.Identifier(), s.channel.Label))
	}
	sb.WriteString("\n")
	return sb.String()
}

func (c *Chip) Close() error {
	return nil
}
