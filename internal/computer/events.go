package computer

import (
	"github.com/markusressel/hwmon2go/internal/hardware"
)

type EventKind int

const (
	HardwareAdded EventKind = iota
	HardwareRemoved
	SensorAdded
	SensorRemoved
)

func (k EventKind) String() string {
	switch k {
	case HardwareAdded:
		return "HardwareAdded"
	case HardwareRemoved:
		return "HardwareRemoved"
	case SensorAdded:
		return "SensorAdded"
	case SensorRemoved:
		return "SensorRemoved"
	}
	return "Unknown"
}

// Event describes a structural change of the hardware tree.
// Sensor is only set for sensor events.
type Event struct {
	Kind     EventKind
	Hardware hardware.Hardware
	Sensor   *hardware.Sensor
}

// Subscriber is called synchronously on the goroutine causing the change
type Subscriber func(event Event)

type subscription struct {
	id         int
	subscriber Subscriber
}
