package hardware

import (
	"sync"
)

type SensorEvent int

const (
	SensorAdded SensorEvent = iota
	SensorRemoved
)

// SensorObserver is notified synchronously about changes of the active sensor set
type SensorObserver func(event SensorEvent, sensor *Sensor)

// Hardware is a single physical device (or a logical part of one)
// exposing a set of sensors.
type Hardware interface {
	Identifier() Identifier
	Name() string
	SetName(name string)
	Type() HardwareType
	// Sensors returns the currently active sensors
	Sensors() []*Sensor
	SubHardware() []Hardware
	// Update reads fresh values from the device
	Update() error
	// Report returns a human readable dump of device specific state
	Report() string
	Close() error
	SetSensorObserver(observer SensorObserver)
}

// Base implements the bookkeeping shared by all Hardware implementations.
// Drivers embed *Base and add Type, Update, Report and Close.
type Base struct {
	mu sync.RWMutex

	id          Identifier
	defaultName string
	name        string
	settings    Settings

	active              []*Sensor
	pendingDeactivation map[*Sensor]bool
	observer            SensorObserver
}

func NewBase(name string, id Identifier, settings Settings) *Base {
	if settings == nil {
		settings = NewMemorySettings()
	}
	return &Base{
		id:                  id,
		defaultName:         name,
		name:                settings.GetValue(id.Append("name").String(), name),
		settings:            settings,
		pendingDeactivation: map[*Sensor]bool{},
	}
}

func (b *Base) Identifier() Identifier {
	return b.id
}

func (b *Base) Settings() Settings {
	return b.settings
}

func (b *Base) Name() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.name
}

// SetName sets a custom name, an empty name restores the default
func (b *Base) SetName(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := b.id.Append("name").String()
	if len(name) > 0 && name != b.defaultName {
		b.name = name
		b.settings.SetValue(key, name)
	} else {
		b.name = b.defaultName
		b.settings.Remove(key)
	}
}

func (b *Base) Sensors() []*Sensor {
	b.mu.RLock()
	defer b.mu.RUnlock()
	result := make([]*Sensor, len(b.active))
	copy(result, b.active)
	return result
}

func (b *Base) SubHardware() []Hardware {
	return nil
}

func (b *Base) Report() string {
	return ""
}

func (b *Base) SetSensorObserver(observer SensorObserver) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observer = observer
}

// ActivateSensor adds the sensor to the active set and cancels a pending deactivation
func (b *Base) ActivateSensor(sensor *Sensor) {
	b.mu.Lock()
	delete(b.pendingDeactivation, sensor)
	if b.indexOf(sensor) >= 0 {
		b.mu.Unlock()
		return
	}
	b.active = append(b.active, sensor)
	observer := b.observer
	b.mu.Unlock()

	if observer != nil {
		observer(SensorAdded, sensor)
	}
}

// DeactivateSensor removes an active sensor on the second consecutive call.
// Deactivating an inactive sensor does nothing.
func (b *Base) DeactivateSensor(sensor *Sensor) {
	b.mu.Lock()
	index := b.indexOf(sensor)
	if index < 0 {
		delete(b.pendingDeactivation, sensor)
		b.mu.Unlock()
		return
	}
	if !b.pendingDeactivation[sensor] {
		b.pendingDeactivation[sensor] = true
		b.mu.Unlock()
		return
	}
	delete(b.pendingDeactivation, sensor)
	b.active = append(b.active[:index], b.active[index+1:]...)
	observer := b.observer
	b.mu.Unlock()

	if observer != nil {
		observer(SensorRemoved, sensor)
	}
}

// IsActive reports whether the sensor is part of the active set
func (b *Base) IsActive(sensor *Sensor) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.indexOf(sensor) >= 0
}

func (b *Base) indexOf(sensor *Sensor) int {
	for i, s := range b.active {
		if s == sensor {
			return i
		}
	}
	return -1
}
