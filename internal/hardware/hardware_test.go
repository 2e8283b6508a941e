package hardware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordedEvent struct {
	event  SensorEvent
	sensor *Sensor
}

func newObservedBase() (*Base, *[]recordedEvent) {
	base := NewBase("Test", NewIdentifier("test"), nil)
	var events []recordedEvent
	base.SetSensorObserver(func(event SensorEvent, sensor *Sensor) {
		events = append(events, recordedEvent{event, sensor})
	})
	return base, &events
}

func TestBase_ActivateSensor(t *testing.T) {
	// GIVEN
	base, events := newObservedBase()
	s := NewSensor("s", 0, SensorTypeFan, base.Identifier(), nil)

	// WHEN
	base.ActivateSensor(s)
	base.ActivateSensor(s)

	// THEN
	assert.Equal(t, []*Sensor{s}, base.Sensors())
	assert.Equal(t, []recordedEvent{{SensorAdded, s}}, *events)
}

func TestBase_DeactivateNeedsTwoRequests(t *testing.T) {
	// GIVEN
	base, events := newObservedBase()
	s := NewSensor("s", 0, SensorTypeFan, base.Identifier(), nil)
	base.ActivateSensor(s)

	// WHEN
	base.DeactivateSensor(s)

	// THEN
	assert.True(t, base.IsActive(s))
	assert.Len(t, *events, 1)

	// WHEN
	base.DeactivateSensor(s)

	// THEN
	assert.False(t, base.IsActive(s))
	assert.Equal(t, []recordedEvent{{SensorAdded, s}, {SensorRemoved, s}}, *events)
}

func TestBase_ActivateCancelsPendingDeactivation(t *testing.T) {
	// GIVEN
	base, events := newObservedBase()
	s := NewSensor("s", 0, SensorTypeFan, base.Identifier(), nil)
	base.ActivateSensor(s)

	// WHEN
	base.DeactivateSensor(s)
	base.ActivateSensor(s)
	base.DeactivateSensor(s)

	// THEN
	assert.True(t, base.IsActive(s))
	assert.Len(t, *events, 1)

	// WHEN
	base.DeactivateSensor(s)

	// THEN
	assert.False(t, base.IsActive(s))
	assert.Len(t, *events, 2)
}

func TestBase_DeactivateInactiveIsNoop(t *testing.T) {
	// GIVEN
	base, events := newObservedBase()
	s := NewSensor("s", 0, SensorTypeFan, base.Identifier(), nil)

	// WHEN
	base.DeactivateSensor(s)
	base.DeactivateSensor(s)
	base.ActivateSensor(s)
	base.DeactivateSensor(s)

	// THEN
	assert.True(t, base.IsActive(s))
	assert.Equal(t, []recordedEvent{{SensorAdded, s}}, *events)
}

func TestBase_HysteresisIsPerSensor(t *testing.T) {
	// GIVEN
	base, _ := newObservedBase()
	a := NewSensor("a", 0, SensorTypeFan, base.Identifier(), nil)
	b := NewSensor("b", 1, SensorTypeFan, base.Identifier(), nil)
	base.ActivateSensor(a)
	base.ActivateSensor(b)

	// WHEN
	base.DeactivateSensor(a)
	base.DeactivateSensor(b)
	base.DeactivateSensor(a)

	// THEN
	assert.Equal(t, []*Sensor{b}, base.Sensors())
}

func TestBase_NameIsPersisted(t *testing.T) {
	// GIVEN
	settings := NewMemorySettings()
	base := NewBase("T-Balancer bigNG", NewIdentifier("bigng", "0"), settings)

	// WHEN
	base.SetName("Case Controller")

	// THEN
	assert.Equal(t, "Case Controller", NewBase("T-Balancer bigNG", NewIdentifier("bigng", "0"), settings).Name())
}
