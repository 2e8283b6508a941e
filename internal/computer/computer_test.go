package computer

import (
	"errors"
	"testing"

	"github.com/markusressel/hwmon2go/internal/hardware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHardware struct {
	*hardware.Base
	sub       []hardware.Hardware
	updates   int
	updateErr error
	panics    bool
	closed    bool
}

func newFakeHardware(name string, sub ...hardware.Hardware) *fakeHardware {
	return &fakeHardware{
		Base: hardware.NewBase(name, hardware.NewIdentifier(name), nil),
		sub:  sub,
	}
}

func (h *fakeHardware) Type() hardware.HardwareType { return hardware.HardwareTypeCooler }
func (h *fakeHardware) SubHardware() []hardware.Hardware { return h.sub }
func (h *fakeHardware) Close() error {
	h.closed = true
	return nil
}
func (h *fakeHardware) Update() error {
	h.updates++
	if h.panics {
		panic("driver bug")
	}
	return h.updateErr
}

type fakeGroup struct {
	name     string
	hardware []hardware.Hardware
	closed   *[]string
}

func (g *fakeGroup) Hardware() []hardware.Hardware { return g.hardware }
func (g *fakeGroup) Report() string { return g.name + " group report\n" }
func (g *fakeGroup) Close() {
	*g.closed = append(*g.closed, g.name)
}

func factory(group *fakeGroup) GroupFactory {
	return func(settings hardware.Settings) Group {
		return group
	}
}

func recordEvents(c *Computer) *[]Event {
	var events []Event
	c.Subscribe(func(event Event) {
		events = append(events, event)
	})
	return &events
}

func TestComputer_EmptyReport(t *testing.T) {
	// GIVEN
	c := New(nil)
	c.Open()
	defer c.Close()

	// WHEN
	report := c.Report()

	// THEN
	assert.Contains(t, report, "hwmon2go Report")
	assert.Contains(t, report, "Version: ")
	assert.Contains(t, report, "Go Runtime: ")
	assert.Contains(t, report, "Sensors")
	assert.Empty(t, c.Hardware())
	assert.Empty(t, c.Sensors())
}

func TestComputer_OpenPublishesHardware(t *testing.T) {
	// GIVEN
	var closed []string
	child := newFakeHardware("child")
	root := newFakeHardware("root", child)
	other := newFakeHardware("other")
	c := New(nil,
		factory(&fakeGroup{name: "first", hardware: []hardware.Hardware{root}, closed: &closed}),
		factory(&fakeGroup{name: "second", hardware: []hardware.Hardware{other}, closed: &closed}),
	)
	events := recordEvents(c)

	// WHEN
	c.Open()
	c.Open()

	// THEN
	require.Len(t, *events, 3)
	assert.Equal(t, Event{Kind: HardwareAdded, Hardware: root}, (*events)[0])
	assert.Equal(t, Event{Kind: HardwareAdded, Hardware: child}, (*events)[1])
	assert.Equal(t, Event{Kind: HardwareAdded, Hardware: other}, (*events)[2])
	assert.Equal(t, []hardware.Hardware{root, other}, c.Hardware())

	assert.Equal(t, root, c.Parent(child))
	assert.Nil(t, c.Parent(root))
	assert.Equal(t, []hardware.Hardware{root, child}, c.Path(child))
	assert.Nil(t, c.Path(newFakeHardware("unknown")))

	// WHEN
	*events = nil
	c.Close()

	// THEN
	assert.Equal(t, []string{"second", "first"}, closed)
	require.Len(t, *events, 3)
	assert.Equal(t, Event{Kind: HardwareRemoved, Hardware: other}, (*events)[0])
	assert.Equal(t, Event{Kind: HardwareRemoved, Hardware: root}, (*events)[1])
	assert.Equal(t, Event{Kind: HardwareRemoved, Hardware: child}, (*events)[2])
	assert.Empty(t, c.Hardware())
	assert.Nil(t, c.Parent(child))
}

func TestComputer_SensorEvents(t *testing.T) {
	// GIVEN
	var closed []string
	hw := newFakeHardware("pump")
	initial := hardware.NewSensor("Water", 0, hardware.SensorTypeTemperature, hw.Identifier(), nil)
	hw.ActivateSensor(initial)
	c := New(nil, factory(&fakeGroup{name: "g", hardware: []hardware.Hardware{hw}, closed: &closed}))
	events := recordEvents(c)
	c.Open()

	// WHEN
	added := hardware.NewSensor("Fan", 0, hardware.SensorTypeFan, hw.Identifier(), nil)
	hw.ActivateSensor(added)

	// THEN
	assert.Equal(t, Event{Kind: SensorAdded, Hardware: hw, Sensor: added}, (*events)[len(*events)-1])
	sensor, ok := c.Sensor("/pump/fan/0")
	assert.True(t, ok)
	assert.Equal(t, added, sensor)
	_, ok = c.Sensor("/pump/temperature/0")
	assert.True(t, ok)
	assert.Equal(t, []*hardware.Sensor{added, initial}, c.Sensors())

	// WHEN
	hw.DeactivateSensor(added)
	hw.DeactivateSensor(added)

	// THEN
	assert.Equal(t, Event{Kind: SensorRemoved, Hardware: hw, Sensor: added}, (*events)[len(*events)-1])
	_, ok = c.Sensor("/pump/fan/0")
	assert.False(t, ok)

	// WHEN
	c.Close()
	hw.ActivateSensor(added)

	// THEN
	assert.Empty(t, c.Sensors())
}

func TestComputer_Unsubscribe(t *testing.T) {
	// GIVEN
	var closed []string
	c := New(nil, factory(&fakeGroup{name: "g", hardware: []hardware.Hardware{newFakeHardware("a")}, closed: &closed}))
	count := 0
	unsubscribe := c.Subscribe(func(event Event) {
		count++
	})

	// WHEN
	unsubscribe()
	c.Open()

	// THEN
	assert.Equal(t, 0, count)
}

func TestComputer_UpdateContinuesAfterFailure(t *testing.T) {
	// GIVEN
	var closed []string
	child := newFakeHardware("child")
	failing := newFakeHardware("failing", child)
	failing.updateErr = errors.New("io error")
	panicking := newFakeHardware("panicking")
	panicking.panics = true
	healthy := newFakeHardware("healthy")
	c := New(nil, factory(&fakeGroup{
		name:     "g",
		hardware: []hardware.Hardware{failing, panicking, healthy},
		closed:   &closed,
	}))
	c.Open()

	// WHEN
	c.Update()

	// THEN
	assert.Equal(t, 1, failing.updates)
	assert.Equal(t, 1, child.updates)
	assert.Equal(t, 1, panicking.updates)
	assert.Equal(t, 1, healthy.updates)
}

func TestComputer_Report(t *testing.T) {
	// GIVEN
	var closed []string
	hw := newFakeHardware("pump")
	sensor := hardware.NewSensor("Water", 0, hardware.SensorTypeTemperature, hw.Identifier(), nil,
		hardware.ParameterDescription{Name: "Offset [°C]", DefaultValue: 0})
	hw.ActivateSensor(sensor)
	empty := hardware.NewSensor("Flow", 0, hardware.SensorTypeFlow, hw.Identifier(), nil)
	hw.ActivateSensor(empty)
	sensor.SetValue(30.5)
	c := New(nil, factory(&fakeGroup{name: "g", hardware: []hardware.Hardware{hw}, closed: &closed}))
	c.Open()

	// WHEN
	report := c.Report()

	// THEN
	assert.Contains(t, report, "+- pump (/pump)")
	assert.Contains(t, report, "30.5")
	assert.Contains(t, report, "(/pump/temperature/0)")
	assert.Contains(t, report, "Offset [°C]")
	assert.Contains(t, report, "/pump/temperature/0/parameter/0")
	assert.Regexp(t, `Flow\s+:\s+- :\s+- :\s+- \(/pump/flow/0\)`, report)
	assert.Contains(t, report, "g group report")
	assert.Equal(t, report, c.Report())
}
