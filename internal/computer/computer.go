package computer

import (
	"fmt"
	"sort"
	"sync"

	"github.com/markusressel/hwmon2go/internal/hardware"
	"github.com/markusressel/hwmon2go/internal/ui"
	cmap "github.com/orcaman/concurrent-map/v2"
)

// Group owns the hardware of one device family
type Group interface {
	Hardware() []hardware.Hardware
	Report() string
	Close()
}

// GroupFactory detects the devices of one family
type GroupFactory func(settings hardware.Settings) Group

// node is an entry of the hardware arena, parent is -1 for root hardware
type node struct {
	hardware hardware.Hardware
	parent   int
}

// Computer is the registry of all detected hardware
type Computer struct {
	mu sync.RWMutex

	settings  hardware.Settings
	factories []GroupFactory
	groups    []Group
	open      bool

	arena []node
	index map[hardware.Hardware]int

	sensors cmap.ConcurrentMap[string, *hardware.Sensor]

	subscriberMu     sync.RWMutex
	subscriptions    []subscription
	nextSubscription int
}

// New creates a computer, groups are instantiated in the given order on Open
func New(settings hardware.Settings, factories ...GroupFactory) *Computer {
	if settings == nil {
		settings = hardware.NewMemorySettings()
	}
	return &Computer{
		settings:  settings,
		factories: factories,
		index:     map[hardware.Hardware]int{},
		sensors:   cmap.New[*hardware.Sensor](),
	}
}

// Subscribe registers a subscriber for structural changes.
// The returned function removes the subscription again.
func (c *Computer) Subscribe(subscriber Subscriber) func() {
	c.subscriberMu.Lock()
	defer c.subscriberMu.Unlock()
	id := c.nextSubscription
	c.nextSubscription++
	c.subscriptions = append(c.subscriptions, subscription{id: id, subscriber: subscriber})

	return func() {
		c.subscriberMu.Lock()
		defer c.subscriberMu.Unlock()
		for i, s := range c.subscriptions {
			if s.id == id {
				c.subscriptions = append(c.subscriptions[:i], c.subscriptions[i+1:]...)
				return
			}
		}
	}
}

func (c *Computer) publish(event Event) {
	c.subscriberMu.RLock()
	subscriptions := make([]subscription, len(c.subscriptions))
	copy(subscriptions, c.subscriptions)
	c.subscriberMu.RUnlock()

	for _, s := range subscriptions {
		s.subscriber(event)
	}
}

// Open detects all hardware. Calling Open on an open computer does nothing.
func (c *Computer) Open() {
	c.mu.Lock()
	if c.open {
		c.mu.Unlock()
		return
	}
	c.open = true
	c.mu.Unlock()

	for _, factory := range c.factories {
		group := factory(c.settings)
		if group == nil {
			continue
		}

		c.mu.Lock()
		c.groups = append(c.groups, group)
		c.rebuildArena()
		c.mu.Unlock()

		for _, hw := range group.Hardware() {
			c.addHardware(hw)
		}
	}
}

func (c *Computer) addHardware(hw hardware.Hardware) {
	for _, sensor := range hw.Sensors() {
		c.sensors.Set(sensor.Identifier().String(), sensor)
	}
	hw.SetSensorObserver(func(event hardware.SensorEvent, sensor *hardware.Sensor) {
		c.onSensorEvent(hw, event, sensor)
	})

	c.publish(Event{Kind: HardwareAdded, Hardware: hw})

	for _, sub := range hw.SubHardware() {
		c.addHardware(sub)
	}
}

func (c *Computer) removeHardware(hw hardware.Hardware) {
	hw.SetSensorObserver(nil)
	for _, sensor := range hw.Sensors() {
		c.sensors.Remove(sensor.Identifier().String())
	}

	c.publish(Event{Kind: HardwareRemoved, Hardware: hw})

	for _, sub := range hw.SubHardware() {
		c.removeHardware(sub)
	}
}

func (c *Computer) onSensorEvent(hw hardware.Hardware, event hardware.SensorEvent, sensor *hardware.Sensor) {
	switch event {
	case hardware.SensorAdded:
		c.sensors.Set(sensor.Identifier().String(), sensor)
		c.publish(Event{Kind: SensorAdded, Hardware: hw, Sensor: sensor})
	case hardware.SensorRemoved:
		c.sensors.Remove(sensor.Identifier().String())
		c.publish(Event{Kind: SensorRemoved, Hardware: hw, Sensor: sensor})
	}
}

// Close removes all hardware and closes the groups in reverse order
func (c *Computer) Close() {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return
	}
	groups := c.groups
	c.mu.Unlock()

	for i := len(groups) - 1; i >= 0; i-- {
		group := groups[i]
		for _, hw := range group.Hardware() {
			c.removeHardware(hw)
		}

		c.mu.Lock()
		c.groups = c.groups[:i]
		c.rebuildArena()
		c.mu.Unlock()

		group.Close()
	}

	c.mu.Lock()
	c.open = false
	c.mu.Unlock()
}

// rebuildArena has to be called with mu held
func (c *Computer) rebuildArena() {
	c.arena = c.arena[:0]
	c.index = map[hardware.Hardware]int{}

	var add func(hw hardware.Hardware, parent int)
	add = func(hw hardware.Hardware, parent int) {
		c.arena = append(c.arena, node{hardware: hw, parent: parent})
		position := len(c.arena) - 1
		c.index[hw] = position
		for _, sub := range hw.SubHardware() {
			add(sub, position)
		}
	}

	for _, group := range c.groups {
		for _, hw := range group.Hardware() {
			add(hw, -1)
		}
	}
}

// Update reads fresh values from all hardware. A failing driver is
// logged and does not stop the update of the others.
func (c *Computer) Update() {
	for _, n := range c.nodes() {
		if err := safeUpdate(n.hardware); err != nil {
			ui.Warning("Error updating %s: %v", n.hardware.Identifier(), err)
		}
	}
}

func safeUpdate(hw hardware.Hardware) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return hw.Update()
}

// nodes returns a snapshot of the arena in depth-first order
func (c *Computer) nodes() []node {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]node, len(c.arena))
	copy(result, c.arena)
	return result
}

// Hardware returns the root hardware of all groups
func (c *Computer) Hardware() []hardware.Hardware {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var result []hardware.Hardware
	for _, group := range c.groups {
		result = append(result, group.Hardware()...)
	}
	return result
}

// Groups returns the instantiated groups in open order
func (c *Computer) Groups() []Group {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]Group, len(c.groups))
	copy(result, c.groups)
	return result
}

// Sensors returns all active sensors ordered by identifier
func (c *Computer) Sensors() []*hardware.Sensor {
	result := make([]*hardware.Sensor, 0, c.sensors.Count())
	for _, sensor := range c.sensors.Items() {
		result = append(result, sensor)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Identifier().Compare(result[j].Identifier()) < 0
	})
	return result
}

// Sensor looks up an active sensor by its identifier string
func (c *Computer) Sensor(id string) (*hardware.Sensor, bool) {
	return c.sensors.Get(id)
}

// Parent returns the parent of the given hardware, or nil for root hardware
func (c *Computer) Parent(hw hardware.Hardware) hardware.Hardware {
	c.mu.RLock()
	defer c.mu.RUnlock()
	position, ok := c.index[hw]
	if !ok || c.arena[position].parent < 0 {
		return nil
	}
	return c.arena[c.arena[position].parent].hardware
}

// Path returns the chain of hardware from the root down to hw
func (c *Computer) Path(hw hardware.Hardware) []hardware.Hardware {
	c.mu.RLock()
	defer c.mu.RUnlock()
	position, ok := c.index[hw]
	if !ok {
		return nil
	}
	var result []hardware.Hardware
	for position >= 0 {
		result = append([]hardware.Hardware{c.arena[position].hardware}, result...)
		position = c.arena[position].parent
	}
	return result
}
