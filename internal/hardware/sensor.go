package hardware

import (
	"strconv"
	"sync"
	"time"

	"github.com/asecurityteam/rolling"
	"github.com/markusressel/hwmon2go/internal/util"
)

const (
	// number of consecutive values averaged into one history entry
	historyBatchSize = 4
	historyRetention = 120 * time.Minute
)

// SensorValue is a single entry of the sensor history
type SensorValue struct {
	Value float32   `json:"value"`
	Time  time.Time `json:"time"`
}

// Sensor is one measured or controlled quantity of a hardware.
type Sensor struct {
	mu sync.RWMutex

	id          Identifier
	defaultName string
	name        string
	sensorType  SensorType
	index       int
	hidden      bool

	value    float32
	hasValue bool
	min      float32
	hasMin   bool
	max      float32
	hasMax   bool

	parameters []*Parameter

	history    *util.RingBuffer[SensorValue]
	batch      *rolling.PointPolicy
	batchCount int

	settings Settings
	now      func() time.Time
}

// NewSensor creates a sensor belonging to the hardware with the given identifier.
// Name, hidden state and parameter values are restored from settings.
func NewSensor(
	name string,
	index int,
	sensorType SensorType,
	owner Identifier,
	settings Settings,
	parameters ...ParameterDescription,
) *Sensor {
	if settings == nil {
		settings = NewMemorySettings()
	}
	id := owner.Append(sensorType.String(), strconv.Itoa(index))

	s := &Sensor{
		id:          id,
		defaultName: name,
		sensorType:  sensorType,
		index:       index,
		history:     util.NewRingBuffer[SensorValue](64),
		batch:       util.CreateRollingWindow(historyBatchSize),
		settings:    settings,
		now:         time.Now,
	}

	s.name = settings.GetValue(s.nameKey(), name)
	hidden, err := strconv.ParseBool(settings.GetValue(s.hiddenKey(), "false"))
	s.hidden = err == nil && hidden

	for i, description := range parameters {
		s.parameters = append(s.parameters, newParameter(id, i, description, settings))
	}
	return s
}

func (s *Sensor) nameKey() string {
	return s.id.Append("name").String()
}

func (s *Sensor) hiddenKey() string {
	return s.id.Append("hidden").String()
}

func (s *Sensor) Identifier() Identifier {
	return s.id
}

func (s *Sensor) Type() SensorType {
	return s.sensorType
}

func (s *Sensor) Index() int {
	return s.index
}

func (s *Sensor) DefaultName() string {
	return s.defaultName
}

func (s *Sensor) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// SetName sets a custom display name, an empty name restores the default
func (s *Sensor) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(name) > 0 && name != s.defaultName {
		s.name = name
		s.settings.SetValue(s.nameKey(), name)
	} else {
		s.name = s.defaultName
		s.settings.Remove(s.nameKey())
	}
}

func (s *Sensor) IsHidden() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hidden
}

func (s *Sensor) SetHidden(hidden bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hidden = hidden
	if hidden {
		s.settings.SetValue(s.hiddenKey(), strconv.FormatBool(hidden))
	} else {
		s.settings.Remove(s.hiddenKey())
	}
}

func (s *Sensor) Parameters() []*Parameter {
	return s.parameters
}

// Parameter returns the parameter at index, or nil
func (s *Sensor) Parameter(index int) *Parameter {
	if index < 0 || index >= len(s.parameters) {
		return nil
	}
	return s.parameters[index]
}

func (s *Sensor) Value() (float32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.hasValue
}

func (s *Sensor) Min() (float32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.min, s.hasMin
}

func (s *Sensor) Max() (float32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.max, s.hasMax
}

// SetValue publishes a new measurement: it widens min/max and feeds the
// history downsampler.
func (s *Sensor) SetValue(value float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictHistory(now)

	s.batch.Append(float64(value))
	s.batchCount++
	if s.batchCount >= historyBatchSize {
		avg := util.GetWindowAvg(s.batch)
		s.history.Append(SensorValue{Value: float32(avg), Time: now})
		s.batchCount = 0
	}

	s.value = value
	s.hasValue = true
	if !s.hasMin || value < s.min {
		s.min = value
		s.hasMin = true
	}
	if !s.hasMax || value > s.max {
		s.max = value
		s.hasMax = true
	}
}

// ClearValue marks the current value as unavailable, min and max are kept
func (s *Sensor) ClearValue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictHistory(s.now())
	s.hasValue = false
}

func (s *Sensor) ResetMin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.min = s.value
	s.hasMin = s.hasValue
}

func (s *Sensor) ResetMax() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.max = s.value
	s.hasMax = s.hasValue
}

// History returns a copy of the downsampled value history, oldest first
func (s *Sensor) History() []SensorValue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.Items()
}

func (s *Sensor) evictHistory(now time.Time) {
	for {
		first, ok := s.history.First()
		if !ok || now.Sub(first.Time) <= historyRetention {
			return
		}
		s.history.Remove()
	}
}
