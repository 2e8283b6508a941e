package hardware

import (
	"strconv"
	"sync"
)

type ParameterDescription struct {
	Name         string
	Description  string
	DefaultValue float32
}

// Parameter is a user adjustable value influencing how a sensor
// value is computed, e.g. a temperature offset.
type Parameter struct {
	mu          sync.RWMutex
	id          Identifier
	description ParameterDescription
	value       float32
	isDefault   bool
	settings    Settings
}

func newParameter(sensorId Identifier, index int, description ParameterDescription, settings Settings) *Parameter {
	p := &Parameter{
		id:          sensorId.Append("parameter", strconv.Itoa(index)),
		description: description,
		value:       description.DefaultValue,
		isDefault:   true,
		settings:    settings,
	}

	key := p.id.String()
	if settings.Contains(key) {
		value, err := strconv.ParseFloat(settings.GetValue(key, ""), 32)
		if err == nil {
			p.value = float32(value)
			p.isDefault = false
		}
	}
	return p
}

func (p *Parameter) Identifier() Identifier {
	return p.id
}

func (p *Parameter) Name() string {
	return p.description.Name
}

func (p *Parameter) Description() string {
	return p.description.Description
}

func (p *Parameter) DefaultValue() float32 {
	return p.description.DefaultValue
}

func (p *Parameter) Value() float32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

func (p *Parameter) IsDefault() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.isDefault
}

// SetValue overrides the default value and persists the override
func (p *Parameter) SetValue(value float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = value
	p.isDefault = false
	p.settings.SetValue(p.id.String(), strconv.FormatFloat(float64(value), 'g', -1, 32))
}

// SetDefault drops a persisted override
func (p *Parameter) SetDefault() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = p.description.DefaultValue
	p.isDefault = true
	p.settings.Remove(p.id.String())
}
