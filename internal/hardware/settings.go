package hardware

import "sync"

// Settings persists per-sensor and per-hardware display overrides.
type Settings interface {
	Contains(name string) bool
	GetValue(name string, defaultValue string) string
	SetValue(name string, value string)
	Remove(name string)
}

// MemorySettings is a Settings implementation that is not persisted anywhere
type MemorySettings struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemorySettings() *MemorySettings {
	return &MemorySettings{
		values: map[string]string{},
	}
}

func (s *MemorySettings) Contains(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[name]
	return ok
}

func (s *MemorySettings) GetValue(name string, defaultValue string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[name]
	if !ok {
		return defaultValue
	}
	return value
}

func (s *MemorySettings) SetValue(name string, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = value
}

func (s *MemorySettings) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, name)
}
