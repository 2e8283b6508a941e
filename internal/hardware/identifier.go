package hardware

import (
	"fmt"
	"strings"
)

const separator = "/"

// Identifier is the immutable, hierarchical name of a hardware or sensor
// instance, rendered as "/bigng/0/fan/2".
type Identifier struct {
	segments []string
}

// NewIdentifier creates a root identifier from the given segments.
// Segments must not be empty or contain the separator.
func NewIdentifier(segments ...string) Identifier {
	for _, segment := range segments {
		if len(segment) <= 0 || strings.Contains(segment, separator) {
			panic(fmt.Sprintf("invalid identifier segment: %q", segment))
		}
	}
	result := make([]string, len(segments))
	copy(result, segments)
	return Identifier{segments: result}
}

// ParseIdentifier parses the string representation of an identifier
func ParseIdentifier(text string) (Identifier, error) {
	trimmed := strings.Trim(text, separator)
	if len(trimmed) <= 0 {
		return Identifier{}, fmt.Errorf("empty identifier: %q", text)
	}
	segments := strings.Split(trimmed, separator)
	for _, segment := range segments {
		if len(segment) <= 0 {
			return Identifier{}, fmt.Errorf("identifier contains an empty segment: %q", text)
		}
	}
	return Identifier{segments: segments}, nil
}

// SanitizeSegment turns arbitrary text (e.g. a device path) into a valid segment
func SanitizeSegment(text string) string {
	text = strings.Trim(text, separator)
	text = strings.ReplaceAll(text, separator, "-")
	text = strings.ToLower(text)
	if len(text) <= 0 {
		return "unknown"
	}
	return text
}

// Append returns a new identifier with the given segments appended
func (id Identifier) Append(segments ...string) Identifier {
	child := NewIdentifier(segments...)
	result := make([]string, 0, len(id.segments)+len(child.segments))
	result = append(result, id.segments...)
	result = append(result, child.segments...)
	return Identifier{segments: result}
}

func (id Identifier) Segments() []string {
	result := make([]string, len(id.segments))
	copy(result, id.segments)
	return result
}

func (id Identifier) IsEmpty() bool {
	return len(id.segments) == 0
}

func (id Identifier) Equal(other Identifier) bool {
	if len(id.segments) != len(other.segments) {
		return false
	}
	for i := range id.segments {
		if id.segments[i] != other.segments[i] {
			return false
		}
	}
	return true
}

// Compare orders identifiers segment by segment, a prefix sorts first
func (id Identifier) Compare(other Identifier) int {
	for i := 0; i < len(id.segments) && i < len(other.segments); i++ {
		if c := strings.Compare(id.segments[i], other.segments[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(id.segments) < len(other.segments):
		return -1
	case len(id.segments) > len(other.segments):
		return 1
	}
	return 0
}

func (id Identifier) String() string {
	return separator + strings.Join(id.segments, separator)
}

func (id Identifier) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}
