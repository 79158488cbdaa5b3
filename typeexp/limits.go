package typeexp

import (
	"encoding"
	"fmt"

	"gopkg.in/yaml.v3"
)

// IndirectMode tells whether expansion descends through references/boxes.
type IndirectMode int

const (
	_ IndirectMode = iota
	// IndirectOpaque treats referenced storage as a leaf.
	IndirectOpaque
	// IndirectExpand yields the single referenced-storage child.
	IndirectExpand
)

func (m *IndirectMode) String() string {
	v, err := m.MarshalText()
	if err != nil {
		return fmt.Sprintf("indirect-mode-invalid(%d)", *m)
	}

	return string(v)
}

var _ encoding.TextUnmarshaler = (*IndirectMode)(nil)

func (m *IndirectMode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "opaque":
		*m = IndirectOpaque
		return nil
	case "expand":
		*m = IndirectExpand
		return nil
	default:
		return fmt.Errorf("unknown indirect mode %q", b)
	}
}

func (m *IndirectMode) MarshalText() ([]byte, error) {
	switch *m {
	case IndirectOpaque:
		return []byte("opaque"), nil
	case IndirectExpand:
		return []byte("expand"), nil
	default:
		return nil, fmt.Errorf("cannot marshal invalid IndirectMode(%d)", *m)
	}
}

// UnmarshalYAML lets the mode appear as a plain string in limit documents.
func (m *IndirectMode) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return m.UnmarshalText([]byte(s))
}

// Limits is the expansion cap policy.
type Limits struct {
	// MaxFields caps expandable aggregate width. A struct or tuple with
	// more members stays a leaf.
	MaxFields int `yaml:"max_fields"`
	// MaxDepth caps decomposition depth. Recursive layouts terminate here.
	MaxDepth int `yaml:"max_depth"`
	// MaxArrayLen caps element-wise array expansion.
	MaxArrayLen int `yaml:"max_array_len"`
	// Indirect selects the referenced-storage policy.
	Indirect IndirectMode `yaml:"indirect"`
}

// DefaultLimits mirror what the load/store passes are known to tolerate.
func DefaultLimits() Limits {
	return Limits{
		MaxFields:   64,
		MaxDepth:    16,
		MaxArrayLen: 16,
		Indirect:    IndirectOpaque,
	}
}

// LoadLimits parses a YAML document over the defaults.
func LoadLimits(data []byte) (Limits, error) {
	limits := DefaultLimits()
	if err := yaml.Unmarshal(data, &limits); err != nil {
		return Limits{}, fmt.Errorf("parse expansion limits: %w", err)
	}
	if limits.MaxFields < 1 || limits.MaxDepth < 1 || limits.MaxArrayLen < 0 {
		return Limits{}, fmt.Errorf("expansion limits out of range: %+v", limits)
	}
	return limits, nil
}
