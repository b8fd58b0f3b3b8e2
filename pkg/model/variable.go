package model

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// MissingMarker is the canonical token every missing-value spelling is mapped to.
const MissingMarker = "?"

// Kind is the value type of a column.
type Kind int

const (
	// Unknown is only valid on a declaration whose type is still to be inferred.
	Unknown Kind = iota
	Continuous
	Discrete
	String
	// Opaque columns are passed through untouched.
	Opaque
)

func (k Kind) String() string {
	switch k {
	case Unknown:
		return "unknown"
	case Continuous:
		return "continuous"
	case Discrete:
		return "discrete"
	case String:
		return "string"
	case Opaque:
		return "opaque"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Role decides which stream of a table a column ends up in.
type Role int

const (
	RoleNone Role = iota
	RoleClass
	RoleMultiClass
	RoleMeta
	RoleIgnore
)

func (r Role) String() string {
	switch r {
	case RoleNone:
		return "attribute"
	case RoleClass:
		return "class"
	case RoleMultiClass:
		return "multiclass"
	case RoleMeta:
		return "meta"
	case RoleIgnore:
		return "ignore"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Labels are free-form key=value annotations attached to a variable.
type Labels map[string]string

// Keys returns the label keys in sorted order.
func (l Labels) Keys() []string {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Variable is an immutable column descriptor. Values and the value index are only
// populated for Discrete variables.
type Variable struct {
	Name    string
	Kind    Kind
	Values  []string
	Ordered bool
	Labels  Labels

	index NameMap
}

func NewContinuous(name string) *Variable {
	return &Variable{Name: name, Kind: Continuous}
}

func NewString(name string) *Variable {
	return &Variable{Name: name, Kind: String}
}

func NewOpaque(name string) *Variable {
	return &Variable{Name: name, Kind: Opaque}
}

// NewDiscrete creates a discrete variable with the given value order. Duplicate
// values are dropped.
func NewDiscrete(name string, values ...string) *Variable {
	index := NewNameMap(values...)
	return &Variable{Name: name, Kind: Discrete, Values: index.IndexToName, index: index}
}

// NewVariable builds a variable of any concrete kind.
func NewVariable(name string, kind Kind, values []string) (*Variable, error) {
	switch kind {
	case Continuous:
		return NewContinuous(name), nil
	case Discrete:
		return NewDiscrete(name, values...), nil
	case String:
		return NewString(name), nil
	case Opaque:
		return NewOpaque(name), nil
	default:
		return nil, fmt.Errorf("%w: %s for %s", ErrUnknownVariableType, kind, name)
	}
}

// WithLabels returns a copy of v carrying labels.
func (v *Variable) WithLabels(labels Labels) *Variable {
	c := *v
	if len(labels) > 0 {
		c.Labels = make(Labels, len(v.Labels)+len(labels))
		for k, val := range v.Labels {
			c.Labels[k] = val
		}
		for k, val := range labels {
			c.Labels[k] = val
		}
	}
	return &c
}

// ValueIndex returns the position of value in a discrete variable's value list.
func (v *Variable) ValueIndex(value string) (int, bool) {
	if v.Kind != Discrete {
		return -1, false
	}
	return v.index.ContainsName(value)
}

// Missing returns the missing value of this variable.
func (v *Variable) Missing() Value {
	return Value{Raw: MissingMarker, Float: math.NaN(), Index: -1, Missing: true}
}

// Parse converts a raw cell into a Value. Discrete tokens outside the declared
// value list are kept with Index -1.
func (v *Variable) Parse(raw string) (Value, error) {
	if raw == MissingMarker {
		return v.Missing(), nil
	}
	switch v.Kind {
	case Continuous:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		// out of range literals parse to an infinity
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return Value{}, fmt.Errorf("%w: %q is not a number for %s", ErrInvalidValue, raw, v.Name)
		}
		return Value{Raw: raw, Float: f, Index: -1}, nil
	case Discrete:
		index, ok := v.index.ContainsName(raw)
		if !ok {
			index = -1
		}
		return Value{Raw: raw, Float: float64(index), Index: index}, nil
	default:
		return Value{Raw: raw, Float: math.NaN(), Index: -1}, nil
	}
}

// Value is one cell of a typed table.
type Value struct {
	Raw     string
	Float   float64
	Index   int
	Missing bool
}

func (v Value) String() string {
	if v.Missing {
		return MissingMarker
	}
	return v.Raw
}
