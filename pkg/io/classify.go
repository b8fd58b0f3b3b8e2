package io

import (
	"errors"
	"strconv"
	"strings"

	"tabio/pkg/model"
)

const (
	DefaultContinuousCutoff  = 0.5
	DefaultDiscreteCutoff    = 0.3
	DefaultStringCutoff      = 0.75
	DefaultMaxDiscreteValues = 20

	// The type resolver only calls a column continuous when every value is
	// numeric and calls it discrete whenever it is not.
	DefaultResolveContinuousCutoff = 1.0
	DefaultResolveDiscreteCutoff   = 0.0
)

// Thresholds are the cutoffs of the column type heuristics. The loaders give
// zero fields their default value.
type Thresholds struct {
	Continuous        float64
	Discrete          float64
	String            float64
	MaxDiscreteValues int

	ResolveContinuous float64
	ResolveDiscrete   float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Continuous:        DefaultContinuousCutoff,
		Discrete:          DefaultDiscreteCutoff,
		String:            DefaultStringCutoff,
		MaxDiscreteValues: DefaultMaxDiscreteValues,
		ResolveContinuous: DefaultResolveContinuousCutoff,
		ResolveDiscrete:   DefaultResolveDiscreteCutoff,
	}
}

func (th Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	if th.Continuous == 0 {
		th.Continuous = d.Continuous
	}
	if th.Discrete == 0 {
		th.Discrete = d.Discrete
	}
	if th.String == 0 {
		th.String = d.String
	}
	if th.MaxDiscreteValues == 0 {
		th.MaxDiscreteValues = d.MaxDiscreteValues
	}
	if th.ResolveContinuous == 0 {
		th.ResolveContinuous = d.ResolveContinuous
	}
	return th
}

// IsNumeric reports whether token is a decimal floating point literal.
func IsNumeric(token string) bool {
	s := strings.TrimSpace(token)
	if s == "" || strings.ContainsAny(s, "xX_") {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	if err == nil {
		return true
	}
	var numErr *strconv.NumError
	return errors.As(err, &numErr) && numErr.Err == strconv.ErrRange
}

// ColumnIsContinuous reports whether at least a cutoff share of values is numeric.
// A column without numeric values is never continuous.
func ColumnIsContinuous(values []string, cutoff float64) bool {
	numeric := 0.0
	for _, v := range values {
		if IsNumeric(v) {
			numeric++
		}
	}
	if numeric == 0 {
		numeric = 1e-30
	}
	n := float64(len(values))
	if n == 0 {
		n = 1
	}
	return numeric/n >= cutoff
}

// ColumnIsDiscrete reports whether values look categorical: fewer than maxValues
// distinct values that are not continuous under 1-cutoff.
func ColumnIsDiscrete(values []string, cutoff float64, maxValues int) bool {
	if distinct(values) >= maxValues {
		return false
	}
	return !ColumnIsContinuous(values, 1.0-cutoff)
}

// ColumnIsString reports whether the share of distinct values exceeds cutoff.
func ColumnIsString(values []string, cutoff float64) bool {
	n := float64(len(values))
	if n == 0 {
		n = 1
	}
	return float64(distinct(values))/n > cutoff
}

// Classify applies the standalone heuristics in priority order.
func (th Thresholds) Classify(values []string) model.Kind {
	switch {
	case ColumnIsContinuous(values, th.Continuous):
		return model.Continuous
	case ColumnIsDiscrete(values, th.Discrete, th.MaxDiscreteValues):
		return model.Discrete
	default:
		return model.String
	}
}

// ResolveKind infers the kind of a column from its distinct non-missing values,
// with the cutoffs the type resolver uses. ambiguous is set when no heuristic
// matched and the column fell back to String.
func (th Thresholds) ResolveKind(values []string) (kind model.Kind, ambiguous bool) {
	switch {
	case ColumnIsContinuous(values, th.ResolveContinuous):
		return model.Continuous, false
	case ColumnIsDiscrete(values, th.ResolveDiscrete, th.MaxDiscreteValues):
		return model.Discrete, false
	case ColumnIsString(values, th.String):
		return model.String, false
	default:
		return model.String, true
	}
}

func distinct(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}
