package io

import (
	"strings"

	"tabio/pkg/model"
)

// Tristate is an option that can be forced on, forced off or detected.
type Tristate int

const (
	Auto Tristate = iota
	Yes
	No
)

func (t Tristate) resolve(detected bool) bool {
	switch t {
	case Yes:
		return true
	case No:
		return false
	default:
		return detected
	}
}

// ParseTristate accepts "auto", "yes"/"true" and "no"/"false".
func ParseTristate(s string) Tristate {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return Yes
	case "no", "false", "0":
		return No
	default:
		return Auto
	}
}

// DefaultSampleSize is how much of a delimited file is used to sniff its dialect.
const DefaultSampleSize = 5 << 20

// MaxLineLength bounds a line of the line oriented formats.
const MaxLineLength = 64 << 20

// DefaultMissingValues are the tokens read as a missing value.
var DefaultMissingValues = []string{"?", "", "NA", "~", "*"}

// Options lists every option understood by the loaders and writers.
type Options struct {
	// Dialect overrides. Zero runes and Auto mean "sniff from the sample".
	Delimiter        rune
	Quote            rune
	Escape           rune
	SkipInitialSpace Tristate

	HasHeader        Tristate
	HasTypes         Tristate
	HasAnnotations   Tristate
	SimplifiedHeader bool

	MissingValues []string
	SampleSize    int
	Thresholds    Thresholds

	// CreateNewOn and Registry control variable reuse across loads.
	CreateNewOn model.MakeStatus
	Registry    model.VariableRegistry

	// NoClass keeps the last ARFF attribute an ordinary attribute.
	NoClass bool
	// MultiLabels names ARFF attributes that are multi-class labels.
	MultiLabels []string

	// Plain omits the type and annotation rows when saving a delimited file.
	Plain bool

	// TryNumericize writes discrete variables with numeric values as real in ARFF and C4.5.
	TryNumericize bool
}

func DefaultOptions() Options {
	return Options{
		MissingValues: append([]string{}, DefaultMissingValues...),
		SampleSize:    DefaultSampleSize,
		Thresholds:    DefaultThresholds(),
		CreateNewOn:   model.StatusIncompatible,
	}
}

// withDefaults fills unset fields and creates a private registry when none is injected.
func (o Options) withDefaults() (Options, error) {
	if o.MissingValues == nil {
		o.MissingValues = append([]string{}, DefaultMissingValues...)
	}
	if o.SampleSize <= 0 {
		o.SampleSize = DefaultSampleSize
	}
	o.Thresholds = o.Thresholds.withDefaults()
	if o.Registry == nil {
		registry, err := model.NewRegistry(model.DefaultRegistrySize)
		if err != nil {
			return o, err
		}
		o.Registry = registry
	}
	return o, nil
}

// Validate rejects option combinations that cannot be honoured.
func (o Options) Validate() error {
	if o.SimplifiedHeader && (o.HasTypes == Yes || o.HasAnnotations == Yes) {
		return &model.ParseError{Err: model.ErrConflictingHeaderMode,
			Msg: "simplified header and explicit type or annotation rows are exclusive"}
	}
	return nil
}

// missingSet returns the missing tokens plus the canonical marker.
func (o Options) missingSet() map[string]struct{} {
	set := make(map[string]struct{}, len(o.MissingValues)+1)
	for _, m := range o.MissingValues {
		set[m] = struct{}{}
	}
	set[model.MissingMarker] = struct{}{}
	return set
}
