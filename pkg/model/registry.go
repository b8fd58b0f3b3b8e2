package model

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MakeStatus tells how well an existing variable matches a requested one. Higher
// values are worse matches.
type MakeStatus int

const (
	StatusOK MakeStatus = iota
	StatusMissingValues
	StatusNoRecognizedValues
	StatusIncompatible
	StatusNotFound
)

func (s MakeStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMissingValues:
		return "missing-values"
	case StatusNoRecognizedValues:
		return "no-recognized-values"
	case StatusIncompatible:
		return "incompatible"
	case StatusNotFound:
		return "not-found"
	default:
		return fmt.Sprintf("MakeStatus(%d)", int(s))
	}
}

// VariableSpec describes the variable a loader wants. Values must appear in the
// given order, Unordered values may be appended in any order.
type VariableSpec struct {
	Name      string
	Kind      Kind
	Values    []string
	Unordered []string
}

// VariableRegistry creates variables or reuses previously created ones. A new
// variable is created whenever the best match is at least createNewOn.
type VariableRegistry interface {
	Make(spec VariableSpec, createNewOn MakeStatus) (*Variable, MakeStatus, error)
}

// DefaultRegistrySize bounds how many variables a Registry remembers.
const DefaultRegistrySize = 4096

// Registry is a VariableRegistry that remembers the most recently made variables.
type Registry struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *Variable]
}

func NewRegistry(size int) (*Registry, error) {
	if size <= 0 {
		size = DefaultRegistrySize
	}
	cache, err := lru.New[string, *Variable](size)
	if err != nil {
		return nil, fmt.Errorf("error creating variable registry: %w", err)
	}
	return &Registry{cache: cache}, nil
}

func registryKey(name string, kind Kind) string {
	return fmt.Sprintf("%d\x00%s", kind, name)
}

func (r *Registry) Make(spec VariableSpec, createNewOn MakeStatus) (*Variable, MakeStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := registryKey(spec.Name, spec.Kind)
	existing, ok := r.cache.Get(key)
	status := StatusNotFound
	if ok {
		status = matchStatus(existing, spec)
	}

	if status >= createNewOn {
		v, err := NewVariable(spec.Name, spec.Kind, append(append([]string{}, spec.Values...), spec.Unordered...))
		if err != nil {
			return nil, status, err
		}
		r.cache.Add(key, v)
		return v, status, nil
	}

	if status == StatusMissingValues || status == StatusNoRecognizedValues {
		values := append([]string{}, existing.Values...)
		values = append(values, spec.Values...)
		values = append(values, spec.Unordered...)
		extended := NewDiscrete(existing.Name, values...)
		extended.Ordered = existing.Ordered
		existing = extended
		r.cache.Add(key, existing)
	}
	return existing, status, nil
}

func matchStatus(existing *Variable, spec VariableSpec) MakeStatus {
	if existing.Kind != Discrete {
		return StatusOK
	}

	last := -1
	for _, value := range spec.Values {
		index, ok := existing.ValueIndex(value)
		if !ok {
			continue
		}
		if index < last {
			return StatusIncompatible
		}
		last = index
	}

	requested := len(spec.Values) + len(spec.Unordered)
	if requested == 0 {
		return StatusOK
	}
	recognized := 0
	for _, values := range [][]string{spec.Values, spec.Unordered} {
		for _, value := range values {
			if _, ok := existing.ValueIndex(value); ok {
				recognized++
			}
		}
	}
	switch {
	case recognized == 0 && len(existing.Values) > 0:
		return StatusNoRecognizedValues
	case recognized < requested:
		return StatusMissingValues
	default:
		return StatusOK
	}
}
