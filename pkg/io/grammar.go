package io

import (
	"strconv"
	"strings"

	"tabio/pkg/model"
)

const escapeChar = '\\'

// SplitEscaped splits s on every sep that is not escaped. An escaped sep or
// escape character stands for itself; the escape character in front of any
// other rune is kept.
func SplitEscaped(s string, sep rune) []string {
	var parts []string
	var current strings.Builder
	escaped := false
	for _, c := range s {
		switch {
		case escaped:
			if c != sep && c != escapeChar {
				current.WriteRune(escapeChar)
			}
			current.WriteRune(c)
			escaped = false
		case c == escapeChar:
			escaped = true
		case c == sep:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteRune(c)
		}
	}
	if escaped {
		current.WriteRune(escapeChar)
	}
	return append(parts, current.String())
}

// escapeToken escapes the escape character and every occurrence of the given
// separators, so that SplitEscaped restores s.
func escapeToken(s string, seps ...rune) string {
	s = strings.ReplaceAll(s, string(escapeChar), string([]rune{escapeChar, escapeChar}))
	for _, sep := range seps {
		s = strings.ReplaceAll(s, string(sep), string([]rune{escapeChar, sep}))
	}
	return s
}

// TypeDef is a declared column type. Values is only set for discrete columns
// that list their values explicitly.
type TypeDef struct {
	Kind   model.Kind
	Values []string
}

// ParseTypeDef parses one cell of a type-definition row.
func ParseTypeDef(cell string) (TypeDef, error) {
	switch {
	case cell == "c" || cell == "continuous":
		return TypeDef{Kind: model.Continuous}, nil
	case cell == "d" || cell == "discrete":
		return TypeDef{Kind: model.Discrete}, nil
	case cell == "s" || cell == "string":
		return TypeDef{Kind: model.String}, nil
	case strings.HasPrefix(cell, "python"):
		return TypeDef{Kind: model.Opaque}, nil
	case cell == "":
		return TypeDef{Kind: model.Unknown}, nil
	}
	if values := SplitEscaped(cell, ' '); len(values) > 1 {
		return TypeDef{Kind: model.Discrete, Values: values}, nil
	}
	return TypeDef{}, &model.ParseError{Err: model.ErrVariableDefinition, Msg: "unknown variable type definition " + quote(cell)}
}

// Annotation is a parsed cell of an attribute-annotation row.
type Annotation struct {
	Role   model.Role
	Labels model.Labels
}

var roleSpecifiers = map[string]model.Role{
	"m":          model.RoleMeta,
	"meta":       model.RoleMeta,
	"c":          model.RoleClass,
	"class":      model.RoleClass,
	"multiclass": model.RoleMultiClass,
	"i":          model.RoleIgnore,
	"ignore":     model.RoleIgnore,
}

// ParseAnnotation parses one cell of an attribute-annotation row: an optional
// role specifier followed by key=value labels.
func ParseAnnotation(cell string) (Annotation, error) {
	if cell == "" {
		return Annotation{}, nil
	}
	items := SplitEscaped(cell, ' ')
	var a Annotation
	if role, ok := roleSpecifiers[items[0]]; ok {
		a.Role = role
		items = items[1:]
	}
	for _, item := range items {
		kv := SplitEscaped(item, '=')
		if len(kv) != 2 {
			return Annotation{}, &model.ParseError{Err: model.ErrVariableDefinition, Msg: "invalid attribute label definition " + quote(item)}
		}
		if a.Labels == nil {
			a.Labels = model.Labels{}
		}
		a.Labels[kv[0]] = kv[1]
	}
	return a, nil
}

// IsTypesRow reports whether every cell of row is a type definition.
func IsTypesRow(row []string) bool {
	for _, cell := range row {
		if _, err := ParseTypeDef(cell); err != nil {
			return false
		}
	}
	return true
}

// IsAnnotationsRow reports whether every cell of row is an attribute annotation.
func IsAnnotationsRow(row []string) bool {
	for _, cell := range row {
		if _, err := ParseAnnotation(cell); err != nil {
			return false
		}
	}
	return true
}

// ParseTypes parses a type-definition row found at line.
func ParseTypes(row []string, line int) ([]TypeDef, error) {
	types := make([]TypeDef, len(row))
	for i, cell := range row {
		t, err := ParseTypeDef(cell)
		if err != nil {
			return nil, positioned(err, line, i+1)
		}
		types[i] = t
	}
	return types, nil
}

// ParseAnnotations parses an attribute-annotation row found at line.
func ParseAnnotations(row []string, line int) ([]Annotation, error) {
	annotations := make([]Annotation, len(row))
	for i, cell := range row {
		a, err := ParseAnnotation(cell)
		if err != nil {
			return nil, positioned(err, line, i+1)
		}
		annotations[i] = a
	}
	return annotations, nil
}

func positioned(err error, row, column int) error {
	if pe, ok := err.(*model.ParseError); ok {
		pe.Row, pe.Column = row, column
		return pe
	}
	return &model.ParseError{Row: row, Column: column, Err: err}
}

func quote(s string) string {
	return "\"" + s + "\""
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// formatFloat is how continuous values without a source spelling are written.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
