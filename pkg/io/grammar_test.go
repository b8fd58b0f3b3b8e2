package io

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"tabio/pkg/model"
)

func TestSplitEscaped(t *testing.T) {
	tests := []struct {
		s    string
		sep  rune
		want []string
	}{
		{`a b c`, ' ', []string{"a", "b", "c"}},
		{`new\ york boston`, ' ', []string{"new york", "boston"}},
		{`key=value`, '=', []string{"key", "value"}},
		{`a\=b=c`, '=', []string{"a=b", "c"}},
		{``, ' ', []string{""}},
		{`C:\\ D:`, ' ', []string{`C:\`, "D:"}},
		{`a\b c\`, ' ', []string{`a\b`, `c\`}},
		{`a\\\=b=c`, '=', []string{`a\=b`, "c"}},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, SplitEscaped(tt.s, tt.sep), "input %q", tt.s)
	}
}

func TestEscapeToken(t *testing.T) {
	for _, value := range []string{"plain", "new york", `C:\`, `a\ b`, `\\`, "k=v"} {
		require.Equal(t, []string{value}, SplitEscaped(escapeToken(value, ' '), ' '), "value %q", value)
		require.Equal(t, []string{value}, SplitEscaped(escapeToken(value, '='), '='), "value %q", value)
	}
}

func TestParseTypeDef(t *testing.T) {
	tests := []struct {
		cell   string
		kind   model.Kind
		values []string
	}{
		{"c", model.Continuous, nil},
		{"continuous", model.Continuous, nil},
		{"d", model.Discrete, nil},
		{"discrete", model.Discrete, nil},
		{"s", model.String, nil},
		{"string", model.String, nil},
		{"python", model.Opaque, nil},
		{"python:json", model.Opaque, nil},
		{"", model.Unknown, nil},
		{"red green blue", model.Discrete, []string{"red", "green", "blue"}},
		{`new\ york boston`, model.Discrete, []string{"new york", "boston"}},
	}
	for _, tt := range tests {
		typeDef, err := ParseTypeDef(tt.cell)
		require.NoError(t, err, "cell %q", tt.cell)
		require.Equal(t, tt.kind, typeDef.Kind, "cell %q", tt.cell)
		require.Equal(t, tt.values, typeDef.Values, "cell %q", tt.cell)
	}

	for _, cell := range []string{"real", "1.5", "Continuous"} {
		_, err := ParseTypeDef(cell)
		require.ErrorIs(t, err, model.ErrVariableDefinition, "cell %q", cell)
	}
}

func TestParseAnnotation(t *testing.T) {
	tests := []struct {
		cell   string
		role   model.Role
		labels model.Labels
	}{
		{"", model.RoleNone, nil},
		{"m", model.RoleMeta, nil},
		{"meta", model.RoleMeta, nil},
		{"c", model.RoleClass, nil},
		{"class", model.RoleClass, nil},
		{"multiclass", model.RoleMultiClass, nil},
		{"i", model.RoleIgnore, nil},
		{"ignore", model.RoleIgnore, nil},
		{"unit=cm", model.RoleNone, model.Labels{"unit": "cm"}},
		{"class unit=cm source=lab", model.RoleClass, model.Labels{"unit": "cm", "source": "lab"}},
		{`m note=two\ words`, model.RoleMeta, model.Labels{"note": "two words"}},
		{`eq=a\=b`, model.RoleNone, model.Labels{"eq": "a=b"}},
	}
	for _, tt := range tests {
		a, err := ParseAnnotation(tt.cell)
		require.NoError(t, err, "cell %q", tt.cell)
		require.Equal(t, tt.role, a.Role, "cell %q", tt.cell)
		require.Equal(t, tt.labels, a.Labels, "cell %q", tt.cell)
	}

	for _, cell := range []string{"class unit", "a=b=c", "meta x"} {
		_, err := ParseAnnotation(cell)
		require.ErrorIs(t, err, model.ErrVariableDefinition, "cell %q", cell)
	}
}

func TestRowRecognizers(t *testing.T) {
	require.True(t, IsTypesRow([]string{"continuous", "d", "", "a b", "python"}))
	require.False(t, IsTypesRow([]string{"continuous", "1.5"}))
	require.True(t, IsAnnotationsRow([]string{"class", "", "m unit=cm"}))
	require.False(t, IsAnnotationsRow([]string{"class", "23"}))
}

func TestParseAnnotations_Position(t *testing.T) {
	_, err := ParseAnnotations([]string{"", "class", "bad"}, 3)
	var pe *model.ParseError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, 3, pe.Row)
	require.Equal(t, 3, pe.Column)
	require.ErrorIs(t, err, model.ErrVariableDefinition)

	_, err = ParseTypes([]string{"c", "weird"}, 2)
	require.True(t, errors.As(err, &pe))
	require.Equal(t, 2, pe.Row)
	require.Equal(t, 2, pe.Column)
}
