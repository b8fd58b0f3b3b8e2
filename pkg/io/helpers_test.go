package io

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tabio/pkg/model"
)

// sampleTable has a continuous and a string attribute, a discrete class and a
// string meta, with one missing value.
func sampleTable(t *testing.T) *model.Table {
	rows := [][]string{
		{"name", "size", "color", "id"},
		{"s", "c", "red green", "s"},
		{"m", "unit=cm", "class", ""},
		{"ann", "1.5", "red", "a1"},
		{"bob", "", "green", "b2"},
	}
	table, _, err := LoadRecords(rows, Options{})
	require.NoError(t, err)
	return table
}

// requireSameTable checks names, roles, kinds, value sets and cells column by
// column.
func requireSameTable(t *testing.T, want, got *model.Table) {
	require.Equal(t, want.Len(), got.Len())
	wantColumns := want.Domain.Columns()
	require.Len(t, got.Domain.Columns(), len(wantColumns))
	for _, c := range wantColumns {
		name := c.Var.Name
		other, ok := got.Domain.Lookup(name)
		require.True(t, ok, "column %s lost", name)
		require.Equal(t, c.Role, other.Role, name)
		require.Equal(t, c.Var.Kind, other.Var.Kind, name)
		require.ElementsMatch(t, c.Var.Values, other.Var.Values, name)
		require.Equal(t, columnStrings(t, want, name), columnStrings(t, got, name), name)
	}
}
