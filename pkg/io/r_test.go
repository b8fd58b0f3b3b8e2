package io

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"tabio/pkg/model"
)

func TestSaveR(t *testing.T) {
	rows := [][]string{
		{"x", "c"},
		{"c", "d"},
		{"", "class"},
		{"1.5", "a"},
		{"?", "b"},
	}
	table, _, err := LoadRecords(rows, Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, SaveR(&buf, table, Options{}))
	require.Equal(t, "data <- data.frame(\n"+
		"\"x\" = c(1.5,NA),\n"+
		"\"c\" = factor(levels=c(\"xa\",\"xb\"),c(\"xa\",\"xb\")))\n", buf.String())
}

func TestSaveR_StringColumn(t *testing.T) {
	table, _, err := LoadRecords([][]string{{"s"}, {"s"}, {"text"}}, Options{})
	require.NoError(t, err)
	require.ErrorIs(t, SaveR(&bytes.Buffer{}, table, Options{}), model.ErrUnknownVariableType)
}
