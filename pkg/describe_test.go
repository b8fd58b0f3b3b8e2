package pkg

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"tabio/pkg/io"
)

func TestDescribe(t *testing.T) {
	rows := [][]string{
		{"x", "color", "note"},
		{"c", "red green blue", "s"},
		{"", "class", "m"},
		{"1", "red", "a"},
		{"2", "green", "b"},
		{"3", "red", "a"},
		{"?", "?", "?"},
	}
	table, _, err := io.LoadRecords(rows, io.Options{})
	require.NoError(t, err)
	table.Name = "colors"

	summary := Describe(table)
	require.Equal(t, "colors", summary.Name)
	require.Equal(t, 4, summary.Rows)
	require.Len(t, summary.Columns, 3)

	x := summary.Columns[0]
	require.Equal(t, "x", x.Name)
	require.Equal(t, "continuous", x.Kind)
	require.Equal(t, "attribute", x.Role)
	require.Equal(t, 1, x.Missing)
	require.Equal(t, 2.0, *x.Mean)
	require.Equal(t, 1.0, *x.StdDev)
	require.Equal(t, 1.0, *x.Min)
	require.Equal(t, 2.0, *x.Median)
	require.Equal(t, 3.0, *x.Max)

	color := summary.Columns[1]
	require.Equal(t, "class", color.Role)
	require.Equal(t, map[string]int{"red": 2, "green": 1, "blue": 0}, color.Counts)
	require.Nil(t, color.Mean)

	note := summary.Columns[2]
	require.Equal(t, "meta", note.Role)
	require.Equal(t, 2, note.Distinct)
}

func TestWriteSummary(t *testing.T) {
	mean := 1.5
	summary := Summary{Name: "t", Rows: 2, Columns: []ColumnSummary{{Name: "x", Kind: "continuous", Role: "attribute", Mean: &mean}}}

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, summary, "json"))
	require.Contains(t, buf.String(), `"mean": 1.5`)
	require.NotContains(t, buf.String(), "stddev")

	buf.Reset()
	require.NoError(t, WriteSummary(&buf, summary, "yaml"))
	require.Contains(t, buf.String(), "rows: 2")
	require.Contains(t, buf.String(), "mean: 1.5")

	require.Error(t, WriteSummary(&buf, summary, "xml"))
}
