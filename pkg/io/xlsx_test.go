package io

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSX_RoundTrip(t *testing.T) {
	table := sampleTable(t)

	var buf bytes.Buffer
	require.NoError(t, SaveXLSX(&buf, table, Options{}))

	reloaded, dataErrors, err := LoadXLSX(bytes.NewReader(buf.Bytes()), Options{})
	require.NoError(t, err)
	require.Empty(t, dataErrors)
	requireSameTable(t, table, reloaded)
}

func TestSaveXLSX_Plain(t *testing.T) {
	table := sampleTable(t)

	var buf bytes.Buffer
	require.NoError(t, SaveXLSX(&buf, table, Options{Plain: true}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()
	rows, err := f.GetRows(xlsxSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"size", "id", "color", "name"}, rows[0])
	require.Equal(t, []string{"1.5", "a1", "red", "ann"}, rows[1])
}
