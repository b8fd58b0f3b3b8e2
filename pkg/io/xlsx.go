package io

import (
	"fmt"
	gio "io"

	"github.com/xuri/excelize/v2"

	"tabio/pkg/model"
)

const xlsxSheet = "Sheet1"

// LoadXLSX reads the first sheet of a workbook as a table. The sheet may carry
// names, types and annotations rows like a tab file.
func LoadXLSX(r gio.Reader, opts Options) (*model.Table, []DataError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%w: no sheets in workbook", model.ErrNotFound)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows of sheet %s: %w", sheets[0], err)
	}
	return LoadRecords(rows, opts)
}

// SaveXLSX writes t to a single sheet in the layout of SaveTab. Continuous
// values are stored as numbers.
func SaveXLSX(w gio.Writer, t *model.Table, opts Options) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	columns := t.Domain.Columns()
	var header [][]interface{}
	names := make([]interface{}, len(columns))
	types := make([]interface{}, len(columns))
	annotations := make([]interface{}, len(columns))
	for i, c := range columns {
		names[i] = c.Var.Name
		typeCell, err := typeDefinition(c.Var)
		if err != nil {
			return model.NewParseError(2, i+1, err, "cannot save %s", c.Var.Name)
		}
		types[i] = typeCell
		annotations[i] = annotationDefinition(c)
	}
	header = append(header, names)
	if !opts.Plain {
		header = append(header, types, annotations)
	}

	row := 1
	setRow := func(values []interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(xlsxSheet, cell, &values)
	}
	for _, values := range header {
		if err := setRow(values); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	for i := 0; i < t.Len(); i++ {
		cells := t.Cells(i)
		values := make([]interface{}, len(cells))
		for j, v := range cells {
			if columns[j].Var.Kind == model.Continuous && !v.Missing {
				values[j] = v.Float
			} else {
				values[j] = v.String()
			}
		}
		if err := setRow(values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	return f.Write(w)
}
