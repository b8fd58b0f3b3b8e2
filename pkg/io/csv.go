package io

import (
	"bytes"
	"fmt"
	gio "io"

	"tabio/pkg/model"
)

// LoadCSV reads a delimited text table. The dialect and the header layout are
// sniffed from a sample unless opts fixes them. Recoverable problems are
// returned as data errors; grammar violations abort the load.
func LoadCSV(r gio.Reader, opts Options) (*model.Table, []DataError, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}

	sample := make([]byte, opts.SampleSize)
	n, err := gio.ReadFull(r, sample)
	if err != nil && err != gio.EOF && err != gio.ErrUnexpectedEOF {
		return nil, nil, fmt.Errorf("error reading sample: %w", err)
	}
	sample = sample[:n]

	var errs []DataError
	dialect := ExcelDialect()
	if opts.Delimiter == 0 {
		if dialect, err = SniffDialect(sample); err != nil {
			errs = warn(errs, newDataError(0, model.ErrFormatSniff, "%s, using the default dialect", err))
		}
	}
	dialect = opts.dialect(dialect)

	records, err := readRecords(gio.MultiReader(bytes.NewReader(sample), r), dialect)
	if err != nil {
		return nil, errs, fmt.Errorf("error reading records: %w", err)
	}
	return loadRecords(records, opts, errs)
}

// LoadTab reads tab separated text as written by SaveTab. The delimiter is a tab
// unless opts sets one, and the dialect is never sniffed.
func LoadTab(r gio.Reader, opts Options) (*model.Table, []DataError, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = '\t'
	}
	return LoadCSV(r, opts)
}

// LoadRecords builds a table from already split records, such as the rows of a
// spreadsheet. The header layout is detected as in LoadCSV.
func LoadRecords(records [][]string, opts Options) (*model.Table, []DataError, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}

	recs := make([]Record, 0, len(records))
	for i, cells := range records {
		if len(cells) > 0 {
			recs = append(recs, Record{Cells: cells, Line: i + 1})
		}
	}
	return loadRecords(recs, opts, nil)
}

func loadRecords(records []Record, opts Options, errs []DataError) (*model.Table, []DataError, error) {
	header, err := DecodeHeader(records, opts)
	if err != nil {
		return nil, errs, err
	}

	return buildTable(header.Columns, records[header.Rows:], opts, errs)
}

// buildTable normalizes the data records, resolves the column types and
// assembles the table.
func buildTable(columns []ColumnDecl, records []Record, opts Options, errs []DataError) (*model.Table, []DataError, error) {
	rows, lines, errs := normalizeRows(records, len(columns), opts.missingSet(), errs)
	vars, statuses, err := ResolveColumns(columns, rows, opts)
	if err != nil {
		return nil, errs, err
	}
	table, err := Assemble(columns, vars, statuses, rows, lines)
	if err != nil {
		return nil, errs, err
	}
	return table, errs, nil
}

// normalizeRows maps missing values to the canonical marker and pads or
// truncates every row to width.
func normalizeRows(records []Record, width int, missing map[string]struct{}, errs []DataError) ([][]string, []int, []DataError) {
	rows := make([][]string, 0, len(records))
	lines := make([]int, 0, len(records))
	for _, rec := range records {
		if len(rec.Cells) != width {
			errs = warn(errs, newDataError(rec.Line, model.ErrRowWidthMismatch,
				"row %d has %d cells, expected %d", rec.Line, len(rec.Cells), width))
		}
		row := make([]string, width)
		for i := range row {
			row[i] = model.MissingMarker
			if i < len(rec.Cells) {
				if _, ok := missing[rec.Cells[i]]; !ok {
					row[i] = rec.Cells[i]
				}
			}
		}
		rows = append(rows, row)
		lines = append(lines, rec.Line)
	}
	return rows, lines, errs
}
