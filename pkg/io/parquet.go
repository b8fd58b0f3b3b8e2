package io

import (
	"bytes"
	"context"
	"fmt"
	gio "io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"tabio/pkg/model"
)

// Field metadata keys holding the type and annotation cells of a column.
const (
	parquetTypeKey       = "tabio.type"
	parquetAnnotationKey = "tabio.annotation"
)

// SaveParquet writes every column of t, metas included, as a snappy compressed
// parquet file. Continuous columns are stored as float64, all others as
// strings. The type and role of each column are kept in the field metadata.
func SaveParquet(w gio.Writer, t *model.Table, opts Options) error {
	columns := t.Domain.Columns()
	fields := make([]arrow.Field, len(columns))
	for i, c := range columns {
		typeCell, err := typeDefinition(c.Var)
		if err != nil {
			return model.NewParseError(0, i+1, err, "cannot save %s as parquet", c.Var.Name)
		}
		var dt arrow.DataType = arrow.BinaryTypes.String
		if c.Var.Kind == model.Continuous {
			dt = arrow.PrimitiveTypes.Float64
		}
		fields[i] = arrow.Field{
			Name:     c.Var.Name,
			Type:     dt,
			Nullable: true,
			Metadata: arrow.NewMetadata(
				[]string{parquetTypeKey, parquetAnnotationKey},
				[]string{typeCell, annotationDefinition(c)},
			),
		}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer builder.Release()
	for i := 0; i < t.Len(); i++ {
		for j, v := range t.Cells(i) {
			switch b := builder.Field(j).(type) {
			case *array.Float64Builder:
				if v.Missing {
					b.AppendNull()
				} else {
					b.Append(v.Float)
				}
			case *array.StringBuilder:
				if v.Missing {
					b.AppendNull()
				} else {
					b.Append(v.Raw)
				}
			}
		}
	}
	record := builder.NewRecord()
	defer record.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	writer, err := pqarrow.NewFileWriter(schema, w, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := writer.Write(record); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write parquet record: %w", err)
	}
	return writer.Close()
}

// LoadParquet reads a parquet file. Columns written by SaveParquet get their
// declared type and role back; other numeric columns are continuous and the
// rest are resolved from their values.
func LoadParquet(r gio.Reader, opts Options) (*model.Table, []DataError, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, nil, err
	}

	data, err := gio.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	pf, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pf.Close()

	arrowReader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}
	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read parquet table: %w", err)
	}
	defer table.Release()

	schema := table.Schema()
	columns := make([]ColumnDecl, schema.NumFields())
	for i, field := range schema.Fields() {
		decl, err := parquetColumn(field, i)
		if err != nil {
			return nil, nil, err
		}
		columns[i] = decl
	}

	var records []Record
	tr := array.NewTableReader(table, 0)
	defer tr.Release()
	for tr.Next() {
		rec := tr.Record()
		for row := 0; row < int(rec.NumRows()); row++ {
			cells := make([]string, rec.NumCols())
			for j, col := range rec.Columns() {
				cells[j] = model.MissingMarker
				if !col.IsNull(row) {
					cells[j] = col.ValueStr(row)
				}
			}
			records = append(records, Record{Cells: cells, Line: len(records) + 1})
		}
	}
	if err := tr.Err(); err != nil {
		return nil, nil, fmt.Errorf("error reading parquet records: %w", err)
	}
	return buildTable(columns, records, opts, nil)
}

func parquetColumn(field arrow.Field, i int) (ColumnDecl, error) {
	decl := ColumnDecl{Name: field.Name}
	if k := field.Metadata.FindKey(parquetTypeKey); k >= 0 {
		typeDef, err := ParseTypeDef(field.Metadata.Values()[k])
		if err != nil {
			return decl, positioned(err, 0, i+1)
		}
		decl.Type = typeDef
	} else if arrow.IsInteger(field.Type.ID()) || arrow.IsFloating(field.Type.ID()) {
		decl.Type.Kind = model.Continuous
	}
	if k := field.Metadata.FindKey(parquetAnnotationKey); k >= 0 {
		annotation, err := ParseAnnotation(field.Metadata.Values()[k])
		if err != nil {
			return decl, positioned(err, 0, i+1)
		}
		decl.Annotation = annotation
	}
	return decl, nil
}
