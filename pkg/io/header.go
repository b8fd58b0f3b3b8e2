package io

import (
	"fmt"
	"regexp"
	"strings"

	"tabio/pkg/model"
)

// ColumnDecl is everything the header says about one column.
type ColumnDecl struct {
	Name       string
	Type       TypeDef
	Annotation Annotation
	// Line is the source line that declared the column's role, or zero.
	Line int
}

// Header is a decoded header together with the number of records it occupied.
type Header struct {
	Columns []ColumnDecl
	Rows    int
}

// Names returns the column names in order.
func (h *Header) Names() []string {
	names := make([]string, len(h.Columns))
	for i, c := range h.Columns {
		names[i] = c.Name
	}
	return names
}

var simplifiedHeaderPattern = regexp.MustCompile(`^([cmi][DCS]|[cmi]|[DCS])#`)

var simplifiedTypes = map[byte]model.Kind{
	'D': model.Discrete,
	'C': model.Continuous,
	'S': model.String,
}

var simplifiedRoles = map[byte]model.Role{
	'c': model.RoleClass,
	'm': model.RoleMeta,
	'i': model.RoleIgnore,
}

// ParseSimplifiedHeader decodes a single header row whose cells may carry a
// role and type prefix, as in "cD#outlook".
func ParseSimplifiedHeader(row []string, line int) []ColumnDecl {
	columns := make([]ColumnDecl, len(row))
	for i, cell := range row {
		decl := ColumnDecl{Name: cell, Line: line}
		if simplifiedHeaderPattern.MatchString(cell) {
			parts := strings.SplitN(cell, "#", 2)
			spec := parts[0]
			decl.Name = parts[1]
			if role, ok := simplifiedRoles[spec[0]]; ok {
				decl.Annotation.Role = role
			}
			if kind, ok := simplifiedTypes[spec[len(spec)-1]]; ok {
				decl.Type.Kind = kind
			}
		}
		columns[i] = decl
	}
	return columns
}

// DefaultColumnName is the name given to column i when the file has no header.
func DefaultColumnName(i int) string {
	return fmt.Sprintf("F_%d", i)
}

// DecodeHeader reads the header rows at the start of records. Depending on opts
// and on what the rows look like, the header is made of a simplified row, or of
// an optional names row followed by optional types and annotations rows.
func DecodeHeader(records []Record, opts Options) (*Header, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &Header{}, nil
	}

	if opts.SimplifiedHeader {
		return &Header{Columns: ParseSimplifiedHeader(records[0].Cells, records[0].Line), Rows: 1}, nil
	}

	next := 0
	hasHeader := opts.HasHeader.resolve(detectHeader(records))
	var names []string
	if hasHeader {
		names = records[0].Cells
		next++
	}

	var types []TypeDef
	var typesLine int
	hasTypes := opts.HasTypes.resolve(hasHeader && next < len(records) && IsTypesRow(records[next].Cells))
	if hasTypes && next < len(records) {
		var err error
		typesLine = records[next].Line
		if types, err = ParseTypes(records[next].Cells, typesLine); err != nil {
			return nil, err
		}
		next++
	}

	var annotations []Annotation
	var annotationsLine int
	hasAnnotations := opts.HasAnnotations.resolve(hasHeader && hasTypes && next < len(records) &&
		IsAnnotationsRow(records[next].Cells))
	if hasAnnotations && next < len(records) {
		var err error
		annotationsLine = records[next].Line
		if annotations, err = ParseAnnotations(records[next].Cells, annotationsLine); err != nil {
			return nil, err
		}
		next++
	}

	if names == nil {
		names = make([]string, len(records[0].Cells))
		for i := range names {
			names[i] = DefaultColumnName(i)
		}
	}

	columns := make([]ColumnDecl, len(names))
	for i, name := range names {
		columns[i] = ColumnDecl{Name: name}
		if i < len(types) {
			columns[i].Type = types[i]
		}
		if i < len(annotations) {
			columns[i].Annotation = annotations[i]
			columns[i].Line = annotationsLine
		}
	}
	return &Header{Columns: columns, Rows: next}, nil
}

// detectHeader guesses whether the first record holds column names: either the
// second record is a type definition row, or the rows vote for a header.
func detectHeader(records []Record) bool {
	if len(records) > 1 && !isBlank(records[1].Cells) && IsTypesRow(records[1].Cells) {
		return true
	}
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = r.Cells
	}
	return SniffHeader(rows)
}
