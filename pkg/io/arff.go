package io

import (
	"bufio"
	"encoding/xml"
	"fmt"
	gio "io"
	"strconv"
	"strings"

	"tabio/pkg/model"
)

// LoadARFF reads a Weka ARFF file with dense or sparse data rows. The last
// attribute is the class unless opts.NoClass is set; attributes named in
// opts.MultiLabels become multiclass columns instead.
func LoadARFF(r gio.Reader, opts Options) (*model.Table, []DataError, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, nil, err
	}

	var (
		name    string
		columns []ColumnDecl
		rows    [][]string
		lines   []int
		errs    []DataError
		inData  bool
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineLength)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.ReplaceAll(strings.TrimRight(scanner.Text(), "\r\n"), "\t", " ")
		if strings.TrimSpace(strings.SplitN(text, "%", 2)[0]) == "" {
			continue
		}
		text = strings.TrimSpace(text)

		if inData {
			var row []string
			if strings.HasPrefix(text, "{") {
				if row, err = parseSparseRow(text, len(columns), line); err != nil {
					return nil, errs, err
				}
			} else {
				row = parseDenseRow(text)
				if len(row) != len(columns) {
					errs = warn(errs, newDataError(line, model.ErrRowWidthMismatch,
						"row %d has %d cells, expected %d", line, len(row), len(columns)))
				}
				row = fitRow(row, len(columns))
			}
			rows = append(rows, row)
			lines = append(lines, line)
			continue
		}

		if text[0] != '@' {
			errs = warn(errs, newDataError(line, model.ErrVariableDefinition, "ignoring %q", text))
			continue
		}
		keyword, rest := splitKeyword(text)
		switch keyword {
		case "@relation":
			name = unquote(strings.TrimSpace(rest))
		case "@attribute":
			decl, err := parseAttribute(rest)
			if err != nil {
				return nil, errs, positioned(err, line, 1)
			}
			decl.Line = line
			columns = append(columns, decl)
		case "@data":
			inData = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errs, fmt.Errorf("error reading arff: %w", err)
	}

	assignARFFRoles(columns, opts)
	vars, statuses, err := ResolveColumns(columns, rows, opts)
	if err != nil {
		return nil, errs, err
	}
	table, err := Assemble(columns, vars, statuses, rows, lines)
	if err != nil {
		return nil, errs, err
	}
	table.Name = name
	return table, errs, nil
}

func assignARFFRoles(columns []ColumnDecl, opts Options) {
	if len(opts.MultiLabels) > 0 {
		labels := model.NewNameMap(opts.MultiLabels...)
		for i := range columns {
			if _, ok := labels.ContainsName(columns[i].Name); ok {
				columns[i].Annotation.Role = model.RoleMultiClass
			}
		}
		return
	}
	if !opts.NoClass && len(columns) > 0 {
		columns[len(columns)-1].Annotation.Role = model.RoleClass
	}
}

func splitKeyword(text string) (string, string) {
	i := strings.IndexByte(text, ' ')
	if i < 0 {
		return strings.ToLower(text), ""
	}
	return strings.ToLower(text[:i]), text[i+1:]
}

// parseAttribute parses the part of an @attribute line after the keyword.
func parseAttribute(rest string) (ColumnDecl, error) {
	rest = strings.TrimSpace(rest)
	var name string
	if rest != "" && (rest[0] == '\'' || rest[0] == '"') {
		end := strings.IndexByte(rest[1:], rest[0])
		if end < 0 {
			return ColumnDecl{}, &model.ParseError{Err: model.ErrVariableDefinition, Msg: "unterminated attribute name " + rest}
		}
		name, rest = rest[1:end+1], rest[end+2:]
	} else {
		fields := strings.SplitN(rest, " ", 2)
		name = fields[0]
		rest = ""
		if len(fields) > 1 {
			rest = fields[1]
		}
	}
	rest = strings.TrimSpace(rest)
	if name == "" || rest == "" {
		return ColumnDecl{}, &model.ParseError{Err: model.ErrVariableDefinition, Msg: "incomplete attribute definition"}
	}

	decl := ColumnDecl{Name: name}
	if open := strings.IndexByte(rest, '{'); open >= 0 {
		end := strings.LastIndexByte(rest, '}')
		if end < open {
			return ColumnDecl{}, &model.ParseError{Err: model.ErrVariableDefinition, Msg: "unterminated value list for " + name}
		}
		values := []string{}
		for _, v := range splitQuoted(rest[open+1:end], ',') {
			if v = strings.Trim(v, " '\""); v != "" {
				values = append(values, v)
			}
		}
		decl.Type = TypeDef{Kind: model.Discrete, Values: values}
		return decl, nil
	}

	switch strings.ToLower(strings.Fields(rest)[0]) {
	case "numeric", "integer", "real":
		decl.Type.Kind = model.Continuous
	default:
		decl.Type.Kind = model.String
	}
	return decl, nil
}

// splitQuoted splits s on sep outside single or double quotes.
func splitQuoted(s string, sep byte) []string {
	var parts []string
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func parseDenseRow(text string) []string {
	cells := splitQuoted(text, ',')
	for i, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" {
			c = model.MissingMarker
		}
		cells[i] = unquote(c)
	}
	return cells
}

// parseSparseRow reads a "{index value, ...}" row over an all-missing row.
func parseSparseRow(text string, width, line int) ([]string, error) {
	row := fitRow(nil, width)
	inner := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, "{"), "}"))
	if inner == "" {
		return row, nil
	}
	for i, item := range splitQuoted(inner, ',') {
		fields := strings.SplitN(strings.TrimSpace(item), " ", 2)
		if len(fields) != 2 {
			return nil, model.NewParseError(line, i+1, model.ErrInvalidValue, "sparse item %q is not \"index value\"", item)
		}
		index, err := strconv.Atoi(fields[0])
		if err != nil || index < 0 || index >= width {
			return nil, model.NewParseError(line, i+1, model.ErrInvalidValue, "sparse index %q out of range", fields[0])
		}
		row[index] = unquote(strings.TrimSpace(fields[1]))
	}
	return row, nil
}

// fitRow pads row with missing values or truncates it to width.
func fitRow(row []string, width int) []string {
	out := make([]string, width)
	for i := range out {
		out[i] = model.MissingMarker
		if i < len(row) {
			out[i] = row[i]
		}
	}
	return out
}

// SaveARFF writes the attributes and the class of t in Weka ARFF format. The
// relation is named after the class variable.
func SaveARFF(w gio.Writer, t *model.Table, opts Options) error {
	bw := bufio.NewWriter(w)
	relation := t.Name
	if t.Domain.ClassVar != nil {
		relation = t.Domain.ClassVar.Name
	}
	if relation == "" {
		relation = "data"
	}
	fmt.Fprintf(bw, "@relation %s\n", arffQuote(relation))

	vars := t.Domain.Variables()
	for i, v := range vars {
		switch {
		case v.Kind == model.Continuous || (v.Kind == model.Discrete && opts.TryNumericize && allNumeric(v.Values)):
			fmt.Fprintf(bw, "@attribute %s real\n", arffQuote(v.Name))
		case v.Kind == model.Discrete:
			quoted := make([]string, len(v.Values))
			for j, value := range v.Values {
				quoted[j] = arffQuote(value)
			}
			fmt.Fprintf(bw, "@attribute %s { %s }\n", arffQuote(v.Name), strings.Join(quoted, ","))
		case v.Kind == model.String:
			fmt.Fprintf(bw, "@attribute %s string\n", arffQuote(v.Name))
		default:
			return model.NewParseError(0, i+1, model.ErrUnknownVariableType, "cannot save %s as arff", v.Name)
		}
	}

	fmt.Fprintln(bw, "@data")
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = arffQuote(v.String())
		}
		fmt.Fprintln(bw, strings.Join(cells, ","))
	}
	return bw.Flush()
}

func arffQuote(s string) string {
	if strings.Contains(s, " ") {
		return "'" + s + "'"
	}
	return s
}

func allNumeric(values []string) bool {
	for _, v := range values {
		if !IsNumeric(v) {
			return false
		}
	}
	return true
}

type mulanLabel struct {
	Name   string       `xml:"name,attr"`
	Labels []mulanLabel `xml:"label"`
}

type mulanLabels struct {
	XMLName xml.Name     `xml:"labels"`
	Labels  []mulanLabel `xml:"label"`
}

// ReadMulanLabels reads the label names of a Mulan multi-label XML file,
// flattening hierarchical labels depth first.
func ReadMulanLabels(r gio.Reader) ([]string, error) {
	var doc mulanLabels
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("error decoding mulan labels: %w", err)
	}
	var names []string
	var walk func(labels []mulanLabel)
	walk = func(labels []mulanLabel) {
		for _, l := range labels {
			names = append(names, l.Name)
			walk(l.Labels)
		}
	}
	walk(doc.Labels)
	return names, nil
}
