package io

import (
	"bufio"
	"fmt"
	gio "io"
	"strings"

	"tabio/pkg/model"
)

// c45ClassName names the class column when the .names file lists class values
// instead of naming a class attribute.
const c45ClassName = "class"

// LoadC45 reads a C4.5 dataset from its .names and .data parts.
func LoadC45(names, data gio.Reader, opts Options) (*model.Table, []DataError, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, nil, err
	}

	columns, err := parseC45Names(names)
	if err != nil {
		return nil, nil, err
	}

	records, err := readRecords(data, Dialect{Delimiter: ',', Quote: '"', SkipInitialSpace: true})
	if err != nil {
		return nil, nil, fmt.Errorf("error reading c4.5 data: %w", err)
	}
	for i := range records {
		cells := records[i].Cells
		last := len(cells) - 1
		cells[last] = strings.TrimSuffix(strings.TrimSpace(cells[last]), ".")
		for j := range cells {
			cells[j] = strings.TrimSpace(cells[j])
		}
	}

	return buildTable(columns, records, opts, nil)
}

// parseC45Names reads the class line and the attribute definitions of a .names
// file. Every definition is expected on a line of its own.
func parseC45Names(r gio.Reader) ([]ColumnDecl, error) {
	var columns []ColumnDecl
	var classValues []string
	className := ""
	classSeen := false

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(strings.SplitN(scanner.Text(), "|", 2)[0])
		if text == "" {
			continue
		}
		text = strings.TrimSuffix(text, ".")

		if !classSeen {
			classSeen = true
			if strings.Contains(text, ",") {
				classValues = splitC45Values(text)
			} else {
				className = text
			}
			continue
		}

		colon := strings.IndexByte(text, ':')
		if colon < 0 {
			return nil, model.NewParseError(line, 1, model.ErrVariableDefinition, "%q is not an attribute definition", text)
		}
		decl := ColumnDecl{Name: strings.TrimSpace(text[:colon]), Line: line}
		spec := strings.TrimSpace(text[colon+1:])
		switch {
		case spec == "continuous":
			decl.Type.Kind = model.Continuous
		case strings.HasPrefix(spec, "discrete"):
			decl.Type.Kind = model.Discrete
		case spec == "ignore":
			decl.Type.Kind = model.String
			decl.Annotation.Role = model.RoleIgnore
		case spec == "label":
			decl.Type.Kind = model.String
			decl.Annotation.Role = model.RoleMeta
		case spec == "date" || spec == "time" || spec == "timestamp":
			decl.Type.Kind = model.String
		case strings.Contains(spec, "="):
			return nil, model.NewParseError(line, colon+2, model.ErrUnknownVariableType, "implicit attribute %q is not supported", decl.Name)
		default:
			decl.Type = TypeDef{Kind: model.Discrete, Values: splitC45Values(spec)}
		}
		if decl.Name == className {
			decl.Annotation.Role = model.RoleClass
		}
		columns = append(columns, decl)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading c4.5 names: %w", err)
	}

	if classValues != nil {
		columns = append(columns, ColumnDecl{
			Name:       c45ClassName,
			Type:       TypeDef{Kind: model.Discrete, Values: classValues},
			Annotation: Annotation{Role: model.RoleClass},
		})
	}
	return columns, nil
}

func splitC45Values(s string) []string {
	parts := strings.Split(s, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}

// SaveC45 writes the attributes and the class of t as a C4.5 .names and .data
// pair. The table must have a class variable.
func SaveC45(names, data gio.Writer, t *model.Table, opts Options) error {
	if t.Domain.ClassVar == nil {
		return fmt.Errorf("cannot save c4.5: %w", model.ErrMissingClass)
	}

	nw := bufio.NewWriter(names)
	fmt.Fprintf(nw, "%s.\n\n", t.Domain.ClassVar.Name)
	vars := t.Domain.Variables()
	for i, v := range vars {
		switch {
		case v.Kind == model.Continuous || (v.Kind == model.Discrete && opts.TryNumericize && allNumeric(v.Values)):
			fmt.Fprintf(nw, "%s: continuous.\n", v.Name)
		case v.Kind == model.Discrete:
			fmt.Fprintf(nw, "%s: %s.\n", v.Name, strings.Join(v.Values, ","))
		default:
			return model.NewParseError(0, i+1, model.ErrUnknownVariableType, "cannot save %s %s as c4.5", v.Kind, v.Name)
		}
	}
	if err := nw.Flush(); err != nil {
		return fmt.Errorf("error writing c4.5 names: %w", err)
	}

	dw := bufio.NewWriter(data)
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = v.String()
		}
		fmt.Fprintln(dw, strings.Join(cells, ","))
	}
	return dw.Flush()
}
