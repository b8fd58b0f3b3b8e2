package io

import (
	"encoding/csv"
	"fmt"
	gio "io"
	"strings"

	"tabio/pkg/model"
)

// SaveTab writes t as delimited text: a names row, then unless opts.Plain is set
// a types row and an annotations row, then the data. Columns are written in
// Domain.Columns order. The delimiter defaults to a tab.
func SaveTab(w gio.Writer, t *model.Table, opts Options) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if opts.Delimiter != 0 {
		cw.Comma = opts.Delimiter
	}

	columns := t.Domain.Columns()
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Var.Name
	}
	if err := cw.Write(names); err != nil {
		return fmt.Errorf("error writing names: %w", err)
	}

	if !opts.Plain {
		types := make([]string, len(columns))
		annotations := make([]string, len(columns))
		for i, c := range columns {
			typeCell, err := typeDefinition(c.Var)
			if err != nil {
				return model.NewParseError(2, i+1, err, "cannot save %s", c.Var.Name)
			}
			types[i] = typeCell
			annotations[i] = annotationDefinition(c)
		}
		if err := cw.Write(types); err != nil {
			return fmt.Errorf("error writing types: %w", err)
		}
		if err := cw.Write(annotations); err != nil {
			return fmt.Errorf("error writing annotations: %w", err)
		}
	}

	for i := 0; i < t.Len(); i++ {
		cells := t.Cells(i)
		record := make([]string, len(cells))
		for j, v := range cells {
			record[j] = v.String()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("error writing row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func typeDefinition(v *model.Variable) (string, error) {
	switch v.Kind {
	case model.Continuous:
		return "continuous", nil
	case model.String:
		return "string", nil
	case model.Opaque:
		return "python", nil
	case model.Discrete:
		if len(v.Values) < 2 {
			return "discrete", nil
		}
		escaped := make([]string, len(v.Values))
		for i, value := range v.Values {
			escaped[i] = escapeToken(value, ' ')
		}
		return strings.Join(escaped, " "), nil
	default:
		return "", fmt.Errorf("%w: %s", model.ErrUnknownVariableType, v.Kind)
	}
}

var roleSpecifierNames = map[model.Role]string{
	model.RoleClass:      "class",
	model.RoleMultiClass: "multiclass",
	model.RoleMeta:       "m",
}

func annotationDefinition(c model.Column) string {
	var items []string
	if spec, ok := roleSpecifierNames[c.Role]; ok {
		items = append(items, spec)
	}
	for _, k := range c.Var.Labels.Keys() {
		items = append(items, escapeToken(escapeToken(k, '=')+"="+escapeToken(c.Var.Labels[k], '='), ' '))
	}
	return strings.Join(items, " ")
}
