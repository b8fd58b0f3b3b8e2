package io

import (
	"bufio"
	"fmt"
	gio "io"
	"strings"

	"tabio/pkg/model"
)

// SaveR writes the attributes and the class of t as R source building a
// data.frame named data. Discrete values are prefixed with x to make them valid
// factor levels.
func SaveR(w gio.Writer, t *model.Table, opts Options) error {
	vars := t.Domain.Variables()
	columns := make([]string, len(vars))
	for i, v := range vars {
		values, ok := t.Column(v.Name)
		if !ok {
			return fmt.Errorf("%w: column %s", model.ErrNotFound, v.Name)
		}
		cells := make([]string, len(values))
		switch v.Kind {
		case model.Continuous:
			for j, value := range values {
				cells[j] = rValue(value, false)
			}
			columns[i] = fmt.Sprintf("%q = c(%s)", v.Name, strings.Join(cells, ","))
		case model.Discrete:
			levels := make([]string, len(v.Values))
			for j, level := range v.Values {
				levels[j] = fmt.Sprintf("\"x%s\"", level)
			}
			for j, value := range values {
				cells[j] = rValue(value, true)
			}
			factor := "factor"
			if v.Ordered {
				factor = "ordered"
			}
			columns[i] = fmt.Sprintf("%q = %s(levels=c(%s),c(%s))", v.Name, factor,
				strings.Join(levels, ","), strings.Join(cells, ","))
		default:
			return model.NewParseError(0, i+1, model.ErrUnknownVariableType, "cannot save %s %s as R", v.Kind, v.Name)
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "data <- data.frame(\n%s)\n", strings.Join(columns, ",\n"))
	return bw.Flush()
}

func rValue(v model.Value, factor bool) string {
	switch {
	case v.Missing:
		return "NA"
	case factor:
		return fmt.Sprintf("\"x%s\"", v.Raw)
	default:
		return v.Raw
	}
}
