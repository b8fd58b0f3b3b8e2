package io

import (
	"bufio"
	"fmt"
	gio "io"
	"sort"
	"strconv"
	"strings"

	"tabio/pkg/model"
)

const (
	libsvmDiscreteClass   = "class"
	libsvmContinuousClass = "target"
)

// LoadLibSVM reads "label index:value ..." rows. Each feature index seen becomes
// a continuous attribute named by the index; features absent from a row are
// missing. The class is discrete unless some label contains a decimal point.
func LoadLibSVM(r gio.Reader, opts Options) (*model.Table, []DataError, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, nil, err
	}

	type example struct {
		label    string
		features map[int]string
		line     int
	}
	var examples []example
	seen := map[int]struct{}{}
	discrete := true

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineLength)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(strings.SplitN(scanner.Text(), "#", 2)[0])
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		ex := example{label: fields[0], features: make(map[int]string, len(fields)-1), line: line}
		if strings.Contains(ex.label, ".") {
			discrete = false
		}
		for i, f := range fields[1:] {
			parts := strings.SplitN(f, ":", 2)
			if len(parts) != 2 {
				return nil, nil, model.NewParseError(line, i+2, model.ErrInvalidValue, "%q is not index:value", f)
			}
			index, err := strconv.Atoi(parts[0])
			if err != nil {
				return nil, nil, model.NewParseError(line, i+2, model.ErrInvalidValue, "feature index %q is not an integer", parts[0])
			}
			ex.features[index] = parts[1]
			seen[index] = struct{}{}
		}
		examples = append(examples, ex)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("error reading libsvm: %w", err)
	}

	indices := make([]int, 0, len(seen))
	for index := range seen {
		indices = append(indices, index)
	}
	sort.Ints(indices)

	columns := make([]ColumnDecl, 0, len(indices)+1)
	for _, index := range indices {
		columns = append(columns, ColumnDecl{Name: strconv.Itoa(index), Type: TypeDef{Kind: model.Continuous}})
	}
	class := ColumnDecl{Name: libsvmContinuousClass, Type: TypeDef{Kind: model.Continuous}, Annotation: Annotation{Role: model.RoleClass}}
	if discrete {
		class.Name = libsvmDiscreteClass
		class.Type = TypeDef{Kind: model.Discrete}
	}
	columns = append(columns, class)

	rows := make([][]string, len(examples))
	lines := make([]int, len(examples))
	for i, ex := range examples {
		row := fitRow(nil, len(columns))
		for j, index := range indices {
			if v, ok := ex.features[index]; ok {
				row[j] = v
			}
		}
		row[len(indices)] = ex.label
		rows[i], lines[i] = row, ex.line
	}

	vars, statuses, err := ResolveColumns(columns, rows, opts)
	if err != nil {
		return nil, nil, err
	}
	table, err := Assemble(columns, vars, statuses, rows, lines)
	if err != nil {
		return nil, nil, err
	}
	return table, nil, nil
}

// SaveLibSVM writes the class followed by the 1-based index:value pairs of the
// continuous and discrete attributes. Missing values are left out, discrete
// attributes are written as value indices.
func SaveLibSVM(w gio.Writer, t *model.Table, opts Options) error {
	if t.Domain.ClassVar == nil {
		return fmt.Errorf("cannot save libsvm: %w", model.ErrMissingClass)
	}
	bw := bufio.NewWriter(w)
	for i := 0; i < t.Len(); i++ {
		var sb strings.Builder
		sb.WriteString(t.Y[i].String())
		for j, v := range t.X[i] {
			if v.Missing {
				continue
			}
			switch t.Domain.Attributes[j].Kind {
			case model.Continuous:
				fmt.Fprintf(&sb, " %d:%s", j+1, formatFloat(v.Float))
			case model.Discrete:
				if v.Index >= 0 {
					fmt.Fprintf(&sb, " %d:%d", j+1, v.Index)
				}
			}
		}
		sb.WriteByte('\n')
		if _, err := bw.WriteString(sb.String()); err != nil {
			return fmt.Errorf("error writing row %d: %w", i+1, err)
		}
	}
	return bw.Flush()
}
