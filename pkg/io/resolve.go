package io

import (
	"sort"

	"github.com/rs/zerolog/log"

	"tabio/pkg/model"
)

// placeholder collects the values of a column whose variable cannot be made
// until every row has been read.
type placeholder struct {
	column int
	values map[string]struct{}
}

func (p *placeholder) add(value string) {
	p.values[value] = struct{}{}
}

// sorted returns the distinct non-missing values in lexicographic order.
func (p *placeholder) sorted(missing map[string]struct{}) []string {
	values := make([]string, 0, len(p.values))
	for v := range p.values {
		if _, ok := missing[v]; !ok {
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values
}

// ResolveColumns makes a variable for every column. Columns with a declared type
// are made as declared; the others are inferred from the values observed in rows.
// Rows must already be normalized to the header width with missing values
// canonicalized.
func ResolveColumns(columns []ColumnDecl, rows [][]string, opts Options) ([]*model.Variable, []model.MakeStatus, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, nil, err
	}

	vars := make([]*model.Variable, len(columns))
	statuses := make([]model.MakeStatus, len(columns))
	var pending []*placeholder
	for i, c := range columns {
		if c.Type.Kind == model.Unknown || (c.Type.Kind == model.Discrete && c.Type.Values == nil) {
			pending = append(pending, &placeholder{column: i, values: map[string]struct{}{}})
			continue
		}
		spec := model.VariableSpec{Name: c.Name, Kind: c.Type.Kind, Values: c.Type.Values}
		if vars[i], statuses[i], err = opts.Registry.Make(spec, opts.CreateNewOn); err != nil {
			return nil, nil, positioned(err, 0, i+1)
		}
	}

	for _, row := range rows {
		for _, p := range pending {
			p.add(row[p.column])
		}
	}

	missing := opts.missingSet()
	for _, p := range pending {
		c := columns[p.column]
		values := p.sorted(missing)
		spec := model.VariableSpec{Name: c.Name, Kind: model.Discrete, Unordered: values}
		if c.Type.Kind == model.Unknown {
			kind, ambiguous := opts.Thresholds.ResolveKind(values)
			if ambiguous {
				log.Debug().Str("column", c.Name).Int("values", len(values)).Msg("Ambiguous column type, using string")
			}
			spec.Kind = kind
			if kind != model.Discrete {
				spec.Unordered = nil
			}
		}
		if vars[p.column], statuses[p.column], err = opts.Registry.Make(spec, opts.CreateNewOn); err != nil {
			return nil, nil, positioned(err, 0, p.column+1)
		}
	}
	return vars, statuses, nil
}
