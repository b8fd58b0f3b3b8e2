package pkg

import (
	"encoding/json"
	"fmt"
	gio "io"
	"sort"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"tabio/pkg/model"
)

// ColumnSummary holds the statistics of one column. Only the fields that apply
// to the column's kind are set.
type ColumnSummary struct {
	Name    string `json:"name" yaml:"name"`
	Kind    string `json:"kind" yaml:"kind"`
	Role    string `json:"role" yaml:"role"`
	Missing int    `json:"missing" yaml:"missing"`

	Mean   *float64 `json:"mean,omitempty" yaml:"mean,omitempty"`
	StdDev *float64 `json:"stddev,omitempty" yaml:"stddev,omitempty"`
	Min    *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Median *float64 `json:"median,omitempty" yaml:"median,omitempty"`
	Max    *float64 `json:"max,omitempty" yaml:"max,omitempty"`

	Counts   map[string]int `json:"counts,omitempty" yaml:"counts,omitempty"`
	Distinct int            `json:"distinct,omitempty" yaml:"distinct,omitempty"`

	Labels model.Labels `json:"labels,omitempty" yaml:"labels,omitempty"`
}

type Summary struct {
	Name    string          `json:"name" yaml:"name"`
	Rows    int             `json:"rows" yaml:"rows"`
	Columns []ColumnSummary `json:"columns" yaml:"columns"`
}

// Describe computes per column statistics of t.
func Describe(t *model.Table) Summary {
	summary := Summary{Name: t.Name, Rows: t.Len()}
	for _, c := range t.Domain.Columns() {
		values, _ := t.Column(c.Var.Name)
		summary.Columns = append(summary.Columns, describeColumn(c, values))
	}
	return summary
}

func describeColumn(c model.Column, values []model.Value) ColumnSummary {
	cs := ColumnSummary{Name: c.Var.Name, Kind: c.Var.Kind.String(), Role: c.Role.String(), Labels: c.Var.Labels}

	var present []model.Value
	for _, v := range values {
		if v.Missing {
			cs.Missing++
		} else {
			present = append(present, v)
		}
	}

	switch c.Var.Kind {
	case model.Continuous:
		if len(present) == 0 {
			break
		}
		x := make([]float64, len(present))
		for i, v := range present {
			x[i] = v.Float
		}
		mean, std := stat.MeanStdDev(x, nil)
		sort.Float64s(x)
		median := stat.Quantile(0.5, stat.Empirical, x, nil)
		lo, hi := floats.Min(x), floats.Max(x)
		cs.Mean, cs.StdDev, cs.Median, cs.Min, cs.Max = &mean, &std, &median, &lo, &hi
	case model.Discrete:
		cs.Counts = map[string]int{}
		for _, value := range c.Var.Values {
			cs.Counts[value] = 0
		}
		for _, v := range present {
			cs.Counts[v.Raw]++
		}
	default:
		distinct := map[string]struct{}{}
		for _, v := range present {
			distinct[v.Raw] = struct{}{}
		}
		cs.Distinct = len(distinct)
	}
	return cs
}

// WriteSummary encodes s as json or yaml.
func WriteSummary(w gio.Writer, s Summary, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(s)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(s); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("invalid output format %q", format)
	}
}

// Describe loads input and writes its summary to w.
func (s *Session) Describe(input string, w gio.Writer, format string) error {
	t, err := s.Load(input)
	if err != nil {
		return err
	}
	return WriteSummary(w, Describe(t), format)
}

// Info loads input and logs its domain.
func (s *Session) Info(input string) (*model.Table, error) {
	t, err := s.Load(input)
	if err != nil {
		return nil, err
	}
	log.Info().Str("name", t.Name).Int("rows", t.Len()).Int("columns", len(t.Domain.Columns())).Msg("Table")
	for i, c := range t.Domain.Columns() {
		event := log.Info().Str("name", c.Var.Name).Str("kind", c.Var.Kind.String()).Str("role", c.Role.String())
		switch {
		case c.Role == model.RoleMeta:
			event = event.Str("status", t.MetaLoadStatus[c.MetaID].String())
		case c.Role != model.RoleMultiClass && i < len(t.LoadStatus):
			event = event.Str("status", t.LoadStatus[i].String())
		}
		if c.Var.Kind == model.Discrete {
			event = event.Strs("values", c.Var.Values)
		}
		event.Msg("Column")
	}
	return t, nil
}
