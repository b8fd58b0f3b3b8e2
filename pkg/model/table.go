package model

import (
	"github.com/google/uuid"
)

// Table is a typed table made of row-aligned streams: attributes (X), the single
// class (Y), multi-class labels (YMulti) and metas keyed by meta identifier.
type Table struct {
	Name   string
	Domain *Domain

	X      [][]Value
	Y      []Value
	YMulti [][]Value
	Metas  []map[uuid.UUID]Value

	// LoadStatus is aligned with Domain.Variables().
	LoadStatus     []MakeStatus
	MetaLoadStatus map[uuid.UUID]MakeStatus
}

func NewTable(domain *Domain) *Table {
	return &Table{Domain: domain, MetaLoadStatus: map[uuid.UUID]MakeStatus{}}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.X)
}

// Append adds one row. y is ignored when the domain has no class variable.
func (t *Table) Append(x []Value, y Value, yMulti []Value, metas map[uuid.UUID]Value) {
	t.X = append(t.X, x)
	if t.Domain.ClassVar != nil {
		t.Y = append(t.Y, y)
	}
	if len(t.Domain.ClassVars) > 0 {
		t.YMulti = append(t.YMulti, yMulti)
	}
	if len(t.Domain.Metas) > 0 {
		t.Metas = append(t.Metas, metas)
	}
}

// Row returns the attribute values followed by the class value.
func (t *Table) Row(i int) []Value {
	row := make([]Value, 0, len(t.X[i])+1)
	row = append(row, t.X[i]...)
	if t.Domain.ClassVar != nil {
		row = append(row, t.Y[i])
	}
	return row
}

// Cells returns the values of row i in the order of Domain.Columns.
func (t *Table) Cells(i int) []Value {
	cols := t.Domain.Columns()
	cells := make([]Value, 0, len(cols))
	cells = append(cells, t.Row(i)...)
	if len(t.Domain.ClassVars) > 0 {
		cells = append(cells, t.YMulti[i]...)
	}
	for _, c := range cols[len(cells):] {
		cells = append(cells, t.metaValue(i, c))
	}
	return cells
}

func (t *Table) metaValue(i int, c Column) Value {
	if i < len(t.Metas) {
		if v, ok := t.Metas[i][c.MetaID]; ok {
			return v
		}
	}
	return c.Var.Missing()
}

// Column returns all values of the named variable.
func (t *Table) Column(name string) ([]Value, bool) {
	col, ok := t.Domain.Lookup(name)
	if !ok {
		return nil, false
	}
	values := make([]Value, t.Len())
	switch col.Role {
	case RoleClass:
		copy(values, t.Y)
	case RoleMeta:
		for i := range values {
			values[i] = t.metaValue(i, col)
		}
	case RoleMultiClass:
		pos := indexOf(t.Domain.ClassVars, col.Var)
		for i := range values {
			values[i] = t.YMulti[i][pos]
		}
	default:
		pos := indexOf(t.Domain.Attributes, col.Var)
		for i := range values {
			values[i] = t.X[i][pos]
		}
	}
	return values, true
}

// Subset returns a table sharing the domain and holding the given rows in order.
func (t *Table) Subset(indices []int) *Table {
	s := NewTable(t.Domain)
	s.Name = t.Name
	s.LoadStatus = t.LoadStatus
	s.MetaLoadStatus = t.MetaLoadStatus
	for _, i := range indices {
		var y Value
		if t.Domain.ClassVar != nil {
			y = t.Y[i]
		}
		var yMulti []Value
		if len(t.YMulti) > 0 {
			yMulti = t.YMulti[i]
		}
		var metas map[uuid.UUID]Value
		if len(t.Metas) > 0 {
			metas = t.Metas[i]
		}
		s.Append(t.X[i], y, yMulti, metas)
	}
	return s
}

func indexOf(vars []*Variable, v *Variable) int {
	for i, candidate := range vars {
		if candidate == v {
			return i
		}
	}
	return -1
}
