package model

import (
	"github.com/google/uuid"
)

// Meta is a side-channel variable keyed by an identifier instead of a position.
type Meta struct {
	ID  uuid.UUID
	Var *Variable
}

// Domain describes the variables of a table, partitioned by role.
type Domain struct {
	Attributes []*Variable
	ClassVar   *Variable
	ClassVars  []*Variable
	Metas      []Meta
}

func NewDomain(attributes []*Variable, classVar *Variable, classVars ...*Variable) *Domain {
	return &Domain{Attributes: attributes, ClassVar: classVar, ClassVars: classVars}
}

// AddMeta registers v as a meta variable under a freshly allocated identifier.
func (d *Domain) AddMeta(v *Variable) uuid.UUID {
	id := uuid.New()
	d.Metas = append(d.Metas, Meta{ID: id, Var: v})
	return id
}

// Variables returns the attributes followed by the class variable, if any.
func (d *Domain) Variables() []*Variable {
	vars := make([]*Variable, 0, len(d.Attributes)+1)
	vars = append(vars, d.Attributes...)
	if d.ClassVar != nil {
		vars = append(vars, d.ClassVar)
	}
	return vars
}

// Column is a variable together with its role and, for metas, its identifier.
type Column struct {
	Var    *Variable
	Role   Role
	MetaID uuid.UUID
}

// Columns lists every variable in export order: attributes, class, class
// variables, then metas in reverse registration order.
func (d *Domain) Columns() []Column {
	cols := make([]Column, 0, len(d.Attributes)+1+len(d.ClassVars)+len(d.Metas))
	for _, v := range d.Attributes {
		cols = append(cols, Column{Var: v, Role: RoleNone})
	}
	if d.ClassVar != nil {
		cols = append(cols, Column{Var: d.ClassVar, Role: RoleClass})
	}
	for _, v := range d.ClassVars {
		cols = append(cols, Column{Var: v, Role: RoleMultiClass})
	}
	for i := len(d.Metas) - 1; i >= 0; i-- {
		cols = append(cols, Column{Var: d.Metas[i].Var, Role: RoleMeta, MetaID: d.Metas[i].ID})
	}
	return cols
}

// Lookup finds a column by variable name.
func (d *Domain) Lookup(name string) (Column, bool) {
	for _, c := range d.Columns() {
		if c.Var.Name == name {
			return c, true
		}
	}
	return Column{}, false
}
