package io

import (
	"github.com/google/uuid"

	"tabio/pkg/model"
)

// Assemble partitions resolved columns by role and builds the typed table. vars
// and statuses are aligned with columns, and lines gives the source line of each
// row for error reporting.
func Assemble(columns []ColumnDecl, vars []*model.Variable, statuses []model.MakeStatus, rows [][]string, lines []int) (*model.Table, error) {
	if err := checkRoles(columns); err != nil {
		return nil, err
	}

	attributes, class, multi, metaColumns := model.NewColumnMap(), model.NewColumnMap(), model.NewColumnMap(), model.NewColumnMap()
	var metaVars []*model.Variable
	var metaIDs []uuid.UUID

	domain := model.NewDomain(nil, nil)
	var attributeStatus, classStatus []model.MakeStatus
	metaStatus := map[uuid.UUID]model.MakeStatus{}

	for i, c := range columns {
		v := vars[i].WithLabels(c.Annotation.Labels)
		switch c.Annotation.Role {
		case model.RoleClass:
			class.Append(i)
			domain.ClassVar = v
			classStatus = append(classStatus, statuses[i])
		case model.RoleMultiClass:
			multi.Append(i)
			domain.ClassVars = append(domain.ClassVars, v)
		case model.RoleMeta:
			id := domain.AddMeta(v)
			metaColumns.Append(i)
			metaVars = append(metaVars, v)
			metaIDs = append(metaIDs, id)
			metaStatus[id] = statuses[i]
		case model.RoleIgnore:
		default:
			attributes.Append(i)
			domain.Attributes = append(domain.Attributes, v)
			attributeStatus = append(attributeStatus, statuses[i])
		}
	}

	table := model.NewTable(domain)
	table.LoadStatus = append(attributeStatus, classStatus...)
	table.MetaLoadStatus = metaStatus

	for r, row := range rows {
		line := 0
		if r < len(lines) {
			line = lines[r]
		}
		x, err := parseCells(domain.Attributes, attributes, row, line)
		if err != nil {
			return nil, err
		}
		var y model.Value
		if domain.ClassVar != nil {
			ys, err := parseCells([]*model.Variable{domain.ClassVar}, class, row, line)
			if err != nil {
				return nil, err
			}
			y = ys[0]
		}
		var yMulti []model.Value
		if len(domain.ClassVars) > 0 {
			if yMulti, err = parseCells(domain.ClassVars, multi, row, line); err != nil {
				return nil, err
			}
		}
		var metas map[uuid.UUID]model.Value
		if len(metaVars) > 0 {
			values, err := parseCells(metaVars, metaColumns, row, line)
			if err != nil {
				return nil, err
			}
			metas = make(map[uuid.UUID]model.Value, len(values))
			for m, value := range values {
				metas[metaIDs[m]] = value
			}
		}
		table.Append(x, y, yMulti, metas)
	}
	return table, nil
}

// checkRoles enforces at most one class column and no mix of class and
// multiclass columns.
func checkRoles(columns []ColumnDecl) error {
	classAt, multiAt := -1, -1
	for i, c := range columns {
		switch c.Annotation.Role {
		case model.RoleClass:
			if classAt >= 0 {
				return model.NewParseError(c.Line, i+1, model.ErrMultipleClassColumns,
					"%q and %q are both class columns", columns[classAt].Name, c.Name)
			}
			classAt = i
		case model.RoleMultiClass:
			if multiAt < 0 {
				multiAt = i
			}
		}
		if classAt >= 0 && multiAt >= 0 {
			return model.NewParseError(c.Line, i+1, model.ErrClassRoleConflict,
				"%q is a class column and %q a multiclass column", columns[classAt].Name, columns[multiAt].Name)
		}
	}
	return nil
}

func parseCells(vars []*model.Variable, columns model.ColumnMap, row []string, line int) ([]model.Value, error) {
	cells := columns.Project(row)
	values := make([]model.Value, len(vars))
	for i, v := range vars {
		value, err := v.Parse(cells[i])
		if err != nil {
			return nil, positioned(err, line, columns.IndexToColumn[i]+1)
		}
		values[i] = value
	}
	return values, nil
}
