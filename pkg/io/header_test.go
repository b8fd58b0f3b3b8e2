package io

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tabio/pkg/model"
)

func records(rows ...[]string) []Record {
	recs := make([]Record, len(rows))
	for i, row := range rows {
		recs[i] = Record{Cells: row, Line: i + 1}
	}
	return recs
}

func TestParseSimplifiedHeader(t *testing.T) {
	columns := ParseSimplifiedHeader([]string{"cD#outlook", "i#id", "C#temp", "plain", "mS#note", "x#y"}, 1)

	names := []string{"outlook", "id", "temp", "plain", "note", "x#y"}
	roles := []model.Role{model.RoleClass, model.RoleIgnore, model.RoleNone, model.RoleNone, model.RoleMeta, model.RoleNone}
	kinds := []model.Kind{model.Discrete, model.Unknown, model.Continuous, model.Unknown, model.String, model.Unknown}
	for i, c := range columns {
		require.Equal(t, names[i], c.Name)
		require.Equal(t, roles[i], c.Annotation.Role, "column %s", c.Name)
		require.Equal(t, kinds[i], c.Type.Kind, "column %s", c.Name)
	}
}

func TestDecodeHeader(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		opts    Options
		rows    int
		names   []string
		kinds   []model.Kind
		roles   []model.Role
	}{
		{
			name:    "no header",
			records: records([]string{"1", "a"}, []string{"2", "b"}),
			rows:    0,
			names:   []string{"F_0", "F_1"},
			kinds:   []model.Kind{model.Unknown, model.Unknown},
			roles:   []model.Role{model.RoleNone, model.RoleNone},
		},
		{
			name:    "names only",
			records: records([]string{"x", "label"}, []string{"1.5", "a"}, []string{"2.5", "b"}),
			opts:    Options{HasHeader: Yes},
			rows:    1,
			names:   []string{"x", "label"},
			kinds:   []model.Kind{model.Unknown, model.Unknown},
			roles:   []model.Role{model.RoleNone, model.RoleNone},
		},
		{
			name:    "names and types",
			records: records([]string{"x", "label"}, []string{"c", "a b"}, []string{"1.5", "a"}),
			rows:    2,
			names:   []string{"x", "label"},
			kinds:   []model.Kind{model.Continuous, model.Discrete},
			roles:   []model.Role{model.RoleNone, model.RoleNone},
		},
		{
			name: "names types and short annotations",
			records: records([]string{"x", "label", "id"}, []string{"c", "d", "s"},
				[]string{"", "class"}, []string{"1.5", "a", "n1"}),
			rows:  3,
			names: []string{"x", "label", "id"},
			kinds: []model.Kind{model.Continuous, model.Discrete, model.String},
			roles: []model.Role{model.RoleNone, model.RoleClass, model.RoleNone},
		},
		{
			name:    "short types row is padded",
			records: records([]string{"x", "y", "z"}, []string{"c", "s"}, []string{"1", "a", "b"}),
			rows:    2,
			names:   []string{"x", "y", "z"},
			kinds:   []model.Kind{model.Continuous, model.String, model.Unknown},
			roles:   []model.Role{model.RoleNone, model.RoleNone, model.RoleNone},
		},
		{
			name:    "types forced off",
			records: records([]string{"x", "y"}, []string{"c", "d"}, []string{"1", "2"}),
			opts:    Options{HasHeader: Yes, HasTypes: No},
			rows:    1,
			names:   []string{"x", "y"},
			kinds:   []model.Kind{model.Unknown, model.Unknown},
			roles:   []model.Role{model.RoleNone, model.RoleNone},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, err := DecodeHeader(tt.records, tt.opts)
			require.NoError(t, err)
			require.Equal(t, tt.rows, header.Rows)
			require.Equal(t, tt.names, header.Names())
			for i, c := range header.Columns {
				require.Equal(t, tt.kinds[i], c.Type.Kind, "column %s", c.Name)
				require.Equal(t, tt.roles[i], c.Annotation.Role, "column %s", c.Name)
			}
		})
	}
}

func TestDecodeHeader_ConflictingModes(t *testing.T) {
	_, err := DecodeHeader(records([]string{"cD#a"}), Options{SimplifiedHeader: true, HasTypes: Yes})
	require.ErrorIs(t, err, model.ErrConflictingHeaderMode)

	_, err = DecodeHeader(records([]string{"cD#a"}), Options{SimplifiedHeader: true, HasAnnotations: Yes})
	require.ErrorIs(t, err, model.ErrConflictingHeaderMode)
}

func TestDecodeHeader_InvalidTypesRow(t *testing.T) {
	_, err := DecodeHeader(records([]string{"a", "b"}, []string{"c", "real"}, []string{"1", "2"}),
		Options{HasHeader: Yes, HasTypes: Yes})
	require.ErrorIs(t, err, model.ErrVariableDefinition)
}

func TestSniffHeader(t *testing.T) {
	require.True(t, SniffHeader([][]string{{"name", "age"}, {"alice", "30"}, {"bob", "41"}}))
	require.False(t, SniffHeader([][]string{{"1", "2"}, {"3", "4"}, {"5", "6"}}))
	require.False(t, SniffHeader([][]string{{"only"}}))
}
