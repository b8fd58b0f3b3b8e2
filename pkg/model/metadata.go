package model

// NameMap implements a bidirectional mapping between a value name and its position
// in an ordered value list.
type NameMap struct {
	NameToIndex map[string]int
	IndexToName []string
}

func NewNameMap(names ...string) NameMap {
	m := NameMap{NameToIndex: make(map[string]int, len(names))}
	for _, name := range names {
		m.Add(name)
	}
	return m
}

// Add appends name unless it is already present and returns its index.
func (f *NameMap) Add(name string) int {
	if index, ok := f.NameToIndex[name]; ok {
		return index
	}
	index := len(f.IndexToName)
	f.NameToIndex[name] = index
	f.IndexToName = append(f.IndexToName, name)
	return index
}

func (f NameMap) Size() int {
	return len(f.IndexToName)
}

func (f NameMap) ContainsName(name string) (int, bool) {
	index, ok := f.NameToIndex[name]
	return index, ok
}

// ColumnMap maps the indices inside one of the table streams to source column
// indices.
type ColumnMap struct {
	IndexToColumn []int
}

func NewColumnMap() ColumnMap {
	return ColumnMap{}
}

// Append maps column to the next free stream index.
func (f *ColumnMap) Append(column int) int {
	f.IndexToColumn = append(f.IndexToColumn, column)
	return len(f.IndexToColumn) - 1
}

func (f ColumnMap) Size() int {
	return len(f.IndexToColumn)
}

// Project picks the mapped columns out of row in stream order.
func (f ColumnMap) Project(row []string) []string {
	out := make([]string, len(f.IndexToColumn))
	for i, column := range f.IndexToColumn {
		out[i] = row[column]
	}
	return out
}
