package io

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tabio/pkg/model"
)

func columnStrings(t *testing.T, table *model.Table, name string) []string {
	values, ok := table.Column(name)
	require.True(t, ok, "column %s not found", name)
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

func TestLoadRecords_InferredDiscrete(t *testing.T) {
	rows := [][]string{
		{"sunny", "hot", "high", "weak", "no"},
		{"rainy", "cool", "normal", "strong", "yes"},
	}
	table, dataErrors, err := LoadRecords(rows, Options{HasHeader: No})
	require.NoError(t, err)
	require.Empty(t, dataErrors)
	require.Equal(t, 2, table.Len())
	require.Len(t, table.Domain.Attributes, 5)
	for i, v := range table.Domain.Attributes {
		require.Equal(t, DefaultColumnName(i), v.Name)
		require.Equal(t, model.Discrete, v.Kind)
	}
	require.Equal(t, []string{"rainy", "sunny"}, table.Domain.Attributes[0].Values)
	require.Equal(t, 1, table.X[0][0].Index)
	require.Equal(t, 0, table.X[1][0].Index)
}

func TestLoadRecords_DeclaredContinuous(t *testing.T) {
	rows := [][]string{
		{"age", "income"},
		{"continuous", "continuous"},
		{"23", "50000"},
		{"45", "80000"},
	}
	table, _, err := LoadRecords(rows, Options{})
	require.NoError(t, err)
	require.Len(t, table.Domain.Attributes, 2)
	for _, v := range table.Domain.Attributes {
		require.Equal(t, model.Continuous, v.Kind)
	}
	require.Equal(t, 23.0, table.X[0][0].Float)
	require.Equal(t, 80000.0, table.X[1][1].Float)
	require.Equal(t, []model.MakeStatus{model.StatusNotFound, model.StatusNotFound}, table.LoadStatus)
}

func TestLoadRecords_SimplifiedHeader(t *testing.T) {
	rows := [][]string{
		{"cD#outlook", "i#id", "C#temp"},
		{"sunny", "1", "30.5"},
		{"rainy", "2", "12"},
	}
	table, _, err := LoadRecords(rows, Options{SimplifiedHeader: true})
	require.NoError(t, err)

	require.NotNil(t, table.Domain.ClassVar)
	require.Equal(t, "outlook", table.Domain.ClassVar.Name)
	require.Equal(t, model.Discrete, table.Domain.ClassVar.Kind)
	require.Equal(t, []string{"rainy", "sunny"}, table.Domain.ClassVar.Values)

	require.Len(t, table.Domain.Attributes, 1)
	require.Equal(t, "temp", table.Domain.Attributes[0].Name)
	require.Equal(t, model.Continuous, table.Domain.Attributes[0].Kind)
	require.Equal(t, 12.0, table.X[1][0].Float)

	_, ok := table.Domain.Lookup("id")
	require.False(t, ok)
}

func TestLoadCSV_MultipleClassColumns(t *testing.T) {
	data := "a\tb\tc\nd\td\td\nclass\tclass\t\nx\ty\tz\n"
	table, _, err := LoadCSV(strings.NewReader(data), Options{})
	require.Nil(t, table)
	require.ErrorIs(t, err, model.ErrMultipleClassColumns)

	var pe *model.ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, 3, pe.Row)
	require.Equal(t, 2, pe.Column)
}

func TestLoadCSV_ClassRoleConflict(t *testing.T) {
	data := "a\tb\tc\nd\td\td\nmulticlass\tclass\t\nx\ty\tz\n"
	_, _, err := LoadCSV(strings.NewReader(data), Options{})
	require.ErrorIs(t, err, model.ErrClassRoleConflict)
}

func TestLoadRecords_DeclaredTypesAreKept(t *testing.T) {
	rows := [][]string{
		{"code", "score"},
		{"string", "continuous"},
		{"1", "1"},
		{"2", "2"},
		{"3", "2"},
	}
	table, _, err := LoadRecords(rows, Options{})
	require.NoError(t, err)
	require.Equal(t, model.String, table.Domain.Attributes[0].Kind)
	require.Equal(t, model.Continuous, table.Domain.Attributes[1].Kind)
	require.Equal(t, []string{"1", "2", "3"}, columnStrings(t, table, "code"))
}

func TestLoadRecords_RowWidth(t *testing.T) {
	rows := [][]string{
		{"a", "b", "c"},
		{"1", "2"},
		{"3", "4", "5", "6"},
		{"7", "8", "9"},
	}
	table, dataErrors, err := LoadRecords(rows, Options{HasHeader: Yes})
	require.NoError(t, err)
	require.Len(t, dataErrors, 2)
	require.Equal(t, 2, dataErrors[0].Line)
	require.Equal(t, 3, dataErrors[1].Line)
	for _, e := range dataErrors {
		require.ErrorIs(t, e.Kind, model.ErrRowWidthMismatch)
	}

	require.Equal(t, 3, table.Len())
	for i := 0; i < table.Len(); i++ {
		require.Len(t, table.X[i], 3)
	}
	require.True(t, table.X[0][2].Missing)
	require.Equal(t, []string{"2", "4", "8"}, columnStrings(t, table, "b"))
}

func TestLoadRecords_MissingValues(t *testing.T) {
	rows := [][]string{
		{"x", "y"},
		{"c", "d"},
		{"1.5", "a"},
		{"NA", "?"},
		{"", "b"},
		{"~", "*"},
	}
	table, _, err := LoadRecords(rows, Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"1.5", "?", "?", "?"}, columnStrings(t, table, "x"))
	require.Equal(t, []string{"a", "?", "b", "?"}, columnStrings(t, table, "y"))
	require.Equal(t, []string{"a", "b"}, table.Domain.Attributes[1].Values)

	custom := [][]string{{"y"}, {"d"}, {"a"}, {"NA"}, {"*"}}
	table, _, err = LoadRecords(custom, Options{MissingValues: []string{"NA"}})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "?", "*"}, columnStrings(t, table, "y"))
}

func TestLoadCSV_SniffFailure(t *testing.T) {
	table, dataErrors, err := LoadCSV(strings.NewReader("a\nb\nc\n"), Options{HasHeader: No})
	require.NoError(t, err)
	require.Len(t, dataErrors, 1)
	require.ErrorIs(t, dataErrors[0].Kind, model.ErrFormatSniff)
	require.Equal(t, 3, table.Len())
	require.Len(t, table.Domain.Attributes, 1)
}

func TestLoadCSV_Semicolons(t *testing.T) {
	data := "name;weight\nalpha;1.5\nbeta;2.25\n\ngamma;3\n"
	table, dataErrors, err := LoadCSV(strings.NewReader(data), Options{})
	require.NoError(t, err)
	require.Empty(t, dataErrors)
	require.Equal(t, 3, table.Len())
	require.Equal(t, model.Continuous, table.Domain.Attributes[1].Kind)
	require.Equal(t, []string{"alpha", "beta", "gamma"}, columnStrings(t, table, "name"))
}

func TestSaveTab_RoundTrip(t *testing.T) {
	table := sampleTable(t)

	var buf bytes.Buffer
	require.NoError(t, SaveTab(&buf, table, Options{}))
	require.Equal(t, "size\tid\tcolor\tname\n"+
		"continuous\tstring\tred green\tstring\n"+
		"unit=cm\t\tclass\tm\n"+
		"1.5\ta1\tred\tann\n"+
		"?\tb2\tgreen\tbob\n", buf.String())

	reloaded, dataErrors, err := LoadCSV(&buf, Options{})
	require.NoError(t, err)
	require.Empty(t, dataErrors)
	requireSameTable(t, table, reloaded)

	size, _ := reloaded.Domain.Lookup("size")
	require.Equal(t, model.Labels{"unit": "cm"}, size.Var.Labels)
}

func TestSaveTab_Plain(t *testing.T) {
	table, _, err := LoadRecords([][]string{{"a", "b"}, {"c", "d"}, {"1", "x"}}, Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, SaveTab(&buf, table, Options{Plain: true, Delimiter: ','}))
	require.Equal(t, "a,b\n1,x\n", buf.String())
}

func TestLoadRecords_RegistryReuse(t *testing.T) {
	registry, err := model.NewRegistry(0)
	require.NoError(t, err)
	opts := DefaultOptions()
	opts.Registry = registry
	rows := [][]string{
		{"x", "color"},
		{"c", "red green"},
		{"1", "red"},
	}

	first, _, err := LoadRecords(rows, opts)
	require.NoError(t, err)
	require.Equal(t, []model.MakeStatus{model.StatusNotFound, model.StatusNotFound}, first.LoadStatus)

	second, _, err := LoadRecords(rows, opts)
	require.NoError(t, err)
	require.Equal(t, []model.MakeStatus{model.StatusOK, model.StatusOK}, second.LoadStatus)
	require.Equal(t, first.Domain.Attributes[1].Values, second.Domain.Attributes[1].Values)
}

func TestLoadRecords_InvalidContinuous(t *testing.T) {
	rows := [][]string{
		{"x"},
		{"c"},
		{"1"},
		{"abc"},
	}
	_, _, err := LoadRecords(rows, Options{})
	require.ErrorIs(t, err, model.ErrInvalidValue)

	var pe *model.ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, 4, pe.Row)
	require.Equal(t, 1, pe.Column)
}

func TestLoadRecords_OutOfRangeNumbers(t *testing.T) {
	rows := [][]string{{"x"}, {"1e400"}, {"2"}, {"-1e400"}}
	table, dataErrors, err := LoadRecords(rows, Options{HasHeader: Yes})
	require.NoError(t, err)
	require.Empty(t, dataErrors)
	require.Equal(t, model.Continuous, table.Domain.Attributes[0].Kind)
	require.True(t, math.IsInf(table.X[0][0].Float, 1))
	require.Equal(t, 2.0, table.X[1][0].Float)
	require.True(t, math.IsInf(table.X[2][0].Float, -1))
}

func TestSaveTab_RoundTripLeadingQuotes(t *testing.T) {
	rows := [][]string{{"era", "n"}, {"s", "c"}, {"'90s", "1"}, {"'80s", "2"}, {"'70s x", "3"}}
	table, _, err := LoadRecords(rows, Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, SaveTab(&buf, table, Options{}))
	saved := buf.String()

	for name, load := range map[string]LoadFunc{"tab": LoadTab, "sniffed": LoadCSV} {
		t.Run(name, func(t *testing.T) {
			reloaded, dataErrors, err := load(strings.NewReader(saved), Options{})
			require.NoError(t, err)
			require.Empty(t, dataErrors)
			requireSameTable(t, table, reloaded)
			require.Equal(t, []string{"'90s", "'80s", "'70s x"}, columnStrings(t, reloaded, "era"))
		})
	}
}

func TestSaveTab_RoundTripBackslashes(t *testing.T) {
	rows := [][]string{
		{"drive", "n"},
		{"d", "c"},
		{`dir=C:\\\\`, ""},
		{`C:\`, "1"},
		{"D:", "2"},
	}
	table, _, err := LoadRecords(rows, Options{})
	require.NoError(t, err)
	drive, ok := table.Domain.Lookup("drive")
	require.True(t, ok)
	require.Equal(t, []string{`C:\`, "D:"}, drive.Var.Values)
	require.Equal(t, model.Labels{"dir": `C:\`}, drive.Var.Labels)

	var buf bytes.Buffer
	require.NoError(t, SaveTab(&buf, table, Options{}))
	require.Equal(t, "drive\tn\n"+
		`C:\\ D:`+"\tcontinuous\n"+
		`dir=C:\\\\`+"\t\n"+
		`C:\`+"\t1\n"+
		"D:\t2\n", buf.String())

	reloaded, dataErrors, err := LoadTab(&buf, Options{})
	require.NoError(t, err)
	require.Empty(t, dataErrors)
	requireSameTable(t, table, reloaded)
	drive, _ = reloaded.Domain.Lookup("drive")
	require.Equal(t, model.Labels{"dir": `C:\`}, drive.Var.Labels)
}

func TestLoadRecords_InvalidMeta(t *testing.T) {
	rows := [][]string{
		{"x", "weight"},
		{"c", "c"},
		{"", "m"},
		{"1", "2"},
		{"2", "heavy"},
	}
	_, _, err := LoadRecords(rows, Options{})
	require.ErrorIs(t, err, model.ErrInvalidValue)

	var pe *model.ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, 5, pe.Row)
	require.Equal(t, 2, pe.Column)
}
