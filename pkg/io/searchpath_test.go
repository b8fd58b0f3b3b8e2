package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"tabio/pkg/model"
)

func TestSearchPaths(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(second, "iris.tab"), []byte("x\n1\n"), 0o644))

	paths := NewSearchPaths()
	paths.Add("data", first+string(filepath.ListSeparator)+second)
	paths.Add("", second)

	require.Equal(t, []string{first, second}, paths.Paths("data"))
	require.Equal(t, []SearchPath{
		{Prefix: "data", Dir: first},
		{Prefix: "data", Dir: second},
		{Prefix: "", Dir: second},
	}, paths.All())

	found, err := paths.Expand("data:iris.tab")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(second, "iris.tab"), found)

	found, err = paths.Find("iris.tab")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(second, "iris.tab"), found)

	direct := filepath.Join(second, "iris.tab")
	found, err = paths.Find(direct)
	require.NoError(t, err)
	require.Equal(t, direct, found)

	_, err = paths.Expand("data:absent.tab")
	require.ErrorIs(t, err, model.ErrNotFound)
	_, err = paths.Expand("other:iris.tab")
	require.ErrorIs(t, err, model.ErrNotFound)
}
