package pkg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"tabio/pkg/io"
	"tabio/pkg/model"
)

func TestOptions(t *testing.T) {
	v := viper.New()
	v.Set("delimiter", "tab")
	v.Set("quote", "'")
	v.Set("has-header", "no")
	v.Set("skip-initial-space", "yes")
	v.Set("missing-values", []string{"NA"})
	v.Set("thresholds.continuous", 0.8)
	v.Set("thresholds.max-discrete-values", 5)
	v.Set("create-new-on", "missing-values")
	v.Set("multi-labels", []string{"a", "b"})
	v.Set("plain", true)

	opts, err := Options(v)
	require.NoError(t, err)
	require.Equal(t, '\t', opts.Delimiter)
	require.Equal(t, '\'', opts.Quote)
	require.Equal(t, rune(0), opts.Escape)
	require.Equal(t, io.No, opts.HasHeader)
	require.Equal(t, io.Auto, opts.HasTypes)
	require.Equal(t, io.Yes, opts.SkipInitialSpace)
	require.Equal(t, []string{"NA"}, opts.MissingValues)
	require.Equal(t, 0.8, opts.Thresholds.Continuous)
	require.Equal(t, io.DefaultDiscreteCutoff, opts.Thresholds.Discrete)
	require.Equal(t, 5, opts.Thresholds.MaxDiscreteValues)
	require.Equal(t, model.StatusMissingValues, opts.CreateNewOn)
	require.Equal(t, []string{"a", "b"}, opts.MultiLabels)
	require.True(t, opts.Plain)
}

func TestOptions_Defaults(t *testing.T) {
	opts, err := Options(viper.New())
	require.NoError(t, err)
	require.Equal(t, io.DefaultMissingValues, opts.MissingValues)
	require.Equal(t, io.DefaultThresholds(), opts.Thresholds)
	require.Equal(t, model.StatusIncompatible, opts.CreateNewOn)
	require.Equal(t, io.DefaultSampleSize, opts.SampleSize)
}

func TestOptions_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value interface{}
	}{
		{key: "delimiter", value: ";;"},
		{key: "create-new-on", value: "sometimes"},
	}
	for _, tt := range tests {
		v := viper.New()
		v.Set(tt.key, tt.value)
		_, err := Options(v)
		require.Error(t, err, tt.key)
	}

	v := viper.New()
	v.Set("simplified-header", true)
	v.Set("has-types", "yes")
	_, err := Options(v)
	require.ErrorIs(t, err, model.ErrConflictingHeaderMode)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "tabio.yaml")
	content := "delimiter: \";\"\npaths:\n  data:\n    - /srv/data\n    - /srv/more\n  models:\n    - /tmp\n"
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))
	t.Setenv("TABIO_HAS_HEADER", "yes")

	v := viper.New()
	require.NoError(t, LoadConfig(v, configFile))

	opts, err := Options(v)
	require.NoError(t, err)
	require.Equal(t, ';', opts.Delimiter)
	require.Equal(t, io.Yes, opts.HasHeader)

	paths := SearchPaths(v)
	require.Equal(t, []string{"/srv/data", "/srv/more"}, paths.Paths("data"))
	require.Equal(t, []string{"/tmp"}, paths.Paths("models"))

	require.Error(t, LoadConfig(viper.New(), filepath.Join(dir, "absent.yaml")))
}
