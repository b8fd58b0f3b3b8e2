package pkg

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"tabio/pkg/io"
	"tabio/pkg/model"
)

// EnvPrefix prefixes the environment variables overriding configuration keys.
const EnvPrefix = "TABIO"

// LoadConfig reads .env, the environment and, when configFile is set, a config
// file into v.
func LoadConfig(v *viper.Viper, configFile string) error {
	_ = godotenv.Load()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

var makeStatuses = map[string]model.MakeStatus{
	"ok":                   model.StatusOK,
	"missing-values":       model.StatusMissingValues,
	"no-recognized-values": model.StatusNoRecognizedValues,
	"incompatible":         model.StatusIncompatible,
	"not-found":            model.StatusNotFound,
}

// Options builds loader options from the configuration keys.
func Options(v *viper.Viper) (io.Options, error) {
	opts := io.DefaultOptions()

	var err error
	if opts.Delimiter, err = configRune(v, "delimiter"); err != nil {
		return opts, err
	}
	if opts.Quote, err = configRune(v, "quote"); err != nil {
		return opts, err
	}
	if opts.Escape, err = configRune(v, "escape"); err != nil {
		return opts, err
	}
	opts.SkipInitialSpace = io.ParseTristate(v.GetString("skip-initial-space"))
	opts.HasHeader = io.ParseTristate(v.GetString("has-header"))
	opts.HasTypes = io.ParseTristate(v.GetString("has-types"))
	opts.HasAnnotations = io.ParseTristate(v.GetString("has-annotations"))
	opts.SimplifiedHeader = v.GetBool("simplified-header")
	if v.IsSet("missing-values") {
		opts.MissingValues = v.GetStringSlice("missing-values")
	}
	if v.IsSet("sample-size") {
		opts.SampleSize = v.GetInt("sample-size")
	}

	for key, target := range map[string]*float64{
		"thresholds.continuous":         &opts.Thresholds.Continuous,
		"thresholds.discrete":           &opts.Thresholds.Discrete,
		"thresholds.string":             &opts.Thresholds.String,
		"thresholds.resolve-continuous": &opts.Thresholds.ResolveContinuous,
		"thresholds.resolve-discrete":   &opts.Thresholds.ResolveDiscrete,
	} {
		if v.IsSet(key) {
			*target = v.GetFloat64(key)
		}
	}
	if v.IsSet("thresholds.max-discrete-values") {
		opts.Thresholds.MaxDiscreteValues = v.GetInt("thresholds.max-discrete-values")
	}

	if s := v.GetString("create-new-on"); s != "" {
		status, ok := makeStatuses[strings.ToLower(s)]
		if !ok {
			return opts, fmt.Errorf("invalid create-new-on value %q", s)
		}
		opts.CreateNewOn = status
	}
	opts.NoClass = v.GetBool("no-class")
	opts.MultiLabels = v.GetStringSlice("multi-labels")
	opts.TryNumericize = v.GetBool("try-numericize")
	opts.Plain = v.GetBool("plain")

	return opts, opts.Validate()
}

func configRune(v *viper.Viper, key string) (rune, error) {
	s := v.GetString(key)
	switch s {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%s must be a single character, got %q", key, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// SearchPaths builds the session search paths from the paths section, a map
// from prefix to directories.
func SearchPaths(v *viper.Viper) *io.SearchPaths {
	paths := io.NewSearchPaths()
	section := v.GetStringMapStringSlice("paths")
	prefixes := make([]string, 0, len(section))
	for prefix := range section {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)
	for _, prefix := range prefixes {
		paths.Add(prefix, section[prefix]...)
	}
	return paths
}
