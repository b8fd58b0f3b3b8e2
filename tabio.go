package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"tabio/pkg"
)

var config = viper.New()

func newSession() (*pkg.Session, error) {
	opts, err := pkg.Options(config)
	if err != nil {
		return nil, err
	}
	return pkg.NewSession(opts, pkg.SearchPaths(config))
}

func InfoCommand() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "info FILE",
		Short: "Loads a table and logs its columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			_, err = s.Info(args[0])
			return err
		},
	}
	return cmd
}

func DescribeCommand() *cobra.Command {
	var output string

	var cmd = &cobra.Command{
		Use:   "describe FILE [--output json|yaml]",
		Short: "Prints statistics of every column of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			return s.Describe(args[0], cmd.OutOrStdout(), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format: json or yaml")

	return cmd
}

func ConvertCommand() *cobra.Command {
	var inputFile string
	var outputFile string

	var cmd = &cobra.Command{
		Use:   "convert -i inputFile -o outputFile",
		Short: "Converts a table between formats, chosen by file extension",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			return s.Convert(inputFile, outputFile)
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "name of input file, may be prefix:file")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "name of output file")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func SplitCommand() *cobra.Command {
	var inputFile string
	var trainFile string
	var testFile string
	var ratio float64
	var seed int64

	var cmd = &cobra.Command{
		Use:   "split -i inputFile --train trainFile --test testFile",
		Short: "Randomly splits the rows of a table into a train and a test file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			return s.Split(inputFile, trainFile, testFile, ratio, seed)
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "name of input file, may be prefix:file")
	cmd.Flags().StringVarP(&trainFile, "train", "", "", "name of train output file")
	cmd.Flags().StringVarP(&testFile, "test", "", "", "name of test output file")
	cmd.Flags().Float64VarP(&ratio, "ratio", "r", 0.7, "share of rows in the train file")
	cmd.Flags().Int64VarP(&seed, "random-seed", "x", 42, "random seed")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("train")
	_ = cmd.MarkFlagRequired("test")

	return cmd
}

func PathsCommand() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "paths",
		Short: "Lists the configured search paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range pkg.SearchPaths(config).All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:\t%s\n", p.Prefix, p.Dir)
			}
			return nil
		},
	}
	return cmd
}

var logLevel string
var logFormat string
var configFile string

// RootCommand builds the tabio command with its persistent loader flags.
func RootCommand() *cobra.Command {
	Main := &cobra.Command{Use: "tabio", PersistentPreRunE: setup, SilenceUsage: true}

	flags := Main.PersistentFlags()
	flags.StringVarP(&logLevel, "log-level", "", "info", "Logging level: info error or debug")
	flags.StringVarP(&logFormat, "log-format", "", "pretty", "Logging format: pretty or json")
	flags.StringVarP(&configFile, "config", "", "", "config file (yaml, toml or json)")

	flags.StringP("delimiter", "d", "", "cell delimiter, sniffed when empty")
	flags.String("quote", "", "quote character, sniffed when empty")
	flags.String("escape", "", "escape character")
	flags.String("skip-initial-space", "auto", "skip spaces after delimiters: auto yes or no")
	flags.String("has-header", "auto", "first row holds names: auto yes or no")
	flags.String("has-types", "auto", "types row follows the names: auto yes or no")
	flags.String("has-annotations", "auto", "annotations row follows the types: auto yes or no")
	flags.Bool("simplified-header", false, "header cells carry role and type prefixes as in cD#name")
	flags.StringSlice("missing-values", nil, "tokens read as a missing value")
	flags.String("create-new-on", "", "make status at which a new variable is created")
	flags.Bool("no-class", false, "do not use the last ARFF attribute as class")
	flags.StringSlice("multi-labels", nil, "ARFF attributes that are multi-class labels")
	flags.Bool("try-numericize", false, "write numeric discrete variables as continuous in ARFF and C4.5")
	flags.Bool("plain", false, "write delimited files without type and annotation rows")

	flags.VisitAll(func(f *pflag.Flag) {
		switch f.Name {
		case "log-level", "log-format", "config":
		default:
			_ = config.BindPFlag(f.Name, f)
		}
	})

	Main.AddCommand(InfoCommand())
	Main.AddCommand(DescribeCommand())
	Main.AddCommand(ConvertCommand())
	Main.AddCommand(SplitCommand())
	Main.AddCommand(PathsCommand())

	return Main
}

func main() {
	if err := RootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	if err := setupLogging(); err != nil {
		return err
	}
	return pkg.LoadConfig(config, configFile)
}

func setupLogging() error {
	switch logLevel {
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		return fmt.Errorf("invalid logging level %q", logLevel)
	}

	switch logFormat {
	case "pretty":
		setupPrettyLogging()
	case "json":
	default:
		return fmt.Errorf("invalid log format %q", logFormat)
	}
	return nil
}

func setupPrettyLogging() {
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	writer.FormatFieldValue = func(i interface{}) string {
		switch v := i.(type) {
		case json.Number:
			val, _ := v.Float64()
			return fmt.Sprintf("%.3f", val)
		default:
			return fmt.Sprintf("%s", i)
		}
	}
	log.Logger = log.Output(writer)
}
