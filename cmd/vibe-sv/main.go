// Package main provides the vibe-sv command-line tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inodb/vibe-sv/internal/contig"
	"github.com/inodb/vibe-sv/internal/output"
	"github.com/inodb/vibe-sv/internal/vcf"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Config keys
const (
	keyIncludeFields = "bedpe.include_fields"
	keyQuality       = "contigs.quality"
	keySupportedKey  = "validate.supported_key"
	keyDBPath        = "db.path"
	keyVerbose       = "verbose"
)

// usageError marks errors caused by invalid arguments or flags.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// app carries the streams and logger shared by all subcommands.
type app struct {
	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr, logger: zap.NewNop()}

	root := newRootCmd(a)
	root.SetArgs(args)

	err := root.Execute()
	_ = a.logger.Sync()
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	var ue *usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(stderr, "Run 'vibe-sv --help' for usage.\n")
		return ExitUsage
	}
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "Hint: Check that the file path is correct\n")
	}
	return ExitError
}

func newRootCmd(a *app) *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "vibe-sv",
		Short: "Structural variant VCF toolkit",
		Long: `vibe-sv parses structural variant VCF files (Manta, Delly and similar
callers), links breakend mates, and exports confidence-interval-aware
BEDPE, contig FASTQ, contig-validated VCF, or a DuckDB database.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &usageError{err: fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetOut(a.stderr)
			_ = cmd.Help()
			return &usageError{err: errors.New("no command given")}
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cfgFile); err != nil {
				return err
			}
			a.logger = newLogger(viper.GetBool(keyVerbose), a.stderr)
			return nil
		},
	}

	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.vibe-sv.yaml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	_ = viper.BindPFlag(keyVerbose, root.PersistentFlags().Lookup("verbose"))

	root.AddCommand(newBEDPECmd(a))
	root.AddCommand(newContigsCmd(a))
	root.AddCommand(newValidateCmd(a))
	root.AddCommand(newLoadCmd(a))
	root.AddCommand(newQueryCmd(a))
	root.AddCommand(newConfigCmd(a))

	return root
}

// initConfig loads the config file and environment overrides.
func initConfig(cfgFile string) error {
	viper.SetDefault(keyQuality, string(rune(output.DefaultQuality)))
	viper.SetDefault(keySupportedKey, contig.SupportedKey)
	viper.SetDefault(keyDBPath, defaultDBPath())

	viper.SetEnvPrefix("VIBE_SV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	viper.SetConfigName(".vibe-sv")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(home)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// newLogger builds a JSON production logger at info level, or a console
// development logger at debug level when verbose is set.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	level := zapcore.InfoLevel
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	if verbose {
		level = zapcore.DebugLevel
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "vibe-sv.duckdb"
	}
	return filepath.Join(home, ".vibe-sv", "calls.duckdb")
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// readVariants parses the VCF at path ("-" for stdin) to EOF and returns
// the variant set and header lines.
func readVariants(path string, logger *zap.Logger) (*vcf.VariantSet, []string, error) {
	p, err := vcf.NewParser(path)
	if err != nil {
		return nil, nil, err
	}
	defer p.Close()
	p.SetLogger(logger)

	set, err := p.ParseAll()
	if err != nil {
		return nil, nil, err
	}

	logger.Info("parsed variants",
		zap.String("path", path),
		zap.Int("variants", set.Len()),
		zap.Int("unlinked_breakends", len(set.Unlinked())))
	return set, p.Header(), nil
}

// openOutput returns stdout when path is empty or "-", or the created file.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, f.Close, nil
}

// splitList flattens comma-separated entries, as config files and
// environment variables give "REF,ALT" where flags give a list.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
