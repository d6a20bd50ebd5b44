package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-sv/internal/duckdb"
)

func newLoadCmd(a *app) *cobra.Command {
	var (
		bamPath string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "load <input.vcf>...",
		Short: "Load structural variant calls into DuckDB",
		Long: `Parse VCF files and store their calls in a DuckDB database, one row per
variant with resolved breakpoints and confidence intervals. Files that
were loaded before and have not changed since are skipped.`,
		Example: `  vibe-sv load tumor.vcf.gz normal.vcf.gz
  vibe-sv load --db calls.duckdb --bam contigs.bam tumor.vcf
  vibe-sv load --force tumor.vcf.gz`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
				return &usageError{err: err}
			}
			if bamPath != "" && len(args) > 1 {
				return &usageError{err: errors.New("--bam requires a single input VCF")}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLoad(args, dbPathSetting(cmd), bamPath, viper.GetString(keySupportedKey), force)
		},
	}

	addDBFlag(cmd)
	cmd.Flags().StringVar(&bamPath, "bam", "", "Contig alignments to validate against before loading")
	cmd.Flags().BoolVar(&force, "force", false, "Reload files even if unchanged")

	return cmd
}

// addDBFlag registers --db. It is resolved with dbPathSetting instead of a
// viper binding because several commands share the key.
func addDBFlag(cmd *cobra.Command) {
	cmd.Flags().String("db", "", "DuckDB database path (default: ~/.vibe-sv/calls.duckdb)")
}

func dbPathSetting(cmd *cobra.Command) string {
	if cmd.Flags().Changed("db") {
		path, _ := cmd.Flags().GetString("db")
		return path
	}
	return viper.GetString(keyDBPath)
}

func (a *app) runLoad(inputPaths []string, dbPath, bamPath, key string, force bool) error {
	store, err := duckdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, path := range inputPaths {
		if err := a.loadOne(store, path, bamPath, key, force); err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}

	counts, err := store.CountByType()
	if err != nil {
		return err
	}
	types := make([]string, 0, len(counts))
	for svtype := range counts {
		types = append(types, svtype)
	}
	sort.Strings(types)

	fmt.Fprintf(a.stdout, "#svtype\tcalls\n")
	for _, svtype := range types {
		name := svtype
		if name == "" {
			name = "."
		}
		fmt.Fprintf(a.stdout, "%s\t%d\n", name, counts[svtype])
	}
	return nil
}

func (a *app) loadOne(store *duckdb.Store, path, bamPath, key string, force bool) error {
	source := path
	var fp *duckdb.FileFingerprint
	if path != "-" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		source = abs

		stat, err := duckdb.StatFile(abs)
		if err != nil {
			return err
		}
		fp = &stat

		if !force && bamPath == "" {
			upToDate, err := store.UpToDate(stat)
			if err != nil {
				return err
			}
			if upToDate {
				a.logger.Info("source unchanged, skipping", zap.String("path", abs))
				return nil
			}
		}
	}

	set, _, err := readVariants(path, a.logger)
	if err != nil {
		return err
	}

	if bamPath != "" {
		supported, err := a.annotateSupport(set, bamPath, key)
		if err != nil {
			return err
		}
		a.logger.Info("validated contigs", zap.Int("supported", supported))
	}

	n, err := store.WriteCalls(source, set, key)
	if err != nil {
		return err
	}
	if fp != nil {
		if err := store.RecordSource(*fp, n); err != nil {
			return err
		}
	}

	a.logger.Info("loaded calls", zap.String("source", source), zap.Int("calls", n))
	return nil
}
