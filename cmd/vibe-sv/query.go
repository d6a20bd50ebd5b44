package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inodb/vibe-sv/internal/duckdb"
	"github.com/inodb/vibe-sv/internal/genome"
)

func newQueryCmd(a *app) *cobra.Command {
	var (
		svtype string
		region string
		id     string
		source string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query loaded structural variant calls",
		Long: `Search calls stored by "vibe-sv load" by SVTYPE, by region (either
breakpoint confidence interval overlapping), or by source and ID.`,
		Example: `  vibe-sv query --type BND
  vibe-sv query --region chr17:7,660,000-7,690,000
  vibe-sv query --source /data/tumor.vcf.gz --id MantaDEL:1:0:1:0:0:0`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return &usageError{err: err}
			}
			set := 0
			for _, v := range []string{svtype, region, id} {
				if v != "" {
					set++
				}
			}
			if set != 1 {
				return &usageError{err: errors.New("exactly one of --type, --region or --id is required")}
			}
			if id != "" && source == "" {
				return &usageError{err: errors.New("--id requires --source")}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runQuery(dbPathSetting(cmd), svtype, region, source, id)
		},
	}

	addDBFlag(cmd)
	cmd.Flags().StringVar(&svtype, "type", "", "SVTYPE to search for (DEL, DUP, INV, INS, BND)")
	cmd.Flags().StringVar(&region, "region", "", "Region to search (chrom or chrom:start-end)")
	cmd.Flags().StringVar(&id, "id", "", "Variant ID to look up")
	cmd.Flags().StringVar(&source, "source", "", "Source file of the variant ID, as stored by load")

	return cmd
}

func (a *app) runQuery(dbPath, svtype, region, source, id string) error {
	var query genome.Interval
	if region != "" {
		iv, err := genome.ParseRegion(region)
		if err != nil {
			return &usageError{err: err}
		}
		query = iv
	}

	store, err := duckdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	var calls []duckdb.Call
	switch {
	case svtype != "":
		calls, err = store.SearchByType(strings.ToUpper(svtype))
	case region != "":
		calls, err = store.SearchRegion(query)
	default:
		var c *duckdb.Call
		c, err = store.LookupCall(source, id)
		if c != nil {
			calls = []duckdb.Call{*c}
		}
	}
	if err != nil {
		return err
	}

	return writeCalls(a.stdout, calls)
}

func writeCalls(out io.Writer, calls []duckdb.Call) error {
	w := bufio.NewWriter(out)
	w.WriteString("#source\tid\tsvtype\tstart\tend\tci_start\tci_end\tqual\tfilter\tmate_id\tsupported\n")
	for _, c := range calls {
		end, ciEnd := ".", "."
		if c.End != nil {
			end = c.End.String()
		}
		if c.CIEnd != nil {
			ciEnd = c.CIEnd.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Source, c.ID, orDot(c.SVType), c.Start, end, c.CIStart, ciEnd,
			c.Qual, c.Filter, orDot(c.MateID), strconv.FormatBool(c.Supported))
	}
	return w.Flush()
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}
