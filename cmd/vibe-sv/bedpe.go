package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-sv/internal/genome"
	"github.com/inodb/vibe-sv/internal/output"
	"github.com/inodb/vibe-sv/internal/vcf"
)

func newBEDPECmd(a *app) *cobra.Command {
	var (
		region     string
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "bedpe <input.vcf>",
		Short: "Convert structural variants to BEDPE",
		Long: `Write one BEDPE line per variant in file order. Breakpoints are the
CIPOS/CIEND confidence intervals converted to 0-based half-open
coordinates; breakend mates resolve the second breakpoint.`,
		Example: `  vibe-sv bedpe calls.vcf.gz
  vibe-sv bedpe --include-fields REF,ALT,FILTER calls.vcf
  vibe-sv bedpe --region chr1:1,000,000-2,000,000 -o chr1.bedpe calls.vcf
  zcat calls.vcf.gz | vibe-sv bedpe -`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBEDPE(args[0], splitList(viper.GetStringSlice(keyIncludeFields)), region, outputFile)
		},
	}

	cmd.Flags().StringSlice("include-fields", nil, fmt.Sprintf("Extra columns for the 11th BEDPE field %v", vcf.BEDPEFields))
	cmd.Flags().StringVar(&region, "region", "", "Only write variants with a breakpoint in region (chrom or chrom:start-end)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	_ = viper.BindPFlag(keyIncludeFields, cmd.Flags().Lookup("include-fields"))

	return cmd
}

func (a *app) runBEDPE(inputPath string, includeFields []string, region, outputFile string) error {
	var query *genome.Interval
	if region != "" {
		iv, err := genome.ParseRegion(region)
		if err != nil {
			return &usageError{err: err}
		}
		query = &iv
	}
	for _, f := range includeFields {
		if !validBEDPEField(f) {
			return &usageError{err: fmt.Errorf("%w: %s (choose from %v)", vcf.ErrFieldNotFound, f, vcf.BEDPEFields)}
		}
	}

	set, _, err := readVariants(inputPath, a.logger)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(outputFile, a.stdout)
	if err != nil {
		return err
	}
	defer closeOut()

	w := output.NewBEDPEWriter(out)
	w.SetIncludeFields(includeFields)
	if query != nil {
		w.SetRegion(*query)
	}
	if err := w.WriteAll(set); err != nil {
		return fmt.Errorf("writing bedpe: %w", err)
	}

	a.logger.Debug("wrote bedpe", zap.Strings("fields", includeFields), zap.String("region", region))
	return closeOut()
}

func validBEDPEField(name string) bool {
	for _, f := range vcf.BEDPEFields {
		if f == name {
			return true
		}
	}
	return false
}
