package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-sv/internal/alignment"
	"github.com/inodb/vibe-sv/internal/contig"
	"github.com/inodb/vibe-sv/internal/output"
	"github.com/inodb/vibe-sv/internal/vcf"
)

func newValidateCmd(a *app) *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "validate <input.vcf> <contigs.bam>",
		Short: "Flag variants supported by contig alignments",
		Long: `Align-back validation: contigs aligned to the reference (query name =
variant ID) are grouped per variant, and variants whose contig alignment
supports the call get the SUPPORTED INFO flag. The input VCF is written
back with the flag declared in its header.`,
		Example: `  vibe-sv validate calls.vcf contigs.bam > validated.vcf
  vibe-sv validate --key CONTIG_OK -o validated.vcf calls.vcf contigs.bam`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(args[0], args[1], viper.GetString(keySupportedKey), outputFile)
		},
	}

	cmd.Flags().String("key", contig.SupportedKey, "INFO flag set on supported variants")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	_ = viper.BindPFlag(keySupportedKey, cmd.Flags().Lookup("key"))

	return cmd
}

func (a *app) runValidate(inputPath, bamPath, key, outputFile string) error {
	set, header, err := readVariants(inputPath, a.logger)
	if err != nil {
		return err
	}

	supported, err := a.annotateSupport(set, bamPath, key)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(outputFile, a.stdout)
	if err != nil {
		return err
	}
	defer closeOut()

	w := output.NewVCFWriter(out, header)
	w.AddInfoHeader(contig.InfoHeader(key))
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := w.WriteAll(set); err != nil {
		return fmt.Errorf("writing variants: %w", err)
	}

	a.logger.Info("validated contigs", zap.Int("variants", set.Len()), zap.Int("supported", supported))
	return closeOut()
}

// annotateSupport loads contig alignments from bamPath and flags supported
// variants of set with key.
func (a *app) annotateSupport(set *vcf.VariantSet, bamPath, key string) (int, error) {
	alignments, err := alignment.LoadBAM(bamPath)
	if err != nil {
		return 0, err
	}
	a.logger.Debug("loaded contig alignments", zap.String("path", bamPath), zap.Int("contigs", len(alignments)))

	val := contig.NewValidator()
	val.SetKey(key)
	val.SetLogger(a.logger)
	return val.Annotate(set, alignments)
}
