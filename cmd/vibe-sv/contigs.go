package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-sv/internal/output"
)

func newContigsCmd(a *app) *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "contigs <input.vcf>",
		Short: "Extract assembled contigs as FASTQ",
		Long: `Write the CONTIG field of every variant that carries one as a FASTQ
read named by the variant ID, with a uniform base quality.`,
		Example: `  vibe-sv contigs calls.vcf > contigs.fq
  vibe-sv contigs --quality 5 -o contigs.fq calls.vcf.gz`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runContigs(args[0], viper.GetString(keyQuality), outputFile)
		},
	}

	cmd.Flags().String("quality", string(rune(output.DefaultQuality)), "Base quality character for every contig base")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	_ = viper.BindPFlag(keyQuality, cmd.Flags().Lookup("quality"))

	return cmd
}

func (a *app) runContigs(inputPath, quality, outputFile string) error {
	if len(quality) != 1 || quality[0] < '!' || quality[0] > '~' {
		return &usageError{err: fmt.Errorf("quality must be a single printable character, got %q", quality)}
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

	w := output.NewFASTQWriter(out)
	w.SetQuality(quality[0])
	n, err := w.WriteAll(set)
	if err != nil {
		return fmt.Errorf("writing fastq: %w", err)
	}

	a.logger.Info("wrote contigs", zap.Int("contigs", n), zap.Int("skipped", set.Len()-n))
	return closeOut()
}
