package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-sv/internal/vcf"
)

func row(columns ...string) string {
	return strings.Join(columns, "\t")
}

var testHeader = []string{
	"##fileformat=VCFv4.1",
	`##INFO=<ID=END,Number=1,Type=Integer,Description="End position of the variant described in this record">`,
	`##INFO=<ID=SVTYPE,Number=1,Type=String,Description="Type of structural variant">`,
	row("#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO", "FORMAT", "TUMOR"),
}

var testRecords = []string{
	row("chr1", "100", "MantaDEL", "A", "<DEL>", "50", "PASS", "END=200;SVTYPE=DEL;CIPOS=-10,5;CIEND=-15,20;CONTIG=ACGTAC", "GT", "0/1"),
	row("chr2", "200", "MantaBND:0", "A", "[chr4:400[A", ".", "PASS", "SVTYPE=BND;MATEID=MantaBND:1", "GT", "0/1"),
	row("chr4", "400", "MantaBND:1", "G", "[chr2:200[G", ".", "PASS", "SVTYPE=BND;MATEID=MantaBND:0;CIPOS=-2,2", "GT", "0/1"),
	row("chr3", "300", "MantaINV", "G", "<INV>", ".", "MinQUAL", "IMPRECISE;END=5000;SVTYPE=INV", "GT", "0/1"),
}

func parseTestSet(t *testing.T) *vcf.VariantSet {
	t.Helper()
	set, err := vcf.ParseLines(append(append([]string{}, testHeader...), testRecords...))
	require.NoError(t, err)
	return set
}
