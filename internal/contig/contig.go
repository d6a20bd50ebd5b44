// Package contig checks whether structural variants are supported by the
// alignment of their assembled contigs.
package contig

import (
	"fmt"
	"strconv"

	"github.com/biogo/hts/sam"
	"go.uber.org/zap"

	"github.com/inodb/vibe-sv/internal/vcf"
)

// SupportedKey is the INFO flag set on variants supported by their contig.
const SupportedKey = "SUPPORTED"

// SupportedHeader declares SupportedKey in a VCF header.
const SupportedHeader = `##INFO=<ID=SUPPORTED,Number=0,Type=Flag,Description="Supported by contig breakpoints">`

// InfoHeader returns the ##INFO line declaring key as the support flag.
func InfoHeader(key string) string {
	return fmt.Sprintf(`##INFO=<ID=%s,Number=0,Type=Flag,Description="Supported by contig breakpoints">`, key)
}

// Supported reports whether v is supported by the alignments of its contig,
// which share the variant's ID as query name: the primary alignment
// followed by any supplementary ones.
//
// This is very much work in progress and should not yet be used in
// production. A contig that does not map gives no support. A single
// alignment supports a deletion only if its CIGAR contains a deletion of
// exactly |SVLEN| bases. A split alignment always gives support.
func Supported(v *vcf.Variant, alignments []*sam.Record) (bool, error) {
	switch len(alignments) {
	case 0:
		return false, nil
	case 1:
		if v.SVType() != vcf.SVTypeDeletion {
			return false, nil
		}
		svlen, err := v.InfoString("SVLEN")
		if err != nil {
			return false, err
		}
		n, err := strconv.Atoi(svlen)
		if err != nil {
			return false, fmt.Errorf("%w: SVLEN=%s in %s", vcf.ErrMalformedInfo, svlen, v.ID)
		}
		if n < 0 {
			n = -n
		}
		return hasDeletion(alignments[0].Cigar, n), nil
	default:
		return true, nil
	}
}

func hasDeletion(cigar sam.Cigar, length int) bool {
	for _, op := range cigar {
		if op.Type() == sam.CigarDeletion && op.Len() == length {
			return true
		}
	}
	return false
}

// Validator annotates variants with the SUPPORTED flag.
type Validator struct {
	key    string
	logger *zap.Logger
}

// NewValidator creates a validator that sets SupportedKey.
func NewValidator() *Validator {
	return &Validator{
		key:    SupportedKey,
		logger: zap.NewNop(),
	}
}

// SetKey overrides the INFO flag set on supported variants.
func (val *Validator) SetKey(key string) {
	val.key = key
}

// SetLogger sets the logger for debug messages.
func (val *Validator) SetLogger(l *zap.Logger) {
	val.logger = l
}

// Annotate flags every supported variant in set, looking up its alignments
// by variant ID, and returns the number of supported variants.
func (val *Validator) Annotate(set *vcf.VariantSet, alignments map[string][]*sam.Record) (int, error) {
	supported := 0
	for _, v := range set.Variants() {
		ok, err := Supported(v, alignments[v.ID])
		if err != nil {
			return supported, fmt.Errorf("check contig support for %s: %w", v.ID, err)
		}
		val.logger.Debug("contig support",
			zap.String("id", v.ID),
			zap.String("svtype", v.SVType()),
			zap.Int("alignments", len(alignments[v.ID])),
			zap.Bool("supported", ok))
		if ok {
			v.SetInfoFlag(val.key)
			supported++
		}
	}
	return supported, nil
}
