// Package vcf provides structural variant VCF parsing functionality.
package vcf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inodb/vibe-sv/internal/bedpe"
	"github.com/inodb/vibe-sv/internal/genome"
)

// Structural variant types (SVTYPE values).
const (
	SVTypeDeletion    = "DEL"
	SVTypeDuplication = "DUP"
	SVTypeInversion   = "INV"
	SVTypeInsertion   = "INS"
	SVTypeBreakend    = "BND"
)

// Variant represents a single structural variant record from a VCF file.
type Variant struct {
	Chrom  string // Chromosome name (e.g., "chr1")
	Pos    string // 1-based position, as written in the file
	ID     string // Variant identifier (e.g., "MantaDEL:0:1:2:0:0:0")
	Ref    string // Reference allele
	Alt    string // Alternate allele, symbolic or breakend notation
	Qual   string // Quality, may be "."
	Filter string // Filter status (PASS or filter names)

	// Genotypes is nil when the record has no FORMAT column.
	Genotypes *Genotypes

	info *Info
	pos  int64
	mate string      // ID of the linked mate, resolved through set
	set  *VariantSet // owning collection
}

// NewVariant builds a variant from its raw VCF columns.
func NewVariant(chrom, pos, id, ref, alt, qual, filter, info string, genotypes *Genotypes) (*Variant, error) {
	p, err := strconv.ParseInt(pos, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid position %q: %w", pos, err)
	}

	return &Variant{
		Chrom:     chrom,
		Pos:       pos,
		ID:        id,
		Ref:       ref,
		Alt:       alt,
		Qual:      qual,
		Filter:    filter,
		Genotypes: genotypes,
		info:      ParseInfo(info),
		pos:       p,
	}, nil
}

// Info returns the ordered INFO mapping.
func (v *Variant) Info() *Info {
	return v.info
}

// GetInfo returns the value of the INFO field with the given key.
func (v *Variant) GetInfo(key string) (InfoValue, error) {
	value, ok := v.info.Get(key)
	if !ok {
		return InfoValue{}, fmt.Errorf("%w: %s", ErrInfoFieldNotFound, key)
	}
	return value, nil
}

// InfoString returns the INFO value for key as a string.
func (v *Variant) InfoString(key string) (string, error) {
	value, err := v.GetInfo(key)
	if err != nil {
		return "", err
	}
	return value.String(), nil
}

// HasInfo reports whether the INFO field key is present.
func (v *Variant) HasInfo(key string) bool {
	_, ok := v.info.Get(key)
	return ok
}

// SetInfo inserts or overwrites an INFO field.
func (v *Variant) SetInfo(key string, value InfoValue) {
	v.info.Set(key, value)
}

// SetInfoFlag sets key as a flag.
func (v *Variant) SetInfoFlag(key string) {
	v.info.Set(key, Flag())
}

// SetInfoString sets key=value.
func (v *Variant) SetInfoString(key, value string) {
	v.info.Set(key, StringValue(value))
}

// GetGenotype returns the value of the FORMAT field key for sample.
func (v *Variant) GetGenotype(sample, key string) (string, error) {
	if v.Genotypes == nil {
		return "", fmt.Errorf("%w: %s (no sample data)", ErrGenotypeFieldNotFound, key)
	}
	value, ok := v.Genotypes.Get(sample, key)
	if !ok {
		return "", fmt.Errorf("%w: %s for sample %s", ErrGenotypeFieldNotFound, key, sample)
	}
	return value, nil
}

// Samples returns the names of the record's samples.
func (v *Variant) Samples() []string {
	if v.Genotypes == nil {
		return nil
	}
	return v.Genotypes.Names()
}

// SVType returns the SVTYPE INFO value, or "" if absent.
func (v *Variant) SVType() string {
	value, ok := v.info.Get("SVTYPE")
	if !ok || value.IsFlag() {
		return ""
	}
	return value.String()
}

// IsBreakend returns true if the variant is a BND record.
func (v *Variant) IsBreakend() bool {
	return v.SVType() == SVTypeBreakend
}

// Contig returns the assembled contig sequence from the CONTIG INFO field.
func (v *Variant) Contig() (string, bool) {
	value, ok := v.info.Get("CONTIG")
	if !ok || value.IsFlag() {
		return "", false
	}
	return value.String(), true
}

// Mate returns the linked mate of a breakend, if any.
func (v *Variant) Mate() (*Variant, bool) {
	if v.mate == "" || v.set == nil {
		return nil, false
	}
	return v.set.Get(v.mate)
}

// Start returns the start position of the variant.
func (v *Variant) Start() genome.Position {
	return genome.Position{Chrom: v.Chrom, Pos: v.pos}
}

// End returns the end position of the variant. Breakends carrying CHR2 and
// POS2 (Delly style) resolve inline; other breakends resolve to the start
// of their linked mate (Manta style). All other types use the END field.
func (v *Variant) End() (genome.Position, error) {
	if v.IsBreakend() {
		chrom, hasChrom := v.info.Get("CHR2")
		pos, hasPos := v.info.Get("POS2")
		if hasChrom && hasPos {
			p, err := v.intInfo("POS2", pos)
			if err != nil {
				return genome.Position{}, err
			}
			return genome.Position{Chrom: chrom.String(), Pos: p}, nil
		}

		mate, ok := v.Mate()
		if !ok {
			return genome.Position{}, fmt.Errorf("%w: %s", ErrMissingMate, v.ID)
		}
		return mate.Start(), nil
	}

	end, err := v.GetInfo("END")
	if err != nil {
		return genome.Position{}, err
	}
	p, err := v.intInfo("END", end)
	if err != nil {
		return genome.Position{}, err
	}
	return genome.Position{Chrom: v.Chrom, Pos: p}, nil
}

// CIStart returns the confidence interval around the start position from
// CIPOS, or a zero-width interval if CIPOS is absent.
func (v *Variant) CIStart() (genome.Interval, error) {
	return v.confidenceInterval("CIPOS", v.Start())
}

// CIEnd returns the confidence interval around the end position. For a
// breakend with a linked mate it is the mate's start interval; otherwise
// it comes from CIEND, or is zero-width if CIEND is absent.
func (v *Variant) CIEnd() (genome.Interval, error) {
	if v.IsBreakend() {
		if mate, ok := v.Mate(); ok {
			return mate.CIStart()
		}
	}

	end, err := v.End()
	if err != nil {
		return genome.Interval{}, err
	}
	return v.confidenceInterval("CIEND", end)
}

func (v *Variant) confidenceInterval(key string, p genome.Position) (genome.Interval, error) {
	value, ok := v.info.Get(key)
	if !ok {
		return genome.PointInterval(p), nil
	}

	parts := strings.Split(value.String(), ",")
	if value.IsFlag() || len(parts) != 2 {
		return genome.Interval{}, fmt.Errorf("%w: %s=%s in %s", ErrMalformedInfo, key, value, v.ID)
	}
	left, errL := strconv.ParseInt(parts[0], 10, 64)
	right, errR := strconv.ParseInt(parts[1], 10, 64)
	if errL != nil || errR != nil {
		return genome.Interval{}, fmt.Errorf("%w: %s=%s in %s", ErrMalformedInfo, key, value, v.ID)
	}

	return genome.Interval{Chrom: p.Chrom, Left: p.Pos + left, Right: p.Pos + right}, nil
}

func (v *Variant) intInfo(key string, value InfoValue) (int64, error) {
	if value.IsFlag() {
		return 0, fmt.Errorf("%w: %s is a flag in %s", ErrMalformedInfo, key, v.ID)
	}
	n, err := strconv.ParseInt(value.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%s in %s", ErrMalformedInfo, key, value, v.ID)
	}
	return n, nil
}

// BEDPEFields lists the column names ToBEDPE accepts as extra fields.
var BEDPEFields = []string{"REF", "ALT", "QUAL", "FILTER"}

// ToBEDPE creates a BEDPE representation of the variant from its start and
// end confidence intervals. includeFields selects extra columns from
// BEDPEFields, in the requested order.
func (v *Variant) ToBEDPE(includeFields []string) (*bedpe.BedPE, error) {
	var fields bedpe.Fields
	for _, name := range includeFields {
		switch name {
		case "REF":
			fields.Set(name, v.Ref)
		case "ALT":
			fields.Set(name, v.Alt)
		case "QUAL":
			fields.Set(name, v.Qual)
		case "FILTER":
			fields.Set(name, v.Filter)
		default:
			return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, name)
		}
	}

	left, err := v.CIStart()
	if err != nil {
		return nil, err
	}
	right, err := v.CIEnd()
	if err != nil {
		return nil, err
	}

	score := v.Qual
	b := bedpe.FromIntervals(left, right, v.ID, &score)
	b.Fields = fields
	return b, nil
}

// String reconstructs the tab-delimited VCF record.
func (v *Variant) String() string {
	columns := []string{v.Chrom, v.Pos, v.ID, v.Ref, v.Alt, v.Qual, v.Filter, v.info.String()}
	if v.Genotypes != nil {
		columns = append(columns, v.Genotypes.Format)
		for _, s := range v.Genotypes.Samples {
			columns = append(columns, s.Raw)
		}
	}
	return strings.Join(columns, "\t")
}
