// Package output provides structural variant output formatters.
package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/inodb/vibe-sv/internal/bedpe"
	"github.com/inodb/vibe-sv/internal/genome"
	"github.com/inodb/vibe-sv/internal/vcf"
)

// BEDPEWriter writes variants as BEDPE lines.
type BEDPEWriter struct {
	w             *bufio.Writer
	includeFields []string
	region        *genome.Interval
}

// NewBEDPEWriter creates a new BEDPE writer.
func NewBEDPEWriter(w io.Writer) *BEDPEWriter {
	return &BEDPEWriter{w: bufio.NewWriter(w)}
}

// SetIncludeFields selects extra columns (REF, ALT, QUAL, FILTER) for the
// optional eleventh column.
func (bw *BEDPEWriter) SetIncludeFields(fields []string) {
	bw.includeFields = fields
}

// SetRegion restricts output to variants with a breakpoint confidence
// interval overlapping region.
func (bw *BEDPEWriter) SetRegion(region genome.Interval) {
	bw.region = &region
}

// Write writes a single variant. Variants outside the region are skipped.
func (bw *BEDPEWriter) Write(v *vcf.Variant) error {
	b, err := v.ToBEDPE(bw.includeFields)
	if err != nil {
		return err
	}
	if bw.region != nil && !overlapsRegion(b, *bw.region) {
		return nil
	}
	return bw.WriteRecord(b)
}

// WriteRecord writes a BEDPE record as is.
func (bw *BEDPEWriter) WriteRecord(b *bedpe.BedPE) error {
	_, err := bw.w.WriteString(strings.Join(b.Columns(), "\t") + "\n")
	return err
}

// WriteAll writes every variant of set in order, filtering by region with
// an interval index over both breakpoints.
func (bw *BEDPEWriter) WriteAll(set *vcf.VariantSet) error {
	variants := set.Variants()
	records := make([]*bedpe.BedPE, len(variants))
	for i, v := range variants {
		b, err := v.ToBEDPE(bw.includeFields)
		if err != nil {
			return err
		}
		records[i] = b
	}

	if bw.region == nil {
		for _, b := range records {
			if err := bw.WriteRecord(b); err != nil {
				return err
			}
		}
		return bw.Flush()
	}

	// Both breakpoints of record i are indexed as 2i and 2i+1.
	intervals := make([]genome.Interval, 0, 2*len(records))
	for _, b := range records {
		left, right := breakpoints(b)
		intervals = append(intervals, left, right)
	}
	idx := genome.BuildIndex(intervals)

	last := -1
	for _, id := range idx.Overlapping(*bw.region) {
		if id/2 == last {
			continue
		}
		last = id / 2
		if err := bw.WriteRecord(records[last]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Flush flushes any buffered data to the underlying writer.
func (bw *BEDPEWriter) Flush() error {
	return bw.w.Flush()
}

// breakpoints converts the record's 0-based half-open intervals back to
// 1-based closed ones.
func breakpoints(b *bedpe.BedPE) (genome.Interval, genome.Interval) {
	return genome.Interval{Chrom: b.Chrom1, Left: b.Start1 + 1, Right: b.End1},
		genome.Interval{Chrom: b.Chrom2, Left: b.Start2 + 1, Right: b.End2}
}

func overlapsRegion(b *bedpe.BedPE, region genome.Interval) bool {
	left, right := breakpoints(b)
	return left.Overlaps(region) || right.Overlaps(region)
}
