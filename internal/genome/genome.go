// Package genome provides genomic positions and intervals in VCF coordinates.
package genome

import (
	"fmt"
	"strconv"
	"strings"
)

// Position is a single 1-based genomic position.
type Position struct {
	Chrom string
	Pos   int64
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d", p.Chrom, p.Pos)
}

// Interval is a 1-based closed genomic interval [Left, Right].
type Interval struct {
	Chrom string
	Left  int64
	Right int64
}

// PointInterval returns the zero-width interval at p.
func PointInterval(p Position) Interval {
	return Interval{Chrom: p.Chrom, Left: p.Pos, Right: p.Pos}
}

// Overlaps reports whether the two intervals share at least one base.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Chrom == other.Chrom && iv.Right >= other.Left && iv.Left <= other.Right
}

func (iv Interval) String() string {
	return fmt.Sprintf("%s:%d-%d", iv.Chrom, iv.Left, iv.Right)
}

// ParseRegion parses a region string of the form "chrom" or
// "chrom:left-right". A bare chromosome covers the whole chromosome. The
// range is split off at the last colon; a suffix without "-" belongs to
// the chromosome name, so names such as "HLA-A*01:01:01:01" are accepted.
func ParseRegion(s string) (Interval, error) {
	if s == "" {
		return Interval{}, fmt.Errorf("empty region")
	}

	i := strings.LastIndex(s, ":")
	if i < 0 {
		return Interval{Chrom: s, Left: 1, Right: maxPos}, nil
	}
	chrom, span := s[:i], strings.ReplaceAll(s[i+1:], ",", "")

	leftStr, rightStr, ok := strings.Cut(span, "-")
	if !ok {
		return Interval{Chrom: s, Left: 1, Right: maxPos}, nil
	}

	left, err := strconv.ParseInt(leftStr, 10, 64)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid region start %q: %w", leftStr, err)
	}
	right, err := strconv.ParseInt(rightStr, 10, 64)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid region end %q: %w", rightStr, err)
	}
	if left > right {
		return Interval{}, fmt.Errorf("invalid region %q: start after end", s)
	}

	return Interval{Chrom: chrom, Left: left, Right: right}, nil
}
