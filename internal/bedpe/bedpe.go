// Package bedpe provides the BEDPE paired-interval record.
package bedpe

import (
	"strconv"
	"strings"

	"github.com/inodb/vibe-sv/internal/genome"
)

// missing is rendered for unset optional columns.
const missing = "."

// Field is a single extra annotation column entry.
type Field struct {
	Name  string
	Value string
}

// Fields is an ordered name to value mapping rendered as the optional
// eleventh BEDPE column.
type Fields []Field

// Set assigns value to name, keeping the position of an existing entry.
func (f *Fields) Set(name, value string) {
	for i := range *f {
		if (*f)[i].Name == name {
			(*f)[i].Value = value
			return
		}
	}
	*f = append(*f, Field{Name: name, Value: value})
}

// Get returns the value for name.
func (f Fields) Get(name string) (string, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return "", false
}

func (f Fields) String() string {
	parts := make([]string, len(f))
	for i, field := range f {
		parts[i] = field.Name + "=" + field.Value
	}
	return strings.Join(parts, ";")
}

// BedPE is a pair of 0-based half-open intervals.
type BedPE struct {
	Chrom1  string
	Start1  int64
	End1    int64
	Chrom2  string
	Start2  int64
	End2    int64
	Name    string
	Score   *string
	Strand1 *string
	Strand2 *string
	// Fields is nil when no extra column was requested.
	Fields Fields
}

// FromIntervals builds a BedPE from two 1-based closed intervals.
func FromIntervals(left, right genome.Interval, name string, score *string) *BedPE {
	return &BedPE{
		Chrom1: left.Chrom,
		Start1: left.Left - 1,
		End1:   left.Right,
		Chrom2: right.Chrom,
		Start2: right.Left - 1,
		End2:   right.Right,
		Name:   name,
		Score:  score,
	}
}

// Columns returns the tab-separated columns of the record.
func (b *BedPE) Columns() []string {
	columns := []string{
		b.Chrom1,
		strconv.FormatInt(b.Start1, 10),
		strconv.FormatInt(b.End1, 10),
		b.Chrom2,
		strconv.FormatInt(b.Start2, 10),
		strconv.FormatInt(b.End2, 10),
		b.Name,
		orMissing(b.Score),
		orMissing(b.Strand1),
		orMissing(b.Strand2),
	}
	if b.Fields != nil {
		columns = append(columns, b.Fields.String())
	}
	return columns
}

func (b *BedPE) String() string {
	return strings.Join(b.Columns(), "\t")
}

func orMissing(s *string) string {
	if s == nil {
		return missing
	}
	return *s
}
