// Package alignment reads contig alignments from BAM files.
package alignment

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
)

// ErrMissingName is returned for an alignment record without a query name.
var ErrMissingName = errors.New("missing query name in alignment")

// Reader is the subset of a SAM/BAM reader used to load alignments.
type Reader interface {
	Read() (*sam.Record, error)
}

// GroupByName reads all records from r and groups them by query name,
// keeping file order within each group.
func GroupByName(r Reader) (map[string][]*sam.Record, error) {
	groups := make(map[string][]*sam.Record)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return groups, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read alignment: %w", err)
		}
		if rec.Name == "" {
			return nil, ErrMissingName
		}
		groups[rec.Name] = append(groups[rec.Name], rec)
	}
}

// LoadBAM opens a BAM file and groups its records by query name.
func LoadBAM(path string) (map[string][]*sam.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bam file: %w", err)
	}
	defer f.Close()

	br, err := bam.NewReader(f, 1)
	if err != nil {
		return nil, fmt.Errorf("create bam reader: %w", err)
	}
	defer br.Close()

	return GroupByName(br)
}
