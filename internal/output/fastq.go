package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/inodb/vibe-sv/internal/vcf"
)

// DefaultQuality is the base quality character written for contig bases.
const DefaultQuality = 'I'

// FASTQWriter writes assembled contigs as FASTQ reads named by variant ID.
type FASTQWriter struct {
	w       *bufio.Writer
	quality byte
	err     error
}

// NewFASTQWriter creates a new FASTQ writer.
func NewFASTQWriter(w io.Writer) *FASTQWriter {
	return &FASTQWriter{w: bufio.NewWriter(w), quality: DefaultQuality}
}

// SetQuality sets the uniform base quality character.
func (fw *FASTQWriter) SetQuality(q byte) {
	fw.quality = q
}

// Write writes the contig of v. It reports false for variants without a
// CONTIG field, which are skipped.
func (fw *FASTQWriter) Write(v *vcf.Variant) (bool, error) {
	contig, ok := v.Contig()
	if !ok {
		return false, nil
	}
	fw.writeln("@" + v.ID)
	fw.writeln(contig)
	fw.writeln("+")
	fw.writeln(strings.Repeat(string(fw.quality), len(contig)))
	return true, fw.err
}

// WriteAll writes the contigs of all variants in set and returns how many
// were written.
func (fw *FASTQWriter) WriteAll(set *vcf.VariantSet) (int, error) {
	n := 0
	for _, v := range set.Variants() {
		ok, err := fw.Write(v)
		if err != nil {
			return n, err
		}
		if ok {
			n++
		}
	}
	return n, fw.Flush()
}

// Flush flushes any buffered data to the underlying writer.
func (fw *FASTQWriter) Flush() error {
	if fw.err != nil {
		return fw.err
	}
	return fw.w.Flush()
}

func (fw *FASTQWriter) writeln(line string) {
	if fw.err != nil {
		return
	}
	_, fw.err = fw.w.WriteString(line)
	if fw.err == nil {
		fw.err = fw.w.WriteByte('\n')
	}
}
