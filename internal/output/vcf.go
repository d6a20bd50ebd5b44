package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/inodb/vibe-sv/internal/vcf"
)

// VCFWriter writes variants as VCF records after the original header, with
// additional INFO declarations inserted.
type VCFWriter struct {
	w           *bufio.Writer
	headerLines []string // original VCF header lines (## and #CHROM)
	infoLines   []string // ##INFO lines to add
}

// NewVCFWriter creates a new VCF output writer.
func NewVCFWriter(w io.Writer, headerLines []string) *VCFWriter {
	return &VCFWriter{
		w:           bufio.NewWriter(w),
		headerLines: headerLines,
	}
}

// AddInfoHeader registers an ##INFO line to declare in the header.
func (vw *VCFWriter) AddInfoHeader(line string) {
	vw.infoLines = append(vw.infoLines, line)
}

// WriteHeader writes the original header lines. Added INFO lines go before
// the first existing ##INFO line, or before #CHROM if there is none. They
// are written last when the header has neither.
func (vw *VCFWriter) WriteHeader() error {
	hasInfo := false
	for _, line := range vw.headerLines {
		if strings.HasPrefix(line, "##INFO") {
			hasInfo = true
			break
		}
	}

	added := false
	for _, line := range vw.headerLines {
		if !added && (strings.HasPrefix(line, "##INFO") || (!hasInfo && strings.HasPrefix(line, "#CHROM"))) {
			for _, info := range vw.infoLines {
				if _, err := vw.w.WriteString(info + "\n"); err != nil {
					return err
				}
			}
			added = true
		}
		if _, err := vw.w.WriteString(line + "\n"); err != nil {
			return err
		}
	}

	if !added {
		for _, info := range vw.infoLines {
			if _, err := vw.w.WriteString(info + "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// Write writes a single variant record.
func (vw *VCFWriter) Write(v *vcf.Variant) error {
	_, err := vw.w.WriteString(v.String() + "\n")
	return err
}

// WriteAll writes every variant of set in order and flushes.
func (vw *VCFWriter) WriteAll(set *vcf.VariantSet) error {
	for _, v := range set.Variants() {
		if err := vw.Write(v); err != nil {
			return err
		}
	}
	return vw.Flush()
}

// Flush flushes any buffered data to the underlying writer.
func (vw *VCFWriter) Flush() error {
	return vw.w.Flush()
}
