package vcf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
)

// Parser reads structural variants from a VCF stream, accumulating them in
// a VariantSet and linking breakend mates as they appear. Lines must be
// processed in file order: a breakend is linked when the second record of
// the pair is read.
type Parser struct {
	reader      *bufio.Reader
	file        *os.File
	gzipReader  *gzip.Reader
	lineNumber  int
	header      []string
	sampleNames []string // sample names from #CHROM header line
	pending     string   // first data line, read while scanning the header
	hasPending  bool
	set         *VariantSet
	logger      *zap.Logger
}

// NewParser creates a new VCF parser for the given file.
// Supports both plain VCF and gzipped VCF (.vcf.gz) files.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	p := newParser()
	p.file = file

	br := bufio.NewReader(file)

	// Check for gzip magic number (0x1f, 0x8b)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(br)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = br
	}

	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
// The reader must yield uncompressed VCF text.
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := newParser()
	p.reader = bufio.NewReader(r)

	if err := p.parseHeader(); err != nil {
		return nil, err
	}

	return p, nil
}

func newParser() *Parser {
	return &Parser{
		set:    NewVariantSet(),
		logger: zap.NewNop(),
	}
}

// ParseLines parses an in-memory sequence of VCF lines (header and data)
// into a linked VariantSet.
func ParseLines(lines []string) (*VariantSet, error) {
	p := newParser()
	for _, line := range lines {
		p.lineNumber++
		if _, err := p.consume(line); err != nil {
			return nil, err
		}
	}
	return p.set, nil
}

// SetLogger sets the logger for debug and warning messages.
func (p *Parser) SetLogger(l *zap.Logger) {
	p.logger = l
}

// readLine returns the next line without its line terminator.
func (p *Parser) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			err = nil
		} else {
			return "", err
		}
	}
	p.lineNumber++
	return strings.TrimRight(line, "\r\n"), nil
}

// parseHeader reads header lines up to the first data line, which is kept
// for the first call to Next.
func (p *Parser) parseHeader() error {
	for {
		line, err := p.readLine()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read header: %w", err)
		}

		if strings.HasPrefix(line, "#") {
			p.headerLine(line)
			continue
		}

		p.pending = line
		p.hasPending = true
		return nil
	}
}

func (p *Parser) headerLine(line string) {
	p.header = append(p.header, line)
	if strings.HasPrefix(line, "#CHROM") {
		// Extract sample names from columns after FORMAT (index 9+)
		fields := strings.Split(line, "\t")
		if len(fields) > 9 {
			p.sampleNames = fields[9:]
		} else {
			p.sampleNames = nil
		}
	}
}

// Next reads the next variant from the VCF stream, adds it to the set and
// links it to its mate if the mate has already been read.
// Returns nil, nil when there are no more variants.
func (p *Parser) Next() (*Variant, error) {
	for {
		var line string
		if p.hasPending {
			line = p.pending
			p.hasPending = false
		} else {
			var err error
			line, err = p.readLine()
			if err != nil {
				if err == io.EOF {
					return nil, nil
				}
				return nil, fmt.Errorf("read variant line: %w", err)
			}
		}

		v, err := p.consume(line)
		if err != nil {
			return nil, err
		}
		if v != nil {
			return v, nil
		}
	}
}

// ParseAll reads the remaining stream and returns the linked set.
func (p *Parser) ParseAll() (*VariantSet, error) {
	for {
		v, err := p.Next()
		if err != nil {
			return nil, err
		}
		if v == nil {
			break
		}
	}

	for _, v := range p.set.Unlinked() {
		p.logger.Warn("breakend mate not found",
			zap.String("id", v.ID),
			zap.String("chrom", v.Chrom),
			zap.String("pos", v.Pos))
	}

	return p.set, nil
}

// consume handles one line. Header and blank lines yield a nil variant.
func (p *Parser) consume(line string) (*Variant, error) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return nil, nil
	}
	if strings.HasPrefix(line, "#") {
		p.headerLine(line)
		return nil, nil
	}

	v, err := p.parseLine(line)
	if err != nil {
		return nil, err
	}

	if p.set.Add(v) {
		p.logger.Warn("duplicate variant ID, keeping last occurrence",
			zap.String("id", v.ID),
			zap.Int("line", p.lineNumber))
	}
	if p.set.linkMate(v) {
		p.logger.Debug("linked breakend mates",
			zap.String("id", v.ID),
			zap.String("mate", v.mate))
	}

	return v, nil
}

// parseLine parses a single VCF data line into a Variant.
func (p *Parser) parseLine(line string) (*Variant, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 8 {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least 8 columns, found %d", len(fields)),
		}
	}

	// FORMAT + sample columns, if present
	var genotypes *Genotypes
	if len(fields) > 8 {
		raws := fields[9:]
		if len(raws) != len(p.sampleNames) {
			return nil, &ParseError{
				Line:    p.lineNumber,
				Message: fmt.Sprintf("expected %d sample columns, found %d", len(p.sampleNames), len(raws)),
			}
		}

		var err error
		genotypes, err = NewGenotypes(fields[8], p.sampleNames, raws)
		if err != nil {
			return nil, &ParseError{Line: p.lineNumber, Message: "invalid genotypes", Err: err}
		}
	}

	v, err := NewVariant(fields[0], fields[1], fields[2], fields[3], fields[4],
		fields[5], fields[6], fields[7], genotypes)
	if err != nil {
		return nil, &ParseError{Line: p.lineNumber, Message: "invalid record", Err: err}
	}

	return v, nil
}

// Set returns the variants read so far.
func (p *Parser) Set() *VariantSet {
	return p.set
}

// Header returns the VCF header lines.
func (p *Parser) Header() []string {
	return p.header
}

// SampleNames returns sample names from the #CHROM header line.
// Returns nil if no sample columns are present.
func (p *Parser) SampleNames() []string {
	return p.sampleNames
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}
