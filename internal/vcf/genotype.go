package vcf

import (
	"fmt"
	"strings"
)

// Sample is one sample column of a VCF record.
type Sample struct {
	Name string
	Raw  string // colon-delimited genotype string
}

// Genotypes holds the FORMAT column and the per-sample columns of a record.
// It is only present when the record has a FORMAT column.
type Genotypes struct {
	Format  string
	Samples []Sample

	fields []map[string]string // per sample, parallel to Samples
}

// NewGenotypes zips sample names against their raw genotype strings.
// names and raws must have equal length.
func NewGenotypes(format string, names, raws []string) (*Genotypes, error) {
	if len(names) != len(raws) {
		return nil, fmt.Errorf("%d sample names for %d sample columns", len(names), len(raws))
	}

	g := &Genotypes{Format: format, Samples: make([]Sample, len(raws))}
	for i := range raws {
		g.Samples[i] = Sample{Name: names[i], Raw: raws[i]}
	}
	if err := g.build(); err != nil {
		return nil, err
	}
	return g, nil
}

// build zips the FORMAT keys against each sample's values. A sample may drop
// trailing fields, but may not carry more values than there are keys.
func (g *Genotypes) build() error {
	keys := strings.Split(g.Format, ":")
	g.fields = make([]map[string]string, len(g.Samples))

	for i, s := range g.Samples {
		values := strings.Split(s.Raw, ":")
		if len(values) > len(keys) {
			return fmt.Errorf("%w: sample %s has %d values for %d keys",
				ErrGenotypeMismatch, s.Name, len(values), len(keys))
		}

		m := make(map[string]string, len(values))
		for j, value := range values {
			m[keys[j]] = value
		}
		g.fields[i] = m
	}

	return nil
}

// Get returns the FORMAT-keyed value for sample.
func (g *Genotypes) Get(sample, key string) (string, bool) {
	for i, s := range g.Samples {
		if s.Name != sample {
			continue
		}
		value, ok := g.fields[i][key]
		return value, ok
	}
	return "", false
}

// Names returns the sample names in column order.
func (g *Genotypes) Names() []string {
	names := make([]string, len(g.Samples))
	for i, s := range g.Samples {
		names[i] = s.Name
	}
	return names
}
