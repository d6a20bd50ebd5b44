package duckdb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-sv/internal/genome"
	"github.com/inodb/vibe-sv/internal/vcf"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func row(columns ...string) string {
	return strings.Join(columns, "\t")
}

func testSet(t *testing.T) *vcf.VariantSet {
	t.Helper()
	set, err := vcf.ParseLines([]string{
		"##fileformat=VCFv4.1",
		row("#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO"),
		row("chr1", "100", "MantaDEL", "A", "<DEL>", "50", "PASS", "END=200;SVTYPE=DEL;CIPOS=-10,5;CIEND=-15,20;SUPPORTED"),
		row("chr2", "200", "MantaBND:0", "A", "[chr4:400[A", ".", "PASS", "SVTYPE=BND;MATEID=MantaBND:1"),
		row("chr4", "400", "MantaBND:1", "G", "[chr2:200[G", ".", "PASS", "SVTYPE=BND;MATEID=MantaBND:0;CIPOS=-2,2"),
		row("chr7", "700", "MantaBND:9", "T", "]chr8:800]T", ".", "PASS", "SVTYPE=BND;MATEID=MantaBND:10"),
	})
	require.NoError(t, err)
	return set
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
	assert.Equal(t, "", s.Path())
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "calls.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path, s.Path())
	assert.FileExists(t, path)
}

func TestNewCall(t *testing.T) {
	set := testSet(t)

	del, _ := set.Get("MantaDEL")
	c, err := NewCall("a.vcf", del, "SUPPORTED")
	require.NoError(t, err)
	assert.Equal(t, "DEL", c.SVType)
	assert.True(t, c.Supported)
	assert.Equal(t, genome.Interval{Chrom: "chr1", Left: 90, Right: 105}, c.CIStart)
	require.NotNil(t, c.End)
	assert.Equal(t, genome.Position{Chrom: "chr1", Pos: 200}, *c.End)
	require.NotNil(t, c.CIEnd)
	assert.Equal(t, genome.Interval{Chrom: "chr1", Left: 185, Right: 220}, *c.CIEnd)
	assert.Empty(t, c.MateID)

	bnd, _ := set.Get("MantaBND:0")
	c, err = NewCall("a.vcf", bnd, "SUPPORTED")
	require.NoError(t, err)
	assert.False(t, c.Supported)
	assert.Equal(t, "MantaBND:1", c.MateID)
	require.NotNil(t, c.CIEnd)
	assert.Equal(t, genome.Interval{Chrom: "chr4", Left: 398, Right: 402}, *c.CIEnd)

	orphan, _ := set.Get("MantaBND:9")
	c, err = NewCall("a.vcf", orphan, "SUPPORTED")
	require.NoError(t, err)
	assert.Nil(t, c.End)
	assert.Nil(t, c.CIEnd)
}

func TestNewCall_MalformedCIPOS(t *testing.T) {
	set, err := vcf.ParseLines([]string{
		row("#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO"),
		row("chr1", "100", "bad", "A", "<DEL>", ".", "PASS", "END=200;SVTYPE=DEL;CIPOS=10"),
	})
	require.NoError(t, err)
	v, _ := set.Get("bad")
	_, err = NewCall("a.vcf", v, "SUPPORTED")
	assert.ErrorIs(t, err, vcf.ErrMalformedInfo)
}

func TestWriteAndLookupCalls(t *testing.T) {
	s := openInMemory(t)

	n, err := s.WriteCalls("a.vcf", testSet(t), "SUPPORTED")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	c, err := s.LookupCall("a.vcf", "MantaDEL")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, genome.Position{Chrom: "chr1", Pos: 100}, c.Start)
	assert.Equal(t, "50", c.Qual)
	assert.True(t, c.Supported)
	assert.Equal(t, "END=200;SVTYPE=DEL;CIPOS=-10,5;CIEND=-15,20;SUPPORTED", c.Info)
	require.NotNil(t, c.CIEnd)
	assert.Equal(t, genome.Interval{Chrom: "chr1", Left: 185, Right: 220}, *c.CIEnd)

	orphan, err := s.LookupCall("a.vcf", "MantaBND:9")
	require.NoError(t, err)
	require.NotNil(t, orphan)
	assert.Nil(t, orphan.End)
	assert.Empty(t, orphan.MateID)

	missing, err := s.LookupCall("a.vcf", "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestWriteCalls_ReplacesSource(t *testing.T) {
	s := openInMemory(t)
	set := testSet(t)

	_, err := s.WriteCalls("a.vcf", set, "SUPPORTED")
	require.NoError(t, err)
	_, err = s.WriteCalls("b.vcf", set, "SUPPORTED")
	require.NoError(t, err)
	_, err = s.WriteCalls("a.vcf", set, "SUPPORTED")
	require.NoError(t, err)

	counts, err := s.CountByType()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"DEL": 2, "BND": 6}, counts)

	require.NoError(t, s.DeleteCalls("b.vcf"))
	counts, err = s.CountByType()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"DEL": 1, "BND": 3}, counts)
}

func TestSearchByType(t *testing.T) {
	s := openInMemory(t)
	_, err := s.WriteCalls("a.vcf", testSet(t), "SUPPORTED")
	require.NoError(t, err)

	calls, err := s.SearchByType("BND")
	require.NoError(t, err)
	require.Len(t, calls, 3)
	assert.Equal(t, "MantaBND:0", calls[0].ID)
	assert.Equal(t, "MantaBND:1", calls[1].ID)
	assert.Equal(t, "MantaBND:9", calls[2].ID)

	calls, err = s.SearchByType("INV")
	require.NoError(t, err)
	assert.Empty(t, calls)
}

func TestSearchRegion(t *testing.T) {
	s := openInMemory(t)
	_, err := s.WriteCalls("a.vcf", testSet(t), "SUPPORTED")
	require.NoError(t, err)

	tests := []struct {
		name   string
		region genome.Interval
		want   []string
	}{
		{"start ci", genome.Interval{Chrom: "chr1", Left: 80, Right: 92}, []string{"MantaDEL"}},
		{"end ci", genome.Interval{Chrom: "chr1", Left: 219, Right: 300}, []string{"MantaDEL"}},
		{"between breakpoints", genome.Interval{Chrom: "chr1", Left: 106, Right: 184}, nil},
		{"mate end", genome.Interval{Chrom: "chr4", Left: 401, Right: 401}, []string{"MantaBND:0", "MantaBND:1"}},
		{"other chrom", genome.Interval{Chrom: "chrX", Left: 1, Right: 1000}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls, err := s.SearchRegion(tt.region)
			require.NoError(t, err)
			var ids []string
			for _, c := range calls {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSources(t *testing.T) {
	s := openInMemory(t)
	fp := FileFingerprint{Path: "/data/a.vcf", Size: 1234, ModTime: time.Unix(1700000000, 42)}

	_, _, ok, err := s.LoadedSource(fp.Path)
	require.NoError(t, err)
	assert.False(t, ok)

	upToDate, err := s.UpToDate(fp)
	require.NoError(t, err)
	assert.False(t, upToDate)

	require.NoError(t, s.RecordSource(fp, 4))

	stored, n, ok, err := s.LoadedSource(fp.Path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, n)
	assert.True(t, fp.Matches(stored))

	upToDate, err = s.UpToDate(fp)
	require.NoError(t, err)
	assert.True(t, upToDate)

	changed := fp
	changed.Size = 999
	upToDate, err = s.UpToDate(changed)
	require.NoError(t, err)
	assert.False(t, upToDate)

	require.NoError(t, s.RecordSource(changed, 5))
	_, n, _, err = s.LoadedSource(fp.Path)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestStatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.vcf")
	require.NoError(t, os.WriteFile(path, []byte("##fileformat=VCFv4.1\n"), 0o644))

	fp, err := StatFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, fp.Path)
	assert.Equal(t, int64(21), fp.Size)

	_, err = StatFile(filepath.Join(t.TempDir(), "missing.vcf"))
	assert.Error(t, err)
}
