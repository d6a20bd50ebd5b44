package alignment

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceReader struct {
	records []*sam.Record
	err     error
}

func (r *sliceReader) Read() (*sam.Record, error) {
	if len(r.records) == 0 {
		if r.err != nil {
			return nil, r.err
		}
		return nil, io.EOF
	}
	rec := r.records[0]
	r.records = r.records[1:]
	return rec, nil
}

func TestGroupByName(t *testing.T) {
	r := &sliceReader{records: []*sam.Record{
		{Name: "MantaDEL:1", Pos: 10},
		{Name: "MantaBND:0", Pos: 20},
		{Name: "MantaDEL:1", Pos: 30, Flags: sam.Supplementary},
	}}

	groups, err := GroupByName(r)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Len(t, groups["MantaDEL:1"], 2)
	assert.Equal(t, 10, groups["MantaDEL:1"][0].Pos)
	assert.Equal(t, 30, groups["MantaDEL:1"][1].Pos)
	assert.Len(t, groups["MantaBND:0"], 1)
	assert.Empty(t, groups["missing"])
}

func TestGroupByName_Errors(t *testing.T) {
	_, err := GroupByName(&sliceReader{records: []*sam.Record{{Name: ""}}})
	assert.ErrorIs(t, err, ErrMissingName)

	_, err = GroupByName(&sliceReader{err: io.ErrUnexpectedEOF})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestLoadBAM(t *testing.T) {
	ref, err := sam.NewReference("chr1", "", "", 10000, nil, nil)
	require.NoError(t, err)
	header, err := sam.NewHeader(nil, []*sam.Reference{ref})
	require.NoError(t, err)

	cigar := sam.Cigar{sam.NewCigarOp(sam.CigarMatch, 4), sam.NewCigarOp(sam.CigarDeletion, 100), sam.NewCigarOp(sam.CigarMatch, 4)}
	rec, err := sam.NewRecord("MantaDEL:1", ref, nil, 99, -1, 0, 60, cigar, []byte("ACGTACGT"), bytes.Repeat([]byte{30}, 8), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	w, err := bam.NewWriter(&buf, header, 1)
	require.NoError(t, err)
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "contigs.bam")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	groups, err := LoadBAM(path)
	require.NoError(t, err)
	require.Len(t, groups["MantaDEL:1"], 1)
	got := groups["MantaDEL:1"][0]
	assert.Equal(t, 99, got.Pos)
	assert.Equal(t, cigar.String(), got.Cigar.String())
}

func TestLoadBAM_MissingFile(t *testing.T) {
	_, err := LoadBAM(filepath.Join(t.TempDir(), "missing.bam"))
	assert.Error(t, err)
}
