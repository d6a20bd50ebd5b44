package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const supportedHeader = `##INFO=<ID=SUPPORTED,Number=0,Type=Flag,Description="Supported by contig breakpoints">`

func TestVCFWriter_HeaderBeforeFirstInfo(t *testing.T) {
	var buf bytes.Buffer
	w := NewVCFWriter(&buf, testHeader)
	w.AddInfoHeader(supportedHeader)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "##fileformat=VCFv4.1", lines[0])
	assert.Equal(t, supportedHeader, lines[1])
	assert.Equal(t, testHeader[1], lines[2])
	assert.Equal(t, testHeader[3], lines[4])
}

func TestVCFWriter_HeaderWithoutInfo(t *testing.T) {
	header := []string{"##fileformat=VCFv4.1", testHeader[3]}

	var buf bytes.Buffer
	w := NewVCFWriter(&buf, header)
	w.AddInfoHeader(supportedHeader)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	assert.Equal(t, strings.Join([]string{header[0], supportedHeader, header[1]}, "\n")+"\n", buf.String())
}

func TestVCFWriter_NoHeader(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   []string
	}{
		{"empty", nil, []string{supportedHeader}},
		{"meta lines only", []string{"##fileformat=VCFv4.1"}, []string{"##fileformat=VCFv4.1", supportedHeader}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewVCFWriter(&buf, tt.header)
			w.AddInfoHeader(supportedHeader)
			require.NoError(t, w.WriteHeader())
			require.NoError(t, w.Flush())

			assert.Equal(t, strings.Join(tt.want, "\n")+"\n", buf.String())
		})
	}
}

func TestVCFWriter_WriteAll(t *testing.T) {
	set := parseTestSet(t)
	v, _ := set.Get("MantaDEL")
	v.SetInfoFlag("SUPPORTED")

	var buf bytes.Buffer
	w := NewVCFWriter(&buf, testHeader)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteAll(set))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, len(testHeader)+len(testRecords))
	assert.Equal(t, testHeader, lines[:len(testHeader)], "no INFO lines added")

	records := lines[len(testHeader):]
	assert.Equal(t, strings.Replace(testRecords[0], "CONTIG=ACGTAC", "CONTIG=ACGTAC;SUPPORTED", 1), records[0])
	assert.Equal(t, testRecords[1:], records[1:])
}
