package hapdiag_test

import (
	"bytes"
	"testing"

	"github.com/palamaralab/hapcousin/hapindex"
	"github.com/palamaralab/hapcousin/hapindex/hapdiag"
	"github.com/stretchr/testify/assert"
)

func siteStreamFrom(rows [][]bool) <-chan []bool {
	ch := make(chan []bool, len(rows))
	for _, row := range rows {
		ch <- row
	}
	close(ch)
	return ch
}

func linspace(n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = float64(i) / float64(n-1)
	}
	return out
}

func sequentialUint64(n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = uint64(i)
	}
	return out
}

func buildFixture(t *testing.T) (*hapindex.PackedHaplotypes, *hapindex.HashIndex) {
	rows := [][]bool{
		{true, true},
		{true, true},
		{true, true},
		{true, true},
	}
	ph, _, err := hapindex.New(hapindex.ModeArray, 2, 4, 4, siteStreamFrom(rows), sequentialUint64(4), linspace(4))
	assert.NoError(t, err)
	hi := hapindex.NewHashIndex(ph)
	assert.NoError(t, hi.AddToHash(0))
	assert.NoError(t, hi.AddToHash(1))
	return ph, hi
}

func TestPrintHapWritesHexWords(t *testing.T) {
	ph, _ := buildFixture(t)
	var buf bytes.Buffer
	assert.NoError(t, hapdiag.PrintHap(&buf, ph, 0))
	assert.Contains(t, buf.String(), "0x")
}

func TestPrintHapRejectsOutOfBounds(t *testing.T) {
	ph, _ := buildFixture(t)
	var buf bytes.Buffer
	assert.Error(t, hapdiag.PrintHap(&buf, ph, 5))
}

func TestPrintWordMatchDiagramMarksAgreement(t *testing.T) {
	ph, _ := buildFixture(t)
	var buf bytes.Buffer
	assert.NoError(t, hapdiag.PrintWordMatchDiagram(&buf, ph, 0, 1))
	assert.Equal(t, "x\n", buf.String())
}

func TestPrintHashesListsRegisteredBuckets(t *testing.T) {
	ph, hi := buildFixture(t)
	var buf bytes.Buffer
	assert.NoError(t, hapdiag.PrintHashes(&buf, ph, hi))
	assert.Contains(t, buf.String(), ": 0 1")
}

func TestFingerprintIsDeterministicAndSensitiveToContent(t *testing.T) {
	ph1, _ := buildFixture(t)
	ph2, _ := buildFixture(t)
	assert.Equal(t, hapdiag.Fingerprint(ph1), hapdiag.Fingerprint(ph2))

	rows := [][]bool{
		{true, false},
		{false, false},
		{true, false},
		{false, false},
	}
	ph3, _, err := hapindex.New(hapindex.ModeArray, 2, 4, 4, siteStreamFrom(rows), sequentialUint64(4), linspace(4))
	assert.NoError(t, err)
	assert.NotEqual(t, hapdiag.Fingerprint(ph1), hapdiag.Fingerprint(ph3))
}
