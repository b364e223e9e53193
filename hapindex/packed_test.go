package hapindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPacksWordsPerSpecScenario1(t *testing.T) {
	// End-to-end scenario: N=4, M=8, W=4.
	rows := [][]bool{
		{true, true, true, false},
		{true, true, true, false},
		{true, true, true, false},
		{true, true, true, false},
		{true, false, true, true},
		{true, false, true, true},
		{true, false, true, true},
		{true, false, true, true},
	}
	ph, meta, err := New(ModeArray, 4, 8, 4, siteStreamFrom(rows), sequentialUint64(8), linspace(8))
	assert.NoError(t, err)

	assert.Equal(t, uint64(0xF), ph.Word(0, 0))
	assert.Equal(t, uint64(0xF), ph.Word(0, 1))
	assert.Equal(t, uint64(0xF), ph.Word(1, 0))
	assert.Equal(t, uint64(0x0), ph.Word(1, 1))
	assert.Equal(t, uint64(0xF), ph.Word(2, 0))
	assert.Equal(t, uint64(0xF), ph.Word(2, 1))
	assert.Equal(t, uint64(0x0), ph.Word(3, 0))
	assert.Equal(t, uint64(0xF), ph.Word(3, 1))

	assert.Equal(t, 2, ph.NumWords())
	assert.Equal(t, 4, ph.NumHaps())
	assert.Equal(t, 4, ph.WordSize())
	assert.Equal(t, ModeArray, ph.Mode())

	// MAF scenario 3: site 0 has 3 of 4 haplotypes carrying allele 1.
	assert.InDelta(t, 0.25, meta.Maf(0), 1e-9)
}

func TestNewRejectsOutOfRangeWordSize(t *testing.T) {
	rows := [][]bool{{true}}
	_, _, err := New(ModeSequence, 1, 1, 0, siteStreamFrom(rows), sequentialUint64(1), linspace(1))
	assert.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	_, _, err = New(ModeSequence, 1, 1, 65, siteStreamFrom(rows), sequentialUint64(1), linspace(1))
	assert.Error(t, err)
}

func TestNewRejectsInconsistentRowLength(t *testing.T) {
	rows := [][]bool{{true, false}, {true}}
	_, _, err := New(ModeSequence, 2, 2, 4, siteStreamFrom(rows), sequentialUint64(2), linspace(2))
	assert.Error(t, err)
}

func TestPackingIsDeterministic(t *testing.T) {
	rows := [][]bool{
		{true, false, true},
		{false, false, true},
		{true, true, false},
	}
	ph1, _, err := New(ModeSequence, 3, 3, 64, siteStreamFrom(rows), sequentialUint64(3), linspace(3))
	assert.NoError(t, err)
	ph2, _, err := New(ModeSequence, 3, 3, 64, siteStreamFrom(rows), sequentialUint64(3), linspace(3))
	assert.NoError(t, err)

	for h := 0; h < 3; h++ {
		assert.Equal(t, ph1.Word(h, 0), ph2.Word(h, 0))
	}
}

func TestTrailingUnusedBitsAreZero(t *testing.T) {
	// M=5, W=4: the second word only has bit 0 meaningful.
	rows := [][]bool{
		{true}, {true}, {true}, {true}, {true},
	}
	ph, _, err := New(ModeSequence, 1, 5, 4, siteStreamFrom(rows), sequentialUint64(5), linspace(5))
	assert.NoError(t, err)
	assert.Equal(t, 2, ph.NumWords())
	assert.Equal(t, uint64(0x1), ph.Word(0, 1))
}
