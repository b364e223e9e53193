package hapindex

// PackedHaplotypes owns the packed bit matrix: numHaps rows of
// ceil(numSites/wordSize) words of wordSize bits each. It is immutable after
// construction.
type PackedHaplotypes struct {
	mode     Mode
	numHaps  int
	numSites int
	wordSize int
	// words[h][c] is word c of haplotype h. The unused high bits of the
	// final word in a row are always zero.
	words [][]uint64
}

// numWordsFor returns ceil(numSites/wordSize).
func numWordsFor(numSites, wordSize int) int {
	return (numSites + wordSize - 1) / wordSize
}

// New constructs a PackedHaplotypes and its SiteMetadata from a dense
// biallelic site stream: siteStream must yield exactly numSites vectors,
// each of length numHaps, where element h of the s'th vector is true iff
// haplotype h carries allele 1 at site s.
//
// physicalPositions and geneticPositions must each have length numSites.
func New(mode Mode, numHaps, numSites, wordSize int, siteStream <-chan []bool,
	physicalPositions []uint64, geneticPositions []float64) (*PackedHaplotypes, *SiteMetadata, error) {
	if wordSize < 1 || wordSize > 64 {
		return nil, nil, newConfigError("word size %d out of bounds, must be in [1, 64]", wordSize)
	}
	if len(physicalPositions) != numSites {
		return nil, nil, newConfigError("physicalPositions has length %d, want %d", len(physicalPositions), numSites)
	}
	if len(geneticPositions) != numSites {
		return nil, nil, newConfigError("geneticPositions has length %d, want %d", len(geneticPositions), numSites)
	}

	numWords := numWordsFor(numSites, wordSize)
	words := make([][]uint64, numHaps)
	for h := range words {
		words[h] = make([]uint64, numWords)
	}
	siteMaf := make([]float64, numSites)

	site := 0
	for row := range siteStream {
		if len(row) != numHaps {
			return nil, nil, newConfigError("site %d has %d haplotypes, want %d", site, len(row), numHaps)
		}
		if site >= numSites {
			return nil, nil, newConfigError("site stream produced more than %d sites", numSites)
		}
		onesCount := 0
		wordIdx := site / wordSize
		bitIdx := uint(site % wordSize)
		for h, allele1 := range row {
			if allele1 {
				onesCount++
				// The XOR is safe because each (site, haplotype) pair is
				// visited exactly once.
				words[h][wordIdx] ^= uint64(1) << bitIdx
			}
		}
		p := float64(onesCount) / float64(numHaps)
		if p > 0.5 {
			p = 1 - p
		}
		siteMaf[site] = p
		site++
	}
	if site != numSites {
		return nil, nil, newConfigError("site stream produced %d sites, want %d", site, numSites)
	}

	ph := &PackedHaplotypes{
		mode:     mode,
		numHaps:  numHaps,
		numSites: numSites,
		wordSize: wordSize,
		words:    words,
	}
	meta := &SiteMetadata{
		physicalPosition: append([]uint64(nil), physicalPositions...),
		geneticPosition:  append([]float64(nil), geneticPositions...),
		siteMaf:          siteMaf,
	}
	return ph, meta, nil
}

// Word returns word c of haplotype h.
func (p *PackedHaplotypes) Word(h, c int) uint64 { return p.words[h][c] }

// NumWords returns ceil(numSites/wordSize).
func (p *PackedHaplotypes) NumWords() int { return numWordsFor(p.numSites, p.wordSize) }

// NumHaps returns the haplotype count N.
func (p *PackedHaplotypes) NumHaps() int { return p.numHaps }

// NumSites returns the site count M.
func (p *PackedHaplotypes) NumSites() int { return p.numSites }

// WordSize returns W.
func (p *PackedHaplotypes) WordSize() int { return p.wordSize }

// Mode returns the informational mode tag this index was constructed with.
func (p *PackedHaplotypes) Mode() Mode { return p.mode }
