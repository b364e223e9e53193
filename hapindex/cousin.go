package hapindex

import "sort"

// CandidateScore is one entry of a window's top-k list: a candidate
// haplotype ID and the length, in words, of the best stretch it achieved
// overlapping that window.
type CandidateScore struct {
	CandidateID int
	Score       int
}

// WindowResult is one window's worth of query output.
type WindowResult struct {
	WindowStartSite int
	WindowEndSite   int
	Top             []CandidateScore
}

// stretchPair is a (startWord, endWord) pair, endWord exclusive. The
// sentinel (0, 0) denotes a single-word mismatch filler, distinguishable
// from a genuine first-word match (0, 1) by endWord == 0.
type stretchPair struct {
	start, end int
}

func (p stretchPair) isSentinel() bool { return p.start == 0 && p.end == 0 }

// CousinSearch implements getClosestCousins: given a query haplotype, it
// scans the query's word row, consults a HashIndex, maintains per-candidate
// sliding stretch deques bounded by a mismatch tolerance, and accumulates
// per-window best-stretch scores.
type CousinSearch struct {
	ph   *PackedHaplotypes
	meta *SiteMetadata
	hi   *HashIndex
}

// NewCousinSearch returns a CousinSearch over the given packed haplotypes,
// site metadata, and hash index. All three must have been built from the
// same construction call.
func NewCousinSearch(ph *PackedHaplotypes, meta *SiteMetadata, hi *HashIndex) *CousinSearch {
	return &CousinSearch{ph: ph, meta: meta, hi: hi}
}

// GetClosestCousins returns, for haplotype h, an ordered sequence of window
// results covering [0, numWords) in increasing window-index order. Each
// result's top list has length at most k, sorted by score descending (ties
// broken by ascending candidate ID for a deterministic, if arbitrary, order
// within a single run).
//
// The candidate pool is restricted to haplotype IDs strictly less than h.
// This assumes the caller registers haplotypes 0..N-1 in ascending order,
// one at a time, querying each immediately after registering the previous —
// so that at query time RegisteredSet == {0, ..., h-1}. CousinSearch does
// not detect violations of this precondition.
func (cs *CousinSearch) GetClosestCousins(h, k, tolerance int, windowSizeGenetic float64) ([]WindowResult, error) {
	if h < 0 || h >= cs.ph.NumHaps() {
		return nil, newConfigError("haplotype id %d out of bounds [0, %d)", h, cs.ph.NumHaps())
	}
	if k < 0 {
		return nil, newConfigError("k must be >= 0, got %d", k)
	}
	if tolerance < 0 {
		return nil, newConfigError("tolerance must be >= 0, got %d", tolerance)
	}

	numWords := cs.ph.NumWords()
	windower := NewWindower(numWords, cs.geneticPositions(), cs.ph.WordSize(), windowSizeGenetic)

	windowScore := make([]map[int32]int, windower.NumWindows())
	for i := range windowScore {
		windowScore[i] = make(map[int32]int)
	}
	stretches := make(map[int32][]stretchPair)

	flushFront := func(v int32, deque []stretchPair, rangeEnd int) []stretchPair {
		front := deque[0]
		if !front.isSentinel() {
			rangeSize := rangeEnd - front.start
			wStart := windower.WindowForWord(front.start)
			wEnd := windower.WindowForWord(rangeEnd - 1)
			for wi := wStart; wi <= wEnd; wi++ {
				if rangeSize > windowScore[wi][v] {
					windowScore[wi][v] = rangeSize
				}
			}
		}
		return deque[1:]
	}

	// leadingMaxEnd computes rangeEnd over only the deque's first
	// 2*tolerance+1 entries (or fewer, if the deque is shorter),
	// re-examined at each pop as the deque shrinks. Right after a gap
	// forces several sentinel fillers in at once, this window can be
	// stale and miss the entry just pushed at the back; scores here are
	// intentionally bound to that narrow view rather than the true max.
	leadingMaxEnd := func(deque []stretchPair) int {
		n := 2*tolerance + 1
		if n > len(deque) {
			n = len(deque)
		}
		m := 0
		for _, p := range deque[:n] {
			if p.end > m {
				m = p.end
			}
		}
		return m
	}

	if cs.hi.columns != nil {
		for i := 0; i < numWords; i++ {
			ids, ok := cs.hi.Lookup(i, cs.ph.Word(h, i))
			if !ok {
				continue
			}
			for _, v := range ids {
				if int(v) >= h {
					// Defensive: the precondition guarantees this can't
					// happen, but don't let a misbehaving caller corrupt
					// results.
					continue
				}
				deque := stretches[v]
				if len(deque) == 0 {
					deque = append(deque, stretchPair{i, i + 1})
				} else {
					back := &deque[len(deque)-1]
					if back.end == i {
						back.end = i + 1
					} else {
						gap := i - back.end
						mismatches := tolerance + 1
						if gap < mismatches {
							mismatches = gap
						}
						numToPush := 2*mismatches - 1
						for ; numToPush > 0; numToPush-- {
							deque = append(deque, stretchPair{0, 0})
						}
						deque = append(deque, stretchPair{i, i + 1})
					}
				}
				for len(deque) > 2*tolerance+1 {
					deque = flushFront(v, deque, leadingMaxEnd(deque))
				}
				stretches[v] = deque
			}
		}
	}

	for v, deque := range stretches {
		for len(deque) > 0 {
			deque = flushFront(v, deque, deque[len(deque)-1].end)
		}
	}

	results := make([]WindowResult, windower.NumWindows())
	for wi := 0; wi < windower.NumWindows(); wi++ {
		start, end := windower.WindowRange(wi)
		startSite := start * cs.ph.WordSize()
		endSite := end*cs.ph.WordSize() - 1
		if endSite > cs.ph.NumSites()-1 {
			endSite = cs.ph.NumSites() - 1
		}

		scores := windowScore[wi]
		stats := make([]CandidateScore, 0, len(scores))
		for v, score := range scores {
			stats = append(stats, CandidateScore{CandidateID: int(v), Score: score})
		}
		sort.Slice(stats, func(a, b int) bool {
			if stats[a].Score != stats[b].Score {
				return stats[a].Score > stats[b].Score
			}
			return stats[a].CandidateID < stats[b].CandidateID
		})
		actualK := k
		if actualK > len(stats) {
			actualK = len(stats)
		}
		results[wi] = WindowResult{
			WindowStartSite: startSite,
			WindowEndSite:   endSite,
			Top:             stats[:actualK],
		}
	}
	return results, nil
}

func (cs *CousinSearch) geneticPositions() []float64 {
	n := cs.meta.NumSites()
	gp := make([]float64, n)
	for i := 0; i < n; i++ {
		gp[i] = cs.meta.GeneticPosition(i)
	}
	return gp
}
