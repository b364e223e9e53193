package hapindex

import (
	farm "github.com/dgryski/go-farm"
)

// nHashShards shards each word-column's map by the upper bits of a farm
// hash of the word value, the same idea fusion/kmer_index.go uses to shard
// its kmer->genelist table. Unlike that table, a HashIndex column grows
// incrementally (via AddToHash) rather than being built once from a known
// key set, so each shard here is an ordinary Go map rather than a
// fixed-size open-addressed table backed by mmap'd memory: the scale this
// package operates at (per-query-session haplotype counts, not a
// whole-genome kmer universe) doesn't justify that machinery.
const nHashShards = 16

// hashShard mirrors fusion/kmer_index.go's hashKmer: farm.Hash64WithSeed(nil,
// seed) hashes the seed value alone, avoiding an allocation to lay the word
// out as a byte slice.
func hashShard(word uint64) uint64 {
	return farm.Hash64WithSeed(nil, word) >> 60
}

type hashColumn struct {
	shards [nHashShards]map[uint64][]int32
}

func (c *hashColumn) lookup(word uint64) ([]int32, bool) {
	shard := c.shards[hashShard(word)]
	if shard == nil {
		return nil, false
	}
	ids, ok := shard[word]
	return ids, ok
}

func (c *hashColumn) add(word uint64, h int32) {
	shardIdx := hashShard(word)
	if c.shards[shardIdx] == nil {
		c.shards[shardIdx] = make(map[uint64][]int32)
	}
	c.shards[shardIdx][word] = append(c.shards[shardIdx][word], h)
}

// HashIndex is, per word-column, a mapping from 64-bit word value to the
// ordered list of haplotype IDs whose packed row has that value in that
// column. It grows monotonically via AddToHash; there is no removal.
type HashIndex struct {
	ph         *PackedHaplotypes
	columns    []hashColumn // lazily allocated on the first AddToHash
	registered map[int32]bool
}

// NewHashIndex returns an empty HashIndex over ph. No haplotype is
// registered until AddToHash is called.
func NewHashIndex(ph *PackedHaplotypes) *HashIndex {
	return &HashIndex{ph: ph, registered: make(map[int32]bool)}
}

// AddToHash registers haplotype h: for every word column c, h is appended to
// the bucket keyed by ph.Word(h, c). It fails if h is out of bounds or
// already registered.
func (idx *HashIndex) AddToHash(h int) error {
	if h < 0 || h >= idx.ph.NumHaps() {
		return newConfigError("haplotype id %d out of bounds [0, %d)", h, idx.ph.NumHaps())
	}
	hh := int32(h)
	if idx.registered[hh] {
		return newConfigError("haplotype %d already registered", h)
	}
	if idx.columns == nil {
		idx.columns = make([]hashColumn, idx.ph.NumWords())
	}
	for c := range idx.columns {
		idx.columns[c].add(idx.ph.Word(h, c), hh)
	}
	idx.registered[hh] = true
	return nil
}

// Lookup returns the haplotype IDs registered with word value wordValue in
// column c, in registration order, or (nil, false) if no registered
// haplotype has that value in that column. It never allocates a missing
// bucket, so it is safe to call concurrently with other lookups (but not
// with AddToHash).
func (idx *HashIndex) Lookup(c int, wordValue uint64) ([]int32, bool) {
	if idx.columns == nil {
		return nil, false
	}
	return idx.columns[c].lookup(wordValue)
}

// IsRegistered reports whether h is in RegisteredSet.
func (idx *HashIndex) IsRegistered(h int) bool {
	return idx.registered[int32(h)]
}

// DistinctWords returns every word value with at least one haplotype
// registered under it in column c, in no particular order. Intended for
// diagnostics (hapdiag), not the query hot path.
func (idx *HashIndex) DistinctWords(c int) []uint64 {
	if idx.columns == nil {
		return nil
	}
	var values []uint64
	for _, shard := range idx.columns[c].shards {
		for value := range shard {
			values = append(values, value)
		}
	}
	return values
}
