// Package hapdiag provides human-readable and fingerprint diagnostics over
// a hapindex.PackedHaplotypes/HashIndex pair, for debugging and
// reproducibility checks rather than production query paths.
package hapdiag

import (
	"fmt"
	"io"

	"github.com/minio/highwayhash"
	"github.com/palamaralab/hapcousin/hapindex"
)

// zeroSeed is the all-zero HighwayHash key; a fingerprint only needs to be
// stable across runs of this program, not resistant to adversarial input.
var zeroSeed [highwayhash.Size]byte

// PrintHap writes a header line and then haplotype h's packed words, in hex,
// space-separated on a single line, to w.
func PrintHap(w io.Writer, ph *hapindex.PackedHaplotypes, h int) error {
	if h < 0 || h >= ph.NumHaps() {
		return fmt.Errorf("hapdiag: haplotype id %d out of bounds [0, %d)", h, ph.NumHaps())
	}
	if _, err := fmt.Fprintf(w, "words (hex) for hap_id = %d\n", h); err != nil {
		return err
	}
	for c := 0; c < ph.NumWords(); c++ {
		if _, err := fmt.Fprintf(w, "0x%x ", ph.Word(h, c)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// PrintWordMatchDiagram writes 'x'/'_' characters to w, one per word
// column, marking where haplotypes h1 and h2 agree ('x') or disagree ('_').
// Columns are grouped in blocks of 5 separated by a space, with a line
// break after every 25 columns (no blank lines), for eyeballing long
// stretches of agreement.
func PrintWordMatchDiagram(w io.Writer, ph *hapindex.PackedHaplotypes, h1, h2 int) error {
	if h1 < 0 || h1 >= ph.NumHaps() || h2 < 0 || h2 >= ph.NumHaps() {
		return fmt.Errorf("hapdiag: haplotype id out of bounds [0, %d)", ph.NumHaps())
	}
	for i := 0; i < ph.NumWords(); i++ {
		if i != 0 {
			switch {
			case i%100 == 0:
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			case i%25 == 0:
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			case i%5 == 0:
				if _, err := fmt.Fprint(w, " "); err != nil {
					return err
				}
			}
		}
		ch := "_"
		if ph.Word(h1, i) == ph.Word(h2, i) {
			ch = "x"
		}
		if _, err := fmt.Fprint(w, ch); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// PrintHashes writes, for every word column, every distinct word value
// registered so far and the ordered haplotype IDs carrying it, as
// "<bits>: <id> <id> ...", one bucket per line.
func PrintHashes(w io.Writer, ph *hapindex.PackedHaplotypes, hi *hapindex.HashIndex) error {
	for c := 0; c < ph.NumWords(); c++ {
		if _, err := fmt.Fprintf(w, "hash for word %d of %d\n", c, ph.NumWords()); err != nil {
			return err
		}
		numBits := ph.WordSize()
		if c == ph.NumWords()-1 {
			numBits = ((ph.NumSites() - 1) % ph.WordSize()) + 1
		}
		for _, value := range hi.DistinctWords(c) {
			for j := 0; j < numBits; j++ {
				bit := (value >> uint(j)) & 1
				if _, err := fmt.Fprintf(w, "%d", bit); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprint(w, ":"); err != nil {
				return err
			}
			ids, _ := hi.Lookup(c, value)
			for _, id := range ids {
				if _, err := fmt.Fprintf(w, " %d", id); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// Fingerprint returns a HighwayHash digest of every packed word in ph, in
// (haplotype, column) order, intended as a quick reproducibility check that
// two index builds (e.g. before/after a refactor) packed identical data.
func Fingerprint(ph *hapindex.PackedHaplotypes) [highwayhash.Size]byte {
	buf := make([]byte, 0, 8*ph.NumHaps()*ph.NumWords())
	for h := 0; h < ph.NumHaps(); h++ {
		for c := 0; c < ph.NumWords(); c++ {
			v := ph.Word(h, c)
			buf = append(buf,
				byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
				byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
		}
	}
	return highwayhash.Sum(buf, zeroSeed[:])
}
