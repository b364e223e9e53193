// Command hapcousin builds a bit-packed haplotype index from a
// manifest/map/hap file triple and reports, for each queried haplotype, its
// closest cousins per genetic-distance window.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/palamaralab/hapcousin/hapindex"
	"github.com/palamaralab/hapcousin/hapindex/hapdiag"
	"github.com/palamaralab/hapcousin/ioload"
	"v.io/x/lib/vlog"
)

type cliFlags struct {
	root         string
	mapPath      string
	mode         string
	wordSize     int
	windowSizeCM float64
	tolerance    int
	k            int
	query        string
	printHashes  bool
	fingerprint  bool
	outPath      string
}

func parseFlags() cliFlags {
	var f cliFlags
	flag.StringVar(&f.root, "root", "", "Root path shared by the .sample[s], .map[.gz], and .hap[s][.gz] files (required)")
	flag.StringVar(&f.mapPath, "map", "", "Explicit genetic map path; defaults to <root>.map.gz or <root>.map")
	flag.StringVar(&f.mode, "mode", "array", "Haplotype mode: \"sequence\" or \"array\"")
	flag.IntVar(&f.wordSize, "word-size", 64, "Sites packed per 64-bit word, in [1, 64]")
	flag.Float64Var(&f.windowSizeCM, "window-cm", 0, "Minimum genetic span per window, in centimorgans; 0 means one window per word")
	flag.IntVar(&f.tolerance, "tolerance", 0, "Maximum number of mismatching words tolerated within a stretch")
	flag.IntVar(&f.k, "k", 10, "Number of top cousins to report per window")
	flag.StringVar(&f.query, "query", "", "Haplotype ID to query, or \"all\" to query every registered haplotype in turn (required)")
	flag.BoolVar(&f.printHashes, "print-hashes", false, "Dump the hash index buckets to stderr before querying")
	flag.BoolVar(&f.fingerprint, "fingerprint", false, "Log a HighwayHash fingerprint of the packed matrix before querying")
	flag.StringVar(&f.outPath, "out", "", "Output path for JSON results; defaults to stdout")
	flag.Parse()
	return f
}

func (f cliFlags) validate() error {
	if f.root == "" {
		return fmt.Errorf("-root is required")
	}
	if f.query == "" {
		return fmt.Errorf("-query is required")
	}
	return nil
}

// queryResult is the JSON-serializable form of one haplotype's
// hapindex.WindowResult sequence.
type queryResult struct {
	HaplotypeID int                     `json:"haplotype_id"`
	Windows     []hapindex.WindowResult `json:"windows"`
}

func main() {
	f := parseFlags()
	if err := f.validate(); err != nil {
		vlog.Errorf("hapcousin: %v", err)
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	mode, err := hapindex.ParseMode(f.mode)
	if err != nil {
		vlog.Fatalf("hapcousin: %v", err)
	}

	manifest, err := ioload.ReadManifest(f.root)
	if err != nil {
		vlog.Fatalf("hapcousin: reading manifest: %v", err)
	}
	for _, w := range manifest.Warnings {
		vlog.VI(1).Infof("hapcousin: possible duplicate sample IDs: %s", w)
	}
	numHaps := len(manifest.HaplotypeNames)

	gm, err := ioload.ReadGeneticMap(f.root, f.mapPath)
	if err != nil {
		vlog.Fatalf("hapcousin: reading genetic map: %v", err)
	}

	siteStream, streamErr := ioload.StreamHapMatrix(ctx, f.root, numHaps)
	ph, meta, err := hapindex.New(mode, numHaps, len(gm.GeneticPosition), f.wordSize,
		siteStream, gm.PhysicalPosition, gm.GeneticPosition)
	if err != nil {
		vlog.Fatalf("hapcousin: packing haplotype matrix: %v", err)
	}
	if err := streamErr(); err != nil {
		vlog.Fatalf("hapcousin: streaming haplotype matrix: %v", err)
	}

	if f.fingerprint {
		fp := hapdiag.Fingerprint(ph)
		vlog.Infof("hapcousin: packed matrix fingerprint %x", fp)
	}

	hi := hapindex.NewHashIndex(ph)
	queryIDs, err := resolveQueryIDs(f.query, numHaps)
	if err != nil {
		vlog.Fatalf("hapcousin: %v", err)
	}

	cs := hapindex.NewCousinSearch(ph, meta, hi)
	var results []queryResult
	nextQuery := 0
	for h := 0; h < numHaps; h++ {
		if nextQuery < len(queryIDs) && queryIDs[nextQuery] == h {
			if f.printHashes {
				if err := hapdiag.PrintHashes(os.Stderr, ph, hi); err != nil {
					vlog.Errorf("hapcousin: printing hashes: %v", err)
				}
			}
			windows, err := cs.GetClosestCousins(h, f.k, f.tolerance, f.windowSizeCM)
			if err != nil {
				vlog.Fatalf("hapcousin: querying haplotype %d: %v", h, err)
			}
			results = append(results, queryResult{HaplotypeID: h, Windows: windows})
			nextQuery++
		}
		if err := hi.AddToHash(h); err != nil {
			vlog.Fatalf("hapcousin: registering haplotype %d: %v", h, err)
		}
	}

	out := os.Stdout
	if f.outPath != "" {
		var err error
		out, err = os.Create(f.outPath)
		if err != nil {
			vlog.Fatalf("hapcousin: %v", err)
		}
		defer out.Close()
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		vlog.Fatalf("hapcousin: writing results: %v", err)
	}
}

// resolveQueryIDs parses -query into a sorted, deduplicated list of
// haplotype IDs: either "all" (every haplotype from 1 to numHaps-1, since
// haplotype 0 has no possible cousins) or a comma-separated list of IDs.
func resolveQueryIDs(query string, numHaps int) ([]int, error) {
	if query == "all" {
		ids := make([]int, 0, numHaps)
		for h := 1; h < numHaps; h++ {
			ids = append(ids, h)
		}
		return ids, nil
	}
	var ids []int
	for _, tok := range strings.Split(query, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			return nil, fmt.Errorf("-query: %q is not an integer or \"all\"", tok)
		}
		if id < 0 || id >= numHaps {
			return nil, fmt.Errorf("-query: haplotype id %d out of bounds [0, %d)", id, numHaps)
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	deduped := ids[:0]
	for i, id := range ids {
		if i == 0 || id != deduped[len(deduped)-1] {
			deduped = append(deduped, id)
		}
	}
	return deduped, nil
}
