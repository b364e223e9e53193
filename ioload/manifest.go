package ioload

import (
	"bufio"
	"strings"

	"github.com/antzucaro/matchr"
)

// Manifest is the parsed content of a .sample[s] file: one haplotype name
// per row's ID_1 and ID_2 fields, in file order, plus any near-duplicate
// name pairs flagged during parsing.
type Manifest struct {
	HaplotypeNames []string
	Warnings       []string
}

// nearDuplicateThreshold is the Jaro-Winkler similarity at or above which two
// distinct sample IDs are flagged as a likely data-entry typo rather than
// two genuinely different individuals.
const nearDuplicateThreshold = 0.92

// ReadManifest reads a .sample[s] file from rootPath+".samples" or
// rootPath+".sample", whichever exists, skipping a leading header row if
// present (either the literal "ID_1 ID_2 missing" column-name row, or the
// all-zero "0 0 0" row Oxford-format files use instead). Each remaining row
// contributes two haplotype names, ID_1 and ID_2, matching the original's
// doubling of a diploid sample into its constituent haplotypes.
func ReadManifest(rootPath string) (*Manifest, error) {
	r, path, err := openFirstExisting(rootPath+".samples", rootPath+".sample")
	if err != nil {
		return nil, err
	}
	defer r.Close()

	m := &Manifest{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 3 {
			return nil, newInputError(path, "line %d: want at least 3 fields, got %d", lineNo, len(fields))
		}
		if (fields[0] == "ID_1" && fields[1] == "ID_2" && fields[2] == "missing") ||
			(fields[0] == "0" && fields[1] == "0" && fields[2] == "0") {
			continue
		}
		m.HaplotypeNames = append(m.HaplotypeNames, fields[0], fields[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, newIoError(path, err)
	}
	m.Warnings = flagNearDuplicates(m.HaplotypeNames)
	return m, nil
}

// flagNearDuplicates reports pairs of distinct haplotype names whose
// Jaro-Winkler similarity is at least nearDuplicateThreshold, a QC signal for
// likely transcription typos in a sample manifest. It is quadratic in the
// number of names and intended for the hundreds-to-low-thousands scale a
// single cohort's manifest carries, not whole-biobank manifests.
func flagNearDuplicates(names []string) []string {
	var warnings []string
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if names[i] == names[j] {
				continue
			}
			sim := matchr.JaroWinkler(names[i], names[j], true)
			if sim >= nearDuplicateThreshold {
				warnings = append(warnings, names[i]+" ~ "+names[j])
			}
		}
	}
	return warnings
}
