package ioload

import (
	"bufio"
	"strconv"
	"strings"
)

// GeneticMap is the parsed content of a .map[.gz] file: for each site, its
// genetic position (column 3, centimorgans) and physical position (column
// 4, base pairs), in file order.
type GeneticMap struct {
	GeneticPosition  []float64
	PhysicalPosition []uint64
}

// ReadGeneticMap reads a four-column (chromosome, marker ID, genetic
// position, physical position) whitespace-delimited map file. If
// explicitPath is non-empty it is used as-is; otherwise the reader falls
// back to rootPath+".map.gz" then rootPath+".map".
func ReadGeneticMap(rootPath, explicitPath string) (*GeneticMap, error) {
	var candidates []string
	if explicitPath != "" {
		candidates = []string{explicitPath}
	} else {
		candidates = []string{rootPath + ".map.gz", rootPath + ".map"}
	}
	r, path, err := openFirstExisting(candidates...)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	gm := &GeneticMap{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 4 {
			return nil, newInputError(path, "line %d: want 4 fields, got %d", lineNo, len(fields))
		}
		gp, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, newInputError(path, "line %d: genetic position %q: %v", lineNo, fields[2], err)
		}
		pp, err := strconv.ParseUint(fields[3], 10, 64)
		if err != nil {
			return nil, newInputError(path, "line %d: physical position %q: %v", lineNo, fields[3], err)
		}
		if n := len(gm.GeneticPosition); n > 0 && gp < gm.GeneticPosition[n-1] {
			return nil, newInputError(path, "line %d: genetic position %v decreases from %v", lineNo, gp, gm.GeneticPosition[n-1])
		}
		gm.GeneticPosition = append(gm.GeneticPosition, gp)
		gm.PhysicalPosition = append(gm.PhysicalPosition, pp)
	}
	if err := scanner.Err(); err != nil {
		return nil, newIoError(path, err)
	}
	return gm, nil
}
