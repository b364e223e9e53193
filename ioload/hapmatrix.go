package ioload

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	grailerrors "github.com/grailbio/base/errors"
)

// StreamHapMatrix opens rootPath's .hap[s][.gz] file (trying, in order,
// ".hap.gz", ".hap", ".haps.gz", ".haps") and streams its rows as
// []bool site vectors on the returned channel, one per site, in file
// order, each of length numHaps: element h is true iff haplotype h carries
// allele 1 at that site. This matches hapindex.New's siteStream contract
// directly, so the two are meant to be wired back to back.
//
// The channel is closed once the file is exhausted, ctx is cancelled, or a
// parse error is hit; in every case the caller must call the returned Err
// func after the channel drains to learn whether the stream ended cleanly.
func StreamHapMatrix(ctx context.Context, rootPath string, numHaps int) (<-chan []bool, func() error) {
	out := make(chan []bool, 64)
	errs := new(grailerrors.Once)

	r, path, err := openFirstExisting(
		rootPath+".hap.gz", rootPath+".hap",
		rootPath+".haps.gz", rootPath+".haps",
	)
	if err != nil {
		errs.Set(err)
		close(out)
		return out, errs.Err
	}

	go func() {
		defer func() {
			close(out)
			r.Close()
		}()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)
		lineNo := 0
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				errs.Set(newIoError(path, ctx.Err()))
				return
			default:
			}
			lineNo++
			row, err := parseHapRow(scanner.Text(), numHaps)
			if err != nil {
				errs.Set(newInputError(path, "line %d: %v", lineNo, err))
				return
			}
			if row == nil {
				// Blank line: skip without counting it as a site, matching
				// the original parser's empty-first-field check.
				continue
			}
			select {
			case out <- row:
			case <-ctx.Done():
				errs.Set(newIoError(path, ctx.Err()))
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errs.Set(newIoError(path, err))
		}
	}()

	return out, errs.Err
}

// parseHapRow parses one .hap line: five metadata fields (chromosome,
// marker ID, position, allele 0, allele 1) followed by exactly numHaps
// '0'/'1' genotype fields.
func parseHapRow(line string, numHaps int) ([]bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}
	if len(fields) != 5+numHaps {
		return nil, fmt.Errorf("want 5+%d=%d fields, got %d", numHaps, 5+numHaps, len(fields))
	}
	row := make([]bool, numHaps)
	for h, f := range fields[5:] {
		switch f {
		case "1":
			row[h] = true
		case "0":
			row[h] = false
		default:
			return nil, fmt.Errorf("haplotype %d: want '0' or '1', got %q", h, f)
		}
	}
	return row, nil
}
