package ioload

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// candidateCloser wraps a gzip reader so that Close releases both the
// decompressor and the underlying file handle, whichever was opened.
type candidateCloser struct {
	io.Reader
	closers []io.Closer
}

func (c *candidateCloser) Close() error {
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openFirstExisting tries each candidate path in order and opens the first
// one that exists, transparently wrapping it in a gzip reader if its name
// ends in ".gz". It mirrors the original's cascading fileExists checks
// across a manifest's accepted suffixes (".sample"/".samples",
// ".map"/".map.gz", ".hap"/".haps"/".hap.gz"/".haps.gz").
func openFirstExisting(candidates ...string) (io.ReadCloser, string, error) {
	for _, path := range candidates {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, "", newIoError(path, err)
		}
		if strings.HasSuffix(path, ".gz") {
			gz, err := gzip.NewReader(f)
			if err != nil {
				f.Close()
				return nil, "", newIoError(path, err)
			}
			return &candidateCloser{Reader: gz, closers: []io.Closer{f, gz}}, path, nil
		}
		return f, path, nil
	}
	return nil, "", newIoError(strings.Join(candidates, ", "), os.ErrNotExist)
}
