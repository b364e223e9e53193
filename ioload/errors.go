package ioload

import (
	"fmt"
	"runtime"

	"github.com/pkg/errors"
)

func callSite(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown:0"
	}
	return fmt.Sprintf("%s:%d", file, line)
}

// InputError reports malformed content in a manifest, genetic map, or
// haplotype matrix file: a header that doesn't parse, a row with the wrong
// number of fields, a value that doesn't parse as a number.
type InputError struct {
	Site  string
	Path  string
	cause error
}

func newInputError(path, format string, args ...interface{}) *InputError {
	return &InputError{Site: callSite(1), Path: path, cause: errors.Errorf(format, args...)}
}

func (e *InputError) Error() string {
	return fmt.Sprintf("ioload: input error at %s (%s): %v", e.Site, e.Path, e.cause)
}

func (e *InputError) Unwrap() error { return e.cause }

// IoError reports a failure to open, read, or close an underlying file or
// object store handle, wrapping the OS or SDK error that caused it.
type IoError struct {
	Site  string
	Path  string
	cause error
}

func newIoError(path string, cause error) *IoError {
	return &IoError{Site: callSite(1), Path: path, cause: cause}
}

func (e *IoError) Error() string {
	return fmt.Sprintf("ioload: io error at %s (%s): %v", e.Site, e.Path, e.cause)
}

func (e *IoError) Unwrap() error { return e.cause }
