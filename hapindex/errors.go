package hapindex

import (
	"fmt"
	"runtime"

	"github.com/pkg/errors"
)

// The original C++ implementation stamps __FILE__:__LINE__ into every thrown
// std::logic_error via a make_error() macro (see
// src/hashing/FileUtils.hpp in the original source). callSite reproduces
// that by capturing the caller's location explicitly rather than relying on
// a panic's implicit stack trace, so the location survives as part of the
// returned error value.
func callSite(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown:0"
	}
	return fmt.Sprintf("%s:%d", file, line)
}

// ConfigError reports an invalid construction or query parameter: an
// out-of-range word size, an unrecognized mode, an out-of-range haplotype
// ID, or a duplicate registration.
type ConfigError struct {
	Site  string
	cause error
}

func newConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Site: callSite(1), cause: errors.Errorf(format, args...)}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("hapindex: config error at %s: %v", e.Site, e.cause)
}

func (e *ConfigError) Unwrap() error { return e.cause }
