package engine

import "errors"

// Run outcomes. None of them leave an output file behind.
var (
	ErrInputNotFound      = errors.New("input file not found")
	ErrInputRead          = errors.New("read input failed")
	ErrNoMatches          = errors.New("no records found for speaker")
	ErrAllContentFiltered = errors.New("all records were empty after cleaning")
	ErrOutputWrite        = errors.New("write output failed")
)

// IsWarning reports whether err is a "nothing to do" outcome rather than a
// failure.
func IsWarning(err error) bool {
	return errors.Is(err, ErrNoMatches) || errors.Is(err, ErrAllContentFiltered)
}
