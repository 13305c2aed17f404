package pipeline

import (
	"fmt"

	"github.com/apeiron-tech/Immoxperts-sub001/internal/place"
)

// Summary tracks counts from one command run.
type Summary struct {
	Before             int
	Fetched            int
	Skipped            int
	Merged             int
	Purged             int
	Added              int
	Removed            int
	After              int
	MissingCoordinates int
	// Written is false when the command left the file untouched.
	Written bool
	Errors  []string
}

// Finish records the final dataset size and the unresolved coordinate count.
func (s *Summary) Finish(records []place.Record) {
	s.After = len(records)
	s.MissingCoordinates = place.CountMissingCoordinates(records)
}

// AddErrorf records a formatted error message.
func (s *Summary) AddErrorf(format string, args ...interface{}) {
	s.Errors = append(s.Errors, fmt.Sprintf(format, args...))
}

// String returns a human-readable summary of the run.
func (s *Summary) String() string {
	return fmt.Sprintf(
		"before=%d fetched=%d skipped=%d merged=%d purged=%d added=%d removed=%d after=%d missing_coordinates=%d written=%t errors=%d",
		s.Before, s.Fetched, s.Skipped, s.Merged, s.Purged, s.Added, s.Removed,
		s.After, s.MissingCoordinates, s.Written, len(s.Errors),
	)
}
