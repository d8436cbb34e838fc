package batch

import (
	"errors"
	"fmt"

	"go.jacobcolvin.com/doxprep/prefilter"
	"go.jacobcolvin.com/doxprep/sectionid"
)

var (
	// ErrReplace wraps failures replacing a file on disk.
	ErrReplace = errors.New("replace file")
	// ErrReadSource wraps failures reading an input file.
	ErrReadSource = errors.New("read source")
	// ErrDiscover wraps failures listing inputs.
	ErrDiscover = errors.New("discover inputs")
)

// ItemResult is the outcome for one input.
type ItemResult struct {
	Err error
	// Path is the input file.
	Path string
	// Output is the file written, or that would be written.
	Output string
	// diff is the rendered preview diff, printed in input order.
	diff  string
	Fixes []sectionid.Fix
	Stats prefilter.Stats
	// Changed is true if Output differs, or would differ, from what was on
	// disk before the run.
	Changed bool
}

// Errors joins the errors of all failed items, each prefixed with its path.
// It returns nil when every item succeeded.
func Errors(results []ItemResult) error {
	var errs []error

	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Path, r.Err))
		}
	}

	return errors.Join(errs...)
}

// Summary counts results by outcome.
type Summary struct {
	Total   int
	Changed int
	Failed  int
}

// Summarize counts results by outcome.
func Summarize(results []ItemResult) Summary {
	s := Summary{Total: len(results)}

	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Failed++
		case r.Changed:
			s.Changed++
		}
	}

	return s
}
