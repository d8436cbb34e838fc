package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"go.jacobcolvin.com/doxprep/config"
	"go.jacobcolvin.com/doxprep/textdiff"
)

// Driver runs the filter and the repair over sets of files.
//
// Create instances with [New].
type Driver struct {
	logger   *slog.Logger
	out      io.Writer
	printer  *textdiff.Printer
	examples config.Examples
	xml      config.XML
	jobs     int
	debounce time.Duration
	diff     bool
	list     bool
}

// Option configures a [Driver].
type Option func(*Driver)

// WithLogger sets the logger. The default discards all records.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = l
	}
}

// WithOutput sets where list and diff previews are written. The default is
// [io.Discard].
func WithOutput(w io.Writer) Option {
	return func(d *Driver) {
		d.out = w
	}
}

// WithColor enables colored diff output.
func WithColor(colored bool) Option {
	return func(d *Driver) {
		d.printer = textdiff.NewPrinter(colored)
	}
}

// WithJobs sets how many items are processed at once. Values below 1 mean
// sequential processing. Results are always returned in input order.
func WithJobs(n int) Option {
	return func(d *Driver) {
		d.jobs = max(n, 1)
	}
}

// WithDiff prints a diff of each change instead of writing files.
func WithDiff(diff bool) Option {
	return func(d *Driver) {
		d.diff = diff
	}
}

// WithList prints the path of each file that would change instead of
// writing files.
func WithList(list bool) Option {
	return func(d *Driver) {
		d.list = list
	}
}

// WithExamples sets the conversion settings.
func WithExamples(e config.Examples) Option {
	return func(d *Driver) {
		d.examples = e
	}
}

// WithXML sets the repair settings.
func WithXML(x config.XML) Option {
	return func(d *Driver) {
		d.xml = x
	}
}

// WithDebounce sets how long [Driver.WatchExamples] waits for further file
// events before running.
func WithDebounce(dur time.Duration) Option {
	return func(d *Driver) {
		d.debounce = dur
	}
}

// New creates a [Driver]. Conversion and repair settings default to
// [config.Default].
func New(opts ...Option) *Driver {
	def := config.Default()

	d := &Driver{
		logger:   slog.New(slog.DiscardHandler),
		out:      io.Discard,
		printer:  textdiff.NewPrinter(false),
		examples: def.Examples,
		xml:      def.XML,
		jobs:     1,
		debounce: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// preview reports whether files should be left untouched.
func (d *Driver) preview() bool {
	return d.diff || d.list
}

// forEach runs fn for indexes [0, n) with at most d.jobs in flight and
// returns the results in index order. Items not started before ctx is done
// report the context error.
func (d *Driver) forEach(ctx context.Context, paths []string, fn func(i int) ItemResult) []ItemResult {
	results := make([]ItemResult, len(paths))

	var g errgroup.Group
	g.SetLimit(d.jobs)

	for i := range paths {
		g.Go(func() error {
			err := ctx.Err()
			if err != nil {
				results[i] = ItemResult{Path: paths[i], Err: err}

				return nil
			}

			results[i] = fn(i)

			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // Item errors are kept in results.

	return results
}

// report logs each result and writes previews in input order.
func (d *Driver) report(action string, results []ItemResult) {
	for _, r := range results {
		if r.Err != nil {
			d.logger.Error(action+" failed", slog.String("path", r.Path), slog.Any("err", r.Err))

			continue
		}

		d.logger.Debug(action,
			slog.String("path", r.Path),
			slog.String("output", r.Output),
			slog.Bool("changed", r.Changed),
			slog.Int("fixes", len(r.Fixes)),
		)

		if !r.Changed {
			continue
		}

		switch {
		case d.list:
			fmt.Fprintln(d.out, r.Output)
		case d.diff:
			_, err := io.WriteString(d.out, r.diff)
			if err != nil {
				d.logger.Error("write diff", slog.Any("err", err))
			}
		}
	}

	s := Summarize(results)
	d.logger.Info(action+" done",
		slog.Int("total", s.Total),
		slog.Int("changed", s.Changed),
		slog.Int("failed", s.Failed),
	)
}
