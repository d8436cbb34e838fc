package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrWatch wraps failures setting up or running a file watch.
var ErrWatch = errors.New("watch")

// Watch calls fn with the paths among files that were written or created,
// once no further events arrived for debounce. Parent directories are
// watched so that editors replacing a file by rename are seen.
//
// Watch blocks until ctx is done, and returns nil in that case.
func Watch(ctx context.Context, files []string, debounce time.Duration, fn func(changed []string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWatch, err)
	}

	defer w.Close() //nolint:errcheck // Nothing to report on shutdown.

	wanted := make(map[string]bool, len(files))
	dirs := make(map[string]bool)

	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrWatch, err)
		}

		wanted[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for _, dir := range slices.Sorted(maps.Keys(dirs)) {
		err := w.Add(dir)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWatch, dir, err)
		}
	}

	var (
		pending = make(map[string]bool)
		timer   *time.Timer
		fire    <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}

			name := filepath.Clean(ev.Name)
			if !wanted[name] {
				continue
			}

			pending[name] = true

			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}

			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			return fmt.Errorf("%w: %w", ErrWatch, err)

		case <-fire:
			fire = nil
			changed := slices.Sorted(maps.Keys(pending))
			clear(pending)
			fn(changed)
		}
	}
}

// WatchExamples converts sources once, then again each time one of them
// changes, until ctx is done. Only the changed sources are converted again.
func (d *Driver) WatchExamples(ctx context.Context, sources []Source) error {
	d.RunLineFilterOverSet(ctx, sources)

	bySource := make(map[string]Source, len(sources))
	files := make([]string, 0, len(sources))

	for _, src := range sources {
		in := filepath.Join(d.examples.Root, src.Path)

		abs, err := filepath.Abs(in)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrWatch, err)
		}

		bySource[abs] = src
		files = append(files, in)
	}

	d.logger.Info("watching", slog.Int("files", len(files)))

	return Watch(ctx, files, d.debounce, func(changed []string) {
		subset := make([]Source, 0, len(changed))
		for _, p := range changed {
			subset = append(subset, bySource[p])
		}

		d.RunLineFilterOverSet(ctx, subset)
	})
}
