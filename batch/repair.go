package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.jacobcolvin.com/doxprep/sectionid"
)

// FindArtifacts lists the regular files in dir whose names end in suffix,
// in name order.
func FindArtifacts(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDiscover, err)
	}

	var out []string

	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), suffix) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}

	return out, nil
}

// RunRepair repairs the artifacts found in each of dirs, or in the
// configured XML directory when dirs is empty.
func (d *Driver) RunRepair(ctx context.Context, dirs ...string) ([]ItemResult, error) {
	if len(dirs) == 0 {
		dirs = []string{d.xml.Dir}
	}

	var paths []string

	for _, dir := range dirs {
		found, err := FindArtifacts(dir, d.xml.Suffix)
		if err != nil {
			return nil, err
		}

		paths = append(paths, found...)
	}

	return d.RunRepairOverSet(ctx, paths), nil
}

// RunRepairOverSet repairs each XML artifact in place. Artifacts without
// misplaced section ids are not written.
func (d *Driver) RunRepairOverSet(ctx context.Context, paths []string) []ItemResult {
	r := sectionid.New(sectionid.WithMarker(d.xml.Marker))

	results := d.forEach(ctx, paths, func(i int) ItemResult {
		return d.repair(r, paths[i])
	})

	d.report("repair", results)

	return results
}

func (d *Driver) repair(r *sectionid.Repairer, path string) ItemResult {
	res := ItemResult{Path: path, Output: path}

	data, err := os.ReadFile(path) //nolint:gosec // Paths come from configuration.
	if err != nil {
		res.Err = fmt.Errorf("%w: %w", ErrReadSource, err)

		return res
	}

	out, repaired, err := r.RepairBytes(data)
	if err != nil {
		res.Err = err

		return res
	}

	res.Fixes = repaired.Fixes

	for _, fix := range repaired.Fixes {
		d.logger.Debug("section id",
			slog.String("path", path),
			slog.Int("level", fix.Level),
			slog.String("old", fix.OldID),
			slog.String("new", fix.NewID),
		)
	}

	if !repaired.Changed {
		return res
	}

	return d.write(res, string(out), d.xml.KeepOriginal)
}
