package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.jacobcolvin.com/doxprep/config"
	"go.jacobcolvin.com/doxprep/prefilter"
)

// Source is one Markdown document to convert.
type Source struct {
	// Path is relative to the examples root.
	Path string
	Mode prefilter.Mode
}

// Header and footer wrapped around every .dox file.
const (
	DoxHeader = "/**\n"
	DoxFooter = "\n*/\n\n"
)

// SourcesFromConfig returns the configured sources, or discovers them with
// [DiscoverSources] when none are listed.
func SourcesFromConfig(e config.Examples) ([]Source, error) {
	if len(e.Sources) == 0 {
		return DiscoverSources(e.Root, e.Readme)
	}

	out := make([]Source, 0, len(e.Sources))

	for _, s := range e.Sources {
		mode, err := s.ParseMode()
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", s.Path, err)
		}

		out = append(out, Source{Path: filepath.FromSlash(s.Path), Mode: mode})
	}

	return out, nil
}

// DiscoverSources lists root/readme as an aggregate source followed by
// root/<dir>/readme for every example directory, in name order.
func DiscoverSources(root, readme string) ([]Source, error) {
	var out []Source

	if isFile(filepath.Join(root, readme)) {
		out = append(out, Source{Path: readme, Mode: prefilter.ModeAggregate})
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDiscover, err)
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		p := filepath.Join(e.Name(), readme)
		if isFile(filepath.Join(root, p)) {
			out = append(out, Source{Path: p, Mode: prefilter.ModePerExample})
		}
	}

	return out, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

// OutputName returns the .dox file name for src and, for per-example
// sources, the example file name Doxygen registers it under.
//
// For "a_wild_card/ReadMe.md" that is "a_wild_card.dox" and "a_wild_card.ino".
// Aggregate sources are all written to the aggregate name.
func OutputName(src Source, aggregate string) (string, string) {
	if src.Mode != prefilter.ModePerExample {
		return aggregate, ""
	}

	dir := filepath.ToSlash(filepath.Dir(filepath.Clean(src.Path)))

	return strings.ReplaceAll(dir, "/", "_") + ".dox", dir + ".ino"
}

// Decorate wraps a filtered body in a Doxygen comment block. When exampleID
// is set, an @example registration line followed by navigation is added.
func Decorate(body, exampleID, navigation string) string {
	var b strings.Builder

	b.WriteString(DoxHeader)

	if exampleID != "" {
		b.WriteString("@example{lineno} ")
		b.WriteString(exampleID)
		b.WriteString(" ")

		if navigation != "" {
			b.WriteString(navigation)
			b.WriteString(" ")
		}

		b.WriteString("\n\n")
	}

	b.WriteString(body)
	b.WriteString(DoxFooter)

	return b.String()
}

// RunExamples converts the configured sources.
func (d *Driver) RunExamples(ctx context.Context) ([]ItemResult, error) {
	sources, err := SourcesFromConfig(d.examples)
	if err != nil {
		return nil, err
	}

	return d.RunLineFilterOverSet(ctx, sources), nil
}

// RunLineFilterOverSet converts each source into a .dox file in the output
// directory. Sources are processed in order unless [WithJobs] allows more.
// Two sources that map to the same output file are an error for the later
// one.
func (d *Driver) RunLineFilterOverSet(ctx context.Context, sources []Source) []ItemResult {
	paths := make([]string, len(sources))
	owner := make(map[string]string, len(sources))
	collide := make(map[int]error)

	for i, src := range sources {
		paths[i] = filepath.Join(d.examples.Root, src.Path)

		name, _ := OutputName(src, d.examples.Aggregate)
		if prev, ok := owner[name]; ok {
			collide[i] = fmt.Errorf("output %s is also written by %s", name, prev)

			continue
		}

		owner[name] = paths[i]
	}

	results := d.forEach(ctx, paths, func(i int) ItemResult {
		if err, ok := collide[i]; ok {
			return ItemResult{Path: paths[i], Err: err}
		}

		return d.convert(sources[i], paths[i])
	})

	d.report("convert", results)

	return results
}

func (d *Driver) convert(src Source, in string) ItemResult {
	name, exampleID := OutputName(src, d.examples.Aggregate)
	res := ItemResult{Path: in, Output: filepath.Join(d.examples.Output, name)}

	data, err := os.ReadFile(in) //nolint:gosec // Paths come from configuration.
	if err != nil {
		res.Err = fmt.Errorf("%w: %w", ErrReadSource, err)

		return res
	}

	opts := append(d.examples.FilterOptions(), prefilter.WithMode(src.Mode))

	var body strings.Builder

	res.Stats, err = prefilter.New(opts...).Copy(&body, bytes.NewReader(data))
	if err != nil {
		res.Err = err

		return res
	}

	return d.write(res, Decorate(body.String(), exampleID, d.examples.Navigation), false)
}

// write stores content at res.Output unless it is already there or the
// driver is previewing.
func (d *Driver) write(res ItemResult, content string, keepOriginal bool) ItemResult {
	existing, err := os.ReadFile(res.Output)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		res.Err = fmt.Errorf("%w: %w", ErrReadSource, err)

		return res
	}

	res.Changed = err != nil || string(existing) != content
	if !res.Changed {
		return res
	}

	if d.diff {
		var buf bytes.Buffer

		err = d.printer.Write(&buf, filepath.ToSlash(res.Output), string(existing), content)
		if err != nil {
			res.Err = err

			return res
		}

		res.diff = buf.String()
	}

	if d.preview() {
		return res
	}

	err = os.MkdirAll(filepath.Dir(res.Output), 0o755)
	if err != nil {
		res.Err = fmt.Errorf("%w: %w", ErrReplace, err)

		return res
	}

	err = ReplaceFile(res.Output, []byte(content), keepOriginal)
	if err != nil {
		res.Err = err
	}

	return res
}
