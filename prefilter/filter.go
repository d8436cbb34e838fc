package prefilter

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Sentinel comments fencing GitHub-only content.
const (
	StartGitHubOnly = "[//]: # ( Start GitHub Only )"
	EndGitHubOnly   = "[//]: # ( End GitHub Only )"
)

var (
	// ErrUnknownMode is returned by [ParseMode] for unrecognized names.
	ErrUnknownMode = errors.New("unknown mode")
	// ErrUnterminatedFence indicates the input ended inside a GitHub-only
	// fence.
	ErrUnterminatedFence = errors.New("unterminated GitHub-only fence")
	// ErrRead wraps failures reading input.
	ErrRead = errors.New("read input")
	// ErrWrite wraps failures writing output.
	ErrWrite = errors.New("write output")
)

var (
	// directiveRe matches a Doxygen command wrapped in a Markdown comment.
	// The envelope spacing is exact; anything looser is left alone.
	directiveRe = regexp.MustCompile(`\[//\]: # \( @(\w+?.*) \)`)

	// headingDirectiveRe matches commands that are followed by a duplicate
	// Markdown heading.
	headingDirectiveRe = regexp.MustCompile(`^\[//\]: # \( @(?:mainpage|page|paragraph|.*section)`)
)

// DefaultCodeLanguages returns the fence languages mapped to @code blocks
// when [WithCodeLanguages] is not used.
func DefaultCodeLanguages() []string {
	return []string{"ini", "cpp"}
}

// Filter converts Markdown lines into Doxygen markup.
//
// Create instances with [New].
type Filter struct {
	fences            *strings.Replacer
	mode              Mode
	languages         []string
	allowUnterminated bool
}

// Option configures a [Filter].
type Option func(*Filter)

// WithMode sets the output mode. The default is [ModeAggregate].
func WithMode(m Mode) Option {
	return func(f *Filter) {
		f.mode = m
	}
}

// WithCodeLanguages sets the fence languages that become @code{.<lang>}
// blocks. Empty names are ignored.
func WithCodeLanguages(langs ...string) Option {
	return func(f *Filter) {
		f.languages = langs
	}
}

// WithAllowUnterminated controls whether input ending inside a GitHub-only
// fence is accepted silently. By default it is reported as
// [ErrUnterminatedFence].
func WithAllowUnterminated(allow bool) Option {
	return func(f *Filter) {
		f.allowUnterminated = allow
	}
}

// New creates a [Filter] with the given options.
func New(opts ...Option) *Filter {
	f := &Filter{
		mode:      ModeAggregate,
		languages: DefaultCodeLanguages(),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.languages = normalizeLanguages(f.languages)
	f.fences = newFenceReplacer(f.languages)

	return f
}

// Mode returns the configured output mode.
func (f *Filter) Mode() Mode {
	return f.mode
}

// Languages returns the fence languages mapped to @code blocks, longest
// first.
func (f *Filter) Languages() []string {
	return slices.Clone(f.languages)
}

// Rewrite applies the directive, fence, and mode substitutions to a single
// line of content. It does not look at or change any [State].
func (f *Filter) Rewrite(content string) string {
	out := directiveRe.ReplaceAllString(content, "@$1")
	out = f.fences.Replace(out)

	if f.mode == ModePerExample {
		out = strings.ReplaceAll(out, "@page", "@section")
	}

	return out
}

// Transform filters lines, each of which carries its own line terminator
// (see [SplitLines]). The returned slice holds only emitted lines.
//
// If the input ends inside a GitHub-only fence, the lines emitted so far are
// returned together with an error wrapping [ErrUnterminatedFence], unless the
// filter was built with [WithAllowUnterminated].
func (f *Filter) Transform(lines []string) ([]string, error) {
	r := f.newRun()
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		text, emit := r.feed(line)
		if emit {
			out = append(out, text)
		}
	}

	return out, r.finish()
}

// TransformString is a convenience wrapper around [Filter.Transform] for
// whole documents.
func (f *Filter) TransformString(s string) (string, error) {
	out, err := f.Transform(SplitLines(s))

	return strings.Join(out, ""), err
}

// IsSentinel reports whether line contains either GitHub-only sentinel.
func IsSentinel(line string) bool {
	return strings.Contains(line, StartGitHubOnly) || strings.Contains(line, EndGitHubOnly)
}

// State is the per-document filter state.
type State struct {
	// Suppressed is true inside a GitHub-only fence.
	Suppressed bool
	// SkipNext drops exactly one following line.
	SkipNext bool
}

// Step processes one line. It returns the rewritten line, whether it should be
// emitted, and the state for the following line. Step never modifies s.
func (s State) Step(f *Filter, line string) (string, bool, State) {
	content, eol := cutEOL(line)
	emit := !s.Suppressed && !s.SkipNext && !IsSentinel(line)

	var out string
	if emit {
		out = f.Rewrite(content) + eol
	}

	next := State{Suppressed: s.Suppressed}

	if headingDirectiveRe.MatchString(line) {
		next.SkipNext = true
	}

	if strings.Contains(line, StartGitHubOnly) {
		next.Suppressed = true
	}

	if strings.Contains(line, EndGitHubOnly) {
		next.Suppressed = false
	}

	return out, emit, next
}

// Stats counts what happened to the lines of one document.
// Read always equals Emitted + Suppressed + Skipped.
type Stats struct {
	Read       int
	Emitted    int
	Suppressed int
	Skipped    int
}

// run carries a [State] through one document.
type run struct {
	f        *Filter
	state    State
	stats    Stats
	openedAt int
}

func (f *Filter) newRun() *run {
	return &run{f: f}
}

func (r *run) feed(line string) (string, bool) {
	prev := r.state
	r.stats.Read++

	text, emit, next := prev.Step(r.f, line)

	switch {
	case emit:
		r.stats.Emitted++
	case prev.Suppressed || IsSentinel(line):
		r.stats.Suppressed++
	default:
		r.stats.Skipped++
	}

	if !prev.Suppressed && next.Suppressed {
		r.openedAt = r.stats.Read
	}

	r.state = next

	return text, emit
}

func (r *run) finish() error {
	if r.state.Suppressed && !r.f.allowUnterminated {
		return fmt.Errorf("%w: opened on line %d", ErrUnterminatedFence, r.openedAt)
	}

	return nil
}

func normalizeLanguages(langs []string) []string {
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		l = strings.TrimSpace(l)
		if l != "" && !slices.Contains(out, l) {
			out = append(out, l)
		}
	}

	// Longer tags first so that "cpp" wins over a configured "c".
	slices.SortStableFunc(out, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})

	return out
}

func newFenceReplacer(langs []string) *strings.Replacer {
	pairs := make([]string, 0, 2*len(langs)+2)
	for _, l := range langs {
		pairs = append(pairs, "```"+l, "@code{."+l+"}")
	}

	pairs = append(pairs, "```", "@endcode")

	return strings.NewReplacer(pairs...)
}
