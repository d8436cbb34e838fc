// Package textdiff prints unified line diffs of generated files, used by the
// preview modes of the doxprep commands.
package textdiff

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/term"
)

// ColorMode controls colored output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ErrUnknownColorMode is returned by [ParseColorMode].
var ErrUnknownColorMode = errors.New("unknown color mode")

// AllColorModes lists the accepted color mode names.
func AllColorModes() []string {
	return []string{string(ColorAuto), string(ColorAlways), string(ColorNever)}
}

// ParseColorMode parses a color mode name.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(s)); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownColorMode, s)
}

// Enabled reports whether output written to w should be colored.
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // File descriptors fit in int.
}

// DefaultContext is the number of unchanged lines shown around each change.
const DefaultContext = 3

// Printer writes diffs.
type Printer struct {
	del     *color.Color
	ins     *color.Color
	hdr     *color.Color
	Context int
}

// NewPrinter creates a [Printer]. When colored is false no escape sequences
// are written, regardless of the global [color.NoColor] setting.
func NewPrinter(colored bool) *Printer {
	p := &Printer{
		del:     color.New(color.FgRed),
		ins:     color.New(color.FgGreen),
		hdr:     color.New(color.FgCyan),
		Context: DefaultContext,
	}

	for _, c := range []*color.Color{p.del, p.ins, p.hdr} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

type diffLine struct {
	text string
	op   diffmatchpatch.Operation
	// 1-based line numbers in before and after at which this line sits.
	oldNo int
	newNo int
}

// Write writes a unified diff of before and after to w. Nothing is written
// when they are equal.
func (p *Printer) Write(w io.Writer, name, before, after string) error {
	if before == after {
		return nil
	}

	lines := diffLines(before, after)

	var b strings.Builder

	p.hdr.Fprintf(&b, "--- a/%s\n+++ b/%s\n", name, name)

	for _, h := range hunks(lines, max(p.Context, 0)) {
		p.writeHunk(&b, lines[h[0]:h[1]])
	}

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("write diff: %w", err)
	}

	return nil
}

func (p *Printer) writeHunk(b *strings.Builder, lines []diffLine) {
	var oldCount, newCount int

	for _, l := range lines {
		if l.op != diffmatchpatch.DiffInsert {
			oldCount++
		}

		if l.op != diffmatchpatch.DiffDelete {
			newCount++
		}
	}

	p.hdr.Fprintf(b, "@@ -%d,%d +%d,%d @@\n", lines[0].oldNo, oldCount, lines[0].newNo, newCount)

	for _, l := range lines {
		text := l.text
		if !strings.HasSuffix(text, "\n") {
			text += "\n\\ No newline at end of file\n"
		}

		switch l.op {
		case diffmatchpatch.DiffDelete:
			p.del.Fprint(b, "-"+text)
		case diffmatchpatch.DiffInsert:
			p.ins.Fprint(b, "+"+text)
		default:
			b.WriteString(" " + text)
		}
	}
}

func diffLines(before, after string) []diffLine {
	dmp := diffmatchpatch.New()
	a, b, table := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), table)

	var (
		out          []diffLine
		oldNo, newNo = 1, 1
	)

	for _, d := range diffs {
		for text := range strings.Lines(d.Text) {
			out = append(out, diffLine{text: text, op: d.Type, oldNo: oldNo, newNo: newNo})

			switch d.Type {
			case diffmatchpatch.DiffDelete:
				oldNo++
			case diffmatchpatch.DiffInsert:
				newNo++
			default:
				oldNo++
				newNo++
			}
		}
	}

	return out
}

// hunks returns [start, end) ranges of lines covering every change plus
// context lines on both sides. Overlapping ranges are merged.
func hunks(lines []diffLine, context int) [][2]int {
	var out [][2]int

	for i, l := range lines {
		if l.op == diffmatchpatch.DiffEqual {
			continue
		}

		start := max(i-context, 0)
		end := min(i+context+1, len(lines))

		if n := len(out); n > 0 && start <= out[n-1][1] {
			out[n-1][1] = max(out[n-1][1], end)

			continue
		}

		out = append(out, [2]int{start, end})
	}

	return out
}
