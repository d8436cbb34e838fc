package prefilter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// SplitLines splits s into lines, keeping each line's terminator.
// The final line has no terminator if s does not end with a newline.
func SplitLines(s string) []string {
	return slices.Collect(strings.Lines(s))
}

// cutEOL separates a trailing "\n" or "\r\n" from line.
func cutEOL(line string) (string, string) {
	if content, ok := strings.CutSuffix(line, "\r\n"); ok {
		return content, "\r\n"
	}

	if content, ok := strings.CutSuffix(line, "\n"); ok {
		return content, "\n"
	}

	return line, ""
}

// Copy streams r through the filter into w and reports what happened to each
// line. Line terminators are copied verbatim.
//
// Errors from r and w are wrapped in [ErrRead] and [ErrWrite]. An unterminated
// GitHub-only fence is reported after all emitted output has been flushed.
func (f *Filter) Copy(w io.Writer, r io.Reader) (Stats, error) {
	run := f.newRun()
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	for {
		line, readErr := br.ReadString('\n')
		if line != "" {
			text, emit := run.feed(line)
			if emit {
				_, err := bw.WriteString(text)
				if err != nil {
					return run.stats, fmt.Errorf("%w: %w", ErrWrite, err)
				}
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return run.stats, fmt.Errorf("%w: line %d: %w", ErrRead, run.stats.Read+1, readErr)
		}
	}

	err := bw.Flush()
	if err != nil {
		return run.stats, fmt.Errorf("%w: %w", ErrWrite, err)
	}

	return run.stats, run.finish()
}
