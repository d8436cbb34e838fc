// Package stringtest builds multi-line fixtures for tests.
package stringtest

import "strings"

// Input dedents a raw string literal so fixtures can be indented with the
// surrounding test code.
//
// One leading and one trailing newline are removed, whitespace-only lines
// become empty, and the longest indentation prefix shared by every other line
// is stripped.
//
// Example:
//
//	xml := stringtest.Input(`
//		<doxygen>
//		  <compounddef id="a_8ino-example"/>
//		</doxygen>`,
//	) // -> "<doxygen>\n  <compounddef id=\"a_8ino-example\"/>\n</doxygen>"
func Input(s string) string {
	s = strings.TrimPrefix(s, "\n")
	s = strings.TrimSuffix(s, "\n")

	lines := strings.Split(s, "\n")

	var (
		prefix string
		seen   bool
	)

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""

			continue
		}

		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if !seen {
			prefix = indent
			seen = true

			continue
		}

		prefix = commonPrefix(prefix, indent)
	}

	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}

	return strings.Join(lines, "\n")
}

// JoinLF joins multiple strings with LF line endings.
// Use this to construct expected test output with explicit line endings.
//
// Example:
//
//	want := stringtest.JoinLF(
//		"line1",
//		"line2",
//		"line3",
//	) // -> "line1\nline2\nline3"
func JoinLF(ss ...string) string {
	return strings.Join(ss, "\n")
}

// JoinCRLF joins multiple strings with CRLF line endings.
func JoinCRLF(ss ...string) string {
	return strings.Join(ss, "\r\n")
}

// Lines returns each string terminated by "\n", in the shape produced by
// splitting a document while keeping line terminators.
func Lines(ss ...string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s + "\n"
	}

	return out
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return a[:i]
		}
	}

	return a[:n]
}
