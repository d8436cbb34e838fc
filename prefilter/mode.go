package prefilter

import (
	"fmt"
	"strings"
)

// Mode selects how directives are mapped for a particular output document.
type Mode string

const (
	// ModeAggregate produces a single combined documentation unit.
	ModeAggregate Mode = "aggregate"
	// ModePerExample produces one documentation unit per source document.
	ModePerExample Mode = "per-example"
)

// AllModes lists the recognized modes.
func AllModes() []string {
	return []string{string(ModeAggregate), string(ModePerExample)}
}

// ParseMode parses a mode name, ignoring case.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeAggregate:
		return ModeAggregate, nil
	case ModePerExample:
		return ModePerExample, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// String implements [fmt.Stringer] and [github.com/spf13/pflag.Value].
func (m *Mode) String() string {
	if *m == "" {
		return string(ModeAggregate)
	}

	return string(*m)
}

// Set implements [github.com/spf13/pflag.Value].
func (m *Mode) Set(s string) error {
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}

// Type implements [github.com/spf13/pflag.Value].
func (m *Mode) Type() string {
	return "mode"
}
