package batch

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/doxprep/config"
	"go.jacobcolvin.com/doxprep/textdiff"
)

// Flags holds CLI flag names for driver configuration.
type Flags struct {
	Jobs     string
	Diff     string
	List     string
	Color    string
	Debounce string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds CLI flag values for a [Driver].
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags].
type Config struct {
	Flags    Flags
	Color    string
	Debounce time.Duration
	Jobs     int
	Diff     bool
	List     bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Jobs:     "jobs",
		Diff:     "diff",
		List:     "list",
		Color:    "color",
		Debounce: "debounce",
	}

	return f.NewConfig()
}

// RegisterFlags adds the preview and concurrency flags to flags.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.IntVarP(&c.Jobs, c.Flags.Jobs, "j", 1,
		"number of files processed at once")
	flags.BoolVarP(&c.Diff, c.Flags.Diff, "d", false,
		"diff mode: show changes without writing")
	flags.BoolVarP(&c.List, c.Flags.List, "l", false,
		"list mode: only list files that would change")
	flags.DurationVar(&c.Debounce, c.Flags.Debounce, 200*time.Millisecond,
		"quiet period before a watched change is converted")
}

// RegisterColorFlag adds the color flag to flags. It is separate from
// [Config.RegisterFlags] so it can be registered once as a persistent flag.
func (c *Config) RegisterColorFlag(flags *pflag.FlagSet) {
	flags.StringVar(&c.Color, c.Flags.Color, string(textdiff.ColorAuto),
		fmt.Sprintf("diff color, one of: %s", textdiff.AllColorModes()))
}

// RegisterCompletions registers shell completions for the color flag on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Color,
		cobra.FixedCompletions(textdiff.AllColorModes(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Color, err)
	}

	return nil
}

// NewDriver creates a [Driver] from the flag values and cfg. Previews and
// diffs are written to out.
func (c *Config) NewDriver(cfg *config.Config, logger *slog.Logger, out io.Writer) (*Driver, error) {
	mode, err := textdiff.ParseColorMode(c.Color)
	if err != nil {
		return nil, err
	}

	return New(
		WithLogger(logger),
		WithOutput(out),
		WithColor(mode.Enabled(out)),
		WithJobs(c.Jobs),
		WithDiff(c.Diff),
		WithList(c.List),
		WithExamples(cfg.Examples),
		WithXML(cfg.XML),
		WithDebounce(c.Debounce),
	), nil
}
