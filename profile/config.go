package profile

import (
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for profiling configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	CPUProfile  string
	HeapProfile string
	Trace       string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds the output paths of each profile. An empty path disables that
// profile.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags].
type Config struct {
	Flags       Flags
	CPUProfile  string
	HeapProfile string
	Trace       string
}

// NewConfig returns a new [Config] with default flag names and all profiles
// disabled.
func NewConfig() *Config {
	f := Flags{
		CPUProfile:  "cpu-profile",
		HeapProfile: "heap-profile",
		Trace:       "trace",
	}

	return f.NewConfig()
}

// RegisterFlags adds profiling flags to the given [*pflag.FlagSet]. The flags
// are hidden from help output.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.CPUProfile, c.Flags.CPUProfile, "", "write CPU profile to file")
	flags.StringVar(&c.HeapProfile, c.Flags.HeapProfile, "", "write heap profile to file on exit")
	flags.StringVar(&c.Trace, c.Flags.Trace, "", "write execution trace to file")

	for _, name := range []string{c.Flags.CPUProfile, c.Flags.HeapProfile, c.Flags.Trace} {
		_ = flags.MarkHidden(name) //nolint:errcheck // Registered above.
	}
}

// NewProfiler creates a [Profiler] for the paths in c.
func (c *Config) NewProfiler() *Profiler {
	return &Profiler{config: *c}
}
