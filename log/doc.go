// Package log builds [log/slog] handlers for the doxprep CLI.
//
// Three output formats are supported: [FormatJSON] and [FormatLogfmt] are
// backed by the standard library handlers, and [FormatText] renders
// human-oriented lines through [charm.land/log/v2]. [FormatAuto] picks
// [FormatText] when the destination is a terminal and [FormatLogfmt]
// otherwise, so that logs piped into CI stay machine-readable.
//
// Typical usage creates a [Config], registers flags on the root command, and
// builds a logger once flags are parsed:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	logger, err := cfg.NewLogger(os.Stderr)
//	slog.SetDefault(logger)
package log
