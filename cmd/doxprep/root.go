package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/doxprep/batch"
	"go.jacobcolvin.com/doxprep/config"
	"go.jacobcolvin.com/doxprep/log"
	"go.jacobcolvin.com/doxprep/prefilter"
	"go.jacobcolvin.com/doxprep/profile"
	"go.jacobcolvin.com/doxprep/version"
)

// errItems is returned when one or more files in a batch failed. The
// failures themselves are logged per file.
var errItems = errors.New("some files failed")

// app holds state shared by the subcommands.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	logCfg     *log.Config
	batchCfg   *batch.Config
	profileCfg *profile.Config
	profiler   *profile.Profiler
	configPath string

	logger *slog.Logger
	cfg    *config.Config
}

// run executes the command line args and stops any profiling afterwards.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	a := &app{
		stdin:      stdin,
		stdout:     stdout,
		stderr:     stderr,
		logCfg:     log.NewConfig(),
		batchCfg:   batch.NewConfig(),
		profileCfg: profile.NewConfig(),
	}

	cmd := a.rootCmd()
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if a.profiler != nil {
		err = errors.Join(err, a.profiler.Stop())
	}

	return err
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "doxprep",
		Short: "Prepare Markdown documentation for Doxygen",
		Long: `doxprep converts Markdown with Doxygen directive comments into Doxygen
markup, and repairs section ids in Doxygen XML so cross-references resolve.`,
		Version:           version.Short(),
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.SetIn(a.stdin)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	pflags := rootCmd.PersistentFlags()
	pflags.StringVarP(&a.configPath, "config", "c", "", "configuration file (YAML or TOML)")
	a.logCfg.RegisterFlags(pflags)
	a.batchCfg.RegisterColorFlag(pflags)
	a.profileCfg.RegisterFlags(pflags)

	for _, register := range []func(*cobra.Command) error{
		a.logCfg.RegisterCompletions,
		a.batchCfg.RegisterCompletions,
	} {
		err := register(rootCmd)
		if err != nil {
			fmt.Fprintf(a.stderr, "register completions: %v\n", err)
		}
	}

	rootCmd.AddCommand(
		a.filterCmd(),
		a.examplesCmd(),
		a.repairCmd(),
		a.themeCmd(),
		a.schemaCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return version.Write(cmd.OutOrStdout())
			},
		},
	)

	return rootCmd
}

func (a *app) setup(_ *cobra.Command, _ []string) error {
	logger, err := a.logCfg.NewLogger(a.stderr)
	if err != nil {
		return err
	}

	a.logger = logger

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	a.cfg = cfg

	a.profiler = a.profileCfg.NewProfiler()

	return a.profiler.Start()
}

func (a *app) filterCmd() *cobra.Command {
	var (
		mode              = prefilter.ModeAggregate
		languages         []string
		allowUnterminated bool
	)

	cmd := &cobra.Command{
		Use:   "filter [file...]",
		Short: "Filter Markdown to Doxygen markup on stdout",
		Long: `filter reads each file, or stdin when none or "-" is given, and writes the
filtered text to stdout. It is suitable as a Doxygen INPUT_FILTER.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.Examples.FilterOptions()
			if cmd.Flags().Changed("code-languages") {
				opts = append(opts, prefilter.WithCodeLanguages(languages...))
			}

			if cmd.Flags().Changed("allow-unterminated") {
				opts = append(opts, prefilter.WithAllowUnterminated(allowUnterminated))
			}

			f := prefilter.New(append(opts, prefilter.WithMode(mode))...)

			if len(args) == 0 {
				args = []string{"-"}
			}

			for _, arg := range args {
				err := a.filterFile(f, arg)
				if err != nil {
					return err
				}
			}

			return nil
		},
	}

	flags := cmd.Flags()
	flags.VarP(&mode, "mode", "m",
		fmt.Sprintf("output mode, one of: %s", prefilter.AllModes()))
	flags.StringSliceVar(&languages, "code-languages", prefilter.DefaultCodeLanguages(),
		"fenced code languages mapped to @code blocks")
	flags.BoolVar(&allowUnterminated, "allow-unterminated", false,
		"accept input that ends inside a GitHub-only fence")

	err := cmd.RegisterFlagCompletionFunc("mode",
		cobra.FixedCompletions(prefilter.AllModes(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		fmt.Fprintf(a.stderr, "register completions: %v\n", err)
	}

	return cmd
}

func (a *app) filterFile(f *prefilter.Filter, path string) error {
	var r io.Reader = a.stdin

	if path != "-" {
		file, err := os.Open(path) //nolint:gosec // Paths come from the command line.
		if err != nil {
			return fmt.Errorf("%w: %w", prefilter.ErrRead, err)
		}

		defer file.Close() //nolint:errcheck // Read-only.

		r = file
	}

	stats, err := f.Copy(a.stdout, r)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	a.logger.Debug("filter",
		slog.String("path", path),
		slog.String("mode", string(f.Mode())),
		slog.Int("read", stats.Read),
		slog.Int("emitted", stats.Emitted),
	)

	return nil
}

func (a *app) examplesCmd() *cobra.Command {
	var (
		root, output string
		watch        bool
	)

	cmd := &cobra.Command{
		Use:   "examples",
		Short: "Convert example ReadMe files to .dox files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if root != "" {
				a.cfg.Examples.Root = root
			}

			if output != "" {
				a.cfg.Examples.Output = output
			}

			d, err := a.batchCfg.NewDriver(a.cfg, a.logger, a.stdout)
			if err != nil {
				return err
			}

			sources, err := batch.SourcesFromConfig(a.cfg.Examples)
			if err != nil {
				return err
			}

			if watch {
				return d.WatchExamples(cmd.Context(), sources)
			}

			return checkResults(d.RunLineFilterOverSet(cmd.Context(), sources))
		},
	}

	flags := cmd.Flags()
	a.batchCfg.RegisterFlags(flags)
	flags.StringVar(&root, "root", "", "examples directory (overrides config)")
	flags.StringVarP(&output, "output", "o", "", "output directory for .dox files (overrides config)")
	flags.BoolVarP(&watch, "watch", "w", false, "convert again whenever a source changes")

	return cmd
}

func (a *app) repairCmd() *cobra.Command {
	var keepOriginal bool

	cmd := &cobra.Command{
		Use:   "repair [dir...]",
		Short: "Repair section ids in Doxygen XML example artifacts",
		Long: `repair rewrites sect0 to sect5 ids that are not namespaced under their
compound id. Without arguments it uses the configured XML directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("keep-original") {
				a.cfg.XML.KeepOriginal = keepOriginal
			}

			d, err := a.batchCfg.NewDriver(a.cfg, a.logger, a.stdout)
			if err != nil {
				return err
			}

			results, err := d.RunRepair(cmd.Context(), args...)
			if err != nil {
				return err
			}

			return checkResults(results)
		},
	}

	flags := cmd.Flags()
	a.batchCfg.RegisterFlags(flags)
	flags.BoolVar(&keepOriginal, "keep-original", false,
		"keep each unrepaired file next to the repaired one")

	return cmd
}

func (a *app) themeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Write the m.css conf.py",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if output == "" || output == "-" {
				return a.cfg.Theme.WriteMCSSConf(a.stdout)
			}

			f, err := os.Create(output) //nolint:gosec // Path comes from the command line.
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}

			return errors.Join(a.cfg.Theme.WriteMCSSConf(f), f.Close())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file path (- for stdout)")

	return cmd
}

func (a *app) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the configuration JSON Schema",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := config.Schema()
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return fmt.Errorf("encode schema: %w", err)
			}

			_, err = a.stdout.Write(append(out, '\n'))
			if err != nil {
				return fmt.Errorf("write schema: %w", err)
			}

			return nil
		},
	}
}

func checkResults(results []batch.ItemResult) error {
	s := batch.Summarize(results)
	if s.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", errItems, s.Failed, s.Total)
	}

	return nil
}
