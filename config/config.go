package config

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"go.jacobcolvin.com/doxprep/prefilter"
	"go.jacobcolvin.com/doxprep/sectionid"
)

var (
	// ErrInvalidConfig indicates a configuration that failed validation.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrReadConfig wraps failures reading or decoding a configuration file.
	ErrReadConfig = errors.New("read config")
)

// Config is the root of the configuration file.
type Config struct {
	Examples Examples `json:"examples,omitempty" yaml:"examples" jsonschema:"Markdown sources converted to .dox files"`
	XML      XML      `json:"xml,omitempty"      yaml:"xml"      jsonschema:"Doxygen XML artifacts to repair"`
	Theme    Theme    `json:"theme,omitempty"    yaml:"theme"    jsonschema:"m.css theme settings"`
}

// Examples configures the Markdown to .dox conversion.
type Examples struct {
	// Root is the directory source paths are relative to.
	Root string `json:"root,omitempty" yaml:"root" jsonschema:"directory that source paths are relative to"`
	// Output is the directory .dox files are written to.
	Output string `json:"output,omitempty" yaml:"output" jsonschema:"directory .dox files are written to"`
	// Readme is the Markdown file name looked up in each example directory
	// when sources are discovered rather than listed.
	Readme string `json:"readme,omitempty" yaml:"readme" jsonschema:"file name of each example's Markdown document"`
	// Aggregate is the output file name for aggregate sources.
	Aggregate     string   `json:"aggregate,omitempty"         yaml:"aggregate"         jsonschema:"output file name used for aggregate sources"`
	Navigation    string   `json:"navigation,omitempty"        yaml:"navigation"        jsonschema:"commands appended to each @example registration line"`
	Sources       []Source `json:"sources,omitempty"           yaml:"sources"           jsonschema:"ordered list of Markdown documents to convert"`
	CodeLanguages []string `json:"codeLanguages,omitempty"     yaml:"codeLanguages"     jsonschema:"fenced code languages mapped to @code blocks"`
	// AllowUnterminated accepts documents ending inside a GitHub-only fence.
	AllowUnterminated bool `json:"allowUnterminated,omitempty" yaml:"allowUnterminated" jsonschema:"accept documents that end inside a GitHub-only fence"`
}

// Source is one Markdown document and the mode it is converted with.
type Source struct {
	Path string `json:"path"           yaml:"path" jsonschema:"path relative to the examples root"`
	Mode string `json:"mode,omitempty" yaml:"mode" jsonschema:"aggregate or per-example"`
}

// XML configures the section id repair pass.
type XML struct {
	Dir          string `json:"dir,omitempty"          yaml:"dir"          jsonschema:"directory holding Doxygen XML output"`
	Suffix       string `json:"suffix,omitempty"       yaml:"suffix"       jsonschema:"file name suffix of artifacts to repair"`
	Marker       string `json:"marker,omitempty"       yaml:"marker"       jsonschema:"substring preceding the local part of a misplaced section id"`
	KeepOriginal bool   `json:"keepOriginal,omitempty" yaml:"keepOriginal" jsonschema:"keep the unrepaired file next to the repaired one"`
}

// Default returns the layout of the Arduino SDI-12 documentation build.
func Default() *Config {
	sources := []Source{{Path: "ReadMe.md", Mode: string(prefilter.ModeAggregate)}}
	for _, dir := range []string{
		"a_wild_card",
		"b_address_change",
		"c_check_all_addresses",
		"d_simple_logger",
		"e_continuous_measurement",
		"f_basic_data_request",
		"g_terminal_window",
		"h_SDI-12_slave_implementation",
		"i_SDI-12_interface",
		"j_external_pcint_library",
		"k_concurrent_logger",
	} {
		sources = append(sources, Source{
			Path: dir + "/ReadMe.md",
			Mode: string(prefilter.ModePerExample),
		})
	}

	return &Config{
		Examples: Examples{
			Root:          "../examples",
			Output:        "examples",
			Readme:        "ReadMe.md",
			Aggregate:     "examples.dox",
			Navigation:    "@m_examplenavigation{examples_page,} @m_footernavigation",
			Sources:       sources,
			CodeLanguages: prefilter.DefaultCodeLanguages(),
		},
		XML: XML{
			Dir:    "../../Arduino-SDI-12Doxygen/xml",
			Suffix: "8ino-example.xml",
			Marker: sectionid.DefaultMarker,
		},
		Theme: defaultTheme(),
	}
}

// Validate checks constraints the JSON Schema cannot express. All problems
// are reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Examples.Aggregate == "" {
		errs = append(errs, errors.New("examples.aggregate must not be empty"))
	}

	if len(c.Examples.Sources) == 0 && c.Examples.Readme == "" {
		errs = append(errs, errors.New("examples.readme is required when examples.sources is empty"))
	}

	for i, src := range c.Examples.Sources {
		if strings.TrimSpace(src.Path) == "" {
			errs = append(errs, fmt.Errorf("examples.sources[%d].path must not be empty", i))
		}

		mode, err := src.ParseMode()
		if err != nil {
			errs = append(errs, fmt.Errorf("examples.sources[%d].mode: %w", i, err))

			continue
		}

		if mode == prefilter.ModePerExample && path.Dir(path.Clean(src.Path)) == "." {
			errs = append(errs, fmt.Errorf("examples.sources[%d].path %q: per-example sources must live in an example directory",
				i, src.Path))
		}
	}

	if c.XML.Suffix == "" {
		errs = append(errs, errors.New("xml.suffix must not be empty"))
	}

	if c.XML.Marker == "" {
		errs = append(errs, errors.New("xml.marker must not be empty"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}

	return nil
}

// ParseMode returns the parsed mode of s. An empty mode means
// [prefilter.ModeAggregate].
func (s Source) ParseMode() (prefilter.Mode, error) {
	if s.Mode == "" {
		return prefilter.ModeAggregate, nil
	}

	return prefilter.ParseMode(s.Mode)
}

// FilterOptions returns the [prefilter.Option] values shared by every
// source.
func (e Examples) FilterOptions() []prefilter.Option {
	return []prefilter.Option{
		prefilter.WithCodeLanguages(e.CodeLanguages...),
		prefilter.WithAllowUnterminated(e.AllowUnterminated),
	}
}
