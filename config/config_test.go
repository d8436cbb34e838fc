package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/doxprep/config"
	"go.jacobcolvin.com/doxprep/prefilter"
	"go.jacobcolvin.com/doxprep/stringtest"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	require.Len(t, cfg.Examples.Sources, 12)
	assert.Equal(t, config.Source{Path: "ReadMe.md", Mode: "aggregate"}, cfg.Examples.Sources[0])
	assert.Equal(t, config.Source{Path: "a_wild_card/ReadMe.md", Mode: "per-example"}, cfg.Examples.Sources[1])
	assert.Equal(t, "8ino-example.xml", cfg.XML.Suffix)
	assert.Equal(t, "_8dox_", cfg.XML.Marker)
	assert.Equal(t, []string{"ini", "cpp"}, cfg.Examples.CodeLanguages)
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		format config.Format
		input  string
	}{
		"yaml": {
			format: config.FormatYAML,
			input: stringtest.Input(`
				examples:
				  output: build/examples
				  sources:
				    - path: ReadMe.md
				    - path: wild/ReadMe.md
				      mode: per-example
				  codeLanguages: [cpp, ini, sh]
				xml:
				  dir: build/xml
				  keepOriginal: true
			`),
		},
		"toml": {
			format: config.FormatTOML,
			input: stringtest.Input(`
				[examples]
				output = "build/examples"
				codeLanguages = ["cpp", "ini", "sh"]

				[[examples.sources]]
				path = "ReadMe.md"

				[[examples.sources]]
				path = "wild/ReadMe.md"
				mode = "per-example"

				[xml]
				dir = "build/xml"
				keepOriginal = true
			`),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg, err := config.Parse([]byte(tc.input), tc.format)
			require.NoError(t, err)

			assert.Equal(t, "build/examples", cfg.Examples.Output)
			assert.Equal(t, []config.Source{
				{Path: "ReadMe.md"},
				{Path: "wild/ReadMe.md", Mode: "per-example"},
			}, cfg.Examples.Sources)
			assert.Equal(t, []string{"cpp", "ini", "sh"}, cfg.Examples.CodeLanguages)
			assert.Equal(t, "build/xml", cfg.XML.Dir)
			assert.True(t, cfg.XML.KeepOriginal)

			// Unset fields keep their defaults.
			assert.Equal(t, "../examples", cfg.Examples.Root)
			assert.Equal(t, "8ino-example.xml", cfg.XML.Suffix)
			assert.Equal(t, "mcss-Doxyfile", cfg.Theme.Doxyfile)

			mode, err := cfg.Examples.Sources[0].ParseMode()
			require.NoError(t, err)
			assert.Equal(t, prefilter.ModeAggregate, mode)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]byte("  \n"), config.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		wantErr      error
		input        string
		wantContains string
		format       config.Format
	}{
		"schema type mismatch": {
			input:   "xml:\n  keepOriginal: [1]\n",
			wantErr: config.ErrInvalidConfig,
		},
		"unknown mode": {
			input:        "examples:\n  sources:\n    - path: x/ReadMe.md\n      mode: bogus\n",
			wantErr:      prefilter.ErrUnknownMode,
			wantContains: "examples.sources[0].mode",
		},
		"per-example without directory": {
			input:        "examples:\n  sources:\n    - path: ReadMe.md\n      mode: per-example\n",
			wantErr:      config.ErrInvalidConfig,
			wantContains: "example directory",
		},
		"empty suffix": {
			input:        "xml:\n  suffix: \"\"\n",
			wantErr:      config.ErrInvalidConfig,
			wantContains: "xml.suffix",
		},
		"bad yaml": {
			input:   "examples: [\n",
			wantErr: config.ErrReadConfig,
		},
		"bad toml": {
			input:   "[examples\n",
			format:  config.FormatTOML,
			wantErr: config.ErrReadConfig,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			format := tc.format
			if format == "" {
				format = config.FormatYAML
			}

			_, err := config.Parse([]byte(tc.input), format)
			require.ErrorIs(t, err, tc.wantErr)

			if tc.wantContains != "" {
				assert.ErrorContains(t, err, tc.wantContains)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	path := filepath.Join(dir, "doxprep.toml")
	require.NoError(t, os.WriteFile(path, []byte("[xml]\nmarker = \"_8md_\"\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "_8md_", cfg.XML.Marker)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, config.ErrReadConfig)

	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, config.FormatTOML, config.FormatFromPath("a/doxprep.TOML"))
	assert.Equal(t, config.FormatYAML, config.FormatFromPath("doxprep.yml"))
	assert.Equal(t, config.FormatYAML, config.FormatFromPath("doxprep"))
}

func TestSchema(t *testing.T) {
	t.Parallel()

	s, err := config.Schema()
	require.NoError(t, err)

	assert.Equal(t, "doxprep configuration", s.Title)
	assert.Contains(t, s.Properties, "examples")
	assert.Contains(t, s.Properties, "xml")
	assert.Contains(t, s.Properties, "theme")
}

func TestWriteMCSSConf(t *testing.T) {
	t.Parallel()

	var b strings.Builder

	require.NoError(t, config.Default().Theme.WriteMCSSConf(&b))

	out := b.String()
	assert.True(t, strings.HasPrefix(out, "DOXYFILE = \"mcss-Doxyfile\"\nTHEME_COLOR = \"#cb4b16\"\n"))
	assert.Contains(t, out, stringtest.JoinLF(
		"    (",
		"        \"Classes\",",
		"        \"annotated\",",
		"        [],",
		"    ),",
	))
	assert.Contains(t, out, `            ("The SDI-12 Specification", "specifications"),`)
	assert.Contains(t, out,
		`            ("<a href=\"a_wild_card_8ino-example.html\">Getting Sensor Information</a>",),`)
	assert.Contains(t, out, "LINKS_NAVBAR2 = [\n]\n")
	assert.Contains(t, out, "VERSION_LABELS = True\nCLASS_INDEX_EXPAND_LEVELS = 2\n")
	assert.True(t, strings.HasSuffix(out, "STYLESHEETS = [\n    \"css/m-EnviroDIY+documentation.compiled.css\",\n]\n"))
}
