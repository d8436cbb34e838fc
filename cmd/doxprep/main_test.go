package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/doxprep/prefilter"
	"go.jacobcolvin.com/doxprep/stringtest"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	err := run(t.Context(), args, strings.NewReader(stdin), &stdout, &stderr)

	return stdout.String(), stderr.String(), err
}

var readme = stringtest.JoinLF(
	"[//]: # ( @page example_a_page Example A )",
	"# Example A",
	"[//]: # ( Start GitHub Only )",
	"- [Example A](#example-a)",
	"[//]: # ( End GitHub Only )",
	"```cpp",
	"int x;",
	"```",
	"",
)

func TestFilter(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		args []string
		want string
	}{
		"aggregate": {
			args: []string{"filter"},
			want: stringtest.JoinLF(
				"@page example_a_page Example A",
				"@code{.cpp}",
				"int x;",
				"@endcode",
				"",
			),
		},
		"per example": {
			args: []string{"filter", "--mode", "per-example"},
			want: stringtest.JoinLF(
				"@section example_a_page Example A",
				"@code{.cpp}",
				"int x;",
				"@endcode",
				"",
			),
		},
		"custom languages": {
			args: []string{"filter", "--code-languages", "ini"},
			want: stringtest.JoinLF(
				"@page example_a_page Example A",
				"@endcodecpp",
				"int x;",
				"@endcode",
				"",
			),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			stdout, _, err := execute(t, readme, tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, stdout)
		})
	}
}

func TestFilterFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.md")
	b := filepath.Join(dir, "b.md")
	require.NoError(t, os.WriteFile(a, []byte("one\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("[//]: # ( @ref two )\n"), 0o644))

	stdout, _, err := execute(t, "", "filter", a, b)
	require.NoError(t, err)
	assert.Equal(t, "one\n@ref two\n", stdout)

	_, _, err = execute(t, "", "filter", filepath.Join(dir, "missing.md"))
	require.ErrorIs(t, err, prefilter.ErrRead)
}

func TestFilterUnterminated(t *testing.T) {
	t.Parallel()

	input := "a\n[//]: # ( Start GitHub Only )\nb\n"

	stdout, _, err := execute(t, input, "filter")
	require.ErrorIs(t, err, prefilter.ErrUnterminatedFence)
	assert.Equal(t, "a\n", stdout)

	stdout, _, err = execute(t, input, "filter", "--allow-unterminated")
	require.NoError(t, err)
	assert.Equal(t, "a\n", stdout)
}

func TestFilterBadFlags(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "", "filter", "--mode", "sideways")
	require.ErrorContains(t, err, prefilter.ErrUnknownMode.Error())

	_, _, err = execute(t, "", "--log-level", "loud", "filter")
	require.Error(t, err)
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "doxprep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestExamples(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	root := filepath.Join(dir, "examples")
	out := filepath.Join(dir, "out")

	require.NoError(t, os.MkdirAll(filepath.Join(root, "a_wild_card"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a_wild_card", "ReadMe.md"), []byte(readme), 0o644))

	cfg := writeConfig(t, dir, stringtest.Input(`
		examples:
		  navigation: ""
		  sources:
		    - path: a_wild_card/ReadMe.md
		      mode: per-example
	`))

	stdout, _, err := execute(t, "",
		"--config", cfg, "examples", "--root", root, "--output", out, "--list")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "a_wild_card.dox")+"\n", stdout)
	assert.NoDirExists(t, out)

	_, _, err = execute(t, "", "--config", cfg, "examples", "--root", root, "--output", out)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(out, "a_wild_card.dox"))
	require.NoError(t, err)
	assert.Equal(t, stringtest.JoinLF(
		"/**",
		"@example{lineno} a_wild_card.ino ",
		"",
		"@section example_a_page Example A",
		"@code{.cpp}",
		"int x;",
		"@endcode",
		"",
		"*/",
		"",
		"",
	), string(got))
}

func TestExamplesFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, _, err := execute(t, "",
		"examples", "--root", filepath.Join(dir, "missing"), "--output", filepath.Join(dir, "out"))
	require.ErrorIs(t, err, errItems)
}

func TestRepair(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "myfile_8ino-example.xml")
	require.NoError(t, os.WriteFile(path, []byte(stringtest.Input(`
		<?xml version='1.0' encoding='UTF-8' standalone='no'?>
		<doxygen>
		  <compounddef id="myfile_8ino-example">
		    <sect1 id="otherfile_8dox_exampleSectionX"/>
		  </compounddef>
		</doxygen>
	`)), 0o644))

	_, _, err := execute(t, "", "repair", "--keep-original", dir)
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(got), `id="myfile_8ino-example_exampleSectionX"`)
	assert.FileExists(t, path+"_original")

	_, _, err = execute(t, "", "repair", filepath.Join(dir, "missing"))
	require.Error(t, err)
}

func TestTheme(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "", "theme")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "DOXYFILE = "))

	path := filepath.Join(t.TempDir(), "conf.py")

	_, _, err = execute(t, "", "theme", "-o", path)
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, stdout, string(got))
}

func TestSchema(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "", "schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &schema))
	assert.Equal(t, "doxprep configuration", schema["title"])
	assert.Contains(t, schema["properties"], "examples")
}

func TestVersion(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "go version: ")
}

func TestBadConfig(t *testing.T) {
	t.Parallel()

	cfg := writeConfig(t, t.TempDir(), "examples: [\n")

	_, _, err := execute(t, "", "--config", cfg, "version")
	require.Error(t, err)
}

func TestHeapProfile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "heap.prof")

	_, _, err := execute(t, "", "--heap-profile", path, "version")
	require.NoError(t, err)
	assert.FileExists(t, path)
}
