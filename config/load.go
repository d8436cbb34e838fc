package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
)

// Format is a configuration file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks a [Format] from the file extension. Anything other
// than .toml is treated as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}

	return FormatYAML
}

// Schema returns the JSON Schema that configuration files are validated
// against.
func Schema() (*jsonschema.Schema, error) {
	s, err := jsonschema.For[Config](nil)
	if err != nil {
		return nil, fmt.Errorf("infer config schema: %w", err)
	}

	s.Title = "doxprep configuration"

	return s, nil
}

// Load reads the configuration file at path. An empty path returns
// [Default].
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // Config path from CLI flag is expected.
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadConfig, err)
	}

	cfg, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse validates data against [Schema] and decodes it on top of [Default].
func Parse(data []byte, format Format) (*Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	instance, err := toInstance(data, format)
	if err != nil {
		return nil, err
	}

	if instance != nil {
		err = validateInstance(instance)
		if err != nil {
			return nil, err
		}
	}

	// Lists present in the file replace the defaults instead of being merged
	// element by element.
	for key, list := range map[string]any{
		"examples.sources":       &cfg.Examples.Sources,
		"examples.codeLanguages": &cfg.Examples.CodeLanguages,
		"theme.stylesheets":      &cfg.Theme.Stylesheets,
		"theme.navbar":           &cfg.Theme.Navbar,
		"theme.navbar2":          &cfg.Theme.Navbar2,
	} {
		if hasKey(instance, key) {
			clearList(list)
		}
	}

	switch format {
	case FormatTOML:
		_, err = toml.Decode(string(data), cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrReadConfig, format, err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// toInstance converts data into the generic JSON value model used for
// schema validation.
func toInstance(data []byte, format Format) (any, error) {
	var (
		raw []byte
		err error
	)

	switch format {
	case FormatTOML:
		var m map[string]any

		_, err = toml.Decode(string(data), &m)
		if err != nil {
			return nil, fmt.Errorf("%w: decode toml: %w", ErrReadConfig, err)
		}

		raw, err = json.Marshal(m)
	default:
		raw, err = yaml.YAMLToJSON(data)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrReadConfig, format, err)
	}

	var instance any

	err = json.Unmarshal(raw, &instance)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrReadConfig, format, err)
	}

	return instance, nil
}

func validateInstance(instance any) error {
	schema, err := Schema()
	if err != nil {
		return err
	}

	resolved, err := schema.Resolve(nil)
	if err != nil {
		return fmt.Errorf("resolve config schema: %w", err)
	}

	err = resolved.Validate(instance)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// hasKey reports whether the dotted key path exists in instance.
func hasKey(instance any, key string) bool {
	cur := instance
	for part := range strings.SplitSeq(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return false
		}

		cur, ok = m[part]
		if !ok {
			return false
		}
	}

	return true
}

func clearList(list any) {
	switch l := list.(type) {
	case *[]Source:
		*l = nil
	case *[]string:
		*l = nil
	case *[]NavLink:
		*l = nil
	}
}
