package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// configPaths returns the YAML files read for flag defaults, lowest
// precedence first. Missing files are ignored.
func configPaths() []string {
	paths := []string{}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "booktalk", "config.yaml"))
	}
	return append(paths, "booktalk.yaml")
}

// YAMLConfig is a kong.ConfigurationLoader for flat YAML files whose keys are
// flag names, e.g.
//
//	model: llama3.2
//	num_fragments: 5
//	embed-model: nomic-embed-text
//
// Dashes and underscores in keys are interchangeable.
func YAMLConfig(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	normalized := make(map[string]any, len(values))
	for k, v := range values {
		normalized[normalizeKey(k)] = v
	}

	return kong.ResolverFunc(func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		v, ok := normalized[normalizeKey(flag.Name)]
		if !ok || v == nil {
			return nil, nil
		}
		switch v.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("config key %q must be a scalar", flag.Name)
		}
		return fmt.Sprint(v), nil
	}), nil
}

func normalizeKey(k string) string {
	return strings.ReplaceAll(strings.ToLower(k), "_", "-")
}
