// Package config handles configuration loading.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"

	"trendarr/internal/application/settings"
)

// Load resolves settings from the YAML config file at path (default:
// ~/.config/trendarr/config.yaml), with kong applying tag defaults for
// anything the file leaves unset.
func Load(customPath ...string) (settings.Settings, error) {
	var configPath string
	if len(customPath) > 0 && customPath[0] != "" {
		configPath = customPath[0]
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return settings.Settings{}, err
		}
		configPath = filepath.Join(home, ".config", "trendarr", "config.yaml")
	}

	cfg := settings.Settings{}

	var options []kong.Option
	if _, err := os.Stat(configPath); err == nil {
		options = append(options, kong.Configuration(yamlKongLoader, configPath))
	}

	parser, err := kong.New(&cfg, options...)
	if err != nil {
		return settings.Settings{}, err
	}
	if _, err := parser.Parse([]string{}); err != nil {
		return settings.Settings{}, fmt.Errorf("parse config %s: %w", configPath, err)
	}

	if strings.TrimSpace(cfg.IgnoreFile) == "" {
		cfg.IgnoreFile = filepath.Join(defaultDataHome(), "trendarr", "ignored.txt")
	}

	return cfg, nil
}

func defaultDataHome() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return dataHome
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

func yamlKongLoader(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}

	var f kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		names := []string{flag.Name, strings.ReplaceAll(flag.Name, "-", "_")}
		for _, name := range names {
			if v, ok := values[name]; ok {
				return v, nil
			}

			// Nested dot-notation, e.g. "radarr.api_key".
			parts := strings.Split(name, ".")
			if len(parts) > 1 {
				curr := values
				for i, part := range parts {
					if i == len(parts)-1 {
						if v, ok := curr[part]; ok {
							return v, nil
						}
					} else if nextMap, ok := curr[part].(map[string]any); ok {
						curr = nextMap
					} else {
						break
					}
				}
			}
		}
		return nil, nil
	}
	return f, nil
}
