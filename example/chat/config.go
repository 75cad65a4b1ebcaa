package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config drives the terminal client. The model section is optional: without
// an API key the assistant runs in rule-based mode.
type Config struct {
	Model struct {
		APIKey  string `koanf:"api_key"`
		Name    string `koanf:"name"`
		BaseURL string `koanf:"base_url"`
	} `koanf:"model"`

	Store struct {
		// Path to the SQLite database; empty keeps records in memory only.
		Path string `koanf:"path"`
	} `koanf:"store"`

	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

// loadConfig layers defaults, an optional TOML file, and FPA_ environment
// variables (FPA_MODEL_API_KEY and friends).
func loadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	_ = k.Load(confmap.Provider(map[string]interface{}{
		"model.name": "gpt-4o-mini",
		"log.level":  "info",
	}, "."), nil)

	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else if _, err := os.Stat("fpa-tracker.toml"); err == nil {
		if err := k.Load(file.Provider("fpa-tracker.toml"), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	}

	_ = k.Load(env.Provider("FPA_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "FPA_")), "_", ".", 1)
	}), nil)

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return &config, nil
}
