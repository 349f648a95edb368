package config

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ToTOML serializes the configuration to TOML format.
func (c *Config) ToTOML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.Indent = "  "

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	return buf.Bytes(), nil
}

// FromTOML parses a configuration from TOML bytes. Unknown keys are an error.
func FromTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse toml: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		// Rule options are free-form.
		for _, key := range undecoded {
			if len(key) < 4 || key[0] != "rules" || key[2] != "options" {
				return nil, fmt.Errorf("parse toml: unknown key %q", key.String())
			}
		}
	}

	if cfg.Rules == nil {
		cfg.Rules = make(map[string]RuleConfig)
	}

	return cfg, nil
}

// Decode parses data as TOML when format is "toml" and as YAML otherwise.
func Decode(data []byte, format string) (*Config, error) {
	if format == "toml" {
		return FromTOML(data)
	}
	return FromYAML(data)
}
