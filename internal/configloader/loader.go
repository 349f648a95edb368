// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, hierarchical merging,
// environment variable support and validation.
package configloader

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/yaklabco/gonmc/pkg/config"
	"github.com/yaklabco/gonmc/pkg/fsutil"
	"github.com/yaklabco/gonmc/pkg/validate"
)

// maxConfigSize bounds configuration files.
const maxConfigSize = 1 << 20

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// Registry resolves rule keys. Nil means the built-in rules.
	Registry *validate.Registry

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (GONMC_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.gonmc.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/gonmc/config.yaml)
//  6. System config (/etc/gonmc/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	registry := opts.Registry
	if registry == nil {
		registry = validate.NewDefaultRegistry()
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	sources := []struct {
		name string
		path string
		skip bool
	}{
		{"system", paths.System, opts.IgnoreSystemConfig},
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig},
		{"explicit", paths.Explicit, false},
	}

	layers := []*config.Config{cfg}
	for _, src := range sources {
		if src.skip || src.path == "" {
			continue
		}
		fileCfg, err := LoadFile(ctx, src.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", src.name, err)
		}
		if validation := ValidateWithFile(fileCfg, registry, src.path); !validation.Valid() {
			return nil, &validation.Errors[0]
		}
		layers = append(layers, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, src.path)
	}

	cfg = MergeAll(layers...)

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	normalizeRuleKeys(cfg, registry, result)

	validation := Validate(cfg, registry)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// LoadFile reads a YAML or TOML configuration file. The format follows the
// extension; anything other than .toml is read as YAML.
func LoadFile(ctx context.Context, path string) (*config.Config, error) {
	content, _, err := fsutil.ReadFileLimit(ctx, path, maxConfigSize)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	format := "yaml"
	if IsTOMLConfig(path) {
		format = "toml"
	}

	cfg, err := config.Decode(content, format)
	if err != nil {
		return nil, &ValidationError{FilePath: path, Message: err.Error()}
	}
	return cfg, nil
}

// normalizeRuleKeys converts rule names to canonical IDs so "table-shape" and
// "NMC003" configure the same rule. Keys referring to the same rule are merged
// in sorted key order.
func normalizeRuleKeys(cfg *config.Config, registry *validate.Registry, result *LoadResult) {
	if len(cfg.Rules) == 0 {
		return
	}

	normalized := make(map[string]config.RuleConfig, len(cfg.Rules))
	seenIDs := make(map[string]string)

	for _, key := range slices.Sorted(maps.Keys(cfg.Rules)) {
		ruleCfg := cfg.Rules[key]
		rule, found := registry.Get(key)
		if !found {
			normalized[key] = ruleCfg
			continue
		}

		id := rule.ID()
		if originalKey, exists := seenIDs[id]; exists {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("duplicate rule configuration: %q and %q both refer to %s", originalKey, key, id))
			normalized[id] = mergeRuleConfig(normalized[id], ruleCfg)
			continue
		}

		seenIDs[id] = key
		normalized[id] = ruleCfg
	}

	cfg.Rules = normalized
}
