package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/gonmc/pkg/config"
)

// envVarPrefix is the prefix for all gonmc environment variables.
const envVarPrefix = "GONMC_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
	help  string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"MODE":             {field: "mode", typ: envTypeString, help: "Parse mode: record or report"},
	"MAX_DEPTH":        {field: "max_depth", typ: envTypeInt, help: "Maximum nesting depth (0 = default)"},
	"SEVERITY_DEFAULT": {field: "severity_default", typ: envTypeString, help: "Default rule severity: error or warning"},
	"FORMAT":           {field: "format", typ: envTypeString, help: "Output format: text, json, or sarif"},
	"RULE_FORMAT":      {field: "rule_format", typ: envTypeString, help: "Rule label format: name, id, or combined"},
	"JOBS":             {field: "jobs", typ: envTypeInt, help: "Number of parallel workers (0 = auto)"},
	"STRICT":           {field: "strict", typ: envTypeBool, help: "Fail on warnings: true or false"},
	"IGNORE":           {field: "ignore", typ: envTypeSlice, help: "Comma-separated list of ignore patterns"},
	"EXTENSIONS":       {field: "extensions", typ: envTypeSlice, help: "Comma-separated list of document extensions"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with GONMC_ (e.g., GONMC_MODE).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "mode":
		cfg.Mode = value
	case "severity_default":
		cfg.SeverityDefault = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	case "rule_format":
		cfg.RuleFormat = config.RuleFormat(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "strict":
		cfg.Strict = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	case "max_depth":
		cfg.MaxDepth = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "ignore":
		cfg.Ignore = value
	case "extensions":
		cfg.Extensions = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		out[envVarPrefix+suffix] = mapping.help
	}
	return out
}
