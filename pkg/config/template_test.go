package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gonmc/pkg/config"
)

func sampleRules() []config.RuleInfo {
	return []config.RuleInfo{
		{ID: "NMC001", Name: "meta-version", Description: "Meta blocks declare a version", Enabled: true, Severity: config.SeverityError},
		{ID: "NMC007", Name: "code-language", Description: "Code block language matches its content", Severity: config.SeverityWarning},
	}
}

func TestGenerateTemplateParses(t *testing.T) {
	t.Parallel()

	for _, full := range []bool{false, true} {
		data, err := config.GenerateTemplate(config.TemplateOptions{Full: full, Rules: sampleRules()})
		require.NoError(t, err)
		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, config.ModeRecord, cfg.Mode)

		data, err = config.GenerateTemplate(config.TemplateOptions{Full: full, Format: "toml", Rules: sampleRules()})
		require.NoError(t, err)
		cfg, err = config.FromTOML(data)
		require.NoError(t, err)
		assert.Equal(t, config.ModeRecord, cfg.Mode)

		if full {
			require.Contains(t, cfg.Rules, "NMC007")
			assert.False(t, *cfg.Rules["NMC007"].Enabled)
		}
	}
}

func TestGenerateTemplateUnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := config.GenerateTemplate(config.TemplateOptions{Format: "ini"})
	require.Error(t, err)
}
