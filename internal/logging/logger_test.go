package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gonmc/internal/logging"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		level    string
		expected log.Level
	}{
		{"debug level", "debug", log.DebugLevel},
		{"info level", "info", log.InfoLevel},
		{"warn level", "warn", log.WarnLevel},
		{"warning level", "warning", log.WarnLevel},
		{"error level", "error", log.ErrorLevel},
		{"invalid defaults to warn", "invalid", log.WarnLevel},
		{"empty defaults to warn", "", log.WarnLevel},
		{"case insensitive DEBUG", "DEBUG", log.DebugLevel},
		{"surrounding space", " info ", log.InfoLevel},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			logger := logging.New(testCase.level)
			require.NotNil(t, logger)
			assert.Equal(t, testCase.expected, logger.GetLevel())
		})
	}
}

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "debug")

	logger.Debug("tokenized", logging.FieldTokens, 12)

	assert.Contains(t, buf.String(), "tokenized")
	assert.Contains(t, buf.String(), "tokens=12")
}

func TestSetDefault(t *testing.T) {
	// Not parallel because it modifies global state.
	original := logging.Default()
	defer logging.SetDefault(original)

	replacement := logging.New("error")
	logging.SetDefault(replacement)
	assert.Same(t, replacement, logging.Default())

	logging.SetLevel("debug")
	assert.Equal(t, log.DebugLevel, logging.Default().GetLevel())
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	logger := logging.New("info")
	ctx := logging.WithLogger(context.Background(), logger)

	assert.Same(t, logger, logging.FromContext(ctx))
	assert.NotNil(t, logging.FromContext(context.Background()))
}

func TestNewInteractive(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewInteractive(&buf)
	require.NotNil(t, logger)
	assert.Equal(t, log.InfoLevel, logger.GetLevel())

	logger.Info("created configuration file", logging.FieldPath, ".gonmc.yml")
	assert.Contains(t, buf.String(), "created configuration file")
	assert.NotContains(t, buf.String(), "gonmc:")
}

func TestWithAddsFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := logging.NewWithWriter(&buf, "debug")
	ctx := logging.With(logging.WithLogger(context.Background(), base), logging.FieldPath, "doc.nmc")

	logging.FromContext(ctx).Debug("stage done", logging.FieldStage, "lex")

	assert.Contains(t, buf.String(), "path=doc.nmc")
	assert.Contains(t, buf.String(), "stage=lex")
}
