package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opal-lang/wisp/config"
)

func TestLoadValid(t *testing.T) {
	cfg, err := config.Load([]byte(`{"entryProduction": "main", "maxLineLength": 120}`))
	require.NoError(t, err)
	require.Equal(t, "main", cfg.EntryProduction)
	require.Equal(t, 120, cfg.MaxLineLength)
}

func TestLoadDefaultsMaxLineLength(t *testing.T) {
	cfg, err := config.Load([]byte(`{"entryProduction": "main"}`))
	require.NoError(t, err)
	require.Equal(t, 65535, cfg.MaxLineLength)
}

func TestLoadMissingEntryProduction(t *testing.T) {
	_, err := config.Load([]byte(`{"maxLineLength": 10}`))
	require.Error(t, err)
}

func TestLoadRejectsUnknownProperty(t *testing.T) {
	_, err := config.Load([]byte(`{"entryProduction": "main", "bogus": true}`))
	require.Error(t, err)
}

func TestLoadAppliesOpts(t *testing.T) {
	cfg, err := config.Load([]byte(`{"entryProduction": "main"}`), config.WithTelemetryTiming())
	require.NoError(t, err)
	require.Equal(t, config.TelemetryTiming, cfg.Telemetry)
}
