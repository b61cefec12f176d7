package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opal-lang/wisp/config"
	"github.com/opal-lang/wisp/parse"
)

func TestRunBuildSingleDef(t *testing.T) {
	result, err := RunBuild(config.Default(), "answer = 42")
	require.NoError(t, err)
	require.Equal(t, "answer", result.LastDefName)
	require.Equal(t, int64(42), result.Value)
	require.Empty(t, result.Problems)
}

func TestRunBuildChainedDefs(t *testing.T) {
	result, err := RunBuild(config.Default(), "n = 7\nm = n")
	require.NoError(t, err)
	require.Equal(t, "m", result.LastDefName)
	require.Equal(t, int64(7), result.Value)
	require.Empty(t, result.Problems)
}

func TestRunBuildUnboundReference(t *testing.T) {
	result, err := RunBuild(config.Default(), "m = missing")
	require.NoError(t, err)
	require.Len(t, result.Problems, 1)
	require.Nil(t, result.Value)
}

func TestRunBuildRejectsHardTab(t *testing.T) {
	// wispc's grammar never matches a tab character in spaces() - it
	// only recognizes literal ' ' - so a tab before '=' surfaces as an
	// ordinary parse failure rather than being silently treated as
	// whitespace. Hard tabs are rejected, not converted.
	_, err := RunBuild(config.Default(), "n\t= 7")
	require.Error(t, err)
}

// A configured MaxLineLength below the parser's structural sentinel
// rejects an over-long line up front, naming the offending line, while
// the same source passes under the default limit.
func TestRunBuildEnforcesConfiguredMaxLineLength(t *testing.T) {
	source := "n = 7\nanswer = 42"

	cfg := config.Default()
	cfg.MaxLineLength = 8

	_, err := RunBuild(cfg, source)
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 1 too long")

	result, err := RunBuild(config.Default(), source)
	require.NoError(t, err)
	require.Equal(t, int64(42), result.Value)
}

func TestRunBuildRejectsUnknownEntryProduction(t *testing.T) {
	cfg := config.Default()
	cfg.EntryProduction = "toplevel-defs"

	_, err := RunBuild(cfg, "n = 7")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown entry production")
}

func TestParseModuleLocation(t *testing.T) {
	located, fail := ParseModule(config.Default(), "n = 7")
	require.Nil(t, fail)
	require.Equal(t, uint32(0), located.Region.StartLine)
	require.Equal(t, uint16(0), located.Region.StartCol)
}

func TestCheckLineLengthsReportsFirstOffendingLine(t *testing.T) {
	fail := checkLineLengths(4, "ok\ntoo long here\nok")
	require.NotNil(t, fail)
	require.Equal(t, parse.ReasonLineTooLong, fail.Reason.Kind)
	require.Equal(t, uint32(1), fail.Reason.Line)

	require.Nil(t, checkLineLengths(20, "ok\ntoo long here\nok"))
}
