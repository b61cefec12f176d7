// Package config loads and validates the build configuration a host
// tool (cmd/wispc) feeds to the parser and emitter - max source line
// length, the entry production to parse, and debug/telemetry toggles.
// File input is validated against a JSON Schema before anything
// downstream trusts it; in-process options use functional options.
package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// TelemetryMode records which level of parse/solve/emit telemetry was
// requested. Off by default. No package in this module reads it, so
// setting it does not change what a build does.
type TelemetryMode int

const (
	TelemetryOff TelemetryMode = iota
	TelemetryBasic
	TelemetryTiming
)

// DebugLevel records the requested diagnostic tracing detail. No
// package in this module reads it.
type DebugLevel int

const (
	DebugOff DebugLevel = iota
	DebugPaths
	DebugDetailed
)

// BuildConfig holds the settings a build run needs. The exported
// fields mirror what schemaJSON validates, since this struct is also
// the direct target of json.Unmarshal in Load.
type BuildConfig struct {
	MaxLineLength   int           `json:"maxLineLength"`
	EntryProduction string        `json:"entryProduction"`
	Telemetry       TelemetryMode `json:"-"`
	Debug           DebugLevel    `json:"-"`
}

// Opt configures a BuildConfig with options that don't round-trip
// through the JSON file (telemetry/debug are operator choices, not
// part of a committed build-config.json).
type Opt func(*BuildConfig)

// WithTelemetryBasic sets Telemetry to TelemetryBasic.
func WithTelemetryBasic() Opt {
	return func(c *BuildConfig) { c.Telemetry = TelemetryBasic }
}

// WithTelemetryTiming sets Telemetry to TelemetryTiming.
func WithTelemetryTiming() Opt {
	return func(c *BuildConfig) { c.Telemetry = TelemetryTiming }
}

// WithDebugPaths sets Debug to DebugPaths.
func WithDebugPaths() Opt {
	return func(c *BuildConfig) { c.Debug = DebugPaths }
}

// Default returns a BuildConfig with the parser's maximum line length
// (65535) and no entry production set.
func Default(opts ...Opt) *BuildConfig {
	c := &BuildConfig{MaxLineLength: 65535}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// schemaJSON is the JSON Schema a build-config.json file must satisfy.
// entryProduction is required: a config with no parse entry point
// names nothing for the host tool to build.
const schemaJSON = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["entryProduction"],
	"properties": {
		"maxLineLength": {
			"type": "integer",
			"minimum": 1,
			"maximum": 65535
		},
		"entryProduction": {
			"type": "string",
			"minLength": 1
		}
	},
	"additionalProperties": false
}`

var compiledSchema = func() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("build-config.json", strings.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("config: invalid embedded schema: %v", err))
	}
	schema, err := compiler.Compile("build-config.json")
	if err != nil {
		panic(fmt.Sprintf("config: invalid embedded schema: %v", err))
	}
	return schema
}()

// Load validates data against schemaJSON, then decodes it into a
// BuildConfig. Telemetry/Debug are left at their zero values - those
// are runtime options applied separately via Opt, never read from a
// committed config file.
func Load(data []byte, opts ...Opt) (*BuildConfig, error) {
	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("config: invalid json: %w", err)
	}

	if err := compiledSchema.Validate(generic); err != nil {
		return nil, fmt.Errorf("config: schema validation failed: %w", err)
	}

	cfg := &BuildConfig{MaxLineLength: 65535}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	for _, opt := range opts {
		opt(cfg)
	}
	return cfg, nil
}
