package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearEnv removes variables that would leak into the loader from the
// process environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "LOG_LEVEL", "SOURCE_PATH", "SOURCE_FORMAT",
		"OUTPUT_PATH", "ONTOLOGY_NAME", "ID_PREFIX", "STRICT_VALIDATION",
		"INFER_RELATIONSHIPS", "FORCE_CONVERSION", "COMPONENT_MODE",
		"COMMAND_MODE", "SCALED_DECIMAL_MODE", "KEY_PART_STRATEGY",
		"KEY_PATTERNS", "TYPE_MAPPINGS_PATH",
	} {
		os.Unsetenv(key)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoadFile_EnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
env: "test"
source:
  path: "ontologies/building.ttl"
conversion:
  ontology_name: "BuildingOntology"
  component_mode: "flatten"
  key_patterns: ["tag", "asset_code"]
  explicit_key_parts:
    Building: ["buildingNumber"]
`)

	t.Setenv("COMPONENT_MODE", "separate")
	t.Setenv("ID_PREFIX", "2000000000000")

	cfg, err := LoadFile(path, "test-version")
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}

	if cfg.Env != "test" {
		t.Errorf("expected Env=test, got %s", cfg.Env)
	}
	if cfg.Version != "test-version" {
		t.Errorf("expected Version=test-version, got %s", cfg.Version)
	}
	if cfg.Source.Path != "ontologies/building.ttl" {
		t.Errorf("expected source path from YAML, got %s", cfg.Source.Path)
	}
	if cfg.Conversion.OntologyName != "BuildingOntology" {
		t.Errorf("expected ontology name from YAML, got %s", cfg.Conversion.OntologyName)
	}

	// Env vars beat YAML values
	if cfg.Conversion.ComponentMode != "separate" {
		t.Errorf("expected component_mode=separate (from env), got %s", cfg.Conversion.ComponentMode)
	}
	if cfg.Conversion.IDPrefix != 2000000000000 {
		t.Errorf("expected id_prefix=2000000000000 (from env), got %d", cfg.Conversion.IDPrefix)
	}

	// Untouched fields keep their defaults
	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Log.Level)
	}
	if !cfg.Conversion.InferRelationships {
		t.Error("expected infer_relationships to default to true")
	}
	if cfg.Conversion.CommandMode != "skip" {
		t.Errorf("expected default command_mode skip, got %s", cfg.Conversion.CommandMode)
	}

	// Structured YAML-only fields
	if len(cfg.Conversion.KeyPatterns) != 2 || cfg.Conversion.KeyPatterns[0] != "tag" {
		t.Errorf("unexpected key patterns: %v", cfg.Conversion.KeyPatterns)
	}
	parts := cfg.Conversion.ExplicitKeyParts["Building"]
	if len(parts) != 1 || parts[0] != "buildingNumber" {
		t.Errorf("unexpected explicit key parts: %v", cfg.Conversion.ExplicitKeyParts)
	}

	// Output path derived from the source path
	if cfg.Output.Path != "ontologies/building.definition.json" {
		t.Errorf("unexpected derived output path: %s", cfg.Output.Path)
	}
}

func TestLoadFile_MissingFileFallsBackToEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOURCE_PATH", "models/device.json")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), "dev")
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}

	if cfg.Source.Path != "models/device.json" {
		t.Errorf("expected source path from env, got %s", cfg.Source.Path)
	}
	if cfg.Conversion.IDPrefix != 1000000000000 {
		t.Errorf("expected default id_prefix, got %d", cfg.Conversion.IDPrefix)
	}
	if cfg.Conversion.KeyPartStrategy != "auto" {
		t.Errorf("expected default key_part_strategy auto, got %s", cfg.Conversion.KeyPartStrategy)
	}
	if cfg.Output.Path != "models/device.definition.json" {
		t.Errorf("unexpected derived output path: %s", cfg.Output.Path)
	}
}

func TestLoadFile_RequiresSourcePath(t *testing.T) {
	clearEnv(t)

	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), "dev")
	if err == nil {
		t.Fatal("expected an error when no source path is configured")
	}
	if !strings.Contains(err.Error(), "source.path") {
		t.Errorf("error should name the missing field, got: %v", err)
	}
}

func TestLoadFile_RejectsOutOfRangeIDPrefix(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
source:
  path: "m.ttl"
conversion:
  id_prefix: 123
`)

	_, err := LoadFile(path, "dev")
	if err == nil {
		t.Fatal("expected an error for a 3-digit id prefix")
	}
	if !strings.Contains(err.Error(), "13-digit") {
		t.Errorf("error should mention the 13-digit space, got: %v", err)
	}
}

func TestLoadFile_ExplicitOutputPathKept(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
source:
  path: "in.ttl"
output:
  path: "out/definition.json"
`)

	cfg, err := LoadFile(path, "dev")
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if cfg.Output.Path != "out/definition.json" {
		t.Errorf("explicit output path was replaced: %s", cfg.Output.Path)
	}
}

func TestLoadFile_BadYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "source: [unclosed")

	_, err := LoadFile(path, "dev")
	if err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}

func TestFormatOptions_MapsEveryKnob(t *testing.T) {
	conv := ConversionConfig{
		OntologyName:       "Plant",
		IDPrefix:           3000000000000,
		StrictValidation:   true,
		InferRelationships: true,
		ComponentMode:      "flatten",
		CommandMode:        "entity",
		ScaledDecimalMode:  "structured",
		KeyPartStrategy:    "explicit",
		KeyPatterns:        []string{"tag"},
		ExplicitKeyParts:   map[string][]string{"Pump": {"serial"}},
	}

	opts := conv.FormatOptions(nil)

	if opts.OntologyName != "Plant" || opts.IDPrefix != 3000000000000 {
		t.Errorf("name/prefix not mapped: %+v", opts)
	}
	if !opts.StrictValidation || !opts.InferRelationships {
		t.Errorf("boolean knobs not mapped: %+v", opts)
	}
	if opts.ComponentMode != "flatten" || opts.CommandMode != "entity" || opts.ScaledDecimalMode != "structured" {
		t.Errorf("mode knobs not mapped: %+v", opts)
	}
	if opts.KeyPartStrategy != "explicit" || len(opts.KeyPatterns) != 1 {
		t.Errorf("key part knobs not mapped: %+v", opts)
	}
	if opts.ExplicitKeyParts["Pump"][0] != "serial" {
		t.Errorf("explicit key parts not mapped: %+v", opts)
	}
}
