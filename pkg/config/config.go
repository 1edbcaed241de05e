package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/ontoforge/ontoforge/pkg/apperrors"
	"github.com/ontoforge/ontoforge/pkg/formats"
	"github.com/ontoforge/ontoforge/pkg/typemap"
)

// DefaultPath is where Load looks for the configuration file.
const DefaultPath = "config.yaml"

// Fabric IDs are thirteen digits, so a prefix has to sit inside this range.
const (
	idPrefixFloor   int64 = 1_000_000_000_000
	idPrefixCeiling int64 = 10_000_000_000_000
)

// Config holds all configuration for ontoforge.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// The engine needs no secrets, so every field may live in the file.
type Config struct {
	// Env selects the logger flavor: "local" and "development" get console
	// output, anything else gets production JSON.
	Env     string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version string `yaml:"-"` // Set at load time, not from config

	Log        LogConfig        `yaml:"log"`
	Source     SourceConfig     `yaml:"source"`
	Output     OutputConfig     `yaml:"output"`
	Conversion ConversionConfig `yaml:"conversion"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level is the minimum level to emit: debug, info, warn, or error.
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// SourceConfig identifies the ontology document to convert.
type SourceConfig struct {
	// Path is the source file to read. Required.
	Path string `yaml:"path" env:"SOURCE_PATH" env-default:""`

	// Format pins a registered format name ("rdf", "dtdl"). If empty, the
	// format is chosen by the source file's extension.
	Format string `yaml:"format" env:"SOURCE_FORMAT" env-default:""`
}

// OutputConfig controls where the Fabric definition is written.
type OutputConfig struct {
	// Path of the definition JSON to write. If empty it is derived from the
	// source path by swapping the extension for ".definition.json".
	Path string `yaml:"path" env:"OUTPUT_PATH" env-default:""`
}

// ConversionConfig carries the conversion knobs shared by all formats plus
// the DTDL handling modes. Mode strings are validated by the format
// constructors, not here.
type ConversionConfig struct {
	// OntologyName overrides the display name extracted from the source.
	OntologyName string `yaml:"ontology_name" env:"ONTOLOGY_NAME" env-default:""`

	// IDPrefix seeds entity type IDs. Must keep IDs in the 13-digit space.
	IDPrefix int64 `yaml:"id_prefix" env:"ID_PREFIX" env-default:"1000000000000"`

	// StrictValidation treats validation warnings as fatal.
	StrictValidation bool `yaml:"strict_validation" env:"STRICT_VALIDATION" env-default:"false"`

	// InferRelationships enables usage-based relationship inference for RDF
	// sources that declare classes but no object properties.
	InferRelationships bool `yaml:"infer_relationships" env:"INFER_RELATIONSHIPS" env-default:"true"`

	// Force converts even when validation reports errors.
	Force bool `yaml:"force" env:"FORCE_CONVERSION" env-default:"false"`

	// DTDL handling modes.
	ComponentMode     string `yaml:"component_mode" env:"COMPONENT_MODE" env-default:"skip"`
	CommandMode       string `yaml:"command_mode" env:"COMMAND_MODE" env-default:"skip"`
	ScaledDecimalMode string `yaml:"scaled_decimal_mode" env:"SCALED_DECIMAL_MODE" env-default:"json_string"`

	// Entity ID part inference. KeyPatterns is comma-separated when set via
	// environment.
	KeyPartStrategy string   `yaml:"key_part_strategy" env:"KEY_PART_STRATEGY" env-default:"auto"`
	KeyPatterns     []string `yaml:"key_patterns" env:"KEY_PATTERNS"`

	// ExplicitKeyParts pins ID parts per entity name. YAML only.
	ExplicitKeyParts map[string][]string `yaml:"explicit_key_parts"`

	// TypeMappingsPath points at a YAML overlay for the type registry.
	TypeMappingsPath string `yaml:"type_mappings_path" env:"TYPE_MAPPINGS_PATH" env-default:""`
}

// FormatOptions maps the conversion knobs onto the options every format
// factory takes. A nil registry selects the built-in type mappings.
func (c ConversionConfig) FormatOptions(types *typemap.Registry) formats.Options {
	return formats.Options{
		OntologyName:       c.OntologyName,
		IDPrefix:           c.IDPrefix,
		Types:              types,
		StrictValidation:   c.StrictValidation,
		InferRelationships: c.InferRelationships,
		ComponentMode:      c.ComponentMode,
		CommandMode:        c.CommandMode,
		ScaledDecimalMode:  c.ScaledDecimalMode,
		KeyPartStrategy:    c.KeyPartStrategy,
		KeyPatterns:        c.KeyPatterns,
		ExplicitKeyParts:   c.ExplicitKeyParts,
	}
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time and set on the
// returned Config.
func Load(version string) (*Config, error) {
	return LoadFile(DefaultPath, version)
}

// LoadFile reads configuration from an explicit path. A missing file is not
// an error; the environment alone supplies the configuration then.
func LoadFile(path, version string) (*Config, error) {
	cfg := &Config{Version: version}

	err := cleanenv.ReadConfig(path, cfg)
	if err != nil && os.IsNotExist(err) {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, apperrors.Wrapf(err, "read config %s", path)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDerived()
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Source.Path == "" {
		return apperrors.New("source.path is required (or set SOURCE_PATH)")
	}
	if c.Conversion.IDPrefix < idPrefixFloor || c.Conversion.IDPrefix >= idPrefixCeiling {
		return apperrors.Newf("id_prefix %d leaves the 13-digit ID space [%d, %d)",
			c.Conversion.IDPrefix, idPrefixFloor, idPrefixCeiling)
	}
	return nil
}

// applyDerived fills values computed from other fields.
func (c *Config) applyDerived() {
	if c.Output.Path == "" {
		base := strings.TrimSuffix(c.Source.Path, filepath.Ext(c.Source.Path))
		c.Output.Path = base + ".definition.json"
	}
}
