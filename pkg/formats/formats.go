// Package formats is the registry of ontology source formats. Each format
// package registers itself at init time; callers look formats up by name or
// by file extension and get back a factory for configured converter
// instances.
package formats

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ontoforge/ontoforge/pkg/apperrors"
	"github.com/ontoforge/ontoforge/pkg/models"
	"github.com/ontoforge/ontoforge/pkg/typemap"
	"github.com/ontoforge/ontoforge/pkg/validation"
)

// Format is one configured source-format pipeline: validate input, then
// convert it to entity and relationship types.
type Format interface {
	// Name returns the format's identifier ("rdf", "dtdl").
	Name() string

	// Validate checks content without converting it.
	Validate(ctx context.Context, content []byte) (*validation.Result, error)

	// Convert parses content and converts it to Fabric Ontology types.
	Convert(ctx context.Context, content []byte) (*models.ConversionResult, error)
}

// Options carries the conversion knobs shared across formats. Mode fields
// are plain strings as they arrive from configuration; each format maps them
// to its own typed modes and rejects values it does not know.
type Options struct {
	// OntologyName overrides the name extracted from the source.
	OntologyName string

	// IDPrefix seeds the fabric ID generator. Zero means the default prefix.
	IDPrefix int64

	// Types resolves source types to Fabric value types. Nil means the
	// built-in registry.
	Types *typemap.Registry

	// StrictValidation treats validation warnings as fatal.
	StrictValidation bool

	// InferRelationships enables usage-based relationship inference for
	// sources that declare no property signatures.
	InferRelationships bool

	// ComponentMode, CommandMode and ScaledDecimalMode select the DTDL
	// handling for components, commands and scaledDecimal schemas.
	ComponentMode     string
	CommandMode       string
	ScaledDecimalMode string

	// KeyPartStrategy selects how entity ID parts are inferred; KeyPatterns
	// adds custom property-name patterns and ExplicitKeyParts pins ID parts
	// per entity name.
	KeyPartStrategy  string
	KeyPatterns      []string
	ExplicitKeyParts map[string][]string
}

// TypeRegistry returns the configured type registry, or the built-in one.
func (o Options) TypeRegistry() *typemap.Registry {
	if o.Types != nil {
		return o.Types
	}
	return typemap.Default()
}

// Factory builds a configured Format instance.
type Factory func(opts Options, logger *zap.Logger) (Format, error)

// Registration describes a format made available to the registry.
type Registration struct {
	Name        string
	DisplayName string
	Extensions  []string
	New         Factory
}

var (
	mu       sync.RWMutex
	registry = make(map[string]Registration)
)

// Register adds a format to the registry. A later registration under the
// same name replaces the earlier one.
func Register(reg Registration) {
	mu.Lock()
	defer mu.Unlock()
	registry[reg.Name] = reg
}

// Get retrieves a format registration by name.
func Get(name string) (Registration, error) {
	mu.RLock()
	defer mu.RUnlock()
	reg, ok := registry[strings.ToLower(name)]
	if !ok {
		return Registration{}, apperrors.Mark(
			apperrors.Newf("unknown format: %s", name),
			apperrors.ErrUnknownFormat,
		)
	}
	return reg, nil
}

// Available returns all registered format names, sorted.
func Available() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByExtension finds the format claiming the given path's extension.
func ByExtension(path string) (Registration, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return Registration{}, false
	}
	mu.RLock()
	defer mu.RUnlock()
	for _, name := range sortedNames() {
		reg := registry[name]
		for _, e := range reg.Extensions {
			if e == ext {
				return reg, true
			}
		}
	}
	return Registration{}, false
}

// sortedNames must be called with mu held.
func sortedNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
