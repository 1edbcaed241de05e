// Package typemap maps source format types (XSD datatypes, DTDL schema
// names) to Fabric value types. Converters resolve every property type
// through a Registry so mappings stay consistent across formats and can be
// extended per deployment via YAML overlays.
package typemap

import (
	"strings"
	"sync"

	"github.com/ontoforge/ontoforge/pkg/apperrors"
	"github.com/ontoforge/ontoforge/pkg/models"
)

// XSDNamespace is the XML Schema datatype namespace used by RDF sources.
const XSDNamespace = "http://www.w3.org/2001/XMLSchema#"

// Mapping is one source-type to Fabric-type entry. Converter optionally
// transforms raw values at mapping time; PrecisionLoss flags mappings that
// cannot represent the full source range.
type Mapping struct {
	SourceType    string
	FabricType    string
	Converter     func(any) any
	Notes         string
	PrecisionLoss bool
}

// Registry holds per-format type mappings plus aliases. Safe for concurrent
// readers; registration normally happens once at startup.
type Registry struct {
	mu          sync.RWMutex
	mappings    map[string]map[string]Mapping
	aliases     map[string]map[string]string
	defaultType string
}

// NewRegistry returns an empty registry defaulting unmapped types to String.
func NewRegistry() *Registry {
	return &Registry{
		mappings:    make(map[string]map[string]Mapping),
		aliases:     make(map[string]map[string]string),
		defaultType: models.ValueTypeString,
	}
}

// Default returns a registry pre-loaded with the built-in rdf and dtdl
// tables.
func Default() *Registry {
	r := NewRegistry()
	registerDefaults(r)
	return r
}

// RegisterFormat creates an empty namespace for a format. Format names are
// case-insensitive.
func (r *Registry) RegisterFormat(formatName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureFormat(strings.ToLower(formatName))
}

func (r *Registry) ensureFormat(key string) {
	if _, ok := r.mappings[key]; !ok {
		r.mappings[key] = make(map[string]Mapping)
		r.aliases[key] = make(map[string]string)
	}
}

// RegisterMapping adds one source-type mapping. The fabric type must be one
// of the Fabric value types.
func (r *Registry) RegisterMapping(formatName, sourceType, fabricType string) error {
	return r.Register(Mapping{SourceType: sourceType, FabricType: fabricType}, formatName)
}

// Register adds a full mapping entry, including converter and notes.
func (r *Registry) Register(m Mapping, formatName string) error {
	if !models.IsValidValueType(m.FabricType) {
		return apperrors.Wrapf(apperrors.ErrInvalidTargetType,
			"cannot map %s:%s to %q", formatName, m.SourceType, m.FabricType)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(formatName)
	r.ensureFormat(key)
	r.mappings[key][m.SourceType] = m
	return nil
}

// RegisterMappings bulk-registers source-type to fabric-type pairs. The
// first invalid target aborts registration.
func (r *Registry) RegisterMappings(formatName string, mappings map[string]string) error {
	for sourceType, fabricType := range mappings {
		if err := r.RegisterMapping(formatName, sourceType, fabricType); err != nil {
			return err
		}
	}
	return nil
}

// RegisterAlias maps an alternative spelling to a canonical source type.
func (r *Registry) RegisterAlias(formatName, alias, canonical string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(formatName)
	r.ensureFormat(key)
	r.aliases[key][alias] = canonical
}

// FabricType resolves a source type to its Fabric type, falling back to the
// registry default. Resolution order: exact match, alias, lowercase match.
func (r *Registry) FabricType(formatName, sourceType string) string {
	return r.FabricTypeOrDefault(formatName, sourceType, "")
}

// FabricTypeOrDefault resolves like FabricType but with a per-call default.
func (r *Registry) FabricTypeOrDefault(formatName, sourceType, def string) string {
	if m, ok := r.lookup(formatName, sourceType); ok {
		return m.FabricType
	}
	if def != "" {
		return def
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultType
}

// Lookup returns the full mapping entry when one exists.
func (r *Registry) Lookup(formatName, sourceType string) (Mapping, bool) {
	return r.lookup(formatName, sourceType)
}

func (r *Registry) lookup(formatName, sourceType string) (Mapping, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := strings.ToLower(formatName)
	canonical := sourceType
	if alias, ok := r.aliases[key][sourceType]; ok {
		canonical = alias
	}
	if m, ok := r.mappings[key][canonical]; ok {
		return m, true
	}
	if m, ok := r.mappings[key][strings.ToLower(canonical)]; ok {
		return m, true
	}
	return Mapping{}, false
}

// HasMapping reports whether the source type resolves without the default.
func (r *Registry) HasMapping(formatName, sourceType string) bool {
	_, ok := r.lookup(formatName, sourceType)
	return ok
}

// ConvertValue runs the mapping's converter when one is registered,
// returning the value unchanged otherwise.
func (r *Registry) ConvertValue(formatName, sourceType string, value any) any {
	if m, ok := r.lookup(formatName, sourceType); ok && m.Converter != nil {
		return m.Converter(value)
	}
	return value
}

// ListMappings returns the source-type to fabric-type table for a format.
func (r *Registry) ListMappings(formatName string) map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string)
	for sourceType, m := range r.mappings[strings.ToLower(formatName)] {
		out[sourceType] = m.FabricType
	}
	return out
}

// ListFormats returns all registered format names.
func (r *Registry) ListFormats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	formats := make([]string, 0, len(r.mappings))
	for name := range r.mappings {
		formats = append(formats, name)
	}
	return formats
}

// PrecisionLossTypes lists source types whose mapping may lose precision.
func (r *Registry) PrecisionLossTypes(formatName string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for sourceType, m := range r.mappings[strings.ToLower(formatName)] {
		if m.PrecisionLoss {
			out = append(out, sourceType)
		}
	}
	return out
}

// DefaultType returns the fallback Fabric type.
func (r *Registry) DefaultType() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultType
}

// SetDefaultType changes the fallback type; it must be a Fabric value type.
func (r *Registry) SetDefaultType(fabricType string) error {
	if !models.IsValidValueType(fabricType) {
		return apperrors.Wrapf(apperrors.ErrInvalidTargetType, "invalid default type %q", fabricType)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultType = fabricType
	return nil
}

// Type groups for union resolution, most to least specific. A union
// resolves to a group's Fabric type only when every member sits inside that
// group; any cross-group mix degrades to String.
var typeHierarchy = []struct {
	group  []string
	result string
}{
	{[]string{models.ValueTypeBoolean, "boolean"}, models.ValueTypeBoolean},
	{[]string{models.ValueTypeBigInt, "integer", "int", "long", "short", "byte"}, models.ValueTypeBigInt},
	{[]string{models.ValueTypeDouble, "float", "double", "decimal"}, models.ValueTypeDouble},
	{[]string{models.ValueTypeDateTime, "date", "dateTime"}, models.ValueTypeDateTime},
	{[]string{models.ValueTypeString}, models.ValueTypeString},
}

// ResolveUnionType collapses a union of types to the single Fabric type able
// to represent all members.
func ResolveUnionType(types []string) string {
	if len(types) == 0 {
		return models.ValueTypeString
	}
	if len(types) == 1 {
		return types[0]
	}
	for _, level := range typeHierarchy {
		if subsetOf(types, level.group) {
			return level.result
		}
	}
	return models.ValueTypeString
}

func subsetOf(types, group []string) bool {
	for _, t := range types {
		found := false
		for _, g := range group {
			if t == g {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func registerDefaults(r *Registry) {
	xsd := func(local string) string { return XSDNamespace + local }

	// RDF sources resolve property ranges by full XSD datatype URI.
	rdfMappings := map[string]string{
		xsd("string"):           models.ValueTypeString,
		xsd("anyURI"):           models.ValueTypeString,
		xsd("normalizedString"): models.ValueTypeString,
		xsd("token"):            models.ValueTypeString,
		xsd("language"):         models.ValueTypeString,
		xsd("Name"):             models.ValueTypeString,
		xsd("NCName"):           models.ValueTypeString,
		xsd("NMTOKEN"):          models.ValueTypeString,

		xsd("boolean"): models.ValueTypeBoolean,

		xsd("dateTime"):      models.ValueTypeDateTime,
		xsd("date"):          models.ValueTypeDateTime,
		xsd("dateTimeStamp"): models.ValueTypeDateTime,
		xsd("time"):          models.ValueTypeString,
		xsd("duration"):      models.ValueTypeString,
		xsd("gYear"):         models.ValueTypeString,
		xsd("gMonth"):        models.ValueTypeString,
		xsd("gDay"):          models.ValueTypeString,
		xsd("gYearMonth"):    models.ValueTypeString,
		xsd("gMonthDay"):     models.ValueTypeString,
		xsd("hexBinary"):     models.ValueTypeString,
		xsd("base64Binary"):  models.ValueTypeString,

		xsd("integer"):            models.ValueTypeBigInt,
		xsd("int"):                models.ValueTypeBigInt,
		xsd("long"):               models.ValueTypeBigInt,
		xsd("short"):              models.ValueTypeBigInt,
		xsd("byte"):               models.ValueTypeBigInt,
		xsd("nonNegativeInteger"): models.ValueTypeBigInt,
		xsd("nonPositiveInteger"): models.ValueTypeBigInt,
		xsd("negativeInteger"):    models.ValueTypeBigInt,
		xsd("positiveInteger"):    models.ValueTypeBigInt,
		xsd("unsignedInt"):        models.ValueTypeBigInt,
		xsd("unsignedLong"):       models.ValueTypeBigInt,
		xsd("unsignedShort"):      models.ValueTypeBigInt,
		xsd("unsignedByte"):       models.ValueTypeBigInt,

		xsd("double"):  models.ValueTypeDouble,
		xsd("float"):   models.ValueTypeDouble,
		xsd("decimal"): models.ValueTypeDouble,
	}

	// DTDL primitive schema names.
	dtdlMappings := map[string]string{
		"boolean":         models.ValueTypeBoolean,
		"byte":            models.ValueTypeBigInt,
		"short":           models.ValueTypeBigInt,
		"integer":         models.ValueTypeBigInt,
		"long":            models.ValueTypeBigInt,
		"unsignedByte":    models.ValueTypeBigInt,
		"unsignedShort":   models.ValueTypeBigInt,
		"unsignedInteger": models.ValueTypeBigInt,
		"unsignedLong":    models.ValueTypeBigInt,
		"float":           models.ValueTypeDouble,
		"double":          models.ValueTypeDouble,
		"decimal":         models.ValueTypeDouble,
		"string":          models.ValueTypeString,
		"uuid":            models.ValueTypeString,
		"bytes":           models.ValueTypeString,
		"date":            models.ValueTypeDateTime,
		"dateTime":        models.ValueTypeDateTime,
		"time":            models.ValueTypeString,
		"duration":        models.ValueTypeString,
		"point":           models.ValueTypeString,
		"lineString":      models.ValueTypeString,
		"polygon":         models.ValueTypeString,
		"multiPoint":      models.ValueTypeString,
		"multiLineString": models.ValueTypeString,
		"multiPolygon":    models.ValueTypeString,
		"scaledDecimal":   models.ValueTypeString,
	}

	// Built-in tables only contain valid targets.
	_ = r.RegisterMappings("rdf", rdfMappings)
	_ = r.RegisterMappings("dtdl", dtdlMappings)
}
