// Package dtdl parses and validates DTDL (Digital Twins Definition Language)
// interface documents, versions 2 through 4.
package dtdl

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/ontoforge/ontoforge/pkg/apperrors"
)

// TypeList holds a JSON-LD "@type" value, which may be a single string or an
// array of strings. Extra entries beyond the element kind carry semantic type
// annotations such as "Temperature".
type TypeList []string

func (t *TypeList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = TypeList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return apperrors.Wrap(err, "decode @type")
	}
	*t = TypeList(many)
	return nil
}

// Has reports whether the list contains the given type name.
func (t TypeList) Has(name string) bool {
	for _, v := range t {
		if v == name {
			return true
		}
	}
	return false
}

// Primary returns the first entry, or "" when the list is empty.
func (t TypeList) Primary() string {
	if len(t) == 0 {
		return ""
	}
	return t[0]
}

// Extra returns the entries other than kind, preserving order. These are the
// semantic type annotations on a content element.
func (t TypeList) Extra(kind string) []string {
	var extra []string
	for _, v := range t {
		if v != kind {
			extra = append(extra, v)
		}
	}
	return extra
}

// StringList holds a JSON value that may be a single string or an array of
// strings, as DTDL permits for "extends".
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = StringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return apperrors.Wrap(err, "decode string list")
	}
	*s = StringList(many)
	return nil
}

// LocalizedString holds a DTDL display string, which may be written as a
// plain string or as a map of locale code to string. Value resolves to the
// plain form, the "en" localization, or the first localization in sorted
// locale order.
type LocalizedString struct {
	Value     string
	Localized map[string]string
}

func (l *LocalizedString) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		l.Value = plain
		return nil
	}
	var byLocale map[string]string
	if err := json.Unmarshal(data, &byLocale); err != nil {
		return apperrors.Wrap(err, "decode localizable string")
	}
	l.Localized = byLocale
	if v, ok := byLocale["en"]; ok {
		l.Value = v
		return nil
	}
	locales := make([]string, 0, len(byLocale))
	for locale := range byLocale {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	if len(locales) > 0 {
		l.Value = byLocale[locales[0]]
	}
	return nil
}

func (l LocalizedString) String() string { return l.Value }

// IsZero reports whether no value was supplied in any locale.
func (l LocalizedString) IsZero() bool { return l.Value == "" && len(l.Localized) == 0 }

// Context records the "@context" entries of a DTDL document.
type Context struct {
	Entries []string
}

func (c *Context) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		c.Entries = []string{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return apperrors.Wrap(err, "decode @context")
	}
	c.Entries = many
	return nil
}

const dtdlContextPrefix = "dtmi:dtdl:context;"

// Version reports the DTDL language version declared by the context,
// defaulting to 2 when no dtdl context entry is present.
func (c Context) Version() Version {
	for _, entry := range c.Entries {
		rest, ok := strings.CutPrefix(entry, dtdlContextPrefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil {
			return Version(n)
		}
	}
	return V2
}

// SchemaKind identifies the complex schema classes DTDL defines.
type SchemaKind string

const (
	SchemaEnum          SchemaKind = "Enum"
	SchemaObject        SchemaKind = "Object"
	SchemaArray         SchemaKind = "Array"
	SchemaMap           SchemaKind = "Map"
	SchemaScaledDecimal SchemaKind = "ScaledDecimal"
)

// Schema is a DTDL schema reference. Primitive schemas and DTMI references
// arrive as JSON strings and land in Name; complex schemas arrive as objects
// and are dispatched on their "@type" into Kind plus the kind-specific
// fields.
type Schema struct {
	// Name is the primitive type name ("double", "string", ...) or a DTMI
	// when the schema was given as a plain string.
	Name string

	Kind        SchemaKind
	ValueSchema string      // Enum: "integer" or "string"
	EnumValues  []EnumValue // Enum
	Fields      []Field     // Object
	Element     *Schema     // Array elementSchema
	MapKey      *Field      // Map
	MapValue    *Field      // Map
}

func (s *Schema) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		s.Name = name
		return nil
	}
	var raw struct {
		Type        TypeList    `json:"@type"`
		ValueSchema string      `json:"valueSchema"`
		EnumValues  []EnumValue `json:"enumValues"`
		Fields      []Field     `json:"fields"`
		Element     *Schema     `json:"elementSchema"`
		MapKey      *Field      `json:"mapKey"`
		MapValue    *Field      `json:"mapValue"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return apperrors.Wrap(err, "decode complex schema")
	}
	kind := SchemaKind(raw.Type.Primary())
	switch kind {
	case SchemaEnum, SchemaObject, SchemaArray, SchemaMap, SchemaScaledDecimal:
	default:
		return apperrors.Newf("unknown complex schema type %q", raw.Type.Primary())
	}
	s.Kind = kind
	s.ValueSchema = raw.ValueSchema
	s.EnumValues = raw.EnumValues
	s.Fields = raw.Fields
	s.Element = raw.Element
	s.MapKey = raw.MapKey
	s.MapValue = raw.MapValue
	return nil
}

// IsPrimitive reports whether the schema is a plain string reference, either
// a DTDL primitive type or a DTMI.
func (s *Schema) IsPrimitive() bool { return s != nil && s.Kind == "" }

// IsComplex reports whether the schema is an Enum, Object, Array, Map or
// ScaledDecimal declaration.
func (s *Schema) IsComplex() bool { return s != nil && s.Kind != "" }

// IsScaledDecimal reports whether the schema denotes a scaledDecimal, in
// either its primitive-string or complex-object spelling.
func (s *Schema) IsScaledDecimal() bool {
	if s == nil {
		return false
	}
	return s.Kind == SchemaScaledDecimal || s.Name == "scaledDecimal"
}

func (s *Schema) String() string {
	if s == nil {
		return ""
	}
	if s.Kind != "" {
		return string(s.Kind)
	}
	return s.Name
}

// EnumValue is a single member of a DTDL Enum schema. Value carries the
// enumValue, which may be a string or a number depending on the valueSchema.
type EnumValue struct {
	Name        string          `json:"name"`
	Value       any             `json:"enumValue"`
	DisplayName LocalizedString `json:"displayName"`
	Description LocalizedString `json:"description"`
}

// Field is a named schema holder, used for Object fields and for the mapKey
// and mapValue declarations of a Map.
type Field struct {
	Name        string          `json:"name"`
	Schema      *Schema         `json:"schema"`
	DisplayName LocalizedString `json:"displayName"`
	Description LocalizedString `json:"description"`
}

// Property is a DTDL Property content element.
type Property struct {
	Type        TypeList        `json:"@type"`
	Name        string          `json:"name"`
	Schema      *Schema         `json:"schema"`
	DisplayName LocalizedString `json:"displayName"`
	Description LocalizedString `json:"description"`
	Comment     string          `json:"comment"`
	Writable    bool            `json:"writable"`
	Unit        string          `json:"unit"`
}

// SemanticTypes returns the extra "@type" entries beyond Property, such as
// "Temperature" when the property carries a semantic type annotation.
func (p *Property) SemanticTypes() []string { return p.Type.Extra("Property") }

// Telemetry is a DTDL Telemetry content element.
type Telemetry struct {
	Type        TypeList        `json:"@type"`
	Name        string          `json:"name"`
	Schema      *Schema         `json:"schema"`
	DisplayName LocalizedString `json:"displayName"`
	Description LocalizedString `json:"description"`
	Comment     string          `json:"comment"`
	Unit        string          `json:"unit"`
}

// SemanticTypes returns the extra "@type" entries beyond Telemetry.
func (t *Telemetry) SemanticTypes() []string { return t.Type.Extra("Telemetry") }

// Relationship is a DTDL Relationship content element. Target is the DTMI of
// the related interface and may be empty, in which case the relationship can
// point at any interface.
type Relationship struct {
	Type            TypeList        `json:"@type"`
	Name            string          `json:"name"`
	Target          string          `json:"target"`
	DisplayName     LocalizedString `json:"displayName"`
	Description     LocalizedString `json:"description"`
	Comment         string          `json:"comment"`
	MinMultiplicity *int            `json:"minMultiplicity"`
	MaxMultiplicity *int            `json:"maxMultiplicity"`
	Properties      []Property      `json:"properties"`
	Writable        bool            `json:"writable"`
}

// Component is a DTDL Component content element. Schema is the DTMI of the
// component's interface.
type Component struct {
	Type        TypeList        `json:"@type"`
	Name        string          `json:"name"`
	Schema      string          `json:"schema"`
	DisplayName LocalizedString `json:"displayName"`
	Description LocalizedString `json:"description"`
	Comment     string          `json:"comment"`
}

// CommandPayload is the request or response declaration of a Command.
type CommandPayload struct {
	Name        string          `json:"name"`
	Schema      *Schema         `json:"schema"`
	DisplayName LocalizedString `json:"displayName"`
	Description LocalizedString `json:"description"`
	Nullable    bool            `json:"nullable"`
}

// Command is a DTDL Command content element.
type Command struct {
	Type        TypeList        `json:"@type"`
	Name        string          `json:"name"`
	DisplayName LocalizedString `json:"displayName"`
	Description LocalizedString `json:"description"`
	Comment     string          `json:"comment"`
	Request     *CommandPayload `json:"request"`
	Response    *CommandPayload `json:"response"`
}

// Interface is a parsed DTDL Interface with its contents split by element
// kind.
type Interface struct {
	DTMI        string
	Context     Context
	DisplayName LocalizedString
	Description LocalizedString
	Comment     string
	Extends     []string

	Properties    []Property
	Telemetries   []Telemetry
	Relationships []Relationship
	Components    []Component
	Commands      []Command
}

func (i *Interface) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          string            `json:"@id"`
		Context     Context           `json:"@context"`
		DisplayName LocalizedString   `json:"displayName"`
		Description LocalizedString   `json:"description"`
		Comment     string            `json:"comment"`
		Extends     StringList        `json:"extends"`
		Contents    []json.RawMessage `json:"contents"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return apperrors.Wrap(err, "decode interface")
	}
	i.DTMI = raw.ID
	i.Context = raw.Context
	i.DisplayName = raw.DisplayName
	i.Description = raw.Description
	i.Comment = raw.Comment
	i.Extends = raw.Extends

	for _, content := range raw.Contents {
		if err := i.addContent(content); err != nil {
			return err
		}
	}
	return nil
}

// addContent dispatches a single contents element on its "@type".
func (i *Interface) addContent(data []byte) error {
	var probe struct {
		Type TypeList `json:"@type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return apperrors.Wrap(err, "decode content element")
	}
	switch {
	case probe.Type.Has("Property"):
		var p Property
		if err := json.Unmarshal(data, &p); err != nil {
			return apperrors.Wrap(err, "decode property")
		}
		i.Properties = append(i.Properties, p)
	case probe.Type.Has("Telemetry"):
		var t Telemetry
		if err := json.Unmarshal(data, &t); err != nil {
			return apperrors.Wrap(err, "decode telemetry")
		}
		i.Telemetries = append(i.Telemetries, t)
	case probe.Type.Has("Relationship"):
		var r Relationship
		if err := json.Unmarshal(data, &r); err != nil {
			return apperrors.Wrap(err, "decode relationship")
		}
		i.Relationships = append(i.Relationships, r)
	case probe.Type.Has("Component"):
		var c Component
		if err := json.Unmarshal(data, &c); err != nil {
			return apperrors.Wrap(err, "decode component")
		}
		i.Components = append(i.Components, c)
	case probe.Type.Has("Command"):
		var c Command
		if err := json.Unmarshal(data, &c); err != nil {
			return apperrors.Wrap(err, "decode command")
		}
		i.Commands = append(i.Commands, c)
	default:
		return apperrors.Newf("unknown content element type %q", probe.Type.Primary())
	}
	return nil
}

// Version reports the DTDL language version of the interface's context.
func (i *Interface) Version() Version { return i.Context.Version() }

// ResolvedDisplayName returns the display name, falling back to the last
// path segment of the DTMI when none was declared.
func (i *Interface) ResolvedDisplayName() string {
	if i.DisplayName.Value != "" {
		return i.DisplayName.Value
	}
	return LocalName(i.DTMI)
}

// ContentCount returns the total number of content elements declared by the
// interface.
func (i *Interface) ContentCount() int {
	return len(i.Properties) + len(i.Telemetries) + len(i.Relationships) +
		len(i.Components) + len(i.Commands)
}

// LocalName extracts the trailing path segment of a DTMI, dropping the
// "dtmi:" prefix and the version suffix. "dtmi:com:example:Thermostat;1"
// yields "Thermostat".
func LocalName(dtmi string) string {
	s := strings.TrimPrefix(dtmi, "dtmi:")
	if idx := strings.IndexByte(s, ';'); idx >= 0 {
		s = s[:idx]
	}
	if idx := strings.LastIndexByte(s, ':'); idx >= 0 {
		s = s[idx+1:]
	}
	return s
}
