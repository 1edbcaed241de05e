package converters

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ontoforge/ontoforge/pkg/apperrors"
	"github.com/ontoforge/ontoforge/pkg/dtdl"
	"github.com/ontoforge/ontoforge/pkg/formats"
	"github.com/ontoforge/ontoforge/pkg/idgen"
	"github.com/ontoforge/ontoforge/pkg/models"
	"github.com/ontoforge/ontoforge/pkg/typemap"
	"github.com/ontoforge/ontoforge/pkg/validation"
)

const (
	dtdlFormatName          = "dtdl"
	defaultDTDLOntologyName = "DTDLOntology"
)

// ComponentMode controls how DTDL components are converted.
type ComponentMode string

const (
	// ComponentSkip ignores components entirely.
	ComponentSkip ComponentMode = "skip"
	// ComponentFlatten folds a component's properties into the parent
	// entity under a "{component}_" prefix.
	ComponentFlatten ComponentMode = "flatten"
	// ComponentSeparate keeps the component's interface as its own entity
	// and links it with a "has_{component}" relationship.
	ComponentSeparate ComponentMode = "separate"
)

// ParseComponentMode maps a config string onto a ComponentMode. Empty input
// selects ComponentSkip.
func ParseComponentMode(s string) (ComponentMode, error) {
	mode := ComponentMode(strings.ToLower(strings.TrimSpace(s)))
	switch mode {
	case "":
		return ComponentSkip, nil
	case ComponentSkip, ComponentFlatten, ComponentSeparate:
		return mode, nil
	default:
		return "", apperrors.Newf("unknown component mode %q", s)
	}
}

// CommandMode controls how DTDL commands are converted.
type CommandMode string

const (
	// CommandSkip ignores commands entirely.
	CommandSkip CommandMode = "skip"
	// CommandProperty records each command as a marker property on the
	// owning entity.
	CommandProperty CommandMode = "property"
	// CommandEntity expands each command into its own entity holding the
	// request and response parameters plus a "supports_{command}" link.
	CommandEntity CommandMode = "entity"
)

// ParseCommandMode maps a config string onto a CommandMode. Empty input
// selects CommandSkip.
func ParseCommandMode(s string) (CommandMode, error) {
	mode := CommandMode(strings.ToLower(strings.TrimSpace(s)))
	switch mode {
	case "":
		return CommandSkip, nil
	case CommandSkip, CommandProperty, CommandEntity:
		return mode, nil
	default:
		return "", apperrors.Newf("unknown command mode %q", s)
	}
}

// ScaledDecimalMode controls how scaledDecimal schemas are converted.
type ScaledDecimalMode string

const (
	// ScaledDecimalJSONString keeps the value as its JSON serialization.
	ScaledDecimalJSONString ScaledDecimalMode = "json_string"
	// ScaledDecimalStructured keeps the JSON string and adds companion
	// "{name}_scale" and "{name}_value" properties.
	ScaledDecimalStructured ScaledDecimalMode = "structured"
	// ScaledDecimalCalculated stores the computed value as a Double.
	ScaledDecimalCalculated ScaledDecimalMode = "calculated"
)

// ParseScaledDecimalMode maps a config string onto a ScaledDecimalMode.
// Empty input selects ScaledDecimalJSONString.
func ParseScaledDecimalMode(s string) (ScaledDecimalMode, error) {
	mode := ScaledDecimalMode(strings.ToLower(strings.TrimSpace(s)))
	switch mode {
	case "":
		return ScaledDecimalJSONString, nil
	case ScaledDecimalJSONString, ScaledDecimalStructured, ScaledDecimalCalculated:
		return mode, nil
	default:
		return "", apperrors.Newf("unknown scaled decimal mode %q", s)
	}
}

// DTDLConverter converts DTDL interface models into Fabric entity and
// relationship types. Unlike the RDF converter it does not allocate IDs
// sequentially: every ID is derived by hashing the DTMI, so re-running a
// conversion or converting files in a different order yields identical IDs.
type DTDLConverter struct {
	opts          formats.Options
	types         *typemap.Registry
	keys          *KeyPartsInferrer
	parser        *dtdl.Parser
	validator     *dtdl.Validator
	prefix        int64
	componentMode ComponentMode
	commandMode   CommandMode
	scaledMode    ScaledDecimalMode
	logger        *zap.Logger

	dtmiToID map[string]string
}

// NewDTDLConverter builds a converter from the shared format options.
func NewDTDLConverter(opts formats.Options, logger *zap.Logger) (*DTDLConverter, error) {
	keys, err := NewKeyPartsInferrer(opts.KeyPartStrategy, opts.ExplicitKeyParts, opts.KeyPatterns, logger)
	if err != nil {
		return nil, err
	}
	componentMode, err := ParseComponentMode(opts.ComponentMode)
	if err != nil {
		return nil, err
	}
	commandMode, err := ParseCommandMode(opts.CommandMode)
	if err != nil {
		return nil, err
	}
	scaledMode, err := ParseScaledDecimalMode(opts.ScaledDecimalMode)
	if err != nil {
		return nil, err
	}
	prefix := opts.IDPrefix
	if prefix == 0 {
		prefix = idgen.DefaultPrefix
	}
	return &DTDLConverter{
		opts:          opts,
		types:         opts.TypeRegistry(),
		keys:          keys,
		parser:        dtdl.NewParser(logger),
		validator:     dtdl.NewValidator(opts.StrictValidation, logger),
		prefix:        prefix,
		componentMode: componentMode,
		commandMode:   commandMode,
		scaledMode:    scaledMode,
		logger:        logger.Named("dtdl"),
	}, nil
}

// Name implements formats.Format.
func (c *DTDLConverter) Name() string { return dtdlFormatName }

// DTMIMapping returns a copy of the DTMI to Fabric ID assignments recorded
// during the most recent conversion.
func (c *DTDLConverter) DTMIMapping() map[string]string {
	out := make(map[string]string, len(c.dtmiToID))
	for k, v := range c.dtmiToID {
		out[k] = v
	}
	return out
}

// dtdlState carries the per-run conversion state.
type dtdlState struct {
	result   *models.ConversionResult
	batch    []*dtdl.Interface
	byDTMI   map[string]*dtdl.Interface
	dtmiToID map[string]string

	// propTypes records the first value type seen for each property name
	// across the whole batch. Later properties with the same name but a
	// different type are renamed so downstream schemas stay unambiguous.
	propTypes map[string]string

	// ancestors caches the merged inherited property types per interface.
	ancestors map[string]map[string]string

	// stubs tracks external component schemas that already received a
	// placeholder entity.
	stubs map[string]bool
}

// Convert implements formats.Format. It parses the document and converts
// every interface it contains.
func (c *DTDLConverter) Convert(ctx context.Context, content []byte) (*models.ConversionResult, error) {
	parsed, err := c.parser.ParseBytes(content)
	if err != nil {
		return nil, err
	}
	result, convErr := c.ConvertInterfaces(ctx, parsed.Interfaces)
	if result != nil && len(parsed.Warnings) > 0 {
		merged := make([]string, 0, len(parsed.Warnings)+len(result.Warnings))
		merged = append(merged, parsed.Warnings...)
		result.Warnings = append(merged, result.Warnings...)
	}
	return result, convErr
}

// ConvertInterfaces converts an already-parsed interface batch. Interfaces
// are processed parents first so base entities exist before their
// extensions, then relationships, components, and commands run as separate
// passes over the original order.
func (c *DTDLConverter) ConvertInterfaces(ctx context.Context, interfaces []*dtdl.Interface) (*models.ConversionResult, error) {
	st := &dtdlState{
		result: &models.ConversionResult{
			OntologyName:   c.displayName(),
			InterfaceCount: len(interfaces),
		},
		byDTMI:    make(map[string]*dtdl.Interface, len(interfaces)),
		dtmiToID:  make(map[string]string, len(interfaces)),
		propTypes: make(map[string]string),
		ancestors: make(map[string]map[string]string),
		stubs:     make(map[string]bool),
	}
	defer func() { c.dtmiToID = st.dtmiToID }()

	for _, iface := range interfaces {
		if iface == nil {
			continue
		}
		if iface.DTMI == "" {
			st.result.AddSkipped(models.SkippedInterface, iface.ResolvedDisplayName(), "interface has no @id", "")
			continue
		}
		if st.byDTMI[iface.DTMI] != nil {
			st.result.AddWarning("duplicate interface %s, keeping the first occurrence", iface.DTMI)
			continue
		}
		st.byDTMI[iface.DTMI] = iface
		st.batch = append(st.batch, iface)
	}

	// assign every ID up front so forward references resolve
	for _, iface := range st.batch {
		st.dtmiToID[iface.DTMI] = c.fabricID(iface.DTMI)
	}

	for _, iface := range sortInterfacesParentsFirst(st.batch, st.byDTMI) {
		if err := cancelled(ctx); err != nil {
			return st.result, err
		}
		st.result.EntityTypes = append(st.result.EntityTypes, c.convertInterface(st, iface))
	}

	for _, iface := range st.batch {
		if err := cancelled(ctx); err != nil {
			return st.result, err
		}
		for i := range iface.Relationships {
			c.convertRelationship(st, iface, &iface.Relationships[i])
		}
	}

	if c.componentMode == ComponentSeparate {
		for _, iface := range st.batch {
			if err := cancelled(ctx); err != nil {
				return st.result, err
			}
			for i := range iface.Components {
				c.convertComponentEntity(st, iface, &iface.Components[i])
			}
		}
	}

	if c.commandMode == CommandEntity {
		for _, iface := range st.batch {
			if err := cancelled(ctx); err != nil {
				return st.result, err
			}
			for i := range iface.Commands {
				c.convertCommandEntity(st, iface, &iface.Commands[i])
			}
		}
	}

	c.logger.Info("dtdl conversion finished",
		zap.Int("interfaces", len(st.batch)),
		zap.Int("entity_types", len(st.result.EntityTypes)),
		zap.Int("relationship_types", len(st.result.RelationshipTypes)),
		zap.Int("skipped", len(st.result.SkippedItems)),
		zap.Int("warnings", len(st.result.Warnings)))
	return st.result, nil
}

func (c *DTDLConverter) displayName() string {
	if c.opts.OntologyName != "" {
		return c.opts.OntologyName
	}
	return defaultDTDLOntologyName
}

// convertInterface builds the entity type for one interface, including its
// properties, telemetries, and any mode-dependent additions.
func (c *DTDLConverter) convertInterface(st *dtdlState, iface *dtdl.Interface) *models.EntityType {
	fid := st.dtmiToID[iface.DTMI]
	entity := models.NewEntityType(fid, sanitizeEntityName(iface.ResolvedDisplayName()))
	entity.Description = iface.Description.Value

	if len(iface.Extends) > 0 {
		parent := iface.Extends[0]
		if len(iface.Extends) > 1 {
			st.result.AddWarning("interface %s extends %d interfaces, only %s becomes its base",
				iface.DTMI, len(iface.Extends), parent)
		}
		if st.byDTMI[parent] == nil {
			st.result.AddWarning("interface %s extends %s which is not part of this conversion, treating it as a root",
				iface.DTMI, parent)
		} else if reason := c.extendsProblem(st, iface, parent); reason != "" {
			st.result.AddWarning("interface %s keeps no base: %s", iface.DTMI, reason)
		} else {
			entity.BaseEntityTypeID = st.dtmiToID[parent]
		}
	}

	for i := range iface.Properties {
		prop := c.convertProperty(st, iface, fid, &iface.Properties[i])
		entity.Properties = append(entity.Properties, prop)
		if entity.DisplayNamePropertyID == "" && prop.ValueType == models.ValueTypeString {
			entity.DisplayNamePropertyID = prop.ID
		}
	}

	for i := range iface.Telemetries {
		entity.TimeseriesProperties = append(entity.TimeseriesProperties, c.convertTelemetry(st, iface, fid, &iface.Telemetries[i]))
	}

	if c.commandMode == CommandProperty {
		for i := range iface.Commands {
			cmd := &iface.Commands[i]
			entity.Properties = append(entity.Properties, &models.EntityTypeProperty{
				ID:        propertyID(fid, "cmd_"+cmd.Name),
				Name:      "command_" + cmd.Name,
				ValueType: models.ValueTypeString,
			})
		}
	}

	if c.componentMode == ComponentFlatten {
		for i := range iface.Components {
			entity.Properties = append(entity.Properties, c.flattenComponent(st, fid, &iface.Components[i])...)
		}
	}

	if c.scaledMode == ScaledDecimalStructured {
		for i := range iface.Properties {
			prop := &iface.Properties[i]
			if !prop.Schema.IsScaledDecimal() {
				continue
			}
			entity.Properties = append(entity.Properties,
				&models.EntityTypeProperty{
					ID:        propertyID(fid, prop.Name+"_scale"),
					Name:      sanitizeEntityName(prop.Name + "_scale"),
					ValueType: models.ValueTypeBigInt,
				},
				&models.EntityTypeProperty{
					ID:        propertyID(fid, prop.Name+"_value"),
					Name:      sanitizeEntityName(prop.Name + "_value"),
					ValueType: models.ValueTypeString,
				})
		}
	}

	entity.EntityIDParts = c.keys.InferKeyParts(entity)
	if entity.DisplayNamePropertyID == "" {
		c.keys.SetDisplayName(entity)
	}
	return entity
}

// extendsProblem walks the effective inheritance chain above parent and
// reports why the edge from iface cannot be kept: a cycle back into the
// chain, or a depth beyond the model's compliance limit. Empty means the
// edge is safe.
func (c *DTDLConverter) extendsProblem(st *dtdlState, iface *dtdl.Interface, parent string) string {
	limit := dtdl.LimitsFor(iface.Version()).MaxExtendsDepth
	visited := map[string]bool{iface.DTMI: true}
	depth := 0
	current := parent
	for {
		if visited[current] {
			return fmt.Sprintf("extends cycle through %s", current)
		}
		visited[current] = true
		depth++
		if depth > limit {
			return fmt.Sprintf("inheritance depth exceeds the limit of %d", limit)
		}
		next := st.byDTMI[current]
		if next == nil || len(next.Extends) == 0 {
			return ""
		}
		// follow the same first-in-batch parent edge the conversion keeps
		if st.byDTMI[next.Extends[0]] == nil {
			return ""
		}
		current = next.Extends[0]
	}
}

func (c *DTDLConverter) convertProperty(st *dtdlState, iface *dtdl.Interface, entityID string, prop *dtdl.Property) *models.EntityTypeProperty {
	valueType := c.schemaToFabricType(prop.Schema)
	resolved := c.resolvePropertyName(st, iface, prop.Name, valueType)
	return &models.EntityTypeProperty{
		ID:          propertyID(entityID, resolved),
		Name:        sanitizeEntityName(resolved),
		ValueType:   valueType,
		Description: prop.Description.Value,
	}
}

func (c *DTDLConverter) convertTelemetry(st *dtdlState, iface *dtdl.Interface, entityID string, tel *dtdl.Telemetry) *models.EntityTypeProperty {
	valueType := c.schemaToFabricType(tel.Schema)
	resolved := c.resolvePropertyName(st, iface, tel.Name, valueType)
	return &models.EntityTypeProperty{
		ID:          propertyID(entityID, "ts_"+resolved),
		Name:        sanitizeEntityName(resolved),
		ValueType:   valueType,
		Description: tel.Description.Value,
	}
}

// resolvePropertyName handles name collisions. A name an ancestor already
// declares with a different value type is renamed with a type suffix, as is
// a name some earlier interface in the batch registered with a different
// type. Matching types keep the plain name, so shared definitions stay
// mergeable.
func (c *DTDLConverter) resolvePropertyName(st *dtdlState, iface *dtdl.Interface, name, valueType string) string {
	if inherited, ok := c.ancestorPropertyTypes(st, iface)[name]; ok && inherited != valueType {
		renamed := name + "_" + strings.ToLower(valueType)
		st.result.AddWarning("property %s on %s redefines an inherited property of type %s, renamed to %s",
			name, iface.DTMI, inherited, renamed)
		return renamed
	}
	if registered, ok := st.propTypes[name]; ok {
		if registered != valueType {
			renamed := name + "_" + strings.ToLower(valueType)
			c.logger.Debug("property name collides across interfaces",
				zap.String("property", name),
				zap.String("interface", iface.DTMI),
				zap.String("renamed", renamed))
			return renamed
		}
		return name
	}
	st.propTypes[name] = valueType
	return name
}

// ancestorPropertyTypes maps property names declared anywhere above the
// interface to their value types. Deeper declarations win on conflicts. The
// visited set keeps extends cycles from recursing forever.
func (c *DTDLConverter) ancestorPropertyTypes(st *dtdlState, iface *dtdl.Interface) map[string]string {
	if cached, ok := st.ancestors[iface.DTMI]; ok {
		return cached
	}
	merged := make(map[string]string)
	c.collectAncestorProperties(st, iface, merged, map[string]bool{iface.DTMI: true})
	st.ancestors[iface.DTMI] = merged
	return merged
}

func (c *DTDLConverter) collectAncestorProperties(st *dtdlState, iface *dtdl.Interface, merged map[string]string, visited map[string]bool) {
	for _, parentDTMI := range iface.Extends {
		parent := st.byDTMI[parentDTMI]
		if parent == nil || visited[parentDTMI] {
			continue
		}
		visited[parentDTMI] = true
		for i := range parent.Properties {
			merged[parent.Properties[i].Name] = c.schemaToFabricType(parent.Properties[i].Schema)
		}
		c.collectAncestorProperties(st, parent, merged, visited)
	}
}

// convertRelationship turns one DTDL relationship into a relationship type.
// Relationships without a resolvable in-batch target are recorded as
// skipped instead of pointing at an entity that does not exist.
func (c *DTDLConverter) convertRelationship(st *dtdlState, iface *dtdl.Interface, rel *dtdl.Relationship) {
	refURI := iface.DTMI + ":" + rel.Name
	if rel.Target == "" {
		st.result.AddWarning("relationship %s on %s declares no target, skipping it", rel.Name, iface.DTMI)
		st.result.AddSkipped(models.SkippedRelationship, rel.Name, "no target declared", refURI)
		return
	}
	if st.byDTMI[rel.Target] == nil {
		st.result.AddSkipped(models.SkippedRelationship, rel.Name,
			"target interface "+rel.Target+" is not part of this conversion", refURI)
		return
	}
	if len(rel.Properties) > 0 {
		st.result.AddWarning("relationship %s on %s carries %d properties that cannot be represented and were dropped",
			rel.Name, iface.DTMI, len(rel.Properties))
	}
	sourceID := st.dtmiToID[iface.DTMI]
	st.result.RelationshipTypes = append(st.result.RelationshipTypes, models.NewRelationshipType(
		propertyID(sourceID, "rel_"+rel.Name),
		sanitizeEntityName(rel.Name),
		sourceID,
		st.dtmiToID[rel.Target],
	))
}

// convertComponentEntity handles one component in separate mode: a
// relationship to the component's entity, plus a placeholder entity when
// the component's schema was not part of the conversion.
func (c *DTDLConverter) convertComponentEntity(st *dtdlState, iface *dtdl.Interface, comp *dtdl.Component) {
	refURI := iface.DTMI + ":" + comp.Name
	if comp.Schema == "" {
		st.result.AddWarning("component %s on %s declares no schema, skipping it", comp.Name, iface.DTMI)
		st.result.AddSkipped(models.SkippedComponent, comp.Name, "no schema declared", refURI)
		return
	}

	targetID, known := st.dtmiToID[comp.Schema]
	if !known {
		targetID = c.fabricID(comp.Schema)
		st.dtmiToID[comp.Schema] = targetID
	}

	if st.byDTMI[comp.Schema] == nil && !st.stubs[comp.Schema] {
		// one placeholder per external schema, no matter how many
		// components reference it
		stub := models.NewEntityType(targetID, sanitizeEntityName(comp.Name+"_"+dtdl.LocalName(comp.Schema)))
		idProp := &models.EntityTypeProperty{
			ID:        propertyID(targetID, "componentId"),
			Name:      "componentId",
			ValueType: models.ValueTypeString,
		}
		stub.Properties = []*models.EntityTypeProperty{idProp}
		stub.EntityIDParts = []string{idProp.ID}
		st.result.EntityTypes = append(st.result.EntityTypes, stub)
		st.stubs[comp.Schema] = true
		st.result.AddWarning("component %s references %s outside this conversion, created a placeholder entity",
			comp.Name, comp.Schema)
	}

	sourceID := st.dtmiToID[iface.DTMI]
	st.result.RelationshipTypes = append(st.result.RelationshipTypes, models.NewRelationshipType(
		propertyID(sourceID, "comp_"+comp.Name),
		sanitizeEntityName("has_"+comp.Name),
		sourceID,
		targetID,
	))
}

// convertCommandEntity handles one command in entity mode: a command entity
// keyed by command name, its request and response parameters, and a
// "supports" relationship from the owning interface.
func (c *DTDLConverter) convertCommandEntity(st *dtdlState, iface *dtdl.Interface, cmd *dtdl.Command) {
	if cmd.Name == "" {
		st.result.AddSkipped(models.SkippedCommand, iface.DTMI, "command has no name", iface.DTMI)
		return
	}
	cmdDTMI := iface.DTMI + ":cmd:" + cmd.Name
	cmdID := c.fabricID(cmdDTMI)
	st.dtmiToID[cmdDTMI] = cmdID

	nameProp := &models.EntityTypeProperty{
		ID:        propertyID(cmdID, "commandName"),
		Name:      "commandName",
		ValueType: models.ValueTypeString,
	}
	entity := models.NewEntityType(cmdID, sanitizeEntityName("Command_"+cmd.Name))
	entity.Description = cmd.Description.Value
	entity.Properties = []*models.EntityTypeProperty{nameProp}
	entity.EntityIDParts = []string{nameProp.ID}
	entity.DisplayNamePropertyID = nameProp.ID

	if cmd.Request != nil {
		entity.Properties = append(entity.Properties, &models.EntityTypeProperty{
			ID:        propertyID(cmdID, "requestSchema"),
			Name:      "requestSchema",
			ValueType: models.ValueTypeString,
		})
		entity.Properties = append(entity.Properties, c.commandParameters(cmd.Request, cmdID, "request")...)
	}
	if cmd.Response != nil {
		entity.Properties = append(entity.Properties, &models.EntityTypeProperty{
			ID:        propertyID(cmdID, "responseSchema"),
			Name:      "responseSchema",
			ValueType: models.ValueTypeString,
		})
		entity.Properties = append(entity.Properties, c.commandParameters(cmd.Response, cmdID, "response")...)
	}

	st.result.EntityTypes = append(st.result.EntityTypes, entity)

	sourceID := st.dtmiToID[iface.DTMI]
	st.result.RelationshipTypes = append(st.result.RelationshipTypes, models.NewRelationshipType(
		propertyID(sourceID, "cmd_rel_"+cmd.Name),
		sanitizeEntityName("supports_"+cmd.Name),
		sourceID,
		cmdID,
	))
}

// commandParameters expands a request or response payload into properties:
// one per field for Object schemas, a single typed property for primitives,
// nothing for other complex schemas.
func (c *DTDLConverter) commandParameters(payload *dtdl.CommandPayload, entityID, prefix string) []*models.EntityTypeProperty {
	if payload.Schema == nil {
		return nil
	}
	if payload.Schema.Kind == dtdl.SchemaObject {
		props := make([]*models.EntityTypeProperty, 0, len(payload.Schema.Fields))
		for i := range payload.Schema.Fields {
			field := &payload.Schema.Fields[i]
			name := prefix + "_" + field.Name
			props = append(props, &models.EntityTypeProperty{
				ID:        propertyID(entityID, name),
				Name:      sanitizeEntityName(name),
				ValueType: c.schemaToFabricType(field.Schema),
			})
		}
		return props
	}
	if payload.Schema.IsPrimitive() {
		name := prefix + "_" + payload.Name
		return []*models.EntityTypeProperty{{
			ID:        propertyID(entityID, name),
			Name:      sanitizeEntityName(name),
			ValueType: c.schemaToFabricType(payload.Schema),
		}}
	}
	return nil
}

// flattenComponent folds the direct properties of a component's interface
// into the parent under a "{component}_" prefix. Inherited component
// properties are not pulled in.
func (c *DTDLConverter) flattenComponent(st *dtdlState, entityID string, comp *dtdl.Component) []*models.EntityTypeProperty {
	compIface := st.byDTMI[comp.Schema]
	if compIface == nil {
		st.result.AddWarning("component %s schema %s is not part of this conversion, cannot flatten it",
			comp.Name, comp.Schema)
		return nil
	}
	props := make([]*models.EntityTypeProperty, 0, len(compIface.Properties))
	for i := range compIface.Properties {
		prop := &compIface.Properties[i]
		name := comp.Name + "_" + prop.Name
		props = append(props, &models.EntityTypeProperty{
			ID:        propertyID(entityID, name),
			Name:      sanitizeEntityName(name),
			ValueType: c.schemaToFabricType(prop.Schema),
		})
	}
	return props
}

// schemaToFabricType maps a DTDL schema onto a Fabric value type. Complex
// schemas serialize as JSON strings, except enums which take their value
// schema's type and scaled decimals which follow the configured mode.
func (c *DTDLConverter) schemaToFabricType(s *dtdl.Schema) string {
	switch {
	case s == nil:
		return models.ValueTypeString
	case s.IsScaledDecimal():
		if c.scaledMode == ScaledDecimalCalculated {
			return models.ValueTypeDouble
		}
		return models.ValueTypeString
	case s.IsPrimitive():
		return c.types.FabricTypeOrDefault(dtdlFormatName, s.Name, models.ValueTypeString)
	case s.Kind == dtdl.SchemaEnum:
		return c.types.FabricTypeOrDefault(dtdlFormatName, s.ValueSchema, models.ValueTypeString)
	default:
		return models.ValueTypeString
	}
}

// fabricID derives a stable numeric ID from a DTMI. The version suffix is
// dropped first so dtmi:com:example:Thermostat;1 and ;2 share an identity,
// then the name is hashed into the twelve-digit space under the configured
// prefix.
func (c *DTDLConverter) fabricID(dtmi string) string {
	name := strings.TrimPrefix(dtmi, "dtmi:")
	if idx := strings.IndexByte(name, ';'); idx >= 0 {
		name = name[:idx]
	}
	sum := sha256.Sum256([]byte(name))
	n := binary.BigEndian.Uint64(sum[:8]) % 1_000_000_000_000
	return strconv.FormatInt(c.prefix+int64(n), 10)
}

// propertyID folds a property name into a four-digit suffix on the entity
// ID, so a property keeps its ID across conversions as long as its resolved
// name is stable.
func propertyID(entityID, name string) string {
	sum := md5.Sum([]byte(name))
	return fmt.Sprintf("%s%04d", entityID, binary.BigEndian.Uint32(sum[:4])%10000)
}

// sortInterfacesParentsFirst orders a batch so bases convert before the
// interfaces extending them. Ties keep input order, and members of extends
// cycles are appended at the end in input order.
func sortInterfacesParentsFirst(batch []*dtdl.Interface, byDTMI map[string]*dtdl.Interface) []*dtdl.Interface {
	indegree := make(map[string]int, len(batch))
	children := make(map[string][]string, len(batch))
	for _, iface := range batch {
		indegree[iface.DTMI] = 0
	}
	for _, iface := range batch {
		for _, parent := range iface.Extends {
			if parent == iface.DTMI || byDTMI[parent] == nil {
				continue
			}
			indegree[iface.DTMI]++
			children[parent] = append(children[parent], iface.DTMI)
		}
	}

	sorted := make([]*dtdl.Interface, 0, len(batch))
	placed := make(map[string]bool, len(batch))
	queue := make([]string, 0, len(batch))
	for _, iface := range batch {
		if indegree[iface.DTMI] == 0 {
			queue = append(queue, iface.DTMI)
		}
	}
	for len(queue) > 0 {
		dtmi := queue[0]
		queue = queue[1:]
		sorted = append(sorted, byDTMI[dtmi])
		placed[dtmi] = true
		for _, child := range children[dtmi] {
			if indegree[child]--; indegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	for _, iface := range batch {
		if !placed[iface.DTMI] {
			sorted = append(sorted, iface)
		}
	}
	return sorted
}

// Validate implements formats.Format. Parse failures surface as syntax
// error issues rather than Go errors, so callers always get a report.
func (c *DTDLConverter) Validate(ctx context.Context, content []byte) (*validation.Result, error) {
	if err := cancelled(ctx); err != nil {
		return nil, err
	}
	parsed, err := c.parser.ParseBytes(content)
	if err != nil {
		res := validation.NewResult(dtdlFormatName)
		res.AddError(validation.CategorySyntaxError, "%v", err)
		return res, nil
	}
	res := c.validator.Validate(parsed.Interfaces)
	for _, w := range parsed.Warnings {
		res.AddWarning(validation.CategoryInvalidStructure, "%s", w)
	}
	if c.opts.StrictValidation && res.WarningCount() > 0 {
		res.IsValid = false
	}
	return res, nil
}
