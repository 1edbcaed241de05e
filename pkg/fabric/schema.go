package fabric

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ontoforge/ontoforge/pkg/models"
	"github.com/ontoforge/ontoforge/pkg/validation"
)

// SchemaValidator checks a serialized Definition against the Fabric API
// schema: part structure, decodable payloads, required fields, value types,
// naming rules, count limits, and that relationship endpoints reference
// entity types defined in the same definition.
type SchemaValidator struct {
	strict bool
}

// NewSchemaValidator creates a definition validator. In strict mode
// warnings also render the result invalid.
func NewSchemaValidator(strict bool) *SchemaValidator {
	return &SchemaValidator{strict: strict}
}

// Validate inspects every part of the definition and cross-checks
// relationship endpoints against the entity IDs found.
func (v *SchemaValidator) Validate(def *Definition) *validation.Result {
	result := validation.NewResult("fabric-schema")
	if def == nil {
		result.AddError(validation.CategoryInvalidStructure, "definition is nil")
		return result
	}
	if len(def.Parts) == 0 {
		result.AddWarning(validation.CategoryInvalidStructure, "definition has empty parts array")
	}

	entityIDs := make(map[string]bool)
	relationshipIDs := make(map[string]bool)
	entityCount := 0
	relationshipCount := 0

	for i, part := range def.Parts {
		prefix := fmt.Sprintf("part %d", i)
		if !v.validatePartShape(part, prefix, result) {
			continue
		}

		switch {
		case strings.HasPrefix(part.Path, "EntityTypes/"):
			entityCount++
			var entity models.EntityType
			if err := DecodePayload(part.Payload, &entity); err != nil {
				result.AddError(validation.CategorySyntaxError,
					"%s: failed to decode payload: %v", prefix, err)
				continue
			}
			v.validateEntityType(&entity, prefix, result)
			if entity.ID != "" {
				if entityIDs[entity.ID] {
					result.AddError(validation.CategoryNameConflict,
						"%s: duplicate entity type id %q", prefix, entity.ID)
				}
				entityIDs[entity.ID] = true
			}
		case strings.HasPrefix(part.Path, "RelationshipTypes/"):
			relationshipCount++
			var rel models.RelationshipType
			if err := DecodePayload(part.Payload, &rel); err != nil {
				result.AddError(validation.CategorySyntaxError,
					"%s: failed to decode payload: %v", prefix, err)
				continue
			}
			v.validateRelationshipType(&rel, prefix, result)
			if rel.ID != "" {
				if relationshipIDs[rel.ID] {
					result.AddError(validation.CategoryNameConflict,
						"%s: duplicate relationship type id %q", prefix, rel.ID)
				}
				relationshipIDs[rel.ID] = true
			}
		case part.Path == ".platform":
			v.validatePlatformPayload(part, prefix, result)
		case part.Path == "definition.json":
			v.validateJSONPayload(part, prefix, result)
		}
	}

	if entityCount > MaxEntityTypes {
		result.AddError(validation.CategoryFabricCompatibility,
			"too many entity types: %d exceeds limit of %d", entityCount, MaxEntityTypes)
	}
	if relationshipCount > MaxRelationshipTypes {
		result.AddError(validation.CategoryFabricCompatibility,
			"too many relationship types: %d exceeds limit of %d", relationshipCount, MaxRelationshipTypes)
	}

	v.validateEndpointReferences(def, entityIDs, result)

	result.SetStat("parts", len(def.Parts))
	result.SetStat("entity_types", entityCount)
	result.SetStat("relationship_types", relationshipCount)

	if v.strict && result.WarningCount() > 0 {
		result.IsValid = false
	}
	return result
}

// validatePartShape checks the part envelope. Returns false when the
// payload cannot be examined further.
func (v *SchemaValidator) validatePartShape(part Part, prefix string, result *validation.Result) bool {
	if part.Path == "" {
		result.AddError(validation.CategoryMissingRequired, "%s: missing path", prefix)
		return false
	}
	if part.Payload == "" {
		result.AddError(validation.CategoryMissingRequired, "%s: missing payload", prefix)
		return false
	}
	if part.PayloadType != PayloadTypeInlineBase64 {
		result.AddWarning(validation.CategoryInvalidStructure,
			"%s: unexpected payloadType %q, expected %q", prefix, part.PayloadType, PayloadTypeInlineBase64)
	}
	if _, err := base64.StdEncoding.DecodeString(part.Payload); err != nil {
		result.AddError(validation.CategoryEncodingError,
			"%s: invalid base64 payload: %v", prefix, err)
		return false
	}
	return true
}

func (v *SchemaValidator) validateEntityType(entity *models.EntityType, prefix string, result *validation.Result) {
	if entity.ID == "" {
		result.AddError(validation.CategoryMissingRequired, "%s: entity type missing id", prefix)
	} else if !IsValidID(entity.ID) {
		result.AddWarning(validation.CategoryInvalidStructure,
			"%s: entity type id %q is not numeric", prefix, entity.ID)
	}
	if entity.Name == "" {
		result.AddError(validation.CategoryMissingRequired, "%s: entity type missing name", prefix)
	} else {
		if len(entity.Name) > MaxNameLength {
			result.AddError(validation.CategoryNameTooLong,
				"%s: entity type name %q exceeds %d characters", prefix, truncate(entity.Name), MaxNameLength)
		}
		if !namePattern.MatchString(entity.Name) {
			result.AddWarning(validation.CategoryInvalidCharacter,
				"%s: entity type name %q should start with a letter and contain only letters, digits and underscores",
				prefix, entity.Name)
		}
	}
	if entity.Namespace == "" {
		result.AddError(validation.CategoryMissingRequired, "%s: entity type missing namespace", prefix)
	} else if IsReservedNamespace(entity.Namespace) {
		result.AddError(validation.CategoryFabricCompatibility,
			"%s: cannot use reserved namespace %q", prefix, entity.Namespace)
	}
	if entity.NamespaceType != models.NamespaceTypeCustom && entity.NamespaceType != "System" {
		result.AddError(validation.CategoryInvalidStructure,
			"%s: invalid namespaceType %q", prefix, entity.NamespaceType)
	}
	if entity.Visibility != models.VisibilityVisible && entity.Visibility != "Hidden" {
		result.AddError(validation.CategoryInvalidStructure,
			"%s: invalid visibility %q", prefix, entity.Visibility)
	}
	if entity.BaseEntityTypeID != "" && !IsValidID(entity.BaseEntityTypeID) {
		result.AddWarning(validation.CategoryInvalidStructure,
			"%s: baseEntityTypeId %q is not numeric", prefix, entity.BaseEntityTypeID)
	}

	if len(entity.Properties) > MaxPropertiesPerEntity {
		result.AddError(validation.CategoryFabricCompatibility,
			"%s: too many properties (%d) exceeds limit of %d",
			prefix, len(entity.Properties), MaxPropertiesPerEntity)
	} else {
		for j, prop := range entity.Properties {
			v.validateProperty(prop, fmt.Sprintf("%s.properties[%d]", prefix, j), result)
		}
	}
	for j, prop := range entity.TimeseriesProperties {
		v.validateProperty(prop, fmt.Sprintf("%s.timeseriesProperties[%d]", prefix, j), result)
	}
}

func (v *SchemaValidator) validateProperty(prop *models.EntityTypeProperty, prefix string, result *validation.Result) {
	if prop == nil {
		result.AddError(validation.CategoryInvalidStructure, "%s: property is nil", prefix)
		return
	}
	if prop.ID == "" {
		result.AddError(validation.CategoryMissingRequired, "%s: property missing id", prefix)
	}
	if prop.Name == "" {
		result.AddError(validation.CategoryMissingRequired, "%s: property missing name", prefix)
	} else if len(prop.Name) > MaxNameLength {
		result.AddError(validation.CategoryNameTooLong, "%s: property name too long", prefix)
	}
	if prop.ValueType == "" {
		result.AddError(validation.CategoryMissingRequired, "%s: property missing valueType", prefix)
	} else if !models.IsValidValueType(prop.ValueType) {
		result.AddError(validation.CategoryTypeMismatch,
			"%s: invalid valueType %q, must be one of %v", prefix, prop.ValueType, models.ValueTypes())
	}
}

func (v *SchemaValidator) validateRelationshipType(rel *models.RelationshipType, prefix string, result *validation.Result) {
	if rel.ID == "" {
		result.AddError(validation.CategoryMissingRequired, "%s: relationship type missing id", prefix)
	} else if !IsValidID(rel.ID) {
		result.AddWarning(validation.CategoryInvalidStructure,
			"%s: relationship type id %q is not numeric", prefix, rel.ID)
	}
	if rel.Name == "" {
		result.AddError(validation.CategoryMissingRequired, "%s: relationship type missing name", prefix)
	} else if len(rel.Name) > MaxNameLength {
		result.AddError(validation.CategoryNameTooLong, "%s: relationship type name too long", prefix)
	}
	if rel.Namespace == "" {
		result.AddError(validation.CategoryMissingRequired, "%s: relationship type missing namespace", prefix)
	}
	if rel.Source.EntityTypeID == "" {
		result.AddError(validation.CategoryMissingRequired, "%s: source missing entityTypeId", prefix)
	}
	if rel.Target.EntityTypeID == "" {
		result.AddError(validation.CategoryMissingRequired, "%s: target missing entityTypeId", prefix)
	}
}

// validateEndpointReferences warns about relationship endpoints that name
// entity types absent from the definition.
func (v *SchemaValidator) validateEndpointReferences(def *Definition, entityIDs map[string]bool, result *validation.Result) {
	for i, part := range def.Parts {
		if !strings.HasPrefix(part.Path, "RelationshipTypes/") {
			continue
		}
		var rel models.RelationshipType
		if err := DecodePayload(part.Payload, &rel); err != nil {
			continue // already reported
		}
		for _, end := range []struct {
			name string
			id   string
		}{
			{"source", rel.Source.EntityTypeID},
			{"target", rel.Target.EntityTypeID},
		} {
			if end.id != "" && !entityIDs[end.id] {
				result.AddWarning(validation.CategoryInvalidReference,
					"part %d: relationship type %q %s references unknown entityTypeId %q",
					i, rel.Name, end.name, end.id)
			}
		}
	}
}

func (v *SchemaValidator) validatePlatformPayload(part Part, prefix string, result *validation.Result) {
	var payload map[string]json.RawMessage
	if err := DecodePayload(part.Payload, &payload); err != nil {
		result.AddError(validation.CategorySyntaxError,
			"%s: invalid .platform payload: %v", prefix, err)
		return
	}
	if _, ok := payload["$schema"]; !ok {
		result.AddWarning(validation.CategoryInvalidStructure,
			"%s: .platform missing $schema field", prefix)
	}
	if _, ok := payload["config"]; !ok {
		result.AddWarning(validation.CategoryInvalidStructure,
			"%s: .platform missing config field", prefix)
	}
}

func (v *SchemaValidator) validateJSONPayload(part Part, prefix string, result *validation.Result) {
	var payload map[string]json.RawMessage
	if err := DecodePayload(part.Payload, &payload); err != nil {
		result.AddError(validation.CategorySyntaxError,
			"%s: invalid definition.json payload: %v", prefix, err)
	}
}
