package fabric

import (
	"encoding/json"
	"fmt"

	"github.com/jinzhu/inflection"

	"github.com/ontoforge/ontoforge/pkg/models"
	"github.com/ontoforge/ontoforge/pkg/validation"
)

// LimitsValidator checks converted entity and relationship types against
// the Fabric API limits before serialization: type counts, property counts,
// name lengths, entityIdParts fan-out, and the estimated definition size.
// Counts within 90% of a limit raise a warning ahead of the hard error.
type LimitsValidator struct {
	maxEntityTypes         int
	maxRelationshipTypes   int
	maxPropertiesPerEntity int
	maxNameLength          int
	maxEntityIDParts       int
	maxDefinitionSizeKB    int
	warnDefinitionSizeKB   int
}

// NewLimitsValidator creates a validator with the documented API limits.
func NewLimitsValidator() *LimitsValidator {
	return &LimitsValidator{
		maxEntityTypes:         MaxEntityTypes,
		maxRelationshipTypes:   MaxRelationshipTypes,
		maxPropertiesPerEntity: MaxPropertiesPerEntity,
		maxNameLength:          MaxNameLength,
		maxEntityIDParts:       MaxEntityIDParts,
		maxDefinitionSizeKB:    MaxDefinitionSizeKB,
		warnDefinitionSizeKB:   WarnDefinitionSizeKB,
	}
}

// Validate runs every limit check and returns the combined report.
func (v *LimitsValidator) Validate(
	entityTypes []*models.EntityType,
	relationshipTypes []*models.RelationshipType,
) *validation.Result {
	result := validation.NewResult("fabric-limits")
	v.validateEntityTypes(entityTypes, result)
	v.validateRelationshipTypes(relationshipTypes, result)
	v.validateDefinitionSize(entityTypes, relationshipTypes, result)
	result.SetStat("entity_types", len(entityTypes))
	result.SetStat("relationship_types", len(relationshipTypes))
	return result
}

func (v *LimitsValidator) validateEntityTypes(entityTypes []*models.EntityType, result *validation.Result) {
	switch {
	case len(entityTypes) > v.maxEntityTypes:
		result.AddError(validation.CategoryFabricCompatibility,
			"number of entity types (%d) exceeds maximum (%d)",
			len(entityTypes), v.maxEntityTypes)
	case float64(len(entityTypes)) > float64(v.maxEntityTypes)*approachingFactor:
		result.AddWarning(validation.CategoryFabricCompatibility,
			"number of entity types (%d) is approaching maximum (%d)",
			len(entityTypes), v.maxEntityTypes)
	}

	for _, entity := range entityTypes {
		if len(entity.Name) > v.maxNameLength {
			result.AddError(validation.CategoryNameTooLong,
				"entity name %q exceeds maximum length (%d characters)",
				truncate(entity.Name), v.maxNameLength)
		}

		propCount := len(entity.Properties)
		switch {
		case propCount > v.maxPropertiesPerEntity:
			result.AddError(validation.CategoryFabricCompatibility,
				"entity %q has %d properties, exceeding maximum (%d)",
				entity.Name, propCount, v.maxPropertiesPerEntity)
		case float64(propCount) > float64(v.maxPropertiesPerEntity)*approachingFactor:
			result.AddWarning(validation.CategoryFabricCompatibility,
				"entity %q has %d properties, approaching maximum (%d)",
				entity.Name, propCount, v.maxPropertiesPerEntity)
		}

		for _, prop := range entity.Properties {
			if len(prop.Name) > v.maxNameLength {
				result.AddError(validation.CategoryNameTooLong,
					"property %q in entity %q exceeds maximum length (%d characters)",
					truncate(prop.Name), entity.Name, v.maxNameLength)
			}
		}
		for _, prop := range entity.TimeseriesProperties {
			if len(prop.Name) > v.maxNameLength {
				result.AddError(validation.CategoryNameTooLong,
					"timeseries property %q in entity %q exceeds maximum length (%d characters)",
					truncate(prop.Name), entity.Name, v.maxNameLength)
			}
		}

		if len(entity.EntityIDParts) > v.maxEntityIDParts {
			result.AddError(validation.CategoryFabricCompatibility,
				"entity %q has %d entityIdParts, exceeding maximum (%d)",
				entity.Name, len(entity.EntityIDParts), v.maxEntityIDParts)
		}

		v.checkSingularName(entity.Name, result)
	}
}

func (v *LimitsValidator) validateRelationshipTypes(relationshipTypes []*models.RelationshipType, result *validation.Result) {
	switch {
	case len(relationshipTypes) > v.maxRelationshipTypes:
		result.AddError(validation.CategoryFabricCompatibility,
			"number of relationship types (%d) exceeds maximum (%d)",
			len(relationshipTypes), v.maxRelationshipTypes)
	case float64(len(relationshipTypes)) > float64(v.maxRelationshipTypes)*approachingFactor:
		result.AddWarning(validation.CategoryFabricCompatibility,
			"number of relationship types (%d) is approaching maximum (%d)",
			len(relationshipTypes), v.maxRelationshipTypes)
	}

	for _, rel := range relationshipTypes {
		if len(rel.Name) > v.maxNameLength {
			result.AddError(validation.CategoryNameTooLong,
				"relationship name %q exceeds maximum length (%d characters)",
				truncate(rel.Name), v.maxNameLength)
		}
	}
}

// validateDefinitionSize estimates the serialized size of the model and
// flags definitions that would be rejected or are close to the cap.
func (v *LimitsValidator) validateDefinitionSize(
	entityTypes []*models.EntityType,
	relationshipTypes []*models.RelationshipType,
	result *validation.Result,
) {
	entityJSON, err := json.Marshal(entityTypes)
	if err != nil {
		return
	}
	relJSON, err := json.Marshal(relationshipTypes)
	if err != nil {
		return
	}
	sizeKB := float64(len(entityJSON)+len(relJSON)) / 1024

	switch {
	case sizeKB > float64(v.maxDefinitionSizeKB):
		result.AddError(validation.CategoryFabricCompatibility,
			"total definition size (%.1f KB) exceeds maximum (%d KB)",
			sizeKB, v.maxDefinitionSizeKB)
	case sizeKB > float64(v.warnDefinitionSizeKB):
		result.AddWarning(validation.CategoryFabricCompatibility,
			"total definition size (%.1f KB) is approaching maximum (%d KB)",
			sizeKB, v.maxDefinitionSizeKB)
	}
}

// checkSingularName suggests the singular form when an entity type carries a
// plural name. Entity types model one instance each; plural names usually
// indicate a collection was modeled by accident.
func (v *LimitsValidator) checkSingularName(name string, result *validation.Result) {
	singular := inflection.Singular(name)
	if singular == name || singular == "" {
		return
	}
	result.Add(validation.Issue{
		Severity:       validation.SeverityInfo,
		Category:       validation.CategoryBestPractice,
		Message:        fmt.Sprintf("entity type name %q appears to be plural", name),
		Recommendation: fmt.Sprintf("consider the singular form %q", singular),
	})
}

func truncate(s string) string {
	const keep = 50
	if len(s) <= keep {
		return s
	}
	return s[:keep] + "..."
}
