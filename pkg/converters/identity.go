package converters

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ontoforge/ontoforge/pkg/apperrors"
	"github.com/ontoforge/ontoforge/pkg/models"
)

// Key part inference strategies.
const (
	KeyStrategyAuto       = "auto"
	KeyStrategyFirstValid = "first_valid"
	KeyStrategyExplicit   = "explicit"
	KeyStrategyNone       = "none"
)

// defaultKeyPatterns are the property names recognized as primary keys by
// the auto strategy, checked as exact matches first and substrings second.
var defaultKeyPatterns = []string{
	"id", "identifier", "uuid", "guid", "key", "pk", "code", "number", "serial",
}

// keyPartValueTypes are the Fabric value types allowed in entityIdParts.
var keyPartValueTypes = map[string]bool{
	models.ValueTypeString: true,
	models.ValueTypeBigInt: true,
}

// KeyPartsInferrer selects the entityIdParts and displayNamePropertyId of
// converted entity types. The strategy decides how aggressively it guesses:
// auto pattern-matches property names, first_valid takes the first key-typed
// property, explicit only honors caller-supplied mappings, none leaves every
// entity without ID parts.
type KeyPartsInferrer struct {
	strategy string
	explicit map[string][]string
	patterns []string
	logger   *zap.Logger
}

// NewKeyPartsInferrer builds an inferrer. An empty strategy means auto;
// unknown strategies are rejected. Custom patterns extend the built-in
// primary-key patterns, and explicit maps entity names to the property names
// that form their key.
func NewKeyPartsInferrer(strategy string, explicit map[string][]string, customPatterns []string, logger *zap.Logger) (*KeyPartsInferrer, error) {
	if strategy == "" {
		strategy = KeyStrategyAuto
	}
	switch strategy {
	case KeyStrategyAuto, KeyStrategyFirstValid, KeyStrategyExplicit, KeyStrategyNone:
	default:
		return nil, apperrors.Newf("unknown key part strategy %q", strategy)
	}
	patterns := make([]string, 0, len(defaultKeyPatterns)+len(customPatterns))
	patterns = append(patterns, defaultKeyPatterns...)
	patterns = append(patterns, customPatterns...)
	return &KeyPartsInferrer{
		strategy: strategy,
		explicit: explicit,
		patterns: patterns,
		logger:   logger.Named("keyparts"),
	}, nil
}

// InferKeyParts returns the property IDs forming the entity's key. Explicit
// mappings win over every strategy; otherwise the configured strategy
// applies. The result may be empty when no property qualifies.
func (k *KeyPartsInferrer) InferKeyParts(entity *models.EntityType) []string {
	if names, ok := k.explicit[entity.Name]; ok {
		return k.resolvePropertyIDs(entity, names)
	}

	switch k.strategy {
	case KeyStrategyNone, KeyStrategyExplicit:
		return nil
	case KeyStrategyFirstValid:
		return firstValidKeyProperty(entity.Properties)
	default:
		return k.autoInfer(entity.Properties)
	}
}

// autoInfer scans properties in declaration order: the first key-typed
// property whose name matches a pattern exactly or by substring wins, then
// the first key-typed property at all.
func (k *KeyPartsInferrer) autoInfer(properties []*models.EntityTypeProperty) []string {
	for _, prop := range properties {
		if !keyPartValueTypes[prop.ValueType] {
			continue
		}
		name := strings.ToLower(prop.Name)
		for _, pattern := range k.patterns {
			if name == strings.ToLower(pattern) {
				return []string{prop.ID}
			}
		}
		for _, pattern := range k.patterns {
			if strings.Contains(name, strings.ToLower(pattern)) {
				return []string{prop.ID}
			}
		}
	}
	return firstValidKeyProperty(properties)
}

func firstValidKeyProperty(properties []*models.EntityTypeProperty) []string {
	for _, prop := range properties {
		if keyPartValueTypes[prop.ValueType] {
			return []string{prop.ID}
		}
	}
	return nil
}

// resolvePropertyIDs maps explicit property names to IDs, case-insensitive.
// Names that match nothing are dropped with a log entry.
func (k *KeyPartsInferrer) resolvePropertyIDs(entity *models.EntityType, names []string) []string {
	byName := make(map[string]string, len(entity.Properties))
	for _, prop := range entity.Properties {
		byName[strings.ToLower(prop.Name)] = prop.ID
	}

	var ids []string
	for _, name := range names {
		if id, ok := byName[strings.ToLower(name)]; ok {
			ids = append(ids, id)
		} else {
			k.logger.Warn("property not found for explicit key part mapping",
				zap.String("entity", entity.Name),
				zap.String("property", name))
		}
	}
	return ids
}

// InferAll sets entityIdParts on every entity that has none (or on all of
// them when overwrite is set) and returns how many were updated.
func (k *KeyPartsInferrer) InferAll(entities []*models.EntityType, overwrite bool) int {
	updated := 0
	for _, entity := range entities {
		if len(entity.EntityIDParts) > 0 && !overwrite {
			continue
		}
		parts := k.InferKeyParts(entity)
		if len(parts) == 0 {
			continue
		}
		entity.EntityIDParts = parts
		updated++
	}
	return updated
}

// SetDisplayName picks displayNamePropertyId: the first entityIdPart when it
// is a String, else the first String property whose name contains "name",
// else the first String property. Returns the chosen ID, or empty when no
// String property exists.
func (k *KeyPartsInferrer) SetDisplayName(entity *models.EntityType) string {
	if len(entity.EntityIDParts) > 0 {
		for _, prop := range entity.Properties {
			if prop.ID == entity.EntityIDParts[0] && prop.ValueType == models.ValueTypeString {
				entity.DisplayNamePropertyID = prop.ID
				return prop.ID
			}
		}
	}
	for _, prop := range entity.Properties {
		if prop.ValueType == models.ValueTypeString && strings.Contains(strings.ToLower(prop.Name), "name") {
			entity.DisplayNamePropertyID = prop.ID
			return prop.ID
		}
	}
	for _, prop := range entity.Properties {
		if prop.ValueType == models.ValueTypeString {
			entity.DisplayNamePropertyID = prop.ID
			return prop.ID
		}
	}
	return ""
}
