package fabric

import (
	"encoding/base64"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ontoforge/ontoforge/pkg/apperrors"
	"github.com/ontoforge/ontoforge/pkg/models"
)

// PayloadTypeInlineBase64 is the only payload encoding the Fabric definition
// API accepts.
const PayloadTypeInlineBase64 = "InlineBase64"

// platformSchemaURL identifies the git-integration platform file format.
const platformSchemaURL = "https://developer.microsoft.com/json-schemas/fabric/gitIntegration/platformProperties/2.0.0/schema.json"

// Part is one file of a Fabric item definition.
type Part struct {
	Path        string `json:"path"`
	Payload     string `json:"payload"`
	PayloadType string `json:"payloadType"`
}

// Definition is the parts array the Fabric API takes when creating or
// updating an ontology item.
type Definition struct {
	Parts []Part `json:"parts"`
}

// Part returns the part at the given path, or nil.
func (d *Definition) Part(path string) *Part {
	for i := range d.Parts {
		if d.Parts[i].Path == path {
			return &d.Parts[i]
		}
	}
	return nil
}

type platformMetadata struct {
	Type        string `json:"type"`
	DisplayName string `json:"displayName"`
}

type platformConfig struct {
	Version   string `json:"version"`
	LogicalID string `json:"logicalId"`
}

type platformContent struct {
	Schema   string           `json:"$schema"`
	Metadata platformMetadata `json:"metadata"`
	Config   platformConfig   `json:"config"`
}

// EncodePayload serializes a value to indented JSON and base64-encodes it
// for a definition part.
func EncodePayload(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", apperrors.Wrap(err, "encode definition payload")
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodePayload reverses EncodePayload into v.
func DecodePayload(payload string, v any) error {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return apperrors.Wrap(err, "decode base64 payload")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return apperrors.Wrap(err, "decode payload JSON")
	}
	return nil
}

// Serializer turns converted entity and relationship types into the Fabric
// definition format.
type Serializer struct {
	logger *zap.Logger
}

// NewSerializer creates a definition serializer.
func NewSerializer(logger *zap.Logger) *Serializer {
	return &Serializer{logger: logger.Named("fabric-serializer")}
}

// BuildDefinition produces the full parts array: the .platform metadata
// file, an empty definition.json, one part per entity type with parents
// ordered before children, and one part per relationship type.
func (s *Serializer) BuildDefinition(
	entityTypes []*models.EntityType,
	relationshipTypes []*models.RelationshipType,
	displayName string,
) (*Definition, error) {
	def := &Definition{}

	platform, err := EncodePayload(platformContent{
		Schema: platformSchemaURL,
		Metadata: platformMetadata{
			Type:        "Ontology",
			DisplayName: displayName,
		},
		Config: platformConfig{
			Version:   "2.0",
			LogicalID: uuid.NewString(),
		},
	})
	if err != nil {
		return nil, err
	}
	def.Parts = append(def.Parts, Part{
		Path:        ".platform",
		Payload:     platform,
		PayloadType: PayloadTypeInlineBase64,
	})

	def.Parts = append(def.Parts, Part{
		Path:        "definition.json",
		Payload:     base64.StdEncoding.EncodeToString([]byte("{}")),
		PayloadType: PayloadTypeInlineBase64,
	})

	for _, entity := range s.sortParentsFirst(entityTypes) {
		payload, err := EncodePayload(entity)
		if err != nil {
			return nil, err
		}
		def.Parts = append(def.Parts, Part{
			Path:        "EntityTypes/" + entity.ID + "/definition.json",
			Payload:     payload,
			PayloadType: PayloadTypeInlineBase64,
		})
	}

	for _, rel := range relationshipTypes {
		payload, err := EncodePayload(rel)
		if err != nil {
			return nil, err
		}
		def.Parts = append(def.Parts, Part{
			Path:        "RelationshipTypes/" + rel.ID + "/definition.json",
			Payload:     payload,
			PayloadType: PayloadTypeInlineBase64,
		})
	}

	s.logger.Debug("built fabric definition",
		zap.Int("parts", len(def.Parts)),
		zap.Int("entity_types", len(entityTypes)),
		zap.Int("relationship_types", len(relationshipTypes)))
	return def, nil
}

// sortParentsFirst orders entity types so each baseEntityTypeId appears
// before the types deriving from it, as the Fabric API requires. Kahn's
// algorithm; entities stuck in a base-type cycle are appended at the end
// with a warning.
func (s *Serializer) sortParentsFirst(entityTypes []*models.EntityType) []*models.EntityType {
	byID := make(map[string]*models.EntityType, len(entityTypes))
	for _, entity := range entityTypes {
		byID[entity.ID] = entity
	}

	inDegree := make(map[string]int, len(entityTypes))
	children := make(map[string][]string, len(entityTypes))
	for _, entity := range entityTypes {
		inDegree[entity.ID] = 0
	}
	for _, entity := range entityTypes {
		if entity.BaseEntityTypeID == "" {
			continue
		}
		if _, known := byID[entity.BaseEntityTypeID]; !known {
			continue
		}
		inDegree[entity.ID]++
		children[entity.BaseEntityTypeID] = append(children[entity.BaseEntityTypeID], entity.ID)
	}

	var queue []string
	for _, entity := range entityTypes {
		if inDegree[entity.ID] == 0 {
			queue = append(queue, entity.ID)
		}
	}

	sorted := make([]*models.EntityType, 0, len(entityTypes))
	visited := make(map[string]bool, len(entityTypes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		sorted = append(sorted, byID[id])
		for _, childID := range children[id] {
			inDegree[childID]--
			if inDegree[childID] == 0 {
				queue = append(queue, childID)
			}
		}
	}

	for _, entity := range entityTypes {
		if !visited[entity.ID] {
			s.logger.Warn("entity type not reached in topological sort",
				zap.String("id", entity.ID), zap.String("name", entity.Name))
			sorted = append(sorted, entity)
		}
	}
	return sorted
}
