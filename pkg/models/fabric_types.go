package models

// Default placement for converted types. Converted ontologies always land in
// the user namespace; the reserved system/fabric/microsoft namespaces are
// rejected by validation.
const (
	DefaultNamespace    = "usertypes"
	NamespaceTypeCustom = "Custom"
	VisibilityVisible   = "Visible"
)

// EntityTypeProperty is a single typed property on an entity type.
// ValueType is one of the Fabric primitive types (String, BigInt, Double,
// Boolean, DateTime, ...).
type EntityTypeProperty struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	ValueType             string `json:"valueType"`
	Redefines             string `json:"redefines,omitempty"`             // ID of an inherited property this one overrides
	BaseTypeNamespaceType string `json:"baseTypeNamespaceType,omitempty"` // set when redefining a property from another namespace
	Description           string `json:"description,omitempty"`
}

// EntityType is a converted entity definition. IDs are sequential digit
// strings from the generator (RDF) or deterministic DTMI hashes (DTDL).
// BaseEntityTypeID holds the single parent; multiple inheritance in the
// source collapses to the first parent with a warning.
type EntityType struct {
	ID                    string                `json:"id"`
	Namespace             string                `json:"namespace"`
	Name                  string                `json:"name"`
	NamespaceType         string                `json:"namespaceType"`
	Visibility            string                `json:"visibility"`
	BaseEntityTypeID      string                `json:"baseEntityTypeId,omitempty"`
	EntityIDParts         []string              `json:"entityIdParts,omitempty"`
	DisplayNamePropertyID string                `json:"displayNamePropertyId,omitempty"`
	Properties            []*EntityTypeProperty `json:"properties,omitempty"`
	TimeseriesProperties  []*EntityTypeProperty `json:"timeseriesProperties,omitempty"`
	Description           string                `json:"description,omitempty"`
}

// NewEntityType returns an entity type in the default namespace with
// standard visibility.
func NewEntityType(id, name string) *EntityType {
	return &EntityType{
		ID:            id,
		Namespace:     DefaultNamespace,
		Name:          name,
		NamespaceType: NamespaceTypeCustom,
		Visibility:    VisibilityVisible,
	}
}

// Property returns the named property, searching regular properties first
// and then timeseries properties. Returns nil when absent.
func (e *EntityType) Property(name string) *EntityTypeProperty {
	for _, p := range e.Properties {
		if p.Name == name {
			return p
		}
	}
	for _, p := range e.TimeseriesProperties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// HasProperty reports whether the entity declares a property with the given
// name, in either the regular or timeseries set.
func (e *EntityType) HasProperty(name string) bool {
	return e.Property(name) != nil
}

// PropertyCount counts regular plus timeseries properties.
func (e *EntityType) PropertyCount() int {
	return len(e.Properties) + len(e.TimeseriesProperties)
}

// RelationshipEnd points at one endpoint of a relationship.
type RelationshipEnd struct {
	EntityTypeID string `json:"entityTypeId"`
}

// RelationshipType is a directed, named connection between two entity types
// already present in the same conversion batch. Endpoints are never
// fabricated; a relationship whose endpoint is missing is skipped instead.
type RelationshipType struct {
	ID            string          `json:"id"`
	Namespace     string          `json:"namespace"`
	Name          string          `json:"name"`
	NamespaceType string          `json:"namespaceType"`
	Source        RelationshipEnd `json:"source"`
	Target        RelationshipEnd `json:"target"`
}

// NewRelationshipType returns a relationship in the default namespace
// connecting sourceID to targetID.
func NewRelationshipType(id, name, sourceID, targetID string) *RelationshipType {
	return &RelationshipType{
		ID:            id,
		Namespace:     DefaultNamespace,
		Name:          name,
		NamespaceType: NamespaceTypeCustom,
		Source:        RelationshipEnd{EntityTypeID: sourceID},
		Target:        RelationshipEnd{EntityTypeID: targetID},
	}
}
