// Package fabric holds the target-side rules of the conversion: the Fabric
// Ontology API's naming and size constraints, the git-format definition
// (parts array with base64 payloads), and validators for both.
package fabric

import (
	"regexp"
	"strings"
)

// API limits, from the Fabric Ontology API documentation.
const (
	MaxNameLength          = 256
	MaxEntityTypes         = 500
	MaxRelationshipTypes   = 500
	MaxPropertiesPerEntity = 200
	MaxEntityIDParts       = 10

	// MaxDefinitionSizeKB caps the serialized definition; WarnDefinitionSizeKB
	// is the threshold where a size warning is raised.
	MaxDefinitionSizeKB  = 10240
	WarnDefinitionSizeKB = 8192
)

// approachingFactor is the fraction of a count limit at which a warning is
// raised before the hard error.
const approachingFactor = 0.9

var (
	namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
	idPattern   = regexp.MustCompile(`^\d+$`)
)

// reservedNamespaces cannot be used for custom types.
var reservedNamespaces = map[string]bool{
	"system":    true,
	"fabric":    true,
	"microsoft": true,
}

// IsValidName reports whether a name satisfies the Fabric naming rule:
// starts with a letter, contains only letters, digits and underscores, and
// does not exceed MaxNameLength.
func IsValidName(name string) bool {
	return len(name) <= MaxNameLength && namePattern.MatchString(name)
}

// IsValidID reports whether an ID is a non-empty numeric string.
func IsValidID(id string) bool {
	return idPattern.MatchString(id)
}

// IsReservedNamespace reports whether the namespace is reserved by Fabric.
// The check is case-insensitive.
func IsReservedNamespace(namespace string) bool {
	return reservedNamespaces[strings.ToLower(namespace)]
}
