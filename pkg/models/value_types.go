package models

// Fabric value types. Converters emit the String/BigInt/Double/Boolean/
// DateTime subset; the remainder are accepted when mapping overlays or
// callers request them explicitly.
const (
	ValueTypeString   = "String"
	ValueTypeBigInt   = "BigInt"
	ValueTypeDouble   = "Double"
	ValueTypeDecimal  = "Decimal"
	ValueTypeBoolean  = "Boolean"
	ValueTypeDateTime = "DateTime"
	ValueTypeBinary   = "Binary"
	ValueTypeGuid     = "Guid"
)

var validValueTypes = map[string]bool{
	ValueTypeString:   true,
	ValueTypeBigInt:   true,
	ValueTypeDouble:   true,
	ValueTypeDecimal:  true,
	ValueTypeBoolean:  true,
	ValueTypeDateTime: true,
	ValueTypeBinary:   true,
	ValueTypeGuid:     true,
}

// IsValidValueType reports whether s names a Fabric value type.
func IsValidValueType(s string) bool {
	return validValueTypes[s]
}

// ValueTypes returns the full set of Fabric value types.
func ValueTypes() []string {
	return []string{
		ValueTypeString, ValueTypeBigInt, ValueTypeDouble, ValueTypeDecimal,
		ValueTypeBoolean, ValueTypeDateTime, ValueTypeBinary, ValueTypeGuid,
	}
}
