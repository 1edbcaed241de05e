package dtdl

// Version identifies a DTDL language version.
type Version int

const (
	V2 Version = 2
	V3 Version = 3
	V4 Version = 4
)

// Limits captures the structural limits a DTDL version imposes. Zero in a
// count field means the version sets no explicit limit.
type Limits struct {
	MaxContents     int
	MaxExtends      int
	MaxExtendsDepth int
	MaxSchemaDepth  int
	MaxNameLength   int
	MaxEnumValues   int
	MaxObjectFields int

	ArrayInProperty bool
	SemanticTypes   bool
	ScaledDecimal   bool
}

var versionLimits = map[Version]Limits{
	V2: {
		MaxContents:     300,
		MaxExtends:      2,
		MaxExtendsDepth: 10,
		MaxSchemaDepth:  5,
		MaxNameLength:   64,
		MaxEnumValues:   100,
		MaxObjectFields: 30,
		SemanticTypes:   true,
	},
	V3: {
		MaxContents:     100000,
		MaxExtends:      1024,
		MaxExtendsDepth: 10,
		MaxSchemaDepth:  5,
		MaxNameLength:   512,
		ArrayInProperty: true,
	},
	V4: {
		MaxContents:     100000,
		MaxExtends:      1024,
		MaxExtendsDepth: 12,
		MaxSchemaDepth:  8,
		MaxNameLength:   512,
		ArrayInProperty: true,
		ScaledDecimal:   true,
	},
}

// LimitsFor returns the structural limits for a DTDL version. Unknown
// versions fall back to the v3 limits.
func LimitsFor(v Version) Limits {
	if limits, ok := versionLimits[v]; ok {
		return limits
	}
	return versionLimits[V3]
}

// IsKnownVersion reports whether v is a DTDL version this package
// understands.
func IsKnownVersion(v Version) bool {
	_, ok := versionLimits[v]
	return ok
}
