package converters

import "strings"

// Fabric naming limits for converted identifiers and the ontology display
// name.
const (
	maxEntityNameLen   = 256
	maxOntologyNameLen = 100
)

// cleanName maps a raw name onto the Fabric identifier grammar: characters
// outside [A-Za-z0-9_] become underscores, a name that does not start with
// a letter gets an "E_" prefix, and the result is capped at maxLen.
// Empty input stays empty.
func cleanName(raw string, maxLen int) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if isNameChar(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	name := b.String()
	if !isASCIILetter(rune(name[0])) {
		name = "E_" + name
	}
	if len(name) > maxLen {
		name = name[:maxLen]
	}
	return name
}

// sanitizeEntityName is cleanName with a fixed fallback so elements with
// empty display names still produce a legal Fabric name.
func sanitizeEntityName(raw string) string {
	if name := cleanName(raw, maxEntityNameLen); name != "" {
		return name
	}
	return "Entity"
}

// cleanOntologyName applies the display-name rules: alphanumerics and
// underscores only, capped at 100 characters, then "O_"-prefixed when the
// name does not start with a letter. Returns empty when nothing usable
// remains.
func cleanOntologyName(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if isNameChar(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	name := b.String()
	if len(name) > maxOntologyNameLen {
		name = name[:maxOntologyNameLen]
	}
	if name == "" {
		return ""
	}
	if !isASCIILetter(rune(name[0])) {
		name = "O_" + name
	}
	return name
}

// localName extracts the URI fragment, or the trailing path segment when
// there is no fragment. May be empty for URIs ending in '#' or '/'.
func localName(uri string) string {
	uri = strings.TrimSpace(uri)
	if i := strings.LastIndexByte(uri, '#'); i >= 0 {
		return uri[i+1:]
	}
	if i := strings.LastIndexByte(uri, '/'); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

func isNameChar(r rune) bool {
	return r == '_' || isASCIILetter(r) || (r >= '0' && r <= '9')
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
