package rdf

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/ontoforge/ontoforge/pkg/apperrors"
)

// Canonical serialization names. The decoder handles the Turtle family;
// N-Triples and the class/property subset of N3 are Turtle subsets and parse
// with the same code path.
const (
	FormatTurtle   = "turtle"
	FormatNTriples = "nt"
	FormatN3       = "n3"

	DefaultFormat = FormatTurtle
)

var formatAliases = map[string]string{
	"ttl":       FormatTurtle,
	"turtle":    FormatTurtle,
	"nt":        FormatNTriples,
	"ntriples":  FormatNTriples,
	"n-triples": FormatNTriples,
	"n3":        FormatN3,
	"rdf":       "xml",
	"rdfxml":    "xml",
	"rdf-xml":   "xml",
	"owl":       "xml",
	"xml":       "xml",
	"trig":      "trig",
	"nq":        "nquads",
	"nquad":     "nquads",
	"nquads":    "nquads",
	"trix":      "trix",
	"jsonld":    "json-ld",
	"json_ld":   "json-ld",
	"json-ld":   "json-ld",
}

var supportedFormats = map[string]bool{
	FormatTurtle:   true,
	FormatNTriples: true,
	FormatN3:       true,
}

var extensionFormats = map[string]string{
	".ttl":    FormatTurtle,
	".turtle": FormatTurtle,
	".nt":     FormatNTriples,
	".n3":     FormatN3,
	".owl":    "xml",
	".rdf":    "xml",
	".xml":    "xml",
	".jsonld": "json-ld",
	".nq":     "nquads",
	".trig":   "trig",
}

// NormalizeFormat maps a user-provided serialization name or alias to its
// canonical name. Unknown names pass through lowercased.
func NormalizeFormat(name string) string {
	if name == "" {
		return ""
	}
	fmt := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := formatAliases[fmt]; ok {
		return canonical
	}
	return fmt
}

// InferFormatFromPath guesses the serialization from a file extension.
func InferFormatFromPath(path string) string {
	return extensionFormats[strings.ToLower(filepath.Ext(path))]
}

// ResolveFormat picks the effective serialization from an explicit name or a
// file path hint, defaulting to Turtle. Serializations outside the Turtle
// family are rejected.
func ResolveFormat(name, path string) (string, error) {
	resolved := NormalizeFormat(name)
	if resolved == "" && path != "" {
		resolved = InferFormatFromPath(path)
	}
	if resolved == "" {
		resolved = DefaultFormat
	}
	if !supportedFormats[resolved] {
		supported := make([]string, 0, len(supportedFormats))
		for f := range supportedFormats {
			supported = append(supported, f)
		}
		sort.Strings(supported)
		return "", apperrors.Newf(
			"unsupported RDF serialization format %q (supported: %s)",
			resolved, strings.Join(supported, ", "))
	}
	return resolved, nil
}

// Parse decodes content in the named serialization (or alias) into a graph.
func Parse(content, format string) (*Graph, error) {
	if _, err := ResolveFormat(format, ""); err != nil {
		return nil, err
	}
	return ParseTurtle(content)
}
