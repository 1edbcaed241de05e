package converters

import (
	"go.uber.org/zap"

	"github.com/ontoforge/ontoforge/pkg/rdf"
)

// EndpointInference fills in missing rdfs:domain or rdfs:range for object
// properties. Implementations report whether they could produce an endpoint;
// converters fall back to skipping the relationship when they cannot.
type EndpointInference interface {
	// Domain returns the inferred source class URI for the property.
	Domain(propertyURI string) (string, bool)
	// Range returns the inferred target class URI for the property.
	Range(propertyURI string) (string, bool)
}

// NoInference declines every request. Used in strict mode, where
// relationships without declared endpoints are skipped instead of guessed.
type NoInference struct{}

func (NoInference) Domain(string) (string, bool) { return "", false }
func (NoInference) Range(string) (string, bool)  { return "", false }

type usageCount struct {
	class string
	count int
}

// UsageInference derives endpoints from how properties are actually used in
// the graph: for each candidate property it tallies the rdf:type of the
// subjects and objects of its triples, restricted to known classes, and
// answers with the most frequent type. Ties resolve to the type seen first.
type UsageInference struct {
	domains map[string]string
	ranges  map[string]string
}

// NewUsageInference scans the graph once and precomputes the most frequent
// subject and object class for every property in candidates. isClass gates
// which types count as usable endpoints.
func NewUsageInference(g *rdf.Graph, candidates map[string]bool, isClass func(string) bool, logger *zap.Logger) *UsageInference {
	subjectTypes := collectTypes(g, isClass)

	domainCounts := make(map[string][]usageCount)
	rangeCounts := make(map[string][]usageCount)
	for _, t := range g.Triples() {
		if !t.P.IsIRI() || !candidates[t.P.Value] {
			continue
		}
		pred := t.P.Value
		if t.S.IsIRI() {
			for _, class := range subjectTypes[t.S.Value] {
				domainCounts[pred] = tally(domainCounts[pred], class)
			}
		}
		if t.O.IsIRI() {
			for _, class := range subjectTypes[t.O.Value] {
				rangeCounts[pred] = tally(rangeCounts[pred], class)
			}
		}
	}

	inf := &UsageInference{
		domains: make(map[string]string, len(domainCounts)),
		ranges:  make(map[string]string, len(rangeCounts)),
	}
	for prop, counts := range domainCounts {
		inf.domains[prop] = mostFrequent(counts)
	}
	for prop, counts := range rangeCounts {
		inf.ranges[prop] = mostFrequent(counts)
	}
	if logger != nil && (len(inf.domains) > 0 || len(inf.ranges) > 0) {
		logger.Debug("endpoint usage inference ready",
			zap.Int("domains", len(inf.domains)),
			zap.Int("ranges", len(inf.ranges)))
	}
	return inf
}

func (u *UsageInference) Domain(propertyURI string) (string, bool) {
	class, ok := u.domains[propertyURI]
	return class, ok
}

func (u *UsageInference) Range(propertyURI string) (string, bool) {
	class, ok := u.ranges[propertyURI]
	return class, ok
}

// collectTypes maps each IRI subject to its declared rdf:type classes,
// keeping only types accepted by isClass and preserving declaration order.
func collectTypes(g *rdf.Graph, isClass func(string) bool) map[string][]string {
	types := make(map[string][]string)
	for _, t := range g.TriplesWithPredicate(rdf.RDFType) {
		if !t.S.IsIRI() || !t.O.IsIRI() {
			continue
		}
		if !isClass(t.O.Value) {
			continue
		}
		types[t.S.Value] = append(types[t.S.Value], t.O.Value)
	}
	return types
}

func tally(counts []usageCount, class string) []usageCount {
	for i := range counts {
		if counts[i].class == class {
			counts[i].count++
			return counts
		}
	}
	return append(counts, usageCount{class: class, count: 1})
}

// mostFrequent returns the class with the highest count. Slice order is
// first-seen order, so ties go to the earliest occurrence.
func mostFrequent(counts []usageCount) string {
	best := counts[0]
	for _, c := range counts[1:] {
		if c.count > best.count {
			best = c
		}
	}
	return best.class
}
