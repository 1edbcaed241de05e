package converters

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ontoforge/ontoforge/pkg/apperrors"
	"github.com/ontoforge/ontoforge/pkg/formats"
	"github.com/ontoforge/ontoforge/pkg/idgen"
	"github.com/ontoforge/ontoforge/pkg/models"
	"github.com/ontoforge/ontoforge/pkg/rdf"
	"github.com/ontoforge/ontoforge/pkg/typemap"
	"github.com/ontoforge/ontoforge/pkg/validation"
)

const (
	rdfFormatName       = "rdf"
	defaultOntologyName = "ImportedOntology"
)

// RDFConverter converts parsed RDF/OWL graphs into Fabric entity and
// relationship types. Classes become entity types, datatype properties
// become typed properties on their domain classes, object properties become
// relationship types. An instance is not safe for concurrent use; the
// formats registry hands out a fresh one per conversion.
type RDFConverter struct {
	opts      formats.Options
	types     *typemap.Registry
	keys      *KeyPartsInferrer
	ids       *idgen.Generator
	prefix    int64
	sharedGen bool
	logger    *zap.Logger

	uriToID map[string]string
}

// NewRDFConverter builds a converter from shared format options.
func NewRDFConverter(opts formats.Options, logger *zap.Logger) (*RDFConverter, error) {
	keys, err := NewKeyPartsInferrer(opts.KeyPartStrategy, opts.ExplicitKeyParts, opts.KeyPatterns, logger)
	if err != nil {
		return nil, err
	}
	prefix := opts.IDPrefix
	if prefix == 0 {
		prefix = idgen.DefaultPrefix
	}
	return &RDFConverter{
		opts:   opts,
		types:  opts.TypeRegistry(),
		keys:   keys,
		ids:    idgen.New(prefix),
		prefix: prefix,
		logger: logger.Named("rdf"),
	}, nil
}

// Name returns the format identifier.
func (c *RDFConverter) Name() string { return rdfFormatName }

// SetGenerator makes the converter allocate IDs from a shared generator
// instead of its own. The generator is no longer reseeded between
// conversions, so IDs keep increasing across converters that share it.
func (c *RDFConverter) SetGenerator(g *idgen.Generator) {
	c.ids = g
	c.sharedGen = true
}

// URIMapping returns a copy of the URI-to-ID assignments from the most
// recent conversion, for diagnostics.
func (c *RDFConverter) URIMapping() map[string]string {
	out := make(map[string]string, len(c.uriToID))
	for uri, id := range c.uriToID {
		out[uri] = id
	}
	return out
}

// rdfState is the working set of one conversion run.
type rdfState struct {
	g             *rdf.Graph
	result        *models.ConversionResult
	classOrder    []string
	classSet      map[string]bool
	entities      map[string]*models.EntityType
	datatypeProps map[string]bool
	uriToID       map[string]string
}

// Convert parses Turtle-family content and converts it. Parse failures are
// fatal; semantic problems degrade to warnings and skipped items.
func (c *RDFConverter) Convert(ctx context.Context, content []byte) (*models.ConversionResult, error) {
	g, err := rdf.ParseTurtle(string(content))
	if err != nil {
		return nil, err
	}
	return c.ConvertGraph(ctx, g)
}

// ConvertGraph runs the two-pass conversion over an already parsed graph.
// On cancellation it returns the accumulated partial result together with
// ErrCancelled.
func (c *RDFConverter) ConvertGraph(ctx context.Context, g *rdf.Graph) (*models.ConversionResult, error) {
	if !c.sharedGen {
		// reseed so the same graph and prefix always yield the same IDs
		c.ids.Reset(c.prefix)
	}
	st := &rdfState{
		g:             g,
		result:        &models.ConversionResult{TripleCount: g.Len()},
		classSet:      make(map[string]bool),
		entities:      make(map[string]*models.EntityType),
		datatypeProps: make(map[string]bool),
		uriToID:       make(map[string]string),
	}
	defer func() { c.uriToID = st.uriToID }()

	st.result.OntologyName = c.ontologyName(g)

	if err := c.extractClasses(ctx, st); err != nil {
		return st.result, err
	}
	c.resolveHierarchy(st)
	if err := c.extractDatatypeProperties(ctx, st); err != nil {
		return st.result, err
	}
	if err := c.extractObjectProperties(ctx, st); err != nil {
		return st.result, err
	}
	c.reportUnsupported(st)
	c.inferIdentity(st)
	st.result.EntityTypes = sortParentsFirst(st.result.EntityTypes)

	c.logger.Info("rdf conversion complete",
		zap.Int("triples", g.Len()),
		zap.Int("entity_types", len(st.result.EntityTypes)),
		zap.Int("relationship_types", len(st.result.RelationshipTypes)),
		zap.Int("skipped", len(st.result.SkippedItems)))
	return st.result, nil
}

// collectClasses gathers candidate class URIs in graph order: explicit
// owl:Class and rdfs:Class declarations first, then every subject that
// declares a superclass. The last source lets untyped RDFS-style
// ontologies convert.
func collectClasses(g *rdf.Graph) []string {
	seen := make(map[string]bool)
	var classes []string
	add := func(t rdf.Term) {
		if !t.IsIRI() || seen[t.Value] {
			return
		}
		seen[t.Value] = true
		classes = append(classes, t.Value)
	}
	for _, s := range g.Subjects(rdf.RDFType, rdf.OWLClass) {
		add(s)
	}
	for _, s := range g.Subjects(rdf.RDFType, rdf.RDFSClass) {
		add(s)
	}
	for _, s := range g.SubjectsWithPredicate(rdf.RDFSSubClassOf) {
		add(s)
	}
	return classes
}

func (c *RDFConverter) extractClasses(ctx context.Context, st *rdfState) error {
	for _, uri := range collectClasses(st.g) {
		if err := cancelled(ctx); err != nil {
			return err
		}
		term := rdf.NewIRI(uri)
		id := c.ids.NextID()
		entity := models.NewEntityType(id, c.termName(st.g, term, "Entity_"+id))
		entity.Description = firstLiteral(st.g, term, rdf.RDFSComment)

		st.classOrder = append(st.classOrder, uri)
		st.classSet[uri] = true
		st.entities[uri] = entity
		st.uriToID[uri] = id
		st.result.EntityTypes = append(st.result.EntityTypes, entity)
	}
	return nil
}

// termName derives the Fabric name of a term: rdfs:label when declared,
// otherwise the URI fragment or trailing path segment, sanitized. fallback
// covers URIs with nothing usable.
func (c *RDFConverter) termName(g *rdf.Graph, term rdf.Term, fallback string) string {
	raw := firstLiteral(g, term, rdf.RDFSLabel)
	if raw == "" {
		raw = localName(term.Value)
	}
	if raw == "" {
		c.logger.Warn("URI yields no usable name", zap.String("uri", term.Value))
		return fallback
	}
	return cleanName(raw, maxEntityNameLen)
}

// resolveHierarchy assigns baseEntityTypeId after every entity exists, so
// forward references inside one graph resolve. The first declared
// superclass that is a converted class and does not close a cycle wins.
func (c *RDFConverter) resolveHierarchy(st *rdfState) {
	for _, uri := range st.classOrder {
		entity := st.entities[uri]
		for _, parent := range st.g.Objects(rdf.NewIRI(uri), rdf.RDFSSubClassOf) {
			if !parent.IsIRI() || !st.classSet[parent.Value] || parent.Value == uri {
				continue
			}
			if inheritanceCycle(st, uri, parent.Value) {
				st.result.AddWarning("skipping circular inheritance: %s cannot extend %s",
					entity.Name, st.entities[parent.Value].Name)
				continue
			}
			entity.BaseEntityTypeID = st.entities[parent.Value].ID
			break
		}
	}
}

// inheritanceCycle reports whether making parent the base of child would
// close a subClassOf cycle. The walk follows declared superclass edges
// among converted classes, iteratively with an explicit visited set.
func inheritanceCycle(st *rdfState, child, parent string) bool {
	visited := make(map[string]bool)
	stack := []string{parent}
	for len(stack) > 0 {
		uri := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if uri == child {
			return true
		}
		if visited[uri] {
			continue
		}
		visited[uri] = true
		for _, next := range st.g.Objects(rdf.NewIRI(uri), rdf.RDFSSubClassOf) {
			if next.IsIRI() && st.classSet[next.Value] {
				stack = append(stack, next.Value)
			}
		}
	}
	return false
}

// collectDatatypeProperties gathers property URIs in graph order: declared
// owl:DatatypeProperty subjects, then plain rdf:Property subjects whose
// first range is a literal datatype.
func (c *RDFConverter) collectDatatypeProperties(g *rdf.Graph) []string {
	seen := make(map[string]bool)
	var props []string
	for _, s := range g.Subjects(rdf.RDFType, rdf.OWLDatatypeProperty) {
		if s.IsIRI() && !seen[s.Value] {
			seen[s.Value] = true
			props = append(props, s.Value)
		}
	}
	for _, s := range g.Subjects(rdf.RDFType, rdf.RDFProperty) {
		if !s.IsIRI() || seen[s.Value] {
			continue
		}
		if rng, ok := g.FirstObject(s, rdf.RDFSRange); ok && c.isDatatypeRange(rng) {
			seen[s.Value] = true
			props = append(props, s.Value)
		}
	}
	return props
}

// isDatatypeRange reports whether the range denotes a literal datatype: any
// XSD type, or a type the registry maps.
func (c *RDFConverter) isDatatypeRange(rng rdf.Term) bool {
	if !rng.IsIRI() {
		return false
	}
	return rdf.IsXSDType(rng) || c.types.HasMapping(rdfFormatName, rng.Value)
}

func (c *RDFConverter) extractDatatypeProperties(ctx context.Context, st *rdfState) error {
	for _, uri := range c.collectDatatypeProperties(st.g) {
		if err := cancelled(ctx); err != nil {
			return err
		}
		c.convertDatatypeProperty(st, uri)
	}
	return nil
}

func (c *RDFConverter) convertDatatypeProperty(st *rdfState, uri string) {
	st.datatypeProps[uri] = true
	term := rdf.NewIRI(uri)

	id := c.ids.NextID()
	st.uriToID[uri] = id
	name := c.termName(st.g, term, "Property_"+id)

	valueType := models.ValueTypeString
	if rng, ok := st.g.FirstObject(term, rdf.RDFSRange); ok {
		switch {
		case rng.IsIRI() && c.types.HasMapping(rdfFormatName, rng.Value):
			valueType = c.types.FabricType(rdfFormatName, rng.Value)
		case rng.IsIRI():
			st.result.AddWarning("property %s has unmapped range datatype %s, defaulting to String",
				name, rng.Value)
		default:
			st.result.AddWarning("property %s has a non-IRI range expression, defaulting to String", name)
		}
	}

	prop := models.EntityTypeProperty{
		ID:          id,
		Name:        name,
		ValueType:   valueType,
		Description: firstLiteral(st.g, term, rdf.RDFSComment),
	}

	targets := c.endpointClasses(st, term, rdf.RDFSDomain)
	if len(targets) == 0 {
		st.result.AddSkipped(models.SkippedProperty, name, "no rdfs:domain resolves to a converted class", uri)
		return
	}

	timeseries := valueType == models.ValueTypeDateTime &&
		strings.Contains(strings.ToLower(name), "timestamp")
	for _, classURI := range targets {
		entity := st.entities[classURI]
		attached := prop
		if timeseries {
			entity.TimeseriesProperties = append(entity.TimeseriesProperties, &attached)
		} else {
			entity.Properties = append(entity.Properties, &attached)
		}
	}
}

// endpointClasses resolves every object of (prop, pred) to converted
// classes. Named classes resolve directly; blank-node class expressions
// (owl:unionOf and friends) expand to their members. Order follows the
// declarations, deduped.
func (c *RDFConverter) endpointClasses(st *rdfState, prop, pred rdf.Term) []string {
	seen := make(map[string]bool)
	var classes []string
	for _, obj := range st.g.Objects(prop, pred) {
		for _, uri := range rdf.ResolveClassTargets(st.g, obj) {
			if !st.classSet[uri] || seen[uri] {
				continue
			}
			seen[uri] = true
			classes = append(classes, uri)
		}
	}
	return classes
}

// collectObjectProperties gathers relationship candidates: declared
// owl:ObjectProperty subjects, then plain rdf:Property subjects with a
// non-datatype range that were not already converted as properties.
func (c *RDFConverter) collectObjectProperties(g *rdf.Graph, exclude map[string]bool) []string {
	seen := make(map[string]bool)
	var props []string
	for _, s := range g.Subjects(rdf.RDFType, rdf.OWLObjectProperty) {
		if s.IsIRI() && !seen[s.Value] && !exclude[s.Value] {
			seen[s.Value] = true
			props = append(props, s.Value)
		}
	}
	for _, s := range g.Subjects(rdf.RDFType, rdf.RDFProperty) {
		if !s.IsIRI() || seen[s.Value] || exclude[s.Value] {
			continue
		}
		if rng, ok := g.FirstObject(s, rdf.RDFSRange); ok && !c.isDatatypeRange(rng) {
			seen[s.Value] = true
			props = append(props, s.Value)
		}
	}
	return props
}

func (c *RDFConverter) extractObjectProperties(ctx context.Context, st *rdfState) error {
	candidates := c.collectObjectProperties(st.g, st.datatypeProps)
	if len(candidates) == 0 {
		return nil
	}
	inference := c.endpointInference(st, candidates)
	for _, uri := range candidates {
		if err := cancelled(ctx); err != nil {
			return err
		}
		c.convertObjectProperty(st, uri, inference)
	}
	return nil
}

// endpointInference picks the fallback strategy for missing domain and
// range declarations. Strict mode always declines, so undeclared
// relationships are skipped instead of guessed.
func (c *RDFConverter) endpointInference(st *rdfState, candidates []string) EndpointInference {
	if c.opts.StrictValidation || !c.opts.InferRelationships {
		return NoInference{}
	}
	candidateSet := make(map[string]bool, len(candidates))
	for _, uri := range candidates {
		candidateSet[uri] = true
	}
	isClass := func(uri string) bool { return st.classSet[uri] }
	return NewUsageInference(st.g, candidateSet, isClass, c.logger)
}

func (c *RDFConverter) convertObjectProperty(st *rdfState, uri string, inference EndpointInference) {
	term := rdf.NewIRI(uri)
	name := c.termName(st.g, term, fmt.Sprintf("Relationship_%d", c.ids.Current()))

	domains := c.endpointClasses(st, term, rdf.RDFSDomain)
	if len(domains) == 0 {
		if inferred, ok := inference.Domain(uri); ok {
			domains = []string{inferred}
		}
	}
	ranges := c.endpointClasses(st, term, rdf.RDFSRange)
	if len(ranges) == 0 {
		if inferred, ok := inference.Range(uri); ok {
			ranges = []string{inferred}
		}
	}

	if len(domains) == 0 || len(ranges) == 0 {
		missing := "domain"
		if len(domains) > 0 {
			missing = "range"
		} else if len(ranges) == 0 {
			missing = "domain and range"
		}
		st.result.AddWarning("skipping relationship %s: could not determine %s", name, missing)
		st.result.AddSkipped(models.SkippedRelationship, name, "unresolved "+missing, uri)
		return
	}

	// every (domain, range) pair becomes its own relationship
	for _, domainURI := range domains {
		for _, rangeURI := range ranges {
			id := c.ids.NextID()
			if _, ok := st.uriToID[uri]; !ok {
				st.uriToID[uri] = id
			}
			rel := models.NewRelationshipType(id, name, st.entities[domainURI].ID, st.entities[rangeURI].ID)
			st.result.RelationshipTypes = append(st.result.RelationshipTypes, rel)
		}
	}
}

// constructCount pairs an unsupported OWL construct with its occurrence
// count.
type constructCount struct {
	Construct string
	Count     int
}

// unsupportedConstructs scans for OWL features with no Fabric
// representation. They are reported and otherwise ignored.
func unsupportedConstructs(g *rdf.Graph) []constructCount {
	typed := func(class rdf.Term) int { return len(g.Subjects(rdf.RDFType, class)) }
	used := func(pred rdf.Term) int { return len(g.TriplesWithPredicate(pred)) }

	all := []constructCount{
		{"owl:Restriction", typed(rdf.OWLRestriction)},
		{"owl:FunctionalProperty", typed(rdf.OWLFunctionalProperty)},
		{"owl:TransitiveProperty", typed(rdf.OWLTransitiveProperty)},
		{"owl:SymmetricProperty", typed(rdf.OWLSymmetricProperty)},
		{"owl:inverseOf", used(rdf.OWLInverseOf)},
		{"owl:disjointWith", used(rdf.OWLDisjointWith)},
		{"owl:propertyChainAxiom", used(rdf.OWLPropertyChainAxiom)},
		{"owl:imports", used(rdf.OWLImports)},
	}
	var present []constructCount
	for _, cc := range all {
		if cc.Count > 0 {
			present = append(present, cc)
		}
	}
	return present
}

func (c *RDFConverter) reportUnsupported(st *rdfState) {
	for _, cc := range unsupportedConstructs(st.g) {
		st.result.AddWarning("unsupported construct %s is not converted (%d occurrences)",
			cc.Construct, cc.Count)
	}
}

// inferIdentity fills entityIdParts and displayNamePropertyId on every
// converted entity.
func (c *RDFConverter) inferIdentity(st *rdfState) {
	c.keys.InferAll(st.result.EntityTypes, false)
	for _, entity := range st.result.EntityTypes {
		if entity.DisplayNamePropertyID == "" {
			c.keys.SetDisplayName(entity)
		}
	}
}

// sortParentsFirst reorders entity types so base types precede the types
// derived from them, keeping creation order among siblings. Consumers that
// apply definitions sequentially need parents to exist first.
func sortParentsFirst(entities []*models.EntityType) []*models.EntityType {
	byID := make(map[string]*models.EntityType, len(entities))
	for _, e := range entities {
		byID[e.ID] = e
	}
	children := make(map[string][]*models.EntityType)
	var roots []*models.EntityType
	for _, e := range entities {
		if e.BaseEntityTypeID == "" || byID[e.BaseEntityTypeID] == nil {
			roots = append(roots, e)
			continue
		}
		children[e.BaseEntityTypeID] = append(children[e.BaseEntityTypeID], e)
	}
	sorted := make([]*models.EntityType, 0, len(entities))
	queue := roots
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		sorted = append(sorted, e)
		queue = append(queue, children[e.ID]...)
	}
	if len(sorted) < len(entities) {
		// cycles cannot form during assignment, but stay safe
		placed := make(map[string]bool, len(sorted))
		for _, e := range sorted {
			placed[e.ID] = true
		}
		for _, e := range entities {
			if !placed[e.ID] {
				sorted = append(sorted, e)
			}
		}
	}
	return sorted
}

// ontologyName resolves the display name: an explicit option wins, then the
// rdfs:label of the first owl:Ontology declaration, then a fixed default.
func (c *RDFConverter) ontologyName(g *rdf.Graph) string {
	if c.opts.OntologyName != "" {
		return c.opts.OntologyName
	}
	subjects := g.Subjects(rdf.RDFType, rdf.OWLOntology)
	if len(subjects) == 0 {
		return defaultOntologyName
	}
	label := firstLiteral(g, subjects[0], rdf.RDFSLabel)
	if label == "" {
		return defaultOntologyName
	}
	if name := cleanOntologyName(label); name != "" {
		return name
	}
	return defaultOntologyName
}

// firstLiteral returns the first literal object of (s, p), or empty.
func firstLiteral(g *rdf.Graph, s, p rdf.Term) string {
	for _, o := range g.Objects(s, p) {
		if o.IsLiteral() {
			return o.Value
		}
	}
	return ""
}

// Validate parses and inspects content without converting it and without
// touching the ID generator. Parse failures surface as error issues inside
// the result rather than as Go errors.
func (c *RDFConverter) Validate(ctx context.Context, content []byte) (*validation.Result, error) {
	if err := cancelled(ctx); err != nil {
		return nil, err
	}
	res := validation.NewResult(rdfFormatName)
	g, err := rdf.ParseTurtle(string(content))
	if err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrEmptyInput):
			res.AddError(validation.CategoryMissingRequired, "document is empty")
		case apperrors.Is(err, apperrors.ErrNoTriples):
			res.AddError(validation.CategoryInvalidStructure, "document contains no RDF triples")
		default:
			res.AddError(validation.CategorySyntaxError, "%v", err)
		}
		return res, nil
	}

	classes := collectClasses(g)
	dtProps := c.collectDatatypeProperties(g)
	exclude := make(map[string]bool, len(dtProps))
	for _, uri := range dtProps {
		exclude[uri] = true
	}
	objProps := c.collectObjectProperties(g, exclude)

	res.SetStat("triples", g.Len())
	res.SetStat("classes", len(classes))
	res.SetStat("datatype_properties", len(dtProps))
	res.SetStat("object_properties", len(objProps))

	if len(classes) == 0 {
		res.AddWarning(validation.CategoryInvalidStructure,
			"no class declarations found, conversion would produce no entity types")
	}
	if len(g.Subjects(rdf.RDFType, rdf.OWLOntology)) == 0 {
		res.AddInfo(validation.CategoryBestPractice,
			"no owl:Ontology declaration, display name will default to %s", defaultOntologyName)
	}
	for _, cc := range unsupportedConstructs(g) {
		res.AddWarning(validation.CategoryUnsupportedConstruct,
			"%s is not supported and will be ignored (%d occurrences)", cc.Construct, cc.Count)
	}
	c.checkNames(g, classes, res)

	if c.opts.StrictValidation && res.WarningCount() > 0 {
		res.IsValid = false
	}
	return res, nil
}

// checkNames flags class URIs that produce degraded Fabric names.
func (c *RDFConverter) checkNames(g *rdf.Graph, classes []string, res *validation.Result) {
	for _, uri := range classes {
		raw := firstLiteral(g, rdf.NewIRI(uri), rdf.RDFSLabel)
		if raw == "" {
			raw = localName(uri)
		}
		if raw == "" {
			res.AddWarning(validation.CategoryInvalidStructure,
				"class %s yields no usable name, a placeholder will be generated", uri)
			continue
		}
		if len(raw) > maxEntityNameLen {
			res.AddWarning(validation.CategoryNameTooLong,
				"class name %q... exceeds %d characters and will be truncated", raw[:40], maxEntityNameLen)
		}
	}
}
