package rdf

import "strings"

// Namespace IRIs.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
)

// RDF vocabulary.
var (
	RDFType     = NewIRI(RDFNamespace + "type")
	RDFProperty = NewIRI(RDFNamespace + "Property")
	RDFFirst    = NewIRI(RDFNamespace + "first")
	RDFRest     = NewIRI(RDFNamespace + "rest")
	RDFNil      = NewIRI(RDFNamespace + "nil")
)

// RDFS vocabulary.
var (
	RDFSClass      = NewIRI(RDFSNamespace + "Class")
	RDFSSubClassOf = NewIRI(RDFSNamespace + "subClassOf")
	RDFSDomain     = NewIRI(RDFSNamespace + "domain")
	RDFSRange      = NewIRI(RDFSNamespace + "range")
	RDFSLabel      = NewIRI(RDFSNamespace + "label")
	RDFSComment    = NewIRI(RDFSNamespace + "comment")
	RDFSDatatype   = NewIRI(RDFSNamespace + "Datatype")
)

// OWL vocabulary.
var (
	OWLClass              = NewIRI(OWLNamespace + "Class")
	OWLOntology           = NewIRI(OWLNamespace + "Ontology")
	OWLDatatypeProperty   = NewIRI(OWLNamespace + "DatatypeProperty")
	OWLObjectProperty     = NewIRI(OWLNamespace + "ObjectProperty")
	OWLAnnotationProperty = NewIRI(OWLNamespace + "AnnotationProperty")
	OWLFunctionalProperty = NewIRI(OWLNamespace + "FunctionalProperty")
	OWLTransitiveProperty = NewIRI(OWLNamespace + "TransitiveProperty")
	OWLSymmetricProperty  = NewIRI(OWLNamespace + "SymmetricProperty")
	OWLInverseOf          = NewIRI(OWLNamespace + "inverseOf")
	OWLRestriction        = NewIRI(OWLNamespace + "Restriction")
	OWLUnionOf            = NewIRI(OWLNamespace + "unionOf")
	OWLIntersectionOf     = NewIRI(OWLNamespace + "intersectionOf")
	OWLComplementOf       = NewIRI(OWLNamespace + "complementOf")
	OWLOneOf              = NewIRI(OWLNamespace + "oneOf")
	OWLEquivalentClass    = NewIRI(OWLNamespace + "equivalentClass")
	OWLDisjointWith       = NewIRI(OWLNamespace + "disjointWith")
	OWLPropertyChainAxiom = NewIRI(OWLNamespace + "propertyChainAxiom")
	OWLImports            = NewIRI(OWLNamespace + "imports")
	OWLThing              = NewIRI(OWLNamespace + "Thing")
)

// IsXSDType reports whether the term is an IRI inside the XSD namespace.
// Datatype properties are distinguished from object properties by whether
// their range is an XSD type.
func IsXSDType(t Term) bool {
	return t.IsIRI() && strings.HasPrefix(t.Value, XSDNamespace)
}
