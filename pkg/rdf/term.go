// Package rdf provides a compact in-memory RDF model with a Turtle-family
// decoder: terms, triples, an indexed graph, and the vocabulary constants
// the OWL conversion works against. The graph preserves insertion order so
// conversions stay deterministic.
package rdf

import "fmt"

// TermKind discriminates the three RDF term shapes.
type TermKind int

const (
	TermIRI TermKind = iota
	TermBlank
	TermLiteral
)

// Term is an RDF term. The zero value is not a valid term; use the
// constructors. Terms are comparable and usable as map keys.
type Term struct {
	Kind     TermKind
	Value    string // IRI, blank node label, or literal lexical form
	Datatype string // literal datatype IRI, empty for plain literals
	Lang     string // literal language tag
}

// NewIRI returns an IRI term.
func NewIRI(iri string) Term {
	return Term{Kind: TermIRI, Value: iri}
}

// NewBlank returns a blank node term with the given label.
func NewBlank(label string) Term {
	return Term{Kind: TermBlank, Value: label}
}

// NewLiteral returns a plain literal.
func NewLiteral(value string) Term {
	return Term{Kind: TermLiteral, Value: value}
}

// NewTypedLiteral returns a literal with a datatype IRI.
func NewTypedLiteral(value, datatype string) Term {
	return Term{Kind: TermLiteral, Value: value, Datatype: datatype}
}

// NewLangLiteral returns a language-tagged literal.
func NewLangLiteral(value, lang string) Term {
	return Term{Kind: TermLiteral, Value: value, Lang: lang}
}

// IsIRI reports whether the term is an IRI.
func (t Term) IsIRI() bool { return t.Kind == TermIRI }

// IsBlank reports whether the term is a blank node.
func (t Term) IsBlank() bool { return t.Kind == TermBlank }

// IsLiteral reports whether the term is a literal.
func (t Term) IsLiteral() bool { return t.Kind == TermLiteral }

// String renders the term in N-Triples style, used in diagnostics.
func (t Term) String() string {
	switch t.Kind {
	case TermIRI:
		return "<" + t.Value + ">"
	case TermBlank:
		return "_:" + t.Value
	default:
		switch {
		case t.Lang != "":
			return fmt.Sprintf("%q@%s", t.Value, t.Lang)
		case t.Datatype != "":
			return fmt.Sprintf("%q^^<%s>", t.Value, t.Datatype)
		default:
			return fmt.Sprintf("%q", t.Value)
		}
	}
}
