package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_AddDeduplicates(t *testing.T) {
	g := NewGraph()
	triple := Triple{S: NewIRI("s"), P: NewIRI("p"), O: NewIRI("o")}

	g.Add(triple)
	g.Add(triple)

	assert.Equal(t, 1, g.Len())
	assert.True(t, g.Has(NewIRI("s"), NewIRI("p"), NewIRI("o")))
}

func TestGraph_ObjectsPreserveInsertionOrder(t *testing.T) {
	g := NewGraph()
	s, p := NewIRI("s"), NewIRI("p")
	g.Add(Triple{S: s, P: p, O: NewIRI("first")})
	g.Add(Triple{S: s, P: p, O: NewIRI("second")})
	g.Add(Triple{S: s, P: p, O: NewIRI("third")})

	objects := g.Objects(s, p)
	require.Len(t, objects, 3)
	assert.Equal(t, "first", objects[0].Value)
	assert.Equal(t, "second", objects[1].Value)
	assert.Equal(t, "third", objects[2].Value)
}

func TestGraph_Subjects(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{S: NewIRI("a"), P: RDFType, O: OWLClass})
	g.Add(Triple{S: NewIRI("b"), P: RDFType, O: OWLClass})
	g.Add(Triple{S: NewIRI("c"), P: RDFType, O: OWLObjectProperty})

	classes := g.Subjects(RDFType, OWLClass)
	require.Len(t, classes, 2)
	assert.Equal(t, "a", classes[0].Value)
	assert.Equal(t, "b", classes[1].Value)
}

func TestGraph_SubjectsWithPredicate_Distinct(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{S: NewIRI("child"), P: RDFSSubClassOf, O: NewIRI("parent1")})
	g.Add(Triple{S: NewIRI("child"), P: RDFSSubClassOf, O: NewIRI("parent2")})
	g.Add(Triple{S: NewIRI("other"), P: RDFSSubClassOf, O: NewIRI("parent1")})

	subjects := g.SubjectsWithPredicate(RDFSSubClassOf)
	require.Len(t, subjects, 2)
	assert.Equal(t, "child", subjects[0].Value)
	assert.Equal(t, "other", subjects[1].Value)
}

func TestGraph_FirstObject(t *testing.T) {
	g := NewGraph()
	s, p := NewIRI("s"), NewIRI("p")

	_, ok := g.FirstObject(s, p)
	assert.False(t, ok)

	g.Add(Triple{S: s, P: p, O: NewLiteral("v1")})
	g.Add(Triple{S: s, P: p, O: NewLiteral("v2")})

	first, ok := g.FirstObject(s, p)
	require.True(t, ok)
	assert.Equal(t, "v1", first.Value)
}

func TestGraph_TriplesWithPredicate(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{S: NewIRI("a"), P: NewIRI("uses"), O: NewIRI("b")})
	g.Add(Triple{S: NewIRI("c"), P: NewIRI("uses"), O: NewIRI("d")})
	g.Add(Triple{S: NewIRI("a"), P: NewIRI("other"), O: NewIRI("e")})

	uses := g.TriplesWithPredicate(NewIRI("uses"))
	require.Len(t, uses, 2)
	assert.Equal(t, "a", uses[0].S.Value)
	assert.Equal(t, "c", uses[1].S.Value)
}

func TestTerm_String(t *testing.T) {
	assert.Equal(t, "<http://example.org/x>", NewIRI("http://example.org/x").String())
	assert.Equal(t, "_:b0", NewBlank("b0").String())
	assert.Equal(t, `"hi"`, NewLiteral("hi").String())
	assert.Equal(t, `"hi"@en`, NewLangLiteral("hi", "en").String())
	assert.Equal(t, `"5"^^<`+XSDNamespace+`integer>`, NewTypedLiteral("5", XSDNamespace+"integer").String())
}
