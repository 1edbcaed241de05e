package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseForTest(t *testing.T, ttl string) *Graph {
	t.Helper()
	g, err := ParseTurtle(ttl)
	require.NoError(t, err)
	return g
}

func TestResolveClassTargets_NamedClass(t *testing.T) {
	g := parseForTest(t, `
@prefix ex: <http://example.org/> .
ex:Person a <http://www.w3.org/2002/07/owl#Class> .
`)
	targets := ResolveClassTargets(g, NewIRI("http://example.org/Person"))
	assert.Equal(t, []string{"http://example.org/Person"}, targets)
}

func TestResolveClassTargets_UnionOf(t *testing.T) {
	g := parseForTest(t, `
@prefix ex: <http://example.org/> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .

ex:affiliation rdfs:domain [ owl:unionOf (ex:Person ex:Organization) ] .
`)
	domain, ok := g.FirstObject(NewIRI("http://example.org/affiliation"), RDFSDomain)
	require.True(t, ok)
	require.True(t, domain.IsBlank())

	targets := ResolveClassTargets(g, domain)
	assert.Equal(t, []string{
		"http://example.org/Person",
		"http://example.org/Organization",
	}, targets)
}

func TestResolveClassTargets_IntersectionOf(t *testing.T) {
	g := parseForTest(t, `
@prefix ex: <http://example.org/> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .

ex:p rdfs:range [ owl:intersectionOf (ex:Employee ex:Manager) ] .
`)
	rng, _ := g.FirstObject(NewIRI("http://example.org/p"), RDFSRange)
	targets := ResolveClassTargets(g, rng)
	assert.Equal(t, []string{
		"http://example.org/Employee",
		"http://example.org/Manager",
	}, targets)
}

func TestResolveClassTargets_ComplementOf(t *testing.T) {
	g := parseForTest(t, `
@prefix ex: <http://example.org/> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .

ex:p rdfs:domain [ owl:complementOf ex:Robot ] .
`)
	domain, _ := g.FirstObject(NewIRI("http://example.org/p"), RDFSDomain)
	targets := ResolveClassTargets(g, domain)
	assert.Equal(t, []string{"http://example.org/Robot"}, targets)
}

func TestResolveClassTargets_NestedUnion(t *testing.T) {
	g := parseForTest(t, `
@prefix ex: <http://example.org/> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .

ex:p rdfs:domain [ owl:unionOf (ex:A [ owl:unionOf (ex:B ex:C) ]) ] .
`)
	domain, _ := g.FirstObject(NewIRI("http://example.org/p"), RDFSDomain)
	targets := ResolveClassTargets(g, domain)
	assert.Equal(t, []string{
		"http://example.org/A",
		"http://example.org/B",
		"http://example.org/C",
	}, targets)
}

func TestResolveRDFList_CycleTerminates(t *testing.T) {
	// Hand-built malformed list: rest chain loops back on itself.
	g := NewGraph()
	n1, n2 := NewBlank("n1"), NewBlank("n2")
	g.Add(Triple{S: n1, P: RDFFirst, O: NewIRI("http://example.org/A")})
	g.Add(Triple{S: n1, P: RDFRest, O: n2})
	g.Add(Triple{S: n2, P: RDFFirst, O: NewIRI("http://example.org/B")})
	g.Add(Triple{S: n2, P: RDFRest, O: n1})

	members, _ := ResolveRDFList(g, n1)
	assert.Equal(t, []string{"http://example.org/A", "http://example.org/B"}, members)
}

func TestResolveClassTargets_LiteralMemberUnresolved(t *testing.T) {
	g := NewGraph()
	n1 := NewBlank("n1")
	g.Add(Triple{S: n1, P: RDFFirst, O: NewLiteral("not a class")})
	g.Add(Triple{S: n1, P: RDFRest, O: RDFNil})

	members, unresolved := ResolveRDFList(g, n1)
	assert.Empty(t, members)
	assert.Equal(t, 1, unresolved)
}

func TestFirstClass(t *testing.T) {
	g := parseForTest(t, `
@prefix ex: <http://example.org/> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .

ex:p rdfs:domain [ owl:unionOf (ex:First ex:Second) ] .
`)
	domain, _ := g.FirstObject(NewIRI("http://example.org/p"), RDFSDomain)

	first, ok := FirstClass(g, domain)
	require.True(t, ok)
	assert.Equal(t, "http://example.org/First", first)

	_, ok = FirstClass(g, NewBlank("unconnected"))
	assert.False(t, ok)
}
