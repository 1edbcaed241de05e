package rdf

// Triple is one RDF statement.
type Triple struct {
	S, P, O Term
}

// Graph is an insertion-ordered triple store with subject and object
// indexes. Duplicate triples collapse to one. Iteration helpers return
// terms in first-seen order, which keeps downstream conversion output
// deterministic for a given source document.
type Graph struct {
	triples []Triple
	seen    map[Triple]bool
	// spo: subject -> predicate -> objects in insertion order
	spo map[Term]map[Term][]Term
	// pos: predicate -> object -> subjects in insertion order
	pos map[Term]map[Term][]Term
	// byPred: predicate -> triples in insertion order
	byPred map[Term][]Triple
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		seen:   make(map[Triple]bool),
		spo:    make(map[Term]map[Term][]Term),
		pos:    make(map[Term]map[Term][]Term),
		byPred: make(map[Term][]Triple),
	}
}

// Add inserts a triple, ignoring exact duplicates.
func (g *Graph) Add(t Triple) {
	if g.seen[t] {
		return
	}
	g.seen[t] = true
	g.triples = append(g.triples, t)

	if g.spo[t.S] == nil {
		g.spo[t.S] = make(map[Term][]Term)
	}
	g.spo[t.S][t.P] = append(g.spo[t.S][t.P], t.O)

	if g.pos[t.P] == nil {
		g.pos[t.P] = make(map[Term][]Term)
	}
	g.pos[t.P][t.O] = append(g.pos[t.P][t.O], t.S)

	g.byPred[t.P] = append(g.byPred[t.P], t)
}

// Len returns the number of distinct triples.
func (g *Graph) Len() int { return len(g.triples) }

// Triples returns all triples in insertion order. Callers must not mutate
// the returned slice.
func (g *Graph) Triples() []Triple { return g.triples }

// Has reports whether the exact triple is present.
func (g *Graph) Has(s, p, o Term) bool {
	return g.seen[Triple{S: s, P: p, O: o}]
}

// Objects returns all objects of (s, p, *) in insertion order.
func (g *Graph) Objects(s, p Term) []Term {
	return g.spo[s][p]
}

// FirstObject returns the first object of (s, p, *).
func (g *Graph) FirstObject(s, p Term) (Term, bool) {
	objects := g.spo[s][p]
	if len(objects) == 0 {
		return Term{}, false
	}
	return objects[0], true
}

// Subjects returns all subjects of (*, p, o) in insertion order.
func (g *Graph) Subjects(p, o Term) []Term {
	return g.pos[p][o]
}

// SubjectsWithPredicate returns distinct subjects that carry the predicate,
// in first-seen order.
func (g *Graph) SubjectsWithPredicate(p Term) []Term {
	var out []Term
	dedupe := make(map[Term]bool)
	for _, t := range g.byPred[p] {
		if !dedupe[t.S] {
			dedupe[t.S] = true
			out = append(out, t.S)
		}
	}
	return out
}

// TriplesWithPredicate returns all triples using the predicate, in
// insertion order.
func (g *Graph) TriplesWithPredicate(p Term) []Triple {
	return g.byPred[p]
}

// Predicates returns the distinct predicates of a subject in first-seen
// order.
func (g *Graph) Predicates(s Term) []Term {
	var out []Term
	dedupe := make(map[Term]bool)
	for _, t := range g.triples {
		if t.S == s && !dedupe[t.P] {
			dedupe[t.P] = true
			out = append(out, t.P)
		}
	}
	return out
}
