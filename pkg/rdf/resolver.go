package rdf

// DefaultMaxDepth bounds recursion through nested class expressions.
const DefaultMaxDepth = 10

// maxListIterations bounds traversal of malformed rdf:first/rdf:rest chains.
const maxListIterations = 1000

// ResolveClassTargets resolves a domain/range node to concrete class IRIs.
// A named class resolves to itself. A blank node is treated as a class
// expression: owl:unionOf, owl:intersectionOf, and owl:oneOf members are
// expanded through their RDF lists, and owl:complementOf resolves the
// complemented class. Cycles and runaway nesting terminate silently with
// whatever was resolved so far.
func ResolveClassTargets(g *Graph, node Term) []string {
	return resolveClassTargets(g, node, nil, DefaultMaxDepth)
}

func resolveClassTargets(g *Graph, node Term, visited map[Term]bool, maxDepth int) []string {
	if visited[node] || maxDepth <= 0 {
		return nil
	}
	if node.IsBlank() {
		visited = withVisited(visited, node)
	}

	var targets []string
	switch {
	case node.IsIRI():
		targets = append(targets, node.Value)
	case node.IsBlank():
		for _, union := range g.Objects(node, OWLUnionOf) {
			members, _ := resolveRDFList(g, union, visited, maxDepth-1)
			targets = append(targets, members...)
		}
		for _, intersection := range g.Objects(node, OWLIntersectionOf) {
			members, _ := resolveRDFList(g, intersection, visited, maxDepth-1)
			targets = append(targets, members...)
		}
		for _, complement := range g.Objects(node, OWLComplementOf) {
			targets = append(targets, resolveClassTargets(g, complement, visited, maxDepth-1)...)
		}
		for _, oneOf := range g.Objects(node, OWLOneOf) {
			members, _ := resolveRDFList(g, oneOf, visited, maxDepth-1)
			targets = append(targets, members...)
		}
	}
	return targets
}

// ResolveRDFList walks an rdf:first/rdf:rest list and returns the member
// IRIs plus a count of members that could not be resolved (literals, empty
// nested expressions).
func ResolveRDFList(g *Graph, listNode Term) ([]string, int) {
	return resolveRDFList(g, listNode, nil, DefaultMaxDepth)
}

func resolveRDFList(g *Graph, listNode Term, visited map[Term]bool, maxDepth int) ([]string, int) {
	var targets []string
	unresolved := 0
	current := listNode
	iterations := 0

	for current != RDFNil {
		iterations++
		if iterations > maxListIterations {
			break
		}
		if current.IsBlank() {
			if visited[current] {
				break
			}
			visited = withVisited(visited, current)
		}

		if first, ok := g.FirstObject(current, RDFFirst); ok {
			switch {
			case first.IsIRI():
				targets = append(targets, first.Value)
			case first.IsBlank():
				nested := resolveClassTargets(g, first, visited, maxDepth-1)
				if len(nested) > 0 {
					targets = append(targets, nested...)
				} else {
					unresolved++
				}
			default:
				unresolved++
			}
		}

		rest, ok := g.FirstObject(current, RDFRest)
		if !ok || rest == RDFNil || rest.IsLiteral() {
			break
		}
		current = rest
	}
	return targets, unresolved
}

// FirstClass returns the first resolved class IRI from a node, for callers
// expecting a single class.
func FirstClass(g *Graph, node Term) (string, bool) {
	targets := ResolveClassTargets(g, node)
	if len(targets) == 0 {
		return "", false
	}
	return targets[0], true
}

// withVisited copies the visited set and adds a node. Copying keeps sibling
// branches independent, matching set-union semantics rather than shared
// mutation.
func withVisited(visited map[Term]bool, node Term) map[Term]bool {
	next := make(map[Term]bool, len(visited)+1)
	for k := range visited {
		next[k] = true
	}
	next[node] = true
	return next
}
