package rdf

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ontoforge/ontoforge/pkg/apperrors"
)

// ParseTurtle decodes Turtle content into a graph. N-Triples and most N3
// class/property declarations parse as well since they are Turtle subsets.
//
// Failure classes, all fatal: ErrEmptyInput for blank content, ErrParse for
// syntax errors, ErrNoTriples when the document parses but holds no
// statements.
func ParseTurtle(content string) (*Graph, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.Mark(apperrors.New("empty TTL content provided"), apperrors.ErrEmptyInput)
	}
	p := &turtleParser{
		input:    []rune(content),
		line:     1,
		graph:    NewGraph(),
		prefixes: make(map[string]string),
	}
	if err := p.parse(); err != nil {
		return nil, apperrors.Mark(apperrors.Newf("invalid RDF/TTL syntax: %v", err), apperrors.ErrParse)
	}
	if p.graph.Len() == 0 {
		return nil, apperrors.Mark(apperrors.New("no RDF triples found in content"), apperrors.ErrNoTriples)
	}
	return p.graph, nil
}

type turtleParser struct {
	input        []rune
	pos          int
	line         int
	graph        *Graph
	prefixes     map[string]string
	base         string
	blankCounter int
}

func (p *turtleParser) parse() error {
	for {
		p.skipWS()
		if p.eof() {
			return nil
		}
		if err := p.parseStatement(); err != nil {
			return err
		}
	}
}

func (p *turtleParser) parseStatement() error {
	switch {
	case p.peek() == '@':
		return p.parseDirective()
	case p.matchKeyword("PREFIX"):
		return p.parsePrefix(false)
	case p.matchKeyword("BASE"):
		return p.parseBase(false)
	default:
		if err := p.parseTriples(); err != nil {
			return err
		}
		p.skipWS()
		return p.expect('.')
	}
}

// parseDirective handles @prefix and @base, both terminated by a dot.
func (p *turtleParser) parseDirective() error {
	p.next() // consume '@'
	word := p.readWord()
	switch word {
	case "prefix":
		return p.parsePrefix(true)
	case "base":
		return p.parseBase(true)
	default:
		return p.errorf("unknown directive @%s", word)
	}
}

func (p *turtleParser) parsePrefix(dotTerminated bool) error {
	p.skipWS()
	label := p.readPrefixLabel()
	if err := p.expect(':'); err != nil {
		return err
	}
	p.skipWS()
	iri, err := p.parseIRIRef()
	if err != nil {
		return err
	}
	p.prefixes[label] = iri
	if dotTerminated {
		p.skipWS()
		return p.expect('.')
	}
	return nil
}

func (p *turtleParser) parseBase(dotTerminated bool) error {
	p.skipWS()
	iri, err := p.parseIRIRef()
	if err != nil {
		return err
	}
	p.base = iri
	if dotTerminated {
		p.skipWS()
		return p.expect('.')
	}
	return nil
}

func (p *turtleParser) parseTriples() error {
	subject, err := p.parseSubject()
	if err != nil {
		return err
	}
	p.skipWS()
	// A blank node property list may stand alone as a whole statement.
	if subject.IsBlank() && p.peek() == '.' {
		return nil
	}
	return p.parsePredicateObjectList(subject)
}

func (p *turtleParser) parseSubject() (Term, error) {
	p.skipWS()
	switch p.peek() {
	case '<':
		iri, err := p.parseIRIRef()
		if err != nil {
			return Term{}, err
		}
		return NewIRI(iri), nil
	case '_':
		return p.parseBlankLabel()
	case '(':
		return p.parseCollection()
	case '[':
		return p.parseBlankNodePropertyList()
	default:
		return p.parsePrefixedName()
	}
}

func (p *turtleParser) parsePredicateObjectList(subject Term) error {
	for {
		p.skipWS()
		verb, err := p.parseVerb()
		if err != nil {
			return err
		}
		if err := p.parseObjectList(subject, verb); err != nil {
			return err
		}
		p.skipWS()
		if p.peek() != ';' {
			return nil
		}
		for p.peek() == ';' {
			p.next()
			p.skipWS()
		}
		// Trailing semicolons before the statement terminator.
		if p.peek() == '.' || p.peek() == ']' || p.eof() {
			return nil
		}
	}
}

func (p *turtleParser) parseVerb() (Term, error) {
	if p.peek() == 'a' && p.isBoundary(p.peekAt(1)) {
		p.next()
		return RDFType, nil
	}
	if p.peek() == '<' {
		iri, err := p.parseIRIRef()
		if err != nil {
			return Term{}, err
		}
		return NewIRI(iri), nil
	}
	return p.parsePrefixedName()
}

func (p *turtleParser) parseObjectList(subject, verb Term) error {
	for {
		p.skipWS()
		object, err := p.parseObject()
		if err != nil {
			return err
		}
		p.graph.Add(Triple{S: subject, P: verb, O: object})
		p.skipWS()
		if p.peek() != ',' {
			return nil
		}
		p.next()
	}
}

func (p *turtleParser) parseObject() (Term, error) {
	switch c := p.peek(); {
	case c == '<':
		iri, err := p.parseIRIRef()
		if err != nil {
			return Term{}, err
		}
		return NewIRI(iri), nil
	case c == '"' || c == '\'':
		return p.parseLiteral()
	case c == '_':
		return p.parseBlankLabel()
	case c == '(':
		return p.parseCollection()
	case c == '[':
		return p.parseBlankNodePropertyList()
	case c == '+' || c == '-' || c == '.' || unicode.IsDigit(c):
		return p.parseNumericLiteral()
	case p.matchBoolean("true"):
		return NewTypedLiteral("true", XSDNamespace+"boolean"), nil
	case p.matchBoolean("false"):
		return NewTypedLiteral("false", XSDNamespace+"boolean"), nil
	default:
		return p.parsePrefixedName()
	}
}

// parseIRIRef reads an <...> reference and resolves it against the base.
func (p *turtleParser) parseIRIRef() (string, error) {
	if err := p.expect('<'); err != nil {
		return "", err
	}
	var b strings.Builder
	for {
		if p.eof() {
			return "", p.errorf("unterminated IRI")
		}
		c := p.next()
		switch c {
		case '>':
			return p.resolveIRI(b.String()), nil
		case '\\':
			r, err := p.readEscape()
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
		case '\n':
			return "", p.errorf("newline inside IRI")
		default:
			b.WriteRune(c)
		}
	}
}

func (p *turtleParser) resolveIRI(ref string) string {
	if ref == "" {
		return p.base
	}
	if hasScheme(ref) || p.base == "" {
		return ref
	}
	if strings.HasPrefix(ref, "#") {
		if i := strings.IndexByte(p.base, '#'); i >= 0 {
			return p.base[:i] + ref
		}
		return p.base + ref
	}
	if strings.HasSuffix(p.base, "/") || strings.HasSuffix(p.base, "#") {
		return p.base + ref
	}
	if i := strings.LastIndexByte(p.base, '/'); i >= 0 {
		return p.base[:i+1] + ref
	}
	return p.base + ref
}

func hasScheme(iri string) bool {
	for i, c := range iri {
		switch {
		case c == ':':
			return i > 0
		case unicode.IsLetter(c), i > 0 && (unicode.IsDigit(c) || c == '+' || c == '-' || c == '.'):
			// still inside a scheme candidate
		default:
			return false
		}
	}
	return false
}

func (p *turtleParser) parseBlankLabel() (Term, error) {
	if err := p.expect('_'); err != nil {
		return Term{}, err
	}
	if err := p.expect(':'); err != nil {
		return Term{}, err
	}
	var b strings.Builder
	for !p.eof() && isLocalNameChar(p.peek()) {
		if p.peek() == '.' && !isLocalNameChar(p.peekAt(1)) {
			break
		}
		b.WriteRune(p.next())
	}
	if b.Len() == 0 {
		return Term{}, p.errorf("empty blank node label")
	}
	return NewBlank(b.String()), nil
}

func (p *turtleParser) parsePrefixedName() (Term, error) {
	prefix := p.readPrefixLabel()
	if p.peek() != ':' {
		if prefix == "" {
			return Term{}, p.errorf("unexpected character %q", p.peek())
		}
		return Term{}, p.errorf("expected ':' after prefix %q", prefix)
	}
	p.next()
	namespace, ok := p.prefixes[prefix]
	if !ok {
		return Term{}, p.errorf("undefined prefix %q", prefix+":")
	}
	var b strings.Builder
	for !p.eof() && isLocalNameChar(p.peek()) {
		if p.peek() == '.' && !isLocalNameChar(p.peekAt(1)) {
			break
		}
		if p.peek() == '\\' {
			p.next()
			if p.eof() {
				return Term{}, p.errorf("dangling escape in name")
			}
			b.WriteRune(p.next())
			continue
		}
		b.WriteRune(p.next())
	}
	return NewIRI(namespace + b.String()), nil
}

func (p *turtleParser) parseLiteral() (Term, error) {
	value, err := p.parseQuotedString()
	if err != nil {
		return Term{}, err
	}
	switch {
	case p.peek() == '@':
		p.next()
		var b strings.Builder
		for !p.eof() && (unicode.IsLetter(p.peek()) || unicode.IsDigit(p.peek()) || p.peek() == '-') {
			b.WriteRune(p.next())
		}
		if b.Len() == 0 {
			return Term{}, p.errorf("empty language tag")
		}
		return NewLangLiteral(value, b.String()), nil
	case p.peek() == '^' && p.peekAt(1) == '^':
		p.next()
		p.next()
		p.skipWS()
		var datatype Term
		if p.peek() == '<' {
			iri, err := p.parseIRIRef()
			if err != nil {
				return Term{}, err
			}
			datatype = NewIRI(iri)
		} else {
			datatype, err = p.parsePrefixedName()
			if err != nil {
				return Term{}, err
			}
		}
		return NewTypedLiteral(value, datatype.Value), nil
	default:
		return NewLiteral(value), nil
	}
}

func (p *turtleParser) parseQuotedString() (string, error) {
	quote := p.next()
	long := false
	if p.peek() == quote && p.peekAt(1) == quote {
		p.next()
		p.next()
		long = true
	} else if p.peek() == quote {
		// Empty short string.
		p.next()
		return "", nil
	}

	var b strings.Builder
	for {
		if p.eof() {
			return "", p.errorf("unterminated string literal")
		}
		c := p.next()
		if c == quote {
			if !long {
				return b.String(), nil
			}
			if p.peek() == quote && p.peekAt(1) == quote {
				p.next()
				p.next()
				return b.String(), nil
			}
			b.WriteRune(c)
			continue
		}
		switch c {
		case '\\':
			r, err := p.readEscape()
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
		case '\n':
			if !long {
				return "", p.errorf("newline in string literal")
			}
			b.WriteRune(c)
		default:
			b.WriteRune(c)
		}
	}
}

func (p *turtleParser) readEscape() (rune, error) {
	if p.eof() {
		return 0, p.errorf("dangling backslash")
	}
	c := p.next()
	switch c {
	case 't':
		return '\t', nil
	case 'b':
		return '\b', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 'f':
		return '\f', nil
	case '"', '\'', '\\', '/', '>', '<', '_', '~', '.', '-', '!', '$', '&', '(', ')', '*', '+', ',', ';', '=', '#', '@', '%', '?':
		return c, nil
	case 'u':
		return p.readHexEscape(4)
	case 'U':
		return p.readHexEscape(8)
	default:
		return 0, p.errorf("invalid escape \\%c", c)
	}
}

func (p *turtleParser) readHexEscape(digits int) (rune, error) {
	var v rune
	for i := 0; i < digits; i++ {
		if p.eof() {
			return 0, p.errorf("truncated unicode escape")
		}
		c := p.next()
		var d rune
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		default:
			return 0, p.errorf("invalid unicode escape digit %q", c)
		}
		v = v*16 + d
	}
	return v, nil
}

func (p *turtleParser) parseNumericLiteral() (Term, error) {
	var b strings.Builder
	if p.peek() == '+' || p.peek() == '-' {
		b.WriteRune(p.next())
	}
	sawDigit, sawDot, sawExp := false, false, false
	for !p.eof() {
		c := p.peek()
		switch {
		case unicode.IsDigit(c):
			sawDigit = true
			b.WriteRune(p.next())
		case c == '.' && !sawDot && !sawExp && unicode.IsDigit(p.peekAt(1)):
			sawDot = true
			b.WriteRune(p.next())
		case (c == 'e' || c == 'E') && sawDigit && !sawExp:
			sawExp = true
			b.WriteRune(p.next())
			if p.peek() == '+' || p.peek() == '-' {
				b.WriteRune(p.next())
			}
		default:
			goto done
		}
	}
done:
	if !sawDigit {
		return Term{}, p.errorf("malformed numeric literal %q", b.String())
	}
	switch {
	case sawExp:
		return NewTypedLiteral(b.String(), XSDNamespace+"double"), nil
	case sawDot:
		return NewTypedLiteral(b.String(), XSDNamespace+"decimal"), nil
	default:
		return NewTypedLiteral(b.String(), XSDNamespace+"integer"), nil
	}
}

// parseCollection expands ( a b c ) into an rdf:first/rdf:rest chain.
func (p *turtleParser) parseCollection() (Term, error) {
	if err := p.expect('('); err != nil {
		return Term{}, err
	}
	var items []Term
	for {
		p.skipWS()
		if p.eof() {
			return Term{}, p.errorf("unterminated collection")
		}
		if p.peek() == ')' {
			p.next()
			break
		}
		item, err := p.parseObject()
		if err != nil {
			return Term{}, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return RDFNil, nil
	}
	head := p.newBlank()
	node := head
	for i, item := range items {
		p.graph.Add(Triple{S: node, P: RDFFirst, O: item})
		if i == len(items)-1 {
			p.graph.Add(Triple{S: node, P: RDFRest, O: RDFNil})
		} else {
			next := p.newBlank()
			p.graph.Add(Triple{S: node, P: RDFRest, O: next})
			node = next
		}
	}
	return head, nil
}

func (p *turtleParser) parseBlankNodePropertyList() (Term, error) {
	if err := p.expect('['); err != nil {
		return Term{}, err
	}
	node := p.newBlank()
	p.skipWS()
	if p.peek() == ']' {
		p.next()
		return node, nil
	}
	if err := p.parsePredicateObjectList(node); err != nil {
		return Term{}, err
	}
	p.skipWS()
	if err := p.expect(']'); err != nil {
		return Term{}, err
	}
	return node, nil
}

func (p *turtleParser) newBlank() Term {
	label := fmt.Sprintf("anon%d", p.blankCounter)
	p.blankCounter++
	return NewBlank(label)
}

// Lexing helpers.

func (p *turtleParser) eof() bool { return p.pos >= len(p.input) }

func (p *turtleParser) peek() rune { return p.peekAt(0) }

func (p *turtleParser) peekAt(offset int) rune {
	if p.pos+offset >= len(p.input) {
		return 0
	}
	return p.input[p.pos+offset]
}

func (p *turtleParser) next() rune {
	c := p.input[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
	}
	return c
}

func (p *turtleParser) expect(want rune) error {
	if p.eof() {
		return p.errorf("unexpected end of input, expected %q", want)
	}
	if p.peek() != want {
		return p.errorf("expected %q, found %q", want, p.peek())
	}
	p.next()
	return nil
}

func (p *turtleParser) skipWS() {
	for !p.eof() {
		c := p.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			p.next()
		case c == '#':
			for !p.eof() && p.peek() != '\n' {
				p.next()
			}
		default:
			return
		}
	}
}

func (p *turtleParser) readWord() string {
	var b strings.Builder
	for !p.eof() && unicode.IsLetter(p.peek()) {
		b.WriteRune(p.next())
	}
	return b.String()
}

// readPrefixLabel reads the name part before ':' in a prefixed name or a
// @prefix declaration. May be empty for the default prefix.
func (p *turtleParser) readPrefixLabel() string {
	var b strings.Builder
	for !p.eof() {
		c := p.peek()
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '-' {
			b.WriteRune(p.next())
			continue
		}
		if c == '.' && isPrefixChar(p.peekAt(1)) {
			b.WriteRune(p.next())
			continue
		}
		break
	}
	return b.String()
}

func isPrefixChar(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '-'
}

func isLocalNameChar(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) ||
		c == '_' || c == '-' || c == '.' || c == '%' || c == ':' || c == '\\'
}

// matchKeyword consumes a case-insensitive SPARQL-style keyword when it is
// followed by whitespace or an IRI opener, so prefixed names that merely
// start with the keyword letters stay untouched.
func (p *turtleParser) matchKeyword(keyword string) bool {
	for i, kc := range keyword {
		c := p.peekAt(i)
		if unicode.ToUpper(c) != kc {
			return false
		}
	}
	after := p.peekAt(len(keyword))
	if after != ' ' && after != '\t' && after != '\r' && after != '\n' && after != '<' {
		return false
	}
	for range keyword {
		p.next()
	}
	return true
}

// matchBoolean consumes a boolean keyword at a token boundary.
func (p *turtleParser) matchBoolean(keyword string) bool {
	for i, kc := range keyword {
		if p.peekAt(i) != kc {
			return false
		}
	}
	if isLocalNameChar(p.peekAt(len(keyword))) {
		return false
	}
	for range keyword {
		p.next()
	}
	return true
}

func (p *turtleParser) isBoundary(c rune) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '<' || c == '[' || c == '(' || c == '#' || c == 0
}

func (p *turtleParser) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", p.line, fmt.Sprintf(format, args...))
}
