package dtdl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ontoforge/ontoforge/pkg/apperrors"
)

// ParseResult collects the interfaces recovered from one or more DTDL
// documents along with non-fatal warnings raised along the way.
type ParseResult struct {
	Interfaces []*Interface
	Warnings   []string
}

func (r *ParseResult) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *ParseResult) merge(other *ParseResult) {
	r.Interfaces = append(r.Interfaces, other.Interfaces...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// InterfaceMap indexes the parsed interfaces by DTMI. Later duplicates win,
// matching file order.
func (r *ParseResult) InterfaceMap() map[string]*Interface {
	m := make(map[string]*Interface, len(r.Interfaces))
	for _, iface := range r.Interfaces {
		if iface.DTMI != "" {
			m[iface.DTMI] = iface
		}
	}
	return m
}

// Parser reads DTDL JSON documents. A document may hold a single interface
// object or an array of them; non-Interface root elements are skipped with a
// warning.
type Parser struct {
	logger *zap.Logger
}

// NewParser creates a DTDL parser.
func NewParser(logger *zap.Logger) *Parser {
	return &Parser{logger: logger.Named("dtdl-parser")}
}

// ParseString parses DTDL JSON from a string.
func (p *Parser) ParseString(content string) (*ParseResult, error) {
	return p.ParseBytes([]byte(content))
}

// ParseBytes parses DTDL JSON from a byte slice. Empty input and malformed
// JSON are fatal; individual elements that fail to decode inside an array
// document are skipped with a warning.
func (p *Parser) ParseBytes(data []byte) (*ParseResult, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, apperrors.Mark(
			apperrors.New("empty DTDL content provided"),
			apperrors.ErrEmptyInput,
		)
	}

	elements, err := splitDocument(trimmed)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{}
	for idx, element := range elements {
		p.parseElement(element, idx, result)
	}
	p.logger.Debug("parsed DTDL document",
		zap.Int("interfaces", len(result.Interfaces)),
		zap.Int("warnings", len(result.Warnings)))
	return result, nil
}

// splitDocument normalizes a document into its root elements, accepting
// either a single JSON object or a JSON array of objects.
func splitDocument(data []byte) ([]json.RawMessage, error) {
	if data[0] == '[' {
		var elements []json.RawMessage
		if err := json.Unmarshal(data, &elements); err != nil {
			return nil, apperrors.Mark(
				apperrors.Wrap(err, "invalid DTDL JSON"),
				apperrors.ErrParse,
			)
		}
		return elements, nil
	}
	var single json.RawMessage
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, apperrors.Mark(
			apperrors.Wrap(err, "invalid DTDL JSON"),
			apperrors.ErrParse,
		)
	}
	return []json.RawMessage{single}, nil
}

func (p *Parser) parseElement(data json.RawMessage, idx int, result *ParseResult) {
	var probe struct {
		ID   string   `json:"@id"`
		Type TypeList `json:"@type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		result.addWarning("skipping element %d: %v", idx, err)
		return
	}
	if !probe.Type.Has("Interface") {
		result.addWarning("skipping non-Interface element %d (type %q)", idx, probe.Type.Primary())
		return
	}

	var iface Interface
	if err := json.Unmarshal(data, &iface); err != nil {
		name := probe.ID
		if name == "" {
			name = fmt.Sprintf("element %d", idx)
		}
		result.addWarning("skipping interface %s: %v", name, err)
		return
	}
	result.Interfaces = append(result.Interfaces, &iface)
}

// ParseFile parses a single DTDL JSON file.
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrapf(err, "read DTDL file %s", path)
	}
	result, err := p.ParseBytes(data)
	if err != nil {
		return nil, apperrors.Wrapf(err, "parse %s", path)
	}
	return result, nil
}

// ParseDirectory parses every .json file under dir, recursively, in lexical
// order. Files that fail to parse are reported as warnings rather than
// aborting the walk.
func (p *Parser) ParseDirectory(dir string) (*ParseResult, error) {
	combined := &ParseResult{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		fileResult, err := p.ParseFile(path)
		if err != nil {
			p.logger.Warn("skipping unparseable DTDL file",
				zap.String("path", path), zap.Error(err))
			combined.addWarning("skipping file %s: %v", path, err)
			return nil
		}
		combined.merge(fileResult)
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrapf(err, "walk DTDL directory %s", dir)
	}
	return combined, nil
}
