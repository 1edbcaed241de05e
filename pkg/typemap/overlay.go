package typemap

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ontoforge/ontoforge/pkg/apperrors"
	"github.com/ontoforge/ontoforge/pkg/models"
)

// Overlay file shape:
//
//	rdf:
//	  mappings:
//	    http://www.w3.org/2001/XMLSchema#gDay: String
//	  aliases:
//	    xsd:string: http://www.w3.org/2001/XMLSchema#string
type overlayFormat struct {
	Mappings map[string]string `yaml:"mappings"`
	Aliases  map[string]string `yaml:"aliases"`
}

// LoadMappings applies a YAML mapping overlay on top of the registered
// tables. The whole document is validated before anything is applied; one
// invalid target type rejects the file.
func (r *Registry) LoadMappings(rd io.Reader) error {
	data, err := io.ReadAll(rd)
	if err != nil {
		return apperrors.Wrap(err, "read mapping overlay")
	}

	var overlay map[string]overlayFormat
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return apperrors.Wrap(err, "parse mapping overlay")
	}

	for formatName, section := range overlay {
		for sourceType, fabricType := range section.Mappings {
			if !models.IsValidValueType(fabricType) {
				return apperrors.Wrapf(apperrors.ErrInvalidTargetType,
					"overlay maps %s:%s to %q", formatName, sourceType, fabricType)
			}
		}
	}

	for formatName, section := range overlay {
		if err := r.RegisterMappings(formatName, section.Mappings); err != nil {
			return err
		}
		for alias, canonical := range section.Aliases {
			r.RegisterAlias(formatName, alias, canonical)
		}
	}
	return nil
}

// LoadMappingsFile applies a YAML mapping overlay from disk.
func (r *Registry) LoadMappingsFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return apperrors.Wrapf(err, "open mapping overlay %s", path)
	}
	defer f.Close()
	return r.LoadMappings(f)
}
