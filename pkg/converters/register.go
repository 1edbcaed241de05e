package converters

import (
	"go.uber.org/zap"

	"github.com/ontoforge/ontoforge/pkg/formats"
)

func init() {
	formats.Register(formats.Registration{
		Name:        rdfFormatName,
		DisplayName: "RDF/OWL",
		Extensions:  []string{".ttl", ".turtle", ".nt", ".rdf", ".owl"},
		New: func(opts formats.Options, logger *zap.Logger) (formats.Format, error) {
			return NewRDFConverter(opts, logger)
		},
	})
	formats.Register(formats.Registration{
		Name:        dtdlFormatName,
		DisplayName: "DTDL",
		Extensions:  []string{".json"},
		New: func(opts formats.Options, logger *zap.Logger) (formats.Format, error) {
			return NewDTDLConverter(opts, logger)
		},
	})
}
