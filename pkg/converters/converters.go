// Package converters turns parsed ontology sources into Fabric Ontology
// entity and relationship types. Each converter implements formats.Format:
// RDFConverter walks an rdf.Graph, DTDLConverter walks parsed DTDL
// interfaces. Conversion never fails on semantic problems; those degrade to
// warnings and skipped items on the result. Only unparseable input and
// cancellation produce errors.
package converters

import (
	"context"

	"github.com/ontoforge/ontoforge/pkg/apperrors"
)

// cancelled translates context termination into the cancellation sentinel.
// Converters call it between top-level declarations so partial results stay
// usable.
func cancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Mark(err, apperrors.ErrCancelled)
	}
	return nil
}
