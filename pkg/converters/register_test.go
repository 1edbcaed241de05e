package converters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ontoforge/ontoforge/pkg/apperrors"
	"github.com/ontoforge/ontoforge/pkg/formats"
)

func TestRegisteredFormats(t *testing.T) {
	assert.Equal(t, []string{"dtdl", "rdf"}, formats.Available())

	reg, err := formats.Get("rdf")
	require.NoError(t, err)
	format, err := reg.New(formats.Options{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "rdf", format.Name())

	reg, err = formats.Get("dtdl")
	require.NoError(t, err)
	format, err = reg.New(formats.Options{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "dtdl", format.Name())

	_, err = formats.Get("xmi")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnknownFormat))
}

func TestFormatByExtension(t *testing.T) {
	reg, ok := formats.ByExtension("building.ttl")
	require.True(t, ok)
	assert.Equal(t, "rdf", reg.Name)

	reg, ok = formats.ByExtension("models/device.json")
	require.True(t, ok)
	assert.Equal(t, "dtdl", reg.Name)

	_, ok = formats.ByExtension("README")
	assert.False(t, ok)
}
