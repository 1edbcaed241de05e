package formats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ontoforge/ontoforge/pkg/apperrors"
	"github.com/ontoforge/ontoforge/pkg/models"
	"github.com/ontoforge/ontoforge/pkg/validation"
)

type fakeFormat struct {
	name string
}

func (f *fakeFormat) Name() string { return f.name }

func (f *fakeFormat) Validate(_ context.Context, _ []byte) (*validation.Result, error) {
	return validation.NewResult(f.name), nil
}

func (f *fakeFormat) Convert(_ context.Context, _ []byte) (*models.ConversionResult, error) {
	return &models.ConversionResult{}, nil
}

func register(t *testing.T, name string, exts ...string) {
	t.Helper()
	Register(Registration{
		Name:        name,
		DisplayName: name,
		Extensions:  exts,
		New: func(_ Options, _ *zap.Logger) (Format, error) {
			return &fakeFormat{name: name}, nil
		},
	})
}

func TestRegisterAndGet(t *testing.T) {
	register(t, "fake-a", ".fka")

	reg, err := Get("fake-a")
	require.NoError(t, err)
	assert.Equal(t, "fake-a", reg.Name)

	format, err := reg.New(Options{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "fake-a", format.Name())
}

func TestGetUnknownFormat(t *testing.T) {
	_, err := Get("no-such-format")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnknownFormat))
	assert.Contains(t, err.Error(), "unknown format: no-such-format")
}

func TestGetIsCaseInsensitive(t *testing.T) {
	register(t, "fake-b", ".fkb")

	reg, err := Get("FAKE-B")
	require.NoError(t, err)
	assert.Equal(t, "fake-b", reg.Name)
}

func TestAvailableSorted(t *testing.T) {
	register(t, "fake-z")
	register(t, "fake-c")

	names := Available()
	require.NotEmpty(t, names)
	for i := 1; i < len(names); i++ {
		assert.LessOrEqual(t, names[i-1], names[i])
	}
	assert.Contains(t, names, "fake-c")
	assert.Contains(t, names, "fake-z")
}

func TestByExtension(t *testing.T) {
	register(t, "fake-ttl", ".fttl", ".fowl")

	reg, ok := ByExtension("/data/ontology.fowl")
	require.True(t, ok)
	assert.Equal(t, "fake-ttl", reg.Name)

	_, ok = ByExtension("/data/ontology.unknown-ext")
	assert.False(t, ok)

	_, ok = ByExtension("/data/no-extension")
	assert.False(t, ok)
}

func TestOptionsTypeRegistryDefaults(t *testing.T) {
	var opts Options
	assert.NotNil(t, opts.TypeRegistry())
}
