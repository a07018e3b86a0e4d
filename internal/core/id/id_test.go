package id_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partstock/internal/core/id"
)

func TestNewProducesDistinctNonNilIDs(t *testing.T) {
	a := id.New()
	b := id.New()

	assert.False(t, id.IsNil(a))
	assert.False(t, id.IsNil(b))
	assert.NotEqual(t, a, b)
}

func TestParseRoundTrip(t *testing.T) {
	generated := id.New()

	parsed, err := id.Parse(generated.String())
	require.NoError(t, err)
	assert.Equal(t, generated, parsed)

	_, err = id.Parse("not-a-uuid")
	assert.Error(t, err)
}

func TestMustParse(t *testing.T) {
	const raw = "018f4c2e-7c1a-7000-8000-0123456789ab"

	parsed := id.MustParse(raw)
	assert.Equal(t, raw, parsed.String())

	assert.Panics(t, func() { id.MustParse("garbage") })
}

func TestNilIsZeroValue(t *testing.T) {
	assert.True(t, id.IsNil(id.Nil()))

	var zero id.ID
	assert.Equal(t, zero, id.Nil())
}
