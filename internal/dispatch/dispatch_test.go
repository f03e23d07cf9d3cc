package dispatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sodiumbridge/internal/catalog"
	"sodiumbridge/internal/catalog/catalogtest"
	"sodiumbridge/internal/dispatch"
	"sodiumbridge/internal/domain"
	"sodiumbridge/internal/errors"
	"sodiumbridge/internal/validate"
)

func TestEveryOperationIsBound(t *testing.T) {
	for _, desc := range catalog.All() {
		assert.True(t, dispatch.Bound(desc.ID), desc.Name)
	}
	assert.False(t, dispatch.Bound(domain.OpID(catalog.Count)))
}

func TestOutputMatchesPredictedLength(t *testing.T) {
	for _, desc := range catalog.All() {
		t.Run(desc.Name, func(t *testing.T) {
			args, err := catalogtest.Bind(desc, catalogtest.Valid(desc.ID))
			require.NoError(t, err)
			require.Nil(t, validate.Validate(&desc, &args))

			want := validate.OutputLen(&desc, &args)
			res, derr := dispatch.Dispatch(&desc, &args, want)
			require.Nil(t, derr)
			require.Equal(t, 0, res.RC)

			if desc.Output.Kind == domain.OutBounded {
				assert.LessOrEqual(t, uint64(len(res.Out)), want)
			} else {
				assert.Equal(t, want, uint64(len(res.Out)))
			}
		})
	}
}

func TestUnpadTrimsOutput(t *testing.T) {
	desc, _ := catalog.ByID(catalog.Unpad)
	args, err := catalogtest.Bind(desc, catalogtest.Valid(catalog.Unpad))
	require.NoError(t, err)
	res, derr := dispatch.Dispatch(&desc, &args, validate.OutputLen(&desc, &args))
	require.Nil(t, derr)
	assert.Equal(t, []byte("abc"), res.Out)
}

func TestFailureWithholdsOutput(t *testing.T) {
	desc, _ := catalog.ByID(catalog.SecretboxOpenEasy)
	values := catalogtest.Valid(catalog.SecretboxOpenEasy)
	c := values[0].([]byte)
	c[0] ^= 1

	args, err := catalogtest.Bind(desc, values)
	require.NoError(t, err)
	res, derr := dispatch.Dispatch(&desc, &args, validate.OutputLen(&desc, &args))
	require.Nil(t, derr)
	assert.Equal(t, -1, res.RC)
	assert.Nil(t, res.Out)
}

func TestPanicIsRecovered(t *testing.T) {
	desc, _ := catalog.ByID(catalog.Sign)
	args := domain.Args{}

	res, derr := dispatch.Dispatch(&desc, &args, 64)
	require.NotNil(t, derr)
	assert.Equal(t, errors.KindNative, derr.Kind)
	assert.Nil(t, res.Out)
}

func TestUnknownOperation(t *testing.T) {
	desc := domain.Descriptor{ID: domain.OpID(catalog.Count), Name: "crypto_unknown"}
	_, derr := dispatch.Dispatch(&desc, &domain.Args{}, 0)
	require.NotNil(t, derr)
	assert.Equal(t, errors.KindUnsupported, derr.Kind)
}
