package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestNewDummyTensor_ZeroFilled(t *testing.T) {
	d := NewDummyTensor([]int{1, 1, 28, 28})

	values, err := Float32Values(d)
	require.NoError(t, err)
	assert.Len(t, values, 784)
	for _, v := range values {
		require.Zero(t, v)
	}
	assert.Equal(t, tensor.Float32, d.Dtype())
}

func TestFloat32Values_RejectsOtherTypes(t *testing.T) {
	d := tensor.New(tensor.WithShape(2), tensor.WithBacking([]int64{1, 2}))

	_, err := Float32Values(d)

	assert.ErrorContains(t, err, "expected float32 tensor")
}

func TestFormatValues(t *testing.T) {
	assert.Equal(t, "[0, -1.5, 0.1, 1e+10]", FormatValues([]float32{0, -1.5, 0.1, 1e10}))
	assert.Equal(t, "[]", FormatValues(nil))
}

func TestFormatShape(t *testing.T) {
	assert.Equal(t, "[1, 10]", FormatShape([]int{1, 10}))
	assert.Equal(t, "[]", FormatShape(nil))
}
