package inspect

import (
	"fmt"
	"strconv"
	"strings"

	"gorgonia.org/tensor"
)

// NewDummyTensor allocates a float32 tensor of the given shape filled with zeros.
func NewDummyTensor(shape []int) *tensor.Dense {
	return tensor.New(tensor.WithShape(shape...), tensor.Of(tensor.Float32))
}

// Float32Values returns the flat backing buffer of a float32 tensor.
func Float32Values(t *tensor.Dense) ([]float32, error) {
	data, ok := t.Data().([]float32)
	if !ok {
		// a single-element tensor may report a scalar
		if v, isScalar := t.Data().(float32); isScalar {
			return []float32{v}, nil
		}
		return nil, fmt.Errorf("expected float32 tensor, got %v", t.Dtype())
	}
	return data, nil
}

// FormatShape renders a concrete tensor shape as "[1, 10]".
func FormatShape(shape []int) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FormatValues renders raw values as "[v0, v1, ...]" using the shortest
// representation that round-trips through float32.
func FormatValues(values []float32) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// checkInputCompatible verifies that a float32 tensor of shape can be bound to sig.
func checkInputCompatible(sig TensorSignature, shape []int) error {
	if sig.Kind != KindTensor && sig.Kind != KindUnknown {
		return fmt.Errorf("input slot %q is a %s, not a tensor", sig.Name, sig.Kind)
	}
	if sig.ElementType != ElementFloat32 {
		return fmt.Errorf("input slot %q expects %s elements, dummy tensor is float32", sig.Name, sig.ElementType)
	}
	if len(sig.Dims) != len(shape) {
		return fmt.Errorf("input slot %q has rank %d %s, dummy tensor has rank %d %s",
			sig.Name, len(sig.Dims), sig.ShapeString(), len(shape), FormatShape(shape))
	}
	for i, d := range sig.Dims {
		if d >= 0 && d != int64(shape[i]) {
			return fmt.Errorf("input slot %q declares shape %s, dummy tensor has shape %s",
				sig.Name, sig.ShapeString(), FormatShape(shape))
		}
	}
	return nil
}
