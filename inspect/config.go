package inspect

import "fmt"

// Defaults match the ONNX model zoo MNIST classifier (mnist-8.onnx).
const (
	DefaultInputName  = "Input3"
	DefaultOutputName = "Plus214_Output_0"
)

// MaxDummyElements caps the size of the zero-filled input (1 GiB of float32).
const MaxDummyElements = 1 << 28

// DefaultInputShape is NCHW for one 28x28 grayscale image.
var DefaultInputShape = []int{1, 1, 28, 28}

// InferenceConfig names the slots and the input shape used by RunDummyInference.
type InferenceConfig struct {
	InputName  string // input slot the dummy tensor is bound to
	OutputName string // output slot whose values are printed
	InputShape []int  // shape of the zero-filled float32 input (all dims > 0)
}

// DefaultInferenceConfig returns the configuration for the reference MNIST model.
func DefaultInferenceConfig() InferenceConfig {
	return InferenceConfig{
		InputName:  DefaultInputName,
		OutputName: DefaultOutputName,
		InputShape: append([]int(nil), DefaultInputShape...),
	}
}

// Validate checks that the config can describe a dummy pass.
func (c InferenceConfig) Validate() error {
	if c.InputName == "" {
		return fmt.Errorf("input slot name must not be empty")
	}
	if c.OutputName == "" {
		return fmt.Errorf("output slot name must not be empty")
	}
	if len(c.InputShape) == 0 {
		return fmt.Errorf("input shape must have at least one dimension")
	}
	if _, err := c.NumElements(); err != nil {
		return err
	}
	return nil
}

// NumElements returns the number of values in a tensor of the configured input
// shape. It fails on non-positive dimensions and on products above MaxDummyElements.
func (c InferenceConfig) NumElements() (int, error) {
	n := 1
	for i, d := range c.InputShape {
		if d <= 0 {
			return 0, fmt.Errorf("input shape dimension %d must be positive, got %d", i, d)
		}
		if d > MaxDummyElements/n {
			return 0, fmt.Errorf("input shape %s exceeds %d elements", FormatShape(c.InputShape), MaxDummyElements)
		}
		n *= d
	}
	return n, nil
}
