package onnxrt

import (
	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
	"gorgonia.org/tensor"

	"github.com/inference-sim/onnx-inspect/inspect"
)

// Session wraps an ort.DynamicAdvancedSession together with the slot
// signatures it was created over.
type Session struct {
	session  *ort.DynamicAdvancedSession
	inputs   []inspect.TensorSignature
	outputs  []inspect.TensorSignature
	metadata inspect.ModelMetadata
}

// Inputs implements inspect.Session.
func (s *Session) Inputs() []inspect.TensorSignature { return s.inputs }

// Outputs implements inspect.Session.
func (s *Session) Outputs() []inspect.TensorSignature { return s.outputs }

// Metadata implements inspect.Session.
func (s *Session) Metadata() inspect.ModelMetadata { return s.metadata }

// Run implements inspect.Session. Every declared input must be bound. Output
// tensors are allocated by the runtime, copied out and destroyed before Run
// returns.
func (s *Session) Run(inputs map[string]*tensor.Dense, outputs []string) (map[string]*tensor.Dense, error) {
	for name := range inputs {
		if indexOf(s.inputs, name) < 0 {
			return nil, errors.Errorf("model has no input named %q", name)
		}
	}
	outIdx := make([]int, len(outputs))
	for i, name := range outputs {
		outIdx[i] = indexOf(s.outputs, name)
		if outIdx[i] < 0 {
			return nil, errors.Errorf("model has no output named %q", name)
		}
	}

	inValues := make([]ort.Value, len(s.inputs))
	defer destroyAll(inValues)
	for i, sig := range s.inputs {
		t, ok := inputs[sig.Name]
		if !ok {
			return nil, errors.Errorf("no tensor bound to input %q", sig.Name)
		}
		v, err := toOrtTensor(t)
		if err != nil {
			return nil, errors.Wrapf(err, "input %q", sig.Name)
		}
		inValues[i] = v
	}

	// nil entries ask the runtime to allocate the output
	outValues := make([]ort.Value, len(s.outputs))
	defer destroyAll(outValues)
	if err := s.session.Run(inValues, outValues); err != nil {
		return nil, errors.Wrap(err, "running session")
	}

	results := make(map[string]*tensor.Dense, len(outputs))
	for i, name := range outputs {
		dense, err := toDense(outValues[outIdx[i]])
		if err != nil {
			return nil, errors.Wrapf(err, "output %q", name)
		}
		results[name] = dense
	}
	return results, nil
}

// Close implements inspect.Session.
func (s *Session) Close() error {
	if s.session == nil {
		return nil
	}
	err := s.session.Destroy()
	s.session = nil
	return errors.Wrap(err, "destroying session")
}

func indexOf(sigs []inspect.TensorSignature, name string) int {
	for i, s := range sigs {
		if s.Name == name {
			return i
		}
	}
	return -1
}

func destroyAll(values []ort.Value) {
	for _, v := range values {
		if v != nil {
			_ = v.Destroy()
		}
	}
}

// toOrtTensor wraps the float32 backing buffer of t without copying it.
func toOrtTensor(t *tensor.Dense) (*ort.Tensor[float32], error) {
	data, err := inspect.Float32Values(t)
	if err != nil {
		return nil, err
	}
	shape := t.Shape()
	dims := make([]int64, len(shape))
	for i, d := range shape {
		dims[i] = int64(d)
	}
	return ort.NewTensor(ort.NewShape(dims...), data)
}

// toDense copies a runtime-owned float32 tensor into a gorgonia tensor.
func toDense(v ort.Value) (*tensor.Dense, error) {
	t, ok := v.(*ort.Tensor[float32])
	if !ok {
		return nil, errors.Errorf("runtime returned %T; only float32 tensors can be printed", v)
	}
	data := append([]float32(nil), t.GetData()...)
	shape := t.GetShape()
	if len(shape) == 0 {
		if len(data) != 1 {
			return nil, errors.Errorf("scalar output holds %d values", len(data))
		}
		return tensor.New(tensor.FromScalar(data[0])), nil
	}
	dims := make([]int, len(shape))
	for i, d := range shape {
		if d <= 0 {
			return nil, errors.Errorf("output shape %v has an empty dimension", shape)
		}
		dims[i] = int(d)
	}
	if int64(len(data)) != shape.FlattenedSize() {
		return nil, errors.Errorf("output shape %v does not match %d values", shape, len(data))
	}
	return tensor.New(tensor.WithShape(dims...), tensor.WithBacking(data)), nil
}
