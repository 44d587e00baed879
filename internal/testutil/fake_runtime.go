// Package testutil provides an in-memory inference runtime for tests of the
// inspect and cmd packages. It lets tests describe a model by its slot
// signatures instead of shipping .onnx files and a native runtime library.
package testutil

import (
	"fmt"
	"os"

	"gorgonia.org/tensor"

	"github.com/inference-sim/onnx-inspect/inspect"
)

// LoadCall records one FakeRuntime.Load invocation.
type LoadCall struct {
	Path  string
	Level inspect.OptimizationLevel
}

// FakeRuntime serves FakeSessions registered by path. Paths that are not
// registered behave like the real runtime: a missing file fails to open and
// an existing file fails to parse.
type FakeRuntime struct {
	Models map[string]*FakeSession
	Loads  []LoadCall
}

// NewFakeRuntime returns an empty FakeRuntime.
func NewFakeRuntime() *FakeRuntime {
	return &FakeRuntime{Models: make(map[string]*FakeSession)}
}

// Register makes session loadable from path.
func (r *FakeRuntime) Register(path string, session *FakeSession) {
	r.Models[path] = session
}

// Load implements inspect.Runtime.
func (r *FakeRuntime) Load(path string, level inspect.OptimizationLevel) (inspect.Session, error) {
	r.Loads = append(r.Loads, LoadCall{Path: path, Level: level})
	if s, ok := r.Models[path]; ok {
		return s, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	return nil, fmt.Errorf("protobuf parsing failed for %s", path)
}

// Version implements inspect.Runtime.
func (r *FakeRuntime) Version() string { return "fake-1.0" }

// Factory returns a constructor suitable for inspect.NewRuntimeFunc.
func (r *FakeRuntime) Factory() func(inspect.RuntimeConfig) (inspect.Runtime, error) {
	return func(inspect.RuntimeConfig) (inspect.Runtime, error) { return r, nil }
}

// FakeSession is a scripted inspect.Session. Run produces, for each requested
// output, a tensor of the declared shape (dynamic dims become 1) whose values
// are 0, 1, 2, ...
type FakeSession struct {
	InputSigs  []inspect.TensorSignature
	OutputSigs []inspect.TensorSignature
	Meta       inspect.ModelMetadata
	RunErr     error // returned by Run when set

	Runs       int
	LastInputs map[string]*tensor.Dense
	CloseCalls int
}

// Inputs implements inspect.Session.
func (s *FakeSession) Inputs() []inspect.TensorSignature { return s.InputSigs }

// Outputs implements inspect.Session.
func (s *FakeSession) Outputs() []inspect.TensorSignature { return s.OutputSigs }

// Metadata implements inspect.Session.
func (s *FakeSession) Metadata() inspect.ModelMetadata { return s.Meta }

// Run implements inspect.Session.
func (s *FakeSession) Run(inputs map[string]*tensor.Dense, outputs []string) (map[string]*tensor.Dense, error) {
	s.Runs++
	s.LastInputs = inputs
	if s.RunErr != nil {
		return nil, s.RunErr
	}
	for _, sig := range s.InputSigs {
		if _, ok := inputs[sig.Name]; !ok {
			return nil, fmt.Errorf("missing input %q", sig.Name)
		}
	}
	results := make(map[string]*tensor.Dense, len(outputs))
	for _, name := range outputs {
		var sig *inspect.TensorSignature
		for i := range s.OutputSigs {
			if s.OutputSigs[i].Name == name {
				sig = &s.OutputSigs[i]
				break
			}
		}
		if sig == nil {
			return nil, fmt.Errorf("invalid output name %q", name)
		}
		shape := make([]int, len(sig.Dims))
		n := 1
		for i, d := range sig.Dims {
			if d < 0 {
				d = 1
			}
			shape[i] = int(d)
			n *= int(d)
		}
		data := make([]float32, n)
		for i := range data {
			data[i] = float32(i)
		}
		results[name] = tensor.New(tensor.WithShape(shape...), tensor.WithBacking(data))
	}
	return results, nil
}

// Close implements inspect.Session.
func (s *FakeSession) Close() error {
	s.CloseCalls++
	return nil
}

// MNISTSession returns a session shaped like the ONNX model zoo MNIST classifier.
func MNISTSession() *FakeSession {
	return &FakeSession{
		InputSigs: []inspect.TensorSignature{{
			Name: "Input3", Kind: inspect.KindTensor, ElementType: inspect.ElementFloat32, Dims: []int64{1, 1, 28, 28},
		}},
		OutputSigs: []inspect.TensorSignature{{
			Name: "Plus214_Output_0", Kind: inspect.KindTensor, ElementType: inspect.ElementFloat32, Dims: []int64{1, 10},
		}},
		Meta: inspect.ModelMetadata{ProducerName: "CNTK", GraphName: "CNTKGraph", Version: 1},
	}
}
