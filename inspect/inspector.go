package inspect

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gorgonia.org/tensor"
)

const banner = "========================================"

// ModelInspector owns one loaded session and reports on it.
// A ModelInspector is not safe for concurrent use and must not be used after Close.
type ModelInspector struct {
	path    string
	session Session
	out     io.Writer
}

// New loads the model at path through rt. All failures are returned as
// *ModelLoadError; no partially-loaded inspector is ever returned.
func New(rt Runtime, path string, level OptimizationLevel, out io.Writer) (*ModelInspector, error) {
	start := time.Now()
	session, err := rt.Load(path, level)
	if err != nil {
		return nil, &ModelLoadError{Path: path, Err: err}
	}
	logrus.Debugf("loaded %s (optimization=%s) in %v", path, level, time.Since(start))
	return &ModelInspector{path: path, session: session, out: out}, nil
}

// Path returns the model path as given to New.
func (mi *ModelInspector) Path() string {
	return mi.path
}

// Inputs returns the declared input slots.
func (mi *ModelInspector) Inputs() []TensorSignature {
	return mi.session.Inputs()
}

// Outputs returns the declared output slots.
func (mi *ModelInspector) Outputs() []TensorSignature {
	return mi.session.Outputs()
}

// PrintDetails writes the model metadata and one block per declared input and
// output slot, in declaration order.
func (mi *ModelInspector) PrintDetails() {
	w := mi.out
	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "Inspecting Model: %s\n", mi.Path())
	fmt.Fprintln(w, banner)

	printMetadata(w, mi.session.Metadata())

	fmt.Fprintln(w, "-> INPUTS:")
	for _, sig := range mi.Inputs() {
		printSignature(w, sig)
	}
	fmt.Fprintln(w, "-> OUTPUTS:")
	for _, sig := range mi.Outputs() {
		printSignature(w, sig)
	}
	fmt.Fprintln(w, banner)
}

func printMetadata(w io.Writer, md ModelMetadata) {
	fmt.Fprintln(w, "-> METADATA:")
	fmt.Fprintf(w, "   Producer: %s\n", md.ProducerName)
	fmt.Fprintf(w, "   Graph: %s\n", md.GraphName)
	if md.Domain != "" {
		fmt.Fprintf(w, "   Domain: %s\n", md.Domain)
	}
	if md.Description != "" {
		fmt.Fprintf(w, "   Description: %s\n", md.Description)
	}
	fmt.Fprintf(w, "   Version: %d\n", md.Version)
	keys := make([]string, 0, len(md.Custom))
	for k := range md.Custom {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "   %s: %s\n", k, md.Custom[k])
	}
}

func printSignature(w io.Writer, sig TensorSignature) {
	fmt.Fprintf(w, "   Name: %s\n", sig.Name)
	fmt.Fprintf(w, "   Type: %s\n", sig.Kind)
	fmt.Fprintf(w, "   Element: %s\n", sig.ElementType)
	fmt.Fprintf(w, "   Shape: %s\n", sig.ShapeString())
	fmt.Fprintln(w, "   ---")
}

// RunDummyInference binds a zero-filled float32 tensor to cfg.InputName, runs
// the graph once and prints the shape and raw values of cfg.OutputName.
// Every failure is returned as *InferenceError.
func (mi *ModelInspector) RunDummyInference(cfg InferenceConfig) error {
	fail := func(err error) error {
		return &InferenceError{Input: cfg.InputName, Output: cfg.OutputName, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return fail(err)
	}

	w := mi.out
	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "Running Inference with Dummy Data...")
	fmt.Fprintln(w, banner)

	inputs := mi.Inputs()
	inSig, ok := findSignature(inputs, cfg.InputName)
	if !ok {
		return fail(fmt.Errorf("input slot %q not declared by model; declared inputs: %v", cfg.InputName, signatureNames(inputs)))
	}
	outputs := mi.Outputs()
	if _, ok := findSignature(outputs, cfg.OutputName); !ok {
		return fail(fmt.Errorf("output slot %q not declared by model; declared outputs: %v", cfg.OutputName, signatureNames(outputs)))
	}
	if err := checkInputCompatible(inSig, cfg.InputShape); err != nil {
		return fail(err)
	}
	if inSig.IsDynamic() {
		logrus.Debugf("binding %s to dynamic input %s %s", FormatShape(cfg.InputShape), inSig.Name, inSig.ShapeString())
	}

	dummy := NewDummyTensor(cfg.InputShape)
	start := time.Now()
	results, err := mi.session.Run(map[string]*tensor.Dense{cfg.InputName: dummy}, []string{cfg.OutputName})
	if err != nil {
		return fail(err)
	}
	logrus.Debugf("inference on %s finished in %v", mi.path, time.Since(start))

	out, ok := results[cfg.OutputName]
	if !ok || out == nil {
		return fail(fmt.Errorf("runtime returned no tensor for output slot %q", cfg.OutputName))
	}
	values, err := Float32Values(out)
	if err != nil {
		return fail(err)
	}

	fmt.Fprintf(w, "Output Tensor (Shape: %s):\n", FormatShape(out.Shape()))
	fmt.Fprintln(w, FormatValues(values))
	fmt.Fprintln(w, banner)
	return nil
}

// Close releases the session. Calling Close more than once is a no-op.
func (mi *ModelInspector) Close() error {
	if mi.session == nil {
		return nil
	}
	err := mi.session.Close()
	mi.session = nil
	return err
}
