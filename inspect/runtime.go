package inspect

import (
	"fmt"
	"sort"
	"strings"

	"gorgonia.org/tensor"
)

// OptimizationLevel selects how much graph simplification the runtime applies
// when a model is loaded.
type OptimizationLevel string

const (
	// OptimizationDisabled loads the graph as declared.
	OptimizationDisabled OptimizationLevel = "disable"
	// OptimizationBasic applies structural simplifications only (constant folding,
	// redundant node elimination). This is the default.
	OptimizationBasic OptimizationLevel = "basic"
	// OptimizationExtended adds node fusions.
	OptimizationExtended OptimizationLevel = "extended"
	// OptimizationAll enables every optimization, including layout changes.
	OptimizationAll OptimizationLevel = "all"
)

var validOptimizationLevels = map[OptimizationLevel]bool{
	OptimizationDisabled: true,
	OptimizationBasic:    true,
	OptimizationExtended: true,
	OptimizationAll:      true,
}

// ParseOptimizationLevel converts a user-supplied name into an OptimizationLevel.
// An empty string selects OptimizationBasic.
func ParseOptimizationLevel(name string) (OptimizationLevel, error) {
	if name == "" {
		return OptimizationBasic, nil
	}
	level := OptimizationLevel(strings.ToLower(strings.TrimSpace(name)))
	if !validOptimizationLevels[level] {
		return "", fmt.Errorf("unknown optimization level %q; valid: %s", name, strings.Join(OptimizationLevelNames(), ", "))
	}
	return level, nil
}

// OptimizationLevelNames returns the accepted level names in sorted order.
func OptimizationLevelNames() []string {
	names := make([]string, 0, len(validOptimizationLevels))
	for level := range validOptimizationLevels {
		names = append(names, string(level))
	}
	sort.Strings(names)
	return names
}

// RuntimeConfig carries the process-wide settings needed to bring up a runtime.
type RuntimeConfig struct {
	SharedLibraryPath string // path to the runtime's native library ("" = resolve automatically)
}

// Runtime loads models into executable sessions.
type Runtime interface {
	// Load reads the model at path, applies the optimization level and returns
	// a ready session.
	Load(path string, level OptimizationLevel) (Session, error)
	// Version reports the runtime library version, for diagnostics.
	Version() string
}

// Session is one loaded, optimized model graph.
type Session interface {
	// Inputs returns the declared input slots in declaration order.
	Inputs() []TensorSignature
	// Outputs returns the declared output slots in declaration order.
	Outputs() []TensorSignature
	// Metadata returns the model-level metadata recorded in the file.
	Metadata() ModelMetadata
	// Run executes the graph synchronously. inputs maps input slot names to
	// tensors; the returned map holds one tensor per requested output name.
	Run(inputs map[string]*tensor.Dense, outputs []string) (map[string]*tensor.Dense, error)
	// Close releases every resource owned by the session.
	Close() error
}

// NewRuntimeFunc is the registered Runtime constructor. inspect/onnxrt sets it
// from init(); tests may replace it.
var NewRuntimeFunc func(cfg RuntimeConfig) (Runtime, error)

// NewRuntime builds a Runtime through the registered constructor.
func NewRuntime(cfg RuntimeConfig) (Runtime, error) {
	if NewRuntimeFunc == nil {
		return nil, fmt.Errorf("no inference runtime registered; import github.com/inference-sim/onnx-inspect/inspect/onnxrt")
	}
	return NewRuntimeFunc(cfg)
}
