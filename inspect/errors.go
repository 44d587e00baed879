package inspect

import "fmt"

// ModelLoadError reports that a model file could not be turned into a session:
// the file is missing or unreadable, is not a serialized graph, or uses operators
// the runtime does not support. It is always fatal for the CLI.
type ModelLoadError struct {
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("loading model %s: %v", e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }

// InferenceError reports that the dummy forward pass could not be executed:
// the configured slots are not declared by the model, the dummy tensor does not
// match the declared shape or type, or the runtime aborted during execution.
type InferenceError struct {
	Input  string
	Output string
	Err    error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("dummy inference (%s -> %s): %v", e.Input, e.Output, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }
