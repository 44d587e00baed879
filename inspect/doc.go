// Package inspect loads a single ONNX model through an inference runtime,
// reports its declared input/output slots and runs one smoke-test forward pass
// with a zero-filled tensor.
//
// # Reading Guide
//
//   - inspector.go: ModelInspector, the owner of one loaded session
//   - signature.go: slot metadata (TensorSignature) and its text rendering
//   - runtime.go: the Runtime/Session contract the inspector depends on
//   - config.go: InferenceConfig, which names the slots and shape used for the dummy pass
//   - errors.go: ModelLoadError (fatal) and InferenceError (non-fatal)
//
// # Architecture
//
// The inspect package owns the interfaces; the ONNX Runtime implementation lives
// in inspect/onnxrt, which registers itself into NewRuntimeFunc from an init()
// function. Callers import inspect/onnxrt (usually with a blank import) to make
// the real runtime available; tests install a fake instead.
package inspect
