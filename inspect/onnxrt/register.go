// register.go wires the ONNX Runtime backend into inspect.NewRuntimeFunc.
// Importing this package (usually blank) is what makes a real runtime available
// to the inspect package without inspect depending on cgo.
package onnxrt

import "github.com/inference-sim/onnx-inspect/inspect"

func init() {
	inspect.NewRuntimeFunc = func(cfg inspect.RuntimeConfig) (inspect.Runtime, error) {
		rt, err := New(cfg)
		if err != nil {
			return nil, err
		}
		return rt, nil
	}
}
