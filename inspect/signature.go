package inspect

import (
	"strconv"
	"strings"
)

// ElementType is the scalar type stored in a tensor slot.
type ElementType string

const (
	ElementUndefined  ElementType = "undefined"
	ElementFloat32    ElementType = "float32"
	ElementFloat64    ElementType = "float64"
	ElementFloat16    ElementType = "float16"
	ElementBFloat16   ElementType = "bfloat16"
	ElementInt8       ElementType = "int8"
	ElementInt16      ElementType = "int16"
	ElementInt32      ElementType = "int32"
	ElementInt64      ElementType = "int64"
	ElementUint8      ElementType = "uint8"
	ElementUint16     ElementType = "uint16"
	ElementUint32     ElementType = "uint32"
	ElementUint64     ElementType = "uint64"
	ElementBool       ElementType = "bool"
	ElementString     ElementType = "string"
	ElementComplex64  ElementType = "complex64"
	ElementComplex128 ElementType = "complex128"
)

// SlotKind is the ONNX value category of a slot.
type SlotKind string

const (
	KindUnknown      SlotKind = "unknown"
	KindTensor       SlotKind = "tensor"
	KindSparseTensor SlotKind = "sparse_tensor"
	KindSequence     SlotKind = "sequence"
	KindMap          SlotKind = "map"
	KindOptional     SlotKind = "optional"
	KindOpaque       SlotKind = "opaque"
)

// TensorSignature describes one named input or output slot of a graph.
type TensorSignature struct {
	Name        string
	Kind        SlotKind
	ElementType ElementType
	Dims        []int64 // negative entries are dynamic
}

// IsDynamic reports whether any dimension is symbolic. Runtimes report
// symbolic dimensions as negative sizes.
func (s TensorSignature) IsDynamic() bool {
	for _, d := range s.Dims {
		if d < 0 {
			return true
		}
	}
	return false
}

// ShapeString renders the slot shape, e.g. "[?, 1, 28, 28]".
func (s TensorSignature) ShapeString() string {
	return FormatDims(s.Dims)
}

// FormatDims renders dims as "[d0, d1, ...]", with dynamic dimensions shown as "?".
func FormatDims(dims []int64) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		if d < 0 {
			parts[i] = "?"
			continue
		}
		parts[i] = strconv.FormatInt(d, 10)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// findSignature returns the slot called name, if declared.
func findSignature(sigs []TensorSignature, name string) (TensorSignature, bool) {
	for _, s := range sigs {
		if s.Name == name {
			return s, true
		}
	}
	return TensorSignature{}, false
}

func signatureNames(sigs []TensorSignature) []string {
	names := make([]string, len(sigs))
	for i, s := range sigs {
		names[i] = s.Name
	}
	return names
}

// ModelMetadata is the model-level information recorded in the file.
type ModelMetadata struct {
	ProducerName string
	GraphName    string
	Domain       string
	Description  string
	Version      int64
	Custom       map[string]string
}
