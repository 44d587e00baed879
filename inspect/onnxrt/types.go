package onnxrt

import (
	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/inference-sim/onnx-inspect/inspect"
)

// elementTypes maps ONNX tensor element types to the names used in reports.
var elementTypes = map[ort.TensorElementDataType]inspect.ElementType{
	ort.TensorElementDataTypeUndefined:  inspect.ElementUndefined,
	ort.TensorElementDataTypeFloat:      inspect.ElementFloat32,
	ort.TensorElementDataTypeDouble:     inspect.ElementFloat64,
	ort.TensorElementDataTypeFloat16:    inspect.ElementFloat16,
	ort.TensorElementDataTypeBFloat16:   inspect.ElementBFloat16,
	ort.TensorElementDataTypeInt8:       inspect.ElementInt8,
	ort.TensorElementDataTypeInt16:      inspect.ElementInt16,
	ort.TensorElementDataTypeInt32:      inspect.ElementInt32,
	ort.TensorElementDataTypeInt64:      inspect.ElementInt64,
	ort.TensorElementDataTypeUint8:      inspect.ElementUint8,
	ort.TensorElementDataTypeUint16:     inspect.ElementUint16,
	ort.TensorElementDataTypeUint32:     inspect.ElementUint32,
	ort.TensorElementDataTypeUint64:     inspect.ElementUint64,
	ort.TensorElementDataTypeBool:       inspect.ElementBool,
	ort.TensorElementDataTypeString:     inspect.ElementString,
	ort.TensorElementDataTypeComplex64:  inspect.ElementComplex64,
	ort.TensorElementDataTypeComplex128: inspect.ElementComplex128,
}

func elementType(t ort.TensorElementDataType) inspect.ElementType {
	if et, ok := elementTypes[t]; ok {
		return et
	}
	return inspect.ElementUndefined
}

func slotKind(t ort.ONNXType) inspect.SlotKind {
	switch t {
	case ort.ONNXTypeTensor:
		return inspect.KindTensor
	case ort.ONNXTypeSparseTensor:
		return inspect.KindSparseTensor
	case ort.ONNXTypeSequence:
		return inspect.KindSequence
	case ort.ONNXTypeMap:
		return inspect.KindMap
	case ort.ONNXTypeOptional:
		return inspect.KindOptional
	case ort.ONNXTypeOpaque:
		return inspect.KindOpaque
	}
	return inspect.KindUnknown
}

func signatureFromInfo(info ort.InputOutputInfo) inspect.TensorSignature {
	return inspect.TensorSignature{
		Name:        info.Name,
		Kind:        slotKind(info.OrtValueType),
		ElementType: elementType(info.DataType),
		Dims:        append([]int64(nil), info.Dimensions...),
	}
}

func signaturesFromInfo(infos []ort.InputOutputInfo) []inspect.TensorSignature {
	sigs := make([]inspect.TensorSignature, len(infos))
	for i, info := range infos {
		sigs[i] = signatureFromInfo(info)
	}
	return sigs
}

func graphOptimizationLevel(level inspect.OptimizationLevel) (ort.GraphOptimizationLevel, error) {
	switch level {
	case inspect.OptimizationDisabled:
		return ort.GraphOptimizationLevelDisableAll, nil
	case inspect.OptimizationBasic, "":
		return ort.GraphOptimizationLevelEnableBasic, nil
	case inspect.OptimizationExtended:
		return ort.GraphOptimizationLevelEnableExtended, nil
	case inspect.OptimizationAll:
		return ort.GraphOptimizationLevelEnableAll, nil
	}
	return 0, errors.Errorf("unsupported optimization level %q", level)
}
