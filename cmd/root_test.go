package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/onnx-inspect/inspect"
	"github.com/inference-sim/onnx-inspect/internal/testutil"
)

// runCLI executes a fresh root command against rt and captures both streams.
func runCLI(t *testing.T, rt *testutil.FakeRuntime, args ...string) (int, string, string) {
	t.Helper()
	prev := inspect.NewRuntimeFunc
	inspect.NewRuntimeFunc = rt.Factory()
	t.Cleanup(func() {
		inspect.NewRuntimeFunc = prev
		logrus.SetOutput(os.Stderr)
		logrus.SetLevel(logrus.InfoLevel)
	})

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	code := execute(cmd, args)
	return code, stdout.String(), stderr.String()
}

func TestExecute_NoArgs_PrintsUsageAndExits1(t *testing.T) {
	rt := testutil.NewFakeRuntime()

	// WHEN the program is invoked with zero arguments
	code, stdout, stderr := runCLI(t, rt)

	// THEN only the usage line is printed, on stderr, and the status is 1
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Equal(t, usageLine+"\n", stderr)
	assert.Empty(t, rt.Loads, "no model must be loaded")
}

func TestExecute_TooManyArgs_PrintsUsage(t *testing.T) {
	code, stdout, stderr := runCLI(t, testutil.NewFakeRuntime(), "a.onnx", "b.onnx")

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Equal(t, usageLine+"\n", stderr)
}

func TestExecute_MissingModel_FatalWithoutBanners(t *testing.T) {
	// GIVEN a path that does not exist
	path := filepath.Join(t.TempDir(), "missing.onnx")

	// WHEN the program is run on it
	code, stdout, stderr := runCLI(t, testutil.NewFakeRuntime(), path)

	// THEN loading fails fatally and nothing is written to stdout
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout, "no banners may be printed when the model fails to load")
	assert.Contains(t, stderr, "FATAL ERROR: Failed to load model.")
	assert.Contains(t, stderr, "Reason: reading model file")
}

func TestExecute_NonModelFile_FatalWithReason(t *testing.T) {
	// GIVEN a file holding arbitrary bytes
	path := filepath.Join(t.TempDir(), "notes.onnx")
	require.NoError(t, os.WriteFile(path, []byte("definitely not protobuf"), 0o644))

	// WHEN the program is run on it
	code, stdout, stderr := runCLI(t, testutil.NewFakeRuntime(), path)

	// THEN the malformed-graph reason is surfaced and the status is 1
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "FATAL ERROR: Failed to load model.")
	assert.Contains(t, stderr, "protobuf parsing failed")
}

func TestExecute_ReferenceModel_PrintsStructureAndOutput(t *testing.T) {
	// GIVEN the MNIST reference model
	rt := testutil.NewFakeRuntime()
	session := testutil.MNISTSession()
	rt.Register("mnist-8.onnx", session)

	// WHEN the program is run with default settings
	code, stdout, stderr := runCLI(t, rt, "mnist-8.onnx")

	// THEN both phases succeed
	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "Inspecting Model: mnist-8.onnx")
	assert.Contains(t, stdout, "   Name: Input3\n")
	assert.Contains(t, stdout, "   Name: Plus214_Output_0\n")
	assert.Contains(t, stdout, "Running Inference with Dummy Data...")
	assert.Contains(t, stdout, "Output Tensor (Shape: [1, 10]):\n[0, 1, 2, 3, 4, 5, 6, 7, 8, 9]\n")

	// AND the model was loaded at the basic level and released exactly once
	require.Len(t, rt.Loads, 1)
	assert.Equal(t, inspect.OptimizationBasic, rt.Loads[0].Level)
	assert.Equal(t, 1, session.CloseCalls)
}

func TestExecute_InputNameMismatch_WarnsAndExits0(t *testing.T) {
	// GIVEN a model whose input slot is not called Input3
	rt := testutil.NewFakeRuntime()
	session := testutil.MNISTSession()
	session.InputSigs[0].Name = "data"
	rt.Register("other.onnx", session)

	// WHEN the program is run with default slot names
	code, stdout, stderr := runCLI(t, rt, "other.onnx")

	// THEN structure is printed, inference fails softly, and the status is 0
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "   Name: data\n")
	assert.Contains(t, stdout, "-> OUTPUTS:")
	assert.Contains(t, stderr, "Inference failed:")
	assert.Contains(t, stderr, `"Input3"`)
	assert.Zero(t, session.Runs)
	assert.Equal(t, 1, session.CloseCalls)
}

func TestExecute_RunFailure_IsNonFatal(t *testing.T) {
	rt := testutil.NewFakeRuntime()
	session := testutil.MNISTSession()
	session.RunErr = errors.New("kernel aborted")
	rt.Register("mnist.onnx", session)

	code, _, stderr := runCLI(t, rt, "mnist.onnx")

	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "Inference failed:")
	assert.Contains(t, stderr, "kernel aborted")
}

func TestExecute_CustomSlotFlags_BindConfiguredInput(t *testing.T) {
	// GIVEN a model with a dynamic batch dimension and non-default slot names
	rt := testutil.NewFakeRuntime()
	session := &testutil.FakeSession{
		InputSigs: []inspect.TensorSignature{{
			Name: "pixels", Kind: inspect.KindTensor, ElementType: inspect.ElementFloat32, Dims: []int64{-1, 3, 4, 4},
		}},
		OutputSigs: []inspect.TensorSignature{{
			Name: "logits", Kind: inspect.KindTensor, ElementType: inspect.ElementFloat32, Dims: []int64{-1, 2},
		}},
	}
	rt.Register("tiny.onnx", session)

	// WHEN slot names and shape are given as flags
	code, stdout, stderr := runCLI(t, rt,
		"--input-name", "pixels", "--output-name", "logits", "--input-shape", "1,3,4,4", "tiny.onnx")

	// THEN the dummy tensor is bound with the configured shape
	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "   Shape: [?, 3, 4, 4]\n")
	assert.Contains(t, stdout, "Output Tensor (Shape: [1, 2]):\n[0, 1]\n")
	require.Contains(t, session.LastInputs, "pixels")
	assert.Equal(t, []int{1, 3, 4, 4}, []int(session.LastInputs["pixels"].Shape()))
}

func TestExecute_SkipInference_OnlyInspects(t *testing.T) {
	rt := testutil.NewFakeRuntime()
	session := testutil.MNISTSession()
	rt.Register("mnist.onnx", session)

	code, stdout, _ := runCLI(t, rt, "--skip-inference", "mnist.onnx")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Inspecting Model: mnist.onnx")
	assert.NotContains(t, stdout, "Running Inference")
	assert.Zero(t, session.Runs)
}

func TestExecute_OptLevelFlag_ReachesRuntime(t *testing.T) {
	rt := testutil.NewFakeRuntime()
	rt.Register("mnist.onnx", testutil.MNISTSession())

	code, _, _ := runCLI(t, rt, "--opt-level", "all", "mnist.onnx")

	assert.Equal(t, 0, code)
	require.Len(t, rt.Loads, 1)
	assert.Equal(t, inspect.OptimizationAll, rt.Loads[0].Level)
}

func TestExecute_UnknownOptLevel_FailsBeforeLoading(t *testing.T) {
	rt := testutil.NewFakeRuntime()
	rt.Register("mnist.onnx", testutil.MNISTSession())

	code, stdout, stderr := runCLI(t, rt, "--opt-level", "turbo", "mnist.onnx")

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error: unknown optimization level")
	assert.Empty(t, rt.Loads)
}

func TestExecute_InvalidLogLevel_Fails(t *testing.T) {
	code, _, stderr := runCLI(t, testutil.NewFakeRuntime(), "--log", "chatty", "mnist.onnx")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid log level")
}

func TestExecute_RuntimeInitFailure_Fatal(t *testing.T) {
	// GIVEN a runtime that cannot be brought up
	prev := inspect.NewRuntimeFunc
	inspect.NewRuntimeFunc = func(inspect.RuntimeConfig) (inspect.Runtime, error) {
		return nil, errors.New("libonnxruntime.so: cannot open shared object file")
	}
	t.Cleanup(func() {
		inspect.NewRuntimeFunc = prev
		logrus.SetOutput(os.Stderr)
	})

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	// WHEN the program is run
	code := execute(cmd, []string{"mnist.onnx"})

	// THEN it exits 1 before printing anything to stdout
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Error: initializing inference runtime")
}

func TestExecute_ConfigFile_SuppliesSlotNames(t *testing.T) {
	// GIVEN a config file naming the slots of a non-reference model
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "inspect.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("input_name: pixels\noutput_name: logits\ninput_shape: [1, 4]\n"), 0o644))

	rt := testutil.NewFakeRuntime()
	rt.Register("tiny.onnx", &testutil.FakeSession{
		InputSigs: []inspect.TensorSignature{{
			Name: "pixels", Kind: inspect.KindTensor, ElementType: inspect.ElementFloat32, Dims: []int64{1, 4},
		}},
		OutputSigs: []inspect.TensorSignature{{
			Name: "logits", Kind: inspect.KindTensor, ElementType: inspect.ElementFloat32, Dims: []int64{1, 3},
		}},
	})

	// WHEN the program is run with --config
	code, stdout, stderr := runCLI(t, rt, "--config", cfgPath, "tiny.onnx")

	// THEN the configured slots are used
	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "Output Tensor (Shape: [1, 3]):\n[0, 1, 2]\n")
}

func TestExecute_InfoLogging_ReportsSlotCounts(t *testing.T) {
	rt := testutil.NewFakeRuntime()
	rt.Register("mnist.onnx", testutil.MNISTSession())

	code, _, stderr := runCLI(t, rt, "--log", "info", "--skip-inference", "mnist.onnx")

	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "mnist.onnx declares 1 inputs and 1 outputs")
}

func TestExecute_OversizedInputShape_FailsBeforeLoading(t *testing.T) {
	rt := testutil.NewFakeRuntime()
	rt.Register("mnist.onnx", testutil.MNISTSession())

	code, stdout, stderr := runCLI(t, rt, "--input-shape", "4294967296,4294967296", "mnist.onnx")

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "exceeds")
	assert.Empty(t, rt.Loads)
}
