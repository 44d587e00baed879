package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/onnx-inspect/inspect"
	_ "github.com/inference-sim/onnx-inspect/inspect/onnxrt" // registers the ONNX Runtime backend
)

const usageLine = "Usage: onnx-inspect <path_to_model.onnx>"

// errUsage signals a wrong number of positional arguments.
var errUsage = errors.New("exactly one model path is required")

// rootOptions holds the raw CLI flag values.
type rootOptions struct {
	configPath    string // YAML file with inspection settings
	inputName     string // input slot bound to the dummy tensor
	outputName    string // output slot printed after the dummy pass
	inputShape    []int  // dummy tensor shape
	optLevel      string // graph optimization level name
	skipInference bool   // only print the model structure
	libPath       string // onnxruntime shared library
	logLevel      string // logrus level
}

// newRootCmd builds the onnx-inspect command with its own flag set.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "onnx-inspect <path_to_model.onnx>",
		Short: "Print the input/output signatures of an ONNX model and smoke-test it with a dummy tensor",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errUsage
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "YAML file with inspection settings (flags take precedence)")
	flags.StringVar(&opts.inputName, "input-name", inspect.DefaultInputName, "Input slot the zero-filled dummy tensor is bound to")
	flags.StringVar(&opts.outputName, "output-name", inspect.DefaultOutputName, "Output slot printed after the dummy inference")
	flags.IntSliceVar(&opts.inputShape, "input-shape", append([]int(nil), inspect.DefaultInputShape...), "Comma-separated shape of the dummy float32 input tensor")
	flags.StringVar(&opts.optLevel, "opt-level", string(inspect.OptimizationBasic), "Graph optimization level (disable, basic, extended, all)")
	flags.BoolVar(&opts.skipInference, "skip-inference", false, "Only print the model structure")
	flags.StringVar(&opts.libPath, "onnxruntime-lib", "", "Path to the onnxruntime shared library (default $ONNXRUNTIME_SHARED_LIBRARY_PATH or the platform library name)")
	flags.StringVar(&opts.logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	return cmd
}

// Execute runs the CLI root command and exits with its status code.
func Execute() {
	os.Exit(execute(newRootCmd(), os.Args[1:]))
}

// execute runs cmd with args and maps the outcome to a process exit code.
// Load failures and usage errors are fatal; a failed dummy inference is not,
// and never reaches here.
func execute(cmd *cobra.Command, args []string) int {
	if args == nil {
		args = []string{} // cobra falls back to os.Args on nil
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	stderr := cmd.ErrOrStderr()
	var loadErr *inspect.ModelLoadError
	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintln(stderr, usageLine)
	case errors.As(err, &loadErr):
		fmt.Fprintln(stderr, "FATAL ERROR: Failed to load model.")
		fmt.Fprintf(stderr, "Reason: %v\n", loadErr.Err)
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return 1
}

func runInspect(cmd *cobra.Command, opts *rootOptions, modelPath string) error {
	if err := setupLogging(opts.logLevel, cmd.ErrOrStderr()); err != nil {
		return err
	}

	settings, err := resolveSettings(opts, cmd.Flags().Changed)
	if err != nil {
		return err
	}
	logrus.Debugf("resolved settings: %+v", settings)

	rt, err := inspect.NewRuntime(inspect.RuntimeConfig{SharedLibraryPath: settings.LibPath})
	if err != nil {
		return fmt.Errorf("initializing inference runtime: %w", err)
	}
	logrus.Infof("inference runtime version %s", rt.Version())

	inspector, err := inspect.New(rt, modelPath, settings.Level, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() {
		if err := inspector.Close(); err != nil {
			logrus.Warnf("releasing session: %v", err)
		}
	}()

	logrus.Infof("%s declares %d inputs and %d outputs",
		inspector.Path(), len(inspector.Inputs()), len(inspector.Outputs()))
	inspector.PrintDetails()

	if settings.SkipInference {
		logrus.Info("dummy inference skipped")
		return nil
	}
	if err := inspector.RunDummyInference(settings.Inference); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Inference failed: %v\n", err)
	}
	return nil
}

func setupLogging(level string, out io.Writer) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(out)
	return nil
}
