package onnxrt

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/inference-sim/onnx-inspect/inspect"
)

// The onnxruntime environment is process-wide: it is initialised once, before
// the first session, and never torn down.
var (
	envOnce sync.Once
	envErr  error
	envLib  string
)

func initEnvironment(libPath string) error {
	envOnce.Do(func() {
		if ort.IsInitialized() {
			return
		}
		ort.SetSharedLibraryPath(libPath)
		if err := ort.InitializeEnvironment(); err != nil {
			envErr = errors.Wrapf(err, "initializing onnxruntime from %s", libPath)
			return
		}
		envLib = libPath
		logrus.Debugf("onnxruntime %s initialized from %s", ort.GetVersion(), libPath)
	})
	return envErr
}

// Runtime is the ONNX Runtime implementation of inspect.Runtime.
type Runtime struct {
	libPath string
}

// New resolves the shared library and initialises the process-wide
// onnxruntime environment on first use.
func New(cfg inspect.RuntimeConfig) (*Runtime, error) {
	libPath, err := ResolveSharedLibraryPath(cfg.SharedLibraryPath)
	if err != nil {
		return nil, err
	}
	if err := initEnvironment(libPath); err != nil {
		return nil, err
	}
	if envLib != "" && envLib != libPath {
		logrus.Warnf("onnxruntime already initialized from %s; ignoring %s", envLib, libPath)
	}
	return &Runtime{libPath: libPath}, nil
}

// Version implements inspect.Runtime.
func (r *Runtime) Version() string {
	return ort.GetVersion()
}

// Load implements inspect.Runtime. The session is created over every declared
// input and output so any of them can be bound or read later.
func (r *Runtime) Load(path string, level inspect.OptimizationLevel) (inspect.Session, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(err, "reading model file")
	}
	ortLevel, err := graphOptimizationLevel(level)
	if err != nil {
		return nil, err
	}

	inputInfo, outputInfo, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading model inputs and outputs")
	}
	inputs := signaturesFromInfo(inputInfo)
	outputs := signaturesFromInfo(outputInfo)

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, errors.Wrap(err, "creating session options")
	}
	defer options.Destroy()
	if err := options.SetGraphOptimizationLevel(ortLevel); err != nil {
		return nil, errors.Wrapf(err, "setting graph optimization level %s", level)
	}

	session, err := ort.NewDynamicAdvancedSession(path, names(inputs), names(outputs), options)
	if err != nil {
		return nil, errors.Wrap(err, "creating session")
	}

	return &Session{
		session:  session,
		inputs:   inputs,
		outputs:  outputs,
		metadata: readMetadata(session),
	}, nil
}

func names(sigs []inspect.TensorSignature) []string {
	out := make([]string, len(sigs))
	for i, s := range sigs {
		out[i] = s.Name
	}
	return out
}

// readMetadata collects model metadata. Missing fields are left empty; metadata
// is informational and never fails a load.
func readMetadata(session *ort.DynamicAdvancedSession) inspect.ModelMetadata {
	var md inspect.ModelMetadata
	meta, err := session.GetModelMetadata()
	if err != nil {
		logrus.Debugf("model metadata unavailable: %v", err)
		return md
	}
	defer meta.Destroy()

	md.ProducerName, _ = meta.GetProducerName()
	md.GraphName, _ = meta.GetGraphName()
	md.Domain, _ = meta.GetDomain()
	md.Description, _ = meta.GetDescription()
	md.Version, _ = meta.GetVersion()

	keys, err := meta.GetCustomMetadataMapKeys()
	if err != nil || len(keys) == 0 {
		return md
	}
	md.Custom = make(map[string]string, len(keys))
	for _, k := range keys {
		v, ok, err := meta.LookupCustomMetadataMap(k)
		if err != nil || !ok {
			continue
		}
		md.Custom[k] = v
	}
	return md
}
