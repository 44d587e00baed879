package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/onnx-inspect/inspect"
)

// InspectConfig is the optional YAML settings file passed with --config.
// Unknown keys are rejected so typos surface as errors.
type InspectConfig struct {
	InputName         string `yaml:"input_name"`
	OutputName        string `yaml:"output_name"`
	InputShape        []int  `yaml:"input_shape"`
	OptimizationLevel string `yaml:"optimization_level"`
	SkipInference     bool   `yaml:"skip_inference"`
	OnnxruntimeLib    string `yaml:"onnxruntime_lib"`
}

// LoadInspectConfig parses the settings file at path. An empty file yields a
// zero config.
func LoadInspectConfig(path string) (*InspectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg InspectConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return &cfg, nil
}

// settings is the effective configuration after merging defaults, the config
// file and explicitly set flags, in increasing order of precedence.
type settings struct {
	Inference     inspect.InferenceConfig
	Level         inspect.OptimizationLevel
	SkipInference bool
	LibPath       string
}

// resolveSettings merges opts with the config file. changed reports whether a
// flag was set on the command line; only those flags override file values.
func resolveSettings(opts *rootOptions, changed func(name string) bool) (settings, error) {
	s := settings{Inference: inspect.DefaultInferenceConfig()}
	levelName := string(inspect.OptimizationBasic)

	if opts.configPath != "" {
		cfg, err := LoadInspectConfig(opts.configPath)
		if err != nil {
			return settings{}, err
		}
		if cfg.InputName != "" {
			s.Inference.InputName = cfg.InputName
		}
		if cfg.OutputName != "" {
			s.Inference.OutputName = cfg.OutputName
		}
		if len(cfg.InputShape) > 0 {
			s.Inference.InputShape = cfg.InputShape
		}
		if cfg.OptimizationLevel != "" {
			levelName = cfg.OptimizationLevel
		}
		s.SkipInference = cfg.SkipInference
		s.LibPath = cfg.OnnxruntimeLib
	}

	if changed("input-name") {
		s.Inference.InputName = opts.inputName
	}
	if changed("output-name") {
		s.Inference.OutputName = opts.outputName
	}
	if changed("input-shape") {
		s.Inference.InputShape = opts.inputShape
	}
	if changed("opt-level") {
		levelName = opts.optLevel
	}
	if changed("skip-inference") {
		s.SkipInference = opts.skipInference
	}
	if changed("onnxruntime-lib") {
		s.LibPath = opts.libPath
	}

	level, err := inspect.ParseOptimizationLevel(levelName)
	if err != nil {
		return settings{}, err
	}
	s.Level = level
	if !s.SkipInference {
		if err := s.Inference.Validate(); err != nil {
			return settings{}, fmt.Errorf("invalid dummy inference settings: %w", err)
		}
	}
	return s, nil
}
