// Package config loads render settings from YAML and builds the collaborators
// a render needs from them.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/df07/go-smallpaint/pkg/core"
	"github.com/df07/go-smallpaint/pkg/renderer"
	"github.com/df07/go-smallpaint/pkg/scene"
	"gopkg.in/yaml.v2"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("config: invalid configuration")

// Terminator kinds
const (
	DepthTerminator    = "depth"
	RouletteTerminator = "roulette"
)

// Sampler kinds
const (
	UniformSampler = "uniform"
	HaltonSampler  = "halton"
)

// Tracer kinds
const (
	FresnelTracer = "fresnel"
	SimpleTracer  = "simple"
	FlatTracer    = "flat"
)

// TerminatorConfig selects the path termination policy
type TerminatorConfig struct {
	Kind            string  `yaml:"kind"`
	MaxDepth        int     `yaml:"max_depth"`
	StartDepth      int     `yaml:"start_depth"`
	StopProbability float64 `yaml:"stop_probability"`
}

// StorageConfig selects the scene acceleration structure
type StorageConfig struct {
	Kind        string `yaml:"kind"`
	MaxLeafSize int    `yaml:"max_leaf_size"`
}

// Config holds every setting of a render
type Config struct {
	Width           int              `yaml:"width"`
	Height          int              `yaml:"height"`
	RefractionIndex float64          `yaml:"refraction_index"`
	SamplesPerPixel uint64           `yaml:"samples_per_pixel"`
	Terminator      TerminatorConfig `yaml:"terminator"`
	Sampler         string           `yaml:"sampler"`
	Tracer          string           `yaml:"tracer"`
	Storage         StorageConfig    `yaml:"storage"`
	Workers         int              `yaml:"workers"`
	RowsPerTask     int              `yaml:"rows_per_task"`
	Jitter          bool             `yaml:"jitter"`
	Seed            uint64           `yaml:"seed"`
	Scene           string           `yaml:"scene"`
	Output          string           `yaml:"output"`
}

// Default returns the settings of the bundled Fresnel example
func Default() Config {
	params := core.DefaultRenderParams()
	return Config{
		Width:           512,
		Height:          512,
		RefractionIndex: params.RefractionIndex,
		SamplesPerPixel: params.SamplesPerPixel,
		Terminator: TerminatorConfig{
			Kind:            RouletteTerminator,
			MaxDepth:        16,
			StartDepth:      5,
			StopProbability: 0.1,
		},
		Sampler: UniformSampler,
		Tracer:  FresnelTracer,
		Storage: StorageConfig{
			Kind:        scene.BVHStorage.String(),
			MaxLeafSize: scene.DefaultMaxLeafSize,
		},
		Workers:     0,
		RowsPerTask: renderer.DefaultConfig().RowsPerTask,
		Scene:       "three-spheres",
		Output:      "smallpaint.ppm",
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate reports the first setting that cannot be rendered
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return invalid("dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.SamplesPerPixel == 0 {
		return invalid("samples_per_pixel must be positive")
	}
	if !(c.RefractionIndex > 0) || math.IsInf(c.RefractionIndex, 0) {
		return invalid("refraction_index must be positive and finite, got %v", c.RefractionIndex)
	}

	switch c.Terminator.Kind {
	case DepthTerminator:
		if c.Terminator.MaxDepth <= 0 {
			return invalid("terminator max_depth must be positive, got %d", c.Terminator.MaxDepth)
		}
	case RouletteTerminator:
		if c.Terminator.StartDepth < 0 {
			return invalid("terminator start_depth must not be negative, got %d", c.Terminator.StartDepth)
		}
		if !(c.Terminator.StopProbability >= 0 && c.Terminator.StopProbability < 1) {
			return invalid("terminator stop_probability must be in [0, 1), got %v", c.Terminator.StopProbability)
		}
	default:
		return invalid("unknown terminator %q", c.Terminator.Kind)
	}

	if c.Sampler != UniformSampler && c.Sampler != HaltonSampler {
		return invalid("unknown sampler %q", c.Sampler)
	}
	if c.Tracer != FresnelTracer && c.Tracer != SimpleTracer && c.Tracer != FlatTracer {
		return invalid("unknown tracer %q", c.Tracer)
	}

	kind, err := scene.ParseStorageKind(c.Storage.Kind)
	if err != nil {
		return invalid("%v", err)
	}
	if kind == scene.BVHStorage && c.Storage.MaxLeafSize < 1 {
		return invalid("storage max_leaf_size must be at least 1, got %d", c.Storage.MaxLeafSize)
	}

	if c.Workers < 0 || c.RowsPerTask < 0 {
		return invalid("workers and rows_per_task must not be negative")
	}
	if c.Scene == "" {
		return invalid("scene must be set")
	}
	if c.Output == "" {
		return invalid("output must be set")
	}
	return nil
}
