package config

import (
	"github.com/df07/go-smallpaint/pkg/core"
	"github.com/df07/go-smallpaint/pkg/integrator"
	"github.com/df07/go-smallpaint/pkg/loaders"
	"github.com/df07/go-smallpaint/pkg/renderer"
	"github.com/df07/go-smallpaint/pkg/sampler"
	"github.com/df07/go-smallpaint/pkg/scene"
	"github.com/df07/go-smallpaint/pkg/terminator"
)

// RenderParams returns the parameters passed to every trace
func (c Config) RenderParams() core.RenderParams {
	return core.RenderParams{
		RefractionIndex: c.RefractionIndex,
		SamplesPerPixel: c.SamplesPerPixel,
	}
}

// RendererConfig returns the scheduling options of the renderer
func (c Config) RendererConfig() renderer.Config {
	return renderer.Config{
		NumWorkers:  c.Workers,
		RowsPerTask: c.RowsPerTask,
		Jitter:      c.Jitter,
		Seed:        c.Seed,
	}
}

// NewTerminator creates the configured termination policy
func (c Config) NewTerminator() (terminator.Terminator, error) {
	switch c.Terminator.Kind {
	case DepthTerminator:
		return terminator.NewDepthTerminator(c.Terminator.MaxDepth), nil
	case RouletteTerminator:
		return terminator.NewRussianRouletteTerminator(c.Terminator.StartDepth, c.Terminator.StopProbability), nil
	default:
		return nil, invalid("unknown terminator %q", c.Terminator.Kind)
	}
}

// NewSampler creates the configured hemisphere sampler
func (c Config) NewSampler() (sampler.Sampler, error) {
	switch c.Sampler {
	case UniformSampler:
		return sampler.NewRandomSampler(), nil
	case HaltonSampler:
		// Index 0 lies on the horizon
		return sampler.NewHaltonSampler(c.Seed + 1), nil
	default:
		return nil, invalid("unknown sampler %q", c.Sampler)
	}
}

// NewTracer creates the configured integrator
func (c Config) NewTracer() (integrator.Tracer, error) {
	switch c.Tracer {
	case FlatTracer:
		return integrator.NewFlatTracer(), nil
	case FresnelTracer, SimpleTracer:
		t, err := c.NewTerminator()
		if err != nil {
			return nil, err
		}
		s, err := c.NewSampler()
		if err != nil {
			return nil, err
		}
		if c.Tracer == SimpleTracer {
			return integrator.NewSimpleTracer(t, s), nil
		}
		return integrator.NewPathTracer(t, s), nil
	default:
		return nil, invalid("unknown tracer %q", c.Tracer)
	}
}

// BuildScene builds the configured scene, ready for queries. Scene names
// ending in .yaml or .yml are loaded from disk, anything else selects a
// bundled sample.
func (c Config) BuildScene() (*scene.Scene, error) {
	kind, err := scene.ParseStorageKind(c.Storage.Kind)
	if err != nil {
		return nil, invalid("%v", err)
	}
	if loaders.IsSceneFile(c.Scene) {
		return loaders.LoadScene(c.Scene, kind, c.Storage.MaxLeafSize)
	}
	return scene.Lookup(c.Scene, kind, c.Storage.MaxLeafSize)
}
