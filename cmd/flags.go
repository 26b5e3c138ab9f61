package cmd

import (
	"github.com/df07/go-smallpaint/pkg/config"
	"github.com/urfave/cli"
)

// ConfigFlags override settings of the loaded configuration. Flags that
// are not set on the command line keep the configured value.
var ConfigFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "config, c",
		Usage: "YAML configuration file (defaults are used when omitted)",
	},
	cli.StringFlag{
		Name:  "scene, s",
		Usage: "sample scene to render",
	},
	cli.IntFlag{
		Name:  "width",
		Usage: "frame width",
	},
	cli.IntFlag{
		Name:  "height",
		Usage: "frame height",
	},
	cli.Uint64Flag{
		Name:  "spp",
		Usage: "samples per pixel",
	},
	cli.Float64Flag{
		Name:  "refraction-index",
		Usage: "refractive index of refractive objects",
	},
	cli.StringFlag{
		Name:  "sampler",
		Usage: "hemisphere sampler (uniform or halton)",
	},
	cli.StringFlag{
		Name:  "tracer",
		Usage: "tracer variant (fresnel, simple or flat)",
	},
	cli.StringFlag{
		Name:  "storage",
		Usage: "scene storage (linear or bvh)",
	},
	cli.IntFlag{
		Name:  "workers",
		Usage: "number of render workers (0 uses every CPU)",
	},
	cli.Uint64Flag{
		Name:  "seed",
		Usage: "base seed of the random sources",
	},
	cli.BoolFlag{
		Name:  "jitter",
		Usage: "jitter camera samples within each pixel",
	},
	cli.StringFlag{
		Name:  "out, o",
		Usage: "image filename (.ppm or .png)",
	},
}

// loadConfig reads the --config file, or the defaults, and applies the
// flags set on the command line
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := ctx.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	if ctx.IsSet("scene") {
		cfg.Scene = ctx.String("scene")
	}
	if ctx.IsSet("width") {
		cfg.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		cfg.Height = ctx.Int("height")
	}
	if ctx.IsSet("spp") {
		cfg.SamplesPerPixel = ctx.Uint64("spp")
	}
	if ctx.IsSet("refraction-index") {
		cfg.RefractionIndex = ctx.Float64("refraction-index")
	}
	if ctx.IsSet("sampler") {
		cfg.Sampler = ctx.String("sampler")
	}
	if ctx.IsSet("tracer") {
		cfg.Tracer = ctx.String("tracer")
	}
	if ctx.IsSet("storage") {
		cfg.Storage.Kind = ctx.String("storage")
	}
	if ctx.IsSet("workers") {
		cfg.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("seed") {
		cfg.Seed = ctx.Uint64("seed")
	}
	if ctx.IsSet("jitter") {
		cfg.Jitter = ctx.Bool("jitter")
	}
	if ctx.IsSet("out") {
		cfg.Output = ctx.String("out")
	}

	return cfg, cfg.Validate()
}
