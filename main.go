package main

import (
	"fmt"
	"os"

	"github.com/df07/go-smallpaint/cmd"
	"github.com/urfave/cli"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	// The default version flag claims -v, which is the verbose flag here
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "smallpaint"
	app.Usage = "progressive path tracing of small analytic scenes"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a sample scene to an image file",
			Description: `
Trace whole-image passes until every pixel holds the requested number of
samples, then write the mean radiance as a PPM or PNG image.

Interrupting the command stops the render after the current pass; the
samples merged so far are still written.`,
			Flags:  cmd.ConfigFlags,
			Action: cmd.Render,
		},
		{
			Name:  "scenes",
			Usage: "list the bundled sample scenes and scene files",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "dir, d",
					Value: "scenes",
					Usage: "directory scanned for scene files",
				},
			},
			Action: cmd.ListScenes,
		},
		{
			Name:   "config",
			Usage:  "print the effective configuration as YAML",
			Flags:  cmd.ConfigFlags,
			Action: cmd.PrintConfig,
		},
		{
			Name:  "serve",
			Usage: "stream progressive renders over HTTP",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "port, p",
					Value: 8080,
					Usage: "port to listen on",
				},
			}, cmd.ConfigFlags...),
			Action: cmd.Serve,
		},
	}
	return app
}
