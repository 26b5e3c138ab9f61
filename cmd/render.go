package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/df07/go-smallpaint/pkg/renderer"
	"github.com/df07/go-smallpaint/pkg/writer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"
)

// Render a sample scene to an image file. An interrupt stops the render
// after the current pass and the samples merged so far are written.
func Render(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	sc, err := cfg.BuildScene()
	if err != nil {
		return err
	}
	tracer, err := cfg.NewTracer()
	if err != nil {
		return err
	}

	rc := cfg.RendererConfig()
	rc.OnPass = func(sample uint64) {
		logger.Infof("pass %d/%d", sample, cfg.SamplesPerPixel)
	}
	r := renderer.New(cfg.Width, cfg.Height, cfg.RenderParams(), rc, nil)
	r.Start()

	logger.Noticef("rendering %q (%dx%d, %d spp, %s storage)", cfg.Scene, cfg.Width, cfg.Height, cfg.SamplesPerPixel, sc.Kind())

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderDone := make(chan struct{})
	g, gctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		defer close(renderDone)
		return r.Render(gctx, tracer, renderer.NewSimpleCamera(cfg.Width, cfg.Height), sc)
	})
	g.Go(func() error {
		select {
		case <-sigCtx.Done():
			logger.Notice("interrupted, stopping after the current pass")
			r.Stop()
		case <-renderDone:
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	accumulation, samples := r.Accumulation()
	err = writer.Save(cfg.Output, writer.Image{
		Width:        cfg.Width,
		Height:       cfg.Height,
		Accumulation: accumulation,
		Samples:      samples,
	})
	if err != nil {
		return err
	}
	logger.Noticef("wrote %s", cfg.Output)

	displayRenderStats(r.Status(), r.Stats())
	return nil
}

func displayRenderStats(status renderer.Status, stats renderer.RenderStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.AppendBulk([][]string{
		{"Status", status.String()},
		{"Resolution", fmt.Sprintf("%dx%d", stats.Width, stats.Height)},
		{"Samples per pixel", fmt.Sprintf("%d / %d", stats.SamplesPerPixel, stats.TargetSamples)},
		{"Pass time", fmt.Sprintf("%s ± %s", stats.MeanPassTime, stats.StdDevPassTime)},
		{"Mean luminance", fmt.Sprintf("%.4f", stats.MeanLuminance)},
		{"Luminance std dev", fmt.Sprintf("%.4f", stats.StdDevLuminance)},
		{"Max luminance", fmt.Sprintf("%.4f", stats.MaxLuminance)},
		{"Non-finite pixels", fmt.Sprintf("%d", stats.NonFinitePixels)},
	})
	table.SetFooter([]string{"TOTAL", stats.Elapsed.String()})

	table.Render()
	logger.Noticef("render statistics\n%s", buf.String())
}
