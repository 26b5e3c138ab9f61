package renderer

import (
	"time"

	"github.com/df07/go-smallpaint/pkg/core"
	"gonum.org/v1/gonum/stat"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width, Height   int
	Passes          int           // Passes merged into the image
	SamplesPerPixel uint64        // Samples accumulated per pixel
	TargetSamples   uint64        // Samples per pixel requested
	Elapsed         time.Duration // Sum of merged pass durations
	MeanPassTime    time.Duration
	StdDevPassTime  time.Duration
	MeanLuminance   float64 // Over the per-pixel means
	StdDevLuminance float64
	MaxLuminance    float64
	NonFinitePixels int // Pixels whose mean is NaN or infinite
}

// newRenderStats computes statistics from the per-pixel means and the
// durations of the merged passes
func newRenderStats(width, height int, image []core.Vec3, samples, target uint64, passTimes []time.Duration) RenderStats {
	stats := RenderStats{
		Width:           width,
		Height:          height,
		Passes:          len(passTimes),
		SamplesPerPixel: samples,
		TargetSamples:   target,
	}

	if len(passTimes) > 0 {
		seconds := make([]float64, len(passTimes))
		for i, d := range passTimes {
			stats.Elapsed += d
			seconds[i] = d.Seconds()
		}
		mean, std := stat.MeanStdDev(seconds, nil)
		if len(seconds) == 1 {
			std = 0
		}
		stats.MeanPassTime = time.Duration(mean * float64(time.Second))
		stats.StdDevPassTime = time.Duration(std * float64(time.Second))
	}

	luminance := make([]float64, 0, len(image))
	for _, pixel := range image {
		if !pixel.IsFinite() {
			stats.NonFinitePixels++
			continue
		}
		l := pixel.Luminance()
		luminance = append(luminance, l)
		if l > stats.MaxLuminance {
			stats.MaxLuminance = l
		}
	}
	if len(luminance) > 0 {
		stats.MeanLuminance = stat.Mean(luminance, nil)
	}
	if len(luminance) > 1 {
		stats.StdDevLuminance = stat.StdDev(luminance, nil)
	}

	return stats
}
