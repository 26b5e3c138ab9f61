package renderer

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/df07/go-smallpaint/pkg/core"
	"github.com/df07/go-smallpaint/pkg/integrator"
	"github.com/df07/go-smallpaint/pkg/log"
	"github.com/df07/go-smallpaint/pkg/scene"
)

// Status is the lifecycle state of a Renderer
type Status int

const (
	Blank Status = iota
	Running
	Paused
	Stopped
	Completed
	Errored
)

func (s Status) String() string {
	switch s {
	case Blank:
		return "blank"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	case Completed:
		return "completed"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// terminal reports whether no further passes can run
func (s Status) terminal() bool {
	return s == Stopped || s == Completed || s == Errored
}

// Config contains the scheduling options of a Renderer
type Config struct {
	NumWorkers  int    // Number of parallel workers (0 = use CPU count)
	RowsPerTask int    // Image rows traced by one worker task
	Jitter      bool   // Offset each camera sample randomly within its pixel
	Seed        uint64 // Base seed of the per-task random sources

	// OnPass is called from the render goroutine after each merged pass
	// with the new sample count. It must not call Render.
	OnPass func(sample uint64)
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		NumWorkers:  0, // Auto-detect CPU count
		RowsPerTask: 8,
		Jitter:      false,
		Seed:        0,
	}
}

// Renderer accumulates whole-image passes until the target sample count is
// reached. Workers only compute pass results; the accumulation buffer, the
// sample counter and the status change under mu.
type Renderer struct {
	width, height int
	params        core.RenderParams
	config        Config
	logger        log.Logger

	mu            sync.Mutex
	status        Status
	wake          chan struct{} // Closed and replaced on every status change
	accumulation  []core.Vec3
	currentSample uint64
	passTimes     []time.Duration
}

// New creates a blank renderer. A nil logger selects the package logger.
func New(width, height int, params core.RenderParams, config Config, logger log.Logger) *Renderer {
	if config.RowsPerTask <= 0 {
		config.RowsPerTask = DefaultConfig().RowsPerTask
	}
	if logger == nil {
		logger = log.New("renderer")
	}

	return &Renderer{
		width:        width,
		height:       height,
		params:       params,
		config:       config,
		logger:       logger,
		status:       Blank,
		wake:         make(chan struct{}),
		accumulation: make([]core.Vec3, width*height),
	}
}

// setStatus changes the status and wakes a paused render loop. mu must be held.
func (r *Renderer) setStatus(status Status) {
	if r.status == status {
		return
	}
	r.logger.Infof("%s -> %s", r.status, status)
	r.status = status
	close(r.wake)
	r.wake = make(chan struct{})
}

// transition moves to the target status if the current one is in from
func (r *Renderer) transition(to Status, from ...Status) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range from {
		if r.status == s {
			r.setStatus(to)
			return
		}
	}
}

// Start arms a blank renderer. It is a no-op in any other status.
func (r *Renderer) Start() {
	r.transition(Running, Blank)
}

// Pause suspends a running render at the next pass boundary
func (r *Renderer) Pause() {
	r.transition(Paused, Running)
}

// Resume continues a paused render
func (r *Renderer) Resume() {
	r.transition(Running, Paused)
}

// Stop ends a running or paused render at the next pass boundary.
// Samples merged so far are kept.
func (r *Renderer) Stop() {
	r.transition(Stopped, Running, Paused)
}

// Status returns the current lifecycle state
func (r *Renderer) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Dimensions returns the image width and height
func (r *Renderer) Dimensions() (int, int) {
	return r.width, r.height
}

// Params returns the render parameters
func (r *Renderer) Params() core.RenderParams {
	return r.params
}

// CurrentSample returns the number of passes merged so far
func (r *Renderer) CurrentSample() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentSample
}

// Accumulation returns a copy of the per-pixel radiance sums and the number
// of samples in each
func (r *Renderer) Accumulation() ([]core.Vec3, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]core.Vec3, len(r.accumulation))
	copy(out, r.accumulation)
	return out, r.currentSample
}

// Image returns the per-pixel mean radiance in row-major order. Every pixel
// is zero before the first pass is merged.
func (r *Renderer) Image() []core.Vec3 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.image()
}

func (r *Renderer) image() []core.Vec3 {
	out := make([]core.Vec3, len(r.accumulation))
	if r.currentSample == 0 {
		return out
	}
	scale := 1.0 / float64(r.currentSample)
	for i, sum := range r.accumulation {
		out[i] = sum.Multiply(scale)
	}
	return out
}

// Stats returns statistics of the passes merged so far
func (r *Renderer) Stats() RenderStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return newRenderStats(r.width, r.height, r.image(), r.currentSample, r.params.SamplesPerPixel, r.passTimes)
}

// Render traces passes until the target sample count is reached or the
// renderer is stopped. Cancelling ctx stops the renderer and returns the
// context error. The scene must not change while Render runs, and Render
// must not be called concurrently on the same renderer.
func (r *Renderer) Render(ctx context.Context, tracer integrator.Tracer, camera Camera, s *scene.Scene) error {
	switch status := r.Status(); {
	case status == Blank:
		return ErrBlank
	case status.terminal():
		return ErrFinished
	}
	if !s.Ready() {
		return ErrSceneNotReady
	}

	tasks := r.tasks()
	pool := NewWorkerPool(r.config.NumWorkers, len(tasks), r.traceTask(ctx, tracer, camera, s))
	pool.Start()
	defer pool.Stop()

	r.logger.Infof("rendering %dx%d at %d samples per pixel with %d workers",
		r.width, r.height, r.params.SamplesPerPixel, pool.GetNumWorkers())

	for {
		status, err := r.awaitRunnable(ctx)
		if status.terminal() {
			return nil
		}
		if err != nil {
			r.Stop()
			r.logger.Noticef("render cancelled after %d samples", r.CurrentSample())
			return err
		}

		passStart := time.Now()
		colors, err := r.runPass(pool, tasks, r.CurrentSample())
		if err != nil {
			if ctx.Err() != nil {
				// The cancelled pass is incomplete and is discarded
				continue
			}
			r.fail(err)
			return err
		}

		sample, done := r.merge(colors, time.Since(passStart))
		if sample > 0 && r.config.OnPass != nil {
			r.config.OnPass(sample)
		}
		if done {
			return nil
		}
	}
}

// awaitRunnable blocks while the renderer is paused
func (r *Renderer) awaitRunnable(ctx context.Context) (Status, error) {
	for {
		r.mu.Lock()
		status, wake := r.status, r.wake
		r.mu.Unlock()

		if status != Paused {
			return status, ctx.Err()
		}

		select {
		case <-wake:
		case <-ctx.Done():
			return status, ctx.Err()
		}
	}
}

// tasks splits the image into bands of whole rows
func (r *Renderer) tasks() []PassTask {
	var tasks []PassTask
	for row := 0; row < r.height; row += r.config.RowsPerTask {
		rows := min(r.config.RowsPerTask, r.height-row)
		tasks = append(tasks, PassTask{
			TaskID: len(tasks),
			First:  row * r.width,
			Count:  rows * r.width,
		})
	}
	return tasks
}

// traceTask returns the worker function tracing one sample for every pixel
// of a task. Each task draws from its own random source seeded from the
// pass number and the task position.
func (r *Renderer) traceTask(ctx context.Context, tracer integrator.Tracer, camera Camera, s *scene.Scene) traceFunc {
	return func(task PassTask) ([]core.Vec3, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		random := core.NewRandom(r.config.Seed + (task.Pass<<32 | uint64(task.First)) + 42)
		colors := make([]core.Vec3, task.Count)
		for i := range colors {
			index := task.First + i
			x, y := float64(index%r.width), float64(index/r.width)
			if r.config.Jitter {
				x += random.Float64()
				y += random.Float64()
			}

			ray := core.NewRay(core.Vec3{}, camera.Direction(x, y).Normalize())
			colors[i] = tracer.Trace(ray, s, r.params, 0, random)
		}
		return colors, nil
	}
}

// runPass traces one sample per pixel and returns the results in pixel order
func (r *Renderer) runPass(pool *WorkerPool, tasks []PassTask, pass uint64) ([]core.Vec3, error) {
	for _, task := range tasks {
		task.Pass = pass
		pool.SubmitTask(task)
	}

	// Join barrier: every task reports back before the pass is merged
	results := make([]PassResult, 0, len(tasks))
	var firstErr error
	for range tasks {
		result, _ := pool.GetResult()
		if result.Error != nil && firstErr == nil {
			firstErr = result.Error
		}
		results = append(results, result)
	}
	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].First < results[j].First
	})

	colors := make([]core.Vec3, 0, r.width*r.height)
	for _, result := range results {
		colors = append(colors, result.Colors...)
	}
	return colors, nil
}

// merge adds a pass to the accumulation if the renderer is still running.
// It returns the new sample count, zero when the pass was discarded, and
// whether the render is finished.
func (r *Renderer) merge(colors []core.Vec3, elapsed time.Duration) (uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != Running {
		return 0, r.status.terminal()
	}

	for i, c := range colors {
		r.accumulation[i] = r.accumulation[i].Add(c)
	}
	r.currentSample++
	r.passTimes = append(r.passTimes, elapsed)
	r.logger.Debugf("Pass %d completed in %v", r.currentSample, elapsed)

	if r.currentSample >= r.params.SamplesPerPixel {
		r.setStatus(Completed)
		r.logger.Infof("render completed with %d samples per pixel", r.currentSample)
		return r.currentSample, true
	}
	return r.currentSample, false
}

// fail moves the renderer to Errored. Merged samples are kept.
func (r *Renderer) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Errorf("render failed after %d samples: %v", r.currentSample, err)
	r.setStatus(Errored)
}
