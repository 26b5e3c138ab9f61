package renderer

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/df07/go-smallpaint/pkg/core"
)

// PassTask is a contiguous band of whole rows traced during one pass
type PassTask struct {
	TaskID int
	Pass   uint64
	First  int // Linear index of the first pixel
	Count  int
}

// PassResult holds the radiance of every pixel of a task, tagged with the
// linear index of its first pixel so results can be ordered after the pass
type PassResult struct {
	TaskID int
	First  int
	Colors []core.Vec3
	Error  error
}

// traceFunc traces every pixel of a task
type traceFunc func(task PassTask) ([]core.Vec3, error)

// WorkerPool manages parallel tracing of pass tasks
type WorkerPool struct {
	taskQueue   chan PassTask
	resultQueue chan PassResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual pass tasks
type Worker struct {
	ID          int
	trace       traceFunc
	taskQueue   chan PassTask
	resultQueue chan PassResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// maxTasks bounds the number of tasks in flight for a single pass.
func NewWorkerPool(numWorkers, maxTasks int, trace traceFunc) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan PassTask, maxTasks),   // Buffer for every task of a pass
		resultQueue: make(chan PassResult, maxTasks), // Buffer for every result of a pass
		numWorkers:  numWorkers,
	}

	// Create workers
	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:          i,
			trace:       trace,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		}
		wp.workers = append(wp.workers, worker)
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a pass task to the worker pool
func (wp *WorkerPool) SubmitTask(task PassTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed task result
func (wp *WorkerPool) GetResult() (PassResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		w.resultQueue <- w.process(task)
	}
}

// process traces one task. A panic fails the task instead of the process.
func (w *Worker) process(task PassTask) (result PassResult) {
	result = PassResult{TaskID: task.TaskID, First: task.First}

	defer func() {
		if r := recover(); r != nil {
			result.Colors = nil
			result.Error = fmt.Errorf("%w: worker %d, task %d: %v", ErrWorkerFailed, w.ID, task.TaskID, r)
		}
	}()

	result.Colors, result.Error = w.trace(task)
	return result
}
