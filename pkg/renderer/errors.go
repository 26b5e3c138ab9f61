package renderer

import "errors"

var (
	// ErrBlank is returned when Render is called before Start
	ErrBlank = errors.New("renderer: render requested before start")
	// ErrFinished is returned when Render is called after the renderer stopped, completed or failed
	ErrFinished = errors.New("renderer: render already finished")
	// ErrWorkerFailed wraps a failure inside a pass worker
	ErrWorkerFailed = errors.New("renderer: worker failed")
	// ErrSceneNotReady is returned when the scene storage has not been rebuilt since the last insert
	ErrSceneNotReady = errors.New("renderer: scene storage must be rebuilt before rendering")
)
