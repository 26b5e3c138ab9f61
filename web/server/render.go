package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/df07/go-smallpaint/pkg/renderer"
	"github.com/df07/go-smallpaint/pkg/writer"
)

// ProgressUpdate represents a single progressive update sent via SSE
type ProgressUpdate struct {
	Sample       uint64 `json:"sample"`
	TotalSamples uint64 `json:"totalSamples"`
	ImageData    string `json:"imageData"` // Base64 encoded PNG
	ElapsedMs    int64  `json:"elapsedMs"`
}

// CompleteUpdate is the final event of a render
type CompleteUpdate struct {
	Status          string  `json:"status"`
	Samples         uint64  `json:"samples"`
	ElapsedMs       int64   `json:"elapsedMs"`
	MeanLuminance   float64 `json:"meanLuminance"`
	StdDevLuminance float64 `json:"stdDevLuminance"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "progress", "error", "complete"
	Data string `json:"data"`
}

// sseStream funnels events from the render goroutine to the single writer
type sseStream struct {
	ctx    context.Context
	events chan SSEEvent
	done   chan struct{} // Closed when the writer exits
}

// emit queues an event unless the client or the writer is gone
func (st *sseStream) emit(eventType, data string) {
	select {
	case st.events <- SSEEvent{Type: eventType, Data: data}:
	case <-st.ctx.Done():
	case <-st.done:
	}
}

// emitJSON queues a JSON-encoded event
func (st *sseStream) emitJSON(eventType string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	st.emit(eventType, string(data))
	return nil
}

// handleRender runs a progressive render and streams every merged pass as
// a PNG over SSE. The render stops when the client disconnects.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	cfg, err := s.parseRequestConfig(r.URL.Query())
	if err != nil {
		s.sendSSEEvent(w, "error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	ctx := r.Context()
	stream := &sseStream{
		ctx:    ctx,
		events: make(chan SSEEvent, 100),
		done:   make(chan struct{}),
	}
	consoleChan := make(chan ConsoleMessage, 50)
	go func() {
		defer close(stream.done)
		s.writeSSEEvents(ctx, w, stream.events, consoleChan)
	}()
	defer func() {
		close(stream.events)
		<-stream.done
	}()

	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, s.logger, consoleChan)

	sc, err := cfg.BuildScene()
	if err != nil {
		stream.emit("error", err.Error())
		return
	}
	tracer, err := cfg.NewTracer()
	if err != nil {
		stream.emit("error", err.Error())
		return
	}

	startTime := time.Now()
	var rend *renderer.Renderer
	rc := cfg.RendererConfig()
	rc.OnPass = func(sample uint64) {
		accumulation, samples := rend.Accumulation()
		imageData, err := imageToBase64PNG(writer.Image{
			Width:        cfg.Width,
			Height:       cfg.Height,
			Accumulation: accumulation,
			Samples:      samples,
		})
		if err != nil {
			webLogger.Errorf("encoding pass %d: %v", sample, err)
			return
		}
		stream.emitJSON("progress", ProgressUpdate{
			Sample:       sample,
			TotalSamples: cfg.SamplesPerPixel,
			ImageData:    imageData,
			ElapsedMs:    time.Since(startTime).Milliseconds(),
		})
	}
	rend = renderer.New(cfg.Width, cfg.Height, cfg.RenderParams(), rc, webLogger)
	rend.Start()

	webLogger.Noticef("rendering %s at %dx%d", cfg.Scene, cfg.Width, cfg.Height)
	if err := rend.Render(ctx, tracer, renderer.NewSimpleCamera(cfg.Width, cfg.Height), sc); err != nil {
		if ctx.Err() != nil {
			// Client disconnected
			return
		}
		stream.emit("error", fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	stats := rend.Stats()
	stream.emitJSON("complete", CompleteUpdate{
		Status:          rend.Status().String(),
		Samples:         stats.SamplesPerPixel,
		ElapsedMs:       time.Since(startTime).Milliseconds(),
		MeanLuminance:   stats.MeanLuminance,
		StdDevLuminance: stats.StdDevLuminance,
	})
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents handles writing all SSE events in a single goroutine until
// the event channel is closed or the client disconnects
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, events <-chan SSEEvent, console <-chan ConsoleMessage) {
	for {
		select {
		case event, ok := <-events:
			if !ok {
				// Channel closed
				return
			}
			if err := s.sendSSEEvent(w, event.Type, event.Data); err != nil {
				return
			}

		case msg := <-console:
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if err := s.sendSSEEvent(w, "console", string(data)); err != nil {
				return
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming not supported")
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// imageToBase64PNG converts an accumulation buffer to base64-encoded PNG
func imageToBase64PNG(img writer.Image) (string, error) {
	var buf bytes.Buffer
	if err := writer.WritePNG(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
