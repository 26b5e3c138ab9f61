package server

import (
	"fmt"
	"time"

	"github.com/df07/go-smallpaint/pkg/log"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "notice", "warning", "error"
}

// WebLogger forwards every message to the server log and to a render's
// console channel
type WebLogger struct {
	renderID    string
	next        log.Logger
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a new web logger for a specific render
func NewWebLogger(renderID string, next log.Logger, consoleChan chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{
		renderID:    renderID,
		next:        next,
		consoleChan: consoleChan,
	}
}

// send delivers a message to the web console without blocking
func (wl *WebLogger) send(level, message string) {
	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		Message:   message,
		Timestamp: time.Now(),
		Level:     level,
	}:
	default:
		// Channel full, skip (don't block)
	}
}

func (wl *WebLogger) Debug(v ...interface{}) {
	wl.next.Debug(append([]interface{}{wl.renderID + ": "}, v...)...)
	wl.send("debug", fmt.Sprint(v...))
}

func (wl *WebLogger) Debugf(format string, v ...interface{}) {
	wl.next.Debugf(wl.renderID+": "+format, v...)
	wl.send("debug", fmt.Sprintf(format, v...))
}

func (wl *WebLogger) Info(v ...interface{}) {
	wl.next.Info(append([]interface{}{wl.renderID + ": "}, v...)...)
	wl.send("info", fmt.Sprint(v...))
}

func (wl *WebLogger) Infof(format string, v ...interface{}) {
	wl.next.Infof(wl.renderID+": "+format, v...)
	wl.send("info", fmt.Sprintf(format, v...))
}

func (wl *WebLogger) Notice(v ...interface{}) {
	wl.next.Notice(append([]interface{}{wl.renderID + ": "}, v...)...)
	wl.send("notice", fmt.Sprint(v...))
}

func (wl *WebLogger) Noticef(format string, v ...interface{}) {
	wl.next.Noticef(wl.renderID+": "+format, v...)
	wl.send("notice", fmt.Sprintf(format, v...))
}

func (wl *WebLogger) Warning(v ...interface{}) {
	wl.next.Warning(append([]interface{}{wl.renderID + ": "}, v...)...)
	wl.send("warning", fmt.Sprint(v...))
}

func (wl *WebLogger) Warningf(format string, v ...interface{}) {
	wl.next.Warningf(wl.renderID+": "+format, v...)
	wl.send("warning", fmt.Sprintf(format, v...))
}

func (wl *WebLogger) Error(v ...interface{}) {
	wl.next.Error(append([]interface{}{wl.renderID + ": "}, v...)...)
	wl.send("error", fmt.Sprint(v...))
}

func (wl *WebLogger) Errorf(format string, v ...interface{}) {
	wl.next.Errorf(wl.renderID+": "+format, v...)
	wl.send("error", fmt.Sprintf(format, v...))
}
