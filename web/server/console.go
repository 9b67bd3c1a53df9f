package server

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/df07/go-flat-raytracer/pkg/core"
)

// Console message levels
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// ConsoleMessage is one renderer log line forwarded to a streaming client
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
}

// WebLogger is a core.Logger that tags each line with its render and forwards it
// to the render's SSE console without ever blocking the render
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a logger for one render; a nil channel only echoes to the server log
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage) core.Logger {
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
	}
}

// Printf implements core.Logger
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	level := messageLevel(message)

	log.Printf("[%s] %s: %s", wl.renderID, level, strings.TrimRight(message, "\n"))

	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		RenderID:  wl.renderID,
		Message:   message,
		Timestamp: time.Now(),
		Level:     level,
	}:
	default:
		// Console full; drop rather than stall the workers
	}
}

// messageLevel classifies a renderer log line for the client console.
// Cancellation is a warning since the partial image is still delivered.
func messageLevel(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "error"), strings.Contains(lower, "failed"):
		return LevelError
	case strings.Contains(lower, "cancelled"), strings.Contains(lower, "warning"):
		return LevelWarning
	default:
		return LevelInfo
	}
}
