package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-flat-raytracer/pkg/core"
	"github.com/df07/go-flat-raytracer/pkg/output"
	"github.com/df07/go-flat-raytracer/pkg/renderer"
)

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "progress", "complete", "error"
	Data string `json:"data"` // JSON-encoded data
}

// ProgressUpdate reports completed rows during a streamed render
type ProgressUpdate struct {
	RowsDone  int   `json:"rowsDone"`
	TotalRows int   `json:"totalRows"`
	Percent   int   `json:"percent"`
	ElapsedMs int64 `json:"elapsedMs"`
}

// CompleteUpdate carries the finished image and its statistics
type CompleteUpdate struct {
	ImageData      string  `json:"imageData"` // Base64 encoded PNG
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	ElapsedMs      int64   `json:"elapsedMs"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	HitRatio       float64 `json:"hitRatio"`
	NumWorkers     int     `json:"numWorkers"`
	PrimitiveCount int     `json:"primitiveCount"`
}

// handleRenderStream renders a scene while streaming console output and row progress via SSE
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	consoleChan, webLogger := s.setupConsoleLogging()
	rt, status, err := s.newRaytracer(req, webLogger)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	s.setSSEHeaders(w)
	ctx := r.Context()

	// Single writer goroutine owns the response from here on
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(ctx, w, sseEventChan)
	}()

	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	startTime := time.Now()
	lastPercent := -1
	buf, stats, renderErr := rt.Render(ctx, func(rowsDone, totalRows int) {
		percent := 100 * rowsDone / totalRows
		if percent == lastPercent {
			return
		}
		lastPercent = percent
		s.sendEvent(ctx, sseEventChan, "progress", ProgressUpdate{
			RowsDone:  rowsDone,
			TotalRows: totalRows,
			Percent:   percent,
			ElapsedMs: time.Since(startTime).Milliseconds(),
		})
	})

	// The raytracer is done logging; drain the console before the final event
	close(consoleChan)
	<-consoleDone

	if renderErr != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", renderErr))
	} else {
		s.handleComplete(ctx, sseEventChan, buf, stats, rt)
	}

	close(sseEventChan)
	<-writerDone
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	return consoleChan, NewWebLogger(renderID, consoleChan)
}

// writeSSEEvents handles writing all SSE events in a single goroutine
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	flusher, _ := w.(http.Flusher)
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher != nil {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// streamConsoleMessages forwards console messages until consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for {
		select {
		case consoleMsg, ok := <-consoleChan:
			if !ok {
				return
			}
			s.sendEvent(ctx, sseEventChan, "console", consoleMsg)

		case <-ctx.Done():
			return
		}
	}
}

// sendEvent marshals data and queues it, giving up if the client has gone
func (s *Server) sendEvent(ctx context.Context, sseEventChan chan<- SSEEvent, eventType string, data interface{}) {
	encoded, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", eventType, err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: eventType, Data: string(encoded)}:
	case <-ctx.Done():
	}
}

// handleComplete encodes the finished image and sends the completion event
func (s *Server) handleComplete(ctx context.Context, sseEventChan chan<- SSEEvent, buf *renderer.PixelBuffer, stats renderer.RenderStats, rt *renderer.Raytracer) {
	data, err := output.EncodeBytes(buf.ToImage(), output.PNG)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Failed to encode image: %v", err))
		return
	}

	s.sendEvent(ctx, sseEventChan, "complete", CompleteUpdate{
		ImageData:      base64.StdEncoding.EncodeToString(data),
		Width:          buf.Width,
		Height:         buf.Height,
		ElapsedMs:      stats.Elapsed.Milliseconds(),
		TotalSamples:   stats.TotalSamples,
		AverageSamples: stats.AverageSamples(),
		HitRatio:       stats.HitRatio(),
		NumWorkers:     stats.NumWorkers,
		PrimitiveCount: rt.Scene().GetPrimitiveCount(),
	})
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan<- SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
