// Package trace implements the append-only JSONL audit trail of a resolution run.
package trace

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// EventType enumerates all trace event types.
type EventType string

const (
	EventResolveStart     EventType = "resolve_start"
	EventVariableResolved EventType = "variable_resolved"
	EventGuardEvaluated   EventType = "guard_evaluated"
	EventGuardFailed      EventType = "guard_failed"
	EventDuplicateKey     EventType = "duplicate_key"
	EventResolveComplete  EventType = "resolve_complete"
	EventReplaySaved      EventType = "replay_saved"
	EventReplayLoaded     EventType = "replay_loaded"
)

// Source records how a variable got its value.
type Source string

const (
	SourcePrivate  Source = "private"  // copied verbatim
	SourceRendered Source = "rendered" // default rendered, no prompt
	SourcePrompt   Source = "prompt"   // operator answered
)

// Event is a single trace event written to the JSONL stream.
type Event struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	RunID     string         `json:"run_id"`
	Data      map[string]any `json:"data,omitempty"`
}

// Writer writes trace events to an append-only JSONL stream.
// A nil *Writer discards everything, so callers never need to check.
type Writer struct {
	mu    sync.Mutex
	w     io.Writer
	runID string
	enc   *json.Encoder
}

// NewRunID returns a sortable run identifier: a timestamp plus a random suffix.
func NewRunID() string {
	suffix := make([]byte, 4)
	rand.Read(suffix)
	return fmt.Sprintf("%s-%x", time.Now().Format("20060102T150405"), suffix)
}

// NewWriter creates a trace writer that writes to the given io.Writer.
func NewWriter(w io.Writer, runID string) *Writer {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Writer{
		w:     w,
		runID: runID,
		enc:   enc,
	}
}

// NewFileWriter creates a trace writer that appends to a JSONL file.
func NewFileWriter(path, runID string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	return NewWriter(f, runID), nil
}

// Close closes the underlying stream when it is closable.
func (tw *Writer) Close() error {
	if tw == nil {
		return nil
	}
	if c, ok := tw.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// RunID returns the run identifier stamped on every event.
func (tw *Writer) RunID() string {
	if tw == nil {
		return ""
	}
	return tw.runID
}

// Emit writes a single trace event.
func (tw *Writer) Emit(eventType EventType, data map[string]any) error {
	if tw == nil {
		return nil
	}
	tw.mu.Lock()
	defer tw.mu.Unlock()

	evt := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		RunID:     tw.runID,
		Data:      data,
	}
	return tw.enc.Encode(evt)
}

// EmitResolveStart emits a resolve_start event.
func (tw *Writer) EmitResolveStart(variables int, interactive bool) error {
	return tw.Emit(EventResolveStart, map[string]any{
		"variables":   variables,
		"interactive": interactive,
	})
}

// EmitVariableResolved emits a variable_resolved event.
func (tw *Writer) EmitVariableResolved(name string, pass int, kind string, source Source) error {
	return tw.Emit(EventVariableResolved, map[string]any{
		"name":   name,
		"pass":   pass,
		"kind":   kind,
		"source": string(source),
	})
}

// EmitGuardEvaluated emits a guard_evaluated event.
func (tw *Writer) EmitGuardEvaluated(key, expr string, present bool) error {
	return tw.Emit(EventGuardEvaluated, map[string]any{
		"key":     key,
		"guard":   expr,
		"present": present,
	})
}

// EmitGuardFailed emits a guard_failed event. The variable is treated as not
// presented; the event keeps the failure visible.
func (tw *Writer) EmitGuardFailed(key, expr string, cause error) error {
	return tw.Emit(EventGuardFailed, map[string]any{
		"key":   key,
		"guard": expr,
		"error": cause.Error(),
	})
}

// EmitDuplicateKey emits a duplicate_key event when a later definition maps
// to an already resolved name.
func (tw *Writer) EmitDuplicateKey(key, name string) error {
	return tw.Emit(EventDuplicateKey, map[string]any{
		"key":  key,
		"name": name,
	})
}

// EmitResolveComplete emits a resolve_complete event.
func (tw *Writer) EmitResolveComplete(resolved, guardFailures int, duration time.Duration) error {
	return tw.Emit(EventResolveComplete, map[string]any{
		"resolved":       resolved,
		"guard_failures": guardFailures,
		"duration":       duration.String(),
	})
}

// EmitReplaySaved emits a replay_saved event.
func (tw *Writer) EmitReplaySaved(template, path string) error {
	return tw.Emit(EventReplaySaved, map[string]any{
		"template": template,
		"path":     path,
	})
}

// EmitReplayLoaded emits a replay_loaded event.
func (tw *Writer) EmitReplayLoaded(template, path string) error {
	return tw.Emit(EventReplayLoaded, map[string]any{
		"template": template,
		"path":     path,
	})
}

// ReadAll decodes every event of a JSONL trace stream.
func ReadAll(r io.Reader) ([]Event, error) {
	dec := json.NewDecoder(r)
	var events []Event
	for {
		var evt Event
		if err := dec.Decode(&evt); err != nil {
			if errors.Is(err, io.EOF) {
				return events, nil
			}
			return events, fmt.Errorf("decode trace event %d: %w", len(events)+1, err)
		}
		events = append(events, evt)
	}
}
