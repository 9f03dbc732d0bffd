package trace

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriter_Emit(t *testing.T) {
	var buf bytes.Buffer
	tw := NewWriter(&buf, "run-1")

	if err := tw.EmitVariableResolved("project_name", 1, "string", SourceRendered); err != nil {
		t.Fatalf("Emit error: %v", err)
	}

	var evt Event
	if err := json.Unmarshal(buf.Bytes(), &evt); err != nil {
		t.Fatalf("JSON unmarshal: %v (raw: %s)", err, buf.String())
	}
	if evt.Type != EventVariableResolved {
		t.Errorf("type = %q, want variable_resolved", evt.Type)
	}
	if evt.RunID != "run-1" {
		t.Errorf("run_id = %q", evt.RunID)
	}
	if evt.Data["name"] != "project_name" || evt.Data["source"] != "rendered" {
		t.Errorf("data = %v", evt.Data)
	}
}

func TestWriter_GuardFailedKeepsCause(t *testing.T) {
	var buf bytes.Buffer
	tw := NewWriter(&buf, "run-1")

	if err := tw.EmitGuardFailed("db?engine == 'pg'", "engine == 'pg'", errors.New("unknown name engine")); err != nil {
		t.Fatal(err)
	}
	var evt Event
	json.Unmarshal(buf.Bytes(), &evt)
	if evt.Type != EventGuardFailed {
		t.Errorf("type = %q", evt.Type)
	}
	if evt.Data["error"] != "unknown name engine" {
		t.Errorf("error = %v", evt.Data["error"])
	}
}

func TestWriter_MultipleEvents_JSONL(t *testing.T) {
	var buf bytes.Buffer
	tw := NewWriter(&buf, "run-1")

	tw.EmitResolveStart(3, false)
	tw.EmitGuardEvaluated("flag?x==1", "x==1", true)
	tw.EmitResolveComplete(3, 0, 5*time.Millisecond)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 JSONL lines, got %d", len(lines))
	}

	events, err := ReadAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	want := []EventType{EventResolveStart, EventGuardEvaluated, EventResolveComplete}
	for i, evt := range events {
		if evt.Type != want[i] {
			t.Errorf("event %d = %q, want %q", i, evt.Type, want[i])
		}
	}
}

func TestWriter_NilDiscards(t *testing.T) {
	var tw *Writer
	if err := tw.EmitReplaySaved("proj", "/tmp/proj.json"); err != nil {
		t.Errorf("nil writer should discard, got %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Error(err)
	}
	if tw.RunID() != "" {
		t.Error("nil writer has no run id")
	}
}

func TestNewFileWriter_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.jsonl")

	for _, run := range []string{"a", "b"} {
		tw, err := NewFileWriter(path, run)
		if err != nil {
			t.Fatal(err)
		}
		tw.EmitReplayLoaded("proj", "/replay/proj.json")
		if err := tw.Close(); err != nil {
			t.Fatal(err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	events, err := ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].RunID != "a" || events[1].RunID != "b" {
		t.Errorf("events = %+v", events)
	}
}

func TestReadAll_Malformed(t *testing.T) {
	_, err := ReadAll(strings.NewReader("{\"type\":\"resolve_start\"}\nnot json\n"))
	if err == nil {
		t.Fatal("expected decode error")
	}
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if len(a) != len("20060102T150405-")+8 {
		t.Errorf("run id %q has unexpected length", a)
	}
	if a == b {
		t.Errorf("run ids should differ, both %q", a)
	}
}
