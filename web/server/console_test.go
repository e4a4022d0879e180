package server

import (
	"encoding/json"
	"testing"
	"time"
)

func TestConsoleLogger_Printf(t *testing.T) {
	lines := make(chan ConsoleLine, 10)
	logger := NewConsoleLogger("render-1", lines)

	logger.Printf("Rendered sample %d/%d\n", 3, 200)

	select {
	case line := <-lines:
		if line.Text != "Rendered sample 3/200" {
			t.Errorf("Expected trimmed text 'Rendered sample 3/200', got %q", line.Text)
		}
		if line.RenderID != "render-1" {
			t.Errorf("Expected render ID 'render-1', got %q", line.RenderID)
		}
		if line.Dropped != 0 {
			t.Errorf("Expected no dropped lines, got %d", line.Dropped)
		}
		if time.Since(line.Time) > time.Second {
			t.Errorf("Timestamp seems too old: %v", line.Time)
		}
	default:
		t.Fatal("Expected a console line to be queued")
	}
}

func TestConsoleLogger_KeepsOrder(t *testing.T) {
	lines := make(chan ConsoleLine, 10)
	logger := NewConsoleLogger("render-2", lines)

	want := []string{"Starting", "Rendered sample 1/2", "Rendered sample 2/2", "Rendering complete"}
	for _, text := range want {
		logger.Printf("%s\n", text)
	}

	for i, expected := range want {
		select {
		case line := <-lines:
			if line.Text != expected {
				t.Errorf("Line %d: expected %q, got %q", i, expected, line.Text)
			}
		default:
			t.Fatalf("Expected %d lines, got %d", len(want), i)
		}
	}
}

func TestConsoleLogger_CountsDroppedLines(t *testing.T) {
	lines := make(chan ConsoleLine, 1)
	logger := NewConsoleLogger("render-3", lines)

	// The first line fills the channel; the next two must not block
	logger.Printf("line 1\n")
	logger.Printf("line 2\n")
	logger.Printf("line 3\n")

	if first := <-lines; first.Text != "line 1" || first.Dropped != 0 {
		t.Errorf("Expected 'line 1' with nothing dropped, got %+v", first)
	}

	logger.Printf("line 4\n")
	next := <-lines
	if next.Text != "line 4" {
		t.Errorf("Expected 'line 4', got %q", next.Text)
	}
	if next.Dropped != 2 {
		t.Errorf("Expected 2 dropped lines reported, got %d", next.Dropped)
	}

	logger.Printf("line 5\n")
	if after := <-lines; after.Dropped != 0 {
		t.Errorf("Expected the drop count to reset after delivery, got %d", after.Dropped)
	}
}

func TestConsoleLogger_NilChannel(t *testing.T) {
	NewConsoleLogger("render-nil", nil).Printf("logged to glog only\n")
}

func TestConsoleLine_JSON(t *testing.T) {
	tests := []struct {
		name     string
		line     ConsoleLine
		expected string
	}{
		{
			"nothing dropped",
			ConsoleLine{RenderID: "r", Text: "Rendering complete", Time: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
			`{"renderId":"r","text":"Rendering complete","time":"2024-05-01T12:00:00Z"}`,
		},
		{
			"dropped lines",
			ConsoleLine{RenderID: "r", Text: "Rendered sample 9/10", Time: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), Dropped: 4},
			`{"renderId":"r","text":"Rendered sample 9/10","time":"2024-05-01T12:00:00Z","dropped":4}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.line)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if string(data) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, data)
			}
		})
	}
}
