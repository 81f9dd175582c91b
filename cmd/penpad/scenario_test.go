package main

import (
	"errors"
	"testing"
	"time"

	"github.com/gogpu/penpad/lifecycle"
)

const sampleScenario = `
host: main
size: [200, 100]
steps:
  - event: resumed
  - wait: 20ms
  - stroke:
      style: marker
      color: "#ff0000"
      points: [[10, 50], [100, 50, 0.5], [190, 50]]
  - event: save
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(sampleScenario))
	if err != nil {
		t.Fatalf("ParseScenario() error = %v", err)
	}
	if sc.Host != "main" || sc.Size[0] != 200 || sc.Size[1] != 100 {
		t.Errorf("header = %q %v", sc.Host, sc.Size)
	}
	if len(sc.Steps) != 4 {
		t.Fatalf("len(Steps) = %d, want 4", len(sc.Steps))
	}
	if sc.Steps[1].Wait != 20*time.Millisecond {
		t.Errorf("Wait = %v, want 20ms", sc.Steps[1].Wait)
	}
	pts := sc.Steps[2].Stroke.points()
	if len(pts) != 3 || pts[0].Pressure != 1 || pts[1].Pressure != 0.5 {
		t.Errorf("points = %+v", pts)
	}
	if k, err := eventKind(sc.Steps[3].Event); err != nil || k != lifecycle.EventSaveState {
		t.Errorf("eventKind(save) = %v, %v", k, err)
	}
}

func TestParseScenarioDefaultsHost(t *testing.T) {
	sc, err := ParseScenario([]byte("size: [1, 1]"))
	if err != nil {
		t.Fatalf("ParseScenario() error = %v", err)
	}
	if sc.Host != "replay" {
		t.Errorf("Host = %q, want replay", sc.Host)
	}
}

func TestParseScenarioErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", "size: ["},
		{"no size", "steps: []"},
		{"negative size", "size: [-1, 10]"},
		{"two actions", "size: [1, 1]\nsteps:\n  - event: resumed\n    panel: open"},
		{"empty step", "size: [1, 1]\nsteps:\n  - {}"},
		{"unknown event", "size: [1, 1]\nsteps:\n  - event: rebooted"},
		{"bad layout", "size: [1, 1]\nsteps:\n  - layout: [1]"},
		{"negative wait", "size: [1, 1]\nsteps:\n  - wait: -5ms"},
		{"bad panel", "size: [1, 1]\nsteps:\n  - panel: ajar"},
		{"bad lifecycle", "size: [1, 1]\nsteps:\n  - lifecycle: pause"},
		{"no points", "size: [1, 1]\nsteps:\n  - stroke: {points: []}"},
		{"short point", "size: [1, 1]\nsteps:\n  - stroke: {points: [[1]]}"},
		{"bad style", "size: [1, 1]\nsteps:\n  - stroke: {style: crayon, points: [[1, 1]]}"},
		{"bad color", "size: [1, 1]\nsteps:\n  - stroke: {color: red, points: [[1, 1]]}"},
		{"bad exclude", "size: [1, 1]\nsteps:\n  - exclude: [1, 2]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.data))
			if !errors.Is(err, ErrInvalidScenario) {
				t.Errorf("ParseScenario() error = %v, want ErrInvalidScenario", err)
			}
		})
	}
}
