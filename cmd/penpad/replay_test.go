package main

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/penpad"
	"github.com/gogpu/penpad/config"
	"github.com/gogpu/penpad/lifecycle"
)

func mustScenario(t *testing.T, data string) *Scenario {
	t.Helper()
	sc, err := ParseScenario([]byte(data))
	if err != nil {
		t.Fatalf("ParseScenario() error = %v", err)
	}
	return sc
}

func runScenario(t *testing.T, data string, cfg config.Config) *replayResult {
	t.Helper()
	r, err := newReplayer(mustScenario(t, data), cfg, nil, false)
	if err != nil {
		t.Fatalf("newReplayer() error = %v", err)
	}
	res, err := r.run(context.Background())
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	return res
}

func TestReplayDrawsAndSaves(t *testing.T) {
	res := runScenario(t, sampleScenario, config.Default())

	if res.State != lifecycle.StateEnabled {
		t.Errorf("State = %v, want Enabled", res.State)
	}
	if res.Strokes != 1 || res.Ignored != 0 {
		t.Errorf("strokes = %d ignored = %d, want 1 and 0", res.Strokes, res.Ignored)
	}
	img, err := png.Decode(bytes.NewReader(res.Image))
	if err != nil {
		t.Fatalf("decode image: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(200, 100) {
		t.Errorf("image size = %v, want 200x100", got)
	}
	if string(res.Saved[penpad.BundleStrokes]) != "1" {
		t.Errorf("saved strokes = %q, want 1", res.Saved[penpad.BundleStrokes])
	}
	if _, ok := res.Saved[penpad.BundleThumbnail]; !ok {
		t.Error("no thumbnail saved")
	}
}

func TestReplayIgnoresInputWhileBlocked(t *testing.T) {
	res := runScenario(t, `
size: [200, 100]
steps:
  - stroke: {points: [[10, 10], [20, 20]]}
  - event: resumed
  - panel: open
  - stroke: {points: [[10, 10], [20, 20]]}
  - panel: closed
  - exclude: [0, 0, 50, 50]
  - stroke: {points: [[10, 10], [20, 20]]}
  - overrides: {pen_enabled: false}
  - stroke: {points: [[60, 60], [80, 80]]}
  - overrides: {}
  - stroke: {points: [[60, 60], [80, 80]]}
`, config.Default())

	if res.Strokes != 1 || res.Ignored != 4 {
		t.Errorf("strokes = %d ignored = %d, want 1 and 4", res.Strokes, res.Ignored)
	}
}

func TestReplayEraseAndShutdown(t *testing.T) {
	res := runScenario(t, `
size: [200, 100]
steps:
  - event: resumed
  - stroke: {points: [[10, 50], [190, 50]]}
  - stroke: {mode: erase-stroke, points: [[100, 0], [100, 99]]}
  - stroke: {mode: pen, points: [[10, 20], [190, 20]]}
  - erase_all: true
  - event: destroyed
`, config.Default())

	if res.State != lifecycle.StateShutdown {
		t.Errorf("State = %v, want Shutdown", res.State)
	}
	if res.Strokes != 0 {
		t.Errorf("strokes = %d, want 0", res.Strokes)
	}
	if res.Image != nil {
		t.Error("image written after the surface was released")
	}
}

func TestReplayWaitsForLayout(t *testing.T) {
	res := runScenario(t, `
size: [0, 0]
steps:
  - event: resumed
  - layout: [120, 80]
  - stroke: {points: [[10, 10]]}
  - wait: 10ms
  - stroke: {points: [[10, 10]]}
`, config.Default())

	if res.Strokes != 1 || res.Ignored != 1 {
		t.Errorf("strokes = %d ignored = %d, want 1 and 1", res.Strokes, res.Ignored)
	}
}

func TestReplayAppliesOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.yaml")
	if err := os.WriteFile(path, []byte("pen_enabled: false\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Overrides = path

	res := runScenario(t, `
size: [200, 100]
steps:
  - event: resumed
  - stroke: {points: [[10, 10], [20, 20]]}
`, cfg)
	if res.Strokes != 0 || res.Ignored != 1 {
		t.Errorf("strokes = %d ignored = %d, want 0 and 1", res.Strokes, res.Ignored)
	}
}

func TestReplayCommand(t *testing.T) {
	dir := t.TempDir()
	scenario := filepath.Join(dir, "session.yaml")
	if err := os.WriteFile(scenario, []byte(sampleScenario), 0o600); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "session.png")
	thumb := filepath.Join(dir, "thumb.png")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"replay", scenario, "--out", out, "--thumbnail", thumb})
	t.Cleanup(func() { penpad.SetLogger(nil) })

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v\n%s", err, stderr.String())
	}
	if got := stdout.String(); !strings.Contains(got, "strokes=1") {
		t.Errorf("stdout = %q, want strokes=1", got)
	}
	for _, p := range []string{out, thumb} {
		f, err := os.Open(p)
		if err != nil {
			t.Fatalf("open %s: %v", p, err)
		}
		_, err = png.Decode(f)
		f.Close()
		if err != nil {
			t.Errorf("decode %s: %v", p, err)
		}
	}
}

func TestReplayCommandMissingFile(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"replay", filepath.Join(t.TempDir(), "missing.yaml")})
	t.Cleanup(func() { penpad.SetLogger(nil) })

	if err := cmd.Execute(); err == nil {
		t.Error("Execute() succeeded for a missing scenario")
	}
}

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "penpad.yaml")
	if err := os.WriteFile(path, []byte("stroke:\n  style: dash\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "--config", path})
	t.Cleanup(func() { penpad.SetLogger(nil) })

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	cfg, err := config.Parse(stdout.Bytes())
	if err != nil {
		t.Fatalf("output does not parse: %v\n%s", err, stdout.String())
	}
	if cfg.Stroke.Style != "dash" || cfg.Stroke.Width != config.Default().Stroke.Width {
		t.Errorf("config = %+v", cfg.Stroke)
	}
}
