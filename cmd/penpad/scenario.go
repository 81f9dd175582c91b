package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/penpad/config"
	"github.com/gogpu/penpad/lifecycle"
	"github.com/gogpu/penpad/stroke"
)

// ErrInvalidScenario is wrapped by every scenario validation error.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is a recorded session: a host with a surface and the steps
// applied to it in order.
//
//	host: main
//	size: [800, 600]
//	steps:
//	  - event: resumed
//	  - wait: 20ms
//	  - stroke:
//	      style: marker
//	      points: [[10, 10, 1], [200, 120, 0.6]]
type Scenario struct {
	Host  string `yaml:"host"`
	Size  []int  `yaml:"size"`
	Steps []Step `yaml:"steps"`
}

// Step is one action. Exactly one field is set.
type Step struct {
	// Event is a host event name such as "resumed" or "save".
	Event string `yaml:"event,omitempty"`

	// Layout resizes the surface to [width, height].
	Layout []int `yaml:"layout,omitempty"`

	// Wait advances the clock.
	Wait time.Duration `yaml:"wait,omitempty"`

	// Panel is "open" or "closed".
	Panel string `yaml:"panel,omitempty"`

	// Lifecycle is "enable", "disable" or "shutdown".
	Lifecycle string `yaml:"lifecycle,omitempty"`

	Stroke    *StrokeStep       `yaml:"stroke,omitempty"`
	EraseAll  bool              `yaml:"erase_all,omitempty"`
	Exclude   []float64         `yaml:"exclude,omitempty"`
	Overrides *config.Overrides `yaml:"overrides,omitempty"`
}

// StrokeStep draws one stroke. Attribute fields left empty keep the
// current values.
type StrokeStep struct {
	Mode   string      `yaml:"mode,omitempty"`
	Style  string      `yaml:"style,omitempty"`
	Width  float64     `yaml:"width,omitempty"`
	Color  string      `yaml:"color,omitempty"`
	Points [][]float64 `yaml:"points"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// ParseScenario decodes and validates a scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if sc.Host == "" {
		sc.Host = "replay"
	}
	if len(sc.Size) != 2 || sc.Size[0] < 0 || sc.Size[1] < 0 {
		return nil, fmt.Errorf("%w: size must be [width, height], got %v", ErrInvalidScenario, sc.Size)
	}
	for i, st := range sc.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("%w: step %d: %w", ErrInvalidScenario, i+1, err)
		}
	}
	return &sc, nil
}

func (s Step) validate() error {
	n := 0
	count := func(set bool) {
		if set {
			n++
		}
	}
	count(s.Event != "")
	count(s.Layout != nil)
	count(s.Wait != 0)
	count(s.Panel != "")
	count(s.Lifecycle != "")
	count(s.Stroke != nil)
	count(s.EraseAll)
	count(s.Exclude != nil)
	count(s.Overrides != nil)
	if n != 1 {
		return fmt.Errorf("want exactly one action, got %d", n)
	}

	switch {
	case s.Event != "":
		if _, err := eventKind(s.Event); err != nil {
			return err
		}
	case s.Layout != nil:
		if len(s.Layout) != 2 || s.Layout[0] < 0 || s.Layout[1] < 0 {
			return fmt.Errorf("layout must be [width, height], got %v", s.Layout)
		}
	case s.Wait < 0:
		return fmt.Errorf("negative wait %v", s.Wait)
	case s.Panel != "":
		if s.Panel != "open" && s.Panel != "closed" {
			return fmt.Errorf("panel must be open or closed, got %q", s.Panel)
		}
	case s.Lifecycle != "":
		switch s.Lifecycle {
		case "enable", "disable", "shutdown":
		default:
			return fmt.Errorf("unknown lifecycle action %q", s.Lifecycle)
		}
	case s.Stroke != nil:
		return s.Stroke.validate()
	case s.Exclude != nil:
		if len(s.Exclude) != 4 {
			return fmt.Errorf("exclude must be [x0, y0, x1, y1], got %v", s.Exclude)
		}
	}
	return nil
}

func (s *StrokeStep) validate() error {
	if len(s.Points) == 0 {
		return errors.New("stroke has no points")
	}
	for i, p := range s.Points {
		if len(p) != 2 && len(p) != 3 {
			return fmt.Errorf("point %d must be [x, y] or [x, y, pressure], got %v", i+1, p)
		}
	}
	if s.Mode != "" {
		if _, err := stroke.ParsePenMode(s.Mode); err != nil {
			return err
		}
	}
	if s.Style != "" {
		if _, err := stroke.ParseStyle(s.Style); err != nil {
			return err
		}
	}
	if s.Width < 0 {
		return fmt.Errorf("negative width %v", s.Width)
	}
	if s.Color != "" {
		if _, err := config.ParseColor(s.Color); err != nil {
			return err
		}
	}
	return nil
}

// points converts the recorded samples. Pressure defaults to 1.
func (s *StrokeStep) points() []stroke.Point {
	pts := make([]stroke.Point, len(s.Points))
	for i, p := range s.Points {
		pts[i] = stroke.Point{X: p[0], Y: p[1], Pressure: 1}
		if len(p) == 3 {
			pts[i].Pressure = p[2]
		}
	}
	return pts
}

// eventKind accepts lifecycle event names plus "save" for save-state.
func eventKind(name string) (lifecycle.EventKind, error) {
	if name == "save" {
		return lifecycle.EventSaveState, nil
	}
	k, ok := lifecycle.ParseEventKind(name)
	if !ok {
		return 0, fmt.Errorf("unknown event %q", name)
	}
	return k, nil
}
