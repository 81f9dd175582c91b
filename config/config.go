// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config loads penpad settings from YAML.
//
// A Config file sets the user-level defaults of a Pad. A separate overrides
// file, watched for changes, supplies system-level overrides that can be
// edited while the Pad runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gogpu/gg"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/penpad/lifecycle"
	"github.com/gogpu/penpad/stroke"
)

// Validation errors. Validate wraps them with the offending value.
var (
	ErrInvalidDebounce  = errors.New("config: debounce must be positive")
	ErrInvalidColor     = errors.New("config: invalid hex color")
	ErrInvalidStroke    = errors.New("config: invalid stroke")
	ErrInvalidThumbnail = errors.New("config: invalid thumbnail size")
)

// Config is the root of a penpad YAML file.
type Config struct {
	// Debounce is the layout coalescing window.
	Debounce time.Duration `yaml:"debounce"`

	// Background is the surface color as hex, e.g. "#ffffff".
	Background string `yaml:"background"`

	Stroke    Stroke    `yaml:"stroke"`
	Pen       Pen       `yaml:"pen"`
	Thumbnail Thumbnail `yaml:"thumbnail"`

	// Overrides is the path of the system overrides file. Relative paths
	// are resolved against the directory of the config file by Load.
	Overrides string `yaml:"overrides,omitempty"`
}

// Stroke holds the initial stroke attributes.
type Stroke struct {
	Mode  string  `yaml:"mode"`
	Style string  `yaml:"style"`
	Width float64 `yaml:"width"`
	Color string  `yaml:"color"`
}

// Pen holds the initial input switches.
type Pen struct {
	Enabled bool `yaml:"enabled"`
	Finger  bool `yaml:"finger"`
}

// Thumbnail is the size of the preview saved with instance state.
type Thumbnail struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Default returns the built-in configuration.
func Default() Config {
	attr := stroke.DefaultAttr()
	return Config{
		Debounce:   lifecycle.DefaultDebounce,
		Background: "#ffffff",
		Stroke: Stroke{
			Mode:  attr.Mode.String(),
			Style: attr.Style.String(),
			Width: attr.Width,
			Color: "#000000",
		},
		Pen:       Pen{Enabled: true, Finger: true},
		Thumbnail: Thumbnail{Width: 160, Height: 120},
	}
}

// Load reads and validates the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Overrides != "" && !filepath.IsAbs(cfg.Overrides) {
		cfg.Overrides = filepath.Join(filepath.Dir(path), cfg.Overrides)
	}
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result. Keys absent
// from data keep their default values.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks every field.
func (c Config) Validate() error {
	if c.Debounce <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDebounce, c.Debounce)
	}
	if !validHex(c.Background) {
		return fmt.Errorf("%w: background %q", ErrInvalidColor, c.Background)
	}
	if !validHex(c.Stroke.Color) {
		return fmt.Errorf("%w: stroke color %q", ErrInvalidColor, c.Stroke.Color)
	}
	if c.Stroke.Width <= 0 {
		return fmt.Errorf("%w: width %v", ErrInvalidStroke, c.Stroke.Width)
	}
	if _, err := stroke.ParseStyle(c.Stroke.Style); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidStroke, err)
	}
	if _, err := stroke.ParsePenMode(c.Stroke.Mode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidStroke, err)
	}
	if c.Thumbnail.Width <= 0 || c.Thumbnail.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidThumbnail, c.Thumbnail.Width, c.Thumbnail.Height)
	}
	return nil
}

// Attr returns the stroke attributes. c must be valid.
func (c Config) Attr() stroke.Attr {
	mode, _ := stroke.ParsePenMode(c.Stroke.Mode)
	style, _ := stroke.ParseStyle(c.Stroke.Style)
	return stroke.Attr{
		Mode:  mode,
		Style: style,
		Width: c.Stroke.Width,
		Color: gg.Hex(c.Stroke.Color),
	}
}

// BackgroundColor returns the parsed background color. c must be valid.
func (c Config) BackgroundColor() gg.RGBA {
	return gg.Hex(c.Background)
}

// ParseColor parses a hex color such as "#f80" or "#ff880080".
func ParseColor(s string) (gg.RGBA, error) {
	if !validHex(s) {
		return gg.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return gg.Hex(s), nil
}

func validHex(s string) bool {
	if s != "" && s[0] == '#' {
		s = s[1:]
	}
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
