// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/penpad/internal/logging"
)

// Overrides are system-level property values. A nil field means no
// override: the user value applies.
type Overrides struct {
	PenEnabled    *bool `yaml:"pen_enabled,omitempty"`
	FingerEnabled *bool `yaml:"finger_enabled,omitempty"`
}

// ParseOverrides decodes an overrides document. Empty input yields no
// overrides.
func ParseOverrides(data []byte) (Overrides, error) {
	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Overrides{}, fmt.Errorf("config: parse overrides: %w", err)
	}
	return o, nil
}

// LoadOverrides reads the overrides file. A missing file yields no
// overrides.
func LoadOverrides(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Overrides{}, nil
	}
	if err != nil {
		return Overrides{}, fmt.Errorf("config: read overrides: %w", err)
	}
	return ParseOverrides(data)
}

// WatchOverrides calls fn with the current overrides, then again each time
// the file is written, created, removed or renamed. A removed file clears
// every override. Unparsable contents are logged and skipped.
//
// WatchOverrides blocks until ctx is done and then returns nil. fn runs on
// the watcher goroutine.
func WatchOverrides(ctx context.Context, path string, fn func(Overrides)) error {
	path = filepath.Clean(path)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so that editors replacing the file are seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("config: watch %s: %w", filepath.Dir(path), err)
	}

	log := logging.Logger().With("path", path)
	reload := func() {
		o, err := LoadOverrides(path)
		if err != nil {
			log.Warn("config: overrides ignored", "err", err)
			return
		}
		fn(o)
	}
	reload()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				log.Debug("config: overrides changed", "op", event.Op.String())
				reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("config: watcher error", "err", err)
		}
	}
}
