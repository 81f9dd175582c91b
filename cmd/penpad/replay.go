package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/penpad"
	"github.com/gogpu/penpad/config"
	"github.com/gogpu/penpad/dispatch"
	"github.com/gogpu/penpad/internal/sim"
	"github.com/gogpu/penpad/lifecycle"
	"github.com/gogpu/penpad/observe"
	"github.com/gogpu/penpad/stroke"
)

type replayOptions struct {
	out       string
	thumbnail string
	telemetry bool
	realtime  bool
}

func newReplayCmd(root *rootOptions) *cobra.Command {
	opts := &replayOptions{}
	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml>",
		Short: "Replay a recorded session and write the result as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := loadConfig(root.configPath)
			if err != nil {
				return err
			}
			sc, err := LoadScenario(args[0])
			if err != nil {
				return err
			}

			var obs *observe.Observer
			if opts.telemetry {
				o, shutdown, err := setupTelemetry(cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				defer func() {
					if err := shutdown(context.Background()); err != nil {
						penpad.Logger().Warn("penpad: telemetry shutdown", "err", err)
					}
				}()
				obs = o
			}

			r, err := newReplayer(sc, cfg, obs, opts.realtime)
			if err != nil {
				return err
			}
			res, err := r.run(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "state=%s strokes=%d ignored=%d\n", res.State, res.Strokes, res.Ignored)

			if opts.out != "" {
				if res.Image == nil {
					return fmt.Errorf("write %s: %w", opts.out, penpad.ErrNoSurface)
				}
				if err := os.WriteFile(opts.out, res.Image, 0o644); err != nil {
					return fmt.Errorf("write image: %w", err)
				}
			}
			if opts.thumbnail != "" {
				data, ok := res.Saved[penpad.BundleThumbnail]
				if !ok {
					return fmt.Errorf("write %s: scenario saved no thumbnail", opts.thumbnail)
				}
				if err := os.WriteFile(opts.thumbnail, data, 0o644); err != nil {
					return fmt.Errorf("write thumbnail: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the final surface as PNG")
	cmd.Flags().StringVar(&opts.thumbnail, "thumbnail", "", "write the last saved thumbnail as PNG")
	cmd.Flags().BoolVar(&opts.telemetry, "telemetry", false, "print metrics and traces to stderr")
	cmd.Flags().BoolVar(&opts.realtime, "realtime", false, "sleep through waits and watch the overrides file")
	return cmd
}

// replayResult summarizes a finished replay.
type replayResult struct {
	State   lifecycle.State
	Strokes int
	Ignored int

	// Image is the final surface as PNG, nil when the surface was released.
	Image []byte

	// Saved is the bundle of the last save event.
	Saved lifecycle.Bundle
}

// replayer drives a Pad with simulated host and surface on a manual clock.
type replayer struct {
	sc       *Scenario
	cfg      config.Config
	realtime bool

	sched   *dispatch.Manual
	host    *sim.Host
	surface *sim.Surface
	pad     *penpad.Pad

	ignored int
	saved   lifecycle.Bundle
}

func newReplayer(sc *Scenario, cfg config.Config, obs *observe.Observer, realtime bool) (*replayer, error) {
	r := &replayer{
		sc:       sc,
		cfg:      cfg,
		realtime: realtime,
		sched:    dispatch.NewManual(),
		host:     sim.NewHost(sc.Host),
		surface:  sim.NewSurface(sc.Size[0], sc.Size[1]),
	}
	pad, err := penpad.New(
		penpad.WithScheduler(r.sched),
		penpad.WithEvents(r.host),
		penpad.WithDevice(logDevice{}),
		penpad.WithConfig(cfg),
		penpad.WithObservability(obs),
	)
	if err != nil {
		return nil, err
	}
	r.pad = pad
	return r, nil
}

func (r *replayer) run(ctx context.Context) (*replayResult, error) {
	if path := r.cfg.Overrides; path != "" {
		o, err := config.LoadOverrides(path)
		if err != nil {
			return nil, err
		}
		r.pad.ApplyOverrides(ctx, o)

		if r.realtime {
			wctx, cancel := context.WithCancel(ctx)
			defer cancel()
			go func() {
				err := config.WatchOverrides(wctx, path, func(o config.Overrides) {
					r.pad.ApplyOverrides(wctx, o)
				})
				if err != nil {
					penpad.Logger().Warn("penpad: watch overrides", "path", path, "err", err)
				}
			}()
		}
	}

	r.pad.Init(lifecycle.Static[lifecycle.Host](r.host), lifecycle.Static[lifecycle.Resource](r.surface), nil)
	r.sched.RunPending()

	for i, st := range r.sc.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.step(ctx, st); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		r.sched.RunPending()
	}

	res := &replayResult{
		State:   r.pad.State(),
		Strokes: r.pad.Strokes(),
		Ignored: r.ignored,
		Saved:   r.saved,
	}
	img, err := r.encode()
	if err != nil && !errors.Is(err, penpad.ErrNoSurface) {
		return nil, err
	}
	res.Image = img
	return res, nil
}

func (r *replayer) step(ctx context.Context, st Step) error {
	switch {
	case st.Event != "":
		kind, err := eventKind(st.Event)
		if err != nil {
			return err
		}
		ev := lifecycle.Event{Kind: kind, Host: r.host}
		if kind == lifecycle.EventSaveState {
			ev.Bundle = lifecycle.Bundle{}
			r.saved = ev.Bundle
		}
		r.host.EmitEvent(ev)
	case st.Layout != nil:
		r.surface.SetSize(st.Layout[0], st.Layout[1])
	case st.Wait > 0:
		return r.wait(ctx, st.Wait)
	case st.Panel != "":
		r.pad.SystemPanel(ctx, st.Panel == "open")
	case st.Lifecycle != "":
		switch st.Lifecycle {
		case "enable":
			r.pad.Enable()
		case "disable":
			r.pad.Disable()
		case "shutdown":
			r.pad.Shutdown("replay")
		}
	case st.Stroke != nil:
		r.stroke(ctx, st.Stroke)
	case st.EraseAll:
		if err := r.pad.EraseEverything(ctx); err != nil {
			penpad.Logger().Debug("penpad: erase all", "err", err)
		}
	case st.Exclude != nil:
		e := st.Exclude
		r.pad.AddExclusion(stroke.R(e[0], e[1], e[2], e[3]))
	case st.Overrides != nil:
		r.pad.ApplyOverrides(ctx, *st.Overrides)
	}
	return nil
}

func (r *replayer) wait(ctx context.Context, d time.Duration) error {
	if r.realtime {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	r.sched.Advance(d)
	return nil
}

func (r *replayer) stroke(ctx context.Context, s *StrokeStep) {
	if s.Mode != "" {
		m, _ := stroke.ParsePenMode(s.Mode)
		r.pad.Mode().SetUser(ctx, m)
	}
	if s.Style != "" {
		st, _ := stroke.ParseStyle(s.Style)
		r.pad.Style().SetUser(ctx, st)
	}
	if s.Width > 0 {
		r.pad.Width().SetUser(ctx, s.Width)
	}
	if s.Color != "" {
		c, _ := config.ParseColor(s.Color)
		r.pad.Color().SetUser(ctx, c)
	}

	pts := s.points()
	if !r.pad.BeginStroke(ctx, pts[0]) {
		r.ignored++
		return
	}
	r.pad.AddPoints(ctx, pts[1:]...)
	r.pad.EndStroke(ctx)
}

func (r *replayer) encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.pad.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
