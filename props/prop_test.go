// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package props

import (
	"context"
	"strings"
	"sync"
	"testing"
)

// TestDefaultWhenUnset checks that an unwritten property resolves to its default.
func TestDefaultWhenUnset(t *testing.T) {
	e := NewEngine()
	p := New(e, false, nil)

	if _, ok := p.User(); ok {
		t.Error("User() reported set on a fresh property")
	}
	if _, ok := p.System(); ok {
		t.Error("System() reported set on a fresh property")
	}
	if p.Current() != false {
		t.Errorf("Current() = %v, want default false", p.Current())
	}
	if p.Default() != false {
		t.Errorf("Default() = %v, want false", p.Default())
	}
}

// TestUserAppliedWithoutSystem walks the boolean scenario: user, system
// override, override lifted.
func TestUserAppliedWithoutSystem(t *testing.T) {
	ctx := context.Background()
	e := NewEngine()
	calls := 0
	p := New(e, false, func(context.Context, Delta[bool]) { calls++ })

	p.SetUser(ctx, true)
	if p.Current() != true {
		t.Errorf("after usr=true: Current() = %v, want true", p.Current())
	}
	if calls != 1 {
		t.Errorf("after usr=true: calls = %d, want 1", calls)
	}

	p.SetSystem(ctx, false)
	if u, _ := p.User(); u != true {
		t.Errorf("User() = %v, want true", u)
	}
	if p.Current() != false {
		t.Errorf("after sys=false: Current() = %v, want false", p.Current())
	}
	if calls != 2 {
		t.Errorf("after sys=false: calls = %d, want 2", calls)
	}

	p.ClearSystem(ctx)
	if _, ok := p.System(); ok {
		t.Error("System() still set after ClearSystem")
	}
	if p.Current() != true {
		t.Errorf("after sys=nil: Current() = %v, want true", p.Current())
	}
	if calls != 3 {
		t.Errorf("total calls = %d, want 3", calls)
	}
}

// TestUserShadowedBySystem walks the string scenario: a user write under a
// system override is recorded but not applied until the override is lifted.
func TestUserShadowedBySystem(t *testing.T) {
	ctx := context.Background()
	e := NewEngine()
	p := New(e, "A", nil)

	p.SetSystem(ctx, "B")
	if p.Current() != "B" {
		t.Fatalf("Current() = %q, want B", p.Current())
	}

	p.SetUser(ctx, "C")
	if u, ok := p.User(); !ok || u != "C" {
		t.Errorf("User() = %q, %v; want C, true", u, ok)
	}
	if p.Current() != "B" {
		t.Errorf("Current() = %q, want B (system still overrides)", p.Current())
	}

	p.ClearSystem(ctx)
	if p.Current() != "C" {
		t.Errorf("Current() = %q, want C", p.Current())
	}
}

// TestCallbackOnlyOnPropagatedChange checks notification exactness.
func TestCallbackOnlyOnPropagatedChange(t *testing.T) {
	ctx := context.Background()
	e := NewEngine()
	var got []Delta[bool]
	p := New(e, false, func(_ context.Context, d Delta[bool]) { got = append(got, d) })

	steps := []struct {
		name  string
		write func()
		want  int
	}{
		{"usr=false matches default", func() { p.SetUser(ctx, false) }, 0},
		{"usr=true changes", func() { p.SetUser(ctx, true) }, 1},
		{"sys=true agrees with usr", func() { p.SetSystem(ctx, true) }, 1},
		{"usr=false shadowed by sys", func() { p.SetUser(ctx, false) }, 1},
		{"sys lifted exposes usr=false", func() { p.ClearSystem(ctx) }, 2},
	}
	for _, s := range steps {
		s.write()
		if len(got) != s.want {
			t.Fatalf("%s: callbacks = %d, want %d", s.name, len(got), s.want)
		}
	}

	last := got[1]
	if last.Source != SourceSys {
		t.Errorf("Source = %v, want SYS", last.Source)
	}
	if last.Prev != true || last.Cur != false {
		t.Errorf("Prev/Cur = %v/%v, want true/false", last.Prev, last.Cur)
	}
	if last.Sys != nil {
		t.Errorf("Sys = %v, want nil", *last.Sys)
	}
	if last.Usr == nil || *last.Usr != false {
		t.Errorf("Usr = %v, want false", last.Usr)
	}
}

// TestCallbackWritingOwnProperty checks that a self-referential write is
// applied but does not re-enter the callback.
func TestCallbackWritingOwnProperty(t *testing.T) {
	ctx := context.Background()
	e := NewEngine()
	calls := 0
	var p *Prop[int]
	p = New(e, 0, func(ctx context.Context, d Delta[int]) {
		calls++
		p.SetSystem(ctx, d.Cur+1)
	})

	p.SetSystem(ctx, 1)
	if s, _ := p.System(); s != 2 {
		t.Errorf("System() = %d, want 2", s)
	}
	if p.Current() != 2 {
		t.Errorf("Current() = %d, want 2", p.Current())
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}

	// The guard is released once the callback returns.
	p.SetSystem(ctx, 1)
	if s, _ := p.System(); s != 2 {
		t.Errorf("second write: System() = %d, want 2", s)
	}
	if calls != 2 {
		t.Errorf("second write: calls = %d, want 2", calls)
	}
}

// TestCallbackWritingOtherProperty checks that a nested write to another
// property notifies that property.
func TestCallbackWritingOtherProperty(t *testing.T) {
	ctx := context.Background()
	e := NewEngine()
	var order []string
	mirror := New(e, 0, func(_ context.Context, d Delta[int]) {
		order = append(order, "mirror")
	})
	src := New(e, 0, func(ctx context.Context, d Delta[int]) {
		order = append(order, "src")
		mirror.SetUser(ctx, d.Cur*10)
		order = append(order, "src-done")
	})

	src.SetUser(ctx, 3)

	if mirror.Current() != 30 {
		t.Errorf("mirror.Current() = %d, want 30", mirror.Current())
	}
	want := "src,mirror,src-done"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("order = %s, want %s", got, want)
	}
}

// TestSharedCallbackDoesNotSuppress checks that the guard is per property:
// two properties sharing one callback both notify when one writes the other.
func TestSharedCallbackDoesNotSuppress(t *testing.T) {
	ctx := context.Background()
	e := NewEngine()
	seen := map[string]int{}
	var a, b *Prop[int]
	shared := func(ctx context.Context, d Delta[int]) {
		if d.Cur == 1 {
			seen["a"]++
			b.SetUser(ctx, 2)
			return
		}
		seen["b"]++
	}
	a = New(e, 0, shared, Named("a"))
	b = New(e, 0, shared, Named("b"))

	a.SetUser(ctx, 1)

	if seen["a"] != 1 || seen["b"] != 1 {
		t.Errorf("seen = %v, want a=1 b=1", seen)
	}
	if b.Current() != 2 {
		t.Errorf("b.Current() = %d, want 2", b.Current())
	}
}

// TestGettersInsideCallback checks that reads do not deadlock while the
// engine lock is held by the running callback.
func TestGettersInsideCallback(t *testing.T) {
	ctx := context.Background()
	e := NewEngine()
	other := New(e, "x", nil)
	var seen string
	p := New(e, 0, func(context.Context, Delta[int]) {
		seen = other.Current()
	})
	other.SetUser(ctx, "y")
	p.SetUser(ctx, 1)
	if seen != "y" {
		t.Errorf("seen = %q, want y", seen)
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	e := NewEngine()
	var deltas []Delta[string]
	p := New(e, "def", func(_ context.Context, d Delta[string]) { deltas = append(deltas, d) })

	p.SetUser(ctx, "u")
	p.SetSystem(ctx, "s")
	deltas = nil

	p.Reset(ctx)
	if p.Current() != "def" {
		t.Errorf("Current() = %q, want def", p.Current())
	}
	if len(deltas) != 1 {
		t.Fatalf("callbacks = %d, want 1", len(deltas))
	}
	if deltas[0].Source != SourceCur {
		t.Errorf("Source = %v, want CUR", deltas[0].Source)
	}
}

func TestObserver(t *testing.T) {
	ctx := context.Background()
	var names []string
	e := NewEngine(WithObserver(func(name string, src Source) {
		names = append(names, name+":"+src.String())
	}))
	p := New(e, 0, nil, Named("width"))

	p.SetUser(ctx, 0) // no change
	p.SetUser(ctx, 4)
	p.SetSystem(ctx, 2)

	want := "width:USR,width:SYS"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("observed = %s, want %s", got, want)
	}
}

func TestOptions(t *testing.T) {
	e := NewEngine()
	p := New(e, 1, nil, Named("n"), Deferred())
	if p.Name() != "n" {
		t.Errorf("Name() = %q, want n", p.Name())
	}
	if p.Immediate() {
		t.Error("Immediate() = true for a Deferred property")
	}
	q := New(e, 1, nil)
	if !q.Immediate() {
		t.Error("Immediate() = false by default")
	}
	if q.Name() == "" {
		t.Error("unnamed property should get a generated name")
	}
}

// TestChangeFuncTyped checks a named ChangeFunc and a nil callback.
func TestChangeFuncTyped(t *testing.T) {
	ctx := context.Background()
	e := NewEngine()
	var got []int
	var fn ChangeFunc[int] = func(_ context.Context, d Delta[int]) { got = append(got, d.Cur) }
	p := New(e, 0, fn)
	q := New[int](e, 0, nil)

	p.SetUser(ctx, 3)
	q.SetUser(ctx, 5)
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("got = %v, want [3]", got)
	}
	if q.Current() != 5 {
		t.Errorf("q.Current() = %d, want 5", q.Current())
	}
}

func TestDeltaString(t *testing.T) {
	u := "u"
	d := Delta[string]{Source: SourceUsr, Cur: "u", Prev: "d", Usr: &u}
	got := d.String()
	want := "USR triggered 'd' to 'u' -- cur='u', sys='<unset>', usr='u'"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if Source(9).String() != "Source(9)" {
		t.Errorf("unknown Source string = %q", Source(9).String())
	}
}

// TestConcurrentWriters checks that the invariant holds and every
// propagated change is notified once under contention.
func TestConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	e := NewEngine()

	var mu sync.Mutex
	changes := 0
	p := New(e, 0, func(context.Context, Delta[int]) {
		mu.Lock()
		changes++
		mu.Unlock()
	})

	var observed int
	e2 := NewEngine(WithObserver(func(string, Source) { observed++ }))
	q := New(e2, 0, nil)

	const workers = 8
	const iterations = 200
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := range iterations {
				if i%2 == 0 {
					p.SetUser(ctx, w*iterations+i)
					q.SetUser(ctx, w*iterations+i)
				} else {
					p.SetSystem(ctx, w*iterations+i)
					p.ClearSystem(ctx)
				}
			}
		}(w)
	}
	wg.Wait()

	u, _ := p.User()
	if _, ok := p.System(); ok {
		t.Error("System() should be cleared after every odd iteration")
	}
	if p.Current() != u {
		t.Errorf("Current() = %d, want user value %d", p.Current(), u)
	}
	if changes == 0 {
		t.Error("no callbacks ran")
	}
	if observed == 0 {
		t.Error("observer never ran")
	}
}
