package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ironsheep/hextech-overlay/internal/analyzer"
	"github.com/ironsheep/hextech-overlay/internal/dataset"
	"github.com/ironsheep/hextech-overlay/internal/hotkey"
	"github.com/ironsheep/hextech-overlay/internal/logger"
	"github.com/ironsheep/hextech-overlay/internal/overlay"
)

var base = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// fakeConsole replays scripted lines. When they run out it returns io.EOF,
// or waits for ctx when block is set.
type fakeConsole struct {
	mu       sync.Mutex
	lines    []string
	block    bool
	out      strings.Builder
	discards int
}

func (c *fakeConsole) ReadLine(ctx context.Context) (string, error) {
	c.mu.Lock()
	if len(c.lines) > 0 {
		line := c.lines[0]
		c.lines = c.lines[1:]
		c.mu.Unlock()
		return line, nil
	}
	block := c.block
	c.mu.Unlock()
	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return "", io.EOF
}

func (c *fakeConsole) Printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(&c.out, format, args...)
}

func (c *fakeConsole) Discard() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.discards++
	return 0
}

func (c *fakeConsole) output() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out.String()
}

type fakeSink struct {
	mu   sync.Mutex
	msgs []overlay.Msg
}

func (s *fakeSink) Post(m overlay.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, m)
}

func (s *fakeSink) all() []overlay.Msg {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]overlay.Msg(nil), s.msgs...)
}

type fakeHotkeys chan hotkey.Event

func (h fakeHotkeys) Events() <-chan hotkey.Event { return h }

type fakeAnalyzer struct {
	mu     sync.Mutex
	heroes []string
	err    error
}

func (a *fakeAnalyzer) Analyze(_ context.Context, hero string) (analyzer.Results, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.heroes = append(a.heroes, hero)
	if a.err != nil {
		return nil, a.err
	}
	return analyzer.Results{"hex_1": {RegionKey: "hex_1", Text: "no text", IsError: true}}, nil
}

func (a *fakeAnalyzer) calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.heroes...)
}

// matcherFunc adapts a function to fuzzy.Matcher.
type matcherFunc func(query string, candidates []string) (string, int)

func (f matcherFunc) BestMatch(q string, c []string) (string, int) { return f(q, c) }

// testIndex has an alias shared by two heroes, an alias pointing at a hero
// without data, and one pointing at a spelling that differs from the dataset
// key. Approximate matching knows "zaox" and the drifted spelling.
func testIndex() *dataset.Index {
	aug := func(hero string) map[string]dataset.AugmentRecord {
		return map[string]dataset.AugmentRecord{"x": {Name: "x", Hero: hero, GlobalRank: 1, TierRank: 1}}
	}
	heroes := dataset.HeroIndex{"泽丽": aug("泽丽"), "扎克": aug("扎克"), "赵信": aug("赵信"), "亚索": aug("亚索")}
	aliases := dataset.AliasIndex{
		"zl":    {"泽丽", "扎克"},
		"泽丽":    {"泽丽"},
		"ghost": {"幽灵"},
		"ys":    {"亚索·"},
	}
	m := matcherFunc(func(q string, _ []string) (string, int) {
		switch q {
		case "zaox":
			return "赵信", 65
		case "亚索·":
			return "亚索", 90
		case "幽灵":
			return "扎克", 70
		}
		return "泽丽", 10
	})
	return dataset.NewIndex(heroes, aliases, m)
}

type harness struct {
	console  *fakeConsole
	sink     *fakeSink
	keys     fakeHotkeys
	analyzer *fakeAnalyzer
	sleeps   []time.Duration
	ctrl     *Controller
}

func newHarness(lines ...string) *harness {
	return newHarnessKeys("", "", lines...)
}

func newHarnessKeys(analyzeKey, resetKey string, lines ...string) *harness {
	h := &harness{
		console:  &fakeConsole{lines: lines},
		sink:     &fakeSink{},
		keys:     make(fakeHotkeys, 16),
		analyzer: &fakeAnalyzer{},
	}
	h.ctrl = New(Options{
		Console:    h.console,
		Hotkeys:    h.keys,
		Analyzer:   h.analyzer,
		Index:      testIndex(),
		Overlay:    h.sink,
		AnalyzeKey: analyzeKey,
		ResetKey:   resetKey,
		Now:        func() time.Time { return base },
		Sleep: func(_ context.Context, d time.Duration) error {
			h.sleeps = append(h.sleeps, d)
			return nil
		},
		Logger: logger.New(logger.Options{Level: "disabled"}),
	})
	return h
}

func (h *harness) run(t *testing.T) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- h.ctrl.Run(context.Background()) }()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

func (h *harness) press(name string, at time.Time) {
	h.keys <- hotkey.Event{Name: name, At: at}
}

func TestSelect_AliasWithSeveralHeroesPrompts(t *testing.T) {
	h := newHarness("zl")
	if err := h.run(t); !errors.Is(err, io.EOF) {
		t.Fatalf("Run = %v, want io.EOF", err)
	}

	out := h.console.output()
	if !strings.Contains(out, "1. 泽丽") || !strings.Contains(out, "2. 扎克") {
		t.Errorf("candidates not listed:\n%s", out)
	}
	if s := h.ctrl.Session(); s.Hero != "" || s.Phase != Selecting {
		t.Errorf("session = %+v, want no hero while selecting", s)
	}
}

func TestSelect_Paths(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		wantHero string
		wantOut  []string
	}{
		{"index choice", []string{"zl", "2"}, "扎克", nil},
		{"exact single alias", []string{"  泽丽 "}, "泽丽", nil},
		{"case and space folded", []string{" ZL ", "1"}, "泽丽", nil},
		{"empty input reprompts", []string{"", "   ", "zl", "1"}, "泽丽", nil},
		{"invalid index restarts query", []string{"zl", "3", "zl", "x", "zl", "1"}, "泽丽", []string{"invalid choice"}},
		{"approximate confirmed by enter", []string{"zaox", ""}, "赵信", []string{"did you mean 赵信?"}},
		{"approximate confirmed by y", []string{"zaox", "y"}, "赵信", nil},
		{"approximate declined", []string{"zaox", "n", "zaox", "N ", "泽丽"}, "泽丽", nil},
		{"not found", []string{"qqq", "泽丽"}, "泽丽", []string{"not found"}},
		{"no data restarts", []string{"ghost", "泽丽"}, "泽丽", []string{"no data for [幽灵]"}},
		{"drifted name mapped", []string{"ys"}, "亚索", []string{"mapped: 亚索· -> 亚索"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(tt.lines...)
			// Ends the listening phase so Run returns when input runs out.
			h.press("F8", base)

			if err := h.run(t); !errors.Is(err, io.EOF) {
				t.Fatalf("Run = %v, want io.EOF", err)
			}

			var status *overlay.Status
			for _, m := range h.sink.all() {
				if s, ok := m.(overlay.Status); ok {
					status = &s
					break
				}
			}
			if status == nil {
				t.Fatalf("no status posted; output:\n%s", h.console.output())
			}
			want := tt.wantHero + "\npress F6 to analyze"
			if status.Text != want {
				t.Errorf("status = %q, want %q", status.Text, want)
			}

			out := h.console.output()
			if !strings.Contains(out, "locked: "+tt.wantHero) {
				t.Errorf("output missing lock of %s:\n%s", tt.wantHero, out)
			}
			for _, w := range tt.wantOut {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestSelect_ApproximateNeverLocksWithoutConfirmation(t *testing.T) {
	h := newHarness("zaox")
	if err := h.run(t); !errors.Is(err, io.EOF) {
		t.Fatalf("Run = %v, want io.EOF", err)
	}
	for _, m := range h.sink.all() {
		if _, ok := m.(overlay.Status); ok {
			t.Error("hero locked before confirmation")
		}
	}
}

func TestListen_AnalyzeAndReset(t *testing.T) {
	h := newHarness("泽丽")
	h.press("F6", base)
	h.press("F7", base)
	h.press("F8", base)
	// Queued behind the reset; must be dropped.
	h.press("F6", base)

	if err := h.run(t); !errors.Is(err, io.EOF) {
		t.Fatalf("Run = %v, want io.EOF", err)
	}

	if calls := h.analyzer.calls(); len(calls) != 1 || calls[0] != "泽丽" {
		t.Errorf("analyze calls = %v, want [泽丽]", calls)
	}
	if len(h.sleeps) != 1 || h.sleeps[0] != 500*time.Millisecond {
		t.Errorf("reset debounce sleeps = %v", h.sleeps)
	}
	if len(h.keys) != 0 {
		t.Errorf("%d presses left queued after reset", len(h.keys))
	}

	msgs := h.sink.all()
	kinds := make([]string, len(msgs))
	for i, m := range msgs {
		switch v := m.(type) {
		case overlay.Clear:
			kinds[i] = "clear"
		case overlay.Status:
			kinds[i] = "status:" + strings.SplitN(v.Text, "\n", 2)[0]
		case overlay.Update:
			kinds[i] = "update"
		}
	}
	want := []string{"clear", "status:泽丽", "status:analyzing...", "update", "clear"}
	if strings.Join(kinds, ",") != strings.Join(want, ",") {
		t.Errorf("messages = %v, want %v", kinds, want)
	}
	if h.console.discards != 2 {
		t.Errorf("input discarded %d times, want once per selection", h.console.discards)
	}
}

func TestListen_LowercaseKeysMatchListenerEvents(t *testing.T) {
	h := newHarnessKeys("f6", " f8", "泽丽")
	h.press("F6", base)
	h.press("F8", base)

	if err := h.run(t); !errors.Is(err, io.EOF) {
		t.Fatalf("Run = %v, want io.EOF", err)
	}
	if calls := h.analyzer.calls(); len(calls) != 1 {
		t.Errorf("analyze calls = %v, want one", calls)
	}
	if len(h.sleeps) != 1 {
		t.Errorf("reset did not fire, sleeps = %v", h.sleeps)
	}
	if out := h.console.output(); !strings.Contains(out, "press F8 to re-select") {
		t.Errorf("prompt should name the canonical reset key:\n%s", out)
	}
}

func TestListen_AnalyzeDebounce(t *testing.T) {
	h := newHarness("泽丽")
	h.press("F6", base)
	h.press("F6", base.Add(500*time.Millisecond))
	h.press("F6", base.Add(999*time.Millisecond))
	h.press("F6", base.Add(time.Second))
	h.press("F8", base.Add(2*time.Second))

	if err := h.run(t); !errors.Is(err, io.EOF) {
		t.Fatalf("Run = %v, want io.EOF", err)
	}
	if n := len(h.analyzer.calls()); n != 2 {
		t.Errorf("analyze ran %d times, want 2", n)
	}
}

func TestListen_AnalyzerErrorKeepsListening(t *testing.T) {
	h := newHarness("泽丽")
	h.analyzer.err = errors.New("analyzer closed")
	h.press("F6", base)
	h.press("F8", base)

	if err := h.run(t); !errors.Is(err, io.EOF) {
		t.Fatalf("Run = %v, want io.EOF", err)
	}
	for _, m := range h.sink.all() {
		if _, ok := m.(overlay.Update); ok {
			t.Error("update posted for a failed analysis")
		}
	}
}

func TestRun_HotkeysClosed(t *testing.T) {
	h := newHarness("泽丽")
	close(h.keys)

	if err := h.run(t); !errors.Is(err, ErrHotkeysClosed) {
		t.Errorf("Run = %v, want ErrHotkeysClosed", err)
	}
	if s := h.ctrl.Session(); s.Hero != "泽丽" || s.Phase != Listening {
		t.Errorf("session = %+v", s)
	}
}

func TestRun_ContextCancel(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"while selecting", nil},
		{"while listening", []string{"泽丽"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(tt.lines...)
			h.console.block = true

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- h.ctrl.Run(ctx) }()

			time.Sleep(20 * time.Millisecond)
			cancel()

			select {
			case err := <-done:
				if err != nil {
					t.Errorf("Run = %v, want nil", err)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("Run did not stop")
			}
		})
	}
}

func TestChoice(t *testing.T) {
	tests := []struct {
		line    string
		n       int
		want    int
		wantErr bool
	}{
		{"1", 2, 0, false},
		{" 2 ", 2, 1, false},
		{"0", 2, 0, true},
		{"3", 2, 0, true},
		{"-1", 2, 0, true},
		{"a", 2, 0, true},
		{"", 2, 0, true},
	}
	for _, tt := range tests {
		got, err := choice(tt.line, tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("choice(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrInput) {
			t.Errorf("choice(%q) error %v is not ErrInput", tt.line, err)
		}
		if got != tt.want {
			t.Errorf("choice(%q) = %d, want %d", tt.line, got, tt.want)
		}
	}
}

func TestDeclined(t *testing.T) {
	for _, s := range []string{"n", "N", " no ", "否"} {
		if !declined(s) {
			t.Errorf("declined(%q) = false", s)
		}
	}
	for _, s := range []string{"", "y", "yes", "ok"} {
		if declined(s) {
			t.Errorf("declined(%q) = true", s)
		}
	}
}
