// Package session drives the two-phase interaction: pick a hero at the
// console, then analyze on a hotkey until the reset hotkey returns to hero
// selection.
//
// The Controller is the only writer of the Session. Other components see its
// effects only through messages posted to the overlay.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ironsheep/hextech-overlay/internal/analyzer"
	"github.com/ironsheep/hextech-overlay/internal/hotkey"
	"github.com/ironsheep/hextech-overlay/internal/logger"
	"github.com/ironsheep/hextech-overlay/internal/overlay"
)

// ErrInput marks selection input that could not be used. It is always
// recovered from by prompting again.
var ErrInput = errors.New("invalid input")

// ErrHotkeysClosed is returned by Run when the hotkey source stops.
var ErrHotkeysClosed = errors.New("hotkey source closed")

// Phase is the controller state.
type Phase int

const (
	Selecting Phase = iota
	Listening
)

func (p Phase) String() string {
	if p == Listening {
		return "listening"
	}
	return "selecting"
}

// Session is the controller's mutable state.
type Session struct {
	Hero  string
	Phase Phase
}

// Console is the line-oriented prompt.
type Console interface {
	ReadLine(ctx context.Context) (string, error)
	Printf(format string, args ...any)
	// Discard drops input typed before the current prompt.
	Discard() int
}

// Searcher resolves player queries to hero keys. *dataset.Index implements it.
type Searcher interface {
	Search(query string) ([]string, bool)
	Canonical(name string) (string, bool)
}

// Analyzer reads the screen for a hero.
type Analyzer interface {
	Analyze(ctx context.Context, hero string) (analyzer.Results, error)
}

// Options wires a Controller.
type Options struct {
	Console  Console
	Hotkeys  hotkey.Source
	Analyzer Analyzer
	Index    Searcher
	Overlay  overlay.Sink

	// AnalyzeKey and ResetKey default to F6 and F8. Names are matched against
	// events in their hotkey.Canonical form.
	AnalyzeKey string
	ResetKey   string
	// AnalyzeDebounce ignores analyze presses for this long after an
	// analysis completes, 1 s by default. ResetDebounce is waited out before
	// returning to selection, 500 ms by default.
	AnalyzeDebounce time.Duration
	ResetDebounce   time.Duration

	// Now and Sleep default to the wall clock.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error

	Logger *logger.Logger
}

// Controller runs the selection and listening phases.
type Controller struct {
	console         Console
	hotkeys         hotkey.Source
	analyzer        Analyzer
	index           Searcher
	sink            overlay.Sink
	analyzeKey      string
	resetKey        string
	analyzeDebounce time.Duration
	resetDebounce   time.Duration
	now             func() time.Time
	sleep           func(ctx context.Context, d time.Duration) error
	log             *logger.Logger

	mu      sync.Mutex
	session Session
}

// New creates a controller in the Selecting phase.
func New(opts Options) *Controller {
	if opts.AnalyzeKey == "" {
		opts.AnalyzeKey = "F6"
	}
	if opts.ResetKey == "" {
		opts.ResetKey = "F8"
	}
	opts.AnalyzeKey = canonicalKey(opts.AnalyzeKey)
	opts.ResetKey = canonicalKey(opts.ResetKey)
	if opts.AnalyzeDebounce <= 0 {
		opts.AnalyzeDebounce = time.Second
	}
	if opts.ResetDebounce <= 0 {
		opts.ResetDebounce = 500 * time.Millisecond
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sleep == nil {
		opts.Sleep = sleep
	}
	return &Controller{
		console:         opts.Console,
		hotkeys:         opts.Hotkeys,
		analyzer:        opts.Analyzer,
		index:           opts.Index,
		sink:            opts.Overlay,
		analyzeKey:      opts.AnalyzeKey,
		resetKey:        opts.ResetKey,
		analyzeDebounce: opts.AnalyzeDebounce,
		resetDebounce:   opts.ResetDebounce,
		now:             opts.Now,
		sleep:           opts.Sleep,
		log:             logger.Or(opts.Logger, "session"),
	}
}

// Session returns a snapshot of the current state.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Controller) setSession(s Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
	c.log.Info().Str("phase", s.Phase.String()).Str("hero", s.Hero).Msg("session state")
}

// Run alternates selection and listening until ctx ends, which returns nil.
// It returns io.EOF when the console input ends and ErrHotkeysClosed when
// the hotkey source stops.
func (c *Controller) Run(ctx context.Context) error {
	for {
		hero, err := c.selectHero(ctx)
		if err != nil {
			return c.exit(ctx, err)
		}
		c.setSession(Session{Hero: hero, Phase: Listening})
		c.sink.Post(overlay.Status{Text: hero + "\npress " + c.analyzeKey + " to analyze"})
		c.console.Printf("locked: %s\n>>> switch back to the game and press [%s] to analyze\n", hero, c.analyzeKey)
		c.console.Printf("(listening... press %s to re-select)\n", c.resetKey)

		if err := c.listen(ctx); err != nil {
			return c.exit(ctx, err)
		}
	}
}

func (c *Controller) exit(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// canonicalKey returns the name hotkey events carry for key. Names the
// listener would reject are kept as given.
func canonicalKey(key string) string {
	if n, err := hotkey.Canonical(key); err == nil {
		return n
	}
	return key
}
