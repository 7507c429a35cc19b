// Package overlay renders analysis results and status text as transient
// labels.
//
// The Renderer owns all presentation state on a single goroutine. Other
// goroutines talk to it only through Post, which queues without blocking.
// Each tick drains the queue in order and then checks the one pending hide
// deadline. Drawing is delegated to a Painter.
package overlay

import (
	"context"
	"time"

	"github.com/ironsheep/hextech-overlay/internal/logger"
)

// Options configures a Renderer.
type Options struct {
	Layout    Layout
	Palette   Palette
	Painter   Painter
	ResultTTL time.Duration
	StatusTTL time.Duration
	Tick      time.Duration
	Logger    *logger.Logger
}

// Renderer is the overlay's single-threaded state owner.
type Renderer struct {
	inbox     *mailbox
	layout    Layout
	palette   Palette
	painter   Painter
	resultTTL time.Duration
	statusTTL time.Duration
	tick      time.Duration
	log       *logger.Logger

	labels []Label
	hideAt time.Time
	dirty  bool
}

// NewRenderer creates a renderer. Unset durations take the defaults of 5 s
// for results, 2 s for status text and a 50 ms tick.
func NewRenderer(opts Options) *Renderer {
	if opts.ResultTTL <= 0 {
		opts.ResultTTL = 5 * time.Second
	}
	if opts.StatusTTL <= 0 {
		opts.StatusTTL = 2 * time.Second
	}
	if opts.Tick <= 0 {
		opts.Tick = 50 * time.Millisecond
	}
	if opts.Painter == nil {
		opts.Painter = NopPainter{}
	}
	return &Renderer{
		inbox:     newMailbox(),
		layout:    opts.Layout,
		palette:   opts.Palette,
		painter:   opts.Painter,
		resultTTL: opts.ResultTTL,
		statusTTL: opts.StatusTTL,
		tick:      opts.Tick,
		log:       logger.Or(opts.Logger, "overlay"),
	}
}

// Post queues m. It never blocks and is safe from any goroutine.
func (r *Renderer) Post(m Msg) { r.inbox.post(m) }

// Pending reports how many messages wait for the next tick.
func (r *Renderer) Pending() int { return r.inbox.len() }

// Run ticks until ctx is done, then clears the overlay.
func (r *Renderer) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	r.log.Debug().Dur("tick", r.tick).Msg("renderer started")
	for {
		select {
		case <-ctx.Done():
			r.labels = nil
			r.hideAt = time.Time{}
			r.paint()
			r.log.Debug().Msg("renderer stopped")
			return nil
		case now := <-ticker.C:
			r.Step(now)
		}
	}
}

// Step performs one tick at now: drain queued messages, then expire the
// hide deadline if it has passed, then repaint if anything changed. Run
// calls it; tests drive it directly.
func (r *Renderer) Step(now time.Time) {
	for _, m := range r.inbox.drain() {
		r.handle(m, now)
	}
	if !r.hideAt.IsZero() && !now.Before(r.hideAt) {
		r.clear()
	}
	if r.dirty {
		r.paint()
	}
}

// Labels returns the labels currently shown. Call only from the goroutine
// running Step.
func (r *Renderer) Labels() []Label {
	out := make([]Label, len(r.labels))
	copy(out, r.labels)
	return out
}

// HideAt returns the pending hide deadline, if any.
func (r *Renderer) HideAt() (time.Time, bool) {
	return r.hideAt, !r.hideAt.IsZero()
}

func (r *Renderer) handle(m Msg, now time.Time) {
	// Every message starts by cancelling the pending hide.
	r.hideAt = time.Time{}

	switch msg := m.(type) {
	case Update:
		r.clear()
		for _, reg := range r.layout.Regions {
			res, ok := msg.Results[reg.Key]
			if !ok {
				continue
			}
			text := res.Label()
			if text == "" {
				continue
			}
			pos, _ := r.layout.RegionPos(reg.Key)
			r.labels = append(r.labels, Label{
				Key:   reg.Key,
				Text:  text,
				Pos:   pos,
				Color: r.palette.For(res),
			})
		}
		r.hideAt = now.Add(r.resultTTL)
		r.log.Debug().Int("labels", len(r.labels)).Msg("showing results")

	case Status:
		r.clear()
		r.labels = append(r.labels, Label{
			Key:    "status",
			Text:   msg.Text,
			Pos:    r.layout.Center(),
			Anchor: AnchorCenter,
			Color:  r.palette.Status,
		})
		r.hideAt = now.Add(r.statusTTL)

	case Clear:
		r.clear()
	}
}

func (r *Renderer) clear() {
	r.hideAt = time.Time{}
	r.labels = nil
	r.dirty = true
}

func (r *Renderer) paint() {
	r.dirty = false
	if err := r.painter.Paint(Frame{Size: r.layout.Size(), Labels: r.Labels()}); err != nil {
		r.log.Warn().Err(err).Msg("failed to paint overlay")
	}
}
