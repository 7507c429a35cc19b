package session

import (
	"context"
	"errors"
	"time"

	"github.com/ironsheep/hextech-overlay/internal/hotkey"
	"github.com/ironsheep/hextech-overlay/internal/overlay"
)

// listen handles hotkeys until reset. It returns nil on reset.
func (c *Controller) listen(ctx context.Context) error {
	events := c.hotkeys.Events()
	var quietUntil time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return ErrHotkeysClosed
			}

			switch ev.Name {
			case c.analyzeKey:
				if ev.At.Before(quietUntil) {
					c.log.Debug().Time("at", ev.At).Msg("analyze press debounced")
					continue
				}
				if err := c.analyze(ctx); err != nil {
					return err
				}
				quietUntil = c.now().Add(c.analyzeDebounce)

			case c.resetKey:
				if err := c.sleep(ctx, c.resetDebounce); err != nil {
					return err
				}
				c.drain(events)
				return nil
			}
		}
	}
}

func (c *Controller) analyze(ctx context.Context) error {
	hero := c.Session().Hero
	c.sink.Post(overlay.Status{Text: "analyzing..."})

	results, err := c.analyzer.Analyze(ctx, hero)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		c.log.Warn().Err(err).Str("hero", hero).Msg("analysis failed")
		return nil
	}
	c.sink.Post(overlay.Update{Results: results})
	return nil
}

// drain drops presses queued during the reset debounce.
func (c *Controller) drain(events <-chan hotkey.Event) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
