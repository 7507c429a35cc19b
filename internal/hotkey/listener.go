//go:build windows || cgo

package hotkey

import (
	"fmt"
	"sync"
	"time"

	"golang.design/x/hotkey"

	"github.com/ironsheep/hextech-overlay/internal/logger"
)

var functionKeys = map[string]hotkey.Key{
	"F1": hotkey.KeyF1, "F2": hotkey.KeyF2, "F3": hotkey.KeyF3, "F4": hotkey.KeyF4,
	"F5": hotkey.KeyF5, "F6": hotkey.KeyF6, "F7": hotkey.KeyF7, "F8": hotkey.KeyF8,
	"F9": hotkey.KeyF9, "F10": hotkey.KeyF10, "F11": hotkey.KeyF11, "F12": hotkey.KeyF12,
}

// Listener holds registered global hotkeys.
type Listener struct {
	log    *logger.Logger
	keys   []*hotkey.Hotkey
	events chan Event
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// Listen registers names as global hotkeys. Presses that arrive while the
// event buffer is full are dropped.
func Listen(log *logger.Logger, names ...string) (*Listener, error) {
	l := &Listener{
		log:    logger.Or(log, "hotkey"),
		events: make(chan Event, 16),
		done:   make(chan struct{}),
	}

	for _, name := range names {
		canon, err := Canonical(name)
		if err != nil {
			l.Close()
			return nil, err
		}
		hk := hotkey.New(nil, functionKeys[canon])
		if err := hk.Register(); err != nil {
			l.Close()
			return nil, fmt.Errorf("failed to register hotkey %s: %w", canon, err)
		}
		l.keys = append(l.keys, hk)

		l.wg.Add(1)
		go l.forward(canon, hk)
		l.log.Debug().Str("key", canon).Msg("hotkey registered")
	}
	return l, nil
}

func (l *Listener) forward(name string, hk *hotkey.Hotkey) {
	defer l.wg.Done()
	for {
		select {
		case <-l.done:
			return
		case _, ok := <-hk.Keydown():
			if !ok {
				return
			}
			select {
			case l.events <- Event{Name: name, At: time.Now()}:
			default:
				l.log.Debug().Str("key", name).Msg("hotkey event dropped")
			}
		}
	}
}

// Events implements Source.
func (l *Listener) Events() <-chan Event { return l.events }

// Close unregisters every hotkey.
func (l *Listener) Close() error {
	var first error
	l.once.Do(func() {
		close(l.done)
		for _, hk := range l.keys {
			if err := hk.Unregister(); err != nil && first == nil {
				first = err
			}
		}
		l.wg.Wait()
	})
	return first
}
