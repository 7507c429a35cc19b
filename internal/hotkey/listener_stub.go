//go:build !windows && !cgo

package hotkey

import (
	"errors"

	"github.com/ironsheep/hextech-overlay/internal/logger"
)

// ErrUnsupported is returned by Listen in builds without cgo.
var ErrUnsupported = errors.New("global hotkeys unavailable: built without cgo")

// Listener is unavailable in this build.
type Listener struct{}

// Listen always fails without cgo.
func Listen(_ *logger.Logger, names ...string) (*Listener, error) {
	for _, n := range names {
		if _, err := Canonical(n); err != nil {
			return nil, err
		}
	}
	return nil, ErrUnsupported
}

// Events returns a nil channel.
func (*Listener) Events() <-chan Event { return nil }

// Close does nothing.
func (*Listener) Close() error { return nil }
