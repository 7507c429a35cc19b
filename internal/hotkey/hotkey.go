// Package hotkey delivers global key presses as events.
//
// Listen registers system-wide hotkeys through golang.design/x/hotkey, so the
// keys fire while the game has focus. Key-down notifications arrive on a
// channel instead of being polled. On macOS the program must run its main
// function through mainthread.Init.
package hotkey

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Event is one key press.
type Event struct {
	Name string
	At   time.Time
}

// Source is a stream of key presses.
type Source interface {
	Events() <-chan Event
}

// Canonical validates a key name and returns its canonical form. Function
// keys F1 to F12 are supported, case-insensitively.
func Canonical(name string) (string, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if !strings.HasPrefix(n, "F") {
		return "", fmt.Errorf("unsupported hotkey %q: only F1-F12", name)
	}
	num, err := strconv.Atoi(n[1:])
	if err != nil || num < 1 || num > 12 {
		return "", fmt.Errorf("unsupported hotkey %q: only F1-F12", name)
	}
	return "F" + strconv.Itoa(num), nil
}
