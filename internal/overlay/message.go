package overlay

import (
	"sync"

	"github.com/ironsheep/hextech-overlay/internal/analyzer"
)

// Msg is a request to the renderer.
type Msg interface{ isOverlayMsg() }

// Update shows one label per region and hides them after the result TTL.
type Update struct {
	Results analyzer.Results
}

func (Update) isOverlayMsg() {}

// Status replaces everything with one centered label for the status TTL.
type Status struct {
	Text string
}

func (Status) isOverlayMsg() {}

// Clear removes every label immediately.
type Clear struct{}

func (Clear) isOverlayMsg() {}

// Sink accepts renderer messages without blocking.
type Sink interface {
	Post(m Msg)
}

// mailbox is an unbounded FIFO drained by the renderer on each tick. Post
// never blocks.
type mailbox struct {
	mu    sync.Mutex
	queue []Msg
}

func newMailbox() *mailbox {
	return &mailbox{}
}

func (m *mailbox) post(msg Msg) {
	m.mu.Lock()
	m.queue = append(m.queue, msg)
	m.mu.Unlock()
}

// drain takes every waiting message in arrival order.
func (m *mailbox) drain() []Msg {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.queue
	m.queue = nil
	return msgs
}

func (m *mailbox) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}
