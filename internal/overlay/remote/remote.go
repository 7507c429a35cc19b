// Package remote serves the overlay to a browser source. A streaming or
// compositing tool loads the page, which connects back over a websocket and
// draws every frame the renderer paints.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ironsheep/hextech-overlay/internal/logger"
	"github.com/ironsheep/hextech-overlay/internal/overlay"
)

// wire types

type labelMsg struct {
	Key    string `json:"key"`
	Text   string `json:"text"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Center bool   `json:"center"`
	Color  string `json:"color"`
}

type frameMsg struct {
	Type   string     `json:"type"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Labels []labelMsg `json:"labels"`
}

func encodeFrame(f overlay.Frame) ([]byte, error) {
	msg := frameMsg{Type: "frame", Width: f.Size.X, Height: f.Size.Y, Labels: make([]labelMsg, 0, len(f.Labels))}
	for _, l := range f.Labels {
		msg.Labels = append(msg.Labels, labelMsg{
			Key:    l.Key,
			Text:   l.Text,
			X:      l.Pos.X,
			Y:      l.Pos.Y,
			Center: l.Anchor == overlay.AnchorCenter,
			Color:  l.Color.Hex(),
		})
	}
	return json.Marshal(msg)
}

// Server is an overlay.Painter that fans frames out to websocket clients.
type Server struct {
	log *logger.Logger

	mu      sync.Mutex
	clients map[uuid.UUID]chan []byte
	last    []byte
}

// New creates a server with an empty frame.
func New(log *logger.Logger) *Server {
	empty, _ := encodeFrame(overlay.Frame{})
	return &Server{
		log:     logger.Or(log, "remote"),
		clients: make(map[uuid.UUID]chan []byte),
		last:    empty,
	}
}

// Paint implements overlay.Painter. Clients too slow to take a frame are
// dropped.
func (s *Server) Paint(f overlay.Frame) error {
	payload, err := encodeFrame(f)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = payload
	for id, ch := range s.clients {
		select {
		case ch <- payload:
		default:
			close(ch)
			delete(s.clients, id)
			s.log.Warn().Str("client", id.String()).Msg("dropping slow overlay client")
		}
	}
	return nil
}

// Clients reports how many browser sources are connected.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) join() (uuid.UUID, chan []byte) {
	id := uuid.New()
	out := make(chan []byte, 8)

	s.mu.Lock()
	out <- s.last
	s.clients[id] = out
	s.mu.Unlock()

	s.log.Info().Str("client", id.String()).Int("clients", s.Clients()).Msg("overlay client connected")
	return id, out
}

func (s *Server) leave(id uuid.UUID) {
	s.mu.Lock()
	ch, ok := s.clients[id]
	if ok {
		close(ch)
		delete(s.clients, id)
	}
	s.mu.Unlock()

	if ok {
		s.log.Info().Str("client", id.String()).Int("clients", s.Clients()).Msg("overlay client left")
	}
}

// Handler returns the HTTP routes: the page, the websocket and a health check.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.page)
	r.Get("/healthz", healthz)
	r.Get("/ws", s.ws)
	return r
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) page(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(pageHTML))
}

func (s *Server) ws(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	id, out := s.join()
	defer s.leave(id)
	s.log.Info().Str("client", id.String()).Str("remote", r.RemoteAddr).Msg("overlay client connected")

	// Clients never send; CloseRead handles pings and notices disconnects.
	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Str("client", id.String()).Msg("overlay client disconnected")
			return
		case payload, ok := <-out:
			if !ok {
				conn.Close(websocket.StatusPolicyViolation, "too slow")
				return
			}
			wctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := conn.Write(wctx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.log.Info().Str("addr", ln.Addr().String()).Msg("overlay browser source listening")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
