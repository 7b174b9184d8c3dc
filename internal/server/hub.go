package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/san-kum/slitsim/internal/bench"
	"github.com/san-kum/slitsim/internal/export"
	log "github.com/sirupsen/logrus"
)

const (
	TypeSnapshot = "snapshot"
	TypeError    = "error"

	ActionReset = "reset"
)

type Request struct {
	Action string  `json:"action,omitempty"`
	Param  string  `json:"param,omitempty"`
	Value  float64 `json:"value"`
}

type Message struct {
	Type     string          `json:"type"`
	Snapshot *bench.Snapshot `json:"snapshot,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// Hub owns the controller and the set of connected clients. The controller
// is not safe for concurrent use, so every access goes through benchMu.
type Hub struct {
	benchMu sync.Mutex
	ctrl    *bench.Controller

	// mu guards clients and serializes writes to them
	mu      sync.Mutex
	clients map[*websocket.Conn]bool

	broadcast  chan bench.Snapshot
	unregister chan *websocket.Conn
	done       chan struct{}

	log *log.Entry
}

func NewHub(ctrl *bench.Controller) *Hub {
	return &Hub{
		ctrl:       ctrl,
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan bench.Snapshot, 16),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		log:        log.WithField("component", "server"),
	}
}

// Run dispatches disconnects and broadcasts until ctx is done, then
// closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			// done closes under mu so join cannot add a client after this loop
			h.mu.Lock()
			for client := range h.clients {
				client.Close()
				delete(h.clients, client)
			}
			close(h.done)
			h.mu.Unlock()
			return

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
				h.log.WithField("clients", len(h.clients)).Info("client disconnected")
			}
			h.mu.Unlock()

		case snap := <-h.broadcast:
			msg := Message{Type: TypeSnapshot, Snapshot: &snap}
			h.mu.Lock()
			for client := range h.clients {
				if err := client.WriteJSON(msg); err != nil {
					h.log.WithError(err).Warn("write failed, dropping client")
					client.Close()
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Snapshot returns the current bench state.
func (h *Hub) Snapshot() (bench.Snapshot, error) {
	h.benchMu.Lock()
	defer h.benchMu.Unlock()
	return h.ctrl.Snapshot()
}

// Apply runs one request against the controller and queues the result for
// broadcast. The snapshot is queued before benchMu is released, so clients
// receive updates in the order they were applied.
func (h *Hub) Apply(req Request) (bench.Snapshot, error) {
	h.benchMu.Lock()
	defer h.benchMu.Unlock()

	var (
		snap bench.Snapshot
		err  error
	)
	switch {
	case req.Action == ActionReset:
		snap = h.ctrl.Reset()
	case req.Action != "":
		return bench.Snapshot{}, fmt.Errorf("unknown action %q", req.Action)
	default:
		snap, err = h.ctrl.Set(req.Param, req.Value)
		if err != nil {
			return bench.Snapshot{}, err
		}
	}

	select {
	case h.broadcast <- snap:
	case <-h.done:
	}
	return snap, nil
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		http.Error(w, "expected a websocket upgrade", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("upgrade failed")
		return
	}

	if !h.join(conn) {
		conn.Close()
		return
	}

	go h.readLoop(conn)
}

func (h *Hub) readLoop(conn *websocket.Conn) {
	defer h.post(h.unregister, conn)

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithError(err).Debug("read failed")
			}
			return
		}

		if _, err := h.Apply(req); err != nil {
			h.log.WithFields(log.Fields{
				"param":  req.Param,
				"value":  req.Value,
				"action": req.Action,
			}).WithError(err).Debug("request rejected")
			h.send(conn, Message{Type: TypeError, Error: err.Error()})
		}
	}
}

// join sends the current snapshot and adds conn to the broadcast set in one
// step, so the client never misses an update made after its first message.
// Locks are taken benchMu then mu, the order Apply and Run imply.
func (h *Hub) join(conn *websocket.Conn) bool {
	h.benchMu.Lock()
	defer h.benchMu.Unlock()
	h.mu.Lock()
	defer h.mu.Unlock()

	select {
	case <-h.done:
		return false
	default:
	}

	msg := Message{Type: TypeSnapshot}
	if snap, err := h.ctrl.Snapshot(); err != nil {
		msg = Message{Type: TypeError, Error: err.Error()}
	} else {
		msg.Snapshot = &snap
	}
	if err := conn.WriteJSON(msg); err != nil {
		h.log.WithError(err).Debug("write failed")
		return false
	}

	h.clients[conn] = true
	h.log.WithField("clients", len(h.clients)).Info("client connected")
	return true
}

// post hands conn to Run, or closes it if Run has already stopped.
func (h *Hub) post(ch chan *websocket.Conn, conn *websocket.Conn) {
	select {
	case ch <- conn:
	case <-h.done:
		conn.Close()
	}
}

func (h *Hub) send(conn *websocket.Conn, msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := conn.WriteJSON(msg); err != nil {
		h.log.WithError(err).Debug("write failed")
	}
}

func (h *Hub) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Snapshot()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := export.WriteJSON(w, export.NewExportData("live", h.convention(), snap, nil)); err != nil {
		h.log.WithError(err).Warn("snapshot encode failed")
	}
}

func (h *Hub) handleChart(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Snapshot()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := export.RenderChart(w, snap, "Single-slit diffraction"); err != nil {
		h.log.WithError(err).Warn("chart render failed")
	}
}

func (h *Hub) convention() string {
	h.benchMu.Lock()
	defer h.benchMu.Unlock()
	return h.ctrl.Convention().String()
}

// Handler routes /ws, /snapshot and the chart page at /.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.HandleWebSocket)
	mux.HandleFunc("/snapshot", h.handleSnapshot)
	mux.HandleFunc("/", h.handleChart)
	return mux
}

// ListenAndServe serves the hub on addr until ctx is done.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go h.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	h.log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
