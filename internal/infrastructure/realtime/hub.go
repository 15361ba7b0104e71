// Package realtime difunde los cambios de la colección por websocket y
// expone /metrics y /health en el puerto de sincronización.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/jhoicas/conversion-pro/pkg/metrics"
)

const (
	writeWait   = 5 * time.Second
	eventBuffer = 64
)

// Event mensaje enviado a los clientes.
type Event struct {
	Type   string `json:"type"`
	Count  int    `json:"count"`
	Source string `json:"source"`
}

// LeadsChanged evento tras una mutación local o una recarga externa.
func LeadsChanged(count int, source string) Event {
	return Event{Type: "leads_changed", Count: count, Source: source}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub mantiene las conexiones abiertas; sólo la goroutine de Run escribe.
type Hub struct {
	log    zerolog.Logger
	events chan Event
	done   chan struct{}

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	closed  bool
}

// NewHub construye el hub; Run lo pone en marcha.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log:     log,
		events:  make(chan Event, eventBuffer),
		done:    make(chan struct{}),
		clients: map[*websocket.Conn]struct{}{},
	}
}

// Publish encola un evento. Si el buffer está lleno el evento se descarta:
// los clientes recargan con el siguiente.
func (h *Hub) Publish(ev Event) {
	select {
	case h.events <- ev:
	default:
		h.log.Warn().Str("type", ev.Type).Msg("buffer de eventos lleno, se descarta")
	}
}

// Run difunde eventos hasta que ctx se cancela; luego cierra todas las conexiones.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case ev := <-h.events:
			h.broadcast(ev)
		}
	}
}

// Done se cierra cuando Run termina.
func (h *Hub) Done() <-chan struct{} { return h.done }

// Clients número de conexiones abiertas.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) broadcast(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.log.Error().Err(err).Msg("serializar evento")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.log.Debug().Err(err).Msg("cliente desconectado")
			_ = c.Close()
			delete(h.clients, c)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown")
	for c := range h.clients {
		_ = c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		_ = c.Close()
		delete(h.clients, c)
	}
}

// ServeWS registra la conexión y la mantiene hasta que el cliente se va.
// Los mensajes entrantes se ignoran.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade")
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

// Router rutas del puerto de sincronización.
func (h *Hub) Router(m *metrics.Metrics) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws", h.ServeWS)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "clients": h.Clients()})
	}).Methods(http.MethodGet)
	if m != nil {
		r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}
	return r
}

// ── Server ────────────────────────────────────────────────────────────────────

// Server servidor net/http del puerto de sincronización.
type Server struct {
	srv *http.Server
}

// NewServer construye el servidor sobre el router del hub.
func NewServer(addr string, h *Hub, m *metrics.Metrics) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           h.Router(m),
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// ListenAndServe bloquea hasta Shutdown; el cierre ordenado no es error.
func (s *Server) ListenAndServe() error {
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown detiene el servidor.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
