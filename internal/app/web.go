package app

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/gnss_tracker/internal/display"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // panel is served on the local network only
	},
}

// PanelState is the JSON document served by the web mirror.
type PanelState struct {
	Updated time.Time           `json:"updated"`
	Fields  []display.FieldText `json:"fields"`
}

// Mirror serves the text of the panel fields over HTTP and pushes every
// committed frame to websocket clients.
type Mirror struct {
	log *log.Logger
	now func() time.Time

	mu      sync.Mutex
	payload []byte
	clients map[*mirrorClient]bool
}

type mirrorClient struct {
	conn *websocket.Conn
	send chan []byte
}

func NewMirror(logger *log.Logger) *Mirror {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Mirror{log: logger, now: time.Now, clients: map[*mirrorClient]bool{}}
}

// Publish stores the field texts of the frame just committed and forwards
// them to every client. Slow clients drop frames.
func (m *Mirror) Publish(fields []display.FieldText) {
	payload, err := json.Marshal(PanelState{Updated: m.now().UTC(), Fields: fields})
	if err != nil {
		m.log.Printf("json encode error: %v", err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = payload
	for c := range m.clients {
		select {
		case c.send <- payload:
		default:
			m.log.Printf("websocket client %s too slow, frame dropped", c.conn.RemoteAddr())
		}
	}
}

// Handler routes /api/panel (latest state) and /ws (live updates).
func (m *Mirror) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/panel", m.servePanel)
	mux.HandleFunc("/ws", m.serveWS)
	return mux
}

func (m *Mirror) servePanel(w http.ResponseWriter, _ *http.Request) {
	m.mu.Lock()
	payload := m.payload
	m.mu.Unlock()

	if payload == nil {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(payload); err != nil {
		m.log.Printf("http write error: %v", err)
	}
}

func (m *Mirror) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.Printf("websocket upgrade error: %v", err)
		return
	}

	c := &mirrorClient{conn: conn, send: make(chan []byte, 8)}
	m.mu.Lock()
	m.clients[c] = true
	if m.payload != nil {
		c.send <- m.payload
	}
	m.mu.Unlock()

	go c.writeLoop()

	// clients only listen; reading detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	m.mu.Lock()
	delete(m.clients, c)
	close(c.send)
	m.mu.Unlock()
	conn.Close()
}

func (c *mirrorClient) writeLoop() {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// ServeMirror listens on port until the server fails.
func ServeMirror(port int, m *Mirror, logger *log.Logger) error {
	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Printf("web server listening on %s", addr)
	return srv.ListenAndServe()
}
