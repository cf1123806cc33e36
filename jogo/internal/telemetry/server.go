package telemetry

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StatsServer publica estatísticas de frame por WebSocket para
// observadores externos (dashboards, scripts de profiling). Totalmente
// passivo: se ninguém conecta, nada é enviado.
type StatsServer struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*sync.Mutex

	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
}

// NewStatsServer cria o hub e registra o handler HTTP.
func NewStatsServer(addr string) *StatsServer {
	s := &StatsServer{
		clients:    make(map[*websocket.Conn]*sync.Mutex),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/stats", s.handleWS)

	go s.run()
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("[Telemetria] Servidor encerrado: %v", err)
		}
	}()

	log.Printf("[Telemetria] Publicando estatísticas em ws://%s/stats", addr)
	return s
}

func (s *StatsServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Telemetria] Falha no upgrade: %v", err)
		return
	}
	s.register <- conn

	// Loop de leitura só para detectar desconexão.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.unregister <- conn
				return
			}
		}
	}()
}

func (s *StatsServer) run() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Telemetria] Recuperado de pânico: %v", r)
		}
	}()

	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.clients[conn] = &sync.Mutex{}
			s.mu.Unlock()
			log.Printf("[Telemetria] Observador conectado: %s", conn.RemoteAddr())
		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[conn]; ok {
				delete(s.clients, conn)
				conn.Close()
			}
			s.mu.Unlock()
		case msg := <-s.broadcast:
			s.mu.Lock()
			type target struct {
				conn *websocket.Conn
				lock *sync.Mutex
			}
			var targets []target
			for c, l := range s.clients {
				targets = append(targets, target{c, l})
			}
			s.mu.Unlock()

			for _, t := range targets {
				t.lock.Lock()
				if err := t.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					t.conn.Close()
					s.mu.Lock()
					delete(s.clients, t.conn)
					s.mu.Unlock()
				}
				t.lock.Unlock()
			}
		}
	}
}

// Publish serializa e enfileira um snapshot de estatísticas. Nunca
// bloqueia: se o canal encher, o snapshot é descartado.
func (s *StatsServer) Publish(payload any) {
	if s == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	select {
	case s.broadcast <- data:
	default:
	}
}
