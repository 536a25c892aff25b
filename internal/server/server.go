package server

import (
	log "log/slog"
	"net/http"
	"sync"

	ws "github.com/gorilla/websocket"

	"tala/internal/config"
	"tala/internal/pipeline"
	"tala/internal/session"
	"tala/pkg/protocol"
)

// Server accepts device websocket connections and runs one lifecycle per
// connection.
type Server struct {
	cfg  config.Config
	pipe *pipeline.Pipeline

	upgrader ws.Upgrader

	mu     sync.Mutex
	active int
}

func New(cfg config.Config, pipe *pipeline.Pipeline) *Server {
	return &Server{
		cfg:  cfg,
		pipe: pipe,
		upgrader: ws.Upgrader{
			ReadBufferSize:  8192,
			WriteBufferSize: 8192,
			// devices carry no Origin header
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	raw, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade", "remote", r.RemoteAddr, "err", err)
		return
	}

	sess := session.New(s.cfg.DefaultVoice, s.cfg.DefaultPrompt)
	log.Info("Device connected", "session", sess.ID, "remote", r.RemoteAddr)

	s.track(1)
	defer s.track(-1)

	newConn(protocol.NewWebSocket(raw), sess, s.pipe, s.cfg.ConfigWait.Std()).run()
	log.Info("Session ended", "session", sess.ID)
}

func (s *Server) track(d int) {
	s.mu.Lock()
	s.active += d
	s.mu.Unlock()
}

// ActiveSessions reports the number of live device connections.
func (s *Server) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}
