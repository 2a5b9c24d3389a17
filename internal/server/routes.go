package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"uno-server/internal/protocol"
)

func (s *Server) RegisterRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/websocket", s.websocketHandler)

	return s.corsMiddleware(mux)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := json.Marshal(map[string]any{
		"status":  "ok",
		"players": s.session.PlayerCount(),
	})
	if err != nil {
		http.Error(w, "Failed to marshal health check response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(resp); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

// websocketHandler runs one connection's dispatcher: it joins the shared
// session, starts the write pump, then reads frames until the peer goes
// away. Whatever ends the read loop, the deferred cleanup removes the
// player so broadcasts and the turn cycle stop seeing them.
func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	socket, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.cfg.OriginPatterns,
	})
	if err != nil {
		http.Error(w, "Failed to open websocket", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	id := uuid.New()
	log.Printf("New connection: %s", id)

	client := newClient(id, socket)
	s.clients.Add(client)
	go client.writePump()

	defer func() {
		s.session.Leave(id)
		s.clients.Remove(id)
		s.limiter.RemoveConnection(id)
		s.health.RemoveConnection(id)
		client.close()
		log.Printf("Connection closed: %s", id)
	}()

	s.session.Join(id, client)
	s.health.UpdateActivity(id)

	for {
		msgType, data, err := socket.Read(ctx)
		if err != nil {
			log.Printf("Connection %s read error: %v", id, err)
			return
		}

		if msgType != websocket.MessageText {
			log.Printf("Non-text frame from %s", id)
			continue
		}

		if !s.limiter.Allow(id) {
			log.Printf("Rate limit exceeded by %s, frame dropped", id)
			continue
		}
		s.health.UpdateActivity(id)

		var envelope protocol.Envelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			log.Printf("Malformed frame from %s dropped: %v", id, err)
			continue
		}

		s.dispatch(id, envelope.Action)
	}
}

// dispatch routes one decoded action into the session. Precondition
// failures (wrong phase, wrong role, not your turn) are logged and
// otherwise ignored; the session has already answered the sender where a
// deny-class response exists.
func (s *Server) dispatch(id uuid.UUID, action protocol.Action) {
	var err error

	switch action.Type {
	case protocol.ActionSetName:
		if action.Name == "" {
			log.Printf("set_name without a name from %s", id)
			return
		}
		err = s.session.SetName(id, action.Name)

	case protocol.ActionMessage:
		err = s.session.Chat(id, action.Text)

	case protocol.ActionStart:
		err = s.session.Start(id)

	case protocol.ActionDrawCard:
		err = s.session.DrawCard(id)

	case protocol.ActionPlayCard:
		if action.Card == nil {
			log.Printf("play_card without a card from %s", id)
			return
		}
		err = s.session.PlayCard(id, *action.Card)

	case protocol.ActionWin:
		err = s.session.ReportWin(id)

	default:
		log.Printf("Unknown action type %q from %s", action.Type, id)
		return
	}

	if err != nil {
		log.Printf("Action %s from %s ignored: %v", action.Type, id, err)
	}
}
