package web

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	apperrors "github.com/peterkuimelis/scarab/internal/errors"
	"github.com/peterkuimelis/scarab/internal/session"
	"github.com/peterkuimelis/scarab/internal/view"
)

// Server is the scarab web server: JSON endpoints plus a WebSocket command
// channel, all driving one session.
type Server struct {
	sess   *session.Session
	artDir string
	mux    *http.ServeMux
}

// NewServer creates a new web server. Card art is served from artDir when
// it is non-empty.
func NewServer(sess *session.Session, artDir string) *Server {
	s := &Server{
		sess:   sess,
		artDir: artDir,
		mux:    http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	if s.artDir != "" {
		s.mux.Handle("GET /art/", http.StripPrefix("/art/", http.FileServer(http.Dir(s.artDir))))
	}

	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)
	s.mux.HandleFunc("GET /api/state", s.handleState)

	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, view.BuildCatalogView())
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, view.BuildDeckViews(s.sess.State().Collection))
}

// handleState is read-only: unlike a get_state command it does not consume
// the session's unreported events.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, view.BuildStateView(s.sess.State()))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		log.Printf("WebSocket accept error: %v", err)
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()

	// Greet with the current state so the client can render immediately.
	if err := wsjson.Write(ctx, wsConn, stateReply(s.sess.Snapshot())); err != nil {
		log.Printf("WebSocket write error: %v", err)
		return
	}

	for {
		var cmd view.Command
		if err := wsjson.Read(ctx, wsConn, &cmd); err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && !errors.Is(err, context.Canceled) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		reply := s.execute(cmd)
		if err := wsjson.Write(ctx, wsConn, reply); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
}

func (s *Server) execute(cmd view.Command) view.Reply {
	res, err := s.sess.Execute(cmd)
	if err != nil {
		return errorReply(err)
	}
	reply := stateReply(res)
	reply.Deck = res.Deck
	return reply
}

func stateReply(res session.Result) view.Reply {
	return view.Reply{
		Type:   view.ReplyState,
		State:  view.BuildStateView(res.State),
		Events: view.BuildEventViews(res.Events),
	}
}

func errorReply(err error) view.Reply {
	return view.Reply{
		Type:   view.ReplyError,
		Events: []view.EventView{},
		Code:   string(apperrors.GetCode(err)),
		Error:  err.Error(),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("JSON encode error: %v", err)
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}
