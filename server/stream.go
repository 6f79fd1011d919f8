package main

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"holdem-mcts/server/mcts"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// streamFrame is one server message on /api/stream.
type streamFrame struct {
	Type     string            `json:"type"` // progress | result | error
	Progress *mcts.Progress    `json:"progress,omitempty"`
	Result   *estimateResponse `json:"result,omitempty"`
	Error    string            `json:"error,omitempty"`
}

const writeWait = 10 * time.Second

// handleStream reads one estimate request and answers with progress frames
// followed by a single result or error frame.
func (s *service) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	var req estimateRequest
	if err := conn.SetReadDeadline(time.Now().Add(30 * time.Second)); err != nil {
		s.log.Debug().Err(err).Msg("stream read deadline")
	}
	if err := conn.ReadJSON(&req); err != nil {
		s.deliver(conn, streamFrame{Type: "error", Error: err.Error()})
		return
	}

	ctx := r.Context()
	progress := func(p mcts.Progress) {
		s.deliver(conn, streamFrame{Type: "progress", Progress: &p})
	}
	resp, err := s.runEstimate(ctx, req, progress)
	if err != nil {
		s.deliver(conn, streamFrame{Type: "error", Error: err.Error()})
		return
	}
	s.deliver(conn, streamFrame{Type: "result", Result: &resp})
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		s.log.Debug().Err(err).Msg("stream write deadline")
	}
	if err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done")); err != nil {
		s.log.Debug().Err(err).Msg("stream close frame dropped")
	}
}

func (s *service) send(conn *websocket.Conn, f streamFrame) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(f)
}

// deliver sends f and logs, rather than returns, a failed write: the client is gone.
func (s *service) deliver(conn *websocket.Conn, f streamFrame) {
	if err := s.send(conn, f); err != nil {
		s.log.Debug().Err(err).Str("frame", f.Type).Msg("stream frame dropped")
	}
}
