package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/san-kum/algoviz/internal/seq"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  4096,
	WriteBufferSize: 64 * 1024,
}

// StreamRequest is a control message sent by a stream client.
type StreamRequest struct {
	Action  string `json:"action"`
	DelayMs int    `json:"delay_ms,omitempty"`
}

// StreamMessage is everything the server writes to a stream.
type StreamMessage struct {
	Type  string     `json:"type"`
	Frame *seq.Frame `json:"frame,omitempty"`
	Error string     `json:"error,omitempty"`
}

// handleStream pushes the current frame and then every committed frame.
// Clients may send StreamRequests on the same socket to control the run.
func (s *Server) handleStream(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error("failed to upgrade the websocket", "error", err)
		return
	}
	defer ws.Close()

	frames, stop := sess.listen()
	defer stop()

	s.logger.Debug("stream opened", "session", sess.id)

	incoming := make(chan StreamRequest)
	done := make(chan struct{})
	defer close(done)
	go s.readStream(ws, incoming, done)

	first := sess.player.Frame()
	if err := write(ws, StreamMessage{Type: "frame", Frame: &first}); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case f, ok := <-frames:
			if !ok {
				_ = ws.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
					time.Now().Add(writeWait))
				return
			}
			if err := write(ws, StreamMessage{Type: "frame", Frame: &f}); err != nil {
				return
			}
		case req, ok := <-incoming:
			if !ok {
				s.logger.Debug("stream closed by client", "session", sess.id)
				return
			}
			if err := sess.control(req.Action, req.DelayMs); err != nil {
				if err := write(ws, StreamMessage{Type: "error", Error: seq.Message(err)}); err != nil {
					return
				}
			}
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (s *Server) readStream(ws *websocket.Conn, out chan<- StreamRequest, done <-chan struct{}) {
	defer close(out)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var req StreamRequest
		if err := ws.ReadJSON(&req); err != nil {
			return
		}
		select {
		case out <- req:
		case <-done:
			return
		}
	}
}

func write(ws *websocket.Conn, msg StreamMessage) error {
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	return ws.WriteJSON(msg)
}
