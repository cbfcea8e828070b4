package push

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"camdeck/internal/core/domain"
	"camdeck/pkg/utils"

	"github.com/gorilla/websocket"
)

var (
	errInvalidPayload = errors.New("invalid status_update payload")
	errUnknownMessage = errors.New("unknown message type")
)

func (h *Hub) checkOrigin(r *http.Request) bool {
	if len(h.opts.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Non-browser clients send no Origin header.
		return true
	}
	for _, allowed := range h.opts.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// Session is one observer's subscription lifecycle:
// Connecting -> Subscribed -> Closed.
type Session struct {
	id           ConnectionID
	conn         *websocket.Conn
	send         chan domain.Event
	subscribedAt time.Time

	hub       *Hub
	closeOnce sync.Once
	done      chan struct{}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// HandleWebSocket upgrades the request and runs the observer session until
// the transport closes. The write pump runs in its own goroutine; the read
// loop runs on the handler's.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.opts.RequireAuth {
		if h.validateToken == nil {
			http.Error(w, "subscription auth not configured", http.StatusInternalServerError)
			return
		}
		if err := h.validateToken(r.URL.Query().Get("token")); err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
	}

	upgrader := websocket.Upgrader{
		CheckOrigin:     h.checkOrigin,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Errorw("websocket upgrade failed", "error", err)
		return
	}

	sess := &Session{
		id:           ConnectionID(utils.GenerateConnectionID()),
		conn:         conn,
		send:         make(chan domain.Event, h.opts.SendBuffer),
		subscribedAt: time.Now(),
		hub:          h,
		done:         make(chan struct{}),
	}

	h.register(sess)
	defer func() {
		h.unregister(sess)
		sess.close()
	}()

	// Fresh snapshot on join; there is no event replay.
	if h.snapshot != nil {
		status := h.snapshot()
		sess.enqueue(domain.StatusChangedEvent(statusAsPatch(status)))
	}

	go sess.writePump()
	sess.readLoop()
}

func (s *Session) readLoop() {
	s.conn.SetReadDeadline(time.Now().Add(s.hub.opts.PongTimeout))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(s.hub.opts.PongTimeout))
		return nil
	})

	for {
		var msg inboundMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.hub.logger.Infow("observer read error", "connection_id", s.id, "error", err)
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(s.hub.opts.PongTimeout))

		if err := s.handleMessage(msg); err != nil {
			s.hub.logger.Infow("error handling observer message", "connection_id", s.id, "error", err)
			s.enqueue(domain.Event{Kind: "error", Payload: map[string]string{"message": err.Error()}})
		}
	}
}

func (s *Session) handleMessage(msg inboundMessage) error {
	switch msg.Type {
	case "status_update":
		var patch domain.StatusPatch
		if err := json.Unmarshal(msg.Payload, &patch); err != nil {
			return errInvalidPayload
		}
		if s.hub.updater == nil {
			return nil
		}
		// The update and its self-excluded rebroadcast both run inside the
		// command path's single-writer gate, so no other command's event can
		// land between them, and the payload carries the merged values.
		s.hub.updater(context.Background(), patch, func(event domain.Event) {
			s.hub.BroadcastExcept(s.id, event)
		})
		return nil
	default:
		return errUnknownMessage
	}
}

func (s *Session) writePump() {
	pingTicker := time.NewTicker(s.hub.opts.PingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case event, ok := <-s.send:
			if !ok {
				return
			}
			s.conn.SetWriteDeadline(time.Now().Add(s.hub.opts.WriteTimeout))
			if err := s.conn.WriteJSON(event); err != nil {
				s.hub.logger.Infow("observer write error", "connection_id", s.id, "error", err)
				s.close()
				return
			}

		case <-pingTicker.C:
			s.conn.SetWriteDeadline(time.Now().Add(s.hub.opts.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.close()
				return
			}

		case <-s.done:
			return
		}
	}
}

// enqueue reports whether the event made it into the session's send queue.
func (s *Session) enqueue(event domain.Event) bool {
	select {
	case s.send <- event:
		return true
	default:
		return false
	}
}

// close is idempotent.
func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

// closeSlow is close for sessions evicted by the broadcast path.
func (s *Session) closeSlow() {
	s.close()
	s.hub.metrics.RecordObserverUnsubscribed()
}

func statusAsPatch(st domain.CameraStatus) domain.StatusPatch {
	return domain.StatusPatch{
		Connected:  &st.Connected,
		Recording:  &st.Recording,
		Streaming:  &st.Streaming,
		Battery:    &st.Battery,
		Storage:    &st.Storage,
		Mode:       &st.Mode,
		Resolution: &st.Resolution,
		FPS:        &st.FPS,
	}
}
