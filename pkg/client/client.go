package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"camdeck/internal/core/domain"

	"github.com/gorilla/websocket"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	writeTimeout            = 10 * time.Second
)

// Client maintains a live replica of the camera state over the push channel.
// All exported methods are safe for concurrent use.
type Client struct {
	conn *websocket.Conn

	mu    sync.RWMutex
	state State

	onChange func(State)

	writeMu sync.Mutex

	closeOnce sync.Once
	done      chan struct{}
}

// Dial connects to the push endpoint. token may be empty when the server does
// not require push auth.
func Dial(ctx context.Context, endpoint, token string) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}

	dialer := websocket.Dialer{HandshakeTimeout: defaultHandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial push channel: %w", err)
	}

	c := &Client{
		conn:  conn,
		state: InitialState(),
		done:  make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// OnChange registers a callback invoked after every applied event. Must be
// called before the first event arrives to observe all transitions.
func (c *Client) OnChange(fn func(State)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// State returns the current replica.
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// SendStatusUpdate pushes a client-originated patch to the server. The server
// applies it and rebroadcasts to every other observer; this client sees the
// change only through its own optimistic application.
func (c *Client) SendStatusUpdate(patch domain.StatusPatch) error {
	payload, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	msg := struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}{Type: "status_update", Payload: payload}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send status update: %w", err)
	}

	// Optimistic local application; the server will not echo it back.
	c.apply(func(s State) State { return applyStatus(s, patch) })
	return nil
}

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		err = c.conn.Close()
		close(c.done)
	})
	return err
}

func (c *Client) readLoop() {
	defer c.Close()

	first := true
	for {
		var ev RawEvent
		if err := c.conn.ReadJSON(&ev); err != nil {
			c.apply(func(s State) State { return Fail(s, err.Error()) })
			return
		}

		c.apply(func(s State) State {
			next, err := Reduce(s, ev)
			if err != nil {
				return Fail(s, err.Error())
			}
			if first {
				next = Loaded(next)
			}
			return next
		})
		first = false
	}
}

func (c *Client) apply(fn func(State) State) {
	c.mu.Lock()
	c.state = fn(c.state)
	next := c.state
	cb := c.onChange
	c.mu.Unlock()

	if cb != nil {
		cb(next)
	}
}
