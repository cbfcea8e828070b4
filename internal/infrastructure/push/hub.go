package push

import (
	"context"
	"sync"
	"time"

	"camdeck/internal/core/domain"
	"camdeck/internal/infrastructure/monitoring"

	"go.uber.org/zap"
)

// ConnectionID identifies one push-channel subscription.
type ConnectionID string

// Options carries the push-channel tunables.
type Options struct {
	PingInterval time.Duration
	PongTimeout  time.Duration
	WriteTimeout time.Duration
	SendBuffer   int
	RequireAuth  bool
	// AllowedOrigins gates the upgrade's Origin check. Empty or containing
	// "*" admits every origin; non-browser clients without an Origin header
	// always pass.
	AllowedOrigins []string
}

func DefaultOptions() Options {
	return Options{
		PingInterval:   30 * time.Second,
		PongTimeout:    60 * time.Second,
		WriteTimeout:   10 * time.Second,
		SendBuffer:     64,
		RequireAuth:    false,
		AllowedOrigins: []string{"*"},
	}
}

// Hub is the broadcast channel: it fans every emitted event out to all
// currently subscribed observers. Enqueueing to all sessions happens under a
// single lock, so every observer sees events in the same relative order they
// were emitted. There is no replay; a late joiner only receives a fresh
// status snapshot and subsequent events.
type Hub struct {
	opts Options

	mu       sync.RWMutex
	sessions map[ConnectionID]*Session

	// snapshot supplies the fresh status pushed to a newly subscribed
	// observer.
	snapshot func() domain.CameraStatus
	// updater feeds client-originated status updates through the command
	// path's single-writer gate and invokes the supplied rebroadcast inside
	// it with the event the other observers should see.
	updater func(ctx context.Context, patch domain.StatusPatch, rebroadcast func(domain.Event)) domain.CameraStatus
	// validateToken gates subscription when RequireAuth is set.
	validateToken func(token string) error

	metrics *monitoring.PrometheusCollector
	logger  *zap.SugaredLogger
}

func NewHub(opts Options, metrics *monitoring.PrometheusCollector, logger *zap.SugaredLogger) *Hub {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = DefaultOptions().SendBuffer
	}
	return &Hub{
		opts:     opts,
		sessions: make(map[ConnectionID]*Session),
		metrics:  metrics,
		logger:   logger,
	}
}

// SetSnapshot installs the status source used for the on-join push.
func (h *Hub) SetSnapshot(fn func() domain.CameraStatus) {
	h.snapshot = fn
}

// SetUpdater installs the command-path entry point for client-originated
// status updates.
func (h *Hub) SetUpdater(fn func(ctx context.Context, patch domain.StatusPatch, rebroadcast func(domain.Event)) domain.CameraStatus) {
	h.updater = fn
}

// SetTokenValidator installs the token check used when RequireAuth is set.
func (h *Hub) SetTokenValidator(fn func(token string) error) {
	h.validateToken = fn
}

// Broadcast delivers event to every currently subscribed observer, the
// originator of the triggering command included. The hub lock is the
// serializing gate: two concurrent broadcasts cannot interleave their
// per-observer enqueues.
func (h *Hub) Broadcast(event domain.Event) {
	h.mu.Lock()
	reached := 0
	for id, sess := range h.sessions {
		if sess.enqueue(event) {
			reached++
			continue
		}
		// Slow consumer: its queue is full, drop the session rather than
		// stall the command path.
		delete(h.sessions, id)
		go sess.closeSlow()
		h.logger.Warnw("dropping slow observer", "connection_id", id)
	}
	h.mu.Unlock()

	h.metrics.RecordBroadcast(event.Kind, reached)
}

// BroadcastExcept is Broadcast minus one observer. It backs client-originated
// status updates, which are rebroadcast to every observer except their
// origin.
func (h *Hub) BroadcastExcept(origin ConnectionID, event domain.Event) {
	h.mu.Lock()
	reached := 0
	for id, sess := range h.sessions {
		if id == origin {
			continue
		}
		if sess.enqueue(event) {
			reached++
			continue
		}
		delete(h.sessions, id)
		go sess.closeSlow()
		h.logger.Warnw("dropping slow observer", "connection_id", id)
	}
	h.mu.Unlock()

	h.metrics.RecordBroadcast(event.Kind, reached)
}

func (h *Hub) register(sess *Session) {
	h.mu.Lock()
	h.sessions[sess.id] = sess
	h.mu.Unlock()

	h.metrics.RecordObserverSubscribed()
	h.logger.Infow("observer subscribed", "connection_id", sess.id)
}

// unregister is idempotent and never blocks command processing: it only
// touches the session map.
func (h *Hub) unregister(sess *Session) {
	h.mu.Lock()
	_, present := h.sessions[sess.id]
	if present {
		delete(h.sessions, sess.id)
	}
	h.mu.Unlock()

	if present {
		h.metrics.RecordObserverUnsubscribed()
		h.logger.Infow("observer unsubscribed", "connection_id", sess.id)
	}
}

// ObserverCount reports the number of currently subscribed observers.
func (h *Hub) ObserverCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}
