package cloud

import "sync"

// Status is the connection state of the broker session.
// Exactly one value is current at any time.
type Status string

// Status constants, in the order a healthy session moves through them.
const (
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusError        Status = "error"
	StatusDisconnected Status = "disconnected"
)

// StatusListener receives every status transition.
// Duplicate deliveries of the same status are possible and must be tolerated.
type StatusListener func(Status)

// StatusNotifier fans status transitions out to registered listeners so the
// session manager never needs to know who is watching (UI push, activity
// log, health endpoint).
//
// Listeners are invoked synchronously in registration order; they must not
// block. All methods are safe for concurrent use.
type StatusNotifier struct {
	mu        sync.RWMutex
	listeners []StatusListener
	current   Status
}

// NewStatusNotifier creates a notifier with the initial state Connecting.
func NewStatusNotifier() *StatusNotifier {
	return &StatusNotifier{current: StatusConnecting}
}

// Subscribe registers a listener for future transitions.
// Listeners cannot be removed; register for the process lifetime.
func (n *StatusNotifier) Subscribe(listener StatusListener) {
	if listener == nil {
		return
	}
	n.mu.Lock()
	n.listeners = append(n.listeners, listener)
	n.mu.Unlock()
}

// Notify records the new status and delivers it to every listener.
func (n *StatusNotifier) Notify(status Status) {
	n.mu.Lock()
	n.current = status
	listeners := make([]StatusListener, len(n.listeners))
	copy(listeners, n.listeners)
	n.mu.Unlock()

	for _, l := range listeners {
		l(status)
	}
}

// Current returns the most recently notified status.
func (n *StatusNotifier) Current() Status {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}
