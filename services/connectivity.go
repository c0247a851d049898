package services

import (
	"context"
	"log"
	"sync"
)

// Pinger reports whether the remote store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnectivityMonitor tracks Online/Offline against the report store. It is a
// passive signal source: transitions come from probe results and from
// submission outcomes, and the monitor itself never retries anything. The
// only side effect is firing the registered callbacks on the Offline→Online
// edge (the queue drain hook).
type ConnectivityMonitor struct {
	pinger Pinger

	mu       sync.Mutex
	online   bool
	onOnline []func()
}

// NewConnectivityMonitor starts in the given state; callers normally probe
// once at startup and pass the result.
func NewConnectivityMonitor(pinger Pinger, initialOnline bool) *ConnectivityMonitor {
	return &ConnectivityMonitor{
		pinger: pinger,
		online: initialOnline,
	}
}

func (m *ConnectivityMonitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// OnOnline registers a callback fired whenever the monitor transitions from
// Offline to Online. Callbacks run on their own goroutine and must be safe to
// invoke repeatedly — overlapping triggers self-correct because everything
// downstream recomputes from the current snapshot.
func (m *ConnectivityMonitor) OnOnline(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onOnline = append(m.onOnline, fn)
}

// MarkOnline records a reachable store, firing callbacks only on an actual
// transition.
func (m *ConnectivityMonitor) MarkOnline() {
	m.mu.Lock()
	wasOnline := m.online
	m.online = true
	callbacks := m.onOnline
	m.mu.Unlock()

	if wasOnline {
		return
	}
	log.Println("[CONNECTIVITY] report store reachable again")
	for _, fn := range callbacks {
		go fn()
	}
}

// MarkOffline records an unreachable store. Entering Offline has no proactive
// side effect — it only changes how the next submission is routed.
func (m *ConnectivityMonitor) MarkOffline() {
	m.mu.Lock()
	wasOnline := m.online
	m.online = false
	m.mu.Unlock()

	if wasOnline {
		log.Println("[CONNECTIVITY] report store unreachable, submissions will be queued")
	}
}

// Probe checks the store once and records the outcome.
func (m *ConnectivityMonitor) Probe(ctx context.Context) bool {
	if err := m.pinger.Ping(ctx); err != nil {
		m.MarkOffline()
		return false
	}
	m.MarkOnline()
	return true
}
