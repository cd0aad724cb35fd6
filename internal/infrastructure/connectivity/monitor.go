package connectivity

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/salesapp/client/internal/domain/offline"
)

// ProbeMonitor tracks connectivity by probing a reachability endpoint at a
// fixed interval. Subscribers are notified on every transition.
type ProbeMonitor struct {
	probeURL string
	interval time.Duration
	client   *http.Client
	logger   *zap.Logger

	online atomic.Bool

	mu          sync.Mutex
	subscribers map[int]func(online bool)
	nextID      int
}

var _ offline.Monitor = (*ProbeMonitor)(nil)

// NewProbeMonitor creates a monitor that probes the given URL. The monitor
// starts offline until the first successful probe.
func NewProbeMonitor(probeURL string, interval, timeout time.Duration, logger *zap.Logger) *ProbeMonitor {
	return &ProbeMonitor{
		probeURL:    probeURL,
		interval:    interval,
		client:      &http.Client{Timeout: timeout},
		logger:      logger.Named("connectivity"),
		subscribers: make(map[int]func(online bool)),
	}
}

// IsOnline returns the last observed connectivity state
func (m *ProbeMonitor) IsOnline() bool {
	return m.online.Load()
}

// Subscribe registers a callback for connectivity transitions. The returned
// function unsubscribes it.
func (m *ProbeMonitor) Subscribe(fn func(online bool)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subscribers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subscribers, id)
		m.mu.Unlock()
	}
}

// Start probes immediately and then on every interval tick until the context
// is cancelled. It blocks and is meant to run in its own goroutine.
func (m *ProbeMonitor) Start(ctx context.Context) {
	m.CheckNow(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckNow(ctx)
		}
	}
}

// CheckNow runs a single probe and publishes any state transition
func (m *ProbeMonitor) CheckNow(ctx context.Context) bool {
	online := m.probe(ctx)
	m.setOnline(online)
	return online
}

func (m *ProbeMonitor) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.probeURL, nil)
	if err != nil {
		return false
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}

func (m *ProbeMonitor) setOnline(online bool) {
	if m.online.Swap(online) == online {
		return
	}

	m.logger.Info("Connectivity changed", zap.Bool("online", online))

	m.mu.Lock()
	callbacks := make([]func(online bool), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		callbacks = append(callbacks, fn)
	}
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn(online)
	}
}
