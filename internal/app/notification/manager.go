// Package notification fans player notifications out to watchers.
package notification

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/vidshelf/internal/api/apiv1"
	"github.com/osa030/vidshelf/internal/infra/metrics"
)

// sendTimeout bounds how long one slow watcher can hold up a broadcast.
const sendTimeout = 500 * time.Millisecond

// Stream is the sending half of a watcher connection.
type Stream interface {
	Send(*apiv1.Notification) error
}

// Delivery reports the outcome of one broadcast.
type Delivery struct {
	Watchers int // watchers subscribed when the broadcast started
	Missed   int // watchers whose send failed or timed out
}

// Reached reports whether at least one watcher received the notification.
func (d Delivery) Reached() bool {
	return d.Watchers > d.Missed
}

type watcher struct {
	id     string
	stream Stream
	sendMu sync.Mutex // one send at a time per stream
}

// send delivers n within the timeout. A timed out send keeps running in the
// background and still holds sendMu until the stream returns.
func (w *watcher) send(n *apiv1.Notification, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result := make(chan error, 1)
	go func() {
		w.sendMu.Lock()
		defer w.sendMu.Unlock()
		result <- w.stream.Send(n)
	}()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Manager tracks watchers and numbers every notification it sends.
type Manager struct {
	mu       sync.RWMutex
	watchers map[string]*watcher
	seq      atomic.Uint64
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{watchers: make(map[string]*watcher)}
}

// Subscribe registers a stream and returns its subscription ID.
func (m *Manager) Subscribe(stream Stream) string {
	w := &watcher{id: uuid.New().String(), stream: stream}

	m.mu.Lock()
	m.watchers[w.id] = w
	m.mu.Unlock()

	zlog.Debug().Msgf("notification: subscribed: id=%s", w.id)
	return w.id
}

// Unsubscribe drops a subscription. Unknown IDs are ignored.
func (m *Manager) Unsubscribe(id string) {
	m.mu.Lock()
	delete(m.watchers, id)
	m.mu.Unlock()

	zlog.Debug().Msgf("notification: unsubscribed: id=%s", id)
}

// NextSequenceNo reserves the next sequence number.
func (m *Manager) NextSequenceNo() uint64 {
	return m.seq.Add(1)
}

// Broadcast numbers n and sends it to every watcher in parallel. Watchers
// that fail or do not accept it within sendTimeout miss it.
func (m *Manager) Broadcast(n *apiv1.Notification) Delivery {
	n.SequenceNo = m.NextSequenceNo()

	targets := m.snapshot()
	var missed atomic.Int64
	var wg sync.WaitGroup
	for _, w := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := w.send(n, sendTimeout)
			switch {
			case err == nil:
				return
			case errors.Is(err, context.DeadlineExceeded):
				metrics.IncNotificationDrop()
				zlog.Warn().Msgf("notification: send timed out: id=%s seq=%d", w.id, n.SequenceNo)
			default:
				zlog.Debug().Msgf("notification: send failed: id=%s err=%v", w.id, err)
			}
			missed.Add(1)
		}()
	}
	wg.Wait()

	return Delivery{Watchers: len(targets), Missed: int(missed.Load())}
}

// Send delivers n to one watcher without numbering it. Unknown IDs are
// ignored.
func (m *Manager) Send(id string, n *apiv1.Notification) error {
	m.mu.RLock()
	w, ok := m.watchers[id]
	m.mu.RUnlock()
	if !ok {
		return nil
	}

	w.sendMu.Lock()
	defer w.sendMu.Unlock()
	return w.stream.Send(n)
}

// SubscriberCount returns the number of watchers.
func (m *Manager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.watchers)
}

// Close drops every watcher.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.watchers)
}

func (m *Manager) snapshot() []*watcher {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*watcher, 0, len(m.watchers))
	for _, w := range m.watchers {
		out = append(out, w)
	}
	return out
}
