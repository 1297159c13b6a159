package library

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

const idPrefix = "video-"

// IDGenerator issues "video-<unix ms>" IDs that strictly increase even when
// the clock repeats or goes backwards.
type IDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewIDGenerator creates a generator reading the given clock.
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns a fresh ID.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return idPrefix + strconv.FormatInt(ms, 10)
}

// Observe records an existing ID so later IDs never collide with it.
// IDs not issued by a generator are ignored.
func (g *IDGenerator) Observe(id string) {
	s, ok := strings.CutPrefix(id, idPrefix)
	if !ok {
		return
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if ms > g.last {
		g.last = ms
	}
}
