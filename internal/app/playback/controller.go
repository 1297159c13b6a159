package playback

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/vidshelf/internal/app/objecturl"
	"github.com/osa030/vidshelf/internal/domain/video"
	"github.com/osa030/vidshelf/internal/infra/metrics"
)

// Errors
var (
	ErrNotReady              = errors.New("no playable source")
	ErrNotPlaying            = errors.New("not playing")
	ErrNotInError            = errors.New("player is not in error state")
	ErrInvalidVolume         = errors.New("volume must be between 0 and 1")
	ErrInvalidBrightness     = errors.New("brightness must be between 0 and 2")
	ErrStaleEvent            = errors.New("event belongs to a previous source")
	ErrFullscreenUnavailable = errors.New("fullscreen is not available")
	ErrClosed                = errors.New("controller is closed")
)

const (
	defaultBrightness = 1.0
	maxBrightness     = 2.0
	errLoadTimeout    = "load timed out"
)

// Minter hands out object URL leases.
type Minter interface {
	Mint(blob video.Blob) (*objecturl.Lease, error)
}

// Config holds controller configuration.
type Config struct {
	InitialVolume   float64       // Volume before any SetVolume call
	LoadTimeout     time.Duration // Loading longer than this moves to Error; 0 disables
	EventBufferSize int           // Event channel capacity
}

// Controller is the transport state machine for one media element. It owns
// at most one object URL lease at a time.
type Controller struct {
	mu sync.RWMutex

	element    MediaElement
	minter     Minter
	fullscreen Fullscreen

	// Source
	lease       *objecturl.Lease
	activeID    string
	displayName string
	generation  uint64

	// Transport
	state        State
	isPlaying    bool
	currentTime  float64
	duration     float64
	volume       float64
	isMuted      bool
	brightness   float64
	isFullscreen bool
	lastError    string

	// Timer
	loadTimerCancel func()

	// Configuration
	config Config

	// Events
	eventCh chan Event

	// Context
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// NewController creates a new playback controller. fullscreen may be nil.
func NewController(config Config, element MediaElement, minter Minter, fullscreen Fullscreen) *Controller {
	if config.EventBufferSize <= 0 {
		config.EventBufferSize = 32
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		element:    element,
		minter:     minter,
		fullscreen: fullscreen,
		state:      StateEmpty,
		volume:     config.InitialVolume,
		isMuted:    config.InitialVolume == 0,
		brightness: defaultBrightness,
		config:     config,
		eventCh:    make(chan Event, config.EventBufferSize),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Events returns the event channel. It is closed by Close.
func (c *Controller) Events() <-chan Event {
	return c.eventCh
}

// SelectSource binds a record to the element. The previous lease is released
// before the new URL is minted.
func (c *Controller) SelectSource(rec video.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	c.generation++
	c.stopLoadTimerLocked()
	c.releaseLeaseLocked()

	lease, err := c.minter.Mint(rec.Blob())
	if err != nil {
		c.resetSourceLocked()
		c.setStateLocked(StateEmpty)
		c.sendEventLocked(EventSourceChanged)
		return errors.Wrapf(err, "failed to mint url for %s", rec.ID)
	}

	c.lease = lease
	c.activeID = rec.ID
	c.displayName = rec.Name
	c.isPlaying = false
	c.currentTime = 0
	c.duration = 0
	c.lastError = ""
	c.element.SetSource(lease.URL(), c.generation)
	c.setStateLocked(StateLoading)

	if c.config.LoadTimeout > 0 {
		gen := c.generation
		c.loadTimerCancel = c.startWallClockTimer(c.config.LoadTimeout, func() {
			c.mu.Lock()
			defer c.mu.Unlock()

			c.loadTimerCancel = nil
			if c.closed || c.generation != gen || c.state != StateLoading {
				return
			}
			zlog.Warn().Msgf("playback: load timed out: id=%s timeout=%v", c.activeID, c.config.LoadTimeout)
			c.lastError = errLoadTimeout
			c.setStateLocked(StateError)
			c.sendEventLocked(EventStateChanged)
		})
	}

	zlog.Info().Msgf("playback: source selected: id=%s name=%s generation=%d", rec.ID, rec.Name, c.generation)
	c.sendEventLocked(EventSourceChanged)
	return nil
}

// HandleEvent applies a media element message. Messages tagged with an older
// generation are dropped with ErrStaleEvent.
func (c *Controller) HandleEvent(ev ElementEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	// Page-level; the only writer of isFullscreen
	if ev.Type == ElementFullscreenChange {
		if c.isFullscreen != ev.Active {
			c.isFullscreen = ev.Active
			c.sendEventLocked(EventSettingsChanged)
		}
		return nil
	}

	if c.lease == nil || ev.Generation != c.generation {
		metrics.IncStaleEvent()
		zlog.Debug().Msgf("playback: stale event dropped: type=%s generation=%d current=%d",
			ev.Type, ev.Generation, c.generation)
		return ErrStaleEvent
	}

	switch ev.Type {
	case ElementLoadedMetadata:
		c.element.SetDuration(sanitize(ev.Duration))
		c.duration = c.element.Duration()
		c.currentTime = min(c.currentTime, c.duration)
		c.element.SetVolume(c.volume)
		c.element.SetMuted(c.isMuted)
		if c.state == StateLoading {
			c.stopLoadTimerLocked()
			c.setStateLocked(StateReady)
			c.sendEventLocked(EventStateChanged)
		} else {
			c.sendEventLocked(EventTimeUpdated)
		}

	case ElementTimeUpdate:
		c.currentTime = min(max(sanitize(ev.CurrentTime), 0), c.duration)
		c.sendEventLocked(EventTimeUpdated)

	case ElementPlaying:
		if c.state.canSeek() && c.state != StatePlaying {
			c.isPlaying = true
			c.setStateLocked(StatePlaying)
			c.sendEventLocked(EventStateChanged)
		}

	case ElementPause:
		if c.state == StatePlaying {
			c.isPlaying = false
			c.setStateLocked(StatePaused)
			c.sendEventLocked(EventStateChanged)
		}

	case ElementEnded:
		if !c.state.canSeek() {
			return nil
		}
		c.isPlaying = false
		c.currentTime = c.duration
		c.setStateLocked(StatePaused)
		c.sendEventLocked(EventStateChanged)

	case ElementError:
		c.stopLoadTimerLocked()
		c.isPlaying = false
		c.lastError = ev.Message
		c.setStateLocked(StateError)
		zlog.Warn().Msgf("playback: element error: id=%s message=%s", c.activeID, ev.Message)
		c.sendEventLocked(EventStateChanged)
	}
	return nil
}

// Play starts or resumes playback. Playing is a no-op.
func (c *Controller) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	// If already playing, do nothing
	if c.state == StatePlaying {
		return nil
	}
	if c.state != StateReady && c.state != StatePaused {
		return ErrNotReady
	}

	if err := c.element.Play(); err != nil {
		return errors.Wrap(err, "element refused to play")
	}
	c.isPlaying = true
	c.setStateLocked(StatePlaying)
	c.sendEventLocked(EventStateChanged)
	return nil
}

// Pause pauses playback.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.state != StatePlaying {
		return ErrNotPlaying
	}

	c.element.Pause()
	c.isPlaying = false
	c.setStateLocked(StatePaused)
	c.sendEventLocked(EventStateChanged)
	return nil
}

// Seek moves the playhead to fraction of the duration. The fraction is
// clamped to [0, 1]; the state is unchanged.
func (c *Controller) Seek(fraction float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if !c.state.canSeek() {
		return ErrNotReady
	}

	fraction = min(max(sanitize(fraction), 0), 1)
	c.element.SetCurrentTime(fraction * c.duration)
	c.currentTime = c.element.CurrentTime()
	c.sendEventLocked(EventTimeUpdated)
	return nil
}

// SetVolume sets the volume. Zero mutes; anything else unmutes.
func (c *Controller) SetVolume(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return ErrInvalidVolume
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	c.volume = v
	c.isMuted = v == 0
	c.element.SetVolume(v)
	c.element.SetMuted(c.isMuted)
	c.sendEventLocked(EventSettingsChanged)
	return nil
}

// ToggleMute flips the mute flag. The volume is untouched.
func (c *Controller) ToggleMute() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	c.isMuted = !c.isMuted
	c.element.SetMuted(c.isMuted)
	c.sendEventLocked(EventSettingsChanged)
	return nil
}

// SetBrightness sets the presentation brightness filter.
func (c *Controller) SetBrightness(b float64) error {
	if math.IsNaN(b) || b < 0 || b > maxBrightness {
		return ErrInvalidBrightness
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	c.brightness = b
	c.sendEventLocked(EventSettingsChanged)
	return nil
}

// ToggleFullscreen asks the platform to enter or leave fullscreen. The flag
// itself only changes when the platform reports a fullscreenchange.
func (c *Controller) ToggleFullscreen() error {
	c.mu.RLock()
	closed, active, platform := c.closed, c.isFullscreen, c.fullscreen
	c.mu.RUnlock()

	if closed {
		return ErrClosed
	}
	if platform == nil {
		return ErrFullscreenUnavailable
	}

	if active {
		return errors.Wrap(platform.Exit(), "exit fullscreen")
	}
	return errors.Wrap(platform.Request(PlayerContainerID), "request fullscreen")
}

// UpdateDisplayName changes the name shown for the active record without
// reloading the source. Returns false when id is not active.
func (c *Controller) UpdateDisplayName(id, name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.lease == nil || c.activeID != id {
		return false
	}
	c.displayName = name
	c.sendEventLocked(EventSettingsChanged)
	return true
}

// ActiveID returns the ID of the bound record, or "" when empty.
func (c *Controller) ActiveID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.activeID
}

// GetState returns the current playback state.
func (c *Controller) GetState() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Snapshot returns the observable state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// Clear releases the source and returns to Empty. Volume, mute and the
// fullscreen flag are kept; brightness goes back to its default.
func (c *Controller) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.clearLocked()
	return nil
}

// Reset leaves the Error state the same way Clear does.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.state != StateError {
		return ErrNotInError
	}
	c.clearLocked()
	return nil
}

// Close releases the lease and closes the event channel.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.stopLoadTimerLocked()
	c.releaseLeaseLocked()
	c.closed = true
	c.cancel()
	close(c.eventCh)
}

func (c *Controller) clearLocked() {
	c.generation++
	c.stopLoadTimerLocked()
	c.releaseLeaseLocked()
	c.resetSourceLocked()
	c.element.Pause()
	c.element.SetSource("", c.generation)
	c.brightness = defaultBrightness
	c.setStateLocked(StateEmpty)
	zlog.Info().Msgf("playback: cleared: generation=%d", c.generation)
	c.sendEventLocked(EventCleared)
}

func (c *Controller) resetSourceLocked() {
	c.activeID = ""
	c.displayName = ""
	c.isPlaying = false
	c.currentTime = 0
	c.duration = 0
	c.lastError = ""
}

// releaseLeaseLocked revokes the current URL, if any.
func (c *Controller) releaseLeaseLocked() {
	if c.lease == nil {
		return
	}
	if err := c.lease.Release(); err != nil {
		zlog.Error().Msgf("playback: failed to release url: %v", err)
	}
	c.lease = nil
}

func (c *Controller) setStateLocked(s State) {
	if c.state == s {
		return
	}
	zlog.Debug().Msgf("playback: state %s -> %s", c.state, s)
	c.state = s
	metrics.IncPlaybackTransition(s.String())
}

func (c *Controller) stopLoadTimerLocked() {
	if c.loadTimerCancel != nil {
		c.loadTimerCancel()
		c.loadTimerCancel = nil
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		ActiveID:     c.activeID,
		DisplayName:  c.displayName,
		State:        c.state,
		IsPlaying:    c.isPlaying,
		CurrentTime:  c.currentTime,
		Duration:     c.duration,
		Volume:       c.volume,
		IsMuted:      c.isMuted,
		Brightness:   c.brightness,
		IsFullscreen: c.isFullscreen,
		Generation:   c.generation,
		Error:        c.lastError,
	}
	if c.lease != nil {
		s.URL = c.lease.URL()
	}
	return s
}

// sendEventLocked sends an event without blocking.
// Must be called with lock held.
func (c *Controller) sendEventLocked(t EventType) {
	select {
	case c.eventCh <- Event{Type: t, Snapshot: c.snapshotLocked()}:
		// Successfully sent
	case <-c.ctx.Done():
		// Context cancelled, don't send
	default:
		zlog.Warn().Msgf("playback: event channel full, dropping %s", t)
	}
}

// startWallClockTimer starts a timer that triggers callback after duration, using wall clock.
// Returns a cancel function.
func (c *Controller) startWallClockTimer(duration time.Duration, callback func()) func() {
	ctx, cancel := context.WithCancel(c.ctx)

	go func() {
		endTime := toWallTime(time.Now()).Add(duration)
		ticker := time.NewTicker(tickInterval(duration))
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !toWallTime(time.Now()).Before(endTime) {
					callback()
					return
				}
			}
		}
	}()

	return cancel
}

// tickInterval polls at most every 100ms, more often for short timers.
func tickInterval(d time.Duration) time.Duration {
	return min(max(d/10, time.Millisecond), 100*time.Millisecond)
}

// toWallTime returns the time with monotonic clock stripped.
func toWallTime(t time.Time) time.Time {
	return time.Unix(t.Unix(), int64(t.Nanosecond()))
}

// sanitize maps NaN and infinities reported by elements to 0.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
