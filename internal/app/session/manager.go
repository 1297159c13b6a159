// Package session provides the session manager: one library, one object URL
// broker and one playback controller wired together.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/vidshelf/internal/api/apiv1"
	"github.com/osa030/vidshelf/internal/app/filter"
	"github.com/osa030/vidshelf/internal/app/library"
	"github.com/osa030/vidshelf/internal/app/notification"
	"github.com/osa030/vidshelf/internal/app/objecturl"
	"github.com/osa030/vidshelf/internal/app/playback"
	"github.com/osa030/vidshelf/internal/domain/video"
	"github.com/osa030/vidshelf/internal/i18n"
	"github.com/osa030/vidshelf/internal/infra/blobstore"
	"github.com/osa030/vidshelf/internal/infra/config"
	"github.com/osa030/vidshelf/internal/infra/metrics"
)

var ErrSessionClosed = errors.New("session is closed")

// commandBufferSize bounds element commands waiting for broadcast.
const commandBufferSize = 64

// Manager manages the library and its playback session.
type Manager struct {
	// Serializes select and remove so a removed record is never bound
	mu sync.Mutex

	// Configuration
	config *config.Config
	locale i18n.Locale

	// Components
	library      *library.Manager
	broker       *objecturl.Broker
	element      *playback.VirtualElement
	playback     *playback.Controller
	notification *notification.Manager

	// Channels
	commands chan playback.Command
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}

	startOnce sync.Once
	closeOnce sync.Once
}

// NewManager creates a session manager over the store. The store is owned
// by the caller.
func NewManager(cfg *config.Config, store blobstore.Store) (*Manager, error) {
	chain, err := filter.BuildChain(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build filter chain")
	}

	locale, ok := i18n.ParseLocale(cfg.I18n.DefaultLocale)
	if !ok {
		zlog.Warn().Msgf("session: unknown locale %q, using %s", cfg.I18n.DefaultLocale, locale)
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		config:       cfg,
		locale:       locale,
		library:      library.NewManager(store, chain),
		broker:       objecturl.NewBroker(cfg.Server.PublicBaseURL),
		notification: notification.NewManager(),
		commands:     make(chan playback.Command, commandBufferSize),
		ctx:          ctx,
		cancel:       cancel,
		done:         make(chan struct{}),
	}
	m.element = playback.NewVirtualElement(m.forwardCommand)
	m.playback = playback.NewController(playback.Config{
		InitialVolume:   cfg.Playback.InitialVolume,
		LoadTimeout:     time.Duration(cfg.Playback.LoadTimeoutMs) * time.Millisecond,
		EventBufferSize: cfg.Playback.EventBufferSize,
	}, m.element, m.broker, fullscreenPlatform{m.notification})

	return m, nil
}

// Start loads the library and starts the event loop.
func (m *Manager) Start(ctx context.Context) error {
	if err := m.library.Load(ctx); err != nil {
		return err
	}
	m.startOnce.Do(func() {
		go m.eventLoop()
	})
	zlog.Info().Msgf("session: started: videos=%d locale=%s", m.library.Count(), m.locale)
	return nil
}

// Close tears the session down: the active URL is released, every live URL
// revoked and all watchers dropped.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		m.cancel()
		m.playback.Close()
		if err := m.broker.Close(); err != nil {
			zlog.Debug().Msgf("session: broker close: %v", err)
		}
		m.notification.Close()

		// A session that never started has no loop to wait for
		m.startOnce.Do(func() { close(m.done) })
		<-m.done
		zlog.Info().Msg("session: closed")
	})
}

// Library returns the library manager.
func (m *Manager) Library() *library.Manager {
	return m.library
}

// Broker returns the object URL broker.
func (m *Manager) Broker() *objecturl.Broker {
	return m.broker
}

// GetNotificationManager returns the notification manager.
func (m *Manager) GetNotificationManager() *notification.Manager {
	return m.notification
}

// Catalog returns the default message catalog.
func (m *Manager) Catalog() *i18n.Catalog {
	return i18n.For(m.locale)
}

// Locale returns the default locale.
func (m *Manager) Locale() i18n.Locale {
	return m.locale
}

// ListVideos returns the library.
func (m *Manager) ListVideos() []video.Record {
	return m.library.List()
}

// AddVideo imports a file. Unless playback.keep_selection_on_import is set
// and something is already bound, the new video is selected.
func (m *Manager) AddVideo(ctx context.Context, fileName string, data []byte) (video.Record, error) {
	if err := m.ctx.Err(); err != nil {
		return video.Record{}, ErrSessionClosed
	}

	rec, err := m.library.Add(ctx, fileName, data)
	if err != nil {
		return video.Record{}, err
	}

	if state := m.bindAdded(rec); state != nil {
		m.publishState(state)
	}
	return rec, nil
}

// bindAdded selects a freshly added record under the session lock. It
// returns the state to announce when the controller does not announce it.
func (m *Manager) bindAdded(rec video.Record) *apiv1.PlayerState {
	m.mu.Lock()
	defer m.mu.Unlock()

	// A remove may have run between the library add and taking the lock
	if _, ok := m.library.Get(rec.ID); !ok {
		zlog.Debug().Msgf("session: added video removed before selection: id=%s", rec.ID)
		return m.State()
	}
	if m.config.Playback.KeepSelection && m.playback.ActiveID() != "" {
		return m.State()
	}
	if err := m.playback.SelectSource(rec); err != nil {
		// The record is in the library; only binding failed
		zlog.Error().Msgf("session: failed to select imported video %s: %v", rec.ID, err)
		return m.State()
	}
	return nil
}

// ImportVideo adds a file without touching the selection and announces it
// to watchers.
func (m *Manager) ImportVideo(ctx context.Context, fileName string, data []byte) (video.Record, error) {
	if err := m.ctx.Err(); err != nil {
		return video.Record{}, ErrSessionClosed
	}

	rec, err := m.library.Add(ctx, fileName, data)
	if err != nil {
		return video.Record{}, err
	}

	m.broadcastState()
	m.notification.Broadcast(&apiv1.Notification{
		Type:  apiv1.NotificationTypeToast,
		Toast: &apiv1.Toast{Code: "imported", Message: fmt.Sprintf("%s (%s)", m.Catalog().ImportedFromFolder, rec.Name)},
	})
	return rec, nil
}

// RenameVideo renames a video. When it is the bound one, the displayed name
// follows without reloading the source.
func (m *Manager) RenameVideo(ctx context.Context, id, name string) (video.Record, error) {
	rec, err := m.library.Rename(ctx, id, name)
	if err != nil {
		return video.Record{}, err
	}

	if !m.playback.UpdateDisplayName(rec.ID, rec.Name) {
		m.broadcastState()
	}
	return rec, nil
}

// RemoveVideo deletes a video. Removing the bound video clears the player.
func (m *Manager) RemoveVideo(ctx context.Context, id string) error {
	state, err := m.removeVideo(ctx, id)
	if state != nil {
		m.publishState(state)
	}
	return err
}

// removeVideo deletes under the session lock. It returns the state to
// announce when the controller does not announce it.
func (m *Manager) removeVideo(ctx context.Context, id string) (*apiv1.PlayerState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.library.Remove(ctx, id); err != nil {
		return nil, err
	}

	if m.playback.ActiveID() == id {
		zlog.Info().Msgf("session: removed video was active, clearing: id=%s", id)
		return nil, m.playback.Clear()
	}
	return m.State(), nil
}

// SelectVideo binds a library video to the player.
func (m *Manager) SelectVideo(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.library.Get(id)
	if !ok {
		return errors.Wrapf(library.ErrNotFound, "select %s", id)
	}
	return m.playback.SelectSource(rec)
}

// Play starts playback.
func (m *Manager) Play() error {
	return m.playback.Play()
}

// Pause pauses playback.
func (m *Manager) Pause() error {
	return m.playback.Pause()
}

// Seek moves the playhead to a fraction of the duration.
func (m *Manager) Seek(fraction float64) error {
	return m.playback.Seek(fraction)
}

// SetVolume sets the volume.
func (m *Manager) SetVolume(v float64) error {
	return m.playback.SetVolume(v)
}

// ToggleMute flips the mute flag.
func (m *Manager) ToggleMute() error {
	return m.playback.ToggleMute()
}

// ToggleFullscreen asks watchers to enter or leave fullscreen.
func (m *Manager) ToggleFullscreen() error {
	return m.playback.ToggleFullscreen()
}

// SetBrightness sets the brightness filter.
func (m *Manager) SetBrightness(b float64) error {
	return m.playback.SetBrightness(b)
}

// Clear unbinds the current video.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playback.Clear()
}

// Reset leaves the error state.
func (m *Manager) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playback.Reset()
}

// ReportElementEvent feeds a media element message to the controller.
// Messages about a superseded source are not applied and are not an error.
func (m *Manager) ReportElementEvent(ev playback.ElementEvent) (bool, error) {
	err := m.playback.HandleEvent(ev)
	if errors.Is(err, playback.ErrStaleEvent) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Snapshot returns the playback snapshot.
func (m *Manager) Snapshot() playback.Snapshot {
	return m.playback.Snapshot()
}

// State returns the observable state of the library and player.
func (m *Manager) State() *apiv1.PlayerState {
	return BuildPlayerState(m.library.List(), m.playback.Snapshot())
}

// eventLoop broadcasts controller events and element commands.
func (m *Manager) eventLoop() {
	defer close(m.done)
	defer func() {
		if r := recover(); r != nil {
			zlog.Error().Msgf("session: event loop panicked: %v", r)
		}
	}()

	events := m.playback.Events()
	for {
		select {
		case <-m.ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			m.handlePlaybackEvent(event)
		case cmd := <-m.commands:
			d := m.notification.Broadcast(&apiv1.Notification{
				Type:    apiv1.NotificationTypeElement,
				Command: buildElementCommand(cmd),
			})
			if d.Missed > 0 {
				// Those pages resync from the next change_state
				zlog.Debug().Msgf("session: %s missed by %d of %d watchers", cmd.Kind, d.Missed, d.Watchers)
			}
		}
	}
}

func (m *Manager) handlePlaybackEvent(event playback.Event) {
	zlog.Debug().Msgf("session: playback event: type=%s state=%s", event.Type, event.Snapshot.State)

	if event.Type == playback.EventStateChanged && event.Snapshot.State == playback.StateError {
		m.notification.Broadcast(&apiv1.Notification{
			Type:  apiv1.NotificationTypeToast,
			Toast: &apiv1.Toast{Code: "load_failed", Message: m.Catalog().LoadFailed},
		})
	}

	m.notification.Broadcast(&apiv1.Notification{
		Type:  apiv1.NotificationTypeChangeState,
		State: BuildPlayerState(m.library.List(), event.Snapshot),
	})
}

// broadcastState announces a library change the controller does not see.
func (m *Manager) broadcastState() {
	m.publishState(m.State())
}

// publishState broadcasts a state built earlier. Callers must not hold mu.
func (m *Manager) publishState(state *apiv1.PlayerState) {
	m.notification.Broadcast(&apiv1.Notification{
		Type:  apiv1.NotificationTypeChangeState,
		State: state,
	})
}

// forwardCommand is the element sink. It runs under the controller lock and
// must not block.
func (m *Manager) forwardCommand(cmd playback.Command) {
	select {
	case m.commands <- cmd:
	default:
		metrics.IncNotificationDrop()
		zlog.Warn().Msgf("session: command buffer full, dropping %s", cmd.Kind)
	}
}

// fullscreenPlatform asks watching pages to change fullscreen. The pages
// report the result as a fullscreenchange element event.
type fullscreenPlatform struct {
	notification *notification.Manager
}

func (p fullscreenPlatform) Request(containerID string) error {
	if p.notification.SubscriberCount() == 0 {
		return playback.ErrFullscreenUnavailable
	}
	d := p.notification.Broadcast(&apiv1.Notification{
		Type:       apiv1.NotificationTypeFullscreen,
		Fullscreen: &apiv1.FullscreenCommand{Action: "request", ContainerId: containerID},
	})
	if !d.Reached() {
		return playback.ErrFullscreenUnavailable
	}
	return nil
}

func (p fullscreenPlatform) Exit() error {
	p.notification.Broadcast(&apiv1.Notification{
		Type:       apiv1.NotificationTypeFullscreen,
		Fullscreen: &apiv1.FullscreenCommand{Action: "exit"},
	})
	return nil
}

// Done is closed when the session is closed.
func (m *Manager) Done() <-chan struct{} {
	return m.ctx.Done()
}
