package connect

import (
	"context"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/vidshelf/internal/api/apiv1"
	"github.com/osa030/vidshelf/internal/app/playback"
	"github.com/osa030/vidshelf/internal/app/session"
)

// PlayerService implements the PlayerService RPC.
type PlayerService struct {
	session *session.Manager
}

// NewPlayerService creates a new PlayerService.
func NewPlayerService(session *session.Manager) *PlayerService {
	return &PlayerService{session: session}
}

// stateResponse runs op and answers with the resulting state.
func (s *PlayerService) stateResponse(op func() error) (*connect.Response[apiv1.PlayerStateResponse], error) {
	if err := op(); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&apiv1.PlayerStateResponse{State: s.session.State()}), nil
}

// Play starts playback.
func (s *PlayerService) Play(
	ctx context.Context,
	req *connect.Request[apiv1.Empty],
) (*connect.Response[apiv1.PlayerStateResponse], error) {
	return s.stateResponse(s.session.Play)
}

// Pause pauses playback.
func (s *PlayerService) Pause(
	ctx context.Context,
	req *connect.Request[apiv1.Empty],
) (*connect.Response[apiv1.PlayerStateResponse], error) {
	return s.stateResponse(s.session.Pause)
}

// Seek moves the playhead.
func (s *PlayerService) Seek(
	ctx context.Context,
	req *connect.Request[apiv1.SeekRequest],
) (*connect.Response[apiv1.PlayerStateResponse], error) {
	return s.stateResponse(func() error { return s.session.Seek(req.Msg.Fraction) })
}

// SetVolume sets the volume.
func (s *PlayerService) SetVolume(
	ctx context.Context,
	req *connect.Request[apiv1.SetVolumeRequest],
) (*connect.Response[apiv1.PlayerStateResponse], error) {
	return s.stateResponse(func() error { return s.session.SetVolume(req.Msg.Volume) })
}

// ToggleMute flips the mute flag.
func (s *PlayerService) ToggleMute(
	ctx context.Context,
	req *connect.Request[apiv1.Empty],
) (*connect.Response[apiv1.PlayerStateResponse], error) {
	return s.stateResponse(s.session.ToggleMute)
}

// ToggleFullscreen asks the watching page to change fullscreen.
func (s *PlayerService) ToggleFullscreen(
	ctx context.Context,
	req *connect.Request[apiv1.Empty],
) (*connect.Response[apiv1.PlayerStateResponse], error) {
	return s.stateResponse(s.session.ToggleFullscreen)
}

// SetBrightness sets the brightness filter.
func (s *PlayerService) SetBrightness(
	ctx context.Context,
	req *connect.Request[apiv1.SetBrightnessRequest],
) (*connect.Response[apiv1.PlayerStateResponse], error) {
	return s.stateResponse(func() error { return s.session.SetBrightness(req.Msg.Brightness) })
}

// Clear unbinds the current video.
func (s *PlayerService) Clear(
	ctx context.Context,
	req *connect.Request[apiv1.Empty],
) (*connect.Response[apiv1.PlayerStateResponse], error) {
	return s.stateResponse(s.session.Clear)
}

// Reset leaves the error state.
func (s *PlayerService) Reset(
	ctx context.Context,
	req *connect.Request[apiv1.Empty],
) (*connect.Response[apiv1.PlayerStateResponse], error) {
	return s.stateResponse(s.session.Reset)
}

// ReportElementEvent receives a media element event from the page.
func (s *PlayerService) ReportElementEvent(
	ctx context.Context,
	req *connect.Request[apiv1.ReportElementEventRequest],
) (*connect.Response[apiv1.ReportElementEventResponse], error) {
	t, ok := playback.ParseElementEventType(req.Msg.Type)
	if !ok {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.Newf("unknown element event %q", req.Msg.Type))
	}

	applied, err := s.session.ReportElementEvent(playback.ElementEvent{
		Type:        t,
		Generation:  req.Msg.Generation,
		Duration:    req.Msg.Duration,
		CurrentTime: req.Msg.CurrentTime,
		Message:     req.Msg.Message,
		Active:      req.Msg.Active,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&apiv1.ReportElementEventResponse{Applied: applied}), nil
}

// GetState returns the current state.
func (s *PlayerService) GetState(
	ctx context.Context,
	req *connect.Request[apiv1.Empty],
) (*connect.Response[apiv1.PlayerStateResponse], error) {
	return connect.NewResponse(&apiv1.PlayerStateResponse{State: s.session.State()}), nil
}

// WatchState streams the initial state followed by every notification.
// Notifications numbered below the initial state's sequence number predate
// it and can be ignored by the client.
func (s *PlayerService) WatchState(
	ctx context.Context,
	req *connect.Request[apiv1.WatchStateRequest],
	stream *connect.ServerStream[apiv1.Notification],
) error {
	notifManager := s.session.GetNotificationManager()

	adapter := &notificationStreamAdapter{stream: stream}
	subscriptionID := notifManager.Subscribe(adapter)
	defer notifManager.Unsubscribe(subscriptionID)

	initial := &apiv1.Notification{
		Type:       apiv1.NotificationTypeInitialState,
		SequenceNo: notifManager.NextSequenceNo(),
		State:      s.session.State(),
	}
	if err := notifManager.Send(subscriptionID, initial); err != nil {
		zlog.Debug().Msgf("watch: failed to send initial state: %v", err)
		return err
	}

	// Wait for context cancellation or session end
	select {
	case <-ctx.Done():
	case <-s.session.Done():
	}
	return nil
}

// notificationStreamAdapter adapts connect.ServerStream to notification.Stream.
type notificationStreamAdapter struct {
	stream *connect.ServerStream[apiv1.Notification]
}

func (a *notificationStreamAdapter) Send(notification *apiv1.Notification) error {
	return a.stream.Send(notification)
}
