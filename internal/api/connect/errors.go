package connect

import (
	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"

	"github.com/osa030/vidshelf/internal/app/library"
	"github.com/osa030/vidshelf/internal/app/planner"
	"github.com/osa030/vidshelf/internal/app/playback"
	"github.com/osa030/vidshelf/internal/app/session"
)

// toConnectError maps domain errors to RPC codes.
func toConnectError(err error) error {
	if err == nil {
		return nil
	}

	var persistence *library.PersistenceError
	switch {
	case errors.Is(err, library.ErrNotFound), errors.Is(err, planner.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, library.ErrInvalidName),
		errors.Is(err, playback.ErrInvalidVolume),
		errors.Is(err, playback.ErrInvalidBrightness),
		errors.Is(err, planner.ErrInvalid):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, playback.ErrNotReady),
		errors.Is(err, playback.ErrNotPlaying),
		errors.Is(err, playback.ErrNotInError),
		errors.Is(err, playback.ErrFullscreenUnavailable):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, playback.ErrClosed), errors.Is(err, session.ErrSessionClosed):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.As(err, &persistence):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
