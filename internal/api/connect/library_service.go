package connect

import (
	"context"
	"strings"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"

	"github.com/osa030/vidshelf/internal/api/apiv1"
	"github.com/osa030/vidshelf/internal/app/library"
	"github.com/osa030/vidshelf/internal/app/session"
	"github.com/osa030/vidshelf/internal/i18n"
)

// LibraryService implements the LibraryService RPC.
type LibraryService struct {
	session *session.Manager
}

// NewLibraryService creates a new LibraryService.
func NewLibraryService(session *session.Manager) *LibraryService {
	return &LibraryService{session: session}
}

// catalog picks the message catalog for the caller's Accept-Language.
func catalog(s *session.Manager, header interface{ Get(string) string }) *i18n.Catalog {
	return i18n.For(i18n.MatchAcceptLanguage(header.Get("Accept-Language"), s.Locale()))
}

// ListVideos returns the library without content.
func (s *LibraryService) ListVideos(
	ctx context.Context,
	req *connect.Request[apiv1.ListVideosRequest],
) (*connect.Response[apiv1.ListVideosResponse], error) {
	videos, total := session.VideosFromRecords(s.session.ListVideos())
	return connect.NewResponse(&apiv1.ListVideosResponse{
		Videos:     videos,
		TotalBytes: total,
	}), nil
}

// AddVideo imports a file. Rejections are reported in the response, not as
// RPC errors.
func (s *LibraryService) AddVideo(
	ctx context.Context,
	req *connect.Request[apiv1.AddVideoRequest],
) (*connect.Response[apiv1.AddVideoResponse], error) {
	if strings.TrimSpace(req.Msg.FileName) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("file name is required"))
	}
	if len(req.Msg.Data) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("file is empty"))
	}

	msgs := catalog(s.session, req.Header())
	rec, err := s.session.AddVideo(ctx, req.Msg.FileName, req.Msg.Data)

	var dup *library.DuplicateError
	var rejected *library.RejectedError
	var persistence *library.PersistenceError
	var code string
	switch {
	case err == nil:
		return connect.NewResponse(&apiv1.AddVideoResponse{
			Success: true,
			Code:    "added",
			Message: msgs.VideoAdded,
			Video:   session.VideoFromRecord(rec),
		}), nil
	case errors.As(err, &dup):
		code = "duplicate"
	case errors.As(err, &rejected):
		code = rejected.Code
	case errors.As(err, &persistence):
		code = "persistence_failed"
	default:
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&apiv1.AddVideoResponse{
		Success: false,
		Code:    code,
		Message: msgs.Message(code),
	}), nil
}

// RenameVideo changes a video's display name.
func (s *LibraryService) RenameVideo(
	ctx context.Context,
	req *connect.Request[apiv1.RenameVideoRequest],
) (*connect.Response[apiv1.RenameVideoResponse], error) {
	rec, err := s.session.RenameVideo(ctx, req.Msg.Id, req.Msg.Name)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&apiv1.RenameVideoResponse{
		Video: session.VideoFromRecord(rec),
	}), nil
}

// RemoveVideo deletes a video.
func (s *LibraryService) RemoveVideo(
	ctx context.Context,
	req *connect.Request[apiv1.RemoveVideoRequest],
) (*connect.Response[apiv1.RemoveVideoResponse], error) {
	if err := s.session.RemoveVideo(ctx, req.Msg.Id); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&apiv1.RemoveVideoResponse{
		Message: catalog(s.session, req.Header()).VideoRemoved,
	}), nil
}

// SelectVideo binds a video to the player.
func (s *LibraryService) SelectVideo(
	ctx context.Context,
	req *connect.Request[apiv1.SelectVideoRequest],
) (*connect.Response[apiv1.PlayerStateResponse], error) {
	if err := s.session.SelectVideo(req.Msg.Id); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&apiv1.PlayerStateResponse{State: s.session.State()}), nil
}
