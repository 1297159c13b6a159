package apiv1

import (
	"context"

	"connectrpc.com/connect"
)

// LibraryServiceClient is a client for the vidshelf.v1.LibraryService service.
type LibraryServiceClient struct {
	listVideos  *connect.Client[ListVideosRequest, ListVideosResponse]
	addVideo    *connect.Client[AddVideoRequest, AddVideoResponse]
	renameVideo *connect.Client[RenameVideoRequest, RenameVideoResponse]
	removeVideo *connect.Client[RemoveVideoRequest, RemoveVideoResponse]
	selectVideo *connect.Client[SelectVideoRequest, PlayerStateResponse]
}

// NewLibraryServiceClient constructs a client for the LibraryService service.
// The JSON codec is always installed.
func NewLibraryServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LibraryServiceClient {
	opts = append([]connect.ClientOption{WithCodec()}, opts...)
	return &LibraryServiceClient{
		listVideos:  connect.NewClient[ListVideosRequest, ListVideosResponse](httpClient, baseURL+LibraryServiceListVideosProcedure, opts...),
		addVideo:    connect.NewClient[AddVideoRequest, AddVideoResponse](httpClient, baseURL+LibraryServiceAddVideoProcedure, opts...),
		renameVideo: connect.NewClient[RenameVideoRequest, RenameVideoResponse](httpClient, baseURL+LibraryServiceRenameVideoProcedure, opts...),
		removeVideo: connect.NewClient[RemoveVideoRequest, RemoveVideoResponse](httpClient, baseURL+LibraryServiceRemoveVideoProcedure, opts...),
		selectVideo: connect.NewClient[SelectVideoRequest, PlayerStateResponse](httpClient, baseURL+LibraryServiceSelectVideoProcedure, opts...),
	}
}

// ListVideos calls vidshelf.v1.LibraryService.ListVideos.
func (c *LibraryServiceClient) ListVideos(ctx context.Context, req *connect.Request[ListVideosRequest]) (*connect.Response[ListVideosResponse], error) {
	return c.listVideos.CallUnary(ctx, req)
}

// AddVideo calls vidshelf.v1.LibraryService.AddVideo.
func (c *LibraryServiceClient) AddVideo(ctx context.Context, req *connect.Request[AddVideoRequest]) (*connect.Response[AddVideoResponse], error) {
	return c.addVideo.CallUnary(ctx, req)
}

// RenameVideo calls vidshelf.v1.LibraryService.RenameVideo.
func (c *LibraryServiceClient) RenameVideo(ctx context.Context, req *connect.Request[RenameVideoRequest]) (*connect.Response[RenameVideoResponse], error) {
	return c.renameVideo.CallUnary(ctx, req)
}

// RemoveVideo calls vidshelf.v1.LibraryService.RemoveVideo.
func (c *LibraryServiceClient) RemoveVideo(ctx context.Context, req *connect.Request[RemoveVideoRequest]) (*connect.Response[RemoveVideoResponse], error) {
	return c.removeVideo.CallUnary(ctx, req)
}

// SelectVideo calls vidshelf.v1.LibraryService.SelectVideo.
func (c *LibraryServiceClient) SelectVideo(ctx context.Context, req *connect.Request[SelectVideoRequest]) (*connect.Response[PlayerStateResponse], error) {
	return c.selectVideo.CallUnary(ctx, req)
}

// PlayerServiceClient is a client for the vidshelf.v1.PlayerService service.
type PlayerServiceClient struct {
	play               *connect.Client[Empty, PlayerStateResponse]
	pause              *connect.Client[Empty, PlayerStateResponse]
	seek               *connect.Client[SeekRequest, PlayerStateResponse]
	setVolume          *connect.Client[SetVolumeRequest, PlayerStateResponse]
	toggleMute         *connect.Client[Empty, PlayerStateResponse]
	toggleFullscreen   *connect.Client[Empty, PlayerStateResponse]
	setBrightness      *connect.Client[SetBrightnessRequest, PlayerStateResponse]
	clear              *connect.Client[Empty, PlayerStateResponse]
	reset              *connect.Client[Empty, PlayerStateResponse]
	reportElementEvent *connect.Client[ReportElementEventRequest, ReportElementEventResponse]
	getState           *connect.Client[Empty, PlayerStateResponse]
	watchState         *connect.Client[WatchStateRequest, Notification]
}

// NewPlayerServiceClient constructs a client for the PlayerService service.
func NewPlayerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PlayerServiceClient {
	opts = append([]connect.ClientOption{WithCodec()}, opts...)
	return &PlayerServiceClient{
		play:               connect.NewClient[Empty, PlayerStateResponse](httpClient, baseURL+PlayerServicePlayProcedure, opts...),
		pause:              connect.NewClient[Empty, PlayerStateResponse](httpClient, baseURL+PlayerServicePauseProcedure, opts...),
		seek:               connect.NewClient[SeekRequest, PlayerStateResponse](httpClient, baseURL+PlayerServiceSeekProcedure, opts...),
		setVolume:          connect.NewClient[SetVolumeRequest, PlayerStateResponse](httpClient, baseURL+PlayerServiceSetVolumeProcedure, opts...),
		toggleMute:         connect.NewClient[Empty, PlayerStateResponse](httpClient, baseURL+PlayerServiceToggleMuteProcedure, opts...),
		toggleFullscreen:   connect.NewClient[Empty, PlayerStateResponse](httpClient, baseURL+PlayerServiceToggleFullscreenProcedure, opts...),
		setBrightness:      connect.NewClient[SetBrightnessRequest, PlayerStateResponse](httpClient, baseURL+PlayerServiceSetBrightnessProcedure, opts...),
		clear:              connect.NewClient[Empty, PlayerStateResponse](httpClient, baseURL+PlayerServiceClearProcedure, opts...),
		reset:              connect.NewClient[Empty, PlayerStateResponse](httpClient, baseURL+PlayerServiceResetProcedure, opts...),
		reportElementEvent: connect.NewClient[ReportElementEventRequest, ReportElementEventResponse](httpClient, baseURL+PlayerServiceReportElementEventProcedure, opts...),
		getState:           connect.NewClient[Empty, PlayerStateResponse](httpClient, baseURL+PlayerServiceGetStateProcedure, opts...),
		watchState:         connect.NewClient[WatchStateRequest, Notification](httpClient, baseURL+PlayerServiceWatchStateProcedure, opts...),
	}
}

// Play calls vidshelf.v1.PlayerService.Play.
func (c *PlayerServiceClient) Play(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[PlayerStateResponse], error) {
	return c.play.CallUnary(ctx, req)
}

// Pause calls vidshelf.v1.PlayerService.Pause.
func (c *PlayerServiceClient) Pause(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[PlayerStateResponse], error) {
	return c.pause.CallUnary(ctx, req)
}

// Seek calls vidshelf.v1.PlayerService.Seek.
func (c *PlayerServiceClient) Seek(ctx context.Context, req *connect.Request[SeekRequest]) (*connect.Response[PlayerStateResponse], error) {
	return c.seek.CallUnary(ctx, req)
}

// SetVolume calls vidshelf.v1.PlayerService.SetVolume.
func (c *PlayerServiceClient) SetVolume(ctx context.Context, req *connect.Request[SetVolumeRequest]) (*connect.Response[PlayerStateResponse], error) {
	return c.setVolume.CallUnary(ctx, req)
}

// ToggleMute calls vidshelf.v1.PlayerService.ToggleMute.
func (c *PlayerServiceClient) ToggleMute(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[PlayerStateResponse], error) {
	return c.toggleMute.CallUnary(ctx, req)
}

// ToggleFullscreen calls vidshelf.v1.PlayerService.ToggleFullscreen.
func (c *PlayerServiceClient) ToggleFullscreen(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[PlayerStateResponse], error) {
	return c.toggleFullscreen.CallUnary(ctx, req)
}

// SetBrightness calls vidshelf.v1.PlayerService.SetBrightness.
func (c *PlayerServiceClient) SetBrightness(ctx context.Context, req *connect.Request[SetBrightnessRequest]) (*connect.Response[PlayerStateResponse], error) {
	return c.setBrightness.CallUnary(ctx, req)
}

// Clear calls vidshelf.v1.PlayerService.Clear.
func (c *PlayerServiceClient) Clear(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[PlayerStateResponse], error) {
	return c.clear.CallUnary(ctx, req)
}

// Reset calls vidshelf.v1.PlayerService.Reset.
func (c *PlayerServiceClient) Reset(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[PlayerStateResponse], error) {
	return c.reset.CallUnary(ctx, req)
}

// ReportElementEvent calls vidshelf.v1.PlayerService.ReportElementEvent.
func (c *PlayerServiceClient) ReportElementEvent(ctx context.Context, req *connect.Request[ReportElementEventRequest]) (*connect.Response[ReportElementEventResponse], error) {
	return c.reportElementEvent.CallUnary(ctx, req)
}

// GetState calls vidshelf.v1.PlayerService.GetState.
func (c *PlayerServiceClient) GetState(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[PlayerStateResponse], error) {
	return c.getState.CallUnary(ctx, req)
}

// WatchState calls vidshelf.v1.PlayerService.WatchState.
func (c *PlayerServiceClient) WatchState(ctx context.Context, req *connect.Request[WatchStateRequest]) (*connect.ServerStreamForClient[Notification], error) {
	return c.watchState.CallServerStream(ctx, req)
}

// PlannerServiceClient is a client for the vidshelf.v1.PlannerService service.
type PlannerServiceClient struct {
	getDay        *connect.Client[GetDayRequest, GetDayResponse]
	getWeek       *connect.Client[GetWeekRequest, GetWeekResponse]
	addTask       *connect.Client[AddTaskRequest, TaskResponse]
	setTaskDone   *connect.Client[SetTaskDoneRequest, TaskResponse]
	deleteTask    *connect.Client[DeleteRequest, Empty]
	setReflection *connect.Client[SetReflectionRequest, GetDayResponse]
	addLink       *connect.Client[AddLinkRequest, LinkResponse]
	deleteLink    *connect.Client[DeleteRequest, Empty]
	addNote       *connect.Client[AddNoteRequest, NoteResponse]
	updateNote    *connect.Client[UpdateNoteRequest, NoteResponse]
	deleteNote    *connect.Client[DeleteRequest, Empty]
}

// NewPlannerServiceClient constructs a client for the PlannerService service.
func NewPlannerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PlannerServiceClient {
	opts = append([]connect.ClientOption{WithCodec()}, opts...)
	return &PlannerServiceClient{
		getDay:        connect.NewClient[GetDayRequest, GetDayResponse](httpClient, baseURL+PlannerServiceGetDayProcedure, opts...),
		getWeek:       connect.NewClient[GetWeekRequest, GetWeekResponse](httpClient, baseURL+PlannerServiceGetWeekProcedure, opts...),
		addTask:       connect.NewClient[AddTaskRequest, TaskResponse](httpClient, baseURL+PlannerServiceAddTaskProcedure, opts...),
		setTaskDone:   connect.NewClient[SetTaskDoneRequest, TaskResponse](httpClient, baseURL+PlannerServiceSetTaskDoneProcedure, opts...),
		deleteTask:    connect.NewClient[DeleteRequest, Empty](httpClient, baseURL+PlannerServiceDeleteTaskProcedure, opts...),
		setReflection: connect.NewClient[SetReflectionRequest, GetDayResponse](httpClient, baseURL+PlannerServiceSetReflectionProcedure, opts...),
		addLink:       connect.NewClient[AddLinkRequest, LinkResponse](httpClient, baseURL+PlannerServiceAddLinkProcedure, opts...),
		deleteLink:    connect.NewClient[DeleteRequest, Empty](httpClient, baseURL+PlannerServiceDeleteLinkProcedure, opts...),
		addNote:       connect.NewClient[AddNoteRequest, NoteResponse](httpClient, baseURL+PlannerServiceAddNoteProcedure, opts...),
		updateNote:    connect.NewClient[UpdateNoteRequest, NoteResponse](httpClient, baseURL+PlannerServiceUpdateNoteProcedure, opts...),
		deleteNote:    connect.NewClient[DeleteRequest, Empty](httpClient, baseURL+PlannerServiceDeleteNoteProcedure, opts...),
	}
}

// GetDay calls vidshelf.v1.PlannerService.GetDay.
func (c *PlannerServiceClient) GetDay(ctx context.Context, req *connect.Request[GetDayRequest]) (*connect.Response[GetDayResponse], error) {
	return c.getDay.CallUnary(ctx, req)
}

// GetWeek calls vidshelf.v1.PlannerService.GetWeek.
func (c *PlannerServiceClient) GetWeek(ctx context.Context, req *connect.Request[GetWeekRequest]) (*connect.Response[GetWeekResponse], error) {
	return c.getWeek.CallUnary(ctx, req)
}

// AddTask calls vidshelf.v1.PlannerService.AddTask.
func (c *PlannerServiceClient) AddTask(ctx context.Context, req *connect.Request[AddTaskRequest]) (*connect.Response[TaskResponse], error) {
	return c.addTask.CallUnary(ctx, req)
}

// SetTaskDone calls vidshelf.v1.PlannerService.SetTaskDone.
func (c *PlannerServiceClient) SetTaskDone(ctx context.Context, req *connect.Request[SetTaskDoneRequest]) (*connect.Response[TaskResponse], error) {
	return c.setTaskDone.CallUnary(ctx, req)
}

// DeleteTask calls vidshelf.v1.PlannerService.DeleteTask.
func (c *PlannerServiceClient) DeleteTask(ctx context.Context, req *connect.Request[DeleteRequest]) (*connect.Response[Empty], error) {
	return c.deleteTask.CallUnary(ctx, req)
}

// SetReflection calls vidshelf.v1.PlannerService.SetReflection.
func (c *PlannerServiceClient) SetReflection(ctx context.Context, req *connect.Request[SetReflectionRequest]) (*connect.Response[GetDayResponse], error) {
	return c.setReflection.CallUnary(ctx, req)
}

// AddLink calls vidshelf.v1.PlannerService.AddLink.
func (c *PlannerServiceClient) AddLink(ctx context.Context, req *connect.Request[AddLinkRequest]) (*connect.Response[LinkResponse], error) {
	return c.addLink.CallUnary(ctx, req)
}

// DeleteLink calls vidshelf.v1.PlannerService.DeleteLink.
func (c *PlannerServiceClient) DeleteLink(ctx context.Context, req *connect.Request[DeleteRequest]) (*connect.Response[Empty], error) {
	return c.deleteLink.CallUnary(ctx, req)
}

// AddNote calls vidshelf.v1.PlannerService.AddNote.
func (c *PlannerServiceClient) AddNote(ctx context.Context, req *connect.Request[AddNoteRequest]) (*connect.Response[NoteResponse], error) {
	return c.addNote.CallUnary(ctx, req)
}

// UpdateNote calls vidshelf.v1.PlannerService.UpdateNote.
func (c *PlannerServiceClient) UpdateNote(ctx context.Context, req *connect.Request[UpdateNoteRequest]) (*connect.Response[NoteResponse], error) {
	return c.updateNote.CallUnary(ctx, req)
}

// DeleteNote calls vidshelf.v1.PlannerService.DeleteNote.
func (c *PlannerServiceClient) DeleteNote(ctx context.Context, req *connect.Request[DeleteRequest]) (*connect.Response[Empty], error) {
	return c.deleteNote.CallUnary(ctx, req)
}
