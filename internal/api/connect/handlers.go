package connect

import (
	"net/http"

	"connectrpc.com/connect"

	"github.com/osa030/vidshelf/internal/api/apiv1"
)

// handlerOptions prepends the JSON codec to opts.
func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{apiv1.WithCodec()}, opts...)
}

// NewLibraryServiceHandler builds an HTTP handler for the LibraryService.
// It returns the path on which to mount the handler and the handler itself.
func NewLibraryServiceHandler(svc *LibraryService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(apiv1.LibraryServiceListVideosProcedure, connect.NewUnaryHandler(apiv1.LibraryServiceListVideosProcedure, svc.ListVideos, opts...))
	mux.Handle(apiv1.LibraryServiceAddVideoProcedure, connect.NewUnaryHandler(apiv1.LibraryServiceAddVideoProcedure, svc.AddVideo, opts...))
	mux.Handle(apiv1.LibraryServiceRenameVideoProcedure, connect.NewUnaryHandler(apiv1.LibraryServiceRenameVideoProcedure, svc.RenameVideo, opts...))
	mux.Handle(apiv1.LibraryServiceRemoveVideoProcedure, connect.NewUnaryHandler(apiv1.LibraryServiceRemoveVideoProcedure, svc.RemoveVideo, opts...))
	mux.Handle(apiv1.LibraryServiceSelectVideoProcedure, connect.NewUnaryHandler(apiv1.LibraryServiceSelectVideoProcedure, svc.SelectVideo, opts...))
	return "/" + apiv1.LibraryServiceName + "/", mux
}

// NewPlayerServiceHandler builds an HTTP handler for the PlayerService.
func NewPlayerServiceHandler(svc *PlayerService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(apiv1.PlayerServicePlayProcedure, connect.NewUnaryHandler(apiv1.PlayerServicePlayProcedure, svc.Play, opts...))
	mux.Handle(apiv1.PlayerServicePauseProcedure, connect.NewUnaryHandler(apiv1.PlayerServicePauseProcedure, svc.Pause, opts...))
	mux.Handle(apiv1.PlayerServiceSeekProcedure, connect.NewUnaryHandler(apiv1.PlayerServiceSeekProcedure, svc.Seek, opts...))
	mux.Handle(apiv1.PlayerServiceSetVolumeProcedure, connect.NewUnaryHandler(apiv1.PlayerServiceSetVolumeProcedure, svc.SetVolume, opts...))
	mux.Handle(apiv1.PlayerServiceToggleMuteProcedure, connect.NewUnaryHandler(apiv1.PlayerServiceToggleMuteProcedure, svc.ToggleMute, opts...))
	mux.Handle(apiv1.PlayerServiceToggleFullscreenProcedure, connect.NewUnaryHandler(apiv1.PlayerServiceToggleFullscreenProcedure, svc.ToggleFullscreen, opts...))
	mux.Handle(apiv1.PlayerServiceSetBrightnessProcedure, connect.NewUnaryHandler(apiv1.PlayerServiceSetBrightnessProcedure, svc.SetBrightness, opts...))
	mux.Handle(apiv1.PlayerServiceClearProcedure, connect.NewUnaryHandler(apiv1.PlayerServiceClearProcedure, svc.Clear, opts...))
	mux.Handle(apiv1.PlayerServiceResetProcedure, connect.NewUnaryHandler(apiv1.PlayerServiceResetProcedure, svc.Reset, opts...))
	mux.Handle(apiv1.PlayerServiceReportElementEventProcedure, connect.NewUnaryHandler(apiv1.PlayerServiceReportElementEventProcedure, svc.ReportElementEvent, opts...))
	mux.Handle(apiv1.PlayerServiceGetStateProcedure, connect.NewUnaryHandler(apiv1.PlayerServiceGetStateProcedure, svc.GetState, opts...))
	mux.Handle(apiv1.PlayerServiceWatchStateProcedure, connect.NewServerStreamHandler(apiv1.PlayerServiceWatchStateProcedure, svc.WatchState, opts...))
	return "/" + apiv1.PlayerServiceName + "/", mux
}

// NewPlannerServiceHandler builds an HTTP handler for the PlannerService.
func NewPlannerServiceHandler(svc *PlannerService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(apiv1.PlannerServiceGetDayProcedure, connect.NewUnaryHandler(apiv1.PlannerServiceGetDayProcedure, svc.GetDay, opts...))
	mux.Handle(apiv1.PlannerServiceGetWeekProcedure, connect.NewUnaryHandler(apiv1.PlannerServiceGetWeekProcedure, svc.GetWeek, opts...))
	mux.Handle(apiv1.PlannerServiceAddTaskProcedure, connect.NewUnaryHandler(apiv1.PlannerServiceAddTaskProcedure, svc.AddTask, opts...))
	mux.Handle(apiv1.PlannerServiceSetTaskDoneProcedure, connect.NewUnaryHandler(apiv1.PlannerServiceSetTaskDoneProcedure, svc.SetTaskDone, opts...))
	mux.Handle(apiv1.PlannerServiceDeleteTaskProcedure, connect.NewUnaryHandler(apiv1.PlannerServiceDeleteTaskProcedure, svc.DeleteTask, opts...))
	mux.Handle(apiv1.PlannerServiceSetReflectionProcedure, connect.NewUnaryHandler(apiv1.PlannerServiceSetReflectionProcedure, svc.SetReflection, opts...))
	mux.Handle(apiv1.PlannerServiceAddLinkProcedure, connect.NewUnaryHandler(apiv1.PlannerServiceAddLinkProcedure, svc.AddLink, opts...))
	mux.Handle(apiv1.PlannerServiceDeleteLinkProcedure, connect.NewUnaryHandler(apiv1.PlannerServiceDeleteLinkProcedure, svc.DeleteLink, opts...))
	mux.Handle(apiv1.PlannerServiceAddNoteProcedure, connect.NewUnaryHandler(apiv1.PlannerServiceAddNoteProcedure, svc.AddNote, opts...))
	mux.Handle(apiv1.PlannerServiceUpdateNoteProcedure, connect.NewUnaryHandler(apiv1.PlannerServiceUpdateNoteProcedure, svc.UpdateNote, opts...))
	mux.Handle(apiv1.PlannerServiceDeleteNoteProcedure, connect.NewUnaryHandler(apiv1.PlannerServiceDeleteNoteProcedure, svc.DeleteNote, opts...))
	return "/" + apiv1.PlannerServiceName + "/", mux
}

// Mounter is the subset of a router the services are mounted on, such as
// chi.Router.
type Mounter interface {
	Mount(pattern string, handler http.Handler)
}

// Register mounts every service on r. A nil planner is not served.
func Register(r Mounter, library *LibraryService, player *PlayerService, planner *PlannerService, opts ...connect.HandlerOption) {
	r.Mount(NewLibraryServiceHandler(library, opts...))
	r.Mount(NewPlayerServiceHandler(player, opts...))
	if planner != nil {
		r.Mount(NewPlannerServiceHandler(planner, opts...))
	}
}
