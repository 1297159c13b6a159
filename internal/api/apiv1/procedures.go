package apiv1

const (
	// LibraryServiceName is the fully-qualified name of the LibraryService service.
	LibraryServiceName = "vidshelf.v1.LibraryService"
	// PlayerServiceName is the fully-qualified name of the PlayerService service.
	PlayerServiceName = "vidshelf.v1.PlayerService"
	// PlannerServiceName is the fully-qualified name of the PlannerService service.
	PlannerServiceName = "vidshelf.v1.PlannerService"
)

const (
	LibraryServiceListVideosProcedure  = "/vidshelf.v1.LibraryService/ListVideos"
	LibraryServiceAddVideoProcedure    = "/vidshelf.v1.LibraryService/AddVideo"
	LibraryServiceRenameVideoProcedure = "/vidshelf.v1.LibraryService/RenameVideo"
	LibraryServiceRemoveVideoProcedure = "/vidshelf.v1.LibraryService/RemoveVideo"
	LibraryServiceSelectVideoProcedure = "/vidshelf.v1.LibraryService/SelectVideo"
)

const (
	PlayerServicePlayProcedure               = "/vidshelf.v1.PlayerService/Play"
	PlayerServicePauseProcedure              = "/vidshelf.v1.PlayerService/Pause"
	PlayerServiceSeekProcedure               = "/vidshelf.v1.PlayerService/Seek"
	PlayerServiceSetVolumeProcedure          = "/vidshelf.v1.PlayerService/SetVolume"
	PlayerServiceToggleMuteProcedure         = "/vidshelf.v1.PlayerService/ToggleMute"
	PlayerServiceToggleFullscreenProcedure   = "/vidshelf.v1.PlayerService/ToggleFullscreen"
	PlayerServiceSetBrightnessProcedure      = "/vidshelf.v1.PlayerService/SetBrightness"
	PlayerServiceClearProcedure              = "/vidshelf.v1.PlayerService/Clear"
	PlayerServiceResetProcedure              = "/vidshelf.v1.PlayerService/Reset"
	PlayerServiceReportElementEventProcedure = "/vidshelf.v1.PlayerService/ReportElementEvent"
	PlayerServiceGetStateProcedure           = "/vidshelf.v1.PlayerService/GetState"
	PlayerServiceWatchStateProcedure         = "/vidshelf.v1.PlayerService/WatchState"
)

const (
	PlannerServiceGetDayProcedure        = "/vidshelf.v1.PlannerService/GetDay"
	PlannerServiceGetWeekProcedure       = "/vidshelf.v1.PlannerService/GetWeek"
	PlannerServiceAddTaskProcedure       = "/vidshelf.v1.PlannerService/AddTask"
	PlannerServiceSetTaskDoneProcedure   = "/vidshelf.v1.PlannerService/SetTaskDone"
	PlannerServiceDeleteTaskProcedure    = "/vidshelf.v1.PlannerService/DeleteTask"
	PlannerServiceSetReflectionProcedure = "/vidshelf.v1.PlannerService/SetReflection"
	PlannerServiceAddLinkProcedure       = "/vidshelf.v1.PlannerService/AddLink"
	PlannerServiceDeleteLinkProcedure    = "/vidshelf.v1.PlannerService/DeleteLink"
	PlannerServiceAddNoteProcedure       = "/vidshelf.v1.PlannerService/AddNote"
	PlannerServiceUpdateNoteProcedure    = "/vidshelf.v1.PlannerService/UpdateNote"
	PlannerServiceDeleteNoteProcedure    = "/vidshelf.v1.PlannerService/DeleteNote"
)
