// Package apiv1 defines the vidshelf.v1 RPC messages, procedure names and
// typed clients. Messages travel as JSON.
package apiv1

import "time"

// NotificationType identifies the payload of a Notification.
type NotificationType string

const (
	NotificationTypeInitialState NotificationType = "initial_state"
	NotificationTypeChangeState  NotificationType = "change_state"
	NotificationTypeElement      NotificationType = "element_command"
	NotificationTypeFullscreen   NotificationType = "fullscreen_command"
	NotificationTypeToast        NotificationType = "toast"
)

// Video is a library entry without its content bytes.
type Video struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	FileName  string    `json:"fileName"`
	MimeType  string    `json:"mimeType"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// PlayerState is the observable snapshot of the library and the player.
type PlayerState struct {
	Playlist     []*Video `json:"playlist"`
	ActiveId     *string  `json:"activeId"`
	DisplayName  string   `json:"displayName,omitempty"`
	Url          string   `json:"url,omitempty"`
	State        string   `json:"state"`
	IsPlaying    bool     `json:"isPlaying"`
	CurrentTime  float64  `json:"currentTime"`
	Duration     float64  `json:"duration"`
	Volume       float64  `json:"volume"`
	IsMuted      bool     `json:"isMuted"`
	Brightness   float64  `json:"brightness"`
	IsFullscreen bool     `json:"isFullscreen"`
	Generation   uint64   `json:"generation"`
	Error        string   `json:"error,omitempty"`
}

// ElementCommand instructs a remote media element.
type ElementCommand struct {
	Kind       string  `json:"kind"`
	Url        string  `json:"url,omitempty"`
	Time       float64 `json:"time,omitempty"`
	Volume     float64 `json:"volume,omitempty"`
	Muted      bool    `json:"muted,omitempty"`
	Generation uint64  `json:"generation"`
}

// FullscreenCommand asks the page to enter or leave fullscreen.
type FullscreenCommand struct {
	Action      string `json:"action"` // "request" or "exit"
	ContainerId string `json:"containerId,omitempty"`
}

// Toast is a localized user-facing message.
type Toast struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Notification is one message on the WatchState stream.
type Notification struct {
	SequenceNo uint64             `json:"sequenceNo"`
	Type       NotificationType   `json:"type"`
	State      *PlayerState       `json:"state,omitempty"`
	Command    *ElementCommand    `json:"command,omitempty"`
	Fullscreen *FullscreenCommand `json:"fullscreen,omitempty"`
	Toast      *Toast             `json:"toast,omitempty"`
}

// LibraryService messages

type ListVideosRequest struct{}

type ListVideosResponse struct {
	Videos     []*Video `json:"videos"`
	TotalBytes int64    `json:"totalBytes"`
}

type AddVideoRequest struct {
	FileName string `json:"fileName"`
	Data     []byte `json:"data"`
}

type AddVideoResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Video   *Video `json:"video,omitempty"`
}

type RenameVideoRequest struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type RenameVideoResponse struct {
	Video *Video `json:"video"`
}

type RemoveVideoRequest struct {
	Id string `json:"id"`
}

type RemoveVideoResponse struct {
	Message string `json:"message"`
}

type SelectVideoRequest struct {
	Id string `json:"id"`
}

// PlayerService messages

type Empty struct{}

type SeekRequest struct {
	Fraction float64 `json:"fraction"`
}

type SetVolumeRequest struct {
	Volume float64 `json:"volume"`
}

type SetBrightnessRequest struct {
	Brightness float64 `json:"brightness"`
}

type ReportElementEventRequest struct {
	Type        string  `json:"type"`
	Generation  uint64  `json:"generation"`
	Duration    float64 `json:"duration,omitempty"`
	CurrentTime float64 `json:"currentTime,omitempty"`
	Message     string  `json:"message,omitempty"`
	Active      bool    `json:"active,omitempty"`
}

type ReportElementEventResponse struct {
	Applied bool `json:"applied"`
}

type PlayerStateResponse struct {
	State *PlayerState `json:"state"`
}

type WatchStateRequest struct{}

// PlannerService messages

type Task struct {
	Id        string    `json:"id"`
	Date      string    `json:"date"`
	Title     string    `json:"title"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"createdAt"`
}

type Link struct {
	Id        string    `json:"id"`
	Title     string    `json:"title"`
	Url       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

type Note struct {
	Id        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Day struct {
	Date       string  `json:"date"`
	Tasks      []*Task `json:"tasks"`
	Reflection string  `json:"reflection"`
}

type GetDayRequest struct {
	Date string `json:"date"` // YYYY-MM-DD; empty means today
}

type GetDayResponse struct {
	Day   *Day    `json:"day"`
	Links []*Link `json:"links"`
	Notes []*Note `json:"notes"`
}

type GetWeekRequest struct {
	Date string `json:"date"` // any day of the week
}

type GetWeekResponse struct {
	Start string `json:"start"`
	Days  []*Day `json:"days"`
}

type AddTaskRequest struct {
	Date  string `json:"date"`
	Title string `json:"title"`
}

type TaskResponse struct {
	Task *Task `json:"task"`
}

type SetTaskDoneRequest struct {
	Id   string `json:"id"`
	Done bool   `json:"done"`
}

type DeleteRequest struct {
	Id string `json:"id"`
}

type SetReflectionRequest struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

type AddLinkRequest struct {
	Title string `json:"title"`
	Url   string `json:"url"`
}

type LinkResponse struct {
	Link *Link `json:"link"`
}

type AddNoteRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type UpdateNoteRequest struct {
	Id    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

type NoteResponse struct {
	Note *Note `json:"note"`
}
