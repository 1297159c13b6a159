package playback

// EventType represents a controller event type.
type EventType int

const (
	EventSourceChanged   EventType = iota // New source bound (or load failed)
	EventStateChanged                     // Transport state changed
	EventTimeUpdated                      // Current time or duration changed
	EventSettingsChanged                  // Volume, mute, brightness, fullscreen or name changed
	EventCleared                          // Source released, back to empty
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventSourceChanged:
		return "source_changed"
	case EventStateChanged:
		return "state_changed"
	case EventTimeUpdated:
		return "time_updated"
	case EventSettingsChanged:
		return "settings_changed"
	case EventCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Event represents a controller event.
type Event struct {
	Type     EventType
	Snapshot Snapshot // State after the change
}

// ElementEventType identifies a message reported by the media element.
type ElementEventType int

const (
	ElementLoadedMetadata ElementEventType = iota
	ElementTimeUpdate
	ElementPlaying
	ElementPause
	ElementEnded
	ElementError
	ElementFullscreenChange
)

var elementEventNames = map[ElementEventType]string{
	ElementLoadedMetadata:   "loadedmetadata",
	ElementTimeUpdate:       "timeupdate",
	ElementPlaying:          "playing",
	ElementPause:            "pause",
	ElementEnded:            "ended",
	ElementError:            "error",
	ElementFullscreenChange: "fullscreenchange",
}

// String returns the DOM event name.
func (e ElementEventType) String() string {
	if name, ok := elementEventNames[e]; ok {
		return name
	}
	return "unknown"
}

// ParseElementEventType parses a DOM event name.
func ParseElementEventType(name string) (ElementEventType, bool) {
	for t, n := range elementEventNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// ElementEvent is a message from the media element. Generation must echo the
// generation of the source the element was playing; fullscreen changes are
// page-level and carry none.
type ElementEvent struct {
	Type        ElementEventType
	Generation  uint64
	Duration    float64 // loadedmetadata, seconds
	CurrentTime float64 // timeupdate, seconds
	Message     string  // error
	Active      bool    // fullscreenchange
}

// Snapshot is the observable playback state.
type Snapshot struct {
	ActiveID     string
	DisplayName  string
	URL          string
	State        State
	IsPlaying    bool
	CurrentTime  float64
	Duration     float64
	Volume       float64
	IsMuted      bool
	Brightness   float64
	IsFullscreen bool
	Generation   uint64
	Error        string
}
