// Package playback provides the transport state machine bound to one media
// element and one object URL lease.
package playback

// State represents the playback state.
type State int

const (
	StateEmpty   State = iota // No source bound
	StateLoading              // Source bound, waiting for metadata
	StateReady                // Metadata loaded, never started
	StatePlaying              // Playing
	StatePaused               // Paused or ended
	StateError                // Element failed to load or play the source
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// canSeek reports whether the transport accepts seek and play requests.
func (s State) canSeek() bool {
	return s == StateReady || s == StatePlaying || s == StatePaused
}
