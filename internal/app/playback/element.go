package playback

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrNoSource is returned when the element is asked to play without a source.
var ErrNoSource = errors.New("media element has no source")

// MediaElement is the playback surface the controller drives.
type MediaElement interface {
	// SetSource binds url; generation identifies the binding in the
	// element's event reports.
	SetSource(url string, generation uint64)
	SetDuration(seconds float64)
	Duration() float64
	CurrentTime() float64
	// SetCurrentTime moves the playhead, clamped to [0, Duration()].
	SetCurrentTime(seconds float64)
	Play() error
	Pause()
	SetVolume(v float64)
	SetMuted(muted bool)
}

// Fullscreen is the page-level fullscreen platform.
type Fullscreen interface {
	Request(containerID string) error
	Exit() error
}

// PlayerContainerID is the container the fullscreen request targets.
const PlayerContainerID = "player"

// CommandKind identifies an instruction for a remote element.
type CommandKind string

const (
	CommandSource CommandKind = "source"
	CommandPlay   CommandKind = "play"
	CommandPause  CommandKind = "pause"
	CommandSeek   CommandKind = "seek"
	CommandVolume CommandKind = "volume"
	CommandMuted  CommandKind = "muted"
)

// Command is an instruction forwarded to a remote element.
type Command struct {
	Kind       CommandKind
	Generation uint64 // Binding the command belongs to
	URL        string
	Time       float64
	Volume     float64
	Muted      bool
}

// VirtualElement mirrors a remote media element. Every change is forwarded
// to the sink as a Command.
type VirtualElement struct {
	mu          sync.Mutex
	src         string
	generation  uint64
	duration    float64
	currentTime float64
	paused      bool
	volume      float64
	muted       bool

	sink func(Command)
}

// NewVirtualElement creates an element forwarding commands to sink. A nil
// sink discards them.
func NewVirtualElement(sink func(Command)) *VirtualElement {
	if sink == nil {
		sink = func(Command) {}
	}
	return &VirtualElement{paused: true, volume: 1, sink: sink}
}

func (e *VirtualElement) SetSource(url string, generation uint64) {
	e.mu.Lock()
	e.src = url
	e.generation = generation
	e.duration = 0
	e.currentTime = 0
	e.paused = true
	e.mu.Unlock()

	e.sink(Command{Kind: CommandSource, Generation: generation, URL: url})
}

func (e *VirtualElement) SetDuration(seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.duration = max(seconds, 0)
	e.currentTime = min(e.currentTime, e.duration)
}

func (e *VirtualElement) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

func (e *VirtualElement) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentTime
}

func (e *VirtualElement) SetCurrentTime(seconds float64) {
	e.mu.Lock()
	e.currentTime = min(max(seconds, 0), e.duration)
	t, gen := e.currentTime, e.generation
	e.mu.Unlock()

	e.sink(Command{Kind: CommandSeek, Generation: gen, Time: t})
}

func (e *VirtualElement) Play() error {
	e.mu.Lock()
	if e.src == "" {
		e.mu.Unlock()
		return ErrNoSource
	}
	e.paused = false
	gen := e.generation
	e.mu.Unlock()

	e.sink(Command{Kind: CommandPlay, Generation: gen})
	return nil
}

func (e *VirtualElement) Pause() {
	e.mu.Lock()
	e.paused = true
	gen := e.generation
	e.mu.Unlock()

	e.sink(Command{Kind: CommandPause, Generation: gen})
}

func (e *VirtualElement) SetVolume(v float64) {
	e.mu.Lock()
	e.volume = v
	gen := e.generation
	e.mu.Unlock()

	e.sink(Command{Kind: CommandVolume, Generation: gen, Volume: v})
}

func (e *VirtualElement) SetMuted(muted bool) {
	e.mu.Lock()
	e.muted = muted
	gen := e.generation
	e.mu.Unlock()

	e.sink(Command{Kind: CommandMuted, Generation: gen, Muted: muted})
}

// Source returns the bound URL.
func (e *VirtualElement) Source() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.src
}

// Paused reports whether the element is paused.
func (e *VirtualElement) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Volume returns the element volume.
func (e *VirtualElement) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// Muted reports whether the element is muted.
func (e *VirtualElement) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}
