package main

import "errors"

// Playback status values as reported by the backends.
const (
	StatusPlaying = "Playing"
	StatusPaused  = "Paused"
	StatusStopped = "Stopped"
	StatusUnknown = "Unknown"
)

// Command is a transport command dispatched to a MediaSource.
type Command int

const (
	CmdPlay Command = iota
	CmdPause
	CmdNext
	CmdPrevious
)

// PlaybackInfo is a full snapshot of the current track. It is rebuilt
// wholesale on every refresh, never partially mutated. DurationMs is
// always at least 1 so progress-ratio math stays defined.
type PlaybackInfo struct {
	Status     string
	Title      string
	Artist     string
	Album      string
	PositionMs int64
	DurationMs int64
}

// Remaining returns duration minus position. A negative value means the
// backend reported a position past the known duration, which drives the
// indeterminate progress animation.
func (p PlaybackInfo) Remaining() int64 {
	return p.DurationMs - p.PositionMs
}

// neutralInfo is what a transient query failure degrades to. The render
// and control layers treat these fields as placeholders, not errors.
func neutralInfo() PlaybackInfo {
	return PlaybackInfo{
		Status:     StatusPaused,
		PositionMs: 0,
		DurationMs: 1,
	}
}

// Sentinel conditions surfaced by Refresh. Anything else a backend hits
// is absorbed into a neutral snapshot.
var (
	errNoPlayer     = errors.New("no active player")
	errNotConnected = errors.New("device not connected")
)

// MediaSource abstracts a playback backend: the local media-control
// daemon or a remote device reachable over the system bus.
type MediaSource interface {
	// Refresh returns a fresh snapshot. It returns errNoPlayer or
	// errNotConnected when the backend is unavailable; transient query
	// failures yield a neutral snapshot and a nil error.
	Refresh() (PlaybackInfo, error)

	// SendCommand issues a transport command. Synchronous and expected
	// to complete quickly.
	SendCommand(cmd Command) error

	// Reachable reports whether the backend can currently be reached.
	Reachable() bool
}
