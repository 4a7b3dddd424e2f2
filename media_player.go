package main

import (
	"bytes"
	"os/exec"
	"strconv"
	"strings"
)

// PlayerctlSource implements MediaSource against the local media-control
// daemon via the playerctl utility.
type PlayerctlSource struct{}

// NewPlayerctlSource creates a source for the local backend.
func NewPlayerctlSource() *PlayerctlSource {
	return &PlayerctlSource{}
}

func runPlayerctl(args ...string) (string, error) {
	cmd := exec.Command("playerctl", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.String()), nil
}

// findActivePlayer lists the daemon's sessions and prefers one that is
// currently playing, falling back to the first available. Returns "" when
// no session exists.
func findActivePlayer() string {
	out, err := runPlayerctl("-l")
	if err != nil || out == "" {
		return ""
	}
	players := strings.Split(out, "\n")
	for _, p := range players {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		status, err := runPlayerctl("-p", p, "status")
		if err == nil && status == "Playing" {
			return p
		}
	}
	for _, p := range players {
		if p = strings.TrimSpace(p); p != "" {
			return p
		}
	}
	return ""
}

// Refresh resolves the active session and queries its fields one by one.
// Individual query failures degrade to neutral values; only the complete
// absence of a session is reported as errNoPlayer.
func (s *PlayerctlSource) Refresh() (PlaybackInfo, error) {
	player := findActivePlayer()
	if player == "" {
		return neutralInfo(), errNoPlayer
	}

	get := func(args ...string) string {
		out, err := runPlayerctl(append([]string{"-p", player}, args...)...)
		if err != nil {
			return ""
		}
		return out
	}

	info := neutralInfo()
	if st := get("status"); st != "" {
		info.Status = st
	}
	info.Title = get("metadata", "title")
	info.Artist = get("metadata", "artist")
	info.Album = get("metadata", "album")

	if pos, err := strconv.ParseFloat(get("position"), 64); err == nil {
		info.PositionMs = int64(pos * 1000)
	}

	if raw, err := runPlayerctl("-p", player, "metadata"); err == nil {
		if d := minLengthField(raw); d > 0 {
			info.DurationMs = d
		}
	}
	if info.DurationMs <= 1 {
		if d, err := strconv.ParseInt(get("metadata", "mpris:length"), 10, 64); err == nil && d > 0 {
			info.DurationMs = d
		}
	}
	if info.DurationMs < 1 {
		info.DurationMs = 1
	}
	return info, nil
}

// minLengthField scans a full metadata dump for keys ending in ":length"
// and returns the smallest value found, or 0. Backends report track length
// at multiple granularities; the minimum is the usable one.
func minLengthField(metadata string) int64 {
	var best int64
	for _, line := range strings.Split(metadata, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		key := fields[len(fields)-2]
		if !strings.HasSuffix(key, ":length") {
			continue
		}
		v, err := strconv.ParseInt(fields[len(fields)-1], 10, 64)
		if err != nil {
			continue
		}
		if best == 0 || v < best {
			best = v
		}
	}
	return best
}

// SendCommand maps a command to the matching playerctl verb against the
// active session.
func (s *PlayerctlSource) SendCommand(cmd Command) error {
	player := findActivePlayer()
	if player == "" {
		return errNoPlayer
	}
	verb := ""
	switch cmd {
	case CmdPlay:
		verb = "play"
	case CmdPause:
		verb = "pause"
	case CmdNext:
		verb = "next"
	case CmdPrevious:
		verb = "previous"
	}
	return exec.Command("playerctl", "-p", player, verb).Run()
}

// Reachable reports whether any session exists.
func (s *PlayerctlSource) Reachable() bool {
	return findActivePlayer() != ""
}
