package main

import (
	"os/exec"
	"sync"
	"time"
)

// defaultQuietPeriod is how long a track identity must stay unchanged
// before it is announced. Rapid skips inside this window are coalesced.
const defaultQuietPeriod = 1500 * time.Millisecond

// trackIdentity is the (title, artist) pair announcements are keyed on.
type trackIdentity struct {
	title  string
	artist string
}

func (id trackIdentity) empty() bool {
	return id.title == "" && id.artist == ""
}

type announceRequest struct {
	id      trackIdentity
	enabled bool
}

// speechProc is the handle to a spawned speech process. The real
// implementation is *os.Process; tests substitute their own.
type speechProc interface {
	Kill() error
}

// spawnSpeech starts the external text-to-speech utility and reaps it in
// the background.
func spawnSpeech(text string) (speechProc, error) {
	cmd := exec.Command("espeak", text)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	go func() { _ = cmd.Wait() }()
	return cmd.Process, nil
}

// Announcer speaks "Now playing: title by artist" at most once per
// settled track change. Rapid successive notifications overwrite a single
// pending slot rather than queueing, so a skip spree produces exactly one
// announcement for wherever it lands.
//
// One mutex guards the pending slot, the last-spoken identity, and the
// speech process handle, so killing the previous process and recording
// the new one is atomic with respect to concurrent notifications.
type Announcer struct {
	mu       sync.Mutex
	pending  *announceRequest
	lastSaid trackIdentity
	running  bool
	proc     speechProc

	wake      chan struct{}
	quiet     time.Duration
	spawn     func(text string) (speechProc, error)
	available bool
}

// NewAnnouncer builds an announcer. available should reflect whether the
// speech utility is installed; when false every Notify is a no-op.
func NewAnnouncer(quiet time.Duration, available bool) *Announcer {
	if quiet <= 0 {
		quiet = defaultQuietPeriod
	}
	return &Announcer{
		wake:      make(chan struct{}, 1),
		quiet:     quiet,
		spawn:     spawnSpeech,
		available: available,
	}
}

// Notify records a track change for eventual announcement and returns the
// current identity for caller bookkeeping. Calls with announcements
// disabled, speech unavailable, or an unchanged identity are no-ops.
// Otherwise the pending slot is overwritten and any in-flight quiet-period
// wait restarts; the background worker is started lazily.
func (a *Announcer) Notify(title, artist string, prev trackIdentity, enabled bool) trackIdentity {
	curr := trackIdentity{title: title, artist: artist}
	if !enabled || !a.available || curr == prev {
		return curr
	}

	a.mu.Lock()
	a.pending = &announceRequest{id: curr, enabled: enabled}
	if !a.running {
		a.running = true
		go a.worker()
	}
	a.mu.Unlock()

	// Restart any in-flight wait. Non-blocking: a signal already queued
	// serves the same purpose.
	select {
	case a.wake <- struct{}{}:
	default:
	}
	return curr
}

// worker waits out the quiet period, restarting the wait on every wake
// signal. When a wait elapses undisturbed it speaks the pending identity
// if it still differs from the last one spoken, then exits once the slot
// is empty. Notify restarts it on demand.
func (a *Announcer) worker() {
	timer := time.NewTimer(a.quiet)
	defer timer.Stop()
	for {
		select {
		case <-a.wake:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(a.quiet)
			continue
		case <-timer.C:
		}

		a.mu.Lock()
		req := a.pending
		a.pending = nil
		if req == nil {
			a.running = false
			a.mu.Unlock()
			return
		}
		if req.enabled && req.id != a.lastSaid {
			if a.proc != nil {
				_ = a.proc.Kill()
				a.proc = nil
			}
			text := "Now playing: " + req.id.title + " by " + req.id.artist
			if p, err := a.spawn(text); err == nil {
				a.proc = p
			}
			a.lastSaid = req.id
		}
		a.mu.Unlock()
		timer.Reset(a.quiet)
	}
}
