package main

import (
	"sync"
	"testing"
)

// assertError is a test helper that checks if an error occurred and fails the test if not
func assertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Errorf("Expected error: %s, got nil", msg)
	}
}

// assertNoError is a test helper that fails the test if an error occurred
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// assertEqual is a generic test helper for comparing values
func assertEqual(t *testing.T, got, want interface{}, msg string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %v, want %v", msg, got, want)
	}
}

// fakeSource is a scriptable MediaSource for loop and dispatch tests.
type fakeSource struct {
	mu        sync.Mutex
	info      PlaybackInfo
	err       error
	reachable bool
	commands  []Command
}

func (f *fakeSource) Refresh() (PlaybackInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.info, f.err
}

func (f *fakeSource) SendCommand(cmd Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, cmd)
	return nil
}

func (f *fakeSource) Reachable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reachable
}

func (f *fakeSource) set(info PlaybackInfo, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.info = info
	f.err = err
}

func (f *fakeSource) sentCommands() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Command, len(f.commands))
	copy(out, f.commands)
	return out
}

// fakeProc counts kills in place of a real speech process.
type fakeProc struct {
	mu     sync.Mutex
	killed int
}

func (p *fakeProc) Kill() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.killed++
	return nil
}

// speechRecorder replaces the announcer's spawn hook and records every
// spoken sentence.
type speechRecorder struct {
	mu     sync.Mutex
	spoken []string
	procs  []*fakeProc
}

func (r *speechRecorder) spawn(text string) (speechProc, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := &fakeProc{}
	r.spoken = append(r.spoken, text)
	r.procs = append(r.procs, p)
	return p, nil
}

func (r *speechRecorder) spokenTexts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.spoken))
	copy(out, r.spoken)
	return out
}
