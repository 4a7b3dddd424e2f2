package main

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Screens the loop can be on. The recovery screens auto-retry on the
// metadata cadence and resolve back to the main panel.
const (
	screenMain = iota
	screenNoPlayer
	screenDeviceWait
)

// model is the Bubble Tea model for the dashboard
type model struct {
	source     MediaSource
	announcer  *Announcer
	visualizer *Visualizer
	remote     bool
	deviceAddr string

	width  int
	height int
	screen int

	info      PlaybackInfo
	lastTrack trackIdentity // identity of the current snapshot, for scroll reset
	prevTrack trackIdentity // announcement bookkeeping

	highlight highlightState
	anim      animState

	// Text scrolling state for over-wide header lines
	scrollOffset int
	scrollTick   int
}

func newModel(source MediaSource, announcer *Announcer, visualizer *Visualizer, remote bool, deviceAddr string) model {
	return model{
		source:     source,
		announcer:  announcer,
		visualizer: visualizer,
		remote:     remote,
		deviceAddr: deviceAddr,
		screen:     screenMain,
		info:       neutralInfo(),
		highlight:  newHighlightState(),
		anim:       animState{direction: 1},
	}
}

// Metadata refresh tick - fires on the autorefresh interval
type fetchMsg time.Time

// Visualizer redraw tick - independent of the metadata cadence
type visuMsg time.Time

// Animation/housekeeping tick - drives the indeterminate indicator,
// highlight expiry, and text scrolling
type animMsg time.Time

// Result of refreshing the media source in the background
type playbackMsg struct {
	info PlaybackInfo
	err  error
}

// Schedule next metadata refresh
func fetchCmd() tea.Cmd {
	return tea.Tick(config.Get().RefreshInterval(), func(t time.Time) tea.Msg {
		return fetchMsg(t)
	})
}

// Schedule next visualizer redraw
func visuCmd() tea.Cmd {
	return tea.Tick(config.Get().VisualizerInterval(), func(t time.Time) tea.Msg {
		return visuMsg(t)
	})
}

// Schedule next animation tick
func animCmd() tea.Cmd {
	return tea.Tick(animInterval, func(t time.Time) tea.Msg {
		return animMsg(t)
	})
}

// Refresh the media source in background (doesn't block UI)
func (m model) refreshCmd() tea.Cmd {
	src := m.source
	return func() tea.Msg {
		info, err := src.Refresh()
		return playbackMsg{info: info, err: err}
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.refreshCmd(),
		fetchCmd(),
		animCmd(),
		watchConfigCmd(),
	}
	if m.visualizer != nil {
		cmds = append(cmds, visuCmd())
	}
	return tea.Batch(cmds...)
}

// commandForButton resolves a button index to the transport command it
// dispatches, toggling play/pause on the current status.
func commandForButton(idx int, status string) Command {
	switch idx {
	case btnPrevious:
		return CmdPrevious
	case btnNext:
		return CmdNext
	default:
		if strings.EqualFold(status, "playing") {
			return CmdPause
		}
		return CmdPlay
	}
}

// dispatch issues the command for a button, starts its highlight, and
// schedules an immediate refresh. Command failures are absorbed; the next
// refresh reflects whatever state the backend is actually in.
func (m model) dispatch(idx int) (model, tea.Cmd) {
	_ = m.source.SendCommand(commandForButton(idx, m.info.Status))
	m.highlight.set(idx, time.Now())
	return m, m.refreshCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		switch m.screen {
		case screenMain:
			switch msg.String() {
			case "p", " ":
				return m.dispatch(btnPlayPause)
			case "n", "right":
				return m.dispatch(btnNext)
			case "b", "left":
				return m.dispatch(btnPrevious)
			}
		case screenDeviceWait:
			if msg.String() == "r" {
				if src, ok := m.source.(*BluezSource); ok {
					src.Reconnect()
				}
				return m, m.refreshCmd()
			}
		}

	case tea.MouseMsg:
		if m.screen != screenMain {
			return m, nil
		}
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		idx := buttonAt(msg.X, msg.Y, layoutButtons(m.width))
		if idx == btnNone {
			return m, nil
		}
		// A press on the still-highlighted button is the same gesture
		// that produced the highlight; swallow it.
		if m.highlight.active(idx, time.Now(), config.Get().RefreshInterval()) {
			return m, nil
		}
		return m.dispatch(idx)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case fetchMsg:
		// Metadata cadence: schedule the next tick and refresh in the
		// background. The same tick drives recovery-screen retries.
		return m, tea.Batch(fetchCmd(), m.refreshCmd())

	case visuMsg:
		// Visualizer cadence: just triggers a redraw reading the shared
		// sample buffer; never forces a metadata refresh.
		return m, visuCmd()

	case animMsg:
		now := time.Time(msg)
		cfg := config.Get()
		m.highlight.expire(now, cfg.RefreshInterval())
		if m.screen == screenMain && m.info.Remaining() < 0 && m.anim.due(now) {
			m.anim.advance(barInnerWidth(m.width))
			m.anim.lastUpdate = now
		}
		m.scrollTick++
		if m.scrollTick%4 == 0 {
			m.scrollOffset++
		}
		return m, animCmd()

	case playbackMsg:
		return m.applyPlayback(msg), nil

	case configReloadMsg:
		return m, watchConfigCmd()
	}

	return m, nil
}

// applyPlayback folds a refresh result into the model: screen
// transitions for the unavailable conditions, a wholesale snapshot
// replace otherwise, plus announcement bookkeeping.
func (m model) applyPlayback(msg playbackMsg) model {
	switch {
	case errors.Is(msg.err, errNoPlayer):
		m.screen = screenNoPlayer
		return m
	case errors.Is(msg.err, errNotConnected):
		m.screen = screenDeviceWait
		return m
	}

	recovered := m.screen != screenMain
	m.screen = screenMain
	m.info = msg.info

	track := trackIdentity{title: msg.info.Title, artist: msg.info.Artist}
	if track != m.lastTrack {
		m.lastTrack = track
		m.scrollOffset = 0
		m.scrollTick = 0
	}
	if recovered {
		// Announce whatever the recovered session is playing.
		m.prevTrack = trackIdentity{}
	}
	m.prevTrack = m.announcer.Notify(
		msg.info.Title, msg.info.Artist, m.prevTrack,
		config.Get().Announce.Enabled,
	)
	return m
}

// barInnerWidth is the cell count inside the progress bar's brackets.
func barInnerWidth(width int) int {
	return barLength(width) - 2
}

// barLength mirrors the original panel layout: the bar plus timestamps
// occupy the full row.
func barLength(width int) int {
	l := width - 23
	if l < 10 {
		l = 10
	}
	return l
}
