package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Panel row layout, kept fixed so pointer hit regions stay computable.
const (
	helpRow      = buttonRow + buttonHeight + 1
	closeRuleRow = buttonRow + buttonHeight + 2
	visuStartRow = buttonRow + buttonHeight + 3
)

// minPanelWidth is the narrowest terminal the button row fits in.
const minPanelWidth = buttonCount*buttonWidth + (buttonCount-1)*buttonGap

// styleSet is the trio of styles every frame is drawn with.
type styleSet struct {
	base    lipgloss.Style
	bold    lipgloss.Style
	reverse lipgloss.Style
}

// colorValue maps a 0-255 integer string to a terminal color; "default"
// or anything unparsable means terminal-native.
func colorValue(s string) (lipgloss.Color, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "default" {
		return "", false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 255 {
		return "", false
	}
	return lipgloss.Color(strconv.Itoa(n)), true
}

func stylesFromConfig(cfg Config) styleSet {
	base := lipgloss.NewStyle()
	if fg, ok := colorValue(cfg.UI.Color); ok {
		base = base.Foreground(fg)
	}
	if bg, ok := colorValue(cfg.UI.BGColor); ok {
		base = base.Background(bg)
	}
	return styleSet{
		base:    base,
		bold:    base.Bold(true),
		reverse: base.Reverse(true),
	}
}

// padClip pads a plain-text row to exactly width display cells,
// truncating anything that would fall outside the terminal.
func padClip(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w > width {
		return runewidth.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-w)
}

func (m model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	switch m.screen {
	case screenNoPlayer:
		return m.waitScreen("No Player", fmt.Sprintf(
			"No audio player running. Auto-retry every %.1fs, press [q] to quit.",
			config.Get().RefreshInterval().Seconds()))
	case screenDeviceWait:
		return m.waitScreen(strings.ToUpper(m.deviceAddr), fmt.Sprintf(
			"Device not connected. Waiting for device... (auto-retry every %.1fs, press [q] to quit, [r] to reconnect)",
			config.Get().RefreshInterval().Seconds()))
	}
	return m.mainPanel()
}

// mainPanel draws the dashboard: bordered header block, status line,
// progress/animation bar, control buttons, help line, and the visualizer
// band in whatever rows remain.
func (m model) mainPanel() string {
	cfg := config.Get()
	st := stylesFromConfig(cfg)

	if m.width < minPanelWidth || m.height < closeRuleRow+1 {
		// Resize-during-render must never crash the loop.
		return st.base.Render("Terminal too small. Try resizing the window.")
	}

	rule := strings.Repeat("=", m.width)
	title := sanitizeField(m.info.Title, "Unknown Title")
	artist := sanitizeField(m.info.Artist, "Unknown Artist")
	album := sanitizeField(m.info.Album, "Unknown Album")

	maxText := m.width - 4
	title = scrollText(title, maxText, m.scrollOffset)
	artist = scrollText(artist, maxText, m.scrollOffset)
	album = scrollText(album, maxText, m.scrollOffset)

	status := m.info.Status
	if status == "" {
		status = StatusUnknown
	}

	rows := make([]string, 0, m.height)
	addRow := func(s string, style lipgloss.Style) {
		rows = append(rows, style.Render(padClip(s, m.width)))
	}

	addRow(rule, st.base)
	addRow(centerLine(title, m.width), st.bold)
	addRow(centerLine(artist, m.width), st.base)
	addRow(centerLine(album, m.width), st.base)
	addRow(rule, st.base)
	addRow("Status: "+status, st.base)
	addRow("", st.base)
	addRow(m.progressRow(), st.base)
	addRow("", st.base)
	rows = append(rows, m.buttonRows(st)...)
	addRow("", st.base)
	addRow(centerLine("Controls: [p] Play/Pause  [n] Next  [b] Previous  [q] Quit", m.width), st.base)
	addRow(rule, st.base)

	if m.visualizer != nil && cfg.Visualizer.Enabled {
		for _, line := range m.visualizerRows() {
			addRow(line, st.base)
		}
	}

	// Rows past the bottom edge are dropped, never faulted on.
	if len(rows) > m.height {
		rows = rows[:m.height]
	}
	for len(rows) < m.height {
		rows = append(rows, st.base.Render(padClip("", m.width)))
	}
	return strings.Join(rows, "\n")
}

// progressRow renders elapsed time, the bar, and remaining time. The
// proportional fill and the bouncing indicator are mutually exclusive,
// selected by the sign of the remaining time.
func (m model) progressRow() string {
	elapsed := formatDuration(m.info.PositionMs)
	remaining := m.info.Remaining()
	remShown := remaining
	if remShown < 0 {
		remShown = 0
	}

	barLen := barLength(m.width)
	var bar string
	if remaining < 0 {
		inner := barLen - 2
		limit := inner - indicatorWidth
		if limit < 0 {
			limit = 0
		}
		frame := m.anim.frame
		if frame < 0 {
			frame = 0
		}
		if frame > limit {
			frame = limit
		}
		tail := inner - frame - indicatorWidth
		if tail < 0 {
			tail = 0
		}
		bar = "[" + strings.Repeat(" ", frame) + "<===>" + strings.Repeat(" ", tail) + "]"
	} else {
		posSec := m.info.PositionMs / 1000
		durSec := m.info.DurationMs / 1000
		if durSec < 1 {
			durSec = 1
		}
		filled := int(int64(barLen) * posSec / durSec)
		if filled > barLen-1 {
			filled = barLen - 1
		}
		if filled < 0 {
			filled = 0
		}
		bar = "[" + strings.Repeat("=", filled) + ">" + strings.Repeat(" ", barLen-filled-1) + "]"
	}
	return elapsed + " " + bar + " -" + formatDuration(remShown)
}

// buttonRows renders the three bordered control buttons, reversing the
// one whose highlight window is still active.
func (m model) buttonRows(st styleSet) []string {
	labels := []string{"⏮", "⏯", "⏭"}
	if strings.EqualFold(m.info.Status, "playing") {
		labels[btnPlayPause] = "⏸"
	}
	boxes := layoutButtons(m.width)
	now := time.Now()
	refresh := config.Get().RefreshInterval()

	out := make([]string, buttonHeight)
	for r := 0; r < buttonHeight; r++ {
		var sb strings.Builder
		sb.WriteString(st.base.Render(strings.Repeat(" ", boxes[0].left)))
		for i, label := range labels {
			if i > 0 {
				sb.WriteString(st.base.Render(strings.Repeat(" ", buttonGap)))
			}
			seg := buttonSegment(label, r)
			style := st.base
			if m.highlight.active(i, now, refresh) {
				style = st.reverse
			}
			if r == buttonHeight/2 {
				style = style.Bold(true)
			}
			sb.WriteString(style.Render(seg))
		}
		trail := m.width - boxes[len(boxes)-1].right
		if trail > 0 {
			sb.WriteString(st.base.Render(strings.Repeat(" ", trail)))
		}
		out[r] = sb.String()
	}
	return out
}

// buttonSegment renders one row of a single button's box.
func buttonSegment(label string, row int) string {
	inner := buttonWidth - 2
	switch row {
	case 0:
		return "┌" + strings.Repeat("─", inner) + "┐"
	case buttonHeight - 1:
		return "└" + strings.Repeat("─", inner) + "┘"
	case buttonHeight / 2:
		return "│" + centerLine(label, inner) + "│"
	default:
		return "│" + strings.Repeat(" ", inner) + "│"
	}
}

// visualizerRows maps the amplitude buffer to the rows below the panel,
// drawn bottom-up with a solid glyph under each column's fill height.
func (m model) visualizerRows() []string {
	avail := m.height - visuStartRow
	if avail <= 0 {
		return nil
	}
	data := resampleBars(m.visualizer.Samples(), m.width)
	if data == nil {
		return nil
	}
	heights := make([]int, len(data))
	for i, v := range data {
		heights[i] = int(math.Round(v * float64(avail)))
	}
	rows := make([]string, avail)
	for r := 0; r < avail; r++ {
		fromBottom := avail - r
		var sb strings.Builder
		for _, h := range heights {
			if h >= fromBottom {
				sb.WriteRune('█')
			} else {
				sb.WriteRune(' ')
			}
		}
		rows[r] = sb.String()
	}
	return rows
}

// waitScreen is the shared recovery screen: an ASCII-art banner centered
// on screen with a status line at the bottom.
func (m model) waitScreen(banner, message string) string {
	st := stylesFromConfig(config.Get())
	rows := make([]string, m.height)
	for i := range rows {
		rows[i] = padClip("", m.width)
	}

	lines := figletLines(banner, m.width)
	y0 := (m.height - len(lines)) / 2
	if y0 < 0 {
		y0 = 0
	}
	for i, line := range lines {
		y := y0 + i
		if y >= m.height {
			break
		}
		rows[y] = padClip(centerLine(line, m.width), m.width)
	}
	if m.height >= 2 {
		rows[m.height-2] = padClip(centerLine(message, m.width), m.width)
	}
	for i := range rows {
		rows[i] = st.base.Render(rows[i])
	}
	return strings.Join(rows, "\n")
}
