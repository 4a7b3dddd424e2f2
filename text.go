package main

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// formatDuration converts milliseconds to hh:mm:ss.
func formatDuration(ms int64) string {
	seconds := ms / 1000
	mins := (seconds / 60) % 60
	hours := (seconds / 60) / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, mins, secs)
}

// centerLine pads text to the given display width, truncating when the
// terminal is narrower than the text.
func centerLine(text string, width int) string {
	w := runewidth.StringWidth(text)
	if w >= width {
		return runewidth.Truncate(text, width, "")
	}
	pad := (width - w) / 2
	return strings.Repeat(" ", pad) + text + strings.Repeat(" ", width-w-pad)
}

// sanitizeField substitutes a placeholder for empty or control-only
// metadata fields and strips the label prefixes some backends leak into
// the value.
func sanitizeField(s, placeholder string) string {
	for _, prefix := range []string{"Album: ", "Track: "} {
		if strings.HasPrefix(s, prefix) {
			s = s[len(prefix):]
		}
	}
	if strings.HasSuffix(s, "Album:") {
		return placeholder
	}
	printable := false
	for _, r := range s {
		if unicode.IsPrint(r) && !unicode.IsSpace(r) {
			printable = true
			break
		}
	}
	if !printable {
		return placeholder
	}
	return s
}

// scrollText returns a scrolling window of text with smooth looping.
func scrollText(text string, max int, offset int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}

	// Padding between the tail and the looping head.
	fullText := append(runes, []rune("  •  ")...)
	textLen := len(fullText)

	offset = offset % textLen

	var result []rune
	for i := 0; i < max; i++ {
		result = append(result, fullText[(offset+i)%textLen])
	}
	return string(result)
}
