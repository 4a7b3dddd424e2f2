package main

import "time"

// Fixed button geometry matching the panel layout.
const (
	buttonRow    = 9
	buttonHeight = 5
	buttonWidth  = 13
	buttonGap    = 6
	buttonCount  = 3
)

// Button indices double as the commands they dispatch.
const (
	btnPrevious  = 0
	btnPlayPause = 1
	btnNext      = 2
	btnNone      = -1
)

// buttonBox is a pointer hit-region. Boxes are rebuilt every render pass
// by the render layer and consumed read-only by the mouse handler.
type buttonBox struct {
	top, left, bottom, right int
}

func (b buttonBox) contains(x, y int) bool {
	return y >= b.top && y < b.bottom && x >= b.left && x < b.right
}

// layoutButtons computes the three control-button boxes centered in the
// given terminal width.
func layoutButtons(width int) []buttonBox {
	total := buttonCount*buttonWidth + (buttonCount-1)*buttonGap
	startX := (width - total) / 2
	if startX < 0 {
		startX = 0
	}
	boxes := make([]buttonBox, 0, buttonCount)
	for i := 0; i < buttonCount; i++ {
		x := startX + i*(buttonWidth+buttonGap)
		boxes = append(boxes, buttonBox{
			top:    buttonRow,
			left:   x,
			bottom: buttonRow + buttonHeight,
			right:  x + buttonWidth,
		})
	}
	return boxes
}

// buttonAt hit-tests press coordinates against the boxes.
func buttonAt(x, y int, boxes []buttonBox) int {
	for i, b := range boxes {
		if b.contains(x, y) {
			return i
		}
	}
	return btnNone
}

// highlightState is the transient reverse-video feedback on the last
// activated button. It clears itself once 60% of the refresh interval
// has elapsed.
type highlightState struct {
	index       int
	activatedAt time.Time
}

func newHighlightState() highlightState {
	return highlightState{index: btnNone}
}

// set records an activation, keyboard or pointer alike.
func (h *highlightState) set(index int, now time.Time) {
	h.index = index
	h.activatedAt = now
}

// active reports whether the given button is currently highlighted.
func (h *highlightState) active(index int, now time.Time, refresh time.Duration) bool {
	return h.index == index && h.index != btnNone &&
		now.Sub(h.activatedAt) < refresh*6/10
}

// expire clears the highlight once its window has passed.
func (h *highlightState) expire(now time.Time, refresh time.Duration) {
	if h.index != btnNone && now.Sub(h.activatedAt) >= refresh*6/10 {
		h.index = btnNone
		h.activatedAt = time.Time{}
	}
}
