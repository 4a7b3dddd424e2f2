package main

import (
	"testing"
	"time"
)

// TestLayoutButtons checks geometry: three boxes, fixed size, centered,
// evenly gapped.
func TestLayoutButtons(t *testing.T) {
	width := 100
	boxes := layoutButtons(width)
	assertEqual(t, len(boxes), buttonCount, "box count")

	total := buttonCount*buttonWidth + (buttonCount-1)*buttonGap
	wantStart := (width - total) / 2
	assertEqual(t, boxes[0].left, wantStart, "first box left")

	for i, b := range boxes {
		assertEqual(t, b.right-b.left, buttonWidth, "box width")
		assertEqual(t, b.bottom-b.top, buttonHeight, "box height")
		assertEqual(t, b.top, buttonRow, "box row")
		if i > 0 {
			assertEqual(t, b.left-boxes[i-1].right, buttonGap, "gap")
		}
	}
}

// TestButtonAt hit-tests corners, interiors, and misses.
func TestButtonAt(t *testing.T) {
	boxes := layoutButtons(100)

	tests := []struct {
		name string
		x, y int
		want int
	}{
		{"inside first", boxes[0].left + 1, buttonRow + 2, 0},
		{"top-left corner inclusive", boxes[1].left, buttonRow, 1},
		{"right edge exclusive", boxes[1].right, buttonRow + 2, btnNone},
		{"bottom edge exclusive", boxes[2].left + 1, buttonRow + buttonHeight, btnNone},
		{"inside third", boxes[2].left + 5, buttonRow + 4, 2},
		{"gap between buttons", boxes[0].right + 1, buttonRow + 2, btnNone},
		{"above buttons", boxes[0].left + 1, buttonRow - 1, btnNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buttonAt(tt.x, tt.y, boxes)
			if got != tt.want {
				t.Errorf("buttonAt(%d,%d) = %d; want %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

// TestHighlightWindow verifies the highlight is active strictly inside
// [T, T+0.6r) and cleared at or after T+0.6r.
func TestHighlightWindow(t *testing.T) {
	refresh := time.Second
	h := newHighlightState()
	start := time.Now()
	h.set(1, start)

	if !h.active(1, start, refresh) {
		t.Error("highlight inactive at activation time")
	}
	if !h.active(1, start.Add(599*time.Millisecond), refresh) {
		t.Error("highlight inactive just inside the window")
	}
	if h.active(1, start.Add(600*time.Millisecond), refresh) {
		t.Error("highlight active at the window boundary")
	}
	if h.active(0, start, refresh) {
		t.Error("wrong button reported active")
	}
}

// TestHighlightExpire verifies expiry clears the index once the window
// has passed, and not before.
func TestHighlightExpire(t *testing.T) {
	refresh := time.Second
	h := newHighlightState()
	start := time.Now()
	h.set(2, start)

	h.expire(start.Add(100*time.Millisecond), refresh)
	assertEqual(t, h.index, 2, "index inside window")

	h.expire(start.Add(600*time.Millisecond), refresh)
	assertEqual(t, h.index, btnNone, "index after window")
}
