package main

import "time"

// indicatorWidth is the width of the bouncing "<===>" indicator.
const indicatorWidth = 5

// animInterval gates how often the indicator advances.
const animInterval = 70 * time.Millisecond

// animState is the bouncing-indicator state machine used when remaining
// time is negative. frame stays within [0, innerWidth-indicatorWidth];
// direction flips exactly at the two bounds.
type animState struct {
	frame      int
	direction  int
	lastUpdate time.Time
}

// advance steps the indicator one cell within a bar of innerWidth cells.
func (a *animState) advance(innerWidth int) {
	limit := innerWidth - indicatorWidth
	if limit < 0 {
		limit = 0
	}
	if a.direction == 0 {
		a.direction = 1
	}
	a.frame += a.direction
	if a.frame >= limit {
		a.frame = limit
		a.direction = -1
	}
	if a.frame <= 0 {
		a.frame = 0
		a.direction = 1
	}
}

// due reports whether enough time has passed for another step.
func (a *animState) due(now time.Time) bool {
	return now.Sub(a.lastUpdate) > animInterval
}
