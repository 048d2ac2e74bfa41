package core

import (
	"fmt"
	"strings"
	"time"
)

// Countdown is the decomposed time remaining until an auction closes.
// Seconds below a whole minute are truncated, matching the card display.
type Countdown struct {
	Days    int
	Hours   int
	Minutes int

	// Active is false once the deadline has passed. This flag, not the
	// stored Status field, drives the active→ended transition.
	Active bool
}

// CountdownAt decomposes endTime - now into days, hours and minutes. It is a
// pure function and is meant to be re-derived on every presentation pass;
// nothing caches its result.
func CountdownAt(endTime, now time.Time) Countdown {
	delta := endTime.Sub(now)
	if delta <= 0 {
		return Countdown{}
	}

	return Countdown{
		Days:    int(delta / (24 * time.Hour)),
		Hours:   int((delta % (24 * time.Hour)) / time.Hour),
		Minutes: int((delta % time.Hour) / time.Minute),
		Active:  true,
	}
}

// String renders the countdown for display, suppressing zero-valued day and
// hour segments: "2d 3h 15m left", "3h 15m left", "15m left". Minutes always
// appear. An expired countdown renders as "Ended".
func (c Countdown) String() string {
	if !c.Active {
		return "Ended"
	}

	var b strings.Builder
	if c.Days > 0 {
		fmt.Fprintf(&b, "%dd ", c.Days)
	}
	if c.Hours > 0 {
		fmt.Fprintf(&b, "%dh ", c.Hours)
	}
	fmt.Fprintf(&b, "%dm left", c.Minutes)
	return b.String()
}
