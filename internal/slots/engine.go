// Package slots computes the meeting slots offered to a lead from the busy
// intervals of the sales calendar.
package slots

import (
	"fmt"
	"time"
)

// Slot is one offerable meeting window.
type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Formatted string    `json:"formatted"`
}

// Interval is a busy window on the calendar, half-open [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Anchor hours offered on each business day, local time.
var anchorHours = [...]int{9, 11, 14, 16}

const (
	slotDuration = time.Hour
	// MaxOffered caps how many slots one listing returns.
	MaxOffered = 3
)

// Compute returns up to MaxOffered free slots in chronological order.
// Candidates start the day after now, run through horizonDays days, fall on
// the anchor hours, and skip weekends. A candidate is excluded exactly when
// it overlaps a busy interval.
func Compute(busy []Interval, horizonDays int, now time.Time, loc *time.Location) []Slot {
	if loc == nil {
		loc = time.Local
	}
	if horizonDays <= 0 {
		horizonDays = 7
	}
	now = now.In(loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	slots := make([]Slot, 0, MaxOffered)
	for i := 1; i <= horizonDays; i++ {
		day := dayStart.AddDate(0, 0, i)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		for _, hour := range anchorHours {
			start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, loc)
			end := start.Add(slotDuration)
			if overlapsAny(start, end, busy) {
				continue
			}
			slots = append(slots, Slot{
				Start:     start,
				End:       end,
				Formatted: FormatSlot(start),
			})
			if len(slots) == MaxOffered {
				return slots
			}
		}
	}
	return slots
}

// FormatSlot renders a slot start the way it is offered in chat.
func FormatSlot(start time.Time) string {
	return fmt.Sprintf("%02d/%02d/%04d às %02d:%02d",
		start.Day(), int(start.Month()), start.Year(), start.Hour(), start.Minute())
}

func overlapsAny(start, end time.Time, busy []Interval) bool {
	for _, b := range busy {
		if start.Before(b.End) && end.After(b.Start) {
			return true
		}
	}
	return false
}
