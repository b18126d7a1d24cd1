package domain

import "time"

// ScheduleDay is one target date together with its (already filtered)
// events. Two instances exist per daily run when tomorrow lookahead is
// enabled and tomorrow is a business day.
type ScheduleDay struct {
	Date          time.Time
	Events        []CalendarEvent
	IsBusinessDay bool
	IsTomorrow    bool
}

// Announcement is the rendered output of one ScheduleDay: the rich display
// text posted to the channel and its speech-script counterpart. Produced
// once and immutable.
type Announcement struct {
	Display     string
	VoiceScript string
}
