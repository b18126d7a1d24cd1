package domain

import "time"

// ResponseStatus is an attendee's reply to an event invitation.
type ResponseStatus string

const (
	ResponseAccepted    ResponseStatus = "accepted"
	ResponseDeclined    ResponseStatus = "declined"
	ResponseTentative   ResponseStatus = "tentative"
	ResponseNeedsAction ResponseStatus = "needsAction"
)

// Attendee represents a single attendee record on a calendar event.
type Attendee struct {
	Email     string
	Status    ResponseStatus
	Self      bool // attendee is the calendar owner
	Organizer bool // attendee organized the event
}

// TimeSpec is one of three time shapes a calendar event field can carry:
// a precise instant (At != nil), an all-day marker, or nothing at all.
type TimeSpec struct {
	At     *time.Time
	AllDay bool
}

// IsPrecise reports whether the spec carries an exact instant.
func (t TimeSpec) IsPrecise() bool { return t.At != nil }

// IsAllDay reports whether the spec is an all-day marker without an instant.
func (t TimeSpec) IsAllDay() bool { return t.At == nil && t.AllDay }

// IsUndetermined reports whether no time information is present.
func (t TimeSpec) IsUndetermined() bool { return t.At == nil && !t.AllDay }

// PreciseAt builds a TimeSpec for an exact instant.
func PreciseAt(at time.Time) TimeSpec { return TimeSpec{At: &at} }

// AllDaySpec builds a TimeSpec for an all-day event.
func AllDaySpec() TimeSpec { return TimeSpec{AllDay: true} }

// CalendarEvent is a single calendar entry fetched for one day.
// Events are immutable after fetch and never persisted.
type CalendarEvent struct {
	ID          string
	Title       string // empty title gets a placeholder at render time
	Start       TimeSpec
	End         TimeSpec
	Location    string
	Description string
	Attendees   []Attendee
	Synthetic   bool // degraded placeholder produced when the provider failed
}

// DeclinedBy reports whether the event was declined by the user the
// calendar belongs to: an attendee whose email matches the calendar
// identity, or who is flagged self or organizer, with a declined status.
// Events without attendees are personal entries and are never declined.
func (e *CalendarEvent) DeclinedBy(calendarID string) bool {
	for _, a := range e.Attendees {
		if a.Status != ResponseDeclined {
			continue
		}
		if a.Email == calendarID || a.Self || a.Organizer {
			return true
		}
	}
	return false
}
