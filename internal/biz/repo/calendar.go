package repo

import (
	"context"
	"time"

	"github.com/sora-labs/calendar-voice-bot/internal/biz/domain"
)

// CalendarRepo is the calendar provider boundary. ListEvents returns the
// events overlapping [from, to) sorted ascending by start time, with
// recurring events already expanded to single occurrences.
type CalendarRepo interface {
	ListEvents(ctx context.Context, calendarID string, from, to time.Time) ([]domain.CalendarEvent, error)
}
