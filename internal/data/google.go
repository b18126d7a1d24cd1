package data

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/sora-labs/calendar-voice-bot/internal/biz/domain"
	"github.com/sora-labs/calendar-voice-bot/internal/biz/repo"
)

// googleCalendarRepo implements repo.CalendarRepo on the Google Calendar
// API using a service account credential.
type googleCalendarRepo struct {
	svc    *calendar.Service
	logger *zap.Logger
}

// NewGoogleCalendarRepo builds a CalendarRepo from service account
// credentials JSON.
func NewGoogleCalendarRepo(ctx context.Context, credentialsJSON []byte, logger *zap.Logger) (repo.CalendarRepo, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc, err := calendar.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(calendar.CalendarReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &googleCalendarRepo{svc: svc, logger: logger}, nil
}

func (r *googleCalendarRepo) ListEvents(ctx context.Context, calendarID string, from, to time.Time) ([]domain.CalendarEvent, error) {
	result, err := r.svc.Events.List(calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events := make([]domain.CalendarEvent, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, mapEvent(item))
	}

	r.logger.Debug("events fetched",
		zap.String("calendar_id", calendarID),
		zap.Time("from", from),
		zap.Int("count", len(events)))
	return events, nil
}

func mapEvent(item *calendar.Event) domain.CalendarEvent {
	ev := domain.CalendarEvent{
		ID:          item.Id,
		Title:       item.Summary,
		Start:       mapTime(item.Start),
		End:         mapTime(item.End),
		Location:    item.Location,
		Description: item.Description,
	}
	for _, a := range item.Attendees {
		ev.Attendees = append(ev.Attendees, domain.Attendee{
			Email:     a.Email,
			Status:    domain.ResponseStatus(a.ResponseStatus),
			Self:      a.Self,
			Organizer: a.Organizer,
		})
	}
	return ev
}

// mapTime converts the API's three time shapes: dateTime carries an exact
// instant, date alone marks an all-day event, and neither leaves the time
// undetermined.
func mapTime(edt *calendar.EventDateTime) domain.TimeSpec {
	if edt == nil {
		return domain.TimeSpec{}
	}
	if edt.DateTime != "" {
		at, err := time.Parse(time.RFC3339, edt.DateTime)
		if err == nil {
			return domain.PreciseAt(at)
		}
		return domain.TimeSpec{}
	}
	if edt.Date != "" {
		return domain.AllDaySpec()
	}
	return domain.TimeSpec{}
}
