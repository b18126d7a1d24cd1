package usecase

import (
	"go.uber.org/zap"

	"github.com/sora-labs/calendar-voice-bot/internal/biz/domain"
)

// FilterUsecase removes events the user has declined.
type FilterUsecase struct {
	calendarID string
	logger     *zap.Logger
}

// NewFilterUsecase creates a new filter usecase
func NewFilterUsecase(calendarID string, logger *zap.Logger) *FilterUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilterUsecase{calendarID: calendarID, logger: logger}
}

// FilterDeclined returns the events not declined by the user, preserving
// input order. The input slice is not mutated. Filtering an already
// filtered list yields the same list.
func (uc *FilterUsecase) FilterDeclined(events []domain.CalendarEvent) []domain.CalendarEvent {
	filtered := make([]domain.CalendarEvent, 0, len(events))
	for _, ev := range events {
		if ev.DeclinedBy(uc.calendarID) {
			uc.logger.Info("filtered out declined event", zap.String("title", ev.Title))
			continue
		}
		filtered = append(filtered, ev)
	}
	return filtered
}
