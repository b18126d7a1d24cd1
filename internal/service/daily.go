// Package service orchestrates the two top-level flows: the daily schedule
// announcement and the channel monitor.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sora-labs/calendar-voice-bot/internal/biz/domain"
	"github.com/sora-labs/calendar-voice-bot/internal/biz/repo"
	"github.com/sora-labs/calendar-voice-bot/internal/biz/usecase"
	"github.com/sora-labs/calendar-voice-bot/internal/conf"
)

const (
	placeholderTitle       = "API接続エラー - プレースホルダーイベント"
	placeholderDescription = "Google Calendar APIへの接続に失敗しました"
)

// daySeparator divides today's and tomorrow's sections in one post.
var daySeparator = "\n\n" + strings.Repeat("=", 30) + "\n\n"

// DailyService runs the morning pipeline: fetch, filter, render, post,
// and optionally read the schedule aloud.
type DailyService struct {
	cfg      *conf.Config
	calendar repo.CalendarRepo
	channel  repo.ChannelRepo
	speech   repo.SpeechRepo
	player   repo.PlayerRepo

	businessDay *usecase.BusinessDayUsecase
	filter      *usecase.FilterUsecase
	render      *usecase.RenderUsecase

	now    func() time.Time
	logger *zap.Logger
}

// NewDailyService wires the daily pipeline. speech and player may be nil
// when voice output is disabled.
func NewDailyService(
	cfg *conf.Config,
	calendar repo.CalendarRepo,
	channel repo.ChannelRepo,
	speech repo.SpeechRepo,
	player repo.PlayerRepo,
	logger *zap.Logger,
) *DailyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := cfg.Location()
	return &DailyService{
		cfg:         cfg,
		calendar:    calendar,
		channel:     channel,
		speech:      speech,
		player:      player,
		businessDay: usecase.NewBusinessDayUsecase(loc, logger),
		filter:      usecase.NewFilterUsecase(cfg.Calendar.CalendarID, logger),
		render:      usecase.NewRenderUsecase(loc, cfg.Phrases),
		now:         time.Now,
		logger:      logger,
	}
}

// Run executes the pipeline once for the current date. Weekends and public
// holidays skip the delivery entirely. The channel post and the voice
// read-out are independent: a speech failure does not undo the post, but
// the aggregate error reports both outcomes.
func (s *DailyService) Run(ctx context.Context) error {
	loc := s.cfg.Location()
	now := s.now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	if !s.businessDay.IsBusinessDay(today) {
		s.logger.Info("today is not a business day, skipping delivery", zap.Time("date", today))
		return nil
	}

	days := []domain.ScheduleDay{s.fetchDay(ctx, today, false)}

	if s.cfg.IncludeTomorrow {
		tomorrow := today.AddDate(0, 0, 1)
		if s.businessDay.IsBusinessDay(tomorrow) {
			days = append(days, s.fetchDay(ctx, tomorrow, true))
		} else {
			s.logger.Info("tomorrow is not a business day, skipping", zap.Time("date", tomorrow))
		}
	}

	announcements := make([]domain.Announcement, len(days))
	sections := make([]string, len(days))
	for i, day := range days {
		announcements[i] = s.render.RenderDay(day)
		sections[i] = announcements[i].Display
	}

	var errs []error

	if err := s.channel.Post(ctx, strings.Join(sections, daySeparator)); err != nil {
		s.logger.Error("failed to post announcement", zap.Error(err))
		errs = append(errs, fmt.Errorf("post announcement: %w", err))
	} else {
		s.logger.Info("announcement posted", zap.Int("days", len(days)))
	}

	if s.cfg.WithVoice && s.speech != nil && s.player != nil {
		for i, ann := range announcements {
			// Tomorrow gets the display section regardless but is only
			// read aloud when it has events.
			if days[i].IsTomorrow && len(days[i].Events) == 0 {
				continue
			}
			if err := s.speak(ctx, ann.VoiceScript); err != nil {
				s.logger.Error("failed to speak schedule",
					zap.Time("date", days[i].Date), zap.Error(err))
				errs = append(errs, fmt.Errorf("speak schedule: %w", err))
			}
		}
	}

	return errors.Join(errs...)
}

// Preview renders the announcement without posting or speaking it. Used
// by the MCP tool surface.
func (s *DailyService) Preview(ctx context.Context) (string, string, error) {
	loc := s.cfg.Location()
	now := s.now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	days := []domain.ScheduleDay{s.fetchDay(ctx, today, false)}
	if s.cfg.IncludeTomorrow {
		tomorrow := today.AddDate(0, 0, 1)
		if s.businessDay.IsBusinessDay(tomorrow) {
			days = append(days, s.fetchDay(ctx, tomorrow, true))
		}
	}

	sections := make([]string, len(days))
	scripts := make([]string, len(days))
	for i, day := range days {
		ann := s.render.RenderDay(day)
		sections[i] = ann.Display
		scripts[i] = ann.VoiceScript
	}
	return strings.Join(sections, daySeparator), strings.Join(scripts, ""), nil
}

// fetchDay retrieves one day's events. A provider failure degrades to a
// single synthetic placeholder event so the announcement still goes out.
func (s *DailyService) fetchDay(ctx context.Context, date time.Time, isTomorrow bool) domain.ScheduleDay {
	from := date
	to := date.AddDate(0, 0, 1)

	events, err := s.calendar.ListEvents(ctx, s.cfg.Calendar.CalendarID, from, to)
	if err != nil {
		s.logger.Warn("calendar fetch failed, using placeholder",
			zap.Time("date", date), zap.Error(err))
		start := date.Add(9 * time.Hour)
		end := start.Add(time.Hour)
		events = []domain.CalendarEvent{{
			ID:          uuid.NewString(),
			Title:       placeholderTitle,
			Start:       domain.PreciseAt(start),
			End:         domain.PreciseAt(end),
			Description: placeholderDescription,
			Synthetic:   true,
		}}
	} else {
		events = s.filter.FilterDeclined(events)
	}

	return domain.ScheduleDay{
		Date:          date,
		Events:        events,
		IsBusinessDay: s.businessDay.IsBusinessDay(date),
		IsTomorrow:    isTomorrow,
	}
}

// speak synthesizes and plays one voice script.
func (s *DailyService) speak(ctx context.Context, script string) error {
	if script == "" {
		return nil
	}
	clip, err := s.speech.Synthesize(ctx, script)
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}
	if err := s.player.Play(ctx, clip); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	return nil
}
