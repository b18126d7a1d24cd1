package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/sora-labs/calendar-voice-bot/internal/biz/domain"
	"github.com/sora-labs/calendar-voice-bot/internal/conf"
)

const (
	labelToday    = "今日"
	labelTomorrow = "明日"

	// Descriptions longer than this are cut to the first 97 runes plus an
	// ellipsis in the channel announcement.
	descriptionLimit = 100
)

// RenderUsecase turns a day's events into the channel announcement and its
// speech-script counterpart. It does not re-sort events; the provider
// already orders them by start time.
type RenderUsecase struct {
	loc     *time.Location
	phrases *conf.PhrasesConfig
}

// NewRenderUsecase creates a new render usecase
func NewRenderUsecase(loc *time.Location, phrases *conf.PhrasesConfig) *RenderUsecase {
	if phrases == nil {
		phrases = conf.DefaultPhrasesConfig()
	}
	return &RenderUsecase{loc: loc, phrases: phrases}
}

// RenderDay renders both forms for one schedule day.
func (uc *RenderUsecase) RenderDay(day domain.ScheduleDay) domain.Announcement {
	return domain.Announcement{
		Display:     uc.FormatAnnouncement(day.Events, day.Date, day.IsTomorrow),
		VoiceScript: uc.FormatVoiceScript(day.Events, day.Date, day.IsTomorrow),
	}
}

// FormatAnnouncement produces the rich announcement posted to the channel:
// a header naming the day, one numbered block per event, and a count footer.
func (uc *RenderUsecase) FormatAnnouncement(events []domain.CalendarEvent, date time.Time, isTomorrow bool) string {
	dayLabel := labelToday
	if isTomorrow {
		dayLabel = labelTomorrow
	}
	d := date.In(uc.loc)
	dateStr := fmt.Sprintf("%d年%02d月%02d日 (%s)", d.Year(), int(d.Month()), d.Day(), d.Weekday())
	header := fmt.Sprintf("📅 *%sの予定 - %s*", dayLabel, dateStr)

	if len(events) == 0 {
		if isTomorrow {
			return header + "\n\n" + uc.phrases.Display.NoEventsTomorrow
		}
		return header + "\n\n" + uc.phrases.Display.NoEventsToday
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")

	for i, ev := range events {
		title := ev.Title
		if title == "" {
			title = uc.phrases.Display.DefaultTitle
		}

		fmt.Fprintf(&b, "*%d. %s*\n", i+1, title)
		fmt.Fprintf(&b, "🕐 %s 〜 %s\n", uc.FormatTimeDisplay(ev.Start), uc.FormatTimeDisplay(ev.End))

		if ev.Location != "" {
			fmt.Fprintf(&b, "📍 %s\n", ev.Location)
		}
		if ev.Description != "" {
			desc := ev.Description
			if runes := []rune(desc); len(runes) > descriptionLimit {
				desc = string(runes[:descriptionLimit-3]) + "..."
			}
			fmt.Fprintf(&b, "📝 %s\n", desc)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n📊 合計 %d 件の予定があります", len(events))
	return b.String()
}

// FormatVoiceScript produces the plain speech script for one day: a lead-in
// sentence, one ordinal clause per event, and a closing count sentence. The
// result carries no markup so it can go to synthesis as-is.
func (uc *RenderUsecase) FormatVoiceScript(events []domain.CalendarEvent, date time.Time, isTomorrow bool) string {
	dayLabel := labelToday
	if isTomorrow {
		dayLabel = labelTomorrow
	}
	d := date.In(uc.loc)
	dateStr := fmt.Sprintf("%02d月%02d日", int(d.Month()), d.Day())

	if len(events) == 0 {
		return fmt.Sprintf("%s%sの予定はありません。", dayLabel, dateStr)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%sの予定をお知らせします。", dayLabel, dateStr)

	for i, ev := range events {
		title := ev.Title
		if title == "" {
			title = uc.phrases.Display.DefaultTitle
		}
		fmt.Fprintf(&b, "%d番目、%sから%s。", i+1, uc.FormatTimeSpeech(ev.Start), title)
	}

	fmt.Fprintf(&b, "以上、合計%d件の予定です。", len(events))
	return b.String()
}

// FormatTimeDisplay renders a TimeSpec for the channel announcement.
func (uc *RenderUsecase) FormatTimeDisplay(ts domain.TimeSpec) string {
	switch {
	case ts.IsPrecise():
		return ts.At.In(uc.loc).Format("15:04")
	case ts.IsAllDay():
		return uc.phrases.Display.AllDay
	default:
		return uc.phrases.Display.Undetermined
	}
}

// FormatTimeSpeech renders a TimeSpec for the voice script: "9時" on the
// hour, "9時30分" otherwise.
func (uc *RenderUsecase) FormatTimeSpeech(ts domain.TimeSpec) string {
	switch {
	case ts.IsPrecise():
		at := ts.At.In(uc.loc)
		if at.Minute() == 0 {
			return fmt.Sprintf("%d時", at.Hour())
		}
		return fmt.Sprintf("%d時%d分", at.Hour(), at.Minute())
	case ts.IsAllDay():
		return uc.phrases.Voice.AllDay
	default:
		return uc.phrases.Voice.Undetermined
	}
}
