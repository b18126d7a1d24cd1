package usecase

import (
	"strings"
	"testing"
	"time"

	"github.com/sora-labs/calendar-voice-bot/internal/biz/domain"
)

func newRenderer(t *testing.T) *RenderUsecase {
	t.Helper()
	return NewRenderUsecase(jst(t), nil)
}

func TestFormatAnnouncement_NoEvents(t *testing.T) {
	uc := newRenderer(t)
	date := time.Date(2021, 6, 16, 7, 0, 0, 0, jst(t))

	today := uc.FormatAnnouncement(nil, date, false)
	if !strings.HasPrefix(today, "📅 *今日の予定 - 2021年06月16日 (Wednesday)*") {
		t.Errorf("header = %q", today)
	}
	if !strings.HasSuffix(today, "✨ 予定はありません。お疲れ様です！") {
		t.Errorf("today variant missing: %q", today)
	}

	tomorrow := uc.FormatAnnouncement(nil, date.AddDate(0, 0, 1), true)
	if !strings.Contains(tomorrow, "明日の予定") {
		t.Errorf("tomorrow label missing: %q", tomorrow)
	}
	if !strings.HasSuffix(tomorrow, "✨ 予定はありません。ゆっくりお過ごしください！") {
		t.Errorf("tomorrow variant missing: %q", tomorrow)
	}
}

func TestFormatAnnouncement_SingleEvent(t *testing.T) {
	loc := jst(t)
	uc := newRenderer(t)
	date := time.Date(2021, 6, 16, 7, 0, 0, 0, loc)

	start := time.Date(2021, 6, 16, 9, 0, 0, 0, loc)
	end := time.Date(2021, 6, 16, 9, 30, 0, 0, loc)
	events := []domain.CalendarEvent{{
		Title: "Standup",
		Start: domain.PreciseAt(start),
		End:   domain.PreciseAt(end),
	}}

	got := uc.FormatAnnouncement(events, date, false)

	for _, want := range []string{
		"*1. Standup*",
		"🕐 09:00 〜 09:30",
		"📊 合計 1 件の予定があります",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "📍") || strings.Contains(got, "📝") {
		t.Errorf("location/description lines should be absent:\n%s", got)
	}
}

func TestFormatAnnouncement_OptionalLinesAndTruncation(t *testing.T) {
	loc := jst(t)
	uc := newRenderer(t)
	date := time.Date(2021, 6, 16, 7, 0, 0, 0, loc)

	long := strings.Repeat("あ", 120)
	events := []domain.CalendarEvent{
		{
			Title:       "",
			Start:       domain.AllDaySpec(),
			End:         domain.AllDaySpec(),
			Location:    "会議室A",
			Description: long,
		},
		{
			Title:       "Review",
			Description: "short note",
		},
	}

	got := uc.FormatAnnouncement(events, date, false)

	if !strings.Contains(got, "*1. 無題のイベント*") {
		t.Errorf("default title missing:\n%s", got)
	}
	if !strings.Contains(got, "🕐 終日 〜 終日") {
		t.Errorf("all-day token missing:\n%s", got)
	}
	if !strings.Contains(got, "📍 会議室A") {
		t.Errorf("location line missing:\n%s", got)
	}
	if !strings.Contains(got, strings.Repeat("あ", 97)+"...") {
		t.Errorf("long description not truncated:\n%s", got)
	}
	if strings.Contains(got, strings.Repeat("あ", 98)) {
		t.Errorf("truncation kept too much:\n%s", got)
	}
	if !strings.Contains(got, "📝 short note") {
		t.Errorf("short description should be verbatim:\n%s", got)
	}
	if !strings.Contains(got, "🕐 時刻未定 〜 時刻未定") {
		t.Errorf("undetermined token missing:\n%s", got)
	}
	if !strings.Contains(got, "📊 合計 2 件の予定があります") {
		t.Errorf("count footer wrong:\n%s", got)
	}
}

func TestFormatVoiceScript(t *testing.T) {
	loc := jst(t)
	uc := newRenderer(t)
	date := time.Date(2021, 6, 16, 7, 0, 0, 0, loc)

	empty := uc.FormatVoiceScript(nil, date, false)
	if empty != "今日06月16日の予定はありません。" {
		t.Errorf("empty script = %q", empty)
	}

	emptyTomorrow := uc.FormatVoiceScript(nil, date.AddDate(0, 0, 1), true)
	if emptyTomorrow != "明日06月17日の予定はありません。" {
		t.Errorf("empty tomorrow script = %q", emptyTomorrow)
	}

	start1 := time.Date(2021, 6, 16, 9, 0, 0, 0, loc)
	start2 := time.Date(2021, 6, 16, 13, 45, 0, 0, loc)
	events := []domain.CalendarEvent{
		{Title: "朝会", Start: domain.PreciseAt(start1)},
		{Title: "設計レビュー", Start: domain.PreciseAt(start2)},
	}

	got := uc.FormatVoiceScript(events, date, false)
	want := "今日06月16日の予定をお知らせします。" +
		"1番目、9時から朝会。" +
		"2番目、13時45分から設計レビュー。" +
		"以上、合計2件の予定です。"
	if got != want {
		t.Errorf("script =\n%q\nwant\n%q", got, want)
	}
}

func TestFormatVoiceScript_NoDecorativeSymbols(t *testing.T) {
	loc := jst(t)
	uc := newRenderer(t)
	date := time.Date(2021, 6, 16, 7, 0, 0, 0, loc)

	events := []domain.CalendarEvent{
		{Title: "a", Start: domain.AllDaySpec()},
		{Title: "b"},
		{Title: "c", Start: domain.PreciseAt(time.Date(2021, 6, 16, 10, 0, 0, 0, loc))},
	}

	got := uc.FormatVoiceScript(events, date, true)
	for _, glyph := range []string{"📅", "🕐", "📍", "📝", "✨", "📊", "*", "〜"} {
		if strings.Contains(got, glyph) {
			t.Errorf("voice script contains %q: %s", glyph, got)
		}
	}
	if n := strings.Count(got, "番目、"); n != 3 {
		t.Errorf("want one ordinal clause per event, got %d", n)
	}
}

func TestFormatTimeSpeech(t *testing.T) {
	loc := jst(t)
	uc := newRenderer(t)

	tests := []struct {
		name string
		ts   domain.TimeSpec
		want string
	}{
		{"on the hour", domain.PreciseAt(time.Date(2021, 6, 16, 9, 0, 0, 0, loc)), "9時"},
		{"with minutes", domain.PreciseAt(time.Date(2021, 6, 16, 9, 5, 0, 0, loc)), "9時5分"},
		{"all day", domain.AllDaySpec(), "終日"},
		{"undetermined", domain.TimeSpec{}, "時刻未定で"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := uc.FormatTimeSpeech(tt.ts); got != tt.want {
				t.Errorf("FormatTimeSpeech() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatTimeDisplay_ConvertsTimezone(t *testing.T) {
	uc := newRenderer(t)

	// 00:30 UTC is 09:30 JST.
	utc := time.Date(2021, 6, 16, 0, 30, 0, 0, time.UTC)
	if got := uc.FormatTimeDisplay(domain.PreciseAt(utc)); got != "09:30" {
		t.Errorf("FormatTimeDisplay(UTC) = %q, want 09:30", got)
	}
}
