package usecase

import (
	"regexp"

	"github.com/sora-labs/calendar-voice-bot/internal/biz/domain"
)

// MatchUsecase classifies whether an inbound message is a schedule
// announcement as opposed to ordinary channel traffic.
type MatchUsecase struct {
	botName  string
	patterns []*regexp.Regexp
}

// NewMatchUsecase creates a new match usecase. botName is the announcing
// bot's display identity; empty falls back to the default.
func NewMatchUsecase(botName string) *MatchUsecase {
	if botName == "" {
		botName = "Calendar Bot"
	}
	return &MatchUsecase{
		botName: botName,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`📅.*の予定`),
			regexp.MustCompile(`合計.*件の予定`),
			regexp.MustCompile(regexp.QuoteMeta(botName)),
			regexp.MustCompile(`🕐.*〜`),
		},
	}
}

// IsAnnouncement reports whether msg is a schedule announcement: the sender
// name equals the bot identity, or the body matches any announcement
// pattern. A single match is sufficient.
func (uc *MatchUsecase) IsAnnouncement(msg domain.ChannelMessage) bool {
	if msg.SenderName == uc.botName {
		return true
	}
	for _, p := range uc.patterns {
		if p.MatchString(msg.Text) {
			return true
		}
	}
	return false
}
