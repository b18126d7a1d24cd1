package repo

import (
	"context"

	"github.com/sora-labs/calendar-voice-bot/internal/biz/domain"
)

// ChannelRepo is the messaging channel boundary. Post is the one-way
// announcement push; ListRecent reads the message stream back for the
// monitor. PostReturningHandle and Delete exist for diagnostic flows only.
type ChannelRepo interface {
	Post(ctx context.Context, text string) error
	PostReturningHandle(ctx context.Context, text string) (string, error)
	ListRecent(ctx context.Context, limit int) ([]domain.ChannelMessage, error)
	Delete(ctx context.Context, handle string) error
}
