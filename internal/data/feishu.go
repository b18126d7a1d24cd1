package data

import (
	"context"

	"go.uber.org/zap"

	"github.com/sora-labs/calendar-voice-bot/feishu"
	"github.com/sora-labs/calendar-voice-bot/internal/biz/domain"
	"github.com/sora-labs/calendar-voice-bot/internal/biz/repo"
)

// feishuChannelRepo implements repo.ChannelRepo on a Feishu group chat.
type feishuChannelRepo struct {
	cli     *feishu.Client
	botName string
	logger  *zap.Logger
}

// NewFeishuChannelRepo builds a ChannelRepo over one Feishu chat. botName
// is used as the display name for messages the bot itself sent; empty
// sender names from the platform fall back to it for app senders.
func NewFeishuChannelRepo(cli *feishu.Client, botName string, logger *zap.Logger) repo.ChannelRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &feishuChannelRepo{cli: cli, botName: botName, logger: logger}
}

func (r *feishuChannelRepo) Post(ctx context.Context, text string) error {
	_, err := r.cli.SendText(ctx, text)
	return err
}

func (r *feishuChannelRepo) PostReturningHandle(ctx context.Context, text string) (string, error) {
	return r.cli.SendText(ctx, text)
}

func (r *feishuChannelRepo) ListRecent(ctx context.Context, limit int) ([]domain.ChannelMessage, error) {
	raw, err := r.cli.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	messages := make([]domain.ChannelMessage, 0, len(raw))
	for _, m := range raw {
		sender := m.SenderName
		if sender == "" && (m.SenderType == "app" || m.SenderType == "bot") {
			sender = r.botName
		}
		messages = append(messages, domain.ChannelMessage{
			Handle:       m.MsgID,
			Text:         m.Content,
			SenderName:   sender,
			TimestampKey: m.CreateTime,
		})
	}
	return messages, nil
}

func (r *feishuChannelRepo) Delete(ctx context.Context, handle string) error {
	return r.cli.DeleteMessage(ctx, handle)
}
