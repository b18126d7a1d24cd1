package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sora-labs/calendar-voice-bot/feishu"
	"github.com/sora-labs/calendar-voice-bot/internal/conf"
	"github.com/sora-labs/calendar-voice-bot/internal/data"
	"github.com/sora-labs/calendar-voice-bot/internal/service"
	"github.com/sora-labs/calendar-voice-bot/mcpserver"
)

// voicebot-mcp exposes the schedule pipeline as MCP tools over stdio.
func main() {
	_ = godotenv.Load()

	cfg := conf.LoadFromEnv()
	if err := cfg.ValidateCalendar(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr; stdout is the MCP transport.
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	calRepo, err := data.NewGoogleCalendarRepo(ctx, []byte(cfg.Calendar.CredentialsJSON), logger)
	if err != nil {
		logger.Fatal("init calendar", zap.Error(err))
	}

	fsCli := feishu.NewClient(cfg.Feishu.AppID, cfg.Feishu.AppSecret, cfg.Feishu.ChatID, logger)
	channel := data.NewFeishuChannelRepo(fsCli, cfg.Feishu.BotName, logger)

	speech, err := data.NewSpeechRepo(cfg.Speech, logger)
	if err != nil {
		logger.Fatal("init speech", zap.Error(err))
	}
	player := data.NewPlayerRepo(logger)

	daily := service.NewDailyService(cfg, calRepo, channel, speech, player, logger)

	server := mcpserver.NewServer(&mcpserver.Callbacks{
		GetSchedule: daily.Preview,
		Post:        channel.Post,
		Speak: func(ctx context.Context, text string) error {
			clip, err := speech.Synthesize(ctx, text)
			if err != nil {
				return err
			}
			return player.Play(ctx, clip)
		},
	})

	logger.Info("mcp server starting")
	if err := server.Run(ctx); err != nil {
		logger.Fatal("mcp server exited", zap.Error(err))
	}
}
