package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/sora-labs/calendar-voice-bot/cursor"
	"github.com/sora-labs/calendar-voice-bot/feishu"
	"github.com/sora-labs/calendar-voice-bot/internal/biz/repo"
	"github.com/sora-labs/calendar-voice-bot/internal/conf"
	"github.com/sora-labs/calendar-voice-bot/internal/data"
	"github.com/sora-labs/calendar-voice-bot/internal/service"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "voicebot",
		Usage: "Post the daily calendar schedule to the chat and read it aloud.",
		Commands: []*cli.Command{
			dailyCommand(),
			monitorCommand(),
			speakCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func dailyCommand() *cli.Command {
	return &cli.Command{
		Name:  "daily",
		Usage: "Run the daily pipeline once: fetch, post, and read the schedule.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-voice", Usage: "Post the announcement without the audio read-out."},
			&cli.BoolFlag{Name: "no-tomorrow", Usage: "Announce today only."},
		},
		Action: func(c *cli.Context) error {
			cfg := conf.LoadFromEnv()
			if c.Bool("no-voice") {
				cfg.WithVoice = false
			}
			if c.Bool("no-tomorrow") {
				cfg.IncludeTomorrow = false
			}
			if err := cfg.ValidateCalendar(); err != nil {
				return err
			}

			logger, err := setupLogger(cfg.Debug)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx := c.Context

			calRepo, err := data.NewGoogleCalendarRepo(ctx, []byte(cfg.Calendar.CredentialsJSON), logger)
			if err != nil {
				return fmt.Errorf("init calendar: %w", err)
			}

			fsCli := feishu.NewClient(cfg.Feishu.AppID, cfg.Feishu.AppSecret, cfg.Feishu.ChatID, logger)
			channel := data.NewFeishuChannelRepo(fsCli, cfg.Feishu.BotName, logger)

			var speech repo.SpeechRepo
			var player repo.PlayerRepo
			if cfg.WithVoice {
				speech, err = data.NewSpeechRepo(cfg.Speech, logger)
				if err != nil {
					return fmt.Errorf("init speech: %w", err)
				}
				player = data.NewPlayerRepo(logger)
			}

			svc := service.NewDailyService(cfg, calRepo, channel, speech, player, logger)
			return svc.Run(ctx)
		},
	}
}

func monitorCommand() *cli.Command {
	return &cli.Command{
		Name:  "monitor",
		Usage: "Watch the chat for schedule announcements and read each one aloud.",
		Action: func(c *cli.Context) error {
			cfg := conf.LoadFromEnv()
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := setupLogger(cfg.Debug)
			if err != nil {
				return err
			}
			defer logger.Sync()

			fsCli := feishu.NewClient(cfg.Feishu.AppID, cfg.Feishu.AppSecret, cfg.Feishu.ChatID, logger)
			channel := data.NewFeishuChannelRepo(fsCli, cfg.Feishu.BotName, logger)

			speech, err := data.NewSpeechRepo(cfg.Speech, logger)
			if err != nil {
				return fmt.Errorf("init speech: %w", err)
			}
			player := data.NewPlayerRepo(logger)

			var store service.CursorStore
			if cfg.Monitor.CursorDBPath != "" {
				cs, err := cursor.NewStore(cfg.Monitor.CursorDBPath)
				if err != nil {
					return fmt.Errorf("init cursor store: %w", err)
				}
				defer cs.Close()
				store = cs
			}

			svc := service.NewMonitorService(cfg, channel, speech, player, store, logger)
			svc.Start()
			defer svc.Stop()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh
			logger.Info("shutting down")
			return nil
		},
	}
}

func speakCommand() *cli.Command {
	return &cli.Command{
		Name:      "speak",
		Usage:     "Synthesize the given text and play it. Useful for checking the audio setup.",
		ArgsUsage: "[text]",
		Action: func(c *cli.Context) error {
			// Without an argument, speak a fixed test line.
			text := c.Args().First()
			if text == "" {
				text = "今日の予定をお知らせします。"
			}

			cfg := conf.LoadFromEnv()
			logger, err := setupLogger(cfg.Debug)
			if err != nil {
				return err
			}
			defer logger.Sync()

			speech, err := data.NewSpeechRepo(cfg.Speech, logger)
			if err != nil {
				return fmt.Errorf("init speech: %w", err)
			}
			player := data.NewPlayerRepo(logger)

			ctx := context.Background()
			clip, err := speech.Synthesize(ctx, text)
			if err != nil {
				return fmt.Errorf("synthesize: %w", err)
			}
			return player.Play(ctx, clip)
		},
	}
}
