package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sora-labs/calendar-voice-bot/internal/biz/domain"
	"github.com/sora-labs/calendar-voice-bot/internal/biz/repo"
	"github.com/sora-labs/calendar-voice-bot/internal/biz/usecase"
	"github.com/sora-labs/calendar-voice-bot/internal/conf"
)

// CursorStore persists the monitor watermark across restarts. Optional;
// a nil store keeps the cursor in memory only.
type CursorStore interface {
	Get(channelID string) (string, error)
	Put(channelID, cursor string) error
}

// MonitorService polls the channel for schedule announcements and reads
// each new one aloud exactly once.
type MonitorService struct {
	channel repo.ChannelRepo
	speech  repo.SpeechRepo
	player  repo.PlayerRepo

	matcher   *usecase.MatchUsecase
	normalize *usecase.NormalizeUsecase

	chatID    string
	interval  time.Duration
	batchSize int

	cursor   domain.Cursor
	store    CursorStore
	clips    map[string][]byte // synthesized audio keyed by timestamp, replays skip the backend
	clipKeys []string

	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
	logger  *zap.Logger
}

// NewMonitorService wires the monitor loop. store may be nil to disable
// the durable checkpoint.
func NewMonitorService(
	cfg *conf.Config,
	channel repo.ChannelRepo,
	speech repo.SpeechRepo,
	player repo.PlayerRepo,
	store CursorStore,
	logger *zap.Logger,
) *MonitorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	closing := ""
	if cfg.Phrases != nil {
		closing = cfg.Phrases.Voice.ClosingMarker
	}
	s := &MonitorService{
		channel:   channel,
		speech:    speech,
		player:    player,
		matcher:   usecase.NewMatchUsecase(cfg.Feishu.BotName),
		normalize: usecase.NewNormalizeUsecase(closing),
		chatID:    cfg.Feishu.ChatID,
		interval:  cfg.Monitor.Interval(),
		batchSize: cfg.Monitor.BatchSize,
		store:     store,
		clips:     make(map[string][]byte),
		stopCh:    make(chan struct{}),
		logger:    logger,
	}
	if store != nil {
		saved, err := store.Get(s.chatID)
		if err != nil {
			logger.Warn("failed to load cursor checkpoint", zap.Error(err))
		} else if saved != "" {
			s.cursor = domain.Cursor(saved)
			logger.Info("cursor restored", zap.String("cursor", saved))
		}
	}
	return s
}

// Start launches the poll loop.
func (s *MonitorService) Start() {
	if s.running {
		return
	}
	s.running = true
	s.wg.Add(1)
	go s.loop()
	s.logger.Info("monitor started",
		zap.Duration("interval", s.interval),
		zap.Int("batch_size", s.batchSize))
}

// Stop stops the poll loop and waits for the current iteration to finish.
func (s *MonitorService) Stop() {
	if !s.running {
		return
	}
	s.running = false
	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info("monitor stopped")
}

func (s *MonitorService) loop() {
	defer s.wg.Done()

	s.Poll(context.Background())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Poll(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Poll runs one monitor iteration: read the recent messages, speak the
// first unprocessed announcement, and advance the cursor. At most one
// announcement is spoken per iteration. The cursor moves only after the
// full pipeline succeeds, so a failed message is retried on the next poll;
// non-announcement messages are skipped without advancing.
func (s *MonitorService) Poll(ctx context.Context) {
	messages, err := s.channel.ListRecent(ctx, s.batchSize)
	if err != nil {
		s.logger.Error("failed to list messages", zap.Error(err))
		return
	}

	for _, msg := range messages {
		if !s.cursor.Allows(msg.TimestampKey) {
			continue
		}
		if !s.matcher.IsAnnouncement(msg) {
			continue
		}

		s.logger.Info("announcement detected",
			zap.String("sender", msg.SenderName),
			zap.String("key", msg.TimestampKey))

		// Stop the poll here either way. Moving on to newer messages
		// after a failure would let a later success carry the cursor
		// past the failed key, losing it for good.
		if err := s.speakMessage(ctx, msg); err != nil {
			s.logger.Error("failed to speak announcement",
				zap.String("key", msg.TimestampKey), zap.Error(err))
			return
		}

		s.advance(msg.TimestampKey)
		return
	}
}

// speakMessage normalizes, synthesizes, and plays one announcement.
// Synthesized clips are cached by timestamp key so a retried playback
// does not hit the synthesis backend again.
func (s *MonitorService) speakMessage(ctx context.Context, msg domain.ChannelMessage) error {
	script := s.normalize.ExtractVoiceContent(msg.Text)
	if script == "" {
		return fmt.Errorf("no speakable content extracted")
	}
	script = s.normalize.Bound(script)

	clip, ok := s.clips[msg.TimestampKey]
	if !ok {
		var err error
		clip, err = s.speech.Synthesize(ctx, script)
		if err != nil {
			return err
		}
		s.cacheClip(msg.TimestampKey, clip)
	}

	return s.player.Play(ctx, clip)
}

// advance moves the watermark forward and checkpoints it when a store is
// configured. A checkpoint failure is logged but does not stop the loop.
func (s *MonitorService) advance(key string) {
	next := s.cursor.Advance(key)
	if next == s.cursor {
		return
	}
	s.cursor = next
	if s.store != nil {
		if err := s.store.Put(s.chatID, string(next)); err != nil {
			s.logger.Warn("failed to checkpoint cursor", zap.Error(err))
		}
	}
}

// cacheClip remembers a synthesized clip, evicting the oldest entries
// beyond a small bound.
func (s *MonitorService) cacheClip(key string, clip []byte) {
	const maxClips = 16
	if _, exists := s.clips[key]; exists {
		return
	}
	s.clips[key] = clip
	s.clipKeys = append(s.clipKeys, key)
	for len(s.clipKeys) > maxClips {
		delete(s.clips, s.clipKeys[0])
		s.clipKeys = s.clipKeys[1:]
	}
}
