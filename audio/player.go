// Package audio plays MP3 clips through the system audio device. Playback
// is serialized so overlapping announcements never talk over each other.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	mp3 "github.com/hajimehoshi/go-mp3"
	"go.uber.org/zap"
)

// Player decodes and plays MP3 audio. The underlying audio context is
// created once and reused; oto allows only one per process.
type Player struct {
	mu     sync.Mutex
	otoCtx *oto.Context
	logger *zap.Logger
}

// NewPlayer creates a player. The audio device is opened lazily on first
// playback.
func NewPlayer(logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Player{logger: logger}
}

// Play decodes audio as MP3 and plays it to completion. Blocks until the
// clip finishes or ctx is cancelled. Concurrent calls are serialized.
func (p *Player) Play(ctx context.Context, audio []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	decoder, err := mp3.NewDecoder(bytes.NewReader(audio))
	if err != nil {
		return fmt.Errorf("decode mp3: %w", err)
	}

	if p.otoCtx == nil {
		otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   decoder.SampleRate(),
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			return fmt.Errorf("open audio device: %w", err)
		}
		select {
		case <-ready:
		case <-ctx.Done():
			return ctx.Err()
		}
		p.otoCtx = otoCtx
	}

	player := p.otoCtx.NewPlayer(decoder)
	defer player.Close()
	player.Play()

	p.logger.Debug("playback started", zap.Int("bytes", len(audio)))

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	p.logger.Debug("playback finished")
	return nil
}
