package data

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sora-labs/calendar-voice-bot/audio"
	"github.com/sora-labs/calendar-voice-bot/internal/biz/repo"
	"github.com/sora-labs/calendar-voice-bot/internal/conf"
	"github.com/sora-labs/calendar-voice-bot/openaispeech"
	"github.com/sora-labs/calendar-voice-bot/voicevox"
)

// synthesizer is the common shape of both speech backends.
type synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// speechRepo implements repo.SpeechRepo over a concrete backend.
type speechRepo struct {
	backend synthesizer
}

// NewSpeechRepo selects a speech backend from configuration. "voicevox"
// uses the hosted VOICEVOX API; "openai" uses the OpenAI speech endpoint.
func NewSpeechRepo(cfg conf.SpeechConfig, logger *zap.Logger) (repo.SpeechRepo, error) {
	var backend synthesizer
	switch cfg.Backend {
	case "voicevox":
		backend = voicevox.NewClient(cfg.VoicevoxAPIKey, cfg.SpeakerID, logger)
	case "openai":
		backend = openaispeech.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIVoice, logger)
	default:
		return nil, fmt.Errorf("unknown speech backend: %q", cfg.Backend)
	}
	return &speechRepo{backend: backend}, nil
}

func (r *speechRepo) Synthesize(ctx context.Context, text string) ([]byte, error) {
	out, err := r.backend.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, repo.ErrNoContent
	}
	return out, nil
}

// playerRepo implements repo.PlayerRepo on the local audio device.
type playerRepo struct {
	player *audio.Player
}

// NewPlayerRepo builds a PlayerRepo over the system audio device.
func NewPlayerRepo(logger *zap.Logger) repo.PlayerRepo {
	return &playerRepo{player: audio.NewPlayer(logger)}
}

func (r *playerRepo) Play(ctx context.Context, audio []byte) error {
	return r.player.Play(ctx, audio)
}
