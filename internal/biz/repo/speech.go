package repo

import (
	"context"
	"errors"
)

// ErrNoContent is returned when the synthesis backend answered but produced
// no usable audio.
var ErrNoContent = errors.New("synthesis returned no audio content")

// SpeechRepo is the speech-synthesis boundary. Text must be plain prose
// without markup; the voice profile is fixed at construction.
type SpeechRepo interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// PlayerRepo is the audio sink boundary. Play blocks until the clip has
// finished; implementations serialize concurrent callers so only one
// utterance is ever speaking.
type PlayerRepo interface {
	Play(ctx context.Context, audio []byte) error
}
