// Package openaispeech provides an alternative text-to-speech backend using
// the OpenAI speech API.
package openaispeech

import (
	"context"
	"fmt"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Client wraps the OpenAI speech endpoint.
type Client struct {
	cli    *openai.Client
	voice  openai.SpeechVoice
	logger *zap.Logger
}

// NewClient creates an OpenAI speech client. voice selects the preset voice
// name; an empty value falls back to "alloy".
func NewClient(apiKey, voice string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := openai.SpeechVoice(voice)
	if v == "" {
		v = openai.VoiceAlloy
	}
	return &Client{
		cli:    openai.NewClient(apiKey),
		voice:  v,
		logger: logger,
	}
}

// Synthesize converts text to MP3 audio bytes.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := c.cli.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          c.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("create speech: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read speech response: %w", err)
	}

	c.logger.Debug("speech synthesized",
		zap.Int("text_len", len([]rune(text))),
		zap.Int("bytes", len(audio)))
	return audio, nil
}
