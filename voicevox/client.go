// Package voicevox synthesizes Japanese speech through the hosted VOICEVOX
// web API. The API returns a JSON descriptor pointing at a generated MP3,
// which the client downloads and returns as raw bytes.
package voicevox

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.tts.quest/v3"

// synthesisResult is the response of the synthesis endpoint.
type synthesisResult struct {
	Success        bool   `json:"success"`
	IsAPIKeyValid  bool   `json:"isApiKeyValid"`
	MP3DownloadURL string `json:"mp3DownloadUrl"`
	ErrorMessage   string `json:"errorMessage"`
}

// Client calls the VOICEVOX synthesis API.
type Client struct {
	http      *resty.Client
	apiKey    string
	speakerID int
	logger    *zap.Logger
}

// NewClient creates a VOICEVOX client. speakerID selects the voice
// character; the API key is optional for low-volume use.
func NewClient(apiKey string, speakerID int, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http: resty.New().
			SetBaseURL(defaultBaseURL).
			SetTimeout(60 * time.Second).
			SetRetryCount(2).
			SetRetryWaitTime(2 * time.Second),
		apiKey:    apiKey,
		speakerID: speakerID,
		logger:    logger,
	}
}

// SetBaseURL overrides the API endpoint. Used in tests.
func (c *Client) SetBaseURL(url string) {
	c.http.SetBaseURL(url)
}

// Synthesize converts text to MP3 audio bytes.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text")
	}

	var result synthesisResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"speaker": fmt.Sprintf("%d", c.speakerID),
			"text":    text,
			"key":     c.apiKey,
		}).
		SetResult(&result).
		Get("/voicevox/synthesis")
	if err != nil {
		return nil, fmt.Errorf("synthesis request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("synthesis request: status %d", resp.StatusCode())
	}
	if !result.Success {
		return nil, fmt.Errorf("synthesis failed: %s", result.ErrorMessage)
	}
	if result.MP3DownloadURL == "" {
		return nil, fmt.Errorf("synthesis succeeded but no download url")
	}

	c.logger.Debug("synthesis queued",
		zap.Int("speaker", c.speakerID),
		zap.Int("text_len", len([]rune(text))))

	audio, err := c.download(ctx, result.MP3DownloadURL)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("audio downloaded", zap.Int("bytes", len(audio)))
	return audio, nil
}

// download fetches the generated MP3. The file may not be ready the moment
// the synthesis call returns, so retry on 404 for a short while.
func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	cli := resty.New().
		SetTimeout(60 * time.Second).
		SetRetryCount(5).
		SetRetryWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err == nil && r.StatusCode() == 404
		})

	resp, err := cli.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("download audio: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("download audio: status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}
