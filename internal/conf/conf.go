package conf

import (
	"os"
	"strconv"
	"time"
)

// Config represents application configuration
type Config struct {
	// Feishu configuration
	Feishu FeishuConfig

	// Google Calendar configuration
	Calendar CalendarConfig

	// Speech synthesis configuration
	Speech SpeechConfig

	// Monitor loop configuration
	Monitor MonitorConfig

	// Phrases configuration (loaded from YAML)
	Phrases *PhrasesConfig

	// IANA timezone for all date handling
	Timezone string

	// Include tomorrow's schedule when tomorrow is a business day
	IncludeTomorrow bool

	// Read the schedule aloud after posting
	WithVoice bool

	// Debug mode
	Debug bool
}

// FeishuConfig contains Feishu configuration
type FeishuConfig struct {
	AppID     string
	AppSecret string
	ChatID    string
	BotName   string // Bot display name, used by the announcement matcher
}

// CalendarConfig contains Google Calendar configuration
type CalendarConfig struct {
	CredentialsJSON string // service account credentials, JSON string
	CalendarID      string
}

// SpeechConfig contains speech synthesis configuration
type SpeechConfig struct {
	Backend        string // "voicevox" (default) or "openai"
	VoicevoxAPIKey string
	SpeakerID      int
	OpenAIAPIKey   string
	OpenAIVoice    string
}

// MonitorConfig contains monitor loop configuration
type MonitorConfig struct {
	IntervalSeconds int
	BatchSize       int
	CursorDBPath    string // empty disables the durable checkpoint
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	speakerID := 3 // VOICEVOX default voice
	if val := os.Getenv("VOICEVOX_SPEAKER_ID"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			speakerID = parsed
		}
	}

	intervalSec := 30
	if val := os.Getenv("MONITOR_INTERVAL_SECONDS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			intervalSec = parsed
		}
	}

	batchSize := 5
	if val := os.Getenv("MONITOR_BATCH_SIZE"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			batchSize = parsed
		}
	}

	timezone := os.Getenv("TIMEZONE")
	if timezone == "" {
		timezone = "Asia/Tokyo"
	}

	botName := os.Getenv("BOT_NAME")
	if botName == "" {
		botName = "Calendar Bot"
	}

	backend := os.Getenv("SPEECH_BACKEND")
	if backend == "" {
		backend = "voicevox"
	}

	phrases, _ := LoadPhrasesConfig(os.Getenv("PHRASES_CONFIG_PATH"))

	return &Config{
		Feishu: FeishuConfig{
			AppID:     os.Getenv("FEISHU_APP_ID"),
			AppSecret: os.Getenv("FEISHU_APP_SECRET"),
			ChatID:    os.Getenv("FEISHU_CHAT_ID"),
			BotName:   botName,
		},
		Calendar: CalendarConfig{
			CredentialsJSON: os.Getenv("GOOGLE_CREDENTIALS_JSON"),
			CalendarID:      os.Getenv("CALENDAR_ID"),
		},
		Speech: SpeechConfig{
			Backend:        backend,
			VoicevoxAPIKey: os.Getenv("VOICEVOX_API_KEY"),
			SpeakerID:      speakerID,
			OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
			OpenAIVoice:    os.Getenv("OPENAI_VOICE"),
		},
		Monitor: MonitorConfig{
			IntervalSeconds: intervalSec,
			BatchSize:       batchSize,
			CursorDBPath:    os.Getenv("CURSOR_DB_PATH"),
		},
		Phrases:         phrases,
		Timezone:        timezone,
		IncludeTomorrow: os.Getenv("INCLUDE_TOMORROW") != "false",
		WithVoice:       os.Getenv("WITH_VOICE") != "false",
		Debug:           os.Getenv("DEBUG") == "true",
	}
}

// Location resolves the configured timezone, falling back to UTC when the
// zone name is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Interval returns the monitor poll interval as a duration.
func (c *MonitorConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Feishu.AppID == "" || c.Feishu.AppSecret == "" {
		return &ConfigError{Field: "FEISHU_APP_ID/FEISHU_APP_SECRET", Message: "required"}
	}
	if c.Feishu.ChatID == "" {
		return &ConfigError{Field: "FEISHU_CHAT_ID", Message: "required"}
	}
	return nil
}

// ValidateCalendar validates the daily-pipeline configuration on top of
// Validate; the monitor does not need calendar access.
func (c *Config) ValidateCalendar() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Calendar.CredentialsJSON == "" || c.Calendar.CalendarID == "" {
		return &ConfigError{Field: "GOOGLE_CREDENTIALS_JSON/CALENDAR_ID", Message: "required"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
