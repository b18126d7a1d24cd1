package conf

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"TIMEZONE", "BOT_NAME", "SPEECH_BACKEND", "VOICEVOX_SPEAKER_ID",
		"MONITOR_INTERVAL_SECONDS", "MONITOR_BATCH_SIZE",
		"INCLUDE_TOMORROW", "WITH_VOICE",
	} {
		os.Unsetenv(key)
	}

	cfg := LoadFromEnv()

	if cfg.Timezone != "Asia/Tokyo" {
		t.Errorf("Timezone = %q, want Asia/Tokyo", cfg.Timezone)
	}
	if cfg.Feishu.BotName != "Calendar Bot" {
		t.Errorf("BotName = %q", cfg.Feishu.BotName)
	}
	if cfg.Speech.Backend != "voicevox" {
		t.Errorf("Backend = %q", cfg.Speech.Backend)
	}
	if cfg.Speech.SpeakerID != 3 {
		t.Errorf("SpeakerID = %d, want 3", cfg.Speech.SpeakerID)
	}
	if cfg.Monitor.IntervalSeconds != 30 || cfg.Monitor.BatchSize != 5 {
		t.Errorf("Monitor = %+v", cfg.Monitor)
	}
	if !cfg.IncludeTomorrow || !cfg.WithVoice {
		t.Error("IncludeTomorrow and WithVoice should default to true")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing Feishu credentials")
	}

	cfg.Feishu = FeishuConfig{AppID: "app", AppSecret: "secret", ChatID: "oc_x"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	if err := cfg.ValidateCalendar(); err == nil {
		t.Error("expected error for missing calendar configuration")
	}

	cfg.Calendar = CalendarConfig{CredentialsJSON: "{}", CalendarID: "me@example.com"}
	if err := cfg.ValidateCalendar(); err != nil {
		t.Errorf("ValidateCalendar() = %v", err)
	}
}

func TestLoadPhrasesConfig_MissingFileUsesDefaults(t *testing.T) {
	phrases, err := LoadPhrasesConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadPhrasesConfig() error = %v", err)
	}
	if phrases.Display.NoEventsToday != "✨ 予定はありません。お疲れ様です！" {
		t.Errorf("NoEventsToday = %q", phrases.Display.NoEventsToday)
	}
	if phrases.Voice.Undetermined != "時刻未定で" {
		t.Errorf("Voice.Undetermined = %q", phrases.Voice.Undetermined)
	}
}

func TestLoadPhrasesConfig_PartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "phrases.yaml")
	content := "display:\n  no_events_today: \"予定なし\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	phrases, err := LoadPhrasesConfig(path)
	if err != nil {
		t.Fatalf("LoadPhrasesConfig() error = %v", err)
	}
	if phrases.Display.NoEventsToday != "予定なし" {
		t.Errorf("override not applied: %q", phrases.Display.NoEventsToday)
	}
	// Untouched fields keep their defaults.
	if phrases.Display.DefaultTitle != "無題のイベント" {
		t.Errorf("DefaultTitle = %q", phrases.Display.DefaultTitle)
	}
}
