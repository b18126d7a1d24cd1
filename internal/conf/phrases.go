package conf

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PhrasesConfig contains the fixed sentences and tokens used when rendering
// announcements and voice scripts, loaded from YAML with Japanese defaults.
// The structural formatting conventions (numbering, glyphs, separators) stay
// in code because the monitor's matcher and normalizer depend on them.
type PhrasesConfig struct {
	Display DisplayPhrases `yaml:"display"`
	Voice   VoicePhrases   `yaml:"voice"`
}

// DisplayPhrases are the sentences used in the rich channel announcement.
type DisplayPhrases struct {
	NoEventsToday    string `yaml:"no_events_today"`
	NoEventsTomorrow string `yaml:"no_events_tomorrow"`
	DefaultTitle     string `yaml:"default_title"`
	AllDay           string `yaml:"all_day"`
	Undetermined     string `yaml:"undetermined"`
}

// VoicePhrases are the speech-safe tokens used in voice scripts and
// normalized utterances.
type VoicePhrases struct {
	AllDay        string `yaml:"all_day"`
	Undetermined  string `yaml:"undetermined"`
	ClosingMarker string `yaml:"closing_marker"`
}

// LoadPhrasesConfig loads the phrase configuration from a YAML file.
// When no file is found the defaults are returned.
func LoadPhrasesConfig(configPath string) (*PhrasesConfig, error) {
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/phrases.yaml",
			"./configs/phrases.yaml",
		}
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "phrases.yaml"))
		}
		if wd, err := os.Getwd(); err == nil {
			paths = append(paths, filepath.Join(wd, "configs", "phrases.yaml"))
		}
	}

	var data []byte
	for _, p := range paths {
		if p == "" {
			continue
		}
		if b, err := os.ReadFile(p); err == nil {
			data = b
			break
		}
	}

	if data == nil {
		return DefaultPhrasesConfig(), nil
	}

	var config PhrasesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse phrases.yaml: %w", err)
	}

	config.fillDefaults()
	return &config, nil
}

// fillDefaults fills in default values for empty fields
func (c *PhrasesConfig) fillDefaults() {
	defaults := DefaultPhrasesConfig()

	if c.Display.NoEventsToday == "" {
		c.Display.NoEventsToday = defaults.Display.NoEventsToday
	}
	if c.Display.NoEventsTomorrow == "" {
		c.Display.NoEventsTomorrow = defaults.Display.NoEventsTomorrow
	}
	if c.Display.DefaultTitle == "" {
		c.Display.DefaultTitle = defaults.Display.DefaultTitle
	}
	if c.Display.AllDay == "" {
		c.Display.AllDay = defaults.Display.AllDay
	}
	if c.Display.Undetermined == "" {
		c.Display.Undetermined = defaults.Display.Undetermined
	}

	if c.Voice.AllDay == "" {
		c.Voice.AllDay = defaults.Voice.AllDay
	}
	if c.Voice.Undetermined == "" {
		c.Voice.Undetermined = defaults.Voice.Undetermined
	}
	if c.Voice.ClosingMarker == "" {
		c.Voice.ClosingMarker = defaults.Voice.ClosingMarker
	}
}

// DefaultPhrasesConfig returns the default phrase configuration
func DefaultPhrasesConfig() *PhrasesConfig {
	return &PhrasesConfig{
		Display: DisplayPhrases{
			NoEventsToday:    "✨ 予定はありません。お疲れ様です！",
			NoEventsTomorrow: "✨ 予定はありません。ゆっくりお過ごしください！",
			DefaultTitle:     "無題のイベント",
			AllDay:           "終日",
			Undetermined:     "時刻未定",
		},
		Voice: VoicePhrases{
			AllDay:        "終日",
			Undetermined:  "時刻未定で",
			ClosingMarker: "。以上です。",
		},
	}
}
