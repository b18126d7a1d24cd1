package usecase

import (
	"regexp"
	"strings"
)

// utteranceCap bounds how many runes an utterance may carry before it is
// cut and the closing marker appended.
const utteranceCap = 200

var (
	boldRe     = regexp.MustCompile(`\*([^*]+)\*`)
	glyphRe    = regexp.MustCompile(`[📅🕐📍📝✨📊]`)
	newlinesRe = regexp.MustCompile(`\n+`)

	numberedRe       = regexp.MustCompile(`^\d+\.`)
	numberedPrefixRe = regexp.MustCompile(`^\d+\.\s*`)
	headerDateRe     = regexp.MustCompile(`\d+年\d+月\d+日`)
	dayLabelRe       = regexp.MustCompile(`今日|明日`)
	clockPrefixRe    = regexp.MustCompile(`🕐\s*`)
	countRe          = regexp.MustCompile(`(\d+)\s*件`)
)

// NormalizeUsecase converts rendered announcement text back into speakable
// prose. The monitor only sees the published text, not the event list it
// was rendered from, so structure is recovered from the formatting
// conventions and the symbol-strip pass is the fallback.
type NormalizeUsecase struct {
	cap           int
	closingMarker string
}

// NewNormalizeUsecase creates a new normalize usecase
func NewNormalizeUsecase(closingMarker string) *NormalizeUsecase {
	if closingMarker == "" {
		closingMarker = "。以上です。"
	}
	return &NormalizeUsecase{cap: utteranceCap, closingMarker: closingMarker}
}

// ExtractVoiceContent turns announcement text into a bounded utterance.
// Lines matching the announcement conventions are converted one by one;
// when nothing matches, the whole string goes through the symbol-strip
// transform instead.
func (uc *NormalizeUsecase) ExtractVoiceContent(text string) string {
	var parts []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.Contains(line, "予定 -"):
			day := dayLabelRe.FindString(line)
			if day != "" && headerDateRe.MatchString(line) {
				parts = append(parts, day+"の予定をお知らせします。")
			}

		case numberedRe.MatchString(line):
			parts = append(parts, numberedPrefixRe.ReplaceAllString(line, "")+"。")

		case strings.Contains(line, "🕐"):
			t := clockPrefixRe.ReplaceAllString(line, "")
			t = strings.ReplaceAll(t, "〜", "から")
			parts = append(parts, "時間は"+t+"です。")

		case strings.Contains(line, "合計") && strings.Contains(line, "件の予定"):
			if m := countRe.FindStringSubmatch(line); m != nil {
				parts = append(parts, "以上、"+m[1]+"件の予定でした。")
			}
		}
	}

	if len(parts) == 0 {
		return uc.Bound(uc.StripMarkup(text))
	}
	return uc.Bound(strings.Join(parts, ""))
}

// StripMarkup applies the whole-string transform: unwrap bold, drop the
// decorative glyphs, collapse line breaks into sentence stops, and turn the
// range separator into its spoken form.
func (uc *NormalizeUsecase) StripMarkup(text string) string {
	s := boldRe.ReplaceAllString(text, "$1")
	s = glyphRe.ReplaceAllString(s, "")
	s = newlinesRe.ReplaceAllString(s, "。")
	s = strings.ReplaceAll(s, "〜", "から")
	return strings.TrimSpace(s)
}

// Bound enforces the utterance length cap, truncating at the cap boundary
// and appending the closing marker when content was cut.
func (uc *NormalizeUsecase) Bound(s string) string {
	runes := []rune(s)
	if len(runes) <= uc.cap {
		return s
	}
	return string(runes[:uc.cap]) + uc.closingMarker
}
