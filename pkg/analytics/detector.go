package analytics

import (
	"strings"

	"github.com/dtnitsch/wp-stylometry/models"
	"github.com/pemistahl/lingua-go"
)

// minDetectRunes is the shortest text worth running detection on.
const minDetectRunes = 40

// Detector guesses the language of article text so that articles written
// in a language other than the stopword language can be reported.
type Detector struct {
	detector lingua.LanguageDetector
}

// NewDetector builds a detector over the languages commonly found on
// German-language news sites.
func NewDetector() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.German, lingua.English, lingua.French, lingua.Italian,
			lingua.Spanish, lingua.Turkish, lingua.Croatian, lingua.Hungarian,
		).
		Build()
	return &Detector{detector: detector}
}

// Detect returns the language of text. The second return is false when the
// text is too short or no language is reliable.
func (d *Detector) Detect(text string) (models.Language, bool) {
	if len([]rune(strings.TrimSpace(text))) < minDetectRunes {
		return "", false
	}

	language, exists := d.detector.DetectLanguageOf(text)
	if !exists {
		return "", false
	}

	switch language {
	case lingua.German:
		return models.LanguageGerman, true
	case lingua.English:
		return models.LanguageEnglish, true
	}
	return models.Language(strings.ToLower(language.String())), true
}
