package models

import (
	"fmt"
	"strings"
)

// Language names a natural language for tokenization and stopword filtering.
type Language string

const (
	LanguageGerman  Language = "german"
	LanguageEnglish Language = "english"
)

// SupportedLanguages lists the languages with stopword and abbreviation data.
var SupportedLanguages = []Language{LanguageGerman, LanguageEnglish}

var languageAliases = map[string]Language{
	"german":  LanguageGerman,
	"deutsch": LanguageGerman,
	"de":      LanguageGerman,
	"english": LanguageEnglish,
	"en":      LanguageEnglish,
}

// ParseLanguage accepts a language name or ISO-639-1 code.
func ParseLanguage(s string) (Language, error) {
	if lang, ok := languageAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return lang, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, s)
}
