// Package analytics computes per-article stylometric metrics.
package analytics

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/sentences"
	"github.com/clipperhouse/uax29/v2/words"
	"github.com/dtnitsch/wp-stylometry/models"
)

// Options selects the languages used for tokenization and stopword
// filtering. They are independent on purpose: the historical analyses
// split sentences with English rules while filtering German stopwords.
type Options struct {
	StopwordLanguage  models.Language
	TokenizerLanguage models.Language
}

// DefaultOptions reproduces the historical behavior.
func DefaultOptions() Options {
	return Options{
		StopwordLanguage:  models.LanguageGerman,
		TokenizerLanguage: models.LanguageEnglish,
	}
}

type Analytics struct {
	opts          Options
	stopwords     map[string]struct{}
	abbreviations map[string]struct{}
}

// New builds an Analytics for the given languages.
func New(opts Options) (*Analytics, error) {
	sw, ok := stopwords[opts.StopwordLanguage]
	if !ok {
		return nil, unsupported(opts.StopwordLanguage)
	}
	abbr, ok := abbreviations[opts.TokenizerLanguage]
	if !ok {
		return nil, unsupported(opts.TokenizerLanguage)
	}
	return &Analytics{opts: opts, stopwords: sw, abbreviations: abbr}, nil
}

func unsupported(lang models.Language) error {
	return fmt.Errorf("%w: %q", models.ErrInvalidLanguage, lang)
}

// Options returns the configured languages.
func (a *Analytics) Options() Options {
	return a.opts
}

// LanguagesMatch reports whether tokenizer and stopword languages agree.
func (a *Analytics) LanguagesMatch() bool {
	return a.opts.StopwordLanguage == a.opts.TokenizerLanguage
}

// Extract computes the metrics of one plain-text article. Empty text
// yields zero metrics.
func (a *Analytics) Extract(text string) models.ArticleMetrics {
	m, _ := a.ExtractWithCounts(text)
	return m
}

// ExtractWithCounts is Extract plus the frequency of every filtered token,
// from a single tokenization pass.
func (a *Analytics) ExtractWithCounts(text string) (models.ArticleMetrics, map[string]int) {
	tokens := a.Tokens(text)
	sentenceCount := len(a.Sentences(text))

	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}

	m := models.ArticleMetrics{
		WordCount:     len(tokens),
		SentenceCount: sentenceCount,
	}
	if sentenceCount > 0 {
		m.AvgSentenceLength = float64(m.WordCount) / float64(sentenceCount)
	}
	if m.WordCount > 0 {
		m.LexicalDiversity = float64(len(counts)) / float64(m.WordCount)
	}
	return m, counts
}

// Tokens returns the lower-cased alphanumeric words of text that are not
// stopwords, in order.
func (a *Analytics) Tokens(text string) []string {
	var tokens []string
	seg := words.FromString(text)
	for seg.Next() {
		word := seg.Value()
		if !isAlnum(word) {
			continue
		}
		word = strings.ToLower(word)
		if _, stop := a.stopwords[word]; stop {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// Sentences splits text into sentence units. Segments without any letter
// or digit are dropped, and segments ending in a known abbreviation are
// joined with the following one.
func (a *Analytics) Sentences(text string) []string {
	var out []string
	var pending strings.Builder

	seg := sentences.FromString(text)
	for seg.Next() {
		pending.WriteString(seg.Value())
		if a.endsWithAbbreviation(pending.String()) {
			continue
		}
		if s := strings.TrimSpace(pending.String()); hasAlnum(s) {
			out = append(out, s)
		}
		pending.Reset()
	}
	if s := strings.TrimSpace(pending.String()); hasAlnum(s) {
		out = append(out, s)
	}
	return out
}

func (a *Analytics) endsWithAbbreviation(segment string) bool {
	fields := strings.Fields(segment)
	if len(fields) == 0 {
		return false
	}
	last := fields[len(fields)-1]
	if !strings.HasSuffix(last, ".") {
		return false
	}
	last = strings.ToLower(strings.TrimLeftFunc(strings.TrimSuffix(last, "."), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}))
	_, ok := a.abbreviations[last]
	return ok
}

// isAlnum reports whether s is non-empty and made of letters and numbers only.
func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

func hasAlnum(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}
