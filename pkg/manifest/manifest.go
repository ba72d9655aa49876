package manifest

// RunManifest is written next to the outputs of every analyze run. It
// records what was analyzed, with which settings, and what was left out.
type RunManifest struct {
	GeneratedAt       string          `json:"generated_at"`
	Input             string          `json:"input"`
	Settings          Settings        `json:"settings"`
	Articles          int             `json:"articles"`
	Analyzed          int             `json:"analyzed"`
	ExcludedEmpty     int             `json:"excluded_empty"`
	SkippedDates      []SkippedDate   `json:"skipped_dates,omitempty"`
	Groups            int             `json:"groups"`
	Months            []string        `json:"months"`
	Categories        []string        `json:"categories"`
	UnknownCategories []int64         `json:"unknown_categories,omitempty"`
	Languages         *LanguageReport `json:"languages,omitempty"`
	AggregateKeywords []string        `json:"aggregate_keywords"`
	Outputs           []OutputFile    `json:"outputs"`
}

// Settings are the effective analysis options.
type Settings struct {
	StopwordLanguage   string `json:"stopword_language"`
	TokenizerLanguage  string `json:"tokenizer_language"`
	LanguagesMatch     bool   `json:"languages_match"`
	NormalizeMode      string `json:"normalize_mode"`
	SkipMalformedDates bool   `json:"skip_malformed_dates"`
	Workers            int    `json:"workers"`
	Format             string `json:"format"`
}

// SkippedDate is an article dropped for an unparseable date.
type SkippedDate struct {
	ArticleID int64  `json:"article_id"`
	Value     string `json:"value"`
}

// LanguageReport is present when language detection ran.
type LanguageReport struct {
	Detected   []string `json:"detected"`
	Mismatches int      `json:"mismatches"`
}

// OutputFile is one file the run wrote.
type OutputFile struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
}
