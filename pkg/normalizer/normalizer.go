// Package normalizer turns rendered post HTML into plain text.
package normalizer

import (
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/wp-stylometry/models"
	"github.com/go-shiori/go-readability"
	"golang.org/x/text/unicode/norm"
)

// shortcodePattern matches WordPress shortcodes such as [caption id="1"].
var shortcodePattern = regexp.MustCompile(`\[.*?\]`)

// tagPattern is the last-resort stripper when the document cannot be parsed.
var tagPattern = regexp.MustCompile(`<[^<]+?>`)

// blockSelector lists elements whose text must not run into the next block.
const blockSelector = "p,div,li,h1,h2,h3,h4,h5,h6,blockquote,figcaption,tr,pre,section,article"

// Normalizer cleans rendered post HTML in one of the normalize modes.
type Normalizer struct {
	mode    string
	pageURL *url.URL
}

// New creates a Normalizer. mode is models.NormalizePlain or
// models.NormalizeReadability; baseURL is only used by readability to
// resolve relative links and may be empty.
func New(mode, baseURL string) *Normalizer {
	pageURL, err := url.Parse(baseURL)
	if err != nil || pageURL.Host == "" {
		pageURL = &url.URL{Scheme: "https", Host: "localhost"}
	}
	return &Normalizer{mode: mode, pageURL: pageURL}
}

// Clean removes markup, decodes entities and strips shortcodes. It never
// fails; malformed markup yields best-effort text, possibly empty.
func (n *Normalizer) Clean(rawHTML string) string {
	if strings.TrimSpace(rawHTML) == "" {
		return ""
	}

	content := rawHTML
	if n.mode == models.NormalizeReadability {
		if main, ok := n.mainContent(rawHTML); ok {
			content = main
		}
	}

	text := StripTags(content)
	text = html.UnescapeString(text)
	text = shortcodePattern.ReplaceAllString(text, "")
	return norm.NFKC.String(text)
}

// StripTags returns the text content of an HTML fragment, keeping block
// boundaries as newlines.
func StripTags(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return tagPattern.ReplaceAllString(fragment, "")
	}

	doc.Find("script,style,noscript").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockSelector).AppendHtml("\n")

	return doc.Text()
}

// mainContent runs readability over the fragment. The second return is
// false when readability fails or finds nothing.
func (n *Normalizer) mainContent(fragment string) (content string, ok bool) {
	defer func() {
		// readability panics on some degenerate trees
		if recover() != nil {
			content, ok = "", false
		}
	}()

	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(fragment), n.pageURL)
	if err != nil || strings.TrimSpace(article.Content) == "" {
		return "", false
	}
	return article.Content, true
}
