package normalizer

import (
	"strings"
	"testing"

	"github.com/dtnitsch/wp-stylometry/models"
)

func TestClean(t *testing.T) {
	n := New(models.NormalizePlain, "")

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "strips tags",
			html: "<p>Hallo <strong>Welt</strong></p>",
			want: "Hallo Welt",
		},
		{
			name: "decodes entities",
			html: "<p>Fish &amp; Chips &quot;gut&quot;</p>",
			want: `Fish & Chips "gut"`,
		},
		{
			name: "double encoded entities are decoded once more",
			html: "<p>a &amp;lt; b</p>",
			want: "a < b",
		},
		{
			name: "removes shortcodes",
			html: `<p>[caption id="attachment_1"]Bild[/caption] Text</p>`,
			want: "Bild Text",
		},
		{
			name: "drops scripts",
			html: "<p>Text</p><script>var x = 1;</script>",
			want: "Text",
		},
		{
			name: "keeps block boundaries",
			html: "<p>Erster Satz.</p><p>Zweiter Satz.</p>",
			want: "Erster Satz.\nZweiter Satz.",
		},
		{
			name: "empty input",
			html: "",
			want: "",
		},
		{
			name: "only markup",
			html: "<div><img src=\"x.png\"/></div>",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.TrimSpace(n.Clean(tt.html))
			if got != tt.want {
				t.Errorf("Clean() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClean_MalformedMarkup(t *testing.T) {
	n := New(models.NormalizePlain, "")

	inputs := []string{
		"<p>unclosed <b>bold",
		"</div></div>stray closers",
		"<<<>>>",
		"<p attr=\"unterminated>Text</p>",
	}
	for _, in := range inputs {
		// must not panic; result is best effort
		_ = n.Clean(in)
	}

	got := strings.TrimSpace(n.Clean("<p>unclosed <b>bold"))
	if got != "unclosed bold" {
		t.Errorf("Clean() = %q, want %q", got, "unclosed bold")
	}
}

func TestClean_ReadabilityShortFragment(t *testing.T) {
	n := New(models.NormalizeReadability, "https://example.com")

	// Either readability keeps the paragraph or plain extraction takes over.
	got := strings.TrimSpace(n.Clean("<p>Kurz.</p>"))
	if got != "Kurz." {
		t.Errorf("Clean() = %q, want %q", got, "Kurz.")
	}
}

func TestClean_ReadabilityDropsBoilerplate(t *testing.T) {
	body := strings.Repeat("<p>Der Gemeinderat hat am Montag den neuen Budgetentwurf für das kommende Jahr beschlossen, nach einer langen und kontroversen Debatte.</p>", 6)
	page := `<div class="share"><script>track()</script><a href="/teilen">Teilen</a></div><article>` + body + `</article>`

	n := New(models.NormalizeReadability, "https://example.com/2024/03/budget")
	got := n.Clean(page)

	if !strings.Contains(got, "Gemeinderat hat am Montag") {
		t.Errorf("Clean() lost the article body: %q", got)
	}
	if strings.Contains(got, "track()") {
		t.Errorf("Clean() kept script text: %q", got)
	}
}

func TestStripTags_BreakTags(t *testing.T) {
	got := StripTags("Zeile eins<br>Zeile zwei")
	if got != "Zeile eins\nZeile zwei" {
		t.Errorf("StripTags() = %q", got)
	}
}
