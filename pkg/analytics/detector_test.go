package analytics

import (
	"testing"

	"github.com/dtnitsch/wp-stylometry/models"
)

func TestDetector_Detect(t *testing.T) {
	if testing.Short() {
		t.Skip("language models are large; skipped in -short mode")
	}

	d := NewDetector()

	tests := []struct {
		name   string
		text   string
		want   models.Language
		wantOK bool
	}{
		{
			name:   "german",
			text:   "Die Bundesregierung hat am Mittwoch ein neues Maßnahmenpaket für die Wirtschaft beschlossen.",
			want:   models.LanguageGerman,
			wantOK: true,
		},
		{
			name:   "english",
			text:   "The government announced a new package of measures for the economy on Wednesday afternoon.",
			want:   models.LanguageEnglish,
			wantOK: true,
		},
		{
			name:   "too short",
			text:   "Hallo",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.Detect(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("Detect() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}
