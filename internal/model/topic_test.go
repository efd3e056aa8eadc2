package model

import "testing"

// TestTopicIDURL tests canonical URL construction.
func TestTopicIDURL(t *testing.T) {
	t.Parallel()

	id := TopicID("020200")
	want := "http://metadata.un.org/thesaurus/020200"
	if got := id.URL(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

// TestTopicLabel tests display label selection across languages.
func TestTopicLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		labels map[string]string
		prefer string
		want   string
	}{
		{
			name:   "prefers requested language",
			labels: map[string]string{"en": "Agriculture", "fr": "Agriculture (fr)"},
			prefer: "fr",
			want:   "Agriculture (fr)",
		},
		{
			name:   "empty preference falls back to English",
			labels: map[string]string{"en": "Health", "es": "Salud"},
			prefer: "",
			want:   "Health",
		},
		{
			name:   "unknown preference falls back to English",
			labels: map[string]string{"en": "Trade", "ru": "Торговля"},
			prefer: "not-a-tag",
			want:   "Trade",
		},
		{
			name:   "missing requested language uses publication order",
			labels: map[string]string{"es": "Industria", "ru": "Промышленность"},
			prefer: "de",
			want:   "Industria",
		},
		{
			name:   "regional variant matches base language",
			labels: map[string]string{"en": "Education", "fr": "Éducation"},
			prefer: "fr-CA",
			want:   "Éducation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			topic := Topic{ID: "000100", Labels: tt.labels}
			if got := topic.Label(tt.prefer); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestTopicLabelWithoutLabels tests the fallback for unfetched topics.
func TestTopicLabelWithoutLabels(t *testing.T) {
	t.Parallel()

	topic := Topic{ID: "999999"}
	if got := topic.Label("en"); got != "999999" {
		t.Errorf("expected identifier fallback, got %q", got)
	}
}
