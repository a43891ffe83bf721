package models

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sports", "sports"},
		{"News & Current Affairs", "news-current-affairs"},
		{"  Movies  HD  ", "movies-hd"},
		{"Bangla TV 24/7", "bangla-tv-24-7"},
		{"UPPER", "upper"},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
