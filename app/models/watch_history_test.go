package models

import "testing"

func TestDetectDeviceType(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 16_0)", DEVICE_MOBILE},
		{"Mozilla/5.0 (Linux; Android 13; SM-G991B) Mobile", DEVICE_MOBILE},
		{"Mozilla/5.0 (iPad; CPU OS 16_0)", DEVICE_TABLET},
		{"Mozilla/5.0 (SMART-TV; Linux; Tizen 6.0)", DEVICE_TV},
		{"Roku/DVP-9.10", DEVICE_TV},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64)", DEVICE_DESKTOP},
		{"", DEVICE_UNKNOWN},
	}
	for _, tt := range tests {
		if got := DetectDeviceType(tt.ua); got != tt.want {
			t.Fatalf("DetectDeviceType(%q) = %q, want %q", tt.ua, got, tt.want)
		}
	}
}

func TestWatchHistoryAddDuration(t *testing.T) {
	w := WatchHistory{DurationSeconds: 60}
	w.AddDuration(30)
	w.AddDuration(-10) // negative deltas are ignored
	if w.DurationSeconds != 90 {
		t.Fatalf("duration = %d, want 90", w.DurationSeconds)
	}
}

func TestFormattedDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{45, "45s"},
		{125, "2m 5s"},
		{3725, "1h 2m 5s"},
	}
	for _, tt := range tests {
		w := WatchHistory{DurationSeconds: tt.seconds}
		if got := w.FormattedDuration(); got != tt.want {
			t.Fatalf("FormattedDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
