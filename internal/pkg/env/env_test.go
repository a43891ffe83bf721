package env

import "testing"

func TestGetEnvPrecedence(t *testing.T) {
	fileValues = map[string]string{"APP_PORT": "4000"}
	defer func() { fileValues = nil }()
	t.Setenv("APP_PORT", "9999")
	t.Setenv("DB_HOST", "db.internal")

	if got := GetEnv("APP_PORT", "3000"); got != "4000" {
		t.Fatalf("file value should win, got %q", got)
	}
	if got := GetEnv("DB_HOST", "127.0.0.1"); got != "db.internal" {
		t.Fatalf("os env should back the file, got %q", got)
	}
	if got := GetEnv("CACHE_HOST", "127.0.0.1"); got != "127.0.0.1" {
		t.Fatalf("default should apply, got %q", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	fileValues = map[string]string{"SMTP_PORT": "587", "APP_PORT": "not-a-number"}
	defer func() { fileValues = nil }()

	if got := GetEnvInt("SMTP_PORT", 25); got != 587 {
		t.Fatalf("GetEnvInt = %d, want 587", got)
	}
	if got := GetEnvInt("APP_PORT", 4000); got != 4000 {
		t.Fatalf("non-numeric value should fall back, got %d", got)
	}
	if got := GetEnvInt("MISSING", 7); got != 7 {
		t.Fatalf("missing key should fall back, got %d", got)
	}
}
