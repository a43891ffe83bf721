// Package env loads configuration from a .env file with a process-environment
// fallback, so the same binary works locally (file) and in containers (vars).
package env

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var fileValues map[string]string

// GetEnv returns the value for key: .env file first, then the process
// environment, then the given default.
func GetEnv(key, def string) string {
	if v, ok := fileValues[key]; ok {
		return v
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// GetEnvInt is GetEnv for numeric settings; non-numeric values fall back to
// the default.
func GetEnvInt(key string, def int) int {
	if v, err := strconv.Atoi(GetEnv(key, "")); err == nil {
		return v
	}
	return def
}

// SetupEnvFile reads the .env file. The relative paths cover binaries started
// from under cmd/, like cmd/migrate.
func SetupEnvFile() {
	for _, path := range []string{".env", "../../.env", "../../../.env"} {
		if values, err := godotenv.Read(path); err == nil {
			fileValues = values
			return
		}
	}
	panic("No .env file found in any of the expected locations")
}

// IsDev reports whether the app runs with APP_ENV=dev.
func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
