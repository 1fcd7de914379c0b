package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/Descent098/ezcv/internal/logfields"
)

// LoadEnv loads the first of .env/.env.local found in the working directory.
// Variables already present in the process environment are kept. It returns
// the file that was loaded, or "" if none exist.
func LoadEnv() (string, error) {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return "", err
		}
		slog.Debug("Loaded environment file", logfields.File(name))
		return name, nil
	}
	return "", nil
}
