package config

import (
	"log/slog"
	"os"

	"git.home.luguber.info/inful/xmldocmd/internal/logfields"
	"github.com/joho/godotenv"
)

// DefaultEnvFiles are tried by LoadEnvFiles when no explicit file is given.
var DefaultEnvFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads KEY=VALUE files into the process environment. Existing
// variables are never overwritten. Missing files are skipped; the names of
// the files actually loaded are returned.
func LoadEnvFiles(paths ...string) ([]string, error) {
	if len(paths) == 0 {
		paths = DefaultEnvFiles
	}
	var loaded []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return loaded, err
		}
		slog.Debug("Loaded environment file", logfields.Path(p))
		loaded = append(loaded, p)
	}
	return loaded, nil
}
