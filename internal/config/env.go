package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const dotEnvFile = ".env"

// loadDotEnv exports the variables of a .env file that are not already set
// and returns their names. A missing file is not an error.
func loadDotEnv(path string) (map[string]bool, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	exported := make(map[string]bool)
	for k, v := range vars {
		if os.Getenv(k) != "" {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return nil, err
		}
		exported[k] = true
	}
	return exported, nil
}

// loadFromEnv overrides config from KANBAN_* environment variables. Empty
// variables are ignored.
func loadFromEnv(cws *ConfigWithSources, fromDotEnv map[string]bool) error {
	for _, f := range fields {
		v := os.Getenv(f.env)
		if v == "" {
			continue
		}
		if err := f.set(cws.Config, v); err != nil {
			return fmt.Errorf("%s: %w", f.env, err)
		}
		if fromDotEnv[f.env] {
			cws.Sources[f.key] = SourceDotEnv
		} else {
			cws.Sources[f.key] = SourceEnv
		}
	}
	return nil
}
