package config

import "os"

const (
	preferencesDBPathEnv = "PREFERENCES_DB_PATH"

	defaultPreferencesDBPath = "preferences.db"
)

type PreferencesConfig struct {
	DBPath string
}

func LoadPreferencesConfig() *PreferencesConfig {
	path := os.Getenv(preferencesDBPathEnv)
	if path == "" {
		path = defaultPreferencesDBPath
	}

	return &PreferencesConfig{
		DBPath: path,
	}
}
