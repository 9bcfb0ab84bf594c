package domain

import "context"

//go:generate mockgen -source=preference_store.go -destination=preference_store_mock.go -package=domain

// PreferenceStore holds per-user triage preferences. GetPreferences
// returns ErrPreferencesNotFound for users that never registered.
type PreferenceStore interface {
	GetPreferences(ctx context.Context, userID string) (*Preferences, error)
	PutPreferences(ctx context.Context, prefs *Preferences) error
	DeletePreferences(ctx context.Context, userID string) error
}
