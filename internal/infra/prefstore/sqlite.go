package prefstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/lumenwell/lumen-notification-triage/internal/domain"
)

// SQLiteStore persists per-user triage preferences in a local SQLite
// database. List-shaped fields are stored as JSON columns; the row is
// the unit of replacement.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath, enables
// WAL mode, and ensures the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) DB() *sqlx.DB {
	return s.db
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS user_preferences (
			user_id           TEXT PRIMARY KEY,
			vip_senders       TEXT NOT NULL DEFAULT '[]',
			quiet_start       TEXT NOT NULL DEFAULT '',
			quiet_end         TEXT NOT NULL DEFAULT '',
			timezone          TEXT NOT NULL DEFAULT 'UTC',
			windows           TEXT NOT NULL DEFAULT '[]',
			override_activity TEXT NOT NULL DEFAULT '',
			override_until    TIMESTAMP,
			updated_at        TIMESTAMP NOT NULL
		)`)
	return err
}

type preferencesRow struct {
	UserID           string       `db:"user_id"`
	VIPSenders       string       `db:"vip_senders"`
	QuietStart       string       `db:"quiet_start"`
	QuietEnd         string       `db:"quiet_end"`
	Timezone         string       `db:"timezone"`
	Windows          string       `db:"windows"`
	OverrideActivity string       `db:"override_activity"`
	OverrideUntil    sql.NullTime `db:"override_until"`
	UpdatedAt        time.Time    `db:"updated_at"`
}

func (s *SQLiteStore) GetPreferences(ctx context.Context, userID string) (*domain.Preferences, error) {
	var row preferencesRow
	err := s.db.GetContext(ctx, &row,
		"SELECT * FROM user_preferences WHERE user_id = ?", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPreferencesNotFound
		}
		return nil, fmt.Errorf("getting preferences for %s: %w", userID, err)
	}

	return row.toDomain()
}

func (s *SQLiteStore) PutPreferences(ctx context.Context, prefs *domain.Preferences) error {
	if prefs.UserID == "" {
		return fmt.Errorf("preferences user_id must not be empty")
	}

	vipSenders, err := json.Marshal(prefs.VIPSenders)
	if err != nil {
		return fmt.Errorf("encoding vip senders: %w", err)
	}
	windows, err := json.Marshal(prefs.Windows)
	if err != nil {
		return fmt.Errorf("encoding windows: %w", err)
	}

	overrideActivity := ""
	var overrideUntil sql.NullTime
	if prefs.Override != nil {
		overrideActivity = prefs.Override.Activity.String()
		overrideUntil = sql.NullTime{Time: prefs.Override.Until.UTC(), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_preferences (
			user_id, vip_senders, quiet_start, quiet_end,
			timezone, windows, override_activity, override_until, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			vip_senders = excluded.vip_senders,
			quiet_start = excluded.quiet_start,
			quiet_end = excluded.quiet_end,
			timezone = excluded.timezone,
			windows = excluded.windows,
			override_activity = excluded.override_activity,
			override_until = excluded.override_until,
			updated_at = excluded.updated_at`,
		prefs.UserID, string(vipSenders), prefs.QuietStart, prefs.QuietEnd,
		prefs.Timezone, string(windows), overrideActivity, overrideUntil, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving preferences for %s: %w", prefs.UserID, err)
	}
	return nil
}

func (s *SQLiteStore) DeletePreferences(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM user_preferences WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("deleting preferences for %s: %w", userID, err)
	}
	return nil
}

func (r preferencesRow) toDomain() (*domain.Preferences, error) {
	prefs := &domain.Preferences{
		UserID:     r.UserID,
		QuietStart: r.QuietStart,
		QuietEnd:   r.QuietEnd,
		Timezone:   r.Timezone,
	}

	if err := json.Unmarshal([]byte(r.VIPSenders), &prefs.VIPSenders); err != nil {
		return nil, fmt.Errorf("decoding vip senders for %s: %w", r.UserID, err)
	}
	if err := json.Unmarshal([]byte(r.Windows), &prefs.Windows); err != nil {
		return nil, fmt.Errorf("decoding windows for %s: %w", r.UserID, err)
	}

	if r.OverrideActivity != "" && r.OverrideUntil.Valid {
		activity, err := domain.ParseActivity(r.OverrideActivity)
		if err != nil {
			return nil, fmt.Errorf("decoding override for %s: %w", r.UserID, err)
		}
		prefs.Override = &domain.ContextOverride{
			Activity: activity,
			Until:    r.OverrideUntil.Time,
		}
	}

	return prefs, nil
}
