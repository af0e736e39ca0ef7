package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

var (
	ErrNotFound = errors.New("not found")
	// ErrDecode marks a stored value that exists but can no longer be decoded.
	ErrDecode = errors.New("stored value could not be decoded")
)

// Setting keys.
const (
	SettingMoodEntries      = "mood_entries"
	SettingDailyGoal        = "daily_hydration_goal_ml"
	SettingRemindersEnabled = "reminders_enabled"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	// One writer is all SQLite allows; a single connection also keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Timestamps are stored as Unix nanoseconds so range filters compare instants, not formatted strings.
func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS hydration_entries (
        id TEXT PRIMARY KEY, -- UUID
        amount REAL NOT NULL CHECK (amount >= 0),
        timestamp INTEGER NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_hydration_entries_timestamp ON hydration_entries (timestamp);

    CREATE TABLE IF NOT EXISTS journal_entries (
        seq INTEGER PRIMARY KEY AUTOINCREMENT,
        id TEXT UNIQUE NOT NULL, -- UUID
        title TEXT NOT NULL,
        body TEXT NOT NULL,
        timestamp INTEGER NOT NULL
    );

    CREATE TABLE IF NOT EXISTS health_samples (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        kind TEXT NOT NULL CHECK (kind IN ('steps', 'active_energy')),
        value REAL NOT NULL CHECK (value >= 0),
        timestamp INTEGER NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_health_samples_kind_timestamp ON health_samples (kind, timestamp);

    CREATE TABLE IF NOT EXISTS settings (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL,
        updated_at INTEGER NOT NULL
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// Timestamps are stored as Unix nanoseconds, which only cover the years 1678 to 2262.
var (
	MinTimestamp = time.Unix(0, math.MinInt64)
	MaxTimestamp = time.Unix(0, math.MaxInt64)
)

// TimestampInRange reports whether t survives a round trip through the store.
func TimestampInRange(t time.Time) bool {
	return !t.Before(MinTimestamp) && !t.After(MaxTimestamp)
}

func toUnixNano(t time.Time) int64 {
	return t.UnixNano()
}

func fromUnixNano(ns int64) time.Time {
	return time.Unix(0, ns)
}

// Hydration methods
func (s *SQLiteStore) AddHydrationEntry(ctx context.Context, amount float64, timestamp time.Time) (*HydrationEntry, error) {
	entry := &HydrationEntry{
		ID:        uuid.NewString(),
		Amount:    amount,
		Timestamp: timestamp,
	}
	_, err := s.db.ExecContext(ctx, "INSERT INTO hydration_entries (id, amount, timestamp) VALUES (?, ?, ?)",
		entry.ID, entry.Amount, toUnixNano(entry.Timestamp))
	if err != nil {
		return nil, fmt.Errorf("failed to insert hydration entry: %w", err)
	}
	return entry, nil
}

// AddHydrationEntries inserts all entries in one transaction, assigning IDs in place.
func (s *SQLiteStore) AddHydrationEntries(ctx context.Context, entries []HydrationEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin hydration batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO hydration_entries (id, amount, timestamp) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare hydration insert: %w", err)
	}
	defer stmt.Close()

	for i := range entries {
		entries[i].ID = uuid.NewString()
		if _, err := stmt.ExecContext(ctx, entries[i].ID, entries[i].Amount, toUnixNano(entries[i].Timestamp)); err != nil {
			return fmt.Errorf("failed to execute hydration insert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit hydration batch: %w", err)
	}
	return nil
}

// ListHydrationEntries returns entries with timestamps in [from, to), newest first.
// A zero bound leaves that side of the range open.
func (s *SQLiteStore) ListHydrationEntries(ctx context.Context, from, to time.Time) ([]HydrationEntry, error) {
	query := "SELECT id, amount, timestamp FROM hydration_entries WHERE 1 = 1"
	var args []any
	if !from.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, toUnixNano(from))
	}
	if !to.IsZero() {
		query += " AND timestamp < ?"
		args = append(args, toUnixNano(to))
	}
	query += " ORDER BY timestamp DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query hydration entries: %w", err)
	}
	defer rows.Close()

	var entries []HydrationEntry
	for rows.Next() {
		var entry HydrationEntry
		var ts int64
		if err := rows.Scan(&entry.ID, &entry.Amount, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan hydration row: %w", err)
		}
		entry.Timestamp = fromUnixNano(ts)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate hydration rows: %w", err)
	}
	return entries, nil
}

func (s *SQLiteStore) GetHydrationEntry(ctx context.Context, id string) (*HydrationEntry, error) {
	var entry HydrationEntry
	var ts int64
	err := s.db.QueryRowContext(ctx, "SELECT id, amount, timestamp FROM hydration_entries WHERE id = ?", id).Scan(&entry.ID, &entry.Amount, &ts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get hydration entry: %w", err)
	}
	entry.Timestamp = fromUnixNano(ts)
	return &entry, nil
}

func (s *SQLiteStore) DeleteHydrationEntry(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM hydration_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete hydration entry: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteAllHydrationEntries(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM hydration_entries")
	if err != nil {
		return 0, fmt.Errorf("failed to delete hydration entries: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

// Mood methods

// LoadMoodEntries decodes the stored mood list. A missing list is empty; an
// undecodable one is reported with ErrDecode.
func (s *SQLiteStore) LoadMoodEntries(ctx context.Context) ([]MoodEntry, error) {
	raw, err := s.GetSetting(ctx, SettingMoodEntries)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []MoodEntry{}, nil
		}
		return nil, err
	}
	var entries []MoodEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, SettingMoodEntries, err)
	}
	if entries == nil {
		entries = []MoodEntry{}
	}
	return entries, nil
}

// SaveMoodEntries replaces the whole stored list.
func (s *SQLiteStore) SaveMoodEntries(ctx context.Context, entries []MoodEntry) error {
	if entries == nil {
		entries = []MoodEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode mood entries: %w", err)
	}
	return s.SetSetting(ctx, SettingMoodEntries, string(data))
}

func (s *SQLiteStore) ClearMoodEntries(ctx context.Context) error {
	return s.DeleteSetting(ctx, SettingMoodEntries)
}

// Journal methods
func (s *SQLiteStore) CreateJournalEntry(ctx context.Context, title, body string, timestamp time.Time) (*JournalEntry, error) {
	entry := &JournalEntry{
		ID:        uuid.NewString(),
		Timestamp: timestamp,
		Title:     title,
		Body:      body,
	}
	stmt, err := s.db.PrepareContext(ctx, "INSERT INTO journal_entries (id, title, body, timestamp) VALUES (?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare journal insert: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, entry.ID, entry.Title, entry.Body, toUnixNano(entry.Timestamp)); err != nil {
		return nil, fmt.Errorf("failed to execute journal insert: %w", err)
	}
	return entry, nil
}

// ListJournalEntries returns entries most recently written first.
func (s *SQLiteStore) ListJournalEntries(ctx context.Context) ([]JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, title, body, timestamp FROM journal_entries ORDER BY seq DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	entries := []JournalEntry{}
	for rows.Next() {
		var entry JournalEntry
		var ts int64
		if err := rows.Scan(&entry.ID, &entry.Title, &entry.Body, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		entry.Timestamp = fromUnixNano(ts)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal rows: %w", err)
	}
	return entries, nil
}

// Health sample methods
func (s *SQLiteStore) AddHealthSample(ctx context.Context, kind string, value float64, timestamp time.Time) (*HealthSample, error) {
	res, err := s.db.ExecContext(ctx, "INSERT INTO health_samples (kind, value, timestamp) VALUES (?, ?, ?)",
		kind, value, toUnixNano(timestamp))
	if err != nil {
		return nil, fmt.Errorf("failed to insert health sample: %w", err)
	}
	id, _ := res.LastInsertId()
	return &HealthSample{ID: id, Kind: kind, Value: value, Timestamp: timestamp}, nil
}

// SumHealthSamples totals the samples of one kind in [from, to).
func (s *SQLiteStore) SumHealthSamples(ctx context.Context, kind string, from, to time.Time) (float64, error) {
	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		"SELECT SUM(value) FROM health_samples WHERE kind = ? AND timestamp >= ? AND timestamp < ?",
		kind, toUnixNano(from), toUnixNano(to)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum health samples: %w", err)
	}
	return total.Float64, nil
}

// Setting methods
func (s *SQLiteStore) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
        ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
    `, key, value, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) DeleteSetting(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}
