package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"welltrack.io/welltrack/internal/store"
)

const noMoodLabel = "Not logged yet"

// MoodService owns the append-only mood list. The list is stored whole, so
// every read-modify-write happens under mu.
type MoodService struct {
	dbStore *store.SQLiteStore
	logger  *zap.Logger
	clock   func() time.Time
	mu      sync.Mutex
}

func NewMoodService(db *store.SQLiteStore, logger *zap.Logger) *MoodService {
	return &MoodService{
		dbStore: db,
		logger:  logger.Named("mood"),
		clock:   time.Now,
	}
}

// Entries returns the stored moods in the order they were saved. A list that
// cannot be read or decoded is treated as empty.
func (s *MoodService) Entries(ctx context.Context) []store.MoodEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *MoodService) load(ctx context.Context) []store.MoodEntry {
	entries, err := s.dbStore.LoadMoodEntries(ctx)
	if err != nil {
		s.logger.Warn("mood entries unreadable, starting from an empty list", zap.Error(err))
		return []store.MoodEntry{}
	}
	return entries
}

func (s *MoodService) SaveMood(ctx context.Context, mood store.Mood, note string, at time.Time) (*store.MoodEntry, error) {
	if !mood.Valid() {
		return nil, fmt.Errorf("%w: unknown mood %q", ErrValidation, mood)
	}
	if at.IsZero() {
		at = s.clock()
	}
	if err := checkTimestamp(at); err != nil {
		return nil, err
	}
	entry := store.MoodEntry{
		ID:        uuid.NewString(),
		Timestamp: at,
		Mood:      mood,
		Note:      strings.TrimSpace(note),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entries := append(s.load(ctx), entry)
	if err := s.dbStore.SaveMoodEntries(ctx, entries); err != nil {
		return nil, fmt.Errorf("failed to save mood: %w", err)
	}
	return &entry, nil
}

// ReplaceAll overwrites the whole list.
func (s *MoodService) ReplaceAll(ctx context.Context, entries []store.MoodEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dbStore.SaveMoodEntries(ctx, entries)
}

func (s *MoodService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dbStore.ClearMoodEntries(ctx)
}

// LatestLabel renders the most recent mood as "emoji label".
func (s *MoodService) LatestLabel(ctx context.Context) string {
	entries := s.Entries(ctx)
	if len(entries) == 0 {
		return noMoodLabel
	}
	latest := entries[0]
	for _, e := range entries[1:] {
		if e.Timestamp.After(latest.Timestamp) {
			latest = e
		}
	}
	return latest.Mood.Emoji() + " " + latest.Mood.Label()
}
