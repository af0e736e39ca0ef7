package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"welltrack.io/welltrack/internal/store"
)

type JournalService struct {
	dbStore *store.SQLiteStore
	clock   func() time.Time
}

func NewJournalService(db *store.SQLiteStore) *JournalService {
	return &JournalService{dbStore: db, clock: time.Now}
}

func (s *JournalService) AddEntry(ctx context.Context, title, body string, at time.Time) (*store.JournalEntry, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if at.IsZero() {
		at = s.clock()
	}
	if err := checkTimestamp(at); err != nil {
		return nil, err
	}
	entry, err := s.dbStore.CreateJournalEntry(ctx, title, body, at)
	if err != nil {
		return nil, fmt.Errorf("failed to add journal entry: %w", err)
	}
	return entry, nil
}

// Entries lists the journal newest first.
func (s *JournalService) Entries(ctx context.Context) ([]store.JournalEntry, error) {
	return s.dbStore.ListJournalEntries(ctx)
}
