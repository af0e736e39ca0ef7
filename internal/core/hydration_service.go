package core

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"welltrack.io/welltrack/internal/store"
)

// DefaultServingMl is the amount logged by a plain "add water".
const DefaultServingMl = 250.0

type HydrationService struct {
	dbStore *store.SQLiteStore
	logger  *zap.Logger
	clock   func() time.Time
}

func NewHydrationService(db *store.SQLiteStore, logger *zap.Logger) *HydrationService {
	return &HydrationService{
		dbStore: db,
		logger:  logger.Named("hydration"),
		clock:   time.Now,
	}
}

// AddWater logs amountMl at the given instant; a zero amount means one
// default serving and a zero instant means now.
func (s *HydrationService) AddWater(ctx context.Context, amountMl float64, at time.Time) (*store.HydrationEntry, error) {
	if amountMl == 0 {
		amountMl = DefaultServingMl
	}
	if amountMl < 0 || math.IsNaN(amountMl) || math.IsInf(amountMl, 0) {
		return nil, fmt.Errorf("%w: amount must be a positive volume", ErrValidation)
	}
	if at.IsZero() {
		at = s.clock()
	}
	if err := checkTimestamp(at); err != nil {
		return nil, err
	}
	entry, err := s.dbStore.AddHydrationEntry(ctx, amountMl, at)
	if err != nil {
		return nil, fmt.Errorf("failed to add water: %w", err)
	}
	s.logger.Debug("water added", zap.String("id", entry.ID), zap.Float64("amount_ml", amountMl))
	return entry, nil
}

// TotalForDay sums the entries logged on day's calendar day.
func (s *HydrationService) TotalForDay(ctx context.Context, day time.Time) (float64, error) {
	start := StartOfDay(day)
	entries, err := s.dbStore.ListHydrationEntries(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return 0, fmt.Errorf("failed to total hydration: %w", err)
	}
	var total float64
	for _, e := range entries {
		total += e.Amount
	}
	return total, nil
}

func (s *HydrationService) TodayTotal(ctx context.Context) (float64, error) {
	return s.TotalForDay(ctx, s.clock())
}

// ListEntries returns entries in [from, to), newest first.
func (s *HydrationService) ListEntries(ctx context.Context, from, to time.Time) ([]store.HydrationEntry, error) {
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return nil, fmt.Errorf("%w: from must be before to", ErrValidation)
	}
	entries, err := s.dbStore.ListHydrationEntries(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []store.HydrationEntry{}
	}
	return entries, nil
}

// WindowEntries loads the entries that can fall into the windowDays days ending on ref's day.
func (s *HydrationService) WindowEntries(ctx context.Context, ref time.Time, windowDays int) ([]store.HydrationEntry, error) {
	today := StartOfDay(ref)
	return s.dbStore.ListHydrationEntries(ctx, today.AddDate(0, 0, -(windowDays-1)), today.AddDate(0, 0, 1))
}

// DeleteEntry removes one entry and returns it as it was stored.
func (s *HydrationService) DeleteEntry(ctx context.Context, id string) (*store.HydrationEntry, error) {
	entry, err := s.dbStore.GetHydrationEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.dbStore.DeleteHydrationEntry(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Debug("water entry deleted", zap.String("id", id), zap.Float64("amount_ml", entry.Amount))
	return entry, nil
}

func (s *HydrationService) addBatch(ctx context.Context, entries []store.HydrationEntry) error {
	return s.dbStore.AddHydrationEntries(ctx, entries)
}

func (s *HydrationService) deleteAll(ctx context.Context) (int64, error) {
	return s.dbStore.DeleteAllHydrationEntries(ctx)
}
