package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"
	"welltrack.io/welltrack/internal/store"
)

// Accepted daily goal range, in GoalStepMl increments.
const (
	MinDailyGoalMl = 500.0
	MaxDailyGoalMl = 5000.0
	GoalStepMl     = 250.0
)

// SettingsService persists the user's preferences in the store's settings table.
type SettingsService struct {
	dbStore     *store.SQLiteStore
	defaultGoal float64
	logger      *zap.Logger
}

func NewSettingsService(db *store.SQLiteStore, defaultGoal float64, logger *zap.Logger) *SettingsService {
	if defaultGoal <= 0 {
		defaultGoal = DefaultDailyGoal
	}
	return &SettingsService{dbStore: db, defaultGoal: defaultGoal, logger: logger.Named("settings")}
}

// DailyGoal returns the saved goal, or the configured default when nothing
// usable is saved.
func (s *SettingsService) DailyGoal(ctx context.Context) float64 {
	raw, err := s.dbStore.GetSetting(ctx, store.SettingDailyGoal)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("failed to read daily goal", zap.Error(err))
		}
		return s.defaultGoal
	}
	goal, err := strconv.ParseFloat(raw, 64)
	if err != nil || goal <= 0 {
		return s.defaultGoal
	}
	return goal
}

func (s *SettingsService) SetDailyGoal(ctx context.Context, goalMl float64) error {
	if goalMl < MinDailyGoalMl || goalMl > MaxDailyGoalMl || math.Mod(goalMl, GoalStepMl) != 0 {
		return fmt.Errorf("%w: goal must be between %.0f and %.0f ml in steps of %.0f",
			ErrValidation, MinDailyGoalMl, MaxDailyGoalMl, GoalStepMl)
	}
	return s.dbStore.SetSetting(ctx, store.SettingDailyGoal, strconv.FormatFloat(goalMl, 'f', -1, 64))
}

func (s *SettingsService) RemindersEnabled(ctx context.Context) bool {
	raw, err := s.dbStore.GetSetting(ctx, store.SettingRemindersEnabled)
	if err != nil {
		return false
	}
	enabled, _ := strconv.ParseBool(raw)
	return enabled
}

func (s *SettingsService) setRemindersEnabled(ctx context.Context, enabled bool) error {
	return s.dbStore.SetSetting(ctx, store.SettingRemindersEnabled, strconv.FormatBool(enabled))
}
