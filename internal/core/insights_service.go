package core

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"welltrack.io/welltrack/internal/store"
	"welltrack.io/welltrack/internal/utils"
)

type Insights struct {
	WindowDays      int          `json:"window_days"`
	DailyGoalMl     float64      `json:"daily_goal_ml"`
	Hydration       []DayTotal   `json:"hydration"`
	Mood            []DayMood    `json:"mood"`
	Days            []DaySummary `json:"days"`
	AverageMl       float64      `json:"average_ml"`
	Tier            Tier         `json:"tier"`
	Message         string       `json:"message"`
	Correlation     Correlation  `json:"correlation"`
	CorrelationText string       `json:"correlation_text"`
	// Coefficient is Pearson's r between daily totals and mood scores; 0 when either is flat.
	Coefficient float64 `json:"coefficient"`
}

// BuildInsights runs the daily aggregation over raw entries for the window ending on ref's day.
func BuildInsights(hydrationEntries []store.HydrationEntry, moodEntries []store.MoodEntry, ref time.Time, windowDays int, dailyGoal float64) *Insights {
	hydration := WeeklyHydration(hydrationEntries, ref, windowDays)
	mood := WeeklyMood(moodEntries, ref, windowDays)
	average := WeeklyAverage(hydration)
	tier := MotivationalTierFor(average)
	correlation := Correlate(hydration, mood, dailyGoal, DefaultMoodThreshold)

	totals := make([]float64, len(hydration))
	for i, d := range hydration {
		totals[i] = d.Total
	}
	scores := make([]float64, len(mood))
	for i, d := range mood {
		scores[i] = float64(d.Score)
	}
	coefficient, err := utils.Pearson(totals, scores)
	if err != nil {
		coefficient = 0
	}

	return &Insights{
		WindowDays:      windowDays,
		DailyGoalMl:     dailyGoal,
		Hydration:       hydration,
		Mood:            mood,
		Days:            DaySummaries(hydration, mood),
		AverageMl:       average,
		Tier:            tier,
		Message:         tier.Message(),
		Correlation:     correlation,
		CorrelationText: correlation.String(),
		Coefficient:     coefficient,
	}
}

// Daily totals seeded by the demo, oldest day first.
var demoHydrationTargets = []float64{1200, 1500, 1800, 1600, 2000, 2200, 2400}

// Moods seeded by the demo, oldest day first.
var demoMoods = []store.Mood{
	store.MoodVerySad, store.MoodSad, store.MoodNeutral, store.MoodHappy,
	store.MoodVeryHappy, store.MoodHappy, store.MoodNeutral,
}

type DemoSeed struct {
	HydrationEntries int `json:"hydration_entries"`
	MoodEntries      int `json:"mood_entries"`
}

type InsightsService struct {
	hydration  *HydrationService
	moods      *MoodService
	settings   *SettingsService
	windowDays int
	logger     *zap.Logger
	clock      func() time.Time
	randIntN   func(int) int
}

func NewInsightsService(hydration *HydrationService, moods *MoodService, settings *SettingsService, windowDays int, logger *zap.Logger) *InsightsService {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &InsightsService{
		hydration:  hydration,
		moods:      moods,
		settings:   settings,
		windowDays: windowDays,
		logger:     logger.Named("insights"),
		clock:      time.Now,
		randIntN:   rand.IntN,
	}
}

func (s *InsightsService) Weekly(ctx context.Context) (*Insights, error) {
	ref := s.clock()
	hydrationEntries, err := s.hydration.WindowEntries(ctx, ref, s.windowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to load hydration window: %w", err)
	}
	return BuildInsights(hydrationEntries, s.moods.Entries(ctx), ref, s.windowDays, s.settings.DailyGoal(ctx)), nil
}

// SeedDemoData adds a realistic week of hydration (each day's target split
// into 4-6 drinks between 07:00 and 21:59) and replaces the mood list with
// one noon entry per day.
func (s *InsightsService) SeedDemoData(ctx context.Context) (*DemoSeed, error) {
	days := windowStarts(s.clock(), len(demoHydrationTargets))

	var drinks []store.HydrationEntry
	moods := make([]store.MoodEntry, 0, len(days))
	for i, day := range days {
		target := demoHydrationTargets[i]
		chunks := 4 + s.randIntN(3)
		perChunk := target / float64(chunks)
		for c := 0; c < chunks; c++ {
			ts := time.Date(day.Year(), day.Month(), day.Day(), 7+s.randIntN(15), s.randIntN(60), 0, 0, day.Location())
			drinks = append(drinks, store.HydrationEntry{Amount: perChunk, Timestamp: ts})
		}

		mood := demoMoods[i]
		moods = append(moods, store.MoodEntry{
			ID:        uuid.NewString(),
			Timestamp: time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, day.Location()),
			Mood:      mood,
			Note:      "Demo " + strings.ToLower(mood.Label()),
		})
	}

	if err := s.hydration.addBatch(ctx, drinks); err != nil {
		return nil, fmt.Errorf("failed to seed hydration: %w", err)
	}
	if err := s.moods.ReplaceAll(ctx, moods); err != nil {
		return nil, fmt.Errorf("failed to seed moods: %w", err)
	}
	s.logger.Info("demo data loaded", zap.Int("hydration_entries", len(drinks)), zap.Int("mood_entries", len(moods)))
	return &DemoSeed{HydrationEntries: len(drinks), MoodEntries: len(moods)}, nil
}

// ResetDemoData deletes every hydration entry and clears the mood list.
func (s *InsightsService) ResetDemoData(ctx context.Context) error {
	deleted, err := s.hydration.deleteAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to reset hydration: %w", err)
	}
	if err := s.moods.Clear(ctx); err != nil {
		return fmt.Errorf("failed to reset moods: %w", err)
	}
	s.logger.Info("demo data reset", zap.Int64("hydration_entries", deleted))
	return nil
}
