package core

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"go.uber.org/zap"
)

type Dashboard struct {
	DailyGoalMl float64     `json:"daily_goal_ml"`
	IntakeMl    float64     `json:"intake_ml"`
	Progress    float64     `json:"progress"`
	Health      HealthStats `json:"health"`
	MoodLabel   string      `json:"mood_label"`
	Quote       string      `json:"quote"`
}

// Progress is today's intake as a fraction of the goal, clamped to [0, 1].
func Progress(intakeMl, goalMl float64) float64 {
	ratio := intakeMl / math.Max(goalMl, 1)
	return math.Min(math.Max(ratio, 0), 1)
}

type DashboardService struct {
	hydration *HydrationService
	moods     *MoodService
	settings  *SettingsService
	health    HealthProvider
	quotes    QuoteProvider
	randIntN  func(int) int
	logger    *zap.Logger
}

func NewDashboardService(
	hydration *HydrationService,
	moods *MoodService,
	settings *SettingsService,
	health HealthProvider,
	quotes QuoteProvider,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		hydration: hydration,
		moods:     moods,
		settings:  settings,
		health:    health,
		quotes:    quotes,
		randIntN:  rand.IntN,
		logger:    logger.Named("dashboard"),
	}
}

func (s *DashboardService) Dashboard(ctx context.Context) (*Dashboard, error) {
	goal := s.settings.DailyGoal(ctx)
	intake, err := s.hydration.TodayTotal(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	return &Dashboard{
		DailyGoalMl: goal,
		IntakeMl:    intake,
		Progress:    Progress(intake, goal),
		Health:      ReadHealthStats(ctx, s.health, s.randIntN, s.logger),
		MoodLabel:   s.moods.LatestLabel(ctx),
		Quote:       s.quotes.FetchQuote(ctx),
	}, nil
}

func (s *DashboardService) Quote(ctx context.Context) string {
	return s.quotes.FetchQuote(ctx)
}
