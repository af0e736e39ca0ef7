package core

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"welltrack.io/welltrack/internal/store"
)

// HealthProvider is the device-health capability behind the dashboard.
type HealthProvider interface {
	RequestAuthorization(ctx context.Context) (bool, error)
	TodayStepCount(ctx context.Context) float64
	TodayActiveEnergy(ctx context.Context) float64 // kcal
}

type HealthStats struct {
	StepsToday       int     `json:"steps_today"`
	ActiveEnergyKCal float64 `json:"active_energy_kcal"`
	// Placeholder is set when the numbers are made up because health data was unavailable.
	Placeholder bool `json:"placeholder"`
}

// ReadHealthStats reads today's numbers, substituting a randomized
// placeholder when authorization is denied or fails.
func ReadHealthStats(ctx context.Context, provider HealthProvider, randIntN func(int) int, logger *zap.Logger) HealthStats {
	granted, err := provider.RequestAuthorization(ctx)
	if err != nil {
		logger.Warn("health authorization failed, using placeholder stats", zap.Error(err))
		return placeholderHealthStats(randIntN)
	}
	if !granted {
		return placeholderHealthStats(randIntN)
	}
	return HealthStats{
		StepsToday:       int(math.Round(provider.TodayStepCount(ctx))),
		ActiveEnergyKCal: provider.TodayActiveEnergy(ctx),
	}
}

func placeholderHealthStats(randIntN func(int) int) HealthStats {
	return HealthStats{
		StepsToday:       5000 + randIntN(3001),
		ActiveEnergyKCal: 300 + float64(randIntN(201)),
		Placeholder:      true,
	}
}

// SampleHealthProvider serves today's totals from samples the device pushes
// into the local store.
type SampleHealthProvider struct {
	dbStore *store.SQLiteStore
	enabled bool
	logger  *zap.Logger
	clock   func() time.Time
}

func NewSampleHealthProvider(db *store.SQLiteStore, enabled bool, logger *zap.Logger) *SampleHealthProvider {
	return &SampleHealthProvider{
		dbStore: db,
		enabled: enabled,
		logger:  logger.Named("health"),
		clock:   time.Now,
	}
}

func (p *SampleHealthProvider) RequestAuthorization(ctx context.Context) (bool, error) {
	return p.enabled, nil
}

func (p *SampleHealthProvider) TodayStepCount(ctx context.Context) float64 {
	return p.todaySum(ctx, store.HealthKindSteps)
}

func (p *SampleHealthProvider) TodayActiveEnergy(ctx context.Context) float64 {
	return p.todaySum(ctx, store.HealthKindActiveEnergy)
}

func (p *SampleHealthProvider) todaySum(ctx context.Context, kind string) float64 {
	start := StartOfDay(p.clock())
	total, err := p.dbStore.SumHealthSamples(ctx, kind, start, start.AddDate(0, 0, 1))
	if err != nil {
		p.logger.Warn("failed to read health samples", zap.String("kind", kind), zap.Error(err))
		return 0
	}
	return total
}

// RecordSample stores one device reading; a zero instant means now.
func (p *SampleHealthProvider) RecordSample(ctx context.Context, kind string, value float64, at time.Time) (*store.HealthSample, error) {
	if kind != store.HealthKindSteps && kind != store.HealthKindActiveEnergy {
		return nil, fmt.Errorf("%w: unknown health sample kind %q", ErrValidation, kind)
	}
	if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("%w: sample value must be non-negative", ErrValidation)
	}
	if at.IsZero() {
		at = p.clock()
	}
	if err := checkTimestamp(at); err != nil {
		return nil, err
	}
	return p.dbStore.AddHealthSample(ctx, kind, value, at)
}
