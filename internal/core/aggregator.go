package core

import (
	"fmt"
	"time"

	"welltrack.io/welltrack/internal/store"
)

const (
	DefaultDailyGoal     = 2000.0 // ml
	DefaultWindowDays    = 7
	DefaultMoodThreshold = 4 // MoodHappy
)

// DayTotal is the hydration volume logged on one calendar day.
type DayTotal struct {
	Day   time.Time `json:"day"`
	Total float64   `json:"total_ml"`
}

// DayMood is the latest mood logged on one calendar day. Logged is false
// when no mood was recorded and the neutral baseline stands in.
type DayMood struct {
	Day    time.Time  `json:"day"`
	Score  int        `json:"score"`
	Mood   store.Mood `json:"mood"`
	Label  string     `json:"label"`
	Logged bool       `json:"logged"`
}

type DaySummary struct {
	Day            time.Time `json:"day"`
	HydrationTotal float64   `json:"hydration_total_ml"`
	MoodScore      int       `json:"mood_score"`
	MoodLabel      string    `json:"mood_label"`
}

// Correlation counts the days on which hydration met the goal and mood was
// at or above the threshold (Aligned), out of the days both series cover.
type Correlation struct {
	Aligned    int `json:"aligned"`
	Considered int `json:"considered"`
}

func (c Correlation) String() string {
	if c.Considered == 0 {
		return "Not enough data to compare hydration and mood yet."
	}
	return fmt.Sprintf("Hydration and mood aligned on %d/%d days.", c.Aligned, c.Considered)
}

type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierFair      Tier = "fair"
	TierLow       Tier = "low"
)

func (t Tier) Message() string {
	switch t {
	case TierExcellent:
		return "Great job staying hydrated! 🌟"
	case TierGood:
		return "You're doing well! Keep it up! 💪"
	case TierFair:
		return "Good progress! Aim for a bit more. 💧"
	default:
		return "Let's increase your hydration today! 🚀"
	}
}

// MotivationalTierFor buckets a weekly average intake in ml.
func MotivationalTierFor(average float64) Tier {
	switch {
	case average >= 2000:
		return TierExcellent
	case average >= 1500:
		return TierGood
	case average >= 1000:
		return TierFair
	default:
		return TierLow
	}
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// windowStarts returns the starts of the n days ending on ref's day, oldest first.
func windowStarts(ref time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	today := StartOfDay(ref)
	days := make([]time.Time, n)
	for i := 0; i < n; i++ {
		days[n-1-i] = today.AddDate(0, 0, -i)
	}
	return days
}

func inDay(ts, dayStart time.Time) bool {
	return !ts.Before(dayStart) && ts.Before(dayStart.AddDate(0, 0, 1))
}

func dayKey(day time.Time) string {
	return day.Format(time.DateOnly)
}

// WeeklyHydration totals entries per day over the windowDays days ending on
// ref's day. Every day appears exactly once, oldest first; days without
// entries total 0. Entries may be in any order.
func WeeklyHydration(entries []store.HydrationEntry, ref time.Time, windowDays int) []DayTotal {
	days := windowStarts(ref, windowDays)
	result := make([]DayTotal, len(days))
	for i, day := range days {
		var total float64
		for _, e := range entries {
			if inDay(e.Timestamp, day) {
				total += e.Amount
			}
		}
		result[i] = DayTotal{Day: day, Total: total}
	}
	return result
}

// WeeklyMood picks the latest mood entry of each day in the window, oldest
// first. Among entries sharing the latest timestamp the first in input order
// wins. Days without entries get the neutral baseline.
func WeeklyMood(entries []store.MoodEntry, ref time.Time, windowDays int) []DayMood {
	days := windowStarts(ref, windowDays)
	result := make([]DayMood, len(days))
	for i, day := range days {
		var latest *store.MoodEntry
		for j := range entries {
			e := &entries[j]
			if !inDay(e.Timestamp, day) {
				continue
			}
			if latest == nil || e.Timestamp.After(latest.Timestamp) {
				latest = e
			}
		}
		mood := store.MoodNeutral
		if latest != nil {
			mood = latest.Mood
		}
		result[i] = DayMood{
			Day:    day,
			Score:  mood.Score(),
			Mood:   mood,
			Label:  mood.Label(),
			Logged: latest != nil,
		}
	}
	return result
}

// WeeklyAverage is the mean daily total over every day of the series,
// including days with nothing logged.
func WeeklyAverage(weekly []DayTotal) float64 {
	if len(weekly) == 0 {
		return 0
	}
	var sum float64
	for _, d := range weekly {
		sum += d.Total
	}
	return sum / float64(len(weekly))
}

// Correlate matches the two series by calendar day.
func Correlate(hydration []DayTotal, mood []DayMood, dailyGoal float64, moodThreshold int) Correlation {
	byDay := make(map[string]float64, len(hydration))
	for _, h := range hydration {
		byDay[dayKey(h.Day)] = h.Total
	}

	var c Correlation
	for _, m := range mood {
		total, ok := byDay[dayKey(m.Day)]
		if !ok {
			continue
		}
		c.Considered++
		if total >= dailyGoal && m.Score >= moodThreshold {
			c.Aligned++
		}
	}
	return c
}

// DaySummaries joins the series by day in hydration order. A day missing
// from the mood series reads as neutral.
func DaySummaries(hydration []DayTotal, mood []DayMood) []DaySummary {
	byDay := make(map[string]DayMood, len(mood))
	for _, m := range mood {
		byDay[dayKey(m.Day)] = m
	}
	summaries := make([]DaySummary, 0, len(hydration))
	for _, h := range hydration {
		m, ok := byDay[dayKey(h.Day)]
		if !ok {
			m = DayMood{Score: store.MoodNeutral.Score(), Label: store.MoodNeutral.Label()}
		}
		summaries = append(summaries, DaySummary{
			Day:            h.Day,
			HydrationTotal: h.Total,
			MoodScore:      m.Score,
			MoodLabel:      m.Label,
		})
	}
	return summaries
}
