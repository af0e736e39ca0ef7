package core

import (
	"math"
	"testing"
	"time"

	"welltrack.io/welltrack/internal/store"
)

var testLoc = time.FixedZone("UTC+2", 2*60*60)

// ref is mid-afternoon local time on 2026-03-10.
var ref = time.Date(2026, 3, 10, 15, 30, 0, 0, testLoc)

func at(daysBack, hour, minute int) time.Time {
	d := ref.AddDate(0, 0, -daysBack)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, testLoc)
}

func water(amount float64, ts time.Time) store.HydrationEntry {
	return store.HydrationEntry{ID: ts.String(), Amount: amount, Timestamp: ts}
}

func mood(m store.Mood, ts time.Time) store.MoodEntry {
	return store.MoodEntry{ID: ts.String(), Mood: m, Timestamp: ts}
}

func TestWeeklyHydrationShape(t *testing.T) {
	weekly := WeeklyHydration(nil, ref, DefaultWindowDays)
	if len(weekly) != DefaultWindowDays {
		t.Fatalf("got %d days, want %d", len(weekly), DefaultWindowDays)
	}
	for i, d := range weekly {
		if d.Total != 0 {
			t.Fatalf("day %d total = %v, want 0", i, d.Total)
		}
		if !d.Day.Equal(StartOfDay(d.Day)) {
			t.Fatalf("day %d is not a day start: %v", i, d.Day)
		}
		if i > 0 && dayKey(weekly[i-1].Day.AddDate(0, 0, 1)) != dayKey(d.Day) {
			t.Fatalf("days %d and %d are not consecutive: %v %v", i-1, i, weekly[i-1].Day, d.Day)
		}
	}
	if dayKey(weekly[6].Day) != "2026-03-10" || dayKey(weekly[0].Day) != "2026-03-04" {
		t.Fatalf("window = %v..%v, want 2026-03-04..2026-03-10", weekly[0].Day, weekly[6].Day)
	}
}

func TestWeeklyHydrationTodayScenario(t *testing.T) {
	entries := []store.HydrationEntry{
		water(500, at(0, 19, 0)),
		water(300, at(0, 8, 0)),
		water(400, at(0, 13, 0)),
	}
	weekly := WeeklyHydration(entries, ref, DefaultWindowDays)
	today := weekly[len(weekly)-1]
	if today.Total != 1200 {
		t.Fatalf("today total = %v, want 1200", today.Total)
	}
	if today.Total < 1000 {
		t.Fatalf("today should meet a 1000 ml goal")
	}
}

func TestWeeklyHydrationConservesVolume(t *testing.T) {
	entries := []store.HydrationEntry{
		water(250, at(0, 0, 0)),   // first instant of today
		water(250, at(0, 23, 59)), // last minute of today
		water(330, at(3, 12, 0)),
		water(125.5, at(6, 7, 15)),
		water(999, at(7, 23, 59)), // just outside the window
		water(999, at(-1, 0, 0)),  // tomorrow
	}
	weekly := WeeklyHydration(entries, ref, DefaultWindowDays)

	var got float64
	for _, d := range weekly {
		got += d.Total
	}
	want := 250 + 250 + 330 + 125.5
	if got != want {
		t.Fatalf("window total = %v, want %v", got, want)
	}
	if weekly[6].Total != 500 {
		t.Fatalf("today = %v, want 500", weekly[6].Total)
	}
	if weekly[0].Total != 125.5 {
		t.Fatalf("oldest day = %v, want 125.5", weekly[0].Total)
	}
}

func TestWeeklyHydrationUsesReferenceLocation(t *testing.T) {
	// 23:30 UTC on the 9th is 01:30 on the 10th at UTC+2.
	entries := []store.HydrationEntry{water(400, time.Date(2026, 3, 9, 23, 30, 0, 0, time.UTC))}
	weekly := WeeklyHydration(entries, ref, DefaultWindowDays)
	if weekly[6].Total != 400 || weekly[5].Total != 0 {
		t.Fatalf("entry bucketed wrong: today=%v yesterday=%v", weekly[6].Total, weekly[5].Total)
	}
}

func TestWeeklyMoodPicksLatest(t *testing.T) {
	entries := []store.MoodEntry{
		mood(store.MoodHappy, at(0, 20, 0)),
		mood(store.MoodNeutral, at(0, 9, 0)),
	}
	weekly := WeeklyMood(entries, ref, DefaultWindowDays)
	today := weekly[6]
	if today.Score != 4 || today.Mood != store.MoodHappy || !today.Logged {
		t.Fatalf("today = %+v, want happy (4)", today)
	}
}

func TestWeeklyMoodDefaultsToNeutral(t *testing.T) {
	weekly := WeeklyMood(nil, ref, DefaultWindowDays)
	if len(weekly) != DefaultWindowDays {
		t.Fatalf("got %d days, want %d", len(weekly), DefaultWindowDays)
	}
	for _, d := range weekly {
		if d.Score != 3 || d.Label != "Neutral" || d.Logged {
			t.Fatalf("day %v = %+v, want unlogged neutral", d.Day, d)
		}
	}
}

func TestWeeklyMoodTieIsFirstInInputOrder(t *testing.T) {
	ts := at(1, 12, 0)
	entries := []store.MoodEntry{mood(store.MoodSad, ts), mood(store.MoodVeryHappy, ts)}
	if got := WeeklyMood(entries, ref, DefaultWindowDays)[5].Mood; got != store.MoodSad {
		t.Fatalf("tie picked %s, want sad", got)
	}
}

func TestWeeklyAverageCountsEmptyDays(t *testing.T) {
	entries := []store.HydrationEntry{water(1400, at(0, 9, 0))}
	avg := WeeklyAverage(WeeklyHydration(entries, ref, DefaultWindowDays))
	if avg != 200 {
		t.Fatalf("average = %v, want 200", avg)
	}
	if WeeklyAverage(nil) != 0 {
		t.Fatalf("average of empty series should be 0")
	}
}

func TestWeeklyAverageScenario(t *testing.T) {
	totals := []float64{1200, 1500, 1800, 1600, 2000, 2200, 2400}
	var entries []store.HydrationEntry
	for i, total := range totals {
		entries = append(entries, water(total, at(len(totals)-1-i, 12, 0)))
	}
	weekly := WeeklyHydration(entries, ref, DefaultWindowDays)
	for i, total := range totals {
		if weekly[i].Total != total {
			t.Fatalf("day %d = %v, want %v", i, weekly[i].Total, total)
		}
	}
	avg := WeeklyAverage(weekly)
	if math.Abs(avg-1814.2857) > 0.001 {
		t.Fatalf("average = %v, want ~1814.29", avg)
	}
	if tier := MotivationalTierFor(avg); tier != TierGood {
		t.Fatalf("tier = %s, want good", tier)
	}
}

func TestMotivationalTierThresholds(t *testing.T) {
	cases := []struct {
		avg  float64
		want Tier
	}{
		{2500, TierExcellent},
		{2000, TierExcellent},
		{1999.9, TierGood},
		{1500, TierGood},
		{1000, TierFair},
		{999, TierLow},
		{0, TierLow},
	}
	for _, tc := range cases {
		if got := MotivationalTierFor(tc.avg); got != tc.want {
			t.Fatalf("MotivationalTierFor(%v) = %s, want %s", tc.avg, got, tc.want)
		}
	}
}

func TestCorrelateEmptyHistory(t *testing.T) {
	hydration := WeeklyHydration(nil, ref, DefaultWindowDays)
	moods := WeeklyMood(nil, ref, DefaultWindowDays)
	c := Correlate(hydration, moods, DefaultDailyGoal, DefaultMoodThreshold)
	if c.Considered != DefaultWindowDays || c.Aligned != 0 {
		t.Fatalf("correlation = %+v, want 0/%d", c, DefaultWindowDays)
	}
	avg := WeeklyAverage(hydration)
	if avg != 0 || MotivationalTierFor(avg) != TierLow {
		t.Fatalf("average = %v tier = %s, want 0 low", avg, MotivationalTierFor(avg))
	}
	if c.String() != "Hydration and mood aligned on 0/7 days." {
		t.Fatalf("text = %q", c.String())
	}
}

func TestCorrelateCountsAlignedDays(t *testing.T) {
	hydrationEntries := []store.HydrationEntry{
		water(2100, at(0, 10, 0)), // goal met, happy: aligned
		water(2000, at(1, 10, 0)), // goal met, neutral: not aligned
		water(1900, at(2, 10, 0)), // goal missed, very happy: not aligned
		water(2500, at(3, 10, 0)), // goal met, very happy: aligned
	}
	moodEntries := []store.MoodEntry{
		mood(store.MoodHappy, at(0, 21, 0)),
		mood(store.MoodNeutral, at(1, 21, 0)),
		mood(store.MoodVeryHappy, at(2, 21, 0)),
		mood(store.MoodVeryHappy, at(3, 21, 0)),
	}
	hydration := WeeklyHydration(hydrationEntries, ref, DefaultWindowDays)
	moods := WeeklyMood(moodEntries, ref, DefaultWindowDays)
	c := Correlate(hydration, moods, DefaultDailyGoal, DefaultMoodThreshold)
	if c.Aligned != 2 || c.Considered != 7 {
		t.Fatalf("correlation = %+v, want 2/7", c)
	}

	reversedH := make([]DayTotal, len(hydration))
	for i := range hydration {
		reversedH[len(hydration)-1-i] = hydration[i]
	}
	reversedM := make([]DayMood, len(moods))
	for i := range moods {
		reversedM[len(moods)-1-i] = moods[i]
	}
	if got := Correlate(reversedH, reversedM, DefaultDailyGoal, DefaultMoodThreshold); got != c {
		t.Fatalf("reordered correlation = %+v, want %+v", got, c)
	}
}

func TestCorrelateNoOverlap(t *testing.T) {
	hydration := WeeklyHydration(nil, ref, 3)
	moods := WeeklyMood(nil, ref.AddDate(0, 0, -10), 3)
	c := Correlate(hydration, moods, DefaultDailyGoal, DefaultMoodThreshold)
	if c.Considered != 0 {
		t.Fatalf("considered = %d, want 0", c.Considered)
	}
	if c.String() != "Not enough data to compare hydration and mood yet." {
		t.Fatalf("text = %q", c.String())
	}
}

func TestDaySummaries(t *testing.T) {
	hydration := WeeklyHydration([]store.HydrationEntry{water(800, at(0, 9, 0))}, ref, DefaultWindowDays)
	moods := WeeklyMood([]store.MoodEntry{mood(store.MoodVerySad, at(0, 9, 0))}, ref, DefaultWindowDays)
	summaries := DaySummaries(hydration, moods)
	if len(summaries) != DefaultWindowDays {
		t.Fatalf("got %d summaries", len(summaries))
	}
	today := summaries[6]
	if today.HydrationTotal != 800 || today.MoodScore != 1 || today.MoodLabel != "Very sad" {
		t.Fatalf("today = %+v", today)
	}
	if summaries[0].MoodScore != 3 || summaries[0].MoodLabel != "Neutral" {
		t.Fatalf("oldest = %+v, want neutral", summaries[0])
	}
}
