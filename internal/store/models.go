package store

import (
	"fmt"
	"strings"
	"time"
)

type HydrationEntry struct {
	ID        string    `json:"id"` // UUID
	Amount    float64   `json:"amount_ml"`
	Timestamp time.Time `json:"timestamp"`
}

// Mood is the five-point mood scale, ordered from worst to best.
type Mood string

const (
	MoodVerySad   Mood = "very_sad"
	MoodSad       Mood = "sad"
	MoodNeutral   Mood = "neutral"
	MoodHappy     Mood = "happy"
	MoodVeryHappy Mood = "very_happy"
)

// Moods lists every mood in scale order.
var Moods = []Mood{MoodVerySad, MoodSad, MoodNeutral, MoodHappy, MoodVeryHappy}

// Score maps the mood to 1 (very sad) through 5 (very happy). Unknown moods score 0.
func (m Mood) Score() int {
	for i, mood := range Moods {
		if mood == m {
			return i + 1
		}
	}
	return 0
}

func (m Mood) Label() string {
	switch m {
	case MoodVerySad:
		return "Very sad"
	case MoodSad:
		return "Sad"
	case MoodNeutral:
		return "Neutral"
	case MoodHappy:
		return "Happy"
	case MoodVeryHappy:
		return "Very happy"
	}
	return string(m)
}

func (m Mood) Emoji() string {
	switch m {
	case MoodVerySad:
		return "😭"
	case MoodSad:
		return "☹️"
	case MoodNeutral:
		return "😐"
	case MoodHappy:
		return "🙂"
	case MoodVeryHappy:
		return "😄"
	}
	return ""
}

func (m Mood) Valid() bool {
	return m.Score() > 0
}

// ParseMood accepts the wire name of a mood ("very_happy"), case-insensitively.
func ParseMood(s string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown mood %q", s)
	}
	return m, nil
}

// UnmarshalText rejects moods outside the scale so a corrupt stored list fails to decode as a whole.
func (m *Mood) UnmarshalText(text []byte) error {
	parsed, err := ParseMood(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

type MoodEntry struct {
	ID        string    `json:"id"` // UUID
	Timestamp time.Time `json:"timestamp"`
	Mood      Mood      `json:"mood"`
	Note      string    `json:"note"`
}

type JournalEntry struct {
	ID        string    `json:"id"` // UUID
	Timestamp time.Time `json:"timestamp"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
}

// Health sample kinds pushed by the device.
const (
	HealthKindSteps        = "steps"
	HealthKindActiveEnergy = "active_energy"
)

type HealthSample struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}
