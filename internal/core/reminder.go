package core

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	reminderTitle = "Hydration Reminder"
	reminderBody  = "Time to drink water 💧"
)

type Notification struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	FireAt time.Time `json:"fire_at"`
}

// Notifier delivers a due reminder to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes reminders to the log.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notifier")}
}

func (n *LogNotifier) Notify(ctx context.Context, notification Notification) error {
	n.logger.Info(notification.Title,
		zap.String("id", notification.ID),
		zap.String("body", notification.Body),
		zap.Time("fire_at", notification.FireAt))
	return nil
}

// ReminderHours expands a daily window into the hours a reminder fires, start and end included.
func ReminderHours(startHour, endHour, intervalHours int) []int {
	if intervalHours <= 0 {
		intervalHours = 1
	}
	var hours []int
	for h := max(startHour, 0); h <= endHour && h <= 23; h += intervalHours {
		hours = append(hours, h)
	}
	return hours
}

// ReminderScheduler fires a repeating reminder at the top of each scheduled hour.
type ReminderScheduler struct {
	cron     *cron.Cron
	notifier Notifier
	logger   *zap.Logger

	mu      sync.Mutex
	entries map[int]cron.EntryID
}

func NewReminderScheduler(notifier Notifier, loc *time.Location, logger *zap.Logger) *ReminderScheduler {
	if loc == nil {
		loc = time.Local
	}
	return &ReminderScheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		notifier: notifier,
		logger:   logger.Named("reminders"),
		entries:  make(map[int]cron.EntryID),
	}
}

func (s *ReminderScheduler) Start() {
	s.cron.Start()
	s.logger.Info("reminder scheduler started")
}

// Stop waits for running reminders to finish.
func (s *ReminderScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("reminder scheduler stopped")
}

// ScheduleRecurring replaces every pending reminder with one per hour in hours.
func (s *ReminderScheduler) ScheduleRecurring(hours []int) error {
	for _, h := range hours {
		if h < 0 || h > 23 {
			return fmt.Errorf("%w: reminder hour %d out of range", ErrValidation, h)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()

	for _, hour := range hours {
		if _, ok := s.entries[hour]; ok {
			continue
		}
		id, err := s.cron.AddFunc(fmt.Sprintf("0 %d * * *", hour), func() { s.fire(hour) })
		if err != nil {
			s.cancelLocked()
			return fmt.Errorf("failed to add reminder for %02d:00: %w", hour, err)
		}
		s.entries[hour] = id
	}
	s.logger.Info("reminders scheduled", zap.Ints("hours", hours))
	return nil
}

func (s *ReminderScheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

func (s *ReminderScheduler) cancelLocked() {
	for hour, id := range s.entries {
		s.cron.Remove(id)
		delete(s.entries, hour)
	}
}

// ScheduledHours lists the pending reminder hours in ascending order.
func (s *ReminderScheduler) ScheduledHours() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	hours := make([]int, 0, len(s.entries))
	for h := range s.entries {
		hours = append(hours, h)
	}
	slices.Sort(hours)
	return hours
}

func (s *ReminderScheduler) fire(hour int) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n := Notification{
		ID:     fmt.Sprintf("hydration-%d", hour),
		Title:  reminderTitle,
		Body:   reminderBody,
		FireAt: time.Now(),
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn("reminder delivery failed", zap.String("id", n.ID), zap.Error(err))
	}
}

type ReminderStatus struct {
	Enabled bool  `json:"enabled"`
	Hours   []int `json:"hours"`
}

// ReminderService ties the persisted on/off preference to the scheduler.
type ReminderService struct {
	settings  *SettingsService
	scheduler *ReminderScheduler
	hours     []int
}

func NewReminderService(settings *SettingsService, scheduler *ReminderScheduler, hours []int) *ReminderService {
	return &ReminderService{settings: settings, scheduler: scheduler, hours: hours}
}

func (s *ReminderService) Status(ctx context.Context) ReminderStatus {
	return ReminderStatus{Enabled: s.settings.RemindersEnabled(ctx), Hours: s.scheduler.ScheduledHours()}
}

// SetEnabled persists the preference before touching the scheduler, and
// restores the previous preference if scheduling fails.
func (s *ReminderService) SetEnabled(ctx context.Context, enabled bool) (ReminderStatus, error) {
	previous := s.settings.RemindersEnabled(ctx)
	if err := s.settings.setRemindersEnabled(ctx, enabled); err != nil {
		return ReminderStatus{}, fmt.Errorf("failed to persist reminder preference: %w", err)
	}
	if !enabled {
		s.scheduler.CancelAll()
		return s.Status(ctx), nil
	}
	if err := s.scheduler.ScheduleRecurring(s.hours); err != nil {
		if rerr := s.settings.setRemindersEnabled(ctx, previous); rerr != nil {
			return ReminderStatus{}, errors.Join(err, fmt.Errorf("failed to restore reminder preference: %w", rerr))
		}
		return ReminderStatus{}, err
	}
	return s.Status(ctx), nil
}

// Restore re-schedules reminders saved as enabled by a previous run.
func (s *ReminderService) Restore(ctx context.Context) error {
	if !s.settings.RemindersEnabled(ctx) {
		return nil
	}
	return s.scheduler.ScheduleRecurring(s.hours)
}
