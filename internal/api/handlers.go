package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"welltrack.io/welltrack/internal/auth"
	"welltrack.io/welltrack/internal/core"
	"welltrack.io/welltrack/internal/store"
)

type contextKey string

const subjectKey contextKey = "subject"

// ownerSubject is the token subject of the single local user.
const ownerSubject = "owner"

// Services bundles the collaborators the handlers call into.
type Services struct {
	Hydration *core.HydrationService
	Moods     *core.MoodService
	Journal   *core.JournalService
	Settings  *core.SettingsService
	Health    *core.SampleHealthProvider
	Dashboard *core.DashboardService
	Insights  *core.InsightsService
	Reminders *core.ReminderService
}

type APIHandler struct {
	services     Services
	tokens       *auth.TokenIssuer
	passcodeHash string
	logger       *zap.Logger
}

func NewAPIHandler(services Services, tokens *auth.TokenIssuer, passcodeHash string, logger *zap.Logger) *APIHandler {
	return &APIHandler{
		services:     services,
		tokens:       tokens,
		passcodeHash: passcodeHash,
		logger:       logger.Named("api"),
	}
}

func (h *APIHandler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
			return
		}
		subject, err := h.tokens.ValidateJWT(tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), subjectKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// subjectFrom returns the token subject set by JWTAuthMiddleware, or "" on public routes.
func subjectFrom(ctx context.Context) string {
	subject, _ := ctx.Value(subjectKey).(string)
	return subject
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", core.ErrValidation, err)
	}
	return nil
}

// writeError maps domain errors to status codes; anything unexpected is
// logged and reported as a 500 with the given message.
func (h *APIHandler) writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, core.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	default:
		h.logger.Error(msg,
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("subject", subjectFrom(r.Context())),
			zap.Error(err),
		)
		http.Error(w, msg, http.StatusInternalServerError)
	}
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// parseQueryTime accepts RFC 3339 instants or plain dates (local midnight).
func parseQueryTime(r *http.Request, key string) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, raw, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %s must be RFC 3339 or YYYY-MM-DD", core.ErrValidation, key)
}

type LoginRequest struct {
	Passcode string `json:"passcode"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err, "Failed to log in")
		return
	}
	if req.Passcode == "" {
		http.Error(w, "Passcode is required", http.StatusBadRequest)
		return
	}
	if !auth.CheckPasswordHash(req.Passcode, h.passcodeHash) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.tokens.GenerateJWT(ownerSubject)
	if err != nil {
		h.writeError(w, r, err, "Failed to generate token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *APIHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.services.Dashboard.Dashboard(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Failed to load dashboard")
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (h *APIHandler) QuoteHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"quote": h.services.Dashboard.Quote(r.Context())})
}

type GoalRequest struct {
	GoalMl float64 `json:"goal_ml"`
}

func (h *APIHandler) SetGoalHandler(w http.ResponseWriter, r *http.Request) {
	var req GoalRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err, "Failed to update goal")
		return
	}
	if err := h.services.Settings.SetDailyGoal(r.Context(), req.GoalMl); err != nil {
		h.writeError(w, r, err, "Failed to update goal")
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"goal_ml": h.services.Settings.DailyGoal(r.Context())})
}

func (h *APIHandler) ListHydrationHandler(w http.ResponseWriter, r *http.Request) {
	from, err := parseQueryTime(r, "from")
	if err != nil {
		h.writeError(w, r, err, "Failed to list entries")
		return
	}
	to, err := parseQueryTime(r, "to")
	if err != nil {
		h.writeError(w, r, err, "Failed to list entries")
		return
	}
	entries, err := h.services.Hydration.ListEntries(r.Context(), from, to)
	if err != nil {
		h.writeError(w, r, err, "Failed to list entries")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type AddWaterRequest struct {
	AmountMl  float64    `json:"amount_ml"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

func (h *APIHandler) AddWaterHandler(w http.ResponseWriter, r *http.Request) {
	var req AddWaterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err, "Failed to add water")
		return
	}
	entry, err := h.services.Hydration.AddWater(r.Context(), req.AmountMl, timeOrZero(req.Timestamp))
	if err != nil {
		h.writeError(w, r, err, "Failed to add water")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *APIHandler) DeleteWaterHandler(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryID")
	entry, err := h.services.Hydration.DeleteEntry(r.Context(), entryID)
	if err != nil {
		h.writeError(w, r, err, "Failed to delete entry")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *APIHandler) ListMoodsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.services.Moods.Entries(r.Context()))
}

type SaveMoodRequest struct {
	Mood      string     `json:"mood"`
	Note      string     `json:"note"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

func (h *APIHandler) SaveMoodHandler(w http.ResponseWriter, r *http.Request) {
	var req SaveMoodRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err, "Failed to save mood")
		return
	}
	mood, err := store.ParseMood(req.Mood)
	if err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %v", core.ErrValidation, err), "Failed to save mood")
		return
	}
	entry, err := h.services.Moods.SaveMood(r.Context(), mood, req.Note, timeOrZero(req.Timestamp))
	if err != nil {
		h.writeError(w, r, err, "Failed to save mood")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *APIHandler) ListJournalHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := h.services.Journal.Entries(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Failed to list journal")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type JournalRequest struct {
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

func (h *APIHandler) AddJournalHandler(w http.ResponseWriter, r *http.Request) {
	var req JournalRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err, "Failed to add journal entry")
		return
	}
	entry, err := h.services.Journal.AddEntry(r.Context(), req.Title, req.Body, timeOrZero(req.Timestamp))
	if err != nil {
		h.writeError(w, r, err, "Failed to add journal entry")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *APIHandler) InsightsHandler(w http.ResponseWriter, r *http.Request) {
	insights, err := h.services.Insights.Weekly(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Failed to build insights")
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

func (h *APIHandler) SeedDemoHandler(w http.ResponseWriter, r *http.Request) {
	seed, err := h.services.Insights.SeedDemoData(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Failed to seed demo data")
		return
	}
	writeJSON(w, http.StatusCreated, seed)
}

func (h *APIHandler) ResetDemoHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Insights.ResetDemoData(r.Context()); err != nil {
		h.writeError(w, r, err, "Failed to reset data")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) RemindersHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.services.Reminders.Status(r.Context()))
}

type RemindersRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *APIHandler) SetRemindersHandler(w http.ResponseWriter, r *http.Request) {
	var req RemindersRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err, "Failed to update reminders")
		return
	}
	status, err := h.services.Reminders.SetEnabled(r.Context(), req.Enabled)
	if err != nil {
		h.writeError(w, r, err, "Failed to update reminders")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

type HealthSampleRequest struct {
	Kind      string     `json:"kind"`
	Value     float64    `json:"value"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

func (h *APIHandler) HealthSampleHandler(w http.ResponseWriter, r *http.Request) {
	var req HealthSampleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err, "Failed to record sample")
		return
	}
	sample, err := h.services.Health.RecordSample(r.Context(), req.Kind, req.Value, timeOrZero(req.Timestamp))
	if err != nil {
		h.writeError(w, r, err, "Failed to record sample")
		return
	}
	writeJSON(w, http.StatusCreated, sample)
}
