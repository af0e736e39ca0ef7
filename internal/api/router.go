package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request with the chi request id.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("latency", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

func NewRouter(apiHandler *APIHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger.Named("http")))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/login", apiHandler.LoginHandler)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Group(func(r chi.Router) {
			r.Use(apiHandler.JWTAuthMiddleware)

			r.Get("/dashboard", apiHandler.DashboardHandler)
			r.Get("/quote", apiHandler.QuoteHandler)
			r.Put("/settings/goal", apiHandler.SetGoalHandler)

			r.Get("/hydration", apiHandler.ListHydrationHandler)
			r.Post("/hydration", apiHandler.AddWaterHandler)
			r.Delete("/hydration/{entryID}", apiHandler.DeleteWaterHandler)

			r.Get("/moods", apiHandler.ListMoodsHandler)
			r.Post("/moods", apiHandler.SaveMoodHandler)

			r.Get("/journal", apiHandler.ListJournalHandler)
			r.Post("/journal", apiHandler.AddJournalHandler)

			r.Get("/insights", apiHandler.InsightsHandler)
			r.Post("/demo/seed", apiHandler.SeedDemoHandler)
			r.Delete("/demo", apiHandler.ResetDemoHandler)

			r.Get("/reminders", apiHandler.RemindersHandler)
			r.Put("/reminders", apiHandler.SetRemindersHandler)

			r.Post("/health/samples", apiHandler.HealthSampleHandler)
		})
	})

	return r
}
