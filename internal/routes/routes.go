package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/lifestory-backend/internal/handlers"
)

// SetupRoutes registers the API. modelLimit wraps the routes that call the speech
// and summary models.
func SetupRoutes(r chi.Router, h *handlers.Handler, modelLimit func(http.Handler) http.Handler) {
	r.Get("/health", handlers.Health)

	// Journal entries
	r.Post("/api/entries", h.SaveEntry)
	r.Get("/api/entries", h.ListEntries)
	r.Get("/api/entries/range", h.RangeEntries)
	r.Get("/api/entries/{date}", h.GetEntry)
	r.Get("/api/stats", h.DashboardStats)

	// Images
	r.Post("/api/upload/image", h.UploadImage)
	r.Get("/uploads/{filename}", h.ServeUpload)

	// Model-backed routes
	r.Group(func(r chi.Router) {
		r.Use(modelLimit)
		r.Post("/api/transcribe", h.TranscribeAudio)
		r.Post("/api/story", h.GenerateStory)
	})
	r.Get("/api/stories", h.ListStories)

	// Legacy routes used by the first web frontend (for backward compatibility)
	r.Post("/save_entry", h.SaveEntry)
	r.Get("/get_entry/{date}", h.GetEntry)
	r.Get("/get_all_entries", h.ListEntries)
	r.Get("/get_dashboard_stats", h.DashboardStats)
	r.Post("/upload_image", h.UploadImage)
	r.Group(func(r chi.Router) {
		r.Use(modelLimit)
		r.Post("/transcribe_audio", h.TranscribeAudio)
		r.Post("/generate_story", h.GenerateStory)
	})
}
