package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/AnshRaj112/lifestory-backend/internal/models"
)

type StoryRequest struct {
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`
}

type StoryResponse struct {
	Success   bool     `json:"success"`
	Story     string   `json:"story"`
	ImageURLs []string `json:"image_urls"`
}

type StoriesResponse struct {
	Success bool           `json:"success"`
	Stories []models.Story `json:"stories"`
}

// GenerateStory summarizes the entries in a date range into a narrative.
func (h *Handler) GenerateStory(w http.ResponseWriter, r *http.Request) {
	var req StoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	story, err := h.Synthesizer.Synthesize(r.Context(), req.FromDate, req.ToDate)
	if err != nil {
		writeError(w, err, "generating story")
		return
	}
	writeJSON(w, http.StatusOK, StoryResponse{Success: true, Story: story.Narrative, ImageURLs: story.ImageURLs})
}

// ListStories returns previously generated stories, newest first.
func (h *Handler) ListStories(w http.ResponseWriter, r *http.Request) {
	if h.Archive == nil {
		writeMessage(w, http.StatusServiceUnavailable, "Story archive is not configured")
		return
	}

	limit := int64(20)
	if s := r.URL.Query().Get("limit"); s != "" {
		if parsed, err := strconv.ParseInt(s, 10, 64); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	stories, err := h.Archive.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, err, "fetching stories")
		return
	}
	if stories == nil {
		stories = []models.Story{}
	}
	writeJSON(w, http.StatusOK, StoriesResponse{Success: true, Stories: stories})
}
