package handlers

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/lifestory-backend/internal/models"
	"github.com/AnshRaj112/lifestory-backend/internal/services"
)

// SaveEntryRequest is the JSON body of POST /api/entries. ImagePaths accepts either
// a list or a comma-separated string.
type SaveEntryRequest struct {
	Date       string          `json:"date"`
	Content    *string         `json:"content"`
	ImagePaths json.RawMessage `json:"image_paths"`
}

type SaveEntryResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Entry   *models.Entry `json:"entry,omitempty"`
}

type GetEntryResponse struct {
	Success    bool     `json:"success"`
	Content    string   `json:"content"`
	ImagePaths []string `json:"image_paths"`
}

type EntriesResponse struct {
	Success bool        `json:"success"`
	Entries interface{} `json:"entries"`
}

type StatsResponse struct {
	Success bool `json:"success"`
	*models.DashboardStats
}

// SaveEntry creates or replaces the entry for a date. Accepts form fields
// (date, content, image_paths as a comma-separated string) or a JSON body.
func (h *Handler) SaveEntry(w http.ResponseWriter, r *http.Request) {
	date, content, paths, err := parseSaveEntry(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.Store.Save(r.Context(), date, content, paths)
	if err != nil {
		writeError(w, err, "saving entry")
		return
	}
	writeJSON(w, http.StatusOK, SaveEntryResponse{
		Success: true,
		Message: "Entry saved successfully.",
		Entry:   entry,
	})
}

func parseSaveEntry(r *http.Request) (string, *string, []string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req SaveEntryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", nil, nil, err
		}
		paths, err := decodeImagePaths(req.ImagePaths)
		if err != nil {
			return "", nil, nil, err
		}
		return req.Date, req.Content, paths, nil
	}

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			return "", nil, nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return "", nil, nil, err
	}

	var content *string
	if values, ok := r.Form["content"]; ok && len(values) > 0 {
		content = &values[0]
	}
	return r.FormValue("date"), content, services.SplitImagePaths(r.FormValue("image_paths")), nil
}

func decodeImagePaths(raw json.RawMessage) ([]string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var joined string
		if err := json.Unmarshal(raw, &joined); err != nil {
			return nil, err
		}
		return services.SplitImagePaths(joined), nil
	}
	var paths []string
	if err := json.Unmarshal(raw, &paths); err != nil {
		return nil, err
	}
	return paths, nil
}

// GetEntry returns the entry for a date. A missing entry is reported with
// success=false and empty fields, still with status 200.
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	entry, ok, err := h.Store.GetByDate(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, err, "fetching entry")
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, GetEntryResponse{Success: false, Content: "", ImagePaths: []string{}})
		return
	}
	writeJSON(w, http.StatusOK, GetEntryResponse{
		Success:    true,
		Content:    entry.Text(),
		ImagePaths: services.NormalizeImagePaths(entry.ImagePaths),
	})
}

// ListEntries returns the timeline, newest first.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Store.ListAll(r.Context())
	if err != nil {
		writeError(w, err, "fetching entries")
		return
	}
	writeJSON(w, http.StatusOK, EntriesResponse{Success: true, Entries: entries})
}

// RangeEntries returns full entries dated from..to inclusive, oldest first.
func (h *Handler) RangeEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := h.Store.RangeQuery(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, err, "fetching entries")
		return
	}
	writeJSON(w, http.StatusOK, EntriesResponse{Success: true, Entries: entries})
}

// DashboardStats returns aggregate writing statistics.
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.Stats(r.Context())
	if err != nil {
		writeError(w, err, "fetching dashboard stats")
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{Success: true, DashboardStats: stats})
}
