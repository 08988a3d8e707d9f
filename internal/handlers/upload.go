package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/lifestory-backend/internal/services"
)

type UploadResponse struct {
	Success  bool   `json:"success"`
	Filepath string `json:"filepath"`
	URL      string `json:"url,omitempty"`
}

// UploadImage stores an image under a unique name and returns the path it is served
// from. When a mirror is configured the image is also copied there; a failed mirror
// upload is logged and does not fail the request.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, err, "reading upload")
			return
		}
		writeMessage(w, http.StatusBadRequest, "No file part")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "No file part")
		return
	}
	defer file.Close()
	if header.Filename == "" {
		writeMessage(w, http.StatusBadRequest, "No selected file")
		return
	}

	name, err := h.Uploads.Save(header.Filename, file)
	if err != nil {
		writeError(w, &services.StorageError{Op: "save image", Err: err}, "uploading image")
		return
	}

	resp := UploadResponse{Success: true, Filepath: services.UploadURLPrefix + name}
	if h.Mirror != nil {
		if url, err := h.mirror(r, name); err != nil {
			log.Printf("⚠️  WARNING: image mirror upload failed for %s: %v", name, err)
		} else {
			resp.URL = url
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) mirror(r *http.Request, name string) (string, error) {
	f, err := h.Uploads.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return h.Mirror.UploadImage(r.Context(), f, name)
}

// ServeUpload streams a stored upload back to the client.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	f, err := h.Uploads.Open(name)
	if err != nil {
		var verr *services.ValidationError
		if errors.Is(err, services.ErrNotFound) || errors.As(err, &verr) {
			http.NotFound(w, r)
			return
		}
		writeError(w, err, "reading upload")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, name, info.ModTime(), f)
}
