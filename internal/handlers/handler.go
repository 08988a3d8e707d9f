package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/AnshRaj112/lifestory-backend/internal/services"
)

// Handler holds the services behind the HTTP API. Everything is built once in main
// and shared by all requests.
type Handler struct {
	Store       services.EntryStore
	Pipeline    *services.MediaPipeline
	Synthesizer *services.Synthesizer
	Uploads     *services.UploadStorage
	Archive     services.StoryArchive // nil when MongoDB is not configured
	Mirror      services.ImageMirror  // nil when Cloudinary is not configured

	MaxUploadSize int64
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[HTTP] failed to encode response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Message: message})
}

// writeError maps a service error to its status code. Validation messages are shown
// as-is, everything else is prefixed with what the request was doing.
func writeError(w http.ResponseWriter, err error, action string) {
	status := statusFor(err)
	message := fmt.Sprintf("Error %s: %v", action, err)

	var verr *services.ValidationError
	if errors.As(err, &verr) {
		message = verr.Message
	}
	if status >= http.StatusInternalServerError {
		log.Printf("[HTTP] error %s: %v", action, err)
	}
	writeMessage(w, status, message)
}

func statusFor(err error) int {
	var (
		verr    *services.ValidationError
		missing *services.MissingFileError
		conv    *services.ConversionError
		trans   *services.TranscriptionError
		synth   *services.SynthesisError
		tooBig  *http.MaxBytesError
	)
	switch {
	case errors.As(err, &verr), errors.As(err, &missing):
		return http.StatusBadRequest
	case errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &conv):
		return http.StatusUnprocessableEntity
	case errors.As(err, &trans), errors.As(err, &synth):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Health reports liveness only.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}
