package handlers

import (
	"errors"
	"net/http"
)

type TranscribeResponse struct {
	Success       bool   `json:"success"`
	Transcription string `json:"transcription"`
}

// TranscribeAudio runs the uploaded audio_file through the media pipeline.
func (h *Handler) TranscribeAudio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, err, "reading upload")
			return
		}
		writeMessage(w, http.StatusBadRequest, "No audio file part")
		return
	}

	file, header, err := r.FormFile("audio_file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "No audio file part")
		return
	}
	defer file.Close()
	if header.Filename == "" {
		writeMessage(w, http.StatusBadRequest, "No selected audio file")
		return
	}

	text, err := h.Pipeline.TranscribeUpload(r.Context(), header.Filename, file)
	if err != nil {
		writeError(w, err, "transcribing audio")
		return
	}
	writeJSON(w, http.StatusOK, TranscribeResponse{Success: true, Transcription: text})
}
