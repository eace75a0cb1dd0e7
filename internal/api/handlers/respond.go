package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DanielSedell02/AI-spr-kapp/internal/core/tutor"
	"github.com/DanielSedell02/AI-spr-kapp/internal/logger"
	"github.com/DanielSedell02/AI-spr-kapp/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service-layer errors onto the HTTP error taxonomy:
// validation 400 with field detail, not-found 404, model failures 500 with an
// opaque message, everything else 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	var v *services.ValidationError
	switch {
	case errors.As(err, &v):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "Invalid input data",
			"details": v.Fields,
		})
	case errors.Is(err, services.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, tutor.ErrUpstream), errors.Is(err, tutor.ErrMalformedReply):
		log.Err(err).Msg("tutor generation failed")
		writeError(w, http.StatusInternalServerError, "Failed to generate response")
	default:
		log.Err(err).Msg("unexpected error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
