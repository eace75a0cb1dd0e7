package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/DanielSedell02/AI-spr-kapp/internal/api/middlewares"
	"github.com/DanielSedell02/AI-spr-kapp/internal/models"
	"github.com/DanielSedell02/AI-spr-kapp/internal/services"
)

type PracticeHandler struct {
	practice *services.PracticeService
}

func NewPracticeHandler(practice *services.PracticeService) *PracticeHandler {
	return &PracticeHandler{practice: practice}
}

type pronunciationRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"targetLanguage"`
}

func (h *PracticeHandler) Pronunciation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req pronunciationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	analysis, err := h.practice.Pronunciation(r.Context(), userID, req.Text, req.TargetLanguage)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"analysis": analysis})
}

type grammarRequest struct {
	Topic           string               `json:"topic"`
	DifficultyLevel models.LanguageLevel `json:"difficultyLevel"`
}

func (h *PracticeHandler) Grammar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req grammarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	exercise, err := h.practice.Grammar(r.Context(), userID, req.Topic, req.DifficultyLevel)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"exercise": exercise})
}
