package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/DanielSedell02/AI-spr-kapp/internal/api/middlewares"
	"github.com/DanielSedell02/AI-spr-kapp/internal/core"
	"github.com/DanielSedell02/AI-spr-kapp/internal/models"
	"github.com/DanielSedell02/AI-spr-kapp/internal/services"
)

type ConversationHandler struct {
	conversations *services.ConversationService
}

func NewConversationHandler(conversations *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

type messageBody struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

type exchangeRequest struct {
	Topic           string               `json:"topic"`
	DifficultyLevel models.LanguageLevel `json:"difficultyLevel"`
	AIPersona       models.Persona       `json:"aiPersona"`
	Message         messageBody          `json:"message"`
}

// Exchange handles POST /api/conversations: one tutoring turn.
func (h *ConversationHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req exchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	conv, reply, err := h.conversations.Exchange(r.Context(), services.ExchangeInput{
		UserID:          userID,
		Topic:           req.Topic,
		DifficultyLevel: req.DifficultyLevel,
		AIPersona:       req.AIPersona,
		Role:            req.Message.Role,
		Message:         req.Message.Content,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"conversation": conv,
		"aiResponse":   reply,
	})
}

// List handles GET /api/conversations with optional topic/difficultyLevel/
// aiPersona filters.
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	q := r.URL.Query()
	filter := core.ConversationFilter{
		Topic:           q.Get("topic"),
		DifficultyLevel: models.LanguageLevel(q.Get("difficultyLevel")),
		AIPersona:       models.Persona(q.Get("aiPersona")),
	}

	conversations, err := h.conversations.List(r.Context(), userID, filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if conversations == nil {
		conversations = []models.Conversation{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"conversations": conversations,
	})
}
