package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tcgbay/marketplace/internal/platform/logger"
	"github.com/tcgbay/marketplace/internal/port/http/middleware"
	"github.com/tcgbay/marketplace/internal/service"
)

type MessageHandler struct {
	messages service.MessageService
	log      logger.Logger
}

func NewMessageHandler(messages service.MessageService, log logger.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, log: log}
}

func (h *MessageHandler) StartThread(w http.ResponseWriter, r *http.Request) {
	thread, err := h.messages.StartThread(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()))
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusCreated, thread)
}

func (h *MessageHandler) Threads(w http.ResponseWriter, r *http.Request) {
	threads, err := h.messages.Threads(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusOK, threads)
}

func (h *MessageHandler) Messages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messages.Messages(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()))
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusOK, messages)
}

type postMessageRequest struct {
	Body string `json:"body"`
}

func (h *MessageHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(h.log, w, "invalid request body")
		return
	}

	message, err := h.messages.Post(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()), req.Body)
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusCreated, message)
}
