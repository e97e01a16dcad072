package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tcgbay/marketplace/internal/domain/entity"
	"github.com/tcgbay/marketplace/internal/platform/logger"
	"github.com/tcgbay/marketplace/internal/repository"
	"github.com/tcgbay/marketplace/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(log logger.Logger, w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}

// respondError translates service errors into HTTP statuses. Unknown errors
// become 500 without leaking internals.
func respondError(log logger.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrListingNotFound),
		errors.Is(err, service.ErrOfferNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrThreadNotFound),
		errors.Is(err, service.ErrWantedNotFound):
		respondJSON(log, w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrForbidden):
		respondJSON(log, w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrInvalidTransition),
		errors.Is(err, entity.ErrOfferNotPending),
		errors.Is(err, service.ErrListingNotActive),
		errors.Is(err, service.ErrOfferClosed),
		errors.Is(err, service.ErrOfferExpired),
		errors.Is(err, service.ErrOrderNotCancellable),
		errors.Is(err, repository.ErrDuplicate):
		respondJSON(log, w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrValidation):
		respondJSON(log, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		log.Errorf("request failed: %v", err)
		respondJSON(log, w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func badRequest(log logger.Logger, w http.ResponseWriter, message string) {
	respondJSON(log, w, http.StatusBadRequest, errorResponse{Error: message})
}
