package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/tcgbay/marketplace/internal/platform/logger"
	"github.com/tcgbay/marketplace/internal/service"
)

// SweepHandler exposes a manual sweep trigger for operators and schedulers.
// The route is not behind user auth; it is guarded by a shared secret header.
type SweepHandler struct {
	sweeper *service.Sweeper
	secret  string
	log     logger.Logger
}

func NewSweepHandler(sweeper *service.Sweeper, secret string, log logger.Logger) *SweepHandler {
	return &SweepHandler{sweeper: sweeper, secret: secret, log: log}
}

func (h *SweepHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	provided := r.Header.Get("X-Sweep-Secret")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) != 1 {
		h.log.Warnf("sweep trigger rejected from %s", r.RemoteAddr)
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	report, err := h.sweeper.Sweep(r.Context())
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusOK, report)
}
