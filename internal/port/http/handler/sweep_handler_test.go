package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tcgbay/marketplace/internal/platform/logger"
)

func TestSweepTrigger_RejectsBadSecret(t *testing.T) {
	h := NewSweepHandler(nil, "sweep-secret", logger.NoOp())

	req := httptest.NewRequest(http.MethodPost, "/internal/sweep", nil)
	req.Header.Set("X-Sweep-Secret", "guess")
	rec := httptest.NewRecorder()

	h.Trigger(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSweepTrigger_RejectsMissingSecret(t *testing.T) {
	h := NewSweepHandler(nil, "sweep-secret", logger.NoOp())

	req := httptest.NewRequest(http.MethodPost, "/internal/sweep", nil)
	rec := httptest.NewRecorder()

	h.Trigger(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
