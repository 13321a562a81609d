package handlers

import (
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/aurum/internal/interfaces"
	"github.com/ternarybob/aurum/internal/services/scheduler"
)

// CycleHandler exposes the manual cycle trigger
type CycleHandler struct {
	cycleService interfaces.CycleService
	logger       arbor.ILogger
}

// NewCycleHandler creates a new CycleHandler
func NewCycleHandler(cycleService interfaces.CycleService, logger arbor.ILogger) *CycleHandler {
	return &CycleHandler{
		cycleService: cycleService,
		logger:       logger,
	}
}

// TriggerCycleHandler handles POST /api/cycle/run. The trigger is rejected
// with 409 while a cycle is in flight; the guard lives in the scheduler, not
// in the UI.
func (h *CycleHandler) TriggerCycleHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	if err := h.cycleService.TriggerCycle(); err != nil {
		if errors.Is(err, scheduler.ErrCycleInFlight) {
			WriteError(w, http.StatusConflict, "A cycle is already in flight")
			return
		}
		h.logger.Error().Err(err).Msg("Failed to trigger cycle")
		WriteError(w, http.StatusInternalServerError, "Failed to trigger cycle")
		return
	}

	h.logger.Info().Msg("Manual cycle triggered")
	WriteStarted(w, "Cycle started")
}
