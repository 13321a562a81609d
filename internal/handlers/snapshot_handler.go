package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/aurum/internal/interfaces"
)

// SnapshotHandler serves the latest cycle snapshot to the dashboard
type SnapshotHandler struct {
	cycleService interfaces.CycleService
	logger       arbor.ILogger
}

// NewSnapshotHandler creates a new SnapshotHandler
func NewSnapshotHandler(cycleService interfaces.CycleService, logger arbor.ILogger) *SnapshotHandler {
	return &SnapshotHandler{
		cycleService: cycleService,
		logger:       logger,
	}
}

// GetSnapshotHandler handles GET /api/snapshot
func (h *SnapshotHandler) GetSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	snapshot := h.cycleService.Snapshot()
	if snapshot == nil {
		// No successful cycle yet
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"news":   []interface{}{},
			"events": []interface{}{},
			"biases": map[string]interface{}{},
		})
		return
	}

	WriteJSON(w, http.StatusOK, snapshot)
}

// GetStatusHandler handles GET /api/status
func (h *SnapshotHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, h.cycleService.Status())
}
