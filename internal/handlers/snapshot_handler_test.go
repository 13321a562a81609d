package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/aurum/internal/common"
	"github.com/ternarybob/aurum/internal/interfaces"
	"github.com/ternarybob/aurum/internal/models"
)

func TestGetSnapshotHandlerEmpty(t *testing.T) {
	handler := NewSnapshotHandler(&fakeCycleService{}, common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/snapshot", nil)
	rec := httptest.NewRecorder()
	handler.GetSnapshotHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		News   []json.RawMessage          `json:"news"`
		Events []json.RawMessage          `json:"events"`
		Biases map[string]json.RawMessage `json:"biases"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.News)
	assert.Empty(t, body.Events)
	assert.Empty(t, body.Biases)
}

func TestGetSnapshotHandler(t *testing.T) {
	snapshot := &models.Snapshot{
		News: []models.NewsArticle{
			{ID: "art_1", Title: "Gold rallies", Assets: []models.Asset{models.AssetGold}, ImpactScore: 80},
		},
		Events: []models.EconomicEvent{
			{ID: "evt_1", EventName: "Unified Macro Pulse"},
		},
		Biases: map[models.Asset]models.BiasOutput{
			models.AssetGold: {Asset: models.AssetGold},
		},
		GeneratedAt: time.Now().UTC(),
	}
	handler := NewSnapshotHandler(&fakeCycleService{snapshot: snapshot}, common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/snapshot", nil)
	rec := httptest.NewRecorder()
	handler.GetSnapshotHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var decoded models.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	require.Len(t, decoded.News, 1)
	assert.Equal(t, "Gold rallies", decoded.News[0].Title)
	assert.Contains(t, decoded.Biases, models.AssetGold)
}

func TestGetSnapshotHandlerMethodNotAllowed(t *testing.T) {
	handler := NewSnapshotHandler(&fakeCycleService{}, common.GetLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/snapshot", nil)
	rec := httptest.NewRecorder()
	handler.GetSnapshotHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGetStatusHandler(t *testing.T) {
	lastCycle := time.Now().UTC().Add(-30 * time.Minute)
	status := interfaces.CycleStatus{
		State:          interfaces.CycleError,
		LastError:      "gemini rate limit exceeded",
		ErrorCategory:  interfaces.ErrorRateLimited,
		LastCycleAt:    &lastCycle,
		LastDispatchOK: true,
		CycleCount:     4,
	}
	handler := NewSnapshotHandler(&fakeCycleService{status: status}, common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	handler.GetStatusHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var decoded interfaces.CycleStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, interfaces.CycleError, decoded.State)
	assert.Equal(t, interfaces.ErrorRateLimited, decoded.ErrorCategory)
	assert.Equal(t, 4, decoded.CycleCount)
	assert.True(t, decoded.LastDispatchOK)
}
