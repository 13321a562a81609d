package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/aurum/internal/models"
)

// CycleState is the scheduler's pipeline state.
type CycleState string

const (
	CycleIdle      CycleState = "IDLE"
	CycleIngesting CycleState = "INGESTING"
	CycleAnalyzing CycleState = "ANALYZING"
	CycleError     CycleState = "ERROR"
)

// ErrorCategory is the user-facing classification of a failed cycle.
type ErrorCategory string

const (
	ErrorNone          ErrorCategory = ""
	ErrorRateLimited   ErrorCategory = "rate_limited"
	ErrorEngineFailure ErrorCategory = "engine_failure"
)

// CycleStatus is the scheduler status exposed to the presentation layer.
type CycleStatus struct {
	State          CycleState    `json:"state"`
	LastError      string        `json:"last_error,omitempty"`
	ErrorCategory  ErrorCategory `json:"error_category,omitempty"`
	LastCycleAt    *time.Time    `json:"last_cycle_at,omitempty"`
	NextRunAt      *time.Time    `json:"next_run_at,omitempty"`
	LastDispatchOK bool          `json:"last_dispatch_ok"`
	CycleCount     int           `json:"cycle_count"`
}

// CycleService owns the ingest -> classify -> dispatch pipeline, the hourly
// timer, and the latest snapshot.
type CycleService interface {
	// Start registers the cron entry and, when configured, fires the
	// startup cycle.
	Start() error

	// Stop cancels the timer and waits for an in-flight cycle to finish.
	Stop()

	// RunCycle executes one full cycle. Returns ErrCycleInFlight when a
	// cycle is already running.
	RunCycle(ctx context.Context) error

	// TriggerCycle starts a cycle on a background goroutine. Returns
	// ErrCycleInFlight when one is already running.
	TriggerCycle() error

	// Status returns the current scheduler status.
	Status() CycleStatus

	// Snapshot returns the latest successful snapshot, or nil before the
	// first successful cycle.
	Snapshot() *models.Snapshot
}
