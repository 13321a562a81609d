package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/aurum/internal/gemini"
	"github.com/ternarybob/aurum/internal/interfaces"
	"github.com/ternarybob/aurum/internal/models"
)

// ErrCycleInFlight is returned when a cycle is triggered while another is
// still running. At most one cycle may be logically in flight.
var ErrCycleInFlight = errors.New("a cycle is already in flight")

// Service implements the CycleService interface. It owns the latest snapshot
// and the pipeline state; both are published atomically and a failed cycle
// never overwrites a successful previous snapshot.
type Service struct {
	collector    interfaces.Collector
	classifier   interfaces.Classifier
	notifier     interfaces.Notifier
	eventService interfaces.EventService
	macro        models.MacroContext
	schedule     string
	runOnStartup bool
	logger       arbor.ILogger

	cron   *cron.Cron
	cronID cron.EntryID

	// In-flight cycle guard. The cron timer and the manual trigger both go
	// through tryAcquire; a trigger while a cycle runs is rejected, never
	// run concurrently.
	guardMu  sync.Mutex
	inFlight bool
	wg       sync.WaitGroup

	// Snapshot and status, replaced whole under the write lock.
	stateMu        sync.RWMutex
	state          interfaces.CycleState
	lastError      string
	errorCategory  interfaces.ErrorCategory
	lastCycleAt    *time.Time
	lastDispatchOK bool
	cycleCount     int
	snapshot       *models.Snapshot

	started bool
}

// Compile-time assertion: Service implements CycleService
var _ interfaces.CycleService = (*Service)(nil)

// NewService creates a new cycle scheduler.
func NewService(
	collector interfaces.Collector,
	classifier interfaces.Classifier,
	notifier interfaces.Notifier,
	eventService interfaces.EventService,
	macro models.MacroContext,
	schedule string,
	runOnStartup bool,
	logger arbor.ILogger,
) *Service {
	return &Service{
		collector:    collector,
		classifier:   classifier,
		notifier:     notifier,
		eventService: eventService,
		macro:        macro,
		schedule:     schedule,
		runOnStartup: runOnStartup,
		logger:       logger,
		cron:         cron.New(),
		state:        interfaces.CycleIdle,
	}
}

// Start registers the cron entry and fires the startup cycle. The timer
// re-fires at the configured interval regardless of prior outcome; an error
// cycle never reschedules the next tick.
func (s *Service) Start() error {
	if s.started {
		return errors.New("scheduler already running")
	}

	cronID, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.RunCycle(context.Background()); err != nil {
			if errors.Is(err, ErrCycleInFlight) {
				s.logger.Warn().Msg("Scheduled cycle skipped, previous cycle still in flight")
			}
			// Cycle errors are already recorded in status; the next tick
			// fires on the original schedule.
		}
	})
	if err != nil {
		return err
	}
	s.cronID = cronID

	s.cron.Start()
	s.started = true

	s.logger.Info().
		Str("schedule", s.schedule).
		Bool("run_on_startup", s.runOnStartup).
		Msg("Cycle scheduler started")

	if s.runOnStartup {
		if err := s.TriggerCycle(); err != nil {
			s.logger.Warn().Err(err).Msg("Startup cycle not triggered")
		}
	}

	return nil
}

// Stop cancels the timer and waits for an in-flight cycle to finish.
func (s *Service) Stop() {
	if !s.started {
		return
	}
	s.cron.Stop()
	s.wg.Wait()
	s.started = false
	s.logger.Info().Msg("Cycle scheduler stopped")
}

// TriggerCycle starts a cycle on a background goroutine. It rejects the
// trigger synchronously when a cycle is already in flight, so callers can
// surface the conflict immediately.
func (s *Service) TriggerCycle() error {
	if !s.tryAcquire() {
		return ErrCycleInFlight
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.release()
		s.run(context.Background())
	}()

	return nil
}

// RunCycle executes one full ingest -> classify -> dispatch cycle.
func (s *Service) RunCycle(ctx context.Context) error {
	if !s.tryAcquire() {
		return ErrCycleInFlight
	}
	defer s.release()

	s.wg.Add(1)
	defer s.wg.Done()

	return s.run(ctx)
}

// run executes the pipeline. Caller must hold the in-flight guard.
func (s *Service) run(ctx context.Context) error {
	startTime := time.Now()
	s.setState(interfaces.CycleIngesting)
	s.publish(interfaces.EventCycleStarted, map[string]interface{}{
		"started_at": startTime.UTC(),
	})

	bundle, err := s.collector.Collect(ctx)
	if err != nil {
		s.failCycle("ingestion", err)
		return err
	}

	s.setState(interfaces.CycleAnalyzing)

	biases, err := s.classifier.Classify(ctx, bundle.News, bundle.Events, s.macro)
	if err != nil {
		s.failCycle("classification", err)
		return err
	}

	snapshot := &models.Snapshot{
		News:        bundle.News,
		Events:      bundle.Events,
		Biases:      biases,
		GeneratedAt: time.Now().UTC(),
	}

	now := time.Now()
	s.stateMu.Lock()
	s.snapshot = snapshot
	s.lastCycleAt = &now
	s.cycleCount++
	s.stateMu.Unlock()

	// Dispatch failure is recorded as a boolean only; it cannot fail the
	// cycle.
	dispatched := s.notifier.Send(ctx, biases)
	s.stateMu.Lock()
	s.lastDispatchOK = dispatched
	s.stateMu.Unlock()

	s.publish(interfaces.EventReportDispatched, map[string]interface{}{
		"delivered": dispatched,
	})

	s.setState(interfaces.CycleIdle)
	s.publish(interfaces.EventCycleCompleted, map[string]interface{}{
		"articles":   len(bundle.News),
		"dispatched": dispatched,
		"duration":   time.Since(startTime).String(),
	})

	s.logger.Info().
		Int("articles", len(bundle.News)).
		Bool("dispatched", dispatched).
		Dur("duration", time.Since(startTime)).
		Msg("Cycle completed")

	return nil
}

// failCycle records a fatal cycle error. The prior snapshot is retained
// unchanged; the state machine rests in ERROR until the next cycle starts.
func (s *Service) failCycle(stage string, err error) {
	category := interfaces.ErrorEngineFailure
	if gemini.IsRateLimit(err) {
		category = interfaces.ErrorRateLimited
	}

	s.stateMu.Lock()
	s.state = interfaces.CycleError
	s.lastError = err.Error()
	s.errorCategory = category
	s.stateMu.Unlock()

	s.logger.Error().
		Err(err).
		Str("stage", stage).
		Str("category", string(category)).
		Msg("Cycle failed")

	s.publish(interfaces.EventStateChanged, s.statusPayload())
	s.publish(interfaces.EventCycleFailed, map[string]interface{}{
		"stage":    stage,
		"category": string(category),
		"error":    err.Error(),
	})
}

// setState transitions the state machine and publishes the change. Entering
// INGESTING clears the previous error.
func (s *Service) setState(state interfaces.CycleState) {
	s.stateMu.Lock()
	s.state = state
	if state == interfaces.CycleIngesting {
		s.lastError = ""
		s.errorCategory = interfaces.ErrorNone
	}
	s.stateMu.Unlock()

	s.publish(interfaces.EventStateChanged, s.statusPayload())
}

// Status returns the current scheduler status.
func (s *Service) Status() interfaces.CycleStatus {
	s.stateMu.RLock()
	status := interfaces.CycleStatus{
		State:          s.state,
		LastError:      s.lastError,
		ErrorCategory:  s.errorCategory,
		LastCycleAt:    s.lastCycleAt,
		LastDispatchOK: s.lastDispatchOK,
		CycleCount:     s.cycleCount,
	}
	s.stateMu.RUnlock()

	if s.started {
		if next := s.cron.Entry(s.cronID).Next; !next.IsZero() {
			status.NextRunAt = &next
		}
	}

	return status
}

// Snapshot returns the latest successful snapshot, or nil before the first
// successful cycle.
func (s *Service) Snapshot() *models.Snapshot {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.snapshot
}

func (s *Service) tryAcquire() bool {
	s.guardMu.Lock()
	defer s.guardMu.Unlock()
	if s.inFlight {
		return false
	}
	s.inFlight = true
	return true
}

func (s *Service) release() {
	s.guardMu.Lock()
	s.inFlight = false
	s.guardMu.Unlock()
}

func (s *Service) statusPayload() map[string]interface{} {
	status := s.Status()
	return map[string]interface{}{
		"state":          string(status.State),
		"error_category": string(status.ErrorCategory),
		"last_error":     status.LastError,
		"timestamp":      time.Now().UTC(),
	}
}

func (s *Service) publish(eventType interfaces.EventType, payload map[string]interface{}) {
	if s.eventService == nil {
		return
	}
	event := interfaces.Event{
		Type:    eventType,
		Payload: payload,
	}
	if err := s.eventService.Publish(context.Background(), event); err != nil {
		s.logger.Warn().
			Err(err).
			Str("event_type", string(eventType)).
			Msg("Failed to publish scheduler event")
	}
}
