package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/aurum/internal/common"
	"github.com/ternarybob/aurum/internal/gemini"
	"github.com/ternarybob/aurum/internal/interfaces"
	"github.com/ternarybob/aurum/internal/models"
)

type fakeCollector struct {
	bundle *models.IngestionBundle
	err    error

	// blockCh, when set, holds Collect until closed. Used to pin a cycle
	// in flight for guard tests.
	blockCh chan struct{}

	mu    sync.Mutex
	calls int
}

func (f *fakeCollector) Collect(ctx context.Context) (*models.IngestionBundle, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.blockCh != nil {
		<-f.blockCh
	}
	return f.bundle, f.err
}

func (f *fakeCollector) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeClassifier struct {
	biases map[models.Asset]models.BiasOutput
	err    error

	mu        sync.Mutex
	lastMacro models.MacroContext
}

func (f *fakeClassifier) Classify(ctx context.Context, news []models.NewsArticle, events []models.EconomicEvent, macro models.MacroContext) (map[models.Asset]models.BiasOutput, error) {
	f.mu.Lock()
	f.lastMacro = macro
	f.mu.Unlock()
	return f.biases, f.err
}

type fakeNotifier struct {
	result bool

	mu    sync.Mutex
	calls int
}

func (f *fakeNotifier) Send(ctx context.Context, biases map[models.Asset]models.BiasOutput) bool {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.result
}

func testBundle() *models.IngestionBundle {
	return &models.IngestionBundle{
		News: []models.NewsArticle{
			{ID: "art_1", Title: "Gold rallies", Assets: []models.Asset{models.AssetGold}, ImpactScore: 80},
		},
		Events: []models.EconomicEvent{
			{ID: "evt_1", EventName: "Unified Macro Pulse"},
		},
	}
}

func testBiases() map[models.Asset]models.BiasOutput {
	out := make(map[models.Asset]models.BiasOutput, 3)
	for _, asset := range models.AllAssets() {
		out[asset] = models.BiasOutput{Asset: asset}
	}
	return out
}

func testMacro() models.MacroContext {
	return models.MacroContext{USDTrend: "NEUTRAL", YieldsTrend: "STABLE", RiskSentiment: "MIXED"}
}

func newTestService(collector interfaces.Collector, classifier interfaces.Classifier, notifier interfaces.Notifier) *Service {
	return NewService(collector, classifier, notifier, nil, testMacro(), "@every 1h", false, common.GetLogger())
}

func TestRunCycleSuccess(t *testing.T) {
	collector := &fakeCollector{bundle: testBundle()}
	classifier := &fakeClassifier{biases: testBiases()}
	notifier := &fakeNotifier{result: true}

	svc := newTestService(collector, classifier, notifier)
	require.NoError(t, svc.RunCycle(context.Background()))

	status := svc.Status()
	assert.Equal(t, interfaces.CycleIdle, status.State)
	assert.Empty(t, status.LastError)
	assert.Equal(t, interfaces.ErrorNone, status.ErrorCategory)
	assert.Equal(t, 1, status.CycleCount)
	assert.True(t, status.LastDispatchOK)
	require.NotNil(t, status.LastCycleAt)

	snapshot := svc.Snapshot()
	require.NotNil(t, snapshot)
	assert.Len(t, snapshot.News, 1)
	assert.Len(t, snapshot.Biases, 3)
	assert.False(t, snapshot.GeneratedAt.IsZero())

	// Configured macro context flows into classification
	classifier.mu.Lock()
	assert.Equal(t, "NEUTRAL", classifier.lastMacro.USDTrend)
	classifier.mu.Unlock()
}

func TestRunCycleCollectorFailure(t *testing.T) {
	collector := &fakeCollector{err: errors.New("grounded search failed")}
	classifier := &fakeClassifier{biases: testBiases()}
	notifier := &fakeNotifier{result: true}

	svc := newTestService(collector, classifier, notifier)
	err := svc.RunCycle(context.Background())
	require.Error(t, err)

	status := svc.Status()
	assert.Equal(t, interfaces.CycleError, status.State)
	assert.Equal(t, interfaces.ErrorEngineFailure, status.ErrorCategory)
	assert.Contains(t, status.LastError, "grounded search failed")
	assert.Equal(t, 0, status.CycleCount)
	assert.Nil(t, svc.Snapshot())
	assert.Equal(t, 0, notifier.calls, "no dispatch after a failed cycle")
}

func TestRunCycleClassifierFailureKeepsSnapshot(t *testing.T) {
	collector := &fakeCollector{bundle: testBundle()}
	classifier := &fakeClassifier{biases: testBiases()}
	notifier := &fakeNotifier{result: true}

	svc := newTestService(collector, classifier, notifier)
	require.NoError(t, svc.RunCycle(context.Background()))
	first := svc.Snapshot()
	require.NotNil(t, first)

	classifier.err = errors.New("schema violation")
	err := svc.RunCycle(context.Background())
	require.Error(t, err)

	status := svc.Status()
	assert.Equal(t, interfaces.CycleError, status.State)
	assert.Equal(t, 1, status.CycleCount)

	// Prior snapshot survives the failure untouched
	assert.Same(t, first, svc.Snapshot())
}

func TestRunCycleRateLimitCategory(t *testing.T) {
	collector := &fakeCollector{
		err: fmt.Errorf("grounded search failed: %w", &gemini.RateLimitError{Op: "grounded", Message: "429 RESOURCE_EXHAUSTED"}),
	}
	svc := newTestService(collector, &fakeClassifier{biases: testBiases()}, &fakeNotifier{})

	require.Error(t, svc.RunCycle(context.Background()))
	status := svc.Status()
	assert.Equal(t, interfaces.CycleError, status.State)
	assert.Equal(t, interfaces.ErrorRateLimited, status.ErrorCategory)
}

func TestRunCycleClearsPreviousError(t *testing.T) {
	collector := &fakeCollector{err: errors.New("boom")}
	classifier := &fakeClassifier{biases: testBiases()}
	notifier := &fakeNotifier{result: true}

	svc := newTestService(collector, classifier, notifier)
	require.Error(t, svc.RunCycle(context.Background()))
	assert.Equal(t, interfaces.CycleError, svc.Status().State)

	collector.err = nil
	collector.bundle = testBundle()
	require.NoError(t, svc.RunCycle(context.Background()))

	status := svc.Status()
	assert.Equal(t, interfaces.CycleIdle, status.State)
	assert.Empty(t, status.LastError)
	assert.Equal(t, interfaces.ErrorNone, status.ErrorCategory)
}

func TestRunCycleDispatchFailureDoesNotFailCycle(t *testing.T) {
	collector := &fakeCollector{bundle: testBundle()}
	classifier := &fakeClassifier{biases: testBiases()}
	notifier := &fakeNotifier{result: false}

	svc := newTestService(collector, classifier, notifier)
	require.NoError(t, svc.RunCycle(context.Background()))

	status := svc.Status()
	assert.Equal(t, interfaces.CycleIdle, status.State)
	assert.False(t, status.LastDispatchOK)
	assert.Equal(t, 1, status.CycleCount)
	assert.NotNil(t, svc.Snapshot())
}

func TestInFlightGuard(t *testing.T) {
	block := make(chan struct{})
	collector := &fakeCollector{bundle: testBundle(), blockCh: block}
	classifier := &fakeClassifier{biases: testBiases()}
	notifier := &fakeNotifier{result: true}

	svc := newTestService(collector, classifier, notifier)

	require.NoError(t, svc.TriggerCycle())

	// Wait for the background cycle to enter Collect
	require.Eventually(t, func() bool {
		return collector.callCount() == 1
	}, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, svc.TriggerCycle(), ErrCycleInFlight)
	assert.ErrorIs(t, svc.RunCycle(context.Background()), ErrCycleInFlight)

	close(block)
	svc.wg.Wait()

	assert.Equal(t, 1, collector.callCount())
	assert.Equal(t, 1, svc.Status().CycleCount)

	// Guard is released once the cycle completes
	require.NoError(t, svc.RunCycle(context.Background()))
	assert.Equal(t, 2, svc.Status().CycleCount)
}

func TestRunCycleEmptyBundle(t *testing.T) {
	collector := &fakeCollector{bundle: &models.IngestionBundle{}}
	classifier := &fakeClassifier{biases: testBiases()}
	notifier := &fakeNotifier{result: true}

	svc := newTestService(collector, classifier, notifier)
	require.NoError(t, svc.RunCycle(context.Background()))

	snapshot := svc.Snapshot()
	require.NotNil(t, snapshot)
	assert.Empty(t, snapshot.News)
	assert.Len(t, snapshot.Biases, 3)
}

func TestStartStop(t *testing.T) {
	collector := &fakeCollector{bundle: testBundle()}
	classifier := &fakeClassifier{biases: testBiases()}
	notifier := &fakeNotifier{result: true}

	svc := NewService(collector, classifier, notifier, nil, testMacro(), "@every 1h", true, common.GetLogger())
	require.NoError(t, svc.Start())
	assert.Error(t, svc.Start(), "second Start is rejected")

	// Startup cycle runs in the background
	require.Eventually(t, func() bool {
		return svc.Status().CycleCount == 1
	}, time.Second, 5*time.Millisecond)

	status := svc.Status()
	require.NotNil(t, status.NextRunAt)
	assert.True(t, status.NextRunAt.After(time.Now()))

	svc.Stop()
}
