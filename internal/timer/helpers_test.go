package timer

import (
	"reelsd/internal/models"
	"reelsd/internal/structures"
	"reelsd/internal/testutil"
	"reelsd/internal/tracker"
	"sync"
	"time"
)

var testNow = time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)

func testConfig() *structures.Config {
	return &structures.Config{
		Tracking: structures.TrackingConfig{
			DefaultInterval: models.DefaultInterval,
			SecondsPerReel:  models.DefaultSecondsPerReel,
			TickUnit:        time.Second,
		},
		Background: structures.BackgroundConfig{Enabled: true, QueueSize: 4},
	}
}

func factoryOf(f *testutil.FakeTickerFactory) TickerFactory {
	return func(d time.Duration) Ticker { return f.New(d) }
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []tracker.Source
	err   error
}

func (r *fakeRecorder) RecordReel(source tracker.Source) (models.TrackerState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return models.TrackerState{}, r.err
	}
	r.calls = append(r.calls, source)
	return models.TrackerState{}, nil
}

func (r *fakeRecorder) count(source tracker.Source) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.calls {
		if s == source {
			n++
		}
	}
	return n
}

type memPrefs struct {
	mu    sync.Mutex
	prefs models.TimerPreferences
}

func newMemPrefs(tracking bool, interval int) *memPrefs {
	return &memPrefs{prefs: models.TimerPreferences{TrackingEnabled: tracking, IntervalSeconds: interval}}
}

func (m *memPrefs) LoadTimerPreferences() models.TimerPreferences {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prefs
}

func (m *memPrefs) SaveTracking(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs.TrackingEnabled = enabled
	return nil
}

func (m *memPrefs) SaveInterval(seconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs.IntervalSeconds = seconds
	return nil
}

// recordingLink captures posted messages without running a coordinator.
type recordingLink struct {
	mu     sync.Mutex
	posted []models.Message
	reject bool
}

func (l *recordingLink) Post(msg models.Message) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.posted = append(l.posted, msg)
	return !l.reject
}

func (l *recordingLink) Connect() *Port {
	ch := make(chan models.Message, 1)
	return &Port{ID: "test", C: ch, ch: ch}
}

func (l *recordingLink) Disconnect(p *Port) {
	close(p.ch)
}

func (l *recordingLink) messages() []models.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.Message(nil), l.posted...)
}

type controllerFixture struct {
	ctrl     *Controller
	tickers  *testutil.FakeTickerFactory
	recorder *fakeRecorder
	prefs    *memPrefs
	notifier *testutil.MockNotifier
	logger   *testutil.MockLogger
	metrics  *testutil.MockMetrics
}

func newControllerFixture(link BackgroundLink, prefs *memPrefs) *controllerFixture {
	f := &controllerFixture{
		tickers:  &testutil.FakeTickerFactory{},
		recorder: &fakeRecorder{},
		prefs:    prefs,
		notifier: &testutil.MockNotifier{},
		logger:   &testutil.MockLogger{},
		metrics:  &testutil.MockMetrics{},
	}
	f.ctrl = NewController(testConfig(), f.logger, f.recorder, f.prefs, link, f.notifier, testutil.NewMockClock(testNow), f.metrics, factoryOf(f.tickers))
	return f
}
