package testutil

import (
	"reelsd/internal/models"
	"reelsd/internal/providers"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu                sync.Mutex
	Requests          int
	CacheHits         int
	CacheMisses       int
	Reels             map[string]int
	Blocked           int
	Rollovers         int
	BackgroundDropped int
	Persisted         int
	Tracking          bool
	TodayReels        int
	TodaySeconds      int
	Streak            int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) IncReels(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Reels == nil {
		m.Reels = make(map[string]int)
	}
	m.Reels[source]++
}
func (m *MockMetrics) IncBlocked() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Blocked++
}
func (m *MockMetrics) IncRollovers() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rollovers++
}
func (m *MockMetrics) IncBackgroundDropped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BackgroundDropped++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persisted++
}
func (m *MockMetrics) SetTracking(active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tracking = active
}
func (m *MockMetrics) SetToday(reels, seconds int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TodayReels = reels
	m.TodaySeconds = seconds
}
func (m *MockMetrics) SetStreak(days int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Streak = days
}

func (m *MockMetrics) ReelsBySource(source string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Reels[source]
}

func (m *MockMetrics) DroppedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.BackgroundDropped
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor is an identity compressor with injectable failures.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockNotifier records published notices.
type MockNotifier struct {
	mu      sync.Mutex
	Notices []models.Notice
}

func (m *MockNotifier) Notify(n models.Notice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notices = append(m.Notices, n)
}

func (m *MockNotifier) Kinds() []models.NoticeKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	kinds := make([]models.NoticeKind, len(m.Notices))
	for i, n := range m.Notices {
		kinds[i] = n.Kind
	}
	return kinds
}

func (m *MockNotifier) CountKind(kind models.NoticeKind) int {
	n := 0
	for _, k := range m.Kinds() {
		if k == kind {
			n++
		}
	}
	return n
}

func (m *MockNotifier) Last() (models.Notice, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Notices) == 0 {
		return models.Notice{}, false
	}
	return m.Notices[len(m.Notices)-1], true
}

func (m *MockNotifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notices = nil
}

// MockClock is a settable wall clock.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewMockClock(now time.Time) *MockClock {
	return &MockClock{now: now}
}

func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *MockClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
