package timer

import (
	"reelsd/internal/models"
	"reelsd/internal/testutil"
	"reelsd/internal/tracker"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestController_StartArmsSinglePulse(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := newControllerFixture(nil, newMemPrefs(false, 10))
	defer f.ctrl.Close()

	require.True(t, f.ctrl.Start())
	assert.False(t, f.ctrl.Start(), "second start is a no-op")

	active := f.tickers.Active()
	require.Len(t, active, 1)
	assert.Equal(t, 10*time.Second, active[0].Interval)
	assert.Equal(t, 1, f.tickers.Count())

	require.True(t, active[0].Tick(testNow))
	require.True(t, active[0].Tick(testNow.Add(10*time.Second)))
	assert.Eventually(t, func() bool { return f.recorder.count(tracker.SourceTimer) == 2 }, time.Second, 5*time.Millisecond)

	assert.True(t, f.prefs.LoadTimerPreferences().TrackingEnabled)
	assert.True(t, f.metrics.Tracking)
	assert.Equal(t, 1, f.notifier.CountKind(models.NoticeTrackingStarted))
	assert.True(t, f.ctrl.Status().Running)
}

func TestController_StopCancelsPulse(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := newControllerFixture(nil, newMemPrefs(false, 10))
	defer f.ctrl.Close()

	assert.False(t, f.ctrl.Stop(), "stop while idle is a no-op")
	require.True(t, f.ctrl.Start())
	ticker := f.tickers.Last()
	require.True(t, f.ctrl.Stop())

	assert.True(t, ticker.Stopped())
	assert.False(t, ticker.Tick(testNow), "no tick is delivered after stop")
	assert.Empty(t, f.tickers.Active())
	assert.False(t, f.prefs.LoadTimerPreferences().TrackingEnabled)
	assert.False(t, f.metrics.Tracking)
	assert.Equal(t, 1, f.notifier.CountKind(models.NoticeTrackingStopped))
	assert.Zero(t, f.recorder.count(tracker.SourceTimer))
}

func TestController_SetIntervalReplacesPulse(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := newControllerFixture(nil, newMemPrefs(false, 10))
	defer f.ctrl.Close()

	require.True(t, f.ctrl.Start())
	for _, s := range []int{5, 30, 60, 15} {
		require.NoError(t, f.ctrl.SetInterval(s))
		active := f.tickers.Active()
		require.Len(t, active, 1, "interval %d", s)
		assert.Equal(t, time.Duration(s)*time.Second, active[0].Interval)
	}
	assert.Equal(t, 5, f.tickers.Count())
	assert.Equal(t, 15, f.prefs.LoadTimerPreferences().IntervalSeconds)
	assert.Equal(t, 15, f.ctrl.Status().IntervalSeconds)
	assert.Equal(t, 4, f.notifier.CountKind(models.NoticeIntervalChanged))
}

func TestController_SetIntervalWhileIdle(t *testing.T) {
	f := newControllerFixture(nil, newMemPrefs(false, 10))
	defer f.ctrl.Close()

	require.NoError(t, f.ctrl.SetInterval(20))
	assert.Zero(t, f.tickers.Count(), "idle controller does not arm")
	require.True(t, f.ctrl.Start())
	assert.Equal(t, 20*time.Second, f.tickers.Last().Interval)
}

func TestController_SetIntervalRejectsOutOfRange(t *testing.T) {
	f := newControllerFixture(nil, newMemPrefs(false, 10))
	defer f.ctrl.Close()

	for _, s := range []int{0, 4, 61, -1} {
		err := f.ctrl.SetInterval(s)
		require.Error(t, err)
		assert.True(t, tracker.IsValidation(err))
	}
	assert.Equal(t, 10, f.prefs.LoadTimerPreferences().IntervalSeconds)
	assert.Zero(t, f.notifier.CountKind(models.NoticeIntervalChanged))
}

func TestController_InitResumesPersistedTracking(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := newControllerFixture(nil, newMemPrefs(true, 25))
	defer f.ctrl.Close()

	f.ctrl.Init()
	active := f.tickers.Active()
	require.Len(t, active, 1)
	assert.Equal(t, 25*time.Second, active[0].Interval)
	assert.Equal(t, 1, f.notifier.CountKind(models.NoticeTrackingResumed))
	assert.False(t, f.ctrl.Start(), "already running after init")
}

func TestController_InitIdle(t *testing.T) {
	f := newControllerFixture(nil, newMemPrefs(false, 25))
	defer f.ctrl.Close()

	f.ctrl.Init()
	assert.Zero(t, f.tickers.Count())
	assert.False(t, f.ctrl.Status().Running)
	assert.Equal(t, 25, f.ctrl.Status().IntervalSeconds)
	assert.Empty(t, f.notifier.Kinds())
}

func TestController_PostsUpdateCounter(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	link := &recordingLink{}
	f := newControllerFixture(link, newMemPrefs(false, 10))

	f.ctrl.Init()
	require.True(t, f.ctrl.Start())
	require.NoError(t, f.ctrl.SetInterval(30))
	require.True(t, f.ctrl.Stop())
	f.ctrl.Close()

	msgs := link.messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, models.Message{Type: models.MessageUpdateCounter, Tracking: true, Interval: 10}, msgs[0])
	assert.Equal(t, models.Message{Type: models.MessageUpdateCounter, Tracking: true, Interval: 30}, msgs[1])
	assert.Equal(t, models.Message{Type: models.MessageUpdateCounter}, msgs[2])
}

func TestController_SuspendWithoutBackgroundKeepsLocalPulse(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := newControllerFixture(nil, newMemPrefs(false, 10))
	defer f.ctrl.Close()

	require.True(t, f.ctrl.Start())
	first := f.tickers.Last()

	f.ctrl.Suspend()
	assert.True(t, f.ctrl.Status().Suspended)
	assert.False(t, first.Stopped())
	require.Len(t, f.tickers.Active(), 1)

	require.NoError(t, f.ctrl.SetInterval(20))
	active := f.tickers.Active()
	require.Len(t, active, 1)
	assert.Equal(t, 20*time.Second, active[0].Interval)

	require.True(t, f.tickers.Last().Tick(testNow))
	assert.Eventually(t, func() bool { return f.recorder.count(tracker.SourceTimer) == 1 }, time.Second, 5*time.Millisecond)

	f.ctrl.Resume()
	assert.Len(t, f.tickers.Active(), 1)
	assert.False(t, f.ctrl.Status().Suspended)
}

func TestController_SuspendKeepsLocalPulseWhenPostRejected(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	link := &recordingLink{reject: true}
	f := newControllerFixture(link, newMemPrefs(false, 10))
	defer f.ctrl.Close()

	require.True(t, f.ctrl.Start())
	f.ctrl.Suspend()
	assert.Len(t, f.tickers.Active(), 1)
	assert.Len(t, link.messages(), 1)
}

func TestController_SuspendHandsOffToMirroredBackground(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := newControllerFixture(&recordingLink{}, newMemPrefs(false, 10))
	defer f.ctrl.Close()

	require.True(t, f.ctrl.Start())
	first := f.tickers.Last()

	f.ctrl.Suspend()
	assert.True(t, first.Stopped())
	assert.Empty(t, f.tickers.Active())

	require.NoError(t, f.ctrl.SetInterval(20))
	assert.Empty(t, f.tickers.Active())

	f.ctrl.Resume()
	active := f.tickers.Active()
	require.Len(t, active, 1)
	assert.Equal(t, 20*time.Second, active[0].Interval)
}

func TestController_BlockedPulseIsNotAnError(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := newControllerFixture(nil, newMemPrefs(false, 10))
	defer f.ctrl.Close()
	f.recorder.err = tracker.ErrBlocked

	require.True(t, f.ctrl.Start())
	require.True(t, f.tickers.Last().Tick(testNow))
	assert.Eventually(t, func() bool { return f.logger.Count("debug") > 0 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, f.logger.Count("error"))
	assert.True(t, f.ctrl.Status().Running, "blocked pulses keep the timer running")
}

func TestController_Reload(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	prefs := newMemPrefs(false, 10)
	f := newControllerFixture(nil, prefs)
	defer f.ctrl.Close()

	require.True(t, f.ctrl.Start())
	require.NoError(t, f.ctrl.SetInterval(40))

	prefs.prefs = models.DefaultTimerPreferences()
	f.ctrl.Reload()

	status := f.ctrl.Status()
	assert.Equal(t, prefs.prefs.TrackingEnabled, status.Running)
	assert.Equal(t, prefs.prefs.IntervalSeconds, status.IntervalSeconds)
	if prefs.prefs.TrackingEnabled {
		assert.Len(t, f.tickers.Active(), 1)
	} else {
		assert.Empty(t, f.tickers.Active())
	}
}

func TestController_BackgroundTakesOverWhenSuspended(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	conf := testConfig()
	bgTickers := &testutil.FakeTickerFactory{}
	coordinator := NewCoordinator(conf, &testutil.MockLogger{}, &testutil.MockMetrics{}, factoryOf(bgTickers))

	prefs := newMemPrefs(false, 10)
	f := newControllerFixture(NewBackgroundLink(conf, coordinator), prefs)

	coordinator.Start(prefs.LoadTimerPreferences())
	f.ctrl.Init()
	assert.True(t, f.ctrl.Status().Background)

	require.True(t, f.ctrl.Start())
	require.Eventually(t, func() bool { return len(bgTickers.Active()) == 1 }, time.Second, 5*time.Millisecond)

	require.True(t, f.tickers.Last().Tick(testNow))
	require.Eventually(t, func() bool { return f.recorder.count(tracker.SourceTimer) == 1 }, time.Second, 5*time.Millisecond)

	f.ctrl.Suspend()
	require.True(t, bgTickers.Last().Tick(testNow.Add(10*time.Second)))
	require.True(t, bgTickers.Last().Tick(testNow.Add(20*time.Second)))
	assert.Eventually(t, func() bool { return f.recorder.count(tracker.SourceBackground) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, f.recorder.count(tracker.SourceTimer))

	f.ctrl.Close()
	coordinator.Stop()
}

func TestController_ListenIgnoresUpdatesWhileVisible(t *testing.T) {
	f := newControllerFixture(&recordingLink{}, newMemPrefs(true, 10))

	feed := func() *Port {
		ch := make(chan models.Message, 2)
		ch <- backgroundUpdate(testNow)
		ch <- models.Message{Type: models.MessageUpdateCounter, Tracking: true, Interval: 10}
		close(ch)
		return &Port{ID: "direct", C: ch, ch: ch}
	}
	listen := func() {
		done := make(chan struct{})
		f.ctrl.listen(feed(), done)
		<-done
	}

	f.ctrl.running.Store(true)
	f.ctrl.mirrored.Store(true)
	listen()
	assert.Zero(t, f.recorder.count(tracker.SourceBackground), "visible foreground counts locally")

	f.ctrl.running.Store(false)
	f.ctrl.suspended.Store(true)
	listen()
	assert.Zero(t, f.recorder.count(tracker.SourceBackground), "stopped timer ignores background pulses")

	f.ctrl.running.Store(true)
	f.ctrl.mirrored.Store(false)
	listen()
	assert.Zero(t, f.recorder.count(tracker.SourceBackground), "unmirrored background is not trusted")

	f.ctrl.mirrored.Store(true)
	listen()
	assert.Equal(t, 1, f.recorder.count(tracker.SourceBackground))
}

func TestController_SetIntervalPulseRate(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	conf := testConfig()
	conf.Tracking.TickUnit = time.Millisecond
	recorder := &fakeRecorder{}
	ctrl := NewController(conf, &testutil.MockLogger{}, recorder, newMemPrefs(false, 60), nil,
		&testutil.MockNotifier{}, testutil.NewMockClock(testNow), &testutil.MockMetrics{}, NewTickerFactory())

	require.True(t, ctrl.Start())
	for i := 0; i < 5; i++ {
		require.NoError(t, ctrl.SetInterval(10))
	}
	time.Sleep(200 * time.Millisecond)
	ctrl.Close()

	// one 10ms pulse gives at most ~20 reels; five leaked pulses would give ~100
	pulses := recorder.count(tracker.SourceTimer)
	assert.Positive(t, pulses)
	assert.LessOrEqual(t, pulses, 25)
}
