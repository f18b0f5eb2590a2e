package timer

import (
	"errors"
	"fmt"
	"reelsd/internal/event"
	"reelsd/internal/models"
	"reelsd/internal/providers"
	"reelsd/internal/structures"
	"reelsd/internal/tracker"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Recorder is the single entry point every pulse funnels into.
type Recorder interface {
	RecordReel(source tracker.Source) (models.TrackerState, error)
}

// PreferenceStore persists the timer scalars.
type PreferenceStore interface {
	LoadTimerPreferences() models.TimerPreferences
	SaveTracking(enabled bool) error
	SaveInterval(seconds int) error
}

type Status struct {
	Running         bool `json:"running"`
	Suspended       bool `json:"suspended"`
	IntervalSeconds int  `json:"intervalSeconds"`
	Background      bool `json:"background"`
}

type ControllerInterface interface {
	Init()
	Start() bool
	Stop() bool
	SetInterval(seconds int) error
	Suspend()
	Resume()
	Reload()
	Status() Status
	Close()
}

// Controller owns the foreground pulse. At most one pulse is armed at any
// time; arming always cancels the previous one first. While suspended the
// pulse is handed to the background only if the background accepted the
// latest UPDATE_COUNTER; otherwise it keeps running locally.
type Controller struct {
	mu        sync.Mutex
	running   atomic.Bool
	suspended atomic.Bool
	mirrored  atomic.Bool
	interval  int
	unit      time.Duration
	pulse     *pulse
	port      *Port
	portDone  chan struct{}
	newTicker TickerFactory

	recorder   Recorder
	prefs      PreferenceStore
	background BackgroundLink
	notifier   event.Notifier
	clock      tracker.Clock
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewController(conf *structures.Config, logger providers.Logger, recorder Recorder, prefs PreferenceStore, background BackgroundLink, notifier event.Notifier, clock tracker.Clock, metrics providers.MetricsProviderInterface, newTicker TickerFactory) *Controller {
	unit := conf.Tracking.TickUnit
	if unit <= 0 {
		unit = time.Second
	}
	interval := conf.Tracking.DefaultInterval
	if interval == 0 {
		interval = models.DefaultInterval
	}
	return &Controller{
		interval:   models.ClampInterval(interval),
		unit:       unit,
		newTicker:  newTicker,
		recorder:   recorder,
		prefs:      prefs,
		background: background,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
		metrics:    metrics,
	}
}

// Init restores the persisted timer state and resumes counting when tracking
// was left on.
func (c *Controller) Init() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.background != nil && c.port == nil {
		c.port = c.background.Connect()
		c.portDone = make(chan struct{})
		go c.listen(c.port, c.portDone)
	}

	prefs := c.prefs.LoadTimerPreferences()
	c.interval = prefs.IntervalSeconds
	if !prefs.TrackingEnabled || c.running.Load() {
		return
	}
	c.running.Store(true)
	c.post(updateCounter(true, c.interval))
	c.armLocked()
	c.metrics.SetTracking(true)
	c.logger.Infof(providers.TypeTimer, "Resumed auto-tracking every %ds", c.interval)
	c.notify(models.NoticeTrackingResumed, "Auto-tracking resumed", fmt.Sprintf("Counting one reel every %d seconds", c.interval))
}

func (c *Controller) Start() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running.Load() {
		return false
	}
	c.running.Store(true)
	if err := c.prefs.SaveTracking(true); err != nil {
		c.logger.Errorf(providers.TypeTimer, "Error while persisting tracking flag: %s", err)
	}
	c.post(updateCounter(true, c.interval))
	c.armLocked()
	c.metrics.SetTracking(true)
	c.logger.Infof(providers.TypeTimer, "Auto-tracking started every %ds", c.interval)
	c.notify(models.NoticeTrackingStarted, "Auto-tracking started", fmt.Sprintf("Counting one reel every %d seconds", c.interval))
	return true
}

func (c *Controller) Stop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running.Load() {
		return false
	}
	c.disarmLocked()
	c.running.Store(false)
	if err := c.prefs.SaveTracking(false); err != nil {
		c.logger.Errorf(providers.TypeTimer, "Error while persisting tracking flag: %s", err)
	}
	c.metrics.SetTracking(false)
	c.post(updateCounter(false, 0))
	c.logger.Infof(providers.TypeTimer, "Auto-tracking stopped")
	c.notify(models.NoticeTrackingStopped, "Auto-tracking stopped", "Reels are no longer counted automatically")
	return true
}

// SetInterval changes the pulse period. A running pulse is replaced by one at
// the new period.
func (c *Controller) SetInterval(seconds int) error {
	if seconds < models.MinInterval || seconds > models.MaxInterval {
		return ErrInvalidInterval
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.interval = seconds
	if err := c.prefs.SaveInterval(seconds); err != nil {
		c.logger.Errorf(providers.TypeTimer, "Error while persisting interval: %s", err)
	}
	if c.running.Load() {
		c.post(updateCounter(true, seconds))
		c.armLocked()
	}
	c.logger.Infof(providers.TypeTimer, "Interval set to %ds", seconds)
	c.notify(models.NoticeIntervalChanged, "Interval changed", fmt.Sprintf("Counting one reel every %d seconds", seconds))
	return nil
}

// Suspend is called when the foreground is hidden. The local pulse is
// released and the background coordinator takes over counting.
func (c *Controller) Suspend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.suspended.Swap(true) {
		return
	}
	if c.handedOff() {
		c.disarmLocked()
	}
	c.logger.Debugf(providers.TypeTimer, "Foreground suspended")
}

func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.suspended.Swap(false) {
		return
	}
	if c.running.Load() {
		c.armLocked()
	}
	c.logger.Debugf(providers.TypeTimer, "Foreground resumed")
}

// Reload drops the local pulse and re-reads the persisted preferences, used
// after the stored data was erased.
func (c *Controller) Reload() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.disarmLocked()
	prefs := c.prefs.LoadTimerPreferences()
	c.interval = prefs.IntervalSeconds
	c.running.Store(prefs.TrackingEnabled)
	c.post(updateCounter(prefs.TrackingEnabled, prefs.IntervalSeconds))
	if prefs.TrackingEnabled {
		c.armLocked()
	}
	c.metrics.SetTracking(prefs.TrackingEnabled)
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		Running:         c.running.Load(),
		Suspended:       c.suspended.Load(),
		IntervalSeconds: c.interval,
		Background:      c.port != nil,
	}
}

// Close releases the pulse and the background port. The persisted tracking
// flag is left alone so the next Init resumes.
func (c *Controller) Close() {
	c.mu.Lock()
	c.disarmLocked()
	port, done := c.port, c.portDone
	c.port, c.portDone = nil, nil
	c.mu.Unlock()

	if port != nil {
		c.background.Disconnect(port)
		<-done
	}
}

func (c *Controller) armLocked() {
	c.disarmLocked()
	if c.handedOff() {
		return
	}
	ticker := c.newTicker(time.Duration(c.interval) * c.unit)
	c.pulse = startPulse(ticker, func(time.Time) {
		c.record(tracker.SourceTimer)
	})
}

func (c *Controller) disarmLocked() {
	if c.pulse != nil {
		c.pulse.cancel()
		c.pulse = nil
	}
}

// handedOff reports whether the background is counting instead of the local
// pulse.
func (c *Controller) handedOff() bool {
	return c.suspended.Load() && c.background != nil && c.mirrored.Load()
}

// listen records background pulses only while they replace the local pulse.
func (c *Controller) listen(port *Port, done chan<- struct{}) {
	defer close(done)
	for msg := range port.C {
		if msg.Type != models.MessageBackgroundUpdate {
			continue
		}
		if c.running.Load() && c.handedOff() {
			c.record(tracker.SourceBackground)
		}
	}
}

func (c *Controller) record(source tracker.Source) {
	_, err := c.recorder.RecordReel(source)
	if err == nil {
		return
	}
	if errors.Is(err, tracker.ErrBlocked) {
		c.logger.Debugf(providers.TypeTimer, "Pulse skipped, focus mode is active")
		return
	}
	c.logger.Errorf(providers.TypeTimer, "Error while recording %s pulse: %s", source, err)
}

func (c *Controller) post(msg models.Message) {
	if c.background == nil {
		return
	}
	accepted := c.background.Post(msg)
	c.mirrored.Store(accepted && msg.Tracking)
	if !accepted {
		c.logger.Debugf(providers.TypeTimer, "Background unavailable, timing in foreground only")
	}
}

func (c *Controller) notify(kind models.NoticeKind, title, desc string) {
	c.notifier.Notify(models.NewNotice(kind, models.SeverityNormal, title, desc, c.clock.Now()))
}
