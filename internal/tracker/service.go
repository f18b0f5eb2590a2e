package tracker

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"reelsd/internal/event"
	"reelsd/internal/models"
	"reelsd/internal/providers"
	"reelsd/internal/storage"
	"reelsd/internal/structures"
	"sync"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/crypto/bcrypt"
)

type Source string

const (
	SourceManual     Source = "manual"
	SourceTimer      Source = "timer"
	SourceBackground Source = "background"
)

type ServiceInterface interface {
	State() models.TrackerState
	RecordReel(source Source) (models.TrackerState, error)
	IsBlocked() bool
	RefreshFocus() bool
	UpdateSettings(pin string, settings Settings) (models.TrackerState, error)
	SetFocusWindow(pin string, w models.FocusWindow) (models.TrackerState, error)
	SetupPin(pin, confirm string) error
	ToggleLock(pin string) (bool, error)
	VerifyPin(pin string) bool
	Authorize(pin string) error
	ResetToday(pin string) (models.TrackerState, error)
	ResetAll(pin string, keepLimits bool) (models.TrackerState, error)
	Report(days int) models.Report
	Preferences() models.Preferences
	Snapshot() models.Snapshot
	Revision() uint64
}

// Service owns the tracker record. Every read and write goes through its
// mutex, so recorded reels are applied strictly in arrival order.
type Service struct {
	mu             sync.Mutex
	state          models.TrackerState
	prefs          models.Preferences
	blocked        bool
	revision       atomic.Uint64
	secondsPerReel int
	pinCost        int

	repo     storage.RepositoryInterface
	notifier event.Notifier
	clock    Clock
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
}

func NewService(conf *structures.Config, logger providers.Logger, repo storage.RepositoryInterface, notifier event.Notifier, clock Clock, metrics providers.MetricsProviderInterface) ServiceInterface {
	s := &Service{
		secondsPerReel: conf.Tracking.SecondsPerReel,
		pinCost:        conf.Tracking.PinCost,
		repo:           repo,
		notifier:       notifier,
		clock:          clock,
		logger:         logger,
		metrics:        metrics,
	}
	if s.secondsPerReel <= 0 {
		s.secondsPerReel = models.DefaultSecondsPerReel
	}
	if s.pinCost == 0 {
		s.pinCost = bcrypt.DefaultCost
	}
	s.load()
	return s
}

func (s *Service) load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	state, found := s.repo.LoadState(now)
	s.state = state
	s.prefs = s.repo.LoadPreferences()
	if !found {
		s.state.History[DateKey(now)] = models.DayStats{}
		s.logger.Infof(providers.TypeTracker, "Starting with a fresh tracker state")
		s.persistLocked()
	}
	s.reconcileLocked(now)
	s.blocked = IsBlocked(s.state.FocusWindow, now)
	s.observeLocked()
}

func (s *Service) State() models.TrackerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconcileLocked(s.clock.Now())
	return s.state.Clone()
}

// RecordReel counts one reel. It is rejected with ErrBlocked while the focus
// window is active; the returned state is current either way.
func (s *Service) RecordReel(source Source) (models.TrackerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if IsBlocked(s.state.FocusWindow, now) {
		s.metrics.IncBlocked()
		s.logger.Debugf(providers.TypeTracker, "Rejected %s reel, focus mode is active", source)
		s.notifyLocked(models.NoticeFocusBlocked, models.SeverityDestructive,
			"Focus mode active", "Reel counting is paused until "+s.state.FocusWindow.EndTime, now)
		return s.state.Clone(), ErrBlocked
	}

	s.reconcileLocked(now)

	prevReels, prevTime := s.state.ReelsWatched, s.state.TimeSpent
	s.state.ReelsWatched++
	s.state.TimeSpent += s.secondsPerReel
	if now.After(s.state.LastUpdated) {
		s.state.LastUpdated = now
	}
	s.state.History[bucketKey(s.state, now)] = models.DayStats{
		ReelsWatched: s.state.ReelsWatched,
		TimeSpent:    s.state.TimeSpent,
	}
	s.revision.Inc()
	s.persistLocked()
	s.metrics.IncReels(string(source))
	s.observeLocked()

	if s.prefs.AlertsEnabled {
		if prevReels < s.state.ReelsLimit && s.state.ReelsWatched >= s.state.ReelsLimit {
			s.notifyLocked(models.NoticeReelsLimit, models.SeverityDestructive, "Daily limit reached",
				fmt.Sprintf("You've watched %d reels today", s.state.ReelsWatched), now)
		}
		if prevTime < s.state.TimeLimit && s.state.TimeSpent >= s.state.TimeLimit {
			s.notifyLocked(models.NoticeTimeLimit, models.SeverityDestructive, "Time limit reached",
				fmt.Sprintf("You've spent %d minutes on reels today", s.state.TimeSpent/60), now)
		}
	}
	return s.state.Clone(), nil
}

func (s *Service) IsBlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return IsBlocked(s.state.FocusWindow, s.clock.Now())
}

// RefreshFocus re-evaluates the focus window and announces transitions.
func (s *Service) RefreshFocus() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	blocked := IsBlocked(s.state.FocusWindow, now)
	if blocked != s.blocked {
		s.blocked = blocked
		if blocked {
			s.notifyLocked(models.NoticeFocusChanged, models.SeverityNormal, "Focus mode started",
				"Reels are blocked until "+s.state.FocusWindow.EndTime, now)
		} else {
			s.notifyLocked(models.NoticeFocusChanged, models.SeverityNormal, "Focus mode ended",
				"Reel counting is available again", now)
		}
	}
	return blocked
}

func (s *Service) UpdateSettings(pin string, settings Settings) (models.TrackerState, error) {
	if err := settings.Validate(); err != nil {
		return models.TrackerState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if err := s.authorizeLocked(pin, now); err != nil {
		return s.state.Clone(), err
	}
	s.reconcileLocked(now)

	s.state.ReelsLimit = settings.ReelsLimit
	s.state.TimeLimit = settings.TimeLimit
	s.prefs = models.Preferences{
		AlertsEnabled:    settings.AlertsEnabled,
		VibrationEnabled: settings.VibrationEnabled,
		StreakGoal:       settings.StreakGoal,
	}
	if err := s.repo.SavePreferences(s.prefs); err != nil {
		s.logger.Errorf(providers.TypeTracker, "Error while persisting preferences: %s", err)
	}
	s.revision.Inc()
	s.persistLocked()
	s.notifyLocked(models.NoticeSettingsSaved, models.SeverityNormal, "Settings Saved",
		"Your preferences have been updated", now)
	return s.state.Clone(), nil
}

func (s *Service) SetFocusWindow(pin string, w models.FocusWindow) (models.TrackerState, error) {
	w, err := ValidateFocusWindow(w)
	if err != nil {
		return models.TrackerState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if err := s.authorizeLocked(pin, now); err != nil {
		return s.state.Clone(), err
	}
	s.reconcileLocked(now)

	s.state.FocusWindow = w
	s.revision.Inc()
	s.persistLocked()
	s.blocked = IsBlocked(w, now)

	desc := "Focus mode disabled"
	if w.Enabled {
		desc = fmt.Sprintf("Reels blocked %s-%s", w.StartTime, w.EndTime)
	}
	s.notifyLocked(models.NoticeFocusChanged, models.SeverityNormal, "Focus mode updated", desc, now)
	return s.state.Clone(), nil
}

// SetupPin stores a new PIN and turns the lock on. While the lock is on the
// PIN can only be replaced after disabling it with ToggleLock.
func (s *Service) SetupPin(pin, confirm string) error {
	if err := validatePin(pin); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if s.state.ParentalLock.Enabled {
		return ErrLocked
	}
	if subtle.ConstantTimeCompare([]byte(pin), []byte(confirm)) != 1 {
		s.notifyLocked(models.NoticePinMismatch, models.SeverityDestructive, "PINs don't match", "Please try again", now)
		return ErrPinConfirmation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), s.pinCost)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	if err = s.repo.SavePinHash(hash); err != nil {
		return fmt.Errorf("store pin: %w", err)
	}

	s.state.ParentalLock.Enabled = true
	s.revision.Inc()
	s.persistLocked()
	s.notifyLocked(models.NoticeLockChanged, models.SeverityNormal, "Parental Control Enabled",
		"PIN has been set successfully", now)
	return nil
}

// ToggleLock flips the parental lock after checking the PIN and returns the new flag.
func (s *Service) ToggleLock(pin string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if !s.verifyLocked(pin) {
		s.notifyLocked(models.NoticePinMismatch, models.SeverityDestructive, "Incorrect PIN", "Please try again", now)
		return s.state.ParentalLock.Enabled, ErrPinMismatch
	}

	s.state.ParentalLock.Enabled = !s.state.ParentalLock.Enabled
	s.revision.Inc()
	s.persistLocked()
	if s.state.ParentalLock.Enabled {
		s.notifyLocked(models.NoticeLockChanged, models.SeverityNormal, "Parental Control Enabled", "PIN protection active", now)
	} else {
		s.notifyLocked(models.NoticeLockChanged, models.SeverityNormal, "Parental Control Disabled", "PIN protection removed", now)
	}
	return s.state.ParentalLock.Enabled, nil
}

func (s *Service) VerifyPin(pin string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verifyLocked(pin)
}

// Authorize checks pin against the parental lock the same way a protected
// operation would. It is a no-op while the lock is off.
func (s *Service) Authorize(pin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authorizeLocked(pin, s.clock.Now())
}

// ResetToday clears the current day bucket. History of earlier days and the
// streak are kept.
func (s *Service) ResetToday(pin string) (models.TrackerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if err := s.authorizeLocked(pin, now); err != nil {
		return s.state.Clone(), err
	}
	s.reconcileLocked(now)

	s.state.ReelsWatched = 0
	s.state.TimeSpent = 0
	s.state.History[bucketKey(s.state, now)] = models.DayStats{}
	s.revision.Inc()
	s.persistLocked()
	s.observeLocked()
	s.notifyLocked(models.NoticeTodayReset, models.SeverityNormal, "Today Reset", "Today's counters are back to zero", now)
	return s.state.Clone(), nil
}

// ResetAll erases every stored key and starts over with defaults, optionally
// carrying the configured limits over.
func (s *Service) ResetAll(pin string, keepLimits bool) (models.TrackerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if err := s.authorizeLocked(pin, now); err != nil {
		return s.state.Clone(), err
	}
	if err := s.repo.EraseAll(); err != nil {
		return s.state.Clone(), err
	}

	fresh := models.NewTrackerState(now)
	if keepLimits {
		fresh.ReelsLimit = s.state.ReelsLimit
		fresh.TimeLimit = s.state.TimeLimit
	}
	fresh.History[DateKey(now)] = models.DayStats{}
	s.state = fresh
	s.prefs = models.DefaultPreferences()
	s.blocked = false
	s.revision.Inc()
	s.persistLocked()
	s.observeLocked()
	s.notifyLocked(models.NoticeDataReset, models.SeverityDestructive, "All Data Reset",
		"Your tracking data has been reset", now)
	return s.state.Clone(), nil
}

func (s *Service) Preferences() models.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

func (s *Service) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconcileLocked(s.clock.Now())
	return models.Snapshot{
		State:       s.state.Clone(),
		Timer:       s.repo.LoadTimerPreferences(),
		Preferences: s.prefs,
	}
}

// Revision changes whenever the tracker record does.
func (s *Service) Revision() uint64 {
	return s.revision.Load()
}

func (s *Service) reconcileLocked(now time.Time) {
	next, rolled := Reconcile(s.state, now)
	if !rolled {
		return
	}
	s.state = next
	s.revision.Inc()
	s.metrics.IncRollovers()
	s.logger.Infof(providers.TypeTracker, "Rolled over to %s, streak %d", DateKey(now), next.StreakDays)
	s.persistLocked()
	s.observeLocked()

	n := s.newNoticeLocked(models.NoticeDailyReset, models.SeverityNormal, "New day started",
		fmt.Sprintf("Day streak: %d", next.StreakDays), now)
	n.Streak = next.StreakDays
	s.notifier.Notify(n)
	if next.StreakDays == s.prefs.StreakGoal {
		g := s.newNoticeLocked(models.NoticeStreakGoal, models.SeverityNormal, "Streak goal reached",
			fmt.Sprintf("%d days in a row", next.StreakDays), now)
		g.Streak = next.StreakDays
		s.notifier.Notify(g)
	}
}

func (s *Service) authorizeLocked(pin string, now time.Time) error {
	if !s.state.ParentalLock.Enabled {
		return nil
	}
	if pin == "" {
		return ErrLocked
	}
	if !s.verifyLocked(pin) {
		s.notifyLocked(models.NoticePinMismatch, models.SeverityDestructive, "Incorrect PIN", "Please try again", now)
		return ErrPinMismatch
	}
	return nil
}

func (s *Service) verifyLocked(pin string) bool {
	hash, err := s.repo.PinHash()
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.logger.Errorf(providers.TypeTracker, "Unable to read pin: %s", err)
			return false
		}
		return subtle.ConstantTimeCompare([]byte(pin), []byte(models.DefaultPin)) == 1
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(pin)) == nil
}

func (s *Service) persistLocked() {
	if err := s.repo.SaveState(s.state); err != nil {
		s.logger.Errorf(providers.TypeTracker, "Error while persisting tracker state: %s", err)
	}
}

func (s *Service) observeLocked() {
	s.metrics.SetToday(s.state.ReelsWatched, s.state.TimeSpent)
	s.metrics.SetStreak(s.state.StreakDays)
}

func (s *Service) newNoticeLocked(kind models.NoticeKind, severity models.Severity, title, desc string, now time.Time) models.Notice {
	n := models.NewNotice(kind, severity, title, desc, now)
	n.Vibrate = s.prefs.AlertsEnabled && s.prefs.VibrationEnabled
	return n
}

func (s *Service) notifyLocked(kind models.NoticeKind, severity models.Severity, title, desc string, now time.Time) {
	s.notifier.Notify(s.newNoticeLocked(kind, severity, title, desc, now))
}
